package usecase_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
	"storefront/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// Mocks
// =====================

type OrdOrderRepoMock struct{ mock.Mock }

func (m *OrdOrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrdOrderRepoMock) ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error) {
	args := m.Called(ctx, userID, page, limit)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *OrdOrderRepoMock) Create(ctx context.Context, order model.Order) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrdOrderRepoMock) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

func (m *OrdOrderRepoMock) MarkPaid(ctx context.Context, orderID int64, method model.PaymentMethod, transactionID string, paidAt time.Time) (bool, error) {
	args := m.Called(ctx, orderID, method, transactionID, paidAt)
	return args.Bool(0), args.Error(1)
}

func (m *OrdOrderRepoMock) FindByIdempotencyKey(ctx context.Context, userID int64, key string) (model.Order, bool, error) {
	args := m.Called(ctx, userID, key)
	o, _ := args.Get(0).(model.Order)
	return o, args.Bool(1), args.Error(2)
}

func (m *OrdOrderRepoMock) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]model.Order, int64, error) {
	args := m.Called(ctx, f)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

type OrdOrderItemRepoMock struct{ mock.Mock }

func (m *OrdOrderItemRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

func (m *OrdOrderItemRepoMock) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

type OrdInventoryRepoMock struct{ mock.Mock }

func (m *OrdInventoryRepoMock) SetStock(ctx context.Context, productID int64, newStock int64) error {
	panic("not used in OrderUsecase tests")
}

func (m *OrdInventoryRepoMock) DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error) {
	args := m.Called(ctx, productID, qty)
	return args.Bool(0), args.Error(1)
}

func (m *OrdInventoryRepoMock) IncreaseStock(ctx context.Context, productID int64, qty int64) error {
	args := m.Called(ctx, productID, qty)
	return args.Error(0)
}

func (m *OrdInventoryRepoMock) CreateAdjustment(ctx context.Context, adj model.InventoryAdjustment) error {
	panic("not used in OrderUsecase tests")
}

type OrdUserRepoMock struct{ mock.Mock }

func (m *OrdUserRepoMock) Create(ctx context.Context, user *model.User) error {
	panic("not used")
}

func (m *OrdUserRepoMock) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *OrdUserRepoMock) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	panic("not used")
}

func (m *OrdUserRepoMock) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *OrdUserRepoMock) IncrementTokenVersion(ctx context.Context, userID int64) error {
	panic("not used")
}

func (m *OrdUserRepoMock) ListCustomers(ctx context.Context, q repo.CustomerListQuery) ([]model.User, int64, error) {
	panic("not used")
}

// WithinTxのfnに同じモック一式を渡すだけのTxRepos
type txReposStub struct {
	orders    *OrdOrderRepoMock
	items     *OrdOrderItemRepoMock
	carts     *CartRepoMock
	cartItems *CartItemRepoMock
	inventory *OrdInventoryRepoMock
	products  *CartProductRepoMock
	users     *OrdUserRepoMock
}

func (s *txReposStub) Orders() repo.OrderRepository         { return s.orders }
func (s *txReposStub) OrderItems() repo.OrderItemRepository { return s.items }
func (s *txReposStub) Carts() repo.CartRepository           { return s.carts }
func (s *txReposStub) CartItems() repo.CartItemRepository   { return s.cartItems }
func (s *txReposStub) Inventory() repo.InventoryRepository  { return s.inventory }
func (s *txReposStub) Products() repo.ProductRepository     { return s.products }
func (s *txReposStub) Users() repo.UserRepository           { return s.users }

type txManagerStub struct {
	repos *txReposStub
}

func (t *txManagerStub) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return fn(t.repos)
}

func newOrderFixture() (*txReposStub, *usecase.OrderUsecase) {
	stub := &txReposStub{
		orders:    new(OrdOrderRepoMock),
		items:     new(OrdOrderItemRepoMock),
		carts:     new(CartRepoMock),
		cartItems: new(CartItemRepoMock),
		inventory: new(OrdInventoryRepoMock),
		products:  new(CartProductRepoMock),
		users:     new(OrdUserRepoMock),
	}
	uc := usecase.NewOrderUsecase(
		&txManagerStub{repos: stub},
		stub.orders,
		stub.items,
		stub.carts,
		stub.cartItems,
		stub.products,
	)
	return stub, uc
}

// =====================
// PlaceOrder
// =====================

func TestOrderUsecase_PlaceOrder_EmptyCart(t *testing.T) {
	stub, uc := newOrderFixture()

	stub.orders.On("FindByIdempotencyKey", mock.Anything, int64(1), "key-1").Return(model.Order{}, false, nil)
	stub.carts.On("FindActiveByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 99}, nil)
	stub.cartItems.On("ListByCartID", mock.Anything, int64(99)).Return([]model.CartItem{}, nil)

	_, err := uc.PlaceOrder(context.Background(), 1, usecase.PlaceOrderInput{IdempotencyKey: "key-1"})

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
	//Txは開始されず、注文は作られない
	stub.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestOrderUsecase_PlaceOrder_MissingIdempotencyKey(t *testing.T) {
	_, uc := newOrderFixture()

	_, err := uc.PlaceOrder(context.Background(), 1, usecase.PlaceOrderInput{IdempotencyKey: "  "})

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
}

func TestOrderUsecase_PlaceOrder_ReplaysSameKey(t *testing.T) {
	stub, uc := newOrderFixture()

	existing := model.Order{ID: 77, UserID: 1, Status: model.OrderStatusPending, TotalPrice: 6000}
	stub.orders.On("FindByIdempotencyKey", mock.Anything, int64(1), "key-1").Return(existing, true, nil)
	stub.items.On("ListByOrderID", mock.Anything, int64(77)).Return([]model.OrderItem{}, nil)

	out, err := uc.PlaceOrder(context.Background(), 1, usecase.PlaceOrderInput{IdempotencyKey: "key-1"})

	assert.NoError(t, err)
	assert.Equal(t, int64(77), out.ID)
	stub.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestOrderUsecase_PlaceOrder_HappyPath(t *testing.T) {
	stub, uc := newOrderFixture()

	stub.orders.On("FindByIdempotencyKey", mock.Anything, int64(1), "key-1").Return(model.Order{}, false, nil)
	stub.carts.On("FindActiveByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 99}, nil)
	stub.cartItems.On("ListByCartID", mock.Anything, int64(99)).Return([]model.CartItem{
		{ID: 1, CartID: 99, ProductID: 10, Quantity: 2, UnitPriceSnapshot: 1000},
	}, nil)
	stub.products.On("FindByID", mock.Anything, int64(10)).Return(model.Product{ID: 10, Name: "Earbuds", Price: 1200, Stock: 5, IsActive: true}, nil)
	stub.inventory.On("DecreaseStockIfEnough", mock.Anything, int64(10), int64(2)).Return(true, nil)
	stub.orders.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		//カート追加時のスナップショット価格で計算する（現在価格1200ではなく1000）
		return o.Subtotal == 2000 && o.Tax == 200 && o.ShippingFee == 500 && o.TotalPrice == 2700 &&
			o.Status == model.OrderStatusPending && o.PaymentStatus == model.PaymentStatusUnpaid
	})).Return(int64(55), nil)
	stub.items.On("CreateBulk", mock.Anything, int64(55), mock.MatchedBy(func(items []model.OrderItem) bool {
		return len(items) == 1 && items[0].ProductNameSnapshot == "Earbuds" && items[0].UnitPriceSnapshot == 1000
	})).Return(nil)
	stub.carts.On("UpdateStatus", mock.Anything, int64(99), model.CartStatusCheckedOut).Return(nil)
	stub.carts.On("Clear", mock.Anything, int64(99)).Return(nil)
	stub.orders.On("FindByID", mock.Anything, int64(55)).Return(model.Order{
		ID: 55, UserID: 1, Status: model.OrderStatusPending, PaymentStatus: model.PaymentStatusUnpaid,
		Subtotal: 2000, Tax: 200, ShippingFee: 500, TotalPrice: 2700,
	}, nil)

	out, err := uc.PlaceOrder(context.Background(), 1, usecase.PlaceOrderInput{IdempotencyKey: "key-1"})

	assert.NoError(t, err)
	assert.Equal(t, int64(55), out.ID)
	assert.Equal(t, int64(2700), out.TotalPrice)
	stub.orders.AssertExpectations(t)
	stub.carts.AssertExpectations(t)
}

func TestOrderUsecase_PlaceOrder_InsufficientStockRollsBack(t *testing.T) {
	stub, uc := newOrderFixture()

	stub.orders.On("FindByIdempotencyKey", mock.Anything, int64(1), "key-1").Return(model.Order{}, false, nil)
	stub.carts.On("FindActiveByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 99}, nil)
	stub.cartItems.On("ListByCartID", mock.Anything, int64(99)).Return([]model.CartItem{
		{ID: 1, CartID: 99, ProductID: 10, Quantity: 5, UnitPriceSnapshot: 1000},
	}, nil)
	stub.products.On("FindByID", mock.Anything, int64(10)).Return(model.Product{ID: 10, Name: "Earbuds", Stock: 1, IsActive: true}, nil)
	stub.inventory.On("DecreaseStockIfEnough", mock.Anything, int64(10), int64(5)).Return(false, nil)

	_, err := uc.PlaceOrder(context.Background(), 1, usecase.PlaceOrderInput{IdempotencyKey: "key-1"})

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusConflict, he.Status)
	stub.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// =====================
// GetMyOrderDetail
// =====================

func TestOrderUsecase_GetMyOrderDetail_ForeignOrderIs404(t *testing.T) {
	stub, uc := newOrderFixture()

	stub.orders.On("FindByID", mock.Anything, int64(7)).Return(model.Order{ID: 7, UserID: 2}, nil)

	_, err := uc.GetMyOrderDetail(context.Background(), 1, 7)

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Status)
}

func TestOrderUsecase_GetMyOrderDetail_NotFound(t *testing.T) {
	stub, uc := newOrderFixture()

	stub.orders.On("FindByID", mock.Anything, int64(7)).Return(model.Order{}, repo.ErrNotFound)

	_, err := uc.GetMyOrderDetail(context.Background(), 1, 7)

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Status)
}
