package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
	"storefront/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// Mocks（衝突回避の命名）
// =====================

type CartRepoMock struct{ mock.Mock }

func (m *CartRepoMock) GetOrCreateActiveByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CartRepoMock) FindActiveByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CartRepoMock) UpdateStatus(ctx context.Context, cartID int64, status model.CartStatus) error {
	args := m.Called(ctx, cartID, status)
	return args.Error(0)
}

func (m *CartRepoMock) Clear(ctx context.Context, cartID int64) error {
	args := m.Called(ctx, cartID)
	return args.Error(0)
}

type CartItemRepoMock struct{ mock.Mock }

func (m *CartItemRepoMock) ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error) {
	args := m.Called(ctx, cartID)
	items, _ := args.Get(0).([]model.CartItem)
	return items, args.Error(1)
}

func (m *CartItemRepoMock) UpsertByCartAndProduct(ctx context.Context, cartID int64, productID int64, addQty int64, unitPriceSnapshot int64) error {
	args := m.Called(ctx, cartID, productID, addQty, unitPriceSnapshot)
	return args.Error(0)
}

func (m *CartItemRepoMock) UpdateQuantity(ctx context.Context, cartItemID int64, qty int64) error {
	args := m.Called(ctx, cartItemID, qty)
	return args.Error(0)
}

func (m *CartItemRepoMock) DeleteByID(ctx context.Context, cartItemID int64) error {
	args := m.Called(ctx, cartItemID)
	return args.Error(0)
}

func (m *CartItemRepoMock) FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error) {
	args := m.Called(ctx, cartItemID)
	item, _ := args.Get(0).(model.CartItem)
	return item, args.Error(1)
}

func (m *CartItemRepoMock) IsOwnedByUser(ctx context.Context, cartItemID int64, userID int64) (bool, error) {
	args := m.Called(ctx, cartItemID, userID)
	return args.Bool(0), args.Error(1)
}

type CartProductRepoMock struct{ mock.Mock }

func (m *CartProductRepoMock) ListPublic(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	panic("not used in CartUsecase tests")
}

func (m *CartProductRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *CartProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	panic("not used in CartUsecase tests")
}

func (m *CartProductRepoMock) Update(ctx context.Context, p model.Product) error {
	panic("not used in CartUsecase tests")
}

func (m *CartProductRepoMock) SoftDelete(ctx context.Context, id int64) error {
	panic("not used in CartUsecase tests")
}

// =====================
// AddToCart
// =====================

func TestCartUsecase_AddToCart_QuantityBelowOne(t *testing.T) {
	uc := usecase.NewCartUsecase(new(CartRepoMock), new(CartItemRepoMock), new(CartProductRepoMock))

	_, err := uc.AddToCart(context.Background(), 1, usecase.AddToCartInput{ProductID: 10, Quantity: 0})

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
}

func TestCartUsecase_AddToCart_SnapshotsCurrentPrice(t *testing.T) {
	cartRepo := new(CartRepoMock)
	itemRepo := new(CartItemRepoMock)
	productRepo := new(CartProductRepoMock)

	productRepo.On("FindByID", mock.Anything, int64(10)).Return(model.Product{
		ID: 10, Name: "Earbuds", Price: 7900, Stock: 5, IsActive: true,
	}, nil)
	cartRepo.On("GetOrCreateActiveByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 99, UserID: 1, Status: model.CartStatusActive}, nil)
	itemRepo.On("UpsertByCartAndProduct", mock.Anything, int64(99), int64(10), int64(2), int64(7900)).Return(nil)
	itemRepo.On("ListByCartID", mock.Anything, int64(99)).Return([]model.CartItem{
		{ID: 1, CartID: 99, ProductID: 10, Quantity: 2, UnitPriceSnapshot: 7900},
	}, nil)

	uc := usecase.NewCartUsecase(cartRepo, itemRepo, productRepo)
	out, err := uc.AddToCart(context.Background(), 1, usecase.AddToCartInput{ProductID: 10, Quantity: 2})

	assert.NoError(t, err)
	assert.Equal(t, int64(15800), out.Subtotal)
	itemRepo.AssertExpectations(t)
}

func TestCartUsecase_AddToCart_InsufficientStock(t *testing.T) {
	cartRepo := new(CartRepoMock)
	itemRepo := new(CartItemRepoMock)
	productRepo := new(CartProductRepoMock)

	productRepo.On("FindByID", mock.Anything, int64(10)).Return(model.Product{
		ID: 10, Price: 7900, Stock: 1, IsActive: true,
	}, nil)

	uc := usecase.NewCartUsecase(cartRepo, itemRepo, productRepo)
	_, err := uc.AddToCart(context.Background(), 1, usecase.AddToCartInput{ProductID: 10, Quantity: 3})

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusConflict, he.Status)
	itemRepo.AssertNotCalled(t, "UpsertByCartAndProduct", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCartUsecase_AddToCart_InactiveProductHidden(t *testing.T) {
	productRepo := new(CartProductRepoMock)
	productRepo.On("FindByID", mock.Anything, int64(10)).Return(model.Product{
		ID: 10, Price: 7900, Stock: 5, IsActive: false,
	}, nil)

	uc := usecase.NewCartUsecase(new(CartRepoMock), new(CartItemRepoMock), productRepo)
	_, err := uc.AddToCart(context.Background(), 1, usecase.AddToCartInput{ProductID: 10, Quantity: 1})

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Status)
}

// =====================
// UpdateCartItem / DeleteCartItem
// =====================

func TestCartUsecase_UpdateCartItem_QuantityBelowOne(t *testing.T) {
	uc := usecase.NewCartUsecase(new(CartRepoMock), new(CartItemRepoMock), new(CartProductRepoMock))

	//0にしたいなら削除APIを使う
	_, err := uc.UpdateCartItem(context.Background(), 1, 5, 0)

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
}

func TestCartUsecase_UpdateCartItem_NotOwned(t *testing.T) {
	itemRepo := new(CartItemRepoMock)
	itemRepo.On("IsOwnedByUser", mock.Anything, int64(5), int64(1)).Return(false, nil)

	uc := usecase.NewCartUsecase(new(CartRepoMock), itemRepo, new(CartProductRepoMock))
	_, err := uc.UpdateCartItem(context.Background(), 1, 5, 2)

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Status)
}

func TestCartUsecase_DeleteCartItem_RemovesLine(t *testing.T) {
	itemRepo := new(CartItemRepoMock)
	itemRepo.On("IsOwnedByUser", mock.Anything, int64(5), int64(1)).Return(true, nil)
	itemRepo.On("FindByID", mock.Anything, int64(5)).Return(model.CartItem{ID: 5, CartID: 99, ProductID: 10, Quantity: 1, UnitPriceSnapshot: 1000}, nil)
	itemRepo.On("DeleteByID", mock.Anything, int64(5)).Return(nil)
	itemRepo.On("ListByCartID", mock.Anything, int64(99)).Return([]model.CartItem{}, nil)

	uc := usecase.NewCartUsecase(new(CartRepoMock), itemRepo, new(CartProductRepoMock))
	out, err := uc.DeleteCartItem(context.Background(), 1, 5)

	assert.NoError(t, err)
	assert.Empty(t, out.Items)
	assert.Equal(t, int64(0), out.GrandTotal)
	itemRepo.AssertExpectations(t)
}

func TestCartUsecase_GetCart_EmptyHasNoShipping(t *testing.T) {
	cartRepo := new(CartRepoMock)
	itemRepo := new(CartItemRepoMock)

	cartRepo.On("GetOrCreateActiveByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 99}, nil)
	itemRepo.On("ListByCartID", mock.Anything, int64(99)).Return([]model.CartItem{}, nil)

	uc := usecase.NewCartUsecase(cartRepo, itemRepo, new(CartProductRepoMock))
	out, err := uc.GetCart(context.Background(), 1)

	assert.NoError(t, err)
	assert.Equal(t, int64(0), out.ShippingFee)
}
