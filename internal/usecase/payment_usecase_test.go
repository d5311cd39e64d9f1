package usecase_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"storefront/internal/domain/model"
	"storefront/internal/usecase"
	"storefront/internal/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type fixedIDGen struct{ id string }

func (g *fixedIDGen) NewID() string { return g.id }

type fixedClock struct{ now time.Time }

func (c *fixedClock) Now() time.Time { return c.now }

func newPaymentFixture() (*txReposStub, *usecase.PaymentUsecase) {
	stub := &txReposStub{
		orders:    new(OrdOrderRepoMock),
		items:     new(OrdOrderItemRepoMock),
		carts:     new(CartRepoMock),
		cartItems: new(CartItemRepoMock),
		inventory: new(OrdInventoryRepoMock),
		products:  new(CartProductRepoMock),
		users:     new(OrdUserRepoMock),
	}
	uc := usecase.NewPaymentUsecase(
		&txManagerStub{repos: stub},
		stub.orders,
		validator.NewPaymentValidator(),
		&fixedIDGen{id: "a1b2c3d4-0000-0000-0000-000000000000"},
		&fixedClock{now: time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)},
	)
	return stub, uc
}

func paypalForm() validator.PaymentForm {
	return validator.PaymentForm{Method: "paypal", PaypalEmail: "alice@example.com"}
}

func TestPaymentUsecase_PayOrder_ValidationBlocksPayment(t *testing.T) {
	stub, uc := newPaymentFixture()

	_, err := uc.PayOrder(context.Background(), 1, 7, validator.PaymentForm{
		Method:      "paypal",
		PaypalEmail: "not-an-email",
	})

	fieldErrs, ok := err.(validator.FieldErrors)
	assert.True(t, ok)
	assert.Contains(t, fieldErrs, "paypal_email")
	//決済どころか注文の参照もしない
	stub.orders.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	stub.orders.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPaymentUsecase_PayOrder_HappyPath(t *testing.T) {
	stub, uc := newPaymentFixture()
	paidAt := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	stub.orders.On("FindByID", mock.Anything, int64(7)).Return(model.Order{
		ID: 7, UserID: 1, Status: model.OrderStatusPending,
		PaymentStatus: model.PaymentStatusUnpaid, TotalPrice: 12100,
	}, nil)
	stub.orders.On("MarkPaid", mock.Anything, int64(7), model.PaymentMethodPaypal, "TXN-A1B2C3D4", paidAt).Return(true, nil)
	stub.users.On("FindByID", mock.Anything, int64(1)).Return(&model.User{
		ID: 1, TotalSpent: 10000, TotalPurchases: 2, LoyaltyPoints: 100,
		MembershipTier: model.TierBronze,
	}, nil)
	stub.users.On("Update", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		// 12100 / 100 = 121ポイント加算、累計 22100 でSILVERに昇格
		return u.TotalSpent == 22100 && u.TotalPurchases == 3 &&
			u.LoyaltyPoints == 221 && u.MembershipTier == model.TierSilver &&
			u.LastPurchaseAt != nil
	})).Return(nil)

	out, err := uc.PayOrder(context.Background(), 1, 7, paypalForm())

	assert.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPaid, out.PaymentStatus)
	assert.Equal(t, model.OrderStatusProcessing, out.Status)
	assert.Equal(t, "TXN-A1B2C3D4", out.TransactionID)
	stub.orders.AssertExpectations(t)
	stub.users.AssertExpectations(t)
}

func TestPaymentUsecase_PayOrder_AlreadyPaid(t *testing.T) {
	stub, uc := newPaymentFixture()

	stub.orders.On("FindByID", mock.Anything, int64(7)).Return(model.Order{
		ID: 7, UserID: 1, PaymentStatus: model.PaymentStatusPaid,
	}, nil)

	_, err := uc.PayOrder(context.Background(), 1, 7, paypalForm())

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusConflict, he.Status)
	stub.orders.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPaymentUsecase_PayOrder_LosesRaceReturnsConflict(t *testing.T) {
	stub, uc := newPaymentFixture()
	paidAt := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	//読み取り時はUNPAIDだったが、更新時には別リクエストが先に支払い済み
	stub.orders.On("FindByID", mock.Anything, int64(7)).Return(model.Order{
		ID: 7, UserID: 1, PaymentStatus: model.PaymentStatusUnpaid,
	}, nil)
	stub.orders.On("MarkPaid", mock.Anything, int64(7), model.PaymentMethodPaypal, "TXN-A1B2C3D4", paidAt).Return(false, nil)

	_, err := uc.PayOrder(context.Background(), 1, 7, paypalForm())

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusConflict, he.Status)
	stub.users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestPaymentUsecase_PayOrder_ForeignOrderIs404(t *testing.T) {
	stub, uc := newPaymentFixture()

	stub.orders.On("FindByID", mock.Anything, int64(7)).Return(model.Order{
		ID: 7, UserID: 2, PaymentStatus: model.PaymentStatusUnpaid,
	}, nil)

	_, err := uc.PayOrder(context.Background(), 1, 7, paypalForm())

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Status)
}

func TestPaymentUsecase_PayOrder_CanceledOrder(t *testing.T) {
	stub, uc := newPaymentFixture()

	stub.orders.On("FindByID", mock.Anything, int64(7)).Return(model.Order{
		ID: 7, UserID: 1, Status: model.OrderStatusCanceled, PaymentStatus: model.PaymentStatusUnpaid,
	}, nil)

	_, err := uc.PayOrder(context.Background(), 1, 7, paypalForm())

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusConflict, he.Status)
}
