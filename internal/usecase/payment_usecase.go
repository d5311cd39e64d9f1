package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
	"storefront/internal/validator"
)

// トランザクションID生成（uuid）とテスト用の時計
type PaymentIDGenerator interface {
	NewID() string
}

type PaymentClock interface {
	Now() time.Time
}

type PaymentUsecase struct {
	txManager repo.TransactionManager
	orderRepo repo.OrderRepository
	pv        *validator.PaymentValidator
	idGen     PaymentIDGenerator
	clock     PaymentClock
}

// DI
func NewPaymentUsecase(
	txManager repo.TransactionManager,
	orderRepo repo.OrderRepository,
	pv *validator.PaymentValidator,
	idGen PaymentIDGenerator,
	clock PaymentClock,
) *PaymentUsecase {
	return &PaymentUsecase{
		txManager: txManager,
		orderRepo: orderRepo,
		pv:        pv,
		idGen:     idGen,
		clock:     clock,
	}
}

type PayOrderOutput struct {
	OrderID       int64               `json:"order_id"`
	PaymentStatus model.PaymentStatus `json:"payment_status"`
	Status        model.OrderStatus   `json:"status"`
	TransactionID string              `json:"transaction_id"`
	PaidAt        time.Time           `json:"paid_at"`
}

// PayOrder は支払いを確定する。UNPAID→PAIDは一度だけ。
// バリデーションに通らない限り決済処理には進まない。
func (u *PaymentUsecase) PayOrder(ctx context.Context, userID int64, orderID int64, form validator.PaymentForm) (PayOrderOutput, error) {
	if userID <= 0 {
		return PayOrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return PayOrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	if errs := u.pv.Validate(form); errs != nil {
		return PayOrderOutput{}, errs
	}

	o, err := u.orderRepo.FindByID(ctx, orderID)
	if err == repo.ErrNotFound {
		return PayOrderOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return PayOrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if o.UserID != userID {
		return PayOrderOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if o.PaymentStatus == model.PaymentStatusPaid {
		return PayOrderOutput{}, NewHTTPError(http.StatusConflict, "already paid")
	}
	if o.Status == model.OrderStatusCanceled {
		return PayOrderOutput{}, NewHTTPError(http.StatusConflict, "order canceled")
	}

	method := model.PaymentMethod(form.Method)
	transactionID := "TXN-" + strings.ToUpper(u.idGen.NewID()[:8])
	paidAt := u.clock.Now()

	var out PayOrderOutput
	err = u.txManager.WithinTx(ctx, func(r repo.TxRepos) error {
		//UNPAID行だけを更新。並行PAYでも勝者は1人。
		ok, err := r.Orders().MarkPaid(ctx, orderID, method, transactionID, paidAt)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !ok {
			return NewHTTPError(http.StatusConflict, "already paid")
		}

		//購入実績とロイヤルティを更新
		user, err := r.Users().FindByID(ctx, userID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if user != nil {
			user.TotalPurchases++
			user.TotalSpent += o.TotalPrice
			//100につき1ポイント
			user.LoyaltyPoints += o.TotalPrice / 100
			user.MembershipTier = model.TierForTotalSpent(user.TotalSpent)
			user.LastPurchaseAt = &paidAt
			if err := r.Users().Update(ctx, user); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}

		out = PayOrderOutput{
			OrderID:       orderID,
			PaymentStatus: model.PaymentStatusPaid,
			Status:        model.OrderStatusProcessing,
			TransactionID: transactionID,
			PaidAt:        paidAt,
		}
		return nil
	})
	if err != nil {
		if _, ok := AsHTTPError(err); ok {
			return PayOrderOutput{}, err
		}
		return PayOrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return out, nil
}
