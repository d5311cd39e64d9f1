package usecase

import (
	"context"
	"net/http"
	"strings"

	"storefront/internal/domain/model"
	"storefront/internal/domain/pricing"
	repo "storefront/internal/repository"
)

type OrderUsecase struct {
	txManager     repo.TransactionManager
	orderRepo     repo.OrderRepository
	orderItemRepo repo.OrderItemRepository
	cartRepo      repo.CartRepository
	cartItemRepo  repo.CartItemRepository
	productRepo   repo.ProductRepository
}

// DI
func NewOrderUsecase(
	txManager repo.TransactionManager,
	orderRepo repo.OrderRepository,
	orderItemRepo repo.OrderItemRepository,
	cartRepo repo.CartRepository,
	cartItemRepo repo.CartItemRepository,
	productRepo repo.ProductRepository,
) *OrderUsecase {
	return &OrderUsecase{
		txManager:     txManager,
		orderRepo:     orderRepo,
		orderItemRepo: orderItemRepo,
		cartRepo:      cartRepo,
		cartItemRepo:  cartItemRepo,
		productRepo:   productRepo,
	}
}

type PlaceOrderInput struct {
	IdempotencyKey string
}

type OrderItemResponse struct {
	ProductID           int64  `json:"product_id"`
	ProductNameSnapshot string `json:"product_name"`
	UnitPriceSnapshot   int64  `json:"unit_price"`
	Quantity            int64  `json:"quantity"`
	LineTotal           int64  `json:"line_total"`
}

type OrderResponse struct {
	ID            int64               `json:"id"`
	Status        model.OrderStatus   `json:"status"`
	PaymentStatus model.PaymentStatus `json:"payment_status"`
	PaymentMethod model.PaymentMethod `json:"payment_method,omitempty"`
	TransactionID string              `json:"transaction_id,omitempty"`
	Subtotal      int64               `json:"subtotal"`
	Tax           int64               `json:"tax"`
	ShippingFee   int64               `json:"shipping_fee"`
	TotalPrice    int64               `json:"total_price"`
	CreatedAt     string              `json:"created_at"`
	Items         []OrderItemResponse `json:"items,omitempty"`
}

func toOrderResponse(o model.Order, items []model.OrderItem) OrderResponse {
	res := OrderResponse{
		ID:            o.ID,
		Status:        o.Status,
		PaymentStatus: o.PaymentStatus,
		PaymentMethod: o.PaymentMethod,
		TransactionID: o.TransactionID,
		Subtotal:      o.Subtotal,
		Tax:           o.Tax,
		ShippingFee:   o.ShippingFee,
		TotalPrice:    o.TotalPrice,
		CreatedAt:     o.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	for _, it := range items {
		res.Items = append(res.Items, OrderItemResponse{
			ProductID:           it.ProductID,
			ProductNameSnapshot: it.ProductNameSnapshot,
			UnitPriceSnapshot:   it.UnitPriceSnapshot,
			Quantity:            it.Quantity,
			LineTotal:           it.UnitPriceSnapshot * it.Quantity,
		})
	}
	return res
}

// PlaceOrder はACTIVEカートから注文を確定する。
// 同じIdempotency-Keyなら2回目以降は既存の注文を返すだけ。
func (u *OrderUsecase) PlaceOrder(ctx context.Context, userID int64, in PlaceOrderInput) (OrderResponse, error) {
	if userID <= 0 {
		return OrderResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	key := strings.TrimSpace(in.IdempotencyKey)
	if key == "" {
		return OrderResponse{}, NewHTTPError(http.StatusBadRequest, "idempotency key required")
	}

	//再送ならTxを張る前に返す
	if existing, found, err := u.orderRepo.FindByIdempotencyKey(ctx, userID, key); err != nil {
		return OrderResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	} else if found {
		items, _ := u.orderItemRepo.ListByOrderID(ctx, existing.ID)
		return toOrderResponse(existing, items), nil
	}

	//空カートはTxを張らずに失敗させる
	cart, err := u.cartRepo.FindActiveByUserID(ctx, userID)
	if err == repo.ErrNotFound {
		return OrderResponse{}, NewHTTPError(http.StatusBadRequest, "cart empty")
	}
	if err != nil {
		return OrderResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	cartItems, err := u.cartItemRepo.ListByCartID(ctx, cart.ID)
	if err != nil {
		return OrderResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if len(cartItems) == 0 {
		return OrderResponse{}, NewHTTPError(http.StatusBadRequest, "cart empty")
	}

	var out OrderResponse
	err = u.txManager.WithinTx(ctx, func(r repo.TxRepos) error {
		//Tx内でもう一度キーを確認（並行の再送対策）
		if existing, found, err := r.Orders().FindByIdempotencyKey(ctx, userID, key); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		} else if found {
			items, _ := r.OrderItems().ListByOrderID(ctx, existing.ID)
			out = toOrderResponse(existing, items)
			return nil
		}

		priceLines := make([]pricing.Line, 0, len(cartItems))
		orderItems := make([]model.OrderItem, 0, len(cartItems))
		for _, ci := range cartItems {
			p, err := r.Products().FindByID(ctx, ci.ProductID)
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusConflict, "product no longer available")
			}
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}

			ok, err := r.Inventory().DecreaseStockIfEnough(ctx, ci.ProductID, ci.Quantity)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if !ok {
				return NewHTTPError(http.StatusConflict, "insufficient stock: "+p.Name)
			}

			priceLines = append(priceLines, pricing.Line{
				UnitPrice: ci.UnitPriceSnapshot,
				Quantity:  ci.Quantity,
			})
			orderItems = append(orderItems, model.OrderItem{
				ProductID:           ci.ProductID,
				ProductNameSnapshot: p.Name,
				UnitPriceSnapshot:   ci.UnitPriceSnapshot,
				Quantity:            ci.Quantity,
			})
		}

		totals := pricing.Compute(priceLines)
		order := model.Order{
			UserID:         userID,
			Status:         model.OrderStatusPending,
			Subtotal:       totals.Subtotal,
			Tax:            totals.Tax,
			ShippingFee:    totals.ShippingFee,
			TotalPrice:     totals.GrandTotal,
			PaymentStatus:  model.PaymentStatusUnpaid,
			IdempotencyKey: key,
		}
		orderID, err := r.Orders().Create(ctx, order)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := r.OrderItems().CreateBulk(ctx, orderID, orderItems); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//カートを確定済みにして空にする
		if err := r.Carts().UpdateStatus(ctx, cart.ID, model.CartStatusCheckedOut); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := r.Carts().Clear(ctx, cart.ID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		created, err := r.Orders().FindByID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		out = toOrderResponse(created, orderItems)
		return nil
	})
	if err != nil {
		if _, ok := AsHTTPError(err); ok {
			return OrderResponse{}, err
		}
		return OrderResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return out, nil
}

type OrderListOutput struct {
	Items []OrderResponse `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID int64, page int, limit int) (OrderListOutput, error) {
	if userID <= 0 {
		return OrderListOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if page < 1 {
		return OrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if limit < 1 || limit > 100 {
		return OrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	orders, total, err := u.orderRepo.ListByUserID(ctx, userID, page, limit)
	if err != nil {
		return OrderListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	items := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		items = append(items, toOrderResponse(o, nil))
	}
	return OrderListOutput{Items: items, Total: total, Page: page, Limit: limit}, nil
}

// GetMyOrderDetail は本人の注文だけを返す。他人の注文は404。
func (u *OrderUsecase) GetMyOrderDetail(ctx context.Context, userID int64, orderID int64) (OrderResponse, error) {
	if userID <= 0 {
		return OrderResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderResponse{}, NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	o, err := u.orderRepo.FindByID(ctx, orderID)
	if err == repo.ErrNotFound {
		return OrderResponse{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return OrderResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if o.UserID != userID {
		return OrderResponse{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	items, err := u.orderItemRepo.ListByOrderID(ctx, orderID)
	if err != nil {
		return OrderResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return toOrderResponse(o, items), nil
}
