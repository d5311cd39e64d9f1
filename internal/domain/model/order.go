package model

import "time"

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCanceled   OrderStatus = "CANCELED"
)

type PaymentStatus string

const (
	PaymentStatusUnpaid PaymentStatus = "UNPAID"
	PaymentStatusPaid   PaymentStatus = "PAID"
)

type PaymentMethod string

const (
	PaymentMethodCreditCard     PaymentMethod = "credit_card"
	PaymentMethodPaypal         PaymentMethod = "paypal"
	PaymentMethodBankTransfer   PaymentMethod = "bank_transfer"
	PaymentMethodCashOnDelivery PaymentMethod = "cash_on_delivery"
)

// 注文。金額の内訳（小計・税・送料）は確定時に計算して保存する。
type Order struct {
	ID     int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID int64       `gorm:"not null;index" json:"user_id"`
	Status OrderStatus `gorm:"type:varchar(20);not null;index" json:"status"`

	Subtotal    int64 `gorm:"not null" json:"subtotal"`
	Tax         int64 `gorm:"not null" json:"tax"`
	ShippingFee int64 `gorm:"not null" json:"shipping_fee"`
	TotalPrice  int64 `gorm:"not null" json:"total_price"`

	//支払いはUNPAID→PAIDに一度だけ遷移する
	PaymentStatus PaymentStatus `gorm:"type:varchar(20);not null;default:'UNPAID';index" json:"payment_status"`
	PaymentMethod PaymentMethod `gorm:"type:varchar(30)" json:"payment_method,omitempty"`
	TransactionID string        `gorm:"type:varchar(64)" json:"transaction_id,omitempty"`
	PaidAt        *time.Time    `json:"paid_at,omitempty"`

	IdempotencyKey string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"-"`
	CreatedAt      time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
