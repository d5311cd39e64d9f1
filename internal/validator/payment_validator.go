package validator

import (
	"regexp"
	"strings"

	"storefront/internal/domain/model"

	validatorv10 "github.com/go-playground/validator/v10"
)

// 支払いフォーム。methodごとに必須フィールドが違う。
type PaymentForm struct {
	Method string `json:"method" validate:"required,oneof=credit_card paypal bank_transfer cash_on_delivery"`

	//credit_card
	CardNumber     string `json:"card_number,omitempty"`
	Expiry         string `json:"expiry,omitempty"`
	CVV            string `json:"cvv,omitempty"`
	CardholderName string `json:"cardholder_name,omitempty"`
	BillingAddress string `json:"billing_address,omitempty"`
	BillingCity    string `json:"billing_city,omitempty"`
	BillingZip     string `json:"billing_zip,omitempty"`

	//paypal
	PaypalEmail string `json:"paypal_email,omitempty"`

	//bank_transfer
	AccountNumber string `json:"account_number,omitempty"`
	RoutingNumber string `json:"routing_number,omitempty"`

	//cash_on_delivery
	DeliveryAddress string `json:"delivery_address,omitempty"`
	DeliveryPhone   string `json:"delivery_phone,omitempty"`
}

// フィールド名→エラーメッセージ。送信前に全フィールドをチェックする。
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for field, msg := range e {
		parts = append(parts, field+": "+msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

var (
	reCardNumber    = regexp.MustCompile(`^\d{16}$`)
	reExpiry        = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	reCVV           = regexp.MustCompile(`^\d{3,4}$`)
	reZip           = regexp.MustCompile(`^\d{5}$`)
	reAccountNumber = regexp.MustCompile(`^\d{10,12}$`)
	reRoutingNumber = regexp.MustCompile(`^\d{9}$`)
	rePhone         = regexp.MustCompile(`^\d{10}$`)
)

type PaymentValidator struct {
	v *validatorv10.Validate
}

func NewPaymentValidator() *PaymentValidator {
	return &PaymentValidator{v: validatorv10.New()}
}

// Validate は同期チェック。エラーがあれば1つも送信させない。
func (pv *PaymentValidator) Validate(form PaymentForm) FieldErrors {
	errs := FieldErrors{}

	if err := pv.v.Struct(form); err != nil {
		errs["method"] = "invalid payment method"
		return errs
	}

	switch model.PaymentMethod(form.Method) {
	case model.PaymentMethodCreditCard:
		if !reCardNumber.MatchString(form.CardNumber) {
			errs["card_number"] = "card number must be exactly 16 digits"
		}
		if !reExpiry.MatchString(form.Expiry) {
			errs["expiry"] = "expiry must be MM/YY"
		}
		if !reCVV.MatchString(form.CVV) {
			errs["cvv"] = "cvv must be 3-4 digits"
		}
		if strings.TrimSpace(form.CardholderName) == "" {
			errs["cardholder_name"] = "cardholder name is required"
		}
		if strings.TrimSpace(form.BillingAddress) == "" {
			errs["billing_address"] = "billing address is required"
		}
		if strings.TrimSpace(form.BillingCity) == "" {
			errs["billing_city"] = "city is required"
		}
		if !reZip.MatchString(form.BillingZip) {
			errs["billing_zip"] = "zip must be exactly 5 digits"
		}

	case model.PaymentMethodPaypal:
		if pv.v.Var(form.PaypalEmail, "required,email") != nil {
			errs["paypal_email"] = "valid email is required"
		}

	case model.PaymentMethodBankTransfer:
		if !reAccountNumber.MatchString(form.AccountNumber) {
			errs["account_number"] = "account number must be 10-12 digits"
		}
		if !reRoutingNumber.MatchString(form.RoutingNumber) {
			errs["routing_number"] = "routing number must be exactly 9 digits"
		}

	case model.PaymentMethodCashOnDelivery:
		if strings.TrimSpace(form.DeliveryAddress) == "" {
			errs["delivery_address"] = "delivery address is required"
		}
		if !rePhone.MatchString(form.DeliveryPhone) {
			errs["delivery_phone"] = "phone must be exactly 10 digits"
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
