package validator_test

import (
	"testing"

	"storefront/internal/validator"

	"github.com/stretchr/testify/assert"
)

func validCardForm() validator.PaymentForm {
	return validator.PaymentForm{
		Method:         "credit_card",
		CardNumber:     "4242424242424242",
		Expiry:         "12/27",
		CVV:            "123",
		CardholderName: "Alice Example",
		BillingAddress: "1 Main St",
		BillingCity:    "Springfield",
		BillingZip:     "12345",
	}
}

func TestValidate_CreditCard_OK(t *testing.T) {
	pv := validator.NewPaymentValidator()
	assert.Nil(t, pv.Validate(validCardForm()))
}

func TestValidate_CreditCard_15DigitsRejected(t *testing.T) {
	pv := validator.NewPaymentValidator()
	form := validCardForm()
	form.CardNumber = "424242424242424"

	errs := pv.Validate(form)
	assert.NotNil(t, errs)
	assert.Contains(t, errs, "card_number")
}

func TestValidate_CreditCard_ExpiryMonth13Rejected(t *testing.T) {
	pv := validator.NewPaymentValidator()
	form := validCardForm()
	form.Expiry = "13/27"

	errs := pv.Validate(form)
	assert.Contains(t, errs, "expiry")
}

func TestValidate_CreditCard_CVVLengths(t *testing.T) {
	pv := validator.NewPaymentValidator()

	form := validCardForm()
	form.CVV = "1234"
	assert.Nil(t, pv.Validate(form))

	form.CVV = "12"
	assert.Contains(t, pv.Validate(form), "cvv")

	form.CVV = "12345"
	assert.Contains(t, pv.Validate(form), "cvv")
}

func TestValidate_CreditCard_ZipMustBeFiveDigits(t *testing.T) {
	pv := validator.NewPaymentValidator()
	form := validCardForm()
	form.BillingZip = "1234"

	assert.Contains(t, pv.Validate(form), "billing_zip")
}

func TestValidate_CreditCard_CollectsAllErrors(t *testing.T) {
	pv := validator.NewPaymentValidator()
	errs := pv.Validate(validator.PaymentForm{Method: "credit_card"})

	//1つでもエラーがあれば全フィールド分返す
	assert.Contains(t, errs, "card_number")
	assert.Contains(t, errs, "expiry")
	assert.Contains(t, errs, "cvv")
	assert.Contains(t, errs, "cardholder_name")
	assert.Contains(t, errs, "billing_address")
	assert.Contains(t, errs, "billing_city")
	assert.Contains(t, errs, "billing_zip")
}

func TestValidate_Paypal(t *testing.T) {
	pv := validator.NewPaymentValidator()

	assert.Nil(t, pv.Validate(validator.PaymentForm{
		Method:      "paypal",
		PaypalEmail: "alice@example.com",
	}))

	errs := pv.Validate(validator.PaymentForm{
		Method:      "paypal",
		PaypalEmail: "not-an-email",
	})
	assert.Contains(t, errs, "paypal_email")
}

func TestValidate_BankTransfer(t *testing.T) {
	pv := validator.NewPaymentValidator()

	assert.Nil(t, pv.Validate(validator.PaymentForm{
		Method:        "bank_transfer",
		AccountNumber: "1234567890",
		RoutingNumber: "123456789",
	}))

	errs := pv.Validate(validator.PaymentForm{
		Method:        "bank_transfer",
		AccountNumber: "123456789", // 9桁は短い
		RoutingNumber: "12345678",  // 8桁は短い
	})
	assert.Contains(t, errs, "account_number")
	assert.Contains(t, errs, "routing_number")
}

func TestValidate_CashOnDelivery(t *testing.T) {
	pv := validator.NewPaymentValidator()

	assert.Nil(t, pv.Validate(validator.PaymentForm{
		Method:          "cash_on_delivery",
		DeliveryAddress: "1 Main St",
		DeliveryPhone:   "0901234567",
	}))

	errs := pv.Validate(validator.PaymentForm{
		Method:          "cash_on_delivery",
		DeliveryAddress: " ",
		DeliveryPhone:   "090-1234-567",
	})
	assert.Contains(t, errs, "delivery_address")
	assert.Contains(t, errs, "delivery_phone")
}

func TestValidate_UnknownMethod(t *testing.T) {
	pv := validator.NewPaymentValidator()
	errs := pv.Validate(validator.PaymentForm{Method: "bitcoin"})
	assert.Contains(t, errs, "method")
}

func TestFieldErrors_ErrorString(t *testing.T) {
	errs := validator.FieldErrors{"cvv": "cvv must be 3-4 digits"}
	assert.Contains(t, errs.Error(), "cvv")
}
