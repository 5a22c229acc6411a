package request

import "github.com/shopspring/decimal"

type CreatePaymentIntentRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	BookingID string          `json:"bookingId,omitempty"`
	Currency  string          `json:"currency,omitempty"`
}

type ConfirmPaymentRequest struct {
	PaymentIntentID string `json:"paymentIntentId"`
}
