package request_models

import "github.com/shopspring/decimal"

// InitiatePaymentRequest fields are checked by the service so that a
// missing booking_id or amount maps to a validation error, not a bind error.
type InitiatePaymentRequest struct {
	BookingID   uint             `json:"booking_id"`
	Amount      *decimal.Decimal `json:"amount"`
	PhoneNumber string           `json:"phone_number"`
	ReturnURL   string           `json:"return_url"`
}

// CallbackPayload is what the gateway posts to the webhook, either as JSON
// or as a form.
type CallbackPayload struct {
	TxRef     string `json:"tx_ref" form:"tx_ref"`
	Status    string `json:"status" form:"status"`
	Reference string `json:"reference" form:"reference"`
	Method    string `json:"method" form:"method"`
}
