package response_models

import "time"

type InitiatePaymentResponse struct {
	CheckoutURL   string `json:"checkout_url"`
	TransactionID string `json:"transaction_id"`
	PaymentID     uint   `json:"payment_id"`
}

type VerifyPaymentResponse struct {
	TransactionID  string     `json:"transaction_id"`
	PaymentStatus  string     `json:"payment_status"`
	Amount         string     `json:"amount"`
	ChapaReference *string    `json:"chapa_reference"`
	PaymentMethod  *string    `json:"payment_method"`
	CompletedAt    *time.Time `json:"completed_at"`
}

// PaymentStatusResponse exposes CheckoutURL only while the payment is pending.
type PaymentStatusResponse struct {
	PaymentID        uint       `json:"payment_id"`
	TransactionID    string     `json:"transaction_id"`
	BookingReference string     `json:"booking_reference"`
	Amount           string     `json:"amount"`
	Currency         string     `json:"currency"`
	Status           string     `json:"status"`
	PaymentMethod    *string    `json:"payment_method"`
	CreatedAt        time.Time  `json:"created_at"`
	CompletedAt      *time.Time `json:"completed_at"`
	CheckoutURL      *string    `json:"checkout_url"`
}
