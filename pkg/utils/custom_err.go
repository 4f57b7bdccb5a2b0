package utils

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the services wraps one of these so
// the HTTP layer can pick a status code with errors.Is.
var (
	ErrValidation         = errors.New("validation error")
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("permission denied")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrGatewayRejected    = errors.New("payment gateway rejected the request")
	ErrGatewayUnreachable = errors.New("payment gateway unreachable")
	ErrDatabaseError      = errors.New("database error")
)

var (
	ErrMissingPaymentFields = fmt.Errorf("%w: booking_id and amount are required", ErrValidation)
	ErrInvalidAmount        = fmt.Errorf("%w: amount must be greater than zero", ErrValidation)
	ErrPaymentExists        = fmt.Errorf("%w: payment already exists for this booking", ErrValidation)
	ErrMissingTxRef         = fmt.Errorf("%w: transaction ID not provided", ErrValidation)
	ErrInvalidCallbackBody  = fmt.Errorf("%w: invalid callback payload", ErrValidation)
	ErrEmailAlreadyExists   = fmt.Errorf("%w: email or username already registered", ErrValidation)

	ErrBookingNotFound = fmt.Errorf("booking %w", ErrNotFound)
	ErrPaymentNotFound = fmt.Errorf("payment %w", ErrNotFound)

	ErrNotPaymentOwner = fmt.Errorf("%w: payment belongs to another user", ErrForbidden)

	ErrInvalidCredentials = fmt.Errorf("%w: invalid email or password", ErrUnauthorized)
	ErrInvalidSignature   = fmt.Errorf("%w: invalid webhook signature", ErrUnauthorized)
)

// GatewayError describes a failed call to the payment provider. Kind is
// ErrGatewayRejected or ErrGatewayUnreachable.
type GatewayError struct {
	Kind       error
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *GatewayError) Error() string {
	msg := fmt.Sprintf("chapa %s: %v", e.Op, e.Kind)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *GatewayError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
