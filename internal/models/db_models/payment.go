package db_models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

const CurrencyETB = "ETB"

// Terminal reports whether no further transition is expected.
func (s PaymentStatus) Terminal() bool {
	switch s {
	case PaymentStatusCompleted, PaymentStatusFailed, PaymentStatusCancelled:
		return true
	}
	return false
}

// Display is the human readable label used in emails.
func (s PaymentStatus) Display() string {
	switch s {
	case PaymentStatusPending:
		return "Pending"
	case PaymentStatusCompleted:
		return "Completed"
	case PaymentStatusFailed:
		return "Failed"
	case PaymentStatusCancelled:
		return "Cancelled"
	}
	return string(s)
}

type Payment struct {
	BaseModel
	BookingID     uint            `gorm:"uniqueIndex;not null"`
	TransactionID string          `gorm:"size:100;uniqueIndex;not null"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Currency      string          `gorm:"size:3;not null;default:'ETB'"`
	Status        PaymentStatus   `gorm:"type:varchar(20);not null;default:'pending';index"`
	CheckoutURL   string          `gorm:"type:text"`

	// Set only once the gateway reports success.
	ChapaReference *string `gorm:"size:100;index"`
	PaymentMethod  *string `gorm:"size:50"`
	CompletedAt    *time.Time

	Booking Booking `gorm:"foreignKey:BookingID"`
}
