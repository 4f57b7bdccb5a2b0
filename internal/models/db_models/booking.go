package db_models

import "github.com/shopspring/decimal"

// Booking is created by the reservation flow; payments only read it.
type Booking struct {
	BaseModel
	Reference string          `gorm:"size:64;uniqueIndex;not null"`
	AccountID uint            `gorm:"index;not null"`
	Amount    decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Account Account  `gorm:"foreignKey:AccountID"`
	Payment *Payment `gorm:"foreignKey:BookingID"`
}
