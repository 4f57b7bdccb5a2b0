package db_models

import "strings"

type Account struct {
	BaseModel
	Username     string `gorm:"size:150;uniqueIndex;not null"`
	Email        string `gorm:"size:254;uniqueIndex;not null"`
	FirstName    string `gorm:"size:150"`
	LastName     string `gorm:"size:150"`
	PasswordHash string `gorm:"not null" json:"-"`
	Bookings     []Booking
}

// DisplayName falls back to the username when no first name is set.
func (a *Account) DisplayName() string {
	if name := strings.TrimSpace(a.FirstName); name != "" {
		return name
	}
	return a.Username
}
