package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"alxtravel/internal/models/db_models"
)

type BookingRepository interface {
	// FindByIdForAccount returns nil, nil when the booking is absent or owned by someone else.
	FindByIdForAccount(ctx context.Context, id, accountID uint) (*db_models.Booking, error)
}

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (b *bookingRepository) FindByIdForAccount(ctx context.Context, id, accountID uint) (*db_models.Booking, error) {
	var booking db_models.Booking
	err := b.db.WithContext(ctx).
		Preload("Account").
		Where("id = ? AND account_id = ?", id, accountID).
		First(&booking).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &booking, nil
}
