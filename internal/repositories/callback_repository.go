package repositories

import (
	"context"

	"gorm.io/gorm"

	"alxtravel/internal/models/db_models"
)

type CallbackRepository interface {
	Create(ctx context.Context, callback *db_models.PaymentCallback) error
	MarkApplied(ctx context.Context, id uint) error
}

type callbackRepository struct {
	db *gorm.DB
}

func NewCallbackRepository(db *gorm.DB) CallbackRepository {
	return &callbackRepository{db: db}
}

func (r *callbackRepository) Create(ctx context.Context, callback *db_models.PaymentCallback) error {
	return r.db.WithContext(ctx).Create(callback).Error
}

func (r *callbackRepository) MarkApplied(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&db_models.PaymentCallback{}).
		Where("id = ?", id).
		Update("applied", true).Error
}
