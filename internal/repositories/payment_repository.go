package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"alxtravel/internal/models/db_models"
	"alxtravel/pkg/utils"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *db_models.Payment) error
	ExistsForBooking(ctx context.Context, bookingID uint) (bool, error)
	FindById(ctx context.Context, id uint) (*db_models.Payment, error)
	FindByTransactionID(ctx context.Context, transactionID string) (*db_models.Payment, error)
	// TransitionFromPending applies updates only while the row is still
	// pending. It reports whether this call performed the transition.
	TransitionFromPending(ctx context.Context, id uint, updates map[string]interface{}) (bool, error)
}

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (p *paymentRepository) Create(ctx context.Context, payment *db_models.Payment) error {
	err := p.db.WithContext(ctx).Omit(clause.Associations).Create(payment).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return utils.ErrPaymentExists
	}
	return err
}

func (p *paymentRepository) ExistsForBooking(ctx context.Context, bookingID uint) (bool, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Model(&db_models.Payment{}).
		Where("booking_id = ?", bookingID).
		Count(&count).Error
	return count > 0, err
}

func (p *paymentRepository) FindById(ctx context.Context, id uint) (*db_models.Payment, error) {
	return p.findOne(ctx, "id = ?", id)
}

func (p *paymentRepository) FindByTransactionID(ctx context.Context, transactionID string) (*db_models.Payment, error) {
	return p.findOne(ctx, "transaction_id = ?", transactionID)
}

func (p *paymentRepository) findOne(ctx context.Context, query string, arg interface{}) (*db_models.Payment, error) {
	var payment db_models.Payment
	err := p.db.WithContext(ctx).
		Preload("Booking.Account").
		Where(query, arg).
		First(&payment).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &payment, nil
}

func (p *paymentRepository) TransitionFromPending(ctx context.Context, id uint, updates map[string]interface{}) (bool, error) {
	res := p.db.WithContext(ctx).
		Model(&db_models.Payment{}).
		Where("id = ? AND status = ?", id, db_models.PaymentStatusPending).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
