package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"alxtravel/internal/models/db_models"
	"alxtravel/internal/repositories"
	"alxtravel/pkg/taskqueue"
)

type NotificationService interface {
	// Handle runs one notification job. Failures are logged, never returned.
	Handle(ctx context.Context, task taskqueue.Task)
}

type notificationService struct {
	payments repositories.PaymentRepository
	mail     IMailService
	logger   *zap.Logger
}

func NewNotificationService(payments repositories.PaymentRepository, mail IMailService, logger *zap.Logger) NotificationService {
	return &notificationService{
		payments: payments,
		mail:     mail,
		logger:   logger.Named("notifications"),
	}
}

func (n *notificationService) Handle(ctx context.Context, task taskqueue.Task) {
	log := n.logger.With(zap.String("kind", string(task.Kind)), zap.Uint("payment_id", task.PaymentID))

	// the payment is read now, not when the job was queued
	payment, err := n.payments.FindById(ctx, task.PaymentID)
	if err != nil {
		log.Error("failed to load payment for notification", zap.Error(err))
		return
	}
	if payment == nil {
		log.Warn("payment not found, dropping notification")
		return
	}

	email := paymentEmail(payment)

	switch task.Kind {
	case taskqueue.KindPaymentConfirmation:
		err = n.mail.SendPaymentConfirmation(ctx, email)
	case taskqueue.KindPaymentFailed:
		err = n.mail.SendPaymentFailed(ctx, email)
	default:
		err = errors.New("unknown notification kind")
	}

	if err != nil {
		log.Error("failed to send payment email", zap.String("to", email.To), zap.Error(err))
		return
	}
	log.Info("payment email sent", zap.String("to", email.To))
}

const emailTimeLayout = "2006-01-02 15:04:05"

func paymentEmail(p *db_models.Payment) PaymentEmail {
	account := p.Booking.Account
	email := PaymentEmail{
		To:               account.Email,
		RecipientName:    account.DisplayName(),
		TransactionID:    p.TransactionID,
		BookingReference: p.Booking.Reference,
		Amount:           p.Amount.StringFixed(2),
		Currency:         p.Currency,
		Status:           p.Status.Display(),
	}
	if p.PaymentMethod != nil {
		email.PaymentMethod = *p.PaymentMethod
	}
	if p.CompletedAt != nil {
		email.CompletedAt = p.CompletedAt.UTC().Format(emailTimeLayout)
	}
	return email
}
