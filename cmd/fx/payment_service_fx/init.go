package payment_service_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"alxtravel/internal/config"
	"alxtravel/internal/kafka"
	"alxtravel/internal/repositories"
	"alxtravel/internal/services"
	"alxtravel/pkg/taskqueue"
)

var Module = fx.Provide(
	providePaymentRepo,
	provideBookingRepo,
	provideCallbackRepo,
	provideChapaClient,
	providePaymentService,
)

func providePaymentRepo(db *gorm.DB) repositories.PaymentRepository {
	return repositories.NewPaymentRepository(db)
}

func provideBookingRepo(db *gorm.DB) repositories.BookingRepository {
	return repositories.NewBookingRepository(db)
}

func provideCallbackRepo(db *gorm.DB) repositories.CallbackRepository {
	return repositories.NewCallbackRepository(db)
}

func provideChapaClient(cfg *config.Config) services.ChapaClient {
	return services.NewChapaClient(cfg.GatewayBaseURL, cfg.GatewaySecretKey, cfg.GatewayTimeout)
}

func providePaymentService(
	payments repositories.PaymentRepository,
	bookings repositories.BookingRepository,
	callbacks repositories.CallbackRepository,
	gateway services.ChapaClient,
	queue taskqueue.Queue,
	events kafka.EventPublisher,
	cfg *config.Config,
	logger *zap.Logger,
) services.PaymentService {
	return services.NewPaymentService(payments, bookings, callbacks, gateway, queue, events, services.PaymentConfig{
		PublicBaseURL:   cfg.PublicBaseURL,
		AppName:         cfg.AppName,
		WebhookSecret:   cfg.WebhookSecret,
		VerifyCallbacks: cfg.CallbackVerifyWithGateway,
	}, logger)
}
