package events_fx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"alxtravel/internal/config"
	"alxtravel/internal/kafka"
)

var Module = fx.Provide(providePublisher)

func providePublisher(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) kafka.EventPublisher {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Info("KAFKA_BROKERS not set, payment events disabled")
		return kafka.NoopPublisher{}
	}

	producer := kafka.NewPaymentEventProducer(cfg.KafkaBrokers, cfg.KafkaPaymentTopic, logger.Named("kafka"))
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return producer.Close()
		},
	})
	return producer
}
