package queue_fx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"alxtravel/internal/config"
	"alxtravel/internal/infra"
	"alxtravel/internal/repositories"
	"alxtravel/internal/services"
	"alxtravel/pkg/taskqueue"
)

var Module = fx.Options(
	fx.Provide(provideQueue, provideNotificationService),
	fx.Invoke(startWorkers),
)

// provideQueue picks the durable Redis list when REDIS_URL is set and the
// in-process channel otherwise.
func provideQueue(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) (taskqueue.Queue, error) {
	logger = logger.Named("taskqueue")

	if cfg.RedisURL == "" {
		return taskqueue.NewMemoryQueue(cfg.NotificationQueueSize, cfg.NotificationWorkers, logger), nil
	}

	rdb, err := infra.NewRedisClient(cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return rdb.Close()
		},
	})
	logger.Info("using redis notification queue")
	return taskqueue.NewRedisQueue(rdb, taskqueue.DefaultRedisKey, cfg.NotificationWorkers, logger), nil
}

func provideNotificationService(payments repositories.PaymentRepository, mail services.IMailService, logger *zap.Logger) services.NotificationService {
	return services.NewNotificationService(payments, mail, logger)
}

// startWorkers is registered after provideQueue's hooks, so on shutdown the
// workers drain before the redis client closes.
func startWorkers(lc fx.Lifecycle, queue taskqueue.Queue, notifications services.NotificationService) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			queue.Start(notifications.Handle)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return queue.Stop(ctx)
		},
	})
}
