package taskqueue

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const DefaultRedisKey = "notifications:queue"

// RedisQueue keeps tasks in a Redis list so they survive a restart.
type RedisQueue struct {
	rdb     *redis.Client
	key     string
	workers int
	logger  *zap.Logger

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

func NewRedisQueue(rdb *redis.Client, key string, workers int, logger *zap.Logger) *RedisQueue {
	if key == "" {
		key = DefaultRedisKey
	}
	if workers < 1 {
		workers = 1
	}
	return &RedisQueue{rdb: rdb, key: key, workers: workers, logger: logger}
}

func (q *RedisQueue) Enqueue(ctx context.Context, task Task) error {
	if task.EnqueuedAt.IsZero() {
		task.EnqueuedAt = time.Now()
	}
	data, err := json.Marshal(task)
	if err != nil {
		return err
	}
	return q.rdb.RPush(ctx, q.key, data).Err()
}

func (q *RedisQueue) Start(handler Handler) {
	ctx, cancel := context.WithCancel(context.Background())
	q.cancel = cancel

	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go func(id int) {
			defer q.wg.Done()
			q.consume(ctx, id, handler)
		}(i)
	}
	q.logger.Info("redis task queue started", zap.String("queue", q.key), zap.Int("workers", q.workers))
}

func (q *RedisQueue) consume(ctx context.Context, id int, handler Handler) {
	for {
		if ctx.Err() != nil {
			return
		}

		res, err := q.rdb.BLPop(ctx, 5*time.Second, q.key).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if ctx.Err() != nil {
				return
			}
			q.logger.Error("redis BLPop failed", zap.String("queue", q.key), zap.Error(err))
			time.Sleep(500 * time.Millisecond)
			continue
		}
		if len(res) < 2 {
			continue
		}

		var task Task
		if err := json.Unmarshal([]byte(res[1]), &task); err != nil {
			q.logger.Error("dropping malformed task", zap.String("raw", res[1]), zap.Error(err))
			continue
		}
		runTask(q.logger, id, handler, task)
	}
}

// Stop stops polling; tasks still in Redis are picked up on next start.
func (q *RedisQueue) Stop(ctx context.Context) error {
	if q.cancel != nil {
		q.cancel()
	}
	return waitGroup(ctx, &q.wg)
}
