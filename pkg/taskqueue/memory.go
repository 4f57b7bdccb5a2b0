package taskqueue

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// MemoryQueue is a buffered channel drained by a fixed pool of workers.
// Pending tasks are lost if the process dies.
type MemoryQueue struct {
	mu      sync.RWMutex
	tasks   chan Task
	closed  bool
	workers int
	wg      sync.WaitGroup
	logger  *zap.Logger
}

func NewMemoryQueue(size, workers int, logger *zap.Logger) *MemoryQueue {
	if size < 1 {
		size = 1
	}
	if workers < 1 {
		workers = 1
	}
	return &MemoryQueue{
		tasks:   make(chan Task, size),
		workers: workers,
		logger:  logger,
	}
}

// Enqueue never blocks; a full buffer is reported as ErrQueueFull.
func (q *MemoryQueue) Enqueue(_ context.Context, task Task) error {
	if task.EnqueuedAt.IsZero() {
		task.EnqueuedAt = time.Now()
	}

	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrQueueClosed
	}
	select {
	case q.tasks <- task:
		return nil
	default:
		return ErrQueueFull
	}
}

func (q *MemoryQueue) Start(handler Handler) {
	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go func(id int) {
			defer q.wg.Done()
			for task := range q.tasks {
				runTask(q.logger, id, handler, task)
			}
		}(i)
	}
	q.logger.Info("memory task queue started", zap.Int("workers", q.workers), zap.Int("buffer", cap(q.tasks)))
}

// Stop refuses new tasks and waits for the buffered ones to finish.
func (q *MemoryQueue) Stop(ctx context.Context) error {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.tasks)
	}
	q.mu.Unlock()

	return waitGroup(ctx, &q.wg)
}

func runTask(logger *zap.Logger, worker int, handler Handler, task Task) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("task panicked",
				zap.Int("worker", worker),
				zap.String("kind", string(task.Kind)),
				zap.Uint("payment_id", task.PaymentID),
				zap.Any("panic", r),
			)
		}
	}()
	handler(context.Background(), task)
}

func waitGroup(ctx context.Context, wg *sync.WaitGroup) error {
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
