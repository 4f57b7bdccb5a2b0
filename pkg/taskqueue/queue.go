// Package taskqueue runs fire-and-forget background jobs outside the request
// path. Jobs are not retried and carry no deadline.
package taskqueue

import (
	"context"
	"errors"
	"time"
)

type Kind string

const (
	KindPaymentConfirmation Kind = "payment_confirmation"
	KindPaymentFailed       Kind = "payment_failed"
)

type Task struct {
	Kind       Kind      `json:"kind"`
	PaymentID  uint      `json:"payment_id"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// Handler must not block forever; a panic is recovered and logged.
type Handler func(ctx context.Context, task Task)

type Queue interface {
	Enqueue(ctx context.Context, task Task) error
	Start(handler Handler)
	Stop(ctx context.Context) error
}

var (
	ErrQueueFull   = errors.New("task queue is full")
	ErrQueueClosed = errors.New("task queue is closed")
)
