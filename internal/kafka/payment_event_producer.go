package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// PaymentEvent is published once per terminal payment transition.
type PaymentEvent struct {
	Type             string    `json:"type"`
	PaymentID        uint      `json:"payment_id"`
	TransactionID    string    `json:"transaction_id"`
	BookingReference string    `json:"booking_reference"`
	AccountID        uint      `json:"account_id"`
	Amount           string    `json:"amount"`
	Currency         string    `json:"currency"`
	Status           string    `json:"status"`
	Source           string    `json:"source"`
	Timestamp        time.Time `json:"timestamp"`
}

type EventPublisher interface {
	PublishPaymentEvent(ctx context.Context, event PaymentEvent) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type PaymentEventProducer struct {
	writer messageWriter
	topic  string
	logger *zap.Logger
}

// NewPaymentEventProducer builds an async writer so publishing never holds
// up a request; delivery failures are only logged.
func NewPaymentEventProducer(brokers []string, topic string, logger *zap.Logger) *PaymentEventProducer {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		Async:        true,
		BatchTimeout: 50 * time.Millisecond,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Error("payment event delivery failed",
					zap.String("topic", topic),
					zap.Int("messages", len(messages)),
					zap.Error(err))
			}
		},
	}
	logger.Info("kafka payment producer initialized",
		zap.String("topic", topic),
		zap.Strings("brokers", brokers))
	return &PaymentEventProducer{writer: w, topic: topic, logger: logger}
}

func (p *PaymentEventProducer) PublishPaymentEvent(ctx context.Context, event PaymentEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(event.TransactionID),
		Value: data,
		Time:  event.Timestamp,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("failed to publish payment event",
			zap.String("transaction_id", event.TransactionID),
			zap.Error(err))
		return err
	}

	p.logger.Debug("payment event published",
		zap.String("type", event.Type),
		zap.String("transaction_id", event.TransactionID))
	return nil
}

func (p *PaymentEventProducer) Close() error {
	p.logger.Info("closing kafka payment producer", zap.String("topic", p.topic))
	return p.writer.Close()
}

// NoopPublisher is used when no brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishPaymentEvent(context.Context, PaymentEvent) error { return nil }

func (NoopPublisher) Close() error { return nil }
