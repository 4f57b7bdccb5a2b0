package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestPublishPaymentEvent_KeyedByTransaction(t *testing.T) {
	w := &fakeWriter{}
	p := &PaymentEventProducer{writer: w, topic: "payment-events", logger: zap.NewNop()}

	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	err := p.PublishPaymentEvent(context.Background(), PaymentEvent{
		Type:          "payment_completed",
		PaymentID:     3,
		TransactionID: "tx_abc123def456",
		Amount:        "100.00",
		Currency:      "ETB",
		Status:        "completed",
		Timestamp:     ts,
	})
	require.NoError(t, err)
	require.Len(t, w.messages, 1)

	msg := w.messages[0]
	assert.Equal(t, "tx_abc123def456", string(msg.Key))
	assert.Equal(t, ts, msg.Time)

	var decoded PaymentEvent
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "completed", decoded.Status)
	assert.Equal(t, uint(3), decoded.PaymentID)
}

func TestPublishPaymentEvent_WriterError(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down")}
	p := &PaymentEventProducer{writer: w, topic: "payment-events", logger: zap.NewNop()}

	err := p.PublishPaymentEvent(context.Background(), PaymentEvent{TransactionID: "tx_1"})
	assert.EqualError(t, err, "broker down")

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestNoopPublisher(t *testing.T) {
	var pub EventPublisher = NoopPublisher{}
	assert.NoError(t, pub.PublishPaymentEvent(context.Background(), PaymentEvent{}))
	assert.NoError(t, pub.Close())
}
