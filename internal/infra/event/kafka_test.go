package event

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"pos/internal/domain/model"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublisher_PublishPurchaseCompleted(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaPublisher{writer: w}

	ev := model.PurchaseCompletedEvent{
		EventID:         "ev-1",
		TransactionID:   42,
		StoreCode:       "30",
		TerminalCode:    "90",
		EmployeeCode:    "1001",
		TotalPrice:      726,
		TotalPriceExTax: 660,
		OccurredAt:      time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, p.PublishPurchaseCompleted(context.Background(), ev))
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "42", string(msg.Key))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, EventTypePurchaseCompleted, string(msg.Headers[0].Value))

	var got model.PurchaseCompletedEvent
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, ev, got)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	boom := errors.New("broker down")
	p := &KafkaPublisher{writer: &fakeWriter{err: boom}}

	err := p.PublishPurchaseCompleted(context.Background(), model.PurchaseCompletedEvent{TransactionID: 1})
	assert.ErrorIs(t, err, boom)
}

func TestNewWriter(t *testing.T) {
	w := NewWriter([]string{"k1:9092", "k2:9092"}, "pos.purchases")
	assert.Equal(t, "pos.purchases", w.Topic)
	assert.Equal(t, kafka.RequireOne, w.RequiredAcks)
	assert.IsType(t, &kafka.Hash{}, w.Balancer)

	//1件ずつ即時に送る
	assert.Equal(t, 1, w.BatchSize)
	assert.LessOrEqual(t, w.BatchTimeout, 10*time.Millisecond)
	assert.Positive(t, w.BatchTimeout)
	assert.Equal(t, 2*time.Second, w.WriteTimeout)
	assert.False(t, w.Async)
}
