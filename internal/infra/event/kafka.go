package event

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"pos/internal/domain/model"

	"github.com/segmentio/kafka-go"
)

const EventTypePurchaseCompleted = "purchase.completed"

const (
	batchTimeout = 5 * time.Millisecond
	writeTimeout = 2 * time.Second
)

// kafka.Writerのうち使う部分（テストで差し替える）
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// 購入確定イベントをKafkaへ送る
type KafkaPublisher struct {
	writer messageWriter
}

// 購入1件ごとにすぐ送る（既定のBatchTimeout 1sを待たない）
func NewWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchSize:    1,
		BatchTimeout: batchTimeout,
		WriteTimeout: writeTimeout,
	}
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{writer: NewWriter(brokers, topic)}
}

// キーは取引ID（同じ取引は同じパーティション）
func (p *KafkaPublisher) PublishPurchaseCompleted(ctx context.Context, ev model.PurchaseCompletedEvent) error {
	return PublishJSON(ctx, p.writer, strconv.FormatInt(ev.TransactionID, 10), EventTypePurchaseCompleted, ev)
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func PublishJSON(ctx context.Context, w messageWriter, key string, eventType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return w.WriteMessages(ctx, kafka.Message{
		Key:     []byte(key),
		Value:   data,
		Time:    time.Now().UTC(),
		Headers: []kafka.Header{{Key: "event_type", Value: []byte(eventType)}},
	})
}

// ブローカー未設定のときに使う
type NopPublisher struct{}

func (NopPublisher) PublishPurchaseCompleted(context.Context, model.PurchaseCompletedEvent) error {
	return nil
}

func (NopPublisher) Close() error { return nil }
