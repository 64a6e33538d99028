// Package kafka publishes market data with segmentio/kafka-go.
package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"vidar/domain/orderbook"
)

// Producer feeds aggregated depth snapshots to a Kafka topic.
// Market data is best-effort: writes are async and a dropped snapshot
// is superseded by the next one.
type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string, topic string) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			RequiredAcks: kafka.RequireOne,
			Async:        true,
			BatchTimeout: 10 * time.Millisecond,
		},
	}
}

// PublishDepth sends one JSON-encoded book snapshot.
func (p *Producer) PublishDepth(ctx context.Context, snap orderbook.BookSnapshot) error {
	value, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte("depth"),
		Value: value,
	})
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
