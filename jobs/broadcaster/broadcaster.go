// Package broadcaster drains the trade outbox into Kafka. It
// periodically scans for undelivered records and publishes them with
// a synchronous producer, giving at-least-once delivery of trade
// events.
package broadcaster

import (
	"context"
	"log"
	"time"

	"github.com/IBM/sarama"

	"vidar/infra/outbox"
)

type Broadcaster struct {
	outbox   *outbox.Outbox
	producer sarama.SyncProducer
	topic    string
	interval time.Duration
}

func New(ob *outbox.Outbox, brokers []string, topic string, interval time.Duration) (*Broadcaster, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 5

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, err
	}

	return &Broadcaster{
		outbox:   ob,
		producer: producer,
		topic:    topic,
		interval: interval,
	}, nil
}

// Start runs the drain loop until ctx is cancelled.
func (b *Broadcaster) Start(ctx context.Context) {
	log.Println("[broadcaster] started")

	go func() {
		ticker := time.NewTicker(b.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				b.drainOnce()
			}
		}
	}()
}

// drainOnce publishes every pending record. A failed publish parks
// the record in FAILED; the next pass picks it up again.
func (b *Broadcaster) drainOnce() {
	b.drainState(outbox.StateNew)
	b.drainState(outbox.StateFailed)
}

func (b *Broadcaster) drainState(state outbox.State) {
	err := b.outbox.ScanByState(state, func(id uint64, rec outbox.Record) error {
		if err := b.outbox.MarkSent(id); err != nil {
			return err
		}

		// one key keeps all trades on one ordered partition
		msg := &sarama.ProducerMessage{
			Topic: b.topic,
			Key:   sarama.StringEncoder("trade"),
			Value: sarama.ByteEncoder(rec.Payload),
		}
		if _, _, err := b.producer.SendMessage(msg); err != nil {
			log.Printf("[broadcaster] publish trade %d: %v", id, err)
			return b.outbox.MarkFailed(id)
		}

		return b.outbox.MarkAcked(id)
	})
	if err != nil {
		log.Printf("[broadcaster] drain %s: %v", state, err)
	}
}

func (b *Broadcaster) Close() error {
	return b.producer.Close()
}
