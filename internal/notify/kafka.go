package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"riftbook/internal/metrics"
)

// KafkaPublisher publishes settlement events as JSON messages keyed by
// game id, so consumers see one game's settlements in order.
type KafkaPublisher struct {
	writer *kafka.Writer
}

// NewKafkaPublisher creates a publisher for the given brokers and topic.
func NewKafkaPublisher(brokers, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers),
			Topic:                  topic,
			Balancer:               &kafka.LeastBytes{},
			AllowAutoTopicCreation: true,
		},
	}
}

// SettlementResolved implements Publisher.
func (p *KafkaPublisher) SettlementResolved(ctx context.Context, e SettlementEvent) error {
	if e.SettledAt.IsZero() {
		e.SettledAt = time.Now()
	}
	b, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal settlement event: %w", err)
	}
	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(e.GameID),
		Value: b,
		Time:  time.Now(),
	}); err != nil {
		return fmt.Errorf("failed to publish settlement event: %w", err)
	}
	metrics.SettlementsPublished.Inc()
	return nil
}

// Close flushes and closes the underlying writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
