package event

import (
	"context"
	"fmt"

	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// KafkaPublisherConfig holds configuration for the Kafka publisher
type KafkaPublisherConfig struct {
	Brokers []string
}

// KafkaPublisher publishes domain events to Kafka. The event type string
// is used as the topic and the aggregate id as the partition key, so all
// events for one order land on the same partition in order.
type KafkaPublisher struct {
	writer     *kafka.Writer
	serializer *EventSerializer
	logger     *zap.Logger
}

// NewKafkaPublisher creates a publisher connected to the given brokers
func NewKafkaPublisher(cfg KafkaPublisherConfig, serializer *EventSerializer, logger *zap.Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
	}

	return &KafkaPublisher{
		writer:     writer,
		serializer: serializer,
		logger:     logger,
	}
}

// Publish writes events to their topics, waiting for broker acks
func (p *KafkaPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	messages := make([]kafka.Message, 0, len(events))
	for _, event := range events {
		payload, err := p.serializer.Serialize(event)
		if err != nil {
			return fmt.Errorf("failed to serialize event %s: %w", event.EventID(), err)
		}

		messages = append(messages, kafka.Message{
			Topic: event.EventType(),
			Key:   []byte(event.AggregateID().String()),
			Value: payload,
			Headers: []kafka.Header{
				{Key: "event_id", Value: []byte(event.EventID().String())},
				{Key: "event_type", Value: []byte(event.EventType())},
				{Key: "shop_id", Value: []byte(event.ShopID().String())},
			},
		})
	}

	if err := p.writer.WriteMessages(ctx, messages...); err != nil {
		return fmt.Errorf("failed to write messages: %w", err)
	}

	for _, event := range events {
		p.logger.Debug("event published to kafka",
			zap.String("topic", event.EventType()),
			zap.String("event_id", event.EventID().String()),
			zap.String("aggregate_id", event.AggregateID().String()),
		)
	}

	return nil
}

// Close flushes and closes the underlying writer
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

var _ shared.EventPublisher = (*KafkaPublisher)(nil)
