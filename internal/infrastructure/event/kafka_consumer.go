package event

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// KafkaConsumerConfig holds configuration for a Kafka consumer
type KafkaConsumerConfig struct {
	Brokers []string
	Topic   string
	GroupID string
	// ErrorBackoff is the pause after a failed handler call before the
	// next fetch. Defaults to one second.
	ErrorBackoff time.Duration
}

// KafkaConsumer delivers messages from one topic to one handler. Each
// consumer group keeps its own offsets, so inventory and ledger each see
// every order event independently.
//
// Offsets are committed only after the handler returns nil. A non-nil
// return leaves the offset where it was, so the message is delivered
// again after a restart or rebalance. Handlers deal with permanent
// failures themselves and return nil to drop the message.
type KafkaConsumer struct {
	reader     *kafka.Reader
	serializer *EventSerializer
	handler    shared.EventHandler
	backoff    time.Duration
	logger     *zap.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewKafkaConsumer creates a consumer for the given topic and group
func NewKafkaConsumer(cfg KafkaConsumerConfig, serializer *EventSerializer, handler shared.EventHandler, logger *zap.Logger) *KafkaConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: cfg.Brokers,
		Topic:   cfg.Topic,
		GroupID: cfg.GroupID,
		// Manual commits only; CommitMessages is the ack.
		CommitInterval: 0,
		MinBytes:       1,
		MaxBytes:       10e6,
	})

	backoff := cfg.ErrorBackoff
	if backoff <= 0 {
		backoff = time.Second
	}

	return &KafkaConsumer{
		reader:     reader,
		serializer: serializer,
		handler:    handler,
		backoff:    backoff,
		logger:     logger,
	}
}

// Start begins consuming in a background goroutine
func (c *KafkaConsumer) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	c.wg.Add(1)
	go c.consumeLoop(ctx)

	c.logger.Info("kafka consumer started",
		zap.String("topic", c.reader.Config().Topic),
		zap.String("group_id", c.reader.Config().GroupID),
	)

	return nil
}

// Stop cancels the consume loop and closes the reader
func (c *KafkaConsumer) Stop(ctx context.Context) error {
	if c.cancel != nil {
		c.cancel()
	}

	if err := c.reader.Close(); err != nil {
		c.logger.Error("failed to close kafka reader", zap.Error(err))
	}

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		c.logger.Info("kafka consumer stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *KafkaConsumer) consumeLoop(ctx context.Context) {
	defer c.wg.Done()

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) || errors.Is(err, kafka.ErrGroupClosed) {
				return
			}
			c.logger.Error("failed to fetch message", zap.Error(err))
			if !c.sleep(ctx) {
				return
			}
			continue
		}

		if err := c.processMessage(ctx, msg); err != nil {
			// No commit: the broker redelivers this offset later.
			c.logger.Warn("message processing failed, offset not committed",
				zap.String("topic", msg.Topic),
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
			if !c.sleep(ctx) {
				return
			}
			continue
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.logger.Error("failed to commit offset",
				zap.String("topic", msg.Topic),
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
		}
	}
}

func (c *KafkaConsumer) processMessage(ctx context.Context, msg kafka.Message) error {
	eventType := msg.Topic
	for _, h := range msg.Headers {
		if h.Key == "event_type" {
			eventType = string(h.Value)
			break
		}
	}

	event, err := c.serializer.Deserialize(eventType, msg.Value)
	if err != nil {
		return err
	}

	return c.handler.Handle(ctx, event)
}

func (c *KafkaConsumer) sleep(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(c.backoff):
		return true
	}
}
