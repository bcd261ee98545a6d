package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/dumbco/checkout-service/internal/config"
	"github.com/dumbco/checkout-service/internal/service"
)

// PaymentEventType represents the type of payment event.
type PaymentEventType string

const (
	PaymentEventSucceeded PaymentEventType = "payment.succeeded"
	PaymentEventFailed    PaymentEventType = "payment.failed"
)

// PaymentEvent is a payment outcome reported by the payments pipeline.
type PaymentEvent struct {
	ID              string           `json:"id"`
	Type            PaymentEventType `json:"type"`
	SessionID       string           `json:"session_id"`
	PaymentIntentID string           `json:"payment_intent_id"`
	Timestamp       time.Time        `json:"timestamp"`
}

// KafkaConsumer consumes payment events and applies them to checkout
// sessions.
type KafkaConsumer struct {
	reader   *kafka.Reader
	checkout *service.CheckoutService
	logger   *zap.Logger
	stopCh   chan struct{}
}

// NewKafkaConsumer creates a Kafka-based payment event consumer.
func NewKafkaConsumer(cfg config.KafkaConfig, checkout *service.CheckoutService, logger *zap.Logger) *KafkaConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    cfg.PaymentsTopic,
		GroupID:  cfg.ConsumerGroup,
		MinBytes: 1,
		MaxBytes: 10e6,
		MaxWait:  time.Second,
	})

	return &KafkaConsumer{
		reader:   reader,
		checkout: checkout,
		logger:   logger,
		stopCh:   make(chan struct{}),
	}
}

// Start begins consuming events.
func (c *KafkaConsumer) Start(ctx context.Context) error {
	c.logger.Info("Starting payment event consumer")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.stopCh:
			c.logger.Info("Payment event consumer stopped")
			return nil
		default:
			msg, err := c.reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				c.logger.Error("Failed to read message", zap.Error(err))
				continue
			}

			c.handleMessage(ctx, msg)
		}
	}
}

// Stop stops the consumer.
func (c *KafkaConsumer) Stop() {
	close(c.stopCh)
	c.reader.Close()
}

func (c *KafkaConsumer) handleMessage(ctx context.Context, msg kafka.Message) {
	var event PaymentEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		c.logger.Error("Failed to decode payment event",
			zap.Int64("offset", msg.Offset),
			zap.Error(err),
		)
		return
	}

	if event.SessionID == "" {
		c.logger.Warn("Payment event without session ID",
			zap.String("event_id", event.ID),
		)
		return
	}

	switch event.Type {
	case PaymentEventSucceeded:
		if err := c.checkout.HandlePaymentResult(ctx, event.SessionID, true); err != nil {
			c.logger.Error("Failed to apply payment success",
				zap.String("session_id", event.SessionID),
				zap.Error(err),
			)
		}
	case PaymentEventFailed:
		if err := c.checkout.HandlePaymentResult(ctx, event.SessionID, false); err != nil {
			c.logger.Error("Failed to apply payment failure",
				zap.String("session_id", event.SessionID),
				zap.Error(err),
			)
		}
	default:
		c.logger.Debug("Ignoring payment event",
			zap.String("type", string(event.Type)),
		)
	}
}
