package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/dumbco/checkout-service/internal/config"
	"github.com/dumbco/checkout-service/internal/models"
	"github.com/dumbco/checkout-service/internal/service"
)

// Ensure KafkaPublisher implements service.EventPublisher.
var _ service.EventPublisher = (*KafkaPublisher)(nil)

// EventType represents the type of checkout event.
type EventType string

const (
	EventTypeSessionCreated    EventType = "checkout.session_created"
	EventTypePromotionApplied  EventType = "checkout.promotion_applied"
	EventTypeCheckoutConfirmed EventType = "checkout.confirmed"
	EventTypeCheckoutCompleted EventType = "checkout.completed"
)

// CheckoutEvent represents a checkout lifecycle event.
type CheckoutEvent struct {
	ID        string          `json:"id"`
	Type      EventType       `json:"type"`
	SessionID string          `json:"session_id"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// KafkaPublisher publishes checkout events to Kafka.
type KafkaPublisher struct {
	writer *kafka.Writer
	topic  string
	logger *zap.Logger
}

// NewKafkaPublisher creates a Kafka-based event publisher.
func NewKafkaPublisher(cfg config.KafkaConfig, logger *zap.Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.CheckoutTopic,
		Balancer:     &kafka.LeastBytes{},
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireOne,
	}

	return &KafkaPublisher{
		writer: writer,
		topic:  cfg.CheckoutTopic,
		logger: logger,
	}
}

// PublishSessionCreated publishes a session created event.
func (p *KafkaPublisher) PublishSessionCreated(ctx context.Context, session *models.CheckoutSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return p.publish(ctx, newEvent(EventTypeSessionCreated, session.ID, data))
}

// PublishPromotionApplied publishes a promotion applied event.
func (p *KafkaPublisher) PublishPromotionApplied(ctx context.Context, session *models.CheckoutSession) error {
	data, err := json.Marshal(session.Discount)
	if err != nil {
		return err
	}
	return p.publish(ctx, newEvent(EventTypePromotionApplied, session.ID, data))
}

// PublishCheckoutConfirmed publishes a checkout confirmed event.
func (p *KafkaPublisher) PublishCheckoutConfirmed(ctx context.Context, order *models.Order) error {
	data, err := json.Marshal(order)
	if err != nil {
		return err
	}
	return p.publish(ctx, newEvent(EventTypeCheckoutConfirmed, order.SessionID, data))
}

// PublishCheckoutCompleted publishes a checkout completed event.
func (p *KafkaPublisher) PublishCheckoutCompleted(ctx context.Context, sessionID string) error {
	return p.publish(ctx, newEvent(EventTypeCheckoutCompleted, sessionID, nil))
}

// Close flushes and closes the underlying writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func newEvent(eventType EventType, sessionID string, data json.RawMessage) CheckoutEvent {
	return CheckoutEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		SessionID: sessionID,
		Data:      data,
		Timestamp: time.Now(),
	}
}

func (p *KafkaPublisher) publish(ctx context.Context, event CheckoutEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(event.SessionID),
		Value: value,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish event",
			zap.String("type", string(event.Type)),
			zap.String("session_id", event.SessionID),
			zap.Error(err),
		)
		return err
	}

	p.logger.Debug("Event published",
		zap.String("type", string(event.Type)),
		zap.String("session_id", event.SessionID),
	)
	return nil
}
