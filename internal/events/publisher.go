// Package events publishes order lifecycle events to Kafka.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/marketmesh/marketmesh/internal/config"
	"github.com/marketmesh/marketmesh/internal/logging"
	"github.com/marketmesh/marketmesh/internal/models"
)

// EventType identifies an order lifecycle event.
type EventType string

const (
	EventTypeOrderCheckedOut    EventType = "order.checked_out"
	EventTypeOrderStatusChanged EventType = "order.status_changed"
	EventTypeOrderCancelled     EventType = "order.cancelled"
	EventTypePaymentProcessed   EventType = "order.payment_processed"
)

// OrderEvent is the wire format for order events.
type OrderEvent struct {
	ID             string          `json:"id"`
	Type           EventType       `json:"type"`
	OrderID        string          `json:"order_id"`
	CustomerID     string          `json:"customer_id"`
	PreviousStatus string          `json:"previous_status,omitempty"`
	Data           json.RawMessage `json:"data,omitempty"`
	Timestamp      time.Time       `json:"timestamp"`
}

// Publisher emits order events. Implementations must be safe for concurrent
// use; publishing is best effort and never fails the enclosing request.
type Publisher interface {
	PublishOrderCheckedOut(ctx context.Context, order *models.Order) error
	PublishOrderStatusChanged(ctx context.Context, order *models.Order, previous models.OrderStatus) error
	PublishOrderCancelled(ctx context.Context, order *models.Order, reason string) error
	PublishPaymentProcessed(ctx context.Context, order *models.Order, success bool) error
	Close() error
}

// KafkaPublisher publishes order events to a Kafka topic keyed by order id.
type KafkaPublisher struct {
	writer *kafka.Writer
	logger *logging.Logger
}

// NewKafkaPublisher creates a publisher for the configured orders topic.
func NewKafkaPublisher(cfg config.KafkaConfig, logger *logging.Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.OrdersTopic,
		Balancer:     &kafka.LeastBytes{},
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireOne,
	}
	return &KafkaPublisher{writer: writer, logger: logger}
}

func (p *KafkaPublisher) publish(ctx context.Context, event OrderEvent) error {
	event.ID = uuid.NewString()
	event.Timestamp = time.Now().UTC()

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.OrderID),
		Value: payload,
	})
	if err != nil {
		p.logger.Error("Failed to publish order event", logging.Fields{
			"type":     string(event.Type),
			"order_id": event.OrderID,
			"error":    err.Error(),
		})
		return err
	}

	p.logger.Debug("Order event published", logging.Fields{
		"type":     string(event.Type),
		"order_id": event.OrderID,
	})
	return nil
}

func (p *KafkaPublisher) PublishOrderCheckedOut(ctx context.Context, order *models.Order) error {
	data, err := json.Marshal(order)
	if err != nil {
		return err
	}
	return p.publish(ctx, OrderEvent{
		Type:       EventTypeOrderCheckedOut,
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		Data:       data,
	})
}

func (p *KafkaPublisher) PublishOrderStatusChanged(ctx context.Context, order *models.Order, previous models.OrderStatus) error {
	return p.publish(ctx, OrderEvent{
		Type:           EventTypeOrderStatusChanged,
		OrderID:        order.ID,
		CustomerID:     order.CustomerID,
		PreviousStatus: string(previous),
		Data:           json.RawMessage(`{"status":"` + string(order.Status) + `"}`),
	})
}

func (p *KafkaPublisher) PublishOrderCancelled(ctx context.Context, order *models.Order, reason string) error {
	data, err := json.Marshal(map[string]string{"reason": reason})
	if err != nil {
		return err
	}
	return p.publish(ctx, OrderEvent{
		Type:       EventTypeOrderCancelled,
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		Data:       data,
	})
}

func (p *KafkaPublisher) PublishPaymentProcessed(ctx context.Context, order *models.Order, success bool) error {
	data, err := json.Marshal(map[string]interface{}{
		"success":        success,
		"payment_status": order.PaymentStatus,
	})
	if err != nil {
		return err
	}
	return p.publish(ctx, OrderEvent{
		Type:       EventTypePaymentProcessed,
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		Data:       data,
	})
}

// Close flushes and closes the underlying writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher discards all events. Used when the broker is disabled and in
// tests.
type NopPublisher struct{}

func (NopPublisher) PublishOrderCheckedOut(context.Context, *models.Order) error {
	return nil
}

func (NopPublisher) PublishOrderStatusChanged(context.Context, *models.Order, models.OrderStatus) error {
	return nil
}

func (NopPublisher) PublishOrderCancelled(context.Context, *models.Order, string) error {
	return nil
}

func (NopPublisher) PublishPaymentProcessed(context.Context, *models.Order, bool) error {
	return nil
}

func (NopPublisher) Close() error { return nil }
