package services

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/freshcatch/backend/models"
	"github.com/freshcatch/backend/pkg/awsx"
)

// Order lifecycle event types.
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
	EventOrderCancelled     = "order.cancelled"
)

type orderEvent struct {
	EventType   string    `json:"eventType"`
	OrderID     string    `json:"orderId"`
	OrderNumber string    `json:"orderNumber"`
	CustomerID  string    `json:"customerId"`
	VendorID    string    `json:"vendorId"`
	Status      string    `json:"status"`
	TotalAmount float64   `json:"totalAmount"`
	Timestamp   time.Time `json:"timestamp"`
}

// EventPublisher emits order lifecycle events to SNS. Publishing is
// best-effort: failures are logged, never surfaced to the caller. A nil
// *EventPublisher is a no-op, so the service runs without SNS configured.
type EventPublisher struct {
	publisher awsx.Publisher
	topicARN  string
}

func NewEventPublisher(publisher awsx.Publisher, topicARN string) *EventPublisher {
	if publisher == nil || topicARN == "" {
		return nil
	}
	return &EventPublisher{publisher: publisher, topicARN: topicARN}
}

func (p *EventPublisher) PublishOrderEvent(ctx context.Context, eventType string, order *models.Order) {
	if p == nil {
		return
	}
	payload, err := json.Marshal(orderEvent{
		EventType:   eventType,
		OrderID:     order.ID.Hex(),
		OrderNumber: order.OrderNumber,
		CustomerID:  order.CustomerID.Hex(),
		VendorID:    order.VendorID.Hex(),
		Status:      order.OrderStatus,
		TotalAmount: order.Pricing.TotalAmount,
		Timestamp:   time.Now().UTC(),
	})
	if err != nil {
		zap.L().Error("failed to marshal order event", zap.Error(err))
		return
	}
	if err := p.publisher.Publish(ctx, p.topicARN, payload); err != nil {
		zap.L().Warn("failed to publish order event",
			zap.String("eventType", eventType),
			zap.String("orderNumber", order.OrderNumber),
			zap.Error(err))
	}
}
