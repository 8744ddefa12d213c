package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/freshcatch/backend/models"
)

type MockPublisher struct{ mock.Mock }

func (m *MockPublisher) Publish(ctx context.Context, topicArn string, message []byte) error {
	args := m.Called(ctx, topicArn, message)
	return args.Error(0)
}

func TestEventPublisher(t *testing.T) {
	ctx := context.Background()
	order := &models.Order{
		ID:          primitive.NewObjectID(),
		OrderNumber: "ORD-TEST-00001",
		CustomerID:  primitive.NewObjectID(),
		VendorID:    primitive.NewObjectID(),
		OrderStatus: models.StatusPending,
		Pricing:     models.Pricing{TotalAmount: 234},
	}

	t.Run("Nil publisher is a no-op", func(t *testing.T) {
		var p *EventPublisher
		assert.NotPanics(t, func() {
			p.PublishOrderEvent(ctx, EventOrderCreated, order)
		})
		assert.Nil(t, NewEventPublisher(nil, "arn:aws:sns:us-east-1:1:orders"))
		assert.Nil(t, NewEventPublisher(new(MockPublisher), ""))
	})

	t.Run("Publishes the event payload", func(t *testing.T) {
		pub := new(MockPublisher)
		events := NewEventPublisher(pub, "arn:aws:sns:us-east-1:1:orders")
		pub.On("Publish", ctx, "arn:aws:sns:us-east-1:1:orders", mock.MatchedBy(func(payload []byte) bool {
			var evt orderEvent
			if err := json.Unmarshal(payload, &evt); err != nil {
				return false
			}
			return evt.EventType == EventOrderCreated &&
				evt.OrderNumber == order.OrderNumber &&
				evt.TotalAmount == 234
		})).Return(nil).Once()

		events.PublishOrderEvent(ctx, EventOrderCreated, order)
		pub.AssertExpectations(t)
	})

	t.Run("Publish failure is swallowed", func(t *testing.T) {
		pub := new(MockPublisher)
		events := NewEventPublisher(pub, "arn:aws:sns:us-east-1:1:orders")
		pub.On("Publish", ctx, mock.Anything, mock.Anything).Return(assert.AnError).Once()

		assert.NotPanics(t, func() {
			events.PublishOrderEvent(ctx, EventOrderCancelled, order)
		})
	})
}
