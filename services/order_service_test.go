package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/freshcatch/backend/models"
	"github.com/freshcatch/backend/repository"
)

type orderFixture struct {
	orders   *MockOrderRepository
	products *MockProductRepository
	service  *OrderService

	customerID primitive.ObjectID
	vendorID   primitive.ObjectID
	order      *models.Order
}

func newOrderFixture(status string) *orderFixture {
	f := &orderFixture{
		orders:     new(MockOrderRepository),
		products:   new(MockProductRepository),
		customerID: primitive.NewObjectID(),
		vendorID:   primitive.NewObjectID(),
	}
	f.service = NewOrderService(f.orders, f.products, nil)
	f.order = &models.Order{
		ID:          primitive.NewObjectID(),
		OrderNumber: "ORD-TEST-00001",
		CustomerID:  f.customerID,
		VendorID:    f.vendorID,
		OrderStatus: status,
		Items: []models.OrderItem{
			{ProductID: primitive.NewObjectID(), ProductName: "Pomfret", Quantity: 2, PricePerUnit: 100, TotalPrice: 200},
		},
		StatusHistory: []models.StatusEntry{{Status: models.StatusPending, Timestamp: time.Now().UTC()}},
	}
	return f
}

func TestCancelByCustomer(t *testing.T) {
	ctx := context.Background()

	t.Run("Pending order cancels and restores stock", func(t *testing.T) {
		f := newOrderFixture(models.StatusPending)
		f.orders.On("FindByID", ctx, f.order.ID).Return(f.order, nil).Once()
		f.orders.On("Replace", ctx, f.order).Return(nil).Once()
		f.products.On("IncrementStock", ctx, f.order.Items[0].ProductID, 2).Return(nil).Once()

		order, appErr := f.service.CancelByCustomer(ctx, f.customerID, f.order.ID.Hex(), "changed my mind")

		assert.Nil(t, appErr)
		assert.Equal(t, models.StatusCancelled, order.OrderStatus)
		assert.NotNil(t, order.Cancellation)
		assert.Equal(t, models.CancelledByCustomer, order.Cancellation.CancelledBy)
		assert.Equal(t, "changed my mind", order.Cancellation.Reason)
		f.products.AssertExpectations(t)
	})

	t.Run("Preparing order cannot be cancelled by customer", func(t *testing.T) {
		f := newOrderFixture(models.StatusPreparing)
		f.orders.On("FindByID", ctx, f.order.ID).Return(f.order, nil).Once()

		order, appErr := f.service.CancelByCustomer(ctx, f.customerID, f.order.ID.Hex(), "too slow")

		assert.Nil(t, order)
		assert.NotNil(t, appErr)
		assert.Equal(t, 400, appErr.Code)
		assert.Equal(t, models.StatusPreparing, f.order.OrderStatus, "status unchanged")
		f.products.AssertNotCalled(t, "IncrementStock", ctx, mock.Anything, mock.Anything)
	})

	t.Run("Another customer's order is hidden", func(t *testing.T) {
		f := newOrderFixture(models.StatusPending)
		f.orders.On("FindByID", ctx, f.order.ID).Return(f.order, nil).Once()

		_, appErr := f.service.CancelByCustomer(ctx, primitive.NewObjectID(), f.order.ID.Hex(), "x")

		assert.NotNil(t, appErr)
		assert.Equal(t, 404, appErr.Code)
	})
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("Valid transition appends history", func(t *testing.T) {
		f := newOrderFixture(models.StatusPending)
		f.orders.On("FindByID", ctx, f.order.ID).Return(f.order, nil).Once()
		f.orders.On("Replace", ctx, f.order).Return(nil).Once()

		eta := time.Now().Add(2 * time.Hour)
		order, appErr := f.service.UpdateStatus(ctx, f.vendorID, f.order.ID.Hex(), &UpdateOrderStatusRequest{
			Status: models.StatusConfirmed, EstimatedDeliveryTime: &eta,
		})

		assert.Nil(t, appErr)
		assert.Equal(t, models.StatusConfirmed, order.OrderStatus)
		assert.Len(t, order.StatusHistory, 2)
		assert.NotNil(t, order.EstimatedDeliveryTime)
	})

	t.Run("Illegal transition rejected and status unchanged", func(t *testing.T) {
		f := newOrderFixture(models.StatusPending)
		f.orders.On("FindByID", ctx, f.order.ID).Return(f.order, nil).Once()

		order, appErr := f.service.UpdateStatus(ctx, f.vendorID, f.order.ID.Hex(), &UpdateOrderStatusRequest{
			Status: models.StatusDelivered,
		})

		assert.Nil(t, order)
		assert.NotNil(t, appErr)
		assert.Equal(t, 400, appErr.Code)
		assert.Equal(t, models.StatusPending, f.order.OrderStatus)
		f.orders.AssertNotCalled(t, "Replace", ctx, mock.Anything)
	})

	t.Run("Delivered stamps delivery time and settles COD", func(t *testing.T) {
		f := newOrderFixture(models.StatusOutForDelivery)
		f.order.PaymentMethod = models.PaymentMethodCOD
		f.order.PaymentStatus = models.PaymentPending
		f.orders.On("FindByID", ctx, f.order.ID).Return(f.order, nil).Once()
		f.orders.On("Replace", ctx, f.order).Return(nil).Once()

		order, appErr := f.service.UpdateStatus(ctx, f.vendorID, f.order.ID.Hex(), &UpdateOrderStatusRequest{
			Status: models.StatusDelivered,
		})

		assert.Nil(t, appErr)
		assert.NotNil(t, order.ActualDeliveryTime)
		assert.Equal(t, models.PaymentPaid, order.PaymentStatus)
	})

	t.Run("Vendor cancels from preparing with stock restore", func(t *testing.T) {
		f := newOrderFixture(models.StatusPreparing)
		f.orders.On("FindByID", ctx, f.order.ID).Return(f.order, nil).Once()
		f.orders.On("Replace", ctx, f.order).Return(nil).Once()
		f.products.On("IncrementStock", ctx, f.order.Items[0].ProductID, 2).Return(nil).Once()

		order, appErr := f.service.UpdateStatus(ctx, f.vendorID, f.order.ID.Hex(), &UpdateOrderStatusRequest{
			Status: models.StatusCancelled, Reason: "out of fresh stock",
		})

		assert.Nil(t, appErr)
		assert.Equal(t, models.StatusCancelled, order.OrderStatus)
		assert.Equal(t, models.CancelledByVendor, order.Cancellation.CancelledBy)
		f.products.AssertExpectations(t)
	})

	t.Run("Another vendor's order is hidden", func(t *testing.T) {
		f := newOrderFixture(models.StatusPending)
		f.orders.On("FindByID", ctx, f.order.ID).Return(f.order, nil).Once()

		_, appErr := f.service.UpdateStatus(ctx, primitive.NewObjectID(), f.order.ID.Hex(), &UpdateOrderStatusRequest{
			Status: models.StatusConfirmed,
		})

		assert.NotNil(t, appErr)
		assert.Equal(t, 404, appErr.Code)
	})
}

func TestListAndStats(t *testing.T) {
	ctx := context.Background()

	t.Run("Status filter validated", func(t *testing.T) {
		f := newOrderFixture(models.StatusPending)
		_, _, appErr := f.service.ListCustomerOrders(ctx, f.customerID, "shipped", 1, 10)
		assert.NotNil(t, appErr)
		assert.Equal(t, 400, appErr.Code)
	})

	t.Run("Status filter applied", func(t *testing.T) {
		f := newOrderFixture(models.StatusPending)
		f.orders.On("Find", ctx, bson.M{
			"customerId":  f.customerID,
			"orderStatus": models.StatusDelivered,
		}, 1, 10).Return([]models.Order{*f.order}, int64(1), nil).Once()

		orders, total, appErr := f.service.ListCustomerOrders(ctx, f.customerID, models.StatusDelivered, 1, 10)

		assert.Nil(t, appErr)
		assert.Equal(t, int64(1), total)
		assert.Len(t, orders, 1)
	})

	t.Run("Stats period validated", func(t *testing.T) {
		f := newOrderFixture(models.StatusPending)
		_, appErr := f.service.CustomerStats(ctx, f.customerID, "decade")
		assert.NotNil(t, appErr)
		assert.Equal(t, 400, appErr.Code)
	})

	t.Run("Stats defaults to a month window", func(t *testing.T) {
		f := newOrderFixture(models.StatusPending)
		f.orders.On("Stats", ctx, mock.MatchedBy(func(filter bson.M) bool {
			_, ok := filter["createdAt"]
			return filter["customerId"] == f.customerID && ok
		})).Return(&repository.OrderStats{TotalOrders: 3}, nil).Once()

		stats, appErr := f.service.CustomerStats(ctx, f.customerID, "")

		assert.Nil(t, appErr)
		assert.Equal(t, int64(3), stats.TotalOrders)
	})
}

func TestRate(t *testing.T) {
	ctx := context.Background()

	t.Run("Delivered order accepts rating", func(t *testing.T) {
		f := newOrderFixture(models.StatusDelivered)
		f.orders.On("FindByID", ctx, f.order.ID).Return(f.order, nil).Once()
		f.orders.On("Replace", ctx, f.order).Return(nil).Once()

		order, appErr := f.service.Rate(ctx, f.customerID, f.order.ID.Hex(), &RateOrderRequest{Rating: 5, Review: "very fresh"})

		assert.Nil(t, appErr)
		assert.Equal(t, 5, *order.Rating)
		assert.Equal(t, "very fresh", order.Review)
	})

	t.Run("Undelivered order cannot be rated", func(t *testing.T) {
		f := newOrderFixture(models.StatusConfirmed)
		f.orders.On("FindByID", ctx, f.order.ID).Return(f.order, nil).Once()

		_, appErr := f.service.Rate(ctx, f.customerID, f.order.ID.Hex(), &RateOrderRequest{Rating: 4})

		assert.NotNil(t, appErr)
		assert.Equal(t, 400, appErr.Code)
	})

	t.Run("Second rating rejected", func(t *testing.T) {
		f := newOrderFixture(models.StatusDelivered)
		existing := 4
		f.order.Rating = &existing
		f.orders.On("FindByID", ctx, f.order.ID).Return(f.order, nil).Once()

		_, appErr := f.service.Rate(ctx, f.customerID, f.order.ID.Hex(), &RateOrderRequest{Rating: 5})

		assert.NotNil(t, appErr)
		assert.Equal(t, 400, appErr.Code)
	})
}
