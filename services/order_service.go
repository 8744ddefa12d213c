package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/freshcatch/backend/models"
	"github.com/freshcatch/backend/pkg/apierr"
	"github.com/freshcatch/backend/repository"
)

type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"required,min=3,max=500"`
}

type UpdateOrderStatusRequest struct {
	Status                string     `json:"status" binding:"required"`
	EstimatedDeliveryTime *time.Time `json:"estimatedDeliveryTime" binding:"omitempty"`
	Note                  string     `json:"note" binding:"omitempty,max=500"`
	Reason                string     `json:"reason" binding:"omitempty,max=500"`
}

type RateOrderRequest struct {
	Rating int    `json:"rating" binding:"required,min=1,max=5"`
	Review string `json:"review" binding:"omitempty,max=1000"`
}

type OrderService struct {
	orders   repository.OrderRepository
	products repository.ProductRepository
	events   *EventPublisher
}

func NewOrderService(orders repository.OrderRepository, products repository.ProductRepository, events *EventPublisher) *OrderService {
	return &OrderService{orders: orders, products: products, events: events}
}

// ListCustomerOrders returns the customer's orders, newest first, optionally
// filtered by status.
func (s *OrderService) ListCustomerOrders(ctx context.Context, customerID primitive.ObjectID, status string, page, limit int) ([]models.Order, int64, *apierr.Error) {
	filter := bson.M{"customerId": customerID}
	if status != "" {
		if !models.IsValidStatus(status) {
			return nil, 0, apierr.Validation("Invalid order status filter")
		}
		filter["orderStatus"] = status
	}
	orders, total, err := s.orders.Find(ctx, filter, page, limit)
	if err != nil {
		return nil, 0, apierr.Internal("Failed to fetch orders", err)
	}
	return orders, total, nil
}

// GetCustomerOrder fetches one order, enforcing ownership.
func (s *OrderService) GetCustomerOrder(ctx context.Context, customerID primitive.ObjectID, orderIDHex string) (*models.Order, *apierr.Error) {
	order, appErr := s.find(ctx, orderIDHex)
	if appErr != nil {
		return nil, appErr
	}
	if order.CustomerID != customerID {
		return nil, apierr.NotFound("Order not found")
	}
	return order, nil
}

// CancelByCustomer cancels a pending or confirmed order and restores stock.
func (s *OrderService) CancelByCustomer(ctx context.Context, customerID primitive.ObjectID, orderIDHex, reason string) (*models.Order, *apierr.Error) {
	order, appErr := s.GetCustomerOrder(ctx, customerID, orderIDHex)
	if appErr != nil {
		return nil, appErr
	}
	return s.cancel(ctx, order, models.CancelledByCustomer, reason)
}

func (s *OrderService) cancel(ctx context.Context, order *models.Order, actor, reason string) (*models.Order, *apierr.Error) {
	if !order.CanBeCancelledBy(actor) {
		return nil, apierr.InvalidTransition(fmt.Sprintf(
			"Order cannot be cancelled in status %q", order.OrderStatus))
	}

	now := nowUTC()
	order.RecordStatus(models.StatusCancelled, now)
	order.Cancellation = &models.Cancellation{
		CancelledBy: actor,
		Reason:      reason,
		CancelledAt: now,
	}
	if err := s.orders.Replace(ctx, order); err != nil {
		return nil, apierr.Internal("Failed to cancel order", err)
	}

	s.restoreStock(ctx, order)
	s.events.PublishOrderEvent(ctx, EventOrderCancelled, order)
	return order, nil
}

// restoreStock puts each line's quantity back. Best-effort: a line that
// fails is logged and the rest still restore.
func (s *OrderService) restoreStock(ctx context.Context, order *models.Order) {
	for _, item := range order.Items {
		if err := s.products.IncrementStock(ctx, item.ProductID, item.Quantity); err != nil {
			zap.L().Error("failed to restore stock for cancelled order",
				zap.String("orderNumber", order.OrderNumber),
				zap.String("productId", item.ProductID.Hex()),
				zap.Error(err))
		}
	}
}

// CustomerStats aggregates the customer's order history over a period
// (week, month or year).
func (s *OrderService) CustomerStats(ctx context.Context, customerID primitive.ObjectID, period string) (*repository.OrderStats, *apierr.Error) {
	now := nowUTC()
	var since time.Time
	switch period {
	case "", "month":
		since = now.AddDate(0, -1, 0)
	case "week":
		since = now.AddDate(0, 0, -7)
	case "year":
		since = now.AddDate(-1, 0, 0)
	default:
		return nil, apierr.Validation("Period must be one of: week, month, year")
	}

	stats, err := s.orders.Stats(ctx, bson.M{
		"customerId": customerID,
		"createdAt":  bson.M{"$gte": since},
	})
	if err != nil {
		return nil, apierr.Internal("Failed to compute order stats", err)
	}
	return stats, nil
}

// Rate records a rating and optional review on a delivered order.
func (s *OrderService) Rate(ctx context.Context, customerID primitive.ObjectID, orderIDHex string, req *RateOrderRequest) (*models.Order, *apierr.Error) {
	order, appErr := s.GetCustomerOrder(ctx, customerID, orderIDHex)
	if appErr != nil {
		return nil, appErr
	}
	if order.OrderStatus != models.StatusDelivered {
		return nil, apierr.Validation("Only delivered orders can be rated")
	}
	if order.Rating != nil {
		return nil, apierr.Conflict("Order has already been rated")
	}

	rating := req.Rating
	order.Rating = &rating
	order.Review = req.Review
	if err := s.orders.Replace(ctx, order); err != nil {
		return nil, apierr.Internal("Failed to save rating", err)
	}
	return order, nil
}

// ListVendorOrders returns the vendor's incoming orders, newest first,
// optionally filtered by status.
func (s *OrderService) ListVendorOrders(ctx context.Context, vendorID primitive.ObjectID, status string, page, limit int) ([]models.Order, int64, *apierr.Error) {
	filter := bson.M{"vendorId": vendorID}
	if status != "" {
		if !models.IsValidStatus(status) {
			return nil, 0, apierr.Validation("Invalid order status filter")
		}
		filter["orderStatus"] = status
	}
	orders, total, err := s.orders.Find(ctx, filter, page, limit)
	if err != nil {
		return nil, 0, apierr.Internal("Failed to fetch orders", err)
	}
	return orders, total, nil
}

// UpdateStatus drives a vendor's order through the fulfillment graph. Only
// transitions present in the status table are accepted; cancellation goes
// through the cancellation path so stock is restored.
func (s *OrderService) UpdateStatus(ctx context.Context, vendorID primitive.ObjectID, orderIDHex string, req *UpdateOrderStatusRequest) (*models.Order, *apierr.Error) {
	order, appErr := s.find(ctx, orderIDHex)
	if appErr != nil {
		return nil, appErr
	}
	if order.VendorID != vendorID {
		return nil, apierr.NotFound("Order not found")
	}
	if !models.IsValidStatus(req.Status) {
		return nil, apierr.Validation("Invalid order status")
	}

	if req.Status == models.StatusCancelled {
		reason := req.Reason
		if reason == "" {
			reason = "Cancelled by vendor"
		}
		return s.cancel(ctx, order, models.CancelledByVendor, reason)
	}

	if !models.CanTransition(order.OrderStatus, req.Status) {
		return nil, apierr.InvalidTransition(fmt.Sprintf(
			"Cannot change order status from %q to %q", order.OrderStatus, req.Status))
	}

	now := nowUTC()
	order.RecordStatus(req.Status, now)
	if req.Note != "" {
		order.StatusHistory[len(order.StatusHistory)-1].Note = req.Note
	}
	switch req.Status {
	case models.StatusConfirmed:
		if req.EstimatedDeliveryTime != nil {
			order.EstimatedDeliveryTime = req.EstimatedDeliveryTime
		}
	case models.StatusDelivered:
		order.ActualDeliveryTime = &now
		if order.PaymentMethod == models.PaymentMethodCOD {
			order.PaymentStatus = models.PaymentPaid
		}
	}

	if err := s.orders.Replace(ctx, order); err != nil {
		return nil, apierr.Internal("Failed to update order status", err)
	}

	s.events.PublishOrderEvent(ctx, EventOrderStatusChanged, order)
	return order, nil
}

func (s *OrderService) find(ctx context.Context, orderIDHex string) (*models.Order, *apierr.Error) {
	orderID, appErr := parseObjectID(orderIDHex)
	if appErr != nil {
		return nil, appErr
	}
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apierr.NotFound("Order not found")
		}
		return nil, apierr.Internal("Failed to fetch order", err)
	}
	return order, nil
}
