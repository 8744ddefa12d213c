package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/freshcatch/backend/models"
	"github.com/freshcatch/backend/pkg/apierr"
	"github.com/freshcatch/backend/repository"
)

type CheckoutRequest struct {
	AddressID           string `json:"addressId" binding:"required"`
	PaymentMethod       string `json:"paymentMethod" binding:"required,oneof=cash_on_delivery online wallet"`
	SpecialInstructions string `json:"specialInstructions" binding:"omitempty,max=500"`
}

// CheckoutService turns a validated cart into an order. The flow is not a
// database transaction: stock is claimed per line with a conditional
// decrement, and any failure compensates the lines already claimed before
// deleting the order.
type CheckoutService struct {
	carts          repository.CartRepository
	products       repository.ProductRepository
	vendors        repository.VendorRepository
	orders         repository.OrderRepository
	users          repository.UserRepository
	idempotency    repository.IdempotencyRepository
	events         *EventPublisher
	platformFee    float64
	idempotencyTTL time.Duration
}

func NewCheckoutService(
	carts repository.CartRepository,
	products repository.ProductRepository,
	vendors repository.VendorRepository,
	orders repository.OrderRepository,
	users repository.UserRepository,
	idempotency repository.IdempotencyRepository,
	events *EventPublisher,
	platformFeeRate float64,
	idempotencyTTL time.Duration,
) *CheckoutService {
	return &CheckoutService{
		carts:          carts,
		products:       products,
		vendors:        vendors,
		orders:         orders,
		users:          users,
		idempotency:    idempotency,
		events:         events,
		platformFee:    platformFeeRate,
		idempotencyTTL: idempotencyTTL,
	}
}

// Checkout creates an order from the caller's cart. When idempotencyKey is
// non-empty and a previous checkout already succeeded under it, that order
// is returned instead of creating a duplicate.
func (s *CheckoutService) Checkout(ctx context.Context, userID primitive.ObjectID, req *CheckoutRequest, idempotencyKey string) (*models.Order, *apierr.Error) {
	if idempotencyKey != "" {
		if order, appErr := s.replayIdempotent(ctx, idempotencyKey); appErr != nil || order != nil {
			return order, appErr
		}
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, apierr.Internal("Failed to fetch user", err)
	}
	address, appErr := s.resolveAddress(user, req.AddressID)
	if appErr != nil {
		return nil, appErr
	}

	cart, err := s.carts.FindByUserID(ctx, userID)
	if err != nil || cart.IsEmpty() {
		return nil, apierr.Validation("Cart is empty")
	}

	now := nowUTC()
	vendor, err := s.vendors.FindByID(ctx, *cart.VendorID())
	if err != nil {
		return nil, apierr.Internal("Failed to fetch vendor", err)
	}
	if !vendor.IsVerified {
		return nil, apierr.Validation("Vendor is not verified")
	}
	if !vendor.IsCurrentlyOpen(now) {
		return nil, apierr.Validation("Vendor is currently closed")
	}
	if !vendor.ServesPincode(address.ZipCode) {
		return nil, apierr.Validation("Vendor does not deliver to pincode " + address.ZipCode)
	}

	items, appErr := s.snapshotItems(ctx, cart, now)
	if appErr != nil {
		return nil, appErr
	}

	order := &models.Order{
		ID:                  primitive.NewObjectID(),
		OrderNumber:         models.NewOrderNumber(now),
		CustomerID:          user.ID,
		CustomerName:        user.Name,
		CustomerPhone:       user.Phone,
		VendorID:            vendor.ID,
		VendorName:          vendor.ShopName,
		VendorPhone:         vendor.PhoneNumber,
		Items:               items,
		DeliveryAddress:     *address,
		OrderStatus:         models.StatusPending,
		PaymentStatus:       models.PaymentPending,
		PaymentMethod:       req.PaymentMethod,
		SpecialInstructions: req.SpecialInstructions,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	order.Pricing.DeliveryFee = vendor.DeliveryFee
	order.Pricing.PlatformFee = roundMoney(cart.Subtotal * s.platformFee)
	order.ComputeTotal()
	order.StatusHistory = []models.StatusEntry{{Status: models.StatusPending, Timestamp: now}}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, apierr.Internal("Failed to create order", err)
	}

	// Claim stock per line with a conditional decrement. On failure, put
	// back what was already claimed and drop the order.
	if appErr := s.claimStock(ctx, order); appErr != nil {
		return nil, appErr
	}

	if err := s.carts.Delete(ctx, cart.ID); err != nil {
		zap.L().Warn("failed to delete cart after checkout",
			zap.String("orderNumber", order.OrderNumber), zap.Error(err))
	}
	if err := s.vendors.IncrementTotalOrders(ctx, vendor.ID); err != nil {
		zap.L().Warn("failed to increment vendor order count", zap.Error(err))
	}

	if idempotencyKey != "" {
		if err := s.idempotency.Set(ctx, idempotencyKey, order.ID.Hex(), s.idempotencyTTL); err != nil {
			zap.L().Warn("failed to store idempotency key", zap.Error(err))
		}
	}

	s.events.PublishOrderEvent(ctx, EventOrderCreated, order)
	return order, nil
}

func (s *CheckoutService) replayIdempotent(ctx context.Context, key string) (*models.Order, *apierr.Error) {
	orderIDHex, err := s.idempotency.Get(ctx, key)
	if err != nil {
		return nil, apierr.Internal("Failed to check idempotency key", err)
	}
	if orderIDHex == "" {
		return nil, nil
	}
	orderID, parseErr := primitive.ObjectIDFromHex(orderIDHex)
	if parseErr != nil {
		return nil, nil
	}
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, nil
	}
	return order, nil
}

func (s *CheckoutService) resolveAddress(user *models.User, addressIDHex string) (*models.DeliveryAddress, *apierr.Error) {
	addressID, appErr := parseObjectID(addressIDHex)
	if appErr != nil {
		return nil, appErr
	}
	for _, addr := range user.Addresses {
		if addr.ID != addressID {
			continue
		}
		return &models.DeliveryAddress{
			Label:       addr.Label,
			Street:      addr.Street,
			City:        addr.City,
			State:       addr.State,
			ZipCode:     addr.ZipCode,
			Coordinates: addr.Coordinates,
		}, nil
	}
	return nil, apierr.NotFound("Address not found")
}

// snapshotItems re-reads every product and freezes name, image, unit and
// price into order lines. Any issue fails the whole checkout: the cart
// validate endpoint exists to surface these beforehand.
func (s *CheckoutService) snapshotItems(ctx context.Context, cart *models.Cart, now time.Time) ([]models.OrderItem, *apierr.Error) {
	items := make([]models.OrderItem, 0, len(cart.Items))
	for _, line := range cart.Items {
		product, err := s.products.FindByID(ctx, line.ProductID)
		if err != nil {
			return nil, apierr.Validation("A cart item is no longer available")
		}
		if !product.IsAvailable {
			return nil, apierr.Validation("Product " + product.Name + " is no longer available")
		}
		if !product.IsInStock(line.Quantity) {
			return nil, apierr.Validation("Insufficient stock for " + product.Name)
		}
		price := product.FinalPrice(now)
		if price != line.PricePerUnit {
			return nil, apierr.Validation("Price changed for " + product.Name + ", please sync your cart")
		}
		items = append(items, models.OrderItem{
			ProductID:    product.ID,
			ProductName:  product.Name,
			ProductImage: product.MainImage(),
			Quantity:     line.Quantity,
			PricePerUnit: price,
			TotalPrice:   float64(line.Quantity) * price,
			Unit:         product.Unit,
		})
	}
	return items, nil
}

func (s *CheckoutService) claimStock(ctx context.Context, order *models.Order) *apierr.Error {
	for i, item := range order.Items {
		err := s.products.DecrementStock(ctx, item.ProductID, item.Quantity)
		if err == nil {
			continue
		}
		s.compensate(ctx, order, i)
		if errors.Is(err, repository.ErrInsufficientStock) {
			return apierr.Validation("Insufficient stock for " + item.ProductName)
		}
		return apierr.Internal("Failed to reserve stock", err)
	}
	return nil
}

// compensate restores stock for the first claimed lines and removes the
// pending order left behind by a failed checkout.
func (s *CheckoutService) compensate(ctx context.Context, order *models.Order, claimed int) {
	for j := 0; j < claimed; j++ {
		item := order.Items[j]
		if err := s.products.IncrementStock(ctx, item.ProductID, item.Quantity); err != nil {
			zap.L().Error("failed to restore stock during checkout compensation",
				zap.String("orderNumber", order.OrderNumber),
				zap.String("productId", item.ProductID.Hex()),
				zap.Error(err))
		}
	}
	if err := s.orders.Delete(ctx, order.ID); err != nil {
		zap.L().Error("failed to remove order during checkout compensation",
			zap.String("orderNumber", order.OrderNumber), zap.Error(err))
	}
}
