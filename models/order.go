package models

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order statuses.
const (
	StatusPending        = "pending"
	StatusConfirmed      = "confirmed"
	StatusPreparing      = "preparing"
	StatusReadyForPickup = "ready_for_pickup"
	StatusOutForDelivery = "out_for_delivery"
	StatusDelivered      = "delivered"
	StatusCancelled      = "cancelled"
)

// Payment statuses and methods.
const (
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentFailed   = "failed"
	PaymentRefunded = "refunded"

	PaymentMethodCOD    = "cash_on_delivery"
	PaymentMethodOnline = "online"
	PaymentMethodWallet = "wallet"
)

// Cancellation actors.
const (
	CancelledByCustomer = "customer"
	CancelledByVendor   = "vendor"
)

// statusTransitions is the fixed directed graph of allowed status changes.
// Terminal states map to empty sets.
var statusTransitions = map[string][]string{
	StatusPending:        {StatusConfirmed, StatusCancelled},
	StatusConfirmed:      {StatusPreparing, StatusCancelled},
	StatusPreparing:      {StatusReadyForPickup, StatusCancelled},
	StatusReadyForPickup: {StatusOutForDelivery},
	StatusOutForDelivery: {StatusDelivered},
	StatusDelivered:      {},
	StatusCancelled:      {},
}

// CanTransition reports whether from -> to appears in the transition table.
func CanTransition(from, to string) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsValidStatus reports whether the status is a known order status.
func IsValidStatus(status string) bool {
	_, ok := statusTransitions[status]
	return ok
}

// customerCancellable / vendorCancellable delimit who may drive an order
// into cancelled from which states.
var (
	customerCancellable = []string{StatusPending, StatusConfirmed}
	vendorCancellable   = []string{StatusPending, StatusConfirmed, StatusPreparing}
)

type OrderItem struct {
	ProductID    primitive.ObjectID `json:"productId" bson:"productId"`
	ProductName  string             `json:"productName" bson:"productName"`
	ProductImage string             `json:"productImage" bson:"productImage"`
	Quantity     int                `json:"quantity" bson:"quantity"`
	PricePerUnit float64            `json:"pricePerUnit" bson:"pricePerUnit"`
	TotalPrice   float64            `json:"totalPrice" bson:"totalPrice"`
	Unit         string             `json:"unit" bson:"unit"`
}

type DeliveryAddress struct {
	Label       string    `json:"label" bson:"label"`
	Street      string    `json:"street" bson:"street"`
	City        string    `json:"city" bson:"city"`
	State       string    `json:"state" bson:"state"`
	ZipCode     string    `json:"zipCode" bson:"zipCode"`
	Coordinates []float64 `json:"coordinates,omitempty" bson:"coordinates,omitempty"`
}

type Pricing struct {
	Subtotal    float64 `json:"subtotal" bson:"subtotal"`
	DeliveryFee float64 `json:"deliveryFee" bson:"deliveryFee"`
	PlatformFee float64 `json:"platformFee" bson:"platformFee"`
	Discount    float64 `json:"discount" bson:"discount"`
	TotalAmount float64 `json:"totalAmount" bson:"totalAmount"`
}

type StatusEntry struct {
	Status    string    `json:"status" bson:"status"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
	Note      string    `json:"note,omitempty" bson:"note,omitempty"`
}

type Cancellation struct {
	CancelledBy string    `json:"cancelledBy" bson:"cancelledBy"`
	Reason      string    `json:"reason" bson:"reason"`
	CancelledAt time.Time `json:"cancelledAt" bson:"cancelledAt"`
}

// Order is an immutable-at-creation snapshot of a checked-out cart with a
// mutable fulfillment status and append-only history. Orders are never
// deleted.
type Order struct {
	ID                    primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	OrderNumber           string             `json:"orderNumber" bson:"orderNumber"`
	CustomerID            primitive.ObjectID `json:"customerId" bson:"customerId"`
	CustomerName          string             `json:"customerName" bson:"customerName"`
	CustomerPhone         string             `json:"customerPhone" bson:"customerPhone"`
	VendorID              primitive.ObjectID `json:"vendorId" bson:"vendorId"`
	VendorName            string             `json:"vendorName" bson:"vendorName"`
	VendorPhone           string             `json:"vendorPhone" bson:"vendorPhone"`
	Items                 []OrderItem        `json:"items" bson:"items"`
	DeliveryAddress       DeliveryAddress    `json:"deliveryAddress" bson:"deliveryAddress"`
	OrderStatus           string             `json:"orderStatus" bson:"orderStatus"`
	PaymentStatus         string             `json:"paymentStatus" bson:"paymentStatus"`
	PaymentMethod         string             `json:"paymentMethod" bson:"paymentMethod"`
	Pricing               Pricing            `json:"pricing" bson:"pricing"`
	SpecialInstructions   string             `json:"specialInstructions,omitempty" bson:"specialInstructions,omitempty"`
	EstimatedDeliveryTime *time.Time         `json:"estimatedDeliveryTime,omitempty" bson:"estimatedDeliveryTime,omitempty"`
	ActualDeliveryTime    *time.Time         `json:"actualDeliveryTime,omitempty" bson:"actualDeliveryTime,omitempty"`
	StatusHistory         []StatusEntry      `json:"statusHistory" bson:"statusHistory"`
	Cancellation          *Cancellation      `json:"cancellation,omitempty" bson:"cancellation,omitempty"`
	Rating                *int               `json:"rating,omitempty" bson:"rating,omitempty"`
	Review                string             `json:"review,omitempty" bson:"review,omitempty"`
	CreatedAt             time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt             time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// NewOrderNumber generates a human-readable order number derived from the
// current time and a random suffix, e.g. ORD-MBXK2T1C-7F3A9.
func NewOrderNumber(now time.Time) string {
	ts := strconv.FormatInt(now.UnixMilli(), 36)
	const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	suffix := make([]byte, 5)
	for i := range suffix {
		suffix[i] = alphabet[rand.Intn(len(alphabet))]
	}
	return strings.ToUpper(fmt.Sprintf("ORD-%s-%s", ts, suffix))
}

// RecordStatus moves the order to the new status and appends a history
// entry. Callers must have validated the transition.
func (o *Order) RecordStatus(status string, at time.Time) {
	o.OrderStatus = status
	o.StatusHistory = append(o.StatusHistory, StatusEntry{Status: status, Timestamp: at})
	o.UpdatedAt = at
}

// CanBeCancelledBy reports whether the actor may cancel the order in its
// current status.
func (o *Order) CanBeCancelledBy(actor string) bool {
	var allowed []string
	switch actor {
	case CancelledByCustomer:
		allowed = customerCancellable
	case CancelledByVendor:
		allowed = vendorCancellable
	default:
		return false
	}
	for _, s := range allowed {
		if o.OrderStatus == s {
			return true
		}
	}
	return false
}

// ComputeTotal recomputes the pricing breakdown from line items.
// totalAmount = subtotal + deliveryFee + platformFee - discount.
func (o *Order) ComputeTotal() float64 {
	subtotal := 0.0
	for _, item := range o.Items {
		subtotal += item.TotalPrice
	}
	o.Pricing.Subtotal = subtotal
	o.Pricing.TotalAmount = subtotal + o.Pricing.DeliveryFee + o.Pricing.PlatformFee - o.Pricing.Discount
	return o.Pricing.TotalAmount
}
