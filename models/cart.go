package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxItemQuantity caps a single cart line.
const MaxItemQuantity = 100

type CartItem struct {
	ProductID    primitive.ObjectID `json:"productId" bson:"productId"`
	VendorID     primitive.ObjectID `json:"vendorId" bson:"vendorId"`
	Quantity     int                `json:"quantity" bson:"quantity"`
	PricePerUnit float64            `json:"pricePerUnit" bson:"pricePerUnit"`
	TotalPrice   float64            `json:"totalPrice" bson:"totalPrice"`
	AddedAt      time.Time          `json:"addedAt" bson:"addedAt"`
}

// Cart is the per-customer mutable line item collection. Totals are
// denormalized and recomputed on every mutation.
type Cart struct {
	ID         primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	UserID     primitive.ObjectID `json:"userId" bson:"userId"`
	Items      []CartItem         `json:"items" bson:"items"`
	TotalItems int                `json:"totalItems" bson:"totalItems"`
	Subtotal   float64            `json:"subtotal" bson:"subtotal"`
	CreatedAt  time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type CartSummary struct {
	TotalItems int     `json:"totalItems"`
	Subtotal   float64 `json:"subtotal"`
	ItemCount  int     `json:"itemCount"`
	Vendors    int     `json:"vendors"`
}

func NewCart(userID primitive.ObjectID) *Cart {
	now := time.Now().UTC()
	return &Cart{
		UserID:    userID,
		Items:     []CartItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (c *Cart) recomputeTotals() {
	totalItems := 0
	subtotal := 0.0
	for _, item := range c.Items {
		totalItems += item.Quantity
		subtotal += item.TotalPrice
	}
	c.TotalItems = totalItems
	c.Subtotal = subtotal
	c.UpdatedAt = time.Now().UTC()
}

// AddItem merges the quantity into an existing line for the product or
// appends a new line, then recomputes totals.
func (c *Cart) AddItem(productID, vendorID primitive.ObjectID, quantity int, pricePerUnit float64) {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity += quantity
			c.Items[i].TotalPrice = float64(c.Items[i].Quantity) * c.Items[i].PricePerUnit
			c.recomputeTotals()
			return
		}
	}
	c.Items = append(c.Items, CartItem{
		ProductID:    productID,
		VendorID:     vendorID,
		Quantity:     quantity,
		PricePerUnit: pricePerUnit,
		TotalPrice:   float64(quantity) * pricePerUnit,
		AddedAt:      time.Now().UTC(),
	})
	c.recomputeTotals()
}

// UpdateItemQuantity replaces a line's quantity, pricing it against the
// stored unit price. Quantity <= 0 removes the line. Returns false when the
// product has no line in the cart.
func (c *Cart) UpdateItemQuantity(productID primitive.ObjectID, quantity int) bool {
	for i := range c.Items {
		if c.Items[i].ProductID != productID {
			continue
		}
		if quantity <= 0 {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
		} else {
			c.Items[i].Quantity = quantity
			c.Items[i].TotalPrice = float64(quantity) * c.Items[i].PricePerUnit
		}
		c.recomputeTotals()
		return true
	}
	return false
}

// SetItemPrice replaces a line's unit price snapshot and reprices the
// line. Returns false when the product has no line in the cart.
func (c *Cart) SetItemPrice(productID primitive.ObjectID, pricePerUnit float64) bool {
	for i := range c.Items {
		if c.Items[i].ProductID != productID {
			continue
		}
		c.Items[i].PricePerUnit = pricePerUnit
		c.Items[i].TotalPrice = float64(c.Items[i].Quantity) * pricePerUnit
		c.recomputeTotals()
		return true
	}
	return false
}

// RemoveItem drops the line for the product, if present.
func (c *Cart) RemoveItem(productID primitive.ObjectID) {
	items := c.Items[:0]
	for _, item := range c.Items {
		if item.ProductID != productID {
			items = append(items, item)
		}
	}
	c.Items = items
	c.recomputeTotals()
}

// Clear removes all lines.
func (c *Cart) Clear() {
	c.Items = []CartItem{}
	c.recomputeTotals()
}

// VendorID returns the single vendor all lines reference, or nil for an
// empty cart.
func (c *Cart) VendorID() *primitive.ObjectID {
	if len(c.Items) == 0 {
		return nil
	}
	return &c.Items[0].VendorID
}

// HasVendorConflict reports whether adding an item from the given vendor
// would break the single-vendor invariant.
func (c *Cart) HasVendorConflict(vendorID primitive.ObjectID) bool {
	existing := c.VendorID()
	return existing != nil && *existing != vendorID
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c *Cart) Summary() CartSummary {
	vendors := map[primitive.ObjectID]struct{}{}
	for _, item := range c.Items {
		vendors[item.VendorID] = struct{}{}
	}
	return CartSummary{
		TotalItems: c.TotalItems,
		Subtotal:   c.Subtotal,
		ItemCount:  len(c.Items),
		Vendors:    len(vendors),
	}
}
