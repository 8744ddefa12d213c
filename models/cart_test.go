package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCartTotals(t *testing.T) {
	cart := NewCart(primitive.NewObjectID())
	vendorID := primitive.NewObjectID()
	p1 := primitive.NewObjectID()
	p2 := primitive.NewObjectID()

	cart.AddItem(p1, vendorID, 2, 100)
	cart.AddItem(p2, vendorID, 3, 50)

	assert.Equal(t, 5, cart.TotalItems)
	assert.Equal(t, 350.0, cart.Subtotal)

	// Subtotal always equals the sum over lines.
	sum := 0.0
	for _, item := range cart.Items {
		sum += float64(item.Quantity) * item.PricePerUnit
	}
	assert.Equal(t, sum, cart.Subtotal)
}

func TestCartAddItemMergesExistingLine(t *testing.T) {
	cart := NewCart(primitive.NewObjectID())
	vendorID := primitive.NewObjectID()
	productID := primitive.NewObjectID()

	cart.AddItem(productID, vendorID, 2, 100)
	cart.AddItem(productID, vendorID, 3, 100)

	assert.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
	assert.Equal(t, 500.0, cart.Items[0].TotalPrice)
}

func TestCartUpdateQuantityZeroEqualsRemove(t *testing.T) {
	vendorID := primitive.NewObjectID()
	productID := primitive.NewObjectID()

	viaUpdate := NewCart(primitive.NewObjectID())
	viaUpdate.AddItem(productID, vendorID, 2, 100)
	assert.True(t, viaUpdate.UpdateItemQuantity(productID, 0))

	viaRemove := NewCart(primitive.NewObjectID())
	viaRemove.AddItem(productID, vendorID, 2, 100)
	viaRemove.RemoveItem(productID)

	assert.Equal(t, viaRemove.Items, viaUpdate.Items)
	assert.Equal(t, viaRemove.Subtotal, viaUpdate.Subtotal)
	assert.Equal(t, viaRemove.TotalItems, viaUpdate.TotalItems)
	assert.True(t, viaUpdate.IsEmpty())
}

func TestCartUpdateQuantityUsesStoredPrice(t *testing.T) {
	cart := NewCart(primitive.NewObjectID())
	productID := primitive.NewObjectID()
	cart.AddItem(productID, primitive.NewObjectID(), 2, 100)

	assert.True(t, cart.UpdateItemQuantity(productID, 4))
	assert.Equal(t, 400.0, cart.Items[0].TotalPrice)
	assert.Equal(t, 100.0, cart.Items[0].PricePerUnit)
}

func TestCartUpdateQuantityMissingLine(t *testing.T) {
	cart := NewCart(primitive.NewObjectID())
	assert.False(t, cart.UpdateItemQuantity(primitive.NewObjectID(), 3))
}

func TestCartVendorConflict(t *testing.T) {
	cart := NewCart(primitive.NewObjectID())
	vendorA := primitive.NewObjectID()
	vendorB := primitive.NewObjectID()

	assert.False(t, cart.HasVendorConflict(vendorA), "empty cart accepts any vendor")

	cart.AddItem(primitive.NewObjectID(), vendorA, 1, 10)
	assert.False(t, cart.HasVendorConflict(vendorA))
	assert.True(t, cart.HasVendorConflict(vendorB))
}

func TestCartSetItemPrice(t *testing.T) {
	cart := NewCart(primitive.NewObjectID())
	productID := primitive.NewObjectID()
	cart.AddItem(productID, primitive.NewObjectID(), 3, 100)

	assert.True(t, cart.SetItemPrice(productID, 80))
	assert.Equal(t, 240.0, cart.Items[0].TotalPrice)
	assert.Equal(t, 240.0, cart.Subtotal)
	assert.False(t, cart.SetItemPrice(primitive.NewObjectID(), 80))
}

func TestCartClearAndSummary(t *testing.T) {
	cart := NewCart(primitive.NewObjectID())
	vendorID := primitive.NewObjectID()
	cart.AddItem(primitive.NewObjectID(), vendorID, 2, 100)
	cart.AddItem(primitive.NewObjectID(), vendorID, 1, 50)

	summary := cart.Summary()
	assert.Equal(t, 3, summary.TotalItems)
	assert.Equal(t, 250.0, summary.Subtotal)
	assert.Equal(t, 2, summary.ItemCount)
	assert.Equal(t, 1, summary.Vendors)

	cart.Clear()
	assert.True(t, cart.IsEmpty())
	assert.Equal(t, 0.0, cart.Subtotal)
	assert.Equal(t, 0, cart.TotalItems)
}
