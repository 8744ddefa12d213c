package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product units.
const (
	UnitKg    = "kg"
	UnitGram  = "gram"
	UnitPiece = "piece"
)

// ProductCategories enumerates the allowed catalog categories.
var ProductCategories = []string{
	"Sea Fish",
	"River Fish",
	"Shellfish",
	"Prawns",
	"Crabs",
	"Lobster",
	"Dried Fish",
	"Fish Curry Cut",
	"Fish Steaks",
	"Other Seafood",
}

func IsValidCategory(category string) bool {
	for _, c := range ProductCategories {
		if c == category {
			return true
		}
	}
	return false
}

func IsValidUnit(unit string) bool {
	return unit == UnitKg || unit == UnitGram || unit == UnitPiece
}

type Product struct {
	ID                 primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Name               string             `json:"name" bson:"name"`
	Description        string             `json:"description" bson:"description"`
	Images             []string           `json:"images" bson:"images"`
	Category           string             `json:"category" bson:"category"`
	VendorID           primitive.ObjectID `json:"vendorId" bson:"vendorId"`
	PricePerUnit       float64            `json:"pricePerUnit" bson:"pricePerUnit"`
	Unit               string             `json:"unit" bson:"unit"`
	StockQuantity      int                `json:"stockQuantity" bson:"stockQuantity"`
	MinOrderQuantity   int                `json:"minOrderQuantity" bson:"minOrderQuantity"`
	MaxOrderQuantity   int                `json:"maxOrderQuantity" bson:"maxOrderQuantity"`
	IsAvailable        bool               `json:"isAvailable" bson:"isAvailable"`
	AverageRating      float64            `json:"averageRating" bson:"averageRating"`
	TotalRatings       int                `json:"totalRatings" bson:"totalRatings"`
	TotalSold          int                `json:"totalSold" bson:"totalSold"`
	Tags               []string           `json:"tags,omitempty" bson:"tags,omitempty"`
	IsDiscounted       bool               `json:"isDiscounted" bson:"isDiscounted"`
	DiscountPercentage float64            `json:"discountPercentage" bson:"discountPercentage"`
	DiscountValidUntil *time.Time         `json:"discountValidUntil,omitempty" bson:"discountValidUntil,omitempty"`
	CreatedAt          time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt          time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// FinalPrice returns the discounted price while the discount is active and
// unexpired, else the base price.
func (p *Product) FinalPrice(now time.Time) float64 {
	if p.IsDiscounted && p.DiscountPercentage > 0 &&
		(p.DiscountValidUntil == nil || !now.After(*p.DiscountValidUntil)) {
		return p.PricePerUnit * (1 - p.DiscountPercentage/100)
	}
	return p.PricePerUnit
}

// IsInStock reports whether the product can satisfy the requested quantity.
func (p *Product) IsInStock(quantity int) bool {
	return p.IsAvailable && p.StockQuantity >= quantity
}

// IsValidOrderQuantity checks the per-order quantity bounds.
func (p *Product) IsValidOrderQuantity(quantity int) bool {
	return quantity >= p.MinOrderQuantity && quantity <= p.MaxOrderQuantity
}

// MainImage returns the primary product image, or a placeholder.
func (p *Product) MainImage() string {
	if len(p.Images) > 0 {
		return p.Images[0]
	}
	return "default-product.jpg"
}
