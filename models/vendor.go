package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ShopAddress struct {
	Street  string `json:"street" bson:"street"`
	City    string `json:"city" bson:"city"`
	State   string `json:"state" bson:"state"`
	ZipCode string `json:"zipCode" bson:"zipCode"`
}

// GeoPoint is a GeoJSON point, [longitude, latitude].
type GeoPoint struct {
	Type        string    `json:"type" bson:"type"`
	Coordinates []float64 `json:"coordinates" bson:"coordinates"`
}

type Vendor struct {
	ID              primitive.ObjectID  `json:"_id,omitempty" bson:"_id,omitempty"`
	OwnerID         primitive.ObjectID  `json:"ownerId" bson:"ownerId"`
	ShopName        string              `json:"shopName" bson:"shopName"`
	Description     string              `json:"description" bson:"description"`
	ShopAddress     ShopAddress         `json:"shopAddress" bson:"shopAddress"`
	Location        GeoPoint            `json:"location" bson:"location"`
	PincodesServed  []string            `json:"pincodesServed" bson:"pincodesServed"`
	AverageRating   float64             `json:"averageRating" bson:"averageRating"`
	TotalRatings    int                 `json:"totalRatings" bson:"totalRatings"`
	IsOpen          bool                `json:"isOpen" bson:"isOpen"`
	OpeningTime     string              `json:"openingTime" bson:"openingTime"`
	ClosingTime     string              `json:"closingTime" bson:"closingTime"`
	IsVerified      bool                `json:"isVerified" bson:"isVerified"`
	VerifiedAt      *time.Time          `json:"verifiedAt,omitempty" bson:"verifiedAt,omitempty"`
	VerifiedBy      *primitive.ObjectID `json:"verifiedBy,omitempty" bson:"verifiedBy,omitempty"`
	RejectionReason string              `json:"rejectionReason,omitempty" bson:"rejectionReason,omitempty"`
	BusinessLicense string              `json:"businessLicense,omitempty" bson:"businessLicense,omitempty"`
	PhoneNumber     string              `json:"phoneNumber" bson:"phoneNumber"`
	DeliveryFee     float64             `json:"deliveryFee" bson:"deliveryFee"`
	TotalOrders     int                 `json:"totalOrders" bson:"totalOrders"`
	CreatedAt       time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// ServesPincode reports whether the vendor delivers to the given pincode.
func (v *Vendor) ServesPincode(pincode string) bool {
	for _, pin := range v.PincodesServed {
		if pin == pincode {
			return true
		}
	}
	return false
}

// IsCurrentlyOpen checks the open flag against operating hours. Times are
// zero-padded HH:MM strings, so string comparison orders correctly.
func (v *Vendor) IsCurrentlyOpen(now time.Time) bool {
	if !v.IsOpen {
		return false
	}
	current := fmt.Sprintf("%02d:%02d", now.Hour(), now.Minute())
	return current >= v.OpeningTime && current <= v.ClosingTime
}

// PublicProfile is the vendor shape exposed on browse endpoints.
func (v *Vendor) PublicProfile() map[string]interface{} {
	return map[string]interface{}{
		"_id":           v.ID,
		"shopName":      v.ShopName,
		"description":   v.Description,
		"shopAddress":   v.ShopAddress,
		"location":      v.Location,
		"averageRating": v.AverageRating,
		"totalRatings":  v.TotalRatings,
		"isOpen":        v.IsOpen,
		"openingTime":   v.OpeningTime,
		"closingTime":   v.ClosingTime,
		"phoneNumber":   v.PhoneNumber,
		"deliveryFee":   v.DeliveryFee,
		"totalOrders":   v.TotalOrders,
		"createdAt":     v.CreatedAt,
	}
}
