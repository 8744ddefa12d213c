package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles.
const (
	RoleCustomer = "customer"
	RoleVendor   = "vendor"
	RoleAdmin    = "admin"
)

type Address struct {
	ID          primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Label       string             `json:"label" bson:"label"`
	Street      string             `json:"street" bson:"street"`
	City        string             `json:"city" bson:"city"`
	State       string             `json:"state" bson:"state"`
	ZipCode     string             `json:"zipCode" bson:"zipCode"`
	Coordinates []float64          `json:"coordinates,omitempty" bson:"coordinates,omitempty"`
}

type User struct {
	ID              primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Name            string             `json:"name" bson:"name"`
	Email           string             `json:"email" bson:"email"`
	Password        string             `json:"-" bson:"password"`
	Phone           string             `json:"phone" bson:"phone"`
	Role            string             `json:"role" bson:"role"`
	Addresses       []Address          `json:"addresses,omitempty" bson:"addresses,omitempty"`
	IsActive        bool               `json:"isActive" bson:"isActive"`
	IsEmailVerified bool               `json:"isEmailVerified" bson:"isEmailVerified"`
	LastLogin       *time.Time         `json:"lastLogin,omitempty" bson:"lastLogin,omitempty"`
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// PublicProfile strips addresses for responses that should not expose them.
func (u *User) PublicProfile() map[string]interface{} {
	return map[string]interface{}{
		"_id":       u.ID,
		"name":      u.Name,
		"email":     u.Email,
		"phone":     u.Phone,
		"role":      u.Role,
		"isActive":  u.IsActive,
		"createdAt": u.CreatedAt,
	}
}
