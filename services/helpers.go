package services

import (
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/freshcatch/backend/pkg/apierr"
)

func nowUTC() time.Time {
	return time.Now().UTC()
}

// parseObjectID converts a path/query id into an ObjectID, surfacing a
// validation error on malformed input.
func parseObjectID(id string) (primitive.ObjectID, *apierr.Error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, apierr.Validation("Invalid id format")
	}
	return oid, nil
}

// roundMoney rounds a computed amount to two decimal places.
func roundMoney(amount float64) float64 {
	return math.Round(amount*100) / 100
}
