package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStockDecrement(t *testing.T) {
	id := primitive.NewObjectID()

	t.Run("Filter refuses oversell", func(t *testing.T) {
		filter := decrementStockFilter(id, 3)
		assert.Equal(t, id, filter["_id"])
		assert.Equal(t, bson.M{"$gte": 3}, filter["stockQuantity"])
	})

	t.Run("Availability flips in the same write", func(t *testing.T) {
		pipeline := decrementStockUpdate(3)
		require.Len(t, pipeline, 1)
		require.Len(t, pipeline[0], 1)
		require.Equal(t, "$set", pipeline[0][0].Key)

		set, ok := pipeline[0][0].Value.(bson.M)
		require.True(t, ok)

		remaining := bson.M{"$subtract": bson.A{"$stockQuantity", 3}}
		assert.Equal(t, remaining, set["stockQuantity"])
		assert.Equal(t, bson.M{"$add": bson.A{"$totalSold", 3}}, set["totalSold"])
		assert.Equal(t, bson.M{"$gt": bson.A{remaining, 0}}, set["isAvailable"])
	})
}
