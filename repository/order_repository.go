package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/freshcatch/backend/models"
)

// OrderStats is the aggregate view over a set of orders.
type OrderStats struct {
	TotalOrders       int64          `json:"totalOrders"`
	TotalSpent        float64        `json:"totalSpent"`
	AverageOrderValue float64        `json:"averageOrderValue"`
	StatusBreakdown   map[string]int `json:"statusBreakdown"`
}

// OrderRepository defines the data access surface for orders. Delete exists
// only for checkout compensation; fulfilled orders are never removed.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	Find(ctx context.Context, filter bson.M, page, limit int) ([]models.Order, int64, error)
	Replace(ctx context.Context, order *models.Order) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Stats(ctx context.Context, filter bson.M) (*OrderStats, error)
}

type MongoOrderRepository struct {
	collection *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *MongoOrderRepository {
	return &MongoOrderRepository{collection: db.Collection("orders")}
}

func (r *MongoOrderRepository) Create(ctx context.Context, order *models.Order) error {
	res, err := r.collection.InsertOne(ctx, order)
	if err != nil {
		return err
	}
	order.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *MongoOrderRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var order models.Order
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *MongoOrderRepository) Find(ctx context.Context, filter bson.M, page, limit int) ([]models.Order, int64, error) {
	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *MongoOrderRepository) Replace(ctx context.Context, order *models.Order) error {
	order.UpdatedAt = time.Now().UTC()
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": order.ID}, order)
	return err
}

func (r *MongoOrderRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// Stats aggregates totals and a status breakdown for the matched orders.
func (r *MongoOrderRepository) Stats(ctx context.Context, filter bson.M) (*OrderStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: filter}},
		{{Key: "$group", Value: bson.M{
			"_id":               nil,
			"totalOrders":       bson.M{"$sum": 1},
			"totalSpent":        bson.M{"$sum": "$pricing.totalAmount"},
			"averageOrderValue": bson.M{"$avg": "$pricing.totalAmount"},
			"statuses":          bson.M{"$push": "$orderStatus"},
		}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []struct {
		TotalOrders       int64    `bson:"totalOrders"`
		TotalSpent        float64  `bson:"totalSpent"`
		AverageOrderValue float64  `bson:"averageOrderValue"`
		Statuses          []string `bson:"statuses"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}

	stats := &OrderStats{StatusBreakdown: map[string]int{}}
	if len(results) > 0 {
		stats.TotalOrders = results[0].TotalOrders
		stats.TotalSpent = results[0].TotalSpent
		stats.AverageOrderValue = results[0].AverageOrderValue
		for _, s := range results[0].Statuses {
			stats.StatusBreakdown[s]++
		}
	}
	return stats, nil
}
