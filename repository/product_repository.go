package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/freshcatch/backend/models"
)

// ErrInsufficientStock is returned when a guarded stock decrement cannot be
// satisfied by the current stock level.
var ErrInsufficientStock = errors.New("insufficient stock")

// ProductRepository defines the data access surface for catalog products.
type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	Update(ctx context.Context, id primitive.ObjectID, updates bson.M) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Find(ctx context.Context, filter bson.M, sort bson.D, page, limit int) ([]models.Product, int64, error)
	Count(ctx context.Context, filter bson.M) (int64, error)
	Distinct(ctx context.Context, field string, filter bson.M) ([]interface{}, error)
	DecrementStock(ctx context.Context, id primitive.ObjectID, quantity int) error
	IncrementStock(ctx context.Context, id primitive.ObjectID, quantity int) error
	TotalSold(ctx context.Context, vendorID primitive.ObjectID) (int64, error)
}

type MongoProductRepository struct {
	collection *mongo.Collection
}

func NewProductRepository(db *mongo.Database) *MongoProductRepository {
	return &MongoProductRepository{collection: db.Collection("products")}
}

func (r *MongoProductRepository) Create(ctx context.Context, product *models.Product) error {
	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now
	res, err := r.collection.InsertOne(ctx, product)
	if err != nil {
		return err
	}
	product.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *MongoProductRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *MongoProductRepository) Update(ctx context.Context, id primitive.ObjectID, updates bson.M) error {
	updates["updatedAt"] = time.Now().UTC()
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updates})
	return err
}

func (r *MongoProductRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *MongoProductRepository) Find(ctx context.Context, filter bson.M, sort bson.D, page, limit int) ([]models.Product, int64, error) {
	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	findOptions := options.Find().
		SetSort(sort).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *MongoProductRepository) Count(ctx context.Context, filter bson.M) (int64, error) {
	return r.collection.CountDocuments(ctx, filter)
}

func (r *MongoProductRepository) Distinct(ctx context.Context, field string, filter bson.M) ([]interface{}, error) {
	return r.collection.Distinct(ctx, field, filter)
}

// DecrementStock atomically decrements stock by quantity, guarded so stock
// never goes negative. The same write bumps totalSold and flips isAvailable
// off when stock reaches zero; a single update means an error implies
// nothing was decremented, which checkout compensation relies on.
func (r *MongoProductRepository) DecrementStock(ctx context.Context, id primitive.ObjectID, quantity int) error {
	res, err := r.collection.UpdateOne(ctx,
		decrementStockFilter(id, quantity), decrementStockUpdate(quantity))
	if err != nil {
		return err
	}
	if res.ModifiedCount == 0 {
		return ErrInsufficientStock
	}
	return nil
}

func decrementStockFilter(id primitive.ObjectID, quantity int) bson.M {
	return bson.M{"_id": id, "stockQuantity": bson.M{"$gte": quantity}}
}

// decrementStockUpdate is an aggregation-pipeline update so the new
// availability can be computed from the post-decrement stock in one write.
func decrementStockUpdate(quantity int) mongo.Pipeline {
	remaining := bson.M{"$subtract": bson.A{"$stockQuantity", quantity}}
	return mongo.Pipeline{{{Key: "$set", Value: bson.M{
		"stockQuantity": remaining,
		"totalSold":     bson.M{"$add": bson.A{"$totalSold", quantity}},
		"isAvailable":   bson.M{"$gt": bson.A{remaining, 0}},
		"updatedAt":     time.Now().UTC(),
	}}}}
}

// IncrementStock restores stock, e.g. on cancellation. A product that was
// auto-disabled at zero stock becomes available again.
func (r *MongoProductRepository) IncrementStock(ctx context.Context, id primitive.ObjectID, quantity int) error {
	update := bson.M{
		"$inc": bson.M{"stockQuantity": quantity, "totalSold": -quantity},
		"$set": bson.M{"isAvailable": true, "updatedAt": time.Now().UTC()},
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

// TotalSold sums totalSold across a vendor's products.
func (r *MongoProductRepository) TotalSold(ctx context.Context, vendorID primitive.ObjectID) (int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"vendorId": vendorID}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "totalSold": bson.M{"$sum": "$totalSold"}}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var results []struct {
		TotalSold int64 `bson:"totalSold"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].TotalSold, nil
}
