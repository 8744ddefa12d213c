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

// VendorRepository defines the data access surface for vendors.
type VendorRepository interface {
	Create(ctx context.Context, vendor *models.Vendor) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Vendor, error)
	FindByOwnerID(ctx context.Context, ownerID primitive.ObjectID) (*models.Vendor, error)
	Update(ctx context.Context, id primitive.ObjectID, updates bson.M) error
	Find(ctx context.Context, filter bson.M, sort bson.D, page, limit int) ([]models.Vendor, int64, error)
	FindNear(ctx context.Context, filter bson.M, lon, lat float64, maxDistance int, page, limit int) ([]models.Vendor, error)
	Count(ctx context.Context, filter bson.M) (int64, error)
	IncrementTotalOrders(ctx context.Context, id primitive.ObjectID) error
}

type MongoVendorRepository struct {
	collection *mongo.Collection
}

func NewVendorRepository(db *mongo.Database) *MongoVendorRepository {
	return &MongoVendorRepository{collection: db.Collection("vendors")}
}

func (r *MongoVendorRepository) Create(ctx context.Context, vendor *models.Vendor) error {
	now := time.Now().UTC()
	vendor.CreatedAt = now
	vendor.UpdatedAt = now
	res, err := r.collection.InsertOne(ctx, vendor)
	if err != nil {
		return err
	}
	vendor.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *MongoVendorRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Vendor, error) {
	var vendor models.Vendor
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&vendor)
	if err != nil {
		return nil, err
	}
	return &vendor, nil
}

func (r *MongoVendorRepository) FindByOwnerID(ctx context.Context, ownerID primitive.ObjectID) (*models.Vendor, error) {
	var vendor models.Vendor
	err := r.collection.FindOne(ctx, bson.M{"ownerId": ownerID}).Decode(&vendor)
	if err != nil {
		return nil, err
	}
	return &vendor, nil
}

func (r *MongoVendorRepository) Update(ctx context.Context, id primitive.ObjectID, updates bson.M) error {
	updates["updatedAt"] = time.Now().UTC()
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updates})
	return err
}

func (r *MongoVendorRepository) Find(ctx context.Context, filter bson.M, sort bson.D, page, limit int) ([]models.Vendor, int64, error) {
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

	var vendors []models.Vendor
	if err := cursor.All(ctx, &vendors); err != nil {
		return nil, 0, err
	}
	return vendors, total, nil
}

// FindNear runs a $nearSphere query against the 2dsphere index on location.
// $nearSphere sorts by distance, so no additional sort is applied.
func (r *MongoVendorRepository) FindNear(ctx context.Context, filter bson.M, lon, lat float64, maxDistance int, page, limit int) ([]models.Vendor, error) {
	near := bson.M{
		"$nearSphere": bson.M{
			"$geometry": bson.M{
				"type":        "Point",
				"coordinates": bson.A{lon, lat},
			},
			"$maxDistance": maxDistance,
		},
	}
	query := bson.M{"location": near}
	for k, v := range filter {
		query[k] = v
	}

	findOptions := options.Find().
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var vendors []models.Vendor
	if err := cursor.All(ctx, &vendors); err != nil {
		return nil, err
	}
	return vendors, nil
}

func (r *MongoVendorRepository) Count(ctx context.Context, filter bson.M) (int64, error) {
	return r.collection.CountDocuments(ctx, filter)
}

func (r *MongoVendorRepository) IncrementTotalOrders(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"totalOrders": 1}})
	return err
}
