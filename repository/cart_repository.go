package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/freshcatch/backend/models"
)

// ErrCartModified is returned when a guarded save observes a concurrent
// mutation of the same cart.
var ErrCartModified = errors.New("cart was modified concurrently")

// CartRepository defines the data access surface for carts. Save is
// version-guarded on the updatedAt read at load time, so two concurrent
// request handlers cannot silently overwrite each other.
type CartRepository interface {
	FindByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error)
	Create(ctx context.Context, cart *models.Cart) error
	Save(ctx context.Context, cart *models.Cart, loadedAt time.Time) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type MongoCartRepository struct {
	collection *mongo.Collection
}

func NewCartRepository(db *mongo.Database) *MongoCartRepository {
	return &MongoCartRepository{collection: db.Collection("carts")}
}

func (r *MongoCartRepository) FindByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	var cart models.Cart
	err := r.collection.FindOne(ctx, bson.M{"userId": userID}).Decode(&cart)
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *MongoCartRepository) Create(ctx context.Context, cart *models.Cart) error {
	res, err := r.collection.InsertOne(ctx, cart)
	if err != nil {
		return err
	}
	cart.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// Save replaces the cart document only if nobody else has written it since
// loadedAt.
func (r *MongoCartRepository) Save(ctx context.Context, cart *models.Cart, loadedAt time.Time) error {
	filter := bson.M{"_id": cart.ID, "updatedAt": loadedAt}
	res, err := r.collection.ReplaceOne(ctx, filter, cart)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrCartModified
	}
	return nil
}

func (r *MongoCartRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
