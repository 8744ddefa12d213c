package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/freshcatch/backend/models"
)

func vendorProfileRequest() *VendorProfileRequest {
	return &VendorProfileRequest{
		ShopName:       "Coastal Catch",
		Street:         "12 Dock Rd",
		City:           "Mumbai",
		State:          "MH",
		ZipCode:        "400001",
		Coordinates:    []float64{72.8777, 19.076},
		PincodesServed: []string{"400001"},
		OpeningTime:    "06:00",
		ClosingTime:    "14:00",
		PhoneNumber:    "+919812345678",
		DeliveryFee:    30,
	}
}

func productRequest() *ProductRequest {
	return &ProductRequest{
		Name:          "Pomfret",
		Category:      "Sea Fish",
		PricePerUnit:  100,
		Unit:          models.UnitKg,
		StockQuantity: 5,
	}
}

func TestCreateProfile(t *testing.T) {
	ctx := context.Background()
	ownerID := primitive.NewObjectID()

	t.Run("Success starts unverified and closed", func(t *testing.T) {
		vendors := new(MockVendorRepository)
		service := NewVendorService(vendors, new(MockProductRepository), new(MockOrderRepository))
		vendors.On("FindByOwnerID", ctx, ownerID).Return(nil, mongo.ErrNoDocuments).Once()
		vendors.On("Create", ctx, mock.AnythingOfType("*models.Vendor")).Return(nil).Once()

		vendor, appErr := service.CreateProfile(ctx, ownerID, vendorProfileRequest())

		assert.Nil(t, appErr)
		assert.False(t, vendor.IsVerified)
		assert.False(t, vendor.IsOpen)
		assert.Equal(t, "Point", vendor.Location.Type)
		vendors.AssertExpectations(t)
	})

	t.Run("Second profile rejected", func(t *testing.T) {
		vendors := new(MockVendorRepository)
		service := NewVendorService(vendors, new(MockProductRepository), new(MockOrderRepository))
		vendors.On("FindByOwnerID", ctx, ownerID).Return(&models.Vendor{ID: primitive.NewObjectID()}, nil).Once()

		_, appErr := service.CreateProfile(ctx, ownerID, vendorProfileRequest())

		assert.NotNil(t, appErr)
		assert.Equal(t, 400, appErr.Code)
		vendors.AssertNotCalled(t, "Create", ctx, mock.Anything)
	})

	t.Run("Inverted hours rejected", func(t *testing.T) {
		vendors := new(MockVendorRepository)
		service := NewVendorService(vendors, new(MockProductRepository), new(MockOrderRepository))
		vendors.On("FindByOwnerID", ctx, ownerID).Return(nil, mongo.ErrNoDocuments).Once()

		req := vendorProfileRequest()
		req.OpeningTime = "18:00"
		req.ClosingTime = "06:00"
		_, appErr := service.CreateProfile(ctx, ownerID, req)

		assert.NotNil(t, appErr)
		assert.Equal(t, 400, appErr.Code)
	})
}

func TestToggleOpen(t *testing.T) {
	ctx := context.Background()
	ownerID := primitive.NewObjectID()

	t.Run("Unverified vendor cannot open", func(t *testing.T) {
		vendors := new(MockVendorRepository)
		service := NewVendorService(vendors, new(MockProductRepository), new(MockOrderRepository))
		vendors.On("FindByOwnerID", ctx, ownerID).Return(&models.Vendor{ID: primitive.NewObjectID()}, nil).Once()

		_, appErr := service.ToggleOpen(ctx, ownerID)

		assert.NotNil(t, appErr)
		assert.Equal(t, 403, appErr.Code)
	})

	t.Run("Verified vendor toggles", func(t *testing.T) {
		vendors := new(MockVendorRepository)
		service := NewVendorService(vendors, new(MockProductRepository), new(MockOrderRepository))
		existing := &models.Vendor{ID: primitive.NewObjectID(), IsVerified: true}
		vendors.On("FindByOwnerID", ctx, ownerID).Return(existing, nil).Once()
		vendors.On("Update", ctx, existing.ID, mock.Anything).Return(nil).Once()

		vendor, appErr := service.ToggleOpen(ctx, ownerID)

		assert.Nil(t, appErr)
		assert.True(t, vendor.IsOpen)
	})
}

func TestCreateProduct(t *testing.T) {
	ctx := context.Background()
	ownerID := primitive.NewObjectID()
	verified := &models.Vendor{ID: primitive.NewObjectID(), IsVerified: true}

	t.Run("Unverified vendor rejected", func(t *testing.T) {
		vendors := new(MockVendorRepository)
		products := new(MockProductRepository)
		service := NewVendorService(vendors, products, new(MockOrderRepository))
		vendors.On("FindByOwnerID", ctx, ownerID).Return(&models.Vendor{ID: primitive.NewObjectID()}, nil).Once()

		_, appErr := service.CreateProduct(ctx, ownerID, productRequest())

		assert.NotNil(t, appErr)
		assert.Equal(t, 403, appErr.Code)
		products.AssertNotCalled(t, "Create", ctx, mock.Anything)
	})

	t.Run("Defaults applied", func(t *testing.T) {
		vendors := new(MockVendorRepository)
		products := new(MockProductRepository)
		service := NewVendorService(vendors, products, new(MockOrderRepository))
		vendors.On("FindByOwnerID", ctx, ownerID).Return(verified, nil).Once()
		products.On("Create", ctx, mock.AnythingOfType("*models.Product")).Return(nil).Once()

		product, appErr := service.CreateProduct(ctx, ownerID, productRequest())

		assert.Nil(t, appErr)
		assert.Equal(t, 1, product.MinOrderQuantity)
		assert.Equal(t, 50, product.MaxOrderQuantity)
		assert.True(t, product.IsAvailable)
		assert.Equal(t, verified.ID, product.VendorID)
	})

	t.Run("Zero stock starts unavailable", func(t *testing.T) {
		vendors := new(MockVendorRepository)
		products := new(MockProductRepository)
		service := NewVendorService(vendors, products, new(MockOrderRepository))
		vendors.On("FindByOwnerID", ctx, ownerID).Return(verified, nil).Once()
		products.On("Create", ctx, mock.Anything).Return(nil).Once()

		req := productRequest()
		req.StockQuantity = 0
		product, appErr := service.CreateProduct(ctx, ownerID, req)

		assert.Nil(t, appErr)
		assert.False(t, product.IsAvailable)
	})

	t.Run("Bad category rejected", func(t *testing.T) {
		vendors := new(MockVendorRepository)
		service := NewVendorService(vendors, new(MockProductRepository), new(MockOrderRepository))
		vendors.On("FindByOwnerID", ctx, ownerID).Return(verified, nil).Once()

		req := productRequest()
		req.Category = "Poultry"
		_, appErr := service.CreateProduct(ctx, ownerID, req)

		assert.NotNil(t, appErr)
		assert.Equal(t, 400, appErr.Code)
	})
}

func TestUpdateStock(t *testing.T) {
	ctx := context.Background()
	ownerID := primitive.NewObjectID()
	vendor := &models.Vendor{ID: primitive.NewObjectID(), IsVerified: true}

	t.Run("Availability follows stock", func(t *testing.T) {
		vendors := new(MockVendorRepository)
		products := new(MockProductRepository)
		service := NewVendorService(vendors, products, new(MockOrderRepository))
		product := &models.Product{ID: primitive.NewObjectID(), VendorID: vendor.ID, StockQuantity: 5, IsAvailable: true}

		vendors.On("FindByOwnerID", ctx, ownerID).Return(vendor, nil).Once()
		products.On("FindByID", ctx, product.ID).Return(product, nil).Once()
		products.On("Update", ctx, product.ID, mock.MatchedBy(func(u bson.M) bool {
			return u["stockQuantity"] == 0 && u["isAvailable"] == false
		})).Return(nil).Once()

		updated, appErr := service.UpdateStock(ctx, ownerID, product.ID.Hex(), 0)

		assert.Nil(t, appErr)
		assert.False(t, updated.IsAvailable)
		products.AssertExpectations(t)
	})

	t.Run("Foreign product rejected", func(t *testing.T) {
		vendors := new(MockVendorRepository)
		products := new(MockProductRepository)
		service := NewVendorService(vendors, products, new(MockOrderRepository))
		foreign := &models.Product{ID: primitive.NewObjectID(), VendorID: primitive.NewObjectID()}

		vendors.On("FindByOwnerID", ctx, ownerID).Return(vendor, nil).Once()
		products.On("FindByID", ctx, foreign.ID).Return(foreign, nil).Once()

		_, appErr := service.UpdateStock(ctx, ownerID, foreign.ID.Hex(), 3)

		assert.NotNil(t, appErr)
		assert.Equal(t, 403, appErr.Code)
	})
}
