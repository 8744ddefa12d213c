package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/freshcatch/backend/models"
	"github.com/freshcatch/backend/pkg/apierr"
	"github.com/freshcatch/backend/repository"
)

type VendorProfileRequest struct {
	ShopName        string    `json:"shopName" binding:"required,min=3,max=100"`
	Description     string    `json:"description" binding:"omitempty,max=1000"`
	Street          string    `json:"street" binding:"required"`
	City            string    `json:"city" binding:"required"`
	State           string    `json:"state" binding:"required"`
	ZipCode         string    `json:"zipCode" binding:"required"`
	Coordinates     []float64 `json:"coordinates" binding:"required,len=2"`
	PincodesServed  []string  `json:"pincodesServed" binding:"required,min=1,dive,pincode"`
	OpeningTime     string    `json:"openingTime" binding:"required,hhmm"`
	ClosingTime     string    `json:"closingTime" binding:"required,hhmm"`
	PhoneNumber     string    `json:"phoneNumber" binding:"required,e164"`
	DeliveryFee     float64   `json:"deliveryFee" binding:"min=0"`
	BusinessLicense string    `json:"businessLicense" binding:"omitempty,max=100"`
}

type ProductRequest struct {
	Name               string     `json:"name" binding:"required,min=2,max=200"`
	Description        string     `json:"description" binding:"omitempty,max=2000"`
	Images             []string   `json:"images" binding:"omitempty,max=10"`
	Category           string     `json:"category" binding:"required"`
	PricePerUnit       float64    `json:"pricePerUnit" binding:"required,gt=0"`
	Unit               string     `json:"unit" binding:"required"`
	StockQuantity      int        `json:"stockQuantity" binding:"min=0"`
	MinOrderQuantity   int        `json:"minOrderQuantity" binding:"omitempty,min=1"`
	MaxOrderQuantity   int        `json:"maxOrderQuantity" binding:"omitempty,min=1"`
	Tags               []string   `json:"tags" binding:"omitempty,max=20"`
	IsDiscounted       bool       `json:"isDiscounted"`
	DiscountPercentage float64    `json:"discountPercentage" binding:"omitempty,gt=0,lt=100"`
	DiscountValidUntil *time.Time `json:"discountValidUntil"`
}

type StockUpdateRequest struct {
	StockQuantity *int `json:"stockQuantity" binding:"required,min=0"`
}

// VendorDashboard summarizes a vendor's shop for the self-service home view.
type VendorDashboard struct {
	Vendor        *models.Vendor         `json:"vendor"`
	ProductCount  int64                  `json:"productCount"`
	ActiveCount   int64                  `json:"activeProductCount"`
	TotalSold     int64                  `json:"totalSold"`
	OrderStats    *repository.OrderStats `json:"orderStats"`
	PendingOrders int64                  `json:"pendingOrders"`
}

type VendorService struct {
	vendors  repository.VendorRepository
	products repository.ProductRepository
	orders   repository.OrderRepository
}

func NewVendorService(vendors repository.VendorRepository, products repository.ProductRepository, orders repository.OrderRepository) *VendorService {
	return &VendorService{vendors: vendors, products: products, orders: orders}
}

// GetByOwner resolves the vendor profile belonging to a user account.
func (s *VendorService) GetByOwner(ctx context.Context, ownerID primitive.ObjectID) (*models.Vendor, *apierr.Error) {
	vendor, err := s.vendors.FindByOwnerID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apierr.NotFound("Vendor profile not found")
		}
		return nil, apierr.Internal("Failed to fetch vendor profile", err)
	}
	return vendor, nil
}

// CreateProfile registers a vendor profile for the owner. One profile per
// account; new profiles start unverified and closed.
func (s *VendorService) CreateProfile(ctx context.Context, ownerID primitive.ObjectID, req *VendorProfileRequest) (*models.Vendor, *apierr.Error) {
	if _, err := s.vendors.FindByOwnerID(ctx, ownerID); err == nil {
		return nil, apierr.Conflict("Vendor profile already exists for this account")
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apierr.Internal("Failed to check vendor profile", err)
	}
	if appErr := validateOperatingHours(req.OpeningTime, req.ClosingTime); appErr != nil {
		return nil, appErr
	}

	now := nowUTC()
	vendor := &models.Vendor{
		OwnerID:     ownerID,
		ShopName:    req.ShopName,
		Description: req.Description,
		ShopAddress: models.ShopAddress{
			Street:  req.Street,
			City:    req.City,
			State:   req.State,
			ZipCode: req.ZipCode,
		},
		Location:        models.GeoPoint{Type: "Point", Coordinates: req.Coordinates},
		PincodesServed:  req.PincodesServed,
		OpeningTime:     req.OpeningTime,
		ClosingTime:     req.ClosingTime,
		PhoneNumber:     req.PhoneNumber,
		DeliveryFee:     req.DeliveryFee,
		BusinessLicense: req.BusinessLicense,
		IsOpen:          false,
		IsVerified:      false,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.vendors.Create(ctx, vendor); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, apierr.Conflict("Vendor profile already exists for this account")
		}
		return nil, apierr.Internal("Failed to create vendor profile", err)
	}
	return vendor, nil
}

// UpdateProfile edits the vendor's own profile. Verification fields are
// admin-only and never touched here.
func (s *VendorService) UpdateProfile(ctx context.Context, ownerID primitive.ObjectID, req *VendorProfileRequest) (*models.Vendor, *apierr.Error) {
	vendor, appErr := s.GetByOwner(ctx, ownerID)
	if appErr != nil {
		return nil, appErr
	}
	if appErr := validateOperatingHours(req.OpeningTime, req.ClosingTime); appErr != nil {
		return nil, appErr
	}

	updates := bson.M{
		"shopName":    req.ShopName,
		"description": req.Description,
		"shopAddress": models.ShopAddress{
			Street:  req.Street,
			City:    req.City,
			State:   req.State,
			ZipCode: req.ZipCode,
		},
		"location":        models.GeoPoint{Type: "Point", Coordinates: req.Coordinates},
		"pincodesServed":  req.PincodesServed,
		"openingTime":     req.OpeningTime,
		"closingTime":     req.ClosingTime,
		"phoneNumber":     req.PhoneNumber,
		"deliveryFee":     req.DeliveryFee,
		"businessLicense": req.BusinessLicense,
		"updatedAt":       nowUTC(),
	}
	if err := s.vendors.Update(ctx, vendor.ID, updates); err != nil {
		return nil, apierr.Internal("Failed to update vendor profile", err)
	}
	return s.GetByOwner(ctx, ownerID)
}

// ToggleOpen flips the shop's open flag. Unverified vendors cannot open.
func (s *VendorService) ToggleOpen(ctx context.Context, ownerID primitive.ObjectID) (*models.Vendor, *apierr.Error) {
	vendor, appErr := s.GetByOwner(ctx, ownerID)
	if appErr != nil {
		return nil, appErr
	}
	if !vendor.IsVerified && !vendor.IsOpen {
		return nil, apierr.Forbidden("Vendor must be verified before opening the shop")
	}

	updates := bson.M{"isOpen": !vendor.IsOpen, "updatedAt": nowUTC()}
	if err := s.vendors.Update(ctx, vendor.ID, updates); err != nil {
		return nil, apierr.Internal("Failed to update shop status", err)
	}
	vendor.IsOpen = !vendor.IsOpen
	return vendor, nil
}

// CreateProduct adds a catalog entry for a verified vendor.
func (s *VendorService) CreateProduct(ctx context.Context, ownerID primitive.ObjectID, req *ProductRequest) (*models.Product, *apierr.Error) {
	vendor, appErr := s.GetByOwner(ctx, ownerID)
	if appErr != nil {
		return nil, appErr
	}
	if !vendor.IsVerified {
		return nil, apierr.Forbidden("Vendor must be verified to list products")
	}
	if appErr := validateProductRequest(req); appErr != nil {
		return nil, appErr
	}

	now := nowUTC()
	product := &models.Product{
		Name:               req.Name,
		Description:        req.Description,
		Images:             req.Images,
		Category:           req.Category,
		VendorID:           vendor.ID,
		PricePerUnit:       req.PricePerUnit,
		Unit:               req.Unit,
		StockQuantity:      req.StockQuantity,
		MinOrderQuantity:   defaultMin(req.MinOrderQuantity),
		MaxOrderQuantity:   defaultMax(req.MaxOrderQuantity),
		IsAvailable:        req.StockQuantity > 0,
		Tags:               req.Tags,
		IsDiscounted:       req.IsDiscounted,
		DiscountPercentage: req.DiscountPercentage,
		DiscountValidUntil: req.DiscountValidUntil,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, apierr.Internal("Failed to create product", err)
	}
	return product, nil
}

// UpdateProduct edits one of the vendor's own products.
func (s *VendorService) UpdateProduct(ctx context.Context, ownerID primitive.ObjectID, productIDHex string, req *ProductRequest) (*models.Product, *apierr.Error) {
	_, product, appErr := s.ownProduct(ctx, ownerID, productIDHex)
	if appErr != nil {
		return nil, appErr
	}
	if appErr := validateProductRequest(req); appErr != nil {
		return nil, appErr
	}

	updates := bson.M{
		"name":               req.Name,
		"description":        req.Description,
		"images":             req.Images,
		"category":           req.Category,
		"pricePerUnit":       req.PricePerUnit,
		"unit":               req.Unit,
		"stockQuantity":      req.StockQuantity,
		"minOrderQuantity":   defaultMin(req.MinOrderQuantity),
		"maxOrderQuantity":   defaultMax(req.MaxOrderQuantity),
		"isAvailable":        req.StockQuantity > 0,
		"tags":               req.Tags,
		"isDiscounted":       req.IsDiscounted,
		"discountPercentage": req.DiscountPercentage,
		"discountValidUntil": req.DiscountValidUntil,
		"updatedAt":          nowUTC(),
	}
	if err := s.products.Update(ctx, product.ID, updates); err != nil {
		return nil, apierr.Internal("Failed to update product", err)
	}
	updated, err := s.products.FindByID(ctx, product.ID)
	if err != nil {
		return nil, apierr.Internal("Failed to fetch product", err)
	}
	return updated, nil
}

// UpdateStock sets absolute stock. Stock zero turns availability off; stock
// above zero turns it back on.
func (s *VendorService) UpdateStock(ctx context.Context, ownerID primitive.ObjectID, productIDHex string, stock int) (*models.Product, *apierr.Error) {
	_, product, appErr := s.ownProduct(ctx, ownerID, productIDHex)
	if appErr != nil {
		return nil, appErr
	}

	updates := bson.M{
		"stockQuantity": stock,
		"isAvailable":   stock > 0,
		"updatedAt":     nowUTC(),
	}
	if err := s.products.Update(ctx, product.ID, updates); err != nil {
		return nil, apierr.Internal("Failed to update stock", err)
	}
	product.StockQuantity = stock
	product.IsAvailable = stock > 0
	return product, nil
}

// DeleteProduct removes one of the vendor's own products.
func (s *VendorService) DeleteProduct(ctx context.Context, ownerID primitive.ObjectID, productIDHex string) *apierr.Error {
	_, product, appErr := s.ownProduct(ctx, ownerID, productIDHex)
	if appErr != nil {
		return appErr
	}
	if err := s.products.Delete(ctx, product.ID); err != nil {
		return apierr.Internal("Failed to delete product", err)
	}
	return nil
}

// ListProducts pages through the vendor's own catalog, including
// unavailable items.
func (s *VendorService) ListProducts(ctx context.Context, ownerID primitive.ObjectID, page, limit int) ([]models.Product, int64, *apierr.Error) {
	vendor, appErr := s.GetByOwner(ctx, ownerID)
	if appErr != nil {
		return nil, 0, appErr
	}
	products, total, err := s.products.Find(ctx, bson.M{"vendorId": vendor.ID},
		bson.D{{Key: "createdAt", Value: -1}}, page, limit)
	if err != nil {
		return nil, 0, apierr.Internal("Failed to fetch products", err)
	}
	return products, total, nil
}

// Dashboard aggregates the vendor's shop state and recent order activity.
func (s *VendorService) Dashboard(ctx context.Context, ownerID primitive.ObjectID) (*VendorDashboard, *apierr.Error) {
	vendor, appErr := s.GetByOwner(ctx, ownerID)
	if appErr != nil {
		return nil, appErr
	}

	productCount, err := s.products.Count(ctx, bson.M{"vendorId": vendor.ID})
	if err != nil {
		return nil, apierr.Internal("Failed to compute dashboard", err)
	}
	activeCount, err := s.products.Count(ctx, bson.M{"vendorId": vendor.ID, "isAvailable": true})
	if err != nil {
		return nil, apierr.Internal("Failed to compute dashboard", err)
	}
	totalSold, err := s.products.TotalSold(ctx, vendor.ID)
	if err != nil {
		return nil, apierr.Internal("Failed to compute dashboard", err)
	}
	stats, err := s.orders.Stats(ctx, bson.M{
		"vendorId":  vendor.ID,
		"createdAt": bson.M{"$gte": nowUTC().AddDate(0, -1, 0)},
	})
	if err != nil {
		return nil, apierr.Internal("Failed to compute dashboard", err)
	}

	return &VendorDashboard{
		Vendor:        vendor,
		ProductCount:  productCount,
		ActiveCount:   activeCount,
		TotalSold:     totalSold,
		OrderStats:    stats,
		PendingOrders: int64(stats.StatusBreakdown[models.StatusPending]),
	}, nil
}

// ownProduct resolves a product and checks it belongs to the caller's shop.
func (s *VendorService) ownProduct(ctx context.Context, ownerID primitive.ObjectID, productIDHex string) (*models.Vendor, *models.Product, *apierr.Error) {
	vendor, appErr := s.GetByOwner(ctx, ownerID)
	if appErr != nil {
		return nil, nil, appErr
	}
	productID, appErr := parseObjectID(productIDHex)
	if appErr != nil {
		return nil, nil, appErr
	}
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil, apierr.NotFound("Product not found")
		}
		return nil, nil, apierr.Internal("Failed to fetch product", err)
	}
	if product.VendorID != vendor.ID {
		return nil, nil, apierr.Forbidden("Product belongs to another vendor")
	}
	return vendor, product, nil
}

func validateProductRequest(req *ProductRequest) *apierr.Error {
	if !models.IsValidCategory(req.Category) {
		return apierr.Validation("Invalid product category")
	}
	if !models.IsValidUnit(req.Unit) {
		return apierr.Validation("Unit must be one of: kg, gram, piece")
	}
	min := defaultMin(req.MinOrderQuantity)
	max := defaultMax(req.MaxOrderQuantity)
	if min > max {
		return apierr.Validation("minOrderQuantity cannot exceed maxOrderQuantity")
	}
	if req.IsDiscounted && req.DiscountPercentage <= 0 {
		return apierr.Validation("Discounted products need a discount percentage")
	}
	return nil
}

// validateOperatingHours checks HH:MM formatting and ordering.
func validateOperatingHours(opening, closing string) *apierr.Error {
	if _, err := time.Parse("15:04", opening); err != nil {
		return apierr.Validation("openingTime must be HH:MM")
	}
	if _, err := time.Parse("15:04", closing); err != nil {
		return apierr.Validation("closingTime must be HH:MM")
	}
	if opening >= closing {
		return apierr.Validation("openingTime must be before closingTime")
	}
	return nil
}

func defaultMin(min int) int {
	if min <= 0 {
		return 1
	}
	return min
}

func defaultMax(max int) int {
	if max <= 0 {
		return 50
	}
	return max
}
