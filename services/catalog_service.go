package services

import (
	"context"
	"errors"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/freshcatch/backend/models"
	"github.com/freshcatch/backend/pkg/apierr"
	"github.com/freshcatch/backend/repository"
)

// ProductQuery carries the public product browse filters, parsed from the
// query string by the controller.
type ProductQuery struct {
	Search   string
	Category string
	VendorID string
	MinPrice string
	MaxPrice string
	SortBy   string
	Page     int
	Limit    int
}

// VendorQuery carries the public vendor browse filters.
type VendorQuery struct {
	Pincode     string
	OpenOnly    bool
	Longitude   string
	Latitude    string
	MaxDistance int
	Page        int
	Limit       int
}

// Featured section names.
const (
	FeaturedTopRated    = "topRated"
	FeaturedBestSelling = "bestSelling"
	FeaturedNewest      = "newest"
)

// CatalogService serves the unauthenticated browse surface. Only available
// products from verified vendors are exposed.
type CatalogService struct {
	products repository.ProductRepository
	vendors  repository.VendorRepository
}

func NewCatalogService(products repository.ProductRepository, vendors repository.VendorRepository) *CatalogService {
	return &CatalogService{products: products, vendors: vendors}
}

// ListProducts pages through available products with search and filters.
func (s *CatalogService) ListProducts(ctx context.Context, q *ProductQuery) ([]models.Product, int64, *apierr.Error) {
	filter := bson.M{"isAvailable": true}

	if q.Search != "" {
		filter["$text"] = bson.M{"$search": q.Search}
	}
	if q.Category != "" {
		if !models.IsValidCategory(q.Category) {
			return nil, 0, apierr.Validation("Invalid product category")
		}
		filter["category"] = q.Category
	}
	if q.VendorID != "" {
		vendorID, appErr := parseObjectID(q.VendorID)
		if appErr != nil {
			return nil, 0, appErr
		}
		filter["vendorId"] = vendorID
	}

	price := bson.M{}
	if q.MinPrice != "" {
		v, err := strconv.ParseFloat(q.MinPrice, 64)
		if err != nil || v < 0 {
			return nil, 0, apierr.Validation("Invalid minPrice")
		}
		price["$gte"] = v
	}
	if q.MaxPrice != "" {
		v, err := strconv.ParseFloat(q.MaxPrice, 64)
		if err != nil || v < 0 {
			return nil, 0, apierr.Validation("Invalid maxPrice")
		}
		price["$lte"] = v
	}
	if len(price) > 0 {
		filter["pricePerUnit"] = price
	}

	sort, appErr := productSort(q.SortBy)
	if appErr != nil {
		return nil, 0, appErr
	}

	products, total, err := s.products.Find(ctx, filter, sort, q.Page, q.Limit)
	if err != nil {
		return nil, 0, apierr.Internal("Failed to fetch products", err)
	}
	return products, total, nil
}

func productSort(sortBy string) (bson.D, *apierr.Error) {
	switch sortBy {
	case "", "newest":
		return bson.D{{Key: "createdAt", Value: -1}}, nil
	case "priceAsc":
		return bson.D{{Key: "pricePerUnit", Value: 1}}, nil
	case "priceDesc":
		return bson.D{{Key: "pricePerUnit", Value: -1}}, nil
	case "rating":
		return bson.D{{Key: "averageRating", Value: -1}}, nil
	case "popular":
		return bson.D{{Key: "totalSold", Value: -1}}, nil
	default:
		return nil, apierr.Validation("Invalid sortBy value")
	}
}

// GetProduct fetches a single available product.
func (s *CatalogService) GetProduct(ctx context.Context, productIDHex string) (*models.Product, *apierr.Error) {
	productID, appErr := parseObjectID(productIDHex)
	if appErr != nil {
		return nil, appErr
	}
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apierr.NotFound("Product not found")
		}
		return nil, apierr.Internal("Failed to fetch product", err)
	}
	return product, nil
}

// Categories lists the categories that currently have available products.
func (s *CatalogService) Categories(ctx context.Context) ([]string, *apierr.Error) {
	values, err := s.products.Distinct(ctx, "category", bson.M{"isAvailable": true})
	if err != nil {
		return nil, apierr.Internal("Failed to fetch categories", err)
	}
	categories := make([]string, 0, len(values))
	for _, v := range values {
		if c, ok := v.(string); ok {
			categories = append(categories, c)
		}
	}
	return categories, nil
}

// Featured returns a curated product section: topRated, bestSelling or
// newest.
func (s *CatalogService) Featured(ctx context.Context, section string, limit int) ([]models.Product, *apierr.Error) {
	var sort bson.D
	switch section {
	case FeaturedTopRated:
		sort = bson.D{{Key: "averageRating", Value: -1}, {Key: "totalRatings", Value: -1}}
	case FeaturedBestSelling:
		sort = bson.D{{Key: "totalSold", Value: -1}}
	case "", FeaturedNewest:
		sort = bson.D{{Key: "createdAt", Value: -1}}
	default:
		return nil, apierr.Validation("Section must be one of: topRated, bestSelling, newest")
	}

	products, _, err := s.products.Find(ctx, bson.M{"isAvailable": true}, sort, 1, limit)
	if err != nil {
		return nil, apierr.Internal("Failed to fetch featured products", err)
	}
	return products, nil
}

// ListVendors pages through verified vendors, optionally filtered by served
// pincode, open state, or proximity to a coordinate.
func (s *CatalogService) ListVendors(ctx context.Context, q *VendorQuery) ([]map[string]interface{}, int64, *apierr.Error) {
	filter := bson.M{"isVerified": true}
	if q.Pincode != "" {
		filter["pincodesServed"] = q.Pincode
	}
	if q.OpenOnly {
		filter["isOpen"] = true
	}

	var vendors []models.Vendor
	var total int64
	var err error

	if q.Longitude != "" || q.Latitude != "" {
		lon, lonErr := strconv.ParseFloat(q.Longitude, 64)
		lat, latErr := strconv.ParseFloat(q.Latitude, 64)
		if lonErr != nil || latErr != nil {
			return nil, 0, apierr.Validation("Invalid coordinates")
		}
		maxDistance := q.MaxDistance
		if maxDistance <= 0 {
			maxDistance = 10000
		}
		vendors, err = s.vendors.FindNear(ctx, filter, lon, lat, maxDistance, q.Page, q.Limit)
		if err != nil {
			return nil, 0, apierr.Internal("Failed to fetch vendors", err)
		}
		// $nearSphere queries cannot be counted cheaply; the page itself
		// bounds the result.
		total = int64(len(vendors))
	} else {
		vendors, total, err = s.vendors.Find(ctx, filter,
			bson.D{{Key: "averageRating", Value: -1}}, q.Page, q.Limit)
		if err != nil {
			return nil, 0, apierr.Internal("Failed to fetch vendors", err)
		}
	}

	profiles := make([]map[string]interface{}, 0, len(vendors))
	for i := range vendors {
		profiles = append(profiles, vendors[i].PublicProfile())
	}
	return profiles, total, nil
}

// GetVendor fetches one verified vendor's public profile.
func (s *CatalogService) GetVendor(ctx context.Context, vendorIDHex string) (map[string]interface{}, *apierr.Error) {
	vendor, appErr := s.verifiedVendor(ctx, vendorIDHex)
	if appErr != nil {
		return nil, appErr
	}
	return vendor.PublicProfile(), nil
}

// VendorProducts pages through one verified vendor's available products.
func (s *CatalogService) VendorProducts(ctx context.Context, vendorIDHex string, page, limit int) ([]models.Product, int64, *apierr.Error) {
	vendor, appErr := s.verifiedVendor(ctx, vendorIDHex)
	if appErr != nil {
		return nil, 0, appErr
	}
	products, total, err := s.products.Find(ctx,
		bson.M{"vendorId": vendor.ID, "isAvailable": true},
		bson.D{{Key: "createdAt", Value: -1}}, page, limit)
	if err != nil {
		return nil, 0, apierr.Internal("Failed to fetch products", err)
	}
	return products, total, nil
}

func (s *CatalogService) verifiedVendor(ctx context.Context, vendorIDHex string) (*models.Vendor, *apierr.Error) {
	vendorID, appErr := parseObjectID(vendorIDHex)
	if appErr != nil {
		return nil, appErr
	}
	vendor, err := s.vendors.FindByID(ctx, vendorID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apierr.NotFound("Vendor not found")
		}
		return nil, apierr.Internal("Failed to fetch vendor", err)
	}
	if !vendor.IsVerified {
		return nil, apierr.NotFound("Vendor not found")
	}
	return vendor, nil
}
