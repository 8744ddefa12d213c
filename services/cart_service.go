package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/freshcatch/backend/models"
	"github.com/freshcatch/backend/pkg/apierr"
	"github.com/freshcatch/backend/repository"
)

// Cart validation issue actions.
const (
	ActionRemove         = "remove"
	ActionReduceQuantity = "reduce_quantity"
	ActionUpdatePrice    = "update_price"
)

// ValidationIssue describes one cart line that no longer matches live
// catalog state, with the suggested remedy.
type ValidationIssue struct {
	ProductID   primitive.ObjectID `json:"productId,omitempty"`
	Issue       string             `json:"issue"`
	Action      string             `json:"action"`
	MaxQuantity int                `json:"maxQuantity,omitempty"`
	OldPrice    float64            `json:"oldPrice,omitempty"`
	NewPrice    float64            `json:"newPrice,omitempty"`
}

type AddToCartRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"omitempty,min=1"`
}

type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required,min=0"`
}

// CartView is the cart plus its summary, the shape every cart mutation
// returns.
type CartView struct {
	Cart    *models.Cart       `json:"cart"`
	Summary models.CartSummary `json:"summary"`
}

type CartService struct {
	carts    repository.CartRepository
	products repository.ProductRepository
	vendors  repository.VendorRepository
}

func NewCartService(carts repository.CartRepository, products repository.ProductRepository, vendors repository.VendorRepository) *CartService {
	return &CartService{carts: carts, products: products, vendors: vendors}
}

// loadOrCreate fetches the user's cart, creating an empty one lazily on
// first access.
func (s *CartService) loadOrCreate(ctx context.Context, userID primitive.ObjectID) (*models.Cart, *apierr.Error) {
	cart, err := s.carts.FindByUserID(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apierr.Internal("Failed to fetch cart", err)
	}
	cart = models.NewCart(userID)
	if createErr := s.carts.Create(ctx, cart); createErr != nil {
		// Lost a create race on the unique userId index; reload.
		if mongo.IsDuplicateKeyError(createErr) {
			cart, err = s.carts.FindByUserID(ctx, userID)
			if err == nil {
				return cart, nil
			}
		}
		return nil, apierr.Internal("Failed to create cart", createErr)
	}
	return cart, nil
}

// load fetches an existing cart or reports not found.
func (s *CartService) load(ctx context.Context, userID primitive.ObjectID) (*models.Cart, *apierr.Error) {
	cart, err := s.carts.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apierr.NotFound("Cart not found")
		}
		return nil, apierr.Internal("Failed to fetch cart", err)
	}
	return cart, nil
}

// persist writes the cart back with the version guard captured before
// mutation; a lost race surfaces as a retryable conflict.
func (s *CartService) persist(ctx context.Context, cart *models.Cart, loadedAt time.Time) *apierr.Error {
	if err := s.carts.Save(ctx, cart, loadedAt); err != nil {
		if errors.Is(err, repository.ErrCartModified) {
			return apierr.Conflict("Cart was modified by another request, please retry")
		}
		return apierr.Internal("Failed to save cart", err)
	}
	return nil
}

// GetCart returns the cart (created lazily) with live validation issues.
func (s *CartService) GetCart(ctx context.Context, userID primitive.ObjectID) (*CartView, []ValidationIssue, *apierr.Error) {
	cart, appErr := s.loadOrCreate(ctx, userID)
	if appErr != nil {
		return nil, nil, appErr
	}
	issues, appErr := s.validateItems(ctx, cart)
	if appErr != nil {
		return nil, nil, appErr
	}
	return &CartView{Cart: cart, Summary: cart.Summary()}, issues, nil
}

// AddItem validates the product against live catalog state and merges it
// into the cart.
func (s *CartService) AddItem(ctx context.Context, userID primitive.ObjectID, req *AddToCartRequest) (*CartView, *apierr.Error) {
	productID, appErr := parseObjectID(req.ProductID)
	if appErr != nil {
		return nil, appErr
	}
	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apierr.NotFound("Product not found")
		}
		return nil, apierr.Internal("Failed to fetch product", err)
	}
	if !product.IsAvailable {
		return nil, apierr.Validation("Product is not available")
	}

	vendor, err := s.vendors.FindByID(ctx, product.VendorID)
	if err != nil {
		return nil, apierr.Internal("Failed to fetch vendor", err)
	}
	if !vendor.IsVerified {
		return nil, apierr.Validation("Vendor is not verified")
	}
	if !vendor.IsOpen {
		return nil, apierr.Validation("Vendor is currently closed")
	}

	cart, appErr := s.loadOrCreate(ctx, userID)
	if appErr != nil {
		return nil, appErr
	}
	if cart.HasVendorConflict(vendor.ID) {
		return nil, apierr.Conflict("Cannot add items from a different vendor. Clear your cart first.")
	}

	// Validate the merged line quantity, not just the increment.
	newQuantity := quantity
	for _, item := range cart.Items {
		if item.ProductID == product.ID {
			newQuantity += item.Quantity
		}
	}
	if newQuantity > models.MaxItemQuantity {
		return nil, apierr.Validation(fmt.Sprintf("Quantity cannot exceed %d", models.MaxItemQuantity))
	}
	if !product.IsInStock(newQuantity) {
		return nil, apierr.Validation(fmt.Sprintf("Only %d items available", product.StockQuantity))
	}
	if !product.IsValidOrderQuantity(newQuantity) {
		return nil, apierr.Validation(fmt.Sprintf(
			"Order quantity must be between %d and %d", product.MinOrderQuantity, product.MaxOrderQuantity))
	}

	loadedAt := cart.UpdatedAt
	cart.AddItem(product.ID, vendor.ID, quantity, product.FinalPrice(nowUTC()))

	if appErr := s.persist(ctx, cart, loadedAt); appErr != nil {
		return nil, appErr
	}
	return &CartView{Cart: cart, Summary: cart.Summary()}, nil
}

// UpdateItemQuantity replaces a line's quantity against the stored unit
// price; zero removes the line.
func (s *CartService) UpdateItemQuantity(ctx context.Context, userID primitive.ObjectID, productIDHex string, quantity int) (*CartView, *apierr.Error) {
	productID, appErr := parseObjectID(productIDHex)
	if appErr != nil {
		return nil, appErr
	}
	if quantity > models.MaxItemQuantity {
		return nil, apierr.Validation(fmt.Sprintf("Quantity cannot exceed %d", models.MaxItemQuantity))
	}

	cart, appErr := s.load(ctx, userID)
	if appErr != nil {
		return nil, appErr
	}

	if quantity > 0 {
		product, err := s.products.FindByID(ctx, productID)
		if err != nil || !product.IsAvailable {
			return nil, apierr.Validation("Product is no longer available")
		}
		if !product.IsInStock(quantity) {
			return nil, apierr.Validation(fmt.Sprintf("Only %d items available", product.StockQuantity))
		}
		if !product.IsValidOrderQuantity(quantity) {
			return nil, apierr.Validation(fmt.Sprintf(
				"Order quantity must be between %d and %d", product.MinOrderQuantity, product.MaxOrderQuantity))
		}
	}

	loadedAt := cart.UpdatedAt
	if !cart.UpdateItemQuantity(productID, quantity) {
		return nil, apierr.NotFound("Item not found in cart")
	}
	if appErr := s.persist(ctx, cart, loadedAt); appErr != nil {
		return nil, appErr
	}
	return &CartView{Cart: cart, Summary: cart.Summary()}, nil
}

// RemoveItem drops a line from the cart.
func (s *CartService) RemoveItem(ctx context.Context, userID primitive.ObjectID, productIDHex string) (*CartView, *apierr.Error) {
	productID, appErr := parseObjectID(productIDHex)
	if appErr != nil {
		return nil, appErr
	}
	cart, appErr := s.load(ctx, userID)
	if appErr != nil {
		return nil, appErr
	}

	loadedAt := cart.UpdatedAt
	cart.RemoveItem(productID)
	if appErr := s.persist(ctx, cart, loadedAt); appErr != nil {
		return nil, appErr
	}
	return &CartView{Cart: cart, Summary: cart.Summary()}, nil
}

// Clear removes every line from the cart.
func (s *CartService) Clear(ctx context.Context, userID primitive.ObjectID) (*CartView, *apierr.Error) {
	cart, appErr := s.load(ctx, userID)
	if appErr != nil {
		return nil, appErr
	}

	loadedAt := cart.UpdatedAt
	cart.Clear()
	if appErr := s.persist(ctx, cart, loadedAt); appErr != nil {
		return nil, appErr
	}
	return &CartView{Cart: cart, Summary: cart.Summary()}, nil
}

// Validate re-reads every referenced product and reports per-line issues.
// A cart with zero issues is eligible for checkout.
func (s *CartService) Validate(ctx context.Context, userID primitive.ObjectID) (*CartView, []ValidationIssue, *apierr.Error) {
	cart, appErr := s.load(ctx, userID)
	if appErr != nil {
		return nil, nil, appErr
	}
	if cart.IsEmpty() {
		return nil, nil, apierr.Validation("Cart is empty")
	}

	issues, appErr := s.validateItems(ctx, cart)
	if appErr != nil {
		return nil, nil, appErr
	}

	vendor, err := s.vendors.FindByID(ctx, *cart.VendorID())
	if err != nil || !vendor.IsVerified || !vendor.IsOpen {
		issues = append(issues, ValidationIssue{Issue: "Vendor is not available", Action: "vendor_unavailable"})
	}

	return &CartView{Cart: cart, Summary: cart.Summary()}, issues, nil
}

func (s *CartService) validateItems(ctx context.Context, cart *models.Cart) ([]ValidationIssue, *apierr.Error) {
	issues := []ValidationIssue{}
	now := nowUTC()
	for _, item := range cart.Items {
		product, err := s.products.FindByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				issues = append(issues, ValidationIssue{ProductID: item.ProductID, Issue: "Product not available", Action: ActionRemove})
				continue
			}
			return nil, apierr.Internal("Failed to validate cart", err)
		}
		if !product.IsAvailable {
			issues = append(issues, ValidationIssue{ProductID: item.ProductID, Issue: "Product not available", Action: ActionRemove})
			continue
		}
		if item.Quantity > product.StockQuantity {
			issues = append(issues, ValidationIssue{
				ProductID:   item.ProductID,
				Issue:       fmt.Sprintf("Only %d items available", product.StockQuantity),
				Action:      ActionReduceQuantity,
				MaxQuantity: product.StockQuantity,
			})
			continue
		}
		if price := product.FinalPrice(now); price != item.PricePerUnit {
			issues = append(issues, ValidationIssue{
				ProductID: item.ProductID,
				Issue:     "Price changed",
				Action:    ActionUpdatePrice,
				OldPrice:  item.PricePerUnit,
				NewPrice:  price,
			})
		}
	}
	return issues, nil
}

// Summary returns the denormalized cart totals; an absent cart yields the
// zero summary.
func (s *CartService) Summary(ctx context.Context, userID primitive.ObjectID) (models.CartSummary, *apierr.Error) {
	cart, err := s.carts.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.CartSummary{}, nil
		}
		return models.CartSummary{}, apierr.Internal("Failed to fetch cart", err)
	}
	return cart.Summary(), nil
}

// SyncPrices refreshes every line's unit price snapshot to the product's
// current final price.
func (s *CartService) SyncPrices(ctx context.Context, userID primitive.ObjectID) (*CartView, bool, *apierr.Error) {
	cart, appErr := s.load(ctx, userID)
	if appErr != nil {
		return nil, false, appErr
	}
	if cart.IsEmpty() {
		return nil, false, apierr.Validation("Cart is empty")
	}

	loadedAt := cart.UpdatedAt
	now := nowUTC()
	updated := false
	for _, item := range cart.Items {
		product, err := s.products.FindByID(ctx, item.ProductID)
		if err != nil {
			continue
		}
		if price := product.FinalPrice(now); price != item.PricePerUnit {
			cart.SetItemPrice(item.ProductID, price)
			updated = true
		}
	}
	if updated {
		if appErr := s.persist(ctx, cart, loadedAt); appErr != nil {
			return nil, false, appErr
		}
	}
	return &CartView{Cart: cart, Summary: cart.Summary()}, updated, nil
}
