package services

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/freshcatch/backend/models"
	"github.com/freshcatch/backend/pkg/apierr"
	"github.com/freshcatch/backend/repository"
)

type RejectVendorRequest struct {
	Reason string `json:"reason" binding:"required,min=3,max=500"`
}

// VendorDetails is the admin view of a vendor: full record plus the owner
// account and catalog size.
type VendorDetails struct {
	Vendor       *models.Vendor         `json:"vendor"`
	Owner        map[string]interface{} `json:"owner"`
	ProductCount int64                  `json:"productCount"`
}

// AdminDashboard is the platform-wide overview.
type AdminDashboard struct {
	TotalUsers     int64                  `json:"totalUsers"`
	TotalVendors   int64                  `json:"totalVendors"`
	PendingVendors int64                  `json:"pendingVendors"`
	TotalProducts  int64                  `json:"totalProducts"`
	OrderStats     *repository.OrderStats `json:"orderStats"`
}

type AdminService struct {
	users    repository.UserRepository
	vendors  repository.VendorRepository
	products repository.ProductRepository
	orders   repository.OrderRepository
}

func NewAdminService(users repository.UserRepository, vendors repository.VendorRepository, products repository.ProductRepository, orders repository.OrderRepository) *AdminService {
	return &AdminService{users: users, vendors: vendors, products: products, orders: orders}
}

// ListVendors pages through vendors filtered by verification state:
// pending, verified or rejected.
func (s *AdminService) ListVendors(ctx context.Context, status, search string, page, limit int) ([]models.Vendor, int64, *apierr.Error) {
	filter := bson.M{}
	switch status {
	case "":
	case "pending":
		filter["isVerified"] = false
		filter["rejectionReason"] = bson.M{"$in": bson.A{nil, ""}}
	case "verified":
		filter["isVerified"] = true
	case "rejected":
		filter["isVerified"] = false
		filter["rejectionReason"] = bson.M{"$nin": bson.A{nil, ""}}
	default:
		return nil, 0, apierr.Validation("Status must be one of: pending, verified, rejected")
	}
	if search != "" {
		filter["shopName"] = bson.M{"$regex": search, "$options": "i"}
	}

	vendors, total, err := s.vendors.Find(ctx, filter,
		bson.D{{Key: "createdAt", Value: -1}}, page, limit)
	if err != nil {
		return nil, 0, apierr.Internal("Failed to fetch vendors", err)
	}
	return vendors, total, nil
}

// GetVendorDetails returns the full vendor record with its owner account.
func (s *AdminService) GetVendorDetails(ctx context.Context, vendorIDHex string) (*VendorDetails, *apierr.Error) {
	vendor, appErr := s.findVendor(ctx, vendorIDHex)
	if appErr != nil {
		return nil, appErr
	}

	details := &VendorDetails{Vendor: vendor}
	if owner, err := s.users.FindByID(ctx, vendor.OwnerID); err == nil {
		details.Owner = owner.PublicProfile()
	}
	count, err := s.products.Count(ctx, bson.M{"vendorId": vendor.ID})
	if err != nil {
		return nil, apierr.Internal("Failed to fetch vendor details", err)
	}
	details.ProductCount = count
	return details, nil
}

// VerifyVendor marks a vendor verified, recording who approved it and when.
func (s *AdminService) VerifyVendor(ctx context.Context, adminID primitive.ObjectID, vendorIDHex string) (*models.Vendor, *apierr.Error) {
	vendor, appErr := s.findVendor(ctx, vendorIDHex)
	if appErr != nil {
		return nil, appErr
	}
	if vendor.IsVerified {
		return nil, apierr.Conflict("Vendor is already verified")
	}

	now := nowUTC()
	updates := bson.M{
		"isVerified":      true,
		"verifiedAt":      now,
		"verifiedBy":      adminID,
		"rejectionReason": "",
		"updatedAt":       now,
	}
	if err := s.vendors.Update(ctx, vendor.ID, updates); err != nil {
		return nil, apierr.Internal("Failed to verify vendor", err)
	}
	vendor.IsVerified = true
	vendor.VerifiedAt = &now
	vendor.VerifiedBy = &adminID
	vendor.RejectionReason = ""
	return vendor, nil
}

// RejectVendor declines a pending vendor application with a reason. The
// vendor may amend their profile and be reviewed again.
func (s *AdminService) RejectVendor(ctx context.Context, vendorIDHex, reason string) (*models.Vendor, *apierr.Error) {
	vendor, appErr := s.findVendor(ctx, vendorIDHex)
	if appErr != nil {
		return nil, appErr
	}
	if vendor.IsVerified {
		return nil, apierr.Conflict("Cannot reject a verified vendor")
	}

	updates := bson.M{
		"rejectionReason": reason,
		"updatedAt":       nowUTC(),
	}
	if err := s.vendors.Update(ctx, vendor.ID, updates); err != nil {
		return nil, apierr.Internal("Failed to reject vendor", err)
	}
	vendor.RejectionReason = reason
	return vendor, nil
}

// ListUsers pages through user accounts, optionally filtered by role or a
// name/email search.
func (s *AdminService) ListUsers(ctx context.Context, role, search string, page, limit int) ([]map[string]interface{}, int64, *apierr.Error) {
	filter := bson.M{}
	if role != "" {
		if role != models.RoleCustomer && role != models.RoleVendor && role != models.RoleAdmin {
			return nil, 0, apierr.Validation("Invalid role filter")
		}
		filter["role"] = role
	}
	if search != "" {
		filter["$or"] = bson.A{
			bson.M{"name": bson.M{"$regex": search, "$options": "i"}},
			bson.M{"email": bson.M{"$regex": search, "$options": "i"}},
		}
	}

	users, total, err := s.users.Find(ctx, filter, page, limit)
	if err != nil {
		return nil, 0, apierr.Internal("Failed to fetch users", err)
	}
	profiles := make([]map[string]interface{}, 0, len(users))
	for i := range users {
		profiles = append(profiles, users[i].PublicProfile())
	}
	return profiles, total, nil
}

// ToggleUserStatus activates or deactivates an account. Admins cannot
// deactivate themselves.
func (s *AdminService) ToggleUserStatus(ctx context.Context, adminID primitive.ObjectID, userIDHex string) (map[string]interface{}, *apierr.Error) {
	userID, appErr := parseObjectID(userIDHex)
	if appErr != nil {
		return nil, appErr
	}
	if userID == adminID {
		return nil, apierr.Forbidden("Cannot change your own account status")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apierr.NotFound("User not found")
		}
		return nil, apierr.Internal("Failed to fetch user", err)
	}

	updates := bson.M{"isActive": !user.IsActive, "updatedAt": nowUTC()}
	if err := s.users.Update(ctx, user.ID, updates); err != nil {
		return nil, apierr.Internal("Failed to update user status", err)
	}
	user.IsActive = !user.IsActive
	return user.PublicProfile(), nil
}

// Dashboard aggregates platform-wide counts and recent order activity.
func (s *AdminService) Dashboard(ctx context.Context) (*AdminDashboard, *apierr.Error) {
	totalVendors, err := s.vendors.Count(ctx, bson.M{})
	if err != nil {
		return nil, apierr.Internal("Failed to compute dashboard", err)
	}
	pendingVendors, err := s.vendors.Count(ctx, bson.M{
		"isVerified":      false,
		"rejectionReason": bson.M{"$in": bson.A{nil, ""}},
	})
	if err != nil {
		return nil, apierr.Internal("Failed to compute dashboard", err)
	}
	totalProducts, err := s.products.Count(ctx, bson.M{})
	if err != nil {
		return nil, apierr.Internal("Failed to compute dashboard", err)
	}
	totalUsers, err := s.users.Count(ctx, bson.M{})
	if err != nil {
		return nil, apierr.Internal("Failed to compute dashboard", err)
	}
	stats, err := s.orders.Stats(ctx, bson.M{
		"createdAt": bson.M{"$gte": nowUTC().AddDate(0, -1, 0)},
	})
	if err != nil {
		return nil, apierr.Internal("Failed to compute dashboard", err)
	}

	return &AdminDashboard{
		TotalUsers:     totalUsers,
		TotalVendors:   totalVendors,
		PendingVendors: pendingVendors,
		TotalProducts:  totalProducts,
		OrderStats:     stats,
	}, nil
}

func (s *AdminService) findVendor(ctx context.Context, vendorIDHex string) (*models.Vendor, *apierr.Error) {
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
	return vendor, nil
}
