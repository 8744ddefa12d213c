package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/freshcatch/backend/models"
)

func newAdminService() (*AdminService, *MockUserRepository, *MockVendorRepository) {
	users := new(MockUserRepository)
	vendors := new(MockVendorRepository)
	return NewAdminService(users, vendors, new(MockProductRepository), new(MockOrderRepository)), users, vendors
}

func TestVerifyVendor(t *testing.T) {
	ctx := context.Background()
	adminID := primitive.NewObjectID()

	t.Run("Success records approver", func(t *testing.T) {
		service, _, vendors := newAdminService()
		pending := &models.Vendor{ID: primitive.NewObjectID()}
		vendors.On("FindByID", ctx, pending.ID).Return(pending, nil).Once()
		vendors.On("Update", ctx, pending.ID, mock.MatchedBy(func(u bson.M) bool {
			return u["isVerified"] == true && u["verifiedBy"] == adminID
		})).Return(nil).Once()

		vendor, appErr := service.VerifyVendor(ctx, adminID, pending.ID.Hex())

		assert.Nil(t, appErr)
		assert.True(t, vendor.IsVerified)
		assert.Equal(t, adminID, *vendor.VerifiedBy)
		assert.NotNil(t, vendor.VerifiedAt)
		vendors.AssertExpectations(t)
	})

	t.Run("Already verified rejected", func(t *testing.T) {
		service, _, vendors := newAdminService()
		verified := &models.Vendor{ID: primitive.NewObjectID(), IsVerified: true}
		vendors.On("FindByID", ctx, verified.ID).Return(verified, nil).Once()

		_, appErr := service.VerifyVendor(ctx, adminID, verified.ID.Hex())

		assert.NotNil(t, appErr)
		assert.Equal(t, 400, appErr.Code)
		vendors.AssertNotCalled(t, "Update", ctx, mock.Anything, mock.Anything)
	})
}

func TestRejectVendor(t *testing.T) {
	ctx := context.Background()

	t.Run("Records reason", func(t *testing.T) {
		service, _, vendors := newAdminService()
		pending := &models.Vendor{ID: primitive.NewObjectID()}
		vendors.On("FindByID", ctx, pending.ID).Return(pending, nil).Once()
		vendors.On("Update", ctx, pending.ID, mock.MatchedBy(func(u bson.M) bool {
			return u["rejectionReason"] == "missing business license"
		})).Return(nil).Once()

		vendor, appErr := service.RejectVendor(ctx, pending.ID.Hex(), "missing business license")

		assert.Nil(t, appErr)
		assert.Equal(t, "missing business license", vendor.RejectionReason)
	})

	t.Run("Verified vendor cannot be rejected", func(t *testing.T) {
		service, _, vendors := newAdminService()
		verified := &models.Vendor{ID: primitive.NewObjectID(), IsVerified: true}
		vendors.On("FindByID", ctx, verified.ID).Return(verified, nil).Once()

		_, appErr := service.RejectVendor(ctx, verified.ID.Hex(), "nope")

		assert.NotNil(t, appErr)
		assert.Equal(t, 400, appErr.Code)
	})
}

func TestToggleUserStatus(t *testing.T) {
	ctx := context.Background()
	adminID := primitive.NewObjectID()

	t.Run("Deactivates an active user", func(t *testing.T) {
		service, users, _ := newAdminService()
		target := &models.User{ID: primitive.NewObjectID(), Name: "Asha", IsActive: true}
		users.On("FindByID", ctx, target.ID).Return(target, nil).Once()
		users.On("Update", ctx, target.ID, mock.MatchedBy(func(u bson.M) bool {
			return u["isActive"] == false
		})).Return(nil).Once()

		profile, appErr := service.ToggleUserStatus(ctx, adminID, target.ID.Hex())

		assert.Nil(t, appErr)
		assert.Equal(t, false, profile["isActive"])
	})

	t.Run("Self-deactivation refused", func(t *testing.T) {
		service, users, _ := newAdminService()

		_, appErr := service.ToggleUserStatus(ctx, adminID, adminID.Hex())

		assert.NotNil(t, appErr)
		assert.Equal(t, 403, appErr.Code)
		users.AssertNotCalled(t, "FindByID", ctx, mock.Anything)
	})
}

func TestAdminListVendors(t *testing.T) {
	ctx := context.Background()

	t.Run("Pending filter", func(t *testing.T) {
		service, _, vendors := newAdminService()
		vendors.On("Find", ctx, mock.MatchedBy(func(f bson.M) bool {
			return f["isVerified"] == false
		}), mock.Anything, 1, 10).Return([]models.Vendor{}, int64(0), nil).Once()

		_, _, appErr := service.ListVendors(ctx, "pending", "", 1, 10)
		assert.Nil(t, appErr)
		vendors.AssertExpectations(t)
	})

	t.Run("Unknown status rejected", func(t *testing.T) {
		service, _, _ := newAdminService()
		_, _, appErr := service.ListVendors(ctx, "archived", "", 1, 10)
		assert.NotNil(t, appErr)
		assert.Equal(t, 400, appErr.Code)
	})
}
