package services

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/freshcatch/backend/models"
	"github.com/freshcatch/backend/pkg/apierr"
	"github.com/freshcatch/backend/repository"
)

type UpdateProfileRequest struct {
	Name  string `json:"name" binding:"omitempty,min=2,max=50"`
	Phone string `json:"phone" binding:"omitempty,min=10,max=15"`
}

type AddressRequest struct {
	Label       string    `json:"label" binding:"required"`
	Street      string    `json:"street" binding:"required"`
	City        string    `json:"city" binding:"required"`
	State       string    `json:"state" binding:"required"`
	ZipCode     string    `json:"zipCode" binding:"required"`
	Coordinates []float64 `json:"coordinates" binding:"omitempty,len=2"`
}

// UserService covers profile and delivery address management.
type UserService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

func (s *UserService) GetProfile(ctx context.Context, userID primitive.ObjectID) (*models.User, *apierr.Error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, apierr.NotFound("User not found")
	}
	return user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, req *UpdateProfileRequest) (*models.User, *apierr.Error) {
	updates := bson.M{}
	if req.Name != "" {
		updates["name"] = strings.TrimSpace(req.Name)
	}
	if req.Phone != "" {
		updates["phone"] = strings.TrimSpace(req.Phone)
	}
	if len(updates) == 0 {
		return nil, apierr.Validation("Nothing to update")
	}
	if err := s.users.Update(ctx, userID, updates); err != nil {
		return nil, apierr.Internal("Failed to update profile", err)
	}
	return s.GetProfile(ctx, userID)
}

func (s *UserService) ListAddresses(ctx context.Context, userID primitive.ObjectID) ([]models.Address, *apierr.Error) {
	user, appErr := s.GetProfile(ctx, userID)
	if appErr != nil {
		return nil, appErr
	}
	if user.Addresses == nil {
		return []models.Address{}, nil
	}
	return user.Addresses, nil
}

func (s *UserService) AddAddress(ctx context.Context, userID primitive.ObjectID, req *AddressRequest) (*models.Address, *apierr.Error) {
	user, appErr := s.GetProfile(ctx, userID)
	if appErr != nil {
		return nil, appErr
	}

	address := models.Address{
		ID:          primitive.NewObjectID(),
		Label:       req.Label,
		Street:      req.Street,
		City:        req.City,
		State:       req.State,
		ZipCode:     req.ZipCode,
		Coordinates: req.Coordinates,
	}
	addresses := append(user.Addresses, address)
	if err := s.users.Update(ctx, userID, bson.M{"addresses": addresses}); err != nil {
		return nil, apierr.Internal("Failed to add address", err)
	}
	return &address, nil
}

func (s *UserService) UpdateAddress(ctx context.Context, userID, addressID primitive.ObjectID, req *AddressRequest) (*models.Address, *apierr.Error) {
	user, appErr := s.GetProfile(ctx, userID)
	if appErr != nil {
		return nil, appErr
	}

	for i := range user.Addresses {
		if user.Addresses[i].ID != addressID {
			continue
		}
		user.Addresses[i] = models.Address{
			ID:          addressID,
			Label:       req.Label,
			Street:      req.Street,
			City:        req.City,
			State:       req.State,
			ZipCode:     req.ZipCode,
			Coordinates: req.Coordinates,
		}
		if err := s.users.Update(ctx, userID, bson.M{"addresses": user.Addresses}); err != nil {
			return nil, apierr.Internal("Failed to update address", err)
		}
		return &user.Addresses[i], nil
	}
	return nil, apierr.NotFound("Address not found")
}

func (s *UserService) DeleteAddress(ctx context.Context, userID, addressID primitive.ObjectID) *apierr.Error {
	user, appErr := s.GetProfile(ctx, userID)
	if appErr != nil {
		return appErr
	}

	addresses := user.Addresses[:0]
	found := false
	for _, a := range user.Addresses {
		if a.ID == addressID {
			found = true
			continue
		}
		addresses = append(addresses, a)
	}
	if !found {
		return apierr.NotFound("Address not found")
	}
	if err := s.users.Update(ctx, userID, bson.M{"addresses": addresses}); err != nil {
		return apierr.Internal("Failed to delete address", err)
	}
	return nil
}
