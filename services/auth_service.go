package services

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/freshcatch/backend/models"
	"github.com/freshcatch/backend/pkg/apierr"
	"github.com/freshcatch/backend/repository"
)

const bcryptCost = 12

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone" binding:"required,min=10,max=15"`
	Role     string `json:"role" binding:"omitempty,oneof=customer vendor"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}

// AuthResult bundles a fresh token with the authenticated user.
type AuthResult struct {
	Token string      `json:"token"`
	User  interface{} `json:"user"`
}

type AuthService struct {
	users  repository.UserRepository
	tokens *TokenService
}

func NewAuthService(users repository.UserRepository, tokens *TokenService) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Register creates a new account and returns a session token.
func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*AuthResult, *apierr.Error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := s.users.FindByEmailOrPhone(ctx, email, req.Phone)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apierr.Internal("Failed to check existing users", err)
	}
	if existing != nil {
		field := "phone"
		if existing.Email == email {
			field = "email"
		}
		return nil, apierr.Conflict("User with this " + field + " already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, apierr.Internal("Failed to hash password", err)
	}

	role := req.Role
	if role == "" {
		role = models.RoleCustomer
	}

	user := &models.User{
		Name:     strings.TrimSpace(req.Name),
		Email:    email,
		Password: string(hash),
		Phone:    strings.TrimSpace(req.Phone),
		Role:     role,
		IsActive: true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, apierr.Conflict("User with this email or phone already exists")
		}
		return nil, apierr.Internal("Failed to create user", err)
	}

	token, err := s.tokens.Generate(user.ID.Hex(), user.Role)
	if err != nil {
		return nil, apierr.Internal("Failed to issue token", err)
	}

	zap.L().Info("User registered", zap.String("user_id", user.ID.Hex()), zap.String("role", user.Role))
	return &AuthResult{Token: token, User: user.PublicProfile()}, nil
}

// Login verifies credentials and returns a session token.
func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*AuthResult, *apierr.Error) {
	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apierr.Unauthorized("Invalid email or password")
		}
		return nil, apierr.Internal("Failed to look up user", err)
	}
	if !user.IsActive {
		return nil, apierr.Unauthorized("Account has been deactivated")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		return nil, apierr.Unauthorized("Invalid email or password")
	}

	_ = s.users.Update(ctx, user.ID, bson.M{"lastLogin": nowUTC()})

	token, err := s.tokens.Generate(user.ID.Hex(), user.Role)
	if err != nil {
		return nil, apierr.Internal("Failed to issue token", err)
	}
	return &AuthResult{Token: token, User: user.PublicProfile()}, nil
}

// GetUser loads a user by id.
func (s *AuthService) GetUser(ctx context.Context, userID primitive.ObjectID) (*models.User, *apierr.Error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apierr.NotFound("User not found")
		}
		return nil, apierr.Internal("Failed to fetch user", err)
	}
	return user, nil
}

// UpdatePassword verifies the current password before replacing it.
func (s *AuthService) UpdatePassword(ctx context.Context, userID primitive.ObjectID, req *UpdatePasswordRequest) *apierr.Error {
	user, appErr := s.GetUser(ctx, userID)
	if appErr != nil {
		return appErr
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)) != nil {
		return apierr.Unauthorized("Current password is incorrect")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcryptCost)
	if err != nil {
		return apierr.Internal("Failed to hash password", err)
	}
	if err := s.users.Update(ctx, userID, bson.M{"password": string(hash)}); err != nil {
		return apierr.Internal("Failed to update password", err)
	}
	return nil
}

// Deactivate disables the account; login is refused afterwards.
func (s *AuthService) Deactivate(ctx context.Context, userID primitive.ObjectID) *apierr.Error {
	if err := s.users.Update(ctx, userID, bson.M{"isActive": false}); err != nil {
		return apierr.Internal("Failed to deactivate account", err)
	}
	return nil
}
