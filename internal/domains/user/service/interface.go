package service

import (
	"context"

	"marketplace-backend/internal/domains/user/model"
)

// UserService defines account and auth operations.
type UserService interface {
	Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error)
	Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error)
	RefreshToken(ctx context.Context, req model.RefreshTokenRequest) (*model.TokenResponse, error)
	GetProfile(ctx context.Context, userID int64) (*model.User, error)
	UpdateProfile(ctx context.Context, userID int64, req model.UpdateProfileRequest) (*model.User, error)
	UpdateFCMToken(ctx context.Context, userID int64, req model.UpdateFCMTokenRequest) error
}
