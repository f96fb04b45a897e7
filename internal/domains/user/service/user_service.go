package service

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"marketplace-backend/internal/domains/user/model"
	"marketplace-backend/internal/domains/user/repository"
	"marketplace-backend/pkg/jwt"
)

// =====================================================
// USER SERVICE IMPLEMENTATION
// =====================================================
type userService struct {
	userRepo   repository.UserRepository
	jwtManager *jwt.Manager
}

// NewUserService creates a new user service
func NewUserService(userRepo repository.UserRepository, jwtManager *jwt.Manager) UserService {
	return &userService{
		userRepo:   userRepo,
		jwtManager: jwtManager,
	}
}

// =====================================================
// REGISTER
// =====================================================

func (s *userService) Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error) {
	// Step 1: Validate request
	if err := req.Validate(); err != nil {
		return nil, model.NewUserError(model.ErrCodeInvalidUserType, "Invalid registration request", err)
	}

	// Step 2: Hash password (cost 12)
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// Step 3: Build user entity
	var email *string
	if req.Email != "" {
		email = &req.Email
	}

	newUser := &model.User{
		Phone:        req.Phone,
		PasswordHash: string(passwordHash),
		Name:         req.Name,
		Email:        email,
		UserType:     req.UserType,
		IsActive:     true,
	}

	// Step 4: Persist (unique phone enforced by DB)
	if err := s.userRepo.Create(ctx, newUser); err != nil {
		return nil, err
	}

	// Step 5: Issue token pair
	return s.buildAuthResponse(newUser)
}

// =====================================================
// LOGIN
// =====================================================

func (s *userService) Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error) {
	// Step 1: Validate request
	if err := req.Validate(); err != nil {
		return nil, model.NewUserError(model.ErrCodeInvalidCredentials, "Invalid login request", err)
	}

	// Step 2: Find user. Lookup failure maps to the same error as a
	// wrong password so callers cannot probe registered numbers.
	u, err := s.userRepo.GetByPhone(ctx, req.Phone)
	if err != nil {
		return nil, model.ErrInvalidCredentials
	}

	if !u.IsActive {
		return nil, model.ErrUserInactive
	}

	// Step 3: Verify password (constant-time)
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}

	// Step 4: Issue token pair
	return s.buildAuthResponse(u)
}

// =====================================================
// REFRESH TOKEN
// =====================================================

func (s *userService) RefreshToken(ctx context.Context, req model.RefreshTokenRequest) (*model.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewUserError(model.ErrCodeInvalidToken, "Invalid refresh request", err)
	}

	claims, err := s.jwtManager.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, model.ErrInvalidToken
	}

	// Re-read the user so a deactivated account cannot keep refreshing.
	u, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, model.ErrInvalidToken
	}
	if !u.IsActive {
		return nil, model.ErrUserInactive
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(u.ID, u.Phone, u.UserType)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(u.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &model.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// =====================================================
// PROFILE
// =====================================================

func (s *userService) GetProfile(ctx context.Context, userID int64) (*model.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

func (s *userService) UpdateProfile(ctx context.Context, userID int64, req model.UpdateProfileRequest) (*model.User, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewUserError(model.ErrCodeUserNotFound, "Invalid profile update", err)
	}

	return s.userRepo.UpdateProfile(ctx, userID, req.Name, req.Email)
}

func (s *userService) UpdateFCMToken(ctx context.Context, userID int64, req model.UpdateFCMTokenRequest) error {
	if err := req.Validate(); err != nil {
		return model.NewUserError(model.ErrCodeInvalidToken, "Invalid fcm token", err)
	}

	return s.userRepo.UpdateFCMToken(ctx, userID, req.FCMToken)
}

// buildAuthResponse issues an access/refresh pair for the user.
func (s *userService) buildAuthResponse(u *model.User) (*model.AuthResponse, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(u.ID, u.Phone, u.UserType)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(u.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &model.AuthResponse{
		User:         *u,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
