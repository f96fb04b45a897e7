package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// =====================================================
// REGISTER REQUEST
// =====================================================
type RegisterRequest struct {
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email,omitempty"`
	UserType string `json:"user_type" binding:"required"`
}

// Validate validates RegisterRequest
func (req RegisterRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Phone, validation.Required, validation.Length(10, 15), is.Digit),
		validation.Field(&req.Password, validation.Required, validation.Length(6, 72)),
		validation.Field(&req.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.Email, is.EmailFormat),
		validation.Field(&req.UserType, validation.Required, validation.In(
			UserTypeCustomer,
			UserTypeSeller,
		)),
	)
}

// =====================================================
// LOGIN REQUEST
// =====================================================
type LoginRequest struct {
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Validate validates LoginRequest
func (req LoginRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Phone, validation.Required),
		validation.Field(&req.Password, validation.Required),
	)
}

// =====================================================
// REFRESH TOKEN REQUEST
// =====================================================
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Validate validates RefreshTokenRequest
func (req RefreshTokenRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.RefreshToken, validation.Required),
	)
}

// =====================================================
// UPDATE PROFILE REQUEST
// =====================================================
type UpdateProfileRequest struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
}

// Validate validates UpdateProfileRequest
func (req UpdateProfileRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Name, validation.NilOrNotEmpty, validation.Length(2, 100)),
		validation.Field(&req.Email, is.EmailFormat),
	)
}

// =====================================================
// UPDATE FCM TOKEN REQUEST
// =====================================================
type UpdateFCMTokenRequest struct {
	FCMToken string `json:"fcm_token" binding:"required"`
}

// Validate validates UpdateFCMTokenRequest
func (req UpdateFCMTokenRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.FCMToken, validation.Required, validation.Length(1, 4096)),
	)
}

// =====================================================
// AUTH RESPONSE
// =====================================================
type AuthResponse struct {
	User         User   `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// TokenResponse is returned by the refresh endpoint.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
