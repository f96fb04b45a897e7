package model

import (
	"time"
)

// =====================================================
// USER TYPE CONSTANTS
// =====================================================
const (
	UserTypeCustomer = "customer"
	UserTypeSeller   = "seller"
	UserTypeAdmin    = "admin"
)

// IsValidUserType reports whether t is a registerable account type.
// Admin accounts are provisioned manually, never through the API.
func IsValidUserType(t string) bool {
	return t == UserTypeCustomer || t == UserTypeSeller
}

// =====================================================
// ENTITY: User
// =====================================================
type User struct {
	ID           int64     `json:"id" db:"id"`
	Phone        string    `json:"phone" db:"phone"`
	PasswordHash string    `json:"-" db:"password_hash"` // Never expose in JSON
	Name         string    `json:"name" db:"name"`
	Email        *string   `json:"email,omitempty" db:"email"`
	UserType     string    `json:"user_type" db:"user_type"`
	FCMToken     *string   `json:"-" db:"fcm_token"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// IsSeller reports whether the account can own a shop.
func (u *User) IsSeller() bool {
	return u.UserType == UserTypeSeller
}

// IsAdmin reports whether the account has platform-admin rights.
func (u *User) IsAdmin() bool {
	return u.UserType == UserTypeAdmin
}
