package model

import "errors"

// =====================================================
// CUSTOM ERROR CODES
// =====================================================
const (
	ErrCodeUserNotFound       = "USR001"
	ErrCodePhoneAlreadyExists = "USR002"
	ErrCodeInvalidCredentials = "USR003"
	ErrCodeUserInactive       = "USR004"
	ErrCodeInvalidUserType    = "USR005"
	ErrCodeInvalidToken       = "USR006"
)

// =====================================================
// ERROR DEFINITIONS
// =====================================================
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrPhoneAlreadyExists = errors.New("phone number already registered")
	ErrInvalidCredentials = errors.New("invalid phone or password")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrInvalidUserType    = errors.New("invalid user type")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// =====================================================
// CUSTOM ERROR TYPE
// =====================================================
type UserError struct {
	Code    string
	Message string
	Err     error
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new UserError
func NewUserError(code, message string, err error) *UserError {
	return &UserError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
