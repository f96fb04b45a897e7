package model

import "errors"

// =====================================================
// CUSTOM ERROR CODES
// =====================================================
const (
	ErrCodeOrderNotFound          = "ORD001"
	ErrCodeInvalidOrder           = "ORD002"
	ErrCodeMixedShopCart          = "ORD003"
	ErrCodeInvalidTransition      = "ORD004"
	ErrCodeCancellationNotAllowed = "ORD005"
	ErrCodeEmptyCart              = "ORD006"
)

// =====================================================
// ERROR DEFINITIONS
// =====================================================
var (
	ErrOrderNotFound          = errors.New("order not found")
	ErrMixedShopCart          = errors.New("cart spans multiple shops")
	ErrInvalidTransition      = errors.New("invalid order status transition")
	ErrCancellationNotAllowed = errors.New("order can no longer be cancelled")
)

// =====================================================
// CUSTOM ERROR TYPE
// =====================================================
type OrderError struct {
	Code    string
	Message string
	Err     error
}

func (e *OrderError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *OrderError) Unwrap() error {
	return e.Err
}

// NewOrderError creates a new OrderError
func NewOrderError(code, message string, err error) *OrderError {
	return &OrderError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
