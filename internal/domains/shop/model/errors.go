package model

import "errors"

// =====================================================
// CUSTOM ERROR CODES
// =====================================================
const (
	ErrCodeShopNotFound      = "SHP001"
	ErrCodeShopAlreadyExists = "SHP002"
	ErrCodeShopNotApproved   = "SHP003"
	ErrCodeNotSeller         = "SHP004"
	ErrCodeAlreadyDecided    = "SHP005"
	ErrCodeInvalidShop       = "SHP006"
)

// =====================================================
// ERROR DEFINITIONS
// =====================================================
var (
	ErrShopNotFound      = errors.New("shop not found")
	ErrShopAlreadyExists = errors.New("seller already has a shop")
	ErrShopNotApproved   = errors.New("shop is not approved")
	ErrNotSeller         = errors.New("account is not a seller")
	ErrAlreadyDecided    = errors.New("shop approval already decided")
)

// =====================================================
// CUSTOM ERROR TYPE
// =====================================================
type ShopError struct {
	Code    string
	Message string
	Err     error
}

func (e *ShopError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ShopError) Unwrap() error {
	return e.Err
}

// NewShopError creates a new ShopError
func NewShopError(code, message string, err error) *ShopError {
	return &ShopError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
