package model

import "errors"

// =====================================================
// CUSTOM ERROR CODES
// =====================================================
const (
	ErrCodeProductNotFound   = "PRD001"
	ErrCodeProductInactive   = "PRD002"
	ErrCodeVariantNotFound   = "PRD003"
	ErrCodeInsufficientStock = "PRD004"
	ErrCodeDuplicateSKU      = "PRD005"
	ErrCodeDuplicateVariant  = "PRD006"
	ErrCodeNotProductOwner   = "PRD007"
	ErrCodeInvalidProduct    = "PRD008"
	ErrCodeInvalidImage      = "PRD009"
)

// =====================================================
// ERROR DEFINITIONS
// =====================================================
var (
	ErrProductNotFound   = errors.New("product not found")
	ErrProductInactive   = errors.New("product is inactive")
	ErrVariantNotFound   = errors.New("product variant not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrDuplicateSKU      = errors.New("sku already exists")
	ErrDuplicateVariant  = errors.New("variant with this size and color already exists")
	ErrNotProductOwner   = errors.New("product does not belong to this shop")
)

// =====================================================
// CUSTOM ERROR TYPE
// =====================================================
type ProductError struct {
	Code    string
	Message string
	Err     error
}

func (e *ProductError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ProductError) Unwrap() error {
	return e.Err
}

// NewProductError creates a new ProductError
func NewProductError(code, message string, err error) *ProductError {
	return &ProductError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
