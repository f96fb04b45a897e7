package model

import "errors"

// =====================================================
// CUSTOM ERROR CODES
// =====================================================
const (
	ErrCodeCategoryNotFound = "CAT001"
	ErrCodeCategoryExists   = "CAT002"
	ErrCodeCategoryInUse    = "CAT003"
	ErrCodeInvalidCategory  = "CAT004"
)

// =====================================================
// ERROR DEFINITIONS
// =====================================================
var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryExists   = errors.New("category with this slug already exists")
	ErrCategoryInUse    = errors.New("category has products or child categories")
)

// =====================================================
// CUSTOM ERROR TYPE
// =====================================================
type CategoryError struct {
	Code    string
	Message string
	Err     error
}

func (e *CategoryError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *CategoryError) Unwrap() error {
	return e.Err
}

// NewCategoryError creates a new CategoryError
func NewCategoryError(code, message string, err error) *CategoryError {
	return &CategoryError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
