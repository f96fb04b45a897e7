package model

import "errors"

// =====================================================
// ERROR CODES
// =====================================================
const (
	ErrCodeReviewNotFound    = "REV001"
	ErrCodeInvalidReview     = "REV002"
	ErrCodeNotOrderOwner     = "REV003"
	ErrCodeOrderNotDelivered = "REV004"
	ErrCodeProductNotInOrder = "REV005"
	ErrCodeDuplicateReview   = "REV006"
)

// =====================================================
// DOMAIN ERRORS
// =====================================================
var (
	ErrReviewNotFound    = errors.New("review not found")
	ErrNotOrderOwner     = errors.New("order belongs to another customer")
	ErrOrderNotDelivered = errors.New("order has not been delivered")
	ErrProductNotInOrder = errors.New("product is not part of this order")
	ErrDuplicateReview   = errors.New("product already reviewed for this order")
)

// =====================================================
// ERROR TYPES
// =====================================================

// ReviewError represents a review domain error
type ReviewError struct {
	Code    string
	Message string
	Err     error
}

func (e *ReviewError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ReviewError) Unwrap() error {
	return e.Err
}

// NewReviewError creates a new review error
func NewReviewError(code, message string, err error) *ReviewError {
	return &ReviewError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
