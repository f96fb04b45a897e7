package model

import "errors"

// =====================================================
// CUSTOM ERROR CODES
// =====================================================
const (
	ErrCodeCouponNotFound       = "CPN001"
	ErrCodeCouponInactive       = "CPN002"
	ErrCodeCouponNotYetValid    = "CPN003"
	ErrCodeCouponExpired        = "CPN004"
	ErrCodeCouponLimitReached   = "CPN005"
	ErrCodeCustomerLimitReached = "CPN006"
	ErrCodeShopMismatch         = "CPN007"
	ErrCodeMinOrderNotMet       = "CPN008"
	ErrCodeDuplicateCode        = "CPN009"
	ErrCodeInvalidCoupon        = "CPN010"
)

// =====================================================
// ERROR DEFINITIONS
// =====================================================
var (
	ErrCouponNotFound       = errors.New("coupon not found")
	ErrCouponInactive       = errors.New("coupon is inactive")
	ErrCouponNotYetValid    = errors.New("coupon not yet valid")
	ErrCouponExpired        = errors.New("coupon has expired")
	ErrCouponLimitReached   = errors.New("coupon usage limit reached")
	ErrCustomerLimitReached = errors.New("customer usage limit reached")
	ErrShopMismatch         = errors.New("coupon belongs to a different shop")
	ErrMinOrderNotMet       = errors.New("minimum order value not met")
	ErrDuplicateCode        = errors.New("coupon code already exists")
)

// =====================================================
// CUSTOM ERROR TYPE
// =====================================================
type CouponError struct {
	Code    string
	Message string
	Err     error
}

func (e *CouponError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *CouponError) Unwrap() error {
	return e.Err
}

// NewCouponError creates a new CouponError
func NewCouponError(code, message string, err error) *CouponError {
	return &CouponError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
