package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/shopspring/decimal"
)

// =====================================================
// CREATE COUPON REQUEST
// =====================================================
type CreateCouponRequest struct {
	Code               string           `json:"code" binding:"required"`
	Description        *string          `json:"description,omitempty"`
	DiscountType       string           `json:"discount_type" binding:"required"`
	DiscountValue      decimal.Decimal  `json:"discount_value" binding:"required"`
	Applicability      string           `json:"applicability"` // defaults to "all"
	CategoryID         *int64           `json:"category_id,omitempty"`
	ProductID          *int64           `json:"product_id,omitempty"`
	MinOrderValue      *decimal.Decimal `json:"min_order_value,omitempty"`
	MaxUses            *int             `json:"max_uses,omitempty"`
	MaxUsesPerCustomer *int             `json:"max_uses_per_customer,omitempty"` // defaults to 1
	IsActive           *bool            `json:"is_active,omitempty"`             // defaults to true
	ValidFrom          time.Time        `json:"valid_from" binding:"required"`
	ValidTo            time.Time        `json:"valid_to" binding:"required"`
}

// Validate validates CreateCouponRequest
func (req CreateCouponRequest) Validate() error {
	err := validation.ValidateStruct(&req,
		validation.Field(&req.Code, validation.Required, validation.Length(3, 20), is.Alphanumeric),
		validation.Field(&req.DiscountType, validation.Required, validation.In(DiscountTypePercentage, DiscountTypeFixed)),
		validation.Field(&req.Applicability, validation.In(ApplicabilityAll, ApplicabilityCategory, ApplicabilityProduct)),
		validation.Field(&req.ValidFrom, validation.Required),
		validation.Field(&req.ValidTo, validation.Required),
	)
	if err != nil {
		return err
	}

	if !req.DiscountValue.IsPositive() {
		return validation.NewError("validation_discount_value", "discount_value must be greater than zero")
	}
	if req.DiscountType == DiscountTypePercentage && req.DiscountValue.GreaterThan(decimal.NewFromInt(100)) {
		return validation.NewError("validation_discount_value", "percentage discount cannot exceed 100")
	}
	if req.Applicability == ApplicabilityCategory && req.CategoryID == nil {
		return validation.NewError("validation_category_id", "category_id is required when applicability is category")
	}
	if req.Applicability == ApplicabilityProduct && req.ProductID == nil {
		return validation.NewError("validation_product_id", "product_id is required when applicability is product")
	}
	if req.MinOrderValue != nil && req.MinOrderValue.IsNegative() {
		return validation.NewError("validation_min_order_value", "min_order_value cannot be negative")
	}
	if req.MaxUses != nil && *req.MaxUses <= 0 {
		return validation.NewError("validation_max_uses", "max_uses must be greater than zero")
	}
	if req.MaxUsesPerCustomer != nil && *req.MaxUsesPerCustomer <= 0 {
		return validation.NewError("validation_max_uses_per_customer", "max_uses_per_customer must be greater than zero")
	}
	if !req.ValidTo.After(req.ValidFrom) {
		return validation.NewError("validation_valid_to", "valid_to must be after valid_from")
	}
	return nil
}

// =====================================================
// UPDATE COUPON REQUEST
// =====================================================

// UpdateCouponRequest carries partial coupon changes. The code is
// immutable after creation.
type UpdateCouponRequest struct {
	Description        *string          `json:"description,omitempty"`
	DiscountType       *string          `json:"discount_type,omitempty"`
	DiscountValue      *decimal.Decimal `json:"discount_value,omitempty"`
	Applicability      *string          `json:"applicability,omitempty"`
	CategoryID         *int64           `json:"category_id,omitempty"`
	ProductID          *int64           `json:"product_id,omitempty"`
	MinOrderValue      *decimal.Decimal `json:"min_order_value,omitempty"`
	MaxUses            *int             `json:"max_uses,omitempty"`
	MaxUsesPerCustomer *int             `json:"max_uses_per_customer,omitempty"`
	IsActive           *bool            `json:"is_active,omitempty"`
	ValidFrom          *time.Time       `json:"valid_from,omitempty"`
	ValidTo            *time.Time       `json:"valid_to,omitempty"`
}

// Validate validates UpdateCouponRequest
func (req UpdateCouponRequest) Validate() error {
	err := validation.ValidateStruct(&req,
		validation.Field(&req.DiscountType, validation.NilOrNotEmpty, validation.In(DiscountTypePercentage, DiscountTypeFixed)),
		validation.Field(&req.Applicability, validation.NilOrNotEmpty, validation.In(ApplicabilityAll, ApplicabilityCategory, ApplicabilityProduct)),
	)
	if err != nil {
		return err
	}

	if req.DiscountValue != nil && !req.DiscountValue.IsPositive() {
		return validation.NewError("validation_discount_value", "discount_value must be greater than zero")
	}
	if req.MinOrderValue != nil && req.MinOrderValue.IsNegative() {
		return validation.NewError("validation_min_order_value", "min_order_value cannot be negative")
	}
	if req.MaxUses != nil && *req.MaxUses <= 0 {
		return validation.NewError("validation_max_uses", "max_uses must be greater than zero")
	}
	if req.MaxUsesPerCustomer != nil && *req.MaxUsesPerCustomer <= 0 {
		return validation.NewError("validation_max_uses_per_customer", "max_uses_per_customer must be greater than zero")
	}
	return nil
}

// =====================================================
// LIST COUPONS REQUEST
// =====================================================
type ListCouponsRequest struct {
	IsActive *bool `form:"is_active"`
	Page     int   `form:"page"`
	Limit    int   `form:"limit"`
}

// =====================================================
// VALIDATE COUPON REQUEST (customer preview)
// =====================================================
type CartItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// Validate validates CartItemRequest
func (req CartItemRequest) Validate() error {
	if req.ProductID <= 0 {
		return validation.NewError("validation_product_id", "product_id is required")
	}
	if req.Quantity <= 0 {
		return validation.NewError("validation_quantity", "quantity must be greater than zero")
	}
	return nil
}

type ValidateCouponRequest struct {
	Code      string            `json:"code" binding:"required"`
	CartItems []CartItemRequest `json:"cart_items" binding:"required"`
}

// Validate validates ValidateCouponRequest
func (req ValidateCouponRequest) Validate() error {
	err := validation.ValidateStruct(&req,
		validation.Field(&req.Code, validation.Required),
		validation.Field(&req.CartItems, validation.Required, validation.Length(1, 0)),
	)
	if err != nil {
		return err
	}

	for _, item := range req.CartItems {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// =====================================================
// RESPONSES
// =====================================================

// CouponSummary is the compact coupon shape inside the preview response.
type CouponSummary struct {
	ID              int64           `json:"id"`
	Code            string          `json:"code"`
	DiscountType    string          `json:"discount_type"`
	DiscountValue   decimal.Decimal `json:"discount_value"`
	DiscountDisplay string          `json:"discount_display"`
}

// ValidateCouponResponse is the preview result for a priced cart.
type ValidateCouponResponse struct {
	Valid           bool            `json:"valid"`
	Coupon          CouponSummary   `json:"coupon"`
	ApplicableTotal decimal.Decimal `json:"applicable_total"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	Message         string          `json:"message"`
}

// UsageHistoryResponse pairs a coupon with its redemption rows.
type UsageHistoryResponse struct {
	Coupon *Coupon       `json:"coupon"`
	Usages []CouponUsage `json:"usages"`
}
