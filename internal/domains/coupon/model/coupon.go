package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// =====================================================
// CONSTANTS
// =====================================================
const (
	DiscountTypePercentage = "percentage"
	DiscountTypeFixed      = "fixed"
)

const (
	ApplicabilityAll      = "all"
	ApplicabilityCategory = "category"
	ApplicabilityProduct  = "product"
)

// IsValidDiscountType checks if the discount type is supported
func IsValidDiscountType(t string) bool {
	return t == DiscountTypePercentage || t == DiscountTypeFixed
}

// IsValidApplicability checks if the applicability scope is supported
func IsValidApplicability(a string) bool {
	return a == ApplicabilityAll || a == ApplicabilityCategory || a == ApplicabilityProduct
}

// =====================================================
// COUPON ENTITY
// =====================================================

// Coupon is a shop-scoped discount code. The code is stored uppercased
// and is globally unique. times_used moves in lockstep with redemptions
// and cancellations and never drops below zero.
type Coupon struct {
	ID                 int64           `json:"id" db:"id"`
	ShopID             int64           `json:"shop_id" db:"shop_id"`
	Code               string          `json:"code" db:"code"`
	Description        *string         `json:"description,omitempty" db:"description"`
	DiscountType       string          `json:"discount_type" db:"discount_type"`
	DiscountValue      decimal.Decimal `json:"discount_value" db:"discount_value"`
	Applicability      string          `json:"applicability" db:"applicability"`
	CategoryID         *int64          `json:"category_id,omitempty" db:"category_id"`
	ProductID          *int64          `json:"product_id,omitempty" db:"product_id"`
	MinOrderValue      decimal.Decimal `json:"min_order_value" db:"min_order_value"`
	MaxUses            *int            `json:"max_uses,omitempty" db:"max_uses"`
	MaxUsesPerCustomer int             `json:"max_uses_per_customer" db:"max_uses_per_customer"`
	TimesUsed          int             `json:"times_used" db:"times_used"`
	IsActive           bool            `json:"is_active" db:"is_active"`
	ValidFrom          time.Time       `json:"valid_from" db:"valid_from"`
	ValidTo            time.Time       `json:"valid_to" db:"valid_to"`
	CreatedAt          time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at" db:"updated_at"`
}

// ValidateAt checks whether the coupon is redeemable at the given time.
// Returns nil when valid, else the sentinel naming the first failing rule.
func (c *Coupon) ValidateAt(now time.Time) error {
	if !c.IsActive {
		return ErrCouponInactive
	}
	if now.Before(c.ValidFrom) {
		return ErrCouponNotYetValid
	}
	if now.After(c.ValidTo) {
		return ErrCouponExpired
	}
	if c.MaxUses != nil && c.TimesUsed >= *c.MaxUses {
		return ErrCouponLimitReached
	}
	return nil
}

// AppliesTo reports whether a line with the given product and category
// falls inside the coupon's scope.
func (c *Coupon) AppliesTo(productID int64, categoryID *int64) bool {
	switch c.Applicability {
	case ApplicabilityAll:
		return true
	case ApplicabilityCategory:
		return c.CategoryID != nil && categoryID != nil && *categoryID == *c.CategoryID
	case ApplicabilityProduct:
		return c.ProductID != nil && productID == *c.ProductID
	default:
		return false
	}
}

// DiscountDisplay renders the discount for UI surfaces, e.g. "20%" or "₹100.00".
func (c *Coupon) DiscountDisplay() string {
	if c.DiscountType == DiscountTypePercentage {
		return c.DiscountValue.String() + "%"
	}
	return "₹" + c.DiscountValue.StringFixed(2)
}

// =====================================================
// COUPON USAGE ENTITY
// =====================================================

// CouponUsage records one successful redemption. Append-only; order_id
// is nullable so usage history survives order deletion.
type CouponUsage struct {
	ID             int64           `json:"id" db:"id"`
	CouponID       int64           `json:"coupon_id" db:"coupon_id"`
	CustomerID     int64           `json:"customer_id" db:"customer_id"`
	OrderID        *int64          `json:"order_id,omitempty" db:"order_id"`
	DiscountAmount decimal.Decimal `json:"discount_amount" db:"discount_amount"`
	UsedAt         time.Time       `json:"used_at" db:"used_at"`
}
