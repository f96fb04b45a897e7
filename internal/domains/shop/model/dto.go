package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/shopspring/decimal"
)

// =====================================================
// REGISTER SHOP REQUEST
// =====================================================
type RegisterShopRequest struct {
	ShopName      string  `json:"shop_name" binding:"required"`
	Address       string  `json:"address" binding:"required"`
	City          string  `json:"city,omitempty"`
	Pincode       string  `json:"pincode" binding:"required"`
	ContactNumber string  `json:"contact_number" binding:"required"`
	ShopImage     *string `json:"shop_image,omitempty"`
}

// Validate validates RegisterShopRequest
func (req RegisterShopRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.ShopName, validation.Required, validation.Length(2, 150)),
		validation.Field(&req.Address, validation.Required, validation.Length(5, 500)),
		validation.Field(&req.Pincode, validation.Required, validation.Length(6, 6), is.Digit),
		validation.Field(&req.ContactNumber, validation.Required, validation.Length(10, 15), is.Digit),
	)
}

// =====================================================
// UPDATE SHOP REQUEST
// =====================================================
type UpdateShopRequest struct {
	ShopName      *string `json:"shop_name,omitempty"`
	Address       *string `json:"address,omitempty"`
	City          *string `json:"city,omitempty"`
	Pincode       *string `json:"pincode,omitempty"`
	ContactNumber *string `json:"contact_number,omitempty"`
	ShopImage     *string `json:"shop_image,omitempty"`
}

// Validate validates UpdateShopRequest
func (req UpdateShopRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.ShopName, validation.NilOrNotEmpty, validation.Length(2, 150)),
		validation.Field(&req.Address, validation.NilOrNotEmpty, validation.Length(5, 500)),
		validation.Field(&req.Pincode, validation.NilOrNotEmpty, validation.Length(6, 6), is.Digit),
		validation.Field(&req.ContactNumber, validation.NilOrNotEmpty, validation.Length(10, 15), is.Digit),
	)
}

// =====================================================
// ADMIN DECISION REQUESTS
// =====================================================

// ApproveShopRequest optionally overrides the platform default
// commission rate for this shop.
type ApproveShopRequest struct {
	CommissionRate *decimal.Decimal `json:"commission_rate,omitempty"`
}

// Validate validates ApproveShopRequest
func (req ApproveShopRequest) Validate() error {
	if req.CommissionRate == nil {
		return nil
	}
	if req.CommissionRate.IsNegative() || req.CommissionRate.GreaterThan(decimal.NewFromInt(100)) {
		return validation.NewError("validation_commission_rate", "commission_rate must be between 0 and 100")
	}
	return nil
}

type RejectShopRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// Validate validates RejectShopRequest
func (req RejectShopRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Reason, validation.Required, validation.Length(5, 500)),
	)
}

// =====================================================
// LIST SHOPS REQUEST (admin)
// =====================================================
type ListShopsRequest struct {
	Status string `form:"status"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

// Validate validates ListShopsRequest
func (req ListShopsRequest) Validate() error {
	if req.Status == "" {
		return nil
	}
	return validation.Validate(req.Status, validation.In(
		ApprovalStatusPending,
		ApprovalStatusApproved,
		ApprovalStatusRejected,
	))
}
