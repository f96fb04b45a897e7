package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

// =====================================================
// CREATE PRODUCT REQUEST
// =====================================================
type CreateProductRequest struct {
	Name           string                 `json:"name" binding:"required"`
	CategoryID     *int64                 `json:"category_id,omitempty"`
	Description    *string                `json:"description,omitempty"`
	BasePrice      decimal.Decimal        `json:"base_price" binding:"required"`
	CommissionRate *decimal.Decimal       `json:"commission_rate,omitempty"` // defaults to the shop's rate
	MRP            *decimal.Decimal       `json:"mrp,omitempty"`
	StockQuantity  int                    `json:"stock_quantity"`
	Sizes          []string               `json:"sizes,omitempty"`
	Colors         []string               `json:"colors,omitempty"`
	Variants       []CreateVariantRequest `json:"variants,omitempty"`
}

// Validate validates CreateProductRequest
func (req CreateProductRequest) Validate() error {
	err := validation.ValidateStruct(&req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 200)),
		validation.Field(&req.StockQuantity, validation.Min(0)),
	)
	if err != nil {
		return err
	}

	if !req.BasePrice.IsPositive() {
		return validation.NewError("validation_base_price", "base_price must be greater than zero")
	}
	if req.CommissionRate != nil &&
		(req.CommissionRate.IsNegative() || req.CommissionRate.GreaterThan(decimal.NewFromInt(100))) {
		return validation.NewError("validation_commission_rate", "commission_rate must be between 0 and 100")
	}
	if req.MRP != nil && !req.MRP.IsPositive() {
		return validation.NewError("validation_mrp", "mrp must be greater than zero")
	}

	for _, v := range req.Variants {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// =====================================================
// UPDATE PRODUCT REQUEST
// =====================================================
type UpdateProductRequest struct {
	Name           *string          `json:"name,omitempty"`
	CategoryID     *int64           `json:"category_id,omitempty"`
	Description    *string          `json:"description,omitempty"`
	BasePrice      *decimal.Decimal `json:"base_price,omitempty"`
	CommissionRate *decimal.Decimal `json:"commission_rate,omitempty"`
	MRP            *decimal.Decimal `json:"mrp,omitempty"`
	StockQuantity  *int             `json:"stock_quantity,omitempty"` // ignored for variant-tracked products
	Sizes          []string         `json:"sizes,omitempty"`
	Colors         []string         `json:"colors,omitempty"`
	IsActive       *bool            `json:"is_active,omitempty"`
}

// Validate validates UpdateProductRequest
func (req UpdateProductRequest) Validate() error {
	err := validation.ValidateStruct(&req,
		validation.Field(&req.Name, validation.NilOrNotEmpty, validation.Length(2, 200)),
	)
	if err != nil {
		return err
	}

	if req.BasePrice != nil && !req.BasePrice.IsPositive() {
		return validation.NewError("validation_base_price", "base_price must be greater than zero")
	}
	if req.CommissionRate != nil &&
		(req.CommissionRate.IsNegative() || req.CommissionRate.GreaterThan(decimal.NewFromInt(100))) {
		return validation.NewError("validation_commission_rate", "commission_rate must be between 0 and 100")
	}
	if req.MRP != nil && !req.MRP.IsPositive() {
		return validation.NewError("validation_mrp", "mrp must be greater than zero")
	}
	if req.StockQuantity != nil && *req.StockQuantity < 0 {
		return validation.NewError("validation_stock_quantity", "stock_quantity cannot be negative")
	}
	return nil
}

// =====================================================
// VARIANT REQUESTS
// =====================================================
type CreateVariantRequest struct {
	Size          *string `json:"size,omitempty"`
	Color         *string `json:"color,omitempty"`
	SKU           *string `json:"sku,omitempty"` // auto-generated when absent
	StockQuantity int     `json:"stock_quantity"`
}

// Validate validates CreateVariantRequest
func (req CreateVariantRequest) Validate() error {
	if req.Size == nil && req.Color == nil {
		return validation.NewError("validation_variant", "variant needs at least a size or a color")
	}
	if req.StockQuantity < 0 {
		return validation.NewError("validation_stock_quantity", "stock_quantity cannot be negative")
	}
	return nil
}

type UpdateVariantRequest struct {
	StockQuantity *int  `json:"stock_quantity,omitempty"`
	IsActive      *bool `json:"is_active,omitempty"`
}

// Validate validates UpdateVariantRequest
func (req UpdateVariantRequest) Validate() error {
	if req.StockQuantity != nil && *req.StockQuantity < 0 {
		return validation.NewError("validation_stock_quantity", "stock_quantity cannot be negative")
	}
	return nil
}

// AdjustVariantStockRequest moves variant stock by a signed delta.
type AdjustVariantStockRequest struct {
	Delta int `json:"delta" binding:"required"`
}

// Validate validates AdjustVariantStockRequest
func (req AdjustVariantStockRequest) Validate() error {
	if req.Delta == 0 {
		return validation.NewError("validation_delta", "delta cannot be zero")
	}
	return nil
}

// =====================================================
// LIST PRODUCTS REQUEST
// =====================================================
type ListProductsRequest struct {
	CategoryID *int64 `form:"category_id"`
	ShopID     *int64 `form:"shop_id"`
	Search     string `form:"search"`
	Page       int    `form:"page"`
	Limit      int    `form:"limit"`
}

// =====================================================
// RESPONSES
// =====================================================

// ProductResponse decorates a product with its derived badge for
// catalog listings and detail pages.
type ProductResponse struct {
	Product
	DiscountBadge decimal.Decimal `json:"discount_badge"`
}

// ProductDetailResponse adds variants to the detail view.
type ProductDetailResponse struct {
	Product
	DiscountBadge decimal.Decimal  `json:"discount_badge"`
	Variants      []ProductVariant `json:"variants"`
}

// NewProductResponse builds the listing shape.
func NewProductResponse(p *Product) ProductResponse {
	return ProductResponse{
		Product:       *p,
		DiscountBadge: p.DiscountBadge(),
	}
}

// NewProductDetailResponse builds the detail shape.
func NewProductDetailResponse(p *Product, variants []ProductVariant) *ProductDetailResponse {
	if variants == nil {
		variants = []ProductVariant{}
	}
	return &ProductDetailResponse{
		Product:       *p,
		DiscountBadge: p.DiscountBadge(),
		Variants:      variants,
	}
}
