package model

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// =====================================================
// ENTITY: Product
// =====================================================
// DisplayPrice is always derived from BasePrice and CommissionRate,
// never set directly. Customers only ever see DisplayPrice.
type Product struct {
	ID             int64           `json:"id" db:"id"`
	ShopID         int64           `json:"shop_id" db:"shop_id"`
	CategoryID     *int64          `json:"category_id,omitempty" db:"category_id"`
	Name           string          `json:"name" db:"name"`
	Slug           string          `json:"slug" db:"slug"`
	Description    *string         `json:"description,omitempty" db:"description"`
	BasePrice      decimal.Decimal `json:"base_price" db:"base_price"`
	CommissionRate decimal.Decimal `json:"commission_rate" db:"commission_rate"`
	DisplayPrice   decimal.Decimal `json:"display_price" db:"display_price"`
	MRP            *decimal.Decimal `json:"mrp,omitempty" db:"mrp"`
	StockQuantity  int             `json:"stock_quantity" db:"stock_quantity"`
	Sizes          pq.StringArray  `json:"sizes" db:"sizes"`
	Colors         pq.StringArray  `json:"colors" db:"colors"`
	Image1         *string         `json:"image1,omitempty" db:"image1"`
	Image2         *string         `json:"image2,omitempty" db:"image2"`
	Image3         *string         `json:"image3,omitempty" db:"image3"`
	Image4         *string         `json:"image4,omitempty" db:"image4"`
	Image5         *string         `json:"image5,omitempty" db:"image5"`
	IsActive       bool            `json:"is_active" db:"is_active"`
	AverageRating  decimal.Decimal `json:"average_rating" db:"average_rating"`
	ReviewCount    int             `json:"review_count" db:"review_count"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at" db:"updated_at"`
}

// DiscountBadge returns the strike-through discount percentage
// against MRP, zero when no badge applies.
func (p *Product) DiscountBadge() decimal.Decimal {
	return ComputeDiscountBadge(p.MRP, p.DisplayPrice)
}

// Images returns the populated image URLs in slot order.
func (p *Product) Images() []string {
	var urls []string
	for _, img := range []*string{p.Image1, p.Image2, p.Image3, p.Image4, p.Image5} {
		if img != nil && *img != "" {
			urls = append(urls, *img)
		}
	}
	return urls
}

// =====================================================
// ENTITY: ProductVariant
// =====================================================
// (product_id, size, color) is unique. Variants keep their own stock;
// the owning product's stock_quantity is the sum over active variants.
type ProductVariant struct {
	ID            int64     `json:"id" db:"id"`
	ProductID     int64     `json:"product_id" db:"product_id"`
	Size          *string   `json:"size,omitempty" db:"size"`
	Color         *string   `json:"color,omitempty" db:"color"`
	SKU           string    `json:"sku" db:"sku"`
	StockQuantity int       `json:"stock_quantity" db:"stock_quantity"`
	IsActive      bool      `json:"is_active" db:"is_active"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// Label renders the variant attributes for order item snapshots,
// e.g. "M / Blue", "M", "Blue".
func (v *ProductVariant) Label() string {
	switch {
	case v.Size != nil && v.Color != nil:
		return *v.Size + " / " + *v.Color
	case v.Size != nil:
		return *v.Size
	case v.Color != nil:
		return *v.Color
	default:
		return ""
	}
}
