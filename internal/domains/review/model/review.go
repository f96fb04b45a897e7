package model

import "time"

// =====================================================
// CONSTANTS
// =====================================================

// Sort orders for product review listings
const (
	SortNewest  = "newest"
	SortHighest = "highest"
	SortLowest  = "lowest"
)

const (
	MinRating = 1
	MaxRating = 5
)

// =====================================================
// REVIEW ENTITY
// =====================================================

// Review is a customer's rating of a product bought in a delivered
// order. One review per (product, order, customer) triple; the
// database enforces the uniqueness.
type Review struct {
	ID         int64 `json:"id" db:"id"`
	ProductID  int64 `json:"product_id" db:"product_id"`
	OrderID    int64 `json:"order_id" db:"order_id"`
	CustomerID int64 `json:"customer_id" db:"customer_id"`

	Rating     int     `json:"rating" db:"rating"`
	ReviewText *string `json:"review_text" db:"review_text"`

	// Always true: the gate only admits buyers of delivered orders.
	IsVerifiedPurchase bool `json:"is_verified_purchase" db:"is_verified_purchase"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// Populated by the users join in list queries, not a column
	CustomerName string `json:"-" db:"-"`
}

// IsValidSort reports whether s is a supported review sort order.
func IsValidSort(s string) bool {
	switch s {
	case SortNewest, SortHighest, SortLowest:
		return true
	}
	return false
}
