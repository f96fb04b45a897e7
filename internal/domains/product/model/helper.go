package model

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// =====================================================
// PRICING HELPERS
// =====================================================

// ComputeDisplayPrice derives the customer-facing price:
// base_price * (1 + commission_rate/100), rounded to 2 decimal places.
func ComputeDisplayPrice(basePrice, commissionRate decimal.Decimal) decimal.Decimal {
	multiplier := decimal.NewFromInt(1).Add(commissionRate.Div(oneHundred))
	return basePrice.Mul(multiplier).Round(2)
}

// ComputeDiscountBadge returns the percentage saved against MRP,
// rounded to 2 decimal places and floored at zero. No badge (zero)
// when MRP is absent or not above the display price.
func ComputeDiscountBadge(mrp *decimal.Decimal, displayPrice decimal.Decimal) decimal.Decimal {
	if mrp == nil || !mrp.GreaterThan(displayPrice) {
		return decimal.Zero
	}
	badge := mrp.Sub(displayPrice).Div(*mrp).Mul(oneHundred).Round(2)
	if badge.IsNegative() {
		return decimal.Zero
	}
	return badge
}

// =====================================================
// SKU GENERATION
// =====================================================

// GenerateSKU builds a variant SKU when the seller does not supply
// one: "SKU-" + first 8 hex chars of a UUID, uppercased.
func GenerateSKU() string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "SKU-" + strings.ToUpper(raw[:8])
}
