package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// PricedItem is the minimal order line shape the discount engine needs.
type PricedItem struct {
	ProductID    int64
	CategoryID   *int64
	ItemSubtotal decimal.Decimal
}

// ComputeDiscount partitions the lines by the coupon's scope and returns
// (applicable_total, discount). The minimum order value gates the
// applicable subtotal only, never the whole cart. Fixed discounts are
// capped at the applicable total so a coupon can never push a line
// negative.
func ComputeDiscount(c *Coupon, items []PricedItem) (decimal.Decimal, decimal.Decimal, error) {
	applicableTotal := decimal.Zero
	for _, item := range items {
		if c.AppliesTo(item.ProductID, item.CategoryID) {
			applicableTotal = applicableTotal.Add(item.ItemSubtotal)
		}
	}

	if applicableTotal.LessThan(c.MinOrderValue) {
		return applicableTotal, decimal.Zero, NewCouponError(
			ErrCodeMinOrderNotMet,
			fmt.Sprintf("Minimum order value of ₹%s required", c.MinOrderValue.StringFixed(2)),
			ErrMinOrderNotMet,
		)
	}

	var discount decimal.Decimal
	if c.DiscountType == DiscountTypePercentage {
		discount = applicableTotal.Mul(c.DiscountValue).Div(oneHundred).Round(2)
	} else {
		discount = c.DiscountValue
		if discount.GreaterThan(applicableTotal) {
			discount = applicableTotal
		}
	}

	return applicableTotal, discount, nil
}
