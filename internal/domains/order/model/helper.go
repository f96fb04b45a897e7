package model

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =====================================================
// ORDER NUMBER GENERATION
// =====================================================

// GenerateOrderNumber builds a globally unique order reference:
// "ORD" + first 8 hex chars of a UUID, uppercased. Never reused.
func GenerateOrderNumber() string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "ORD" + strings.ToUpper(raw[:8])
}

// =====================================================
// PRICING
// =====================================================

// ApplyItemAmounts fills the derived line amounts from the snapshot
// prices and quantity:
//
//	item_subtotal     = display_price * quantity
//	commission_amount = (display_price - base_price) * quantity
//	seller_amount     = base_price * quantity
func ApplyItemAmounts(item *OrderItem) {
	qty := decimal.NewFromInt(int64(item.Quantity))
	item.ItemSubtotal = item.DisplayPrice.Mul(qty)
	item.CommissionAmount = item.DisplayPrice.Sub(item.BasePrice).Mul(qty)
	item.SellerAmount = item.BasePrice.Mul(qty)
}

// ComputeCODFee returns the flat COD fee for a small order, zero once
// the subtotal reaches the free-delivery threshold.
func ComputeCODFee(subtotal, fee, threshold decimal.Decimal) decimal.Decimal {
	if subtotal.LessThan(threshold) {
		return fee
	}
	return decimal.Zero
}

// OrderTotals is the aggregate pricing breakdown for a checkout.
type OrderTotals struct {
	Subtotal           decimal.Decimal
	CODFee             decimal.Decimal
	CouponDiscount     decimal.Decimal
	TotalAmount        decimal.Decimal
	CommissionAmount   decimal.Decimal
	SellerPayoutAmount decimal.Decimal
}

// CalculateOrderTotals aggregates priced line items into the order
// snapshot. The coupon discount reduces only the customer-facing
// total; commission and payout stay on undiscounted figures, so the
// seller absorbs the discount.
func CalculateOrderTotals(items []OrderItem, codFee, codFeeThreshold, couponDiscount decimal.Decimal) OrderTotals {
	totals := OrderTotals{
		Subtotal:           decimal.Zero,
		CouponDiscount:     couponDiscount,
		CommissionAmount:   decimal.Zero,
		SellerPayoutAmount: decimal.Zero,
	}

	for _, item := range items {
		totals.Subtotal = totals.Subtotal.Add(item.ItemSubtotal)
		totals.CommissionAmount = totals.CommissionAmount.Add(item.CommissionAmount)
		totals.SellerPayoutAmount = totals.SellerPayoutAmount.Add(item.SellerAmount)
	}

	totals.CODFee = ComputeCODFee(totals.Subtotal, codFee, codFeeThreshold)
	totals.TotalAmount = totals.Subtotal.Add(totals.CODFee).Sub(couponDiscount)

	return totals
}
