package model

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Helpers ---

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func strPtr(s string) *string { return &s }

// --- Display price ---

func TestComputeDisplayPrice(t *testing.T) {
	assert.Equal(t, "600.00", ComputeDisplayPrice(dec("500.00"), dec("20")).StringFixed(2))
	assert.Equal(t, "575.00", ComputeDisplayPrice(dec("500.00"), dec("15")).StringFixed(2))
	assert.Equal(t, "500.00", ComputeDisplayPrice(dec("500.00"), dec("0")).StringFixed(2))
}

func TestComputeDisplayPrice_Rounds(t *testing.T) {
	// 333.33 * 1.15 = 383.3295, rounded to 383.33.
	assert.Equal(t, "383.33", ComputeDisplayPrice(dec("333.33"), dec("15")).StringFixed(2))
	// 99.99 * 1.125 = 112.48875, rounded to 112.49.
	assert.Equal(t, "112.49", ComputeDisplayPrice(dec("99.99"), dec("12.5")).StringFixed(2))
}

// --- Discount badge ---

func TestComputeDiscountBadge(t *testing.T) {
	// (999 - 600) / 999 = 39.9399..., rounded to 39.94.
	assert.Equal(t, "39.94", ComputeDiscountBadge(decPtr("999.00"), dec("600.00")).StringFixed(2))
	assert.Equal(t, "50.00", ComputeDiscountBadge(decPtr("1200.00"), dec("600.00")).StringFixed(2))
}

func TestComputeDiscountBadge_NoBadge(t *testing.T) {
	assert.True(t, ComputeDiscountBadge(nil, dec("600.00")).IsZero())
	// MRP at or below the display price is not a discount.
	assert.True(t, ComputeDiscountBadge(decPtr("600.00"), dec("600.00")).IsZero())
	assert.True(t, ComputeDiscountBadge(decPtr("500.00"), dec("600.00")).IsZero())
}

func TestProductDiscountBadge(t *testing.T) {
	p := Product{MRP: decPtr("999.00"), DisplayPrice: dec("600.00")}
	assert.Equal(t, "39.94", p.DiscountBadge().StringFixed(2))
}

// --- SKU ---

func TestGenerateSKU_Format(t *testing.T) {
	sku := GenerateSKU()

	require.Len(t, sku, 12)
	assert.True(t, strings.HasPrefix(sku, "SKU-"))

	for _, r := range sku[4:] {
		assert.Contains(t, "0123456789ABCDEF", string(r), "unexpected rune %q in %s", r, sku)
	}
}

func TestGenerateSKU_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		sku := GenerateSKU()
		require.False(t, seen[sku], "duplicate sku %s", sku)
		seen[sku] = true
	}
}

// --- Entity helpers ---

func TestVariantLabel(t *testing.T) {
	assert.Equal(t, "M / Blue", (&ProductVariant{Size: strPtr("M"), Color: strPtr("Blue")}).Label())
	assert.Equal(t, "M", (&ProductVariant{Size: strPtr("M")}).Label())
	assert.Equal(t, "Blue", (&ProductVariant{Color: strPtr("Blue")}).Label())
	assert.Equal(t, "", (&ProductVariant{}).Label())
}

func TestProductImages(t *testing.T) {
	p := Product{
		Image1: strPtr("https://cdn.example.com/a.jpg"),
		Image3: strPtr("https://cdn.example.com/c.jpg"),
		Image4: strPtr(""),
	}

	images := p.Images()

	require.Len(t, images, 2)
	assert.Equal(t, "https://cdn.example.com/a.jpg", images[0])
	assert.Equal(t, "https://cdn.example.com/c.jpg", images[1])
}
