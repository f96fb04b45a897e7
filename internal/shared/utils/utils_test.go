package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePagination(t *testing.T) {
	tests := []struct {
		name      string
		page      int
		limit     int
		wantPage  int
		wantLimit int
	}{
		{"defaults pass through", 2, 50, 2, 50},
		{"zero page clamps to first", 0, 20, 1, 20},
		{"negative page clamps to first", -3, 20, 1, 20},
		{"zero limit falls back", 1, 0, 1, 20},
		{"oversized limit falls back", 1, 500, 1, 20},
		{"limit at cap is kept", 1, 100, 1, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, limit := NormalizePagination(tt.page, tt.limit)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantLimit, limit)
		})
	}
}

func TestGenerateSlug(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Cotton Kurta", "cotton-kurta"},
		{"Cotton Kurta (Blue)", "cotton-kurta-blue"},
		{"  Silk   Saree  ", "silk-saree"},
		{"Men's T-Shirt", "mens-t-shirt"},
		{"100% Cotton", "100-cotton"},
		{"---", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, GenerateSlug(tt.input))
		})
	}
}

func TestGenerateUniqueSlug(t *testing.T) {
	slug := GenerateUniqueSlug("Cotton Kurta")

	assert.Regexp(t, `^cotton-kurta-[0-9a-f]{6}$`, slug)
	assert.NotEqual(t, slug, GenerateUniqueSlug("Cotton Kurta"))
}

func TestGenerateUniqueSlug_EmptyBase(t *testing.T) {
	assert.Regexp(t, `^[0-9a-f]{6}$`, GenerateUniqueSlug("###"))
}

func TestParseFloatToDecimal(t *testing.T) {
	assert.Nil(t, ParseFloatToDecimal(nil))

	v := 499.99
	d := ParseFloatToDecimal(&v)
	assert.Equal(t, "499.99", d.StringFixed(2))
}
