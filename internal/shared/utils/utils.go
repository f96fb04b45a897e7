package utils

import (
	"github.com/shopspring/decimal"
)

func ParseFloatToDecimal(number *float64) *decimal.Decimal {
	if number == nil {
		return nil
	}
	d := decimal.NewFromFloat(*number)
	return &d
}

// NormalizePagination clamps page/limit into usable values.
func NormalizePagination(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
