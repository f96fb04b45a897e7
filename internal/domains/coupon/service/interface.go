package service

import (
	"context"

	"github.com/shopspring/decimal"

	"marketplace-backend/internal/domains/coupon/model"
)

// CouponService defines seller coupon management, the customer preview
// and the evaluation entry point the order flow uses.
type CouponService interface {
	// Seller management (approved shop required)
	CreateCoupon(ctx context.Context, userID int64, req model.CreateCouponRequest) (*model.Coupon, error)
	ListMyCoupons(ctx context.Context, userID int64, req model.ListCouponsRequest) ([]model.Coupon, int, error)
	GetMyCoupon(ctx context.Context, userID, couponID int64) (*model.Coupon, error)
	UpdateCoupon(ctx context.Context, userID, couponID int64, req model.UpdateCouponRequest) (*model.Coupon, error)
	DeleteCoupon(ctx context.Context, userID, couponID int64) error
	GetUsageHistory(ctx context.Context, userID, couponID int64, page, limit int) (*model.UsageHistoryResponse, int, error)

	// Customer preview against a priced cart
	ValidateCoupon(ctx context.Context, customerID int64, req model.ValidateCouponRequest) (*model.ValidateCouponResponse, error)

	// EvaluateForOrder runs the full redemption pipeline (validity,
	// per-customer cap, shop match, discount computation) for an order
	// being priced. It never mutates the coupon; the order transaction
	// claims the use afterwards.
	EvaluateForOrder(ctx context.Context, code string, shopID, customerID int64, items []model.PricedItem) (*model.Coupon, decimal.Decimal, error)
}
