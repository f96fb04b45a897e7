package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"marketplace-backend/internal/domains/coupon/model"
)

// =====================================================
// REPOSITORY INTERFACE
// =====================================================

// CouponRepository covers coupon CRUD, usage tracking and the
// counter movements the order flow performs. Tx methods run inside a
// caller-owned transaction so redemptions commit or roll back together
// with their order.
type CouponRepository interface {
	Create(ctx context.Context, coupon *model.Coupon) error
	GetByID(ctx context.Context, id int64) (*model.Coupon, error)
	GetByIDForShop(ctx context.Context, id, shopID int64) (*model.Coupon, error)
	GetByCode(ctx context.Context, code string) (*model.Coupon, error)
	ListByShop(ctx context.Context, shopID int64, isActive *bool, page, limit int) ([]model.Coupon, int, error)
	Update(ctx context.Context, coupon *model.Coupon) error
	Delete(ctx context.Context, id, shopID int64) error

	// Usage tracking
	CountUsageByCustomer(ctx context.Context, couponID, customerID int64) (int, error)
	ListUsages(ctx context.Context, couponID int64, page, limit int) ([]model.CouponUsage, int, error)

	// Counter movements inside the order transaction
	RedeemTx(ctx context.Context, tx pgx.Tx, couponID int64) error
	ReleaseTx(ctx context.Context, tx pgx.Tx, couponID int64) error
	CreateUsageTx(ctx context.Context, tx pgx.Tx, usage *model.CouponUsage) error

	// Maintenance
	DeactivateExpired(ctx context.Context, batchSize int) (int64, error)
}
