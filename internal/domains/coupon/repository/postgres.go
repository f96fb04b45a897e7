package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"marketplace-backend/internal/domains/coupon/model"
)

// =====================================================
// POSTGRES REPOSITORY IMPLEMENTATION
// =====================================================
type postgresCouponRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresCouponRepository(pool *pgxpool.Pool) CouponRepository {
	return &postgresCouponRepository{
		pool: pool,
	}
}

const couponColumns = `
	id, shop_id, code, description, discount_type, discount_value,
	applicability, category_id, product_id, min_order_value, max_uses,
	max_uses_per_customer, times_used, is_active, valid_from, valid_to,
	created_at, updated_at
`

const usageColumns = `
	id, coupon_id, customer_id, order_id, discount_amount, used_at
`

func scanCoupon(row pgx.Row) (*model.Coupon, error) {
	var c model.Coupon
	err := row.Scan(
		&c.ID,
		&c.ShopID,
		&c.Code,
		&c.Description,
		&c.DiscountType,
		&c.DiscountValue,
		&c.Applicability,
		&c.CategoryID,
		&c.ProductID,
		&c.MinOrderValue,
		&c.MaxUses,
		&c.MaxUsesPerCustomer,
		&c.TimesUsed,
		&c.IsActive,
		&c.ValidFrom,
		&c.ValidTo,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func scanUsage(row pgx.Row) (*model.CouponUsage, error) {
	var u model.CouponUsage
	err := row.Scan(
		&u.ID,
		&u.CouponID,
		&u.CustomerID,
		&u.OrderID,
		&u.DiscountAmount,
		&u.UsedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *postgresCouponRepository) Create(ctx context.Context, coupon *model.Coupon) error {
	query := `
		INSERT INTO coupons (
			shop_id, code, description, discount_type, discount_value,
			applicability, category_id, product_id, min_order_value,
			max_uses, max_uses_per_customer, times_used, is_active,
			valid_from, valid_to
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		coupon.ShopID,
		coupon.Code,
		coupon.Description,
		coupon.DiscountType,
		coupon.DiscountValue,
		coupon.Applicability,
		coupon.CategoryID,
		coupon.ProductID,
		coupon.MinOrderValue,
		coupon.MaxUses,
		coupon.MaxUsesPerCustomer,
		coupon.TimesUsed,
		coupon.IsActive,
		coupon.ValidFrom,
		coupon.ValidTo,
	).Scan(&coupon.ID, &coupon.CreatedAt, &coupon.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return model.ErrDuplicateCode
			case "23503":
				// Dangling category/product scope reference.
				return model.NewCouponError(model.ErrCodeInvalidCoupon, "Coupon scope target does not exist", err)
			}
		}
		return fmt.Errorf("failed to create coupon: %w", err)
	}

	return nil
}

func (r *postgresCouponRepository) GetByID(ctx context.Context, id int64) (*model.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons WHERE id = $1`

	coupon, err := scanCoupon(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCouponNotFound
		}
		return nil, fmt.Errorf("failed to get coupon by id: %w", err)
	}

	return coupon, nil
}

func (r *postgresCouponRepository) GetByIDForShop(ctx context.Context, id, shopID int64) (*model.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons WHERE id = $1 AND shop_id = $2`

	coupon, err := scanCoupon(r.pool.QueryRow(ctx, query, id, shopID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Another shop's coupon is indistinguishable from a missing one.
			return nil, model.ErrCouponNotFound
		}
		return nil, fmt.Errorf("failed to get coupon for shop: %w", err)
	}

	return coupon, nil
}

func (r *postgresCouponRepository) GetByCode(ctx context.Context, code string) (*model.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons WHERE code = $1`

	coupon, err := scanCoupon(r.pool.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCouponNotFound
		}
		return nil, fmt.Errorf("failed to get coupon by code: %w", err)
	}

	return coupon, nil
}

func (r *postgresCouponRepository) ListByShop(ctx context.Context, shopID int64, isActive *bool, page, limit int) ([]model.Coupon, int, error) {
	offset := (page - 1) * limit

	query := `SELECT ` + couponColumns + ` FROM coupons WHERE shop_id = $1`
	countQuery := `SELECT COUNT(*) FROM coupons WHERE shop_id = $1`
	args := []interface{}{shopID}
	countArgs := []interface{}{shopID}

	if isActive != nil {
		query += ` AND is_active = $2`
		countQuery += ` AND is_active = $2`
		args = append(args, *isActive)
		countArgs = append(countArgs, *isActive)
	}

	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count coupons: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list coupons: %w", err)
	}
	defer rows.Close()

	var coupons []model.Coupon
	for rows.Next() {
		coupon, err := scanCoupon(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan coupon: %w", err)
		}
		coupons = append(coupons, *coupon)
	}

	if rows.Err() != nil {
		return nil, 0, fmt.Errorf("error iterating coupons: %w", rows.Err())
	}

	return coupons, total, nil
}

func (r *postgresCouponRepository) Update(ctx context.Context, coupon *model.Coupon) error {
	query := `
		UPDATE coupons
		SET description = $1,
			discount_type = $2,
			discount_value = $3,
			applicability = $4,
			category_id = $5,
			product_id = $6,
			min_order_value = $7,
			max_uses = $8,
			max_uses_per_customer = $9,
			is_active = $10,
			valid_from = $11,
			valid_to = $12,
			updated_at = NOW()
		WHERE id = $13
		RETURNING updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		coupon.Description,
		coupon.DiscountType,
		coupon.DiscountValue,
		coupon.Applicability,
		coupon.CategoryID,
		coupon.ProductID,
		coupon.MinOrderValue,
		coupon.MaxUses,
		coupon.MaxUsesPerCustomer,
		coupon.IsActive,
		coupon.ValidFrom,
		coupon.ValidTo,
		coupon.ID,
	).Scan(&coupon.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrCouponNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return model.NewCouponError(model.ErrCodeInvalidCoupon, "Coupon scope target does not exist", err)
		}
		return fmt.Errorf("failed to update coupon: %w", err)
	}

	return nil
}

func (r *postgresCouponRepository) Delete(ctx context.Context, id, shopID int64) error {
	query := `DELETE FROM coupons WHERE id = $1 AND shop_id = $2`

	tag, err := r.pool.Exec(ctx, query, id, shopID)
	if err != nil {
		return fmt.Errorf("failed to delete coupon: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCouponNotFound
	}

	return nil
}

// =====================================================
// USAGE TRACKING
// =====================================================

func (r *postgresCouponRepository) CountUsageByCustomer(ctx context.Context, couponID, customerID int64) (int, error) {
	query := `SELECT COUNT(*) FROM coupon_usages WHERE coupon_id = $1 AND customer_id = $2`

	var count int
	if err := r.pool.QueryRow(ctx, query, couponID, customerID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count coupon usage: %w", err)
	}

	return count, nil
}

func (r *postgresCouponRepository) ListUsages(ctx context.Context, couponID int64, page, limit int) ([]model.CouponUsage, int, error) {
	offset := (page - 1) * limit

	var total int
	countQuery := `SELECT COUNT(*) FROM coupon_usages WHERE coupon_id = $1`
	if err := r.pool.QueryRow(ctx, countQuery, couponID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count coupon usages: %w", err)
	}

	query := `
		SELECT ` + usageColumns + `
		FROM coupon_usages
		WHERE coupon_id = $1
		ORDER BY used_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, couponID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list coupon usages: %w", err)
	}
	defer rows.Close()

	var usages []model.CouponUsage
	for rows.Next() {
		usage, err := scanUsage(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan coupon usage: %w", err)
		}
		usages = append(usages, *usage)
	}

	if rows.Err() != nil {
		return nil, 0, fmt.Errorf("error iterating coupon usages: %w", rows.Err())
	}

	return usages, total, nil
}

// =====================================================
// COUNTER MOVEMENTS (ORDER TRANSACTION)
// =====================================================

// RedeemTx atomically claims one use. The guard keeps concurrent
// redemptions from ever exceeding max_uses.
func (r *postgresCouponRepository) RedeemTx(ctx context.Context, tx pgx.Tx, couponID int64) error {
	query := `
		UPDATE coupons
		SET times_used = times_used + 1,
			updated_at = NOW()
		WHERE id = $1 AND (max_uses IS NULL OR times_used < max_uses)
	`

	tag, err := tx.Exec(ctx, query, couponID)
	if err != nil {
		return fmt.Errorf("failed to redeem coupon: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCouponLimitReached
	}

	return nil
}

// ReleaseTx hands one use back on cancellation, clamped at zero.
func (r *postgresCouponRepository) ReleaseTx(ctx context.Context, tx pgx.Tx, couponID int64) error {
	query := `
		UPDATE coupons
		SET times_used = GREATEST(times_used - 1, 0),
			updated_at = NOW()
		WHERE id = $1
	`

	tag, err := tx.Exec(ctx, query, couponID)
	if err != nil {
		return fmt.Errorf("failed to release coupon: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCouponNotFound
	}

	return nil
}

func (r *postgresCouponRepository) CreateUsageTx(ctx context.Context, tx pgx.Tx, usage *model.CouponUsage) error {
	query := `
		INSERT INTO coupon_usages (coupon_id, customer_id, order_id, discount_amount)
		VALUES ($1, $2, $3, $4)
		RETURNING id, used_at
	`

	err := tx.QueryRow(ctx, query,
		usage.CouponID,
		usage.CustomerID,
		usage.OrderID,
		usage.DiscountAmount,
	).Scan(&usage.ID, &usage.UsedAt)

	if err != nil {
		return fmt.Errorf("failed to create coupon usage: %w", err)
	}

	return nil
}

// =====================================================
// MAINTENANCE
// =====================================================

// DeactivateExpired flips is_active off for coupons whose validity
// window has passed and returns how many were swept.
func (r *postgresCouponRepository) DeactivateExpired(ctx context.Context, batchSize int) (int64, error) {
	query := `
		UPDATE coupons
		SET is_active = false,
			updated_at = NOW()
		WHERE id IN (
			SELECT id FROM coupons
			WHERE is_active = true AND valid_to < NOW()
			LIMIT $1
		)
	`

	tag, err := r.pool.Exec(ctx, query, batchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to deactivate expired coupons: %w", err)
	}

	return tag.RowsAffected(), nil
}
