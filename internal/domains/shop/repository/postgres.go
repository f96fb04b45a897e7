package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"marketplace-backend/internal/domains/shop/model"
)

// =====================================================
// POSTGRES REPOSITORY IMPLEMENTATION
// =====================================================
type postgresShopRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresShopRepository(pool *pgxpool.Pool) ShopRepository {
	return &postgresShopRepository{
		pool: pool,
	}
}

const shopColumns = `
	id, user_id, shop_name, address, city, pincode, contact_number,
	shop_image, commission_rate, is_approved, approval_status,
	rejection_reason, created_at, updated_at
`

func scanShop(row pgx.Row) (*model.Shop, error) {
	var s model.Shop
	err := row.Scan(
		&s.ID,
		&s.UserID,
		&s.ShopName,
		&s.Address,
		&s.City,
		&s.Pincode,
		&s.ContactNumber,
		&s.ShopImage,
		&s.CommissionRate,
		&s.IsApproved,
		&s.ApprovalStatus,
		&s.RejectionReason,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *postgresShopRepository) Create(ctx context.Context, shop *model.Shop) error {
	query := `
		INSERT INTO shops (
			user_id, shop_name, address, city, pincode, contact_number,
			shop_image, commission_rate, is_approved, approval_status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		shop.UserID,
		shop.ShopName,
		shop.Address,
		shop.City,
		shop.Pincode,
		shop.ContactNumber,
		shop.ShopImage,
		shop.CommissionRate,
		shop.IsApproved,
		shop.ApprovalStatus,
	).Scan(&shop.ID, &shop.CreatedAt, &shop.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.ErrShopAlreadyExists
		}
		return fmt.Errorf("failed to create shop: %w", err)
	}

	return nil
}

func (r *postgresShopRepository) GetByID(ctx context.Context, id int64) (*model.Shop, error) {
	query := `SELECT ` + shopColumns + ` FROM shops WHERE id = $1`

	shop, err := scanShop(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrShopNotFound
		}
		return nil, fmt.Errorf("failed to get shop by id: %w", err)
	}

	return shop, nil
}

func (r *postgresShopRepository) GetByUserID(ctx context.Context, userID int64) (*model.Shop, error) {
	query := `SELECT ` + shopColumns + ` FROM shops WHERE user_id = $1`

	shop, err := scanShop(r.pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrShopNotFound
		}
		return nil, fmt.Errorf("failed to get shop by user id: %w", err)
	}

	return shop, nil
}

func (r *postgresShopRepository) Update(ctx context.Context, shop *model.Shop) error {
	query := `
		UPDATE shops
		SET shop_name = $1,
			address = $2,
			city = $3,
			pincode = $4,
			contact_number = $5,
			shop_image = $6,
			updated_at = NOW()
		WHERE id = $7
		RETURNING updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		shop.ShopName,
		shop.Address,
		shop.City,
		shop.Pincode,
		shop.ContactNumber,
		shop.ShopImage,
		shop.ID,
	).Scan(&shop.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrShopNotFound
		}
		return fmt.Errorf("failed to update shop: %w", err)
	}

	return nil
}

func (r *postgresShopRepository) UpdateApproval(ctx context.Context, id int64, status string, commissionRate *decimal.Decimal, rejectionReason *string) (*model.Shop, error) {
	query := `
		UPDATE shops
		SET approval_status = $2,
			is_approved = ($2 = 'approved'),
			commission_rate = COALESCE($3, commission_rate),
			rejection_reason = $4,
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + shopColumns

	shop, err := scanShop(r.pool.QueryRow(ctx, query, id, status, commissionRate, rejectionReason))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrShopNotFound
		}
		return nil, fmt.Errorf("failed to update shop approval: %w", err)
	}

	return shop, nil
}

func (r *postgresShopRepository) List(ctx context.Context, status string, page, limit int) ([]model.Shop, int, error) {
	offset := (page - 1) * limit

	query := `SELECT ` + shopColumns + ` FROM shops`
	countQuery := `SELECT COUNT(*) FROM shops`
	args := []interface{}{}
	countArgs := []interface{}{}

	if status != "" {
		query += ` WHERE approval_status = $1`
		countQuery += ` WHERE approval_status = $1`
		args = append(args, status)
		countArgs = append(countArgs, status)
	}

	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count shops: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list shops: %w", err)
	}
	defer rows.Close()

	var shops []model.Shop
	for rows.Next() {
		shop, err := scanShop(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan shop: %w", err)
		}
		shops = append(shops, *shop)
	}

	if rows.Err() != nil {
		return nil, 0, fmt.Errorf("error iterating shops: %w", rows.Err())
	}

	return shops, total, nil
}
