package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"marketplace-backend/internal/domains/review/model"
)

// =====================================================
// POSTGRES REPOSITORY IMPLEMENTATION
// =====================================================
type postgresReviewRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresReviewRepository(pool *pgxpool.Pool) ReviewRepository {
	return &postgresReviewRepository{
		pool: pool,
	}
}

const reviewColumns = `
	r.id, r.product_id, r.order_id, r.customer_id,
	r.rating, r.review_text, r.is_verified_purchase,
	r.created_at, r.updated_at,
	u.name
`

const reviewFrom = ` FROM reviews r JOIN users u ON u.id = r.customer_id`

func scanReview(row pgx.Row) (*model.Review, error) {
	var rv model.Review
	err := row.Scan(
		&rv.ID,
		&rv.ProductID,
		&rv.OrderID,
		&rv.CustomerID,
		&rv.Rating,
		&rv.ReviewText,
		&rv.IsVerifiedPurchase,
		&rv.CreatedAt,
		&rv.UpdatedAt,
		&rv.CustomerName,
	)
	if err != nil {
		return nil, err
	}
	return &rv, nil
}

// =====================================================
// TRANSACTION MANAGEMENT
// =====================================================

func (r *postgresReviewRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return r.pool.Begin(ctx)
}

func (r *postgresReviewRepository) CommitTx(ctx context.Context, tx pgx.Tx) error {
	return tx.Commit(ctx)
}

func (r *postgresReviewRepository) RollbackTx(ctx context.Context, tx pgx.Tx) error {
	return tx.Rollback(ctx)
}

// =====================================================
// WRITES
// =====================================================

func (r *postgresReviewRepository) CreateTx(ctx context.Context, tx pgx.Tx, review *model.Review) error {
	query := `
		INSERT INTO reviews (
			product_id, order_id, customer_id,
			rating, review_text, is_verified_purchase
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := tx.QueryRow(ctx, query,
		review.ProductID,
		review.OrderID,
		review.CustomerID,
		review.Rating,
		review.ReviewText,
		review.IsVerifiedPurchase,
	).Scan(&review.ID, &review.CreatedAt, &review.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.ErrDuplicateReview
		}
		return fmt.Errorf("failed to create review: %w", err)
	}

	return nil
}

// =====================================================
// READS
// =====================================================

func (r *postgresReviewRepository) ExistsFor(ctx context.Context, productID, orderID, customerID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM reviews
			WHERE product_id = $1 AND order_id = $2 AND customer_id = $3
		)
	`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, productID, orderID, customerID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check review existence: %w", err)
	}

	return exists, nil
}

func (r *postgresReviewRepository) AggregateForProductTx(ctx context.Context, tx pgx.Tx, productID int64) (decimal.Decimal, int, error) {
	query := `
		SELECT COALESCE(AVG(rating), 0), COUNT(*)
		FROM reviews
		WHERE product_id = $1
	`

	var avg decimal.Decimal
	var count int
	if err := tx.QueryRow(ctx, query, productID).Scan(&avg, &count); err != nil {
		return decimal.Zero, 0, fmt.Errorf("failed to aggregate reviews: %w", err)
	}

	return avg, count, nil
}

func (r *postgresReviewRepository) ListByProduct(ctx context.Context, productID int64, sort string, page, limit int) ([]model.Review, int, error) {
	countQuery := `SELECT COUNT(*) FROM reviews WHERE product_id = $1`

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, productID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count reviews: %w", err)
	}

	orderBy := "r.created_at DESC"
	switch sort {
	case model.SortHighest:
		orderBy = "r.rating DESC, r.created_at DESC"
	case model.SortLowest:
		orderBy = "r.rating ASC, r.created_at DESC"
	}

	query := `SELECT ` + reviewColumns + reviewFrom + `
		WHERE r.product_id = $1
		ORDER BY ` + orderBy + `
		LIMIT $2 OFFSET $3
	`

	offset := (page - 1) * limit
	rows, err := r.pool.Query(ctx, query, productID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]model.Review, 0, limit)
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, *rv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read reviews: %w", err)
	}

	return reviews, total, nil
}
