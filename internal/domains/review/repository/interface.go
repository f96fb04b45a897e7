package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"marketplace-backend/internal/domains/review/model"
)

// =====================================================
// REPOSITORY INTERFACE
// =====================================================

// ReviewRepository owns review rows and the transaction the review
// gate runs in, so the insert and the product rating recompute commit
// together.
type ReviewRepository interface {
	// Transaction management
	BeginTx(ctx context.Context) (pgx.Tx, error)
	CommitTx(ctx context.Context, tx pgx.Tx) error
	RollbackTx(ctx context.Context, tx pgx.Tx) error

	// CreateTx inserts the review. A concurrent duplicate of the
	// (product, order, customer) triple surfaces as ErrDuplicateReview.
	CreateTx(ctx context.Context, tx pgx.Tx, review *model.Review) error

	// ExistsFor reports whether the customer already reviewed the
	// product for this order.
	ExistsFor(ctx context.Context, productID, orderID, customerID int64) (bool, error)

	// AggregateForProductTx recomputes the product's mean rating and
	// review count inside the gate transaction, so the figures include
	// the row just inserted.
	AggregateForProductTx(ctx context.Context, tx pgx.Tx, productID int64) (decimal.Decimal, int, error)

	// ListByProduct returns a page of reviews with reviewer names,
	// ordered per sort (newest, highest, lowest), plus the total count.
	ListByProduct(ctx context.Context, productID int64, sort string, page, limit int) ([]model.Review, int, error)
}
