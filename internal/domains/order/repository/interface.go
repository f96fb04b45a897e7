package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"marketplace-backend/internal/domains/order/model"
)

// =====================================================
// REPOSITORY INTERFACE
// =====================================================

// OrderRepository owns order rows and the transaction the checkout
// and cancellation flows run in. The service begins the transaction
// here and passes it to the product and coupon repositories so stock
// debits and coupon counters commit or roll back with the order.
type OrderRepository interface {
	// Transaction management
	BeginTx(ctx context.Context) (pgx.Tx, error)
	CommitTx(ctx context.Context, tx pgx.Tx) error
	RollbackTx(ctx context.Context, tx pgx.Tx) error

	// Writes inside the order transaction
	CreateOrderTx(ctx context.Context, tx pgx.Tx, order *model.Order) error
	CreateOrderItemsTx(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// UpdateStatusTx moves an order from one status to the next and
	// stamps the matching timestamp. The update is guarded on the
	// expected current status; a concurrent transition makes it fail
	// with ErrInvalidTransition.
	UpdateStatusTx(ctx context.Context, tx pgx.Tx, orderID int64, fromStatus, toStatus string, reason *string) error

	// GetByID is unscoped. The review gate uses it to tell an order
	// owned by someone else apart from one that does not exist.
	GetByID(ctx context.Context, id int64) (*model.Order, error)

	// Scoped reads. An order outside the caller's scope is
	// indistinguishable from a missing one.
	GetByNumberForCustomer(ctx context.Context, orderNumber string, customerID int64) (*model.Order, error)
	GetByNumberForShop(ctx context.Context, orderNumber string, shopID int64) (*model.Order, error)
	ListItems(ctx context.Context, orderID int64) ([]model.OrderItem, error)
	ListByCustomer(ctx context.Context, customerID int64, status string, page, limit int) ([]model.Order, int, error)
	ListByShop(ctx context.Context, shopID int64, status string, page, limit int) ([]model.Order, int, error)

	// Seller dashboard
	DashboardStats(ctx context.Context, shopID int64) (*model.DashboardStats, error)
	RecentByShop(ctx context.Context, shopID int64, limit int) ([]model.Order, error)
}
