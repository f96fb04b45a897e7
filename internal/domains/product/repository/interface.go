package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"marketplace-backend/internal/domains/product/model"
)

// =====================================================
// REPOSITORY INTERFACE
// =====================================================

// ProductRepository covers products, their variants and the stock
// mutations the order flow performs. Methods with a Tx suffix run
// inside a caller-owned transaction so stock movements commit or roll
// back together with the order that caused them.
type ProductRepository interface {
	// Products
	CreateWithVariants(ctx context.Context, product *model.Product, variants []model.ProductVariant) error
	GetByID(ctx context.Context, id int64) (*model.Product, error)
	List(ctx context.Context, filter model.ListProductsRequest) ([]model.Product, int, error)
	ListByShop(ctx context.Context, shopID int64, page, limit int) ([]model.Product, int, error)
	Update(ctx context.Context, product *model.Product) error
	SetImage(ctx context.Context, productID int64, slot int, url *string) error
	SlugExists(ctx context.Context, slug string) (bool, error)
	CountActiveByShop(ctx context.Context, shopID int64) (int, error)

	// Variants
	ListVariants(ctx context.Context, productID int64) ([]model.ProductVariant, error)
	GetVariantByID(ctx context.Context, id int64) (*model.ProductVariant, error)
	GetVariantForSelection(ctx context.Context, productID int64, size, color *string) (*model.ProductVariant, error)
	AddVariant(ctx context.Context, variant *model.ProductVariant) error
	UpdateVariant(ctx context.Context, variant *model.ProductVariant) error
	AdjustVariantStock(ctx context.Context, variantID int64, delta int) (*model.ProductVariant, error)

	// Stock movements inside the order transaction
	DebitProductStockTx(ctx context.Context, tx pgx.Tx, productID int64, quantity int) error
	DebitVariantStockTx(ctx context.Context, tx pgx.Tx, variantID int64, quantity int) error
	CreditProductStockTx(ctx context.Context, tx pgx.Tx, productID int64, quantity int) error
	CreditVariantStockTx(ctx context.Context, tx pgx.Tx, variantID int64, quantity int) error

	// Rating denormalization, updated by the review flow in its own transaction
	UpdateRatingTx(ctx context.Context, tx pgx.Tx, productID int64, averageRating decimal.Decimal, reviewCount int) error

	// Maintenance
	ReconcileVariantStocks(ctx context.Context, batchSize int) (int64, error)
}
