package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"marketplace-backend/internal/domains/product/model"
	"marketplace-backend/internal/shared/utils"
	"marketplace-backend/pkg/database"
)

// =====================================================
// POSTGRES REPOSITORY IMPLEMENTATION
// =====================================================
type postgresProductRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresProductRepository(pool *pgxpool.Pool) ProductRepository {
	return &postgresProductRepository{
		pool: pool,
	}
}

const productColumns = `
	id, shop_id, category_id, name, slug, description, base_price,
	commission_rate, display_price, mrp, stock_quantity, sizes, colors,
	image1, image2, image3, image4, image5, is_active, average_rating,
	review_count, created_at, updated_at
`

const variantColumns = `
	id, product_id, size, color, sku, stock_quantity, is_active,
	created_at, updated_at
`

func scanProduct(row pgx.Row) (*model.Product, error) {
	var p model.Product
	err := row.Scan(
		&p.ID,
		&p.ShopID,
		&p.CategoryID,
		&p.Name,
		&p.Slug,
		&p.Description,
		&p.BasePrice,
		&p.CommissionRate,
		&p.DisplayPrice,
		&p.MRP,
		&p.StockQuantity,
		&p.Sizes,
		&p.Colors,
		&p.Image1,
		&p.Image2,
		&p.Image3,
		&p.Image4,
		&p.Image5,
		&p.IsActive,
		&p.AverageRating,
		&p.ReviewCount,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func scanVariant(row pgx.Row) (*model.ProductVariant, error) {
	var v model.ProductVariant
	err := row.Scan(
		&v.ID,
		&v.ProductID,
		&v.Size,
		&v.Color,
		&v.SKU,
		&v.StockQuantity,
		&v.IsActive,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// mapVariantConstraintError translates unique violations on the variant
// table into domain errors.
func mapVariantConstraintError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		if strings.Contains(pgErr.ConstraintName, "sku") {
			return model.ErrDuplicateSKU
		}
		return model.ErrDuplicateVariant
	}
	return nil
}

// =====================================================
// PRODUCTS
// =====================================================

func (r *postgresProductRepository) CreateWithVariants(ctx context.Context, product *model.Product, variants []model.ProductVariant) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		productQuery := `
			INSERT INTO products (
				shop_id, category_id, name, slug, description, base_price,
				commission_rate, display_price, mrp, stock_quantity,
				sizes, colors, is_active
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			RETURNING id, average_rating, review_count, created_at, updated_at
		`

		err := tx.QueryRow(ctx, productQuery,
			product.ShopID,
			product.CategoryID,
			product.Name,
			product.Slug,
			product.Description,
			product.BasePrice,
			product.CommissionRate,
			product.DisplayPrice,
			product.MRP,
			product.StockQuantity,
			product.Sizes,
			product.Colors,
			product.IsActive,
		).Scan(&product.ID, &product.AverageRating, &product.ReviewCount, &product.CreatedAt, &product.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}

		if len(variants) == 0 {
			return nil
		}

		variantQuery := `
			INSERT INTO product_variants (
				product_id, size, color, sku, stock_quantity, is_active
			) VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, created_at, updated_at
		`

		batch := &pgx.Batch{}
		for i := range variants {
			variants[i].ProductID = product.ID
			batch.Queue(variantQuery,
				variants[i].ProductID,
				variants[i].Size,
				variants[i].Color,
				variants[i].SKU,
				variants[i].StockQuantity,
				variants[i].IsActive,
			)
		}

		results := tx.SendBatch(ctx, batch)
		for i := range variants {
			err := results.QueryRow().Scan(&variants[i].ID, &variants[i].CreatedAt, &variants[i].UpdatedAt)
			if err != nil {
				results.Close()
				if mapped := mapVariantConstraintError(err); mapped != nil {
					return mapped
				}
				return fmt.Errorf("failed to create product variant: %w", err)
			}
		}
		if err := results.Close(); err != nil {
			return fmt.Errorf("failed to close variant batch: %w", err)
		}

		// The product row was inserted before its variants, so the
		// materialized sum has to be refreshed in the same transaction.
		newStock, err := r.recomputeStockTx(ctx, tx, product.ID)
		if err != nil {
			return err
		}
		product.StockQuantity = newStock

		return nil
	})
}

func (r *postgresProductRepository) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	product, err := scanProduct(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product by id: %w", err)
	}

	return product, nil
}

func (r *postgresProductRepository) List(ctx context.Context, filter model.ListProductsRequest) ([]model.Product, int, error) {
	offset := (filter.Page - 1) * filter.Limit

	conditions := []string{
		"is_active = true",
		"EXISTS (SELECT 1 FROM shops s WHERE s.id = products.shop_id AND s.is_approved = true)",
	}
	args := []interface{}{}
	argIndex := 1

	if filter.CategoryID != nil {
		conditions = append(conditions, fmt.Sprintf("category_id = $%d", argIndex))
		args = append(args, *filter.CategoryID)
		argIndex++
	}

	if filter.ShopID != nil {
		conditions = append(conditions, fmt.Sprintf("shop_id = $%d", argIndex))
		args = append(args, *filter.ShopID)
		argIndex++
	}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR description ILIKE $%d)", argIndex, argIndex))
		args = append(args, "%"+filter.Search+"%")
		argIndex++
	}

	whereClause := " WHERE " + utils.JoinWithAnd(conditions)

	countQuery := `SELECT COUNT(*) FROM products` + whereClause

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	query := `SELECT ` + productColumns + ` FROM products` + whereClause +
		fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, argIndex, argIndex+1)
	args = append(args, filter.Limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *product)
	}

	if rows.Err() != nil {
		return nil, 0, fmt.Errorf("error iterating products: %w", rows.Err())
	}

	return products, total, nil
}

func (r *postgresProductRepository) ListByShop(ctx context.Context, shopID int64, page, limit int) ([]model.Product, int, error) {
	offset := (page - 1) * limit

	var total int
	countQuery := `SELECT COUNT(*) FROM products WHERE shop_id = $1`
	if err := r.pool.QueryRow(ctx, countQuery, shopID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count shop products: %w", err)
	}

	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE shop_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, shopID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list shop products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *product)
	}

	if rows.Err() != nil {
		return nil, 0, fmt.Errorf("error iterating shop products: %w", rows.Err())
	}

	return products, total, nil
}

func (r *postgresProductRepository) Update(ctx context.Context, product *model.Product) error {
	query := `
		UPDATE products
		SET category_id = $1,
			name = $2,
			slug = $3,
			description = $4,
			base_price = $5,
			commission_rate = $6,
			display_price = $7,
			mrp = $8,
			stock_quantity = $9,
			sizes = $10,
			colors = $11,
			is_active = $12,
			updated_at = NOW()
		WHERE id = $13
		RETURNING updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		product.CategoryID,
		product.Name,
		product.Slug,
		product.Description,
		product.BasePrice,
		product.CommissionRate,
		product.DisplayPrice,
		product.MRP,
		product.StockQuantity,
		product.Sizes,
		product.Colors,
		product.IsActive,
		product.ID,
	).Scan(&product.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrProductNotFound
		}
		return fmt.Errorf("failed to update product: %w", err)
	}

	return nil
}

var imageColumns = map[int]string{
	1: "image1",
	2: "image2",
	3: "image3",
	4: "image4",
	5: "image5",
}

func (r *postgresProductRepository) SetImage(ctx context.Context, productID int64, slot int, url *string) error {
	column, ok := imageColumns[slot]
	if !ok {
		return fmt.Errorf("invalid image slot: %d", slot)
	}

	query := fmt.Sprintf(`UPDATE products SET %s = $1, updated_at = NOW() WHERE id = $2`, column)

	tag, err := r.pool.Exec(ctx, query, url, productID)
	if err != nil {
		return fmt.Errorf("failed to set product image: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrProductNotFound
	}

	return nil
}

func (r *postgresProductRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM products WHERE slug = $1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, slug).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check product slug: %w", err)
	}

	return exists, nil
}

func (r *postgresProductRepository) CountActiveByShop(ctx context.Context, shopID int64) (int, error) {
	query := `SELECT COUNT(*) FROM products WHERE shop_id = $1 AND is_active = true`

	var count int
	if err := r.pool.QueryRow(ctx, query, shopID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count products by shop: %w", err)
	}

	return count, nil
}

// =====================================================
// VARIANTS
// =====================================================

func (r *postgresProductRepository) ListVariants(ctx context.Context, productID int64) ([]model.ProductVariant, error) {
	query := `
		SELECT ` + variantColumns + `
		FROM product_variants
		WHERE product_id = $1
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to list variants: %w", err)
	}
	defer rows.Close()

	var variants []model.ProductVariant
	for rows.Next() {
		variant, err := scanVariant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan variant: %w", err)
		}
		variants = append(variants, *variant)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating variants: %w", rows.Err())
	}

	return variants, nil
}

func (r *postgresProductRepository) GetVariantByID(ctx context.Context, id int64) (*model.ProductVariant, error) {
	query := `SELECT ` + variantColumns + ` FROM product_variants WHERE id = $1`

	variant, err := scanVariant(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrVariantNotFound
		}
		return nil, fmt.Errorf("failed to get variant by id: %w", err)
	}

	return variant, nil
}

func (r *postgresProductRepository) GetVariantForSelection(ctx context.Context, productID int64, size, color *string) (*model.ProductVariant, error) {
	// IS NOT DISTINCT FROM treats NULL selections as equal to NULL columns,
	// so "no size" matches variants that have no size.
	query := `
		SELECT ` + variantColumns + `
		FROM product_variants
		WHERE product_id = $1
			AND size IS NOT DISTINCT FROM $2
			AND color IS NOT DISTINCT FROM $3
			AND is_active = true
	`

	variant, err := scanVariant(r.pool.QueryRow(ctx, query, productID, size, color))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrVariantNotFound
		}
		return nil, fmt.Errorf("failed to get variant for selection: %w", err)
	}

	return variant, nil
}

func (r *postgresProductRepository) AddVariant(ctx context.Context, variant *model.ProductVariant) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		query := `
			INSERT INTO product_variants (
				product_id, size, color, sku, stock_quantity, is_active
			) VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, created_at, updated_at
		`

		err := tx.QueryRow(ctx, query,
			variant.ProductID,
			variant.Size,
			variant.Color,
			variant.SKU,
			variant.StockQuantity,
			variant.IsActive,
		).Scan(&variant.ID, &variant.CreatedAt, &variant.UpdatedAt)
		if err != nil {
			if mapped := mapVariantConstraintError(err); mapped != nil {
				return mapped
			}
			return fmt.Errorf("failed to add variant: %w", err)
		}

		_, err = r.recomputeStockTx(ctx, tx, variant.ProductID)
		return err
	})
}

func (r *postgresProductRepository) UpdateVariant(ctx context.Context, variant *model.ProductVariant) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		query := `
			UPDATE product_variants
			SET stock_quantity = $1,
				is_active = $2,
				updated_at = NOW()
			WHERE id = $3
			RETURNING updated_at
		`

		err := tx.QueryRow(ctx, query,
			variant.StockQuantity,
			variant.IsActive,
			variant.ID,
		).Scan(&variant.UpdatedAt)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return model.ErrVariantNotFound
			}
			return fmt.Errorf("failed to update variant: %w", err)
		}

		_, err = r.recomputeStockTx(ctx, tx, variant.ProductID)
		return err
	})
}

func (r *postgresProductRepository) AdjustVariantStock(ctx context.Context, variantID int64, delta int) (*model.ProductVariant, error) {
	return database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (*model.ProductVariant, error) {
		query := `
			UPDATE product_variants
			SET stock_quantity = stock_quantity + $2,
				updated_at = NOW()
			WHERE id = $1 AND stock_quantity + $2 >= 0
			RETURNING ` + variantColumns

		variant, err := scanVariant(tx.QueryRow(ctx, query, variantID, delta))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				// Either the variant is missing or the delta would push
				// stock below zero. Check which.
				var exists bool
				checkQuery := `SELECT EXISTS(SELECT 1 FROM product_variants WHERE id = $1)`
				if checkErr := tx.QueryRow(ctx, checkQuery, variantID).Scan(&exists); checkErr != nil {
					return nil, fmt.Errorf("failed to check variant existence: %w", checkErr)
				}
				if exists {
					return nil, model.ErrInsufficientStock
				}
				return nil, model.ErrVariantNotFound
			}
			return nil, fmt.Errorf("failed to adjust variant stock: %w", err)
		}

		if _, err := r.recomputeStockTx(ctx, tx, variant.ProductID); err != nil {
			return nil, err
		}

		return variant, nil
	})
}

// =====================================================
// STOCK MOVEMENTS (ORDER TRANSACTION)
// =====================================================

func (r *postgresProductRepository) DebitProductStockTx(ctx context.Context, tx pgx.Tx, productID int64, quantity int) error {
	query := `
		UPDATE products
		SET stock_quantity = stock_quantity - $2,
			updated_at = NOW()
		WHERE id = $1 AND stock_quantity >= $2
	`

	tag, err := tx.Exec(ctx, query, productID, quantity)
	if err != nil {
		return fmt.Errorf("failed to debit product stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrInsufficientStock
	}

	return nil
}

func (r *postgresProductRepository) DebitVariantStockTx(ctx context.Context, tx pgx.Tx, variantID int64, quantity int) error {
	query := `
		UPDATE product_variants
		SET stock_quantity = stock_quantity - $2,
			updated_at = NOW()
		WHERE id = $1 AND stock_quantity >= $2
		RETURNING product_id
	`

	var productID int64
	err := tx.QueryRow(ctx, query, variantID, quantity).Scan(&productID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrInsufficientStock
		}
		return fmt.Errorf("failed to debit variant stock: %w", err)
	}

	_, err = r.recomputeStockTx(ctx, tx, productID)
	return err
}

func (r *postgresProductRepository) CreditProductStockTx(ctx context.Context, tx pgx.Tx, productID int64, quantity int) error {
	query := `
		UPDATE products
		SET stock_quantity = stock_quantity + $2,
			updated_at = NOW()
		WHERE id = $1
	`

	tag, err := tx.Exec(ctx, query, productID, quantity)
	if err != nil {
		return fmt.Errorf("failed to credit product stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrProductNotFound
	}

	return nil
}

func (r *postgresProductRepository) CreditVariantStockTx(ctx context.Context, tx pgx.Tx, variantID int64, quantity int) error {
	query := `
		UPDATE product_variants
		SET stock_quantity = stock_quantity + $2,
			updated_at = NOW()
		WHERE id = $1
		RETURNING product_id
	`

	var productID int64
	err := tx.QueryRow(ctx, query, variantID, quantity).Scan(&productID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrVariantNotFound
		}
		return fmt.Errorf("failed to credit variant stock: %w", err)
	}

	_, err = r.recomputeStockTx(ctx, tx, productID)
	return err
}

// recomputeStockTx refreshes the materialized stock_quantity of a product
// as the sum over its active variants and returns the new value.
func (r *postgresProductRepository) recomputeStockTx(ctx context.Context, tx pgx.Tx, productID int64) (int, error) {
	query := `
		UPDATE products p
		SET stock_quantity = COALESCE((
				SELECT SUM(v.stock_quantity)
				FROM product_variants v
				WHERE v.product_id = p.id AND v.is_active = true
			), 0),
			updated_at = NOW()
		WHERE p.id = $1
		RETURNING p.stock_quantity
	`

	var stock int
	if err := tx.QueryRow(ctx, query, productID).Scan(&stock); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, model.ErrProductNotFound
		}
		return 0, fmt.Errorf("failed to recompute product stock: %w", err)
	}

	return stock, nil
}

// =====================================================
// RATING
// =====================================================

func (r *postgresProductRepository) UpdateRatingTx(ctx context.Context, tx pgx.Tx, productID int64, averageRating decimal.Decimal, reviewCount int) error {
	query := `
		UPDATE products
		SET average_rating = $2,
			review_count = $3,
			updated_at = NOW()
		WHERE id = $1
	`

	tag, err := tx.Exec(ctx, query, productID, averageRating, reviewCount)
	if err != nil {
		return fmt.Errorf("failed to update product rating: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrProductNotFound
	}

	return nil
}

// =====================================================
// MAINTENANCE
// =====================================================

// ReconcileVariantStocks repairs materialized stock sums that drifted from
// the per-variant truth and returns how many products were corrected.
func (r *postgresProductRepository) ReconcileVariantStocks(ctx context.Context, batchSize int) (int64, error) {
	query := `
		WITH drifted AS (
			SELECT p.id,
				COALESCE(SUM(v.stock_quantity) FILTER (WHERE v.is_active), 0) AS actual
			FROM products p
			JOIN product_variants v ON v.product_id = p.id
			GROUP BY p.id
			HAVING p.stock_quantity <> COALESCE(SUM(v.stock_quantity) FILTER (WHERE v.is_active), 0)
			LIMIT $1
		)
		UPDATE products p
		SET stock_quantity = d.actual,
			updated_at = NOW()
		FROM drifted d
		WHERE p.id = d.id
	`

	tag, err := r.pool.Exec(ctx, query, batchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to reconcile variant stocks: %w", err)
	}

	return tag.RowsAffected(), nil
}
