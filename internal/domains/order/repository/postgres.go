package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"marketplace-backend/internal/domains/order/model"
)

// =====================================================
// POSTGRES REPOSITORY IMPLEMENTATION
// =====================================================
type postgresOrderRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &postgresOrderRepository{
		pool: pool,
	}
}

// Every order read joins the shop for its name and contact and counts
// the line items inline, so one scan shape serves lists and details.
const orderColumns = `
	o.id, o.order_number, o.customer_id, o.shop_id,
	o.customer_name, o.customer_phone, o.delivery_address, o.city, o.pincode, o.landmark,
	o.subtotal, o.cod_fee, o.coupon_id, o.coupon_code, o.coupon_discount,
	o.total_amount, o.commission_amount, o.seller_payout_amount,
	o.order_status, o.payment_method, o.payment_status, o.notes, o.cancellation_reason,
	o.created_at, o.updated_at, o.confirmed_at, o.shipped_at, o.delivered_at, o.cancelled_at,
	s.shop_name, s.contact_number,
	(SELECT COUNT(*) FROM order_items oi WHERE oi.order_id = o.id) AS items_count
`

const orderFrom = `FROM orders o JOIN shops s ON s.id = o.shop_id`

const orderItemColumns = `
	oi.id, oi.order_id, oi.product_id, oi.variant_id, oi.product_name,
	oi.base_price, oi.display_price, oi.mrp, oi.commission_rate,
	oi.quantity, oi.size, oi.color,
	oi.item_subtotal, oi.commission_amount, oi.seller_amount, oi.created_at
`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	err := row.Scan(
		&o.ID,
		&o.OrderNumber,
		&o.CustomerID,
		&o.ShopID,
		&o.CustomerName,
		&o.CustomerPhone,
		&o.DeliveryAddress,
		&o.City,
		&o.Pincode,
		&o.Landmark,
		&o.Subtotal,
		&o.CODFee,
		&o.CouponID,
		&o.CouponCode,
		&o.CouponDiscount,
		&o.TotalAmount,
		&o.CommissionAmount,
		&o.SellerPayoutAmount,
		&o.OrderStatus,
		&o.PaymentMethod,
		&o.PaymentStatus,
		&o.Notes,
		&o.CancellationReason,
		&o.CreatedAt,
		&o.UpdatedAt,
		&o.ConfirmedAt,
		&o.ShippedAt,
		&o.DeliveredAt,
		&o.CancelledAt,
		&o.ShopName,
		&o.ShopContact,
		&o.ItemsCount,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func scanOrderItem(row pgx.Row) (*model.OrderItem, error) {
	var item model.OrderItem
	err := row.Scan(
		&item.ID,
		&item.OrderID,
		&item.ProductID,
		&item.VariantID,
		&item.ProductName,
		&item.BasePrice,
		&item.DisplayPrice,
		&item.MRP,
		&item.CommissionRate,
		&item.Quantity,
		&item.Size,
		&item.Color,
		&item.ItemSubtotal,
		&item.CommissionAmount,
		&item.SellerAmount,
		&item.CreatedAt,
		&item.ProductImage,
		&item.VariantSKU,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// =====================================================
// TRANSACTION MANAGEMENT
// =====================================================

func (r *postgresOrderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return r.pool.Begin(ctx)
}

func (r *postgresOrderRepository) CommitTx(ctx context.Context, tx pgx.Tx) error {
	return tx.Commit(ctx)
}

func (r *postgresOrderRepository) RollbackTx(ctx context.Context, tx pgx.Tx) error {
	return tx.Rollback(ctx)
}

// =====================================================
// CREATE ORDER
// =====================================================

func (r *postgresOrderRepository) CreateOrderTx(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	query := `
		INSERT INTO orders (
			order_number, customer_id, shop_id,
			customer_name, customer_phone, delivery_address, city, pincode, landmark,
			subtotal, cod_fee, coupon_id, coupon_code, coupon_discount,
			total_amount, commission_amount, seller_payout_amount,
			order_status, payment_method, payment_status, notes
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21
		)
		RETURNING id, created_at, updated_at
	`

	err := tx.QueryRow(ctx, query,
		order.OrderNumber,
		order.CustomerID,
		order.ShopID,
		order.CustomerName,
		order.CustomerPhone,
		order.DeliveryAddress,
		order.City,
		order.Pincode,
		order.Landmark,
		order.Subtotal,
		order.CODFee,
		order.CouponID,
		order.CouponCode,
		order.CouponDiscount,
		order.TotalAmount,
		order.CommissionAmount,
		order.SellerPayoutAmount,
		order.OrderStatus,
		order.PaymentMethod,
		order.PaymentStatus,
		order.Notes,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	return nil
}

func (r *postgresOrderRepository) CreateOrderItemsTx(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error {
	batch := &pgx.Batch{}
	query := `
		INSERT INTO order_items (
			order_id, product_id, variant_id, product_name,
			base_price, display_price, mrp, commission_rate,
			quantity, size, color,
			item_subtotal, commission_amount, seller_amount
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at
	`

	for _, item := range items {
		batch.Queue(query,
			item.OrderID,
			item.ProductID,
			item.VariantID,
			item.ProductName,
			item.BasePrice,
			item.DisplayPrice,
			item.MRP,
			item.CommissionRate,
			item.Quantity,
			item.Size,
			item.Color,
			item.ItemSubtotal,
			item.CommissionAmount,
			item.SellerAmount,
		)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := range items {
		if err := results.QueryRow().Scan(&items[i].ID, &items[i].CreatedAt); err != nil {
			return fmt.Errorf("failed to create order item %d: %w", i, err)
		}
	}

	return nil
}

// =====================================================
// STATUS TRANSITIONS
// =====================================================

func (r *postgresOrderRepository) UpdateStatusTx(
	ctx context.Context,
	tx pgx.Tx,
	orderID int64,
	fromStatus, toStatus string,
	reason *string,
) error {
	setClauses := []string{
		"order_status = $1",
		"updated_at = NOW()",
	}
	args := []interface{}{toStatus, orderID, fromStatus}
	argIdx := 4

	switch toStatus {
	case model.OrderStatusConfirmed:
		setClauses = append(setClauses, "confirmed_at = NOW()")
	case model.OrderStatusShipped:
		setClauses = append(setClauses, "shipped_at = NOW()")
	case model.OrderStatusDelivered:
		// COD settles on handover
		setClauses = append(setClauses, "delivered_at = NOW()", "payment_status = 'paid'")
	case model.OrderStatusCancelled:
		setClauses = append(setClauses, "cancelled_at = NOW()")
		if reason != nil {
			setClauses = append(setClauses, fmt.Sprintf("cancellation_reason = $%d", argIdx))
			args = append(args, *reason)
			argIdx++
		}
	}

	query := fmt.Sprintf(`
		UPDATE orders
		SET %s
		WHERE id = $2 AND order_status = $3
	`, strings.Join(setClauses, ", "))

	result, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	// Zero rows means another transition won the race.
	if result.RowsAffected() == 0 {
		return model.ErrInvalidTransition
	}

	return nil
}

// =====================================================
// READS
// =====================================================

func (r *postgresOrderRepository) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	query := `SELECT ` + orderColumns + orderFrom + ` WHERE o.id = $1`

	order, err := scanOrder(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return order, nil
}

func (r *postgresOrderRepository) GetByNumberForCustomer(ctx context.Context, orderNumber string, customerID int64) (*model.Order, error) {
	query := `SELECT ` + orderColumns + orderFrom + ` WHERE o.order_number = $1 AND o.customer_id = $2`

	order, err := scanOrder(r.pool.QueryRow(ctx, query, orderNumber, customerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order by number: %w", err)
	}

	return order, nil
}

func (r *postgresOrderRepository) GetByNumberForShop(ctx context.Context, orderNumber string, shopID int64) (*model.Order, error) {
	query := `SELECT ` + orderColumns + orderFrom + ` WHERE o.order_number = $1 AND o.shop_id = $2`

	order, err := scanOrder(r.pool.QueryRow(ctx, query, orderNumber, shopID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order by number: %w", err)
	}

	return order, nil
}

func (r *postgresOrderRepository) ListItems(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	query := `
		SELECT ` + orderItemColumns + `, p.image1, v.sku
		FROM order_items oi
		LEFT JOIN products p ON p.id = oi.product_id
		LEFT JOIN product_variants v ON v.id = oi.variant_id
		WHERE oi.order_id = $1
		ORDER BY oi.id ASC
	`

	rows, err := r.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list order items: %w", err)
	}
	defer rows.Close()

	var items []model.OrderItem
	for rows.Next() {
		item, err := scanOrderItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, *item)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating order items: %w", rows.Err())
	}

	return items, nil
}

// =====================================================
// LISTINGS
// =====================================================

func (r *postgresOrderRepository) ListByCustomer(ctx context.Context, customerID int64, status string, page, limit int) ([]model.Order, int, error) {
	return r.list(ctx, "o.customer_id", customerID, status, page, limit)
}

func (r *postgresOrderRepository) ListByShop(ctx context.Context, shopID int64, status string, page, limit int) ([]model.Order, int, error) {
	return r.list(ctx, "o.shop_id", shopID, status, page, limit)
}

// list pages orders for one owner column, newest first, with an
// optional status filter.
func (r *postgresOrderRepository) list(ctx context.Context, ownerColumn string, ownerID int64, status string, page, limit int) ([]model.Order, int, error) {
	offset := (page - 1) * limit

	query := `SELECT ` + orderColumns + orderFrom + ` WHERE ` + ownerColumn + ` = $1`
	countQuery := `SELECT COUNT(*) FROM orders o WHERE ` + ownerColumn + ` = $1`
	args := []interface{}{ownerID}
	countArgs := []interface{}{ownerID}

	if status != "" {
		query += ` AND o.order_status = $2`
		countQuery += ` AND o.order_status = $2`
		args = append(args, status)
		countArgs = append(countArgs, status)
	}

	query += fmt.Sprintf(` ORDER BY o.created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *order)
	}

	if rows.Err() != nil {
		return nil, 0, fmt.Errorf("error iterating orders: %w", rows.Err())
	}

	return orders, total, nil
}

// =====================================================
// SELLER DASHBOARD
// =====================================================

func (r *postgresOrderRepository) DashboardStats(ctx context.Context, shopID int64) (*model.DashboardStats, error) {
	// Earnings are payout net of the coupon discount the seller absorbs.
	query := `
		SELECT
			COUNT(*) FILTER (WHERE order_status = 'placed') AS pending_orders,
			COUNT(*) FILTER (WHERE created_at >= CURRENT_DATE) AS today_orders,
			COALESCE(SUM(seller_payout_amount - coupon_discount)
				FILTER (WHERE order_status = 'delivered'), 0) AS total_earnings,
			COALESCE(SUM(seller_payout_amount - coupon_discount)
				FILTER (WHERE order_status IN ('confirmed', 'shipped')), 0) AS pending_earnings
		FROM orders
		WHERE shop_id = $1
	`

	var stats model.DashboardStats
	err := r.pool.QueryRow(ctx, query, shopID).Scan(
		&stats.PendingOrders,
		&stats.TodayOrders,
		&stats.TotalEarnings,
		&stats.PendingEarnings,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get dashboard stats: %w", err)
	}

	return &stats, nil
}

func (r *postgresOrderRepository) RecentByShop(ctx context.Context, shopID int64, limit int) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + orderFrom + ` WHERE o.shop_id = $1 ORDER BY o.created_at DESC LIMIT $2`

	rows, err := r.pool.Query(ctx, query, shopID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *order)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating orders: %w", rows.Err())
	}

	return orders, nil
}
