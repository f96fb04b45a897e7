package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// =====================================================
// ORDER STATUS CONSTANTS
// =====================================================
const (
	OrderStatusPlaced    = "placed"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

const (
	PaymentStatusPending = "pending"
	PaymentStatusCOD     = "cod"
	PaymentStatusPaid    = "paid"
)

const PaymentMethodCOD = "cod"

// validTransitions is the one-way lifecycle. Delivered and cancelled
// are terminal.
var validTransitions = map[string][]string{
	OrderStatusPlaced:    {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:   {OrderStatusDelivered},
	OrderStatusDelivered: {},
	OrderStatusCancelled: {},
}

// CanTransition reports whether an order may move from one status to
// another.
func CanTransition(from, to string) bool {
	for _, allowed := range validTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsValidOrderStatus reports whether s is one of the five lifecycle states.
func IsValidOrderStatus(s string) bool {
	_, ok := validTransitions[s]
	return ok
}

// CancellableByCustomer reports whether a customer may still cancel an
// order in the given status. Once shipped the order is out of their hands.
func CancellableByCustomer(status string) bool {
	return status == OrderStatusPlaced || status == OrderStatusConfirmed
}

// =====================================================
// ENTITY: Order
// =====================================================
// Every pricing and delivery field is an immutable snapshot taken at
// checkout. Later product or shop edits never touch a placed order.
type Order struct {
	ID          int64  `json:"id" db:"id"`
	OrderNumber string `json:"order_number" db:"order_number"`
	CustomerID  int64  `json:"customer_id" db:"customer_id"`
	ShopID      int64  `json:"shop_id" db:"shop_id"`

	// Delivery snapshot
	CustomerName    string  `json:"customer_name" db:"customer_name"`
	CustomerPhone   string  `json:"customer_phone" db:"customer_phone"`
	DeliveryAddress string  `json:"delivery_address" db:"delivery_address"`
	City            string  `json:"city" db:"city"`
	Pincode         string  `json:"pincode" db:"pincode"`
	Landmark        *string `json:"landmark,omitempty" db:"landmark"`

	// Pricing snapshot
	Subtotal           decimal.Decimal `json:"subtotal" db:"subtotal"`
	CODFee             decimal.Decimal `json:"cod_fee" db:"cod_fee"`
	CouponID           *int64          `json:"coupon_id,omitempty" db:"coupon_id"`
	CouponCode         *string         `json:"coupon_code,omitempty" db:"coupon_code"`
	CouponDiscount     decimal.Decimal `json:"coupon_discount" db:"coupon_discount"`
	TotalAmount        decimal.Decimal `json:"total_amount" db:"total_amount"`
	CommissionAmount   decimal.Decimal `json:"commission_amount" db:"commission_amount"`
	SellerPayoutAmount decimal.Decimal `json:"seller_payout_amount" db:"seller_payout_amount"`

	OrderStatus        string  `json:"order_status" db:"order_status"`
	PaymentMethod      string  `json:"payment_method" db:"payment_method"`
	PaymentStatus      string  `json:"payment_status" db:"payment_status"`
	Notes              *string `json:"notes,omitempty" db:"notes"`
	CancellationReason *string `json:"cancellation_reason,omitempty" db:"cancellation_reason"`

	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty" db:"confirmed_at"`
	ShippedAt   *time.Time `json:"shipped_at,omitempty" db:"shipped_at"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty" db:"delivered_at"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty" db:"cancelled_at"`

	// Populated by the shop join in every order query, not columns
	ShopName    string `json:"-" db:"-"`
	ShopContact string `json:"-" db:"-"`
	ItemsCount  int    `json:"-" db:"-"`
}

// SellerEarnings is what the seller nets after absorbing the coupon
// discount. The platform commission is computed from undiscounted
// figures, so the discount always comes out of the payout.
func (o *Order) SellerEarnings() decimal.Decimal {
	return o.SellerPayoutAmount.Sub(o.CouponDiscount)
}

// NetCashToKeep is the cash a COD seller keeps from the collected
// total after the platform commission and the COD fee.
func (o *Order) NetCashToKeep() decimal.Decimal {
	return o.TotalAmount.Sub(o.CommissionAmount).Sub(o.CODFee)
}

// =====================================================
// ENTITY: OrderItem
// =====================================================
// Line-item snapshot of product and variant state at order time.
// The derived amounts are computed once at creation and never
// recalculated.
type OrderItem struct {
	ID        int64  `json:"id" db:"id"`
	OrderID   int64  `json:"order_id" db:"order_id"`
	ProductID int64  `json:"product_id" db:"product_id"`
	VariantID *int64 `json:"variant_id,omitempty" db:"variant_id"`

	ProductName    string           `json:"product_name" db:"product_name"`
	BasePrice      decimal.Decimal  `json:"base_price" db:"base_price"`
	DisplayPrice   decimal.Decimal  `json:"display_price" db:"display_price"`
	MRP            *decimal.Decimal `json:"mrp,omitempty" db:"mrp"`
	CommissionRate decimal.Decimal  `json:"commission_rate" db:"commission_rate"`
	Quantity       int              `json:"quantity" db:"quantity"`
	Size           *string          `json:"size,omitempty" db:"size"`
	Color          *string          `json:"color,omitempty" db:"color"`

	ItemSubtotal     decimal.Decimal `json:"item_subtotal" db:"item_subtotal"`
	CommissionAmount decimal.Decimal `json:"commission_amount" db:"commission_amount"`
	SellerAmount     decimal.Decimal `json:"seller_amount" db:"seller_amount"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// Populated by the item detail query, not columns
	ProductImage *string `json:"-" db:"-"`
	VariantSKU   *string `json:"-" db:"-"`
}
