package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/shopspring/decimal"

	productModel "marketplace-backend/internal/domains/product/model"
)

// =====================================================
// CREATE ORDER REQUEST
// =====================================================

type OrderItemRequest struct {
	ProductID int64   `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Size      *string `json:"size,omitempty"`
	Color     *string `json:"color,omitempty"`
}

// Validate validates OrderItemRequest
func (req OrderItemRequest) Validate() error {
	if req.ProductID <= 0 {
		return validation.NewError("validation_product_id", "product_id is required")
	}
	if req.Quantity <= 0 {
		return validation.NewError("validation_quantity", "quantity must be a positive integer")
	}
	return nil
}

type CreateOrderRequest struct {
	CartItems       []OrderItemRequest `json:"cart_items" binding:"required"`
	CustomerName    string             `json:"customer_name" binding:"required"`
	CustomerPhone   string             `json:"customer_phone" binding:"required"`
	DeliveryAddress string             `json:"delivery_address" binding:"required"`
	City            string             `json:"city"` // defaults to the platform city
	Pincode         string             `json:"pincode" binding:"required"`
	Landmark        *string            `json:"landmark,omitempty"`
	CouponCode      *string            `json:"coupon_code,omitempty"`
	Notes           *string            `json:"notes,omitempty"`
}

// Validate validates CreateOrderRequest
func (req CreateOrderRequest) Validate() error {
	err := validation.ValidateStruct(&req,
		validation.Field(&req.CartItems, validation.Required, validation.Length(1, 0)),
		validation.Field(&req.CustomerName, validation.Required, validation.Length(1, 255)),
		validation.Field(&req.CustomerPhone, validation.Required, validation.Length(10, 15), is.Digit),
		validation.Field(&req.DeliveryAddress, validation.Required),
		validation.Field(&req.City, validation.Length(0, 100)),
		validation.Field(&req.Pincode, validation.Required, validation.Length(6, 6), is.Digit),
	)
	if err != nil {
		return err
	}

	for _, item := range req.CartItems {
		if err := item.Validate(); err != nil {
			return err
		}
	}

	if req.Landmark != nil && len(*req.Landmark) > 255 {
		return validation.NewError("validation_landmark", "landmark must be at most 255 characters")
	}
	if req.CouponCode != nil && len(*req.CouponCode) > 20 {
		return validation.NewError("validation_coupon_code", "coupon_code must be at most 20 characters")
	}
	if req.Notes != nil && len(*req.Notes) > 1000 {
		return validation.NewError("validation_notes", "notes must be at most 1000 characters")
	}
	return nil
}

// =====================================================
// STATUS / LIST REQUESTS
// =====================================================

type UpdateOrderStatusRequest struct {
	OrderStatus string  `json:"order_status" binding:"required"`
	Reason      *string `json:"reason,omitempty"`
}

// Validate validates UpdateOrderStatusRequest
func (req UpdateOrderStatusRequest) Validate() error {
	err := validation.ValidateStruct(&req,
		validation.Field(&req.OrderStatus, validation.Required, validation.In(
			OrderStatusPlaced, OrderStatusConfirmed, OrderStatusShipped,
			OrderStatusDelivered, OrderStatusCancelled,
		)),
	)
	if err != nil {
		return err
	}
	if req.Reason != nil && len(*req.Reason) > 500 {
		return validation.NewError("validation_reason", "reason must be at most 500 characters")
	}
	return nil
}

type ListOrdersRequest struct {
	Status string `form:"status"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

// Validate validates ListOrdersRequest
func (req ListOrdersRequest) Validate() error {
	if req.Status != "" && !IsValidOrderStatus(req.Status) {
		return validation.NewError("validation_status", "invalid order status filter")
	}
	return nil
}

// =====================================================
// RESPONSES
// =====================================================

// VariantInfo is the compact variant shape inside an order item.
type VariantInfo struct {
	ID    int64   `json:"id"`
	SKU   string  `json:"sku"`
	Size  *string `json:"size,omitempty"`
	Color *string `json:"color,omitempty"`
}

type OrderItemResponse struct {
	ID                 int64            `json:"id"`
	ProductID          int64            `json:"product_id"`
	VariantID          *int64           `json:"variant_id,omitempty"`
	ProductName        string           `json:"product_name"`
	ProductImage       *string          `json:"product_image,omitempty"`
	BasePrice          decimal.Decimal  `json:"base_price"`
	DisplayPrice       decimal.Decimal  `json:"display_price"`
	MRP                *decimal.Decimal `json:"mrp,omitempty"`
	DiscountPercentage decimal.Decimal  `json:"discount_percentage"`
	CommissionRate     decimal.Decimal  `json:"commission_rate"`
	Quantity           int              `json:"quantity"`
	Size               *string          `json:"size,omitempty"`
	Color              *string          `json:"color,omitempty"`
	ItemSubtotal       decimal.Decimal  `json:"item_subtotal"`
	CommissionAmount   decimal.Decimal  `json:"commission_amount"`
	SellerAmount       decimal.Decimal  `json:"seller_amount"`
	VariantInfo        *VariantInfo     `json:"variant_info,omitempty"`
}

// NewOrderItemResponse maps an order item snapshot to its API shape.
func NewOrderItemResponse(item OrderItem) OrderItemResponse {
	resp := OrderItemResponse{
		ID:                 item.ID,
		ProductID:          item.ProductID,
		VariantID:          item.VariantID,
		ProductName:        item.ProductName,
		ProductImage:       item.ProductImage,
		BasePrice:          item.BasePrice,
		DisplayPrice:       item.DisplayPrice,
		MRP:                item.MRP,
		DiscountPercentage: productModel.ComputeDiscountBadge(item.MRP, item.DisplayPrice),
		CommissionRate:     item.CommissionRate,
		Quantity:           item.Quantity,
		Size:               item.Size,
		Color:              item.Color,
		ItemSubtotal:       item.ItemSubtotal,
		CommissionAmount:   item.CommissionAmount,
		SellerAmount:       item.SellerAmount,
	}
	if item.VariantID != nil && item.VariantSKU != nil {
		resp.VariantInfo = &VariantInfo{
			ID:    *item.VariantID,
			SKU:   *item.VariantSKU,
			Size:  item.Size,
			Color: item.Color,
		}
	}
	return resp
}

// OrderSummaryResponse is the compact shape for order listings.
type OrderSummaryResponse struct {
	ID                 int64           `json:"id"`
	OrderNumber        string          `json:"order_number"`
	ShopName           string          `json:"shop_name"`
	CustomerName       string          `json:"customer_name"`
	ItemsCount         int             `json:"items_count"`
	Subtotal           decimal.Decimal `json:"subtotal"`
	CouponDiscount     decimal.Decimal `json:"coupon_discount"`
	TotalAmount        decimal.Decimal `json:"total_amount"`
	OrderStatus        string          `json:"order_status"`
	PaymentStatus      string          `json:"payment_status"`
	SellerPayoutAmount decimal.Decimal `json:"seller_payout_amount"`
	CommissionAmount   decimal.Decimal `json:"commission_amount"`
	CreatedAt          time.Time       `json:"created_at"`
}

// NewOrderSummaryResponse maps an order row to its listing shape.
func NewOrderSummaryResponse(o Order) OrderSummaryResponse {
	return OrderSummaryResponse{
		ID:                 o.ID,
		OrderNumber:        o.OrderNumber,
		ShopName:           o.ShopName,
		CustomerName:       o.CustomerName,
		ItemsCount:         o.ItemsCount,
		Subtotal:           o.Subtotal,
		CouponDiscount:     o.CouponDiscount,
		TotalAmount:        o.TotalAmount,
		OrderStatus:        o.OrderStatus,
		PaymentStatus:      o.PaymentStatus,
		SellerPayoutAmount: o.SellerPayoutAmount,
		CommissionAmount:   o.CommissionAmount,
		CreatedAt:          o.CreatedAt,
	}
}

// OrderDetailResponse is the full order view shared by customer and
// seller, including the seller's COD settlement figures.
type OrderDetailResponse struct {
	ID          int64  `json:"id"`
	OrderNumber string `json:"order_number"`
	ShopName    string `json:"shop_name"`
	ShopContact string `json:"shop_contact"`

	CustomerName    string  `json:"customer_name"`
	CustomerPhone   string  `json:"customer_phone"`
	DeliveryAddress string  `json:"delivery_address"`
	City            string  `json:"city"`
	Pincode         string  `json:"pincode"`
	Landmark        *string `json:"landmark,omitempty"`

	Subtotal           decimal.Decimal `json:"subtotal"`
	CODFee             decimal.Decimal `json:"cod_fee"`
	CouponCode         *string         `json:"coupon_code,omitempty"`
	CouponDiscount     decimal.Decimal `json:"coupon_discount"`
	TotalAmount        decimal.Decimal `json:"total_amount"`
	CommissionAmount   decimal.Decimal `json:"commission_amount"`
	SellerPayoutAmount decimal.Decimal `json:"seller_payout_amount"`
	SellerEarnings     decimal.Decimal `json:"seller_earnings"`
	NetCashToKeep      decimal.Decimal `json:"net_cash_to_keep"`

	OrderStatus        string  `json:"order_status"`
	PaymentStatus      string  `json:"payment_status"`
	Notes              *string `json:"notes,omitempty"`
	CancellationReason *string `json:"cancellation_reason,omitempty"`

	Items []OrderItemResponse `json:"items"`

	CreatedAt   time.Time  `json:"created_at"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	ShippedAt   *time.Time `json:"shipped_at,omitempty"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
}

// NewOrderDetailResponse maps an order row plus its items to the full
// API shape.
func NewOrderDetailResponse(o *Order, items []OrderItem) *OrderDetailResponse {
	itemResponses := make([]OrderItemResponse, 0, len(items))
	for _, item := range items {
		itemResponses = append(itemResponses, NewOrderItemResponse(item))
	}

	return &OrderDetailResponse{
		ID:                 o.ID,
		OrderNumber:        o.OrderNumber,
		ShopName:           o.ShopName,
		ShopContact:        o.ShopContact,
		CustomerName:       o.CustomerName,
		CustomerPhone:      o.CustomerPhone,
		DeliveryAddress:    o.DeliveryAddress,
		City:               o.City,
		Pincode:            o.Pincode,
		Landmark:           o.Landmark,
		Subtotal:           o.Subtotal,
		CODFee:             o.CODFee,
		CouponCode:         o.CouponCode,
		CouponDiscount:     o.CouponDiscount,
		TotalAmount:        o.TotalAmount,
		CommissionAmount:   o.CommissionAmount,
		SellerPayoutAmount: o.SellerPayoutAmount,
		SellerEarnings:     o.SellerEarnings(),
		NetCashToKeep:      o.NetCashToKeep(),
		OrderStatus:        o.OrderStatus,
		PaymentStatus:      o.PaymentStatus,
		Notes:              o.Notes,
		CancellationReason: o.CancellationReason,
		Items:              itemResponses,
		CreatedAt:          o.CreatedAt,
		ConfirmedAt:        o.ConfirmedAt,
		ShippedAt:          o.ShippedAt,
		DeliveredAt:        o.DeliveredAt,
		CancelledAt:        o.CancelledAt,
	}
}

// =====================================================
// SELLER DASHBOARD
// =====================================================

// DashboardStats carries the aggregate figures computed by the order
// store for one shop. Earnings are net of coupon discounts, which the
// seller absorbs.
type DashboardStats struct {
	PendingOrders   int             `json:"pending_orders"`
	TodayOrders     int             `json:"today_orders"`
	TotalEarnings   decimal.Decimal `json:"total_earnings"`
	PendingEarnings decimal.Decimal `json:"pending_earnings"`
}

type DashboardResponse struct {
	TotalProducts   int                    `json:"total_products"`
	PendingOrders   int                    `json:"pending_orders"`
	TodayOrders     int                    `json:"today_orders"`
	TotalEarnings   decimal.Decimal        `json:"total_earnings"`
	PendingEarnings decimal.Decimal        `json:"pending_earnings"`
	RecentOrders    []OrderSummaryResponse `json:"recent_orders"`
}
