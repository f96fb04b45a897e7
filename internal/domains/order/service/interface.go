package service

import (
	"context"

	"github.com/xuri/excelize/v2"

	"marketplace-backend/internal/domains/order/model"
)

// OrderService owns checkout, the order lifecycle and the seller's
// order views.
type OrderService interface {
	// Customer flows
	CreateOrder(ctx context.Context, customerID int64, req model.CreateOrderRequest) (*model.OrderDetailResponse, error)
	ListMyOrders(ctx context.Context, customerID int64, req model.ListOrdersRequest) ([]model.OrderSummaryResponse, int, error)
	CancelOrder(ctx context.Context, customerID int64, orderNumber string) (*model.OrderDetailResponse, error)

	// GetOrder resolves the order for its customer or for the owner
	// of the shop it was placed with, depending on the caller's type.
	GetOrder(ctx context.Context, userID int64, userType, orderNumber string) (*model.OrderDetailResponse, error)

	// Seller flows
	ListShopOrders(ctx context.Context, userID int64, req model.ListOrdersRequest) ([]model.OrderSummaryResponse, int, error)
	UpdateOrderStatus(ctx context.Context, userID int64, orderNumber string, req model.UpdateOrderStatusRequest) (*model.OrderDetailResponse, error)
	GetDashboard(ctx context.Context, userID int64) (*model.DashboardResponse, error)
	ExportOrders(ctx context.Context, userID int64, req model.ListOrdersRequest) (*excelize.File, error)
}
