package main

import (
	"github.com/hibiken/asynq"

	couponJob "marketplace-backend/internal/domains/coupon/job"
	orderJob "marketplace-backend/internal/domains/order/job"
	productJob "marketplace-backend/internal/domains/product/job"
	"marketplace-backend/internal/shared"
	"marketplace-backend/pkg/container"
)

// HandlerRegistry holds every job handler the worker serves.
type HandlerRegistry struct {
	orderNotifications *orderJob.OrderNotificationHandler
	deactivateCoupons  *couponJob.DeactivateExpiredHandler
	reconcileStock     *productJob.ReconcileStockHandler
}

// initializeHandlers creates all job handlers from the container.
func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		orderNotifications: orderJob.NewOrderNotificationHandler(c.ShopRepo, c.UserRepo, c.Push),
		deactivateCoupons:  couponJob.NewDeactivateExpiredHandler(c.CouponRepo),
		reconcileStock:     productJob.NewReconcileStockHandler(c.ProductRepo),
	}
}

// RegisterHandlers binds task types to their handlers.
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	// Seller push notifications
	mux.HandleFunc(shared.TypeOrderPlacedNotification, h.orderNotifications.ProcessOrderPlaced)
	mux.HandleFunc(shared.TypeOrderCancelledNotification, h.orderNotifications.ProcessOrderCancelled)

	// Scheduled maintenance
	mux.HandleFunc(shared.TypeDeactivateExpiredCoupons, h.deactivateCoupons.ProcessTask)
	mux.HandleFunc(shared.TypeReconcileProductStock, h.reconcileStock.ProcessTask)
}
