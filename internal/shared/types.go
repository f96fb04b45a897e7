package shared

// Asynq task type names. Format: "<domain>:<action>".
const (
	TypeOrderPlacedNotification    = "order:notify_placed"
	TypeOrderCancelledNotification = "order:notify_cancelled"
	TypeDeactivateExpiredCoupons   = "coupon:deactivate_expired"
	TypeReconcileProductStock      = "product:reconcile_stock"
)

// Asynq queue names in priority order.
const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

// OrderNotificationPayload is the payload for order push notification tasks.
type OrderNotificationPayload struct {
	OrderID      int64  `json:"orderId"`
	OrderNumber  string `json:"orderNumber"`
	ShopID       int64  `json:"shopId"`
	TotalAmount  string `json:"totalAmount"`
	CustomerName string `json:"customerName"`
}

// DeactivateExpiredCouponsPayload is the payload for the nightly coupon sweep.
type DeactivateExpiredCouponsPayload struct {
	BatchSize int `json:"batchSize"`
}

// ReconcileProductStockPayload is the payload for the stock reconciliation job.
type ReconcileProductStockPayload struct {
	BatchSize int `json:"batchSize"`
}
