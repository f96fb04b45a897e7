package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	couponModel "marketplace-backend/internal/domains/coupon/model"
	"marketplace-backend/internal/domains/order/model"
	"marketplace-backend/internal/domains/order/service"
	productModel "marketplace-backend/internal/domains/product/model"
	shopModel "marketplace-backend/internal/domains/shop/model"
	userModel "marketplace-backend/internal/domains/user/model"
	"marketplace-backend/internal/shared/middleware"
	"marketplace-backend/internal/shared/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// =====================================================
// ORDER HANDLER
// =====================================================
type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// RegisterRoutes registers order routes
func (h *OrderHandler) RegisterRoutes(router *gin.RouterGroup, authRequired gin.HandlerFunc) {
	orders := router.Group("/orders", authRequired)
	{
		orders.POST("", h.CreateOrder)                      // POST /api/v1/orders
		orders.GET("", h.ListMyOrders)                      // GET /api/v1/orders
		orders.GET("/:orderNumber", h.GetOrder)             // GET /api/v1/orders/:orderNumber
		orders.POST("/:orderNumber/cancel", h.CancelOrder)  // POST /api/v1/orders/:orderNumber/cancel
	}

	seller := router.Group("/seller", authRequired, middleware.RequireSeller())
	{
		seller.GET("/orders", h.ListShopOrders)
		seller.GET("/orders/export", h.ExportOrders)
		seller.PATCH("/orders/:orderNumber/status", h.UpdateOrderStatus)
		seller.GET("/dashboard", h.GetDashboard)
	}
}

// =====================================================
// CUSTOMER ENDPOINTS
// =====================================================

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	var req model.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), userID, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, order)
}

func (h *OrderHandler) ListMyOrders(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}
	if userType, _ := middleware.GetUserType(c); userType == userModel.UserTypeSeller {
		response.Forbidden(c, "Use the seller orders endpoint")
		return
	}

	var req model.ListOrdersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	orders, total, err := h.orderService.ListMyOrders(c.Request.Context(), userID, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, orders, &response.Meta{
		Page:  req.Page,
		Limit: req.Limit,
		Total: total,
	})
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}
	userType, _ := middleware.GetUserType(c)

	order, err := h.orderService.GetOrder(c.Request.Context(), userID, userType, c.Param("orderNumber"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, order)
}

func (h *OrderHandler) CancelOrder(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}
	if userType, _ := middleware.GetUserType(c); userType == userModel.UserTypeSeller {
		response.Forbidden(c, "Sellers cancel orders through the status endpoint")
		return
	}

	order, err := h.orderService.CancelOrder(c.Request.Context(), userID, c.Param("orderNumber"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, order)
}

// =====================================================
// SELLER ENDPOINTS
// =====================================================

func (h *OrderHandler) ListShopOrders(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	var req model.ListOrdersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	orders, total, err := h.orderService.ListShopOrders(c.Request.Context(), userID, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, orders, &response.Meta{
		Page:  req.Page,
		Limit: req.Limit,
		Total: total,
	})
}

func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	var req model.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	order, err := h.orderService.UpdateOrderStatus(c.Request.Context(), userID, c.Param("orderNumber"), req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, order)
}

func (h *OrderHandler) GetDashboard(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	dashboard, err := h.orderService.GetDashboard(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, dashboard)
}

func (h *OrderHandler) ExportOrders(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	var req model.ListOrdersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	f, err := h.orderService.ExportOrders(c.Request.Context(), userID, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		response.InternalServerError(c, "Failed to render export")
		return
	}

	fileName := fmt.Sprintf("orders_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, fileName))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// =====================================================
// ERROR MAPPING
// =====================================================

func (h *OrderHandler) handleServiceError(c *gin.Context, err error) {
	var orderErr *model.OrderError
	if errors.As(err, &orderErr) {
		// Lifecycle violations are conflicts with current order state,
		// not payload problems.
		status := http.StatusUnprocessableEntity
		switch orderErr.Code {
		case model.ErrCodeInvalidTransition, model.ErrCodeCancellationNotAllowed:
			status = http.StatusConflict
		}
		var details interface{}
		if orderErr.Err != nil {
			details = orderErr.Err.Error()
		}
		response.ErrorWithDetails(c, status, orderErr.Code, orderErr.Message, details)
		return
	}

	var couponErr *couponModel.CouponError
	if errors.As(err, &couponErr) {
		var details interface{}
		if couponErr.Err != nil {
			details = couponErr.Err.Error()
		}
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, couponErr.Code, couponErr.Message, details)
		return
	}

	switch {
	case errors.Is(err, model.ErrOrderNotFound):
		response.ErrorResponse(c, http.StatusNotFound, model.ErrCodeOrderNotFound, "Order not found")
	case errors.Is(err, model.ErrMixedShopCart):
		response.ErrorResponse(c, http.StatusUnprocessableEntity, model.ErrCodeMixedShopCart, "All products must be from the same shop")
	case errors.Is(err, model.ErrInvalidTransition):
		response.ErrorResponse(c, http.StatusConflict, model.ErrCodeInvalidTransition, "Invalid order status transition")
	case errors.Is(err, model.ErrCancellationNotAllowed):
		response.ErrorResponse(c, http.StatusConflict, model.ErrCodeCancellationNotAllowed, "Order can no longer be cancelled")
	case errors.Is(err, productModel.ErrProductNotFound):
		response.ErrorResponse(c, http.StatusNotFound, productModel.ErrCodeProductNotFound, "Product not found")
	case errors.Is(err, productModel.ErrProductInactive):
		response.ErrorResponse(c, http.StatusUnprocessableEntity, productModel.ErrCodeProductInactive, "Product is not available")
	case errors.Is(err, productModel.ErrVariantNotFound):
		response.ErrorResponse(c, http.StatusNotFound, productModel.ErrCodeVariantNotFound, "Variant not found")
	case errors.Is(err, productModel.ErrInsufficientStock):
		response.ErrorResponse(c, http.StatusConflict, productModel.ErrCodeInsufficientStock, "Insufficient stock")
	case errors.Is(err, couponModel.ErrCouponNotFound):
		response.ErrorResponse(c, http.StatusNotFound, couponModel.ErrCodeCouponNotFound, "Invalid coupon code")
	case errors.Is(err, couponModel.ErrCouponInactive):
		response.ErrorResponse(c, http.StatusUnprocessableEntity, couponModel.ErrCodeCouponInactive, "Coupon is inactive")
	case errors.Is(err, couponModel.ErrCouponNotYetValid):
		response.ErrorResponse(c, http.StatusUnprocessableEntity, couponModel.ErrCodeCouponNotYetValid, "Coupon not yet valid")
	case errors.Is(err, couponModel.ErrCouponExpired):
		response.ErrorResponse(c, http.StatusUnprocessableEntity, couponModel.ErrCodeCouponExpired, "Coupon has expired")
	case errors.Is(err, couponModel.ErrCouponLimitReached):
		response.ErrorResponse(c, http.StatusUnprocessableEntity, couponModel.ErrCodeCouponLimitReached, "Coupon usage limit reached")
	case errors.Is(err, shopModel.ErrShopNotFound):
		response.ErrorResponse(c, http.StatusNotFound, shopModel.ErrCodeShopNotFound, "Shop not found")
	case errors.Is(err, shopModel.ErrShopNotApproved):
		response.ErrorResponse(c, http.StatusForbidden, shopModel.ErrCodeShopNotApproved, "Shop is not approved")
	default:
		response.InternalServerError(c, "Internal server error")
	}
}
