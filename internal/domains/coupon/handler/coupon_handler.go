package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	categoryModel "marketplace-backend/internal/domains/category/model"
	"marketplace-backend/internal/domains/coupon/model"
	"marketplace-backend/internal/domains/coupon/service"
	productModel "marketplace-backend/internal/domains/product/model"
	shopModel "marketplace-backend/internal/domains/shop/model"
	"marketplace-backend/internal/shared/middleware"
	"marketplace-backend/internal/shared/response"
)

// =====================================================
// COUPON HANDLER
// =====================================================
type CouponHandler struct {
	couponService service.CouponService
}

// NewCouponHandler creates a new coupon handler
func NewCouponHandler(couponService service.CouponService) *CouponHandler {
	return &CouponHandler{
		couponService: couponService,
	}
}

// RegisterRoutes registers customer preview and seller coupon routes.
func (h *CouponHandler) RegisterRoutes(router *gin.RouterGroup, authRequired gin.HandlerFunc) {
	router.POST("/coupons/validate", authRequired, h.ValidateCoupon) // POST /api/v1/coupons/validate

	seller := router.Group("/seller/coupons", authRequired, middleware.RequireSeller())
	{
		seller.POST("", h.CreateCoupon)
		seller.GET("", h.ListMyCoupons)
		seller.GET("/:id", h.GetMyCoupon)
		seller.PATCH("/:id", h.UpdateCoupon)
		seller.DELETE("/:id", h.DeleteCoupon)
		seller.GET("/:id/usages", h.GetUsageHistory)
	}
}

// =====================================================
// CUSTOMER ENDPOINTS
// =====================================================

func (h *CouponHandler) ValidateCoupon(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	var req model.ValidateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.couponService.ValidateCoupon(c.Request.Context(), userID, req)
	if err != nil {
		// The preview surfaces an unknown code with its own message.
		if errors.Is(err, model.ErrCouponNotFound) {
			response.ErrorResponse(c, http.StatusNotFound, model.ErrCodeCouponNotFound, "Invalid coupon code")
			return
		}
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// =====================================================
// SELLER ENDPOINTS
// =====================================================

func (h *CouponHandler) CreateCoupon(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	var req model.CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.couponService.CreateCoupon(c.Request.Context(), userID, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, result)
}

func (h *CouponHandler) ListMyCoupons(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	var req model.ListCouponsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	coupons, total, err := h.couponService.ListMyCoupons(c.Request.Context(), userID, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, coupons, &response.Meta{
		Page:  req.Page,
		Limit: req.Limit,
		Total: total,
	})
}

func (h *CouponHandler) GetMyCoupon(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	couponID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid coupon ID")
		return
	}

	result, err := h.couponService.GetMyCoupon(c.Request.Context(), userID, couponID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

func (h *CouponHandler) UpdateCoupon(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	couponID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid coupon ID")
		return
	}

	var req model.UpdateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.couponService.UpdateCoupon(c.Request.Context(), userID, couponID, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

func (h *CouponHandler) DeleteCoupon(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	couponID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid coupon ID")
		return
	}

	if err := h.couponService.DeleteCoupon(c.Request.Context(), userID, couponID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Coupon deleted successfully"})
}

func (h *CouponHandler) GetUsageHistory(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	couponID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid coupon ID")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	result, total, err := h.couponService.GetUsageHistory(c.Request.Context(), userID, couponID, page, limit)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, result, &response.Meta{
		Page:  page,
		Limit: limit,
		Total: total,
	})
}

// =====================================================
// ERROR MAPPING
// =====================================================

// handleServiceError maps service errors to HTTP responses
func (h *CouponHandler) handleServiceError(c *gin.Context, err error) {
	var couponErr *model.CouponError
	if errors.As(err, &couponErr) {
		var details interface{}
		if couponErr.Err != nil {
			details = couponErr.Err.Error()
		}
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, couponErr.Code, couponErr.Message, details)
		return
	}

	switch {
	case errors.Is(err, model.ErrCouponNotFound):
		response.ErrorResponse(c, http.StatusNotFound, model.ErrCodeCouponNotFound, "Coupon not found")
	case errors.Is(err, model.ErrCouponInactive):
		response.ErrorResponse(c, http.StatusUnprocessableEntity, model.ErrCodeCouponInactive, "Coupon is inactive")
	case errors.Is(err, model.ErrCouponNotYetValid):
		response.ErrorResponse(c, http.StatusUnprocessableEntity, model.ErrCodeCouponNotYetValid, "Coupon not yet valid")
	case errors.Is(err, model.ErrCouponExpired):
		response.ErrorResponse(c, http.StatusUnprocessableEntity, model.ErrCodeCouponExpired, "Coupon has expired")
	case errors.Is(err, model.ErrCouponLimitReached):
		response.ErrorResponse(c, http.StatusUnprocessableEntity, model.ErrCodeCouponLimitReached, "Coupon usage limit reached")
	case errors.Is(err, model.ErrDuplicateCode):
		response.ErrorResponse(c, http.StatusConflict, model.ErrCodeDuplicateCode, "Coupon code already exists")
	case errors.Is(err, productModel.ErrProductNotFound):
		response.ErrorResponse(c, http.StatusNotFound, productModel.ErrCodeProductNotFound, "Product not found")
	case errors.Is(err, categoryModel.ErrCategoryNotFound):
		response.ErrorResponse(c, http.StatusNotFound, categoryModel.ErrCodeCategoryNotFound, "Category not found")
	case errors.Is(err, shopModel.ErrShopNotFound):
		response.ErrorResponse(c, http.StatusNotFound, shopModel.ErrCodeShopNotFound, "Shop not found")
	case errors.Is(err, shopModel.ErrShopNotApproved):
		response.ErrorResponse(c, http.StatusForbidden, shopModel.ErrCodeShopNotApproved, "Shop is not approved")
	default:
		response.InternalServerError(c, "Internal server error")
	}
}
