package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"marketplace-backend/internal/domains/shop/model"
	"marketplace-backend/internal/domains/shop/service"
	"marketplace-backend/internal/shared/middleware"
	"marketplace-backend/internal/shared/response"
)

// =====================================================
// SHOP HANDLER
// =====================================================
type ShopHandler struct {
	shopService service.ShopService
}

// NewShopHandler creates a new shop handler
func NewShopHandler(shopService service.ShopService) *ShopHandler {
	return &ShopHandler{
		shopService: shopService,
	}
}

// RegisterRoutes registers seller and admin shop routes.
func (h *ShopHandler) RegisterRoutes(router *gin.RouterGroup, authRequired gin.HandlerFunc) {
	seller := router.Group("/seller/shop", authRequired, middleware.RequireSeller())
	{
		seller.POST("", h.RegisterShop)  // POST /api/v1/seller/shop
		seller.GET("", h.GetMyShop)      // GET /api/v1/seller/shop
		seller.PATCH("", h.UpdateMyShop) // PATCH /api/v1/seller/shop
	}

	admin := router.Group("/admin/shops", authRequired, middleware.RequireAdmin())
	{
		admin.GET("", h.ListShops)                 // GET /api/v1/admin/shops?status=pending
		admin.PATCH("/:id/approve", h.ApproveShop) // PATCH /api/v1/admin/shops/:id/approve
		admin.PATCH("/:id/reject", h.RejectShop)   // PATCH /api/v1/admin/shops/:id/reject
	}
}

// =====================================================
// SELLER ENDPOINTS
// =====================================================

func (h *ShopHandler) RegisterShop(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	var req model.RegisterShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.shopService.RegisterShop(c.Request.Context(), userID, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, result)
}

func (h *ShopHandler) GetMyShop(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	result, err := h.shopService.GetMyShop(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

func (h *ShopHandler) UpdateMyShop(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	var req model.UpdateShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.shopService.UpdateMyShop(c.Request.Context(), userID, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// =====================================================
// ADMIN ENDPOINTS
// =====================================================

func (h *ShopHandler) ListShops(c *gin.Context) {
	var req model.ListShopsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	shops, total, err := h.shopService.ListShops(c.Request.Context(), req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, shops, &response.Meta{
		Page:  req.Page,
		Limit: req.Limit,
		Total: total,
	})
}

func (h *ShopHandler) ApproveShop(c *gin.Context) {
	shopID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid shop ID")
		return
	}

	var req model.ApproveShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.shopService.ApproveShop(c.Request.Context(), shopID, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

func (h *ShopHandler) RejectShop(c *gin.Context) {
	shopID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid shop ID")
		return
	}

	var req model.RejectShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.shopService.RejectShop(c.Request.Context(), shopID, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// =====================================================
// ERROR MAPPING
// =====================================================

// handleServiceError maps service errors to HTTP responses
func (h *ShopHandler) handleServiceError(c *gin.Context, err error) {
	var shopErr *model.ShopError
	if errors.As(err, &shopErr) {
		var details interface{}
		if shopErr.Err != nil {
			details = shopErr.Err.Error()
		}
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, shopErr.Code, shopErr.Message, details)
		return
	}

	switch {
	case errors.Is(err, model.ErrShopNotFound):
		response.ErrorResponse(c, http.StatusNotFound, model.ErrCodeShopNotFound, "Shop not found")
	case errors.Is(err, model.ErrShopAlreadyExists):
		response.ErrorResponse(c, http.StatusConflict, model.ErrCodeShopAlreadyExists, "Seller already has a shop")
	case errors.Is(err, model.ErrShopNotApproved):
		response.ErrorResponse(c, http.StatusForbidden, model.ErrCodeShopNotApproved, "Shop is not approved")
	case errors.Is(err, model.ErrAlreadyDecided):
		response.ErrorResponse(c, http.StatusConflict, model.ErrCodeAlreadyDecided, "Shop approval already decided")
	default:
		response.InternalServerError(c, "Internal server error")
	}
}
