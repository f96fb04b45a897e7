package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	orderModel "marketplace-backend/internal/domains/order/model"
	productModel "marketplace-backend/internal/domains/product/model"
	"marketplace-backend/internal/domains/review/model"
	"marketplace-backend/internal/domains/review/service"
	"marketplace-backend/internal/shared/middleware"
	"marketplace-backend/internal/shared/response"
)

// =====================================================
// REVIEW HANDLER
// =====================================================
type ReviewHandler struct {
	reviewService service.ReviewService
}

func NewReviewHandler(reviewService service.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
	}
}

// RegisterRoutes registers review routes
func (h *ReviewHandler) RegisterRoutes(router *gin.RouterGroup, authRequired gin.HandlerFunc) {
	router.POST("/reviews", authRequired, h.CreateReview)   // POST /api/v1/reviews
	router.GET("/products/:id/reviews", h.ListProductReviews) // GET /api/v1/products/:id/reviews
}

func (h *ReviewHandler) CreateReview(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	var req model.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	review, err := h.reviewService.CreateReview(c.Request.Context(), userID, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, review)
}

func (h *ReviewHandler) ListProductReviews(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid product ID")
		return
	}

	var req model.ListReviewsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	reviews, total, err := h.reviewService.ListProductReviews(c.Request.Context(), productID, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, reviews, &response.Meta{
		Page:  req.Page,
		Limit: req.Limit,
		Total: total,
	})
}

// =====================================================
// ERROR MAPPING
// =====================================================

func (h *ReviewHandler) handleServiceError(c *gin.Context, err error) {
	var reviewErr *model.ReviewError
	if errors.As(err, &reviewErr) {
		status := http.StatusUnprocessableEntity
		switch reviewErr.Code {
		case model.ErrCodeNotOrderOwner:
			status = http.StatusForbidden
		case model.ErrCodeDuplicateReview:
			status = http.StatusConflict
		}
		var details interface{}
		if reviewErr.Err != nil {
			details = reviewErr.Err.Error()
		}
		response.ErrorWithDetails(c, status, reviewErr.Code, reviewErr.Message, details)
		return
	}

	switch {
	case errors.Is(err, model.ErrReviewNotFound):
		response.ErrorResponse(c, http.StatusNotFound, model.ErrCodeReviewNotFound, "Review not found")
	case errors.Is(err, model.ErrDuplicateReview):
		response.ErrorResponse(c, http.StatusConflict, model.ErrCodeDuplicateReview, "You have already reviewed this product")
	case errors.Is(err, productModel.ErrProductNotFound):
		response.ErrorResponse(c, http.StatusNotFound, productModel.ErrCodeProductNotFound, "Product not found")
	case errors.Is(err, orderModel.ErrOrderNotFound):
		response.ErrorResponse(c, http.StatusNotFound, orderModel.ErrCodeOrderNotFound, "Order not found")
	default:
		response.InternalServerError(c, "Internal server error")
	}
}
