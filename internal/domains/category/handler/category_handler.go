package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"marketplace-backend/internal/domains/category/model"
	"marketplace-backend/internal/domains/category/service"
	"marketplace-backend/internal/shared/middleware"
	"marketplace-backend/internal/shared/response"
)

// =====================================================
// CATEGORY HANDLER
// =====================================================
type CategoryHandler struct {
	categoryService service.CategoryService
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(categoryService service.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
	}
}

// RegisterRoutes registers public and admin category routes.
func (h *CategoryHandler) RegisterRoutes(router *gin.RouterGroup, authRequired gin.HandlerFunc) {
	public := router.Group("/categories")
	{
		public.GET("", h.ListCategories)        // GET /api/v1/categories
		public.GET("/:idOrSlug", h.GetCategory) // GET /api/v1/categories/:idOrSlug
	}

	admin := router.Group("/admin/categories", authRequired, middleware.RequireAdmin())
	{
		admin.POST("", h.CreateCategory)       // POST /api/v1/admin/categories
		admin.PATCH("/:id", h.UpdateCategory)  // PATCH /api/v1/admin/categories/:id
		admin.DELETE("/:id", h.DeleteCategory) // DELETE /api/v1/admin/categories/:id
	}
}

func (h *CategoryHandler) ListCategories(c *gin.Context) {
	includeInactive := c.Query("include_inactive") == "true"

	// Only admins may see inactive categories
	if includeInactive {
		if userType, ok := middleware.GetUserType(c); !ok || userType != "admin" {
			includeInactive = false
		}
	}

	result, err := h.categoryService.ListCategories(c.Request.Context(), includeInactive)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

func (h *CategoryHandler) GetCategory(c *gin.Context) {
	result, err := h.categoryService.GetCategory(c.Request.Context(), c.Param("idOrSlug"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req model.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.categoryService.CreateCategory(c.Request.Context(), req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, result)
}

func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid category ID")
		return
	}

	var req model.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.categoryService.UpdateCategory(c.Request.Context(), id, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid category ID")
		return
	}

	if err := h.categoryService.DeleteCategory(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Category deleted"})
}

// =====================================================
// ERROR MAPPING
// =====================================================

// handleServiceError maps service errors to HTTP responses
func (h *CategoryHandler) handleServiceError(c *gin.Context, err error) {
	var catErr *model.CategoryError
	if errors.As(err, &catErr) {
		var details interface{}
		if catErr.Err != nil {
			details = catErr.Err.Error()
		}
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, catErr.Code, catErr.Message, details)
		return
	}

	switch {
	case errors.Is(err, model.ErrCategoryNotFound):
		response.ErrorResponse(c, http.StatusNotFound, model.ErrCodeCategoryNotFound, "Category not found")
	case errors.Is(err, model.ErrCategoryExists):
		response.ErrorResponse(c, http.StatusConflict, model.ErrCodeCategoryExists, "Category with this slug already exists")
	case errors.Is(err, model.ErrCategoryInUse):
		response.ErrorResponse(c, http.StatusConflict, model.ErrCodeCategoryInUse, "Category has products or child categories")
	default:
		response.InternalServerError(c, "Internal server error")
	}
}
