package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	categoryModel "marketplace-backend/internal/domains/category/model"
	"marketplace-backend/internal/domains/product/model"
	"marketplace-backend/internal/domains/product/service"
	shopModel "marketplace-backend/internal/domains/shop/model"
	"marketplace-backend/internal/shared/middleware"
	"marketplace-backend/internal/shared/response"
)

// =====================================================
// PRODUCT HANDLER
// =====================================================
type ProductHandler struct {
	productService service.ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

// RegisterRoutes registers public catalog and seller product routes.
func (h *ProductHandler) RegisterRoutes(router *gin.RouterGroup, authRequired gin.HandlerFunc) {
	public := router.Group("/products")
	{
		public.GET("", h.ListProducts)    // GET /api/v1/products
		public.GET("/:id", h.GetProduct)  // GET /api/v1/products/:id
	}

	seller := router.Group("/seller/products", authRequired, middleware.RequireSeller())
	{
		seller.POST("", h.CreateProduct)
		seller.GET("", h.ListMyProducts)
		seller.GET("/:id", h.GetMyProduct)
		seller.PATCH("/:id", h.UpdateProduct)
		seller.DELETE("/:id", h.DeactivateProduct)

		seller.POST("/:id/variants", h.AddVariant)
		seller.PATCH("/:id/variants/:variantId", h.UpdateVariant)
		seller.POST("/:id/variants/:variantId/adjust-stock", h.AdjustVariantStock)

		seller.POST("/:id/images/:slot", h.UploadImage)
	}
}

// =====================================================
// PUBLIC ENDPOINTS
// =====================================================

func (h *ProductHandler) ListProducts(c *gin.Context) {
	var req model.ListProductsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	products, total, err := h.productService.ListProducts(c.Request.Context(), req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, products, &response.Meta{
		Page:  req.Page,
		Limit: req.Limit,
		Total: total,
	})
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid product ID")
		return
	}

	result, err := h.productService.GetProductDetail(c.Request.Context(), productID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// =====================================================
// SELLER ENDPOINTS
// =====================================================

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	var req model.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.productService.CreateProduct(c.Request.Context(), userID, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, result)
}

func (h *ProductHandler) ListMyProducts(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	products, total, err := h.productService.ListMyProducts(c.Request.Context(), userID, page, limit)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, products, &response.Meta{
		Page:  page,
		Limit: limit,
		Total: total,
	})
}

func (h *ProductHandler) GetMyProduct(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid product ID")
		return
	}

	result, err := h.productService.GetMyProduct(c.Request.Context(), userID, productID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid product ID")
		return
	}

	var req model.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.productService.UpdateProduct(c.Request.Context(), userID, productID, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

func (h *ProductHandler) DeactivateProduct(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid product ID")
		return
	}

	if err := h.productService.DeactivateProduct(c.Request.Context(), userID, productID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Product deactivated"})
}

// =====================================================
// VARIANT ENDPOINTS
// =====================================================

func (h *ProductHandler) AddVariant(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid product ID")
		return
	}

	var req model.CreateVariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.productService.AddVariant(c.Request.Context(), userID, productID, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, result)
}

func (h *ProductHandler) UpdateVariant(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid product ID")
		return
	}

	variantID, err := strconv.ParseInt(c.Param("variantId"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid variant ID")
		return
	}

	var req model.UpdateVariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.productService.UpdateVariant(c.Request.Context(), userID, productID, variantID, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

func (h *ProductHandler) AdjustVariantStock(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid product ID")
		return
	}

	variantID, err := strconv.ParseInt(c.Param("variantId"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid variant ID")
		return
	}

	var req model.AdjustVariantStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.productService.AdjustVariantStock(c.Request.Context(), userID, productID, variantID, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// =====================================================
// IMAGE ENDPOINTS
// =====================================================

func (h *ProductHandler) UploadImage(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid product ID")
		return
	}

	slot, err := strconv.Atoi(c.Param("slot"))
	if err != nil {
		response.BadRequest(c, "Invalid image slot")
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		response.BadRequest(c, "Image file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, "Cannot read image file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.BadRequest(c, "Cannot read image file")
		return
	}

	url, err := h.productService.UploadImage(c.Request.Context(), userID, productID, slot, data)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"url": url, "slot": slot})
}

// =====================================================
// ERROR MAPPING
// =====================================================

// handleServiceError maps service errors to HTTP responses
func (h *ProductHandler) handleServiceError(c *gin.Context, err error) {
	var productErr *model.ProductError
	if errors.As(err, &productErr) {
		var details interface{}
		if productErr.Err != nil {
			details = productErr.Err.Error()
		}
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, productErr.Code, productErr.Message, details)
		return
	}

	switch {
	case errors.Is(err, model.ErrProductNotFound):
		response.ErrorResponse(c, http.StatusNotFound, model.ErrCodeProductNotFound, "Product not found")
	case errors.Is(err, model.ErrVariantNotFound):
		response.ErrorResponse(c, http.StatusNotFound, model.ErrCodeVariantNotFound, "Product variant not found")
	case errors.Is(err, model.ErrNotProductOwner):
		response.ErrorResponse(c, http.StatusForbidden, model.ErrCodeNotProductOwner, "Product does not belong to your shop")
	case errors.Is(err, model.ErrInsufficientStock):
		response.ErrorResponse(c, http.StatusConflict, model.ErrCodeInsufficientStock, "Insufficient stock")
	case errors.Is(err, model.ErrDuplicateSKU):
		response.ErrorResponse(c, http.StatusConflict, model.ErrCodeDuplicateSKU, "SKU already exists")
	case errors.Is(err, model.ErrDuplicateVariant):
		response.ErrorResponse(c, http.StatusConflict, model.ErrCodeDuplicateVariant, "Variant with this size and color already exists")
	case errors.Is(err, shopModel.ErrShopNotFound):
		response.ErrorResponse(c, http.StatusNotFound, shopModel.ErrCodeShopNotFound, "Shop not found")
	case errors.Is(err, shopModel.ErrShopNotApproved):
		response.ErrorResponse(c, http.StatusForbidden, shopModel.ErrCodeShopNotApproved, "Shop is not approved")
	case errors.Is(err, categoryModel.ErrCategoryNotFound):
		response.ErrorResponse(c, http.StatusNotFound, categoryModel.ErrCodeCategoryNotFound, "Category not found")
	default:
		response.InternalServerError(c, "Internal server error")
	}
}
