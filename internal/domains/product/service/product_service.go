package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	category "marketplace-backend/internal/domains/category/repository"
	"marketplace-backend/internal/domains/product/model"
	"marketplace-backend/internal/domains/product/repository"
	shop "marketplace-backend/internal/domains/shop/service"
	"marketplace-backend/internal/infrastructure/storage"
	"marketplace-backend/internal/shared/utils"
	"marketplace-backend/pkg/cache"
)

const (
	productDetailCacheKey = "product:detail:%d"
	productDetailCacheTTL = 10 * time.Minute
)

// =====================================================
// PRODUCT SERVICE IMPLEMENTATION
// =====================================================
type productService struct {
	productRepo    repository.ProductRepository
	categoryRepo   category.CategoryRepository
	shopService    shop.ShopService
	cache          cache.Cache
	imageProcessor *storage.ImageProcessor
	minio          *storage.MinIOStorage
}

// NewProductService creates a new product service
func NewProductService(
	productRepo repository.ProductRepository,
	categoryRepo category.CategoryRepository,
	shopService shop.ShopService,
	cache cache.Cache,
	imageProcessor *storage.ImageProcessor,
	minio *storage.MinIOStorage,
) ProductService {
	return &productService{
		productRepo:    productRepo,
		categoryRepo:   categoryRepo,
		shopService:    shopService,
		cache:          cache,
		imageProcessor: imageProcessor,
		minio:          minio,
	}
}

// =====================================================
// PUBLIC CATALOG
// =====================================================

func (s *productService) ListProducts(ctx context.Context, req model.ListProductsRequest) ([]model.ProductResponse, int, error) {
	req.Page, req.Limit = utils.NormalizePagination(req.Page, req.Limit)

	products, total, err := s.productRepo.List(ctx, req)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]model.ProductResponse, len(products))
	for i := range products {
		responses[i] = model.NewProductResponse(&products[i])
	}

	return responses, total, nil
}

func (s *productService) GetProductDetail(ctx context.Context, productID int64) (*model.ProductDetailResponse, error) {
	cacheKey := fmt.Sprintf(productDetailCacheKey, productID)

	var cached model.ProductDetailResponse
	found, err := s.cache.Get(ctx, cacheKey, &cached)
	if found {
		return &cached, nil
	}
	if err != nil {
		// A broken cache degrades to a database read.
		log.Warn().Err(err).Str("key", cacheKey).Msg("product detail cache read failed")
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	// Inactive products and products of unapproved shops are invisible
	// to the public catalog.
	if !product.IsActive {
		return nil, model.ErrProductNotFound
	}
	productShop, err := s.shopService.GetShop(ctx, product.ShopID)
	if err != nil {
		return nil, err
	}
	if !productShop.IsApproved {
		return nil, model.ErrProductNotFound
	}

	variants, err := s.productRepo.ListVariants(ctx, productID)
	if err != nil {
		return nil, err
	}

	active := make([]model.ProductVariant, 0, len(variants))
	for _, v := range variants {
		if v.IsActive {
			active = append(active, v)
		}
	}

	detail := model.NewProductDetailResponse(product, active)

	if err := s.cache.Set(ctx, cacheKey, detail, productDetailCacheTTL); err != nil {
		log.Warn().Err(err).Str("key", cacheKey).Msg("failed to cache product detail")
	}

	return detail, nil
}

// =====================================================
// SELLER MANAGEMENT
// =====================================================

func (s *productService) CreateProduct(ctx context.Context, userID int64, req model.CreateProductRequest) (*model.ProductDetailResponse, error) {
	// Step 1: Validate request
	if err := req.Validate(); err != nil {
		return nil, model.NewProductError(model.ErrCodeInvalidProduct, "Invalid product", err)
	}

	// Step 2: Seller must own an approved shop
	sellerShop, err := s.shopService.RequireApprovedShop(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Step 3: Category must exist when given
	if req.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
	}

	// Step 4: Commission falls back to the shop rate, display price is derived
	commissionRate := sellerShop.CommissionRate
	if req.CommissionRate != nil {
		commissionRate = *req.CommissionRate
	}
	displayPrice := model.ComputeDisplayPrice(req.BasePrice, commissionRate)

	// Step 5: Slug from name, suffixed on collision
	slug := utils.GenerateSlug(req.Name)
	taken, err := s.productRepo.SlugExists(ctx, slug)
	if err != nil {
		return nil, err
	}
	if taken {
		slug = utils.GenerateUniqueSlug(req.Name)
	}

	// Step 6: Assemble the product and its variants
	product := &model.Product{
		ShopID:         sellerShop.ID,
		CategoryID:     req.CategoryID,
		Name:           req.Name,
		Slug:           slug,
		Description:    req.Description,
		BasePrice:      req.BasePrice,
		CommissionRate: commissionRate,
		DisplayPrice:   displayPrice,
		MRP:            req.MRP,
		StockQuantity:  req.StockQuantity,
		Sizes:          pq.StringArray(req.Sizes),
		Colors:         pq.StringArray(req.Colors),
		IsActive:       true,
	}

	variants := make([]model.ProductVariant, len(req.Variants))
	for i, v := range req.Variants {
		sku := model.GenerateSKU()
		if v.SKU != nil && strings.TrimSpace(*v.SKU) != "" {
			sku = strings.TrimSpace(*v.SKU)
		}
		variants[i] = model.ProductVariant{
			Size:          v.Size,
			Color:         v.Color,
			SKU:           sku,
			StockQuantity: v.StockQuantity,
			IsActive:      true,
		}
	}

	// Step 7: Persist product and variants atomically
	if err := s.productRepo.CreateWithVariants(ctx, product, variants); err != nil {
		return nil, err
	}

	return model.NewProductDetailResponse(product, variants), nil
}

func (s *productService) ListMyProducts(ctx context.Context, userID int64, page, limit int) ([]model.ProductResponse, int, error) {
	sellerShop, err := s.shopService.RequireApprovedShop(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	page, limit = utils.NormalizePagination(page, limit)

	products, total, err := s.productRepo.ListByShop(ctx, sellerShop.ID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]model.ProductResponse, len(products))
	for i := range products {
		responses[i] = model.NewProductResponse(&products[i])
	}

	return responses, total, nil
}

func (s *productService) GetMyProduct(ctx context.Context, userID, productID int64) (*model.ProductDetailResponse, error) {
	product, err := s.getOwnedProduct(ctx, userID, productID)
	if err != nil {
		return nil, err
	}

	variants, err := s.productRepo.ListVariants(ctx, productID)
	if err != nil {
		return nil, err
	}

	return model.NewProductDetailResponse(product, variants), nil
}

func (s *productService) UpdateProduct(ctx context.Context, userID, productID int64, req model.UpdateProductRequest) (*model.ProductDetailResponse, error) {
	// Step 1: Validate request
	if err := req.Validate(); err != nil {
		return nil, model.NewProductError(model.ErrCodeInvalidProduct, "Invalid product update", err)
	}

	// Step 2: Load and check ownership
	product, err := s.getOwnedProduct(ctx, userID, productID)
	if err != nil {
		return nil, err
	}

	variants, err := s.productRepo.ListVariants(ctx, productID)
	if err != nil {
		return nil, err
	}

	// Step 3: Category must exist when changed
	if req.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
		product.CategoryID = req.CategoryID
	}

	// Step 4: Apply changes
	if req.Name != nil && *req.Name != product.Name {
		product.Name = *req.Name
		product.Slug = utils.GenerateSlug(*req.Name)
		if taken, err := s.productRepo.SlugExists(ctx, product.Slug); err == nil && taken {
			product.Slug = utils.GenerateUniqueSlug(*req.Name)
		}
	}
	if req.Description != nil {
		product.Description = req.Description
	}
	if req.BasePrice != nil {
		product.BasePrice = *req.BasePrice
	}
	if req.CommissionRate != nil {
		product.CommissionRate = *req.CommissionRate
	}
	if req.MRP != nil {
		product.MRP = req.MRP
	}
	// Stock of variant-tracked products only moves through variants.
	if req.StockQuantity != nil && len(variants) == 0 {
		product.StockQuantity = *req.StockQuantity
	}
	if req.Sizes != nil {
		product.Sizes = pq.StringArray(req.Sizes)
	}
	if req.Colors != nil {
		product.Colors = pq.StringArray(req.Colors)
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	// Step 5: Display price is always re-derived, never set directly
	product.DisplayPrice = model.ComputeDisplayPrice(product.BasePrice, product.CommissionRate)

	// Step 6: Persist and invalidate the cached detail
	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	s.invalidateDetailCache(ctx, product.ID)

	return model.NewProductDetailResponse(product, variants), nil
}

func (s *productService) DeactivateProduct(ctx context.Context, userID, productID int64) error {
	product, err := s.getOwnedProduct(ctx, userID, productID)
	if err != nil {
		return err
	}

	if !product.IsActive {
		return nil
	}

	product.IsActive = false
	if err := s.productRepo.Update(ctx, product); err != nil {
		return err
	}
	s.invalidateDetailCache(ctx, product.ID)

	return nil
}

// =====================================================
// VARIANTS
// =====================================================

func (s *productService) AddVariant(ctx context.Context, userID, productID int64, req model.CreateVariantRequest) (*model.ProductVariant, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewProductError(model.ErrCodeInvalidProduct, "Invalid variant", err)
	}

	if _, err := s.getOwnedProduct(ctx, userID, productID); err != nil {
		return nil, err
	}

	sku := model.GenerateSKU()
	if req.SKU != nil && strings.TrimSpace(*req.SKU) != "" {
		sku = strings.TrimSpace(*req.SKU)
	}

	variant := &model.ProductVariant{
		ProductID:     productID,
		Size:          req.Size,
		Color:         req.Color,
		SKU:           sku,
		StockQuantity: req.StockQuantity,
		IsActive:      true,
	}

	if err := s.productRepo.AddVariant(ctx, variant); err != nil {
		return nil, err
	}
	s.invalidateDetailCache(ctx, productID)

	return variant, nil
}

func (s *productService) UpdateVariant(ctx context.Context, userID, productID, variantID int64, req model.UpdateVariantRequest) (*model.ProductVariant, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewProductError(model.ErrCodeInvalidProduct, "Invalid variant update", err)
	}

	if _, err := s.getOwnedProduct(ctx, userID, productID); err != nil {
		return nil, err
	}

	variant, err := s.getScopedVariant(ctx, productID, variantID)
	if err != nil {
		return nil, err
	}

	if req.StockQuantity != nil {
		variant.StockQuantity = *req.StockQuantity
	}
	if req.IsActive != nil {
		variant.IsActive = *req.IsActive
	}

	if err := s.productRepo.UpdateVariant(ctx, variant); err != nil {
		return nil, err
	}
	s.invalidateDetailCache(ctx, productID)

	return variant, nil
}

func (s *productService) AdjustVariantStock(ctx context.Context, userID, productID, variantID int64, req model.AdjustVariantStockRequest) (*model.ProductVariant, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewProductError(model.ErrCodeInvalidProduct, "Invalid stock adjustment", err)
	}

	if _, err := s.getOwnedProduct(ctx, userID, productID); err != nil {
		return nil, err
	}

	if _, err := s.getScopedVariant(ctx, productID, variantID); err != nil {
		return nil, err
	}

	variant, err := s.productRepo.AdjustVariantStock(ctx, variantID, req.Delta)
	if err != nil {
		return nil, err
	}
	s.invalidateDetailCache(ctx, productID)

	return variant, nil
}

// =====================================================
// IMAGES
// =====================================================

func (s *productService) UploadImage(ctx context.Context, userID, productID int64, slot int, data []byte) (string, error) {
	if slot < 1 || slot > 5 {
		return "", model.NewProductError(model.ErrCodeInvalidImage, "image slot must be between 1 and 5", nil)
	}

	product, err := s.getOwnedProduct(ctx, userID, productID)
	if err != nil {
		return "", err
	}

	if err := s.imageProcessor.ValidateImage(data); err != nil {
		return "", model.NewProductError(model.ErrCodeInvalidImage, "invalid image", err)
	}

	renditions, err := s.imageProcessor.ProcessImage(data)
	if err != nil {
		return "", model.NewProductError(model.ErrCodeInvalidImage, "failed to process image", err)
	}

	// One token groups the renditions of a single upload.
	token := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]

	var imageURL string
	for name, payload := range renditions {
		key := fmt.Sprintf("products/%d/%s_%s.jpg", product.ID, token, name)
		url, err := s.minio.Upload(ctx, key, payload, "image/jpeg")
		if err != nil {
			return "", fmt.Errorf("failed to upload image rendition: %w", err)
		}
		if name == "large" {
			imageURL = url
		}
	}

	if err := s.productRepo.SetImage(ctx, product.ID, slot, &imageURL); err != nil {
		return "", err
	}
	s.invalidateDetailCache(ctx, product.ID)

	return imageURL, nil
}

// =====================================================
// HELPERS
// =====================================================

// getOwnedProduct loads a product and verifies it belongs to the
// seller's approved shop.
func (s *productService) getOwnedProduct(ctx context.Context, userID, productID int64) (*model.Product, error) {
	sellerShop, err := s.shopService.RequireApprovedShop(ctx, userID)
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if product.ShopID != sellerShop.ID {
		return nil, model.ErrNotProductOwner
	}

	return product, nil
}

// getScopedVariant loads a variant and verifies it belongs to the product.
func (s *productService) getScopedVariant(ctx context.Context, productID, variantID int64) (*model.ProductVariant, error) {
	variant, err := s.productRepo.GetVariantByID(ctx, variantID)
	if err != nil {
		return nil, err
	}
	if variant.ProductID != productID {
		return nil, model.ErrVariantNotFound
	}
	return variant, nil
}

func (s *productService) invalidateDetailCache(ctx context.Context, productID int64) {
	cacheKey := fmt.Sprintf(productDetailCacheKey, productID)
	if err := s.cache.Delete(ctx, cacheKey); err != nil {
		log.Warn().Err(err).Str("key", cacheKey).Msg("failed to invalidate product detail cache")
	}
}
