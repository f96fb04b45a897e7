package service

import (
	"context"

	"marketplace-backend/internal/domains/product/model"
)

// ProductService defines catalog reads and seller-side product management.
type ProductService interface {
	// Public catalog
	ListProducts(ctx context.Context, req model.ListProductsRequest) ([]model.ProductResponse, int, error)
	GetProductDetail(ctx context.Context, productID int64) (*model.ProductDetailResponse, error)

	// Seller management (approved shop required)
	CreateProduct(ctx context.Context, userID int64, req model.CreateProductRequest) (*model.ProductDetailResponse, error)
	ListMyProducts(ctx context.Context, userID int64, page, limit int) ([]model.ProductResponse, int, error)
	GetMyProduct(ctx context.Context, userID, productID int64) (*model.ProductDetailResponse, error)
	UpdateProduct(ctx context.Context, userID, productID int64, req model.UpdateProductRequest) (*model.ProductDetailResponse, error)
	DeactivateProduct(ctx context.Context, userID, productID int64) error

	// Variants
	AddVariant(ctx context.Context, userID, productID int64, req model.CreateVariantRequest) (*model.ProductVariant, error)
	UpdateVariant(ctx context.Context, userID, productID, variantID int64, req model.UpdateVariantRequest) (*model.ProductVariant, error)
	AdjustVariantStock(ctx context.Context, userID, productID, variantID int64, req model.AdjustVariantStockRequest) (*model.ProductVariant, error)

	// Images
	UploadImage(ctx context.Context, userID, productID int64, slot int, data []byte) (string, error)
}
