package service

import (
	"context"

	"marketplace-backend/internal/domains/category/model"
)

// CategoryService defines category management operations.
type CategoryService interface {
	CreateCategory(ctx context.Context, req model.CreateCategoryRequest) (*model.Category, error)
	GetCategory(ctx context.Context, idOrSlug string) (*model.Category, error)
	ListCategories(ctx context.Context, includeInactive bool) ([]model.Category, error)
	UpdateCategory(ctx context.Context, id int64, req model.UpdateCategoryRequest) (*model.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
}
