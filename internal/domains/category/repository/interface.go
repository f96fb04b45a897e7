package repository

import (
	"context"

	"marketplace-backend/internal/domains/category/model"
)

// CategoryRepository defines data access for categories.
type CategoryRepository interface {
	Create(ctx context.Context, category *model.Category) error
	GetByID(ctx context.Context, id int64) (*model.Category, error)
	GetBySlug(ctx context.Context, slug string) (*model.Category, error)
	List(ctx context.Context, activeOnly bool) ([]model.Category, error)
	Update(ctx context.Context, category *model.Category) error
	Delete(ctx context.Context, id int64) error
	SlugExists(ctx context.Context, slug string) (bool, error)
}
