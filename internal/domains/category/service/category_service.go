package service

import (
	"context"
	"strconv"

	"marketplace-backend/internal/domains/category/model"
	"marketplace-backend/internal/domains/category/repository"
	"marketplace-backend/internal/shared/utils"
)

// =====================================================
// CATEGORY SERVICE IMPLEMENTATION
// =====================================================
type categoryService struct {
	categoryRepo repository.CategoryRepository
}

// NewCategoryService creates a new category service
func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
	}
}

func (s *categoryService) CreateCategory(ctx context.Context, req model.CreateCategoryRequest) (*model.Category, error) {
	// Step 1: Validate request
	if err := req.Validate(); err != nil {
		return nil, model.NewCategoryError(model.ErrCodeInvalidCategory, "Invalid category", err)
	}

	// Step 2: Parent must exist when given
	if req.ParentID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, *req.ParentID); err != nil {
			return nil, err
		}
	}

	// Step 3: Slug from name, suffixed on collision
	slug := utils.GenerateSlug(req.Name)
	taken, err := s.categoryRepo.SlugExists(ctx, slug)
	if err != nil {
		return nil, err
	}
	if taken {
		slug = utils.GenerateUniqueSlug(req.Name)
	}

	category := &model.Category{
		Name:     req.Name,
		Slug:     slug,
		ParentID: req.ParentID,
		ImageURL: req.ImageURL,
		IsActive: true,
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

// GetCategory accepts either a numeric ID or a slug.
func (s *categoryService) GetCategory(ctx context.Context, idOrSlug string) (*model.Category, error) {
	if id, err := strconv.ParseInt(idOrSlug, 10, 64); err == nil {
		return s.categoryRepo.GetByID(ctx, id)
	}
	return s.categoryRepo.GetBySlug(ctx, idOrSlug)
}

func (s *categoryService) ListCategories(ctx context.Context, includeInactive bool) ([]model.Category, error) {
	return s.categoryRepo.List(ctx, !includeInactive)
}

func (s *categoryService) UpdateCategory(ctx context.Context, id int64, req model.UpdateCategoryRequest) (*model.Category, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewCategoryError(model.ErrCodeInvalidCategory, "Invalid category update", err)
	}

	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != category.Name {
		category.Name = *req.Name
		category.Slug = utils.GenerateSlug(*req.Name)
		if taken, err := s.categoryRepo.SlugExists(ctx, category.Slug); err == nil && taken {
			category.Slug = utils.GenerateUniqueSlug(*req.Name)
		}
	}
	if req.ParentID != nil {
		category.ParentID = req.ParentID
	}
	if req.ImageURL != nil {
		category.ImageURL = req.ImageURL
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

func (s *categoryService) DeleteCategory(ctx context.Context, id int64) error {
	return s.categoryRepo.Delete(ctx, id)
}
