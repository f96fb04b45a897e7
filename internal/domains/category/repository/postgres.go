package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"marketplace-backend/internal/domains/category/model"
)

// =====================================================
// POSTGRES REPOSITORY IMPLEMENTATION
// =====================================================
type postgresCategoryRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresCategoryRepository(pool *pgxpool.Pool) CategoryRepository {
	return &postgresCategoryRepository{
		pool: pool,
	}
}

const categoryColumns = `
	id, name, slug, parent_id, image_url, is_active, created_at, updated_at
`

func scanCategory(row pgx.Row) (*model.Category, error) {
	var c model.Category
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Slug,
		&c.ParentID,
		&c.ImageURL,
		&c.IsActive,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *postgresCategoryRepository) Create(ctx context.Context, category *model.Category) error {
	query := `
		INSERT INTO categories (name, slug, parent_id, image_url, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		category.Name,
		category.Slug,
		category.ParentID,
		category.ImageURL,
		category.IsActive,
	).Scan(&category.ID, &category.CreatedAt, &category.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return model.ErrCategoryExists
			case "23503":
				return model.ErrCategoryNotFound // dangling parent_id
			}
		}
		return fmt.Errorf("failed to create category: %w", err)
	}

	return nil
}

func (r *postgresCategoryRepository) GetByID(ctx context.Context, id int64) (*model.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1`

	category, err := scanCategory(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category by id: %w", err)
	}

	return category, nil
}

func (r *postgresCategoryRepository) GetBySlug(ctx context.Context, slug string) (*model.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE slug = $1`

	category, err := scanCategory(r.pool.QueryRow(ctx, query, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category by slug: %w", err)
	}

	return category, nil
}

func (r *postgresCategoryRepository) List(ctx context.Context, activeOnly bool) ([]model.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories`
	if activeOnly {
		query += ` WHERE is_active = true`
	}
	query += ` ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, *category)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating categories: %w", rows.Err())
	}

	return categories, nil
}

func (r *postgresCategoryRepository) Update(ctx context.Context, category *model.Category) error {
	query := `
		UPDATE categories
		SET name = $1,
			slug = $2,
			parent_id = $3,
			image_url = $4,
			is_active = $5,
			updated_at = NOW()
		WHERE id = $6
		RETURNING updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		category.Name,
		category.Slug,
		category.ParentID,
		category.ImageURL,
		category.IsActive,
		category.ID,
	).Scan(&category.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrCategoryNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.ErrCategoryExists
		}
		return fmt.Errorf("failed to update category: %w", err)
	}

	return nil
}

func (r *postgresCategoryRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM categories WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return model.ErrCategoryInUse
		}
		return fmt.Errorf("failed to delete category: %w", err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrCategoryNotFound
	}

	return nil
}

func (r *postgresCategoryRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM categories WHERE slug = $1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, slug).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check category slug: %w", err)
	}

	return exists, nil
}
