package model

import (
	"time"
)

// =====================================================
// ENTITY: Category
// =====================================================
type Category struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Slug      string    `json:"slug" db:"slug"`
	ParentID  *int64    `json:"parent_id,omitempty" db:"parent_id"`
	ImageURL  *string   `json:"image_url,omitempty" db:"image_url"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// IsRoot reports whether the category sits at the top level.
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}
