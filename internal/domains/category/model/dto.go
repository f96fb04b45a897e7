package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// =====================================================
// CREATE CATEGORY REQUEST
// =====================================================
type CreateCategoryRequest struct {
	Name     string  `json:"name" binding:"required"`
	ParentID *int64  `json:"parent_id,omitempty"`
	ImageURL *string `json:"image_url,omitempty"`
}

// Validate validates CreateCategoryRequest
func (req CreateCategoryRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 100)),
	)
}

// =====================================================
// UPDATE CATEGORY REQUEST
// =====================================================
type UpdateCategoryRequest struct {
	Name     *string `json:"name,omitempty"`
	ParentID *int64  `json:"parent_id,omitempty"`
	ImageURL *string `json:"image_url,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// Validate validates UpdateCategoryRequest
func (req UpdateCategoryRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Name, validation.NilOrNotEmpty, validation.Length(2, 100)),
	)
}
