package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

// =====================================================
// REQUESTS
// =====================================================

type CreateReviewRequest struct {
	ProductID  int64   `json:"product_id" binding:"required"`
	OrderID    int64   `json:"order_id" binding:"required"`
	Rating     int     `json:"rating" binding:"required"`
	ReviewText *string `json:"review_text,omitempty"`
}

// Validate validates CreateReviewRequest
func (req CreateReviewRequest) Validate() error {
	if req.ProductID <= 0 {
		return validation.NewError("validation_product_id", "product_id is required")
	}
	if req.OrderID <= 0 {
		return validation.NewError("validation_order_id", "order_id is required")
	}
	if req.Rating < MinRating || req.Rating > MaxRating {
		return validation.NewError("validation_rating", "rating must be between 1 and 5")
	}
	if req.ReviewText != nil && len(*req.ReviewText) > 2000 {
		return validation.NewError("validation_review_text", "review_text must be at most 2000 characters")
	}
	return nil
}

type ListReviewsRequest struct {
	Sort  string `form:"sort"`
	Page  int    `form:"page"`
	Limit int    `form:"limit"`
}

// Validate validates ListReviewsRequest
func (req ListReviewsRequest) Validate() error {
	if req.Sort != "" && !IsValidSort(req.Sort) {
		return validation.NewError("validation_sort", "sort must be one of newest, highest, lowest")
	}
	return nil
}

// =====================================================
// RESPONSES
// =====================================================

type ReviewResponse struct {
	ID                 int64     `json:"id"`
	CustomerName       string    `json:"customer_name"`
	Rating             int       `json:"rating"`
	ReviewText         *string   `json:"review_text"`
	IsVerifiedPurchase bool      `json:"is_verified_purchase"`
	CreatedAt          time.Time `json:"created_at"`
}

func NewReviewResponse(r *Review) ReviewResponse {
	return ReviewResponse{
		ID:                 r.ID,
		CustomerName:       r.CustomerName,
		Rating:             r.Rating,
		ReviewText:         r.ReviewText,
		IsVerifiedPurchase: r.IsVerifiedPurchase,
		CreatedAt:          r.CreatedAt,
	}
}

// ProductReviewsResponse carries a page of reviews together with the
// product's materialized aggregate figures.
type ProductReviewsResponse struct {
	Reviews       []ReviewResponse `json:"reviews"`
	AverageRating decimal.Decimal  `json:"average_rating"`
	ReviewCount   int              `json:"review_count"`
}
