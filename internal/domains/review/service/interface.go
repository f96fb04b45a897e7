package service

import (
	"context"

	"marketplace-backend/internal/domains/review/model"
)

// =====================================================
// SERVICE INTERFACE
// =====================================================

type ReviewService interface {
	// CreateReview admits a review only for a product the customer
	// bought in one of their own delivered orders, then refreshes the
	// product's rating figures in the same transaction.
	CreateReview(ctx context.Context, customerID int64, req model.CreateReviewRequest) (*model.ReviewResponse, error)

	// ListProductReviews returns a page of a product's reviews plus
	// its aggregate rating figures. Public.
	ListProductReviews(ctx context.Context, productID int64, req model.ListReviewsRequest) (*model.ProductReviewsResponse, int, error)
}
