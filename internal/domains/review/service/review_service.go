package service

import (
	"context"

	orderModel "marketplace-backend/internal/domains/order/model"
	orderRepo "marketplace-backend/internal/domains/order/repository"
	productRepo "marketplace-backend/internal/domains/product/repository"
	"marketplace-backend/internal/domains/review/model"
	"marketplace-backend/internal/domains/review/repository"
	userRepo "marketplace-backend/internal/domains/user/repository"
	"marketplace-backend/internal/shared/utils"
)

// =====================================================
// SERVICE IMPLEMENTATION
// =====================================================
type reviewService struct {
	reviewRepo  repository.ReviewRepository
	orderRepo   orderRepo.OrderRepository
	productRepo productRepo.ProductRepository
	userRepo    userRepo.UserRepository
}

// NewReviewService creates a new review service
func NewReviewService(
	reviewRepo repository.ReviewRepository,
	orderRepo orderRepo.OrderRepository,
	productRepo productRepo.ProductRepository,
	userRepo userRepo.UserRepository,
) ReviewService {
	return &reviewService{
		reviewRepo:  reviewRepo,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
	}
}

// =====================================================
// CREATE REVIEW
// =====================================================

func (s *reviewService) CreateReview(ctx context.Context, customerID int64, req model.CreateReviewRequest) (*model.ReviewResponse, error) {
	// 1. Validate request
	if err := req.Validate(); err != nil {
		return nil, model.NewReviewError(model.ErrCodeInvalidReview, "Invalid review", err)
	}

	// 2. Product must exist
	if _, err := s.productRepo.GetByID(ctx, req.ProductID); err != nil {
		return nil, err
	}

	// 3. Order must exist and belong to the reviewer
	order, err := s.orderRepo.GetByID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	if order.CustomerID != customerID {
		return nil, model.NewReviewError(model.ErrCodeNotOrderOwner,
			"You can only review your own orders", model.ErrNotOrderOwner)
	}

	// 4. Only delivered orders qualify
	if order.OrderStatus != orderModel.OrderStatusDelivered {
		return nil, model.NewReviewError(model.ErrCodeOrderNotDelivered,
			"You can only review delivered orders", model.ErrOrderNotDelivered)
	}

	// 5. The product must appear in the order
	items, err := s.orderRepo.ListItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	inOrder := false
	for _, item := range items {
		if item.ProductID == req.ProductID {
			inOrder = true
			break
		}
	}
	if !inOrder {
		return nil, model.NewReviewError(model.ErrCodeProductNotInOrder,
			"Product not found in this order", model.ErrProductNotInOrder)
	}

	// 6. One review per product per order
	exists, err := s.reviewRepo.ExistsFor(ctx, req.ProductID, order.ID, customerID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, model.NewReviewError(model.ErrCodeDuplicateReview,
			"You have already reviewed this product", model.ErrDuplicateReview)
	}

	review := &model.Review{
		ProductID:          req.ProductID,
		OrderID:            order.ID,
		CustomerID:         customerID,
		Rating:             req.Rating,
		ReviewText:         req.ReviewText,
		IsVerifiedPurchase: true,
	}

	// 7. Insert and refresh the product's rating figures together
	tx, err := s.reviewRepo.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer s.reviewRepo.RollbackTx(ctx, tx)

	if err := s.reviewRepo.CreateTx(ctx, tx, review); err != nil {
		return nil, err
	}

	avg, count, err := s.reviewRepo.AggregateForProductTx(ctx, tx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if err := s.productRepo.UpdateRatingTx(ctx, tx, req.ProductID, avg.Round(2), count); err != nil {
		return nil, err
	}

	if err := s.reviewRepo.CommitTx(ctx, tx); err != nil {
		return nil, err
	}

	// 8. Reviewer name for the response
	customer, err := s.userRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	review.CustomerName = customer.Name

	resp := model.NewReviewResponse(review)
	return &resp, nil
}

// =====================================================
// LIST PRODUCT REVIEWS
// =====================================================

func (s *reviewService) ListProductReviews(ctx context.Context, productID int64, req model.ListReviewsRequest) (*model.ProductReviewsResponse, int, error) {
	// 1. Validate request
	if err := req.Validate(); err != nil {
		return nil, 0, model.NewReviewError(model.ErrCodeInvalidReview, "Invalid review filter", err)
	}

	// 2. Product must exist; its materialized figures ride along
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, 0, err
	}

	// 3. Fetch the page
	page, limit := utils.NormalizePagination(req.Page, req.Limit)
	sort := req.Sort
	if sort == "" {
		sort = model.SortNewest
	}

	reviews, total, err := s.reviewRepo.ListByProduct(ctx, productID, sort, page, limit)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]model.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		responses = append(responses, model.NewReviewResponse(&reviews[i]))
	}

	return &model.ProductReviewsResponse{
		Reviews:       responses,
		AverageRating: product.AverageRating,
		ReviewCount:   product.ReviewCount,
	}, total, nil
}
