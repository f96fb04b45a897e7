package service

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"marketplace-backend/internal/config"
	"marketplace-backend/internal/domains/shop/model"
	"marketplace-backend/internal/domains/shop/repository"
	"marketplace-backend/internal/shared/utils"
)

// =====================================================
// SHOP SERVICE IMPLEMENTATION
// =====================================================
type shopService struct {
	shopRepo repository.ShopRepository
	pricing  config.PricingConfig
}

// NewShopService creates a new shop service
func NewShopService(shopRepo repository.ShopRepository, pricing config.PricingConfig) ShopService {
	return &shopService{
		shopRepo: shopRepo,
		pricing:  pricing,
	}
}

// =====================================================
// SELLER OPERATIONS
// =====================================================

func (s *shopService) RegisterShop(ctx context.Context, userID int64, req model.RegisterShopRequest) (*model.Shop, error) {
	// Step 1: Validate request
	if err := req.Validate(); err != nil {
		return nil, model.NewShopError(model.ErrCodeInvalidShop, "Invalid shop registration", err)
	}

	// Step 2: One shop per seller
	existing, err := s.shopRepo.GetByUserID(ctx, userID)
	if err != nil && !errors.Is(err, model.ErrShopNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, model.ErrShopAlreadyExists
	}

	// Step 3: Build shop, pending until an admin decides
	city := req.City
	if city == "" {
		city = model.DefaultCity
	}

	shop := &model.Shop{
		UserID:         userID,
		ShopName:       req.ShopName,
		Address:        req.Address,
		City:           city,
		Pincode:        req.Pincode,
		ContactNumber:  req.ContactNumber,
		ShopImage:      req.ShopImage,
		CommissionRate: s.pricing.DefaultCommissionRate,
		IsApproved:     false,
		ApprovalStatus: model.ApprovalStatusPending,
	}

	if err := s.shopRepo.Create(ctx, shop); err != nil {
		return nil, err
	}

	return shop, nil
}

func (s *shopService) GetMyShop(ctx context.Context, userID int64) (*model.Shop, error) {
	return s.shopRepo.GetByUserID(ctx, userID)
}

func (s *shopService) GetShop(ctx context.Context, shopID int64) (*model.Shop, error) {
	return s.shopRepo.GetByID(ctx, shopID)
}

func (s *shopService) UpdateMyShop(ctx context.Context, userID int64, req model.UpdateShopRequest) (*model.Shop, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewShopError(model.ErrCodeInvalidShop, "Invalid shop update", err)
	}

	shop, err := s.shopRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.ShopName != nil {
		shop.ShopName = *req.ShopName
	}
	if req.Address != nil {
		shop.Address = *req.Address
	}
	if req.City != nil {
		shop.City = *req.City
	}
	if req.Pincode != nil {
		shop.Pincode = *req.Pincode
	}
	if req.ContactNumber != nil {
		shop.ContactNumber = *req.ContactNumber
	}
	if req.ShopImage != nil {
		shop.ShopImage = req.ShopImage
	}

	if err := s.shopRepo.Update(ctx, shop); err != nil {
		return nil, err
	}

	return shop, nil
}

func (s *shopService) RequireApprovedShop(ctx context.Context, userID int64) (*model.Shop, error) {
	shop, err := s.shopRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !shop.CanSell() {
		return nil, model.ErrShopNotApproved
	}
	return shop, nil
}

// =====================================================
// ADMIN OPERATIONS
// =====================================================

func (s *shopService) ApproveShop(ctx context.Context, shopID int64, req model.ApproveShopRequest) (*model.Shop, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewShopError(model.ErrCodeInvalidShop, "Invalid approval request", err)
	}

	shop, err := s.shopRepo.GetByID(ctx, shopID)
	if err != nil {
		return nil, err
	}
	if shop.ApprovalStatus != model.ApprovalStatusPending {
		return nil, model.ErrAlreadyDecided
	}

	var rate *decimal.Decimal
	if req.CommissionRate != nil {
		rate = req.CommissionRate
	}

	return s.shopRepo.UpdateApproval(ctx, shopID, model.ApprovalStatusApproved, rate, nil)
}

func (s *shopService) RejectShop(ctx context.Context, shopID int64, req model.RejectShopRequest) (*model.Shop, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewShopError(model.ErrCodeInvalidShop, "Invalid rejection request", err)
	}

	shop, err := s.shopRepo.GetByID(ctx, shopID)
	if err != nil {
		return nil, err
	}
	if shop.ApprovalStatus != model.ApprovalStatusPending {
		return nil, model.ErrAlreadyDecided
	}

	return s.shopRepo.UpdateApproval(ctx, shopID, model.ApprovalStatusRejected, nil, &req.Reason)
}

func (s *shopService) ListShops(ctx context.Context, req model.ListShopsRequest) ([]model.Shop, int, error) {
	if err := req.Validate(); err != nil {
		return nil, 0, model.NewShopError(model.ErrCodeInvalidShop, "Invalid list request", err)
	}

	page, limit := utils.NormalizePagination(req.Page, req.Limit)
	return s.shopRepo.List(ctx, req.Status, page, limit)
}
