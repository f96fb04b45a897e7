package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	categoryRepo "marketplace-backend/internal/domains/category/repository"
	"marketplace-backend/internal/domains/coupon/model"
	"marketplace-backend/internal/domains/coupon/repository"
	productRepo "marketplace-backend/internal/domains/product/repository"
	shop "marketplace-backend/internal/domains/shop/service"
	"marketplace-backend/internal/shared/utils"
)

// =====================================================
// COUPON SERVICE IMPLEMENTATION
// =====================================================
type couponService struct {
	couponRepo   repository.CouponRepository
	productRepo  productRepo.ProductRepository
	categoryRepo categoryRepo.CategoryRepository
	shopService  shop.ShopService
}

// NewCouponService creates a new coupon service
func NewCouponService(
	couponRepo repository.CouponRepository,
	productRepo productRepo.ProductRepository,
	categoryRepo categoryRepo.CategoryRepository,
	shopService shop.ShopService,
) CouponService {
	return &couponService{
		couponRepo:   couponRepo,
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		shopService:  shopService,
	}
}

// =====================================================
// SELLER MANAGEMENT
// =====================================================

func (s *couponService) CreateCoupon(ctx context.Context, userID int64, req model.CreateCouponRequest) (*model.Coupon, error) {
	// Step 1: Validate request
	if err := req.Validate(); err != nil {
		return nil, model.NewCouponError(model.ErrCodeInvalidCoupon, "Invalid coupon", err)
	}

	// Step 2: Seller must own an approved shop
	sellerShop, err := s.shopService.RequireApprovedShop(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Step 3: Normalize scope and verify its target exists
	applicability := req.Applicability
	if applicability == "" {
		applicability = model.ApplicabilityAll
	}
	categoryID, productID, err := s.resolveScope(ctx, applicability, req.CategoryID, req.ProductID)
	if err != nil {
		return nil, err
	}

	// Step 4: Apply defaults
	minOrderValue := decimal.Zero
	if req.MinOrderValue != nil {
		minOrderValue = *req.MinOrderValue
	}
	maxUsesPerCustomer := 1
	if req.MaxUsesPerCustomer != nil {
		maxUsesPerCustomer = *req.MaxUsesPerCustomer
	}
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	// Step 5: Persist; the code is stored uppercased and must be
	// globally unique
	coupon := &model.Coupon{
		ShopID:             sellerShop.ID,
		Code:               strings.ToUpper(strings.TrimSpace(req.Code)),
		Description:        req.Description,
		DiscountType:       req.DiscountType,
		DiscountValue:      req.DiscountValue,
		Applicability:      applicability,
		CategoryID:         categoryID,
		ProductID:          productID,
		MinOrderValue:      minOrderValue,
		MaxUses:            req.MaxUses,
		MaxUsesPerCustomer: maxUsesPerCustomer,
		TimesUsed:          0,
		IsActive:           isActive,
		ValidFrom:          req.ValidFrom,
		ValidTo:            req.ValidTo,
	}

	if err := s.couponRepo.Create(ctx, coupon); err != nil {
		return nil, err
	}

	return coupon, nil
}

func (s *couponService) ListMyCoupons(ctx context.Context, userID int64, req model.ListCouponsRequest) ([]model.Coupon, int, error) {
	sellerShop, err := s.shopService.RequireApprovedShop(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	page, limit := utils.NormalizePagination(req.Page, req.Limit)

	return s.couponRepo.ListByShop(ctx, sellerShop.ID, req.IsActive, page, limit)
}

func (s *couponService) GetMyCoupon(ctx context.Context, userID, couponID int64) (*model.Coupon, error) {
	sellerShop, err := s.shopService.RequireApprovedShop(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.couponRepo.GetByIDForShop(ctx, couponID, sellerShop.ID)
}

func (s *couponService) UpdateCoupon(ctx context.Context, userID, couponID int64, req model.UpdateCouponRequest) (*model.Coupon, error) {
	// Step 1: Validate request
	if err := req.Validate(); err != nil {
		return nil, model.NewCouponError(model.ErrCodeInvalidCoupon, "Invalid coupon update", err)
	}

	// Step 2: Load the coupon scoped to the seller's shop
	sellerShop, err := s.shopService.RequireApprovedShop(ctx, userID)
	if err != nil {
		return nil, err
	}
	coupon, err := s.couponRepo.GetByIDForShop(ctx, couponID, sellerShop.ID)
	if err != nil {
		return nil, err
	}

	// Step 3: Apply changes (code is immutable)
	if req.Description != nil {
		coupon.Description = req.Description
	}
	if req.DiscountType != nil {
		coupon.DiscountType = *req.DiscountType
	}
	if req.DiscountValue != nil {
		coupon.DiscountValue = *req.DiscountValue
	}
	if req.Applicability != nil {
		coupon.Applicability = *req.Applicability
	}
	if req.CategoryID != nil {
		coupon.CategoryID = req.CategoryID
	}
	if req.ProductID != nil {
		coupon.ProductID = req.ProductID
	}
	if req.MinOrderValue != nil {
		coupon.MinOrderValue = *req.MinOrderValue
	}
	if req.MaxUses != nil {
		coupon.MaxUses = req.MaxUses
	}
	if req.MaxUsesPerCustomer != nil {
		coupon.MaxUsesPerCustomer = *req.MaxUsesPerCustomer
	}
	if req.IsActive != nil {
		coupon.IsActive = *req.IsActive
	}
	if req.ValidFrom != nil {
		coupon.ValidFrom = *req.ValidFrom
	}
	if req.ValidTo != nil {
		coupon.ValidTo = *req.ValidTo
	}

	// Step 4: The combined state must still hold together
	if coupon.DiscountType == model.DiscountTypePercentage && coupon.DiscountValue.GreaterThan(decimal.NewFromInt(100)) {
		return nil, model.NewCouponError(model.ErrCodeInvalidCoupon, "Percentage discount cannot exceed 100", nil)
	}
	if !coupon.ValidTo.After(coupon.ValidFrom) {
		return nil, model.NewCouponError(model.ErrCodeInvalidCoupon, "valid_to must be after valid_from", nil)
	}
	coupon.CategoryID, coupon.ProductID, err = s.resolveScope(ctx, coupon.Applicability, coupon.CategoryID, coupon.ProductID)
	if err != nil {
		return nil, err
	}

	// Step 5: Persist
	if err := s.couponRepo.Update(ctx, coupon); err != nil {
		return nil, err
	}

	return coupon, nil
}

func (s *couponService) DeleteCoupon(ctx context.Context, userID, couponID int64) error {
	sellerShop, err := s.shopService.RequireApprovedShop(ctx, userID)
	if err != nil {
		return err
	}

	return s.couponRepo.Delete(ctx, couponID, sellerShop.ID)
}

func (s *couponService) GetUsageHistory(ctx context.Context, userID, couponID int64, page, limit int) (*model.UsageHistoryResponse, int, error) {
	sellerShop, err := s.shopService.RequireApprovedShop(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	coupon, err := s.couponRepo.GetByIDForShop(ctx, couponID, sellerShop.ID)
	if err != nil {
		return nil, 0, err
	}

	page, limit = utils.NormalizePagination(page, limit)

	usages, total, err := s.couponRepo.ListUsages(ctx, couponID, page, limit)
	if err != nil {
		return nil, 0, err
	}
	if usages == nil {
		usages = []model.CouponUsage{}
	}

	return &model.UsageHistoryResponse{
		Coupon: coupon,
		Usages: usages,
	}, total, nil
}

// =====================================================
// CUSTOMER PREVIEW
// =====================================================

func (s *couponService) ValidateCoupon(ctx context.Context, customerID int64, req model.ValidateCouponRequest) (*model.ValidateCouponResponse, error) {
	// Step 1: Validate request
	if err := req.Validate(); err != nil {
		return nil, model.NewCouponError(model.ErrCodeInvalidCoupon, "Invalid validation request", err)
	}

	// Step 2: Resolve the code
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	coupon, err := s.couponRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	// Step 3: Validity window and per-customer cap
	if err := s.checkRedeemable(ctx, coupon, customerID, time.Now()); err != nil {
		return nil, err
	}

	// Step 4: Price the cart server-side; every product must belong to
	// the coupon's shop
	items := make([]model.PricedItem, 0, len(req.CartItems))
	for _, cartItem := range req.CartItems {
		product, err := s.productRepo.GetByID(ctx, cartItem.ProductID)
		if err != nil {
			return nil, err
		}
		if product.ShopID != coupon.ShopID {
			return nil, s.shopMismatchError(ctx, coupon)
		}
		items = append(items, model.PricedItem{
			ProductID:    product.ID,
			CategoryID:   product.CategoryID,
			ItemSubtotal: product.DisplayPrice.Mul(decimal.NewFromInt(int64(cartItem.Quantity))),
		})
	}

	// Step 5: Compute the discount over the applicable lines
	applicableTotal, discount, err := model.ComputeDiscount(coupon, items)
	if err != nil {
		return nil, err
	}

	return &model.ValidateCouponResponse{
		Valid: true,
		Coupon: model.CouponSummary{
			ID:              coupon.ID,
			Code:            coupon.Code,
			DiscountType:    coupon.DiscountType,
			DiscountValue:   coupon.DiscountValue,
			DiscountDisplay: coupon.DiscountDisplay(),
		},
		ApplicableTotal: applicableTotal,
		DiscountAmount:  discount,
		Message:         fmt.Sprintf("Coupon applied! You saved ₹%s", discount.StringFixed(2)),
	}, nil
}

// =====================================================
// ORDER EVALUATION
// =====================================================

func (s *couponService) EvaluateForOrder(ctx context.Context, code string, shopID, customerID int64, items []model.PricedItem) (*model.Coupon, decimal.Decimal, error) {
	coupon, err := s.couponRepo.GetByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, decimal.Zero, err
	}

	if coupon.ShopID != shopID {
		return nil, decimal.Zero, s.shopMismatchError(ctx, coupon)
	}

	if err := s.checkRedeemable(ctx, coupon, customerID, time.Now()); err != nil {
		return nil, decimal.Zero, err
	}

	_, discount, err := model.ComputeDiscount(coupon, items)
	if err != nil {
		return nil, decimal.Zero, err
	}

	return coupon, discount, nil
}

// =====================================================
// HELPERS
// =====================================================

// checkRedeemable runs the validity window and the per-customer cap.
func (s *couponService) checkRedeemable(ctx context.Context, coupon *model.Coupon, customerID int64, now time.Time) error {
	if err := coupon.ValidateAt(now); err != nil {
		return err
	}

	used, err := s.couponRepo.CountUsageByCustomer(ctx, coupon.ID, customerID)
	if err != nil {
		return err
	}
	if used >= coupon.MaxUsesPerCustomer {
		return model.NewCouponError(
			model.ErrCodeCustomerLimitReached,
			fmt.Sprintf("You have already used this coupon %d time(s)", coupon.MaxUsesPerCustomer),
			model.ErrCustomerLimitReached,
		)
	}

	return nil
}

// resolveScope verifies the scope target exists and clears the FK that
// the scope does not use.
func (s *couponService) resolveScope(ctx context.Context, applicability string, categoryID, productID *int64) (*int64, *int64, error) {
	switch applicability {
	case model.ApplicabilityCategory:
		if categoryID == nil {
			return nil, nil, model.NewCouponError(model.ErrCodeInvalidCoupon, "category_id is required when applicability is category", nil)
		}
		if _, err := s.categoryRepo.GetByID(ctx, *categoryID); err != nil {
			return nil, nil, err
		}
		return categoryID, nil, nil
	case model.ApplicabilityProduct:
		if productID == nil {
			return nil, nil, model.NewCouponError(model.ErrCodeInvalidCoupon, "product_id is required when applicability is product", nil)
		}
		if _, err := s.productRepo.GetByID(ctx, *productID); err != nil {
			return nil, nil, err
		}
		return nil, productID, nil
	default:
		return nil, nil, nil
	}
}

func (s *couponService) shopMismatchError(ctx context.Context, coupon *model.Coupon) error {
	message := "Coupon is not valid for this shop"
	if couponShop, err := s.shopService.GetShop(ctx, coupon.ShopID); err == nil {
		message = fmt.Sprintf("Coupon is only valid for products from %s", couponShop.ShopName)
	}
	return model.NewCouponError(model.ErrCodeShopMismatch, message, model.ErrShopMismatch)
}
