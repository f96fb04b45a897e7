package service

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	categoryModel "marketplace-backend/internal/domains/category/model"
	categoryRepo "marketplace-backend/internal/domains/category/repository"
	"marketplace-backend/internal/domains/coupon/model"
	"marketplace-backend/internal/domains/coupon/repository"
	productModel "marketplace-backend/internal/domains/product/model"
	productRepo "marketplace-backend/internal/domains/product/repository"
	shopModel "marketplace-backend/internal/domains/shop/model"
	shop "marketplace-backend/internal/domains/shop/service"
)

// =====================================================
// MOCK IMPLEMENTATIONS
// =====================================================

var (
	_ repository.CouponRepository     = (*mockCouponRepo)(nil)
	_ productRepo.ProductRepository   = (*mockProductRepo)(nil)
	_ categoryRepo.CategoryRepository = (*mockCategoryRepo)(nil)
	_ shop.ShopService                = (*mockShopService)(nil)
)

type mockCouponRepo struct {
	byCode     map[string]*model.Coupon
	usageCount int
	created    *model.Coupon
}

func newMockCouponRepo(coupons ...*model.Coupon) *mockCouponRepo {
	m := &mockCouponRepo{byCode: make(map[string]*model.Coupon)}
	for _, c := range coupons {
		m.byCode[c.Code] = c
	}
	return m
}

func (m *mockCouponRepo) Create(_ context.Context, coupon *model.Coupon) error {
	coupon.ID = 1
	m.created = coupon
	return nil
}

func (m *mockCouponRepo) GetByID(_ context.Context, _ int64) (*model.Coupon, error) {
	return nil, model.ErrCouponNotFound
}

func (m *mockCouponRepo) GetByIDForShop(_ context.Context, _, _ int64) (*model.Coupon, error) {
	return nil, model.ErrCouponNotFound
}

func (m *mockCouponRepo) GetByCode(_ context.Context, code string) (*model.Coupon, error) {
	c, ok := m.byCode[code]
	if !ok {
		return nil, model.ErrCouponNotFound
	}
	return c, nil
}

func (m *mockCouponRepo) ListByShop(_ context.Context, _ int64, _ *bool, _, _ int) ([]model.Coupon, int, error) {
	return nil, 0, nil
}

func (m *mockCouponRepo) Update(_ context.Context, _ *model.Coupon) error { return nil }

func (m *mockCouponRepo) Delete(_ context.Context, _, _ int64) error { return nil }

func (m *mockCouponRepo) CountUsageByCustomer(_ context.Context, _, _ int64) (int, error) {
	return m.usageCount, nil
}

func (m *mockCouponRepo) ListUsages(_ context.Context, _ int64, _, _ int) ([]model.CouponUsage, int, error) {
	return nil, 0, nil
}

func (m *mockCouponRepo) RedeemTx(_ context.Context, _ pgx.Tx, _ int64) error { return nil }

func (m *mockCouponRepo) ReleaseTx(_ context.Context, _ pgx.Tx, _ int64) error { return nil }

func (m *mockCouponRepo) CreateUsageTx(_ context.Context, _ pgx.Tx, _ *model.CouponUsage) error {
	return nil
}

func (m *mockCouponRepo) DeactivateExpired(_ context.Context, _ int) (int64, error) { return 0, nil }

type mockProductRepo struct {
	products map[int64]*productModel.Product
}

func newMockProductRepo(products ...*productModel.Product) *mockProductRepo {
	m := &mockProductRepo{products: make(map[int64]*productModel.Product)}
	for _, p := range products {
		m.products[p.ID] = p
	}
	return m
}

func (m *mockProductRepo) GetByID(_ context.Context, id int64) (*productModel.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, productModel.ErrProductNotFound
	}
	return p, nil
}

func (m *mockProductRepo) CreateWithVariants(_ context.Context, _ *productModel.Product, _ []productModel.ProductVariant) error {
	return nil
}

func (m *mockProductRepo) List(_ context.Context, _ productModel.ListProductsRequest) ([]productModel.Product, int, error) {
	return nil, 0, nil
}

func (m *mockProductRepo) ListByShop(_ context.Context, _ int64, _, _ int) ([]productModel.Product, int, error) {
	return nil, 0, nil
}

func (m *mockProductRepo) Update(_ context.Context, _ *productModel.Product) error { return nil }

func (m *mockProductRepo) SetImage(_ context.Context, _ int64, _ int, _ *string) error { return nil }

func (m *mockProductRepo) SlugExists(_ context.Context, _ string) (bool, error) { return false, nil }

func (m *mockProductRepo) CountActiveByShop(_ context.Context, _ int64) (int, error) { return 0, nil }

func (m *mockProductRepo) ListVariants(_ context.Context, _ int64) ([]productModel.ProductVariant, error) {
	return nil, nil
}

func (m *mockProductRepo) GetVariantByID(_ context.Context, _ int64) (*productModel.ProductVariant, error) {
	return nil, productModel.ErrVariantNotFound
}

func (m *mockProductRepo) GetVariantForSelection(_ context.Context, _ int64, _, _ *string) (*productModel.ProductVariant, error) {
	return nil, productModel.ErrVariantNotFound
}

func (m *mockProductRepo) AddVariant(_ context.Context, _ *productModel.ProductVariant) error {
	return nil
}

func (m *mockProductRepo) UpdateVariant(_ context.Context, _ *productModel.ProductVariant) error {
	return nil
}

func (m *mockProductRepo) AdjustVariantStock(_ context.Context, _ int64, _ int) (*productModel.ProductVariant, error) {
	return nil, nil
}

func (m *mockProductRepo) DebitProductStockTx(_ context.Context, _ pgx.Tx, _ int64, _ int) error {
	return nil
}

func (m *mockProductRepo) DebitVariantStockTx(_ context.Context, _ pgx.Tx, _ int64, _ int) error {
	return nil
}

func (m *mockProductRepo) CreditProductStockTx(_ context.Context, _ pgx.Tx, _ int64, _ int) error {
	return nil
}

func (m *mockProductRepo) CreditVariantStockTx(_ context.Context, _ pgx.Tx, _ int64, _ int) error {
	return nil
}

func (m *mockProductRepo) UpdateRatingTx(_ context.Context, _ pgx.Tx, _ int64, _ decimal.Decimal, _ int) error {
	return nil
}

func (m *mockProductRepo) ReconcileVariantStocks(_ context.Context, _ int) (int64, error) {
	return 0, nil
}

type mockCategoryRepo struct {
	categories map[int64]*categoryModel.Category
}

func newMockCategoryRepo(categories ...*categoryModel.Category) *mockCategoryRepo {
	m := &mockCategoryRepo{categories: make(map[int64]*categoryModel.Category)}
	for _, c := range categories {
		m.categories[c.ID] = c
	}
	return m
}

func (m *mockCategoryRepo) Create(_ context.Context, _ *categoryModel.Category) error { return nil }

func (m *mockCategoryRepo) GetByID(_ context.Context, id int64) (*categoryModel.Category, error) {
	c, ok := m.categories[id]
	if !ok {
		return nil, categoryModel.ErrCategoryNotFound
	}
	return c, nil
}

func (m *mockCategoryRepo) GetBySlug(_ context.Context, _ string) (*categoryModel.Category, error) {
	return nil, categoryModel.ErrCategoryNotFound
}

func (m *mockCategoryRepo) List(_ context.Context, _ bool) ([]categoryModel.Category, error) {
	return nil, nil
}

func (m *mockCategoryRepo) Update(_ context.Context, _ *categoryModel.Category) error { return nil }

func (m *mockCategoryRepo) Delete(_ context.Context, _ int64) error { return nil }

func (m *mockCategoryRepo) SlugExists(_ context.Context, _ string) (bool, error) { return false, nil }

type mockShopService struct {
	shop       *shopModel.Shop
	requireErr error
}

func (m *mockShopService) GetShop(_ context.Context, _ int64) (*shopModel.Shop, error) {
	return m.shop, nil
}

func (m *mockShopService) RequireApprovedShop(_ context.Context, _ int64) (*shopModel.Shop, error) {
	if m.requireErr != nil {
		return nil, m.requireErr
	}
	return m.shop, nil
}

func (m *mockShopService) RegisterShop(_ context.Context, _ int64, _ shopModel.RegisterShopRequest) (*shopModel.Shop, error) {
	return nil, nil
}

func (m *mockShopService) GetMyShop(_ context.Context, _ int64) (*shopModel.Shop, error) {
	return m.shop, nil
}

func (m *mockShopService) UpdateMyShop(_ context.Context, _ int64, _ shopModel.UpdateShopRequest) (*shopModel.Shop, error) {
	return nil, nil
}

func (m *mockShopService) ApproveShop(_ context.Context, _ int64, _ shopModel.ApproveShopRequest) (*shopModel.Shop, error) {
	return nil, nil
}

func (m *mockShopService) RejectShop(_ context.Context, _ int64, _ shopModel.RejectShopRequest) (*shopModel.Shop, error) {
	return nil, nil
}

func (m *mockShopService) ListShops(_ context.Context, _ shopModel.ListShopsRequest) ([]shopModel.Shop, int, error) {
	return nil, 0, nil
}

// =====================================================
// HELPERS
// =====================================================

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func approvedShop(id int64) *shopModel.Shop {
	return &shopModel.Shop{
		ID:             id,
		UserID:         100 + id,
		ShopName:       "Verma Textiles",
		IsApproved:     true,
		ApprovalStatus: shopModel.ApprovalStatusApproved,
	}
}

// liveCoupon is redeemable right now: 20% off everything, min order 100.
func liveCoupon(shopID int64) *model.Coupon {
	now := time.Now()
	return &model.Coupon{
		ID:                 7,
		ShopID:             shopID,
		Code:               "SAVE20",
		DiscountType:       model.DiscountTypePercentage,
		DiscountValue:      dec("20"),
		Applicability:      model.ApplicabilityAll,
		MinOrderValue:      dec("100.00"),
		MaxUsesPerCustomer: 1,
		IsActive:           true,
		ValidFrom:          now.Add(-time.Hour),
		ValidTo:            now.Add(24 * time.Hour),
	}
}

func pricedLine(productID int64, subtotal string) model.PricedItem {
	return model.PricedItem{ProductID: productID, ItemSubtotal: dec(subtotal)}
}

type fixture struct {
	couponRepo   *mockCouponRepo
	productRepo  *mockProductRepo
	categoryRepo *mockCategoryRepo
	shopSvc      *mockShopService
	svc          CouponService
}

func newFixture(coupons ...*model.Coupon) *fixture {
	f := &fixture{
		couponRepo:   newMockCouponRepo(coupons...),
		productRepo:  newMockProductRepo(),
		categoryRepo: newMockCategoryRepo(),
		shopSvc:      &mockShopService{shop: approvedShop(1)},
	}
	f.svc = NewCouponService(f.couponRepo, f.productRepo, f.categoryRepo, f.shopSvc)
	return f
}

// =====================================================
// ORDER EVALUATION TESTS
// =====================================================

func TestEvaluateForOrder_Success(t *testing.T) {
	f := newFixture(liveCoupon(1))

	coupon, discount, err := f.svc.EvaluateForOrder(context.Background(), "SAVE20", 1, 9, []model.PricedItem{
		pricedLine(1, "1200.00"),
	})

	require.NoError(t, err)
	assert.Equal(t, int64(7), coupon.ID)
	assert.Equal(t, "240.00", discount.StringFixed(2))
}

func TestEvaluateForOrder_NormalizesCode(t *testing.T) {
	f := newFixture(liveCoupon(1))

	coupon, _, err := f.svc.EvaluateForOrder(context.Background(), "  save20 ", 1, 9, []model.PricedItem{
		pricedLine(1, "1200.00"),
	})

	require.NoError(t, err)
	assert.Equal(t, "SAVE20", coupon.Code)
}

func TestEvaluateForOrder_UnknownCode(t *testing.T) {
	f := newFixture()

	_, _, err := f.svc.EvaluateForOrder(context.Background(), "NOPE", 1, 9, nil)

	require.ErrorIs(t, err, model.ErrCouponNotFound)
}

func TestEvaluateForOrder_ShopMismatch(t *testing.T) {
	f := newFixture(liveCoupon(2))

	_, _, err := f.svc.EvaluateForOrder(context.Background(), "SAVE20", 1, 9, []model.PricedItem{
		pricedLine(1, "1200.00"),
	})

	require.ErrorIs(t, err, model.ErrShopMismatch)

	var couponErr *model.CouponError
	require.ErrorAs(t, err, &couponErr)
	assert.Equal(t, model.ErrCodeShopMismatch, couponErr.Code)
	assert.Equal(t, "Coupon is only valid for products from Verma Textiles", couponErr.Message)
}

func TestEvaluateForOrder_CustomerCapReached(t *testing.T) {
	f := newFixture(liveCoupon(1))
	f.couponRepo.usageCount = 1

	_, _, err := f.svc.EvaluateForOrder(context.Background(), "SAVE20", 1, 9, []model.PricedItem{
		pricedLine(1, "1200.00"),
	})

	require.ErrorIs(t, err, model.ErrCustomerLimitReached)

	var couponErr *model.CouponError
	require.ErrorAs(t, err, &couponErr)
	assert.Equal(t, "You have already used this coupon 1 time(s)", couponErr.Message)
}

func TestEvaluateForOrder_Expired(t *testing.T) {
	c := liveCoupon(1)
	c.ValidFrom = time.Now().Add(-48 * time.Hour)
	c.ValidTo = time.Now().Add(-24 * time.Hour)
	f := newFixture(c)

	_, _, err := f.svc.EvaluateForOrder(context.Background(), "SAVE20", 1, 9, []model.PricedItem{
		pricedLine(1, "1200.00"),
	})

	require.ErrorIs(t, err, model.ErrCouponExpired)
}

func TestEvaluateForOrder_MinOrderNotMet(t *testing.T) {
	c := liveCoupon(1)
	c.MinOrderValue = dec("500.00")
	f := newFixture(c)

	_, _, err := f.svc.EvaluateForOrder(context.Background(), "SAVE20", 1, 9, []model.PricedItem{
		pricedLine(1, "300.00"),
	})

	require.ErrorIs(t, err, model.ErrMinOrderNotMet)
}

// =====================================================
// CUSTOMER PREVIEW TESTS
// =====================================================

func TestValidateCoupon_PricesCartServerSide(t *testing.T) {
	f := newFixture(liveCoupon(1))
	f.productRepo = newMockProductRepo(&productModel.Product{
		ID:           1,
		ShopID:       1,
		DisplayPrice: dec("600.00"),
		IsActive:     true,
	})
	f.svc = NewCouponService(f.couponRepo, f.productRepo, f.categoryRepo, f.shopSvc)

	resp, err := f.svc.ValidateCoupon(context.Background(), 9, model.ValidateCouponRequest{
		Code: "save20",
		CartItems: []model.CartItemRequest{
			{ProductID: 1, Quantity: 2},
		},
	})

	require.NoError(t, err)
	assert.True(t, resp.Valid)
	assert.Equal(t, "SAVE20", resp.Coupon.Code)
	assert.Equal(t, "20%", resp.Coupon.DiscountDisplay)
	assert.Equal(t, "1200.00", resp.ApplicableTotal.StringFixed(2))
	assert.Equal(t, "240.00", resp.DiscountAmount.StringFixed(2))
	assert.Equal(t, "Coupon applied! You saved ₹240.00", resp.Message)
}

func TestValidateCoupon_ProductFromAnotherShop(t *testing.T) {
	f := newFixture(liveCoupon(1))
	f.productRepo = newMockProductRepo(&productModel.Product{
		ID:           1,
		ShopID:       2,
		DisplayPrice: dec("600.00"),
		IsActive:     true,
	})
	f.svc = NewCouponService(f.couponRepo, f.productRepo, f.categoryRepo, f.shopSvc)

	_, err := f.svc.ValidateCoupon(context.Background(), 9, model.ValidateCouponRequest{
		Code: "SAVE20",
		CartItems: []model.CartItemRequest{
			{ProductID: 1, Quantity: 1},
		},
	})

	require.ErrorIs(t, err, model.ErrShopMismatch)
}

// =====================================================
// SELLER MANAGEMENT TESTS
// =====================================================

func TestCreateCoupon_Defaults(t *testing.T) {
	f := newFixture()

	created, err := f.svc.CreateCoupon(context.Background(), 101, model.CreateCouponRequest{
		Code:          "diwali10",
		DiscountType:  model.DiscountTypePercentage,
		DiscountValue: dec("10"),
		ValidFrom:     time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC),
		ValidTo:       time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC),
	})

	require.NoError(t, err)
	assert.Equal(t, "DIWALI10", created.Code)
	assert.Equal(t, int64(1), created.ShopID)
	assert.Equal(t, model.ApplicabilityAll, created.Applicability)
	assert.Equal(t, 1, created.MaxUsesPerCustomer)
	assert.True(t, created.IsActive)
	assert.Equal(t, "0.00", created.MinOrderValue.StringFixed(2))
	assert.Equal(t, 0, created.TimesUsed)
	require.NotNil(t, f.couponRepo.created)
}

func TestCreateCoupon_CategoryScope(t *testing.T) {
	f := newFixture()
	f.categoryRepo = newMockCategoryRepo(&categoryModel.Category{ID: 5, Name: "Sarees", IsActive: true})
	f.svc = NewCouponService(f.couponRepo, f.productRepo, f.categoryRepo, f.shopSvc)

	categoryID := int64(5)
	created, err := f.svc.CreateCoupon(context.Background(), 101, model.CreateCouponRequest{
		Code:          "SAREE15",
		DiscountType:  model.DiscountTypePercentage,
		DiscountValue: dec("15"),
		Applicability: model.ApplicabilityCategory,
		CategoryID:    &categoryID,
		ValidFrom:     time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC),
		ValidTo:       time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC),
	})

	require.NoError(t, err)
	require.NotNil(t, created.CategoryID)
	assert.Equal(t, int64(5), *created.CategoryID)
	assert.Nil(t, created.ProductID)
}

func TestCreateCoupon_CategoryScopeRequiresCategory(t *testing.T) {
	f := newFixture()

	_, err := f.svc.CreateCoupon(context.Background(), 101, model.CreateCouponRequest{
		Code:          "SAREE15",
		DiscountType:  model.DiscountTypePercentage,
		DiscountValue: dec("15"),
		Applicability: model.ApplicabilityCategory,
		ValidFrom:     time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC),
		ValidTo:       time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC),
	})

	var couponErr *model.CouponError
	require.ErrorAs(t, err, &couponErr)
	assert.Equal(t, model.ErrCodeInvalidCoupon, couponErr.Code)
}

func TestCreateCoupon_ProductScopeChecksCatalog(t *testing.T) {
	f := newFixture()

	productID := int64(99)
	_, err := f.svc.CreateCoupon(context.Background(), 101, model.CreateCouponRequest{
		Code:          "KURTA20",
		DiscountType:  model.DiscountTypePercentage,
		DiscountValue: dec("20"),
		Applicability: model.ApplicabilityProduct,
		ProductID:     &productID,
		ValidFrom:     time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC),
		ValidTo:       time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC),
	})

	require.ErrorIs(t, err, productModel.ErrProductNotFound)
}

func TestCreateCoupon_RequiresApprovedShop(t *testing.T) {
	f := newFixture()
	f.shopSvc.requireErr = shopModel.ErrShopNotApproved

	_, err := f.svc.CreateCoupon(context.Background(), 101, model.CreateCouponRequest{
		Code:          "SAVE20",
		DiscountType:  model.DiscountTypePercentage,
		DiscountValue: dec("20"),
		ValidFrom:     time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC),
		ValidTo:       time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC),
	})

	require.ErrorIs(t, err, shopModel.ErrShopNotApproved)
}

func TestCreateCoupon_PercentageOverloadRejected(t *testing.T) {
	f := newFixture()

	_, err := f.svc.CreateCoupon(context.Background(), 101, model.CreateCouponRequest{
		Code:          "BONKERS",
		DiscountType:  model.DiscountTypePercentage,
		DiscountValue: dec("150"),
		ValidFrom:     time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC),
		ValidTo:       time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC),
	})

	var couponErr *model.CouponError
	require.ErrorAs(t, err, &couponErr)
	assert.Equal(t, model.ErrCodeInvalidCoupon, couponErr.Code)
}
