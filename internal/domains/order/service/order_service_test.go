package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace-backend/internal/config"
	couponModel "marketplace-backend/internal/domains/coupon/model"
	couponRepo "marketplace-backend/internal/domains/coupon/repository"
	coupon "marketplace-backend/internal/domains/coupon/service"
	"marketplace-backend/internal/domains/order/model"
	"marketplace-backend/internal/domains/order/repository"
	productModel "marketplace-backend/internal/domains/product/model"
	productRepo "marketplace-backend/internal/domains/product/repository"
	shopModel "marketplace-backend/internal/domains/shop/model"
	shop "marketplace-backend/internal/domains/shop/service"
	userModel "marketplace-backend/internal/domains/user/model"
	"marketplace-backend/pkg/cache"
)

// =====================================================
// MOCK IMPLEMENTATIONS
// =====================================================

var (
	_ repository.OrderRepository    = (*mockOrderRepo)(nil)
	_ productRepo.ProductRepository = (*mockProductRepo)(nil)
	_ couponRepo.CouponRepository   = (*mockCouponRepo)(nil)
	_ coupon.CouponService          = (*mockCouponService)(nil)
	_ shop.ShopService              = (*mockShopService)(nil)
	_ cache.Cache                   = (*mockCache)(nil)
)

type statusMove struct {
	orderID int64
	from    string
	to      string
	reason  *string
}

// mockOrderRepo keeps orders in memory and mirrors the guarded status
// update of the real store: a move only applies when the current
// status matches the expected one.
type mockOrderRepo struct {
	orders       map[int64]*model.Order
	itemsByOrder map[int64][]model.OrderItem
	nextID       int64

	lastCreated *model.Order
	statusMoves []statusMove

	listByShop []model.Order
	lastStatus string
	lastPage   int
	lastLimit  int

	stats      *model.DashboardStats
	statsCalls int
	recent     []model.Order

	beginErr  error
	createErr error
	commitErr error
	commits   int
	rollbacks int
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{
		orders:       make(map[int64]*model.Order),
		itemsByOrder: make(map[int64][]model.OrderItem),
	}
}

func (m *mockOrderRepo) seed(order *model.Order, items ...model.OrderItem) {
	if order.ID == 0 {
		m.nextID++
		order.ID = m.nextID
	} else if order.ID > m.nextID {
		m.nextID = order.ID
	}
	m.orders[order.ID] = order
	m.itemsByOrder[order.ID] = items
}

func (m *mockOrderRepo) BeginTx(_ context.Context) (pgx.Tx, error) {
	return nil, m.beginErr
}

func (m *mockOrderRepo) CommitTx(_ context.Context, _ pgx.Tx) error {
	if m.commitErr != nil {
		return m.commitErr
	}
	m.commits++
	return nil
}

func (m *mockOrderRepo) RollbackTx(_ context.Context, _ pgx.Tx) error {
	m.rollbacks++
	return nil
}

func (m *mockOrderRepo) CreateOrderTx(_ context.Context, _ pgx.Tx, order *model.Order) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.nextID++
	order.ID = m.nextID
	m.orders[order.ID] = order
	m.lastCreated = order
	return nil
}

func (m *mockOrderRepo) CreateOrderItemsTx(_ context.Context, _ pgx.Tx, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	m.itemsByOrder[items[0].OrderID] = items
	return nil
}

func (m *mockOrderRepo) UpdateStatusTx(_ context.Context, _ pgx.Tx, orderID int64, fromStatus, toStatus string, reason *string) error {
	o, ok := m.orders[orderID]
	if !ok {
		return model.ErrOrderNotFound
	}
	if o.OrderStatus != fromStatus {
		return model.ErrInvalidTransition
	}
	o.OrderStatus = toStatus
	if toStatus == model.OrderStatusDelivered {
		o.PaymentStatus = model.PaymentStatusPaid
	}
	if reason != nil {
		o.CancellationReason = reason
	}
	m.statusMoves = append(m.statusMoves, statusMove{orderID, fromStatus, toStatus, reason})
	return nil
}

func (m *mockOrderRepo) GetByID(_ context.Context, id int64) (*model.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, model.ErrOrderNotFound
	}
	return o, nil
}

func (m *mockOrderRepo) GetByNumberForCustomer(_ context.Context, orderNumber string, customerID int64) (*model.Order, error) {
	for _, o := range m.orders {
		if o.OrderNumber == orderNumber && o.CustomerID == customerID {
			return o, nil
		}
	}
	return nil, model.ErrOrderNotFound
}

func (m *mockOrderRepo) GetByNumberForShop(_ context.Context, orderNumber string, shopID int64) (*model.Order, error) {
	for _, o := range m.orders {
		if o.OrderNumber == orderNumber && o.ShopID == shopID {
			return o, nil
		}
	}
	return nil, model.ErrOrderNotFound
}

func (m *mockOrderRepo) ListItems(_ context.Context, orderID int64) ([]model.OrderItem, error) {
	return m.itemsByOrder[orderID], nil
}

func (m *mockOrderRepo) ListByCustomer(_ context.Context, customerID int64, status string, page, limit int) ([]model.Order, int, error) {
	var out []model.Order
	for _, o := range m.orders {
		if o.CustomerID == customerID && (status == "" || o.OrderStatus == status) {
			out = append(out, *o)
		}
	}
	return out, len(out), nil
}

func (m *mockOrderRepo) ListByShop(_ context.Context, shopID int64, status string, page, limit int) ([]model.Order, int, error) {
	m.lastStatus = status
	m.lastPage = page
	m.lastLimit = limit
	return m.listByShop, len(m.listByShop), nil
}

func (m *mockOrderRepo) DashboardStats(_ context.Context, shopID int64) (*model.DashboardStats, error) {
	m.statsCalls++
	return m.stats, nil
}

func (m *mockOrderRepo) RecentByShop(_ context.Context, shopID int64, limit int) ([]model.Order, error) {
	return m.recent, nil
}

type stockMove struct {
	productID int64
	variantID int64
	qty       int
}

// mockProductRepo tracks live stock counters separately from the
// product snapshots, so a stale read followed by a failing guarded
// debit behaves like two racing checkouts on the real store.
type mockProductRepo struct {
	products     map[int64]*productModel.Product
	variants     map[int64]*productModel.ProductVariant
	stock        map[int64]int
	variantStock map[int64]int

	debits  []stockMove
	credits []stockMove

	activeCount int
	countCalls  int
}

func newMockProductRepo() *mockProductRepo {
	return &mockProductRepo{
		products:     make(map[int64]*productModel.Product),
		variants:     make(map[int64]*productModel.ProductVariant),
		stock:        make(map[int64]int),
		variantStock: make(map[int64]int),
	}
}

func (m *mockProductRepo) add(p *productModel.Product) {
	m.products[p.ID] = p
	m.stock[p.ID] = p.StockQuantity
}

func (m *mockProductRepo) addVariant(v *productModel.ProductVariant) {
	m.variants[v.ProductID] = v
	m.variantStock[v.ID] = v.StockQuantity
}

func (m *mockProductRepo) GetByID(_ context.Context, id int64) (*productModel.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, productModel.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockProductRepo) GetVariantForSelection(_ context.Context, productID int64, size, color *string) (*productModel.ProductVariant, error) {
	v, ok := m.variants[productID]
	if !ok {
		return nil, productModel.ErrVariantNotFound
	}
	cp := *v
	return &cp, nil
}

func (m *mockProductRepo) DebitProductStockTx(_ context.Context, _ pgx.Tx, productID int64, quantity int) error {
	if m.stock[productID] < quantity {
		return productModel.ErrInsufficientStock
	}
	m.stock[productID] -= quantity
	m.debits = append(m.debits, stockMove{productID: productID, qty: quantity})
	return nil
}

func (m *mockProductRepo) DebitVariantStockTx(_ context.Context, _ pgx.Tx, variantID int64, quantity int) error {
	if m.variantStock[variantID] < quantity {
		return productModel.ErrInsufficientStock
	}
	m.variantStock[variantID] -= quantity
	m.debits = append(m.debits, stockMove{variantID: variantID, qty: quantity})
	return nil
}

func (m *mockProductRepo) CreditProductStockTx(_ context.Context, _ pgx.Tx, productID int64, quantity int) error {
	m.stock[productID] += quantity
	m.credits = append(m.credits, stockMove{productID: productID, qty: quantity})
	return nil
}

func (m *mockProductRepo) CreditVariantStockTx(_ context.Context, _ pgx.Tx, variantID int64, quantity int) error {
	m.variantStock[variantID] += quantity
	m.credits = append(m.credits, stockMove{variantID: variantID, qty: quantity})
	return nil
}

func (m *mockProductRepo) CountActiveByShop(_ context.Context, shopID int64) (int, error) {
	m.countCalls++
	return m.activeCount, nil
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

func (m *mockProductRepo) ListVariants(_ context.Context, _ int64) ([]productModel.ProductVariant, error) {
	return nil, nil
}

func (m *mockProductRepo) GetVariantByID(_ context.Context, _ int64) (*productModel.ProductVariant, error) {
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

func (m *mockProductRepo) UpdateRatingTx(_ context.Context, _ pgx.Tx, _ int64, _ decimal.Decimal, _ int) error {
	return nil
}

func (m *mockProductRepo) ReconcileVariantStocks(_ context.Context, _ int) (int64, error) {
	return 0, nil
}

// mockCouponRepo records the counter movements the order transaction makes.
type mockCouponRepo struct {
	redeems   []int64
	releases  []int64
	usages    []couponModel.CouponUsage
	redeemErr error
}

func (m *mockCouponRepo) RedeemTx(_ context.Context, _ pgx.Tx, couponID int64) error {
	if m.redeemErr != nil {
		return m.redeemErr
	}
	m.redeems = append(m.redeems, couponID)
	return nil
}

func (m *mockCouponRepo) ReleaseTx(_ context.Context, _ pgx.Tx, couponID int64) error {
	m.releases = append(m.releases, couponID)
	return nil
}

func (m *mockCouponRepo) CreateUsageTx(_ context.Context, _ pgx.Tx, usage *couponModel.CouponUsage) error {
	m.usages = append(m.usages, *usage)
	return nil
}

func (m *mockCouponRepo) Create(_ context.Context, _ *couponModel.Coupon) error { return nil }

func (m *mockCouponRepo) GetByID(_ context.Context, _ int64) (*couponModel.Coupon, error) {
	return nil, couponModel.ErrCouponNotFound
}

func (m *mockCouponRepo) GetByIDForShop(_ context.Context, _, _ int64) (*couponModel.Coupon, error) {
	return nil, couponModel.ErrCouponNotFound
}

func (m *mockCouponRepo) GetByCode(_ context.Context, _ string) (*couponModel.Coupon, error) {
	return nil, couponModel.ErrCouponNotFound
}

func (m *mockCouponRepo) ListByShop(_ context.Context, _ int64, _ *bool, _, _ int) ([]couponModel.Coupon, int, error) {
	return nil, 0, nil
}

func (m *mockCouponRepo) Update(_ context.Context, _ *couponModel.Coupon) error { return nil }

func (m *mockCouponRepo) Delete(_ context.Context, _, _ int64) error { return nil }

func (m *mockCouponRepo) CountUsageByCustomer(_ context.Context, _, _ int64) (int, error) {
	return 0, nil
}

func (m *mockCouponRepo) ListUsages(_ context.Context, _ int64, _, _ int) ([]couponModel.CouponUsage, int, error) {
	return nil, 0, nil
}

func (m *mockCouponRepo) DeactivateExpired(_ context.Context, _ int) (int64, error) { return 0, nil }

type evaluateCall struct {
	code       string
	shopID     int64
	customerID int64
}

type mockCouponService struct {
	coupon    *couponModel.Coupon
	discount  decimal.Decimal
	err       error
	evaluated []evaluateCall
}

func (m *mockCouponService) EvaluateForOrder(_ context.Context, code string, shopID, customerID int64, _ []couponModel.PricedItem) (*couponModel.Coupon, decimal.Decimal, error) {
	m.evaluated = append(m.evaluated, evaluateCall{code, shopID, customerID})
	if m.err != nil {
		return nil, decimal.Zero, m.err
	}
	return m.coupon, m.discount, nil
}

func (m *mockCouponService) CreateCoupon(_ context.Context, _ int64, _ couponModel.CreateCouponRequest) (*couponModel.Coupon, error) {
	return nil, nil
}

func (m *mockCouponService) ListMyCoupons(_ context.Context, _ int64, _ couponModel.ListCouponsRequest) ([]couponModel.Coupon, int, error) {
	return nil, 0, nil
}

func (m *mockCouponService) GetMyCoupon(_ context.Context, _, _ int64) (*couponModel.Coupon, error) {
	return nil, nil
}

func (m *mockCouponService) UpdateCoupon(_ context.Context, _, _ int64, _ couponModel.UpdateCouponRequest) (*couponModel.Coupon, error) {
	return nil, nil
}

func (m *mockCouponService) DeleteCoupon(_ context.Context, _, _ int64) error { return nil }

func (m *mockCouponService) GetUsageHistory(_ context.Context, _, _ int64, _, _ int) (*couponModel.UsageHistoryResponse, int, error) {
	return nil, 0, nil
}

func (m *mockCouponService) ValidateCoupon(_ context.Context, _ int64, _ couponModel.ValidateCouponRequest) (*couponModel.ValidateCouponResponse, error) {
	return nil, nil
}

type mockShopService struct {
	shop       *shopModel.Shop
	getErr     error
	requireErr error
}

func (m *mockShopService) GetShop(_ context.Context, _ int64) (*shopModel.Shop, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
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

// mockCache round-trips values through JSON like the Redis cache does.
type mockCache struct {
	store map[string][]byte
	gets  int
	sets  int
}

func newMockCache() *mockCache {
	return &mockCache{store: make(map[string][]byte)}
}

func (m *mockCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	m.gets++
	b, ok := m.store[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(b, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (m *mockCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	m.sets++
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.store[key] = b
	return nil
}

func (m *mockCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.store, k)
	}
	return nil
}

func (m *mockCache) DeletePattern(_ context.Context, _ string) error { return nil }

func (m *mockCache) Ping(_ context.Context) error { return nil }

func (m *mockCache) Increment(_ context.Context, _ string) (int64, error) { return 0, nil }

func (m *mockCache) Exists(_ context.Context, _ string) (bool, error) { return false, nil }

func (m *mockCache) Expire(_ context.Context, _ string, _ time.Duration) error { return nil }

func (m *mockCache) TTL(_ context.Context, _ string) (time.Duration, error) { return 0, nil }

// =====================================================
// HELPERS
// =====================================================

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testPricing() config.PricingConfig {
	return config.PricingConfig{
		CODFee:                dec("50.00"),
		CODFeeThreshold:       dec("500.00"),
		DefaultCommissionRate: dec("20.00"),
	}
}

func approvedShop(id int64) *shopModel.Shop {
	return &shopModel.Shop{
		ID:             id,
		UserID:         100 + id,
		ShopName:       "Verma Textiles",
		ContactNumber:  "9123456780",
		CommissionRate: dec("20.00"),
		IsApproved:     true,
		ApprovalStatus: shopModel.ApprovalStatusApproved,
	}
}

func newTestProduct(id, shopID int64, base, display string, stock int) *productModel.Product {
	return &productModel.Product{
		ID:             id,
		ShopID:         shopID,
		Name:           "Cotton Kurta",
		BasePrice:      dec(base),
		CommissionRate: dec("20.00"),
		DisplayPrice:   dec(display),
		StockQuantity:  stock,
		IsActive:       true,
	}
}

func checkoutRequest(items ...model.OrderItemRequest) model.CreateOrderRequest {
	return model.CreateOrderRequest{
		CartItems:       items,
		CustomerName:    "Asha Deshmukh",
		CustomerPhone:   "9876543210",
		DeliveryAddress: "12 MG Road",
		Pincode:         "444601",
	}
}

type fixture struct {
	orderRepo   *mockOrderRepo
	productRepo *mockProductRepo
	couponRepo  *mockCouponRepo
	couponSvc   *mockCouponService
	shopSvc     *mockShopService
	cache       *mockCache
	svc         OrderService
}

// newFixture wires the service against in-memory fakes. The asynq
// client points at a dead address; enqueue failures are logged and
// swallowed, which is exactly the production behavior under a Redis
// outage.
func newFixture() *fixture {
	f := &fixture{
		orderRepo:   newMockOrderRepo(),
		productRepo: newMockProductRepo(),
		couponRepo:  &mockCouponRepo{},
		couponSvc:   &mockCouponService{discount: decimal.Zero},
		shopSvc:     &mockShopService{shop: approvedShop(1)},
		cache:       newMockCache(),
	}
	f.svc = NewOrderService(
		f.orderRepo,
		f.productRepo,
		f.couponRepo,
		f.couponSvc,
		f.shopSvc,
		f.cache,
		asynq.NewClient(asynq.RedisClientOpt{Addr: "127.0.0.1:1"}),
		testPricing(),
	)
	return f
}

// =====================================================
// CHECKOUT TESTS
// =====================================================

func TestCreateOrder_Success(t *testing.T) {
	f := newFixture()
	f.productRepo.add(newTestProduct(1, 1, "500.00", "600.00", 10))

	resp, err := f.svc.CreateOrder(context.Background(), 9, checkoutRequest(
		model.OrderItemRequest{ProductID: 1, Quantity: 2},
	))

	require.NoError(t, err)
	require.NotNil(t, resp)

	created := f.orderRepo.lastCreated
	require.NotNil(t, created)
	assert.True(t, len(created.OrderNumber) == 11 && created.OrderNumber[:3] == "ORD")
	assert.Equal(t, int64(9), created.CustomerID)
	assert.Equal(t, int64(1), created.ShopID)
	assert.Equal(t, "1200.00", created.Subtotal.StringFixed(2))
	assert.Equal(t, "0.00", created.CODFee.StringFixed(2))
	assert.Equal(t, "1200.00", created.TotalAmount.StringFixed(2))
	assert.Equal(t, "200.00", created.CommissionAmount.StringFixed(2))
	assert.Equal(t, "1000.00", created.SellerPayoutAmount.StringFixed(2))
	assert.Equal(t, model.OrderStatusPlaced, created.OrderStatus)
	assert.Equal(t, model.PaymentMethodCOD, created.PaymentMethod)
	assert.Equal(t, model.PaymentStatusCOD, created.PaymentStatus)
	assert.Equal(t, shopModel.DefaultCity, created.City)

	require.Len(t, f.productRepo.debits, 1)
	assert.Equal(t, stockMove{productID: 1, qty: 2}, f.productRepo.debits[0])
	assert.Equal(t, 1, f.orderRepo.commits)

	items := f.orderRepo.itemsByOrder[created.ID]
	require.Len(t, items, 1)
	assert.Equal(t, created.ID, items[0].OrderID)
	assert.Equal(t, "600.00", items[0].DisplayPrice.StringFixed(2))

	assert.Equal(t, "Verma Textiles", resp.ShopName)
	assert.Equal(t, "9123456780", resp.ShopContact)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "1200.00", resp.Items[0].ItemSubtotal.StringFixed(2))
}

func TestCreateOrder_SmallOrderPaysCODFee(t *testing.T) {
	f := newFixture()
	f.productRepo.add(newTestProduct(1, 1, "250.00", "300.00", 5))

	resp, err := f.svc.CreateOrder(context.Background(), 9, checkoutRequest(
		model.OrderItemRequest{ProductID: 1, Quantity: 1},
	))

	require.NoError(t, err)
	assert.Equal(t, "300.00", resp.Subtotal.StringFixed(2))
	assert.Equal(t, "50.00", resp.CODFee.StringFixed(2))
	assert.Equal(t, "350.00", resp.TotalAmount.StringFixed(2))
}

func TestCreateOrder_VariantLine(t *testing.T) {
	f := newFixture()
	f.productRepo.add(newTestProduct(1, 1, "500.00", "600.00", 10))
	size := "M"
	f.productRepo.addVariant(&productModel.ProductVariant{
		ID:            9,
		ProductID:     1,
		Size:          &size,
		SKU:           "KURTA-M",
		StockQuantity: 5,
		IsActive:      true,
	})

	resp, err := f.svc.CreateOrder(context.Background(), 9, checkoutRequest(
		model.OrderItemRequest{ProductID: 1, Quantity: 2, Size: &size},
	))

	require.NoError(t, err)

	require.Len(t, f.productRepo.debits, 1)
	assert.Equal(t, stockMove{variantID: 9, qty: 2}, f.productRepo.debits[0])

	require.Len(t, resp.Items, 1)
	require.NotNil(t, resp.Items[0].VariantInfo)
	assert.Equal(t, "KURTA-M", resp.Items[0].VariantInfo.SKU)
}

func TestCreateOrder_CouponApplied(t *testing.T) {
	f := newFixture()
	f.productRepo.add(newTestProduct(1, 1, "500.00", "600.00", 10))
	f.couponSvc.coupon = &couponModel.Coupon{ID: 7, ShopID: 1, Code: "SAVE20"}
	f.couponSvc.discount = dec("240.00")

	code := "save20"
	req := checkoutRequest(model.OrderItemRequest{ProductID: 1, Quantity: 2})
	req.CouponCode = &code

	resp, err := f.svc.CreateOrder(context.Background(), 9, req)

	require.NoError(t, err)

	// The code reaches the evaluator normalized.
	require.Len(t, f.couponSvc.evaluated, 1)
	assert.Equal(t, evaluateCall{code: "SAVE20", shopID: 1, customerID: 9}, f.couponSvc.evaluated[0])

	created := f.orderRepo.lastCreated
	require.NotNil(t, created.CouponID)
	assert.Equal(t, int64(7), *created.CouponID)
	assert.Equal(t, "SAVE20", *created.CouponCode)
	assert.Equal(t, "240.00", created.CouponDiscount.StringFixed(2))
	assert.Equal(t, "960.00", created.TotalAmount.StringFixed(2))

	// The redemption is claimed inside the order transaction.
	assert.Equal(t, []int64{7}, f.couponRepo.redeems)
	require.Len(t, f.couponRepo.usages, 1)
	usage := f.couponRepo.usages[0]
	assert.Equal(t, int64(7), usage.CouponID)
	assert.Equal(t, int64(9), usage.CustomerID)
	require.NotNil(t, usage.OrderID)
	assert.Equal(t, created.ID, *usage.OrderID)
	assert.Equal(t, "240.00", usage.DiscountAmount.StringFixed(2))

	assert.Equal(t, "760.00", resp.SellerEarnings.StringFixed(2))
}

func TestCreateOrder_CouponRejected(t *testing.T) {
	f := newFixture()
	f.productRepo.add(newTestProduct(1, 1, "500.00", "600.00", 10))
	f.couponSvc.err = couponModel.ErrCouponExpired

	code := "SAVE20"
	req := checkoutRequest(model.OrderItemRequest{ProductID: 1, Quantity: 2})
	req.CouponCode = &code

	_, err := f.svc.CreateOrder(context.Background(), 9, req)

	require.ErrorIs(t, err, couponModel.ErrCouponExpired)
	assert.Equal(t, 0, f.orderRepo.commits)
	assert.Empty(t, f.productRepo.debits)
}

func TestCreateOrder_CouponRedeemRaceLost(t *testing.T) {
	f := newFixture()
	f.productRepo.add(newTestProduct(1, 1, "500.00", "600.00", 10))
	f.couponSvc.coupon = &couponModel.Coupon{ID: 7, ShopID: 1, Code: "SAVE20"}
	f.couponSvc.discount = dec("240.00")
	// A concurrent checkout takes the last aggregate use between
	// evaluation and the guarded redeem.
	f.couponRepo.redeemErr = couponModel.ErrCouponLimitReached

	code := "SAVE20"
	req := checkoutRequest(model.OrderItemRequest{ProductID: 1, Quantity: 2})
	req.CouponCode = &code

	_, err := f.svc.CreateOrder(context.Background(), 9, req)

	require.ErrorIs(t, err, couponModel.ErrCouponLimitReached)
	assert.Equal(t, 0, f.orderRepo.commits)
	assert.Equal(t, 1, f.orderRepo.rollbacks)
	assert.Empty(t, f.couponRepo.usages)
}

func TestCreateOrder_InvalidRequest(t *testing.T) {
	f := newFixture()

	_, err := f.svc.CreateOrder(context.Background(), 9, model.CreateOrderRequest{})

	var orderErr *model.OrderError
	require.ErrorAs(t, err, &orderErr)
	assert.Equal(t, model.ErrCodeInvalidOrder, orderErr.Code)
}

func TestCreateOrder_ProductNotFound(t *testing.T) {
	f := newFixture()

	_, err := f.svc.CreateOrder(context.Background(), 9, checkoutRequest(
		model.OrderItemRequest{ProductID: 99, Quantity: 1},
	))

	require.ErrorIs(t, err, productModel.ErrProductNotFound)
}

func TestCreateOrder_InactiveProduct(t *testing.T) {
	f := newFixture()
	p := newTestProduct(1, 1, "500.00", "600.00", 10)
	p.IsActive = false
	f.productRepo.add(p)

	_, err := f.svc.CreateOrder(context.Background(), 9, checkoutRequest(
		model.OrderItemRequest{ProductID: 1, Quantity: 1},
	))

	require.ErrorIs(t, err, productModel.ErrProductInactive)
}

func TestCreateOrder_MixedShopCart(t *testing.T) {
	f := newFixture()
	f.productRepo.add(newTestProduct(1, 1, "500.00", "600.00", 10))
	f.productRepo.add(newTestProduct(2, 2, "100.00", "120.00", 10))

	_, err := f.svc.CreateOrder(context.Background(), 9, checkoutRequest(
		model.OrderItemRequest{ProductID: 1, Quantity: 1},
		model.OrderItemRequest{ProductID: 2, Quantity: 1},
	))

	require.ErrorIs(t, err, model.ErrMixedShopCart)
	assert.Equal(t, 0, f.orderRepo.commits)
}

func TestCreateOrder_InsufficientStock(t *testing.T) {
	f := newFixture()
	f.productRepo.add(newTestProduct(1, 1, "500.00", "600.00", 1))

	_, err := f.svc.CreateOrder(context.Background(), 9, checkoutRequest(
		model.OrderItemRequest{ProductID: 1, Quantity: 2},
	))

	require.ErrorIs(t, err, productModel.ErrInsufficientStock)
	assert.Empty(t, f.productRepo.debits)
}

func TestCreateOrder_VariantInsufficientStock(t *testing.T) {
	f := newFixture()
	f.productRepo.add(newTestProduct(1, 1, "500.00", "600.00", 10))
	size := "M"
	f.productRepo.addVariant(&productModel.ProductVariant{
		ID:            9,
		ProductID:     1,
		Size:          &size,
		SKU:           "KURTA-M",
		StockQuantity: 1,
		IsActive:      true,
	})

	_, err := f.svc.CreateOrder(context.Background(), 9, checkoutRequest(
		model.OrderItemRequest{ProductID: 1, Quantity: 2, Size: &size},
	))

	require.ErrorIs(t, err, productModel.ErrInsufficientStock)
}

func TestCreateOrder_ShopNotApproved(t *testing.T) {
	f := newFixture()
	f.productRepo.add(newTestProduct(1, 1, "500.00", "600.00", 10))
	f.shopSvc.shop.IsApproved = false
	f.shopSvc.shop.ApprovalStatus = shopModel.ApprovalStatusPending

	_, err := f.svc.CreateOrder(context.Background(), 9, checkoutRequest(
		model.OrderItemRequest{ProductID: 1, Quantity: 1},
	))

	require.ErrorIs(t, err, shopModel.ErrShopNotApproved)
	assert.Equal(t, 0, f.orderRepo.commits)
}

// TestCreateOrder_LastUnitRace replays two checkouts hitting a single
// remaining unit. The catalog read both see says stock is there; the
// guarded decrement lets exactly one through.
func TestCreateOrder_LastUnitRace(t *testing.T) {
	f := newFixture()
	f.productRepo.add(newTestProduct(1, 1, "500.00", "600.00", 1))

	_, err := f.svc.CreateOrder(context.Background(), 9, checkoutRequest(
		model.OrderItemRequest{ProductID: 1, Quantity: 1},
	))
	require.NoError(t, err)

	// Freeze the snapshot the second checkout reads to the pre-debit
	// value, like a read that raced the first commit.
	f.productRepo.products[1].StockQuantity = 1

	_, err = f.svc.CreateOrder(context.Background(), 10, checkoutRequest(
		model.OrderItemRequest{ProductID: 1, Quantity: 1},
	))

	require.ErrorIs(t, err, productModel.ErrInsufficientStock)
	assert.Equal(t, 1, f.orderRepo.commits)
	assert.Equal(t, 0, f.productRepo.stock[1])
}

// =====================================================
// CUSTOMER VIEW TESTS
// =====================================================

func TestGetOrder_CustomerScope(t *testing.T) {
	f := newFixture()
	f.orderRepo.seed(
		&model.Order{ID: 1, OrderNumber: "ORDAAAA1111", CustomerID: 9, ShopID: 1, OrderStatus: model.OrderStatusPlaced},
		model.OrderItem{OrderID: 1, ProductID: 1, ProductName: "Cotton Kurta", Quantity: 2},
	)

	resp, err := f.svc.GetOrder(context.Background(), 9, userModel.UserTypeCustomer, "ORDAAAA1111")

	require.NoError(t, err)
	assert.Equal(t, "ORDAAAA1111", resp.OrderNumber)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Cotton Kurta", resp.Items[0].ProductName)
}

func TestGetOrder_WrongCustomer(t *testing.T) {
	f := newFixture()
	f.orderRepo.seed(&model.Order{ID: 1, OrderNumber: "ORDAAAA1111", CustomerID: 9, ShopID: 1, OrderStatus: model.OrderStatusPlaced})

	_, err := f.svc.GetOrder(context.Background(), 8, userModel.UserTypeCustomer, "ORDAAAA1111")

	require.ErrorIs(t, err, model.ErrOrderNotFound)
}

func TestGetOrder_SellerScope(t *testing.T) {
	f := newFixture()
	f.orderRepo.seed(&model.Order{ID: 1, OrderNumber: "ORDAAAA1111", CustomerID: 9, ShopID: 1, OrderStatus: model.OrderStatusPlaced})

	resp, err := f.svc.GetOrder(context.Background(), 101, userModel.UserTypeSeller, "ORDAAAA1111")

	require.NoError(t, err)
	assert.Equal(t, "ORDAAAA1111", resp.OrderNumber)
}

// =====================================================
// CANCELLATION TESTS
// =====================================================

func TestCancelOrder_RestoresStockAndCoupon(t *testing.T) {
	f := newFixture()
	couponID := int64(7)
	variantID := int64(9)
	f.orderRepo.seed(
		&model.Order{
			ID:          1,
			OrderNumber: "ORDAAAA1111",
			CustomerID:  9,
			ShopID:      1,
			OrderStatus: model.OrderStatusPlaced,
			CouponID:    &couponID,
		},
		model.OrderItem{OrderID: 1, ProductID: 1, Quantity: 2},
		model.OrderItem{OrderID: 1, ProductID: 2, VariantID: &variantID, Quantity: 1},
	)

	resp, err := f.svc.CancelOrder(context.Background(), 9, "ORDAAAA1111")

	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCancelled, resp.OrderStatus)

	require.Len(t, f.orderRepo.statusMoves, 1)
	move := f.orderRepo.statusMoves[0]
	assert.Equal(t, model.OrderStatusPlaced, move.from)
	assert.Equal(t, model.OrderStatusCancelled, move.to)

	// Every line goes back where it was debited from.
	require.Len(t, f.productRepo.credits, 2)
	assert.Equal(t, stockMove{productID: 1, qty: 2}, f.productRepo.credits[0])
	assert.Equal(t, stockMove{variantID: 9, qty: 1}, f.productRepo.credits[1])

	assert.Equal(t, []int64{7}, f.couponRepo.releases)
	assert.Equal(t, 1, f.orderRepo.commits)
}

func TestCancelOrder_AfterShipping(t *testing.T) {
	f := newFixture()
	f.orderRepo.seed(&model.Order{ID: 1, OrderNumber: "ORDAAAA1111", CustomerID: 9, ShopID: 1, OrderStatus: model.OrderStatusShipped})

	_, err := f.svc.CancelOrder(context.Background(), 9, "ORDAAAA1111")

	require.ErrorIs(t, err, model.ErrCancellationNotAllowed)

	var orderErr *model.OrderError
	require.ErrorAs(t, err, &orderErr)
	assert.Equal(t, model.ErrCodeCancellationNotAllowed, orderErr.Code)
	assert.Contains(t, orderErr.Message, "Cannot cancel order with status: shipped")

	assert.Empty(t, f.productRepo.credits)
}

func TestCancelOrder_Twice(t *testing.T) {
	f := newFixture()
	f.orderRepo.seed(
		&model.Order{ID: 1, OrderNumber: "ORDAAAA1111", CustomerID: 9, ShopID: 1, OrderStatus: model.OrderStatusPlaced},
		model.OrderItem{OrderID: 1, ProductID: 1, Quantity: 1},
	)

	_, err := f.svc.CancelOrder(context.Background(), 9, "ORDAAAA1111")
	require.NoError(t, err)

	_, err = f.svc.CancelOrder(context.Background(), 9, "ORDAAAA1111")

	require.ErrorIs(t, err, model.ErrCancellationNotAllowed)
	// The stock went back exactly once.
	require.Len(t, f.productRepo.credits, 1)
}

// =====================================================
// SELLER STATUS TESTS
// =====================================================

func TestUpdateOrderStatus_Confirm(t *testing.T) {
	f := newFixture()
	f.orderRepo.seed(&model.Order{ID: 1, OrderNumber: "ORDAAAA1111", CustomerID: 9, ShopID: 1, OrderStatus: model.OrderStatusPlaced})

	resp, err := f.svc.UpdateOrderStatus(context.Background(), 101, "ORDAAAA1111", model.UpdateOrderStatusRequest{
		OrderStatus: model.OrderStatusConfirmed,
	})

	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusConfirmed, resp.OrderStatus)
	require.Len(t, f.orderRepo.statusMoves, 1)
	assert.Equal(t, statusMove{orderID: 1, from: model.OrderStatusPlaced, to: model.OrderStatusConfirmed}, f.orderRepo.statusMoves[0])
}

func TestUpdateOrderStatus_DeliveredMarksPaid(t *testing.T) {
	f := newFixture()
	f.orderRepo.seed(&model.Order{
		ID: 1, OrderNumber: "ORDAAAA1111", CustomerID: 9, ShopID: 1,
		OrderStatus:   model.OrderStatusShipped,
		PaymentStatus: model.PaymentStatusCOD,
	})

	resp, err := f.svc.UpdateOrderStatus(context.Background(), 101, "ORDAAAA1111", model.UpdateOrderStatusRequest{
		OrderStatus: model.OrderStatusDelivered,
	})

	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusDelivered, resp.OrderStatus)
	assert.Equal(t, model.PaymentStatusPaid, resp.PaymentStatus)
}

func TestUpdateOrderStatus_InvalidTransition(t *testing.T) {
	f := newFixture()
	f.orderRepo.seed(&model.Order{ID: 1, OrderNumber: "ORDAAAA1111", CustomerID: 9, ShopID: 1, OrderStatus: model.OrderStatusPlaced})

	_, err := f.svc.UpdateOrderStatus(context.Background(), 101, "ORDAAAA1111", model.UpdateOrderStatusRequest{
		OrderStatus: model.OrderStatusDelivered,
	})

	require.ErrorIs(t, err, model.ErrInvalidTransition)

	var orderErr *model.OrderError
	require.ErrorAs(t, err, &orderErr)
	assert.Equal(t, "Cannot change status from placed to delivered", orderErr.Message)
	assert.Empty(t, f.orderRepo.statusMoves)
}

func TestUpdateOrderStatus_SellerCancelCompensates(t *testing.T) {
	f := newFixture()
	couponID := int64(7)
	f.orderRepo.seed(
		&model.Order{
			ID: 1, OrderNumber: "ORDAAAA1111", CustomerID: 9, ShopID: 1,
			OrderStatus: model.OrderStatusConfirmed,
			CouponID:    &couponID,
		},
		model.OrderItem{OrderID: 1, ProductID: 1, Quantity: 3},
	)

	reason := "out of stock"
	resp, err := f.svc.UpdateOrderStatus(context.Background(), 101, "ORDAAAA1111", model.UpdateOrderStatusRequest{
		OrderStatus: model.OrderStatusCancelled,
		Reason:      &reason,
	})

	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCancelled, resp.OrderStatus)
	require.NotNil(t, resp.CancellationReason)
	assert.Equal(t, "out of stock", *resp.CancellationReason)

	require.Len(t, f.productRepo.credits, 1)
	assert.Equal(t, stockMove{productID: 1, qty: 3}, f.productRepo.credits[0])
	assert.Equal(t, []int64{7}, f.couponRepo.releases)
}

func TestUpdateOrderStatus_ShopScope(t *testing.T) {
	f := newFixture()
	// The order belongs to another shop.
	f.orderRepo.seed(&model.Order{ID: 1, OrderNumber: "ORDAAAA1111", CustomerID: 9, ShopID: 2, OrderStatus: model.OrderStatusPlaced})

	_, err := f.svc.UpdateOrderStatus(context.Background(), 101, "ORDAAAA1111", model.UpdateOrderStatusRequest{
		OrderStatus: model.OrderStatusConfirmed,
	})

	require.ErrorIs(t, err, model.ErrOrderNotFound)
}

// =====================================================
// DASHBOARD TESTS
// =====================================================

func TestGetDashboard_ComputesAndCaches(t *testing.T) {
	f := newFixture()
	f.orderRepo.stats = &model.DashboardStats{
		PendingOrders:   3,
		TodayOrders:     2,
		TotalEarnings:   dec("4500.00"),
		PendingEarnings: dec("1200.00"),
	}
	f.orderRepo.recent = []model.Order{
		{ID: 5, OrderNumber: "ORDAAAA1111", OrderStatus: model.OrderStatusPlaced},
	}
	f.productRepo.activeCount = 12

	resp, err := f.svc.GetDashboard(context.Background(), 101)

	require.NoError(t, err)
	assert.Equal(t, 12, resp.TotalProducts)
	assert.Equal(t, 3, resp.PendingOrders)
	assert.Equal(t, 2, resp.TodayOrders)
	assert.Equal(t, "4500.00", resp.TotalEarnings.StringFixed(2))
	assert.Equal(t, "1200.00", resp.PendingEarnings.StringFixed(2))
	require.Len(t, resp.RecentOrders, 1)
	assert.Equal(t, 1, f.cache.sets)

	// Second read is served from the cache.
	again, err := f.svc.GetDashboard(context.Background(), 101)

	require.NoError(t, err)
	assert.Equal(t, 1, f.orderRepo.statsCalls)
	assert.Equal(t, 1, f.productRepo.countCalls)
	assert.Equal(t, resp.TotalProducts, again.TotalProducts)
	assert.Equal(t, "4500.00", again.TotalEarnings.StringFixed(2))
}

// =====================================================
// EXPORT TESTS
// =====================================================

func TestExportOrders_BuildsWorkbook(t *testing.T) {
	f := newFixture()
	code := "SAVE20"
	f.orderRepo.listByShop = []model.Order{
		{
			OrderNumber:   "ORD11111111",
			CustomerName:  "Asha Deshmukh",
			CustomerPhone: "9876543210",
			City:          "Amravati",
			Pincode:       "444601",
			OrderStatus:   model.OrderStatusPlaced,
			PaymentStatus: model.PaymentStatusCOD,
			Subtotal:      dec("1200.00"),
			TotalAmount:   dec("1200.00"),
		},
		{
			OrderNumber:    "ORD22222222",
			CustomerName:   "Ravi Pawar",
			CustomerPhone:  "9876500000",
			City:           "Amravati",
			Pincode:        "444602",
			OrderStatus:    model.OrderStatusDelivered,
			PaymentStatus:  model.PaymentStatusPaid,
			CouponCode:     &code,
			Subtotal:       dec("960.00"),
			CouponDiscount: dec("240.00"),
			TotalAmount:    dec("720.00"),
		},
	}

	file, err := f.svc.ExportOrders(context.Background(), 101, model.ListOrdersRequest{})

	require.NoError(t, err)
	require.NotNil(t, file)

	// The default window is one capped page.
	assert.Equal(t, 1, f.orderRepo.lastPage)
	assert.Equal(t, 100, f.orderRepo.lastLimit)

	header, err := file.GetCellValue("Orders", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Order Number", header)

	last, err := file.GetCellValue("Orders", "Q1")
	require.NoError(t, err)
	assert.Equal(t, "Net Cash To Keep", last)

	first, err := file.GetCellValue("Orders", "A2")
	require.NoError(t, err)
	assert.Equal(t, "ORD11111111", first)

	couponCell, err := file.GetCellValue("Orders", "L3")
	require.NoError(t, err)
	assert.Equal(t, "SAVE20", couponCell)

	status, err := file.GetCellValue("Orders", "H3")
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusDelivered, status)
}

func TestExportOrders_StatusFilter(t *testing.T) {
	f := newFixture()

	_, err := f.svc.ExportOrders(context.Background(), 101, model.ListOrdersRequest{Status: model.OrderStatusDelivered})

	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusDelivered, f.orderRepo.lastStatus)
}

func TestExportOrders_InvalidStatus(t *testing.T) {
	f := newFixture()

	_, err := f.svc.ExportOrders(context.Background(), 101, model.ListOrdersRequest{Status: "refunded"})

	var orderErr *model.OrderError
	require.ErrorAs(t, err, &orderErr)
	assert.Equal(t, model.ErrCodeInvalidOrder, orderErr.Code)
}
