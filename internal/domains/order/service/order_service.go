package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

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
	"marketplace-backend/internal/shared"
	"marketplace-backend/internal/shared/utils"
	"marketplace-backend/pkg/cache"
)

const (
	dashboardCacheKey = "seller:dashboard:%d"
	dashboardCacheTTL = time.Minute

	recentOrdersLimit = 5
	exportOrdersLimit = 100
)

// =====================================================
// ORDER SERVICE IMPLEMENTATION
// =====================================================
type orderService struct {
	orderRepo     repository.OrderRepository
	productRepo   productRepo.ProductRepository
	couponRepo    couponRepo.CouponRepository
	couponService coupon.CouponService
	shopService   shop.ShopService
	cache         cache.Cache
	asynq         *asynq.Client
	pricing       config.PricingConfig
}

// NewOrderService creates a new order service
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo productRepo.ProductRepository,
	couponRepo couponRepo.CouponRepository,
	couponService coupon.CouponService,
	shopService shop.ShopService,
	cache cache.Cache,
	asynqClient *asynq.Client,
	pricing config.PricingConfig,
) OrderService {
	return &orderService{
		orderRepo:     orderRepo,
		productRepo:   productRepo,
		couponRepo:    couponRepo,
		couponService: couponService,
		shopService:   shopService,
		cache:         cache,
		asynq:         asynqClient,
		pricing:       pricing,
	}
}

// =====================================================
// CHECKOUT
// =====================================================

func (s *orderService) CreateOrder(ctx context.Context, customerID int64, req model.CreateOrderRequest) (*model.OrderDetailResponse, error) {
	// Step 1: Validate the request
	if err := req.Validate(); err != nil {
		return nil, model.NewOrderError(model.ErrCodeInvalidOrder, "Invalid order", err)
	}
	if strings.TrimSpace(req.City) == "" {
		req.City = shopModel.DefaultCity
	}

	// Step 2: Resolve and price every cart line against live catalog state
	items, pricedItems, shopID, err := s.buildOrderLines(ctx, req.CartItems)
	if err != nil {
		return nil, err
	}

	// Step 3: The shop must still be allowed to sell
	shopEntity, err := s.shopService.GetShop(ctx, shopID)
	if err != nil {
		return nil, err
	}
	if !shopEntity.CanSell() {
		return nil, shopModel.ErrShopNotApproved
	}

	// Step 4: Evaluate the coupon when one was sent
	var appliedCoupon *couponModel.Coupon
	discount := decimal.Zero
	if req.CouponCode != nil && strings.TrimSpace(*req.CouponCode) != "" {
		code := strings.ToUpper(strings.TrimSpace(*req.CouponCode))
		appliedCoupon, discount, err = s.couponService.EvaluateForOrder(ctx, code, shopID, customerID, pricedItems)
		if err != nil {
			return nil, err
		}
	}

	// Step 5: Aggregate the pricing snapshot
	totals := model.CalculateOrderTotals(items, s.pricing.CODFee, s.pricing.CODFeeThreshold, discount)

	// Step 6: Build the order entity
	order := &model.Order{
		OrderNumber:        model.GenerateOrderNumber(),
		CustomerID:         customerID,
		ShopID:             shopID,
		CustomerName:       req.CustomerName,
		CustomerPhone:      req.CustomerPhone,
		DeliveryAddress:    req.DeliveryAddress,
		City:               req.City,
		Pincode:            req.Pincode,
		Landmark:           req.Landmark,
		Subtotal:           totals.Subtotal,
		CODFee:             totals.CODFee,
		CouponDiscount:     totals.CouponDiscount,
		TotalAmount:        totals.TotalAmount,
		CommissionAmount:   totals.CommissionAmount,
		SellerPayoutAmount: totals.SellerPayoutAmount,
		OrderStatus:        model.OrderStatusPlaced,
		PaymentMethod:      model.PaymentMethodCOD,
		PaymentStatus:      model.PaymentStatusCOD,
		Notes:              req.Notes,
	}
	if appliedCoupon != nil {
		order.CouponID = &appliedCoupon.ID
		order.CouponCode = &appliedCoupon.Code
	}

	// Step 7: Begin the order transaction
	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.orderRepo.RollbackTx(ctx, tx)

	// Step 8: Insert the order
	if err := s.orderRepo.CreateOrderTx(ctx, tx, order); err != nil {
		return nil, err
	}

	// Step 9: Insert the line items
	for i := range items {
		items[i].OrderID = order.ID
	}
	if err := s.orderRepo.CreateOrderItemsTx(ctx, tx, items); err != nil {
		return nil, err
	}

	// Step 10: Debit stock per line. The guarded decrement is what
	// actually protects against a concurrent order taking the last unit.
	for _, item := range items {
		if item.VariantID != nil {
			err = s.productRepo.DebitVariantStockTx(ctx, tx, *item.VariantID, item.Quantity)
		} else {
			err = s.productRepo.DebitProductStockTx(ctx, tx, item.ProductID, item.Quantity)
		}
		if err != nil {
			return nil, err
		}
	}

	// Step 11: Claim the coupon use inside the same transaction
	if appliedCoupon != nil {
		if err := s.couponRepo.RedeemTx(ctx, tx, appliedCoupon.ID); err != nil {
			return nil, err
		}
		usage := &couponModel.CouponUsage{
			CouponID:       appliedCoupon.ID,
			CustomerID:     customerID,
			OrderID:        &order.ID,
			DiscountAmount: discount,
		}
		if err := s.couponRepo.CreateUsageTx(ctx, tx, usage); err != nil {
			return nil, err
		}
	}

	// Step 12: Commit
	if err := s.orderRepo.CommitTx(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	// Step 13: Tell the seller, outside the transaction
	s.enqueueOrderNotification(shared.TypeOrderPlacedNotification, order)

	// Step 14: Response
	order.ShopName = shopEntity.ShopName
	order.ShopContact = shopEntity.ContactNumber
	order.ItemsCount = len(items)

	return model.NewOrderDetailResponse(order, items), nil
}

// buildOrderLines resolves each cart line to a product (and variant
// when size or color is given), prechecks stock and snapshots prices.
// All lines must resolve to one shop.
func (s *orderService) buildOrderLines(ctx context.Context, cartItems []model.OrderItemRequest) ([]model.OrderItem, []couponModel.PricedItem, int64, error) {
	var items []model.OrderItem
	var priced []couponModel.PricedItem
	var shopID int64

	for _, line := range cartItems {
		product, err := s.productRepo.GetByID(ctx, line.ProductID)
		if err != nil {
			return nil, nil, 0, err
		}
		if !product.IsActive {
			return nil, nil, 0, productModel.ErrProductInactive
		}

		if shopID == 0 {
			shopID = product.ShopID
		} else if product.ShopID != shopID {
			return nil, nil, 0, model.ErrMixedShopCart
		}

		item := model.OrderItem{
			ProductID:      product.ID,
			ProductName:    product.Name,
			BasePrice:      product.BasePrice,
			DisplayPrice:   product.DisplayPrice,
			MRP:            product.MRP,
			CommissionRate: product.CommissionRate,
			Quantity:       line.Quantity,
			Size:           line.Size,
			Color:          line.Color,
			ProductImage:   product.Image1,
		}

		if line.Size != nil || line.Color != nil {
			variant, err := s.productRepo.GetVariantForSelection(ctx, product.ID, line.Size, line.Color)
			if err != nil {
				return nil, nil, 0, err
			}
			if variant.StockQuantity < line.Quantity {
				return nil, nil, 0, productModel.ErrInsufficientStock
			}
			item.VariantID = &variant.ID
			item.VariantSKU = &variant.SKU
		} else if product.StockQuantity < line.Quantity {
			return nil, nil, 0, productModel.ErrInsufficientStock
		}

		model.ApplyItemAmounts(&item)
		items = append(items, item)
		priced = append(priced, couponModel.PricedItem{
			ProductID:    product.ID,
			CategoryID:   product.CategoryID,
			ItemSubtotal: item.ItemSubtotal,
		})
	}

	return items, priced, shopID, nil
}

// =====================================================
// CUSTOMER VIEWS
// =====================================================

func (s *orderService) ListMyOrders(ctx context.Context, customerID int64, req model.ListOrdersRequest) ([]model.OrderSummaryResponse, int, error) {
	if err := req.Validate(); err != nil {
		return nil, 0, model.NewOrderError(model.ErrCodeInvalidOrder, "Invalid list filter", err)
	}

	page, limit := utils.NormalizePagination(req.Page, req.Limit)
	orders, total, err := s.orderRepo.ListByCustomer(ctx, customerID, req.Status, page, limit)
	if err != nil {
		return nil, 0, err
	}

	return toSummaries(orders), total, nil
}

func (s *orderService) GetOrder(ctx context.Context, userID int64, userType, orderNumber string) (*model.OrderDetailResponse, error) {
	var order *model.Order
	var err error

	switch userType {
	case userModel.UserTypeSeller:
		shopEntity, shopErr := s.shopService.RequireApprovedShop(ctx, userID)
		if shopErr != nil {
			return nil, shopErr
		}
		order, err = s.orderRepo.GetByNumberForShop(ctx, orderNumber, shopEntity.ID)
	default:
		order, err = s.orderRepo.GetByNumberForCustomer(ctx, orderNumber, userID)
	}
	if err != nil {
		return nil, err
	}

	items, err := s.orderRepo.ListItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	return model.NewOrderDetailResponse(order, items), nil
}

func (s *orderService) CancelOrder(ctx context.Context, customerID int64, orderNumber string) (*model.OrderDetailResponse, error) {
	// Step 1: Load the customer's order
	order, err := s.orderRepo.GetByNumberForCustomer(ctx, orderNumber, customerID)
	if err != nil {
		return nil, err
	}

	// Step 2: Customers may only cancel before shipping
	if !model.CancellableByCustomer(order.OrderStatus) {
		return nil, model.NewOrderError(
			model.ErrCodeCancellationNotAllowed,
			fmt.Sprintf("Cannot cancel order with status: %s. Orders can only be cancelled before shipping.", order.OrderStatus),
			model.ErrCancellationNotAllowed,
		)
	}

	// Step 3: The line items drive the stock restoration
	items, err := s.orderRepo.ListItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	// Step 4: Cancel with compensation in one transaction
	if err := s.cancelWithCompensation(ctx, order, items, nil); err != nil {
		return nil, err
	}

	// Step 5: Tell the seller, outside the transaction
	s.enqueueOrderNotification(shared.TypeOrderCancelledNotification, order)

	// Step 6: Return the stamped row
	updated, err := s.orderRepo.GetByNumberForCustomer(ctx, orderNumber, customerID)
	if err != nil {
		return nil, err
	}

	return model.NewOrderDetailResponse(updated, items), nil
}

// =====================================================
// SELLER VIEWS
// =====================================================

func (s *orderService) ListShopOrders(ctx context.Context, userID int64, req model.ListOrdersRequest) ([]model.OrderSummaryResponse, int, error) {
	if err := req.Validate(); err != nil {
		return nil, 0, model.NewOrderError(model.ErrCodeInvalidOrder, "Invalid list filter", err)
	}

	shopEntity, err := s.shopService.RequireApprovedShop(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	page, limit := utils.NormalizePagination(req.Page, req.Limit)
	orders, total, err := s.orderRepo.ListByShop(ctx, shopEntity.ID, req.Status, page, limit)
	if err != nil {
		return nil, 0, err
	}

	return toSummaries(orders), total, nil
}

func (s *orderService) UpdateOrderStatus(ctx context.Context, userID int64, orderNumber string, req model.UpdateOrderStatusRequest) (*model.OrderDetailResponse, error) {
	// Step 1: Validate the request
	if err := req.Validate(); err != nil {
		return nil, model.NewOrderError(model.ErrCodeInvalidOrder, "Invalid status update", err)
	}

	// Step 2: The seller must own an approved shop
	shopEntity, err := s.shopService.RequireApprovedShop(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Step 3: Load the shop's order
	order, err := s.orderRepo.GetByNumberForShop(ctx, orderNumber, shopEntity.ID)
	if err != nil {
		return nil, err
	}

	// Step 4: Enforce the one-way lifecycle
	if !model.CanTransition(order.OrderStatus, req.OrderStatus) {
		return nil, model.NewOrderError(
			model.ErrCodeInvalidTransition,
			fmt.Sprintf("Cannot change status from %s to %s", order.OrderStatus, req.OrderStatus),
			model.ErrInvalidTransition,
		)
	}

	// Step 5: Apply, compensating stock and coupon when the seller cancels
	if req.OrderStatus == model.OrderStatusCancelled {
		items, itemsErr := s.orderRepo.ListItems(ctx, order.ID)
		if itemsErr != nil {
			return nil, itemsErr
		}
		if err := s.cancelWithCompensation(ctx, order, items, req.Reason); err != nil {
			return nil, err
		}
	} else {
		if err := s.transition(ctx, order, req.OrderStatus); err != nil {
			return nil, err
		}
	}

	// Step 6: Return the stamped row
	updated, err := s.orderRepo.GetByNumberForShop(ctx, orderNumber, shopEntity.ID)
	if err != nil {
		return nil, err
	}
	items, err := s.orderRepo.ListItems(ctx, updated.ID)
	if err != nil {
		return nil, err
	}

	return model.NewOrderDetailResponse(updated, items), nil
}

// transition applies a plain status move with no side effects.
func (s *orderService) transition(ctx context.Context, order *model.Order, toStatus string) error {
	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.orderRepo.RollbackTx(ctx, tx)

	if err := s.orderRepo.UpdateStatusTx(ctx, tx, order.ID, order.OrderStatus, toStatus, nil); err != nil {
		return err
	}

	if err := s.orderRepo.CommitTx(ctx, tx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// cancelWithCompensation flips the order to cancelled and undoes its
// side effects in one transaction: every line's stock goes back to the
// variant or product it was debited from, and a coupon redemption is
// released.
func (s *orderService) cancelWithCompensation(ctx context.Context, order *model.Order, items []model.OrderItem, reason *string) error {
	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.orderRepo.RollbackTx(ctx, tx)

	// Step 1: Guarded status flip
	if err := s.orderRepo.UpdateStatusTx(ctx, tx, order.ID, order.OrderStatus, model.OrderStatusCancelled, reason); err != nil {
		return err
	}

	// Step 2: Restore stock per line
	for _, item := range items {
		if item.VariantID != nil {
			err = s.productRepo.CreditVariantStockTx(ctx, tx, *item.VariantID, item.Quantity)
		} else {
			err = s.productRepo.CreditProductStockTx(ctx, tx, item.ProductID, item.Quantity)
		}
		if err != nil {
			return err
		}
	}

	// Step 3: Release the coupon redemption
	if order.CouponID != nil {
		if err := s.couponRepo.ReleaseTx(ctx, tx, *order.CouponID); err != nil {
			return err
		}
	}

	// Step 4: Commit
	if err := s.orderRepo.CommitTx(ctx, tx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// =====================================================
// SELLER DASHBOARD
// =====================================================

func (s *orderService) GetDashboard(ctx context.Context, userID int64) (*model.DashboardResponse, error) {
	shopEntity, err := s.shopService.RequireApprovedShop(ctx, userID)
	if err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf(dashboardCacheKey, shopEntity.ID)
	var cached model.DashboardResponse
	found, err := s.cache.Get(ctx, cacheKey, &cached)
	if found {
		return &cached, nil
	}
	if err != nil {
		// A broken cache degrades to database reads.
		log.Warn().Err(err).Str("key", cacheKey).Msg("seller dashboard cache read failed")
	}

	stats, err := s.orderRepo.DashboardStats(ctx, shopEntity.ID)
	if err != nil {
		return nil, err
	}

	totalProducts, err := s.productRepo.CountActiveByShop(ctx, shopEntity.ID)
	if err != nil {
		return nil, err
	}

	recent, err := s.orderRepo.RecentByShop(ctx, shopEntity.ID, recentOrdersLimit)
	if err != nil {
		return nil, err
	}

	resp := &model.DashboardResponse{
		TotalProducts:   totalProducts,
		PendingOrders:   stats.PendingOrders,
		TodayOrders:     stats.TodayOrders,
		TotalEarnings:   stats.TotalEarnings,
		PendingEarnings: stats.PendingEarnings,
		RecentOrders:    toSummaries(recent),
	}

	if err := s.cache.Set(ctx, cacheKey, resp, dashboardCacheTTL); err != nil {
		log.Warn().Err(err).Str("key", cacheKey).Msg("failed to cache seller dashboard")
	}

	return resp, nil
}

// =====================================================
// EXPORT
// =====================================================

func (s *orderService) ExportOrders(ctx context.Context, userID int64, req model.ListOrdersRequest) (*excelize.File, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewOrderError(model.ErrCodeInvalidOrder, "Invalid export filter", err)
	}

	shopEntity, err := s.shopService.RequireApprovedShop(ctx, userID)
	if err != nil {
		return nil, err
	}

	// One page per file, capped
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.Limit <= 0 || req.Limit > exportOrdersLimit {
		req.Limit = exportOrdersLimit
	}

	orders, _, err := s.orderRepo.ListByShop(ctx, shopEntity.ID, req.Status, req.Page, req.Limit)
	if err != nil {
		return nil, err
	}

	f, err := s.buildOrdersExcelFile(orders)
	if err != nil {
		return nil, fmt.Errorf("failed to build excel file: %w", err)
	}

	return f, nil
}

func (s *orderService) buildOrdersExcelFile(orders []model.Order) (*excelize.File, error) {
	f := excelize.NewFile()

	sheetName := "Orders"
	f.SetSheetName("Sheet1", sheetName)

	// Row 1: Header
	headers := []string{
		"Order Number",
		"Placed At",
		"Customer Name",
		"Customer Phone",
		"City",
		"Pincode",
		"Items",
		"Status",
		"Payment Status",
		"Subtotal",
		"COD Fee",
		"Coupon Code",
		"Coupon Discount",
		"Total Amount",
		"Commission",
		"Seller Payout",
		"Net Cash To Keep",
	}

	for colIdx, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(colIdx+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
	})
	if err == nil {
		f.SetCellStyle(sheetName, "A1", "Q1", headerStyle)
	}

	// Data rows, starting at row 2
	for i, o := range orders {
		rowNum := i + 2

		cell := func(col int) string {
			name, _ := excelize.CoordinatesToCellName(col, rowNum)
			return name
		}

		f.SetCellValue(sheetName, cell(1), o.OrderNumber)
		f.SetCellValue(sheetName, cell(2), o.CreatedAt.Format("2006-01-02 15:04:05"))
		f.SetCellValue(sheetName, cell(3), o.CustomerName)
		f.SetCellValue(sheetName, cell(4), o.CustomerPhone)
		f.SetCellValue(sheetName, cell(5), o.City)
		f.SetCellValue(sheetName, cell(6), o.Pincode)
		f.SetCellValue(sheetName, cell(7), o.ItemsCount)
		f.SetCellValue(sheetName, cell(8), o.OrderStatus)
		f.SetCellValue(sheetName, cell(9), o.PaymentStatus)
		f.SetCellValue(sheetName, cell(10), o.Subtotal.InexactFloat64())
		f.SetCellValue(sheetName, cell(11), o.CODFee.InexactFloat64())
		if o.CouponCode != nil {
			f.SetCellValue(sheetName, cell(12), *o.CouponCode)
		} else {
			f.SetCellValue(sheetName, cell(12), "")
		}
		f.SetCellValue(sheetName, cell(13), o.CouponDiscount.InexactFloat64())
		f.SetCellValue(sheetName, cell(14), o.TotalAmount.InexactFloat64())
		f.SetCellValue(sheetName, cell(15), o.CommissionAmount.InexactFloat64())
		f.SetCellValue(sheetName, cell(16), o.SellerPayoutAmount.InexactFloat64())
		f.SetCellValue(sheetName, cell(17), o.NetCashToKeep().InexactFloat64())
	}

	return f, nil
}

// =====================================================
// NOTIFICATIONS
// =====================================================

// enqueueOrderNotification schedules the seller push after commit.
// Failures are logged and swallowed; a missed push never fails an
// order operation.
func (s *orderService) enqueueOrderNotification(taskType string, order *model.Order) {
	payload := shared.OrderNotificationPayload{
		OrderID:      order.ID,
		OrderNumber:  order.OrderNumber,
		ShopID:       order.ShopID,
		TotalAmount:  order.TotalAmount.StringFixed(2),
		CustomerName: order.CustomerName,
	}

	b, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Str("orderNumber", order.OrderNumber).Msg("failed to marshal order notification payload")
		return
	}

	task := asynq.NewTask(taskType, b)
	if _, err := s.asynq.Enqueue(task, asynq.Queue(shared.QueueCritical)); err != nil {
		log.Error().Err(err).Str("orderNumber", order.OrderNumber).Str("task", taskType).Msg("failed to enqueue order notification")
	}
}

func toSummaries(orders []model.Order) []model.OrderSummaryResponse {
	summaries := make([]model.OrderSummaryResponse, 0, len(orders))
	for _, o := range orders {
		summaries = append(summaries, model.NewOrderSummaryResponse(o))
	}
	return summaries
}
