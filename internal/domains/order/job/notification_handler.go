package job

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	shopRepo "marketplace-backend/internal/domains/shop/repository"
	userRepo "marketplace-backend/internal/domains/user/repository"
	"marketplace-backend/internal/infrastructure/push"
	"marketplace-backend/internal/shared"
)

// OrderNotificationHandler delivers order pushes to the seller who
// owns the shop. A seller without a registered device token is
// skipped silently; provider failures are returned so asynq retries.
type OrderNotificationHandler struct {
	shopRepo shopRepo.ShopRepository
	userRepo userRepo.UserRepository
	push     push.Provider
}

func NewOrderNotificationHandler(
	shopRepo shopRepo.ShopRepository,
	userRepo userRepo.UserRepository,
	pushProvider push.Provider,
) *OrderNotificationHandler {
	return &OrderNotificationHandler{
		shopRepo: shopRepo,
		userRepo: userRepo,
		push:     pushProvider,
	}
}

// ProcessOrderPlaced handles the post-checkout seller push.
func (h *OrderNotificationHandler) ProcessOrderPlaced(ctx context.Context, task *asynq.Task) error {
	var payload shared.OrderNotificationPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal order placed payload")
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	title := "🛍️ New Order Received!"
	body := fmt.Sprintf("Order #%s - ₹%s", payload.OrderNumber, payload.TotalAmount)
	data := map[string]interface{}{
		"type":          "new_order",
		"order_id":      strconv.FormatInt(payload.OrderID, 10),
		"order_number":  payload.OrderNumber,
		"total_amount":  payload.TotalAmount,
		"customer_name": payload.CustomerName,
	}

	return h.notifyShopOwner(ctx, payload, title, body, data)
}

// ProcessOrderCancelled handles the customer cancellation push.
func (h *OrderNotificationHandler) ProcessOrderCancelled(ctx context.Context, task *asynq.Task) error {
	var payload shared.OrderNotificationPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal order cancelled payload")
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	title := "❌ Order Cancelled"
	body := fmt.Sprintf("Order #%s was cancelled by customer", payload.OrderNumber)
	data := map[string]interface{}{
		"type":         "order_cancelled",
		"order_id":     strconv.FormatInt(payload.OrderID, 10),
		"order_number": payload.OrderNumber,
		"total_amount": payload.TotalAmount,
	}

	return h.notifyShopOwner(ctx, payload, title, body, data)
}

func (h *OrderNotificationHandler) notifyShopOwner(ctx context.Context, payload shared.OrderNotificationPayload, title, body string, data map[string]interface{}) error {
	shop, err := h.shopRepo.GetByID(ctx, payload.ShopID)
	if err != nil {
		log.Error().Err(err).Int64("shopId", payload.ShopID).Msg("Failed to resolve shop for order notification")
		return fmt.Errorf("resolve shop: %w", err)
	}

	owner, err := h.userRepo.GetByID(ctx, shop.UserID)
	if err != nil {
		log.Error().Err(err).Int64("userId", shop.UserID).Msg("Failed to resolve shop owner for order notification")
		return fmt.Errorf("resolve shop owner: %w", err)
	}

	if owner.FCMToken == nil || *owner.FCMToken == "" {
		log.Info().
			Int64("userId", owner.ID).
			Str("orderNumber", payload.OrderNumber).
			Msg("Shop owner has no device token, skipping push")
		return nil
	}

	messageID, err := h.push.SendPush(ctx, *owner.FCMToken, title, body, data)
	if err != nil {
		log.Error().Err(err).Str("orderNumber", payload.OrderNumber).Msg("Failed to send order push")
		return fmt.Errorf("send push: %w", err)
	}

	log.Info().
		Str("orderNumber", payload.OrderNumber).
		Str("messageId", messageID).
		Msg("Order push delivered")

	return nil
}
