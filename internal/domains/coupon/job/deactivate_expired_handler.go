package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"marketplace-backend/internal/domains/coupon/repository"
	"marketplace-backend/internal/shared"
)

const defaultSweepBatchSize = 200

// DeactivateExpiredHandler sweeps coupons whose validity window has
// passed. Runs nightly via the scheduler.
type DeactivateExpiredHandler struct {
	couponRepo repository.CouponRepository
}

func NewDeactivateExpiredHandler(couponRepo repository.CouponRepository) *DeactivateExpiredHandler {
	return &DeactivateExpiredHandler{
		couponRepo: couponRepo,
	}
}

// ProcessTask handles the expired coupon sweep job.
func (h *DeactivateExpiredHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.DeactivateExpiredCouponsPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal DeactivateExpiredCoupons payload")
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	batchSize := payload.BatchSize
	if batchSize <= 0 {
		batchSize = defaultSweepBatchSize
	}

	swept, err := h.couponRepo.DeactivateExpired(ctx, batchSize)
	if err != nil {
		log.Error().Err(err).Msg("Failed to deactivate expired coupons")
		return fmt.Errorf("deactivate expired coupons: %w", err)
	}

	log.Info().
		Int64("deactivated", swept).
		Msg("Expired coupon sweep finished")

	return nil
}
