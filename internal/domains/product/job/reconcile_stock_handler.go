package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"marketplace-backend/internal/domains/product/repository"
	"marketplace-backend/internal/shared"
)

const defaultReconcileBatchSize = 500

// ReconcileStockHandler repairs materialized product stock sums that
// drifted from their variant totals. Runs nightly via the scheduler.
type ReconcileStockHandler struct {
	productRepo repository.ProductRepository
}

func NewReconcileStockHandler(productRepo repository.ProductRepository) *ReconcileStockHandler {
	return &ReconcileStockHandler{
		productRepo: productRepo,
	}
}

// ProcessTask handles the stock reconciliation job.
func (h *ReconcileStockHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.ReconcileProductStockPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal ReconcileProductStock payload")
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	batchSize := payload.BatchSize
	if batchSize <= 0 {
		batchSize = defaultReconcileBatchSize
	}

	corrected, err := h.productRepo.ReconcileVariantStocks(ctx, batchSize)
	if err != nil {
		log.Error().Err(err).Msg("Failed to reconcile product stocks")
		return fmt.Errorf("reconcile product stocks: %w", err)
	}

	if corrected > 0 {
		log.Warn().
			Int64("corrected", corrected).
			Msg("Product stock drift detected and repaired")
	} else {
		log.Info().Msg("Product stocks consistent, nothing to reconcile")
	}

	return nil
}
