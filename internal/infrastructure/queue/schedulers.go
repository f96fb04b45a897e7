package queue

import (
	"encoding/json"
	"time"

	"marketplace-backend/internal/config"
	"marketplace-backend/internal/shared"
	"marketplace-backend/pkg/logger"

	"github.com/hibiken/asynq"
)

type Scheduler struct {
	scheduler *asynq.Scheduler
	jobConfig config.JobConfig
}

func NewScheduler(redisAddress string, jobConfig config.JobConfig) *Scheduler {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{Addr: redisAddress},
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{
		scheduler: scheduler,
		jobConfig: jobConfig,
	}
}

func (s *Scheduler) RegisterJobs() error {
	if err := s.registerDeactivateExpiredCouponsJob(); err != nil {
		return err
	}

	if err := s.registerReconcileProductStockJob(); err != nil {
		return err
	}

	return nil
}

// ================================================
// JOB 1: Deactivate Expired Coupons (Daily at 2 AM)
// ================================================
// Coupons past valid_until stay redeemable until this sweep flips
// is_active off. Validation rejects them anyway, so the sweep only
// keeps seller dashboards and listings honest.
func (s *Scheduler) registerDeactivateExpiredCouponsJob() error {
	payload, err := json.Marshal(shared.DeactivateExpiredCouponsPayload{
		BatchSize: s.jobConfig.CouponSweepBatchSize,
	})
	if err != nil {
		return err
	}

	task := asynq.NewTask(shared.TypeDeactivateExpiredCoupons, payload)

	_, err = s.scheduler.Register(
		"0 2 * * *", // Daily at 2 AM
		task,
		asynq.Queue(shared.QueueLow),
		asynq.MaxRetry(2),
		asynq.Timeout(5*time.Minute),
	)

	if err != nil {
		logger.Error("Failed to register DeactivateExpiredCoupons job", err)
		return err
	}

	logger.Info("✓ Registered DeactivateExpiredCoupons: daily at 2 AM", map[string]interface{}{})
	return nil
}

// ================================================
// JOB 2: Reconcile Product Stock (Daily at 3 AM)
// ================================================
// Product stock_quantity is kept in sync with the variant sum inside
// each writing transaction. The nightly pass repairs any drift left by
// manual DB edits, staggered an hour after the coupon sweep.
func (s *Scheduler) registerReconcileProductStockJob() error {
	payload, err := json.Marshal(shared.ReconcileProductStockPayload{
		BatchSize: s.jobConfig.StockReconcileBatch,
	})
	if err != nil {
		return err
	}

	task := asynq.NewTask(shared.TypeReconcileProductStock, payload)

	_, err = s.scheduler.Register(
		"0 3 * * *", // Daily at 3 AM
		task,
		asynq.Queue(shared.QueueLow),
		asynq.MaxRetry(2),
		asynq.Timeout(10*time.Minute),
	)

	if err != nil {
		logger.Error("Failed to register ReconcileProductStock job", err)
		return err
	}

	logger.Info("✓ Registered ReconcileProductStock: daily at 3 AM", map[string]interface{}{})
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
