package main

import (
	"github.com/rs/zerolog/log"

	"marketplace-backend/internal/config"
	"marketplace-backend/internal/infrastructure/queue"
)

// asynqScheduler wraps queue.Scheduler for the worker lifecycle.
type asynqScheduler struct {
	*queue.Scheduler
}

// setupScheduler registers the cron jobs and starts the scheduler.
func setupScheduler(cfg *config.Config) *asynqScheduler {
	scheduler := queue.NewScheduler(cfg.Redis.Host, cfg.Jobs)

	if err := scheduler.RegisterJobs(); err != nil {
		log.Fatal().Err(err).Msg("failed to register scheduled jobs")
	}

	go func() {
		log.Info().Msg("⏰ Scheduler starting...")
		if err := scheduler.Start(); err != nil {
			log.Fatal().Err(err).Msg("scheduler failed")
		}
	}()

	return &asynqScheduler{Scheduler: scheduler}
}

// Shutdown stops the scheduler.
func (s *asynqScheduler) Shutdown() {
	log.Info().Msg("Scheduler shutting down...")
	s.Scheduler.Shutdown()
	log.Info().Msg("Scheduler stopped")
}
