package main

import (
	"context"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"marketplace-backend/internal/config"
	"marketplace-backend/internal/shared"
)

// asynqServer wraps asynq.Server with a bounded shutdown.
type asynqServer struct {
	*asynq.Server
}

// setupAsynqServer configures queue weights and starts consuming.
// Order notifications ride the critical queue so a backlog of
// maintenance jobs never delays them.
func setupAsynqServer(cfg *config.Config, handlers *HandlerRegistry) *asynqServer {
	mux := asynq.NewServeMux()
	handlers.RegisterHandlers(mux)

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Host,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			Queues: map[string]int{
				shared.QueueCritical: 6,
				shared.QueueDefault:  3,
				shared.QueueLow:      1,
			},
			Concurrency: 10,
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.Error().Err(err).Str("type", task.Type()).Msg("task failed")
			}),
		},
	)

	go func() {
		log.Info().Msg("⚙️  Worker starting...")
		if err := srv.Run(mux); err != nil {
			log.Fatal().Err(err).Msg("worker failed")
		}
	}()

	return &asynqServer{Server: srv}
}

// Shutdown stops the server, waiting at most 30s for in-flight tasks.
func (s *asynqServer) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	log.Info().Msg("Worker shutting down (waiting max 30s)...")

	done := make(chan struct{})
	go func() {
		s.Server.Shutdown()
		close(done)
	}()

	select {
	case <-done:
		log.Info().Msg("Worker stopped")
	case <-ctx.Done():
		log.Warn().Msg("Worker shutdown timeout exceeded")
	}
}
