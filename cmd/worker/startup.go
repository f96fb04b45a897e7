package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"marketplace-backend/pkg/container"
)

// startServices verifies the worker's dependencies and exposes the
// probe endpoints. The task queue and the scheduler share the same
// Redis, so one ping covers both.
func startServices(c *container.Container) error {
	log.Info().Msg("🚀 Marketplace worker starting...")

	checks := []struct {
		name string
		fn   func(ctx context.Context) error
	}{
		{"postgres", c.DB.HealthCheck},
		{"redis", c.Cache.Ping},
	}

	for _, check := range checks {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := check.fn(ctx)
		cancel()

		if err != nil {
			log.Error().Err(err).Str("dependency", check.name).Msg("health check failed")
			return fmt.Errorf("%s health check failed: %w", check.name, err)
		}
		log.Info().Str("dependency", check.name).Msg("health check ok")
	}

	go startHealthCheckServer()

	return nil
}

// startHealthCheckServer serves liveness and readiness probes.
func startHealthCheckServer() {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"UP","service":"marketplace-worker"}`))
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"READY"}`))
	})

	log.Info().Msg("Probe server listening on :9999")
	if err := http.ListenAndServe(":9999", mux); err != nil {
		log.Error().Err(err).Msg("probe server failed")
	}
}
