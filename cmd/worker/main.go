package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"marketplace-backend/pkg/container"
	"marketplace-backend/pkg/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found, using system environment variables")
	}
	logger.Init(os.Getenv("APP_ENV"))

	c, err := container.NewContainer()
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to initialize container")
	}
	defer c.Cleanup()

	handlers := initializeHandlers(c)

	srv := setupAsynqServer(c.Config, handlers)
	scheduler := setupScheduler(c.Config)

	if err := startServices(c); err != nil {
		log.Fatal().Err(err).Msg("❌ Startup health check failed")
	}

	waitForShutdown(srv, scheduler)
}

func waitForShutdown(srv *asynqServer, scheduler *asynqScheduler) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("🛑 Gracefully stopping worker...")
	scheduler.Shutdown()
	srv.Shutdown()
	log.Info().Msg("✅ Worker stopped")
}
