package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"chickeye-backend-go/internal/api"
	"chickeye-backend-go/internal/config"
	"chickeye-backend-go/internal/logging"
)

func main() {
	// Load configuration and set up structured logging
	cfg := config.Load()
	logging.Setup(cfg)

	log.Info().
		Int("port", cfg.Port).
		Str("video_source", cfg.VideoSource).
		Str("model_endpoint", cfg.ModelEndpoint).
		Int("classes", len(cfg.ClassNames)).
		Msg("Starting ChickEye backend")

	// Create and start server
	server, err := api.NewServer(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create server")
	}

	go func() {
		if err := server.Start(); err != nil {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	} else {
		log.Info().Msg("Server shutdown complete")
	}
}
