package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"chickeye-backend-go/internal/api/handlers"
	"chickeye-backend-go/internal/config"
	"chickeye-backend-go/internal/services/messaging"
	"chickeye-backend-go/internal/services/session"
)

type Server struct {
	cfg       *config.Config
	router    *gin.Engine
	server    *http.Server
	messaging *messaging.Service

	healthHandler    *handlers.HealthHandler
	configHandler    *handlers.ConfigHandler
	recordingHandler *handlers.RecordingHandler
	streamHandler    *handlers.StreamHandler
}

func NewServer(cfg *config.Config) (*Server, error) {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// NATS fan-out is optional; sessions run fine without it.
	var msgSvc *messaging.Service
	var publisher session.Publisher
	if cfg.NatsEnabled {
		svc, err := messaging.NewService(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to NATS: %w", err)
		}
		msgSvc = svc
		publisher = svc
	}

	s := &Server{
		cfg:              cfg,
		router:           router,
		messaging:        msgSvc,
		healthHandler:    handlers.NewHealthHandler(),
		configHandler:    handlers.NewConfigHandler(cfg),
		recordingHandler: handlers.NewRecordingHandler(cfg),
		streamHandler:    handlers.NewStreamHandler(cfg, publisher),
	}

	s.setupMiddleware()
	s.setupRoutes()
	s.setupSwagger()

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: router,
	}

	return s, nil
}

func (s *Server) Start() error {
	log.Info().Int("port", s.cfg.Port).Msg("Starting ChickEye backend API")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	err := s.server.Shutdown(ctx)
	if s.messaging != nil {
		s.messaging.Shutdown()
	}
	return err
}
