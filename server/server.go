package server

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/sqlcanvas/sqlcanvas/pkg/errors"
	"github.com/sqlcanvas/sqlcanvas/server/auth"
	"github.com/sqlcanvas/sqlcanvas/server/config"
	"github.com/sqlcanvas/sqlcanvas/server/credentials"
	"github.com/sqlcanvas/sqlcanvas/server/engine"
	"github.com/sqlcanvas/sqlcanvas/server/metadata"
	"github.com/sqlcanvas/sqlcanvas/server/protocols/http"
	"github.com/sqlcanvas/sqlcanvas/server/storage"
)

// Server wires the storage backend, metadata store, engine and HTTP surface
// together and manages their lifecycle.
type Server struct {
	config     *config.Config
	logger     zerolog.Logger
	meta       *metadata.Store
	backend    storage.Backend
	engine     *engine.Engine
	auth       *auth.Service
	creds      *credentials.Manager
	httpServer *http.Server
	startTime  time.Time
}

// New creates a new server instance
func New(cfg *config.Config, logger zerolog.Logger) (*Server, error) {
	meta, err := metadata.NewStore(cfg.GetMetadataPath())
	if err != nil {
		return nil, errors.New(ErrComponentInit, "failed to open metadata store", err)
	}

	backend, err := storage.NewBackend(cfg)
	if err != nil {
		meta.Close()
		return nil, errors.New(ErrComponentInit, "failed to create storage backend", err)
	}

	creds, err := credentials.NewManager(meta, cfg.GetEncryptionKey())
	if err != nil {
		meta.Close()
		return nil, errors.New(ErrComponentInit, "failed to create credential manager", err)
	}

	eng := engine.New(backend, meta, logger)
	authSvc := auth.NewService(meta, time.Duration(cfg.Auth.SessionTTLMinutes)*time.Minute)

	httpServer, err := http.NewServer(cfg, eng, meta, authSvc, creds, logger)
	if err != nil {
		meta.Close()
		return nil, errors.New(ErrComponentInit, "failed to create HTTP server", err)
	}

	return &Server{
		config:     cfg,
		logger:     logger.With().Str("component", "server").Logger(),
		meta:       meta,
		backend:    backend,
		engine:     eng,
		auth:       authSvc,
		creds:      creds,
		httpServer: httpServer,
		startTime:  time.Now(),
	}, nil
}

// Start starts the server
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info().
		Str("backend", s.backend.Type()).
		Str("ai_provider", s.config.AI.Provider).
		Msg("Starting sqlcanvas server")

	if err := s.httpServer.Start(ctx); err != nil {
		return errors.New(ErrStartFailed, "failed to start HTTP server", err)
	}

	s.logger.Info().
		Str("address", s.config.GetHTTPAddress()).
		Int("port", s.config.GetHTTPPort()).
		Msg("Server started")
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown() error {
	s.logger.Info().Msg("Shutting down server")

	if err := s.httpServer.Shutdown(); err != nil {
		s.logger.Error().Err(err).Msg("Error stopping HTTP server")
	}
	if err := s.meta.Close(); err != nil {
		s.logger.Error().Err(err).Msg("Error closing metadata store")
	}

	s.logger.Info().Msg("Graceful shutdown completed")
	return nil
}

// Engine returns the shared engine instance.
func (s *Server) Engine() *engine.Engine {
	return s.engine
}

// GetUptime returns the server uptime
func (s *Server) GetUptime() time.Duration {
	return time.Since(s.startTime)
}
