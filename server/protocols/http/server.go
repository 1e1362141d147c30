// Package http exposes the engine, visualization selector and AI service
// over a JSON API. It is the only wire surface of the server.
package http

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/sqlcanvas/sqlcanvas/server/auth"
	"github.com/sqlcanvas/sqlcanvas/server/config"
	"github.com/sqlcanvas/sqlcanvas/server/credentials"
	"github.com/sqlcanvas/sqlcanvas/server/engine"
	"github.com/sqlcanvas/sqlcanvas/server/metadata"
)

// Server represents the HTTP protocol server
type Server struct {
	app    *fiber.App
	engine *engine.Engine
	meta   *metadata.Store
	auth   *auth.Service
	creds  credentials.Provider
	aiCfg  config.AIConfig
	addr   string
	logger zerolog.Logger
}

// NewServer creates a new HTTP server instance
func NewServer(cfg *config.Config, eng *engine.Engine, meta *metadata.Store, authSvc *auth.Service, creds credentials.Provider, logger zerolog.Logger) (*Server, error) {
	s := &Server{
		engine: eng,
		meta:   meta,
		auth:   authSvc,
		creds:  creds,
		aiCfg:  cfg.AI,
		addr:   fmt.Sprintf("%s:%d", cfg.GetHTTPAddress(), cfg.GetHTTPPort()),
		logger: logger.With().Str("component", "http-server").Logger(),
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "sqlcanvas",
		DisableStartupMessage: true,
		ReadTimeout:           30 * time.Second,
	})
	s.registerRoutes()

	return s, nil
}

func (s *Server) registerRoutes() {
	s.app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy", "timestamp": time.Now().UTC().Format(time.RFC3339)})
	})

	api := s.app.Group("/api")
	api.Post("/auth/register", s.handleRegister)
	api.Post("/auth/login", s.handleLogin)

	authed := api.Group("", s.requireAuth)
	authed.Post("/auth/logout", s.handleLogout)
	authed.Post("/query", s.handleQuery)
	authed.Get("/tables", s.handleListTables)
	authed.Get("/tables/:name", s.handleTableInfo)
	authed.Get("/tables/:name/sample", s.handleSampleRows)
	authed.Post("/visualize", s.handleVisualize)
	authed.Post("/flow-diagram", s.handleFlowDiagram)
	authed.Get("/history", s.handleHistory)
	authed.Post("/test-api-key", s.handleTestAPIKey)
	authed.Post("/credentials", s.handleSaveCredential)
	authed.Post("/explain-query", s.handleExplainQuery)
	authed.Post("/suggest-improvements", s.handleSuggestImprovements)
	authed.Post("/generate-sample-data", s.handleGenerateSampleData)
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	if !config.HTTP_SERVER_ENABLED {
		s.logger.Info().Msg("HTTP server is disabled")
		return nil
	}

	s.logger.Info().Str("address", s.addr).Msg("Starting HTTP server")
	go func() {
		if err := s.app.Listen(s.addr); err != nil {
			s.logger.Error().Err(err).Msg("HTTP server error")
		}
	}()
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown() error {
	s.logger.Info().Msg("Shutting down HTTP server")
	return s.app.ShutdownWithTimeout(5 * time.Second)
}

// App exposes the fiber application for in-process testing.
func (s *Server) App() *fiber.App {
	return s.app
}

// requireAuth resolves the bearer token into a user id.
func (s *Server) requireAuth(c *fiber.Ctx) error {
	token := bearerToken(c)
	if token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing session token"})
	}

	userID, err := s.auth.Authenticate(token)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid or expired session"})
	}

	c.Locals("user_id", userID)
	c.Locals("session_token", token)
	return c.Next()
}

func bearerToken(c *fiber.Ctx) string {
	const prefix = "Bearer "
	header := c.Get(fiber.HeaderAuthorization)
	if len(header) > len(prefix) && header[:len(prefix)] == prefix {
		return header[len(prefix):]
	}
	return ""
}

func userID(c *fiber.Ctx) int64 {
	id, _ := c.Locals("user_id").(int64)
	return id
}
