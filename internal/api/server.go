// ABOUTME: Local HTTP JSON API over the dashboard service.
// ABOUTME: Routes are scoped by a :user path parameter validated in middleware.
package api

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/harperreed/phr/internal/dashboard"
	"github.com/harperreed/phr/internal/metrics"
	"go.uber.org/zap"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

const localsUser = "user"

// Server handles the HTTP API.
type Server struct {
	app     *fiber.App
	svc     *dashboard.Service
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// New creates a new API server.
func New(svc *dashboard.Service, m *metrics.Metrics, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	app := fiber.New(fiber.Config{
		AppName:               "phr",
		DisableStartupMessage: true,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
		IdleTimeout:           120 * time.Second,
	})

	s := &Server{
		app:     app,
		svc:     svc,
		metrics: m,
		logger:  logger,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.app.Use(recover.New())
	s.app.Use(s.observe())

	s.app.Get("/api/health", s.handleHealth)
	s.app.Get("/metrics", adaptor.HTTPHandler(s.metrics.Handler()))

	users := s.app.Group("/api/users/:user")
	users.Get("/records", s.requireUser, s.handleListRecords)
	users.Post("/records", s.requireUser, s.handleAddRecord)
	users.Get("/recommendations", s.requireUser, s.handleRecommendations)
	users.Get("/analytics", s.requireUser, s.handleAnalytics)
	users.Get("/thresholds", s.requireUser, s.handleThresholds)
	users.Get("/report", s.requireUser, s.handleReport)
}

// App exposes the fiber app, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves on addr until Shutdown.
func (s *Server) Listen(addr string) error {
	s.logger.Info("API listening", zap.String("address", addr))
	return s.app.Listen(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.app.ShutdownWithContext(ctx)
}
