// Package http provides the HTTP server, router assembly, and shared middleware.
package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/metric"

	"github.com/SmartGenzAI1/securevibe/internal/config"
	"github.com/SmartGenzAI1/securevibe/internal/metrics"
	securityHTTP "github.com/SmartGenzAI1/securevibe/internal/security/http"
)

// Server represents the main HTTP server.
type Server struct {
	server   *http.Server
	router   *gin.Engine
	logger   *slog.Logger
	readyCtx context.Context
}

// ServerDeps bundles the handlers and middleware the router mounts.
type ServerDeps struct {
	CryptoHandler   *securityHTTP.CryptoHandler
	SecurityHandler *securityHTTP.SecurityHandler

	// Middleware applied across the API, outermost first.
	PerformanceMiddleware gin.HandlerFunc
	ThreatMiddleware      gin.HandlerFunc

	// Middleware applied to the authenticated /v1 group.
	UserRateLimitMiddleware gin.HandlerFunc
	SignatureMiddleware     gin.HandlerFunc

	MeterProvider metric.MeterProvider
}

// NewServer creates a new HTTP server with the full middleware chain and
// routes mounted.
func NewServer(
	cfg *config.Config,
	deps ServerDeps,
	logger *slog.Logger,
) *Server {
	gin.SetMode(cfg.GetGinMode())

	s := &Server{
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
	s.router = s.setupRouter(cfg, deps)
	s.server.Handler = s.router

	return s
}

// setupRouter assembles the middleware chain and routes. Order matters:
// request id and logging come first so every later stage can be correlated,
// the performance monitor wraps everything it should time, and threat
// detection runs before any handler sees the request.
func (s *Server) setupRouter(cfg *config.Config, deps ServerDeps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New())
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if cfg.MetricsEnabled && deps.MeterProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(deps.MeterProvider, cfg.MetricsNamespace))
	}

	if deps.PerformanceMiddleware != nil {
		router.Use(deps.PerformanceMiddleware)
	}
	if deps.ThreatMiddleware != nil {
		router.Use(deps.ThreatMiddleware)
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")
	if deps.UserRateLimitMiddleware != nil {
		v1.Use(deps.UserRateLimitMiddleware)
	}
	if deps.SignatureMiddleware != nil {
		v1.Use(deps.SignatureMiddleware)
	}

	v1.POST("/transit/encrypt", deps.CryptoHandler.EncryptHandler)
	v1.POST("/transit/decrypt", deps.CryptoHandler.DecryptHandler)

	v1.GET("/security/status", deps.SecurityHandler.StatusHandler)
	v1.GET("/security/events", deps.SecurityHandler.EventsHandler)
	v1.POST("/security/rotate", deps.SecurityHandler.RotateHandler)

	return router
}

// healthHandler reports liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports readiness. Returns 503 once shutdown has begun.
func (s *Server) readinessHandler(c *gin.Context) {
	if s.readyCtx != nil {
		select {
		case <-s.readyCtx.Done():
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready"})
			return
		default:
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start starts the HTTP server. The context gates the readiness endpoint:
// when it is cancelled, /ready starts returning 503.
func (s *Server) Start(ctx context.Context) error {
	s.readyCtx = ctx

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
