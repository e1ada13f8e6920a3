package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/aescanero/blockqueue/internal/application/orchestrator"
	"github.com/aescanero/blockqueue/internal/application/runloop"
	"github.com/aescanero/blockqueue/pkg/adapters/actor/walker"
)

// SessionSource exposes the orchestrator state. View runs on the loop.
type SessionSource interface {
	View() *orchestrator.View
}

// ActorSource exposes the action actor state
type ActorSource interface {
	State() walker.State
}

// HealthChecker reports the last watchdog result
type HealthChecker interface {
	GetStatus() runloop.HealthStatus
}

// Server represents the HTTP ops server
type Server struct {
	router   *gin.Engine
	server   *http.Server
	loop     *runloop.Loop
	session  SessionSource
	actor    ActorSource
	health   HealthChecker
	logger   *zap.Logger
	timeout  time.Duration
	gatherer prometheus.Gatherer
}

// Config holds HTTP server configuration
type Config struct {
	Port     int
	Loop     *runloop.Loop
	Session  SessionSource
	Actor    ActorSource
	Health   HealthChecker
	Gatherer prometheus.Gatherer
	Logger   *zap.Logger

	// RequestTimeout bounds how long a request waits for the loop
	RequestTimeout time.Duration
}

// NewServer creates a new HTTP server
func NewServer(cfg *Config) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(cfg.Logger))
	router.Use(corsMiddleware())

	gatherer := cfg.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	s := &Server{
		router:   router,
		loop:     cfg.Loop,
		session:  cfg.Session,
		actor:    cfg.Actor,
		health:   cfg.Health,
		logger:   cfg.Logger,
		timeout:  timeout,
		gatherer: gatherer,
	}

	s.setupRoutes()

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// setupRoutes configures API routes
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)
	s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))

	v1 := s.router.Group("/api/v1")
	{
		v1.GET("/session", s.handleGetSession)
	}
}

// SetupWebSocket adds the event feed handler to the server
func (s *Server) SetupWebSocket(handler interface{}) {
	if wsHandler, ok := handler.(interface {
		HandleEventStream(*gin.Context)
	}); ok {
		s.router.GET("/api/v1/session/ws", wsHandler.HandleEventStream)
	}
}

// Handler returns the router, used by tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	s.logger.Info("HTTP server shut down complete")
	return nil
}

// requestLogger is a middleware for request logging
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		duration := time.Since(start)

		logger.Debug("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", duration),
			zap.String("client_ip", c.ClientIP()))
	}
}
