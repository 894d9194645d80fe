package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hexaciphers/hexaciphers/internal/application/dashboard"
	"github.com/hexaciphers/hexaciphers/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Server represents the HTTP API server
type Server struct {
	router    *gin.Engine
	server    *http.Server
	dashboard *dashboard.Manager
	metrics   ports.MetricsCollector
	gatherer  prometheus.Gatherer
	timeout   time.Duration
	logger    *zap.Logger
}

// Config holds HTTP server configuration
type Config struct {
	Port      int
	Dashboard *dashboard.Manager
	Metrics   ports.MetricsCollector
	// Gatherer backs /metrics; nil uses the default Prometheus registry
	Gatherer prometheus.Gatherer
	// RequestTimeout bounds /api requests when positive
	RequestTimeout time.Duration
	Logger         *zap.Logger
}

// NewServer creates a new HTTP server
func NewServer(cfg *Config) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(cfg.Logger))
	router.Use(requestMetrics(cfg.Metrics))
	router.Use(corsMiddleware())

	gatherer := cfg.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	s := &Server{
		router:    router,
		dashboard: cfg.Dashboard,
		metrics:   cfg.Metrics,
		gatherer:  gatherer,
		timeout:   cfg.RequestTimeout,
		logger:    cfg.Logger,
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
	s.router.GET("/health", s.handleLiveness)
	s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))

	api := s.router.Group("/api")
	api.Use(requestTimeout(s.timeout))
	{
		api.GET("/health", s.handleHealth)
		api.GET("/stats", s.handleStats)

		api.GET("/posts", s.handleListPosts)
		api.POST("/posts", s.handleCreatePost)

		api.GET("/campaigns", s.handleListCampaigns)
		api.POST("/campaigns/detect", s.handleDetectCampaigns)
		api.GET("/campaigns/bots", s.handleDetectBots)

		api.GET("/users", s.handleListUsers)
		api.GET("/users/influence", s.handleInfluenceRankings)
		api.GET("/alerts", s.handleListAlerts)

		api.POST("/collect/twitter", s.handleCollectTwitter)
		api.POST("/collect/reddit", s.handleCollectReddit)
		api.POST("/collect/youtube", s.handleCollectYouTube)

		api.POST("/classify", s.handleClassify)
		api.POST("/process/text", s.handleProcessText)
		api.POST("/analyze-url", s.handleAnalyzeURL)
	}
}

// SetupWebSocket registers the live alert stream. It is kept outside the
// /api group so the request timeout does not cut long-lived connections.
func (s *Server) SetupWebSocket(handler gin.HandlerFunc) {
	s.router.GET("/api/alerts/ws", handler)
}

// Handler exposes the router, mainly for tests
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
