package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/AbbasKothari1552/StreamShield/internal/api/middleware"
	v1routes "github.com/AbbasKothari1552/StreamShield/internal/api/v1/routes"
	"github.com/AbbasKothari1552/StreamShield/internal/api/v1/services"
	"github.com/AbbasKothari1552/StreamShield/internal/app/metrics"
	"github.com/AbbasKothari1552/StreamShield/internal/app/models"
	"github.com/AbbasKothari1552/StreamShield/internal/app/repository"
	"github.com/AbbasKothari1552/StreamShield/internal/app/settings"
	"github.com/AbbasKothari1552/StreamShield/internal/app/storage"
	"github.com/AbbasKothari1552/StreamShield/internal/config"
)

// Config represents API server configuration
type Config struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	Environment  string
}

// ConfigFrom converts the server section of the application configuration
func ConfigFrom(cfg config.ServerConfig) Config {
	return Config{
		Host:         cfg.Host,
		Port:         cfg.Port,
		ReadTimeout:  cfg.ReadTimeout(),
		WriteTimeout: cfg.WriteTimeout(),
		IdleTimeout:  cfg.IdleTimeout(),
		Environment:  cfg.Environment,
	}
}

// Dependencies are the application components served over HTTP
type Dependencies struct {
	Settings  *settings.Manager
	Inputs    services.Dispatcher
	Runner    services.Runner
	Runs      repository.RunDAO
	Loader    services.ModelLoader
	Artifacts storage.ArtifactStore
	Metrics   *metrics.Metrics
	Gatherer  prometheus.Gatherer
}

// Server represents the API server
type Server struct {
	config     Config
	router     *gin.Engine
	httpServer *http.Server
	logger     *zap.Logger
}

// NewServer creates a new API server
func NewServer(config Config, deps Dependencies, logger *zap.Logger) *Server {
	if config.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.StructuredLogging(logger))
	router.Use(middleware.Metrics(deps.Metrics))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().Unix(),
		})
	})

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	container := &v1routes.ServiceContainer{
		SettingsService: services.NewSettingsService(deps.Settings),
		InputService:    services.NewInputService(deps.Inputs, deps.Artifacts, logger),
		ModelService:    services.NewModelService(deps.Loader),
	}
	if deps.Runs != nil && deps.Runner != nil {
		container.RunService = services.NewRunService(deps.Runner, deps.Runs)
	}

	api := router.Group("/api")
	{
		v1 := api.Group("/v1")
		v1routes.RegisterRoutes(v1, container)
	}

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "StreamShield API",
			"version": "1.0",
			"device":  string(models.DetectDevice()),
			"endpoints": gin.H{
				"health":   "/health",
				"metrics":  "/metrics",
				"settings": "/api/v1/settings",
				"inputs":   "/api/v1/inputs",
				"models":   "/api/v1/models",
				"runs":     "/api/v1/runs",
			},
		})
	})

	addr := fmt.Sprintf("%s:%s", config.Host, config.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	return &Server{
		config:     config,
		router:     router,
		httpServer: httpServer,
		logger:     logger,
	}
}

// Start serves in the background. Listen failures are sent on the returned channel.
func (s *Server) Start() <-chan error {
	s.logger.Info("Starting API server",
		zap.String("host", s.config.Host),
		zap.String("port", s.config.Port),
		zap.String("environment", s.config.Environment),
	)

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Failed to start server", zap.Error(err))
			errCh <- err
		}
		close(errCh)
	}()

	s.logger.Info("API server started", zap.String("address", s.httpServer.Addr))
	return errCh
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down API server...")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("Server forced to shutdown", zap.Error(err))
		return err
	}

	s.logger.Info("API server shutdown complete")
	return nil
}

// Router returns the Gin router (useful for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}
