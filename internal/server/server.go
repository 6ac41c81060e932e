package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vzahanych/weather-lookup/internal/config"
	"github.com/vzahanych/weather-lookup/internal/gateway"
	"github.com/vzahanych/weather-lookup/internal/server/handlers"
	"github.com/vzahanych/weather-lookup/internal/server/middlewares"
	"github.com/vzahanych/weather-lookup/pkg/telemetry"
	"go.uber.org/zap"
)

type Server struct {
	engine *gin.Engine
	server *http.Server
	cfg    config.ServerConfig
	gw     *gateway.Gateway
	logger *zap.Logger
	tele   *telemetry.Telemetry
}

func NewServer(cfg config.ServerConfig, gw *gateway.Gateway, logger *zap.Logger, tele *telemetry.Telemetry) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	metrics := middlewares.NewMetricsMiddleware(logger, tele)

	engine.Use(middlewares.RequestIDMiddleware())
	engine.Use(middlewares.LoggingMiddleware(logger, true))
	engine.Use(middlewares.RecoveryMiddleware(logger, true))
	engine.Use(middlewares.TelemetryMiddleware(logger, tele))
	engine.Use(metrics.Handler())

	s := &Server{
		engine: engine,
		cfg:    cfg,
		gw:     gw,
		logger: logger,
		tele:   tele,
	}

	s.setupRoutes(metrics.GetHTTPMetrics())

	return s
}

func (s *Server) setupRoutes(httpMetrics *middlewares.HTTPMetrics) {
	metricsHandler := handlers.NewMetricsHandler(httpMetrics, s.logger)
	s.gw.SetMetricsRecorder(metricsHandler)

	weather := handlers.NewWeatherHandler(s.gw, s.logger)

	// Business endpoints
	api := s.engine.Group("/", middlewares.RateLimitMiddleware(s.cfg.RateLimit, s.logger))
	api.GET("/weather", weather.GetWeatherByCity)
	api.GET("/weather/coords", weather.GetWeatherByCoords)
	api.GET("/advisory/:level", weather.GetAdvisory)

	// Health endpoints (Kubernetes friendly)
	health := handlers.NewHealthHandler(s.gw.Mode(), s.logger)
	s.engine.GET("/health", health.Health)
	s.engine.GET("/health/live", health.Liveness)
	s.engine.GET("/health/ready", health.Readiness)

	// Monitoring endpoints
	s.engine.GET("/metrics", metricsHandler.ServeMetrics)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:      s.engine,
		ReadTimeout:  time.Duration(s.cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.cfg.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.cfg.IdleTimeout) * time.Second,
	}

	s.logger.Info("Starting server",
		zap.String("addr", s.server.Addr),
		zap.String("mode", string(s.gw.Mode())))

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	return s.server.Shutdown(ctx)
}
