package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vzahanych/weather-lookup/internal/gateway"
	"go.uber.org/zap"
)

type HealthHandler struct {
	logger    *zap.Logger
	mode      gateway.Mode
	startTime time.Time
}

func NewHealthHandler(mode gateway.Mode, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		logger:    logger,
		mode:      mode,
		startTime: time.Now(),
	}
}

func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status: "alive",
		Uptime: time.Since(h.startTime).String(),
	})
}

// Readiness is always ready; synthetic mode serves without a provider.
func (h *HealthHandler) Readiness(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status: "ready",
		Uptime: time.Since(h.startTime).String(),
		Mode:   string(h.mode),
	})
}

func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		Uptime:    time.Since(h.startTime).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Mode:      string(h.mode),
	})
}
