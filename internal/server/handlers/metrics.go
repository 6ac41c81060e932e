package handlers

import (
	"context"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/vzahanych/weather-lookup/internal/server/middlewares"
	"go.uber.org/zap"
)

// AppMetrics holds application-level metrics (provider calls, lookups)
type AppMetrics struct {
	mutex          sync.RWMutex
	providerCalls  map[string]int64
	providerErrors map[string]int64
	lookups        map[string]int64
}

type MetricsHandler struct {
	logger      *zap.Logger
	appMetrics  *AppMetrics
	httpMetrics *middlewares.HTTPMetrics
}

func NewMetricsHandler(httpMetrics *middlewares.HTTPMetrics, logger *zap.Logger) *MetricsHandler {
	return &MetricsHandler{
		logger: logger,
		appMetrics: &AppMetrics{
			providerCalls:  make(map[string]int64),
			providerErrors: make(map[string]int64),
			lookups:        make(map[string]int64),
		},
		httpMetrics: httpMetrics,
	}
}

// RecordProviderCall records a weather provider API call
func (h *MetricsHandler) RecordProviderCall(ctx context.Context, endpoint string, success bool) {
	h.appMetrics.mutex.Lock()
	h.appMetrics.providerCalls[endpoint]++
	if !success {
		h.appMetrics.providerErrors[endpoint]++
	}
	h.appMetrics.mutex.Unlock()
}

// RecordLookup records a completed lookup per gateway mode
func (h *MetricsHandler) RecordLookup(ctx context.Context, mode string) {
	h.appMetrics.mutex.Lock()
	h.appMetrics.lookups[mode]++
	h.appMetrics.mutex.Unlock()
}

// ServeMetrics exposes metrics in Prometheus text format
func (h *MetricsHandler) ServeMetrics(c *gin.Context) {
	var b strings.Builder

	if h.httpMetrics != nil {
		snap := h.httpMetrics.Snapshot()

		b.WriteString("# HELP http_requests_total Total number of HTTP requests\n")
		b.WriteString("# TYPE http_requests_total counter\n")
		writeCounters(&b, "http_requests_total", "route_status", snap.RequestsTotal)

		b.WriteString("\n# HELP http_request_duration_seconds_avg Average duration of HTTP requests\n")
		b.WriteString("# TYPE http_request_duration_seconds_avg gauge\n")
		b.WriteString("http_request_duration_seconds_avg " + strconv.FormatFloat(snap.AvgDurationSeconds, 'f', 6, 64) + "\n")

		b.WriteString("\n# HELP http_active_requests Number of active HTTP requests\n")
		b.WriteString("# TYPE http_active_requests gauge\n")
		b.WriteString("http_active_requests " + strconv.FormatInt(snap.ActiveRequests, 10) + "\n\n")
	}

	h.appMetrics.mutex.RLock()
	defer h.appMetrics.mutex.RUnlock()

	b.WriteString("# HELP weather_provider_calls_total Total weather provider calls\n")
	b.WriteString("# TYPE weather_provider_calls_total counter\n")
	writeCounters(&b, "weather_provider_calls_total", "endpoint", h.appMetrics.providerCalls)

	b.WriteString("\n# HELP weather_provider_errors_total Total weather provider errors\n")
	b.WriteString("# TYPE weather_provider_errors_total counter\n")
	writeCounters(&b, "weather_provider_errors_total", "endpoint", h.appMetrics.providerErrors)

	b.WriteString("\n# HELP weather_lookups_total Total successful lookups by mode\n")
	b.WriteString("# TYPE weather_lookups_total counter\n")
	writeCounters(&b, "weather_lookups_total", "mode", h.appMetrics.lookups)

	c.Header("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
	c.String(200, b.String())
}

func writeCounters(b *strings.Builder, name, label string, values map[string]int64) {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	for _, key := range keys {
		b.WriteString(name + "{" + label + "=\"" + key + "\"} " + strconv.FormatInt(values[key], 10) + "\n")
	}
}
