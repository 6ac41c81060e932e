package middlewares

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vzahanych/weather-lookup/internal/config"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	maxTrackedClients = 10000
	clientIdleTTL     = 10 * time.Minute
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter hands out one token bucket per client IP.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
	limit   rate.Limit
	burst   int
}

func NewRateLimiter(cfg config.RateLimitConfig) *RateLimiter {
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	return &RateLimiter{
		clients: make(map[string]*clientLimiter),
		limit:   rate.Limit(cfg.RPS),
		burst:   burst,
	}
}

// Allow reports whether the client may make a request now.
func (r *RateLimiter) Allow(client string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	cl, ok := r.clients[client]
	if !ok {
		if len(r.clients) >= maxTrackedClients {
			r.evictIdle(now)
		}
		cl = &clientLimiter{limiter: rate.NewLimiter(r.limit, r.burst)}
		r.clients[client] = cl
	}
	cl.lastSeen = now

	return cl.limiter.AllowN(now, 1)
}

func (r *RateLimiter) evictIdle(now time.Time) {
	for ip, cl := range r.clients {
		if now.Sub(cl.lastSeen) > clientIdleTTL {
			delete(r.clients, ip)
		}
	}
}

// RateLimitMiddleware rejects clients exceeding cfg with 429. A non-positive
// RPS disables limiting.
func RateLimitMiddleware(cfg config.RateLimitConfig, logger *zap.Logger) gin.HandlerFunc {
	if cfg.RPS <= 0 {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	limiter := NewRateLimiter(cfg)

	return func(c *gin.Context) {
		if limiter.Allow(c.ClientIP()) {
			c.Next()
			return
		}

		logger.Warn("Rate limit exceeded",
			zap.String("client_ip", c.ClientIP()),
			zap.String("path", c.Request.URL.Path))

		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"error": "Too many requests. Please slow down.",
			"code":  "RATE_LIMITED",
		})
	}
}
