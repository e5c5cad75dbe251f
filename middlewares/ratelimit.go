package middlewares

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiterConfig holds the configuration for the rate limiter
type RateLimiterConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// clientLimiters keeps one token bucket per client IP.
type clientLimiters struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	config   RateLimiterConfig
}

func (cl *clientLimiters) get(ip string) *rate.Limiter {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	limiter, ok := cl.limiters[ip]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(cl.config.RequestsPerSecond), cl.config.Burst)
		cl.limiters[ip] = limiter
	}
	return limiter
}

// NewRateLimiterMiddleware creates a per-client-IP rate limiter middleware.
func NewRateLimiterMiddleware(config RateLimiterConfig) gin.HandlerFunc {
	clients := &clientLimiters{
		limiters: make(map[string]*rate.Limiter),
		config:   config,
	}

	return func(c *gin.Context) {
		if !clients.get(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded",
			})
			return
		}
		c.Next()
	}
}
