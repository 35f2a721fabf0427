package cache

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"findmystuff/internal/infrastructure/cache/port"
)

// RateLimit returns a fixed-window per-client-IP limiter backed by the cache
// port. It fails open: a cache outage must not take the API down with it.
func RateLimit(cache port.Cache, window time.Duration, max int, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "ratelimit:" + c.ClientIP()
		n, err := cache.Incr(c.Request.Context(), key, window)
		if err != nil {
			logger.Warn("rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}
		if n > int64(max) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}
