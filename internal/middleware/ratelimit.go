package middleware

import (
	"github.com/gin-gonic/gin"

	apperrors "welth/internal/errors"
	"welth/internal/ratelimit"
)

// RateLimit rejects requests once the caller exhausts its budget in limiter.
// Callers are keyed by authenticated user ID, falling back to client IP.
func RateLimit(limiter *ratelimit.Keyed) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetString("userID")
		if key == "" {
			key = "ip:" + c.ClientIP()
		}
		if !limiter.Allow(key) {
			c.Header("Retry-After", "60")
			abortWithError(c, apperrors.ErrRateLimited)
			return
		}
		c.Next()
	}
}
