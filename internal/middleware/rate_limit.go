package middleware

import (
	"math"
	"strconv"
	"time"

	"teamwork/internal/cache"
	apperrors "teamwork/internal/errors"
	"teamwork/pkg/response"

	"github.com/gin-gonic/gin"
)

// RateLimit returns a middleware that allows limit requests per window for
// each client IP on the route. A nil limiter or non-positive limit disables
// it; metrics may be nil.
func RateLimit(limiter cache.RateLimiter, limit int, window time.Duration, metrics *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil || limit <= 0 {
			c.Next()
			return
		}

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		key := "ratelimit:" + route + ":ip:" + c.ClientIP()

		decision := limiter.Allow(c.Request.Context(), key, limit, window)

		remaining := decision.Limit - decision.Count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !decision.Allowed {
			metrics.recordRateLimitHit(route)
			retryAfter := int(math.Ceil(decision.ResetAfter.Seconds()))
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			response.TooManyRequests(c, apperrors.ErrRateLimited.Error())
			c.Abort()
			return
		}

		c.Next()
	}
}
