package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sequor/internal/infrastructure/ratelimit"
	"sequor/internal/shared/logger"
	"sequor/internal/shared/utils"
)

// AllocationRateLimit throttles allocation requests per client IP. When the
// limiter backend is down the request passes through; a degraded limiter
// must not take code allocation down with it.
func AllocationRateLimit(limiter ratelimit.RateLimiter, config ratelimit.Config, log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, err := limiter.Allow(c.ClientIP(), config)
		if err != nil {
			log.Warnw("rate limiter unavailable, allowing request",
				"client_ip", c.ClientIP(),
				"error", err)
			c.Next()
			return
		}

		if !allowed {
			utils.ErrorResponse(c, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
			c.Abort()
			return
		}

		c.Next()
	}
}
