package middleware

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/yungbote/coincollector-backend/internal/http/response"
	"github.com/yungbote/coincollector-backend/internal/platform/logger"
)

// NewMemoryLimiter builds a per-process limiter from a formatted rate such as
// "5-M" (five requests per minute).
func NewMemoryLimiter(formatted string) (*limiter.Limiter, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, err
	}
	return limiter.New(memory.NewStore(), rate), nil
}

// RateLimit limits requests per client IP. A nil limiter lets everything through.
func RateLimit(log *logger.Logger, lim *limiter.Limiter) gin.HandlerFunc {
	if lim == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		ip := c.ClientIP()
		lc, err := lim.Get(c.Request.Context(), ip)
		if err != nil {
			log.Error("Failed to get rate limit context", "ip", ip, "error", err)
			response.AbortError(c, http.StatusInternalServerError, "internal", errors.New("rate limit check failed"))
			return
		}

		c.Header("X-RateLimit-Limit", strconv.FormatInt(lc.Limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(lc.Remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(lc.Reset, 10))

		if lc.Reached {
			log.Warn("Rate limit exceeded", "ip", ip, "limit", lc.Limit)
			response.AbortError(c, http.StatusTooManyRequests, "rate_limited", errors.New("too many requests, try again later"))
			return
		}
		c.Next()
	}
}
