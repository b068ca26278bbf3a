package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/coincollector-backend/internal/http/response"
	"github.com/yungbote/coincollector-backend/internal/platform/ctxutil"
	"github.com/yungbote/coincollector-backend/internal/platform/logger"
)

// RequestLogger writes one access line per request with the library resource,
// the error code of a failed request and the trace and caller ids. Health and
// metrics polling is logged at debug level; otherwise the level follows the
// status class.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		route := c.FullPath()
		resource := routeResource(route)

		fields := []interface{}{
			"method", strings.ToUpper(c.Request.Method),
			"path", c.Request.URL.Path,
			"resource", resource,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if route != "" && route != c.Request.URL.Path {
			fields = append(fields, "route", route)
		}
		if code := response.ErrorCode(c); code != "" {
			fields = append(fields, "error_code", code)
		}
		fields = append(fields, ctxutil.LogFields(c.Request.Context())...)

		switch {
		case status >= 500:
			log.Error("HTTP request", fields...)
		case status >= 400:
			log.Warn("HTTP request", fields...)
		case resource == "system":
			log.Debug("HTTP request", fields...)
		default:
			log.Info("HTTP request", fields...)
		}
	}
}
