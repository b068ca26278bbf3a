package middleware

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/coincollector-backend/internal/http/response"
	"github.com/yungbote/coincollector-backend/internal/observability"
	"github.com/yungbote/coincollector-backend/internal/platform/ctxutil"
)

const metricsRoute = "/metrics"

// Metrics counts requests per route and library resource, split by whether
// a session authenticated the caller. Error envelopes are counted by code.
// Scrapes of the metrics endpoint itself are not observed.
func Metrics(m *observability.Metrics) gin.HandlerFunc {
	if m == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		if c.FullPath() == metricsRoute {
			c.Next()
			return
		}
		start := time.Now()
		m.ApiInflightInc()
		defer m.ApiInflightDec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		resource := routeResource(route)
		m.ObserveAPI(observability.APIRequest{
			Method:        c.Request.Method,
			Route:         route,
			Resource:      resource,
			Status:        strconv.Itoa(c.Writer.Status()),
			Authenticated: ctxutil.GetRequestData(c.Request.Context()) != nil,
		}, time.Since(start))
		if code := response.ErrorCode(c); code != "" {
			m.IncAPIError(resource, code)
		}
	}
}

// routeResource maps a route template to the library resource it serves.
func routeResource(route string) string {
	switch {
	case strings.HasPrefix(route, "/api/groups"):
		return "group"
	case strings.HasPrefix(route, "/api/collections"):
		return "collection"
	case strings.HasPrefix(route, "/api/coins"):
		return "coin"
	case route == "/api/login", route == "/api/register", route == "/api/logout":
		return "auth"
	case route == "/healthcheck", route == metricsRoute:
		return "system"
	}
	return "unknown"
}
