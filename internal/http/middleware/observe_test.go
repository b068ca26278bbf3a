package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/yungbote/coincollector-backend/internal/http/response"
	"github.com/yungbote/coincollector-backend/internal/observability"
	"github.com/yungbote/coincollector-backend/internal/platform/ctxutil"
	"github.com/yungbote/coincollector-backend/internal/platform/logger"
)

func TestAttachTraceContextValidatesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var seen *ctxutil.TraceData
	r := gin.New()
	r.Use(AttachTraceContext())
	r.GET("/api/coins/:id", func(c *gin.Context) {
		seen = ctxutil.GetTraceData(c.Request.Context())
		c.Status(http.StatusOK)
	})

	cases := []struct {
		inbound string
		kept    bool
	}{
		{"req-42.a_b", true},
		{"", false},
		{"has spaces", false},
		{"line\nbreak", false},
		{string(make([]byte, 65)), false},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/api/coins/c1", nil)
		if tc.inbound != "" {
			req.Header[headerRequestID] = []string{tc.inbound}
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		got := rec.Header().Get(headerRequestID)
		require.NotNil(t, seen)
		assert.Equal(t, got, seen.RequestID)
		assert.NotEmpty(t, rec.Header().Get(headerTraceID))
		if tc.kept {
			assert.Equal(t, tc.inbound, got)
		} else {
			assert.NotEqual(t, tc.inbound, got)
			assert.Regexp(t, requestIDPattern, got)
		}
	}
}

func TestAttachCallerAnnotatesRequestSpan(t *testing.T) {
	gin.SetMode(gin.TestMode)
	spans := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	var fields []interface{}
	r := gin.New()
	r.Use(func(c *gin.Context) {
		ctx, span := tp.Tracer("test").Start(c.Request.Context(), "request")
		defer span.End()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})
	r.Use(AttachTraceContext())
	r.GET("/api/groups", func(c *gin.Context) {
		attachCaller(c, &ctxutil.RequestData{UserID: "u1", SessionID: "s1"})
		fields = ctxutil.LogFields(c.Request.Context())
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/groups", nil)
	req.Header.Set(headerRequestID, "req-1")
	req.Header.Set(headerTraceID, "ignored-when-span-exists")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	ended := spans.Ended()
	require.Len(t, ended, 1)
	attrs := map[string]string{}
	for _, kv := range ended[0].Attributes() {
		attrs[string(kv.Key)] = kv.Value.AsString()
	}
	assert.Equal(t, "req-1", attrs["http.request_id"])
	assert.Equal(t, "u1", attrs["enduser.id"])
	assert.Equal(t, "s1", attrs["session.id"])
	assert.Equal(t, ended[0].SpanContext().TraceID().String(), rec.Header().Get(headerTraceID))
	assert.Contains(t, fields, "session_id")
	assert.Contains(t, fields, "s1")
}

func TestMetricsLabelsResourceCallerAndErrorCode(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := observability.NewMetrics()
	r := gin.New()
	r.Use(Metrics(m))
	r.GET("/metrics", gin.WrapH(m.Handler()))
	r.GET("/api/coins/:id", func(c *gin.Context) {
		attachCaller(c, &ctxutil.RequestData{UserID: "u1", SessionID: "s1"})
		response.RespondError(c, http.StatusNotFound, "not_found", errors.New("coin not found"))
	})
	r.POST("/api/login", func(c *gin.Context) {
		response.AbortError(c, http.StatusUnauthorized, "unauthorized", errors.New("bad credentials"))
	})

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodGet, "/api/coins/c1", nil),
		httptest.NewRequest(http.MethodPost, "/api/login", nil),
		httptest.NewRequest(http.MethodGet, "/metrics", nil),
	} {
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	assert.Contains(t, body, `http_requests_total{caller="user",method="GET",resource="coin",route="/api/coins/:id",status="404"} 1`)
	assert.Contains(t, body, `http_requests_total{caller="anonymous",method="POST",resource="auth",route="/api/login",status="401"} 1`)
	assert.Contains(t, body, `http_request_errors_total{code="not_found",resource="coin"} 1`)
	assert.Contains(t, body, `http_request_errors_total{code="unauthorized",resource="auth"} 1`)
	assert.NotContains(t, body, `route="/metrics"`)
}

func TestRequestLoggerRecordsResourceAndErrorCode(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.DebugLevel)
	log := &logger.Logger{SugaredLogger: zap.New(core).Sugar()}

	r := gin.New()
	r.Use(AttachTraceContext())
	r.Use(RequestLogger(log))
	r.GET("/healthcheck", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.DELETE("/api/collections/:id", func(c *gin.Context) {
		response.RespondError(c, http.StatusForbidden, "forbidden", errors.New("not your collection"))
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodDelete, "/api/collections/c1", nil))

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)

	health := entries[0].ContextMap()
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, "system", health["resource"])
	assert.NotContains(t, health, "error_code")

	denied := entries[1].ContextMap()
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "collection", denied["resource"])
	assert.Equal(t, "forbidden", denied["error_code"])
	assert.Equal(t, "/api/collections/:id", denied["route"])
	assert.NotEmpty(t, denied["request_id"])
}

func TestRouteResource(t *testing.T) {
	cases := map[string]string{
		"/api/groups":          "group",
		"/api/groups/:id":      "group",
		"/api/collections/:id": "collection",
		"/api/coins":           "coin",
		"/api/login":           "auth",
		"/api/logout":          "auth",
		"/healthcheck":         "system",
		"/metrics":             "system",
		"":                     "unknown",
		"/api/other":           "unknown",
	}
	for route, want := range cases {
		assert.Equal(t, want, routeResource(route), route)
	}
}
