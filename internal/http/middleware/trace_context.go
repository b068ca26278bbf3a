package middleware

import (
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/coincollector-backend/internal/platform/ctxutil"
)

const (
	headerTraceID   = "X-Trace-Id"
	headerRequestID = "X-Request-Id"
)

// Inbound request ids end up in every log line of the request, so only
// short opaque tokens are accepted.
var requestIDPattern = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)

// AttachTraceContext gives every request a trace id and a request id, stores
// them in the request context and echoes them in the response headers.
// When otelgin opened a span its trace id wins over the X-Trace-Id header.
func AttachTraceContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := strings.TrimSpace(c.GetHeader(headerRequestID))
		if !requestIDPattern.MatchString(reqID) {
			reqID = uuid.New().String()
		}

		span := trace.SpanFromContext(c.Request.Context())
		traceID := ""
		if sc := span.SpanContext(); sc.HasTraceID() {
			traceID = sc.TraceID().String()
		}
		if traceID == "" {
			if inbound := strings.TrimSpace(c.GetHeader(headerTraceID)); requestIDPattern.MatchString(inbound) {
				traceID = inbound
			}
		}
		if traceID == "" {
			traceID = uuid.New().String()
		}
		span.SetAttributes(attribute.String("http.request_id", reqID))

		ctx := ctxutil.WithTraceData(c.Request.Context(), &ctxutil.TraceData{
			TraceID:   traceID,
			RequestID: reqID,
		})
		c.Request = c.Request.WithContext(ctx)
		c.Writer.Header().Set(headerTraceID, traceID)
		c.Writer.Header().Set(headerRequestID, reqID)
		c.Next()
	}
}

// attachCaller records the authenticated user and session on the request
// context and on the request span. The session id never leaves the server.
func attachCaller(c *gin.Context, rd *ctxutil.RequestData) {
	if rd == nil {
		return
	}
	ctx := ctxutil.WithRequestData(c.Request.Context(), rd)
	trace.SpanFromContext(ctx).SetAttributes(
		attribute.String("enduser.id", rd.UserID),
		attribute.String("session.id", rd.SessionID),
	)
	c.Request = c.Request.WithContext(ctx)
}
