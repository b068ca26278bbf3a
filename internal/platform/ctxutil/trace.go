package ctxutil

import "context"

type traceDataKey struct{}

// TraceData identifies one HTTP request across logs and spans.
type TraceData struct {
	TraceID   string
	RequestID string
}

func WithTraceData(ctx context.Context, td *TraceData) context.Context {
	return context.WithValue(Default(ctx), traceDataKey{}, td)
}

func GetTraceData(ctx context.Context) *TraceData {
	if ctx == nil {
		return nil
	}
	if td, ok := ctx.Value(traceDataKey{}).(*TraceData); ok {
		return td
	}
	return nil
}

// LogFields returns the trace, request and caller ids of ctx as logger
// key/value pairs.
func LogFields(ctx context.Context) []interface{} {
	fields := make([]interface{}, 0, 8)
	if td := GetTraceData(ctx); td != nil {
		if td.TraceID != "" {
			fields = append(fields, "trace_id", td.TraceID)
		}
		if td.RequestID != "" {
			fields = append(fields, "request_id", td.RequestID)
		}
	}
	if rd := GetRequestData(ctx); rd != nil {
		if rd.UserID != "" {
			fields = append(fields, "user_id", rd.UserID)
		}
		if rd.SessionID != "" {
			fields = append(fields, "session_id", rd.SessionID)
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}
