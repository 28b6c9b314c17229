package ctxmanage

import (
	"context"

	"github.com/gin-gonic/gin"
)

type key string

// TraceIDKey is the context key under which the per-request trace id lives.
const TraceIDKey key = "trace_id"

// WithTraceId returns a context carrying the given trace id.
func WithTraceId(ctx context.Context, traceId string) context.Context {
	return context.WithValue(ctx, TraceIDKey, traceId)
}

// GetTraceId extracts the trace id from a plain context.
func GetTraceId(ctx context.Context) string {
	traceId, ok := ctx.Value(TraceIDKey).(string)
	if !ok {
		return "unknown"
	}
	return traceId
}

// GetTraceIdOfRequest extracts the trace id set by the logging middleware.
func GetTraceIdOfRequest(c *gin.Context) string {
	return GetTraceId(c.Request.Context())
}
