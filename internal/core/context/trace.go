package context

import (
	"context"

	"github.com/google/uuid"
)

// TraceContext carries the request correlation ids set by the HTTP trace
// middleware; loggers and the audit writer pick them up downstream.
type TraceContext struct {
	TraceID   string
	SpanID    string
	RequestID string
}

type traceKey struct{}

func WithTrace(ctx context.Context, trace *TraceContext) context.Context {
	return context.WithValue(ctx, traceKey{}, trace)
}

func GetTrace(ctx context.Context) *TraceContext {
	if v, ok := ctx.Value(traceKey{}).(*TraceContext); ok {
		return v
	}
	return nil
}

// GetRequestID returns the request id, or "" outside an HTTP request.
func GetRequestID(ctx context.Context) string {
	if t := GetTrace(ctx); t != nil {
		return t.RequestID
	}
	return ""
}

// NewTraceContext generates fresh ids for work not started by a request,
// such as the seed and migrate commands.
func NewTraceContext() *TraceContext {
	return &TraceContext{
		TraceID:   uuid.New().String(),
		SpanID:    uuid.New().String()[:16],
		RequestID: uuid.New().String(),
	}
}
