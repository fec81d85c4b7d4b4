package reqctx

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

// TraceInfo is the W3C trace context of a request in hex form.
type TraceInfo struct {
	TraceID string
	SpanID  string
	Sampled bool
}

func WithTrace(ctx context.Context, info *TraceInfo) context.Context {
	return context.WithValue(ctx, keyTrace, info)
}

// TraceFromContext returns the stored TraceInfo, falling back to the active
// OpenTelemetry span. It reports false when neither is present.
func TraceFromContext(ctx context.Context) (*TraceInfo, bool) {
	if info, ok := lookup[*TraceInfo](ctx, keyTrace); ok {
		return info, true
	}
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return nil, false
	}
	return &TraceInfo{
		TraceID: sc.TraceID().String(),
		SpanID:  sc.SpanID().String(),
		Sampled: sc.IsSampled(),
	}, true
}

// TraceIDFromContext returns the trace ID, or empty string if not set.
func TraceIDFromContext(ctx context.Context) string {
	if info, ok := TraceFromContext(ctx); ok {
		return info.TraceID
	}
	return ""
}
