package reqctx

import (
	"context"
	"time"
)

type ctxKey int

const (
	keyRequestMeta ctxKey = iota
	keyClaims
	keyTrace
)

// lookup returns the value stored under key when it has type T and is not
// the zero value.
func lookup[T comparable](ctx context.Context, key ctxKey) (T, bool) {
	var zero T
	v, ok := ctx.Value(key).(T)
	if !ok || v == zero {
		return zero, false
	}
	return v, true
}

// RequestMeta describes the HTTP request a context belongs to.
type RequestMeta struct {
	RequestID   string // X-Request-Id as received, or a fresh UUID
	ClientIP    string
	UserAgent   string
	RequestedAt time.Time
}

// Elapsed is the time since the request arrived; zero without RequestedAt.
func (m *RequestMeta) Elapsed() time.Duration {
	if m == nil || m.RequestedAt.IsZero() {
		return 0
	}
	return time.Since(m.RequestedAt)
}

func WithRequestMeta(ctx context.Context, meta *RequestMeta) context.Context {
	return context.WithValue(ctx, keyRequestMeta, meta)
}

func RequestMetaFromContext(ctx context.Context) (*RequestMeta, bool) {
	return lookup[*RequestMeta](ctx, keyRequestMeta)
}

// RequestIDFromContext returns "" outside an HTTP request.
func RequestIDFromContext(ctx context.Context) string {
	if meta, ok := RequestMetaFromContext(ctx); ok {
		return meta.RequestID
	}
	return ""
}
