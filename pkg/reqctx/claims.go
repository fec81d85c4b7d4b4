package reqctx

import "context"

// AuthClaims is what a verified access token exposes to request handling.
type AuthClaims interface {
	GetUserID() string
	GetRole() string
	GetSessionID() string
}

// WithClaims stores authentication claims in the context.
func WithClaims(ctx context.Context, claims AuthClaims) context.Context {
	return context.WithValue(ctx, keyClaims, claims)
}

// ClaimsFromContext returns nil when the request is not authenticated.
func ClaimsFromContext(ctx context.Context) AuthClaims {
	claims, _ := lookup[AuthClaims](ctx, keyClaims)
	return claims
}

func IsAuthenticated(ctx context.Context) bool {
	return ClaimsFromContext(ctx) != nil
}

// UserIDFromContext returns "", false when not authenticated.
func UserIDFromContext(ctx context.Context) (string, bool) {
	claims := ClaimsFromContext(ctx)
	if claims == nil || claims.GetUserID() == "" {
		return "", false
	}
	return claims.GetUserID(), true
}
