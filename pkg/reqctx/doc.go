// Package reqctx carries request-scoped values through context.Context:
// request metadata set by the HTTP middleware, the claims of an
// authenticated caller and trace identifiers.
//
// Keys are unexported; use the typed setters and getters:
//
//	ctx = reqctx.WithRequestMeta(ctx, &reqctx.RequestMeta{RequestID: rid})
//	ctx = reqctx.WithClaims(ctx, claims)
//
//	if uid, ok := reqctx.UserIDFromContext(ctx); ok {
//	    ...
//	}
//
// Claims are only present on authenticated requests.
package reqctx
