package httpx

import (
	"context"

	"github.com/driftwave/auth/pkg/jwtx"
)

type ctxKey string

const (
	CtxKeyUserID    ctxKey = "user_id"
	CtxKeySessionID ctxKey = "session_id"
	CtxKeyClaims    ctxKey = "claims" // full jwtx.Claims if you need them
)

// UserIDFromCtx returns the authenticated caller's user ID, or "" when the
// request was not authenticated.
func UserIDFromCtx(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyUserID).(string); ok {
		return v
	}
	return ""
}

// SessionIDFromCtx returns the device session ID embedded in the access
// token, or "" when absent.
func SessionIDFromCtx(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeySessionID).(string); ok {
		return v
	}
	return ""
}

// ClaimsFromCtx returns the full access-token claims of the authenticated
// caller. The second return is false when the request was not authenticated.
func ClaimsFromCtx(ctx context.Context) (jwtx.Claims, bool) {
	c, ok := ctx.Value(CtxKeyClaims).(jwtx.Claims)
	return c, ok
}
