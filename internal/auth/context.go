package auth

import "context"

type principalContextKey struct{}
type refreshTokenContextKey struct{}

// ContextWithPrincipal attaches the authenticated principal to the context.
func ContextWithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, &p)
}

// PrincipalFromContext extracts the authenticated principal from the context.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	if ctx == nil {
		return Principal{}, false
	}
	v, ok := ctx.Value(principalContextKey{}).(*Principal)
	if !ok || v == nil {
		return Principal{}, false
	}
	return *v, true
}

// ContextWithRefreshToken stores the raw refresh token for the duration of
// one request, so the refresh handler can re-validate it against the store.
func ContextWithRefreshToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, refreshTokenContextKey{}, token)
}

// RefreshTokenFromContext returns the refresh token if previously attached.
func RefreshTokenFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	v, ok := ctx.Value(refreshTokenContextKey{}).(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
