package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"inkwell.dev/internal/auth"
	"inkwell.dev/internal/authz"
	"inkwell.dev/internal/obs"
)

const (
	authHeader = "Authorization"
	bearer     = "Bearer "
)

// accessToken extracts the access token from the Authorization header,
// falling back to the cookie. Header wins when both are present.
func accessToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get(authHeader))
	if header != "" && strings.HasPrefix(strings.ToLower(header), strings.ToLower(bearer)) {
		if token := strings.TrimSpace(header[len(bearer):]); token != "" {
			return token
		}
	}
	if c, err := r.Cookie(cookieAccessToken); err == nil {
		return c.Value
	}
	return ""
}

func verifyResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, auth.ErrTokenExpired):
		return "expired"
	case errors.Is(err, auth.ErrWrongKind):
		return "wrong_kind"
	default:
		return "malformed"
	}
}

// requireAccess authenticates the request with an access token and attaches
// the principal to the context. Missing or invalid tokens are a 401.
func (a *API) requireAccess(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := accessToken(r)
		if token == "" {
			writeError(w, r, http.StatusUnauthorized, "missing access token")
			return
		}
		claims, err := a.codec.Verify(auth.TokenAccess, token)
		obs.ObserveTokenVerification(string(auth.TokenAccess), verifyResult(err))
		if err != nil {
			writeError(w, r, http.StatusUnauthorized, "invalid access token")
			return
		}
		principal := auth.Principal{UserID: claims.UserID, Email: claims.Email, Role: claims.Role}
		next(w, r.WithContext(auth.ContextWithPrincipal(r.Context(), principal)))
	}
}

// optionalAccess attaches a principal when a valid access token is present
// and otherwise lets the request through anonymously. An invalid token is
// treated as absent: public content stays reachable with a stale cookie.
func (a *API) optionalAccess(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := accessToken(r)
		if token == "" {
			next(w, r)
			return
		}
		claims, err := a.codec.Verify(auth.TokenAccess, token)
		obs.ObserveTokenVerification(string(auth.TokenAccess), verifyResult(err))
		if err != nil {
			next(w, r)
			return
		}
		principal := auth.Principal{UserID: claims.UserID, Email: claims.Email, Role: claims.Role}
		next(w, r.WithContext(auth.ContextWithPrincipal(r.Context(), principal)))
	}
}

// requireRefresh authenticates with the refresh cookie only. The token must
// verify and byte-match the stored value for its principal; any failure
// clears both auth cookies so the browser drops the dead session. The raw
// token rides the context for the handler (renewal compares it again).
func (a *API) requireRefresh(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deny := func(msg string) {
			a.cookies.clearAccess(w)
			a.cookies.clearRefresh(w)
			writeError(w, r, http.StatusUnauthorized, msg)
		}

		c, err := r.Cookie(cookieRefreshToken)
		if err != nil || strings.TrimSpace(c.Value) == "" {
			deny("missing refresh token")
			return
		}
		token := c.Value

		claims, err := a.codec.Verify(auth.TokenRefresh, token)
		obs.ObserveTokenVerification(string(auth.TokenRefresh), verifyResult(err))
		if err != nil {
			deny("invalid refresh token")
			return
		}

		// Store cross-check: a verified signature is not enough, the token
		// must still be the one on record. The service clears the stored
		// token on mismatch before we clear the cookies.
		if err := a.sessions.ValidateRefreshToken(r.Context(), claims.UserID, token); err != nil {
			if errors.Is(err, auth.ErrUnauthorized) {
				deny("refresh token revoked")
				return
			}
			writeError(w, r, http.StatusInternalServerError, "internal error")
			return
		}

		principal := auth.Principal{UserID: claims.UserID, Email: claims.Email, Role: claims.Role}
		ctx := auth.ContextWithPrincipal(r.Context(), principal)
		ctx = auth.ContextWithRefreshToken(ctx, token)
		next(w, r.WithContext(ctx))
	}
}

// requireRoles gates a handler on exact role membership.
func (a *API) requireRoles(next http.HandlerFunc, roles ...auth.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := auth.PrincipalFromContext(r.Context())
		if !ok {
			writeError(w, r, http.StatusUnauthorized, "unauthorized")
			return
		}
		if !authz.RoleAllowed(principal.Role, roles...) {
			writeError(w, r, http.StatusForbidden, "forbidden")
			return
		}
		next(w, r)
	}
}

// requireOwner gates a handler on ownership of the {id} resource.
func (a *API) requireOwner(next http.HandlerFunc, kind authz.ResourceKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := auth.PrincipalFromContext(r.Context())
		if !ok {
			writeError(w, r, http.StatusUnauthorized, "unauthorized")
			return
		}
		id, err := pathID(r)
		if err != nil || id <= 0 {
			writeError(w, r, http.StatusBadRequest, "invalid id")
			return
		}
		if err := a.policy.RequireOwner(r.Context(), principal, kind, id); err != nil {
			writeDomainError(w, r, err)
			return
		}
		next(w, r)
	}
}
