package httpapi

import (
	"errors"
	"net/http"

	"inkwell.dev/internal/audit"
	"inkwell.dev/internal/auth"
	"inkwell.dev/internal/obs"
)

type signupRequest struct {
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
	Password string `json:"password"`
}

func (a *API) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	userID, err := a.sessions.Signup(r.Context(), req.Email, req.Nickname, req.Password)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "auth.signup", map[string]any{"user_id": userID})
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "signup completed",
		"userId":  userID,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *API) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	pair, err := a.sessions.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrUnauthorized) {
			obs.ObserveLogin("rejected")
			writeError(w, r, http.StatusUnauthorized, "invalid email or password")
			return
		}
		writeDomainError(w, r, err)
		return
	}
	obs.ObserveLogin("ok")
	_ = audit.LogEvent(r.Context(), "auth.login", map[string]any{"email": req.Email})

	a.cookies.setAccess(w, pair.AccessToken)
	a.cookies.setRefresh(w, pair.RefreshToken)
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// Refresh exchanges the refresh cookie for a fresh access cookie. The guard
// already verified the token and its match against the store; the service
// re-checks on its own state before issuing.
func (a *API) Refresh(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}
	token, ok := auth.RefreshTokenFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}
	access, _, err := a.sessions.RenewAccessToken(r.Context(), principal.UserID, token)
	if err != nil {
		if errors.Is(err, auth.ErrUnauthorized) {
			a.cookies.clearAccess(w)
			a.cookies.clearRefresh(w)
			_ = audit.LogEvent(r.Context(), "auth.refresh_denied", nil)
			writeError(w, r, http.StatusUnauthorized, "unauthorized")
			return
		}
		writeDomainError(w, r, err)
		return
	}
	a.cookies.setAccess(w, access)
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// Logout clears the stored refresh token and both auth cookies. The store
// is cleared first so a crash between the two steps fails closed.
func (a *API) Logout(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := a.sessions.Logout(r.Context(), principal.UserID); err != nil && !errors.Is(err, auth.ErrNotFound) {
		writeDomainError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "auth.logout", nil)
	a.cookies.clearAccess(w)
	a.cookies.clearRefresh(w)
	writeJSON(w, http.StatusOK, map[string]any{"message": "logged out"})
}
