// Package httpapi is the HTTP surface: routing, cookie handling, the
// authentication guards, and translation of domain errors to status codes.
package httpapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"inkwell.dev/internal/auth"
	"inkwell.dev/internal/authz"
	"inkwell.dev/internal/blog"
	"inkwell.dev/internal/obs"
)

const maxBodyBytes = 1 << 20 // 1 MiB

// ReadyProbe reports readiness, typically a database ping.
type ReadyProbe struct {
	DB *sql.DB
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.DB == nil {
		return nil
	}
	return rp.DB.PingContext(ctx)
}

// API wires the session service, content service and policy to routes.
type API struct {
	mux        *http.ServeMux
	sessions   *auth.SessionService
	codec      *auth.Codec
	users      auth.UserStore
	content    *blog.Service
	policy     *authz.Policy
	cookies    CookiePolicy
	readyProbe ReadyProbe
	version    string

	rateBurst  int
	ratePerSec int
}

// Options carries the dependencies for New.
type Options struct {
	Sessions   *auth.SessionService
	Codec      *auth.Codec
	Users      auth.UserStore
	Content    *blog.Service
	Policy     *authz.Policy
	Cookies    CookiePolicy
	ReadyProbe ReadyProbe
	Version    string
	RateBurst  int
	RatePerSec int
}

func New(opts Options) *API {
	a := &API{
		mux:        http.NewServeMux(),
		sessions:   opts.Sessions,
		codec:      opts.Codec,
		users:      opts.Users,
		content:    opts.Content,
		policy:     opts.Policy,
		cookies:    opts.Cookies,
		readyProbe: opts.ReadyProbe,
		version:    opts.Version,
		rateBurst:  opts.RateBurst,
		ratePerSec: opts.RatePerSec,
	}
	if a.rateBurst <= 0 {
		a.rateBurst = 20
	}
	if a.ratePerSec <= 0 {
		a.ratePerSec = 10
	}

	a.mux.HandleFunc("GET /healthz", a.Healthz)
	a.mux.HandleFunc("GET /readyz", a.Ready)
	a.mux.HandleFunc("GET /v1/info", a.Info)
	a.mux.Handle("GET /metrics", obs.Handler())

	a.mux.HandleFunc("POST /v1/auth/signup", a.Signup)
	a.mux.HandleFunc("POST /v1/auth/login", a.Login)
	a.mux.HandleFunc("POST /v1/auth/refresh", a.requireRefresh(a.Refresh))
	a.mux.HandleFunc("POST /v1/auth/logout", a.requireAccess(a.Logout))

	a.mux.HandleFunc("GET /v1/users/me", a.requireAccess(a.Me))
	a.mux.HandleFunc("GET /v1/users", a.requireAccess(a.requireRoles(a.ListUsers, auth.RoleAdmin)))
	a.mux.HandleFunc("GET /v1/users/{id}", a.requireAccess(a.requireOwner(a.GetUser, authz.KindUser)))
	a.mux.HandleFunc("PATCH /v1/users/{id}", a.requireAccess(a.requireOwner(a.UpdateUser, authz.KindUser)))

	a.mux.HandleFunc("GET /v1/posts", a.optionalAccess(a.ListPosts))
	a.mux.HandleFunc("POST /v1/posts", a.requireAccess(a.CreatePost))
	a.mux.HandleFunc("GET /v1/posts/{id}", a.optionalAccess(a.GetPost))
	a.mux.HandleFunc("PATCH /v1/posts/{id}", a.requireAccess(a.requireOwner(a.UpdatePost, authz.KindPost)))
	a.mux.HandleFunc("DELETE /v1/posts/{id}", a.requireAccess(a.requireOwner(a.DeletePost, authz.KindPost)))

	a.mux.HandleFunc("GET /v1/posts/{id}/comments", a.optionalAccess(a.ListComments))
	a.mux.HandleFunc("POST /v1/posts/{id}/comments", a.requireAccess(a.CreateComment))
	a.mux.HandleFunc("DELETE /v1/comments/{id}", a.requireAccess(a.requireOwner(a.DeleteComment, authz.KindComment)))

	a.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	return a
}

// Handler returns the full middleware chain around the mux.
func (a *API) Handler() http.Handler {
	var h http.Handler = a.mux
	h = MaxBodyBytes(h, maxBodyBytes)
	h = RateLimit(h, a.rateBurst, a.ratePerSec)
	h = CORS(h)
	h = SecurityHeaders(h)
	h = LoggingJSON(h)
	h = RequestID(h)
	return obs.Instrument(h)
}

func (a *API) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "inkwell-api",
		"version": a.version,
	})
}

func (a *API) Ready(w http.ResponseWriter, r *http.Request) {
	if err := a.readyProbe.Check(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ready"})
}

func (a *API) Info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    "inkwell-api",
		"time":    time.Now().UTC().Format(time.RFC3339),
		"version": a.version,
	})
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	writeJSON(w, code, map[string]any{
		"error":      msg,
		"request_id": requestIDFrom(r.Context()),
	})
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

// writeDomainError maps service errors to HTTP statuses.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, auth.ErrInvalidInput) || errors.Is(err, blog.ErrInvalidInput):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrUnauthorized):
		writeError(w, r, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, authz.ErrForbidden):
		writeError(w, r, http.StatusForbidden, "forbidden")
	case errors.Is(err, auth.ErrNotFound) || errors.Is(err, blog.ErrNotFound) || errors.Is(err, authz.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "not found")
	case errors.Is(err, auth.ErrConflict):
		writeError(w, r, http.StatusConflict, err.Error())
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}
