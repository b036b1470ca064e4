package httpapi

import (
	"net/http"
	"strings"
	"testing"

	"inkwell.dev/internal/auth"
)

func TestAccessGuardHeaderBeatsCookie(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "a@x.com", "alice", "s3cret!")
	env.signup(t, "b@x.com", "bob", "s3cret!")

	aliceTok, _, err := env.codec.Issue(auth.TokenAccess, auth.Identity{UserID: 1, Email: "a@x.com", Role: auth.RoleUser})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	bobTok, _, err := env.codec.Issue(auth.TokenAccess, auth.Identity{UserID: 2, Email: "b@x.com", Role: auth.RoleUser})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	rr := env.do(t, http.MethodGet, "/v1/users/me", nil,
		[]*http.Cookie{{Name: cookieAccessToken, Value: bobTok}}, aliceTok)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if body := rr.Body.String(); !strings.Contains(body, "a@x.com") {
		t.Fatalf("header token should win over cookie, got %s", body)
	}
}

func TestAccessGuardRejections(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodGet, "/v1/users/me", nil, nil, "")
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("no token: expected 401, got %d", rr.Code)
	}

	rr = env.do(t, http.MethodGet, "/v1/users/me", nil, nil, "garbage")
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("garbage token: expected 401, got %d", rr.Code)
	}

	// A refresh token is not an access token even when it belongs to a
	// real principal.
	env.signup(t, "a@x.com", "alice", "s3cret!")
	refresh, _, err := env.codec.Issue(auth.TokenRefresh, auth.Identity{UserID: 1, Email: "a@x.com", Role: auth.RoleUser})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	rr = env.do(t, http.MethodGet, "/v1/users/me", nil, nil, refresh)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("refresh as access: expected 401, got %d", rr.Code)
	}
}

func TestOptionalGuardTreatsInvalidTokenAsAnonymous(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodGet, "/v1/posts", nil,
		[]*http.Cookie{{Name: cookieAccessToken, Value: "stale-garbage"}}, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 for anonymous listing, got %d", rr.Code)
	}
}

func TestRefreshGuardIgnoresAuthorizationHeader(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "a@x.com", "alice", "s3cret!")
	cookies := env.login(t, "a@x.com", "s3cret!")

	// The refresh token in the header must not satisfy the cookie-only guard.
	rr := env.do(t, http.MethodPost, "/v1/auth/refresh", nil, nil,
		cookieValue(cookies, cookieRefreshToken))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestAdminRoleGate(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "a@x.com", "alice", "s3cret!")

	userTok, _, err := env.codec.Issue(auth.TokenAccess, auth.Identity{UserID: 1, Email: "a@x.com", Role: auth.RoleUser})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	rr := env.do(t, http.MethodGet, "/v1/users", nil, nil, userTok)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("user listing users: expected 403, got %d", rr.Code)
	}

	adminTok, _, err := env.codec.Issue(auth.TokenAccess, auth.Identity{UserID: 99, Email: "root@x.com", Role: auth.RoleAdmin})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	rr = env.do(t, http.MethodGet, "/v1/users", nil, nil, adminTok)
	if rr.Code != http.StatusOK {
		t.Fatalf("admin listing users: expected 200, got %d", rr.Code)
	}
}
