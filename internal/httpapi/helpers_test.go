package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"inkwell.dev/internal/auth"
	"inkwell.dev/internal/authz"
	"inkwell.dev/internal/blog"
	"inkwell.dev/internal/store/memory"
)

type testEnv struct {
	api     *API
	handler http.Handler
	codec   *auth.Codec
	users   *memory.UserStore
	posts   *memory.PostStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	codec, err := auth.NewCodec(auth.CodecConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
	})
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	users := memory.NewUserStore()
	posts := memory.NewPostStore()
	comments := memory.NewCommentStore()

	sessions, err := auth.NewSessionService(users, codec)
	if err != nil {
		t.Fatalf("NewSessionService: %v", err)
	}
	policy, err := authz.NewPolicy(map[authz.ResourceKind]authz.OwnerResolver{
		authz.KindPost:    authz.OwnerResolverFunc(posts.OwnerID),
		authz.KindComment: authz.OwnerResolverFunc(comments.OwnerID),
		authz.KindUser:    authz.OwnerResolverFunc(func(_ context.Context, id int64) (int64, error) { return id, nil }),
	})
	if err != nil {
		t.Fatalf("NewPolicy: %v", err)
	}

	api := New(Options{
		Sessions: sessions,
		Codec:    codec,
		Users:    users,
		Content:  blog.NewService(posts, comments),
		Policy:   policy,
		Cookies: CookiePolicy{
			SameSite:   http.SameSiteLaxMode,
			AccessTTL:  15 * time.Minute,
			RefreshTTL: 7 * 24 * time.Hour,
		},
		Version:    "test",
		RateBurst:  1000,
		RatePerSec: 1000,
	})
	return &testEnv{api: api, handler: api.Handler(), codec: codec, users: users, posts: posts}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, cookies []*http.Cookie, bearer string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)
	return rr
}

func (e *testEnv) signup(t *testing.T, email, nickname, password string) int64 {
	t.Helper()
	rr := e.do(t, http.MethodPost, "/v1/auth/signup",
		map[string]string{"email": email, "nickname": nickname, "password": password}, nil, "")
	if rr.Code != http.StatusCreated {
		t.Fatalf("signup: expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp struct {
		UserID int64 `json:"userId"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode signup response: %v", err)
	}
	return resp.UserID
}

func (e *testEnv) login(t *testing.T, email, password string) []*http.Cookie {
	t.Helper()
	rr := e.do(t, http.MethodPost, "/v1/auth/login",
		map[string]string{"email": email, "password": password}, nil, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	cookies := readCookies(rr)
	if cookieValue(cookies, cookieAccessToken) == "" || cookieValue(cookies, cookieRefreshToken) == "" {
		t.Fatalf("login did not set both auth cookies: %v", cookies)
	}
	return cookies
}

func readCookies(rr *httptest.ResponseRecorder) []*http.Cookie {
	resp := http.Response{Header: rr.Header()}
	return resp.Cookies()
}

func cookieValue(cookies []*http.Cookie, name string) string {
	for _, c := range cookies {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

func cookieCleared(cookies []*http.Cookie, name string) bool {
	for _, c := range cookies {
		if c.Name == name && c.Value == "" && c.MaxAge < 0 {
			return true
		}
	}
	return false
}
