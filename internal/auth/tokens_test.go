package auth

import (
	"errors"
	"testing"
	"time"
)

func testCodec(t *testing.T, opts ...CodecOption) *Codec {
	t.Helper()
	codec, err := NewCodec(CodecConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
	}, opts...)
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	return codec
}

func TestCodecRejectsMisconfiguration(t *testing.T) {
	cases := []CodecConfig{
		{AccessSecret: "", RefreshSecret: "r", AccessTTL: time.Minute, RefreshTTL: time.Minute},
		{AccessSecret: "a", RefreshSecret: "", AccessTTL: time.Minute, RefreshTTL: time.Minute},
		{AccessSecret: "same", RefreshSecret: "same", AccessTTL: time.Minute, RefreshTTL: time.Minute},
		{AccessSecret: "a", RefreshSecret: "r", AccessTTL: 0, RefreshTTL: time.Minute},
		{AccessSecret: "a", RefreshSecret: "r", AccessTTL: time.Minute, RefreshTTL: 0},
	}
	for i, cfg := range cases {
		if _, err := NewCodec(cfg); err == nil {
			t.Fatalf("case %d: expected configuration error", i)
		}
	}
}

func TestCodecRoundTrip(t *testing.T) {
	codec := testCodec(t)
	id := Identity{UserID: 42, Email: "alice@example.com", Role: RoleAdmin}

	for _, kind := range []TokenKind{TokenAccess, TokenRefresh} {
		token, exp, err := codec.Issue(kind, id)
		if err != nil {
			t.Fatalf("Issue(%s): %v", kind, err)
		}
		if !exp.After(time.Now()) {
			t.Fatalf("expected future expiry, got %v", exp)
		}
		claims, err := codec.Verify(kind, token)
		if err != nil {
			t.Fatalf("Verify(%s): %v", kind, err)
		}
		if claims.UserID != 42 || claims.Email != "alice@example.com" || claims.Role != RoleAdmin {
			t.Fatalf("claims not preserved: %+v", claims)
		}
		if claims.Kind != string(kind) {
			t.Fatalf("unexpected kind claim: %s", claims.Kind)
		}
	}
}

func TestCodecExpiry(t *testing.T) {
	issued := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := issued
	codec := testCodec(t, WithClock(func() time.Time { return clock }))

	token, _, err := codec.Issue(TokenAccess, Identity{UserID: 1, Email: "a@x.com", Role: RoleUser})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	clock = issued.Add(14 * time.Minute)
	if _, err := codec.Verify(TokenAccess, token); err != nil {
		t.Fatalf("expected valid before expiry, got %v", err)
	}

	clock = issued.Add(16 * time.Minute)
	if _, err := codec.Verify(TokenAccess, token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestCodecMalformed(t *testing.T) {
	codec := testCodec(t)

	for _, token := range []string{"", "garbage", "a.b.c"} {
		if _, err := codec.Verify(TokenAccess, token); !errors.Is(err, ErrTokenMalformed) {
			t.Fatalf("Verify(%q): expected ErrTokenMalformed, got %v", token, err)
		}
	}

	// Signed with the wrong secret: a refresh token presented as access.
	refresh, _, err := codec.Issue(TokenRefresh, Identity{UserID: 1, Email: "a@x.com", Role: RoleUser})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := codec.Verify(TokenAccess, refresh); !errors.Is(err, ErrTokenMalformed) {
		t.Fatalf("expected ErrTokenMalformed for cross-secret token, got %v", err)
	}
}

func TestCodecWrongKind(t *testing.T) {
	codec := testCodec(t)
	// A second codec whose refresh secret equals the first codec's access
	// secret: the signature checks out but the kind claim does not.
	other, err := NewCodec(CodecConfig{
		AccessSecret:  "unrelated",
		RefreshSecret: "access-secret",
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Minute,
	})
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}

	token, _, err := codec.Issue(TokenAccess, Identity{UserID: 1, Email: "a@x.com", Role: RoleUser})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := other.Verify(TokenRefresh, token); !errors.Is(err, ErrWrongKind) {
		t.Fatalf("expected ErrWrongKind, got %v", err)
	}
}

func TestRoleHierarchy(t *testing.T) {
	cases := []struct {
		role, min Role
		want      bool
	}{
		{RoleAdmin, RoleAdmin, true},
		{RoleAdmin, RoleUser, true},
		{RoleUser, RoleUser, true},
		{RoleUser, RoleAdmin, false},
		{Role("editor"), RoleUser, false},
		{RoleAdmin, Role("editor"), false},
	}
	for _, tc := range cases {
		if got := tc.role.AtLeast(tc.min); got != tc.want {
			t.Fatalf("%s.AtLeast(%s)=%v, want %v", tc.role, tc.min, got, tc.want)
		}
	}

	if _, err := ParseRole(" Admin "); err != nil {
		t.Fatalf("ParseRole: %v", err)
	}
	if _, err := ParseRole("root"); err == nil {
		t.Fatal("expected error for unknown role")
	}
}
