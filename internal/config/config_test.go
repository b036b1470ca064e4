package config

import (
	"net/http"
	"testing"
	"time"
)

func TestLoadRequiresSecrets(t *testing.T) {
	t.Setenv("INKWELL_ACCESS_SECRET", "")
	t.Setenv("INKWELL_REFRESH_SECRET", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error when secrets are missing")
	}

	t.Setenv("INKWELL_ACCESS_SECRET", "same")
	t.Setenv("INKWELL_REFRESH_SECRET", "same")
	if _, err := Load(); err == nil {
		t.Fatal("expected error when secrets are identical")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("INKWELL_ACCESS_SECRET", "access-secret")
	t.Setenv("INKWELL_REFRESH_SECRET", "refresh-secret")
	t.Setenv("INKWELL_ACCESS_TTL", "")
	t.Setenv("INKWELL_REFRESH_TTL", "")
	t.Setenv("INKWELL_COOKIE_SAMESITE", "")
	t.Setenv("INKWELL_ENV", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AccessTTL != 15*time.Minute {
		t.Fatalf("unexpected access ttl: %v", cfg.AccessTTL)
	}
	if cfg.RefreshTTL != 7*24*time.Hour {
		t.Fatalf("unexpected refresh ttl: %v", cfg.RefreshTTL)
	}
	if cfg.CookieSameSite != http.SameSiteLaxMode {
		t.Fatalf("unexpected samesite: %v", cfg.CookieSameSite)
	}
	if cfg.Production {
		t.Fatal("expected non-production by default")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("INKWELL_ACCESS_SECRET", "access-secret")
	t.Setenv("INKWELL_REFRESH_SECRET", "refresh-secret")
	t.Setenv("INKWELL_ACCESS_TTL", "5m")
	t.Setenv("INKWELL_REFRESH_TTL", "720h")
	t.Setenv("INKWELL_COOKIE_SAMESITE", "none")
	t.Setenv("INKWELL_ENV", "production")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AccessTTL != 5*time.Minute {
		t.Fatalf("unexpected access ttl: %v", cfg.AccessTTL)
	}
	if cfg.RefreshTTL != 30*24*time.Hour {
		t.Fatalf("unexpected refresh ttl: %v", cfg.RefreshTTL)
	}
	if cfg.CookieSameSite != http.SameSiteNoneMode {
		t.Fatalf("unexpected samesite: %v", cfg.CookieSameSite)
	}
	if !cfg.Production {
		t.Fatal("expected production mode")
	}

	t.Setenv("INKWELL_ACCESS_TTL", "not-a-duration")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid ttl")
	}
}
