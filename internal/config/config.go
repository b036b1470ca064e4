package config

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
)

const envPrefix = "INKWELL_"

// Config carries all deployment parameters for the API process.
// Token secrets are mandatory: refusing to start beats signing with an
// empty key.
type Config struct {
	Addr  string
	PGDSN string

	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration

	// Production toggles the Secure attribute on auth cookies.
	Production     bool
	CookieSameSite http.SameSite

	RateBurst  int
	RatePerSec int
}

// Load reads configuration from INKWELL_* environment variables.
func Load() (Config, error) {
	cfg := Config{
		Addr:           envOr("ADDR", ":8080"),
		PGDSN:          envOr("PG_DSN", ""),
		AccessSecret:   envOr("ACCESS_SECRET", ""),
		RefreshSecret:  envOr("REFRESH_SECRET", ""),
		AccessTTL:      15 * time.Minute,
		RefreshTTL:     7 * 24 * time.Hour,
		Production:     envOr("ENV", "development") == "production",
		CookieSameSite: http.SameSiteLaxMode,
		RateBurst:      20,
		RatePerSec:     10,
	}

	if cfg.AccessSecret == "" {
		return Config{}, errors.New("config: " + envPrefix + "ACCESS_SECRET is required")
	}
	if cfg.RefreshSecret == "" {
		return Config{}, errors.New("config: " + envPrefix + "REFRESH_SECRET is required")
	}
	if cfg.AccessSecret == cfg.RefreshSecret {
		return Config{}, errors.New("config: access and refresh secrets must differ")
	}

	if raw := envOr("ACCESS_TTL", ""); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("config: invalid %sACCESS_TTL %q", envPrefix, raw)
		}
		cfg.AccessTTL = d
	}
	if raw := envOr("REFRESH_TTL", ""); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("config: invalid %sREFRESH_TTL %q", envPrefix, raw)
		}
		cfg.RefreshTTL = d
	}

	switch strings.ToLower(envOr("COOKIE_SAMESITE", "lax")) {
	case "lax":
		cfg.CookieSameSite = http.SameSiteLaxMode
	case "strict":
		cfg.CookieSameSite = http.SameSiteStrictMode
	case "none":
		cfg.CookieSameSite = http.SameSiteNoneMode
	default:
		return Config{}, fmt.Errorf("config: unsupported %sCOOKIE_SAMESITE", envPrefix)
	}

	return cfg, nil
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(envPrefix + key)); v != "" {
		return v
	}
	return def
}
