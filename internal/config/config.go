package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAddr       = ":8080"
	defaultAccessTTL  = time.Minute
	defaultRefreshTTL = 30 * 24 * time.Hour
)

// CookiePolicy controls the security attributes of the refresh cookie. It is
// resolved once at startup; logout must clear the cookie with the same
// attributes or browsers keep the stale cookie.
type CookiePolicy struct {
	Secure    bool
	CrossSite bool
}

// Config is the process-wide configuration, sourced from the environment.
type Config struct {
	Addr        string
	PGDSN       string
	JWTSecret   []byte
	Environment string
	AccessTTL   time.Duration
	RefreshTTL  time.Duration
	Cookies     CookiePolicy
}

// Load reads configuration from the environment. A .env file is honored when
// present but never required.
func Load() (*Config, error) {
	_ = godotenv.Load()

	secret := strings.TrimSpace(os.Getenv("IDEADROP_JWT_SECRET"))
	if secret == "" {
		return nil, fmt.Errorf("IDEADROP_JWT_SECRET is not set")
	}

	cfg := &Config{
		Addr:        envOr("IDEADROP_ADDR", defaultAddr),
		PGDSN:       os.Getenv("IDEADROP_PG_DSN"),
		JWTSecret:   []byte(secret),
		Environment: envOr("IDEADROP_ENV", "development"),
	}

	var err error
	if cfg.AccessTTL, err = durationOr("IDEADROP_ACCESS_TTL", defaultAccessTTL); err != nil {
		return nil, err
	}
	if cfg.RefreshTTL, err = durationOr("IDEADROP_REFRESH_TTL", defaultRefreshTTL); err != nil {
		return nil, err
	}

	if cfg.Production() {
		cfg.Cookies = CookiePolicy{Secure: true, CrossSite: true}
	}
	return cfg, nil
}

// Production reports whether the process runs in a production-equivalent
// environment.
func (c *Config) Production() bool {
	return strings.EqualFold(c.Environment, "production")
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func durationOr(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return d, nil
}
