package session

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestLoadConfigFromEnv_Defaults(t *testing.T) {
	t.Setenv("RELAY_JWT_SECRET", strings.Repeat("s", 32))

	cfg, err := LoadConfigFromEnv()
	if err != nil {
		t.Fatalf("LoadConfigFromEnv: %v", err)
	}
	if cfg.Issuer != "relay" {
		t.Fatalf("Issuer = %q", cfg.Issuer)
	}
	if cfg.TokenTTL != 7*24*time.Hour {
		t.Fatalf("TokenTTL = %v", cfg.TokenTTL)
	}
	if cfg.ClockSkew != 30*time.Second {
		t.Fatalf("ClockSkew = %v", cfg.ClockSkew)
	}
}

func TestLoadConfigFromEnv_MissingSecret(t *testing.T) {
	t.Setenv("RELAY_JWT_SECRET", "")

	if _, err := LoadConfigFromEnv(); !errors.Is(err, ErrConfig) {
		t.Fatalf("err = %v, want ErrConfig", err)
	}
}

func TestLoadConfigFromEnv_ShortSecret(t *testing.T) {
	t.Setenv("RELAY_JWT_SECRET", "too-short")

	if _, err := LoadConfigFromEnv(); !errors.Is(err, ErrConfig) {
		t.Fatalf("err = %v, want ErrConfig", err)
	}
}

func TestLoadConfigFromEnv_Overrides(t *testing.T) {
	t.Setenv("RELAY_JWT_SECRET", strings.Repeat("s", 32))
	t.Setenv("RELAY_AUTH_ISSUER", "relay-staging")
	t.Setenv("RELAY_AUTH_TOKEN_TTL", "24h")
	t.Setenv("RELAY_AUTH_CLOCK_SKEW", "5s")

	cfg, err := LoadConfigFromEnv()
	if err != nil {
		t.Fatalf("LoadConfigFromEnv: %v", err)
	}
	if cfg.Issuer != "relay-staging" {
		t.Fatalf("Issuer = %q", cfg.Issuer)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Fatalf("TokenTTL = %v", cfg.TokenTTL)
	}
	if cfg.ClockSkew != 5*time.Second {
		t.Fatalf("ClockSkew = %v", cfg.ClockSkew)
	}
}

func TestLoadConfigFromEnv_BadDurations(t *testing.T) {
	t.Setenv("RELAY_JWT_SECRET", strings.Repeat("s", 32))

	t.Setenv("RELAY_AUTH_TOKEN_TTL", "banana")
	if _, err := LoadConfigFromEnv(); !errors.Is(err, ErrConfig) {
		t.Fatalf("bad ttl: err = %v, want ErrConfig", err)
	}
	t.Setenv("RELAY_AUTH_TOKEN_TTL", "-1h")
	if _, err := LoadConfigFromEnv(); !errors.Is(err, ErrConfig) {
		t.Fatalf("negative ttl: err = %v, want ErrConfig", err)
	}

	t.Setenv("RELAY_AUTH_TOKEN_TTL", "")
	t.Setenv("RELAY_AUTH_CLOCK_SKEW", "-5s")
	if _, err := LoadConfigFromEnv(); !errors.Is(err, ErrConfig) {
		t.Fatalf("negative skew: err = %v, want ErrConfig", err)
	}
}
