package session

import (
	"os"
	"time"
)

// minSecretLen is the minimum accepted HMAC secret length in bytes.
// 32 bytes matches the HS256 hash width; anything shorter weakens the MAC.
const minSecretLen = 32

// Config defines all runtime configuration for the session subsystem.
//
// It controls token lifetime, clock skew tolerance, the issuer claim, and
// the HMAC signing secret. The struct is intentionally explicit and
// environment-driven so that production deployments can tune security
// parameters without code changes.
type Config struct {
	// Issuer is the value set in the "iss" claim of session tokens.
	Issuer string

	// TokenTTL defines the lifetime of a session token. The expiry is fixed
	// at issue time; tokens are never extended or refreshed.
	TokenTTL time.Duration

	// ClockSkew defines the allowed time skew during token validation.
	ClockSkew time.Duration

	// Secret is the shared HMAC-SHA256 signing secret.
	Secret []byte
}

// DefaultConfig returns the default configuration minus the secret, which
// has no safe default and must come from the environment.
func DefaultConfig() Config {
	return Config{
		Issuer:    "relay",
		TokenTTL:  7 * 24 * time.Hour,
		ClockSkew: 30 * time.Second,
	}
}

// LoadConfigFromEnv loads session configuration from environment variables.
//
// Required:
//   - RELAY_JWT_SECRET
//
// Optional (durations must be valid Go duration strings):
//   - RELAY_AUTH_ISSUER
//   - RELAY_AUTH_TOKEN_TTL
//   - RELAY_AUTH_CLOCK_SKEW
//
// Returns ErrConfig if configuration is invalid. A missing or short secret
// is an ErrConfig, never a silent fallback: the caller is expected to treat
// it as fatal at startup rather than serve unsigned sessions.
func LoadConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if v := os.Getenv("RELAY_AUTH_ISSUER"); v != "" {
		cfg.Issuer = v
	}

	if v := os.Getenv("RELAY_AUTH_TOKEN_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, ErrConfig
		}
		cfg.TokenTTL = d
	}

	if v := os.Getenv("RELAY_AUTH_CLOCK_SKEW"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			return Config{}, ErrConfig
		}
		cfg.ClockSkew = d
	}

	secret := os.Getenv("RELAY_JWT_SECRET")
	if len(secret) < minSecretLen {
		return Config{}, ErrConfig
	}
	cfg.Secret = []byte(secret)

	return cfg, nil
}
