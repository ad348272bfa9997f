package authapi

import (
	"net/http"
	"os"
	"strconv"
	"strings"
)

// Config controls auth API behavior and cookie security defaults.
type Config struct {
	// Production switches on the Secure cookie attribute. Everything else is
	// identical between environments so dev browsers exercise the same flow.
	Production bool

	// CookieName is the session cookie. Kept as "jwt" for client
	// compatibility; clients never parse the value, but they do clear the
	// cookie by name.
	CookieName   string
	CookiePath   string
	CookieDomain string
	SameSite     http.SameSite

	MaxBodyBytes int64
}

// LoadConfigFromEnv loads auth config from environment variables with safe
// defaults. Unlike the session secret, nothing here is required.
func LoadConfigFromEnv() Config {
	cfg := Config{
		Production:   envString("RELAY_ENV", "development") == "production",
		CookieName:   envString("RELAY_AUTH_COOKIE_NAME", "jwt"),
		CookiePath:   envString("RELAY_AUTH_COOKIE_PATH", "/"),
		CookieDomain: strings.TrimSpace(os.Getenv("RELAY_AUTH_COOKIE_DOMAIN")),
		SameSite:     http.SameSiteStrictMode,
		MaxBodyBytes: envInt64("RELAY_AUTH_MAX_BODY_BYTES", 8<<20), // data-URL uploads ride the JSON body
	}

	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 8 << 20
	}
	if cfg.CookieName == "" {
		cfg.CookieName = "jwt"
	}
	if cfg.CookiePath == "" {
		cfg.CookiePath = "/"
	}

	return cfg
}

func envString(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func envInt64(key string, def int64) int64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
