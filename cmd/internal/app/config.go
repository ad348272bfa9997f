package app

import (
	"strings"
	"time"
)

// Config contains all runtime configuration loaded from environment variables.
type Config struct {
	HTTPAddr  string
	LogLevel  string
	LogFormat string

	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int

	DatabaseURL string
	DBMaxConns  int32
	DBMinConns  int32

	// If true:
	// - /readyz returns 503 unless DB is configured and reachable.
	ReadinessRequireDB bool

	CORSAllowedOrigins   []string
	CORSAllowCredentials bool
	CORSMaxAgeSeconds    int

	// Media storage. A configured bucket selects S3; otherwise images land
	// in UploadDir and are served under /uploads/.
	S3Bucket        string
	S3Region        string
	S3Endpoint      string
	S3AccessKey     string
	S3SecretKey     string
	S3PublicBaseURL string
	S3UsePathStyle  bool

	UploadDir string

	// PublicBaseURL is this server's externally visible origin, used to
	// build local upload URLs.
	PublicBaseURL string
}

// LoadConfig loads Config from environment variables with defaults.
func LoadConfig() Config {
	return Config{
		HTTPAddr:  EnvString("RELAY_HTTP_ADDR", "0.0.0.0:8080"),
		LogLevel:  EnvString("RELAY_LOG_LEVEL", "info"),
		LogFormat: EnvString("RELAY_LOG_FORMAT", "json"),

		ReadHeaderTimeout: EnvDuration("RELAY_HTTP_READ_HEADER_TIMEOUT", 5*time.Second),
		ReadTimeout:       EnvDuration("RELAY_HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:      EnvDuration("RELAY_HTTP_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:       EnvDuration("RELAY_HTTP_IDLE_TIMEOUT", 60*time.Second),

		MaxHeaderBytes: EnvInt("RELAY_HTTP_MAX_HEADER_BYTES", 1<<20),

		DatabaseURL: EnvString("RELAY_DATABASE_URL", ""),
		DBMaxConns:  EnvInt32("RELAY_DB_MAX_CONNS", 10),
		DBMinConns:  EnvInt32("RELAY_DB_MIN_CONNS", 0),

		ReadinessRequireDB: EnvBool("RELAY_READINESS_REQUIRE_DB", false),

		CORSAllowedOrigins:   splitCommaList(EnvString("RELAY_CORS_ALLOWED_ORIGINS", "")),
		CORSAllowCredentials: EnvBool("RELAY_CORS_ALLOW_CREDENTIALS", true),
		CORSMaxAgeSeconds:    EnvInt("RELAY_CORS_MAX_AGE_SECONDS", 600),

		S3Bucket:        EnvString("RELAY_S3_BUCKET", ""),
		S3Region:        EnvString("RELAY_S3_REGION", "us-east-1"),
		S3Endpoint:      EnvString("RELAY_S3_ENDPOINT", ""),
		S3AccessKey:     EnvString("RELAY_S3_ACCESS_KEY", ""),
		S3SecretKey:     EnvString("RELAY_S3_SECRET_KEY", ""),
		S3PublicBaseURL: EnvString("RELAY_S3_PUBLIC_BASE_URL", ""),
		S3UsePathStyle:  EnvBool("RELAY_S3_USE_PATH_STYLE", false),

		UploadDir: EnvString("RELAY_UPLOAD_DIR", "uploads"),

		PublicBaseURL: EnvString("RELAY_PUBLIC_BASE_URL", "http://localhost:8080"),
	}
}

func splitCommaList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}
