// Package app wires the Relay server runtime: config, logging, persistence,
// media storage, and the HTTP surface.
//
// It is intentionally small and deterministic to keep CI gates strict and
// behavior predictable.
package app

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"relay/cmd/identity"
	authapi "relay/cmd/internal/auth/api"
	"relay/cmd/internal/auth/session"
	"relay/cmd/internal/media"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Closer is a small app-level lifecycle abstraction.
// It exists to allow DB-backed resources to be closed gracefully.
type Closer interface {
	Close(ctx context.Context) error
}

// nopCloser is used for in-memory store mode.
type nopCloser struct{}

func (nopCloser) Close(_ context.Context) error { return nil }

// App is the Relay server runtime.
type App struct {
	cfg Config
	log Logger

	closer Closer

	dbPool    *pgxpool.Pool
	dbEnabled bool

	metrics *Metrics
	auth    *authapi.Handler
}

// New constructs a fully wired App instance from config and logger.
func New(cfg Config, log Logger) (*App, error) {
	if log == nil {
		log = NewLogger(cfg.LogLevel, cfg.LogFormat)
	}

	// Session signing config is validated before anything else touches the
	// network or the database.
	sessCfg, err := ValidateSecurityConfig()
	if err != nil {
		return nil, err
	}

	closer, dbPool, dbEnabled, store, err := newIdentityStore(context.Background(), cfg, log)
	if err != nil {
		return nil, err
	}

	tokens, err := session.NewHS256Manager(sessCfg)
	if err != nil {
		_ = closer.Close(context.Background())
		return nil, err
	}

	uploader, err := newUploader(context.Background(), cfg, log)
	if err != nil {
		_ = closer.Close(context.Background())
		return nil, err
	}

	authCfg := authapi.LoadConfigFromEnv()
	authHandler, err := authapi.NewHandler(log, authCfg, sessCfg, store, tokens, uploader)
	if err != nil {
		_ = closer.Close(context.Background())
		return nil, err
	}

	return &App{
		cfg:       cfg,
		log:       log,
		closer:    closer,
		dbPool:    dbPool,
		dbEnabled: dbEnabled,
		metrics:   NewMetrics(),
		auth:      authHandler,
	}, nil
}

// Run starts the HTTP server and blocks until context cancellation or fatal
// server error.
func (a *App) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	registerHTTP(mux, a.log, a.cfg, a.dbPool, a.dbEnabled, a.metrics, a.auth)

	var handler http.Handler = mux
	handler = WithMetrics(handler, a.metrics)
	handler = WithSecurityHeaders(handler)
	handler = WithCORS(handler, a.cfg, a.log)
	handler = WithRequestLogging(handler, a.log)

	srv := &http.Server{
		Addr:              a.cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: nonZeroDuration(a.cfg.ReadHeaderTimeout, 5*time.Second),
		ReadTimeout:       nonZeroDuration(a.cfg.ReadTimeout, 15*time.Second),
		WriteTimeout:      nonZeroDuration(a.cfg.WriteTimeout, 15*time.Second),
		IdleTimeout:       nonZeroDuration(a.cfg.IdleTimeout, 60*time.Second),
		MaxHeaderBytes:    nonZeroInt(a.cfg.MaxHeaderBytes, 1<<20),
	}

	a.log.Info("server.start", "addr", a.cfg.HTTPAddr, "db_enabled", a.dbEnabled)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		a.log.Info("server.stop", "reason", "context_done")
	case err := <-errCh:
		a.log.Error("server.fail", "err", err)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.log.Error("server.shutdown.fail", "err", err)
		return err
	}

	if err := a.closer.Close(shutdownCtx); err != nil {
		a.log.Error("store.close.fail", "err", err)
	}

	a.log.Info("server.stopped")
	return nil
}

func nonZeroDuration(v, def time.Duration) time.Duration {
	if v <= 0 {
		return def
	}
	return v
}

func nonZeroInt(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// newIdentityStore decides between Postgres-backed persistence and the
// in-memory dev store, running migrations in the former case.
func newIdentityStore(ctx context.Context, cfg Config, log Logger) (Closer, *pgxpool.Pool, bool, identity.Store, error) {
	if cfg.DatabaseURL == "" {
		log.Info("db.disabled.inmemory_store")
		return nopCloser{}, nil, false, identity.NewMemoryStore(), nil
	}

	if err := RunMigrations(ctx, cfg.DatabaseURL); err != nil {
		return nil, nil, false, nil, err
	}

	pool, err := NewDBPool(ctx, cfg)
	if err != nil {
		return nil, nil, false, nil, err
	}

	store, err := identity.NewPostgresStore(pool)
	if err != nil {
		pool.Close()
		return nil, nil, false, nil, err
	}

	log.Info("db.enabled.postgres_store")

	return poolCloser{pool: pool}, pool, true, store, nil
}

type poolCloser struct {
	pool *pgxpool.Pool
}

func (c poolCloser) Close(_ context.Context) error {
	if c.pool != nil {
		c.pool.Close()
	}
	return nil
}

// newUploader picks S3 when a bucket is configured, local disk otherwise.
func newUploader(ctx context.Context, cfg Config, log Logger) (media.Uploader, error) {
	if cfg.S3Bucket != "" {
		log.Info("media.s3_uploader", "bucket", cfg.S3Bucket)
		return media.NewS3Uploader(ctx, media.S3Config{
			Bucket:        cfg.S3Bucket,
			Region:        cfg.S3Region,
			Endpoint:      cfg.S3Endpoint,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			PublicBaseURL: cfg.S3PublicBaseURL,
			UsePathStyle:  cfg.S3UsePathStyle,
		})
	}

	base := strings.TrimRight(cfg.PublicBaseURL, "/") + "/uploads"
	log.Info("media.local_uploader", "dir", cfg.UploadDir)
	return media.NewLocalUploader(cfg.UploadDir, base)
}
