package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx database/sql driver

	"resumeboost-backend/internal/shared/telemetry"
)

// ErrEmptyURL is returned by Connect when no DSN is configured.
var ErrEmptyURL = errors.New("database url is empty")

// Options tunes the connection pool.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
}

// openDB is swapped in tests.
var openDB = sql.Open

const (
	fallbackMaxOpen     = 10
	fallbackMaxIdle     = 5
	fallbackLifetime    = time.Hour
	fallbackPingTimeout = 5 * time.Second
)

// DefaultServerOptions is the pool profile for the API process.
func DefaultServerOptions() Options {
	return Options{
		MaxOpenConns:    fallbackMaxOpen,
		MaxIdleConns:    fallbackMaxIdle,
		ConnMaxLifetime: fallbackLifetime,
		ConnMaxIdleTime: 2 * time.Minute,
		PingTimeout:     fallbackPingTimeout,
	}
}

// DefaultMigrateOptions is the pool profile for one-shot migration runs.
func DefaultMigrateOptions() Options {
	opts := DefaultServerOptions()
	opts.MaxOpenConns = 1
	opts.MaxIdleConns = 1
	return opts
}

type intOverride struct {
	env    string
	target func(*Options) *int
}

type durationOverride struct {
	env    string
	target func(*Options) *time.Duration
}

var intOverrides = []intOverride{
	{"DB_MAX_OPEN_CONNS", func(o *Options) *int { return &o.MaxOpenConns }},
	{"DB_MAX_IDLE_CONNS", func(o *Options) *int { return &o.MaxIdleConns }},
}

var durationOverrides = []durationOverride{
	{"DB_CONN_MAX_LIFETIME", func(o *Options) *time.Duration { return &o.ConnMaxLifetime }},
	{"DB_CONN_MAX_IDLE_TIME", func(o *Options) *time.Duration { return &o.ConnMaxIdleTime }},
	{"DB_PING_TIMEOUT", func(o *Options) *time.Duration { return &o.PingTimeout }},
}

// OptionsFromEnv applies DB_* overrides on top of base. Unparseable values
// are logged and ignored.
func OptionsFromEnv(base Options) Options {
	opts := base
	for _, o := range intOverrides {
		raw, ok := lookupEnv(o.env)
		if !ok {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			telemetry.Warn("db.env_invalid", map[string]any{"key": o.env, "value": raw})
			continue
		}
		*o.target(&opts) = v
	}
	for _, o := range durationOverrides {
		raw, ok := lookupEnv(o.env)
		if !ok {
			continue
		}
		v, err := time.ParseDuration(raw)
		if err != nil {
			telemetry.Warn("db.env_invalid", map[string]any{"key": o.env, "value": raw})
			continue
		}
		*o.target(&opts) = v
	}
	return opts
}

// Connect opens a pgx-backed pool and pings it before returning.
func Connect(ctx context.Context, databaseURL string, opts Options) (*sql.DB, error) {
	dsn := strings.TrimSpace(databaseURL)
	if dsn == "" {
		return nil, ErrEmptyURL
	}

	pool, err := openDB("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	configurePool(pool, opts)

	timeout := opts.PingTimeout
	if timeout <= 0 {
		timeout = fallbackPingTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := pool.PingContext(pingCtx); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	stats := pool.Stats()
	telemetry.Info("db.connected", map[string]any{
		"max_open": stats.MaxOpenConnections,
		"open":     stats.OpenConnections,
		"idle":     stats.Idle,
	})
	return pool, nil
}

// WithTx commits when fn succeeds and rolls back otherwise.
func WithTx(ctx context.Context, database *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			telemetry.Warn("db.rollback_failed", map[string]any{"error": rbErr.Error()})
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func configurePool(pool *sql.DB, opts Options) {
	maxOpen := opts.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = fallbackMaxOpen
	}
	maxIdle := opts.MaxIdleConns
	if maxIdle <= 0 {
		maxIdle = fallbackMaxIdle
	}
	lifetime := opts.ConnMaxLifetime
	if lifetime <= 0 {
		lifetime = fallbackLifetime
	}
	pool.SetMaxOpenConns(maxOpen)
	pool.SetMaxIdleConns(maxIdle)
	pool.SetConnMaxLifetime(lifetime)
	if opts.ConnMaxIdleTime > 0 {
		pool.SetConnMaxIdleTime(opts.ConnMaxIdleTime)
	}
}

func lookupEnv(key string) (string, bool) {
	raw := strings.TrimSpace(os.Getenv(key))
	return raw, raw != ""
}
