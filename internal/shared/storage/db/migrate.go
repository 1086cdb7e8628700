package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// RunMigrations applies embedded SQL migrations via goose. If database is nil, it's a no-op.
func RunMigrations(ctx context.Context, database *sql.DB) error {
	return RunMigrationCommand(ctx, database, "up")
}

// RunMigrationCommand runs a goose command (up, down, status, version, reset)
// against the embedded migrations.
func RunMigrationCommand(ctx context.Context, database *sql.DB, command string, args ...string) error {
	if database == nil {
		return nil
	}
	goose.SetBaseFS(migrationFiles)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	switch command {
	case "up", "down", "status", "version", "reset":
	default:
		return fmt.Errorf("unsupported migration command %q", command)
	}
	return goose.RunContext(ctx, command, database, "migrations", args...)
}
