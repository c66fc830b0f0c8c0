package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"sync"

	"github.com/frahmantamala/spendwise/internal"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

const migrationsTable = "schema_migrations"

// goose keeps its dialect and base FS in package state.
var gooseMu sync.Mutex

func migrationTarget(driver string) (dialect, dir string, err error) {
	switch driver {
	case internal.DriverSQLite:
		return "sqlite3", "migrations/sqlite", nil
	case internal.DriverPostgres:
		return "postgres", "migrations/postgres", nil
	default:
		return "", "", fmt.Errorf("no migrations for driver %q", driver)
	}
}

// Migrate applies every pending migration. Running it against an up to date
// schema is a no-op, so it is safe to call on every startup.
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	return runGoose(ctx, db, driver, func(dir string) error {
		return goose.UpContext(ctx, db, dir)
	})
}

// Rollback reverts the most recent migration.
func Rollback(ctx context.Context, db *sql.DB, driver string) error {
	return runGoose(ctx, db, driver, func(dir string) error {
		return goose.DownContext(ctx, db, dir)
	})
}

// Version reports the currently applied migration version.
func Version(ctx context.Context, db *sql.DB, driver string) (int64, error) {
	var version int64
	err := runGoose(ctx, db, driver, func(string) error {
		v, err := goose.GetDBVersionContext(ctx, db)
		version = v
		return err
	})
	return version, err
}

func runGoose(ctx context.Context, db *sql.DB, driver string, fn func(dir string) error) error {
	dialect, dir, err := migrationTarget(driver)
	if err != nil {
		return err
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrationsFS)
	goose.SetTableName(migrationsTable)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("goose: set dialect: %w", err)
	}

	if err := fn(dir); err != nil {
		return fmt.Errorf("goose: %w", err)
	}

	slog.DebugContext(ctx, "migrations applied", "driver", driver, "dir", dir)
	return nil
}
