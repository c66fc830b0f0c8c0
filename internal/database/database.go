package database

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/frahmantamala/spendwise/internal"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DB bundles the two views of one connection pool: gorm for record CRUD and
// sqlx for hand written aggregate queries.
type DB struct {
	Gorm   *gorm.DB
	SQLX   *sqlx.DB
	Driver string
}

// Open connects to the configured store and verifies the connection.
func Open(cfg internal.DatabaseConfig, debug bool) (*DB, error) {
	dialector, sqlDriver, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	logMode := gormlogger.Silent
	if debug {
		logMode = gormlogger.Warn
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(logMode),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Driver, err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	maxOpen := cfg.MaxOpenConns
	if cfg.Driver == internal.DriverSQLite {
		// SQLite allows a single writer; one connection keeps writes serialised.
		maxOpen = 1
	}
	if maxOpen > 0 {
		sqlDB.SetMaxOpenConns(maxOpen)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(min(cfg.MaxIdleConns, max(maxOpen, 1)))
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if cfg.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}

	ctx, cancel := internal.WithTimeout(context.Background(), cfg.QueryTimeout)
	defer cancel()

	// verify connection; close underlying *sql.DB on failure
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	slog.Debug("database connection established", "driver", cfg.Driver)

	return &DB{
		Gorm:   gdb,
		SQLX:   sqlx.NewDb(sqlDB, sqlDriver),
		Driver: cfg.Driver,
	}, nil
}

func (d *DB) Ping(ctx context.Context) error {
	return d.SQLX.PingContext(ctx)
}

func (d *DB) Close() error {
	return d.SQLX.Close()
}

func dialectorFor(cfg internal.DatabaseConfig) (gorm.Dialector, string, error) {
	switch cfg.Driver {
	case internal.DriverSQLite:
		if err := ensureDir(cfg.Source); err != nil {
			return nil, "", err
		}
		return sqlite.Open(cfg.Source), "sqlite3", nil
	case internal.DriverPostgres:
		return postgres.Open(cfg.Source), "pgx", nil
	default:
		return nil, "", fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func ensureDir(source string) error {
	if source == "" || strings.HasPrefix(source, ":memory:") || strings.HasPrefix(source, "file:") {
		return nil
	}
	dir := filepath.Dir(source)
	if dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create db directory: %w", err)
	}
	return nil
}
