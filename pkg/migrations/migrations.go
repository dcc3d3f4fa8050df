package migrations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"sync"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

type migrator interface {
	Up() error
	Version() (version uint, dirty bool, err error)
	Close() (sourceErr error, databaseErr error)
}

var driverFactory = func(db *sql.DB, cfg Config) (database.Driver, error) {
	switch cfg.Driver {
	case DriverSQLite:
		return sqlite3.WithInstance(db, &sqlite3.Config{MigrationsTable: cfg.MigrationsTable})
	default:
		return postgres.WithInstance(db, &postgres.Config{MigrationsTable: cfg.MigrationsTable})
	}
}

var migratorFactory = func(sourceURL, driverName string, driver database.Driver) (migrator, error) {
	return migrate.NewWithDatabaseInstance(sourceURL, driverName, driver)
}

type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type Config struct {
	Dir             string
	Driver          string
	MigrationsTable string
	Logger          Logger
}

func (cfg *Config) applyDefaults() {
	if strings.TrimSpace(cfg.Dir) == "" {
		cfg.Dir = "migrations"
	}
	if strings.TrimSpace(cfg.Driver) == "" {
		cfg.Driver = DriverPostgres
	}
	if strings.TrimSpace(cfg.MigrationsTable) == "" {
		cfg.MigrationsTable = "schema_migrations"
	}
}

// Up applies every pending migration in cfg.Dir. It returns nil when the schema is already current.
func Up(ctx context.Context, db *sql.DB, cfg Config) error {
	if db == nil {
		return fmt.Errorf("migrations: db is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	cfg.applyDefaults()

	absDir, err := filepath.Abs(cfg.Dir)
	if err != nil {
		return fmt.Errorf("migrations: resolve dir: %w", err)
	}

	// ToSlash keeps Windows paths valid inside a file:// URL.
	sourceURL := (&url.URL{
		Scheme: "file",
		Path:   filepath.ToSlash(absDir),
	}).String()

	driver, err := driverFactory(db, cfg)
	if err != nil {
		return fmt.Errorf("migrations: %s driver: %w", cfg.Driver, err)
	}

	m, err := migratorFactory(sourceURL, cfg.Driver, driver)
	if err != nil {
		return fmt.Errorf("migrations: init: %w", err)
	}
	closeOnce := sync.Once{}
	closeMigrator := func() {
		closeOnce.Do(func() {
			srcErr, dbErr := m.Close()
			if cfg.Logger != nil {
				if srcErr != nil {
					cfg.Logger.Warn("Migrations source close error", "error", srcErr)
				}
				if dbErr != nil {
					cfg.Logger.Warn("Migrations db close error", "error", dbErr)
				}
			}
		})
	}
	defer closeMigrator()

	if cfg.Logger != nil {
		cfg.Logger.Info("Running SQL migrations", "dir", absDir, "driver", cfg.Driver, "table", cfg.MigrationsTable)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- m.Up()
	}()

	select {
	case <-ctx.Done():
		// migrate has no context support; closing is the only way to interrupt it.
		closeMigrator()
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, migrate.ErrNoChange) {
			if cfg.Logger != nil {
				cfg.Logger.Info("No migrations to apply")
			}
			return nil
		}
		if err != nil {
			return fmt.Errorf("migrations: up: %w", err)
		}
	}

	if cfg.Logger != nil {
		if version, dirty, err := m.Version(); err == nil {
			cfg.Logger.Info("Migrations applied successfully", "version", version, "dirty", dirty)
		} else {
			cfg.Logger.Info("Migrations applied successfully")
		}
	}
	return nil
}
