package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/noctura/landing/internal/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)

// DBConfig describes the optional audit database. An empty Driver means no database.
type DBConfig struct {
	Driver          string
	SQLitePath      string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	SSLMode         string
}

func NewDBConfig() *DBConfig {
	cfg := &DBConfig{
		Driver:          strings.ToLower(sanitizeEnv(GetValueFromEnvironmentVariable("DB_DRIVER", ""))),
		SQLitePath:      sanitizeEnv(GetValueFromEnvironmentVariable("SQLITE_PATH", "noctura.db")),
		MaxIdleConns:    10,
		MaxOpenConns:    100,
		ConnMaxLifetime: time.Minute,
		SSLMode:         "require",
	}

	if cfg.Driver == "" {
		appDatabaseURL := sanitizeEnv(GetValueFromEnvironmentVariable("APP_DATABASE_URL", ""))
		postgresHost := sanitizeEnv(GetValueFromEnvironmentVariable("POSTGRES_HOST", ""))
		if appDatabaseURL != "" || postgresHost != "" {
			cfg.Driver = DBDriverPostgres
		}
	}

	return cfg
}

func (cfg *DBConfig) IsConfigured() bool {
	return cfg != nil && cfg.Driver != ""
}

// MigrateDriverName maps the gorm driver onto the golang-migrate database driver name.
func (cfg *DBConfig) MigrateDriverName() string {
	if cfg.Driver == DBDriverSQLite {
		return "sqlite3"
	}
	return DBDriverPostgres
}

// NewDatabaseOrNil returns (nil, nil) when no database is configured.
func NewDatabaseOrNil(logger *log.Logger, cfg *DBConfig) (*gorm.DB, error) {
	if !cfg.IsConfigured() {
		logger.Info("Database is not configured; waitlist submissions will not be recorded")
		return nil, nil
	}
	return NewDatabase(logger, cfg)
}

func NewDatabase(logger *log.Logger, cfg *DBConfig) (*gorm.DB, error) {
	if cfg == nil {
		cfg = NewDBConfig()
	}

	dialector, err := buildDialector(logger, cfg)
	if err != nil {
		return nil, err
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	if err != nil {
		logger.Error("Failed to connect to database", "driver", cfg.Driver, "error", err)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		logger.Error("Failed to get database instance", "error", err)
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	if cfg.Driver == DBDriverSQLite {
		// SQLite serialises writers; a single connection avoids "database is locked".
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := sqlDB.Ping(); err != nil {
		logger.Error("Database ping failed", "error", err)
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	logger.Info("Database connection established successfully", "driver", cfg.Driver)
	return gdb, nil
}

func buildDialector(logger *log.Logger, cfg *DBConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case DBDriverSQLite:
		if cfg.SQLitePath == "" {
			return nil, fmt.Errorf("SQLITE_PATH must not be empty when DB_DRIVER=sqlite")
		}
		logger.Info("Using SQLite database", "path", cfg.SQLitePath)
		return sqlite.Open(cfg.SQLitePath), nil
	case DBDriverPostgres:
		dsn, err := buildPostgresDSN(logger, cfg)
		if err != nil {
			return nil, err
		}
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q (supported: postgres, sqlite)", cfg.Driver)
	}
}

func buildPostgresDSN(logger *log.Logger, cfg *DBConfig) (string, error) {
	appDatabaseURL := sanitizeEnv(GetValueFromEnvironmentVariable("APP_DATABASE_URL", ""))
	if appDatabaseURL != "" {
		logger.Info("Using APP_DATABASE_URL for database connection")
		return appDatabaseURL, nil
	}

	host, portStr, user, pass, dbName, ssl := getDatabaseEnvParams()
	if ssl == "" {
		ssl = cfg.SSLMode
	}

	missing := []string{}

	if host == "" {
		missing = append(missing, "POSTGRES_HOST")
	}

	if portStr == "" {
		missing = append(missing, "POSTGRES_PORT")
	}

	if user == "" {
		missing = append(missing, "POSTGRES_USER")
	}

	if dbName == "" {
		missing = append(missing, "POSTGRES_DB_NAME")
	}

	if len(missing) > 0 {
		logger.Error("Missing required database environment variables", "missing_vars", strings.Join(missing, ", "))
		return "", fmt.Errorf("missing required database env vars: %s", strings.Join(missing, ", "))
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		logger.Error("Invalid POSTGRES_PORT", "error", err)
		return "", fmt.Errorf("invalid POSTGRES_PORT %q: %w", portStr, err)
	}

	logger.Info("Connecting to database",
		"host", host,
		"port", port,
		"user", user,
		"dbname", dbName,
		"sslmode", ssl,
	)

	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, pass, dbName, ssl,
	), nil
}

func getDatabaseEnvParams() (host, port, user, pass, dbName, ssl string) {
	host = sanitizeEnv(GetValueFromEnvironmentVariable("POSTGRES_HOST", ""))
	port = sanitizeEnv(GetValueFromEnvironmentVariable("POSTGRES_PORT", ""))
	user = sanitizeEnv(GetValueFromEnvironmentVariable("POSTGRES_USER", ""))
	pass = sanitizeEnv(GetValueFromEnvironmentVariable("POSTGRES_PASSWORD", ""))
	dbName = sanitizeEnv(GetValueFromEnvironmentVariable("POSTGRES_DB_NAME", ""))
	ssl = sanitizeEnv(GetValueFromEnvironmentVariable("POSTGRES_SSLMODE", ""))

	return host, port, user, pass, dbName, ssl
}

func AutoMigrate(logger *log.Logger, db *gorm.DB, models ...interface{}) error {
	if db == nil {
		logger.Error("Cannot migrate: db is empty")
		return fmt.Errorf("cannot migrate: db is empty")
	}

	if err := db.AutoMigrate(models...); err != nil {
		logger.Error("Database migration failed", "error", err)
		return fmt.Errorf("auto-migrate failed: %w", err)
	}

	logger.Info("Database migration completed successfully")

	return nil
}

func CloseDatabase(db *gorm.DB, logger *log.Logger) {
	if db == nil {
		return
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Error("Failed to get SQL DB instance", "error", err)
		return
	}

	if err := sqlDB.Close(); err != nil {
		logger.Error("Failed to close database", "error", err)
	} else {
		logger.Info("Database closed successfully")
	}
}
