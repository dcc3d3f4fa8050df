package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/noctura/landing/config"
	"github.com/noctura/landing/domain/waitlist"
	"github.com/noctura/landing/internal/log"
	"github.com/noctura/landing/pkg/migrations"
	"github.com/noctura/landing/pkg/utils"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gorm.io/gorm"
)

func main() {
	logger := log.NewLoggerWithJSONOutput()

	config.InitializeEnvFile(logger) // Load envs early for CLI consistency

	args := os.Args[1:]
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch args[0] {
	case "migrate":
		err = runMigrate(logger)

	case "submit":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "usage: cli submit <email>")
			os.Exit(1)
		}
		err = runSubmit(logger, args[1])

	case "stats":
		err = runStats(logger)

	case "recent":
		limit := 20
		if len(args) > 1 {
			if limit, err = strconv.Atoi(args[1]); err != nil || limit <= 0 {
				fmt.Fprintf(os.Stderr, "invalid limit: %s\n", args[1])
				os.Exit(1)
			}
		}
		err = runRecent(logger, limit)

	case "help", "-h", "--help":
		printUsage()
		return

	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", args[0])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		logger.Error("Command failed", "command", args[0], "error", err.Error())
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: cli <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  migrate         Run database migrations and exit")
	fmt.Println("  submit <email>  Relay one waitlist signup through the configured destination")
	fmt.Println("  stats           Print recorded waitlist submissions per outcome")
	fmt.Println("  recent [n]      Print the n most recent waitlist submissions (default 20)")
}

func openDatabase(logger *log.Logger) (*gorm.DB, func(), error) {
	dbCfg := config.NewDBConfig()
	if !dbCfg.IsConfigured() {
		return nil, nil, fmt.Errorf("no database configured: set DB_DRIVER, APP_DATABASE_URL or POSTGRES_HOST")
	}

	db, err := config.NewDatabase(logger, dbCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, func() { config.CloseDatabase(db, logger) }, nil
}

func runMigrate(logger *log.Logger) error {
	dbCfg := config.NewDBConfig()
	if !dbCfg.IsConfigured() {
		return fmt.Errorf("no database configured: set DB_DRIVER, APP_DATABASE_URL or POSTGRES_HOST")
	}

	db, err := config.NewDatabase(logger, dbCfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database for migration: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get SQL DB instance for migration: %w", err)
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			logger.Warn("Failed to close SQL DB after migration", "error", err.Error())
		}
	}()

	migrationsDir := utils.GetEnvTrimmedOrDefault("MIGRATIONS_DIR", "migrations")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := migrations.Up(ctx, sqlDB, migrations.Config{
		Dir:    migrationsDir,
		Driver: dbCfg.MigrateDriverName(),
		Logger: logger,
	}); err != nil {
		return fmt.Errorf("database migration failed: %w", err)
	}

	logger.Info("Database migrations completed")
	return nil
}

func runSubmit(logger *log.Logger, email string) error {
	cfg := config.NewWaitlistConfig()
	if err := cfg.Validate(); err != nil {
		return err
	}

	db, err := config.NewDatabaseOrNil(logger, config.NewDBConfig())
	if err != nil {
		return err
	}
	if db != nil {
		defer config.CloseDatabase(db, logger)
	}

	service, err := waitlist.NewWaitlistServiceFactory(db, logger, cfg, prometheus.NewRegistry()).CreateService()
	if err != nil {
		return err
	}

	return submitOnce(os.Stdout, logger, service, email, cfg.RelayTimeout*3)
}

// submitOnce joins the waitlist and drains background delivery before printing the notification.
func submitOnce(w io.Writer, logger *log.Logger, service waitlist.WaitlistService, email string, drainTimeout time.Duration) error {
	ctx := log.ContextWithCorrelationID(context.Background(), log.GenerateCorrelationID())
	result, joinErr := service.Join(ctx, email)

	drainCtx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()
	if err := service.Close(drainCtx); err != nil {
		logger.Warn("Background dispatch did not finish", "error", err)
	}

	fmt.Fprintln(w, result.Notification.Message)
	return joinErr
}

func runStats(logger *log.Logger) error {
	db, closeDB, err := openDatabase(logger)
	if err != nil {
		return err
	}
	defer closeDB()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	counts, err := waitlist.NewSubmissionRepository(db).CountByOutcome(ctx)
	if err != nil {
		return err
	}

	printStats(os.Stdout, message.NewPrinter(language.English), counts)
	return nil
}

func printStats(w io.Writer, p *message.Printer, counts map[string]int64) {
	outcomes := make([]string, 0, len(counts))
	var total int64
	for outcome, n := range counts {
		outcomes = append(outcomes, outcome)
		total += n
	}
	sort.Strings(outcomes)

	for _, outcome := range outcomes {
		p.Fprintf(w, "%-10s %12d\n", outcome, counts[outcome])
	}
	p.Fprintf(w, "%-10s %12d\n", "total", total)
}

func runRecent(logger *log.Logger, limit int) error {
	db, closeDB, err := openDatabase(logger)
	if err != nil {
		return err
	}
	defer closeDB()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return printRecent(ctx, os.Stdout, message.NewPrinter(language.English), waitlist.NewSubmissionRepository(db), limit)
}

func printRecent(ctx context.Context, w io.Writer, p *message.Printer, repo waitlist.SubmissionRepository, limit int) error {
	rows, err := repo.Recent(ctx, limit)
	if err != nil {
		return err
	}

	for _, row := range rows {
		p.Fprintf(w, "%s  %-9s  %3d  %-20s  %s\n",
			row.CreatedAt.UTC().Format(time.RFC3339),
			row.Outcome,
			row.StatusCode,
			row.Destination,
			row.Email,
		)
	}
	return nil
}
