package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/viper"

	"github.com/outlay-app/outlay/internal/config"
	"github.com/outlay-app/outlay/internal/engine"
	"github.com/outlay-app/outlay/internal/service"
	"github.com/outlay-app/outlay/internal/storage"
)

// initStorage initializes the storage service with proper path expansion.
func initStorage(ctx context.Context) (service.Storage, error) {
	// Get database path from config
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = config.DefaultDatabasePath()
	}

	// Expand tilde and environment variables
	dbPath = config.ExpandPath(dbPath)

	// Initialize storage
	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	// Run migrations
	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// resolveClock returns the clock for date-dependent commands, honoring
// the --today override.
func resolveClock() (service.Clock, error) {
	if todayFlag == "" {
		return engine.SystemClock(), nil
	}
	today, err := time.Parse("2006-01-02", todayFlag)
	if err != nil {
		return nil, fmt.Errorf("invalid --today value %q, expected YYYY-MM-DD: %w", todayFlag, err)
	}
	return engine.FixedClock(today), nil
}

// initEngine wires storage and configuration into an engine instance.
func initEngine(store service.Storage) (*engine.Engine, error) {
	clock, err := resolveClock()
	if err != nil {
		return nil, err
	}

	cfg := engine.DefaultConfig()
	cfg.DefaultWarningThreshold = viper.GetFloat64("budgets.warning_threshold")

	switch policy := viper.GetString("recurring.catchup"); policy {
	case "latest", "":
		cfg.CatchUp = engine.CatchUpLatest
	case "all":
		cfg.CatchUp = engine.CatchUpAll
	default:
		return nil, fmt.Errorf("invalid recurring.catchup value %q, expected latest or all", policy)
	}

	return engine.NewWithConfig(store, clock, cfg), nil
}

// parseAmount parses a positive money amount from a command argument.
func parseAmount(arg string) (float64, error) {
	amount, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", arg, err)
	}
	if amount < 0 {
		return 0, fmt.Errorf("amount cannot be negative, got %s", arg)
	}
	return amount, nil
}

func monthName(month int) string {
	return time.Month(month).String()
}

// resolvePeriod returns the month and year a command should operate on:
// the explicit flags when set, otherwise the current period.
func resolvePeriod(month, year int) (int, int, error) {
	clock, err := resolveClock()
	if err != nil {
		return 0, 0, err
	}
	today := clock.Today()

	if month == 0 {
		month = int(today.Month())
	}
	if year == 0 {
		year = today.Year()
	}
	if month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("month must be between 1 and 12, got %d", month)
	}
	return month, year, nil
}
