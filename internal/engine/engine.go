// Package engine implements budget evaluation, rollover, and recurring
// expense processing over an injected record store.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/outlay-app/outlay/internal/model"
	"github.com/outlay-app/outlay/internal/period"
	"github.com/outlay-app/outlay/internal/service"
)

// CatchUpPolicy decides how many expenses to materialize when multiple
// periods were missed between sessions.
type CatchUpPolicy string

const (
	// CatchUpLatest materializes only the most recent missed occurrence,
	// avoiding ledger flooding after a long gap. This is the default.
	CatchUpLatest CatchUpPolicy = "latest"
	// CatchUpAll materializes one expense per missed period.
	CatchUpAll CatchUpPolicy = "all"
)

// Config holds configuration options for the engine.
type Config struct {
	CatchUp CatchUpPolicy
	// DefaultWarningThreshold applies to budgets that don't set their own.
	DefaultWarningThreshold float64
	Retry                   service.RetryOptions
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		CatchUp:                 CatchUpLatest,
		DefaultWarningThreshold: 80.0,
	}
}

// Engine orchestrates budget tracking and recurring expense processing.
// All methods are synchronous and hold no locks; the caller serializes
// access (see repeated-run idempotency on rollover and materialization).
type Engine struct {
	storage service.Storage
	clock   service.Clock
	config  Config
}

// New creates an engine with the default configuration.
func New(storage service.Storage, clock service.Clock) *Engine {
	return NewWithConfig(storage, clock, DefaultConfig())
}

// NewWithConfig creates an engine with custom configuration.
func NewWithConfig(storage service.Storage, clock service.Clock, config Config) *Engine {
	if config.CatchUp == "" {
		config.CatchUp = CatchUpLatest
	}
	if config.DefaultWarningThreshold <= 0 {
		config.DefaultWarningThreshold = 80.0
	}
	return &Engine{
		storage: storage,
		clock:   clock,
		config:  config,
	}
}

// RunSession executes one evaluation pass: materialize due recurring
// definitions, close any months crossed since the last session, and
// evaluate alerts for the current period. Safe to re-run; a second pass
// with the same "today" generates nothing new and overwrites rather than
// accumulates rollover.
func (e *Engine) RunSession(ctx context.Context) (*service.SessionReport, error) {
	today := e.clock.Today()
	report := &service.SessionReport{}

	slog.Info("Starting session pass", "today", today.Format("2006-01-02"))

	auto, reminders, err := e.CheckDue(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check due recurring expenses: %w", err)
	}
	report.Reminders = reminders

	generated, failed := e.Materialize(ctx, auto)
	report.Generated = generated
	report.Failed = failed

	closed, rollovers, err := e.closeCrossedMonths(ctx, today)
	if err != nil {
		return nil, err
	}
	report.ClosedMonths = closed
	report.Rollovers = rollovers

	alerts, err := e.Alerts(ctx, int(today.Month()), today.Year())
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate alerts: %w", err)
	}
	report.Alerts = alerts

	if err := e.recordSession(ctx, today, report); err != nil {
		// A failed session log only weakens boundary detection for the
		// next run; the pass itself succeeded.
		slog.Error("Failed to record session", "error", err)
	}

	slog.Info("Session pass complete",
		"generated", len(report.Generated),
		"reminders", len(report.Reminders),
		"failed", len(report.Failed),
		"closed_months", report.ClosedMonths,
		"alerts", len(report.Alerts))

	return report, nil
}

// closeCrossedMonths runs rollover for every month boundary crossed since
// the last recorded session.
func (e *Engine) closeCrossedMonths(ctx context.Context, today time.Time) (int, []service.RolloverResult, error) {
	last, err := e.storage.GetLastSession(ctx)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to load last session: %w", err)
	}
	if last == nil {
		return 0, nil, nil
	}

	month, year := int(last.RanAt.Month()), last.RanAt.Year()
	closed := 0
	var results []service.RolloverResult

	for year < today.Year() || (year == today.Year() && month < int(today.Month())) {
		slog.Info("Closing month crossed since last session", "month", month, "year", year)
		res, err := e.CloseMonth(ctx, month, year)
		if err != nil {
			return closed, results, fmt.Errorf("failed to close %d-%02d: %w", year, month, err)
		}
		results = append(results, res...)
		closed++
		month, year = period.Next(month, year)
	}

	return closed, results, nil
}

func (e *Engine) recordSession(ctx context.Context, today time.Time, report *service.SessionReport) error {
	return e.storage.SaveSession(ctx, &model.SessionRecord{
		RanAt:      today,
		Generated:  len(report.Generated),
		Reminders:  len(report.Reminders),
		AlertCount: len(report.Alerts),
	})
}

// resolvedThreshold returns the budget's own warning threshold, or the
// configured default when the budget doesn't set one.
func (e *Engine) resolvedThreshold(threshold float64) float64 {
	if threshold <= 0 {
		return e.config.DefaultWarningThreshold
	}
	return threshold
}
