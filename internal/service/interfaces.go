// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/outlay-app/outlay/internal/model"
)

// Storage defines the contract for our persistence layer. The engine only
// ever touches the ledger through this interface; filtering and summing
// live here so the evaluation logic stays free of storage concerns.
type Storage interface {
	// Expense operations
	CreateExpense(ctx context.Context, expense *model.Expense) error
	GetExpense(ctx context.Context, id string) (*model.Expense, error)
	ListExpenses(ctx context.Context, month, year int) ([]model.Expense, error)
	SoftDeleteExpense(ctx context.Context, id string, now time.Time) error
	SumExpenses(ctx context.Context, scope model.BudgetScope, category string, month, year int) (float64, int, error)

	// Recurring definition operations
	ListRecurring(ctx context.Context) ([]model.Expense, error)
	ListRecurringDue(ctx context.Context, today time.Time) ([]model.Expense, error)
	UpdateRecurringSchedule(ctx context.Context, id string, nextDue, lastRecurring time.Time) error

	// Budget operations
	GetBudgets(ctx context.Context, month, year int) ([]model.Budget, error)
	GetBudget(ctx context.Context, id string) (*model.Budget, error)
	GetBudgetForScope(ctx context.Context, scope model.BudgetScope, category string, month, year int) (*model.Budget, error)
	SaveBudget(ctx context.Context, budget *model.Budget) error
	UpdateBudgetRollover(ctx context.Context, id string, amount float64) error
	DeactivateBudget(ctx context.Context, id string) error

	// Session log
	GetLastSession(ctx context.Context) (*model.SessionRecord, error)
	SaveSession(ctx context.Context, record *model.SessionRecord) error

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// Clock supplies "today" to the engine. Injected so date-dependent
// behavior is deterministic in tests.
type Clock interface {
	Today() time.Time
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// RolloverResult reports the outcome of closing one budget's period.
type RolloverResult struct {
	BudgetID string
	TargetID string // next-period budget that received the carry, if any
	Carry    float64
	Applied  bool // false when no next-period budget exists yet
}

// Generated describes one expense materialized from a recurring definition.
type Generated struct {
	ExpenseID    string
	DefinitionID string
	Date         time.Time
	Amount       float64
	Category     string
	Vendor       string
}

// SessionReport summarizes one evaluation pass for display at startup.
type SessionReport struct {
	Generated    []Generated
	Reminders    []model.Expense
	Failed       []MaterializeFailure
	Rollovers    []RolloverResult
	Alerts       []model.Alert
	ClosedMonths int
}

// MaterializeFailure records a definition whose expense could not be
// created; its schedule was left untouched.
type MaterializeFailure struct {
	DefinitionID string
	Err          error
}
