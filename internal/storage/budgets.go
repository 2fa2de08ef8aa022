package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/outlay-app/outlay/internal/common"
	"github.com/outlay-app/outlay/internal/model"
)

const budgetColumns = `id, scope, category, amount, month, year,
	warning_threshold, rollover_enabled, rollover_cap, rollover_amount,
	notes, is_active, created_at, updated_at`

// SaveBudget inserts a new budget or updates an existing one by ID.
// Inserting a second active budget for the same scope and period fails
// with ErrDuplicateBudget.
func (s *SQLiteStorage) SaveBudget(ctx context.Context, budget *model.Budget) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if budget == nil {
		return fmt.Errorf("budget cannot be nil")
	}
	if err := budget.Validate(); err != nil {
		return fmt.Errorf("invalid budget: %w", err)
	}

	budget.UpdatedAt = time.Now()
	if budget.CreatedAt.IsZero() {
		budget.CreatedAt = budget.UpdatedAt
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO budgets (id, scope, category, amount, month, year,
			warning_threshold, rollover_enabled, rollover_cap, rollover_amount,
			notes, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			scope = excluded.scope,
			category = excluded.category,
			amount = excluded.amount,
			month = excluded.month,
			year = excluded.year,
			warning_threshold = excluded.warning_threshold,
			rollover_enabled = excluded.rollover_enabled,
			rollover_cap = excluded.rollover_cap,
			rollover_amount = excluded.rollover_amount,
			notes = excluded.notes,
			is_active = excluded.is_active,
			updated_at = excluded.updated_at`,
		budget.ID, budget.Scope, budget.Category, budget.Amount, budget.Month,
		budget.Year, budget.WarningThreshold, budget.RolloverEnabled,
		budget.RolloverCap, budget.RolloverAmount, budget.Notes,
		budget.IsActive, budget.CreatedAt, budget.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("active budget for %s %q in %s already exists: %w",
				budget.Scope, budget.Category, budget.PeriodLabel(), common.ErrDuplicateBudget)
		}
		return fmt.Errorf("failed to save budget: %w", err)
	}

	return nil
}

// GetBudget retrieves a budget by ID regardless of active state.
func (s *SQLiteStorage) GetBudget(ctx context.Context, id string) (*model.Budget, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+budgetColumns+` FROM budgets WHERE id = ?`, id)

	budget, err := scanBudget(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("budget %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}
	return budget, nil
}

// GetBudgets returns all active budgets for a period, category scopes
// first so status listings read naturally.
func (s *SQLiteStorage) GetBudgets(ctx context.Context, month, year int) ([]model.Budget, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validatePeriod(month, year); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+budgetColumns+`
		FROM budgets
		WHERE month = ? AND year = ? AND is_active = 1
		ORDER BY scope DESC, category ASC`, month, year)
	if err != nil {
		return nil, fmt.Errorf("failed to query budgets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var budgets []model.Budget
	for rows.Next() {
		budget, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		budgets = append(budgets, *budget)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate budgets: %w", err)
	}

	return budgets, nil
}

// GetBudgetForScope finds the active budget covering one scope in a period.
// Returns nil without error when none exists.
func (s *SQLiteStorage) GetBudgetForScope(ctx context.Context, scope model.BudgetScope, category string, month, year int) (*model.Budget, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validatePeriod(month, year); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT `+budgetColumns+`
		FROM budgets
		WHERE scope = ? AND category = ? AND month = ? AND year = ? AND is_active = 1`,
		scope, category, month, year)

	budget, err := scanBudget(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get budget for scope: %w", err)
	}
	return budget, nil
}

// UpdateBudgetRollover overwrites the carried rollover amount. Closing a
// period twice produces the same stored value, not a doubled one.
func (s *SQLiteStorage) UpdateBudgetRollover(ctx context.Context, id string, amount float64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}
	if amount < 0 {
		return fmt.Errorf("rollover amount cannot be negative, got %.2f", amount)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE budgets
		SET rollover_amount = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`, amount, id)
	if err != nil {
		return fmt.Errorf("failed to update rollover: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rollover update: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("budget %s: %w", id, common.ErrNotFound)
	}

	return nil
}

// DeactivateBudget retires a budget without deleting its history.
func (s *SQLiteStorage) DeactivateBudget(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE budgets
		SET is_active = 0, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND is_active = 1`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate budget: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deactivation: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("active budget %s: %w", id, common.ErrNotFound)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBudget(row rowScanner) (*model.Budget, error) {
	var b model.Budget
	var notes sql.NullString
	err := row.Scan(&b.ID, &b.Scope, &b.Category, &b.Amount, &b.Month, &b.Year,
		&b.WarningThreshold, &b.RolloverEnabled, &b.RolloverCap, &b.RolloverAmount,
		&notes, &b.IsActive, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	b.Notes = notes.String
	return &b, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
