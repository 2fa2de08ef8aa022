package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/outlay-app/outlay/internal/common"
	"github.com/outlay-app/outlay/internal/model"
	"github.com/outlay-app/outlay/internal/period"
)

const expenseColumns = `id, amount, date, category, vendor, payment_method,
	description, is_recurring, recurring_type, recurring_action,
	next_due_date, last_recurring_date, recurring_parent_id,
	is_deleted, deleted_at, created_at, updated_at`

// CreateExpense inserts an expense or recurring definition.
func (s *SQLiteStorage) CreateExpense(ctx context.Context, expense *model.Expense) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if expense == nil {
		return fmt.Errorf("expense cannot be nil")
	}
	if err := expense.Validate(); err != nil {
		return fmt.Errorf("invalid expense: %w", err)
	}

	now := time.Now()
	if expense.CreatedAt.IsZero() {
		expense.CreatedAt = now
	}
	expense.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO expenses (id, amount, date, category, vendor, payment_method,
			description, is_recurring, recurring_type, recurring_action,
			next_due_date, last_recurring_date, recurring_parent_id,
			is_deleted, deleted_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.Amount, expense.Date, expense.Category,
		expense.Vendor, expense.PaymentMethod, expense.Description,
		expense.IsRecurring, nullString(string(expense.RecurringType)),
		nullString(string(expense.RecurringAction)),
		nullTime(expense.NextDueDate), nullTime(expense.LastRecurringDate),
		nullString(expense.RecurringParentID),
		expense.IsDeleted, nullTime(expense.DeletedAt),
		expense.CreatedAt, expense.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create expense: %w", err)
	}

	return nil
}

// GetExpense retrieves an expense by ID, including soft-deleted ones.
func (s *SQLiteStorage) GetExpense(ctx context.Context, id string) (*model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE id = ?`, id)

	expense, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("expense %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	return expense, nil
}

// ListExpenses returns non-deleted ledger expenses for a month, newest
// first. Recurring definitions are excluded; only materialized and
// manually entered expenses appear in the ledger.
func (s *SQLiteStorage) ListExpenses(ctx context.Context, month, year int) ([]model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validatePeriod(month, year); err != nil {
		return nil, err
	}

	start, end := period.Bounds(month, year)

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+expenseColumns+`
		FROM expenses
		WHERE is_deleted = 0 AND is_recurring = 0
			AND date >= ? AND date < ?
		ORDER BY date DESC, created_at DESC`,
		start, end.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return collectExpenses(rows)
}

// SoftDeleteExpense marks an expense deleted so sums no longer count it.
func (s *SQLiteStorage) SoftDeleteExpense(ctx context.Context, id string, now time.Time) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE expenses
		SET is_deleted = 1, deleted_at = ?, updated_at = ?
		WHERE id = ? AND is_deleted = 0`, now, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deletion: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("expense %s: %w", id, common.ErrNotFound)
	}

	return nil
}

// SumExpenses totals non-deleted ledger spending against a budget scope
// for one month. Category scope counts one category; total scope counts
// everything. Returns the sum and the number of expenses counted.
func (s *SQLiteStorage) SumExpenses(ctx context.Context, scope model.BudgetScope, category string, month, year int) (float64, int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, 0, err
	}
	if err := validatePeriod(month, year); err != nil {
		return 0, 0, err
	}

	start, end := period.Bounds(month, year)

	query := `
		SELECT COALESCE(SUM(amount), 0), COUNT(*)
		FROM expenses
		WHERE is_deleted = 0 AND is_recurring = 0
			AND date >= ? AND date < ?`
	args := []any{start, end.AddDate(0, 0, 1)}

	if scope == model.ScopeCategory {
		query += ` AND category = ?`
		args = append(args, category)
	}

	var sum float64
	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&sum, &count); err != nil {
		return 0, 0, fmt.Errorf("failed to sum expenses: %w", err)
	}

	slog.Debug("summed expenses",
		"scope", scope,
		"category", category,
		"month", month,
		"year", year,
		"sum", sum,
		"count", count)

	return sum, count, nil
}

// ListRecurring returns all non-deleted recurring definitions.
func (s *SQLiteStorage) ListRecurring(ctx context.Context) ([]model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+expenseColumns+`
		FROM expenses
		WHERE is_recurring = 1 AND is_deleted = 0
		ORDER BY next_due_date ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query recurring definitions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return collectExpenses(rows)
}

// ListRecurringDue returns recurring definitions whose next due date has
// arrived. The cutoff is the end of today, so dueness is date precision.
func (s *SQLiteStorage) ListRecurringDue(ctx context.Context, today time.Time) ([]model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	tomorrow := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+expenseColumns+`
		FROM expenses
		WHERE is_recurring = 1 AND is_deleted = 0
			AND next_due_date IS NOT NULL AND next_due_date < ?
		ORDER BY next_due_date ASC`, tomorrow)
	if err != nil {
		return nil, fmt.Errorf("failed to query due definitions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return collectExpenses(rows)
}

// UpdateRecurringSchedule advances a definition's schedule after its due
// occurrences have been handled.
func (s *SQLiteStorage) UpdateRecurringSchedule(ctx context.Context, id string, nextDue, lastRecurring time.Time) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}
	if nextDue.IsZero() {
		return fmt.Errorf("next due date is required")
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE expenses
		SET next_due_date = ?, last_recurring_date = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND is_recurring = 1 AND is_deleted = 0`,
		nextDue, nullTime(lastRecurring), id)
	if err != nil {
		return fmt.Errorf("failed to update recurring schedule: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check schedule update: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("recurring definition %s: %w", id, common.ErrNotFound)
	}

	return nil
}

func scanExpense(row rowScanner) (*model.Expense, error) {
	var e model.Expense
	var vendor, paymentMethod, description sql.NullString
	var recurringType, recurringAction, parentID sql.NullString
	var nextDue, lastRecurring, deletedAt sql.NullTime

	err := row.Scan(&e.ID, &e.Amount, &e.Date, &e.Category, &vendor,
		&paymentMethod, &description, &e.IsRecurring, &recurringType,
		&recurringAction, &nextDue, &lastRecurring, &parentID,
		&e.IsDeleted, &deletedAt, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}

	e.Vendor = vendor.String
	e.PaymentMethod = paymentMethod.String
	e.Description = description.String
	e.RecurringType = model.RecurringType(recurringType.String)
	e.RecurringAction = model.RecurringAction(recurringAction.String)
	e.RecurringParentID = parentID.String
	e.NextDueDate = nextDue.Time
	e.LastRecurringDate = lastRecurring.Time
	e.DeletedAt = deletedAt.Time

	return &e, nil
}

func collectExpenses(rows *sql.Rows) ([]model.Expense, error) {
	var expenses []model.Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, *expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}
	return expenses, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
