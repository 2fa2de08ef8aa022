package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/outlay-app/outlay/internal/model"
	"github.com/outlay-app/outlay/internal/period"
)

// mockStorage is an in-memory Storage for engine tests.
type mockStorage struct {
	expenses map[string]*model.Expense
	budgets  map[string]*model.Budget
	sessions []model.SessionRecord

	// createExpenseErr, when set, makes CreateExpense fail. failCreates
	// limits the failure to the first N calls; zero means every call.
	// Used to exercise the all-or-nothing materialization rule.
	createExpenseErr error
	failCreates      int
	createCalls      int
	rolloverWrites   int
}

func newMockStorage() *mockStorage {
	return &mockStorage{
		expenses: make(map[string]*model.Expense),
		budgets:  make(map[string]*model.Budget),
	}
}

func (m *mockStorage) addBudget(b model.Budget) {
	copied := b
	m.budgets[b.ID] = &copied
}

func (m *mockStorage) addExpense(e model.Expense) {
	copied := e
	m.expenses[e.ID] = &copied
}

func (m *mockStorage) CreateExpense(_ context.Context, expense *model.Expense) error {
	m.createCalls++
	if m.createExpenseErr != nil {
		if m.failCreates == 0 || m.createCalls <= m.failCreates {
			return m.createExpenseErr
		}
	}
	copied := *expense
	m.expenses[expense.ID] = &copied
	return nil
}

func (m *mockStorage) GetExpense(_ context.Context, id string) (*model.Expense, error) {
	e, ok := m.expenses[id]
	if !ok {
		return nil, nil
	}
	copied := *e
	return &copied, nil
}

func (m *mockStorage) ListExpenses(_ context.Context, month, year int) ([]model.Expense, error) {
	var out []model.Expense
	for _, e := range m.expenses {
		if e.IsDeleted || e.IsRecurring {
			continue
		}
		if period.Contains(month, year, e.Date) {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (m *mockStorage) SoftDeleteExpense(_ context.Context, id string, now time.Time) error {
	e, ok := m.expenses[id]
	if !ok {
		return fmt.Errorf("expense %s not found", id)
	}
	e.SoftDelete(now)
	return nil
}

func (m *mockStorage) SumExpenses(_ context.Context, scope model.BudgetScope, category string, month, year int) (float64, int, error) {
	total := 0.0
	count := 0
	for _, e := range m.expenses {
		if e.IsDeleted || e.IsRecurring {
			continue
		}
		if !period.Contains(month, year, e.Date) {
			continue
		}
		if scope == model.ScopeCategory && e.Category != category {
			continue
		}
		total += e.Amount
		count++
	}
	return total, count, nil
}

func (m *mockStorage) ListRecurring(_ context.Context) ([]model.Expense, error) {
	var out []model.Expense
	for _, e := range m.expenses {
		if e.IsRecurring && !e.IsDeleted {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (m *mockStorage) ListRecurringDue(_ context.Context, today time.Time) ([]model.Expense, error) {
	var out []model.Expense
	for _, e := range m.expenses {
		if e.IsRecurring && !e.IsDeleted && e.IsDue(today) {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (m *mockStorage) UpdateRecurringSchedule(_ context.Context, id string, nextDue, lastRecurring time.Time) error {
	e, ok := m.expenses[id]
	if !ok {
		return fmt.Errorf("definition %s not found", id)
	}
	e.NextDueDate = nextDue
	e.LastRecurringDate = lastRecurring
	return nil
}

func (m *mockStorage) GetBudgets(_ context.Context, month, year int) ([]model.Budget, error) {
	var out []model.Budget
	for _, b := range m.budgets {
		if b.IsActive && b.Month == month && b.Year == year {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *mockStorage) GetBudget(_ context.Context, id string) (*model.Budget, error) {
	b, ok := m.budgets[id]
	if !ok {
		return nil, nil
	}
	copied := *b
	return &copied, nil
}

func (m *mockStorage) GetBudgetForScope(_ context.Context, scope model.BudgetScope, category string, month, year int) (*model.Budget, error) {
	for _, b := range m.budgets {
		if b.IsActive && b.Scope == scope && b.Category == category && b.Month == month && b.Year == year {
			copied := *b
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *mockStorage) SaveBudget(_ context.Context, budget *model.Budget) error {
	copied := *budget
	m.budgets[budget.ID] = &copied
	return nil
}

func (m *mockStorage) UpdateBudgetRollover(_ context.Context, id string, amount float64) error {
	b, ok := m.budgets[id]
	if !ok {
		return fmt.Errorf("budget %s not found", id)
	}
	b.RolloverAmount = amount
	m.rolloverWrites++
	return nil
}

func (m *mockStorage) DeactivateBudget(_ context.Context, id string) error {
	b, ok := m.budgets[id]
	if !ok {
		return fmt.Errorf("budget %s not found", id)
	}
	b.IsActive = false
	return nil
}

func (m *mockStorage) GetLastSession(_ context.Context) (*model.SessionRecord, error) {
	if len(m.sessions) == 0 {
		return nil, nil
	}
	last := m.sessions[len(m.sessions)-1]
	return &last, nil
}

func (m *mockStorage) SaveSession(_ context.Context, record *model.SessionRecord) error {
	record.ID = int64(len(m.sessions) + 1)
	m.sessions = append(m.sessions, *record)
	return nil
}

func (m *mockStorage) Migrate(_ context.Context) error { return nil }

func (m *mockStorage) Close() error { return nil }
