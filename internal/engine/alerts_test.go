package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outlay-app/outlay/internal/model"
)

func spendOn(store *mockStorage, amount float64, day time.Time, category string) {
	e := model.NewExpense(amount, day, category, "vendor", "cash")
	store.addExpense(e)
}

func TestAlerts_SortedExceededFirstThenPercentage(t *testing.T) {
	ctx := context.Background()
	store := newMockStorage()
	today := time.Date(2024, time.July, 20, 0, 0, 0, 0, time.UTC)
	day := time.Date(2024, time.July, 5, 0, 0, 0, 0, time.UTC)

	groceries := model.NewBudget(model.ScopeCategory, "Groceries", 1000, 7, 2024)
	transport := model.NewBudget(model.ScopeCategory, "Transport", 1000, 7, 2024)
	dining := model.NewBudget(model.ScopeCategory, "Dining", 1000, 7, 2024)
	utilities := model.NewBudget(model.ScopeCategory, "Utilities", 1000, 7, 2024)
	for _, b := range []model.Budget{groceries, transport, dining, utilities} {
		store.addBudget(b)
	}

	spendOn(store, 1100, day, "Groceries") // 110%, exceeded
	spendOn(store, 850, day, "Transport")  // 85%, warning
	spendOn(store, 1300, day, "Dining")    // 130%, exceeded
	spendOn(store, 400, day, "Utilities")  // 40%, ok

	eng := New(store, FixedClock(today))

	alerts, err := eng.Alerts(ctx, 7, 2024)
	require.NoError(t, err)
	require.Len(t, alerts, 3)

	assert.Equal(t, model.SeverityExceeded, alerts[0].Severity)
	assert.Equal(t, "Dining", alerts[0].Category)
	assert.Equal(t, model.SeverityExceeded, alerts[1].Severity)
	assert.Equal(t, "Groceries", alerts[1].Category)
	assert.Equal(t, model.SeverityWarning, alerts[2].Severity)
	assert.Equal(t, "Transport", alerts[2].Category)
}

func TestEvaluateAll_CoversEveryActiveBudget(t *testing.T) {
	ctx := context.Background()
	store := newMockStorage()
	today := time.Date(2024, time.July, 20, 0, 0, 0, 0, time.UTC)

	store.addBudget(model.NewBudget(model.ScopeCategory, "Groceries", 1000, 7, 2024))
	store.addBudget(model.NewBudget(model.ScopeTotal, "", 5000, 7, 2024))

	inactive := model.NewBudget(model.ScopeCategory, "Dining", 1000, 7, 2024)
	inactive.IsActive = false
	store.addBudget(inactive)

	otherMonth := model.NewBudget(model.ScopeCategory, "Groceries", 1000, 6, 2024)
	store.addBudget(otherMonth)

	eng := New(store, FixedClock(today))

	statuses, err := eng.EvaluateAll(ctx, 7, 2024)
	require.NoError(t, err)
	assert.Len(t, statuses, 2)
}

func TestPreSaveCheck(t *testing.T) {
	ctx := context.Background()
	today := time.Date(2024, time.July, 20, 0, 0, 0, 0, time.UTC)
	day := time.Date(2024, time.July, 5, 0, 0, 0, 0, time.UTC)

	newStore := func(spent float64) *mockStorage {
		store := newMockStorage()
		store.addBudget(model.NewBudget(model.ScopeCategory, "Groceries", 1000, 7, 2024))
		if spent > 0 {
			spendOn(store, spent, day, "Groceries")
		}
		return store
	}

	t.Run("crossing into warning", func(t *testing.T) {
		store := newStore(700)
		eng := New(store, FixedClock(today))

		candidate := model.NewExpense(150, today, "Groceries", "Konsum", "cash")
		alert, err := eng.PreSaveCheck(ctx, candidate)
		require.NoError(t, err)
		require.NotNil(t, alert)
		assert.Equal(t, model.SeverityWarning, alert.Severity)
		assert.InDelta(t, 85.0, alert.Percentage, 0.001)
	})

	t.Run("crossing into exceeded", func(t *testing.T) {
		store := newStore(900)
		eng := New(store, FixedClock(today))

		candidate := model.NewExpense(200, today, "Groceries", "Konsum", "cash")
		alert, err := eng.PreSaveCheck(ctx, candidate)
		require.NoError(t, err)
		require.NotNil(t, alert)
		assert.Equal(t, model.SeverityExceeded, alert.Severity)
	})

	t.Run("no tier change reports nothing", func(t *testing.T) {
		store := newStore(100)
		eng := New(store, FixedClock(today))

		candidate := model.NewExpense(50, today, "Groceries", "Konsum", "cash")
		alert, err := eng.PreSaveCheck(ctx, candidate)
		require.NoError(t, err)
		assert.Nil(t, alert)
	})

	t.Run("already in warning stays quiet", func(t *testing.T) {
		store := newStore(850)
		eng := New(store, FixedClock(today))

		candidate := model.NewExpense(50, today, "Groceries", "Konsum", "cash")
		alert, err := eng.PreSaveCheck(ctx, candidate)
		require.NoError(t, err)
		assert.Nil(t, alert)
	})

	t.Run("falls back to total budget", func(t *testing.T) {
		store := newMockStorage()
		store.addBudget(model.NewBudget(model.ScopeTotal, "", 1000, 7, 2024))
		spendOn(store, 780, day, "Anything")
		eng := New(store, FixedClock(today))

		candidate := model.NewExpense(100, today, "Dining", "Restaurant", "card")
		alert, err := eng.PreSaveCheck(ctx, candidate)
		require.NoError(t, err)
		require.NotNil(t, alert)
		assert.Equal(t, model.ScopeTotal, alert.Scope)
		assert.Equal(t, "total", alert.Label())
	})

	t.Run("no matching budget reports nothing", func(t *testing.T) {
		store := newMockStorage()
		eng := New(store, FixedClock(today))

		candidate := model.NewExpense(100, today, "Dining", "Restaurant", "card")
		alert, err := eng.PreSaveCheck(ctx, candidate)
		require.NoError(t, err)
		assert.Nil(t, alert)
	})

	t.Run("mutates nothing", func(t *testing.T) {
		store := newStore(700)
		eng := New(store, FixedClock(today))

		candidate := model.NewExpense(150, today, "Groceries", "Konsum", "cash")
		_, err := eng.PreSaveCheck(ctx, candidate)
		require.NoError(t, err)

		total, count, err := store.SumExpenses(ctx, model.ScopeCategory, "Groceries", 7, 2024)
		require.NoError(t, err)
		assert.InDelta(t, 700.0, total, 0.001)
		assert.Equal(t, 1, count)
	})
}
