package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outlay-app/outlay/internal/model"
)

func TestRunSession_FullPass(t *testing.T) {
	ctx := context.Background()
	store := newMockStorage()
	today := time.Date(2024, time.July, 20, 0, 0, 0, 0, time.UTC)

	// A due auto-generate definition, a due reminder, and a budget that
	// the generated expense pushes into warning.
	storedDefinition(store, "rent", model.ActionAutoGenerate, time.Date(2024, time.July, 15, 0, 0, 0, 0, time.UTC))
	storedDefinition(store, "gym", model.ActionReminder, time.Date(2024, time.July, 18, 0, 0, 0, 0, time.UTC))

	utilities := model.NewBudget(model.ScopeCategory, "Utilities", 5000, 7, 2024)
	store.addBudget(utilities)

	eng := New(store, FixedClock(today))

	report, err := eng.RunSession(ctx)
	require.NoError(t, err)

	require.Len(t, report.Generated, 1)
	assert.Equal(t, "rent", report.Generated[0].DefinitionID)
	require.Len(t, report.Reminders, 1)
	assert.Equal(t, "gym", report.Reminders[0].ID)
	assert.Empty(t, report.Failed)
	assert.Zero(t, report.ClosedMonths, "first session has no boundary to detect")

	// 4500 of 5000 = 90%, above the default 80% threshold.
	require.Len(t, report.Alerts, 1)
	assert.Equal(t, model.SeverityWarning, report.Alerts[0].Severity)

	// Session recorded for boundary detection next time.
	last, err := store.GetLastSession(ctx)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, today, last.RanAt)
	assert.Equal(t, 1, last.Generated)
}

func TestRunSession_ClosesCrossedMonths(t *testing.T) {
	ctx := context.Background()
	store := newMockStorage()

	june := model.NewBudget(model.ScopeCategory, "Groceries", 10000, 6, 2024)
	june.RolloverEnabled = true
	store.addBudget(june)

	july := model.NewBudget(model.ScopeCategory, "Groceries", 10000, 7, 2024)
	july.RolloverEnabled = true
	store.addBudget(july)

	august := model.NewBudget(model.ScopeCategory, "Groceries", 10000, 8, 2024)
	august.RolloverEnabled = true
	store.addBudget(august)

	// 6000 spent in June; nothing in July.
	store.addExpense(model.NewExpense(6000, time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC), "Groceries", "Konsum", "card"))

	// Last session ran in June; today is August. June and July both close.
	require.NoError(t, store.SaveSession(ctx, &model.SessionRecord{
		RanAt: time.Date(2024, time.June, 28, 0, 0, 0, 0, time.UTC),
	}))

	eng := New(store, FixedClock(time.Date(2024, time.August, 2, 0, 0, 0, 0, time.UTC)))

	report, err := eng.RunSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, report.ClosedMonths)

	// June: remaining 4000, cap 50% of 10000 -> 4000 carried into July.
	updatedJuly, err := store.GetBudget(ctx, july.ID)
	require.NoError(t, err)
	assert.InDelta(t, 4000.0, updatedJuly.RolloverAmount, 0.001)

	// July: allowance 14000, zero spend, carry capped at 5000.
	updatedAugust, err := store.GetBudget(ctx, august.ID)
	require.NoError(t, err)
	assert.InDelta(t, 5000.0, updatedAugust.RolloverAmount, 0.001)
}

func TestRunSession_RerunSameDayIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := newMockStorage()
	today := time.Date(2024, time.July, 20, 0, 0, 0, 0, time.UTC)

	storedDefinition(store, "rent", model.ActionAutoGenerate, time.Date(2024, time.July, 15, 0, 0, 0, 0, time.UTC))

	eng := New(store, FixedClock(today))

	first, err := eng.RunSession(ctx)
	require.NoError(t, err)
	require.Len(t, first.Generated, 1)

	second, err := eng.RunSession(ctx)
	require.NoError(t, err)
	assert.Empty(t, second.Generated, "a re-run with the same today must not double-generate")
	assert.Zero(t, second.ClosedMonths)
}
