package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outlay-app/outlay/internal/common"
	"github.com/outlay-app/outlay/internal/model"
)

func julyExpense(amount float64, day int, category string) model.Expense {
	date := time.Date(2024, time.July, day, 0, 0, 0, 0, time.UTC)
	return model.NewExpense(amount, date, category, "vendor", "cash")
}

func testDefinition(recType model.RecurringType, nextDue time.Time) model.Expense {
	def := model.NewExpense(4500, nextDue, "Housing", "landlord", "bank")
	def.IsRecurring = true
	def.RecurringType = recType
	def.RecurringAction = model.ActionAutoGenerate
	def.NextDueDate = nextDue
	return def
}

func TestCreateExpense_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	expense := julyExpense(1200, 5, "Utilities")
	expense.Description = "electricity"
	require.NoError(t, store.CreateExpense(ctx, &expense))

	got, err := store.GetExpense(ctx, expense.ID)
	require.NoError(t, err)
	assert.InDelta(t, 1200.0, got.Amount, 0.001)
	assert.Equal(t, "Utilities", got.Category)
	assert.Equal(t, "electricity", got.Description)
	assert.False(t, got.IsRecurring)
	assert.True(t, got.NextDueDate.IsZero())
}

func TestCreateExpense_Invalid(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	bad := julyExpense(0, 5, "Utilities")
	assert.Error(t, store.CreateExpense(ctx, &bad))
	assert.Error(t, store.CreateExpense(ctx, nil))
}

func TestListExpenses_FiltersPeriodDeletedAndDefinitions(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	inJuly := julyExpense(1000, 10, "Groceries")
	lastOfJuly := julyExpense(500, 31, "Groceries")
	deleted := julyExpense(700, 12, "Groceries")
	inAugust := model.NewExpense(900, time.Date(2024, time.August, 1, 0, 0, 0, 0, time.UTC), "Groceries", "shop", "cash")
	def := testDefinition(model.RecurMonthly, time.Date(2024, time.July, 15, 0, 0, 0, 0, time.UTC))

	for _, e := range []*model.Expense{&inJuly, &lastOfJuly, &deleted, &inAugust, &def} {
		require.NoError(t, store.CreateExpense(ctx, e))
	}
	require.NoError(t, store.SoftDeleteExpense(ctx, deleted.ID, time.Now()))

	expenses, err := store.ListExpenses(ctx, 7, 2024)
	require.NoError(t, err)
	require.Len(t, expenses, 2)

	// Newest first.
	assert.Equal(t, lastOfJuly.ID, expenses[0].ID)
	assert.Equal(t, inJuly.ID, expenses[1].ID)
}

func TestSumExpenses(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	groceries1 := julyExpense(1500, 3, "Groceries")
	groceries2 := julyExpense(2500, 20, "Groceries")
	transport := julyExpense(600, 8, "Transport")
	deleted := julyExpense(9999, 9, "Groceries")
	augustGroceries := model.NewExpense(5000, time.Date(2024, time.August, 2, 0, 0, 0, 0, time.UTC), "Groceries", "shop", "cash")

	for _, e := range []*model.Expense{&groceries1, &groceries2, &transport, &deleted, &augustGroceries} {
		require.NoError(t, store.CreateExpense(ctx, e))
	}
	require.NoError(t, store.SoftDeleteExpense(ctx, deleted.ID, time.Now()))

	sum, count, err := store.SumExpenses(ctx, model.ScopeCategory, "Groceries", 7, 2024)
	require.NoError(t, err)
	assert.InDelta(t, 4000.0, sum, 0.001)
	assert.Equal(t, 2, count)

	sum, count, err = store.SumExpenses(ctx, model.ScopeTotal, "", 7, 2024)
	require.NoError(t, err)
	assert.InDelta(t, 4600.0, sum, 0.001)
	assert.Equal(t, 3, count)

	sum, count, err = store.SumExpenses(ctx, model.ScopeCategory, "Dining", 7, 2024)
	require.NoError(t, err)
	assert.Zero(t, sum)
	assert.Zero(t, count)
}

func TestSoftDeleteExpense(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	expense := julyExpense(1000, 10, "Groceries")
	require.NoError(t, store.CreateExpense(ctx, &expense))

	now := time.Date(2024, time.July, 11, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.SoftDeleteExpense(ctx, expense.ID, now))

	got, err := store.GetExpense(ctx, expense.ID)
	require.NoError(t, err)
	assert.True(t, got.IsDeleted)
	assert.False(t, got.DeletedAt.IsZero())

	// Deleting twice reports not found; the row is already gone from view.
	err = store.SoftDeleteExpense(ctx, expense.ID, now)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestListRecurringDue(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	today := time.Date(2024, time.July, 15, 0, 0, 0, 0, time.UTC)

	dueToday := testDefinition(model.RecurMonthly, today)
	pastDue := testDefinition(model.RecurWeekly, today.AddDate(0, 0, -3))
	future := testDefinition(model.RecurMonthly, today.AddDate(0, 0, 5))

	for _, def := range []*model.Expense{&dueToday, &pastDue, &future} {
		require.NoError(t, store.CreateExpense(ctx, def))
	}

	due, err := store.ListRecurringDue(ctx, today)
	require.NoError(t, err)
	require.Len(t, due, 2)

	// Ordered by due date, earliest first.
	assert.Equal(t, pastDue.ID, due[0].ID)
	assert.Equal(t, dueToday.ID, due[1].ID)

	all, err := store.ListRecurring(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestUpdateRecurringSchedule(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	due := time.Date(2024, time.July, 15, 0, 0, 0, 0, time.UTC)
	def := testDefinition(model.RecurMonthly, due)
	require.NoError(t, store.CreateExpense(ctx, &def))

	next := time.Date(2024, time.August, 15, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.UpdateRecurringSchedule(ctx, def.ID, next, due))

	got, err := store.GetExpense(ctx, def.ID)
	require.NoError(t, err)
	assert.True(t, got.NextDueDate.Equal(next))
	assert.True(t, got.LastRecurringDate.Equal(due))

	err = store.UpdateRecurringSchedule(ctx, "nonexistent", next, due)
	assert.ErrorIs(t, err, common.ErrNotFound)
}
