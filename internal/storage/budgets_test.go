package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outlay-app/outlay/internal/common"
	"github.com/outlay-app/outlay/internal/model"
)

func TestSaveBudget_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	budget := model.NewBudget(model.ScopeCategory, "Groceries", 50000, 7, 2024)
	budget.Notes = "summer groceries"
	budget.RolloverEnabled = true

	require.NoError(t, store.SaveBudget(ctx, &budget))

	got, err := store.GetBudget(ctx, budget.ID)
	require.NoError(t, err)
	assert.Equal(t, budget.ID, got.ID)
	assert.Equal(t, model.ScopeCategory, got.Scope)
	assert.Equal(t, "Groceries", got.Category)
	assert.InDelta(t, 50000.0, got.Amount, 0.001)
	assert.Equal(t, "summer groceries", got.Notes)
	assert.True(t, got.RolloverEnabled)
	assert.InDelta(t, 80.0, got.WarningThreshold, 0.001)
	assert.InDelta(t, 50.0, got.RolloverCap, 0.001)
	assert.True(t, got.IsActive)
}

func TestSaveBudget_UpdateByID(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	budget := model.NewBudget(model.ScopeCategory, "Transport", 8000, 7, 2024)
	require.NoError(t, store.SaveBudget(ctx, &budget))

	budget.Amount = 9500
	require.NoError(t, store.SaveBudget(ctx, &budget))

	got, err := store.GetBudget(ctx, budget.ID)
	require.NoError(t, err)
	assert.InDelta(t, 9500.0, got.Amount, 0.001)
}

func TestSaveBudget_DuplicateActiveScope(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	first := model.NewBudget(model.ScopeCategory, "Groceries", 50000, 7, 2024)
	require.NoError(t, store.SaveBudget(ctx, &first))

	second := model.NewBudget(model.ScopeCategory, "Groceries", 60000, 7, 2024)
	err := store.SaveBudget(ctx, &second)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrDuplicateBudget)

	// Deactivating the first frees the scope for the period.
	require.NoError(t, store.DeactivateBudget(ctx, first.ID))
	require.NoError(t, store.SaveBudget(ctx, &second))
}

func TestGetBudgets_ActiveOnlyAndOrdered(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	total := model.NewBudget(model.ScopeTotal, "", 100000, 7, 2024)
	groceries := model.NewBudget(model.ScopeCategory, "Groceries", 50000, 7, 2024)
	transport := model.NewBudget(model.ScopeCategory, "Transport", 8000, 7, 2024)
	retired := model.NewBudget(model.ScopeCategory, "Dining", 5000, 7, 2024)
	otherMonth := model.NewBudget(model.ScopeCategory, "Groceries", 50000, 8, 2024)

	for _, b := range []*model.Budget{&total, &groceries, &transport, &retired, &otherMonth} {
		require.NoError(t, store.SaveBudget(ctx, b))
	}
	require.NoError(t, store.DeactivateBudget(ctx, retired.ID))

	budgets, err := store.GetBudgets(ctx, 7, 2024)
	require.NoError(t, err)
	require.Len(t, budgets, 3)

	// Total scope sorts first, then categories alphabetically.
	assert.Equal(t, model.ScopeTotal, budgets[0].Scope)
	assert.Equal(t, "Groceries", budgets[1].Category)
	assert.Equal(t, "Transport", budgets[2].Category)
}

func TestGetBudgetForScope(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	budget := model.NewBudget(model.ScopeCategory, "Groceries", 50000, 7, 2024)
	require.NoError(t, store.SaveBudget(ctx, &budget))

	got, err := store.GetBudgetForScope(ctx, model.ScopeCategory, "Groceries", 7, 2024)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, budget.ID, got.ID)

	missing, err := store.GetBudgetForScope(ctx, model.ScopeCategory, "Groceries", 8, 2024)
	require.NoError(t, err)
	assert.Nil(t, missing, "no budget for the period is not an error")
}

func TestUpdateBudgetRollover_Overwrites(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	budget := model.NewBudget(model.ScopeCategory, "Groceries", 50000, 8, 2024)
	budget.RolloverEnabled = true
	require.NoError(t, store.SaveBudget(ctx, &budget))

	require.NoError(t, store.UpdateBudgetRollover(ctx, budget.ID, 4000))
	require.NoError(t, store.UpdateBudgetRollover(ctx, budget.ID, 4000))

	got, err := store.GetBudget(ctx, budget.ID)
	require.NoError(t, err)
	assert.InDelta(t, 4000.0, got.RolloverAmount, 0.001, "closing twice must not double the carry")

	err = store.UpdateBudgetRollover(ctx, "nonexistent", 100)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestGetBudget_NotFound(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	_, err := store.GetBudget(ctx, "nonexistent")
	assert.ErrorIs(t, err, common.ErrNotFound)
}
