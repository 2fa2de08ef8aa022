package engine

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/outlay-app/outlay/internal/model"
	"github.com/outlay-app/outlay/internal/period"
	"github.com/outlay-app/outlay/internal/service"
)

// Carry computes the amount a budget carries into the next period.
// The cap is a percentage of the base target, never of the effective
// allowance, so stacked rollovers cannot compound.
func Carry(b model.Budget, status model.BudgetStatus) float64 {
	if !b.RolloverEnabled {
		return 0
	}
	if status.Remaining <= 0 {
		return 0
	}
	return math.Min(status.Remaining, b.Amount*b.RolloverCap/100)
}

// ApplyRollover evaluates a budget and writes its carry onto the
// next-period budget with the same scope. The target's rollover amount is
// overwritten, not added to, so running this twice for the same period is
// a no-op. When no next-period budget exists the carry is reported as
// pending; the engine never auto-creates budgets.
func (e *Engine) ApplyRollover(ctx context.Context, b model.Budget) (service.RolloverResult, error) {
	result := service.RolloverResult{BudgetID: b.ID}

	status, err := e.EvaluateBudget(ctx, b)
	if err != nil {
		return result, err
	}
	result.Carry = Carry(b, status)

	nextMonth, nextYear := period.Next(b.Month, b.Year)
	target, err := e.storage.GetBudgetForScope(ctx, b.Scope, b.Category, nextMonth, nextYear)
	if err != nil {
		return result, fmt.Errorf("failed to look up next-period budget: %w", err)
	}
	if target == nil {
		slog.Info("Rollover pending, no next-period budget",
			"budget_id", b.ID,
			"carry", result.Carry,
			"next_month", nextMonth,
			"next_year", nextYear)
		return result, nil
	}

	if err := e.storage.UpdateBudgetRollover(ctx, target.ID, result.Carry); err != nil {
		return result, fmt.Errorf("failed to write rollover to budget %s: %w", target.ID, err)
	}

	result.Applied = true
	result.TargetID = target.ID

	slog.Info("Applied rollover",
		"from_budget", b.ID,
		"to_budget", target.ID,
		"carry", result.Carry)

	return result, nil
}

// CloseMonth applies rollover across every active budget of a period.
// Invoked at explicit period close or when a session detects the calendar
// crossed into a new month.
func (e *Engine) CloseMonth(ctx context.Context, month, year int) ([]service.RolloverResult, error) {
	budgets, err := e.storage.GetBudgets(ctx, month, year)
	if err != nil {
		return nil, fmt.Errorf("failed to load budgets for %d-%02d: %w", year, month, err)
	}

	results := make([]service.RolloverResult, 0, len(budgets))
	for _, b := range budgets {
		res, err := e.ApplyRollover(ctx, b)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}
