package engine

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/outlay-app/outlay/internal/model"
	"github.com/outlay-app/outlay/internal/period"
)

// Evaluate computes a budget's status from a pre-filtered spend total.
// It is a pure function: the caller supplies the summed expenses for the
// budget's scope and period, and a fully-resolved warning threshold on the
// budget itself.
func Evaluate(b model.Budget, spend float64, today time.Time) model.BudgetStatus {
	allowance := b.Allowance()
	rolloverIn := 0.0
	if b.RolloverEnabled {
		rolloverIn = b.RolloverAmount
	}

	remaining := allowance - spend

	percentage := 0.0
	if allowance > 0 {
		percentage = spend / allowance * 100
	}

	tier := model.TierOK
	switch {
	case percentage > 100:
		tier = model.TierExceeded
	case percentage >= b.WarningThreshold:
		tier = model.TierWarning
	}

	elapsed := period.ElapsedDays(b.Month, b.Year, today)
	if elapsed < 1 {
		elapsed = 1
	}
	length := period.Length(b.Month, b.Year)

	dailyAverage := spend / float64(elapsed)
	projectedTotal := dailyAverage * float64(length)

	projectedRollover := 0.0
	if b.RolloverEnabled && projectedTotal < allowance {
		projectedRollover = math.Min(allowance-projectedTotal, b.Amount*b.RolloverCap/100)
	}

	return model.BudgetStatus{
		BudgetID:          b.ID,
		Scope:             b.Scope,
		Category:          b.Category,
		Month:             b.Month,
		Year:              b.Year,
		Amount:            b.Amount,
		RolloverIn:        rolloverIn,
		Allowance:         allowance,
		Spend:             spend,
		Remaining:         remaining,
		Percentage:        percentage,
		Tier:              tier,
		DaysRemaining:     period.DaysRemaining(b.Month, b.Year, today),
		ElapsedDays:       elapsed,
		DailyAverage:      dailyAverage,
		ProjectedTotal:    projectedTotal,
		ProjectedRollover: projectedRollover,
	}
}

// EvaluateBudget evaluates one budget against live ledger data, resolving
// the warning threshold from configuration when the budget leaves it unset.
func (e *Engine) EvaluateBudget(ctx context.Context, b model.Budget) (model.BudgetStatus, error) {
	spend, count, err := e.storage.SumExpenses(ctx, b.Scope, b.Category, b.Month, b.Year)
	if err != nil {
		return model.BudgetStatus{}, fmt.Errorf("failed to sum expenses for budget %s: %w", b.ID, err)
	}

	b.WarningThreshold = e.resolvedThreshold(b.WarningThreshold)
	status := Evaluate(b, spend, e.clock.Today())

	slog.Debug("evaluated budget",
		"budget_id", b.ID,
		"spend", spend,
		"expenses", count,
		"percentage", status.Percentage,
		"tier", status.Tier)

	return status, nil
}
