package engine

import (
	"context"
	"fmt"
	"sort"

	"github.com/outlay-app/outlay/internal/model"
)

// EvaluateAll evaluates every active budget for a period against live
// ledger data.
func (e *Engine) EvaluateAll(ctx context.Context, month, year int) ([]model.BudgetStatus, error) {
	budgets, err := e.storage.GetBudgets(ctx, month, year)
	if err != nil {
		return nil, fmt.Errorf("failed to load budgets for %d-%02d: %w", year, month, err)
	}

	statuses := make([]model.BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		status, err := e.EvaluateBudget(ctx, b)
		if err != nil {
			return statuses, err
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

// Alerts returns the warning and exceeded budgets for a period, exceeded
// first, then by descending percentage.
func (e *Engine) Alerts(ctx context.Context, month, year int) ([]model.Alert, error) {
	statuses, err := e.EvaluateAll(ctx, month, year)
	if err != nil {
		return nil, err
	}

	var alerts []model.Alert
	for _, s := range statuses {
		if s.Tier == model.TierOK {
			continue
		}
		alerts = append(alerts, alertFromStatus(s))
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		if alerts[i].Severity != alerts[j].Severity {
			return alerts[i].Severity == model.SeverityExceeded
		}
		return alerts[i].Percentage > alerts[j].Percentage
	})

	return alerts, nil
}

// PreSaveCheck simulates committing a candidate expense and reports the
// alert its amount would newly trigger, or nil when nothing changes tier.
// It prefers the candidate's category budget and falls back to the
// total-scope budget; no state is mutated.
func (e *Engine) PreSaveCheck(ctx context.Context, candidate model.Expense) (*model.Alert, error) {
	month, year := int(candidate.Date.Month()), candidate.Date.Year()

	budget, err := e.storage.GetBudgetForScope(ctx, model.ScopeCategory, candidate.Category, month, year)
	if err != nil {
		return nil, fmt.Errorf("failed to look up category budget: %w", err)
	}
	if budget == nil {
		budget, err = e.storage.GetBudgetForScope(ctx, model.ScopeTotal, "", month, year)
		if err != nil {
			return nil, fmt.Errorf("failed to look up total budget: %w", err)
		}
	}
	if budget == nil {
		return nil, nil
	}

	spend, _, err := e.storage.SumExpenses(ctx, budget.Scope, budget.Category, month, year)
	if err != nil {
		return nil, fmt.Errorf("failed to sum expenses: %w", err)
	}

	b := *budget
	b.WarningThreshold = e.resolvedThreshold(b.WarningThreshold)
	today := e.clock.Today()

	before := Evaluate(b, spend, today)
	after := Evaluate(b, spend+candidate.Amount, today)

	switch {
	case after.Tier == model.TierExceeded && before.Tier != model.TierExceeded:
		alert := alertFromStatus(after)
		alert.Message = fmt.Sprintf("this expense puts %s over budget", alert.Label())
		return &alert, nil
	case after.Tier == model.TierWarning && before.Tier == model.TierOK:
		alert := alertFromStatus(after)
		alert.Message = fmt.Sprintf("this expense brings %s to %.1f%% of budget", alert.Label(), after.Percentage)
		return &alert, nil
	default:
		return nil, nil
	}
}

func alertFromStatus(s model.BudgetStatus) model.Alert {
	severity := model.SeverityWarning
	if s.Tier == model.TierExceeded {
		severity = model.SeverityExceeded
	}
	alert := model.Alert{
		BudgetID:   s.BudgetID,
		Scope:      s.Scope,
		Category:   s.Category,
		Severity:   severity,
		Percentage: s.Percentage,
		Remaining:  s.Remaining,
	}
	alert.Message = model.FormatMessage(severity, alert.Label(), s.Percentage, s.Remaining)
	return alert
}
