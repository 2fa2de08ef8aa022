package model

import "fmt"

// AlertSeverity orders alerts for display; exceeded sorts before warning.
type AlertSeverity string

const (
	SeverityWarning  AlertSeverity = "warning"
	SeverityExceeded AlertSeverity = "exceeded"
)

// Alert is a budget notification surfaced to the user.
type Alert struct {
	BudgetID   string
	Scope      BudgetScope
	Category   string
	Severity   AlertSeverity
	Message    string
	Percentage float64
	Remaining  float64
}

// Label names the budget's scope for messages: the category name, or
// "total" for whole-ledger budgets.
func (a *Alert) Label() string {
	if a.Scope == ScopeTotal {
		return "total"
	}
	return a.Category
}

// FormatMessage builds the standard alert message for a severity.
func FormatMessage(severity AlertSeverity, label string, percentage, remaining float64) string {
	if severity == SeverityExceeded {
		return fmt.Sprintf("%s: over budget by %.0f L", label, -remaining)
	}
	return fmt.Sprintf("%s: %.1f%% of budget used", label, percentage)
}
