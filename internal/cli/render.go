package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/outlay-app/outlay/internal/model"
	"github.com/outlay-app/outlay/internal/service"
)

// FormatAmount renders a money amount in Albanian Lek.
func FormatAmount(amount float64) string {
	return fmt.Sprintf("%.0f L", amount)
}

// tierStyle picks the style matching a budget tier.
func tierStyle(tier model.AlertTier) func(...string) string {
	switch tier {
	case model.TierExceeded:
		return ErrorStyle.Render
	case model.TierWarning:
		return WarningStyle.Render
	default:
		return SuccessStyle.Render
	}
}

// RenderStatusTable renders budget statuses as an aligned table.
func RenderStatusTable(statuses []model.BudgetStatus) string {
	if len(statuses) == 0 {
		return SubtleStyle.Render("No active budgets for this period.")
	}

	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 4, 2, ' ', 0)

	fmt.Fprintln(w, "BUDGET\tALLOWANCE\tSPENT\tREMAINING\tUSED\tDAILY AVG\tPROJECTED")
	for i := range statuses {
		s := &statuses[i]
		label := s.Category
		if s.Scope == model.ScopeTotal {
			label = "(total)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.1f%%\t%s\t%s\n",
			label,
			FormatAmount(s.Allowance),
			FormatAmount(s.Spend),
			FormatAmount(s.Remaining),
			s.Percentage,
			FormatAmount(s.DailyAverage),
			FormatAmount(s.ProjectedTotal))
	}
	_ = w.Flush()

	lines := strings.Split(strings.TrimRight(sb.String(), "\n"), "\n")
	out := make([]string, 0, len(lines))
	out = append(out, TableHeaderStyle.Render(lines[0]))
	for i, line := range lines[1:] {
		out = append(out, tierStyle(statuses[i].Tier)(line))
	}
	return strings.Join(out, "\n")
}

// RenderStatusDetail renders one budget status with full projections.
func RenderStatusDetail(s *model.BudgetStatus) string {
	label := s.Category
	if s.Scope == model.ScopeTotal {
		label = "Total spending"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Target: %s", FormatAmount(s.Amount)))
	if s.RolloverIn > 0 {
		sb.WriteString(fmt.Sprintf("  (+%s rolled over)", FormatAmount(s.RolloverIn)))
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Spent:  %s of %s (%.1f%%)\n",
		FormatAmount(s.Spend), FormatAmount(s.Allowance), s.Percentage))
	sb.WriteString(fmt.Sprintf("Left:   %s, %d days remaining\n",
		FormatAmount(s.Remaining), s.DaysRemaining))
	sb.WriteString(fmt.Sprintf("Pace:   %s/day, projected %s",
		FormatAmount(s.DailyAverage), FormatAmount(s.ProjectedTotal)))
	if s.ProjectedRollover > 0 {
		sb.WriteString(fmt.Sprintf(", ~%s rollover", FormatAmount(s.ProjectedRollover)))
	}

	title := fmt.Sprintf("%s %d %s", time.Month(s.Month), s.Year, label)
	return RenderBox(tierStyle(s.Tier)(title), sb.String())
}

// RenderAlerts renders an alert list, most severe first.
func RenderAlerts(alerts []model.Alert) string {
	if len(alerts) == 0 {
		return FormatSuccess("All budgets on track.")
	}

	lines := make([]string, 0, len(alerts))
	for i := range alerts {
		a := &alerts[i]
		if a.Severity == model.SeverityExceeded {
			lines = append(lines, FormatError(a.Message))
		} else {
			lines = append(lines, FormatWarning(a.Message))
		}
	}
	return strings.Join(lines, "\n")
}

// RenderExpenseTable renders ledger expenses as an aligned table.
func RenderExpenseTable(expenses []model.Expense) string {
	if len(expenses) == 0 {
		return SubtleStyle.Render("No expenses recorded for this period.")
	}

	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 4, 2, ' ', 0)

	fmt.Fprintln(w, "DATE\tCATEGORY\tVENDOR\tAMOUNT\tID")
	var total float64
	for i := range expenses {
		e := &expenses[i]
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			e.Date.Format("2006-01-02"), e.Category, e.Vendor,
			FormatAmount(e.Amount), e.ID)
		total += e.Amount
	}
	_ = w.Flush()

	lines := strings.Split(strings.TrimRight(sb.String(), "\n"), "\n")
	lines[0] = TableHeaderStyle.Render(lines[0])
	lines = append(lines, SubtleStyle.Render(fmt.Sprintf("%d expenses, %s total", len(expenses), FormatAmount(total))))
	return strings.Join(lines, "\n")
}

// RenderRecurringTable renders recurring definitions with their schedules.
func RenderRecurringTable(defs []model.Expense, today time.Time) string {
	if len(defs) == 0 {
		return SubtleStyle.Render("No recurring expenses defined.")
	}

	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 4, 2, ' ', 0)

	fmt.Fprintln(w, "CATEGORY\tVENDOR\tAMOUNT\tEVERY\tACTION\tNEXT DUE\tID")
	for i := range defs {
		d := &defs[i]
		due := d.NextDueDate.Format("2006-01-02")
		if d.IsDue(today) {
			due += " (due)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			d.Category, d.Vendor, FormatAmount(d.Amount),
			d.RecurringType, d.RecurringAction, due, d.ID)
	}
	_ = w.Flush()

	lines := strings.Split(strings.TrimRight(sb.String(), "\n"), "\n")
	lines[0] = TableHeaderStyle.Render(lines[0])
	return strings.Join(lines, "\n")
}

// RenderSessionReport summarizes an evaluation pass for startup display.
func RenderSessionReport(report *service.SessionReport) string {
	var parts []string

	if n := len(report.Generated); n > 0 {
		lines := make([]string, 0, n+1)
		lines = append(lines, FormatInfo(fmt.Sprintf("Generated %d recurring expense(s):", n)))
		for _, g := range report.Generated {
			lines = append(lines, fmt.Sprintf("  %s  %s  %s",
				g.Date.Format("2006-01-02"), g.Category, FormatAmount(g.Amount)))
		}
		parts = append(parts, strings.Join(lines, "\n"))
	}

	if n := len(report.Reminders); n > 0 {
		lines := make([]string, 0, n+1)
		lines = append(lines, FormatWarning(fmt.Sprintf("%s %d reminder(s) due:", BellIcon, n)))
		for i := range report.Reminders {
			r := &report.Reminders[i]
			lines = append(lines, fmt.Sprintf("  %s  %s  %s",
				r.NextDueDate.Format("2006-01-02"), r.Category, FormatAmount(r.Amount)))
		}
		parts = append(parts, strings.Join(lines, "\n"))
	}

	for _, f := range report.Failed {
		parts = append(parts, FormatError(fmt.Sprintf("could not generate expense for %s: %v", shortID(f.DefinitionID), f.Err)))
	}

	if report.ClosedMonths > 0 {
		applied := 0
		for _, r := range report.Rollovers {
			if r.Applied {
				applied++
			}
		}
		parts = append(parts, FormatInfo(fmt.Sprintf("Closed %d month(s), applied %d rollover(s).",
			report.ClosedMonths, applied)))
	}

	if len(report.Alerts) > 0 {
		parts = append(parts, RenderAlerts(report.Alerts))
	}

	if len(parts) == 0 {
		return SubtleStyle.Render("Nothing due, all budgets on track.")
	}
	return strings.Join(parts, "\n\n")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
