package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RecurringType is how often a recurring definition comes due.
type RecurringType string

const (
	RecurDaily     RecurringType = "daily"
	RecurWeekly    RecurringType = "weekly"
	RecurBiweekly  RecurringType = "biweekly"
	RecurMonthly   RecurringType = "monthly"
	RecurQuarterly RecurringType = "quarterly"
	RecurAnnually  RecurringType = "annually"
)

// RecurringAction is what happens when a recurring definition comes due.
type RecurringAction string

const (
	// ActionAutoGenerate materializes a concrete expense automatically.
	ActionAutoGenerate RecurringAction = "auto_generate"
	// ActionReminder only surfaces the definition for the user to act on.
	ActionReminder RecurringAction = "reminder"
)

// Expense is either a concrete ledger entry or a recurring definition.
// A definition is never itself a ledger entry; materialized expenses carry
// RecurringParentID back to the definition that spawned them and are never
// marked recurring themselves.
type Expense struct {
	Date              time.Time
	NextDueDate       time.Time // definitions only
	LastRecurringDate time.Time // definitions only; last materialized date
	DeletedAt         time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
	ID                string
	Category          string
	Vendor            string
	PaymentMethod     string
	Description       string
	RecurringType     RecurringType   // required iff IsRecurring
	RecurringAction   RecurringAction // required iff IsRecurring
	RecurringParentID string          // set on materialized expenses only
	Amount            float64
	IsRecurring       bool
	IsDeleted         bool
}

// NewExpense creates a concrete ledger expense with a fresh ID.
func NewExpense(amount float64, date time.Time, category, vendor, paymentMethod string) Expense {
	now := time.Now()
	return Expense{
		ID:            uuid.NewString(),
		Amount:        amount,
		Date:          date,
		Category:      category,
		Vendor:        vendor,
		PaymentMethod: paymentMethod,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Validate checks expense invariants.
func (e *Expense) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("expense ID is required")
	}
	if e.Amount <= 0 {
		return fmt.Errorf("amount must be positive, got %.2f", e.Amount)
	}
	if e.Date.IsZero() {
		return fmt.Errorf("date is required")
	}
	if e.Category == "" {
		return fmt.Errorf("category is required")
	}
	if e.IsRecurring {
		switch e.RecurringType {
		case RecurDaily, RecurWeekly, RecurBiweekly, RecurMonthly, RecurQuarterly, RecurAnnually:
		default:
			return fmt.Errorf("invalid recurring type: %q", e.RecurringType)
		}
		switch e.RecurringAction {
		case ActionAutoGenerate, ActionReminder:
		default:
			return fmt.Errorf("invalid recurring action: %q", e.RecurringAction)
		}
		if e.RecurringParentID != "" {
			return fmt.Errorf("a recurring definition cannot have a parent definition")
		}
		if !e.LastRecurringDate.IsZero() && e.NextDueDate.Before(e.LastRecurringDate) {
			return fmt.Errorf("next due date %s precedes last recurring date %s",
				e.NextDueDate.Format("2006-01-02"), e.LastRecurringDate.Format("2006-01-02"))
		}
	} else {
		if e.RecurringType != "" || e.RecurringAction != "" {
			return fmt.Errorf("recurring fields set on a non-recurring expense")
		}
	}
	return nil
}

// IsDue reports whether a recurring definition has reached its due date.
// Comparison is at date precision; the time of day is ignored.
func (e *Expense) IsDue(today time.Time) bool {
	if !e.IsRecurring || e.NextDueDate.IsZero() {
		return false
	}
	due := dateOnly(e.NextDueDate)
	return !due.After(dateOnly(today))
}

// SoftDelete marks the expense deleted without removing it.
func (e *Expense) SoftDelete(now time.Time) {
	e.IsDeleted = true
	e.DeletedAt = now
	e.UpdatedAt = now
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
