// Package model defines the core domain types for budgets and expenses.
package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// BudgetScope determines what a budget applies to.
type BudgetScope string

const (
	// ScopeTotal covers all spending in the period regardless of category.
	ScopeTotal BudgetScope = "total"
	// ScopeCategory covers spending in a single category.
	ScopeCategory BudgetScope = "category"
)

// Budget is a monthly planning record for one scope.
// RolloverAmount is written by the rollover calculator at period close;
// users never set it directly.
type Budget struct {
	CreatedAt        time.Time
	UpdatedAt        time.Time
	ID               string
	Scope            BudgetScope
	Category         string // required iff Scope == ScopeCategory
	Notes            string
	Amount           float64
	Month            int // 1-12
	Year             int
	WarningThreshold float64 // percent of allowance, 0-100
	RolloverCap      float64 // percent of Amount, 0-100
	RolloverAmount   float64 // carried in from the previous period
	RolloverEnabled  bool
	IsActive         bool
}

// NewBudget creates a budget with a fresh ID and timestamps.
func NewBudget(scope BudgetScope, category string, amount float64, month, year int) Budget {
	now := time.Now()
	return Budget{
		ID:               uuid.NewString(),
		Scope:            scope,
		Category:         category,
		Amount:           amount,
		Month:            month,
		Year:             year,
		WarningThreshold: 80.0,
		RolloverCap:      50.0,
		IsActive:         true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// Allowance returns the effective allowance: the base amount plus any
// carried rollover. Rollover is ignored entirely when disabled.
func (b *Budget) Allowance() float64 {
	if !b.RolloverEnabled {
		return b.Amount
	}
	return b.Amount + b.RolloverAmount
}

// Matches reports whether an expense category falls under this budget.
func (b *Budget) Matches(category string) bool {
	if b.Scope == ScopeTotal {
		return true
	}
	return b.Category == category
}

// Validate checks budget invariants.
func (b *Budget) Validate() error {
	if b.ID == "" {
		return fmt.Errorf("budget ID is required")
	}
	switch b.Scope {
	case ScopeTotal:
		if b.Category != "" {
			return fmt.Errorf("total-scope budgets must not name a category")
		}
	case ScopeCategory:
		if b.Category == "" {
			return fmt.Errorf("category-scope budgets require a category")
		}
	default:
		return fmt.Errorf("invalid budget scope: %s", b.Scope)
	}
	if b.Amount < 0 {
		return fmt.Errorf("budget amount cannot be negative, got %.2f", b.Amount)
	}
	if b.Month < 1 || b.Month > 12 {
		return fmt.Errorf("month must be between 1 and 12, got %d", b.Month)
	}
	if b.Year < 1 {
		return fmt.Errorf("year must be positive, got %d", b.Year)
	}
	if b.WarningThreshold < 0 || b.WarningThreshold > 100 {
		return fmt.Errorf("warning threshold must be between 0 and 100, got %.1f", b.WarningThreshold)
	}
	if b.RolloverCap < 0 || b.RolloverCap > 100 {
		return fmt.Errorf("rollover cap must be between 0 and 100, got %.1f", b.RolloverCap)
	}
	if b.RolloverAmount < 0 {
		return fmt.Errorf("rollover amount cannot be negative, got %.2f", b.RolloverAmount)
	}
	return nil
}

// PeriodLabel returns a human-readable period like "January 2025".
func (b *Budget) PeriodLabel() string {
	return fmt.Sprintf("%s %d", time.Month(b.Month), b.Year)
}
