package model

import (
	"testing"
)

func TestBudget_Validate(t *testing.T) {
	valid := func() Budget {
		return NewBudget(ScopeCategory, "Groceries", 50000, 7, 2024)
	}

	tests := []struct {
		name    string
		mutate  func(*Budget)
		wantErr bool
	}{
		{"valid category budget", func(_ *Budget) {}, false},
		{"valid total budget", func(b *Budget) { b.Scope = ScopeTotal; b.Category = "" }, false},
		{"missing id", func(b *Budget) { b.ID = "" }, true},
		{"total scope with category", func(b *Budget) { b.Scope = ScopeTotal }, true},
		{"category scope without category", func(b *Budget) { b.Category = "" }, true},
		{"unknown scope", func(b *Budget) { b.Scope = "weekly" }, true},
		{"negative amount", func(b *Budget) { b.Amount = -1 }, true},
		{"zero amount allowed", func(b *Budget) { b.Amount = 0 }, false},
		{"month too low", func(b *Budget) { b.Month = 0 }, true},
		{"month too high", func(b *Budget) { b.Month = 13 }, true},
		{"threshold above 100", func(b *Budget) { b.WarningThreshold = 101 }, true},
		{"cap above 100", func(b *Budget) { b.RolloverCap = 150 }, true},
		{"negative rollover amount", func(b *Budget) { b.RolloverAmount = -5 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := valid()
			tt.mutate(&b)
			err := b.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestBudget_Allowance(t *testing.T) {
	b := NewBudget(ScopeCategory, "Groceries", 10000, 7, 2024)
	b.RolloverAmount = 2500

	if got := b.Allowance(); got != 10000 {
		t.Errorf("rollover disabled: Allowance() = %v, want 10000", got)
	}

	b.RolloverEnabled = true
	if got := b.Allowance(); got != 12500 {
		t.Errorf("rollover enabled: Allowance() = %v, want 12500", got)
	}
}

func TestBudget_Matches(t *testing.T) {
	total := NewBudget(ScopeTotal, "", 10000, 7, 2024)
	if !total.Matches("Anything") {
		t.Error("total-scope budget should match every category")
	}

	cat := NewBudget(ScopeCategory, "Groceries", 10000, 7, 2024)
	if !cat.Matches("Groceries") || cat.Matches("Transport") {
		t.Error("category-scope budget should match only its own category")
	}
}
