package model

// AlertTier classifies a budget's spend level.
type AlertTier string

const (
	TierOK       AlertTier = "ok"
	TierWarning  AlertTier = "warning"
	TierExceeded AlertTier = "exceeded"
)

// BudgetStatus is a derived snapshot of a budget against live spend.
// It is recomputed on every evaluation and never persisted, so it can
// never go stale against the ledger.
type BudgetStatus struct {
	BudgetID          string
	Scope             BudgetScope
	Category          string
	Tier              AlertTier
	Amount            float64 // base target
	RolloverIn        float64 // carried rollover included in the allowance
	Allowance         float64 // Amount + RolloverIn (rollover permitting)
	Spend             float64
	Remaining         float64 // may be negative
	Percentage        float64 // spend as a percent of allowance
	DaysRemaining     int
	ElapsedDays       int
	DailyAverage      float64
	ProjectedTotal    float64
	ProjectedRollover float64
	Month             int
	Year              int
}

// Exceeded reports whether spend has passed the full allowance.
func (s *BudgetStatus) Exceeded() bool {
	return s.Tier == TierExceeded
}
