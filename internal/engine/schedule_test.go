package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outlay-app/outlay/internal/model"
)

func definition(freq model.RecurringType, start, nextDue time.Time) model.Expense {
	return model.Expense{
		ID:              "def-1",
		Amount:          1200,
		Date:            start,
		Category:        "Utilities",
		Vendor:          "OSHEE",
		PaymentMethod:   "bank",
		IsRecurring:     true,
		RecurringType:   freq,
		RecurringAction: model.ActionAutoGenerate,
		NextDueDate:     nextDue,
	}
}

func TestNextAfter_DayBasedFrequencies(t *testing.T) {
	start := time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		freq model.RecurringType
		want time.Time
	}{
		{model.RecurDaily, time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)},
		{model.RecurWeekly, time.Date(2024, time.March, 11, 0, 0, 0, 0, time.UTC)},
		{model.RecurBiweekly, time.Date(2024, time.March, 18, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(string(tt.freq), func(t *testing.T) {
			def := definition(tt.freq, start, start)
			assert.Equal(t, tt.want, NextAfter(def, start))
		})
	}
}

func TestNextAfter_MonthlyClampsToShortMonth(t *testing.T) {
	start := time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC)
	def := definition(model.RecurMonthly, start, start)

	// Jan 31 -> Feb 29 in a leap year, never Mar 2.
	next := NextAfter(def, start)
	assert.Equal(t, time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC), next)

	// Non-leap year clamps to Feb 28.
	start23 := time.Date(2023, time.January, 31, 0, 0, 0, 0, time.UTC)
	def23 := definition(model.RecurMonthly, start23, start23)
	assert.Equal(t, time.Date(2023, time.February, 28, 0, 0, 0, 0, time.UTC), NextAfter(def23, start23))
}

func TestNextAfter_MonthlyReanchorsAfterClamp(t *testing.T) {
	// The anchor day comes from the definition's start date, so a schedule
	// clamped down to Feb 28/29 is restored to the 31st in March.
	start := time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC)
	def := definition(model.RecurMonthly, start, start)

	feb := NextAfter(def, start)
	require.Equal(t, time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC), feb)

	mar := NextAfter(def, feb)
	assert.Equal(t, time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC), mar)

	apr := NextAfter(def, mar)
	assert.Equal(t, time.Date(2024, time.April, 30, 0, 0, 0, 0, time.UTC), apr)

	may := NextAfter(def, apr)
	assert.Equal(t, time.Date(2024, time.May, 31, 0, 0, 0, 0, time.UTC), may)
}

func TestNextAfter_QuarterlyAndAnnually(t *testing.T) {
	start := time.Date(2024, time.November, 30, 0, 0, 0, 0, time.UTC)

	q := definition(model.RecurQuarterly, start, start)
	assert.Equal(t, time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC), NextAfter(q, start))

	leap := time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC)
	a := definition(model.RecurAnnually, leap, leap)
	assert.Equal(t, time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC), NextAfter(a, leap))
}

func TestNextAfter_YearRollover(t *testing.T) {
	start := time.Date(2024, time.December, 15, 0, 0, 0, 0, time.UTC)
	def := definition(model.RecurMonthly, start, start)
	assert.Equal(t, time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC), NextAfter(def, start))
}

func TestAdvancePastToday(t *testing.T) {
	start := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)

	t.Run("two missed periods", func(t *testing.T) {
		def := definition(model.RecurMonthly, start, start)
		today := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)

		next, missed := AdvancePastToday(def, today)

		require.Len(t, missed, 2)
		assert.Equal(t, time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC), missed[0])
		assert.Equal(t, time.Date(2024, time.February, 15, 0, 0, 0, 0, time.UTC), missed[1])
		assert.Equal(t, time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC), next)
	})

	t.Run("due today counts as missed", func(t *testing.T) {
		def := definition(model.RecurMonthly, start, start)
		next, missed := AdvancePastToday(def, start)

		require.Len(t, missed, 1)
		assert.Equal(t, start, missed[0])
		assert.Equal(t, time.Date(2024, time.February, 15, 0, 0, 0, 0, time.UTC), next)
	})

	t.Run("not yet due is untouched", func(t *testing.T) {
		def := definition(model.RecurMonthly, start, start)
		today := time.Date(2024, time.January, 14, 0, 0, 0, 0, time.UTC)

		next, missed := AdvancePastToday(def, today)

		assert.Empty(t, missed)
		assert.Equal(t, start, next)
	})

	t.Run("daily gap produces one occurrence per day", func(t *testing.T) {
		def := definition(model.RecurDaily, start, start)
		today := time.Date(2024, time.January, 19, 0, 0, 0, 0, time.UTC)

		next, missed := AdvancePastToday(def, today)

		assert.Len(t, missed, 5)
		assert.Equal(t, time.Date(2024, time.January, 20, 0, 0, 0, 0, time.UTC), next)
	})

	t.Run("next due is always strictly after today", func(t *testing.T) {
		for _, freq := range []model.RecurringType{
			model.RecurDaily, model.RecurWeekly, model.RecurBiweekly,
			model.RecurMonthly, model.RecurQuarterly, model.RecurAnnually,
		} {
			def := definition(freq, start, start)
			today := time.Date(2025, time.June, 3, 0, 0, 0, 0, time.UTC)

			next, _ := AdvancePastToday(def, today)
			assert.True(t, next.After(today), "frequency %s left next due at %s", freq, next)
		}
	})
}
