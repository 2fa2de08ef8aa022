package engine

import (
	"time"

	"github.com/outlay-app/outlay/internal/model"
)

// NextAfter advances a recurring definition's schedule one period past
// the given date. Day-based frequencies add a fixed number of days.
// Month-based frequencies clamp to the target month's last valid day and
// re-anchor to the definition's original day-of-month when the target
// month is long enough: a definition started Jan 31 lands on Feb 28/29
// and then back on Mar 31.
func NextAfter(def model.Expense, from time.Time) time.Time {
	switch def.RecurringType {
	case model.RecurDaily:
		return from.AddDate(0, 0, 1)
	case model.RecurWeekly:
		return from.AddDate(0, 0, 7)
	case model.RecurBiweekly:
		return from.AddDate(0, 0, 14)
	case model.RecurMonthly:
		return addMonthsAnchored(from, 1, anchorDay(def, from))
	case model.RecurQuarterly:
		return addMonthsAnchored(from, 3, anchorDay(def, from))
	case model.RecurAnnually:
		return addMonthsAnchored(from, 12, anchorDay(def, from))
	default:
		return from
	}
}

// AdvancePastToday walks a definition's due date forward one period at a
// time until it exceeds today, returning the final due date and every
// missed occurrence in order. A definition that is not yet due comes back
// unchanged with no occurrences.
func AdvancePastToday(def model.Expense, today time.Time) (time.Time, []time.Time) {
	next := def.NextDueDate
	cutoff := truncateDay(today)

	var missed []time.Time
	for !next.IsZero() && !truncateDay(next).After(cutoff) {
		missed = append(missed, next)
		advanced := NextAfter(def, next)
		if !advanced.After(next) {
			// unknown frequency; bail rather than spin
			break
		}
		next = advanced
	}
	return next, missed
}

// anchorDay is the day-of-month the schedule re-anchors to. The
// definition's start date carries the user's intent; fall back to the
// current due date for definitions created without one.
func anchorDay(def model.Expense, from time.Time) int {
	if !def.Date.IsZero() {
		return def.Date.Day()
	}
	return from.Day()
}

func addMonthsAnchored(from time.Time, months, anchor int) time.Time {
	// First of the target month, then clamp the anchor day to its length.
	first := time.Date(from.Year(), from.Month()+time.Month(months), 1, 0, 0, 0, 0, from.Location())
	lastDay := first.AddDate(0, 1, -1).Day()
	day := anchor
	if day > lastDay {
		day = lastDay
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, from.Location())
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
