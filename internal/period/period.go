// Package period provides calendar arithmetic for monthly budget periods.
// All functions are pure; callers inject "today" so date-dependent behavior
// stays deterministic under test.
package period

import "time"

// Bounds returns the first and last calendar day of a month. The end date
// is inclusive; time.Date normalization handles 28/29/30/31-day months and
// leap years.
func Bounds(month, year int) (start, end time.Time) {
	start = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end = start.AddDate(0, 1, -1)
	return start, end
}

// Length returns the number of days in the month.
func Length(month, year int) int {
	_, end := Bounds(month, year)
	return end.Day()
}

// Contains reports whether a date falls within the month.
func Contains(month, year int, date time.Time) bool {
	return date.Year() == year && int(date.Month()) == month
}

// IsCurrent reports whether the month is the one today falls in.
func IsCurrent(month, year int, today time.Time) bool {
	return Contains(month, year, today)
}

// DaysRemaining returns the days left in the period including today,
// or 0 once the period has closed.
func DaysRemaining(month, year int, today time.Time) int {
	_, end := Bounds(month, year)
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	if day.After(end) {
		return 0
	}
	remaining := int(end.Sub(day).Hours()/24) + 1
	if length := Length(month, year); remaining > length {
		return length
	}
	return remaining
}

// ElapsedDays returns the days elapsed so far when the period is current,
// or the period's full length otherwise. The result is always at least 1,
// keeping daily-average divisions safe.
func ElapsedDays(month, year int, today time.Time) int {
	if IsCurrent(month, year, today) {
		if d := today.Day(); d > 0 {
			return d
		}
		return 1
	}
	return Length(month, year)
}

// Next returns the month following the given one.
func Next(month, year int) (int, int) {
	if month == 12 {
		return 1, year + 1
	}
	return month + 1, year
}

// Previous returns the month preceding the given one.
func Previous(month, year int) (int, int) {
	if month == 1 {
		return 12, year - 1
	}
	return month - 1, year
}
