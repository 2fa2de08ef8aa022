package engine

import (
	"time"

	"github.com/outlay-app/outlay/internal/service"
)

type systemClock struct{}

func (systemClock) Today() time.Time {
	return time.Now()
}

// SystemClock returns a clock backed by the wall clock.
func SystemClock() service.Clock {
	return systemClock{}
}

// FixedClock returns a clock frozen at the given date. Commands use it to
// honor a --today override; tests use it for determinism.
func FixedClock(today time.Time) service.Clock {
	return fixedClock{today: today}
}

type fixedClock struct {
	today time.Time
}

func (c fixedClock) Today() time.Time {
	return c.today
}
