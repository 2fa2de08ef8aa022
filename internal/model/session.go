package model

import "time"

// SessionRecord logs one evaluation pass. The most recent record is how
// the engine detects that a month boundary has been crossed since the
// application last ran.
type SessionRecord struct {
	RanAt      time.Time
	Generated  int
	Reminders  int
	AlertCount int
	ID         int64
}
