package game

import "time"

// Clock abstracts wall-clock reads for deterministic tests.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

// Scheduler defers a callback by a duration. Callbacks re-read the current
// state when they fire, never the state captured at scheduling time. There is
// no cancellation: a scheduled task always runs.
type Scheduler interface {
	After(d time.Duration, fn func())
}

type timerScheduler struct{}

func (timerScheduler) After(d time.Duration, fn func()) {
	time.AfterFunc(d, fn)
}
