// Package clock provides an injectable time source so that domain services
// never call time.Now directly. Posting dates become controllable in tests.
package clock

import "time"

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// System returns the wall-clock implementation.
func System() Clock {
	return systemClock{}
}

// Fixed is a Clock pinned to a single instant. Intended for tests.
type Fixed struct {
	T time.Time
}

func (f Fixed) Now() time.Time { return f.T }
