package services

import (
	"time"

	portssvc "github.com/SscSPs/masjid_treasury/internal/core/ports/services"
)

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// FixedClock always returns t.
func FixedClock(t time.Time) portssvc.Clock {
	return ClockFunc(func() time.Time { return t })
}

var (
	_ portssvc.Clock = SystemClock{}
	_ portssvc.Clock = ClockFunc(nil)
)
