package clock

import (
	"time"

	"github.com/mcoot/skylandly/internal/model"
)

// Clock provides time operations that can be mocked for testing
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the system clock, always in UTC
type RealClock struct{}

// New creates a new RealClock
func New() *RealClock {
	return &RealClock{}
}

// Now returns the current UTC time
func (c *RealClock) Now() time.Time {
	return time.Now().UTC()
}

// Today returns the UTC calendar day the clock is currently in.
// Days roll over at UTC midnight regardless of the host zone.
func Today(c Clock) model.Date {
	return model.DateOf(c.Now())
}
