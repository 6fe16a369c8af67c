package mocks

import (
	"sync"
	"time"

	"github.com/mcoot/skylandly/internal/dependencies/clock"
)

// MockClock is a settable Clock, safe to read while a test moves it
type MockClock struct {
	mu      sync.Mutex
	current time.Time
}

var _ clock.Clock = (*MockClock)(nil)

// NewMockClock creates a MockClock set to the given time
func NewMockClock(t time.Time) *MockClock {
	return &MockClock{current: t}
}

// Now returns the mocked current time
func (c *MockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Advance moves the clock forward by the given duration
func (c *MockClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(d)
}

// Set sets the clock to the given time
func (c *MockClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = t
}

// SetDay moves the clock to noon UTC on the given YYYY-MM-DD day
func (c *MockClock) SetDay(day string) error {
	t, err := time.Parse("2006-01-02", day)
	if err != nil {
		return err
	}
	c.Set(t.Add(12 * time.Hour))
	return nil
}
