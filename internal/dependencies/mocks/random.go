package mocks

import (
	"github.com/mcoot/skylandly/internal/dependencies/random"
)

// MockRandom is a mock implementation of Random for testing
type MockRandom struct {
	// IntnResults is a queue of results to return from Intn
	IntnResults []int
	intnIndex   int
}

// Ensure MockRandom implements Random
var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// Intn returns the next queued result, or 0 if none remaining
func (r *MockRandom) Intn(n int) int {
	if r.intnIndex >= len(r.IntnResults) {
		return 0
	}
	result := r.IntnResults[r.intnIndex]
	r.intnIndex++
	return result
}

// QueueIntn adds values to the Intn result queue
func (r *MockRandom) QueueIntn(values ...int) {
	r.IntnResults = append(r.IntnResults, values...)
}

// Reset clears all queued results
func (r *MockRandom) Reset() {
	r.IntnResults = nil
	r.intnIndex = 0
}

// MockSeeder hands out the same MockRandom for every seed and records the seeds it saw
type MockSeeder struct {
	Random *MockRandom
	Seeds  []string
}

// Ensure MockSeeder implements Seeder
var _ random.Seeder = (*MockSeeder)(nil)

// NewMockSeeder creates a MockSeeder backed by a fresh MockRandom
func NewMockSeeder() *MockSeeder {
	return &MockSeeder{Random: NewMockRandom()}
}

// Seed records the seed and returns the shared MockRandom
func (s *MockSeeder) Seed(seed string) random.Random {
	s.Seeds = append(s.Seeds, seed)
	return s.Random
}
