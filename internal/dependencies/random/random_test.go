package random

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type StreamTestSuite struct {
	suite.Suite
}

func TestStreamTestSuite(t *testing.T) {
	suite.Run(t, new(StreamTestSuite))
}

func (s *StreamTestSuite) TestUint64_KnownValues() {
	s.Equal(uint64(0x24087519d220d5e0), NewStream("2024-01-01").Uint64())
	s.Equal(uint64(0x1113865aeb6e6fbd), NewStream("2024-02-29").Uint64())

	stream := NewStream("seed")
	s.Equal(uint64(800621227226810523), stream.Uint64())
	s.Equal(uint64(18071253939070040733), stream.Uint64())
	s.Equal(uint64(16233246226493688033), stream.Uint64())
}

func (s *StreamTestSuite) TestIntn_KnownValues() {
	cases := []struct {
		seed string
		n    int
		want int
	}{
		{"2024-01-01", 2, 0},
		{"2024-01-01", 5, 0},
		{"2024-01-01", 1000, 140},
		{"2024-01-02", 2, 0},
		{"2024-01-02", 5, 1},
		{"2024-01-02", 1000, 277},
		{"2024-01-03", 2, 1},
		{"2024-01-03", 5, 4},
		{"2024-02-29", 1000, 66},
	}
	for _, tc := range cases {
		s.Equal(tc.want, NewStream(tc.seed).Intn(tc.n), "seed=%s n=%d", tc.seed, tc.n)
	}
}

func (s *StreamTestSuite) TestIntn_Sequence() {
	stream := NewStream("seed")
	got := make([]int, 5)
	for i := range got {
		got[i] = stream.Intn(10)
	}
	s.Equal([]int{0, 9, 8, 3, 2}, got)
}

func (s *StreamTestSuite) TestIntn_Range() {
	stream := NewStream("range")
	for i := 0; i < 1000; i++ {
		v := stream.Intn(7)
		s.GreaterOrEqual(v, 0)
		s.Less(v, 7)
	}
}

func (s *StreamTestSuite) TestIntn_NonPositive() {
	s.Equal(0, NewStream("x").Intn(0))
	s.Equal(0, NewStream("x").Intn(-3))
}

func (s *StreamTestSuite) TestSeeder_FreshStreamPerSeed() {
	seeder := NewSeeder()
	a := seeder.Seed("2024-01-01").Intn(1000)
	b := seeder.Seed("2024-01-01").Intn(1000)
	s.Equal(a, b)
}

func TestStream_DistinctSeedsDiffer(t *testing.T) {
	assert.NotEqual(t, NewStream("2024-01-01").Uint64(), NewStream("2024-01-02").Uint64())
}
