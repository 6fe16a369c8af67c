package random

import (
	"encoding/binary"
	"math/bits"

	"golang.org/x/crypto/blake2b"
)

// Random provides random number generation that can be mocked for testing
type Random interface {
	// Intn returns a random int in [0, n)
	Intn(n int) int
}

// Seeder creates Random streams determined entirely by a seed string
type Seeder interface {
	Seed(seed string) Random
}

// Stream is a deterministic pseudo-random stream.
//
// Word i of the stream is the big-endian uint64 formed from the first 8 bytes of
// BLAKE2b-256(seed || BE64(i)), with i counting up from 0. The output depends only
// on the seed bytes, so every process and platform observes the same sequence.
type Stream struct {
	seed    []byte
	counter uint64
	buf     []byte
}

// NewStream creates a Stream for the given seed
func NewStream(seed string) *Stream {
	buf := make([]byte, len(seed)+8)
	copy(buf, seed)
	return &Stream{
		seed: []byte(seed),
		buf:  buf,
	}
}

// Uint64 returns the next word of the stream
func (s *Stream) Uint64() uint64 {
	binary.BigEndian.PutUint64(s.buf[len(s.seed):], s.counter)
	s.counter++
	sum := blake2b.Sum256(s.buf)
	return binary.BigEndian.Uint64(sum[:8])
}

// Intn returns a uniform int in [0, n) using multiply-shift with rejection.
// Returns 0 when n <= 0.
func (s *Stream) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	bound := uint64(n)
	hi, lo := bits.Mul64(s.Uint64(), bound)
	if lo < bound {
		thresh := -bound % bound
		for lo < thresh {
			hi, lo = bits.Mul64(s.Uint64(), bound)
		}
	}
	return int(hi)
}

// HashSeeder implements Seeder with BLAKE2b streams
type HashSeeder struct{}

// NewSeeder creates a new HashSeeder
func NewSeeder() *HashSeeder {
	return &HashSeeder{}
}

// Seed returns a fresh Stream for the seed
func (HashSeeder) Seed(seed string) Random {
	return NewStream(seed)
}
