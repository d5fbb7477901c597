// Package rand provides the entropy source shared by payload generation and
// duplicate selection.
//
// A Source is passed explicitly to every consumer rather than kept as package
// state, so that a corpus can be regenerated bit for bit from a seed.
// A Source is not safe for concurrent use.
package rand

import (
	"bytes"
	"math/rand"
	"time"
)

const (
	// Alphanumeric is [A-Za-z0-9]
	Alphanumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

	// UpperAlphanumeric is [A-Z0-9]
	UpperAlphanumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// Letters is [A-Za-z]
	Letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
)

// Source wraps a seeded pseudo-random generator
type Source struct {
	rgen *rand.Rand
	seed int64
}

// New returns a Source seeded with seed
func New(seed int64) *Source {
	return &Source{
		rgen: rand.New(rand.NewSource(seed)), // #nosec
		seed: seed,
	}
}

// NewFromTime returns a Source seeded from the wall clock
func NewFromTime() *Source {
	return New(time.Now().UnixNano())
}

// Seed yields the seed this source was created with
func (s *Source) Seed() int64 {
	return s.seed
}

// Float64 returns a number in [0.0,1.0)
func (s *Source) Float64() float64 {
	return s.rgen.Float64()
}

// Intn returns a number in [0,n). It panics if n <= 0.
func (s *Source) Intn(n int) int {
	return s.rgen.Intn(n)
}

// IntRange returns a number in [lo,hi], bounds included
func (s *Source) IntRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + s.rgen.Intn(hi-lo+1)
}

// Int63Range returns a number in [lo,hi], bounds included
func (s *Source) Int63Range(lo, hi int64) int64 {
	if hi <= lo {
		return lo
	}
	return lo + s.rgen.Int63n(hi-lo+1)
}

// Uniform returns a number in [lo,hi)
func (s *Source) Uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*s.rgen.Float64()
}

// Bool flips a coin
func (s *Source) Bool() bool {
	return s.rgen.Intn(2) == 1
}

// Read fills p with random bytes. It never fails.
//
// This makes a Source usable as an io.Reader, e.g. to draw UUIDs.
func (s *Source) Read(p []byte) (int, error) {
	return s.rgen.Read(p)
}

// Bytes returns a random slice of bytes
func (s *Source) Bytes(n int) []byte {
	buf := make([]byte, n)
	_, _ = s.rgen.Read(buf)
	return buf
}

// Choice picks one string uniformly
func (s *Source) Choice(among []string) string {
	return among[s.rgen.Intn(len(among))]
}

// Sample picks k distinct elements, in random order. k is capped to len(among).
func (s *Source) Sample(among []string, k int) []string {
	if k > len(among) {
		k = len(among)
	}
	perm := s.rgen.Perm(len(among))
	out := make([]string, k)
	for i := 0; i < k; i++ {
		out[i] = among[perm[i]]
	}
	return out
}

// StringFrom returns a random string of length n, with characters picked uniformly in alphabet
func (s *Source) StringFrom(alphabet string, n int) string {
	var b bytes.Buffer
	b.Grow(n)
	for i := 0; i < n; i++ {
		_ = b.WriteByte(alphabet[s.rgen.Intn(len(alphabet))])
	}
	return b.String()
}

// Digits returns a random string of n decimal digits, the first one non-zero
func (s *Source) Digits(n int) string {
	if n <= 0 {
		return ""
	}
	return s.StringFrom("123456789", 1) + s.StringFrom("0123456789", n-1)
}
