// Package rng isolates every random draw the trainer makes (shuffles,
// weighted picks, direction coin flips) behind a small interface so that
// callers can inject deterministic sources in tests.
package rng

import (
	"math/rand/v2"
	"sync"
)

// Source is the random source consumed by selection and session logic.
type Source interface {
	// IntN returns a uniform int in [0, n). n must be > 0.
	IntN(n int) int
	// Float64 returns a uniform float64 in [0, 1).
	Float64() float64
}

var _ Source = (*rand.Rand)(nil)

// New returns a seeded, deterministic source. It is not safe for
// concurrent use.
func New(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewRandom returns a randomly seeded source that is safe for concurrent use.
func NewRandom() Source {
	return &locked{src: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

type locked struct {
	mu  sync.Mutex
	src *rand.Rand
}

func (l *locked) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.IntN(n)
}

func (l *locked) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.Float64()
}

// Shuffle permutes s in place (Fisher-Yates).
func Shuffle[T any](src Source, s []T) {
	for i := len(s) - 1; i > 0; i-- {
		j := src.IntN(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}

// Pick returns a uniformly chosen index in [0, n).
func Pick(src Source, n int) int {
	return src.IntN(n)
}

// WeightedIndex draws an index with probability proportional to its weight.
// Weights must be non-negative; it returns -1 when weights is empty or sums
// to zero.
func WeightedIndex(src Source, weights []float64) int {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	if len(weights) == 0 || total <= 0 {
		return -1
	}

	r := src.Float64() * total
	for i, w := range weights {
		r -= w
		if r < 0 {
			return i
		}
	}
	// Rounding can leave r at exactly zero; fall back to the last positive weight.
	for i := len(weights) - 1; i >= 0; i-- {
		if weights[i] > 0 {
			return i
		}
	}
	return -1
}

// Flip returns true with probability one half.
func Flip(src Source) bool {
	return src.IntN(2) == 1
}
