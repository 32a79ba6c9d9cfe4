package mapgen

import (
	"math/rand"
	"time"
)

// Rand is the randomness a generator draws from.
// *rand.Rand from math/rand satisfies it.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// NewRand returns a seeded source. Seed 0 picks a time-based seed.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// randRange returns a uniform integer in [lo, hi]
func randRange(rng Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.Intn(hi-lo+1)
}

// shuffle is an in-place Fisher–Yates shuffle
func shuffle[T any](rng Rand, s []T) {
	for i := len(s) - 1; i > 0; i-- {
		j := randRange(rng, 0, i)
		s[i], s[j] = s[j], s[i]
	}
}
