// Package scheduler composes practice batches and multiple-choice distractors.
// Every random decision goes through Rand so callers can seed it.
package scheduler

import (
	"math/rand"
	"sync"
	"time"
)

// Rand is the source of randomness used by the scheduler.
// *math/rand.Rand satisfies it.
type Rand interface {
	Float64() float64
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

// NewRand returns a Rand seeded with seed
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// NewTimeSeededRand returns a Rand seeded from the current time
func NewTimeSeededRand() *rand.Rand {
	return NewRand(time.Now().UnixNano())
}

// LockedRand serializes access to a Rand shared between goroutines
type LockedRand struct {
	mu  sync.Mutex
	rng Rand
}

// NewLockedRand wraps rng for concurrent use
func NewLockedRand(rng Rand) *LockedRand {
	return &LockedRand{rng: rng}
}

func (r *LockedRand) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Float64()
}

func (r *LockedRand) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Intn(n)
}

func (r *LockedRand) Shuffle(n int, swap func(i, j int)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rng.Shuffle(n, swap)
}

// chance reports true with probability p
func chance(rng Rand, p float64) bool {
	return rng.Float64() < p
}
