package service

import (
	"math/rand"
	"sync"
)

// lockedSource serializes draws from a *rand.Rand, which is not safe for
// concurrent use by gin handlers.
type lockedSource struct {
	mu sync.Mutex
	r  *rand.Rand
}

func NewLockedSource(seed int64) Source {
	return &lockedSource{
		r: rand.New(rand.NewSource(seed)),
	}
}

func (s *lockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.r.Float64()
}

func (s *lockedSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.r.Intn(n)
}
