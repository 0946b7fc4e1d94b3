package assignment

import (
	"math/rand"
	"sync"
	"time"
)

// Candidate is one operator eligible for a source: active, linked, and under
// capacity. Weight zero marks a candidate that is eligible but never drawn.
type Candidate struct {
	OperatorID        string
	Weight            int
	MaxLoad           int
	AvailableCapacity int
}

// Selector performs a single weighted-random draw over a candidate set. It is
// stateless apart from its random source and safe for concurrent use.
type Selector struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSelector builds a selector with a time-seeded random source.
func NewSelector() *Selector {
	return NewSelectorWithSource(rand.NewSource(time.Now().UnixNano()))
}

// NewSelectorWithSource builds a selector with an injected random source so
// tests can fix the seed and assert exact outcomes.
func NewSelectorWithSource(src rand.Source) *Selector {
	return &Selector{rng: rand.New(src)}
}

// Pick draws one candidate with probability proportional to its weight.
// Candidates with weight zero never win. When no candidate carries positive
// weight, Pick reports false: "no selectable candidate" is a normal outcome,
// not an error.
func (s *Selector) Pick(candidates []Candidate) (Candidate, bool) {
	total := 0
	for _, c := range candidates {
		if c.Weight > 0 {
			total += c.Weight
		}
	}
	if total == 0 {
		return Candidate{}, false
	}

	s.mu.Lock()
	draw := s.rng.Intn(total)
	s.mu.Unlock()

	for _, c := range candidates {
		if c.Weight <= 0 {
			continue
		}
		draw -= c.Weight
		if draw < 0 {
			return c, true
		}
	}
	// unreachable: the draw is strictly below the summed weight
	return Candidate{}, false
}
