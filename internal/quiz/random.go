package quiz

import (
	"math/rand/v2"
	"time"
)

// Source is the randomness used for template choice and distractor sampling
type Source interface {
	// Choice returns an index in [0, n)
	Choice(n int) int
	// Sample returns k distinct indices from [0, n) in random order
	Sample(n, k int) []int
}

// globalSource draws from the process-wide math/rand/v2 generator, which is
// safe for concurrent use.
type globalSource struct{}

// DefaultSource returns the process-wide random source
func DefaultSource() Source {
	return globalSource{}
}

func (globalSource) Choice(n int) int {
	return rand.IntN(n)
}

func (globalSource) Sample(n, k int) []int {
	return sample(rand.Perm(n), k)
}

// seededSource is deterministic for a given seed. Not safe for concurrent use.
type seededSource struct {
	r *rand.Rand
}

// NewSeededSource creates a reproducible source
func NewSeededSource(seed uint64) Source {
	return &seededSource{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// NewTimeSource creates a source seeded from the clock
func NewTimeSource() Source {
	return NewSeededSource(uint64(time.Now().UnixNano()))
}

func (s *seededSource) Choice(n int) int {
	return s.r.IntN(n)
}

func (s *seededSource) Sample(n, k int) []int {
	return sample(s.r.Perm(n), k)
}

func sample(perm []int, k int) []int {
	if k > len(perm) {
		k = len(perm)
	}
	if k < 0 {
		k = 0
	}
	return perm[:k]
}
