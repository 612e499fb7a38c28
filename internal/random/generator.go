// Package random draws bar values for a fresh sequence.
package random

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"
)

// Default value range for bars.
const (
	DefaultMin = 1
	DefaultMax = 100
)

// Generator produces values uniformly from the inclusive range [Min, Max].
type Generator struct {
	Min int
	Max int

	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a generator seeded from the clock.
func New(lo, hi int) (*Generator, error) {
	seed := uint64(time.Now().UnixNano())
	return NewSeeded(lo, hi, seed)
}

// NewSeeded creates a deterministic generator.
func NewSeeded(lo, hi int, seed uint64) (*Generator, error) {
	if lo > hi {
		return nil, fmt.Errorf("invalid range [%d, %d]", lo, hi)
	}
	return &Generator{
		Min: lo,
		Max: hi,
		rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}, nil
}

// SetRange changes the range for subsequent draws. The seeded stream carries on.
func (g *Generator) SetRange(lo, hi int) error {
	if lo > hi {
		return fmt.Errorf("invalid range [%d, %d]", lo, hi)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Min, g.Max = lo, hi
	return nil
}

// Range returns the current inclusive range.
func (g *Generator) Range() (lo, hi int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.Min, g.Max
}

// Value draws one value.
func (g *Generator) Value() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.Min + g.rng.IntN(g.Max-g.Min+1)
}

// Values draws count values.
func (g *Generator) Values(count int) []int {
	if count <= 0 {
		return nil
	}
	out := make([]int, count)
	for i := range out {
		out[i] = g.Value()
	}
	return out
}
