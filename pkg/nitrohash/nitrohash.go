// Package nitrohash implements a sampled exact-counter map: insertions are
// admitted via geometric-skip sampling, and stored counts are unbiased at
// query time by the sampler's scale factor.
package nitrohash

import (
	"github.com/morestreaming/sketches/internal/streamhash"
	"github.com/morestreaming/sketches/pkg/capability"
)

var _ capability.Sketch = (*Sketch)(nil)

// Sketch is a geometric-skip sampled counter map.
type Sketch struct {
	counters map[string]uint64
	geo      *streamhash.Geometric
	factor   uint64
	skip     int
}

// New builds a NitroHash sampled at probability p. seed makes the skip
// schedule reproducible; 0 seeds from a fixed source.
func New(p float64, seed int64) *Sketch {
	geo := streamhash.NewGeometric(p, seed)
	return &Sketch{
		counters: make(map[string]uint64),
		geo:      geo,
		factor:   geo.Factor(),
		skip:     geo.Next(),
	}
}

// Insert records one occurrence of id, admitting it only when the skip
// countdown has reached zero.
func (s *Sketch) Insert(id string) {
	if s.skip > 0 {
		s.skip--
		return
	}
	s.counters[id]++
	s.skip = s.geo.Next()
}

// Get returns the unbiased estimate for id.
func (s *Sketch) Get(id string) uint64 {
	return s.counters[id] * s.factor
}

// ItemIncrement implements capability.Sketch.
func (s *Sketch) ItemIncrement(key []byte) { s.Insert(string(key)) }

// ItemQuery implements capability.Sketch.
func (s *Sketch) ItemQuery(key []byte) uint64 { return s.Get(string(key)) }

// EstimatedMemoryBytes implements capability.Sketch. Unbounded in the
// worst case; reports the current admitted-entry count at a conservative
// per-entry estimate (8-byte counter plus map bucket overhead).
func (s *Sketch) EstimatedMemoryBytes() uint64 {
	const perEntry = 48
	return uint64(len(s.counters)) * perEntry
}

// Len reports the number of distinct admitted keys.
func (s *Sketch) Len() int { return len(s.counters) }
