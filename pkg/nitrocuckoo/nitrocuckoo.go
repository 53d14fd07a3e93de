// Package nitrocuckoo wraps a counting cuckoo filter with the same
// geometric-skip admission sampling NitroHash applies to a plain counter
// map, trading exactness for a bounded false-positive rate and lower
// memory at high sampling rates.
package nitrocuckoo

import (
	"math"

	"github.com/morestreaming/sketches/internal/streamhash"
	"github.com/morestreaming/sketches/pkg/capability"
	"github.com/morestreaming/sketches/pkg/cuckoo"
)

const defaultCapacity = (1 << 20) - 1

var (
	_ capability.Sketch           = (*Sketch)(nil)
	_ capability.CapacityReporter = (*Sketch)(nil)
)

// Sketch is a NitroSketch-sampled counting cuckoo filter.
type Sketch struct {
	filter *cuckoo.Filter
	geo    *streamhash.Geometric
	factor uint64
	skip   int
}

// New builds a NitroCuckoo sampled at probability p, backed by the default
// filter capacity.
func New(p float64, seed int64) *Sketch {
	return NewCompact(defaultCapacity, p, seed, false)
}

// NewCompact builds a NitroCuckoo sampled at probability p. When compact is
// set, the underlying filter is built with a capacity of
// requestedCapacity/ceil(1/p) rather than the full requested capacity, trading a higher
// false-positive rate for memory proportional to expected admissions.
func NewCompact(requestedCapacity int, p float64, seed int64, compact bool) *Sketch {
	geo := streamhash.NewGeometric(p, seed)
	factor := geo.Factor()

	filterCapacity := requestedCapacity
	if compact {
		// The compact divisor is ceil(1/p), not factor (round(1/p)): factor
		// is the correct unbiasing scale for Get, but sizing wants the
		// worst-case number of updates per admission, which ceil bounds and
		// round does not.
		divisor := int(math.Ceil(1 / p))
		if divisor > 0 {
			filterCapacity = requestedCapacity / divisor
		}
		if filterCapacity < 1 {
			filterCapacity = 1
		}
	}

	return &Sketch{
		filter: cuckoo.NewWithCapacity(filterCapacity, seed),
		geo:    geo,
		factor: factor,
		skip:   geo.Next(),
	}
}

// Add records one occurrence of key, admitting it into the underlying
// filter only when the skip countdown has reached zero.
func (s *Sketch) Add(key []byte) error {
	if s.skip > 0 {
		s.skip--
		return nil
	}
	err := s.filter.Add(key)
	s.skip = s.geo.Next()
	return err
}

// Get returns the unbiased estimate for key.
func (s *Sketch) Get(key []byte) uint64 {
	return s.filter.Get(key) * s.factor
}

// ItemIncrement implements capability.Sketch.
func (s *Sketch) ItemIncrement(key []byte) { _ = s.Add(key) }

// ItemQuery implements capability.Sketch.
func (s *Sketch) ItemQuery(key []byte) uint64 { return s.Get(key) }

// EstimatedMemoryBytes implements capability.Sketch.
func (s *Sketch) EstimatedMemoryBytes() uint64 {
	return s.filter.EstimatedMemoryBytes()
}

// DrainCapacityEvents implements capability.CapacityReporter by forwarding
// to the underlying filter, the only source of capacity pressure here.
func (s *Sketch) DrainCapacityEvents() map[string]uint64 {
	return s.filter.DrainCapacityEvents()
}
