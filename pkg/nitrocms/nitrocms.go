// Package nitrocms implements a Count-Min Sketch with an optional
// NitroSketch sampling overlay: instead of touching every one of the
// sketch's depth rows on every update, the sampler draws geometric skips
// over the conceptual depth-wide stream of cell visits and only performs
// the writes the draw selects, while keeping the estimator unbiased via a
// scaling factor applied at query time.
package nitrocms

import (
	"math"

	"github.com/morestreaming/sketches/internal"
	"github.com/morestreaming/sketches/internal/streamhash"
	"github.com/morestreaming/sketches/pkg/capability"
)

var _ capability.Sketch = (*Sketch)(nil)

// Sketch is a Count-Min Sketch, optionally sampled via NitroSketch. The
// sampled geometric-skip schedule is stateful and tied to the sequence of
// calls it has seen; copying a Sketch after first use would let two
// callers diverge from a single coherent schedule, so it embeds NoCopy.
type Sketch struct {
	noCopy internal.NoCopy //nolint:unused

	width int
	depth int
	mask  uint64

	counters [][]uint32

	sampled bool
	factor  uint64
	geo     *streamhash.Geometric

	// Geometric-skip schedule state, meaningful only when sampled.
	curr   uint64 // global cell index last fully accounted for
	next   uint64 // global cell index of the next sampled cell
	lastK  int    // row index of the most recently sampled cell
	update uint64 // number of updates observed so far
}

// New builds an unsampled Count-Min Sketch sized for additive error eps and
// failure probability delta.
func New(eps, delta float64) *Sketch {
	return newSketch(eps, delta, 1, 0)
}

// NewSampled builds a NitroSketch-sampled Count-Min Sketch: probability p
// of visiting any given cell in the conceptual depth-wide update stream,
// sized for additive error eps and failure probability delta. seed makes
// the sampling schedule reproducible; 0 seeds from a fixed source.
func NewSampled(eps, delta, p float64, seed int64) *Sketch {
	if p <= 0 || p > 1 {
		panic("nitrocms: sampling probability must be in (0, 1]")
	}
	return newSketch(eps, delta, p, seed)
}

func newSketch(eps, delta, p float64, seed int64) *Sketch {
	width := streamhash.CMSWidth(eps)
	depth := streamhash.CMSDepth(delta)

	s := &Sketch{
		width:    width,
		depth:    depth,
		mask:     uint64(width - 1),
		counters: make([][]uint32, depth),
	}
	for i := range s.counters {
		s.counters[i] = make([]uint32, width)
	}

	if p < 1 {
		s.sampled = true
		s.geo = streamhash.NewGeometric(p, seed)
		s.factor = s.geo.Factor()
		s.next = uint64(s.geo.Next())
		s.lastK = 0
	} else {
		s.factor = 1
	}

	return s
}

// Push adds value to the counters for key. With an unsampled sketch every
// row is updated; with a sampled sketch only the cells the geometric
// schedule selects are updated.
func (s *Sketch) Push(key []byte, value uint32) {
	if !s.sampled {
		s.fullPush(key, value)
		return
	}
	s.sampledPush(key, value)
}

func (s *Sketch) fullPush(key []byte, value uint32) {
	rows := streamhash.Rows(key, s.depth)
	for k, h := range rows {
		slot := h & s.mask
		s.addSaturating(k, slot, value)
	}
}

// sampledPush implements the geometric-skip state machine described for
// NitroCMS with two transitions per update: skip the whole update when next
// lies beyond it, or consume its sampled cells one by one. curr tracks the
// last cell index accounted for, next is the next cell the schedule will
// touch, and lastK is the row of the most recently sampled cell.
func (s *Sketch) sampledPush(key []byte, value uint32) {
	depth := uint64(s.depth)
	updateStart := s.update * depth
	updateEnd := updateStart + depth

	defer func() { s.update++ }()

	if s.next >= updateEnd {
		// No sampled cell falls inside this update at all.
		s.curr = updateEnd
		return
	}

	// At least one sampled cell falls within [updateStart, updateEnd).
	// Consume sampled cells one at a time until the schedule jumps past
	// this update's boundary.
	for s.next < updateEnd {
		k := int(s.next - updateStart)
		s.lastK = k
		h := streamhash.Row(key, k)
		slot := h & s.mask
		s.addSaturating(k, slot, value)

		skip := uint64(s.geo.Next())
		s.next = s.next + 1 + skip
	}
	s.curr = updateEnd
}

func (s *Sketch) addSaturating(row int, slot uint64, value uint32) {
	c := &s.counters[row][slot]
	if uint64(*c)+uint64(value) > math.MaxUint32 {
		*c = math.MaxUint32
		return
	}
	*c += value
}

// Get returns the current estimate for key, unbiased by the sampling
// factor when the sketch is sampled.
func (s *Sketch) Get(key []byte) uint64 {
	rows := streamhash.Rows(key, s.depth)
	min := uint32(math.MaxUint32)
	for k, h := range rows {
		slot := h & s.mask
		if c := s.counters[k][slot]; c < min {
			min = c
		}
	}
	return uint64(min) * s.factor
}

// ItemIncrement implements capability.Sketch.
func (s *Sketch) ItemIncrement(key []byte) { s.Push(key, 1) }

// ItemQuery implements capability.Sketch.
func (s *Sketch) ItemQuery(key []byte) uint64 { return s.Get(key) }

// EstimatedMemoryBytes implements capability.Sketch. It counts only the
// counter matrix, since width/depth/mask/factor are fixed-size scalars.
func (s *Sketch) EstimatedMemoryBytes() uint64 {
	return uint64(s.depth) * uint64(s.width) * 4
}

// Reset zeroes every counter without changing sizing or sampling state.
func (s *Sketch) Reset() {
	for i := range s.counters {
		for j := range s.counters[i] {
			s.counters[i][j] = 0
		}
	}
}

// Width reports the sketch's row width.
func (s *Sketch) Width() int { return s.width }

// Depth reports the sketch's row count.
func (s *Sketch) Depth() int { return s.depth }
