// Package spacesaving implements the Space-Saving top-k frequency
// estimator (Metwally, Agrawal & El Abbadi), with an optional Randomized
// Admission Policy (Ben-Basat et al.) governing which item is admitted when
// an unseen key displaces the current minimum.
package spacesaving

import (
	"math"
	"math/rand"

	"github.com/morestreaming/sketches/pkg/capability"
)

var (
	_ capability.Sketch           = (*Sketch)(nil)
	_ capability.CapacityReporter = (*Sketch)(nil)
	_ capability.MinimumReporter  = (*Sketch)(nil)
)

// entry is one slot of the tracked top-k set. index is its position in the
// heap array, kept in sync so a keyed lookup can trigger a sift without a
// linear scan.
type entry struct {
	key     string
	counter uint64
	index   int
}

// Sketch is a Space-Saving counter set with a fixed capacity derived from
// the target error bound.
type Sketch struct {
	capacity int
	rap      bool
	rng      *rand.Rand

	heap    []*entry
	byKey   map[string]*entry
	minimum uint64

	rapRefused uint64
}

// New builds a Space-Saving sketch with capacity round(1/eps). rap enables
// the Randomized Admission Policy; seed makes RAP's coin flips
// reproducible (0 seeds from a fixed source).
func New(eps float64, rap bool, seed int64) *Sketch {
	capacity := int(math.Round(1 / eps))
	if capacity < 1 {
		capacity = 1
	}
	return &Sketch{
		capacity: capacity,
		rap:      rap,
		rng:      rand.New(rand.NewSource(seed)), //nolint:gosec
		heap:     make([]*entry, 0, capacity),
		byKey:    make(map[string]*entry, capacity),
	}
}

// Insert records one occurrence of id.
func (s *Sketch) Insert(id string) {
	if e, ok := s.byKey[id]; ok {
		e.counter++
		s.siftDown(e.index)
		s.refreshMinimum()
		return
	}

	if len(s.heap) < s.capacity {
		e := &entry{key: id, counter: 1}
		s.push(e)
		s.refreshMinimum()
		return
	}

	min := s.heap[0]
	newVal := min.counter + 1

	if s.rap && !s.coinFlip(newVal) {
		// Admission refused: the structure is left unchanged, including
		// the displaced item's recorded count.
		s.rapRefused++
		return
	}

	delete(s.byKey, min.key)
	min.key = id
	min.counter = newVal
	s.byKey[id] = min
	s.siftDown(min.index)
	s.refreshMinimum()
}

// coinFlip returns true with probability 1/denominator.
func (s *Sketch) coinFlip(denominator uint64) bool {
	if denominator == 0 {
		return true
	}
	return s.rng.Int63n(int64(denominator)) == 0
}

// Get returns id's stored counter if tracked, else the current minimum
// counter, which upper-bounds the true count of any untracked item.
func (s *Sketch) Get(id string) uint64 {
	if e, ok := s.byKey[id]; ok {
		return e.counter
	}
	return s.minimum
}

// Len reports how many distinct keys are currently tracked.
func (s *Sketch) Len() int { return len(s.heap) }

// Minimum implements capability.MinimumReporter, reporting the current
// minimum counter in the tracked set.
func (s *Sketch) Minimum() uint64 { return s.minimum }

// DrainCapacityEvents implements capability.CapacityReporter.
func (s *Sketch) DrainCapacityEvents() map[string]uint64 {
	if s.rapRefused == 0 {
		return nil
	}
	count := s.rapRefused
	s.rapRefused = 0
	return map[string]uint64{"rap_refused": count}
}

func (s *Sketch) refreshMinimum() {
	if len(s.heap) == 0 {
		s.minimum = 0
		return
	}
	s.minimum = s.heap[0].counter
}

// push inserts a brand-new entry and restores the min-heap property by
// sifting it up from the tail.
func (s *Sketch) push(e *entry) {
	e.index = len(s.heap)
	s.heap = append(s.heap, e)
	s.byKey[e.key] = e
	s.siftUp(e.index)
}

func (s *Sketch) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if s.heap[parent].counter <= s.heap[i].counter {
			break
		}
		s.swap(parent, i)
		i = parent
	}
}

// siftDown restores heap order after i's counter has increased, which can
// only violate the heap property downward.
func (s *Sketch) siftDown(i int) {
	n := len(s.heap)
	for {
		smallest := i
		left := 2*i + 1
		right := 2*i + 2
		if left < n && s.heap[left].counter < s.heap[smallest].counter {
			smallest = left
		}
		if right < n && s.heap[right].counter < s.heap[smallest].counter {
			smallest = right
		}
		if smallest == i {
			return
		}
		s.swap(i, smallest)
		i = smallest
	}
}

func (s *Sketch) swap(i, j int) {
	s.heap[i], s.heap[j] = s.heap[j], s.heap[i]
	s.heap[i].index = i
	s.heap[j].index = j
}

// ItemIncrement implements capability.Sketch.
func (s *Sketch) ItemIncrement(key []byte) { s.Insert(string(key)) }

// ItemQuery implements capability.Sketch.
func (s *Sketch) ItemQuery(key []byte) uint64 { return s.Get(string(key)) }

// EstimatedMemoryBytes implements capability.Sketch. It counts the entry
// slots and the map's bucket overhead at a conservative fixed per-entry
// estimate; actual key-string bytes are caller-controlled and excluded.
func (s *Sketch) EstimatedMemoryBytes() uint64 {
	const perEntry = 48 // counter + index + map bucket pointer overhead
	return uint64(s.capacity) * perEntry
}
