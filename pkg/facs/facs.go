// Package facs implements the Fast Combined Sketch: a short-horizon exact
// window counter layered over a long-horizon NitroCMS, so recently arrived
// items are counted exactly while older history is absorbed into a compact
// sketch.
package facs

import (
	"sync"

	"github.com/morestreaming/sketches/pkg/capability"
	"github.com/morestreaming/sketches/pkg/nitrocms"
)

// DefaultWindowSize is the number of insertions accumulated exactly before
// rolling into the permanent sketch.
const DefaultWindowSize = 10000

var _ capability.Sketch = (*Sketch)(nil)

// Sketch is a windowed exact counter backed by a permanent NitroCMS.
type Sketch struct {
	mu sync.Mutex

	window     map[string]uint32
	permanent  *nitrocms.Sketch
	progressed int
	windowSize int

	wg sync.WaitGroup
}

// New builds a FACS sketch. The permanent sketch is sized at the
// conventional eps=0.01/delta=0.01 and built unsampled (p=1): the
// window already absorbs the bulk of per-item variance, so only the
// cold long-horizon tail needs sketch compression, not further sampling.
func New(windowSize int) *Sketch {
	if windowSize <= 0 {
		windowSize = DefaultWindowSize
	}
	return &Sketch{
		window:     make(map[string]uint32),
		permanent:  nitrocms.New(0.01, 0.01),
		windowSize: windowSize,
	}
}

// Insert records one occurrence of id, rolling the window into the
// permanent sketch and clearing it once the window fills.
func (s *Sketch) Insert(id string) {
	s.mu.Lock()
	s.window[id]++
	s.progressed++

	if s.progressed < s.windowSize {
		s.mu.Unlock()
		return
	}

	toRoll := s.window
	s.window = make(map[string]uint32)
	s.progressed = 0
	s.mu.Unlock()

	// Join the previous rollup before starting the next one: permanent is
	// a single *nitrocms.Sketch with no internal locking of its own, so at
	// most one rollup goroutine may touch it at a time.
	s.wg.Wait()
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for id, count := range toRoll {
			s.permanent.Push([]byte(id), count)
		}
	}()
}

// Get returns the sum of the window count and the permanent sketch's
// estimate for id. Waits for any in-flight rollup so a query issued right
// after a window boundary observes it.
func (s *Sketch) Get(id string) uint64 {
	s.wg.Wait()

	s.mu.Lock()
	windowCount := uint64(s.window[id])
	s.mu.Unlock()

	return windowCount + s.permanent.Get([]byte(id))
}

// ItemIncrement implements capability.Sketch.
func (s *Sketch) ItemIncrement(key []byte) { s.Insert(string(key)) }

// ItemQuery implements capability.Sketch.
func (s *Sketch) ItemQuery(key []byte) uint64 { return s.Get(string(key)) }

// EstimatedMemoryBytes implements capability.Sketch.
func (s *Sketch) EstimatedMemoryBytes() uint64 {
	s.mu.Lock()
	windowBytes := uint64(len(s.window)) * 48
	s.mu.Unlock()
	return windowBytes + s.permanent.EstimatedMemoryBytes()
}
