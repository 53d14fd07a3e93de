package nitrocms

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnsampledNeverUnderestimates(t *testing.T) {
	is := assert.New(t)

	s := New(0.01, 0.01)
	truth := map[string]uint64{}

	for i := 0; i < 5000; i++ {
		key := fmt.Sprintf("flow-%d", i%37)
		s.Push([]byte(key), 1)
		truth[key]++
	}

	for key, want := range truth {
		got := s.Get([]byte(key))
		is.GreaterOrEqual(got, want, "key %s: estimate must not undercount at p=1", key)
	}
}

func TestMonotonicAcrossIncrements(t *testing.T) {
	is := assert.New(t)

	s := New(0.02, 0.05)
	key := []byte("monotone")

	prev := uint64(0)
	for i := 0; i < 1000; i++ {
		s.Push(key, 1)
		got := s.Get(key)
		is.GreaterOrEqual(got, prev)
		prev = got
	}
}

func TestSampledScalingWithinTolerance(t *testing.T) {
	is := assert.New(t)

	s := NewSampled(0.02, 0.95, 0.1, 1)
	key := []byte("key")

	for i := 0; i < 300000; i++ {
		s.Push(key, 1)
	}

	got := s.Get(key)
	is.InDelta(300000, got, 30000)
}

func TestSampledHighVolumeFloor(t *testing.T) {
	is := assert.New(t)

	s := NewSampled(0.02, 0.99, 0.1, 2)

	for i := 0; i < 10000000; i++ {
		key := fmt.Sprintf("%d", i%100)
		s.Push([]byte(key), 1)
	}

	for i := 0; i < 100; i++ {
		key := fmt.Sprintf("%d", i)
		got := s.Get([]byte(key))
		is.GreaterOrEqual(got, uint64(90000), "key %s underestimated", key)
	}
}

func TestDeterministicUnderFixedSeed(t *testing.T) {
	is := assert.New(t)

	a := NewSampled(0.02, 0.9, 0.2, 99)
	b := NewSampled(0.02, 0.9, 0.2, 99)

	for i := 0; i < 2000; i++ {
		key := []byte(fmt.Sprintf("k%d", i%11))
		a.Push(key, 1)
		b.Push(key, 1)
	}

	for i := 0; i < 11; i++ {
		key := []byte(fmt.Sprintf("k%d", i))
		is.Equal(a.Get(key), b.Get(key))
	}
}

func TestWidthIsPowerOfTwo(t *testing.T) {
	is := assert.New(t)

	s := New(0.013, 0.01)
	is.Equal(s.Width()&(s.Width()-1), 0)
}

func TestEstimatedMemoryBytesScalesWithSize(t *testing.T) {
	is := assert.New(t)

	small := New(0.1, 0.5)
	large := New(0.001, 0.99)
	is.Less(small.EstimatedMemoryBytes(), large.EstimatedMemoryBytes())
}
