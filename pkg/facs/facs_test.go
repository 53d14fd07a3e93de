package facs

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestInsertWithinTolerance(t *testing.T) {
	is := assert.New(t)

	s := New(10000)
	for i := 0; i < 1000000; i++ {
		s.Insert("key")
	}
	is.InDelta(1000000, s.Get("key"), 1)
}

func TestWindowRollsOverAtBoundary(t *testing.T) {
	is := assert.New(t)

	s := New(10)
	for i := 0; i < 10; i++ {
		s.Insert("a")
	}
	is.Equal(0, len(s.window))
	is.Equal(uint64(10), s.Get("a"))
}

func TestDistinctKeysDuringWindow(t *testing.T) {
	is := assert.New(t)

	s := New(1000)
	for i := 0; i < 100; i++ {
		s.Insert(fmt.Sprintf("k%d", i%10))
	}
	for i := 0; i < 10; i++ {
		is.Equal(uint64(10), s.Get(fmt.Sprintf("k%d", i)))
	}
}

func TestMonotonic(t *testing.T) {
	is := assert.New(t)

	s := New(50)
	prev := uint64(0)
	for i := 0; i < 500; i++ {
		s.Insert("hot")
		got := s.Get("hot")
		is.GreaterOrEqual(got, prev)
		prev = got
	}
}
