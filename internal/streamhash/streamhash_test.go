package streamhash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStreamRestartMatchesDirectRow(t *testing.T) {
	is := assert.New(t)

	key := []byte("198.51.100.7->203.0.113.9")

	s := New(key)
	var viaNext uint64
	for k := 0; k < 5; k++ {
		viaNext = s.Next()
		is.Equal(viaNext, Row(key, k), "restart %d must match direct row derivation", k)
	}
}

func TestRowsMatchesSequentialNext(t *testing.T) {
	is := assert.New(t)

	key := []byte("flow-a")
	rows := Rows(key, 8)

	s := New(key)
	for i, want := range rows {
		is.Equal(want, s.Next(), "row %d mismatch", i)
	}
}

func TestNextPowerOfTwo(t *testing.T) {
	is := assert.New(t)

	is.Equal(1, NextPowerOfTwo(0))
	is.Equal(1, NextPowerOfTwo(1))
	is.Equal(2, NextPowerOfTwo(2))
	is.Equal(4, NextPowerOfTwo(3))
	is.Equal(1024, NextPowerOfTwo(1000))
}

func TestCMSWidthIsPowerOfTwo(t *testing.T) {
	is := assert.New(t)

	w := CMSWidth(0.02)
	is.Equal(w, NextPowerOfTwo(w))
	is.GreaterOrEqual(w, 2)
}

func TestCMSDepthMonotonicInConfidence(t *testing.T) {
	is := assert.New(t)

	loose := CMSDepth(0.5)
	tight := CMSDepth(0.99)
	is.GreaterOrEqual(tight, loose)
}
