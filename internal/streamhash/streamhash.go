// Package streamhash provides the hashing and sizing primitives shared by
// every sketch implementation: a restartable 64-bit hash stream capable of
// producing an arbitrary number of pairwise-near-independent values from a
// single key, and the width/depth sizing formulas used by the Count-Min
// family.
package streamhash

import (
	"math"

	"github.com/cespare/xxhash/v2"
)

// sentinel is appended to the digest to derive each subsequent hash value
// from an already-hashed key. It must never change: NitroCMS relies on the
// k-th restart producing the same value whether it is reached by k prior
// Next calls or by seeking directly to row k (see Row).
const sentinel = 0xA5

// Stream is a restartable 64-bit hash stream. Write the key once with New,
// then call Next repeatedly to derive further, near-independent 64-bit
// values without rehashing the key bytes.
type Stream struct {
	digest *xxhash.Digest
}

// New seeds a Stream from key bytes and returns it positioned so the first
// call to Next yields the hash of the bytes exactly as written.
func New(key []byte) *Stream {
	d := xxhash.New()
	_, _ = d.Write(key)
	return &Stream{digest: d}
}

// Next returns the current digest value, then advances the stream by
// writing one more sentinel byte so the following call returns a different
// value.
func (s *Stream) Next() uint64 {
	v := s.digest.Sum64()
	_, _ = s.digest.Write([]byte{sentinel})
	return v
}

// Row returns the k-th restart value (0-indexed) for a key, equivalent to
// calling New(key).Next() k+1 times and keeping the last result. It is used
// where only a single row offset is needed, e.g. NitroCMS's sampled path,
// and must be bit-identical to the value produced by iterating a fresh
// Stream k times.
func Row(key []byte, k int) uint64 {
	s := New(key)
	var v uint64
	for i := 0; i <= k; i++ {
		v = s.Next()
	}
	return v
}

// Rows returns the first n restart values for a key in order.
func Rows(key []byte, n int) []uint64 {
	s := New(key)
	out := make([]uint64, n)
	for i := range out {
		out[i] = s.Next()
	}
	return out
}

// NextPowerOfTwo returns the smallest power of two greater than or equal to
// n, with a floor of 1.
func NextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// CMSWidth returns the Count-Min Sketch width for additive error bound eps,
// rounded up to a power of two so indexing can use a mask.
func CMSWidth(eps float64) int {
	raw := int(math.Round(2.0 / eps))
	return NextPowerOfTwo(max(2, raw))
}

// CMSDepth returns the Count-Min Sketch depth for failure probability
// delta.
func CMSDepth(delta float64) int {
	d := int(math.Floor(math.Log(1-delta) / math.Log(0.5)))
	return max(1, d)
}
