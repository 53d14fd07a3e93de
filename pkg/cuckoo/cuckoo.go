// Package cuckoo implements a counting cuckoo filter: four-slot buckets of
// (fingerprint, counter) pairs addressed by a primary and an alternate
// bucket index derived from the key's hash, with bounded-retry cuckoo
// eviction on collision.
package cuckoo

import (
	"encoding/binary"
	"errors"
	"math/rand"

	"github.com/cespare/xxhash/v2"
	"github.com/morestreaming/sketches/pkg/capability"
)

const (
	bucketSize     = 4
	maxRebucket    = 500
	defaultCap     = (1 << 20) - 1
	exportFormatV1 = 1
)

// ErrNotEnoughSpace is returned when add exhausts its rebucketing budget
// without finding a free slot. The incoming key is stored; some earlier,
// unrelated element was displaced out of the filter to make room along the
// way and is now lost.
var ErrNotEnoughSpace = errors.New("cuckoo: not enough space")

type slot struct {
	fingerprint uint8
	counter     uint32
}

type bucket [bucketSize]slot

var (
	_ capability.Sketch           = (*Filter)(nil)
	_ capability.CapacityReporter = (*Filter)(nil)
)

// Filter is a counting cuckoo filter.
type Filter struct {
	buckets []bucket
	length  int
	rng     *rand.Rand

	rebucketExhausted uint64
}

// New builds a filter with the default capacity.
func New(seed int64) *Filter {
	return NewWithCapacity(defaultCap, seed)
}

// NewWithCapacity builds a filter sized to hold at least capacity
// fingerprints, rounding the bucket count up to a power of two.
func NewWithCapacity(capacity int, seed int64) *Filter {
	numBuckets := nextPowerOfTwo(capacity) / bucketSize
	if numBuckets < 1 {
		numBuckets = 1
	}
	return &Filter{
		buckets: make([]bucket, numBuckets),
		rng:     rand.New(rand.NewSource(seed)), //nolint:gosec
	}
}

func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

func fingerprintOf(h uint64) uint8 {
	return uint8(h&0xFF) | 1
}

func hashBytes(key []byte) uint64 {
	return xxhash.Sum64(key)
}

func hashFingerprint(fp uint8) uint64 {
	return xxhash.Sum64([]byte{fp})
}

func (f *Filter) indices(key []byte) (fp uint8, i1, i2 int) {
	h := hashBytes(key)
	fp = fingerprintOf(h)
	n := uint64(len(f.buckets))
	i1 = int((h >> 32) % n)
	i2 = int((uint64(i1) ^ hashFingerprint(fp)) % n)
	return fp, i1, i2
}

func altIndex(f *Filter, i int, fp uint8) int {
	n := uint64(len(f.buckets))
	return int((uint64(i) ^ hashFingerprint(fp)) % n)
}

// Add inserts one occurrence of key, incrementing an existing matching
// slot's counter if present. It returns ErrNotEnoughSpace if rebucketing
// exhausts its retry budget; the incoming key is stored regardless, at the
// cost of displacing some other element out of the filter.
func (f *Filter) Add(key []byte) error {
	fp, i1, i2 := f.indices(key)

	if f.bumpOrPlace(i1, fp, 1) {
		return nil
	}
	if f.bumpOrPlace(i2, fp, 1) {
		return nil
	}

	return f.rebucket(i1, i2, fp)
}

// bumpOrPlace tries to add val to an existing matching slot's counter, then
// tries to claim an empty slot with counter val, in bucket i. Returns true
// on success.
func (f *Filter) bumpOrPlace(i int, fp uint8, val uint32) bool {
	b := &f.buckets[i]
	for s := 0; s < bucketSize; s++ {
		if b[s].fingerprint == fp {
			b[s].counter += val
			return true
		}
	}
	for s := 0; s < bucketSize; s++ {
		if b[s].fingerprint == 0 {
			b[s].fingerprint = fp
			b[s].counter = val
			f.length++
			return true
		}
	}
	return false
}

// rebucket runs the bounded cuckoo eviction chain when both candidate
// buckets are full: repeatedly swap the incoming element into a randomly
// chosen slot of a randomly chosen candidate bucket, then try to re-home
// the slot's previous occupant via its alternate index.
func (f *Filter) rebucket(i1, i2 int, fp uint8) error {
	victim := i1
	if f.rng.Intn(2) == 1 {
		victim = i2
	}

	val := uint32(1)
	for attempt := 0; attempt < maxRebucket; attempt++ {
		s := f.rng.Intn(bucketSize)
		b := &f.buckets[victim]

		evictedFP, evictedVal := b[s].fingerprint, b[s].counter

		b[s].fingerprint = fp
		b[s].counter = val

		next := altIndex(f, victim, evictedFP)
		if f.bumpOrPlace(next, evictedFP, evictedVal) {
			return nil
		}

		fp, val = evictedFP, evictedVal
		victim = next
	}

	f.rebucketExhausted++
	return ErrNotEnoughSpace
}

// DrainCapacityEvents implements capability.CapacityReporter.
func (f *Filter) DrainCapacityEvents() map[string]uint64 {
	if f.rebucketExhausted == 0 {
		return nil
	}
	count := f.rebucketExhausted
	f.rebucketExhausted = 0
	return map[string]uint64{"rebucket_exhausted": count}
}

// Delete removes one matching fingerprint slot for key, if present.
func (f *Filter) Delete(key []byte) bool {
	fp, i1, i2 := f.indices(key)
	if f.clearSlot(i1, fp) {
		return true
	}
	return f.clearSlot(i2, fp)
}

func (f *Filter) clearSlot(i int, fp uint8) bool {
	b := &f.buckets[i]
	for s := 0; s < bucketSize; s++ {
		if b[s].fingerprint == fp {
			b[s].fingerprint = 0
			b[s].counter = 0
			f.length--
			return true
		}
	}
	return false
}

// Contains reports whether key's fingerprint is present in either
// candidate bucket.
func (f *Filter) Contains(key []byte) bool {
	fp, i1, i2 := f.indices(key)
	return f.findSlot(i1, fp) != nil || f.findSlot(i2, fp) != nil
}

func (f *Filter) findSlot(i int, fp uint8) *slot {
	b := &f.buckets[i]
	for s := 0; s < bucketSize; s++ {
		if b[s].fingerprint == fp {
			return &b[s]
		}
	}
	return nil
}

// Get returns the counter stored for key's fingerprint, or 0 if absent.
func (f *Filter) Get(key []byte) uint64 {
	fp, i1, i2 := f.indices(key)
	if s := f.findSlot(i1, fp); s != nil {
		return uint64(s.counter)
	}
	if s := f.findSlot(i2, fp); s != nil {
		return uint64(s.counter)
	}
	return 0
}

// Len reports the number of occupied slots.
func (f *Filter) Len() int { return f.length }

// Capacity reports the filter's total slot count.
func (f *Filter) Capacity() int { return len(f.buckets) * bucketSize }

// ItemIncrement implements capability.Sketch; rebucketing overflow is
// swallowed since the capability interface has no error return, but still
// counted and recoverable via DrainCapacityEvents.
func (f *Filter) ItemIncrement(key []byte) { _ = f.Add(key) }

// ItemQuery implements capability.Sketch.
func (f *Filter) ItemQuery(key []byte) uint64 { return f.Get(key) }

// EstimatedMemoryBytes implements capability.Sketch.
func (f *Filter) EstimatedMemoryBytes() uint64 {
	return uint64(len(f.buckets)) * bucketSize * 5 // 1 fingerprint byte + 4 counter bytes
}

// Export serializes the filter to the pinned V1 byte layout: per bucket,
// four fingerprint bytes followed by four little-endian uint32 counters,
// buckets concatenated in order.
func (f *Filter) Export() []byte {
	out := make([]byte, len(f.buckets)*bucketSize*5)
	offset := 0
	for _, b := range f.buckets {
		for s := 0; s < bucketSize; s++ {
			out[offset+s] = b[s].fingerprint
		}
		offset += bucketSize
		for s := 0; s < bucketSize; s++ {
			binary.LittleEndian.PutUint32(out[offset:offset+4], b[s].counter)
			offset += 4
		}
	}
	return out
}

// Import rebuilds a filter from bytes produced by Export. The bucket count
// is recovered from the data length, so no capacity parameter is needed.
func Import(data []byte, seed int64) (*Filter, error) {
	const bucketBytes = bucketSize*1 + bucketSize*4
	if len(data)%bucketBytes != 0 {
		return nil, errors.New("cuckoo: malformed export: length not a multiple of bucket size")
	}

	numBuckets := len(data) / bucketBytes
	f := &Filter{
		buckets: make([]bucket, numBuckets),
		rng:     rand.New(rand.NewSource(seed)), //nolint:gosec
	}

	offset := 0
	for i := 0; i < numBuckets; i++ {
		var b bucket
		for s := 0; s < bucketSize; s++ {
			b[s].fingerprint = data[offset+s]
		}
		offset += bucketSize
		for s := 0; s < bucketSize; s++ {
			b[s].counter = binary.LittleEndian.Uint32(data[offset : offset+4])
			offset += 4
			if b[s].fingerprint != 0 {
				f.length++
			}
		}
		f.buckets[i] = b
	}

	return f, nil
}
