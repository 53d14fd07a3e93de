// Package capability defines the minimal contract the benchmark driver
// needs from any frequency sketch, so it can treat NitroCMS, Space-Saving,
// NitroHash, the Counting Cuckoo Filter, NitroCuckoo and FACS identically.
package capability

// Sketch is implemented by every frequency-estimation structure in this
// module. A key is passed as the raw byte encoding of the item being
// counted, not as a generic comparable, so every sketch shares one hashing
// regime (internal/streamhash) regardless of the concrete key type a
// caller works with upstream.
type Sketch interface {
	// ItemIncrement records one logical occurrence of key. It may be a
	// no-op for a sampled sketch that decides to skip this occurrence.
	ItemIncrement(key []byte)

	// ItemQuery returns the current estimated count for key.
	ItemQuery(key []byte) uint64

	// EstimatedMemoryBytes returns a conservative, allocator-independent
	// estimate of the bytes the sketch's backing storage occupies.
	EstimatedMemoryBytes() uint64
}

// CapacityReporter is an optional interface a Sketch may additionally
// implement when it experiences discrete capacity-pressure events that
// don't fit ItemIncrement's no-error signature: the Counting Cuckoo
// Filter's bounded rebucket-retry exhaustion, Space-Saving's Randomized
// Admission Policy refusing to admit a displacing item. The driver
// type-asserts for this after a run rather than threading an error return
// through every ItemIncrement call.
type CapacityReporter interface {
	// DrainCapacityEvents returns counts observed since the last call,
	// keyed by a reason string (see pkg/metrics.CapacityEventReason), and
	// resets each count to zero.
	DrainCapacityEvents() map[string]uint64
}

// MinimumReporter is an optional interface implemented by sketches that
// maintain a minimum counter over their tracked set (Space-Saving), used
// as a capacity-pressure gauge.
type MinimumReporter interface {
	Minimum() uint64
}
