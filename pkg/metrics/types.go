package metrics

// CapacityEventReason identifies why a sketch-level capacity event fired,
// so the collector can break down rare overflow events by cause.
type CapacityEventReason string

const (
	// CapacityEventRebucketExhausted fires when a Counting Cuckoo
	// Filter's bounded rebucketing retry budget is exhausted.
	CapacityEventRebucketExhausted CapacityEventReason = "rebucket_exhausted"
	// CapacityEventRAPRefused fires when Space-Saving's Randomized
	// Admission Policy declines to admit a displacing item.
	CapacityEventRAPRefused CapacityEventReason = "rap_refused"
)

// CapacityEventReasons enumerates every reason the Prometheus collector
// pre-registers a counter series for.
var CapacityEventReasons = []CapacityEventReason{
	CapacityEventRebucketExhausted,
	CapacityEventRAPRefused,
}
