package driver

import (
	"github.com/morestreaming/sketches/pkg/capability"
	"github.com/morestreaming/sketches/pkg/metrics"
)

// reportCapacityState type-asserts sk against the optional
// capability.CapacityReporter and capability.MinimumReporter interfaces and
// forwards whatever it finds to collector. Most sketches implement neither;
// Cuckoo and NitroCuckoo implement CapacityReporter (rebucket exhaustion),
// and Space-Saving implements both (RAP refusals and the minimum counter).
func reportCapacityState(sk capability.Sketch, collector Collector) {
	if r, ok := sk.(capability.CapacityReporter); ok {
		for reason, count := range r.DrainCapacityEvents() {
			for i := uint64(0); i < count; i++ {
				collector.IncCapacityEvent(metrics.CapacityEventReason(reason))
			}
		}
	}
	if m, ok := sk.(capability.MinimumReporter); ok {
		collector.SetMinimumCounter(int64(m.Minimum()))
	}
}
