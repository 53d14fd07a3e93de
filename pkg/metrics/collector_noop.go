package metrics

import "github.com/prometheus/client_golang/prometheus"

var _ Collector = (*NoOpCollector)(nil)

// NoOpCollector is a no-op implementation of Collector, used when the
// driver is run without a metrics sink configured.
type NoOpCollector struct{}

func (n *NoOpCollector) AddIncrements(count int64)                   {}
func (n *NoOpCollector) AddQueries(count int64)                      {}
func (n *NoOpCollector) IncCapacityEvent(reason CapacityEventReason) {}
func (n *NoOpCollector) SetEstimatedMemoryBytes(bytes int64)         {}
func (n *NoOpCollector) SetMinimumCounter(value int64)               {}
func (n *NoOpCollector) Collect(ch chan<- prometheus.Metric)         {}
