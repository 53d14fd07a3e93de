package metrics

// NewCollector creates a metric collector for a sketch instance identified
// by name and ds_type (e.g. "NitroCMS", "FACS").
func NewCollector(name, dsType string) Collector {
	labels := map[string]string{
		"name":    name,
		"ds_type": dsType,
	}
	return NewPrometheusCollector(labels)
}

// Collector defines the interface for metric collection operations on a
// running sketch benchmark. It allows the driver to record operation
// counts against either real Prometheus series or a no-op sink without
// conditional checks on the hot path.
type Collector interface {
	AddIncrements(count int64)
	AddQueries(count int64)
	IncCapacityEvent(reason CapacityEventReason)
	SetEstimatedMemoryBytes(bytes int64)
	SetMinimumCounter(value int64)
}
