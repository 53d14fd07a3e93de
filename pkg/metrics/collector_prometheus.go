package metrics

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

var _ Collector = (*PrometheusCollector)(nil)

// PrometheusCollector implements Collector using Prometheus metrics.
type PrometheusCollector struct {
	labels prometheus.Labels

	incrementCount int64
	queryCount     int64
	capacityEvents map[string]*int64

	memoryBytes    int64
	minimumCounter int64

	incrementDesc *prometheus.Desc
	queryDesc     *prometheus.Desc
	capacityDesc  *prometheus.Desc
	memoryDesc    *prometheus.Desc
	minimumDesc   *prometheus.Desc
}

// NewPrometheusCollector creates a new Prometheus-based metric collector
// for a sketch instance identified by labels.
func NewPrometheusCollector(labels map[string]string) *PrometheusCollector {
	c := &PrometheusCollector{
		labels:         prometheus.Labels(labels),
		capacityEvents: make(map[string]*int64),
	}

	for _, reason := range CapacityEventReasons {
		var count int64
		c.capacityEvents[string(reason)] = &count
	}

	c.incrementDesc = prometheus.NewDesc(
		"sketch_increment_total",
		"Total number of item_increment calls observed",
		nil, labels,
	)
	c.queryDesc = prometheus.NewDesc(
		"sketch_query_total",
		"Total number of item_query calls observed",
		nil, labels,
	)
	c.capacityDesc = prometheus.NewDesc(
		"sketch_capacity_event_total",
		"Total number of capacity-pressure events (rebucket exhaustion, RAP refusal)",
		[]string{"reason"}, labels,
	)
	c.memoryDesc = prometheus.NewDesc(
		"sketch_estimated_memory_bytes",
		"Most recently observed estimated memory footprint of the sketch",
		nil, labels,
	)
	c.minimumDesc = prometheus.NewDesc(
		"sketch_minimum_counter",
		"Current minimum counter value (meaningful for Space-Saving)",
		nil, labels,
	)

	return c
}

func (p *PrometheusCollector) AddIncrements(count int64) {
	atomic.AddInt64(&p.incrementCount, count)
}

func (p *PrometheusCollector) AddQueries(count int64) {
	atomic.AddInt64(&p.queryCount, count)
}

func (p *PrometheusCollector) IncCapacityEvent(reason CapacityEventReason) {
	if counter, ok := p.capacityEvents[string(reason)]; ok {
		atomic.AddInt64(counter, 1)
		return
	}
	var count int64
	atomic.AddInt64(&count, 1)
	p.capacityEvents[string(reason)] = &count
}

func (p *PrometheusCollector) SetEstimatedMemoryBytes(bytes int64) {
	atomic.StoreInt64(&p.memoryBytes, bytes)
}

func (p *PrometheusCollector) SetMinimumCounter(value int64) {
	atomic.StoreInt64(&p.minimumCounter, value)
}

// Describe implements prometheus.Collector.
func (p *PrometheusCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- p.incrementDesc
	ch <- p.queryDesc
	ch <- p.capacityDesc
	ch <- p.memoryDesc
	ch <- p.minimumDesc
}

// Collect implements prometheus.Collector.
func (p *PrometheusCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(p.incrementDesc, prometheus.CounterValue, float64(atomic.LoadInt64(&p.incrementCount)))
	ch <- prometheus.MustNewConstMetric(p.queryDesc, prometheus.CounterValue, float64(atomic.LoadInt64(&p.queryCount)))
	ch <- prometheus.MustNewConstMetric(p.memoryDesc, prometheus.GaugeValue, float64(atomic.LoadInt64(&p.memoryBytes)))
	ch <- prometheus.MustNewConstMetric(p.minimumDesc, prometheus.GaugeValue, float64(atomic.LoadInt64(&p.minimumCounter)))

	for reason, counter := range p.capacityEvents {
		ch <- prometheus.MustNewConstMetric(p.capacityDesc, prometheus.CounterValue, float64(atomic.LoadInt64(counter)), reason)
	}
}
