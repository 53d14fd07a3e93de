package driver

import (
	"math"

	"github.com/morestreaming/sketches/pkg/capability"
)

// ErrorStats is one error-statistic family: mean-squared-root,
// mean-absolute, and mean-absolute-relative, aggregated over whatever
// observation set the family is defined against.
type ErrorStats struct {
	MeanSquaredRoot      float64
	MeanAbsolute         float64
	MeanAbsoluteRelative float64
}

// AccuracyReport holds the three error-statistic families computed by
// runAccuracy.
type AccuracyReport struct {
	OnArrival         ErrorStats
	PerFlow           ErrorStats
	PMW               ErrorStats
	DistinctFlows     int
	EstimatedMemBytes uint64
}

type errorAccumulator struct {
	sumSquared  float64
	sumAbsolute float64
	sumRelative float64
	n           int
}

func (a *errorAccumulator) add(estimate, truth uint64) {
	diff := float64(estimate) - float64(truth)
	a.sumSquared += diff * diff
	a.sumAbsolute += math.Abs(diff)
	if truth > 0 {
		a.sumRelative += math.Abs(diff) / float64(truth)
	}
	a.n++
}

func (a *errorAccumulator) stats() ErrorStats {
	if a.n == 0 {
		return ErrorStats{}
	}
	n := float64(a.n)
	return ErrorStats{
		MeanSquaredRoot:      math.Sqrt(a.sumSquared / n),
		MeanAbsolute:         a.sumAbsolute / n,
		MeanAbsoluteRelative: a.sumRelative / n,
	}
}

// runAccuracy maintains an exact reference count alongside sk and, for
// every arrival, records the on-arrival error (estimate vs. truth at the
// moment of arrival). After ingestion it computes the per-distinct-flow
// error (estimate vs. final truth, once per distinct flow) and the PMW
// family: one observation per arrival, each compared against that flow's
// final true count rather than its running count at the time.
func runAccuracy(cfg Config, flows []FlowID, sk capability.Sketch, collector Collector) *AccuracyReport {
	truth := make(map[FlowID]uint64, len(flows))

	onArrival := &errorAccumulator{}
	for _, f := range flows {
		b := f.Bytes()
		sk.ItemIncrement(b)
		truth[f]++
		onArrival.add(sk.ItemQuery(b), truth[f])
	}
	collector.AddIncrements(int64(len(flows)))

	perFlow := &errorAccumulator{}
	for f, count := range truth {
		perFlow.add(sk.ItemQuery(f.Bytes()), count)
	}

	pmw := &errorAccumulator{}
	for _, f := range flows {
		pmw.add(sk.ItemQuery(f.Bytes()), truth[f])
	}
	collector.AddQueries(int64(len(flows) + len(truth) + len(flows)))

	memBytes := sk.EstimatedMemoryBytes()
	collector.SetEstimatedMemoryBytes(int64(memBytes))
	reportCapacityState(sk, collector)

	return &AccuracyReport{
		OnArrival:         onArrival.stats(),
		PerFlow:           perFlow.stats(),
		PMW:               pmw.stats(),
		DistinctFlows:     len(truth),
		EstimatedMemBytes: memBytes,
	}
}
