package driver

import (
	"github.com/morestreaming/sketches/internal"
	"github.com/morestreaming/sketches/pkg/capability"
)

// TimingReport holds the outcome of a timing-mode run.
type TimingReport struct {
	TimeType          TimeType
	Arrivals          int
	InsertMicros      int64
	QueryMicros       int64
	EstimatedMemBytes uint64
}

// runTiming executes cfg.TimeType's loop shape against sk over flows,
// recording wall-clock microseconds with internal.NowMicro, which is
// measurably cheaper than time.Now() at this call frequency.
func runTiming(cfg Config, flows []FlowID, sk capability.Sketch, collector Collector) *TimingReport {
	report := &TimingReport{TimeType: cfg.TimeType, Arrivals: len(flows)}

	switch cfg.TimeType {
	case WriteTime:
		start := internal.NowMicro()
		for _, f := range flows {
			sk.ItemIncrement(f.Bytes())
		}
		report.InsertMicros = internal.NowMicro() - start
		collector.AddIncrements(int64(len(flows)))

	case RWTime:
		start := internal.NowMicro()
		for _, f := range flows {
			b := f.Bytes()
			sk.ItemIncrement(b)
			sk.ItemQuery(b)
		}
		elapsed := internal.NowMicro() - start
		report.InsertMicros = elapsed
		report.QueryMicros = elapsed
		collector.AddIncrements(int64(len(flows)))
		collector.AddQueries(int64(len(flows)))

	case ReadTime:
		for _, f := range flows {
			sk.ItemIncrement(f.Bytes())
		}
		collector.AddIncrements(int64(len(flows)))

		start := internal.NowMicro()
		for _, f := range flows {
			sk.ItemQuery(f.Bytes())
		}
		report.QueryMicros = internal.NowMicro() - start
		collector.AddQueries(int64(len(flows)))
	}

	report.EstimatedMemBytes = sk.EstimatedMemoryBytes()
	collector.SetEstimatedMemoryBytes(int64(report.EstimatedMemBytes))
	reportCapacityState(sk, collector)

	return report
}
