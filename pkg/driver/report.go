package driver

import (
	"github.com/dustin/go-humanize"
)

// Report is the structured outcome of a benchmark Run. Exactly one of
// Timing or Accuracy is populated, depending on cfg.Compare. The driver
// never formats or prints this itself (callers decide presentation); the
// humanized fields exist because downstream formatting of a byte count or
// a throughput figure is data derivation, not console output.
type Report struct {
	DsType   DsType
	Arrivals int

	Timing   *TimingReport
	Accuracy *AccuracyReport
}

// EstimatedMemoryHuman renders the sketch's estimated memory footprint as
// a human-readable size (e.g. "1.2 MB").
func (r *Report) EstimatedMemoryHuman() string {
	var bytes uint64
	switch {
	case r.Timing != nil:
		bytes = r.Timing.EstimatedMemBytes
	case r.Accuracy != nil:
		bytes = r.Accuracy.EstimatedMemBytes
	}
	return humanize.Bytes(bytes)
}

// ThroughputHuman renders inserts-per-second for a timing report as a
// comma-grouped integer (e.g. "1,234,567"), or "" when there is no timing
// report or no elapsed time to divide by.
func (r *Report) ThroughputHuman() string {
	if r.Timing == nil || r.Timing.InsertMicros <= 0 {
		return ""
	}
	perSecond := float64(r.Timing.Arrivals) / (float64(r.Timing.InsertMicros) / 1e6)
	return humanize.Comma(int64(perSecond))
}
