package driver

import (
	"fmt"

	"github.com/morestreaming/sketches/pkg/metrics"
)

// Run ingests cfg.FilePath, builds the sketch cfg.DsType selects, and
// executes either the accuracy loop (cfg.Compare) or the timing loop
// cfg.TimeType selects, returning a structured Report.
//
// A Config.Validate failure aborts the run before the input file is opened.
// Ingestion errors (file unreadable) abort the run and are returned
// wrapped; malformed individual lines are dropped silently by ReadFlows.
// Sketch construction errors (unrecognized ds_type, FPDASH) also abort the
// run. There is no other failure path: sketch mutation in this module
// cannot fail except through the Cuckoo family's bounded rebucketing,
// which is swallowed behind capability.Sketch and surfaced only as a
// capacity-event metric.
func Run(cfg Config) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	flows, err := ReadFlows(cfg.FilePath)
	if err != nil {
		return nil, err
	}

	sk, err := BuildSketch(cfg, len(flows))
	if err != nil {
		return nil, fmt.Errorf("driver: building sketch: %w", err)
	}

	collector := cfg.MetricsCollector
	if collector == nil {
		collector = &metrics.NoOpCollector{}
	}

	report := &Report{DsType: cfg.DsType, Arrivals: len(flows)}

	if cfg.Compare {
		report.Accuracy = runAccuracy(cfg, flows, sk, collector)
	} else {
		report.Timing = runTiming(cfg, flows, sk, collector)
	}

	return report, nil
}
