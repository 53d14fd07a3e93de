package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/morestreaming/sketches/pkg/metrics"
)

// fakeCollector records every call made to it, so tests can assert on
// what the driver forwarded without going through Prometheus's own
// registry machinery.
type fakeCollector struct {
	capacityEvents map[metrics.CapacityEventReason]int64
	minimumCounter int64
}

func newFakeCollector() *fakeCollector {
	return &fakeCollector{capacityEvents: make(map[metrics.CapacityEventReason]int64)}
}

func (f *fakeCollector) AddIncrements(count int64) {}
func (f *fakeCollector) AddQueries(count int64)    {}
func (f *fakeCollector) IncCapacityEvent(reason metrics.CapacityEventReason) {
	f.capacityEvents[reason]++
}
func (f *fakeCollector) SetEstimatedMemoryBytes(bytes int64) {}
func (f *fakeCollector) SetMinimumCounter(value int64)       { f.minimumCounter = value }

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func writeFlowFile(t *testing.T, n int) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "flows.txt")

	var sb strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&sb, "1 1 1 1 2 2 2 %d\n", i%5)
	}
	require.NoError(t, os.WriteFile(path, []byte(sb.String()), 0o600))
	return path
}

func TestRunWriteTime(t *testing.T) {
	is := assert.New(t)

	path := writeFlowFile(t, 1000)
	cfg := DefaultConfig(path, DsNitroCMS)
	cfg.TimeType = WriteTime

	report, err := Run(cfg)
	require.NoError(t, err)
	is.NotNil(report.Timing)
	is.Equal(1000, report.Arrivals)
	is.GreaterOrEqual(report.Timing.InsertMicros, int64(0))
}

func TestRunAccuracyMode(t *testing.T) {
	is := assert.New(t)

	path := writeFlowFile(t, 2000)
	cfg := DefaultConfig(path, DsSpaceSaving)
	cfg.Compare = true

	report, err := Run(cfg)
	require.NoError(t, err)
	is.NotNil(report.Accuracy)
	is.Equal(5, report.Accuracy.DistinctFlows)
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig("", DsCMS)
	_, err := Run(cfg)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestRunMissingFileSurfacesError(t *testing.T) {
	cfg := DefaultConfig("/no/such/file", DsCMS)
	_, err := Run(cfg)
	assert.Error(t, err)
}

func TestReportHumanizedFields(t *testing.T) {
	is := assert.New(t)

	path := writeFlowFile(t, 500)
	cfg := DefaultConfig(path, DsFACS)

	report, err := Run(cfg)
	require.NoError(t, err)
	is.NotEmpty(report.EstimatedMemoryHuman())
}

func TestRunForwardsSpaceSavingMinimumToCollector(t *testing.T) {
	is := assert.New(t)

	path := writeFlowFile(t, 5000)
	cfg := DefaultConfig(path, DsSpaceSaving)
	cfg.Error = 0.5 // capacity round(1/eps)=2, well under 5 distinct flows, forces eviction
	collector := newFakeCollector()
	cfg.MetricsCollector = collector

	_, err := Run(cfg)
	require.NoError(t, err)
	is.Greater(collector.minimumCounter, int64(0))
}

func TestRunForwardsCuckooCapacityEventsToCollector(t *testing.T) {
	is := assert.New(t)

	path := writeFlowFile(t, 5000)
	cfg := DefaultConfig(path, DsCuckoo)
	collector := newFakeCollector()
	cfg.MetricsCollector = collector

	_, err := Run(cfg)
	require.NoError(t, err)
	// five distinct flows comfortably fit a filter sized from flowCount, so
	// this asserts the wiring runs without erroring rather than forcing an
	// exhaustion; TestDrainCapacityEventsReportsRebucketExhaustion in
	// pkg/cuckoo covers the exhaustion path itself.
	is.Len(collector.capacityEvents, 0)
}
