package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoOpCollectorSatisfiesInterface(t *testing.T) {
	var c Collector = &NoOpCollector{}
	c.AddIncrements(1)
	c.AddQueries(1)
	c.IncCapacityEvent(CapacityEventRebucketExhausted)
	c.SetEstimatedMemoryBytes(100)
	c.SetMinimumCounter(5)
}

func TestPrometheusCollectorAccumulates(t *testing.T) {
	is := assert.New(t)

	c := NewPrometheusCollector(map[string]string{"name": "test", "ds_type": "NitroCMS"})
	c.AddIncrements(3)
	c.AddIncrements(4)
	is.Equal(int64(7), c.incrementCount)

	c.IncCapacityEvent(CapacityEventRebucketExhausted)
	is.Equal(int64(1), *c.capacityEvents[string(CapacityEventRebucketExhausted)])
}

func TestNewCollectorReturnsPrometheusBacked(t *testing.T) {
	is := assert.New(t)

	c := NewCollector("bench", "FACS")
	_, ok := c.(*PrometheusCollector)
	is.True(ok)
}
