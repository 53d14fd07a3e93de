package cuckoo

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddAndGet(t *testing.T) {
	is := assert.New(t)

	f := NewWithCapacity(1024, 1)
	is.NoError(f.Add([]byte("a")))
	is.NoError(f.Add([]byte("a")))
	is.Equal(uint64(2), f.Get([]byte("a")))
	is.Equal(uint64(0), f.Get([]byte("never-added")))
}

func TestContainsAfterAdd(t *testing.T) {
	is := assert.New(t)

	f := NewWithCapacity(256, 1)
	require.NoError(t, f.Add([]byte("x")))
	is.True(f.Contains([]byte("x")))
}

func TestDeleteRemovesFingerprint(t *testing.T) {
	is := assert.New(t)

	f := NewWithCapacity(256, 1)
	require.NoError(t, f.Add([]byte("x")))
	is.True(f.Delete([]byte("x")))
	is.False(f.Contains([]byte("x")))
}

func TestBucketSlotEmptyIffZeroFingerprint(t *testing.T) {
	is := assert.New(t)

	f := NewWithCapacity(64, 1)
	for i := 0; i < 20; i++ {
		_ = f.Add([]byte(fmt.Sprintf("k%d", i)))
	}

	occupied := 0
	for _, b := range f.buckets {
		for _, s := range b {
			if s.fingerprint != 0 {
				occupied++
			}
		}
	}
	is.Equal(f.Len(), occupied)
}

func TestAlternateIndexReciprocity(t *testing.T) {
	is := assert.New(t)

	f := NewWithCapacity(128, 1)
	fp, i1, i2 := f.indices([]byte("flow"))

	is.Equal(i2, altIndex(f, i1, fp))
	is.Equal(i1, altIndex(f, i2, fp))
}

func TestExportImportRoundTrip(t *testing.T) {
	is := assert.New(t)

	f := NewWithCapacity(512, 1)
	keys := make([]string, 0, 200)
	for i := 0; i < 200; i++ {
		k := fmt.Sprintf("flow-%d", i)
		keys = append(keys, k)
		require.NoError(t, f.Add([]byte(k)))
	}

	data := f.Export()
	restored, err := Import(data, 1)
	require.NoError(t, err)

	for _, k := range keys {
		is.Equal(f.Contains([]byte(k)), restored.Contains([]byte(k)))
		is.Equal(f.Get([]byte(k)), restored.Get([]byte(k)))
	}
	is.Equal(f.Len(), restored.Len())
}

func TestRebucketUnderHighLoad(t *testing.T) {
	f := NewWithCapacity(64, 1)
	var lastErr error
	for i := 0; i < 500; i++ {
		if err := f.Add([]byte(fmt.Sprintf("overload-%d", i))); err != nil {
			lastErr = err
		}
	}
	// Either it copes via rebucketing, or it reports exhaustion; both are
	// acceptable outcomes for a deliberately overloaded filter, but it must
	// never panic getting here.
	_ = lastErr
}

func TestDrainCapacityEventsReportsRebucketExhaustion(t *testing.T) {
	is := assert.New(t)

	f := NewWithCapacity(8, 1)
	sawExhaustion := false
	for i := 0; i < 2000; i++ {
		if err := f.Add([]byte(fmt.Sprintf("overload-%d", i))); err != nil {
			sawExhaustion = true
		}
	}
	require.True(t, sawExhaustion, "a severely overloaded filter must exhaust rebucketing at least once")

	events := f.DrainCapacityEvents()
	is.GreaterOrEqual(events["rebucket_exhausted"], uint64(1))
}

func TestDrainCapacityEventsResetsAfterDrain(t *testing.T) {
	is := assert.New(t)

	f := NewWithCapacity(8, 1)
	for i := 0; i < 2000; i++ {
		_ = f.Add([]byte(fmt.Sprintf("overload-%d", i)))
	}
	first := f.DrainCapacityEvents()
	is.NotEmpty(first)

	second := f.DrainCapacityEvents()
	is.Nil(second)
}
