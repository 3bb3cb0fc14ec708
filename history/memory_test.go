package history_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modelpulse/modelpulse/history"
)

// =============================================================================
// MEMORY SINK
// =============================================================================

func TestMemorySink_RecentNewestFirst(t *testing.T) {
	sink := history.NewMemorySink(8)

	require.NoError(t, sink.Record(mkRecord("s-1", "stable", 0.1)))
	require.NoError(t, sink.Record(mkRecord("s-2", "degraded", 0.6)))
	require.NoError(t, sink.Record(mkRecord("s-3", "unstable", 0.9)))

	recs := sink.Recent(2)
	require.Len(t, recs, 2)
	assert.Equal(t, "s-3", recs[0].SampleID)
	assert.Equal(t, "s-2", recs[1].SampleID)
	assert.Equal(t, 3, sink.Len())
}

func TestMemorySink_EvictsOldestWhenFull(t *testing.T) {
	sink := history.NewMemorySink(3)

	for i := 1; i <= 5; i++ {
		require.NoError(t, sink.Record(mkRecord(fmt.Sprintf("s-%d", i), "stable", 0.1)))
	}

	assert.Equal(t, 3, sink.Len())
	recs := sink.Recent(10)
	require.Len(t, recs, 3)
	assert.Equal(t, "s-5", recs[0].SampleID)
	assert.Equal(t, "s-4", recs[1].SampleID)
	assert.Equal(t, "s-3", recs[2].SampleID)
}

func TestMemorySink_CountByHealth(t *testing.T) {
	sink := history.NewMemorySink(16)

	for _, h := range []string{"stable", "stable", "unstable"} {
		require.NoError(t, sink.Record(mkRecord("s", h, 0.5)))
	}

	counts := sink.CountByHealth()
	assert.Equal(t, int64(2), counts["stable"])
	assert.Equal(t, int64(1), counts["unstable"])
}

func TestMemorySink_ZeroCapacityGetsDefault(t *testing.T) {
	sink := history.NewMemorySink(0)
	for i := 0; i < history.DefaultMemoryCapacity+10; i++ {
		require.NoError(t, sink.Record(mkRecord("s", "stable", 0.1)))
	}
	assert.Equal(t, history.DefaultMemoryCapacity, sink.Len())
}

func TestMemorySink_RecentNonPositiveLimit(t *testing.T) {
	sink := history.NewMemorySink(8)
	require.NoError(t, sink.Record(mkRecord("s-1", "stable", 0.1)))

	assert.Empty(t, sink.Recent(0))
	assert.Empty(t, sink.Recent(-1))
}

func TestMemorySink_CloseDiscardsAndSilences(t *testing.T) {
	sink := history.NewMemorySink(4)
	require.NoError(t, sink.Record(mkRecord("s-1", "stable", 0.1)))

	require.NoError(t, sink.Close())
	assert.Zero(t, sink.Len())
	assert.Empty(t, sink.Recent(5))

	// Records after Close are dropped, not stored, not a panic.
	assert.NoError(t, sink.Record(mkRecord("s-2", "stable", 0.1)))
	assert.Zero(t, sink.Len())
}

func TestMemorySink_ConcurrentRecord(t *testing.T) {
	sink := history.NewMemorySink(64)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				_ = sink.Record(mkRecord("s", "stable", 0.1))
				_ = sink.Recent(5)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 64, sink.Len())
	assert.Equal(t, int64(64), sink.CountByHealth()["stable"])
}
