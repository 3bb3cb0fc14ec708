package history_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modelpulse/modelpulse/history"
	"github.com/modelpulse/modelpulse/monitor"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

type memorySink struct {
	records []history.CallRecord
	closed  bool
}

func (m *memorySink) Record(rec history.CallRecord) error {
	m.records = append(m.records, rec)
	return nil
}

func (m *memorySink) Close() error {
	m.closed = true
	return nil
}

type failingSink struct{}

func (failingSink) Record(history.CallRecord) error { return errors.New("disk full") }
func (failingSink) Close() error                    { return nil }

func sampleReport() *monitor.Report {
	return &monitor.Report{
		Health: monitor.HealthDegraded,
		Score:  0.62,
		Engines: []monitor.EngineResult{
			{Metric: monitor.MetricLatency, Status: monitor.StatusError, Value: 0.7},
			{Metric: monitor.MetricTokenRate, Status: monitor.StatusOK, Value: 0},
		},
		Recommendations: []string{"latency is drifting"},
		Warmup:          false,
		Call: monitor.CallInfo{
			ID:              "sample-123",
			Timestamp:       time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC),
			Model:           "test-model",
			LatencyMs:       812.5,
			ResponseTokens:  64,
			TokensPerSecond: 78.8,
			PromptChars:     24,
			ResponseChars:   310,
		},
	}
}

// =============================================================================
// RECORD FLATTENING
// =============================================================================

func TestFromReport_FlattensEverything(t *testing.T) {
	rec := history.FromReport(sampleReport())

	assert.Equal(t, "sample-123", rec.SampleID)
	assert.Equal(t, "test-model", rec.Model)
	assert.Equal(t, 812.5, rec.LatencyMs)
	assert.Equal(t, 64, rec.ResponseTokens)
	assert.Equal(t, 78.8, rec.TokensPerSecond)
	assert.Equal(t, 24, rec.PromptChars)
	assert.Equal(t, 310, rec.ResponseChars)
	assert.Equal(t, "degraded", rec.Health)
	assert.Equal(t, 0.62, rec.Score)
	assert.False(t, rec.Warmup)

	require.Len(t, rec.Engines, 2)
	assert.Equal(t, history.EngineEntry{Metric: "latency", Status: "error", Value: 0.7}, rec.Engines[0])
	assert.Equal(t, history.EngineEntry{Metric: "token_rate", Status: "ok", Value: 0}, rec.Engines[1])
}

// =============================================================================
// COLLECTOR HOOK ADAPTER
// =============================================================================

func TestCollector_RecordsEveryHealthCheck(t *testing.T) {
	sink := &memorySink{}
	col := history.NewCollector(sink)

	col.OnHealthCheck(sampleReport())
	col.OnHealthCheck(sampleReport())

	require.Len(t, sink.records, 2)
	assert.Equal(t, "sample-123", sink.records[0].SampleID)
}

func TestCollector_TransitionHooksDoNotRecord(t *testing.T) {
	sink := &memorySink{}
	col := history.NewCollector(sink)

	col.OnDegraded(sampleReport())
	col.OnUnstable(sampleReport())
	col.OnRecovery(sampleReport())

	assert.Empty(t, sink.records)
}

func TestCollector_SinkFailureIsSwallowed(t *testing.T) {
	col := history.NewCollector(failingSink{})
	assert.NotPanics(t, func() {
		col.OnHealthCheck(sampleReport())
	})
}

func TestCollector_SatisfiesHooksInterface(t *testing.T) {
	var _ monitor.Hooks = history.NewCollector(&memorySink{})
}
