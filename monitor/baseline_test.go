package monitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// =============================================================================
// BASELINE UPDATES
// =============================================================================

func TestBaseline_FirstSampleSeedsAverages(t *testing.T) {
	var b Baseline
	s := mkSample("One two three. Four five six.", 60, 300)

	b.update(s, 0.1)

	assert.Equal(t, int64(1), b.SampleCount)
	assert.Equal(t, 300.0, b.AvgLatencyMs)
	assert.InDelta(t, s.TokensPerSecond(), b.AvgTokensPerSecond, 1e-9)
	assert.Equal(t, s.Fingerprint, b.Fingerprint)
}

func TestBaseline_EMAFormula(t *testing.T) {
	var b Baseline
	b.update(mkSample("steady answer here.", 50, 500), 0.1)

	// new = old + rate*(observed-old): 500 + 0.1*(1000-500) = 550.
	b.update(mkSample("steady answer here.", 50, 1000), 0.1)

	assert.Equal(t, int64(2), b.SampleCount)
	assert.InDelta(t, 550.0, b.AvgLatencyMs, 1e-9)
}

func TestBaseline_EMAConvergesTowardObserved(t *testing.T) {
	var b Baseline
	b.update(mkSample("x", 50, 100), 0.2)

	for i := 0; i < 50; i++ {
		b.update(mkSample("x", 50, 500), 0.2)
	}

	assert.InDelta(t, 500.0, b.AvgLatencyMs, 1.0)
	assert.Equal(t, int64(51), b.SampleCount)
}

func TestBaseline_HigherRateMovesFaster(t *testing.T) {
	var slow, fast Baseline
	slow.update(mkSample("x", 50, 100), 0.1)
	fast.update(mkSample("x", 50, 100), 0.5)

	slow.update(mkSample("x", 50, 1000), 0.1)
	fast.update(mkSample("x", 50, 1000), 0.5)

	assert.Greater(t, fast.AvgLatencyMs, slow.AvgLatencyMs)
}

func TestBaseline_ZeroLatencySampleSkipsThroughput(t *testing.T) {
	var b Baseline
	b.update(mkSample("x", 50, 500), 0.1)
	before := b.AvgTokensPerSecond

	// A zero-latency sample has no defined rate; the throughput average
	// must not be dragged toward zero by it.
	b.update(mkSample("x", 50, 0), 0.1)

	assert.Equal(t, int64(2), b.SampleCount)
	assert.InDelta(t, before, b.AvgTokensPerSecond, 1e-9)
	assert.Less(t, b.AvgLatencyMs, 500.0)
}

func TestBaseline_FingerprintComponentsTracked(t *testing.T) {
	var b Baseline
	b.update(mkSample("Alpha beta gamma. Delta epsilon zeta.", 30, 500), 0.5)
	first := b.Fingerprint

	b.update(mkSample("no", 1, 500), 0.5)

	assert.Less(t, b.Fingerprint.Tokens, first.Tokens)
	assert.Less(t, b.Fingerprint.Entropy, first.Entropy)
	assert.Less(t, b.Fingerprint.Sentences, first.Sentences)
}
