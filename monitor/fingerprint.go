// Package monitor - fingerprint.go scores drift of the response text profile.
package monitor

import "math"

// Component weights. Token count and entropy dominate: a refusal or a
// degeneration loop moves those two first.
const (
	fpWeightTokens    = 0.3
	fpWeightSentences = 0.2
	fpWeightSentLen   = 0.2
	fpWeightEntropy   = 0.3
)

// Drift cutoffs share the value scale of the other engines: an error
// verdict carries value >= 0.6.
const (
	fpWarnValue  = 0.3
	fpErrorValue = 0.6
)

// FingerprintEngine measures how far the response profile drifted from the
// baseline profile. Each component contributes its relative difference; a
// refusal-style collapse (drastically shorter, lower-entropy text) drives
// every component toward 1.
type FingerprintEngine struct{}

func (FingerprintEngine) Name() string { return MetricFingerprint }

func (FingerprintEngine) Evaluate(s *Sample, b *Baseline) EngineResult {
	cur, base := s.Fingerprint, b.Fingerprint
	dTokens := relDiff(cur.Tokens, base.Tokens)
	dSentences := relDiff(cur.Sentences, base.Sentences)
	dSentLen := relDiff(cur.AvgSentenceLen, base.AvgSentenceLen)
	dEntropy := relDiff(cur.Entropy, base.Entropy)
	value := clamp01(fpWeightTokens*dTokens +
		fpWeightSentences*dSentences +
		fpWeightSentLen*dSentLen +
		fpWeightEntropy*dEntropy)
	status := StatusOK
	switch {
	case value >= fpErrorValue:
		status = StatusError
	case value >= fpWarnValue:
		status = StatusWarn
	}
	return EngineResult{
		Metric: MetricFingerprint,
		Status: status,
		Value:  value,
		Details: map[string]any{
			"tokens_diff":           dTokens,
			"sentences_diff":        dSentences,
			"avg_sentence_len_diff": dSentLen,
			"entropy_diff":          dEntropy,
			"current":               cur,
			"baseline":              base,
		},
	}
}

// relDiff is |a-b| normalized by the larger magnitude, 0 when both are 0.
// Always lands in [0,1] for non-negative inputs.
func relDiff(a, b float64) float64 {
	m := math.Max(math.Abs(a), math.Abs(b))
	if m == 0 {
		return 0
	}
	return math.Abs(a-b) / m
}
