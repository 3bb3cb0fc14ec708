// Package monitor - baseline.go holds the adaptive per-instance baseline.
//
// DESIGN: The baseline is owned by one Monitor and mutated only inside its
// critical section; callers see value copies. Averages move by an
// exponential moving average, so the monitor adapts to slow drift without
// remembering individual calls.
package monitor

// Baseline is the adaptive profile of recent successful calls.
type Baseline struct {
	AvgLatencyMs       float64     `json:"avg_latency_ms"`
	AvgTokensPerSecond float64     `json:"avg_tokens_per_second"`
	Fingerprint        Fingerprint `json:"fingerprint"`
	SampleCount        int64       `json:"sample_count"`
}

// ema moves old toward observed by rate.
func ema(old, observed, rate float64) float64 {
	return old + rate*(observed-old)
}

// update commits one sample's measurements. The first sample seeds the
// averages directly; straight EMA from zero would underestimate them for
// roughly 1/rate calls and mark everything after as degraded. A
// zero-latency sample leaves the throughput average untouched (rate
// undefined) but still advances everything else.
func (b *Baseline) update(s *Sample, rate float64) {
	tps := s.TokensPerSecond()
	if b.SampleCount == 0 {
		b.AvgLatencyMs = s.LatencyMs
		b.AvgTokensPerSecond = tps
		b.Fingerprint = s.Fingerprint
		b.SampleCount = 1
		return
	}
	b.AvgLatencyMs = ema(b.AvgLatencyMs, s.LatencyMs, rate)
	if s.LatencyMs > 0 {
		b.AvgTokensPerSecond = ema(b.AvgTokensPerSecond, tps, rate)
	}
	b.Fingerprint.Tokens = ema(b.Fingerprint.Tokens, s.Fingerprint.Tokens, rate)
	b.Fingerprint.Sentences = ema(b.Fingerprint.Sentences, s.Fingerprint.Sentences, rate)
	b.Fingerprint.AvgSentenceLen = ema(b.Fingerprint.AvgSentenceLen, s.Fingerprint.AvgSentenceLen, rate)
	b.Fingerprint.Entropy = ema(b.Fingerprint.Entropy, s.Fingerprint.Entropy, rate)
	b.SampleCount++
}
