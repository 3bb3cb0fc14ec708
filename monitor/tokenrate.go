// Package monitor - tokenrate.go flags throughput collapse against baseline.
package monitor

// TokenRateEngine compares tokens-per-second to the baseline average.
//
// Thresholds are inverted relative to latency: low ratios are bad. The value
// ramps from 0 at WarnRatio to 1 as the ratio approaches 0, so an ok verdict
// carries value 0 and faster-than-baseline throughput clamps to 0.
type TokenRateEngine struct {
	WarnRatio  float64 // warn below this fraction of baseline throughput
	ErrorRatio float64 // error below this fraction
}

func (e TokenRateEngine) Name() string { return MetricTokenRate }

func (e TokenRateEngine) Evaluate(s *Sample, b *Baseline) EngineResult {
	if s.LatencyMs <= 0 {
		return okResult(MetricTokenRate, map[string]any{"reason": "zero latency, rate undefined"})
	}
	if b.AvgTokensPerSecond <= 0 {
		return okResult(MetricTokenRate, map[string]any{"reason": "no baseline throughput"})
	}
	tps := s.TokensPerSecond()
	ratio := tps / b.AvgTokensPerSecond
	value := 0.0
	if ratio < e.WarnRatio {
		value = clamp01((e.WarnRatio - ratio) / e.WarnRatio)
	}
	status := StatusOK
	switch {
	case ratio < e.ErrorRatio:
		status = StatusError
	case ratio < e.WarnRatio:
		status = StatusWarn
	}
	return EngineResult{
		Metric: MetricTokenRate,
		Status: status,
		Value:  value,
		Details: map[string]any{
			"tokens_per_second":     tps,
			"avg_tokens_per_second": b.AvgTokensPerSecond,
			"ratio":                 ratio,
		},
	}
}
