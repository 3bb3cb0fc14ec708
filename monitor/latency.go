// Package monitor - latency.go flags calls slower than the adaptive baseline.
package monitor

// LatencyEngine compares measured latency to the baseline average.
//
// Ratio zones: ok up to WarnRatio, warn up to ErrorRatio, error at and
// beyond. The value ramps linearly from 0 at WarnRatio to 1 at ErrorRatio,
// so an ok verdict always carries value 0 and calls faster than baseline
// clamp to 0.
type LatencyEngine struct {
	WarnRatio  float64
	ErrorRatio float64
}

func (e LatencyEngine) Name() string { return MetricLatency }

func (e LatencyEngine) Evaluate(s *Sample, b *Baseline) EngineResult {
	if b.AvgLatencyMs <= 0 {
		return okResult(MetricLatency, map[string]any{"reason": "no baseline latency"})
	}
	ratio := s.LatencyMs / b.AvgLatencyMs
	value := clamp01((ratio - e.WarnRatio) / (e.ErrorRatio - e.WarnRatio))
	status := StatusOK
	switch {
	case ratio >= e.ErrorRatio:
		status = StatusError
	case ratio > e.WarnRatio:
		status = StatusWarn
	}
	return EngineResult{
		Metric: MetricLatency,
		Status: status,
		Value:  value,
		Details: map[string]any{
			"latency_ms":     s.LatencyMs,
			"avg_latency_ms": b.AvgLatencyMs,
			"ratio":          ratio,
		},
	}
}
