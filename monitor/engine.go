// Package monitor - engine.go defines the signal engine contract.
//
// DESIGN: Engines are pure evaluations of one sample against the baseline as
// it stood before that sample's update. They never mutate state and never
// return Go errors: an engine that cannot judge (warm-up, division guards)
// reports StatusOK with value 0, and an engine that panics is converted to a
// StatusError result by the monitor so one broken signal cannot take down
// the rest.
package monitor

// Status classifies a single engine verdict.
type Status string

const (
	StatusOK    Status = "ok"
	StatusWarn  Status = "warn"
	StatusError Status = "error"
)

// Engine metric names, in report order.
const (
	MetricLatency     = "latency"
	MetricTokenRate   = "token_rate"
	MetricFingerprint = "fingerprint"
	MetricStructure   = "structure"
)

// EngineResult is one engine's verdict for one call. Value is a severity in
// [0,1], monotone in the size of the deviation.
type EngineResult struct {
	Metric  string         `json:"metric"`
	Status  Status         `json:"status"`
	Value   float64        `json:"value"`
	Details map[string]any `json:"details,omitempty"`
}

// Engine evaluates one sample against the pre-update baseline.
type Engine interface {
	Name() string
	Evaluate(s *Sample, b *Baseline) EngineResult
}

// okResult is the warm-up / guard sentinel verdict.
func okResult(metric string, details map[string]any) EngineResult {
	return EngineResult{Metric: metric, Status: StatusOK, Value: 0, Details: details}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
