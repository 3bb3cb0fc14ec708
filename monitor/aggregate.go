// Package monitor - aggregate.go fuses engine results into one verdict.
//
// DESIGN: Worst-signal weighting. The score is a status-weighted mean of
// engine values, floored by the highest error-status value, so a single
// severe signal is never averaged away by healthy ones but also cannot push
// health past its own severity.
package monitor

// Health is the aggregate verdict bucket.
type Health string

const (
	HealthStable   Health = "stable"
	HealthMinor    Health = "minor_variation"
	HealthDegraded Health = "degraded"
	HealthUnstable Health = "unstable"
)

// Score bucket upper bounds.
const (
	stableMax   = 0.25
	minorMax    = 0.5
	degradedMax = 0.75
)

// rank orders health buckets from best (0) to worst (3).
func rank(h Health) int {
	switch h {
	case HealthStable:
		return 0
	case HealthMinor:
		return 1
	case HealthDegraded:
		return 2
	default:
		return 3
	}
}

// statusWeight biases the mean toward the more severe verdicts.
func statusWeight(s Status) float64 {
	switch s {
	case StatusError:
		return 4
	case StatusWarn:
		return 2
	default:
		return 1
	}
}

// aggregate computes the overall score and bucket. Structure results count
// only when gating is enabled; otherwise they are informational and stay out
// of the math.
func aggregate(results []EngineResult, structureGating bool) (float64, Health) {
	var weighted, weights, floor float64
	for _, r := range results {
		if r.Metric == MetricStructure && !structureGating {
			continue
		}
		w := statusWeight(r.Status)
		weighted += w * r.Value
		weights += w
		if r.Status == StatusError && r.Value > floor {
			floor = r.Value
		}
	}
	score := 0.0
	if weights > 0 {
		score = weighted / weights
	}
	if floor > score {
		score = floor
	}
	score = clamp01(score)
	return score, bucket(score)
}

// bucket maps a score to its health band.
func bucket(score float64) Health {
	switch {
	case score <= stableMax:
		return HealthStable
	case score <= minorMax:
		return HealthMinor
	case score <= degradedMax:
		return HealthDegraded
	default:
		return HealthUnstable
	}
}

// recommendations produces short operator hints for non-ok engines.
func recommendations(results []EngineResult) []string {
	var recs []string
	for _, r := range results {
		if r.Status == StatusOK {
			continue
		}
		switch r.Metric {
		case MetricLatency:
			recs = append(recs, "latency is drifting above baseline; check provider load or reduce request size")
		case MetricTokenRate:
			recs = append(recs, "token throughput dropped below baseline; the provider may be throttling")
		case MetricFingerprint:
			recs = append(recs, "response shape drifted from baseline; inspect recent responses for refusals or truncation")
		case MetricStructure:
			recs = append(recs, "response structure is damaged; check for truncated output")
		}
	}
	return recs
}
