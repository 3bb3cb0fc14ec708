// Package monitor - config.go defines construction-time configuration.
//
// DESIGN: Config is a plain value handed to New and kept immutably for the
// monitor's lifetime. No globals, no reload. The zero value is not usable:
// start from DefaultConfig and override.
package monitor

import (
	"fmt"
	"math"
)

// Thresholds are the ratio cutoffs for the latency and token-rate engines.
// Latency ratios are observed/baseline latency (high is bad); token-rate
// ratios are observed/baseline throughput (low is bad).
type Thresholds struct {
	LatencyWarnRatio    float64
	LatencyErrorRatio   float64
	TokenRateWarnRatio  float64
	TokenRateErrorRatio float64
}

// Engines toggles individual signal engines. A disabled engine is skipped
// entirely and produces no result entry.
type Engines struct {
	Latency     bool
	TokenRate   bool
	Fingerprint bool
	Structure   bool
}

// Config configures one Monitor instance.
type Config struct {
	Thresholds Thresholds

	// LearningRate is the EMA coefficient in (0,1]: the weight of the
	// newest sample in every baseline average.
	LearningRate float64

	// MinSamples is the warm-up length. Below this many committed samples
	// every engine reports ok and health stays stable.
	MinSamples int

	Engines Engines

	// StructureGating lets the structure engine contribute to health
	// instead of being diagnostic-only.
	StructureGating bool

	// Hooks receives health reports and transition callbacks; nil means
	// none.
	Hooks Hooks
}

// DefaultConfig returns the stock tuning.
func DefaultConfig() Config {
	return Config{
		Thresholds: Thresholds{
			LatencyWarnRatio:    1.5,
			LatencyErrorRatio:   3.0,
			TokenRateWarnRatio:  0.7,
			TokenRateErrorRatio: 0.3,
		},
		LearningRate: 0.1,
		MinSamples:   5,
		Engines: Engines{
			Latency:     true,
			TokenRate:   true,
			Fingerprint: true,
			Structure:   true,
		},
	}
}

// Validate rejects configurations that would corrupt scoring. Every numeric
// field must be finite; NaN thresholds would poison every comparison after.
func (c Config) Validate() error {
	if notFinite(c.LearningRate) || c.LearningRate <= 0 || c.LearningRate > 1 {
		return fmt.Errorf("learning_rate must be in (0,1], got %v", c.LearningRate)
	}
	if c.MinSamples < 1 {
		return fmt.Errorf("min_samples must be >= 1, got %d", c.MinSamples)
	}
	t := c.Thresholds
	if notFinite(t.LatencyWarnRatio) || t.LatencyWarnRatio <= 0 {
		return fmt.Errorf("latency_warn_ratio must be a positive finite number, got %v", t.LatencyWarnRatio)
	}
	if notFinite(t.LatencyErrorRatio) || t.LatencyErrorRatio <= 0 {
		return fmt.Errorf("latency_error_ratio must be a positive finite number, got %v", t.LatencyErrorRatio)
	}
	if t.LatencyErrorRatio <= t.LatencyWarnRatio {
		return fmt.Errorf("latency_error_ratio %v must exceed latency_warn_ratio %v", t.LatencyErrorRatio, t.LatencyWarnRatio)
	}
	if notFinite(t.TokenRateWarnRatio) || t.TokenRateWarnRatio <= 0 {
		return fmt.Errorf("token_rate_warn_ratio must be a positive finite number, got %v", t.TokenRateWarnRatio)
	}
	if notFinite(t.TokenRateErrorRatio) || t.TokenRateErrorRatio <= 0 {
		return fmt.Errorf("token_rate_error_ratio must be a positive finite number, got %v", t.TokenRateErrorRatio)
	}
	if t.TokenRateErrorRatio >= t.TokenRateWarnRatio {
		return fmt.Errorf("token_rate_error_ratio %v must be below token_rate_warn_ratio %v", t.TokenRateErrorRatio, t.TokenRateWarnRatio)
	}
	return nil
}

func notFinite(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}
