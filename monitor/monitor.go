// Package monitor wraps text-generation calls with runtime health checks.
//
// DESIGN: One Monitor owns one adaptive baseline. The wrapped generator call
// runs without any lock so calls overlap freely; scoring, the baseline
// update, and hook dispatch run in a single critical section per instance.
// Every engine reads the baseline as it stood before the current call's
// update: a call is judged against history, never against itself.
//
// FILES:
//   - monitor.go:     Monitor wrapper, Generate/Observe, snapshots
//   - sample.go:      Call sample construction, fingerprint capture
//   - baseline.go:    EMA baseline state
//   - engine.go:      Engine contract, Status enum
//   - latency.go, tokenrate.go, fingerprint.go, structure.go: engines
//   - aggregate.go:   Score fusion, Health enum
//   - report.go:      Health report, JSON attachment
//   - hooks.go:       Hooks interface, edge dispatcher
package monitor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/modelpulse/modelpulse/llm"
)

// ErrNoGenerator is returned by Generate when the Monitor was built without
// a generator (offline Observe-only use).
var ErrNoGenerator = errors.New("monitor has no generator")

// Result is the wrapped generator response augmented with its health report.
type Result struct {
	llm.Response
	Report *Report
}

// Monitor wraps an llm.Generator with per-call health scoring.
type Monitor struct {
	gen     llm.Generator
	cfg     Config
	engines []Engine

	mu         sync.Mutex
	baseline   Baseline
	lastHealth Health
	disp       *dispatcher
}

// New builds a Monitor from an immutable config snapshot. gen may be nil
// for offline use via Observe; Generate then returns ErrNoGenerator.
func New(gen llm.Generator, cfg Config) (*Monitor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid monitor config: %w", err)
	}
	return &Monitor{
		gen:        gen,
		cfg:        cfg,
		engines:    buildEngines(cfg),
		lastHealth: HealthStable,
		disp:       newDispatcher(cfg.Hooks),
	}, nil
}

// buildEngines instantiates enabled engines in report order.
func buildEngines(cfg Config) []Engine {
	var engines []Engine
	if cfg.Engines.Latency {
		engines = append(engines, LatencyEngine{
			WarnRatio:  cfg.Thresholds.LatencyWarnRatio,
			ErrorRatio: cfg.Thresholds.LatencyErrorRatio,
		})
	}
	if cfg.Engines.TokenRate {
		engines = append(engines, TokenRateEngine{
			WarnRatio:  cfg.Thresholds.TokenRateWarnRatio,
			ErrorRatio: cfg.Thresholds.TokenRateErrorRatio,
		})
	}
	if cfg.Engines.Fingerprint {
		engines = append(engines, FingerprintEngine{})
	}
	if cfg.Engines.Structure {
		engines = append(engines, StructureEngine{Gating: cfg.StructureGating})
	}
	return engines
}

// Generate performs one monitored call. Generator failures propagate
// verbatim: no sample is recorded, the baseline does not move, no hooks
// fire. On success the response is scored against the pre-call baseline and
// then committed into it.
func (m *Monitor) Generate(ctx context.Context, req llm.Request) (*Result, error) {
	if m.gen == nil {
		return nil, ErrNoGenerator
	}
	start := time.Now()
	resp, err := m.gen.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	latencyMs := time.Since(start).Seconds() * 1000.0
	sample := NewSample(req.Prompt, req.Model, resp.Text, resp.TokenCount, latencyMs)
	report := m.Observe(sample)
	return &Result{Response: *resp, Report: report}, nil
}

// Observe scores an externally built sample through the same critical
// section as Generate and commits it into the baseline. It exists for
// offline analysis of recorded traffic; the replay tooling is built on it.
func (m *Monitor) Observe(sample Sample) *Report {
	m.mu.Lock()
	defer m.mu.Unlock()

	warmup := m.baseline.SampleCount < int64(m.cfg.MinSamples)
	results := m.evaluate(&sample, warmup)
	score, health := aggregate(results, m.cfg.StructureGating)
	report := &Report{
		Health:          health,
		Score:           score,
		Engines:         results,
		Recommendations: recommendations(results),
		Warmup:          warmup,
		Call: CallInfo{
			ID:              sample.ID,
			Timestamp:       sample.Timestamp,
			Model:           sample.Model,
			LatencyMs:       sample.LatencyMs,
			ResponseTokens:  sample.ResponseTokens,
			TokensPerSecond: sample.TokensPerSecond(),
			PromptChars:     len(sample.Prompt),
			ResponseChars:   len(sample.ResponseText),
		},
	}

	m.baseline.update(&sample, m.cfg.LearningRate)
	m.lastHealth = health

	log.Debug().
		Str("sample_id", sample.ID).
		Str("model", sample.Model).
		Float64("latency_ms", sample.LatencyMs).
		Float64("score", score).
		Str("health", string(health)).
		Bool("warmup", warmup).
		Msg("health_check")

	m.disp.dispatch(report)
	return report
}

// evaluate runs enabled engines against the pre-update baseline. During
// warm-up every engine is forced to an ok/0 verdict regardless of measured
// values.
func (m *Monitor) evaluate(sample *Sample, warmup bool) []EngineResult {
	results := make([]EngineResult, 0, len(m.engines))
	for _, e := range m.engines {
		if warmup {
			results = append(results, okResult(e.Name(), map[string]any{
				"warm_up":     true,
				"samples":     m.baseline.SampleCount,
				"min_samples": m.cfg.MinSamples,
			}))
			continue
		}
		results = append(results, m.runEngine(e, sample))
	}
	return results
}

// runEngine isolates a single engine evaluation. A panic becomes an
// error-status result with value 0.5: the signal is unavailable, which
// surfaces in the report without forcing the bucket to unstable on its own.
func (m *Monitor) runEngine(e Engine, sample *Sample) (res EngineResult) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Error().
				Str("engine", e.Name()).
				Str("panic", fmt.Sprint(rec)).
				Msg("engine_panic_recovered")
			res = EngineResult{
				Metric: e.Name(),
				Status: StatusError,
				Value:  0.5,
				Details: map[string]any{
					"internal_error": fmt.Sprint(rec),
				},
			}
		}
	}()
	return e.Evaluate(sample, &m.baseline)
}

// Baseline returns a value snapshot of the adaptive baseline. Mutating the
// copy has no effect on the monitor.
func (m *Monitor) Baseline() Baseline {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.baseline
}

// ResetBaseline clears the baseline and re-enters warm-up. Last health and
// the hook edge state reset with it, so the next reports are judged as a
// fresh sequence rather than against discarded history.
func (m *Monitor) ResetBaseline() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.baseline = Baseline{}
	m.lastHealth = HealthStable
	m.disp.reset()
	log.Info().Msg("baseline_reset")
}

// LastHealth returns the health of the most recent report, HealthStable
// before any call.
func (m *Monitor) LastHealth() Health {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastHealth
}
