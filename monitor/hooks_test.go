package monitor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modelpulse/modelpulse/monitor"
)

// =============================================================================
// HOOK RECORDER
// =============================================================================

type hookRecorder struct {
	healthChecks int
	degraded     int
	unstable     int
	recovered    int
	healths      []monitor.Health
}

func (h *hookRecorder) funcs() monitor.HookFuncs {
	return monitor.HookFuncs{
		HealthCheck: func(r *monitor.Report) {
			h.healthChecks++
			h.healths = append(h.healths, r.Health)
		},
		Degraded: func(r *monitor.Report) { h.degraded++ },
		Unstable: func(r *monitor.Report) { h.unstable++ },
		Recovery: func(r *monitor.Report) { h.recovered++ },
	}
}

func healthySample() monitor.Sample {
	return monitor.NewSample("p", "test-model", steadyText, 100, 100)
}

func refusalSample() monitor.Sample {
	return monitor.NewSample("p", "test-model", "No.", 10, 400)
}

// =============================================================================
// EDGE SEMANTICS
// =============================================================================

func TestHooks_EdgeSequence(t *testing.T) {
	rec := &hookRecorder{}
	cfg := monitor.DefaultConfig()
	cfg.MinSamples = 1
	cfg.Hooks = rec.funcs()
	mon, err := monitor.New(nil, cfg)
	require.NoError(t, err)

	// healthy warm-up, healthy, two refusals, one healthy, refusal again:
	// two separate bad runs, one recovery in between.
	mon.Observe(healthySample())
	mon.Observe(healthySample())
	mon.Observe(refusalSample())
	mon.Observe(refusalSample())
	mon.Observe(healthySample())
	mon.Observe(refusalSample())

	assert.Equal(t, []monitor.Health{
		monitor.HealthStable,   // warm-up
		monitor.HealthStable,   // matches baseline
		monitor.HealthUnstable, // 4x latency, throughput collapse
		monitor.HealthUnstable, // still bad, same run
		monitor.HealthStable,   // back to normal
		monitor.HealthUnstable, // second run
	}, rec.healths)

	assert.Equal(t, 6, rec.healthChecks, "every scored call reports")
	assert.Equal(t, 2, rec.degraded, "once per bad run, not per call")
	assert.Equal(t, 2, rec.unstable)
	assert.Equal(t, 1, rec.recovered)
}

func TestHooks_EscalationFiresUnstableOnly(t *testing.T) {
	rec := &hookRecorder{}
	cfg := monitor.DefaultConfig()
	cfg.MinSamples = 1
	cfg.Engines = monitor.Engines{Latency: true}
	cfg.Hooks = rec.funcs()
	mon, err := monitor.New(nil, cfg)
	require.NoError(t, err)

	// Latency-only scoring steps one bad run through the middle bucket:
	// 2.5x baseline lands degraded, then past the error ratio, then back.
	mon.Observe(monitor.NewSample("p", "test-model", steadyText, 100, 500))
	mon.Observe(monitor.NewSample("p", "test-model", steadyText, 100, 1250))
	mon.Observe(monitor.NewSample("p", "test-model", steadyText, 100, 2400))
	mon.Observe(monitor.NewSample("p", "test-model", steadyText, 100, 600))

	assert.Equal(t, []monitor.Health{
		monitor.HealthStable,   // warm-up
		monitor.HealthDegraded, // 2.5x baseline latency
		monitor.HealthUnstable, // past the error ratio
		monitor.HealthStable,   // back under the warn ratio
	}, rec.healths)

	// Worsening inside a bad run escalates without restarting it: the
	// degraded edge fired on entry, only the unstable edge fires on top.
	assert.Equal(t, 4, rec.healthChecks)
	assert.Equal(t, 1, rec.degraded, "escalation must not refire the degraded edge")
	assert.Equal(t, 1, rec.unstable)
	assert.Equal(t, 1, rec.recovered)
}

func TestHooks_NoTransitionHooksWhileHealthy(t *testing.T) {
	rec := &hookRecorder{}
	cfg := monitor.DefaultConfig()
	cfg.MinSamples = 1
	cfg.Hooks = rec.funcs()
	mon, err := monitor.New(nil, cfg)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		mon.Observe(healthySample())
	}

	assert.Equal(t, 5, rec.healthChecks)
	assert.Zero(t, rec.degraded)
	assert.Zero(t, rec.unstable)
	assert.Zero(t, rec.recovered)
}

func TestHooks_ResetClearsEdgeState(t *testing.T) {
	rec := &hookRecorder{}
	cfg := monitor.DefaultConfig()
	cfg.MinSamples = 1
	cfg.Hooks = rec.funcs()
	mon, err := monitor.New(nil, cfg)
	require.NoError(t, err)

	mon.Observe(healthySample())
	mon.Observe(refusalSample())
	require.Equal(t, 1, rec.degraded)

	// Reset discards the bad run entirely: the warm-up report after it is
	// stable, and that must not read as a recovery from the old run.
	mon.ResetBaseline()
	mon.Observe(healthySample())

	assert.Zero(t, rec.recovered)
	assert.Equal(t, 1, rec.degraded)
}

// =============================================================================
// PANIC ISOLATION
// =============================================================================

func TestHooks_PanicDoesNotEscapeObserve(t *testing.T) {
	cfg := monitor.DefaultConfig()
	cfg.MinSamples = 1
	cfg.Hooks = monitor.HookFuncs{
		HealthCheck: func(r *monitor.Report) { panic("hook gone wrong") },
	}
	mon, err := monitor.New(nil, cfg)
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		rep := mon.Observe(healthySample())
		require.NotNil(t, rep)
	})
	assert.Equal(t, int64(1), mon.Baseline().SampleCount)
}

func TestCombineHooks_IsolatesPanickingTarget(t *testing.T) {
	rec := &hookRecorder{}
	panicky := monitor.HookFuncs{
		HealthCheck: func(r *monitor.Report) { panic("first target down") },
	}

	cfg := monitor.DefaultConfig()
	cfg.MinSamples = 1
	cfg.Hooks = monitor.CombineHooks(panicky, rec.funcs())
	mon, err := monitor.New(nil, cfg)
	require.NoError(t, err)

	mon.Observe(healthySample())

	// The second target still sees the report.
	assert.Equal(t, 1, rec.healthChecks)
}

func TestHookFuncs_NilFieldsAreSafe(t *testing.T) {
	var h monitor.HookFuncs
	assert.NotPanics(t, func() {
		h.OnHealthCheck(&monitor.Report{})
		h.OnDegraded(&monitor.Report{})
		h.OnUnstable(&monitor.Report{})
		h.OnRecovery(&monitor.Report{})
	})
}

func TestNopHooks_ImplementsInterface(t *testing.T) {
	var _ monitor.Hooks = monitor.NopHooks{}
	assert.NotPanics(t, func() {
		monitor.NopHooks{}.OnHealthCheck(&monitor.Report{})
	})
}
