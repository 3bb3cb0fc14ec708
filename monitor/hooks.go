// Package monitor - hooks.go dispatches lifecycle callbacks on health edges.
//
// DESIGN: Transition hooks fire on edges between consecutive reports, not on
// levels: OnDegraded once per maximal degraded-or-worse run, OnRecovery once
// on leaving it. Hooks run on the calling goroutine inside the monitor's
// critical section so they observe reports in commit order; keep them fast.
// A panicking hook is recovered and logged, never propagated.
package monitor

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

// Hooks receives health lifecycle callbacks. Calls are serialized per
// Monitor instance.
type Hooks interface {
	// OnHealthCheck fires after every scored call.
	OnHealthCheck(r *Report)
	// OnDegraded fires when health enters degraded or unstable from a
	// better state.
	OnDegraded(r *Report)
	// OnUnstable fires when health enters unstable.
	OnUnstable(r *Report)
	// OnRecovery fires when health returns to stable or minor_variation
	// from degraded or unstable.
	OnRecovery(r *Report)
}

// NopHooks implements Hooks with no-ops. Embed it to override selectively.
type NopHooks struct{}

func (NopHooks) OnHealthCheck(*Report) {}
func (NopHooks) OnDegraded(*Report)    {}
func (NopHooks) OnUnstable(*Report)    {}
func (NopHooks) OnRecovery(*Report)    {}

// HookFuncs adapts optional functions to Hooks. Nil fields are skipped.
type HookFuncs struct {
	HealthCheck func(*Report)
	Degraded    func(*Report)
	Unstable    func(*Report)
	Recovery    func(*Report)
}

func (h HookFuncs) OnHealthCheck(r *Report) {
	if h.HealthCheck != nil {
		h.HealthCheck(r)
	}
}

func (h HookFuncs) OnDegraded(r *Report) {
	if h.Degraded != nil {
		h.Degraded(r)
	}
}

func (h HookFuncs) OnUnstable(r *Report) {
	if h.Unstable != nil {
		h.Unstable(r)
	}
}

func (h HookFuncs) OnRecovery(r *Report) {
	if h.Recovery != nil {
		h.Recovery(r)
	}
}

// CombineHooks fans callbacks out to several hook sets. Each target is
// isolated: one panicking set does not stop the others.
func CombineHooks(hooks ...Hooks) Hooks {
	return multiHooks(hooks)
}

type multiHooks []Hooks

func (m multiHooks) OnHealthCheck(r *Report) { m.each("on_health_check", Hooks.OnHealthCheck, r) }
func (m multiHooks) OnDegraded(r *Report)    { m.each("on_degraded", Hooks.OnDegraded, r) }
func (m multiHooks) OnUnstable(r *Report)    { m.each("on_unstable", Hooks.OnUnstable, r) }
func (m multiHooks) OnRecovery(r *Report)    { m.each("on_recovery", Hooks.OnRecovery, r) }

func (m multiHooks) each(name string, fn func(Hooks, *Report), r *Report) {
	for _, h := range m {
		if h == nil {
			continue
		}
		safeDispatch(name, func(rep *Report) { fn(h, rep) }, r)
	}
}

// dispatcher tracks consecutive health states and fires edge hooks. It also
// owns the transition logging, so state changes are visible even with no
// hooks registered.
type dispatcher struct {
	hooks Hooks
	prev  Health
}

func newDispatcher(hooks Hooks) *dispatcher {
	return &dispatcher{hooks: hooks, prev: HealthStable}
}

// reset returns the edge state to stable. Used alongside baseline resets so
// the next report starts a fresh sequence.
func (d *dispatcher) reset() {
	d.prev = HealthStable
}

// dispatch fires hooks for one report and advances the edge state.
func (d *dispatcher) dispatch(r *Report) {
	prev, cur := d.prev, r.Health
	d.prev = cur

	degradedNow := rank(cur) >= rank(HealthDegraded)
	degradedBefore := rank(prev) >= rank(HealthDegraded)
	if degradedNow && !degradedBefore {
		log.Warn().
			Str("from", string(prev)).
			Str("to", string(cur)).
			Float64("score", r.Score).
			Msg("health_degraded")
	}
	if !degradedNow && degradedBefore {
		log.Info().
			Str("from", string(prev)).
			Str("to", string(cur)).
			Float64("score", r.Score).
			Msg("health_recovered")
	}

	if d.hooks == nil {
		return
	}
	safeDispatch("on_health_check", d.hooks.OnHealthCheck, r)
	if degradedNow && !degradedBefore {
		safeDispatch("on_degraded", d.hooks.OnDegraded, r)
	}
	if cur == HealthUnstable && prev != HealthUnstable {
		safeDispatch("on_unstable", d.hooks.OnUnstable, r)
	}
	if !degradedNow && degradedBefore {
		safeDispatch("on_recovery", d.hooks.OnRecovery, r)
	}
}

// safeDispatch isolates hook panics from the monitored call path.
func safeDispatch(name string, fn func(*Report), r *Report) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Error().
				Str("hook", name).
				Str("panic", fmt.Sprint(rec)).
				Msg("hook_panic_recovered")
		}
	}()
	fn(r)
}
