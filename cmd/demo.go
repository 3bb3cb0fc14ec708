// Package main - demo.go drives a monitored synthetic generator through a
// degradation and recovery cycle.
package main

import (
	"context"
	"flag"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/modelpulse/modelpulse/history"
	"github.com/modelpulse/modelpulse/llm"
	"github.com/modelpulse/modelpulse/monitor"
)

// demoPhase shapes the synthetic generator during a stretch of calls.
type demoPhase struct {
	name     string
	calls    int
	latency  time.Duration
	response func(i int) string
	tokens   int
}

func healthyText(i int) string {
	return fmt.Sprintf(
		"Request %d processed normally. The pipeline shows steady throughput across all stages. "+
			"Cache hit rates remain within the expected band, and no queue buildup was observed. "+
			"Recommended follow-ups:\n- keep the current window size\n- review the nightly compaction report\n- sample two traces for manual inspection.", i)
}

func degradedText(int) string {
	return "Unable to process."
}

func demoPhases() []demoPhase {
	return []demoPhase{
		{name: "baseline", calls: 10, latency: 40 * time.Millisecond, response: healthyText, tokens: 70},
		{name: "degraded", calls: 6, latency: 160 * time.Millisecond, response: degradedText, tokens: 4},
		{name: "recovered", calls: 8, latency: 40 * time.Millisecond, response: healthyText, tokens: 70},
	}
}

// demoGenerator returns a Generator that walks through the phases, one call
// at a time, sleeping for the phase latency so the monitor measures real
// wall-clock durations.
func demoGenerator(phases []demoPhase) llm.Generator {
	var mu sync.Mutex
	call := 0
	return llm.GeneratorFunc(func(ctx context.Context, req llm.Request) (*llm.Response, error) {
		if err := req.Validate(); err != nil {
			return nil, err
		}

		mu.Lock()
		i := call
		call++
		mu.Unlock()

		phase := phaseFor(phases, i)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(phase.latency):
		}
		return &llm.Response{Text: phase.response(i), TokenCount: phase.tokens}, nil
	})
}

// phaseFor locates the phase covering call i; past the end, the last phase
// repeats.
func phaseFor(phases []demoPhase, i int) demoPhase {
	for _, p := range phases {
		if i < p.calls {
			return p
		}
		i -= p.calls
	}
	return phases[len(phases)-1]
}

func runDemo(args []string) {
	loadEnvFiles()

	fs := flag.NewFlagSet("demo", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	debug := fs.Bool("debug", false, "enable debug logging")
	noBanner := fs.Bool("no-banner", false, "suppress startup banner")
	interval := fs.Duration("interval", 150*time.Millisecond, "delay between synthetic calls")
	feedAddr := fs.String("feed", "", "serve the live WebSocket feed on this address")
	_ = fs.Parse(args) // ExitOnError handles errors

	if !*noBanner {
		printBanner()
	}

	cfg, configSource, err := resolveConfig(*configPath)
	if err != nil {
		fmt.Printf("failed to load configuration: %v\n", err)
		return
	}
	if *feedAddr != "" {
		cfg.Feed.Enabled = true
		cfg.Feed.Addr = *feedAddr
	}
	setupLogging(cfg.Logging, *debug)

	log.Info().
		Str("version", Version).
		Str("config", configSource).
		Msg("demo starting")

	// Per-call console line on top of whatever sinks the config wires.
	console := monitor.HookFuncs{
		HealthCheck: func(r *monitor.Report) {
			log.Info().
				Str("health", string(r.Health)).
				Float64("score", r.Score).
				Float64("latency_ms", r.Call.LatencyMs).
				Bool("warmup", r.Warmup).
				Msg("call_scored")
		},
		Degraded: func(r *monitor.Report) {
			for _, rec := range r.Recommendations {
				log.Warn().Str("hint", rec).Msg("recommendation")
			}
		},
	}

	// Recent-call ring for the completion summary.
	mem := history.NewMemorySink(64)
	defer func() { _ = mem.Close() }()

	hooks, cleanup := buildHooks(cfg, console, history.NewCollector(mem))
	defer cleanup()

	mcfg := cfg.Monitor.ToMonitor()
	mcfg.Hooks = hooks
	phases := demoPhases()
	mon, err := monitor.New(demoGenerator(phases), mcfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build monitor")
	}

	total := 0
	for _, p := range phases {
		total += p.calls
	}

	ctx := context.Background()
	for i := 0; i < total; i++ {
		req := llm.Request{
			Model:  "demo-model",
			Prompt: fmt.Sprintf("synthetic request %d", i),
		}
		if _, err := mon.Generate(ctx, req); err != nil {
			log.Error().Err(err).Int("call", i).Msg("demo_call_failed")
		}
		time.Sleep(*interval)
	}

	b := mon.Baseline()
	log.Info().
		Int64("samples", b.SampleCount).
		Float64("avg_latency_ms", b.AvgLatencyMs).
		Float64("avg_tokens_per_second", b.AvgTokensPerSecond).
		Str("last_health", string(mon.LastHealth())).
		Msg("demo_complete")

	counts := mem.CountByHealth()
	for _, h := range []monitor.Health{monitor.HealthStable, monitor.HealthMinor, monitor.HealthDegraded, monitor.HealthUnstable} {
		if n := counts[string(h)]; n > 0 {
			log.Info().Str("health", string(h)).Int64("calls", n).Msg("demo_health_count")
		}
	}
}
