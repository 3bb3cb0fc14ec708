// Package main - replay.go scores recorded call traffic offline.
//
// DESIGN: Replay feeds recorded samples through Monitor.Observe, so the
// scoring path is byte-for-byte the one live traffic takes; only the clock
// is replaced by the recorded latencies.
package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/modelpulse/modelpulse/monitor"
)

// replayRecord is one line of a replay file.
type replayRecord struct {
	Prompt         string  `json:"prompt"`
	Model          string  `json:"model"`
	ResponseText   string  `json:"response_text"`
	ResponseTokens int     `json:"response_tokens"`
	LatencyMs      float64 `json:"latency_ms"`
}

// parseReplayRecord validates one line of a replay file.
func parseReplayRecord(line []byte) (replayRecord, error) {
	var rec replayRecord
	if err := json.Unmarshal(line, &rec); err != nil {
		return rec, fmt.Errorf("invalid record json: %w", err)
	}
	if rec.LatencyMs < 0 {
		return rec, fmt.Errorf("negative latency_ms: %v", rec.LatencyMs)
	}
	if rec.Model == "" {
		rec.Model = "unknown"
	}
	return rec, nil
}

func runReplay(args []string) {
	loadEnvFiles()

	fs := flag.NewFlagSet("replay", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	debug := fs.Bool("debug", false, "enable debug logging")
	noBanner := fs.Bool("no-banner", false, "suppress startup banner")
	_ = fs.Parse(args) // ExitOnError handles errors

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: modelpulse replay [flags] <records.jsonl>")
		os.Exit(2)
	}
	recordsPath := fs.Arg(0)

	if !*noBanner {
		printBanner()
	}

	cfg, configSource, err := resolveConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	setupLogging(cfg.Logging, *debug)

	log.Info().
		Str("version", Version).
		Str("config", configSource).
		Str("records", recordsPath).
		Msg("replay starting")

	hooks, cleanup := buildHooks(cfg)
	defer cleanup()

	mcfg := cfg.Monitor.ToMonitor()
	mcfg.Hooks = hooks
	mon, err := monitor.New(nil, mcfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build monitor")
	}

	f, err := os.Open(recordsPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", recordsPath).Msg("failed to open records file")
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024) // responses can be long

	lineNo := 0
	skipped := 0
	counts := make(map[monitor.Health]int)
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		rec, err := parseReplayRecord(line)
		if err != nil {
			log.Warn().Err(err).Int("line", lineNo).Msg("replay_record_skipped")
			skipped++
			continue
		}
		sample := monitor.NewSample(rec.Prompt, rec.Model, rec.ResponseText, rec.ResponseTokens, rec.LatencyMs)
		report := mon.Observe(sample)
		counts[report.Health]++
	}
	if err := scanner.Err(); err != nil {
		log.Fatal().Err(err).Msg("failed to read records file")
	}

	b := mon.Baseline()
	log.Info().
		Int64("samples", b.SampleCount).
		Int("skipped", skipped).
		Float64("avg_latency_ms", b.AvgLatencyMs).
		Float64("avg_tokens_per_second", b.AvgTokensPerSecond).
		Str("last_health", string(mon.LastHealth())).
		Msg("replay_complete")

	for _, h := range []monitor.Health{
		monitor.HealthStable,
		monitor.HealthMinor,
		monitor.HealthDegraded,
		monitor.HealthUnstable,
	} {
		if counts[h] > 0 {
			log.Info().Str("health", string(h)).Int("calls", counts[h]).Msg("replay_health_count")
		}
	}
}
