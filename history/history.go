// Package history persists per-call health records for later inspection.
//
// DESIGN: Sinks receive flattened CallRecords, never live monitor state, so
// the monitor core stays free of I/O. Collector adapts any Sink into
// monitor.Hooks and records on every health check; write failures are
// logged and swallowed so a full disk never breaks the call path.
package history

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/modelpulse/modelpulse/monitor"
)

// EngineEntry is one engine verdict inside a CallRecord.
type EngineEntry struct {
	Metric string  `json:"metric"`
	Status string  `json:"status"`
	Value  float64 `json:"value"`
}

// CallRecord is the flattened, durable form of one health report.
type CallRecord struct {
	SampleID        string        `json:"sample_id"`
	Timestamp       time.Time     `json:"timestamp"`
	Model           string        `json:"model"`
	LatencyMs       float64       `json:"latency_ms"`
	ResponseTokens  int           `json:"response_tokens"`
	TokensPerSecond float64       `json:"tokens_per_second"`
	PromptChars     int           `json:"prompt_chars"`
	ResponseChars   int           `json:"response_chars"`
	Health          string        `json:"health"`
	Score           float64       `json:"score"`
	Warmup          bool          `json:"warmup"`
	Engines         []EngineEntry `json:"engines"`
}

// FromReport flattens a health report into a durable record.
func FromReport(r *monitor.Report) CallRecord {
	engines := make([]EngineEntry, 0, len(r.Engines))
	for _, e := range r.Engines {
		engines = append(engines, EngineEntry{
			Metric: e.Metric,
			Status: string(e.Status),
			Value:  e.Value,
		})
	}
	return CallRecord{
		SampleID:        r.Call.ID,
		Timestamp:       r.Call.Timestamp,
		Model:           r.Call.Model,
		LatencyMs:       r.Call.LatencyMs,
		ResponseTokens:  r.Call.ResponseTokens,
		TokensPerSecond: r.Call.TokensPerSecond,
		PromptChars:     r.Call.PromptChars,
		ResponseChars:   r.Call.ResponseChars,
		Health:          string(r.Health),
		Score:           r.Score,
		Warmup:          r.Warmup,
		Engines:         engines,
	}
}

// Sink stores call records.
type Sink interface {
	Record(rec CallRecord) error
	Close() error
}

// Collector adapts a Sink into monitor.Hooks.
type Collector struct {
	monitor.NopHooks
	sink Sink
}

// NewCollector wraps sink for use as a monitor hook set.
func NewCollector(sink Sink) *Collector {
	return &Collector{sink: sink}
}

// OnHealthCheck records every scored call.
func (c *Collector) OnHealthCheck(r *monitor.Report) {
	if err := c.sink.Record(FromReport(r)); err != nil {
		log.Error().
			Err(err).
			Str("sample_id", r.Call.ID).
			Msg("history_record_failed")
	}
}
