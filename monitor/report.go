// Package monitor - report.go defines the per-call health report.
package monitor

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/tidwall/sjson"
)

// CallInfo identifies the scored call inside a report, so hooks and sinks
// can correlate reports with traffic without holding the sample.
type CallInfo struct {
	ID              string    `json:"id"`
	Timestamp       time.Time `json:"timestamp"`
	Model           string    `json:"model"`
	LatencyMs       float64   `json:"latency_ms"`
	ResponseTokens  int       `json:"response_tokens"`
	TokensPerSecond float64   `json:"tokens_per_second"`
	PromptChars     int       `json:"prompt_chars"`
	ResponseChars   int       `json:"response_chars"`
}

// Report is the full health verdict for one call.
type Report struct {
	Health          Health         `json:"health"`
	Score           float64        `json:"score"`
	Engines         []EngineResult `json:"engines"`
	Recommendations []string       `json:"recommendations,omitempty"`
	Warmup          bool           `json:"warmup"`
	Call            CallInfo       `json:"call"`
}

// AttachTo embeds the report under a "health" key of a raw JSON object and
// returns the new document. Useful for callers that forward provider
// response bodies verbatim and want diagnostics to travel with them.
func (r *Report) AttachTo(body []byte) ([]byte, error) {
	raw, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshal health report: %w", err)
	}
	out, err := sjson.SetRawBytes(body, "health", raw)
	if err != nil {
		return nil, fmt.Errorf("attach health report: %w", err)
	}
	return out, nil
}
