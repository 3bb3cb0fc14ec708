// Package monitor - sample.go builds measured call samples.
package monitor

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/modelpulse/modelpulse/internal/textstat"
	"github.com/modelpulse/modelpulse/internal/tokenizer"
)

// Fingerprint is the statistical profile of a response text. Components are
// float64 so the baseline can average them.
type Fingerprint struct {
	Tokens         float64 `json:"tokens"`
	Sentences      float64 `json:"sentences"`
	AvgSentenceLen float64 `json:"avg_sentence_len"`
	Entropy        float64 `json:"entropy"`
}

// Sample is one measured generation call. An empty response text is a valid
// degenerate sample: zero tokens, zero sentences, zero entropy.
type Sample struct {
	ID             string
	Timestamp      time.Time
	Prompt         string
	Model          string
	ResponseText   string
	ResponseTokens int
	LatencyMs      float64
	Fingerprint    Fingerprint
}

// NewSample measures a response into a scoreable sample. The fingerprint is
// computed here, outside any lock. Token count falls back to a tokenizer
// estimate when the generator reported none. A negative or non-finite
// latency is unmeasurable and clamps to 0, the unmeasured-latency sentinel.
func NewSample(prompt, model, responseText string, responseTokens int, latencyMs float64) Sample {
	if responseTokens < 0 {
		responseTokens = 0
	}
	if latencyMs < 0 || math.IsNaN(latencyMs) || math.IsInf(latencyMs, 0) {
		latencyMs = 0
	}
	if responseTokens == 0 && responseText != "" {
		responseTokens = tokenizer.Count(responseText)
	}
	st := textstat.Analyze(responseText)
	return Sample{
		ID:             uuid.New().String(),
		Timestamp:      time.Now().UTC(),
		Prompt:         prompt,
		Model:          model,
		ResponseText:   responseText,
		ResponseTokens: responseTokens,
		LatencyMs:      latencyMs,
		Fingerprint: Fingerprint{
			Tokens:         float64(responseTokens),
			Sentences:      float64(st.Sentences),
			AvgSentenceLen: st.AvgSentenceLen,
			Entropy:        st.Entropy,
		},
	}
}

// TokensPerSecond is the sample's token throughput, 0 when latency is 0
// (rate undefined, never Inf).
func (s *Sample) TokensPerSecond() float64 {
	if s.LatencyMs <= 0 {
		return 0
	}
	return float64(s.ResponseTokens) / (s.LatencyMs / 1000.0)
}
