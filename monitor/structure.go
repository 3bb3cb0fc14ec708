// Package monitor - structure.go inspects the shape of response content.
//
// DESIGN: Structure is baseline-independent and diagnostic by default: it
// reports what the text contains (JSON validity, list items, code fences)
// without gating health. With gating enabled, a JSON-looking response that
// fails to parse or an unterminated code fence counts against health; both
// are classic truncation signatures.
package monitor

import (
	"strings"

	"github.com/tidwall/gjson"
)

const (
	structBrokenJSONValue = 0.75
	structOpenFenceValue  = 0.4
)

// StructureEngine analyzes the content structure of the response text.
type StructureEngine struct {
	// Gating makes structural damage affect health. Off, the engine always
	// reports ok with value 0 and only fills Details.
	Gating bool
}

func (StructureEngine) Name() string { return MetricStructure }

func (e StructureEngine) Evaluate(s *Sample, _ *Baseline) EngineResult {
	trimmed := strings.TrimSpace(s.ResponseText)
	looksJSON := strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[")
	jsonValid := looksJSON && gjson.Valid(trimmed)

	bullets, numbered := countListItems(s.ResponseText)
	fences := strings.Count(s.ResponseText, "```")

	details := map[string]any{
		"looks_json":     looksJSON,
		"json_valid":     jsonValid,
		"bullet_items":   bullets,
		"numbered_items": numbered,
		"code_blocks":    fences / 2,
		"open_fence":     fences%2 != 0,
	}

	result := EngineResult{Metric: MetricStructure, Status: StatusOK, Value: 0, Details: details}
	if !e.Gating {
		return result
	}
	switch {
	case looksJSON && !jsonValid:
		result.Status = StatusError
		result.Value = structBrokenJSONValue
	case fences%2 != 0:
		result.Status = StatusWarn
		result.Value = structOpenFenceValue
	}
	return result
}

// countListItems counts markdown bullet and numbered list lines.
func countListItems(text string) (bullets, numbered int) {
	for _, line := range strings.Split(text, "\n") {
		t := strings.TrimSpace(line)
		if t == "" {
			continue
		}
		if strings.HasPrefix(t, "- ") || strings.HasPrefix(t, "* ") || strings.HasPrefix(t, "+ ") {
			bullets++
			continue
		}
		if isNumberedItem(t) {
			numbered++
		}
	}
	return bullets, numbered
}

// isNumberedItem matches lines like "1. foo" or "12) bar".
func isNumberedItem(line string) bool {
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i == 0 || i >= len(line) {
		return false
	}
	if line[i] != '.' && line[i] != ')' {
		return false
	}
	return i+1 < len(line) && line[i+1] == ' '
}
