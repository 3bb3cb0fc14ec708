package tokenizer_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/modelpulse/modelpulse/internal/tokenizer"
)

// The encoding may or may not be loadable in the test environment, so these
// assertions hold for both the real BPE count and the heuristic fallback.

func TestCount_EmptyIsZero(t *testing.T) {
	assert.Equal(t, 0, tokenizer.Count(""))
}

func TestCount_NonEmptyIsPositive(t *testing.T) {
	assert.GreaterOrEqual(t, tokenizer.Count("hi"), 1)
	assert.GreaterOrEqual(t, tokenizer.Count("a longer sentence with several words"), 5)
}

func TestCount_GrowsWithLength(t *testing.T) {
	short := tokenizer.Count("The quick brown fox.")
	long := tokenizer.Count(strings.Repeat("The quick brown fox jumps over the lazy dog. ", 20))
	assert.Greater(t, long, short)
}

func TestCount_Deterministic(t *testing.T) {
	text := "Determinism matters for baselines."
	assert.Equal(t, tokenizer.Count(text), tokenizer.Count(text))
}

func TestCount_RoughlyProportional(t *testing.T) {
	// ~900 chars of plain prose lands in the low hundreds of tokens under
	// both counting modes.
	text := strings.Repeat("All systems remain nominal and throughput is holding steady. ", 15)
	n := tokenizer.Count(text)
	assert.Greater(t, n, 50)
	assert.Less(t, n, 500)
}
