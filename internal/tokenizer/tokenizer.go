// Package tokenizer estimates token counts for responses whose provider
// reported no usage numbers.
package tokenizer

import (
	"sync"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
	"github.com/rs/zerolog/log"
)

// encodingName is the BPE vocabulary used for estimates. cl100k_base is
// close enough across current chat models for throughput ratios.
const encodingName = "cl100k_base"

var (
	encOnce sync.Once
	enc     *tiktoken.Tiktoken
)

// Count returns the token count of text under cl100k_base, falling back to
// a rune-length heuristic when the encoding cannot be loaded (offline
// environments). Empty text counts zero.
func Count(text string) int {
	if text == "" {
		return 0
	}
	encOnce.Do(func() {
		e, err := tiktoken.GetEncoding(encodingName)
		if err != nil {
			log.Warn().Err(err).Str("encoding", encodingName).Msg("tokenizer_heuristic_fallback")
			return
		}
		enc = e
	})
	if enc == nil {
		return heuristicCount(text)
	}
	return len(enc.Encode(text, nil, nil))
}

// heuristicCount approximates cl100k output at roughly four characters per
// token, never less than one for non-empty text.
func heuristicCount(text string) int {
	n := (utf8.RuneCountInString(text) + 3) / 4
	if n < 1 {
		n = 1
	}
	return n
}
