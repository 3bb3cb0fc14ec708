// Package textstat computes the text statistics behind response fingerprints.
//
// DESIGN: Everything here is pure and allocation-light so it can run outside
// the monitor's critical section. Word tokens are lexical (letters and
// digits), not model tokens: entropy and sentence shape describe the text
// itself, independent of any tokenizer vocabulary.
package textstat

import (
	"math"
	"strings"
	"unicode"
)

// Stats is the statistical profile of one response text.
type Stats struct {
	Words          int
	Sentences      int
	AvgSentenceLen float64 // words per sentence
	Entropy        float64 // Shannon word entropy, bits
}

// Analyze profiles text. Empty or whitespace-only text yields zero Stats.
func Analyze(text string) Stats {
	words := Words(text)
	if len(words) == 0 {
		return Stats{}
	}
	sentences := Sentences(text)
	return Stats{
		Words:          len(words),
		Sentences:      sentences,
		AvgSentenceLen: float64(len(words)) / float64(sentences),
		Entropy:        Entropy(words),
	}
}

// Words splits text into lowercase lexical tokens. Anything that is not a
// letter or digit separates tokens.
func Words(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		words = append(words, strings.ToLower(f))
	}
	return words
}

// Sentences counts sentence terminators in text. A run of terminators
// ("..." or "?!") counts once. Text with words but no terminator counts as
// one sentence so averages stay defined for fragments.
func Sentences(text string) int {
	count := 0
	inRun := false
	hasContent := false
	for _, r := range text {
		switch r {
		case '.', '!', '?':
			if !inRun {
				count++
				inRun = true
			}
		default:
			inRun = false
			if unicode.IsLetter(r) || unicode.IsNumber(r) {
				hasContent = true
			}
		}
	}
	if count == 0 && hasContent {
		return 1
	}
	return count
}

// Entropy returns the Shannon entropy in bits of the word frequency
// distribution. Uniform vocabularies score high, repetitive loops score
// near zero.
func Entropy(words []string) float64 {
	if len(words) == 0 {
		return 0
	}
	freq := make(map[string]int, len(words))
	for _, w := range words {
		freq[w]++
	}
	total := float64(len(words))
	entropy := 0.0
	for _, n := range freq {
		p := float64(n) / total
		entropy -= p * math.Log2(p)
	}
	return entropy
}
