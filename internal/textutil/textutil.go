// Package textutil provides tokenization and n-gram helpers for feature extraction.
package textutil

import (
	"iter"
	"regexp"
	"strings"
)

// DefaultSeparator joins the tokens of a multi-token feature.
const DefaultSeparator = "_"

var tokenizeRe = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// Tokenize extracts word tokens from text (Unicode-aware, equivalent to \b\w+\b).
func Tokenize(text string) []string {
	return tokenizeRe.FindAllString(text, -1)
}

// Ngrams returns the n-gram features of tokens, in order and without
// deduplication. Each feature joins n consecutive tokens with sep; for n=1 a
// feature is the token itself. The sequence is empty when n < 1 or
// len(tokens) < n, and may be ranged over any number of times.
func Ngrams(tokens []string, n int, sep string) iter.Seq[string] {
	return func(yield func(string) bool) {
		if n < 1 {
			return
		}
		for i := 0; i+n <= len(tokens); i++ {
			var feature string
			if n == 1 {
				feature = tokens[i]
			} else {
				feature = strings.Join(tokens[i:i+n], sep)
			}
			if !yield(feature) {
				return
			}
		}
	}
}

// NgramCount returns how many n-grams a sequence of length l produces.
func NgramCount(l, n int) int {
	if n < 1 || l < n {
		return 0
	}
	return l - n + 1
}

var (
	newlineRe    = regexp.MustCompile(`[\n\r]`)
	multiSpaceRe = regexp.MustCompile(`\s{2,}`)
)

// NormalizeWhitespaces replaces newlines and multiple whitespace with a single space.
func NormalizeWhitespaces(text string) string {
	text = newlineRe.ReplaceAllString(text, " ")
	return multiSpaceRe.ReplaceAllString(text, " ")
}

// Normalize lowercases text and normalizes whitespace.
func Normalize(text string) string {
	return NormalizeWhitespaces(strings.ToLower(text))
}
