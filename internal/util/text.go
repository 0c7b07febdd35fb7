package util

import (
	"math"
	"regexp"
	"strings"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// NormalizeWhitespace collapses internal whitespace runs to single spaces and
// trims leading/trailing whitespace.
func NormalizeWhitespace(text string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))
}

// ApproximateTokenCount estimates the token count of free-form text as
// ceil(wordCount * 1.3). The inference endpoint does not report usage, so
// this heuristic stands in for a real tokenizer.
func ApproximateTokenCount(text string) int {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0
	}
	words := len(whitespaceRun.Split(trimmed, -1))
	return int(math.Ceil(float64(words) * 1.3))
}

// Truncate shortens s to at most max runes. No ellipsis is added; callers
// that need one should append it themselves.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
