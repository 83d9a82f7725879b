package textutil

import (
	"regexp"
	"strings"
)

var (
	spaceRuns   = regexp.MustCompile(" +")
	newlineRuns = regexp.MustCompile("\n+")
)

// Clean normalizes reference text for regex extraction: characters outside
// printable ASCII become spaces, runs of spaces collapse to one space and
// runs of newlines collapse to one newline.
func Clean(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case r == '\n':
			b.WriteByte('\n')
		case r >= 0x20 && r <= 0x7e:
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}
	cleaned := spaceRuns.ReplaceAllString(b.String(), " ")
	return newlineRuns.ReplaceAllString(cleaned, "\n")
}

// Tokenize splits a question into whitespace-separated tokens after dropping
// every question mark. Token casing is preserved; matching folds case.
func Tokenize(question string) []string {
	return strings.Fields(strings.ReplaceAll(question, "?", ""))
}
