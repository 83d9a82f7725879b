// Package match implements token-level pattern matching for question
// templates. Literal tokens compare case-insensitively and the wildcard
// marker binds one or more consecutive input tokens.
package match

import "strings"

// Wildcard is the pattern token that binds one or more input tokens.
const Wildcard = "%"

// Match matches pattern against input and returns the tokens bound by
// wildcards, in input order and with their original casing. A wildcard
// consumes at least one token; when several splits fit, the wildcard takes
// the longest prefix that still lets the rest of the pattern match. The
// second return is false when the input does not fit the pattern. A match
// with no wildcards returns an empty, non-nil slice.
func Match(pattern, input []string) ([]string, bool) {
	if len(pattern) == 0 {
		if len(input) == 0 {
			return []string{}, true
		}
		return nil, false
	}

	if pattern[0] != Wildcard {
		if len(input) == 0 || !strings.EqualFold(pattern[0], input[0]) {
			return nil, false
		}
		return Match(pattern[1:], input[1:])
	}

	for take := len(input); take >= 1; take-- {
		rest, ok := Match(pattern[1:], input[take:])
		if !ok {
			continue
		}
		bound := make([]string, 0, take+len(rest))
		bound = append(bound, input[:take]...)
		bound = append(bound, rest...)
		return bound, true
	}
	return nil, false
}
