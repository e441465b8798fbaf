package text

import "strings"

// Head returns the first n runes of s. It returns s unchanged when s is shorter
// than n and the empty string when n <= 0. Unlike byte slicing it never splits a
// multi-byte character.
func Head(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// Tail returns the last n runes of s.
func Tail(s string, n int) string {
	if n <= 0 {
		return ""
	}
	total := CountRunes(s)
	if n >= total {
		return s
	}
	skip := total - n
	count := 0
	for i := range s {
		if count == skip {
			return s[i:]
		}
		count++
	}
	return ""
}

// NormalizeWhitespace collapses every run of Unicode whitespace to a single
// space and trims the result.
func NormalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
