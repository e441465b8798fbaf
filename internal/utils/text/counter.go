// Package text provides rune-aware helpers shared by the reduction core and the
// model adapters. Every length in this module is a count of Unicode code points,
// never bytes, so multi-byte input is budgeted the same way as ASCII.
package text

import "unicode/utf8"

// CountRunes counts the number of Unicode characters (runes) in the given text.
//
// Examples:
//
//	CountRunes("hello")   // 5
//	CountRunes("héllo")   // 5
//	CountRunes("Hello👋") // 6
//	CountRunes("")        // 0
func CountRunes(text string) int {
	return utf8.RuneCountInString(text)
}
