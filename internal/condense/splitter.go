package condense

import (
	"github.com/dlclark/regexp2"
)

var (
	// sentenceBoundary matches the whitespace that follows a terminal mark.
	// The mark itself stays with the preceding sentence.
	sentenceBoundary = regexp2.MustCompile(`(?<=[.!?])\s+`, regexp2.None)

	// paragraphBoundary matches one or more blank lines.
	paragraphBoundary = regexp2.MustCompile(`\n\s*\n`, regexp2.None)
)

// SplitSentences splits text into sentences. A boundary is a '.', '!' or '?'
// followed by one or more whitespace characters; the whitespace is dropped.
// Text without terminal punctuation is returned as a single sentence and
// empty text yields an empty slice.
func SplitSentences(text string) []string {
	return split(sentenceBoundary, text)
}

// SplitParagraphs splits text on blank lines. Paragraphs are returned as-is;
// callers strip surrounding whitespace where they need to.
func SplitParagraphs(text string) []string {
	return split(paragraphBoundary, text)
}

// split returns the pieces of text between matches of re, skipping empty
// pieces. regexp2 reports match positions in runes.
func split(re *regexp2.Regexp, text string) []string {
	if text == "" {
		return []string{}
	}

	runes := []rune(text)
	parts := make([]string, 0, 8)
	start := 0

	m, err := re.FindRunesMatch(runes)
	for m != nil && err == nil {
		if m.Index > start {
			parts = append(parts, string(runes[start:m.Index]))
		}
		start = m.Index + m.Length
		m, err = re.FindNextMatch(m)
	}
	if err != nil {
		// A match timeout leaves the remainder unsplit.
		parts = append(parts, string(runes[start:]))
		return parts
	}

	if start < len(runes) {
		parts = append(parts, string(runes[start:]))
	}
	return parts
}
