package condense

import (
	"fmt"
	"strings"

	"condense/internal/utils/text"
)

// ellipsis joins padding fragments to the packed sentences.
const ellipsis = "... "

// Reducer shortens text to a character budget by keeping its highest ranked
// sentences.
type Reducer struct {
	scorer *Scorer
}

// ReducerOption configures a Reducer.
type ReducerOption func(*Reducer)

// WithScorer replaces the default sentence scorer.
func WithScorer(s *Scorer) ReducerOption {
	return func(r *Reducer) {
		if s != nil {
			r.scorer = s
		}
	}
}

// WithKeywords scores sentences against the given keywords instead of
// DefaultKeywords.
func WithKeywords(keywords ...string) ReducerOption {
	return WithScorer(NewScorer(keywords...))
}

// NewReducer creates a Reducer.
func NewReducer(opts ...ReducerOption) *Reducer {
	r := &Reducer{scorer: NewScorer()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var defaultReducer = NewReducer()

// Reduce shortens text to budget runes with the default Reducer.
func Reduce(text string, budget int) (string, error) {
	return defaultReducer.Reduce(text, budget)
}

// Reduce returns text unchanged when it fits the budget. Otherwise it
// normalizes whitespace, packs the best ranked sentences into the budget and
// fills leftover room with the beginning and end of the normalized text.
//
// The padding step is best effort: its fragments and ellipses are added
// without re-checking the budget, so the result can exceed budget by up to
// their combined length. That is not an error.
func (r *Reducer) Reduce(input string, budget int) (string, error) {
	if budget <= 0 {
		return "", fmt.Errorf("%w: budget must be positive, got %d", ErrInvalidConfiguration, budget)
	}
	if text.CountRunes(input) <= budget {
		return input, nil
	}

	normalized := text.NormalizeWhitespace(input)
	if text.CountRunes(normalized) <= budget {
		return normalized, nil
	}

	ranked := r.scorer.Rank(SplitSentences(normalized))
	packed, length := Pack(ranked, budget)
	return strings.TrimSpace(Pad(packed, length, normalized, budget)), nil
}

// Pack appends ranked sentences, each followed by a space, until the next one
// would not fit in budget. It stops at that sentence even if a later, shorter
// one would still fit. It returns the packed text and its rune length.
func Pack(ranked []ScoredSentence, budget int) (string, int) {
	var b strings.Builder
	length := 0
	for _, s := range ranked {
		if length+s.Length+1 > budget {
			break
		}
		b.WriteString(s.Text)
		b.WriteByte(' ')
		length += s.Length + 1
	}
	return b.String(), length
}

// Pad spends the room left in budget on the first and last (budget-length)/2
// runes of source. A fragment already present verbatim in packed is skipped.
func Pad(packed string, length int, source string, budget int) string {
	if length >= budget {
		return packed
	}
	half := (budget - length) / 2
	if half == 0 {
		return packed
	}

	if beginning := text.Head(source, half); beginning != "" && !strings.Contains(packed, beginning) {
		packed = beginning + ellipsis + packed
	}
	if ending := text.Tail(source, half); ending != "" && !strings.Contains(packed, ending) {
		packed = packed + ellipsis + ending
	}
	return packed
}
