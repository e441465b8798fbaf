package condense

import (
	"sort"
	"strings"

	"condense/internal/utils/text"
)

// DefaultKeywords marks sentences that are likely to carry the main point.
// Matching is a lowercase substring test, so "keyboard" matches "key".
var DefaultKeywords = []string{"important", "key", "main", "crucial", "significant", "essential"}

const (
	leadingBonus  = 2.0
	trailingBonus = 1.5
	keywordBonus  = 2.0

	// shortSentenceLength is the length at and below which a sentence carries
	// no length penalty.
	shortSentenceLength = 20.0
)

// Sentence is one sentence of a text together with its position.
type Sentence struct {
	Text   string
	Index  int
	Length int
}

// ScoredSentence pairs a sentence with its importance score.
type ScoredSentence struct {
	Sentence
	Score float64
}

// Scorer assigns importance scores to sentences.
type Scorer struct {
	keywords []string
}

// NewScorer returns a Scorer using the given keywords, or DefaultKeywords
// when none are given. Keywords are lowercased.
func NewScorer(keywords ...string) *Scorer {
	if len(keywords) == 0 {
		keywords = DefaultKeywords
	}
	lowered := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			lowered = append(lowered, k)
		}
	}
	return &Scorer{keywords: lowered}
}

// Score returns position × keyword × length-penalty for s within a sequence
// of total sentences.
func (sc *Scorer) Score(s Sentence, total int) float64 {
	return PositionFactor(s.Index, total) *
		KeywordFactor(s.Text, sc.keywords) *
		LengthPenalty(s.Length)
}

// Rank scores every sentence and orders them by score descending. Sentences
// with equal scores keep their original order.
func (sc *Scorer) Rank(sentences []string) []ScoredSentence {
	scored := make([]ScoredSentence, len(sentences))
	for i, raw := range sentences {
		s := Sentence{Text: raw, Index: i, Length: text.CountRunes(raw)}
		scored[i] = ScoredSentence{Sentence: s, Score: sc.Score(s, len(sentences))}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}

// PositionFactor favours the first and last tenth of a text. The leading
// window is total/10 with integer division, so texts with fewer than ten
// sentences get no leading bonus.
func PositionFactor(index, total int) float64 {
	switch {
	case index < total/10:
		return leadingBonus
	case float64(index) >= 0.9*float64(total):
		return trailingBonus
	default:
		return 1.0
	}
}

// KeywordFactor doubles the score of a sentence containing any keyword.
func KeywordFactor(sentence string, keywords []string) float64 {
	lower := strings.ToLower(sentence)
	for _, k := range keywords {
		if strings.Contains(lower, k) {
			return keywordBonus
		}
	}
	return 1.0
}

// LengthPenalty prefers short sentences: min(1, 20/length). An empty sentence
// scores zero and is never worth selecting.
func LengthPenalty(length int) float64 {
	if length <= 0 {
		return 0
	}
	return min(1.0, shortSentenceLength/float64(length))
}
