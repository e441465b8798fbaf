package condense

import (
	"fmt"
	"strings"

	"condense/internal/utils/text"
)

const (
	paragraphJoiner = "\n\n"
	sentenceJoiner  = " "
)

// Chunker splits text into chunks of at most MaxChunkSize runes.
type Chunker struct {
	maxChunkSize int
}

// NewChunker creates a Chunker. maxChunkSize must be positive.
func NewChunker(maxChunkSize int) (*Chunker, error) {
	if maxChunkSize <= 0 {
		return nil, fmt.Errorf("%w: max chunk size must be positive, got %d", ErrInvalidConfiguration, maxChunkSize)
	}
	return &Chunker{maxChunkSize: maxChunkSize}, nil
}

// MaxChunkSize returns the configured chunk bound in runes.
func (c *Chunker) MaxChunkSize() int {
	return c.maxChunkSize
}

// SplitIntoChunks splits text with a Chunker bounded by maxChunkSize.
func SplitIntoChunks(text string, maxChunkSize int) ([]string, error) {
	c, err := NewChunker(maxChunkSize)
	if err != nil {
		return nil, err
	}
	return c.Split(text), nil
}

// Split packs paragraphs into chunks, joining them with a blank line. A
// paragraph larger than the bound is packed sentence by sentence instead,
// joined by single spaces, and a sentence larger than the bound is cut to
// exactly MaxChunkSize runes and emitted on its own. The cut discards the rest
// of that sentence.
//
// Chunks come back in input order and are never longer than MaxChunkSize.
func (c *Chunker) Split(input string) []string {
	acc := chunkAccumulator{max: c.maxChunkSize}

	for _, paragraph := range SplitParagraphs(input) {
		size := text.CountRunes(paragraph)
		if acc.fits(size, paragraphJoiner) {
			acc.add(paragraph, size, paragraphJoiner)
			continue
		}

		acc.flush()
		if size <= c.maxChunkSize {
			acc.add(paragraph, size, paragraphJoiner)
			continue
		}

		for _, sentence := range SplitSentences(paragraph) {
			n := text.CountRunes(sentence)
			if acc.fits(n, sentenceJoiner) {
				acc.add(sentence, n, sentenceJoiner)
				continue
			}
			acc.flush()
			if n > c.maxChunkSize {
				acc.emit(text.Head(sentence, c.maxChunkSize))
				continue
			}
			acc.add(sentence, n, sentenceJoiner)
		}
	}

	acc.flush()
	return acc.chunks
}

// chunkAccumulator collects pieces into the current chunk.
type chunkAccumulator struct {
	max     int
	chunks  []string
	current strings.Builder
	size    int
}

// fits reports whether a piece of n runes, plus the joiner when the current
// chunk is non-empty, still fits the bound.
func (a *chunkAccumulator) fits(n int, joiner string) bool {
	if a.size == 0 {
		return n <= a.max
	}
	return a.size+len(joiner)+n <= a.max
}

func (a *chunkAccumulator) add(piece string, n int, joiner string) {
	if a.size > 0 {
		a.current.WriteString(joiner)
		a.size += len(joiner)
	}
	a.current.WriteString(piece)
	a.size += n
}

func (a *chunkAccumulator) flush() {
	if a.size == 0 {
		return
	}
	a.emit(a.current.String())
	a.current.Reset()
	a.size = 0
}

func (a *chunkAccumulator) emit(chunk string) {
	a.chunks = append(a.chunks, chunk)
}
