// Package tokenizer estimates how many model tokens a prompt will consume.
package tokenizer

import (
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

// DefaultEncoding is used when no encoding or model name is given.
const DefaultEncoding = "cl100k_base"

// Counter counts tokens in a piece of text.
type Counter interface {
	Count(text string) int
}

// Tiktoken counts tokens with a BPE encoding from tiktoken-go.
type Tiktoken struct {
	encoding string
	tke      *tiktoken.Tiktoken
}

// NewTiktoken loads the named encoding, or the encoding for the named model.
func NewTiktoken(encodingOrModel string) (*Tiktoken, error) {
	if encodingOrModel == "" {
		encodingOrModel = DefaultEncoding
	}

	tke, err := tiktoken.GetEncoding(encodingOrModel)
	if err == nil {
		return &Tiktoken{encoding: encodingOrModel, tke: tke}, nil
	}

	tke, modelErr := tiktoken.EncodingForModel(encodingOrModel)
	if modelErr != nil {
		return nil, fmt.Errorf("load encoding %q: %w", encodingOrModel, err)
	}
	return &Tiktoken{encoding: encodingOrModel, tke: tke}, nil
}

// Count returns the number of BPE tokens in text.
func (t *Tiktoken) Count(text string) int {
	return len(t.tke.Encode(text, nil, nil))
}

// Encoding returns the encoding or model name the counter was built from.
func (t *Tiktoken) Encoding() string {
	return t.encoding
}

// Estimate approximates token counts as one token per three characters.
type Estimate struct{}

// Count returns the rune count of text divided by three.
func (Estimate) Count(text string) int {
	return utf8.RuneCountInString(text) / 3
}

// New returns a tiktoken counter for encodingOrModel, or Estimate when the
// encoding cannot be loaded (for example when the BPE file is not cached offline).
func New(encodingOrModel string) Counter {
	counter, err := NewTiktoken(encodingOrModel)
	if err != nil {
		slog.Warn("tokenizer unavailable, estimating tokens from length",
			slog.String("encoding", encodingOrModel),
			slog.Any("error", err))
		return Estimate{}
	}
	return counter
}
