package condense

import (
	"fmt"
	"strings"
)

// Mode selects how long input is brought within the model's reach.
type Mode string

const (
	// ModeAuto chunks inputs longer than Config.ChunkThreshold and truncates the rest.
	ModeAuto Mode = "auto"
	// ModeTruncate reduces the input to Config.MaxTextLength and calls the model once.
	ModeTruncate Mode = "truncate"
	// ModeChunk processes each chunk of at most Config.MaxChunkSize and aggregates the answers.
	ModeChunk Mode = "chunk"
)

// ParseMode maps a request value to a Mode. An empty value means ModeAuto.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ModeAuto, nil
	case ModeAuto, ModeTruncate, ModeChunk:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

// Request is a model-backed processing request.
type Request struct {
	Text   string
	Action string
	Mode   string
}

// Response carries the model answer. Exactly one of Summary and CSSSuggestions is set.
type Response struct {
	Summary         *string `json:"summary"`
	CSSSuggestions  *string `json:"css_suggestions"`
	OriginalLength  int     `json:"original_length"`
	ProcessedLength int     `json:"processed_length"`
	Mode            Mode    `json:"mode"`
	Chunks          int     `json:"chunks,omitempty"`
	Fallback        bool    `json:"fallback,omitempty"`
}

// ReduceResult is the outcome of a budgeted reduction.
type ReduceResult struct {
	Text           string `json:"text"`
	Budget         int    `json:"budget"`
	OriginalLength int    `json:"original_length"`
	ReducedLength  int    `json:"reduced_length"`
}

// ChunkResult is the outcome of splitting a text into chunks.
type ChunkResult struct {
	Chunks       []string `json:"chunks"`
	Count        int      `json:"count"`
	MaxChunkSize int      `json:"max_chunk_size"`
}

// Config holds the reduction settings of the service.
type Config struct {
	// MaxTextLength is the budget used in truncate mode and by Reduce when none is given.
	MaxTextLength int
	// MaxChunkSize bounds each chunk in chunk mode and by Chunk when none is given.
	MaxChunkSize int
	// ChunkThreshold is the input length above which auto mode chunks.
	ChunkThreshold int
}

// DefaultConfig returns the service defaults.
func DefaultConfig() Config {
	return Config{
		MaxTextLength:  800,
		MaxChunkSize:   400,
		ChunkThreshold: 4000,
	}
}

// Validate checks that every size is positive.
func (c Config) Validate() error {
	if c.MaxTextLength <= 0 {
		return fmt.Errorf("max text length must be positive, got %d", c.MaxTextLength)
	}
	if c.MaxChunkSize <= 0 {
		return fmt.Errorf("max chunk size must be positive, got %d", c.MaxChunkSize)
	}
	if c.ChunkThreshold <= 0 {
		return fmt.Errorf("chunk threshold must be positive, got %d", c.ChunkThreshold)
	}
	return nil
}
