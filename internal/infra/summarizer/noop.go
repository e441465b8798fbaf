package summarizer

import (
	"context"
	"fmt"

	"condense/internal/utils/text"
)

const noopMaxLength = 500

// NoOp echoes its input, cut to 500 runes. It stands in for a model during
// development and tests.
type NoOp struct{}

// NewNoOp creates a NoOp processor.
func NewNoOp() *NoOp {
	return &NoOp{}
}

// Name implements Processor.
func (n *NoOp) Name() string { return ProviderNoOp }

// Process implements Processor.
func (n *NoOp) Process(ctx context.Context, action Action, input string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !action.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
	if text.CountRunes(input) <= noopMaxLength {
		return input, nil
	}
	return text.Head(input, noopMaxLength) + truncationMarker, nil
}
