package condense

import "errors"

var (
	// ErrServiceUnavailable is returned when no model is configured or the model
	// provider is rejecting calls.
	ErrServiceUnavailable = errors.New("model not loaded")
	// ErrInvalidAction is returned for an action other than summarize or suggest_css.
	ErrInvalidAction = errors.New("invalid action")
	// ErrInvalidMode is returned for a mode other than auto, truncate or chunk.
	ErrInvalidMode = errors.New("invalid mode")
)
