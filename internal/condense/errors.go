package condense

import "errors"

// ErrInvalidConfiguration is returned when a budget or chunk size is not
// positive, or when a required collaborator is missing. Values are never
// clamped to a default.
var ErrInvalidConfiguration = errors.New("invalid configuration")
