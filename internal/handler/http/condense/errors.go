package condense

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	core "condense/internal/condense"
	"condense/internal/handler/http/respond"
	condUC "condense/internal/usecase/condense"
)

var errTextRequired = errors.New("text is required")

// decode reads a JSON body into dst and reports a client error for malformed input.
func decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return respond.NewAppError(http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body too large: limit is %d bytes", maxErr.Limit), err)
		}
		if errors.Is(err, io.EOF) {
			return respond.NewAppError(http.StatusBadRequest, "request body is required", err)
		}
		return respond.NewAppError(http.StatusBadRequest, "invalid JSON body", err)
	}
	return nil
}

// writeError maps service errors to status codes.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, condUC.ErrServiceUnavailable):
		respond.Fail(w, http.StatusServiceUnavailable,
			respond.NewAppError(http.StatusServiceUnavailable, "Model not loaded", err))
	case errors.Is(err, condUC.ErrInvalidAction),
		errors.Is(err, condUC.ErrInvalidMode),
		errors.Is(err, core.ErrInvalidConfiguration),
		errors.Is(err, errTextRequired):
		respond.SafeError(w, http.StatusBadRequest, err)
	case errors.Is(err, context.DeadlineExceeded):
		respond.Fail(w, http.StatusGatewayTimeout,
			respond.NewAppError(http.StatusGatewayTimeout, "request timeout", err))
	case errors.Is(err, context.Canceled):
		// client went away; nobody reads this
		respond.Fail(w, http.StatusServiceUnavailable,
			respond.NewAppError(http.StatusServiceUnavailable, "request canceled", err))
	default:
		respond.Fail(w, http.StatusInternalServerError, err)
	}
}
