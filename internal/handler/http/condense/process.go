package condense

import (
	"net/http"

	"condense/internal/handler/http/respond"
	condUC "condense/internal/usecase/condense"
)

// ProcessHandler serves POST /process.
type ProcessHandler struct{ Svc Service }

// ServeHTTP condenses the text and runs the requested model action.
// 400 on a malformed body, unknown action or mode; 503 when no model is loaded.
func (h ProcessHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req ProcessRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Text == nil {
		writeError(w, errTextRequired)
		return
	}

	resp, err := h.Svc.Process(r.Context(), condUC.Request{
		Text:   *req.Text,
		Action: req.Action,
		Mode:   req.Mode,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, resp)
}
