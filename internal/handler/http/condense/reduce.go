package condense

import (
	"net/http"

	"condense/internal/handler/http/respond"
)

// ReduceHandler serves POST /reduce.
type ReduceHandler struct{ Svc Service }

func (h ReduceHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req ReduceRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Text == nil {
		writeError(w, errTextRequired)
		return
	}

	res, err := h.Svc.Reduce(r.Context(), *req.Text, orDefault(req.Budget, h.Svc.Config().MaxTextLength))
	if err != nil {
		writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, res)
}
