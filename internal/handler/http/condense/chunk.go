package condense

import (
	"net/http"

	"condense/internal/handler/http/respond"
)

// ChunkHandler serves POST /chunk.
type ChunkHandler struct{ Svc Service }

func (h ChunkHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req ChunkRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Text == nil {
		writeError(w, errTextRequired)
		return
	}

	res, err := h.Svc.Chunk(r.Context(), *req.Text, orDefault(req.MaxChunkSize, h.Svc.Config().MaxChunkSize))
	if err != nil {
		writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, res)
}
