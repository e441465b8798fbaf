// Package condense exposes the condense use case over HTTP.
package condense

import (
	"context"
	"net/http"

	condUC "condense/internal/usecase/condense"
)

// Service is the part of the use case the handlers need.
type Service interface {
	Process(ctx context.Context, req condUC.Request) (*condUC.Response, error)
	Reduce(ctx context.Context, text string, budget int) (*condUC.ReduceResult, error)
	Chunk(ctx context.Context, text string, maxChunkSize int) (*condUC.ChunkResult, error)
	Config() condUC.Config
}

// Register mounts the condense endpoints on mux.
func Register(mux *http.ServeMux, svc Service) {
	mux.Handle("POST /process", ProcessHandler{svc})
	mux.Handle("POST /reduce", ReduceHandler{svc})
	mux.Handle("POST /chunk", ChunkHandler{svc})
}
