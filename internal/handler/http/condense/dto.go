package condense

// ProcessRequest is the body of POST /process.
type ProcessRequest struct {
	Text   *string `json:"text"`
	Action string  `json:"action"`
	Mode   string  `json:"mode"`
}

// ReduceRequest is the body of POST /reduce. An omitted budget uses the server
// default; an explicit one is passed through as is.
type ReduceRequest struct {
	Text   *string `json:"text"`
	Budget *int    `json:"budget"`
}

// ChunkRequest is the body of POST /chunk. An omitted size uses the server
// default; an explicit one is passed through as is.
type ChunkRequest struct {
	Text         *string `json:"text"`
	MaxChunkSize *int    `json:"max_chunk_size"`
}

// orDefault returns *v, or def when the field was omitted.
func orDefault(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}
