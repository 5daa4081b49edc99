package trace

import (
	"encoding/json"
	"fmt"
	"io"
)

// JSONL writes one JSON object per line, one line per event.
type JSONL struct {
	w io.Writer
}

// NewJSONL wraps w as a line-delimited JSON event sink.
func NewJSONL(w io.Writer) *JSONL {
	return &JSONL{w: w}
}

func (j *JSONL) Emit(e Event) {
	data, err := json.Marshal(e)
	if err != nil {
		_, _ = fmt.Fprintf(j.w, "{\"error\":\"failed to marshal event: %v\"}\n", err)
		return
	}
	_, _ = fmt.Fprintf(j.w, "%s\n", data)
}

func (j *JSONL) Flush() error { return nil }
