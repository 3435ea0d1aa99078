package tool

import "encoding/json"

// Tool is a read-only catalog entry. Form and Schema describe the
// parameters a job for this tool accepts.
type Tool struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Version string          `json:"version"`
	Form    json.RawMessage `json:"form,omitempty"`
	Schema  json.RawMessage `json:"schema,omitempty"`
}
