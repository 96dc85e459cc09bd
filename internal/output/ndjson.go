// Package output renders the results of the non-interactive commands as
// NDJSON for scripts or as styled text for people.
package output

import (
	"encoding/json"
	"io"
	"sync"
)

// SchemaVersion is bumped whenever a field is renamed or removed.
const SchemaVersion = 1

// ErrorOutput is emitted for every command failure in ndjson mode.
type ErrorOutput struct {
	Type          string `json:"type"`
	SchemaVersion int    `json:"schemaVersion"`
	Code          string `json:"code"`
	Message       string `json:"message"`
	Hint          string `json:"hint,omitempty"`
}

// OutcomeOutput reports one open attempt.
type OutcomeOutput struct {
	Type          string   `json:"type"`
	SchemaVersion int      `json:"schemaVersion"`
	LaunchPath    string   `json:"path"`
	Command       string   `json:"command,omitempty"`
	DefaultOpener bool     `json:"default_opener"`
	Wait          bool     `json:"wait"`
	Success       bool     `json:"success"`
	Message       string   `json:"message,omitempty"`
	Kind          string   `json:"kind,omitempty"`
	Argv          []string `json:"argv,omitempty"`
}

// HandlerMatch describes the rule that would open a file.
type HandlerMatch struct {
	Index   int    `json:"index"`
	Reason  string `json:"reason"`
	Command string `json:"command"`
	Wait    bool   `json:"wait"`
}

// CheckOutput is the dry-run verdict for a path.
type CheckOutput struct {
	Type          string        `json:"type"`
	SchemaVersion int           `json:"schemaVersion"`
	LaunchPath    string        `json:"path"`
	Canonical     string        `json:"canonical,omitempty"`
	Valid         bool          `json:"valid"`
	Reason        string        `json:"reason,omitempty"`
	Handler       *HandlerMatch `json:"handler,omitempty"`
	DefaultOpener []string      `json:"default_opener,omitempty"`
	Strict        bool          `json:"strict"`
	Allowed       bool          `json:"allowed"`
	Argv          []string      `json:"argv,omitempty"`
}

// HandlerOutput is one configured file handler rule.
type HandlerOutput struct {
	Type          string   `json:"type"`
	SchemaVersion int      `json:"schemaVersion"`
	Index         int      `json:"index"`
	Extensions    []string `json:"extensions,omitempty"`
	Pattern       string   `json:"pattern,omitempty"`
	MimeType      string   `json:"mime_type,omitempty"`
	Command       string   `json:"command"`
	Terminal      bool     `json:"terminal"`
	Allowed       bool     `json:"allowed"`
}

// NDJSONWriter writes one JSON object per line. It is safe for concurrent use.
type NDJSONWriter struct {
	mu  sync.Mutex
	enc *json.Encoder
}

func NewNDJSONWriter(w io.Writer) *NDJSONWriter {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &NDJSONWriter{enc: enc}
}

// Write encodes v on its own line.
func (w *NDJSONWriter) Write(v interface{}) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.enc.Encode(v)
}

// WriteError emits an error object. Only the first hint is used.
func (w *NDJSONWriter) WriteError(code, message string, hint ...string) error {
	out := ErrorOutput{
		Type:          "error",
		SchemaVersion: SchemaVersion,
		Code:          code,
		Message:       message,
	}
	if len(hint) > 0 {
		out.Hint = hint[0]
	}
	return w.Write(out)
}

func (w *NDJSONWriter) WriteOutcome(o OutcomeOutput) error {
	o.Type = "outcome"
	o.SchemaVersion = SchemaVersion
	return w.Write(o)
}

func (w *NDJSONWriter) WriteCheck(c CheckOutput) error {
	c.Type = "check"
	c.SchemaVersion = SchemaVersion
	return w.Write(c)
}

func (w *NDJSONWriter) WriteHandler(h HandlerOutput) error {
	h.Type = "handler"
	h.SchemaVersion = SchemaVersion
	return w.Write(h)
}
