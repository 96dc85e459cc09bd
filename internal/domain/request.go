package domain

// OpenRequest is a single user "open" action. Path is untrusted.
type OpenRequest struct {
	Path    string
	BaseDir string // optional; empty means no sandbox
}

// CanonicalPath is an absolute, symlink-resolved path that passed validation.
// It is the only path form handed to a spawn call.
type CanonicalPath string

func (p CanonicalPath) String() string { return string(p) }

// HandlerCommand is a resolved "open with" template.
type HandlerCommand struct {
	Command string `json:"command"`
	Wait    bool   `json:"wait"`
}

// IsZero reports whether no handler was resolved.
func (h HandlerCommand) IsZero() bool {
	return h.Command == ""
}
