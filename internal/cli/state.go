package cli

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vburojevic/fx/internal/output"
)

// browseState is what the browser remembers between runs.
type browseState struct {
	Type          string `json:"type"` // "browse_state"
	SchemaVersion int    `json:"schemaVersion"`
	Dir           string `json:"dir,omitempty"`
	Theme         string `json:"theme,omitempty"`
	ShowHidden    bool   `json:"show_hidden,omitempty"`
	UpdatedAt     string `json:"updated_at,omitempty"`
}

func defaultStatePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".fx", "state.json"), nil
}

// loadState returns nil, nil when no state has been saved yet.
func loadState(path string) (*browseState, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("state path is required")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var st browseState
	if err := json.Unmarshal(b, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

func saveState(path string, st *browseState) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("state path is required")
	}
	if st == nil {
		return errors.New("state is required")
	}
	st.Type = "browse_state"
	st.SchemaVersion = output.SchemaVersion
	if st.UpdatedAt == "" {
		st.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	return os.WriteFile(path, b, 0o644)
}

// startDir picks the directory to open: the argument, then the remembered
// directory if it still exists, then the working directory.
func startDir(arg string, st *browseState) string {
	if arg != "" {
		return arg
	}
	if st != nil && st.Dir != "" {
		if fi, err := os.Stat(st.Dir); err == nil && fi.IsDir() {
			return st.Dir
		}
	}
	return "."
}
