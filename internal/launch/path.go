package launch

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/vburojevic/fx/internal/domain"
)

// PathError is returned by ValidatePath. Its message is always the classified
// "Invalid or inaccessible file path"; Reason and Err are kept for logs.
type PathError struct {
	Path   string
	Reason string
	Err    error
}

func (e *PathError) Error() string { return domain.ErrInvalidPath.Error() }
func (e *PathError) Unwrap() error { return domain.ErrInvalidPath }

// Cause returns the underlying filesystem error, if any.
func (e *PathError) Cause() error { return e.Err }

// ValidatePath canonicalizes an untrusted path and, when baseDir is set,
// rejects anything that does not resolve to baseDir or one of its descendants.
// Symlinks are resolved before the containment check, so a link pointing out
// of baseDir is rejected the same way as "../" traversal.
func ValidatePath(path, baseDir string) (domain.CanonicalPath, error) {
	if strings.TrimSpace(path) == "" {
		return "", &PathError{Path: path, Reason: "empty path"}
	}
	if _, err := os.Stat(path); err != nil {
		return "", &PathError{Path: path, Reason: "does not exist", Err: err}
	}

	canonical, err := canonicalize(path)
	if err != nil {
		return "", &PathError{Path: path, Reason: "cannot canonicalize", Err: err}
	}

	if baseDir == "" {
		return domain.CanonicalPath(canonical), nil
	}

	base, err := canonicalize(baseDir)
	if err != nil {
		return "", &PathError{Path: path, Reason: "invalid base directory", Err: err}
	}

	rel, err := filepath.Rel(base, canonical)
	if err != nil {
		return "", &PathError{Path: path, Reason: "outside base directory", Err: err}
	}
	if escapesBase(rel) {
		return "", &PathError{Path: path, Reason: "outside base directory"}
	}

	return domain.CanonicalPath(canonical), nil
}

func canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

func escapesBase(rel string) bool {
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return true
	}
	// filepath.Rel never returns an absolute path for two absolute inputs on
	// the same volume; treat one as an escape anyway.
	return filepath.IsAbs(rel)
}
