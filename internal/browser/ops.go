package browser

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrEmptyName   = errors.New("name cannot be empty")
	ErrInvalidName = errors.New("invalid characters in name")
)

// validName accepts a single path element.
func validName(name string) error {
	switch {
	case name == "":
		return ErrEmptyName
	case name == "." || name == "..", strings.ContainsAny(name, "/\\\x00"):
		return fmt.Errorf("%q: %w", name, ErrInvalidName)
	}
	return nil
}

// target returns the path for name in the listed directory and fails when
// something already lives there.
func (l *Listing) target(name string) (string, error) {
	if err := validName(name); err != nil {
		return "", err
	}
	path := filepath.Join(l.dir, name)
	if _, err := os.Lstat(path); err == nil {
		return "", fmt.Errorf("%q: %w", name, fs.ErrExist)
	}
	return path, nil
}

// CreateFile creates an empty file in the listed directory and selects it.
func (l *Listing) CreateFile(name string) error {
	path, err := l.target(name)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return l.reloadSelecting(name)
}

// CreateDir creates a directory in the listed directory and selects it.
func (l *Listing) CreateDir(name string) error {
	path, err := l.target(name)
	if err != nil {
		return err
	}
	if err := os.Mkdir(path, 0o755); err != nil {
		return err
	}
	return l.reloadSelecting(name)
}

// Rename gives e a new name in the same directory and selects it.
func (l *Listing) Rename(e Entry, name string) error {
	if name == e.Name {
		return nil
	}
	path, err := l.target(name)
	if err != nil {
		return err
	}
	if err := os.Rename(e.Path, path); err != nil {
		return err
	}
	return l.reloadSelecting(name)
}

// Remove deletes e. Directories are removed with their contents; a symlink
// is removed itself, never what it points to.
func (l *Listing) Remove(e Entry) error {
	if _, err := os.Lstat(e.Path); err != nil {
		return err
	}
	var err error
	if e.IsDir && !e.Symlink {
		err = os.RemoveAll(e.Path)
	} else {
		err = os.Remove(e.Path)
	}
	if err != nil {
		return err
	}
	return l.Reload()
}

func (l *Listing) reloadSelecting(name string) error {
	if err := l.Reload(); err != nil {
		return err
	}
	l.selectName(name)
	return nil
}
