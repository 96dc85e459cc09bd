// Package browser is the interactive directory view: listing state, toast
// notifications, drawing and the event loop that ties them to the launcher.
package browser

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"
)

// Entry is one row of a directory listing.
type Entry struct {
	Name    string
	Path    string
	IsDir   bool
	Symlink bool
	Exec    bool
	Hidden  bool
	Size    int64
	ModTime time.Time
}

// SortMode orders a listing.
type SortMode int

const (
	// SortType lists directories first (when enabled), then by name.
	SortType SortMode = iota
	SortName
	// SortSize lists directories first, then the largest files.
	SortSize
	// SortDate lists the most recently modified first.
	SortDate
)

var sortModeNames = [...]string{"type", "name", "size", "date"}

func (m SortMode) String() string {
	if m < 0 || int(m) >= len(sortModeNames) {
		return "unknown"
	}
	return sortModeNames[m]
}

// Next is the mode after m, wrapping around.
func (m SortMode) Next() SortMode {
	return (m + 1) % SortMode(len(sortModeNames))
}

// ListingOptions control filtering and ordering.
type ListingOptions struct {
	ShowHidden    bool
	DirsFirst     bool
	CaseSensitive bool
	Sort          SortMode
}

// Listing is the cursor-addressable content of one directory.
type Listing struct {
	opts    ListingOptions
	dir     string
	all     []Entry
	visible []Entry
	cursor  int
}

// NewListing creates an empty listing.
func NewListing(opts ListingOptions) *Listing {
	return &Listing{opts: opts}
}

// Dir is the directory currently listed.
func (l *Listing) Dir() string { return l.dir }

// Entries returns the visible entries.
func (l *Listing) Entries() []Entry { return l.visible }

// Cursor is the index of the selected visible entry.
func (l *Listing) Cursor() int { return l.cursor }

// ShowHidden reports whether dotfiles are listed.
func (l *Listing) ShowHidden() bool { return l.opts.ShowHidden }

// SortMode is the current ordering.
func (l *Listing) SortMode() SortMode { return l.opts.Sort }

// Load lists dir and moves the cursor to the top.
func (l *Listing) Load(dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	entries, err := readEntries(abs)
	if err != nil {
		return err
	}
	l.dir = abs
	l.all = entries
	l.cursor = 0
	l.filter()
	return nil
}

// Reload re-reads the current directory, keeping the selection by name.
func (l *Listing) Reload() error {
	prev, _ := l.Selected()
	entries, err := readEntries(l.dir)
	if err != nil {
		return err
	}
	l.all = entries
	l.filter()
	l.selectName(prev.Name)
	return nil
}

// Selected returns the entry under the cursor.
func (l *Listing) Selected() (Entry, bool) {
	if l.cursor < 0 || l.cursor >= len(l.visible) {
		return Entry{}, false
	}
	return l.visible[l.cursor], true
}

// Move shifts the cursor by delta, clamped to the list.
func (l *Listing) Move(delta int) {
	l.cursor = lo.Clamp(l.cursor+delta, 0, max(len(l.visible)-1, 0))
}

// Top selects the first entry.
func (l *Listing) Top() { l.cursor = 0 }

// Bottom selects the last entry.
func (l *Listing) Bottom() { l.cursor = max(len(l.visible)-1, 0) }

// Enter descends into the selected directory. For a file it returns the
// entry with descended=false so the caller can open it.
func (l *Listing) Enter() (e Entry, descended bool, err error) {
	e, ok := l.Selected()
	if !ok {
		return Entry{}, false, nil
	}
	if !e.IsDir {
		return e, false, nil
	}
	if err := l.Load(e.Path); err != nil {
		return e, false, err
	}
	return e, true, nil
}

// Parent lists the parent directory with the cursor on the directory we came from.
func (l *Listing) Parent() error {
	parent := filepath.Dir(l.dir)
	if parent == l.dir {
		return nil
	}
	from := filepath.Base(l.dir)
	if err := l.Load(parent); err != nil {
		return err
	}
	l.selectName(from)
	return nil
}

// ToggleHidden flips dotfile visibility, keeping the selection when it stays visible.
func (l *Listing) ToggleHidden() {
	prev, _ := l.Selected()
	l.opts.ShowHidden = !l.opts.ShowHidden
	l.filter()
	l.selectName(prev.Name)
}

// CycleSort switches to the next sort mode, keeping the selection.
func (l *Listing) CycleSort() SortMode {
	prev, _ := l.Selected()
	l.opts.Sort = l.opts.Sort.Next()
	l.filter()
	l.selectName(prev.Name)
	return l.opts.Sort
}

func (l *Listing) filter() {
	l.visible = lo.Filter(l.all, func(e Entry, _ int) bool {
		return l.opts.ShowHidden || !e.Hidden
	})
	sort.SliceStable(l.visible, func(i, j int) bool {
		return l.less(l.visible[i], l.visible[j])
	})
	l.Move(0)
}

func (l *Listing) less(a, b Entry) bool {
	switch l.opts.Sort {
	case SortName:
	case SortSize:
		if a.IsDir != b.IsDir {
			return a.IsDir
		}
		if a.Size != b.Size {
			return a.Size > b.Size
		}
	case SortDate:
		if !a.ModTime.Equal(b.ModTime) {
			return a.ModTime.After(b.ModTime)
		}
	default:
		if l.opts.DirsFirst && a.IsDir != b.IsDir {
			return a.IsDir
		}
	}
	return l.nameLess(a, b)
}

func (l *Listing) nameLess(a, b Entry) bool {
	if l.opts.CaseSensitive {
		return a.Name < b.Name
	}
	la, lb := strings.ToLower(a.Name), strings.ToLower(b.Name)
	if la == lb {
		return a.Name < b.Name
	}
	return la < lb
}

func (l *Listing) selectName(name string) {
	if name == "" {
		return
	}
	if _, idx, ok := lo.FindIndexOf(l.visible, func(e Entry) bool { return e.Name == name }); ok {
		l.cursor = idx
	}
}

func readEntries(dir string) ([]Entry, error) {
	dirents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(dirents))
	for _, d := range dirents {
		e := Entry{
			Name:    d.Name(),
			Path:    filepath.Join(dir, d.Name()),
			IsDir:   d.IsDir(),
			Symlink: d.Type()&fs.ModeSymlink != 0,
			Hidden:  strings.HasPrefix(d.Name(), "."),
		}
		info, err := os.Stat(e.Path)
		if err != nil {
			// dangling symlink: list it, it just can't be entered
			out = append(out, e)
			continue
		}
		e.IsDir = info.IsDir()
		if !e.IsDir {
			e.Size = info.Size()
		}
		e.ModTime = info.ModTime()
		e.Exec = !e.IsDir && info.Mode().Perm()&0o111 != 0
		out = append(out, e)
	}
	return out, nil
}
