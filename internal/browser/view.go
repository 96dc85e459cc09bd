package browser

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/vburojevic/fx/internal/theme"
)

// View is everything one frame needs.
type View struct {
	Listing *Listing
	Theme   theme.Theme
	Toast   *Toast
	Icons   bool
	Strict  bool
	// Prompt, when set, replaces the status bar.
	Prompt *Prompt
}

const (
	iconDir     = "\uf07b "
	iconFile    = "\uf15b "
	iconLink    = "\uf0c1 "
	iconExec    = "\uf489 "
	headerRows  = 1
	footerRows  = 1
	ellipsis    = "…"
	toastMargin = 1
)

// Draw paints a full frame: path header, entries, toast and status bar.
// It does not call Show.
func Draw(s tcell.Screen, v View) {
	s.SetStyle(v.Theme.Base())
	s.Clear()
	w, h := s.Size()
	if w <= 0 || h <= 0 {
		return
	}

	drawText(s, 0, 0, w, v.Theme.Style(theme.RoleParentDir).Bold(true), v.Listing.Dir())

	rows := h - headerRows - footerRows
	entries := v.Listing.Entries()
	offset := scrollOffset(v.Listing.Cursor(), len(entries), rows)
	for i := 0; i < rows && offset+i < len(entries); i++ {
		e := entries[offset+i]
		style := entryStyle(v.Theme, e)
		if offset+i == v.Listing.Cursor() {
			style = v.Theme.Style(theme.RoleSelected)
			fillRow(s, headerRows+i, w, style)
		}
		drawText(s, 1, headerRows+i, w-1, style, entryLabel(e, v.Icons))
	}
	if len(entries) == 0 && rows > 0 {
		drawText(s, 1, headerRows, w-1, v.Theme.Style(theme.RoleSecondary), "(empty)")
	}

	if v.Prompt != nil {
		drawPrompt(s, w, h-1, v.Theme, v.Prompt)
	} else {
		s.HideCursor()
		drawStatus(s, w, h-1, v)
	}

	if v.Toast != nil && h > 2 {
		drawToast(s, w, h-1-toastMargin, v.Theme, *v.Toast)
	}
}

func entryStyle(t theme.Theme, e Entry) tcell.Style {
	switch {
	case e.Symlink:
		return t.Style(theme.RoleSymlink)
	case e.IsDir:
		return t.Style(theme.RoleDirectory)
	case e.Hidden:
		return t.Style(theme.RoleHidden)
	case e.Exec:
		return t.Style(theme.RoleExecutable)
	default:
		return t.Style(theme.RoleNormal)
	}
}

func entryLabel(e Entry, icons bool) string {
	name := e.Name
	if e.IsDir {
		name += "/"
	}
	if !icons {
		return name
	}
	switch {
	case e.Symlink:
		return iconLink + name
	case e.IsDir:
		return iconDir + name
	case e.Exec:
		return iconExec + name
	default:
		return iconFile + name
	}
}

func drawStatus(s tcell.Screen, w, y int, v View) {
	bar := v.Theme.Style(theme.RoleStatusBar)
	fillRow(s, y, w, bar)

	mode := " NORMAL "
	if v.Strict {
		mode = " STRICT "
	}
	x := drawText(s, 0, y, w, v.Theme.Style(theme.RoleStatusActive), mode)

	left := fmt.Sprintf(" %d items", len(v.Listing.Entries()))
	if v.Listing.ShowHidden() {
		left += "  hidden:on"
	}
	if m := v.Listing.SortMode(); m != SortType {
		left += "  sort:" + m.String()
	}
	drawText(s, x, y, w-x, bar, left)

	right := fmt.Sprintf("%s  %d/%d ", v.Theme.Name, min(v.Listing.Cursor()+1, len(v.Listing.Entries())), len(v.Listing.Entries()))
	rw := runewidth.StringWidth(right)
	if rw < w-x {
		drawText(s, w-rw, y, rw, bar, right)
	}
}

func drawPrompt(s tcell.Screen, w, y int, t theme.Theme, p *Prompt) {
	bar := t.Style(theme.RoleStatusBar)
	fillRow(s, y, w, bar)
	x := drawText(s, 0, y, w, t.Style(theme.RoleStatusActive), " "+p.Label)
	if p.Confirm() {
		s.HideCursor()
		return
	}
	drawText(s, x, y, w-x, bar, p.Value())
	s.ShowCursor(min(x+p.CursorColumn(), w-1), y)
}

func drawToast(s tcell.Screen, w, y int, t theme.Theme, toast Toast) {
	role := theme.RoleInfo
	switch toast.Level {
	case LevelSuccess:
		role = theme.RoleSuccess
	case LevelWarning:
		role = theme.RoleWarning
	case LevelError:
		role = theme.RoleError
	}
	text := " " + toast.Text() + " "
	tw := min(runewidth.StringWidth(text), w)
	style := t.Style(role).Background(theme.Color(t.Colors.StatusBarBg)).Bold(true)
	drawText(s, w-tw, y, tw, style, text)
}

// scrollOffset keeps the cursor inside a window of rows entries.
func scrollOffset(cursor, total, rows int) int {
	if rows <= 0 || total <= rows {
		return 0
	}
	off := cursor - rows/2
	return max(0, min(off, total-rows))
}

func fillRow(s tcell.Screen, y, w int, style tcell.Style) {
	for x := 0; x < w; x++ {
		s.SetContent(x, y, ' ', nil, style)
	}
}

// drawText writes text at (x, y) clipped to maxw cells, ending with an
// ellipsis when cut. It returns the column after the last cell written.
func drawText(s tcell.Screen, x, y, maxw int, style tcell.Style, text string) int {
	if maxw <= 0 {
		return x
	}
	if runewidth.StringWidth(text) > maxw {
		text = runewidth.Truncate(text, maxw, ellipsis)
	}
	col := x
	for _, r := range strings.ToValidUTF8(text, "?") {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		s.SetContent(col, y, r, nil, style)
		col += rw
	}
	return col
}
