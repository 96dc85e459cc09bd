package session

import (
	"io"
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// TTY is the raw terminal device underneath the screen.
type TTY interface {
	// Reset returns the terminal to plain defaults for a child program.
	Reset()
	// Save records the line discipline the child will run under.
	Save()
	// Restore puts back the line discipline recorded by Save.
	Restore() error
}

// Terminal implements TTY on a real device with termenv and x/term.
type Terminal struct {
	fd    int
	out   *termenv.Output
	saved *term.State
}

// NewTerminal wraps the controlling terminal. in supplies the termios fd,
// out receives the reset sequences.
func NewTerminal(in *os.File, out io.Writer) *Terminal {
	return &Terminal{
		fd:  int(in.Fd()),
		out: termenv.NewOutput(out),
	}
}

// Reset clears colors and attributes, leaves the alternate screen, shows the
// cursor and clears the display.
func (t *Terminal) Reset() {
	t.out.ExitAltScreen()
	t.out.Reset()
	t.out.ShowCursor()
	t.out.ClearScreen()
	t.out.MoveCursor(1, 1)
}

func (t *Terminal) Save() {
	if !term.IsTerminal(t.fd) {
		t.saved = nil
		return
	}
	st, err := term.GetState(t.fd)
	if err != nil {
		t.saved = nil
		return
	}
	t.saved = st
}

func (t *Terminal) Restore() error {
	if t.saved == nil {
		return nil
	}
	return term.Restore(t.fd, t.saved)
}

type nopTTY struct{}

func (nopTTY) Reset()         {}
func (nopTTY) Save()          {}
func (nopTTY) Restore() error { return nil }
