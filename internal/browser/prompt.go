package browser

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// Prompt is a modal one-line question drawn in the status bar. A text prompt
// edits a value; a confirm prompt takes a single y/n key.
type Prompt struct {
	Label   string
	confirm bool
	input   []rune
	pos     int
}

// NewPrompt asks for text, starting from initial with the cursor at the end.
func NewPrompt(label, initial string) *Prompt {
	in := []rune(initial)
	return &Prompt{Label: label, input: in, pos: len(in)}
}

// NewConfirm asks a yes/no question. Only y or Y answers yes.
func NewConfirm(label string) *Prompt {
	return &Prompt{Label: label, confirm: true}
}

func (p *Prompt) Confirm() bool { return p.confirm }

func (p *Prompt) Value() string { return string(p.input) }

// CursorColumn is the cell offset of the cursor within the value.
func (p *Prompt) CursorColumn() int {
	return runewidth.StringWidth(string(p.input[:p.pos]))
}

// HandleKey applies one key. done is true once the prompt is answered;
// ok tells a submit or yes from a cancel or no.
func (p *Prompt) HandleKey(ev *tcell.EventKey) (done, ok bool) {
	if p.confirm {
		if ev.Key() == tcell.KeyRune && (ev.Rune() == 'y' || ev.Rune() == 'Y') {
			return true, true
		}
		return true, false
	}

	switch ev.Key() {
	case tcell.KeyEnter:
		return true, true
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true, false
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if p.pos > 0 {
			p.input = append(p.input[:p.pos-1], p.input[p.pos:]...)
			p.pos--
		}
	case tcell.KeyDelete:
		if p.pos < len(p.input) {
			p.input = append(p.input[:p.pos], p.input[p.pos+1:]...)
		}
	case tcell.KeyLeft:
		p.pos = max(p.pos-1, 0)
	case tcell.KeyRight:
		p.pos = min(p.pos+1, len(p.input))
	case tcell.KeyHome, tcell.KeyCtrlA:
		p.pos = 0
	case tcell.KeyEnd, tcell.KeyCtrlE:
		p.pos = len(p.input)
	case tcell.KeyCtrlU:
		p.input = append([]rune{}, p.input[p.pos:]...)
		p.pos = 0
	case tcell.KeyRune:
		p.input = append(p.input[:p.pos], append([]rune{ev.Rune()}, p.input[p.pos:]...)...)
		p.pos++
	}
	return false, false
}
