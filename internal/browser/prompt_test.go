package browser

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
)

func TestPromptEditing(t *testing.T) {
	p := NewPrompt("Rename: ", "report.txt")
	assert.Equal(t, len("report.txt"), p.CursorColumn())

	steps := []struct {
		ev   *tcell.EventKey
		want string
		col  int
	}{
		{key(tcell.KeyBackspace2), "report.tx", 9},
		{key(tcell.KeyHome), "report.tx", 0},
		{runeKey('_'), "_report.tx", 1},
		{key(tcell.KeyDelete), "_eport.tx", 1},
		{key(tcell.KeyRight), "_eport.tx", 2},
		{key(tcell.KeyLeft), "_eport.tx", 1},
		{key(tcell.KeyEnd), "_eport.tx", 9},
		{key(tcell.KeyRight), "_eport.tx", 9},
		{key(tcell.KeyCtrlA), "_eport.tx", 0},
		{key(tcell.KeyLeft), "_eport.tx", 0},
		{key(tcell.KeyBackspace), "_eport.tx", 0},
	}
	for i, s := range steps {
		done, _ := p.HandleKey(s.ev)
		assert.False(t, done, "step %d", i)
		assert.Equal(t, s.want, p.Value(), "step %d", i)
		assert.Equal(t, s.col, p.CursorColumn(), "step %d", i)
	}

	p.HandleKey(key(tcell.KeyCtrlE))
	p.HandleKey(key(tcell.KeyLeft))
	p.HandleKey(key(tcell.KeyCtrlU))
	assert.Equal(t, "x", p.Value(), "ctrl-u clears up to the cursor")

	done, ok := p.HandleKey(key(tcell.KeyEnter))
	assert.True(t, done)
	assert.True(t, ok)
}

func TestPromptCancelAndWideRunes(t *testing.T) {
	p := NewPrompt("New file: ", "")
	p.HandleKey(runeKey('日'))
	p.HandleKey(runeKey('x'))
	assert.Equal(t, 3, p.CursorColumn())

	done, ok := p.HandleKey(key(tcell.KeyEscape))
	assert.True(t, done)
	assert.False(t, ok)
}

func TestConfirm(t *testing.T) {
	for r, want := range map[rune]bool{'y': true, 'Y': true, 'n': false, 'q': false} {
		p := NewConfirm("Delete 'a'? [y/N]")
		assert.True(t, p.Confirm())
		done, ok := p.HandleKey(runeKey(r))
		assert.True(t, done)
		assert.Equal(t, want, ok, string(r))
	}
	done, ok := NewConfirm("?").HandleKey(key(tcell.KeyEnter))
	assert.True(t, done)
	assert.False(t, ok, "enter means the default, no")
}
