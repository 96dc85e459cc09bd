package theme

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColor(t *testing.T) {
	assert.Equal(t, tcell.ColorDefault, Color("transparent"))
	assert.Equal(t, tcell.ColorDefault, Color(""))
	assert.Equal(t, tcell.ColorDefault, Color("Default"))
	assert.Equal(t, tcell.NewHexColor(0x1E1E2E), Color("#1E1E2E"))
	assert.Equal(t, tcell.ColorRed, Color("red"))
}

func TestBuiltins(t *testing.T) {
	assert.Equal(t, []string{"catppuccin", "default", "dracula", "gruvbox", "nord"}, Names())

	for _, th := range Builtin() {
		assert.NotEmpty(t, th.Colors.Foreground, th.Name)
		assert.NotEmpty(t, th.Colors.Directory, th.Name)
	}

	th, err := Lookup(DefaultName)
	require.NoError(t, err)
	fg, bg, _ := th.Base().Decompose()
	assert.Equal(t, tcell.NewHexColor(0xCDD6F4), fg)
	assert.Equal(t, tcell.NewHexColor(0x1E1E2E), bg)

	_, err = Lookup("solarized-neon")
	assert.ErrorIs(t, err, ErrUnknownTheme)
}

func TestLoadFillsMissingColors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ocean.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[colors]
background = "#001122"
directory = "lime"
`), 0o644))

	th, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "ocean", th.Name, "name falls back to the file name")
	assert.Equal(t, "#001122", th.Colors.Background)
	assert.Equal(t, "lime", th.Colors.Directory)
	assert.Equal(t, builtins["default"].Colors.UIError, th.Colors.UIError)

	fg, _, _ := th.Style(RoleDirectory).Decompose()
	assert.Equal(t, tcell.ColorLime, fg)
}

func TestLoadRejectsBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("name = "), 0o644))

	_, err := Load(path)
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestFileThemesOverrideBuiltins(t *testing.T) {
	dir := t.TempDir()
	custom := builtins["nord"]
	custom.Colors.Background = "#000000"
	_, err := Save(dir, custom)
	require.NoError(t, err)

	_, err = Save(dir, Theme{Name: "Late Night", Colors: builtins["dracula"].Colors})
	require.NoError(t, err)

	th, err := Lookup("nord", "", dir)
	require.NoError(t, err)
	assert.Equal(t, "#000000", th.Colors.Background)

	th, err = Lookup("late-night", dir)
	require.NoError(t, err)
	assert.Equal(t, "Late Night", th.Name)

	assert.Equal(t, []string{"catppuccin", "default", "dracula", "gruvbox", "late-night", "nord"}, Names(dir))
}

func TestApply(t *testing.T) {
	s := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, s.Init())
	defer s.Fini()

	th, err := Lookup("gruvbox")
	require.NoError(t, err)
	th.Apply(s)
	s.Clear()
	s.Show()

	cells, _, _ := s.GetContents()
	_, bg, _ := cells[0].Style.Decompose()
	assert.Equal(t, tcell.NewHexColor(0x282828), bg)
}

func TestSearchDirs(t *testing.T) {
	dirs := SearchDirs("/etc/fx-test/themes")
	require.NotEmpty(t, dirs)
	assert.Equal(t, "/etc/fx-test/themes", dirs[0])
	assert.Contains(t, dirs, "/usr/share/fx/themes")

	dirs = SearchDirs("")
	assert.NotContains(t, dirs, "")
}
