// Package theme holds the color palettes used by the browser, built in or
// loaded from TOML theme files.
package theme

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/samber/lo"
)

// DefaultName is the theme used when none is configured.
const DefaultName = "catppuccin"

// ErrUnknownTheme is returned when a name matches no built-in or file theme.
var ErrUnknownTheme = errors.New("unknown theme")

// Colors are "#RRGGBB" strings, color names, or "transparent" for the
// terminal's own default.
type Colors struct {
	Background      string `toml:"background"`
	Foreground      string `toml:"foreground"`
	Selected        string `toml:"selected"`
	Directory       string `toml:"directory"`
	Executable      string `toml:"executable"`
	Hidden          string `toml:"hidden"`
	Symlink         string `toml:"symlink"`
	ParentDir       string `toml:"parent_dir"`
	StatusBarBg     string `toml:"status_bar_bg"`
	StatusBarFg     string `toml:"status_bar_fg"`
	StatusBarActive string `toml:"status_bar_active"`
	UISecondary     string `toml:"ui_secondary"`
	UIBorder        string `toml:"ui_border"`
	UIError         string `toml:"ui_error"`
	UIWarning       string `toml:"ui_warning"`
	UIAccent        string `toml:"ui_accent"`
	UIInfo          string `toml:"ui_info"`
	UISuccess       string `toml:"ui_success"`
}

// Theme is a named palette. It is also the on-disk TOML layout:
//
//	name = "nord"
//	[colors]
//	background = "#2E3440"
type Theme struct {
	Name   string `toml:"name"`
	Colors Colors `toml:"colors"`
}

// Role names a themed element.
type Role int

const (
	RoleNormal Role = iota
	RoleSelected
	RoleDirectory
	RoleExecutable
	RoleHidden
	RoleSymlink
	RoleParentDir
	RoleStatusBar
	RoleStatusActive
	RoleSecondary
	RoleBorder
	RoleError
	RoleWarning
	RoleAccent
	RoleInfo
	RoleSuccess
)

// Color converts a theme color string to a tcell color.
func Color(s string) tcell.Color {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "transparent", "default":
		return tcell.ColorDefault
	}
	return tcell.GetColor(strings.ToLower(s))
}

// Base is the screen-wide style: foreground on background.
func (t Theme) Base() tcell.Style {
	return tcell.StyleDefault.
		Foreground(Color(t.Colors.Foreground)).
		Background(Color(t.Colors.Background))
}

// Style returns the style for a role, layered on Base.
func (t Theme) Style(r Role) tcell.Style {
	base := t.Base()
	c := t.Colors
	switch r {
	case RoleSelected:
		return base.Background(Color(c.Selected)).Bold(true)
	case RoleDirectory:
		return base.Foreground(Color(c.Directory)).Bold(true)
	case RoleExecutable:
		return base.Foreground(Color(c.Executable))
	case RoleHidden:
		return base.Foreground(Color(c.Hidden))
	case RoleSymlink:
		return base.Foreground(Color(c.Symlink)).Italic(true)
	case RoleParentDir:
		return base.Foreground(Color(c.ParentDir))
	case RoleStatusBar:
		return base.Foreground(Color(c.StatusBarFg)).Background(Color(c.StatusBarBg))
	case RoleStatusActive:
		return base.Foreground(Color(c.StatusBarBg)).Background(Color(c.StatusBarActive)).Bold(true)
	case RoleSecondary:
		return base.Foreground(Color(c.UISecondary))
	case RoleBorder:
		return base.Foreground(Color(c.UIBorder))
	case RoleError:
		return base.Foreground(Color(c.UIError))
	case RoleWarning:
		return base.Foreground(Color(c.UIWarning))
	case RoleAccent:
		return base.Foreground(Color(c.UIAccent))
	case RoleInfo:
		return base.Foreground(Color(c.UIInfo))
	case RoleSuccess:
		return base.Foreground(Color(c.UISuccess))
	default:
		return base
	}
}

// Apply sets the theme's base style on a screen so that clears and empty
// cells use the theme background.
func (t Theme) Apply(s tcell.Screen) {
	s.SetStyle(t.Base())
}

// Load reads a theme file. Colors missing from the file keep the default
// theme's values; a missing name falls back to the file name.
func Load(path string) (Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, err
	}
	t := Theme{Colors: builtins["default"].Colors}
	if err := toml.Unmarshal(data, &t); err != nil {
		return Theme{}, fmt.Errorf("parse theme %s: %w", path, err)
	}
	if strings.TrimSpace(t.Name) == "" {
		t.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return t, nil
}

// Save writes t to dir/<name>.toml.
func Save(dir string, t Theme) (string, error) {
	data, err := toml.Marshal(t)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, fileName(t.Name))
	return path, os.WriteFile(path, data, 0o644)
}

// Lookup resolves a theme by name. Theme files in dirs (searched in order)
// take precedence over built-ins of the same name.
func Lookup(name string, dirs ...string) (Theme, error) {
	name = strings.TrimSpace(name)
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		path := filepath.Join(dir, fileName(name))
		if _, err := os.Stat(path); err != nil {
			continue
		}
		return Load(path)
	}
	if t, ok := builtins[strings.ToLower(name)]; ok {
		return t, nil
	}
	return Theme{}, fmt.Errorf("%w: %s", ErrUnknownTheme, name)
}

// Names lists the built-in themes plus any *.toml files in dirs, sorted.
func Names(dirs ...string) []string {
	names := lo.Keys(builtins)
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		matches, _ := filepath.Glob(filepath.Join(dir, "*.toml"))
		for _, m := range matches {
			names = append(names, strings.TrimSuffix(filepath.Base(m), ".toml"))
		}
	}
	names = lo.Uniq(names)
	sort.Strings(names)
	return names
}

// Builtin returns the built-in themes, sorted by name.
func Builtin() []Theme {
	out := lo.Values(builtins)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// SearchDirs returns the theme directories to consult, most specific first.
func SearchDirs(configThemes string) []string {
	dirs := []string{configThemes}
	if cfg, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, filepath.Join(cfg, "fx", "themes"))
	}
	dirs = append(dirs, "/usr/share/fx/themes", "/usr/local/share/fx/themes")
	return lo.Uniq(lo.Compact(dirs))
}

func fileName(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, " ", "-")) + ".toml"
}
