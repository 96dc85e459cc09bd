package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

// FileName is the config file name inside a config root.
const FileName = "config.toml"

// ErrConfigExists is returned by Init when a config file is already present.
var ErrConfigExists = errors.New("config file already exists")

// Config holds application configuration
type Config struct {
	// Global settings
	Format  string `mapstructure:"format" toml:"format"`
	Verbose bool   `mapstructure:"verbose" toml:"verbose"`
	LogFile string `mapstructure:"log_file" toml:"log_file,omitempty"`

	Layout       LayoutConfig       `mapstructure:"layout" toml:"layout"`
	Appearance   AppearanceConfig   `mapstructure:"appearance" toml:"appearance"`
	Behavior     BehaviorConfig     `mapstructure:"behavior" toml:"behavior"`
	FileHandlers FileHandlersConfig `mapstructure:"file_handlers" toml:"file_handlers"`

	// Root is the directory the config file was read from; themes live
	// under Root/themes. Empty when running on defaults.
	Root string `mapstructure:"-" toml:"-"`
}

type LayoutConfig struct {
	ShowHidden bool `mapstructure:"show_hidden" toml:"show_hidden"`
}

type AppearanceConfig struct {
	Theme string `mapstructure:"theme" toml:"theme"`
	Icons bool   `mapstructure:"icons" toml:"icons"`
}

// BehaviorConfig controls sorting and launching.
type BehaviorConfig struct {
	SortDirsFirst bool `mapstructure:"sort_dirs_first" toml:"sort_dirs_first"`
	CaseSensitive bool `mapstructure:"case_sensitive" toml:"case_sensitive"`

	// Strict enables the command whitelist.
	Strict bool `mapstructure:"strict" toml:"strict"`
	// AllowedCommands extends the built-in whitelist.
	AllowedCommands []string `mapstructure:"allowed_commands" toml:"allowed_commands,omitempty"`
	// SettleDelay is how long to wait after a child exits before redrawing.
	SettleDelay string `mapstructure:"settle_delay" toml:"settle_delay"`
}

// FileHandlersConfig maps files to "open with" commands.
type FileHandlersConfig struct {
	// Default replaces the platform opener (xdg-open, open, rundll32).
	Default string        `mapstructure:"default" toml:"default,omitempty"`
	Rules   []HandlerRule `mapstructure:"rules" toml:"rules,omitempty"`
}

// HandlerRule matches a file by extension, glob pattern or MIME type.
type HandlerRule struct {
	Extensions []string `mapstructure:"extensions" toml:"extensions,omitempty"`
	Pattern    string   `mapstructure:"pattern" toml:"pattern,omitempty"`
	MimeType   string   `mapstructure:"mime_type" toml:"mime_type,omitempty"`
	Command    string   `mapstructure:"command" toml:"command"`
	// Terminal handlers take over the terminal and are waited for.
	Terminal bool `mapstructure:"terminal" toml:"terminal"`
}

// Default returns a Config with default values
func Default() *Config {
	return &Config{
		Format:  "text",
		Verbose: false,
		Layout: LayoutConfig{
			ShowHidden: false,
		},
		Appearance: AppearanceConfig{
			Theme: "catppuccin",
			Icons: true,
		},
		Behavior: BehaviorConfig{
			SortDirsFirst: true,
			CaseSensitive: false,
			Strict:        false,
			SettleDelay:   "100ms",
		},
	}
}

// ExampleRules are written by Init as a starting point.
func ExampleRules() []HandlerRule {
	return []HandlerRule{
		{Extensions: []string{"cpp", "h", "c", "go"}, Command: "nvim", Terminal: true},
		{Pattern: "*.md", Command: "glow -p", Terminal: true},
		{MimeType: "image/*", Command: "feh"},
		{MimeType: "video/*", Command: "mpv"},
		{Extensions: []string{"pdf"}, Command: "zathura"},
	}
}

// Settle parses SettleDelay, falling back to 100ms.
func (c *Config) Settle() time.Duration {
	d, err := time.ParseDuration(c.Behavior.SettleDelay)
	if err != nil || d < 0 {
		return 100 * time.Millisecond
	}
	return d
}

// ThemesDir returns the directory holding user theme files, or "".
func (c *Config) ThemesDir() string {
	if c.Root == "" {
		return ""
	}
	return filepath.Join(c.Root, "themes")
}

// Load loads configuration from files and environment
func Load() (*Config, error) {
	path := findConfigFile()

	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
	}

	// Environment variables
	v.SetEnvPrefix("FX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.BindEnv("format", "FX_FORMAT")
	v.BindEnv("verbose", "FX_VERBOSE")
	v.BindEnv("appearance.theme", "FX_THEME")
	v.BindEnv("behavior.strict", "FX_STRICT")

	if path != "" {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if path != "" {
		cfg.Root = filepath.Dir(path)
	}
	applyEnvOverrides(cfg)

	return cfg, nil
}

// LoadFromFile loads configuration from a specific file
func LoadFromFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	cfg.Root = filepath.Dir(path)
	applyEnvOverrides(cfg)

	return cfg, nil
}

// ConfigFile returns the path to the config file that Load would read
func ConfigFile() string {
	return findConfigFile()
}

// DefaultRoot is the per-user config directory, e.g. ~/.config/fx.
func DefaultRoot() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "fx"), nil
}

// Init creates root/config.toml with defaults and example handler rules, and
// an empty root/themes directory. An existing config file is never replaced.
func Init(root string) (string, error) {
	if err := os.MkdirAll(filepath.Join(root, "themes"), 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(root, FileName)
	if _, err := os.Stat(path); err == nil {
		return path, ErrConfigExists
	}

	cfg := Default()
	cfg.FileHandlers.Rules = ExampleRules()
	data, err := toml.Marshal(cfg)
	if err != nil {
		return "", err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return path, ErrConfigExists
		}
		return "", err
	}
	defer f.Close()
	if _, err := f.Write(data); err != nil {
		return "", err
	}
	return path, nil
}

// Encode renders cfg as TOML.
func Encode(cfg *Config) ([]byte, error) {
	return toml.Marshal(cfg)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("toml")

	cfg := Default()
	v.SetDefault("format", cfg.Format)
	v.SetDefault("verbose", cfg.Verbose)
	v.SetDefault("log_file", cfg.LogFile)
	v.SetDefault("layout.show_hidden", cfg.Layout.ShowHidden)
	v.SetDefault("appearance.theme", cfg.Appearance.Theme)
	v.SetDefault("appearance.icons", cfg.Appearance.Icons)
	v.SetDefault("behavior.sort_dirs_first", cfg.Behavior.SortDirsFirst)
	v.SetDefault("behavior.case_sensitive", cfg.Behavior.CaseSensitive)
	v.SetDefault("behavior.strict", cfg.Behavior.Strict)
	v.SetDefault("behavior.settle_delay", cfg.Behavior.SettleDelay)
	v.SetDefault("file_handlers.default", "")
	return v
}

// findConfigFile returns the first config file found, in order:
// ./config/config.toml, <user config dir>/fx/config.toml, ~/.fx.toml.
func findConfigFile() string {
	var candidates []string
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, "config", FileName))
	}
	if root, err := DefaultRoot(); err == nil {
		candidates = append(candidates, filepath.Join(root, FileName))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".fx.toml"))
	}

	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c
		}
	}
	return ""
}

// applyEnvOverrides applies the FX_* variables that take precedence over any
// file, including one passed with --config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("FX_FORMAT"); v != "" {
		cfg.Format = v
	}
	if v := os.Getenv("FX_THEME"); v != "" {
		cfg.Appearance.Theme = v
	}
	if isTruthy(os.Getenv("FX_STRICT")) {
		cfg.Behavior.Strict = true
	}
	if isTruthy(os.Getenv("FX_SHOW_HIDDEN")) {
		cfg.Layout.ShowHidden = true
	}
	if v := os.Getenv("FX_OPENER"); v != "" {
		cfg.FileHandlers.Default = v
	}
}

func isTruthy(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}
