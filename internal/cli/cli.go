// Package cli defines the fx command tree.
package cli

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/vburojevic/fx/internal/config"
)

// Set at build time with -ldflags.
var (
	Version = "dev"
	Commit  = "none"
)

// CLI is the root command.
type CLI struct {
	Format     string `short:"f" default:"${config_format}" enum:"text,ndjson" help:"Output format for non-interactive commands (text, ndjson)"`
	Verbose    bool   `short:"v" help:"Write debug logs to the log file"`
	LogFile    string `type:"path" help:"Log file (default: $XDG_STATE_HOME/fx/fx.log)"`
	ConfigFile string `type:"path" name:"config-file" help:"Read this config file instead of searching for one"`

	Browse     BrowseCmd     `cmd:"" default:"withargs" help:"Browse a directory (default command)"`
	Open       OpenCmd       `cmd:"" help:"Open a file with its handler, without the browser"`
	Check      CheckCmd      `cmd:"" help:"Show what opening a file would run, without running it"`
	Handlers   HandlersCmd   `cmd:"" help:"List configured file handlers or the command whitelist"`
	Themes     ThemesCmd     `cmd:"" help:"List available themes"`
	Config     ConfigCmd     `cmd:"" help:"Show, locate or create the config file"`
	Schema     SchemaCmd     `cmd:"" help:"JSON Schema for ndjson output"`
	Version    VersionCmd    `cmd:"" help:"Print version information"`
	Completion CompletionCmd `cmd:"" help:"Generate shell completions"`
}

// Globals is passed to every command's Run.
type Globals struct {
	Format  string
	Verbose bool
	LogFile string

	Stdout io.Writer
	Stderr io.Writer

	Config *config.Config
	Logger *zap.Logger
}

// NewGlobalsWithConfig merges parsed flags over cfg. An explicit
// --config-file replaces cfg entirely.
func NewGlobalsWithConfig(c *CLI, cfg *config.Config) *Globals {
	if c.ConfigFile != "" {
		loaded, err := config.LoadFromFile(c.ConfigFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to load %s: %v\n", c.ConfigFile, err)
		} else {
			cfg = loaded
		}
	}
	if cfg == nil {
		cfg = config.Default()
	}

	g := &Globals{
		Format:  c.Format,
		Verbose: c.Verbose || cfg.Verbose,
		LogFile: c.LogFile,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Config:  cfg,
	}
	if g.LogFile == "" {
		g.LogFile = cfg.LogFile
	}
	g.Logger = newLogger(g)
	return g
}

// Debug logs a formatted debug message when verbose.
func (g *Globals) Debug(format string, args ...interface{}) {
	if g.Logger == nil {
		return
	}
	g.Logger.Sugar().Debugf(format, args...)
}

// Close flushes the logger.
func (g *Globals) Close() {
	if g.Logger != nil {
		_ = g.Logger.Sync()
	}
}

func (g *Globals) logger() *zap.Logger {
	if g.Logger == nil {
		return zap.NewNop()
	}
	return g.Logger
}
