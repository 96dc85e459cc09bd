package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vburojevic/fx/internal/config"
	"github.com/vburojevic/fx/internal/output"
	"github.com/vburojevic/fx/internal/theme"
)

// ConfigCmd groups the config subcommands.
type ConfigCmd struct {
	Show ConfigShowCmd `cmd:"" default:"1" help:"Show the effective configuration"`
	Path ConfigPathCmd `cmd:"" help:"Show which config file is used"`
	Init ConfigInitCmd `cmd:"" help:"Write a default config file and theme files"`
}

// ConfigShowCmd prints the effective configuration.
type ConfigShowCmd struct{}

// Run executes the config show command
func (c *ConfigShowCmd) Run(globals *Globals) error {
	cfg := globals.Config
	if globals.Format == "ndjson" {
		return output.NewNDJSONWriter(globals.Stdout).Write(map[string]interface{}{
			"type":          "config",
			"schemaVersion": output.SchemaVersion,
			"format":        cfg.Format,
			"verbose":       cfg.Verbose,
			"theme":         cfg.Appearance.Theme,
			"icons":         cfg.Appearance.Icons,
			"show_hidden":   cfg.Layout.ShowHidden,
			"strict":        cfg.Behavior.Strict,
			"settle_delay":  cfg.Settle().String(),
			"handlers":      len(cfg.FileHandlers.Rules),
			"root":          cfg.Root,
		})
	}

	data, err := config.Encode(cfg)
	if err != nil {
		return outputErrorCommon(globals, "CONFIG_ENCODE_FAILED", err.Error())
	}
	output.NewTextWriter(globals.Stdout).Heading("Current Configuration:")
	_, err = globals.Stdout.Write(data)
	return err
}

// ConfigPathCmd shows the config file that was loaded.
type ConfigPathCmd struct{}

// Run executes the config path command
func (c *ConfigPathCmd) Run(globals *Globals) error {
	path := config.ConfigFile()
	if globals.Format == "ndjson" {
		return output.NewNDJSONWriter(globals.Stdout).Write(map[string]interface{}{
			"type":          "config_path",
			"schemaVersion": output.SchemaVersion,
			"path":          path,
			"found":         path != "",
		})
	}
	if path == "" {
		fmt.Fprintln(globals.Stdout, "No configuration file found; using defaults.")
		fmt.Fprintln(globals.Stdout, "Run 'fx config init' to create one.")
		return nil
	}
	fmt.Fprintf(globals.Stdout, "Config file: %s\n", path)
	return nil
}

// ConfigInitCmd writes config.toml with example handlers plus one TOML file
// per built-in theme, which users can copy and edit.
type ConfigInitCmd struct {
	Dir string `type:"path" help:"Config directory (default: the per-user config dir, e.g. ~/.config/fx)"`
}

// Run executes the config init command
func (c *ConfigInitCmd) Run(globals *Globals) error {
	root := c.Dir
	if root == "" {
		var err error
		if root, err = config.DefaultRoot(); err != nil {
			return outputErrorCommon(globals, "CONFIG_DIR_UNKNOWN", err.Error(), "pass --dir")
		}
	}

	path, err := config.Init(root)
	if errors.Is(err, config.ErrConfigExists) {
		return outputErrorCommon(globals, "CONFIG_EXISTS", fmt.Sprintf("%s already exists", path), "edit it or remove it first")
	}
	if err != nil {
		return outputErrorCommon(globals, "CONFIG_INIT_FAILED", err.Error())
	}

	themesDir := filepath.Join(root, "themes")
	var written []string
	for _, t := range theme.Builtin() {
		// keep user edits to an existing theme file
		if _, err := os.Stat(filepath.Join(themesDir, t.Name+".toml")); err == nil {
			continue
		}
		p, err := theme.Save(themesDir, t)
		if err != nil {
			return outputErrorCommon(globals, "THEME_WRITE_FAILED", err.Error())
		}
		written = append(written, p)
	}

	if globals.Format == "ndjson" {
		return output.NewNDJSONWriter(globals.Stdout).Write(map[string]interface{}{
			"type":          "config_init",
			"schemaVersion": output.SchemaVersion,
			"path":          path,
			"themes":        written,
		})
	}
	w := output.NewTextWriter(globals.Stdout)
	w.Verdict(true, "Wrote "+path)
	w.Field("themes", fmt.Sprintf("%d files in %s", len(written), themesDir))
	return nil
}
