package cli

import (
	"fmt"

	"github.com/vburojevic/fx/internal/output"
	"github.com/vburojevic/fx/internal/theme"
)

// ThemesCmd lists built-in and user themes.
type ThemesCmd struct {
	Names bool `help:"Print bare names, one per line (used by shell completion)"`
}

// Run executes the themes command
func (c *ThemesCmd) Run(globals *Globals) error {
	dirs := theme.SearchDirs(globals.Config.ThemesDir())
	names := theme.Names(dirs...)

	if c.Names {
		for _, n := range names {
			fmt.Fprintln(globals.Stdout, n)
		}
		return nil
	}
	if globals.Format == "ndjson" {
		return output.NewNDJSONWriter(globals.Stdout).Write(map[string]interface{}{
			"type":          "themes",
			"schemaVersion": output.SchemaVersion,
			"current":       globals.Config.Appearance.Theme,
			"themes":        names,
			"search_dirs":   dirs,
		})
	}

	w := output.NewTextWriter(globals.Stdout)
	w.Heading("Themes")
	for _, n := range names {
		marker := " "
		if n == globals.Config.Appearance.Theme {
			marker = "*"
		}
		fmt.Fprintf(globals.Stdout, "%s %s\n", marker, n)
	}
	return nil
}
