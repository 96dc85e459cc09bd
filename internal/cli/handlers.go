package cli

import (
	"github.com/vburojevic/fx/internal/output"
)

// HandlersCmd lists the configured file handler rules in priority order.
type HandlersCmd struct {
	Whitelist bool `short:"w" help:"List the command whitelist instead"`
}

// Run executes the handlers command
func (c *HandlersCmd) Run(globals *Globals) error {
	cfg := globals.Config
	// strict on, so Allowed shows the verdict --strict would give
	wl := newWhitelist(cfg, true)

	if c.Whitelist {
		cmds := wl.Commands()
		if globals.Format == "ndjson" {
			return output.NewNDJSONWriter(globals.Stdout).Write(map[string]interface{}{
				"type":          "whitelist",
				"schemaVersion": output.SchemaVersion,
				"strict":        cfg.Behavior.Strict,
				"commands":      cmds,
			})
		}
		return output.NewTextWriter(globals.Stdout).WriteList("Allowed commands", cmds)
	}

	rows := make([]output.HandlerOutput, 0, len(cfg.FileHandlers.Rules))
	for i, r := range cfg.FileHandlers.Rules {
		rows = append(rows, output.HandlerOutput{
			Index:      i,
			Extensions: r.Extensions,
			Pattern:    r.Pattern,
			MimeType:   r.MimeType,
			Command:    r.Command,
			Terminal:   r.Terminal,
			Allowed:    wl.CommandAllowed(r.Command),
		})
	}

	if globals.Format == "ndjson" {
		w := output.NewNDJSONWriter(globals.Stdout)
		for _, row := range rows {
			if err := w.WriteHandler(row); err != nil {
				return err
			}
		}
		return nil
	}
	return output.NewTextWriter(globals.Stdout).WriteHandlers(rows)
}
