package cli

import (
	"strings"

	"github.com/vburojevic/fx/internal/config"
	"github.com/vburojevic/fx/internal/domain"
	"github.com/vburojevic/fx/internal/handler"
	"github.com/vburojevic/fx/internal/launch"
	"github.com/vburojevic/fx/internal/output"
)

// OpenCmd opens a single file the way the browser would, without a UI.
type OpenCmd struct {
	Path    string `arg:"" help:"File to open"`
	With    string `short:"w" help:"Command to open the file with, instead of the handler rules"`
	Wait    bool   `help:"Wait for --with to exit, handing it the terminal"`
	Default bool   `short:"d" help:"Skip handler rules and use the default opener"`
	Strict  bool   `short:"S" help:"Only run whitelisted commands"`
	BaseDir string `type:"path" help:"Refuse files outside this directory"`
}

// Run executes the open command
func (c *OpenCmd) Run(globals *Globals) error {
	defer globals.Close()
	if err := validateFlags(globals, c.With, c.Wait, c.Default); err != nil {
		return err
	}

	l := newLauncher(globals, c.Strict)
	h := c.handler(globals.Config)
	out := l.Open(domain.OpenRequest{Path: c.Path, BaseDir: c.BaseDir}, h)
	globals.Debug("open %s: success=%v kind=%s", c.Path, out.Success, out.Kind)

	if !out.Success {
		code, hint := outcomeCode(out)
		return outputErrorCommon(globals, code, out.Message, hint)
	}

	res := output.OutcomeOutput{
		LaunchPath:    c.Path,
		Command:       h.Command,
		DefaultOpener: h.IsZero(),
		Wait:          h.Wait,
		Success:       true,
	}
	if globals.Format == "ndjson" {
		return output.NewNDJSONWriter(globals.Stdout).WriteOutcome(res)
	}
	output.NewTextWriter(globals.Stdout).WriteOutcome(res)
	return nil
}

func (c *OpenCmd) handler(cfg *config.Config) domain.HandlerCommand {
	switch {
	case c.Default:
		return domain.HandlerCommand{}
	case c.With != "":
		return domain.HandlerCommand{Command: c.With, Wait: c.Wait}
	default:
		h, _ := handler.NewResolver(cfg.FileHandlers.Rules).Resolve(c.Path)
		return h
	}
}

// newWhitelist is the built-in list plus behavior.allowed_commands, enabled by
// --strict or behavior.strict.
func newWhitelist(cfg *config.Config, strict bool) *launch.Whitelist {
	wl := launch.DefaultWhitelist()
	for _, cmd := range cfg.Behavior.AllowedCommands {
		wl.Add(cmd)
	}
	wl.Enable(strict || cfg.Behavior.Strict)
	return wl
}

func newLauncher(globals *Globals, strict bool, opts ...launch.Option) *launch.Launcher {
	cfg := globals.Config
	base := []launch.Option{launch.WithLogger(globals.logger())}
	if strings.TrimSpace(cfg.FileHandlers.Default) != "" {
		base = append(base, launch.WithDefaultOpener(cfg.FileHandlers.Default))
	}
	return launch.NewLauncher(newWhitelist(cfg, strict), append(base, opts...)...)
}
