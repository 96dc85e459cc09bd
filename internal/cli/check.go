package cli

import (
	"errors"

	"github.com/vburojevic/fx/internal/domain"
	"github.com/vburojevic/fx/internal/handler"
	"github.com/vburojevic/fx/internal/launch"
	"github.com/vburojevic/fx/internal/output"
)

// CheckCmd reports how a file would be opened: path verdict, matching
// handler rule, whitelist verdict and the exact argv. Nothing is spawned.
type CheckCmd struct {
	Path    string `arg:"" help:"File to check"`
	Strict  bool   `short:"S" help:"Evaluate with the whitelist enabled"`
	BaseDir string `type:"path" help:"Require the file to be inside this directory"`
}

// Run executes the check command
func (c *CheckCmd) Run(globals *Globals) error {
	defer globals.Close()
	cfg := globals.Config
	l := newLauncher(globals, c.Strict)

	res := output.CheckOutput{
		LaunchPath: c.Path,
		Strict:     l.Whitelist().Enabled(),
	}

	canonical, err := launch.ValidatePath(c.Path, c.BaseDir)
	if err != nil {
		var pe *launch.PathError
		if errors.As(err, &pe) {
			res.Reason = pe.Reason
		}
		return c.emit(globals, res, err)
	}
	res.Valid = true
	res.Canonical = canonical.String()

	var h domain.HandlerCommand
	if m, ok := handler.NewResolver(cfg.FileHandlers.Rules).Explain(c.Path); ok {
		h = m.Command
		res.Handler = &output.HandlerMatch{Index: m.Index, Reason: m.Reason, Command: m.Command.Command, Wait: m.Command.Wait}
	} else {
		res.DefaultOpener = defaultOpener(cfg.FileHandlers.Default)
	}

	argv, err := l.Plan(domain.OpenRequest{Path: c.Path, BaseDir: c.BaseDir}, h)
	res.Allowed = !errors.Is(err, domain.ErrCommandNotAllowed)
	res.Argv = argv
	return c.emit(globals, res, err)
}

// emit writes the report; the returned error only sets the exit status.
func (c *CheckCmd) emit(globals *Globals, res output.CheckOutput, verdict error) error {
	if globals.Format == "ndjson" {
		if err := output.NewNDJSONWriter(globals.Stdout).WriteCheck(res); err != nil {
			return err
		}
	} else {
		output.NewTextWriter(globals.Stdout).WriteCheck(res)
	}
	return verdict
}

func defaultOpener(override string) []string {
	if tokens := launch.Tokenize(override); len(tokens) > 0 {
		return tokens
	}
	return launch.DefaultOpener()
}
