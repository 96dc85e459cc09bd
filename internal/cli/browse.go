package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"

	"github.com/vburojevic/fx/internal/browser"
	"github.com/vburojevic/fx/internal/domain"
	"github.com/vburojevic/fx/internal/handler"
	"github.com/vburojevic/fx/internal/launch"
	"github.com/vburojevic/fx/internal/session"
	"github.com/vburojevic/fx/internal/signals"
	"github.com/vburojevic/fx/internal/theme"
)

// BrowseCmd runs the interactive browser.
type BrowseCmd struct {
	Dir        string `arg:"" optional:"" type:"existingdir" help:"Directory to open (default: last visited, then the current directory)"`
	Theme      string `short:"t" help:"Theme name (see 'fx themes')"`
	ShowHidden bool   `short:"a" help:"Show hidden files"`
	Strict     bool   `short:"S" help:"Only launch whitelisted commands"`
	BaseDir    string `type:"existingdir" help:"Refuse to open files outside this directory"`
	NoIcons    bool   `help:"Draw entries without icon glyphs"`
	NoState    bool   `help:"Neither restore nor remember the last directory and theme"`
}

// Run executes the browse command
func (c *BrowseCmd) Run(globals *Globals) error {
	defer globals.Close()
	if !isatty.IsTerminal(os.Stdin.Fd()) || !isatty.IsTerminal(os.Stdout.Fd()) {
		return outputErrorCommon(globals, "NOT_A_TERMINAL", "fx needs an interactive terminal",
			"use 'fx open' or 'fx check' from scripts")
	}
	cfg := globals.Config
	logger := globals.logger()

	statePath, st := c.restoreState(globals)

	th := c.resolveTheme(globals, st)
	listing := browser.NewListing(browser.ListingOptions{
		ShowHidden:    c.ShowHidden || cfg.Layout.ShowHidden || (st != nil && st.ShowHidden),
		DirsFirst:     cfg.Behavior.SortDirsFirst,
		CaseSensitive: cfg.Behavior.CaseSensitive,
	})
	if err := listing.Load(startDir(c.Dir, st)); err != nil {
		return outputErrorCommon(globals, "INVALID_DIRECTORY", err.Error())
	}

	// The coordinator silences itself while a child owns the terminal, and
	// drives the controller on job-control signals.
	coord := signals.New(logger)
	ctl := session.NewController(
		session.WithDispositions(coord),
		session.WithTTY(session.NewTerminal(os.Stdin, os.Stdout)),
		session.WithSettleDelay(cfg.Settle()),
		session.WithLogger(logger),
	)
	coord.Bind(ctl)

	app := browser.NewApp(browser.Options{
		Session:   ctl,
		Signals:   coord,
		Launcher:  newLauncher(globals, c.Strict, launch.WithSuspender(ctl)),
		Resolver:  handler.NewResolver(cfg.FileHandlers.Rules),
		Listing:   listing,
		Theme:     th,
		ThemeDirs: theme.SearchDirs(cfg.ThemesDir()),
		Icons:     cfg.Appearance.Icons && !c.NoIcons,
		BaseDir:   c.BaseDir,
		Logger:    logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	globals.Debug("browsing %s with theme %s", listing.Dir(), th.Name)
	runErr := app.Run(ctx)

	if statePath != "" {
		err := saveState(statePath, &browseState{
			Dir:        app.Listing().Dir(),
			Theme:      app.Theme().Name,
			ShowHidden: app.Listing().ShowHidden(),
		})
		if err != nil {
			logger.Warn("saving browse state failed", zap.Error(err))
		}
	}

	if runErr != nil {
		if errors.Is(runErr, domain.ErrResumeFailed) {
			return outputErrorCommon(globals, "TERMINAL_RESTORE_FAILED", runErr.Error(), "run 'reset' to recover the terminal")
		}
		return outputErrorCommon(globals, "BROWSE_FAILED", runErr.Error())
	}
	return nil
}

func (c *BrowseCmd) restoreState(globals *Globals) (string, *browseState) {
	if c.NoState {
		return "", nil
	}
	path, err := defaultStatePath()
	if err != nil {
		return "", nil
	}
	st, err := loadState(path)
	if err != nil {
		globals.Debug("ignoring unreadable state %s: %v", path, err)
		return path, nil
	}
	return path, st
}

// resolveTheme prefers --theme, then the last theme used, then the config.
// Unknown names fall back to the default theme.
func (c *BrowseCmd) resolveTheme(globals *Globals, st *browseState) theme.Theme {
	cfg := globals.Config
	dirs := theme.SearchDirs(cfg.ThemesDir())

	name := cfg.Appearance.Theme
	if st != nil && st.Theme != "" {
		name = st.Theme
	}
	if c.Theme != "" {
		name = c.Theme
	}
	th, err := theme.Lookup(name, dirs...)
	if err != nil {
		globals.Debug("theme %q: %v", name, err)
		th, _ = theme.Lookup(theme.DefaultName, dirs...)
	}
	return th
}
