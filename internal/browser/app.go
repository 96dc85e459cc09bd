package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/vburojevic/fx/internal/domain"
	"github.com/vburojevic/fx/internal/handler"
	"github.com/vburojevic/fx/internal/launch"
	"github.com/vburojevic/fx/internal/session"
	"github.com/vburojevic/fx/internal/theme"
)

// SignalService is the part of signals.Coordinator the loop needs.
type SignalService interface {
	Start()
	Stop()
	Service(ctx context.Context) error
	RequestStop()
}

// Options configure an App.
type Options struct {
	Session  *session.Controller
	Signals  SignalService
	Launcher *launch.Launcher
	Resolver *handler.Resolver
	Listing  *Listing

	Theme     theme.Theme
	ThemeDirs []string
	Icons     bool
	// BaseDir, when set, confines every open to this directory.
	BaseDir string

	Clock    clock.Clock
	ToastTTL time.Duration
	Logger   *zap.Logger
}

// App is the interactive browser. All methods except those documented
// otherwise run on the event loop goroutine.
type App struct {
	ctl      *session.Controller
	signals  SignalService
	launcher *launch.Launcher
	resolver *handler.Resolver
	listing  *Listing
	notifier *Notifier

	theme     theme.Theme
	themeDirs []string
	icons     bool
	baseDir   string
	logger    *zap.Logger
	clock     clock.Clock

	// prompt is the open question, if any; answer runs when it is accepted.
	prompt *Prompt
	answer func(string)
	// lastDelete is when 'd' was pressed once; a second press within
	// deleteChord asks to delete.
	lastDelete time.Time
}

const deleteChord = 500 * time.Millisecond

// NewApp wires the browser to its session. The session's styler and painter
// are set here, so the first frame already uses the theme.
func NewApp(opts Options) *App {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clk := opts.Clock
	if clk == nil {
		clk = clock.New()
	}
	a := &App{
		ctl:       opts.Session,
		signals:   opts.Signals,
		launcher:  opts.Launcher,
		resolver:  opts.Resolver,
		listing:   opts.Listing,
		theme:     opts.Theme,
		themeDirs: opts.ThemeDirs,
		icons:     opts.Icons,
		baseDir:   opts.BaseDir,
		logger:    logger,
		clock:     clk,
	}
	if a.resolver == nil {
		a.resolver = handler.NewResolver(nil)
	}
	if a.listing == nil {
		a.listing = NewListing(ListingOptions{DirsFirst: true})
	}
	a.notifier = NewNotifier(clk, opts.ToastTTL, a.ctl.Wake)
	a.ctl.SetStyler(func(s tcell.Screen) { a.theme.Apply(s) })
	a.ctl.SetPainter(a.paint)
	a.ctl.SetTransitionHook(a.onTransition)
	return a
}

// onTransition reloads the directory after a job-control stop: the shell
// had the terminal and may have changed files. It runs on the event loop.
func (a *App) onTransition(t domain.Transition) {
	if t.To != domain.Active || t.Reason != "continue" {
		return
	}
	if err := a.listing.Reload(); err != nil {
		a.logger.Debug("reload after continue failed", zap.Error(err))
	}
	a.ctl.Wake()
}

// Prompt is the question currently asked, or nil.
func (a *App) Prompt() *Prompt { return a.prompt }

// Listing exposes the directory state.
func (a *App) Listing() *Listing { return a.listing }

// Notifier exposes the toast queue.
func (a *App) Notifier() *Notifier { return a.notifier }

// Theme is the active theme.
func (a *App) Theme() theme.Theme { return a.theme }

// Run drives the event loop until the user quits, ctx is cancelled, or the
// terminal cannot be restored after a handoff.
func (a *App) Run(ctx context.Context) error {
	if err := a.ctl.Start(); err != nil {
		return err
	}
	defer a.ctl.Close()

	if a.signals != nil {
		a.signals.Start()
		defer a.signals.Stop()
	}
	stop := context.AfterFunc(ctx, a.ctl.Wake)
	defer stop()

	a.ctl.Redraw()
	for {
		if a.signals != nil {
			if err := a.signals.Service(ctx); err != nil {
				return err
			}
		}
		if ctx.Err() != nil {
			return nil
		}

		scr := a.ctl.Screen()
		if scr == nil {
			return domain.ErrResumeFailed
		}
		ev := scr.PollEvent()
		if ev == nil {
			continue
		}

		switch ev := ev.(type) {
		case *tcell.EventResize:
			scr.Sync()
			a.ctl.Redraw()
		case *tcell.EventInterrupt:
			a.ctl.Redraw()
		case *tcell.EventKey:
			quit, err := a.HandleKey(ev)
			if err != nil {
				return err
			}
			if quit {
				return nil
			}
			a.ctl.Redraw()
		}
	}
}

// HandleKey applies one key press. quit is true when the user asked to leave;
// err is non-nil only when the terminal could not be restored.
func (a *App) HandleKey(ev *tcell.EventKey) (quit bool, err error) {
	if a.prompt != nil {
		a.handlePrompt(ev)
		return false, nil
	}
	if ev.Key() != tcell.KeyRune || ev.Rune() != 'd' {
		a.lastDelete = time.Time{}
	}

	switch ev.Key() {
	case tcell.KeyCtrlQ, tcell.KeyEscape:
		return true, nil
	case tcell.KeyCtrlZ:
		if a.signals != nil {
			a.signals.RequestStop()
		}
	case tcell.KeyUp:
		a.listing.Move(-1)
	case tcell.KeyDown:
		a.listing.Move(1)
	case tcell.KeyPgUp:
		a.listing.Move(-a.pageSize())
	case tcell.KeyPgDn, tcell.KeyCtrlF:
		a.listing.Move(a.pageSize())
	case tcell.KeyCtrlB:
		a.listing.Move(-a.pageSize())
	case tcell.KeyCtrlU:
		a.listing.Move(-max(a.pageSize()/2, 1))
	case tcell.KeyCtrlD:
		a.listing.Move(max(a.pageSize()/2, 1))
	case tcell.KeyHome:
		a.listing.Top()
	case tcell.KeyEnd:
		a.listing.Bottom()
	case tcell.KeyLeft, tcell.KeyBackspace, tcell.KeyBackspace2:
		a.parent()
	case tcell.KeyRight, tcell.KeyEnter:
		return false, a.enter(false)
	case tcell.KeyF5:
		a.reload()
	case tcell.KeyRune:
		return a.handleRune(ev.Rune())
	}
	return false, nil
}

func (a *App) handleRune(r rune) (bool, error) {
	switch r {
	case 'q':
		return true, nil
	case 'k':
		a.listing.Move(-1)
	case 'j':
		a.listing.Move(1)
	case 'g':
		a.listing.Top()
	case 'G':
		a.listing.Bottom()
	case 'h':
		a.parent()
	case 'l':
		return false, a.enter(false)
	case 'o':
		return false, a.enter(true)
	case '.':
		a.listing.ToggleHidden()
		if a.listing.ShowHidden() {
			a.notifier.Push(LevelInfo, "Showing hidden files")
		} else {
			a.notifier.Push(LevelInfo, "Hiding hidden files")
		}
	case 'R':
		a.reload()
	case 'T':
		a.cycleTheme()
	case 's':
		mode := a.listing.CycleSort()
		a.notifier.Push(LevelInfo, "Sort: "+mode.String())
	case 'n':
		a.ask(NewPrompt("New file: ", ""), func(name string) {
			a.report(a.listing.CreateFile(name), "Created file: "+name, "Failed to create file")
		})
	case 'N':
		a.ask(NewPrompt("New directory: ", ""), func(name string) {
			a.report(a.listing.CreateDir(name), "Created directory: "+name, "Failed to create directory")
		})
	case 'r':
		if e, ok := a.listing.Selected(); ok {
			a.ask(NewPrompt("Rename: ", e.Name), func(name string) {
				a.report(a.listing.Rename(e, name), "Renamed to: "+name, "Failed to rename")
			})
		}
	case 'd':
		a.deleteKey()
	}
	return false, nil
}

func (a *App) deleteKey() {
	e, ok := a.listing.Selected()
	if !ok {
		return
	}
	now := a.clock.Now()
	if a.lastDelete.IsZero() || now.Sub(a.lastDelete) >= deleteChord {
		a.lastDelete = now
		a.notifier.Push(LevelInfo, "Press 'd' again to delete")
		return
	}
	a.lastDelete = time.Time{}
	a.ask(NewConfirm(fmt.Sprintf("Delete '%s'? [y/N]", e.Name)), func(string) {
		a.report(a.listing.Remove(e), "Deleted: "+e.Name, "Failed to delete")
	})
}

// ask opens a prompt; the toast it would cover is cleared.
func (a *App) ask(p *Prompt, answer func(string)) {
	a.notifier.Dismiss()
	a.prompt, a.answer = p, answer
}

func (a *App) handlePrompt(ev *tcell.EventKey) {
	done, ok := a.prompt.HandleKey(ev)
	if !done {
		return
	}
	p, answer := a.prompt, a.answer
	a.prompt, a.answer = nil, nil
	switch {
	case ok:
		answer(p.Value())
	case p.Confirm():
		a.notifier.Push(LevelInfo, "Delete cancelled")
	}
}

func (a *App) report(err error, success, failure string) {
	if err != nil {
		a.notifier.Push(LevelError, fmt.Sprintf("%s: %v", failure, err))
		return
	}
	a.notifier.Push(LevelSuccess, success)
}

func (a *App) pageSize() int {
	if scr := a.ctl.Screen(); scr != nil {
		_, h := scr.Size()
		return max(h-headerRows-footerRows, 1)
	}
	return 10
}

func (a *App) parent() {
	if err := a.listing.Parent(); err != nil {
		a.notifier.Push(LevelError, fmt.Sprintf("Cannot open parent: %v", err))
	}
}

func (a *App) reload() {
	if err := a.listing.Reload(); err != nil {
		a.notifier.Push(LevelError, fmt.Sprintf("Refresh failed: %v", err))
	}
}

// enter descends into directories and opens files. withDefault skips the
// handler rules and uses the default opener.
func (a *App) enter(withDefault bool) error {
	e, ok := a.listing.Selected()
	if !ok {
		return nil
	}
	if e.IsDir && !withDefault {
		if _, _, err := a.listing.Enter(); err != nil {
			a.notifier.Push(LevelError, fmt.Sprintf("Cannot open %s: %v", e.Name, err))
		}
		return nil
	}
	return a.open(e, withDefault)
}

func (a *App) open(e Entry, withDefault bool) error {
	req := domain.OpenRequest{Path: e.Path, BaseDir: a.baseDir}

	var h domain.HandlerCommand
	if !withDefault {
		h, _ = a.resolver.Resolve(e.Path)
	}
	out := a.launcher.Open(req, h)
	a.logger.Debug("open finished",
		zap.String("path", e.Path),
		zap.String("command", h.Command),
		zap.Bool("success", out.Success),
		zap.String("message", out.Message),
	)

	if out.Kind == domain.KindTerminal {
		return domain.ErrResumeFailed
	}
	if !out.Success {
		a.notifier.Push(LevelError, out.Message)
	} else if !h.Wait {
		a.notifier.Push(LevelSuccess, "Opened "+e.Name)
	}

	// the program may have created, renamed or deleted files
	if err := a.listing.Reload(); err != nil {
		a.logger.Debug("reload after open failed", zap.Error(err))
	}
	return nil
}

func (a *App) cycleTheme() {
	names := theme.Names(a.themeDirs...)
	if len(names) == 0 {
		return
	}
	next := names[0]
	for i, n := range names {
		if n == a.theme.Name {
			next = names[(i+1)%len(names)]
			break
		}
	}
	t, err := theme.Lookup(next, a.themeDirs...)
	if err != nil {
		a.notifier.Push(LevelError, err.Error())
		return
	}
	a.theme = t
	if scr := a.ctl.Screen(); scr != nil {
		t.Apply(scr)
	}
	a.notifier.Push(LevelInfo, "Theme: "+t.Name)
}

func (a *App) paint(s tcell.Screen) {
	v := View{
		Listing: a.listing,
		Theme:   a.theme,
		Icons:   a.icons,
		Strict:  a.launcher != nil && a.launcher.Whitelist().Enabled(),
		Prompt:  a.prompt,
	}
	if t, ok := a.notifier.Current(); ok {
		v.Toast = &t
	}
	Draw(s, v)
}
