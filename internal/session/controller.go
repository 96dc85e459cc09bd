package session

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/vburojevic/fx/internal/domain"
)

// DefaultSettleDelay is how long Resume waits for a child to let go of the terminal.
const DefaultSettleDelay = 100 * time.Millisecond

const rebuildAttempts = 3

// ScreenFactory returns a fresh, uninitialized screen.
type ScreenFactory func() (tcell.Screen, error)

// Dispositions silences job-control and resize handling while suspended.
// The returned func puts the previous behavior back and is called exactly once.
type Dispositions interface {
	Ignore() (restore func())
}

type nopDispositions struct{}

func (nopDispositions) Ignore() func() { return func() {} }

// Controller owns the Active/Suspended state machine of the terminal.
//
// Suspend and Resume are called from the event loop goroutine only. The
// mutex exists so Wake and State can be used from signal and timer
// goroutines.
type Controller struct {
	mu     sync.Mutex
	screen tcell.Screen
	state  domain.SessionState

	newScreen    ScreenFactory
	dispositions Dispositions
	tty          TTY
	clock        clock.Clock
	settle       time.Duration
	logger       *zap.Logger
	onTransition func(domain.Transition)

	styler  func(tcell.Screen)
	painter func(tcell.Screen)

	restore     func()
	suspendedAt time.Time
}

// Option configures a Controller.
type Option func(*Controller)

func WithScreenFactory(f ScreenFactory) Option {
	return func(c *Controller) { c.newScreen = f }
}

func WithDispositions(d Dispositions) Option {
	return func(c *Controller) { c.dispositions = d }
}

func WithTTY(t TTY) Option {
	return func(c *Controller) { c.tty = t }
}

func WithClock(clk clock.Clock) Option {
	return func(c *Controller) { c.clock = clk }
}

// WithSettleDelay sets the pause before the screen is rebuilt. Negative values are ignored.
func WithSettleDelay(d time.Duration) Option {
	return func(c *Controller) {
		if d >= 0 {
			c.settle = d
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewController creates a controller in the Suspended state; call Start to
// build the first screen.
func NewController(opts ...Option) *Controller {
	c := &Controller{
		state:        domain.Suspended,
		newScreen:    tcell.NewScreen,
		dispositions: nopDispositions{},
		tty:          nopTTY{},
		clock:        clock.New(),
		settle:       DefaultSettleDelay,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetStyler sets the function that applies the active theme to a new screen
// before anything is drawn on it.
func (c *Controller) SetStyler(fn func(tcell.Screen)) {
	c.styler = fn
}

// SetPainter sets the function that draws one full frame.
func (c *Controller) SetPainter(fn func(tcell.Screen)) {
	c.painter = fn
}

// SetTransitionHook sets a function called after every completed suspend or
// resume, on the goroutine that made the transition.
func (c *Controller) SetTransitionHook(fn func(domain.Transition)) {
	c.onTransition = fn
}

// Start builds the initial screen.
func (c *Controller) Start() error {
	if c.State() == domain.Active {
		return nil
	}
	scr, err := c.build()
	if err != nil {
		return domain.Classify(domain.ErrResumeFailed, "Failed to initialize terminal: %v", err)
	}
	c.activate(scr)
	return nil
}

// State returns the current session state.
func (c *Controller) State() domain.SessionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Screen returns the live screen, or nil while suspended.
func (c *Controller) Screen() tcell.Screen {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.screen
}

// Suspend tears the screen down so a child inherits a clean terminal.
// Calling it while already suspended is a no-op.
func (c *Controller) Suspend(reason string) error {
	c.mu.Lock()
	if c.state == domain.Suspended {
		c.mu.Unlock()
		return nil
	}
	scr := c.screen
	c.mu.Unlock()

	c.restore = c.dispositions.Ignore()

	c.mu.Lock()
	c.screen = nil
	c.state = domain.Suspended
	c.mu.Unlock()

	if scr != nil {
		scr.Fini()
	}
	c.tty.Reset()
	c.tty.Save()

	c.suspendedAt = c.clock.Now()
	c.emit(domain.Active, domain.Suspended, reason, 0)
	return nil
}

// Resume waits for the terminal to settle, rebuilds the screen, applies the
// theme and paints one full frame. Saved dispositions are restored on every
// path. If no screen can be built the controller stays Suspended and
// ErrResumeFailed is returned.
func (c *Controller) Resume(reason string) error {
	if c.State() == domain.Active {
		return nil
	}

	restore := c.restore
	c.restore = nil
	defer func() {
		if restore != nil {
			restore()
		}
	}()

	c.clock.Sleep(c.settle)

	if err := c.tty.Restore(); err != nil {
		c.logger.Debug("terminal mode restore failed", zap.Error(err))
	}

	var (
		scr tcell.Screen
		err error
	)
	for attempt := 1; attempt <= rebuildAttempts; attempt++ {
		if scr, err = c.build(); err == nil {
			break
		}
		c.logger.Warn("screen rebuild failed", zap.Int("attempt", attempt), zap.Error(err))
		if attempt < rebuildAttempts {
			c.clock.Sleep(c.settle)
		}
	}
	if err != nil {
		return domain.Classify(domain.ErrResumeFailed, "Failed to restore terminal")
	}

	c.activate(scr)
	c.emit(domain.Suspended, domain.Active, reason, c.clock.Since(c.suspendedAt))
	return nil
}

// Redraw paints a frame on the live screen. It does nothing while suspended.
func (c *Controller) Redraw() {
	scr := c.Screen()
	if scr == nil {
		return
	}
	if c.painter != nil {
		c.painter(scr)
	}
	scr.Show()
}

// Wake interrupts a blocked PollEvent. Safe from any goroutine.
func (c *Controller) Wake() {
	scr := c.Screen()
	if scr == nil {
		return
	}
	_ = scr.PostEvent(tcell.NewEventInterrupt(nil))
}

// Close finalizes the screen for good.
func (c *Controller) Close() {
	c.mu.Lock()
	scr := c.screen
	c.screen = nil
	c.state = domain.Suspended
	c.mu.Unlock()
	if scr != nil {
		scr.Fini()
	}
}

func (c *Controller) build() (tcell.Screen, error) {
	scr, err := c.newScreen()
	if err != nil {
		return nil, err
	}
	if err := scr.Init(); err != nil {
		return nil, err
	}
	return scr, nil
}

// activate styles the screen, publishes it and paints exactly one frame.
func (c *Controller) activate(scr tcell.Screen) {
	if c.styler != nil {
		c.styler(scr)
	}
	scr.Clear()

	c.mu.Lock()
	c.screen = scr
	c.state = domain.Active
	c.mu.Unlock()

	if c.painter != nil {
		c.painter(scr)
	}
	scr.Show()
}

func (c *Controller) emit(from, to domain.SessionState, reason string, elapsed time.Duration) {
	t := domain.Transition{
		From:      from,
		To:        to,
		Reason:    reason,
		Timestamp: c.clock.Now(),
		Elapsed:   elapsed,
	}
	c.logger.Debug("session transition",
		zap.String("from", from.String()),
		zap.String("to", to.String()),
		zap.String("reason", reason),
		zap.Duration("elapsed", elapsed),
	)
	if c.onTransition != nil {
		c.onTransition(t)
	}
}
