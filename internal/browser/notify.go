package browser

import (
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// Level is the severity of a toast.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarning
	LevelError
)

// DefaultToastTTL is how long a toast stays on screen.
const DefaultToastTTL = 3 * time.Second

// Toast is a transient status message.
type Toast struct {
	Message   string
	Level     Level
	Count     int // number of identical pushes collapsed into this toast
	FirstSeen time.Time
	Expires   time.Time
}

// Text is the message with a repeat counter when collapsed.
func (t Toast) Text() string {
	if t.Count > 1 {
		return fmt.Sprintf("%s (x%d)", t.Message, t.Count)
	}
	return t.Message
}

// Notifier shows one toast at a time. Pushing the message that is already
// showing collapses into it and extends its lifetime instead of stacking.
type Notifier struct {
	mu      sync.Mutex
	clock   clock.Clock
	ttl     time.Duration
	current *Toast
	timer   *clock.Timer
	wake    func()
}

// NewNotifier creates a notifier. wake is called from a timer goroutine when
// a toast expires so the event loop repaints.
func NewNotifier(clk clock.Clock, ttl time.Duration, wake func()) *Notifier {
	if clk == nil {
		clk = clock.New()
	}
	if ttl <= 0 {
		ttl = DefaultToastTTL
	}
	return &Notifier{clock: clk, ttl: ttl, wake: wake}
}

// Push shows msg, or bumps the counter of an identical visible toast.
func (n *Notifier) Push(level Level, msg string) Toast {
	n.mu.Lock()
	defer n.mu.Unlock()

	now := n.clock.Now()
	if n.current != nil && now.Before(n.current.Expires) &&
		n.current.Message == msg && n.current.Level == level {
		n.current.Count++
		n.current.Expires = now.Add(n.ttl)
	} else {
		n.current = &Toast{
			Message:   msg,
			Level:     level,
			Count:     1,
			FirstSeen: now,
			Expires:   now.Add(n.ttl),
		}
	}
	n.schedule()
	return *n.current
}

// Current returns the visible toast, if any.
func (n *Notifier) Current() (Toast, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.current == nil {
		return Toast{}, false
	}
	if !n.clock.Now().Before(n.current.Expires) {
		n.current = nil
		return Toast{}, false
	}
	return *n.current, true
}

// Dismiss hides the current toast.
func (n *Notifier) Dismiss() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.current = nil
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
}

// schedule arms the expiry wake-up; callers hold mu.
func (n *Notifier) schedule() {
	if n.timer != nil {
		n.timer.Stop()
	}
	if n.wake == nil {
		return
	}
	n.timer = n.clock.AfterFunc(n.ttl, n.wake)
}
