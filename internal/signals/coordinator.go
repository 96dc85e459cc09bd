// Package signals turns job-control and resize signals into session
// transitions. Handlers only record what arrived; the event loop calls
// Service to act on it outside of signal context.
package signals

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/vburojevic/fx/internal/domain"
)

// Session is the part of session.Controller the coordinator drives.
type Session interface {
	Suspend(reason string) error
	Resume(reason string) error
	Redraw()
	Wake()
	State() domain.SessionState
}

// signalOps is the OS signal surface, replaceable in tests.
type signalOps interface {
	Notify(c chan<- os.Signal, sig ...os.Signal)
	Reset(sig ...os.Signal)
	Stop(c chan<- os.Signal)
	Raise(sig os.Signal) error
}

type osSignals struct{}

func (osSignals) Notify(c chan<- os.Signal, sig ...os.Signal) { signal.Notify(c, sig...) }
func (osSignals) Reset(sig ...os.Signal)                      { signal.Reset(sig...) }
func (osSignals) Stop(c chan<- os.Signal)                     { signal.Stop(c) }
func (osSignals) Raise(sig os.Signal) error                   { return raise(sig) }

// Coordinator watches stop, continue and resize signals.
//
// Handlers stay installed for the whole run. While the session is suspended
// for a launch, Ignore makes the coordinator drop stop and resize deliveries;
// this keeps the signals at their default disposition in spawned children,
// which an actual SIG_IGN would not.
type Coordinator struct {
	session Session
	ops     signalOps
	logger  *zap.Logger

	ch        chan os.Signal
	continued chan struct{}
	done      chan struct{}
	wg        sync.WaitGroup

	// stopReq is zero when no stop is pending, otherwise contGen+1 at the
	// time the stop arrived.
	stopReq       atomic.Uint64
	contGen       atomic.Uint64
	contPending   atomic.Bool
	resizePending atomic.Bool
	ignoring      atomic.Bool

	// event loop only
	stoppedBySignal bool
}

// New creates a coordinator. Bind a session before Start.
func New(logger *zap.Logger) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{
		ops:       osSignals{},
		logger:    logger,
		continued: make(chan struct{}, 1),
		done:      make(chan struct{}),
	}
}

// Bind attaches the session the coordinator suspends and resumes.
func (c *Coordinator) Bind(s Session) {
	c.session = s
}

// Start installs the handlers. It is a no-op on platforms without job control.
func (c *Coordinator) Start() {
	if !supported || c.ch != nil {
		return
	}
	c.ch = make(chan os.Signal, 8)
	c.ops.Notify(c.ch, stopSignal, contSignal, resizeSignal)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		for {
			select {
			case sig := <-c.ch:
				c.dispatch(sig)
			case <-c.done:
				return
			}
		}
	}()
}

// Stop removes the handlers and waits for the dispatch goroutine.
func (c *Coordinator) Stop() {
	if c.ch == nil {
		return
	}
	c.ops.Stop(c.ch)
	close(c.done)
	c.wg.Wait()
	c.ch = nil
}

// RequestStop asks for the same handling as a delivered stop signal. The
// screen runs the terminal in raw mode, so Ctrl-Z arrives as a key instead.
func (c *Coordinator) RequestStop() {
	c.requestStop()
	c.wake()
}

func (c *Coordinator) requestStop() {
	c.stopReq.Store(c.contGen.Load() + 1)
}

// Ignore starts dropping stop and resize deliveries. The returned func puts
// the previous setting back; calling it more than once has no further effect.
func (c *Coordinator) Ignore() (restore func()) {
	prev := c.ignoring.Swap(true)
	var once sync.Once
	return func() {
		once.Do(func() { c.ignoring.Store(prev) })
	}
}

// Ignoring reports whether deliveries are currently dropped.
func (c *Coordinator) Ignoring() bool {
	return c.ignoring.Load()
}

// dispatch runs on the signal goroutine. It only records the signal and
// interrupts the event loop.
func (c *Coordinator) dispatch(sig os.Signal) {
	ignoring := c.ignoring.Load()
	switch sig {
	case contSignal:
		c.contGen.Add(1)
		select {
		case c.continued <- struct{}{}:
		default:
		}
		if !ignoring {
			// A stop not yet serviced is already undone: the process is
			// running and stays Active.
			c.stopReq.Store(0)
			c.contPending.Store(true)
		}
	case stopSignal:
		if !ignoring {
			c.requestStop()
		}
	case resizeSignal:
		if !ignoring {
			c.resizePending.Store(true)
		}
	default:
		return
	}
	c.wake()
}

// Service performs whatever the handlers recorded since the last call.
// It must be called from the event loop. A stop blocks here until the
// process is continued or ctx is done.
func (c *Coordinator) Service(ctx context.Context) error {
	if c.session == nil {
		return nil
	}
	var err error
	if c.contPending.CompareAndSwap(true, false) {
		err = c.handleContinue()
	}
	if req := c.stopReq.Swap(0); req != 0 {
		if serr := c.handleStop(ctx, req-1); serr != nil {
			err = serr
		}
	}
	if c.resizePending.CompareAndSwap(true, false) && c.session.State() == domain.Active {
		c.session.Redraw()
	}
	return err
}

// handleStop suspends and stops the process. gen is the continue count when
// the stop arrived; a later continue means the stop has already been undone.
func (c *Coordinator) handleStop(ctx context.Context, gen uint64) error {
	if c.stoppedBySignal || c.session.State() != domain.Active {
		return nil
	}
	if err := c.session.Suspend("stop"); err != nil {
		return err
	}
	c.stoppedBySignal = true
	c.logger.Debug("stopping for job control")

	// Tokens left over from before the stop are stale.
	select {
	case <-c.continued:
	default:
	}
	if c.contGen.Load() != gen {
		c.logger.Debug("continue arrived before the stop was serviced")
		return c.handleContinue()
	}

	c.ops.Reset(stopSignal)
	if err := c.ops.Raise(stopSignal); err != nil {
		c.logger.Warn("re-raising stop signal failed", zap.Error(err))
		return c.handleContinue()
	}

	select {
	case <-c.continued:
	case <-ctx.Done():
	}
	return c.handleContinue()
}

func (c *Coordinator) handleContinue() error {
	if c.ch != nil {
		c.ops.Notify(c.ch, stopSignal)
	}
	if !c.stoppedBySignal {
		return nil
	}
	c.stoppedBySignal = false
	c.logger.Debug("continued after job control stop")
	return c.session.Resume("continue")
}

func (c *Coordinator) wake() {
	if c.session != nil {
		c.session.Wake()
	}
}
