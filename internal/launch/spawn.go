package launch

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"os/exec"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"

	"github.com/vburojevic/fx/internal/domain"
)

// Spawner creates child processes from a discrete argv. No shell is involved.
type Spawner interface {
	Spawn(argv []string, detach bool) (Child, error)
}

// Child is a started process.
type Child interface {
	// Wait blocks until the child exits and classifies its termination.
	// The caller's process group is foreground again when Wait returns.
	Wait() error
	// Release gives up interest in the child; a background reaper collects it.
	Release() error
	Pid() int
}

// ExecSpawner spawns programs with os/exec.
//
// Waited children inherit Stdin/Stdout/Stderr. When Stdin is a terminal the
// child is put in its own process group and handed the foreground.
// Detached children always get the null device for all three streams.
type ExecSpawner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	// Logger receives terminal handoff problems. Nil means no logging.
	Logger *zap.Logger
}

// NewExecSpawner returns a spawner wired to the process's standard streams.
func NewExecSpawner() *ExecSpawner {
	return &ExecSpawner{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// Spawn starts argv[0] with argv[1:] as literal arguments.
func (s *ExecSpawner) Spawn(argv []string, detach bool) (Child, error) {
	if len(argv) == 0 || argv[0] == "" {
		return nil, domain.ErrEmptyCommand
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	logger := s.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	child := &execChild{cmd: cmd, name: Basename(argv[0]), logger: logger}

	if detach {
		// nil streams are opened on os.DevNull by os/exec
		cmd.SysProcAttr = detachedAttr()
	} else {
		cmd.Stdin = s.Stdin
		cmd.Stdout = s.Stdout
		cmd.Stderr = s.Stderr
		if tty := terminalOf(s.Stdin); tty != nil {
			cmd.SysProcAttr = foregroundAttr(int(tty.Fd()))
			child.tty = tty
		}
	}

	if err := cmd.Start(); err != nil {
		return nil, classifyStartError(child.name, err)
	}
	return child, nil
}

type execChild struct {
	cmd  *exec.Cmd
	name string
	tty  *os.File // set when the child was given the terminal foreground

	logger *zap.Logger
}

func (c *execChild) Pid() int {
	if c.cmd.Process == nil {
		return 0
	}
	return c.cmd.Process.Pid
}

func (c *execChild) Wait() error {
	err := classifyWaitError(c.name, c.cmd.Wait())
	if c.tty != nil {
		// Restoring the terminal from a background group would stop us
		// with SIGTTOU, so this must not fail silently.
		if rerr := reclaimForeground(c.tty); rerr != nil {
			c.logger.Error("reclaiming terminal foreground failed",
				zap.String("program", c.name), zap.Int("pid", c.Pid()), zap.Error(rerr))
		}
	}
	return err
}

func (c *execChild) Release() error {
	go func() { _ = c.cmd.Wait() }()
	return nil
}

// terminalOf returns r as a file when it is the controlling terminal.
func terminalOf(r io.Reader) *os.File {
	f, ok := r.(*os.File)
	if !ok || f == nil {
		return nil
	}
	if !isatty.IsTerminal(f.Fd()) {
		return nil
	}
	return f
}

// classifyStartError maps an exec/fork failure onto the launch error kinds.
// os/exec reports exec failures in the child over a close-on-exec pipe, so
// these never come from the program itself.
func classifyStartError(name string, err error) error {
	switch {
	case errors.Is(err, exec.ErrNotFound), errors.Is(err, fs.ErrNotExist):
		return domain.Classify(domain.ErrStartFailed, "Failed to start %s: not found", name)
	case errors.Is(err, fs.ErrPermission):
		return domain.Classify(domain.ErrStartFailed, "Failed to start %s: permission denied", name)
	case isForkFailure(err):
		return domain.ErrForkFailed
	default:
		return domain.Classify(domain.ErrStartFailed, "Failed to start %s: not executable", name)
	}
}

func classifyWaitError(name string, err error) error {
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if sig, ok := terminatingSignal(exitErr.ProcessState); ok {
			return domain.Classify(domain.ErrChildFailed, "%s terminated by signal %s", name, sig)
		}
		return domain.Classify(domain.ErrChildFailed, "%s exited with status %d", name, exitErr.ExitCode())
	}
	return domain.Classify(domain.ErrChildFailed, "%s failed: %v", name, err)
}
