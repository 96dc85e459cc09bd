package launch

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vburojevic/fx/internal/domain"
)

// Suspender hands the terminal to a child and takes it back.
// session.Controller implements it.
type Suspender interface {
	Suspend(reason string) error
	Resume(reason string) error
}

type nopSuspender struct{}

func (nopSuspender) Suspend(string) error { return nil }
func (nopSuspender) Resume(string) error  { return nil }

// OpenConfig describes a single "open with" launch.
type OpenConfig struct {
	Command         string
	Wait            bool
	ValidateCommand bool
	AllowedBaseDir  string
}

// Launcher is the execution context for opening files: it owns the whitelist,
// the spawn capability and the terminal handoff used around every spawn.
type Launcher struct {
	whitelist *Whitelist
	spawner   Spawner
	suspender Suspender
	opener    []string
	logger    *zap.Logger
	now       func() time.Time
}

// Option configures a Launcher.
type Option func(*Launcher)

// WithSpawner replaces the os/exec spawner.
func WithSpawner(s Spawner) Option {
	return func(l *Launcher) { l.spawner = s }
}

// WithSuspender sets the terminal session used around spawns.
func WithSuspender(s Suspender) Option {
	return func(l *Launcher) { l.suspender = s }
}

// WithLogger sets the launch logger.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Launcher) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithDefaultOpener overrides the platform default opener with a command
// template. Blank templates are ignored.
func WithDefaultOpener(command string) Option {
	return func(l *Launcher) {
		if tokens := Tokenize(command); len(tokens) > 0 {
			l.opener = tokens
		}
	}
}

// NewLauncher builds a Launcher. A nil whitelist means a disabled, empty one.
func NewLauncher(whitelist *Whitelist, opts ...Option) *Launcher {
	if whitelist == nil {
		whitelist = NewWhitelist()
	}
	l := &Launcher{
		whitelist: whitelist,
		spawner:   NewExecSpawner(),
		suspender: nopSuspender{},
		opener:    DefaultOpener(),
		logger:    zap.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	if es, ok := l.spawner.(*ExecSpawner); ok && es.Logger == nil {
		es.Logger = l.logger
	}
	return l
}

// Whitelist returns the launcher's allow-list.
func (l *Launcher) Whitelist() *Whitelist {
	return l.whitelist
}

// OpenWith validates path and cfg, then runs cfg.Command with the canonical
// path appended as the last argument. Validation failures never touch the
// terminal session.
func (l *Launcher) OpenWith(path string, cfg OpenConfig) domain.Outcome {
	argv, err := l.planWith(path, cfg)
	if err != nil {
		return domain.Fail(err)
	}
	return domain.Fail(l.run(argv, !cfg.Wait))
}

// OpenWithDefault opens path with the platform's default application.
// The whitelist is not consulted.
func (l *Launcher) OpenWithDefault(path, baseDir string) domain.Outcome {
	argv, err := l.planDefault(path, baseDir)
	if err != nil {
		return domain.Fail(err)
	}
	return domain.Fail(l.run(argv, true))
}

// Open routes a resolved handler to OpenWith, or to OpenWithDefault when no
// handler matched.
func (l *Launcher) Open(req domain.OpenRequest, h domain.HandlerCommand) domain.Outcome {
	if h.IsZero() {
		return l.OpenWithDefault(req.Path, req.BaseDir)
	}
	return l.OpenWith(req.Path, l.configFor(req, h))
}

// Plan runs every check Open would run and returns the argv it would spawn.
// Nothing is started and the terminal is not touched.
func (l *Launcher) Plan(req domain.OpenRequest, h domain.HandlerCommand) ([]string, error) {
	if h.IsZero() {
		return l.planDefault(req.Path, req.BaseDir)
	}
	return l.planWith(req.Path, l.configFor(req, h))
}

func (l *Launcher) configFor(req domain.OpenRequest, h domain.HandlerCommand) OpenConfig {
	return OpenConfig{
		Command:         h.Command,
		Wait:            h.Wait,
		ValidateCommand: l.whitelist.Enabled(),
		AllowedBaseDir:  req.BaseDir,
	}
}

func (l *Launcher) planWith(path string, cfg OpenConfig) ([]string, error) {
	canonical, err := ValidatePath(path, cfg.AllowedBaseDir)
	if err != nil {
		l.logValidation(path, err)
		return nil, err
	}

	// An empty command fails the whitelist first; it has no program to allow.
	if cfg.ValidateCommand && !l.whitelist.CommandAllowed(cfg.Command) {
		l.logger.Info("command rejected by whitelist", zap.String("command", cfg.Command))
		return nil, domain.Classify(domain.ErrCommandNotAllowed,
			"Command not in allowed whitelist: %s", strings.TrimSpace(cfg.Command))
	}
	tokens := Tokenize(cfg.Command)
	if len(tokens) == 0 {
		return nil, domain.ErrEmptyCommand
	}
	return append(tokens, canonical.String()), nil
}

func (l *Launcher) planDefault(path, baseDir string) ([]string, error) {
	canonical, err := ValidatePath(path, baseDir)
	if err != nil {
		l.logValidation(path, err)
		return nil, err
	}
	return append(append([]string{}, l.opener...), canonical.String()), nil
}

// run brackets a spawn with suspend/resume. Resume runs on every path; its
// error is reported only when the launch itself succeeded.
func (l *Launcher) run(argv []string, detach bool) (err error) {
	id := uuid.NewString()
	start := l.now()
	log := l.logger.With(
		zap.String("launch_id", id),
		zap.Strings("argv", argv),
		zap.Bool("wait", !detach),
	)

	defer func() {
		fields := []zap.Field{zap.Duration("elapsed", l.now().Sub(start))}
		if err != nil {
			fields = append(fields, zap.String("kind", string(domain.KindOf(err))), zap.Error(err))
			log.Warn("launch failed", fields...)
			return
		}
		log.Info("launch finished", fields...)
	}()

	if err := l.suspender.Suspend("launch"); err != nil {
		return err
	}
	defer func() {
		if rerr := l.suspender.Resume("launch"); rerr != nil && err == nil {
			err = rerr
		}
	}()

	child, err := l.spawner.Spawn(argv, detach)
	if err != nil {
		return err
	}
	log.Debug("child started", zap.Int("pid", child.Pid()))

	if detach {
		return child.Release()
	}
	return child.Wait()
}

func (l *Launcher) logValidation(path string, err error) {
	fields := []zap.Field{zap.String("path", path)}
	if pe, ok := err.(*PathError); ok {
		fields = append(fields, zap.String("reason", pe.Reason))
		if pe.Err != nil {
			fields = append(fields, zap.NamedError("cause", pe.Err))
		}
	}
	l.logger.Info("path rejected", fields...)
}
