package cli

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// newLogger builds the debug logger. The browser owns the terminal, so logs
// always go to a file, never to stdout or stderr.
func newLogger(globals *Globals) *zap.Logger {
	if globals == nil || !globals.Verbose {
		return zap.NewNop()
	}
	path := globals.LogFile
	if path == "" {
		path = defaultLogPath()
	}
	if path == "" {
		return zap.NewNop()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return zap.NewNop()
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	cfg.Encoding = "json"
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger.With(zap.Int("pid", os.Getpid()))
}

// defaultLogPath is $XDG_STATE_HOME/fx/fx.log, or ~/.local/state/fx/fx.log.
func defaultLogPath() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "fx", "fx.log")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", "fx", "fx.log")
}
