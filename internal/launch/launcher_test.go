package launch

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vburojevic/fx/internal/domain"
)

type fakeChild struct {
	waitErr  error
	waited   bool
	released bool
}

func (c *fakeChild) Wait() error    { c.waited = true; return c.waitErr }
func (c *fakeChild) Release() error { c.released = true; return nil }
func (c *fakeChild) Pid() int       { return 4242 }

type fakeSpawner struct {
	calls    [][]string
	detached []bool
	child    *fakeChild
	err      error
	events   *[]string
}

func (s *fakeSpawner) Spawn(argv []string, detach bool) (Child, error) {
	s.calls = append(s.calls, argv)
	s.detached = append(s.detached, detach)
	if s.events != nil {
		*s.events = append(*s.events, "spawn")
	}
	if s.err != nil {
		return nil, s.err
	}
	if s.child == nil {
		s.child = &fakeChild{}
	}
	return s.child, nil
}

type fakeSuspender struct {
	events    *[]string
	resumeErr error
}

func (s *fakeSuspender) Suspend(reason string) error {
	*s.events = append(*s.events, "suspend:"+reason)
	return nil
}

func (s *fakeSuspender) Resume(reason string) error {
	*s.events = append(*s.events, "resume:"+reason)
	return s.resumeErr
}

func newTestLauncher(t *testing.T, wl *Whitelist) (*Launcher, *fakeSpawner, *[]string) {
	t.Helper()
	events := &[]string{}
	sp := &fakeSpawner{events: events}
	l := NewLauncher(wl, WithSpawner(sp), WithSuspender(&fakeSuspender{events: events}))
	return l, sp, events
}

func tempFile(t *testing.T, name string) (dir, path string) {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	path = filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	return dir, path
}

func TestOpenWithWaitedSuccess(t *testing.T) {
	_, path := tempFile(t, "notes.txt")
	l, sp, events := newTestLauncher(t, nil)

	out := l.OpenWith(path, OpenConfig{Command: `nvim -c "set nu"`, Wait: true})

	assert.True(t, out.Success)
	require.Len(t, sp.calls, 1)
	assert.Equal(t, []string{"nvim", "-c", "set nu", path}, sp.calls[0])
	assert.False(t, sp.detached[0])
	assert.True(t, sp.child.waited)
	assert.Equal(t, []string{"suspend:launch", "spawn", "resume:launch"}, *events)
}

func TestOpenWithDetached(t *testing.T) {
	_, path := tempFile(t, "pic.png")
	l, sp, events := newTestLauncher(t, nil)

	out := l.OpenWith(path, OpenConfig{Command: "feh", Wait: false})

	assert.True(t, out.Success)
	assert.True(t, sp.detached[0])
	assert.True(t, sp.child.released)
	assert.False(t, sp.child.waited)
	assert.Equal(t, []string{"suspend:launch", "spawn", "resume:launch"}, *events, "detached spawns are bracketed too")
}

func TestOpenWithValidationNeverTouchesSession(t *testing.T) {
	dir, path := tempFile(t, "a.txt")
	wl := NewWhitelist("vim")
	wl.Enable(true)

	tests := []struct {
		name string
		path string
		cfg  OpenConfig
		msg  string
		want error
	}{
		{"missing path", filepath.Join(dir, "missing"), OpenConfig{Command: "vim"}, "Invalid or inaccessible file path", domain.ErrInvalidPath},
		{"escape", path, OpenConfig{Command: "vim", AllowedBaseDir: filepath.Join(dir, "sub")}, "Invalid or inaccessible file path", domain.ErrInvalidPath},
		{"empty command", path, OpenConfig{Command: "   "}, "Empty command", domain.ErrEmptyCommand},
		{"empty command with whitelist", path, OpenConfig{Command: "", ValidateCommand: true}, "Command not in allowed whitelist: ", domain.ErrCommandNotAllowed},
		{"not allowed", path, OpenConfig{Command: "curl -O", ValidateCommand: true}, "Command not in allowed whitelist: curl -O", domain.ErrCommandNotAllowed},
	}
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, sp, events := newTestLauncher(t, wl)
			out := l.OpenWith(tt.path, tt.cfg)
			assert.False(t, out.Success)
			assert.Equal(t, tt.msg, out.Message)
			assert.Equal(t, domain.KindValidation, out.Kind)
			assert.Empty(t, sp.calls)
			assert.Empty(t, *events)
		})
	}
}

func TestOpenWithWhitelistAllows(t *testing.T) {
	_, path := tempFile(t, "a.txt")
	wl := NewWhitelist("vim")
	wl.Enable(true)
	l, sp, _ := newTestLauncher(t, wl)

	out := l.OpenWith(path, OpenConfig{Command: "/usr/bin/vim -R", ValidateCommand: true, Wait: true})
	assert.True(t, out.Success)
	assert.Equal(t, []string{"/usr/bin/vim", "-R", path}, sp.calls[0])
}

func TestOpenWithFailuresStillResume(t *testing.T) {
	_, path := tempFile(t, "a.txt")

	t.Run("spawn failure", func(t *testing.T) {
		l, sp, events := newTestLauncher(t, nil)
		sp.err = domain.ErrForkFailed
		out := l.OpenWith(path, OpenConfig{Command: "vim", Wait: true})
		assert.False(t, out.Success)
		assert.Equal(t, "Failed to fork process", out.Message)
		assert.Equal(t, domain.KindLaunch, out.Kind)
		assert.Equal(t, []string{"suspend:launch", "spawn", "resume:launch"}, *events)
	})

	t.Run("child failure", func(t *testing.T) {
		l, sp, events := newTestLauncher(t, nil)
		sp.child = &fakeChild{waitErr: domain.Classify(domain.ErrChildFailed, "vim exited with status 7")}
		out := l.OpenWith(path, OpenConfig{Command: "vim", Wait: true})
		assert.False(t, out.Success)
		assert.Equal(t, "vim exited with status 7", out.Message)
		assert.Equal(t, domain.KindChild, out.Kind)
		assert.Equal(t, "resume:launch", (*events)[len(*events)-1])
	})
}

func TestOpenWithResumeError(t *testing.T) {
	_, path := tempFile(t, "a.txt")
	events := &[]string{}
	resumeErr := domain.Classify(domain.ErrResumeFailed, "Failed to restore terminal")

	sp := &fakeSpawner{events: events}
	l := NewLauncher(nil, WithSpawner(sp), WithSuspender(&fakeSuspender{events: events, resumeErr: resumeErr}))
	out := l.OpenWith(path, OpenConfig{Command: "vim", Wait: true})
	assert.False(t, out.Success)
	assert.Equal(t, domain.KindTerminal, out.Kind)

	// The child's own failure wins over a later resume failure.
	sp.child = &fakeChild{waitErr: domain.Classify(domain.ErrChildFailed, "vim exited with status 1")}
	out = l.OpenWith(path, OpenConfig{Command: "vim", Wait: true})
	assert.Equal(t, "vim exited with status 1", out.Message)
}

func TestOpenWithDefault(t *testing.T) {
	_, path := tempFile(t, "report.pdf")
	wl := NewWhitelist()
	wl.Enable(true)

	events := &[]string{}
	sp := &fakeSpawner{events: events}
	l := NewLauncher(wl, WithSpawner(sp), WithSuspender(&fakeSuspender{events: events}))

	out := l.OpenWithDefault(path, "")
	assert.True(t, out.Success, "default opener bypasses the whitelist")
	assert.Equal(t, append(DefaultOpener(), path), sp.calls[0])
	assert.True(t, sp.detached[0])

	l = NewLauncher(wl, WithSpawner(sp), WithSuspender(&fakeSuspender{events: events}), WithDefaultOpener("my-open --new"))
	l.OpenWithDefault(path, "")
	assert.Equal(t, []string{"my-open", "--new", path}, sp.calls[1])
}

func TestOpenRoutesHandlers(t *testing.T) {
	dir, path := tempFile(t, "main.c")
	l, sp, _ := newTestLauncher(t, nil)

	out := l.Open(domain.OpenRequest{Path: path, BaseDir: dir}, domain.HandlerCommand{Command: "nvim", Wait: true})
	assert.True(t, out.Success)
	assert.Equal(t, []string{"nvim", path}, sp.calls[0])
	assert.False(t, sp.detached[0])

	out = l.Open(domain.OpenRequest{Path: path}, domain.HandlerCommand{})
	assert.True(t, out.Success)
	assert.Equal(t, DefaultOpener()[0], sp.calls[1][0])
	assert.True(t, sp.detached[1])
}

func TestPlanNeverSpawns(t *testing.T) {
	dir, path := tempFile(t, "notes.md")
	wl := NewWhitelist("less")
	wl.Enable(true)
	l, sp, events := newTestLauncher(t, wl)

	argv, err := l.Plan(domain.OpenRequest{Path: path, BaseDir: dir}, domain.HandlerCommand{Command: "less -R"})
	require.NoError(t, err)
	assert.Equal(t, []string{"less", "-R", path}, argv)

	_, err = l.Plan(domain.OpenRequest{Path: path}, domain.HandlerCommand{Command: "rm -rf"})
	require.ErrorIs(t, err, domain.ErrCommandNotAllowed)
	assert.Equal(t, "Command not in allowed whitelist: rm -rf", err.Error())

	_, err = l.Plan(domain.OpenRequest{Path: filepath.Join(dir, "missing")}, domain.HandlerCommand{Command: "less"})
	require.ErrorIs(t, err, domain.ErrInvalidPath)

	argv, err = l.Plan(domain.OpenRequest{Path: path}, domain.HandlerCommand{})
	require.NoError(t, err)
	assert.Equal(t, append(DefaultOpener(), path), argv)

	assert.Empty(t, sp.calls)
	assert.Empty(t, *events)
}

func TestDefaultOpenerFor(t *testing.T) {
	assert.Equal(t, []string{"xdg-open"}, defaultOpenerFor("linux"))
	assert.Equal(t, []string{"xdg-open"}, defaultOpenerFor("freebsd"))
	assert.Equal(t, []string{"open"}, defaultOpenerFor("darwin"))
	assert.Equal(t, []string{"rundll32", "url.dll,FileProtocolHandler"}, defaultOpenerFor("windows"))
}

func TestClassifyStartError(t *testing.T) {
	err := classifyStartError("nvim", &os.PathError{Op: "fork/exec", Path: "/x/nvim", Err: os.ErrNotExist})
	assert.Equal(t, "Failed to start nvim: not found", err.Error())
	assert.ErrorIs(t, err, domain.ErrStartFailed)

	err = classifyStartError("nvim", &os.PathError{Op: "fork/exec", Path: "/x/nvim", Err: os.ErrPermission})
	assert.Equal(t, "Failed to start nvim: permission denied", err.Error())

	err = classifyStartError("nvim", errors.New("exec format error"))
	assert.Equal(t, "Failed to start nvim: not executable", err.Error())
}
