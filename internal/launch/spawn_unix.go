//go:build unix

package launch

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sys/unix"
)

// foregroundAttr puts the child in a new process group and makes that group
// the terminal's foreground before exec. ttyFd is the parent's descriptor.
func foregroundAttr(ttyFd int) *syscall.SysProcAttr {
	return &syscall.SysProcAttr{
		Setpgid:    true,
		Foreground: true,
		Ctty:       ttyFd,
	}
}

// detachedAttr starts the child in its own session with no controlling terminal.
func detachedAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setsid: true}
}

// reclaimForeground makes our process group the terminal's foreground again.
// We are a background group at this point, so SIGTTOU is ignored for the
// duration of the ioctl or the kernel would stop us.
func reclaimForeground(tty *os.File) error {
	if !signal.Ignored(syscall.SIGTTOU) {
		signal.Ignore(syscall.SIGTTOU)
		defer signal.Reset(syscall.SIGTTOU)
	}
	if err := unix.IoctlSetPointerInt(int(tty.Fd()), unix.TIOCSPGRP, unix.Getpgrp()); err != nil {
		return fmt.Errorf("set foreground process group on %s: %w", tty.Name(), err)
	}
	return nil
}

func terminatingSignal(state *os.ProcessState) (string, bool) {
	if state == nil {
		return "", false
	}
	ws, ok := state.Sys().(syscall.WaitStatus)
	if !ok || !ws.Signaled() {
		return "", false
	}
	if name := unix.SignalName(ws.Signal()); name != "" {
		return name, true
	}
	return ws.Signal().String(), true
}

func isForkFailure(err error) bool {
	return errors.Is(err, syscall.EAGAIN) || errors.Is(err, syscall.ENOMEM)
}
