//go:build unix

package signals

import (
	"fmt"
	"os"
	"syscall"
)

const supported = true

var (
	stopSignal   os.Signal = syscall.SIGTSTP
	contSignal   os.Signal = syscall.SIGCONT
	resizeSignal os.Signal = syscall.SIGWINCH
)

// raise sends sig to this process.
func raise(sig os.Signal) error {
	s, ok := sig.(syscall.Signal)
	if !ok {
		return fmt.Errorf("cannot raise %v", sig)
	}
	return syscall.Kill(syscall.Getpid(), s)
}
