//go:build windows

package launch

import (
	"errors"
	"os"
	"syscall"

	"golang.org/x/sys/windows"
)

// Windows has no foreground process groups; the console is shared.
func foregroundAttr(int) *syscall.SysProcAttr {
	return nil
}

func detachedAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{
		CreationFlags: windows.DETACHED_PROCESS | windows.CREATE_NEW_PROCESS_GROUP,
		HideWindow:    true,
	}
}

func reclaimForeground(*os.File) error { return nil }

func terminatingSignal(*os.ProcessState) (string, bool) {
	return "", false
}

func isForkFailure(err error) bool {
	return errors.Is(err, windows.ERROR_NOT_ENOUGH_MEMORY) || errors.Is(err, windows.ERROR_NO_SYSTEM_RESOURCES)
}
