//go:build windows

package signals

import (
	"errors"
	"os"
)

// Windows consoles have no job control; the coordinator never installs handlers.
const supported = false

type placeholder string

func (p placeholder) String() string { return string(p) }
func (p placeholder) Signal()        {}

var (
	stopSignal   os.Signal = placeholder("stop")
	contSignal   os.Signal = placeholder("continue")
	resizeSignal os.Signal = placeholder("resize")
)

func raise(os.Signal) error {
	return errors.New("job control is not supported on windows")
}
