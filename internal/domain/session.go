package domain

import (
	"fmt"
	"time"
)

// SessionState tracks who owns the controlling terminal.
type SessionState int

const (
	// Active: the rendering surface exists and owns the terminal.
	Active SessionState = iota
	// Suspended: the surface is torn down; a child (or the shell) owns the terminal.
	Suspended
)

func (s SessionState) String() string {
	switch s {
	case Active:
		return "active"
	case Suspended:
		return "suspended"
	default:
		return "unknown"
	}
}

// MarshalText encodes the state by name, so JSON carries "active" or
// "suspended" rather than a number.
func (s SessionState) MarshalText() ([]byte, error) {
	switch s {
	case Active, Suspended:
		return []byte(s.String()), nil
	default:
		return nil, fmt.Errorf("invalid session state %d", int(s))
	}
}

func (s *SessionState) UnmarshalText(b []byte) error {
	switch string(b) {
	case "active":
		*s = Active
	case "suspended":
		*s = Suspended
	default:
		return fmt.Errorf("unknown session state %q", b)
	}
	return nil
}

// Transition describes one suspend or resume of the terminal session.
type Transition struct {
	From      SessionState  `json:"from"`
	To        SessionState  `json:"to"`
	Reason    string        `json:"reason"` // e.g. launch, stop, continue
	Timestamp time.Time     `json:"timestamp"`
	Elapsed   time.Duration `json:"elapsed,omitempty"`
}
