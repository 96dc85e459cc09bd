package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for every failure an open request can end in.
// Launch code wraps these; callers classify with errors.Is.
var (
	ErrInvalidPath       = errors.New("Invalid or inaccessible file path")
	ErrEmptyCommand      = errors.New("Empty command")
	ErrCommandNotAllowed = errors.New("Command not in allowed whitelist")
	ErrForkFailed        = errors.New("Failed to fork process")
	ErrStartFailed       = errors.New("Failed to start program")
	ErrChildFailed       = errors.New("Program exited with failure")
	ErrResumeFailed      = errors.New("Failed to restore terminal")
)

// ErrorKind groups failures the way they are reported to the user.
type ErrorKind string

const (
	KindNone       ErrorKind = ""
	KindValidation ErrorKind = "validation"
	KindLaunch     ErrorKind = "launch"
	KindChild      ErrorKind = "child"
	KindTerminal   ErrorKind = "terminal"
)

// Outcome is what an open request reports back to the UI layer.
// Message is always a classified, human-readable reason.
type Outcome struct {
	Success bool      `json:"success"`
	Message string    `json:"message,omitempty"`
	Kind    ErrorKind `json:"kind,omitempty"`
}

// OK returns a successful outcome.
func OK() Outcome {
	return Outcome{Success: true}
}

// Fail builds a failed outcome from a classified error.
func Fail(err error) Outcome {
	if err == nil {
		return OK()
	}
	return Outcome{
		Success: false,
		Message: err.Error(),
		Kind:    KindOf(err),
	}
}

// KindOf maps an error onto the error taxonomy.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrInvalidPath),
		errors.Is(err, ErrEmptyCommand),
		errors.Is(err, ErrCommandNotAllowed):
		return KindValidation
	case errors.Is(err, ErrForkFailed), errors.Is(err, ErrStartFailed):
		return KindLaunch
	case errors.Is(err, ErrChildFailed):
		return KindChild
	case errors.Is(err, ErrResumeFailed):
		return KindTerminal
	default:
		return KindLaunch
	}
}

// classifiedError carries a user-facing message while still matching its sentinel.
type classifiedError struct {
	kind error
	msg  string
}

func (e *classifiedError) Error() string { return e.msg }
func (e *classifiedError) Unwrap() error { return e.kind }

// Classify attaches a custom message to a sentinel error.
func Classify(kind error, format string, args ...interface{}) error {
	return &classifiedError{kind: kind, msg: fmt.Sprintf(format, args...)}
}
