package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vburojevic/fx/internal/domain"
	"github.com/vburojevic/fx/internal/output"
)

// outputErrorCommon normalizes error emission across commands, respecting
// ndjson vs text formats so scripts always get machine-readable failures.
func outputErrorCommon(globals *Globals, code, message string, hint ...string) error {
	if globals != nil && globals.Format == "ndjson" {
		output.NewNDJSONWriter(globals.Stdout).WriteError(code, message, hint...)
	} else if globals != nil {
		fmt.Fprintf(globals.Stderr, "Error [%s]: %s", code, message)
		if len(hint) > 0 && hint[0] != "" {
			fmt.Fprintf(globals.Stderr, " (hint: %s)", hint[0])
		}
		fmt.Fprintln(globals.Stderr)
	}
	return errors.New(message)
}

// outcomeCode maps a failed outcome to a stable error code.
func outcomeCode(out domain.Outcome) (code, hint string) {
	switch out.Kind {
	case domain.KindValidation:
		switch {
		case out.Message == domain.ErrEmptyCommand.Error():
			return "EMPTY_COMMAND", "set a command for this handler rule"
		case strings.HasPrefix(out.Message, domain.ErrCommandNotAllowed.Error()):
			return "COMMAND_NOT_ALLOWED", "add it to behavior.allowed_commands or drop --strict"
		default:
			return "INVALID_PATH", "check that the file exists and is inside --base-dir"
		}
	case domain.KindLaunch:
		return "LAUNCH_FAILED", "check that the program is installed and on PATH"
	case domain.KindChild:
		return "CHILD_FAILED", ""
	case domain.KindTerminal:
		return "TERMINAL_RESTORE_FAILED", "run 'reset' to recover the terminal"
	default:
		return "OPEN_FAILED", ""
	}
}
