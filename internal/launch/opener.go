package launch

import "runtime"

// DefaultOpener returns the platform's "open with default application" argv
// prefix. The target path is appended as the final argument.
func DefaultOpener() []string {
	return defaultOpenerFor(runtime.GOOS)
}

func defaultOpenerFor(goos string) []string {
	switch goos {
	case "darwin":
		return []string{"open"}
	case "windows":
		return []string{"rundll32", "url.dll,FileProtocolHandler"}
	default:
		return []string{"xdg-open"}
	}
}
