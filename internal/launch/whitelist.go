package launch

import (
	"runtime"
	"sort"
	"strings"

	"github.com/samber/lo"
)

// DefaultAllowedCommands is the stock allow-list used by strict mode.
var DefaultAllowedCommands = []string{
	// Text editors
	"arc", "vim", "nvim", "vi", "nano", "emacs", "emacsclient", "code", "subl",
	"atom", "gedit", "kate", "kwrite", "notepad", "notepad++", "hx", "micro",
	// File viewers
	"less", "more", "cat", "bat", "most", "glow",
	// Image viewers
	"feh", "sxiv", "nsxiv", "eog", "eom", "gwenview", "gthumb", "gimp", "krita", "inkscape",
	// Video/Audio players
	"mpv", "vlc", "mplayer", "ffplay", "totem",
	// PDF viewers
	"zathura", "evince", "okular", "mupdf", "xpdf",
	// Browsers
	"firefox", "chrome", "chromium", "brave", "safari",
	// Archive managers
	"file-roller", "ark", "xarchiver",
}

// stripExeSuffix is true where executables carry a ".exe" suffix.
var stripExeSuffix = runtime.GOOS == "windows"

// Whitelist is an allow-list of executable basenames, consulted only when enabled.
// It is owned by the application root and injected into the Launcher.
type Whitelist struct {
	allowed map[string]struct{}
	enabled bool
}

// NewWhitelist creates a disabled whitelist holding the given commands.
func NewWhitelist(commands ...string) *Whitelist {
	w := &Whitelist{allowed: make(map[string]struct{}, len(commands))}
	for _, c := range commands {
		w.Add(c)
	}
	return w
}

// DefaultWhitelist returns a disabled whitelist seeded with DefaultAllowedCommands.
func DefaultWhitelist() *Whitelist {
	return NewWhitelist(DefaultAllowedCommands...)
}

// Add allows a command basename. Duplicates and blanks are ignored.
func (w *Whitelist) Add(command string) {
	command = strings.TrimSpace(command)
	if command == "" {
		return
	}
	w.allowed[command] = struct{}{}
}

// Clear removes every allowed command. The enabled flag is untouched.
func (w *Whitelist) Clear() {
	w.allowed = make(map[string]struct{})
}

// Enable turns strict validation on or off.
func (w *Whitelist) Enable(enable bool) {
	w.enabled = enable
}

// Enabled reports whether strict validation is on.
func (w *Whitelist) Enabled() bool {
	return w.enabled
}

// Commands returns the allowed basenames, sorted.
func (w *Whitelist) Commands() []string {
	out := lo.Keys(w.allowed)
	sort.Strings(out)
	return out
}

// Allowed checks the first argv token of a command.
// When the whitelist is disabled every command is allowed.
func (w *Whitelist) Allowed(token0 string) bool {
	if !w.enabled {
		return true
	}
	exe := Basename(token0)
	if exe == "" {
		return false
	}
	_, ok := w.allowed[exe]
	return ok
}

// CommandAllowed tokenizes a full command template and checks its program.
func (w *Whitelist) CommandAllowed(command string) bool {
	if !w.enabled {
		return true
	}
	tokens := Tokenize(command)
	if len(tokens) == 0 {
		return false
	}
	return w.Allowed(tokens[0])
}

// Basename strips any directory prefix (either separator) and, on platforms
// that use it, a trailing ".exe". Comparison stays case-sensitive.
func Basename(token string) string {
	if i := strings.LastIndexAny(token, `/\`); i >= 0 {
		token = token[i+1:]
	}
	if stripExeSuffix && len(token) > 4 && strings.HasSuffix(token, ".exe") {
		token = strings.TrimSuffix(token, ".exe")
	}
	return token
}
