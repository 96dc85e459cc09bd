// Package handler maps files to "open with" commands using the configured
// extension, glob pattern and MIME type rules.
package handler

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gabriel-vasile/mimetype"

	"github.com/vburojevic/fx/internal/config"
	"github.com/vburojevic/fx/internal/domain"
)

// Resolver picks the first matching rule for a path.
type Resolver struct {
	rules  []config.HandlerRule
	detect func(path string) (string, error)
}

// NewResolver creates a resolver over rules, in priority order.
func NewResolver(rules []config.HandlerRule) *Resolver {
	return &Resolver{
		rules:  rules,
		detect: detectMIME,
	}
}

// Match describes which rule matched and why.
type Match struct {
	Index   int
	Rule    config.HandlerRule
	Reason  string // extension, pattern or mime_type
	Command domain.HandlerCommand
}

// Resolve returns the handler for path. ok is false when no rule matched and
// the caller should fall back to the default opener.
func (r *Resolver) Resolve(path string) (domain.HandlerCommand, bool) {
	m, ok := r.Explain(path)
	return m.Command, ok
}

// Explain is Resolve with the matching rule attached.
func (r *Resolver) Explain(path string) (Match, bool) {
	base := filepath.Base(path)
	ext := strings.TrimPrefix(filepath.Ext(base), ".")

	// MIME sniffing reads the file, so it runs at most once and only when a
	// mime_type rule is reached.
	var (
		mime    string
		sniffed bool
	)

	for i, rule := range r.rules {
		if strings.TrimSpace(rule.Command) == "" {
			continue
		}
		cmd := domain.HandlerCommand{Command: rule.Command, Wait: rule.Terminal}

		if ext != "" && matchExtension(rule.Extensions, ext) {
			return Match{Index: i, Rule: rule, Reason: "extension", Command: cmd}, true
		}
		if rule.Pattern != "" && matchPattern(rule.Pattern, path, base) {
			return Match{Index: i, Rule: rule, Reason: "pattern", Command: cmd}, true
		}
		if rule.MimeType != "" {
			if !sniffed {
				mime, _ = r.detect(path)
				sniffed = true
			}
			if matchMIME(rule.MimeType, mime) {
				return Match{Index: i, Rule: rule, Reason: "mime_type", Command: cmd}, true
			}
		}
	}
	return Match{Index: -1}, false
}

func matchExtension(exts []string, ext string) bool {
	for _, e := range exts {
		if strings.EqualFold(strings.TrimPrefix(e, "."), ext) {
			return true
		}
	}
	return false
}

// matchPattern matches basename-only patterns against the file name and
// patterns with a slash against the whole slash-separated path.
func matchPattern(pattern, path, base string) bool {
	if strings.ContainsRune(pattern, '/') {
		full := filepath.ToSlash(path)
		if !strings.HasPrefix(pattern, "/") {
			full = strings.TrimPrefix(full, "/")
		}
		ok, err := doublestar.Match(pattern, full)
		return err == nil && ok
	}
	ok, err := doublestar.Match(pattern, base)
	return err == nil && ok
}

// matchMIME accepts an exact type ("application/pdf") or a family wildcard
// ("image/*"). Parameters such as charset are ignored.
func matchMIME(pattern, detected string) bool {
	if detected == "" {
		return false
	}
	detected = strings.TrimSpace(strings.SplitN(detected, ";", 2)[0])
	if family, ok := strings.CutSuffix(pattern, "/*"); ok {
		return strings.HasPrefix(detected, family+"/")
	}
	return strings.EqualFold(pattern, detected)
}

func detectMIME(path string) (string, error) {
	m, err := mimetype.DetectFile(path)
	if err != nil {
		return "", err
	}
	return m.String(), nil
}
