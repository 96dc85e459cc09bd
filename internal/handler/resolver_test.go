package handler

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vburojevic/fx/internal/config"
	"github.com/vburojevic/fx/internal/domain"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, data, 0o644))
	return p
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	r := NewResolver([]config.HandlerRule{
		{Extensions: []string{"cpp", "h", ".c"}, Command: "nvim", Terminal: true},
		{Pattern: "*.md", Command: "glow -p", Terminal: true},
		{Pattern: "**/testdata/**", Command: "less"},
		{MimeType: "image/*", Command: "feh"},
		{MimeType: "text/plain", Command: "bat"},
	})

	tests := []struct {
		name string
		path string
		data []byte
		want domain.HandlerCommand
		ok   bool
	}{
		{"extension", "main.cpp", nil, domain.HandlerCommand{Command: "nvim", Wait: true}, true},
		{"extension is case-insensitive", "UTIL.H", nil, domain.HandlerCommand{Command: "nvim", Wait: true}, true},
		{"extension with dot in rule", "x.c", nil, domain.HandlerCommand{Command: "nvim", Wait: true}, true},
		{"pattern", "README.md", nil, domain.HandlerCommand{Command: "glow -p", Wait: true}, true},
		{"path pattern", "testdata/golden.bin", []byte{0, 1, 2}, domain.HandlerCommand{Command: "less"}, true},
		{"mime wildcard", "photo", pngHeader, domain.HandlerCommand{Command: "feh"}, true},
		{"mime exact ignores charset", "notes", []byte("plain words\n"), domain.HandlerCommand{Command: "bat"}, true},
		{"no match", "blob.bin", []byte{0, 1, 2, 3}, domain.HandlerCommand{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := writeFile(t, dir, tt.path, tt.data)
			got, ok := r.Resolve(p)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveFirstMatchWins(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "a.md", []byte("# hi"))

	r := NewResolver([]config.HandlerRule{
		{Pattern: "*.md", Command: "glow"},
		{Extensions: []string{"md"}, Command: "nvim", Terminal: true},
	})
	m, ok := r.Explain(p)
	require.True(t, ok)
	assert.Equal(t, 0, m.Index)
	assert.Equal(t, "pattern", m.Reason)
	assert.Equal(t, "glow", m.Command.Command)
}

func TestResolveSkipsRulesWithoutCommand(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "a.go", nil)

	r := NewResolver([]config.HandlerRule{
		{Extensions: []string{"go"}, Command: "  "},
		{Extensions: []string{"go"}, Command: "hx", Terminal: true},
	})
	m, ok := r.Explain(p)
	require.True(t, ok)
	assert.Equal(t, 1, m.Index)
	assert.Equal(t, "hx", m.Command.Command)
}

func TestResolveSniffsOnce(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "data", []byte("x"))

	calls := 0
	r := NewResolver([]config.HandlerRule{
		{MimeType: "image/*", Command: "feh"},
		{MimeType: "video/*", Command: "mpv"},
		{MimeType: "application/pdf", Command: "zathura"},
	})
	r.detect = func(string) (string, error) {
		calls++
		return "video/mp4", nil
	}

	got, ok := r.Resolve(p)
	require.True(t, ok)
	assert.Equal(t, "mpv", got.Command)
	assert.Equal(t, 1, calls)

	// Rules that match without sniffing never read the file.
	calls = 0
	r = NewResolver([]config.HandlerRule{{Extensions: []string{""}, Command: "x"}, {Pattern: "data", Command: "cat"}, {MimeType: "image/*", Command: "feh"}})
	r.detect = func(string) (string, error) { calls++; return "", nil }
	got, ok = r.Resolve(p)
	require.True(t, ok)
	assert.Equal(t, "cat", got.Command)
	assert.Zero(t, calls)
}

func TestMatchMIME(t *testing.T) {
	assert.True(t, matchMIME("image/*", "image/png"))
	assert.False(t, matchMIME("image/*", "imagex/png"))
	assert.True(t, matchMIME("text/plain", "text/plain; charset=utf-8"))
	assert.False(t, matchMIME("text/plain", ""))
	assert.False(t, matchMIME("application/pdf", "application/zip"))
}
