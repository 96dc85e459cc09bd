package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vburojevic/fx/internal/config"
)

// testGlobals creates a Globals struct with captured stdout/stderr
func testGlobals(format string) (*Globals, *bytes.Buffer, *bytes.Buffer) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	return &Globals{
		Format:  format,
		Verbose: false,
		Stdout:  stdout,
		Stderr:  stderr,
		Config:  config.Default(),
	}, stdout, stderr
}

// isolate points every config and state lookup at an empty temp home.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(home, ".state"))
	testChdir(t, home)
	return home
}

func writeFile(t *testing.T, dir, name string) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))
	return path
}

func decodeAll(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	dec := json.NewDecoder(buf)
	for dec.More() {
		var m map[string]interface{}
		require.NoError(t, dec.Decode(&m))
		out = append(out, m)
	}
	return out
}

// --- Parsing ---

func parse(t *testing.T, args ...string) (*CLI, *kong.Context) {
	t.Helper()
	var c CLI
	parser, err := kong.New(&c, kong.Name("fx"), kong.Vars{"config_format": "text"}, kong.Exit(func(int) { t.Fatal("unexpected exit") }))
	require.NoError(t, err)
	ctx, err := parser.Parse(args)
	require.NoError(t, err)
	return &c, ctx
}

func TestParseDefaultsToBrowse(t *testing.T) {
	dir := t.TempDir()

	c, ctx := parse(t, dir)
	assert.Equal(t, "browse <dir>", ctx.Command())
	assert.Equal(t, dir, c.Browse.Dir)
	assert.Equal(t, "text", c.Format)

	_, ctx = parse(t)
	assert.Equal(t, "browse", ctx.Command())
}

func TestParseOpenFlags(t *testing.T) {
	c, ctx := parse(t, "--format", "ndjson", "open", "a.txt", "--with", "less -R", "--wait", "-S")
	assert.Equal(t, "open <path>", ctx.Command())
	assert.Equal(t, "ndjson", c.Format)
	assert.Equal(t, "less -R", c.Open.With)
	assert.True(t, c.Open.Wait)
	assert.True(t, c.Open.Strict)
}

// --- Open / Check ---

func TestOpenCmdValidation(t *testing.T) {
	isolate(t)

	t.Run("missing file", func(t *testing.T) {
		globals, stdout, _ := testGlobals("ndjson")
		err := (&OpenCmd{Path: "/definitely/missing.txt", With: "less"}).Run(globals)
		require.Error(t, err)

		m := decodeAll(t, stdout)[0]
		assert.Equal(t, "error", m["type"])
		assert.Equal(t, "INVALID_PATH", m["code"])
		assert.Equal(t, "Invalid or inaccessible file path", m["message"])
	})

	t.Run("whitelist", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "a.txt")
		globals, _, stderr := testGlobals("text")
		err := (&OpenCmd{Path: path, With: "rm -f", Strict: true}).Run(globals)
		require.Error(t, err)
		assert.Equal(t, "Command not in allowed whitelist: rm -f", err.Error())
		assert.Contains(t, stderr.String(), "Error [COMMAND_NOT_ALLOWED]")
	})

	t.Run("empty command", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "a.txt")
		globals, _, stderr := testGlobals("text")
		err := (&OpenCmd{Path: path, With: "   "}).Run(globals)
		require.Error(t, err)
		assert.Contains(t, stderr.String(), "Error [EMPTY_COMMAND]: Empty command")
	})

	t.Run("outside base dir", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "a.txt")
		globals, _, stderr := testGlobals("text")
		err := (&OpenCmd{Path: path, With: "less", BaseDir: t.TempDir()}).Run(globals)
		require.Error(t, err)
		assert.Contains(t, stderr.String(), "INVALID_PATH")
	})

	t.Run("wait without with", func(t *testing.T) {
		globals, _, stderr := testGlobals("text")
		require.Error(t, (&OpenCmd{Path: "x", Wait: true}).Run(globals))
		assert.Contains(t, stderr.String(), "INVALID_FLAGS")
	})
}

func TestCheckCmd(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	md := writeFile(t, dir, "notes.md")
	pdf := writeFile(t, dir, "paper.pdf")

	t.Run("matching rule", func(t *testing.T) {
		globals, stdout, _ := testGlobals("ndjson")
		globals.Config.FileHandlers.Rules = []config.HandlerRule{{Extensions: []string{"md"}, Command: "nvim -R", Terminal: true}}

		require.NoError(t, (&CheckCmd{Path: md, Strict: true}).Run(globals))

		m := decodeAll(t, stdout)[0]
		assert.Equal(t, "check", m["type"])
		assert.Equal(t, true, m["valid"])
		assert.Equal(t, true, m["strict"])
		assert.Equal(t, true, m["allowed"], "nvim is on the built-in whitelist")
		assert.Equal(t, []interface{}{"nvim", "-R", md}, m["argv"])
		h := m["handler"].(map[string]interface{})
		assert.Equal(t, "extension", h["reason"])
		assert.Equal(t, true, h["wait"])
	})

	t.Run("rejected by whitelist", func(t *testing.T) {
		globals, stdout, _ := testGlobals("ndjson")
		globals.Config.FileHandlers.Rules = []config.HandlerRule{{Extensions: []string{"md"}, Command: "curl -T"}}

		err := (&CheckCmd{Path: md, Strict: true}).Run(globals)
		require.Error(t, err)

		m := decodeAll(t, stdout)[0]
		assert.Equal(t, false, m["allowed"])
		assert.NotContains(t, m, "argv")
	})

	t.Run("default opener", func(t *testing.T) {
		globals, stdout, _ := testGlobals("ndjson")
		globals.Config.FileHandlers.Default = "my-open --tab"

		require.NoError(t, (&CheckCmd{Path: pdf}).Run(globals))

		m := decodeAll(t, stdout)[0]
		assert.NotContains(t, m, "handler")
		assert.Equal(t, []interface{}{"my-open", "--tab"}, m["default_opener"])
		assert.Equal(t, []interface{}{"my-open", "--tab", pdf}, m["argv"])
	})

	t.Run("invalid path in text", func(t *testing.T) {
		globals, stdout, _ := testGlobals("text")
		err := (&CheckCmd{Path: filepath.Join(dir, "nope")}).Run(globals)
		require.Error(t, err)
		assert.Contains(t, stdout.String(), "does not exist")
	})
}

// --- Handlers / Themes ---

func TestHandlersCmd(t *testing.T) {
	globals, stdout, _ := testGlobals("ndjson")
	globals.Config.FileHandlers.Rules = []config.HandlerRule{
		{Extensions: []string{"go"}, Command: "nvim", Terminal: true},
		{Pattern: "*.log", Command: "my-viewer --follow"},
		{MimeType: "text/*", Command: "curl -T"},
	}
	globals.Config.Behavior.AllowedCommands = []string{"my-viewer"}

	require.NoError(t, (&HandlersCmd{}).Run(globals))

	rows := decodeAll(t, stdout)
	require.Len(t, rows, 3)
	assert.Equal(t, "handler", rows[0]["type"])
	assert.Equal(t, "nvim", rows[0]["command"])
	assert.Equal(t, true, rows[0]["terminal"])
	assert.Equal(t, true, rows[0]["allowed"])
	assert.Equal(t, true, rows[1]["allowed"], "allowed_commands extends the whitelist")
	assert.Equal(t, "text/*", rows[2]["mime_type"])
	assert.Equal(t, false, rows[2]["allowed"])
}

func TestHandlersCmdWhitelistText(t *testing.T) {
	globals, stdout, _ := testGlobals("text")
	globals.Config.Behavior.AllowedCommands = []string{"my-viewer"}

	require.NoError(t, (&HandlersCmd{Whitelist: true}).Run(globals))
	assert.Contains(t, stdout.String(), "my-viewer")
	assert.Contains(t, stdout.String(), "nvim")
}

func TestThemesCmd(t *testing.T) {
	isolate(t)
	globals, stdout, _ := testGlobals("text")
	require.NoError(t, (&ThemesCmd{Names: true}).Run(globals))

	names := strings.Fields(stdout.String())
	assert.Contains(t, names, "catppuccin")
	assert.Contains(t, names, "nord")

	globals, stdout, _ = testGlobals("ndjson")
	require.NoError(t, (&ThemesCmd{}).Run(globals))
	m := decodeAll(t, stdout)[0]
	assert.Equal(t, "themes", m["type"])
	assert.Equal(t, "catppuccin", m["current"])
}

// --- Config ---

func TestConfigShowCmd(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		globals, stdout, _ := testGlobals("text")
		require.NoError(t, (&ConfigShowCmd{}).Run(globals))

		out := stdout.String()
		assert.Contains(t, out, "Current Configuration:")
		assert.Contains(t, out, "theme = 'catppuccin'")
		assert.Contains(t, out, "settle_delay = '100ms'")
	})

	t.Run("ndjson", func(t *testing.T) {
		globals, stdout, _ := testGlobals("ndjson")
		require.NoError(t, (&ConfigShowCmd{}).Run(globals))

		m := decodeAll(t, stdout)[0]
		assert.Equal(t, "config", m["type"])
		assert.Equal(t, "catppuccin", m["theme"])
		assert.Equal(t, "100ms", m["settle_delay"])
	})
}

func TestConfigPathCmd(t *testing.T) {
	home := isolate(t)

	globals, stdout, _ := testGlobals("text")
	require.NoError(t, (&ConfigPathCmd{}).Run(globals))
	assert.Contains(t, stdout.String(), "No configuration file found")

	require.NoError(t, os.WriteFile(filepath.Join(home, ".fx.toml"), []byte("format = 'text'\n"), 0o644))
	globals, stdout, _ = testGlobals("ndjson")
	require.NoError(t, (&ConfigPathCmd{}).Run(globals))
	m := decodeAll(t, stdout)[0]
	assert.Equal(t, "config_path", m["type"])
	assert.Equal(t, true, m["found"])
	assert.Contains(t, m["path"], ".fx.toml")
}

func TestConfigInitCmd(t *testing.T) {
	root := filepath.Join(t.TempDir(), "fx")

	globals, stdout, _ := testGlobals("ndjson")
	require.NoError(t, (&ConfigInitCmd{Dir: root}).Run(globals))

	m := decodeAll(t, stdout)[0]
	assert.Equal(t, "config_init", m["type"])
	assert.FileExists(t, filepath.Join(root, "config.toml"))
	assert.FileExists(t, filepath.Join(root, "themes", "nord.toml"))

	cfg, err := config.LoadFromFile(filepath.Join(root, "config.toml"))
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.FileHandlers.Rules)

	globals, _, stderr := testGlobals("text")
	err = (&ConfigInitCmd{Dir: root}).Run(globals)
	require.Error(t, err)
	assert.Contains(t, stderr.String(), "Error [CONFIG_EXISTS]")
}

// --- Schema / Version / Completion ---

func TestSchemaCmd(t *testing.T) {
	t.Run("all schemas", func(t *testing.T) {
		globals, stdout, _ := testGlobals("ndjson")
		require.NoError(t, (&SchemaCmd{}).Run(globals))

		var result map[string]interface{}
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &result))
		assert.Equal(t, "fx Output Schemas", result["title"])
		defs := result["definitions"].(map[string]interface{})
		for _, name := range schemaTypes {
			assert.Contains(t, defs, name)
		}
	})

	t.Run("filtered", func(t *testing.T) {
		globals, stdout, _ := testGlobals("ndjson")
		require.NoError(t, (&SchemaCmd{Type: []string{"Error", " check "}}).Run(globals))

		var result map[string]interface{}
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &result))
		defs := result["definitions"].(map[string]interface{})
		assert.Len(t, defs, 2)
		assert.Contains(t, defs, "error")
		assert.Contains(t, defs, "check")
	})
}

func TestVersionCmd(t *testing.T) {
	globals, stdout, _ := testGlobals("ndjson")
	require.NoError(t, (&VersionCmd{}).Run(globals))
	m := decodeAll(t, stdout)[0]
	assert.Equal(t, "version", m["type"])
	assert.Equal(t, Version, m["version"])

	globals, stdout, _ = testGlobals("text")
	require.NoError(t, (&VersionCmd{}).Run(globals))
	assert.Contains(t, stdout.String(), "fx "+Version)
}

func TestCompletionFollowsModel(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish"} {
		t.Run(shell, func(t *testing.T) {
			_, ctx := parse(t, "completion", shell)
			globals, stdout, _ := testGlobals("text")
			require.NoError(t, ctx.Run(globals))

			out := stdout.String()
			assert.Contains(t, out, "open")
			assert.Contains(t, out, "check")
			assert.Contains(t, out, "themes --names")
			if shell != "fish" {
				assert.Contains(t, out, "text ndjson", "enum values come from the model")
				assert.Contains(t, out, "config__init")
			}
		})
	}
}

func TestBuildCompletionIndexWithoutModel(t *testing.T) {
	idx := buildCompletionIndex(nil)
	assert.Equal(t, []string{""}, idx.KnownPaths)
	assert.Empty(t, idx.Nodes)
}

// testChdir mirrors testing.T.Chdir (Go 1.24+): it changes the working
// directory and restores the previous one when the test finishes.
func testChdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
