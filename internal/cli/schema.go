package cli

import (
	"encoding/json"
	"strings"
)

// SchemaCmd outputs JSON Schema for fx output types
type SchemaCmd struct {
	Type []string `short:"t" help:"Output types to include (outcome,check,handler,error). Default: all"`
}

var schemaTypes = []string{"outcome", "check", "handler", "error"}

// Run executes the schema command
func (c *SchemaCmd) Run(globals *Globals) error {
	schemas := map[string]interface{}{
		"outcome": outcomeSchema(),
		"check":   checkSchema(),
		"handler": handlerSchema(),
		"error":   errorSchema(),
	}

	typesToOutput := c.Type
	if len(typesToOutput) == 0 {
		typesToOutput = schemaTypes
	}

	output := map[string]interface{}{
		"$schema":     "http://json-schema.org/draft-07/schema#",
		"title":       "fx Output Schemas",
		"description": "JSON Schema definitions for all fx NDJSON output types",
		"definitions": map[string]interface{}{},
	}

	defs := output["definitions"].(map[string]interface{})
	for _, t := range typesToOutput {
		t = strings.ToLower(strings.TrimSpace(t))
		if schema, ok := schemas[t]; ok {
			defs[t] = schema
		}
	}

	encoder := json.NewEncoder(globals.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

func prop(typ, description string) map[string]interface{} {
	return map[string]interface{}{"type": typ, "description": description}
}

func constType(name string) map[string]interface{} {
	return map[string]interface{}{"type": "string", "const": name}
}

func outcomeSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"title":       "Open Outcome",
		"description": "Result of opening a file with 'fx open'",
		"properties": map[string]interface{}{
			"type":           constType("outcome"),
			"schemaVersion":  prop("integer", "Output schema version"),
			"path":           prop("string", "Path as given on the command line"),
			"command":        prop("string", "Handler command, empty for the default opener"),
			"default_opener": prop("boolean", "True when the platform opener was used"),
			"wait":           prop("boolean", "True when fx waited for the program to exit"),
			"success":        prop("boolean", "True when the launch succeeded"),
			"message":        prop("string", "Classified failure message"),
			"kind": map[string]interface{}{
				"type":        "string",
				"enum":        []string{"validation", "launch", "child", "terminal"},
				"description": "Failure class",
			},
		},
		"required": []string{"type", "path", "success"},
	}
}

func checkSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"title":       "Check Report",
		"description": "What 'fx open' would do for a path, without doing it",
		"properties": map[string]interface{}{
			"type":      constType("check"),
			"path":      prop("string", "Path as given on the command line"),
			"canonical": prop("string", "Absolute path with symlinks resolved"),
			"valid":     prop("boolean", "True when the path exists and is inside the base directory"),
			"reason":    prop("string", "Why the path was rejected"),
			"handler": map[string]interface{}{
				"type":        "object",
				"description": "Matching handler rule",
				"properties": map[string]interface{}{
					"index":   prop("integer", "Zero-based rule index"),
					"reason":  map[string]interface{}{"type": "string", "enum": []string{"extension", "pattern", "mime_type"}},
					"command": prop("string", "Command template"),
					"wait":    prop("boolean", "Terminal handler"),
				},
			},
			"default_opener": map[string]interface{}{
				"type":        "array",
				"items":       map[string]interface{}{"type": "string"},
				"description": "Opener argv prefix when no rule matched",
			},
			"strict":  prop("boolean", "Whitelist enabled"),
			"allowed": prop("boolean", "Whitelist verdict"),
			"argv": map[string]interface{}{
				"type":        "array",
				"items":       map[string]interface{}{"type": "string"},
				"description": "Exact argument vector that would be spawned",
			},
		},
		"required": []string{"type", "path", "valid", "strict", "allowed"},
	}
}

func handlerSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"title":       "File Handler",
		"description": "One configured file handler rule",
		"properties": map[string]interface{}{
			"type":  constType("handler"),
			"index": prop("integer", "Zero-based priority"),
			"extensions": map[string]interface{}{
				"type":  "array",
				"items": map[string]interface{}{"type": "string"},
			},
			"pattern":   prop("string", "Glob matched against the file name"),
			"mime_type": prop("string", "MIME type, type/* allowed"),
			"command":   prop("string", "Command template"),
			"terminal":  prop("boolean", "Program needs the terminal and is waited for"),
			"allowed":   prop("boolean", "Passes the whitelist in strict mode"),
		},
		"required": []string{"type", "index", "command", "terminal"},
	}
}

func errorSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"title":       "Error",
		"description": "Error message from fx",
		"properties": map[string]interface{}{
			"type": constType("error"),
			"code": map[string]interface{}{
				"type":        "string",
				"description": "Error code",
				"enum": []string{
					"INVALID_FLAGS",
					"INVALID_PATH",
					"INVALID_DIRECTORY",
					"EMPTY_COMMAND",
					"COMMAND_NOT_ALLOWED",
					"LAUNCH_FAILED",
					"CHILD_FAILED",
					"TERMINAL_RESTORE_FAILED",
					"NOT_A_TERMINAL",
					"OPEN_FAILED",
					"BROWSE_FAILED",
					"CONFIG_DIR_UNKNOWN",
					"CONFIG_ENCODE_FAILED",
					"CONFIG_EXISTS",
					"CONFIG_INIT_FAILED",
					"THEME_WRITE_FAILED",
				},
			},
			"message": prop("string", "Human-readable error description"),
			"hint":    prop("string", "Suggested fix"),
		},
		"required": []string{"type", "code", "message"},
	}
}
