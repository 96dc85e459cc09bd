package launch

import "strings"

// Tokenize splits a handler command template into argv tokens.
//
// Whitespace outside quotes separates tokens. Single or double quotes group
// their content verbatim; the other quote character has no meaning inside.
// An unmatched quote extends to the end of the string. Nothing is expanded:
// $VAR, $(...), backticks, globs and ; are ordinary characters.
func Tokenize(command string) []string {
	var (
		tokens  []string
		current strings.Builder
		quote   rune
	)

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	for _, r := range command {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
				continue
			}
			current.WriteRune(r)
		case r == '"' || r == '\'':
			quote = r
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			flush()
		default:
			current.WriteRune(r)
		}
	}
	flush()

	return tokens
}
