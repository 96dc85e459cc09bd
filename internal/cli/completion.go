package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/samber/lo"
)

// CompletionCmd generates shell completions
type CompletionCmd struct {
	Shell string `arg:"" enum:"bash,zsh,fish" help:"Shell type (bash, zsh, fish)"`
}

type completionNode struct {
	Subcommands []string
	Flags       []string
}

type completionIndex struct {
	Nodes      map[string]completionNode
	EnumByFlag map[string][]string // flag token (-f/--format) -> enum values
	KnownPaths []string
}

// Run executes the completion command.
//
// Note: we accept *kong.Context so completion output stays in sync with the actual CLI model.
func (c *CompletionCmd) Run(globals *Globals, ctx *kong.Context) error {
	var model *kong.Node
	if ctx != nil && ctx.Model != nil {
		model = ctx.Model.Node
	}
	idx := buildCompletionIndex(model)

	var script string
	switch c.Shell {
	case "bash":
		script = bashCompletion(idx)
	case "zsh":
		script = zshCompletion(idx)
	case "fish":
		script = fishCompletion(idx)
	default:
		return fmt.Errorf("unsupported shell: %s", c.Shell)
	}
	_, err := fmt.Fprint(globals.Stdout, script)
	return err
}

func buildCompletionIndex(model *kong.Node) completionIndex {
	// Be resilient when ctx/model isn't available (eg. tests or direct invocation).
	if model == nil {
		return completionIndex{
			Nodes:      map[string]completionNode{},
			EnumByFlag: map[string][]string{},
			KnownPaths: []string{""},
		}
	}

	nodes := map[string]completionNode{}
	enumByFlag := map[string][]string{}
	known := map[string]struct{}{"": {}}

	var walk func(n *kong.Node, path []string)
	walk = func(n *kong.Node, path []string) {
		key := strings.Join(path, "__")
		known[key] = struct{}{}

		var sub []string
		children := lo.Filter(n.Children, func(child *kong.Node, _ int) bool {
			return child != nil && child.Type == kong.CommandNode && !child.Hidden
		})
		for _, child := range children {
			sub = append(sub, child.Name)
			sub = append(sub, child.Aliases...)
		}

		var flags []string
		for _, group := range n.AllFlags(true) {
			for _, f := range group {
				if f == nil {
					continue
				}
				tokens := flagCompletionTokens(f)
				flags = append(flags, tokens...)
				if values := splitEnum(f.Enum); len(values) > 0 {
					for _, t := range tokens {
						// first writer wins; global flags show up everywhere
						if _, ok := enumByFlag[t]; !ok {
							enumByFlag[t] = values
						}
					}
				}
			}
		}

		nodes[key] = completionNode{
			Subcommands: uniqueSorted(sub),
			Flags:       uniqueSorted(flags),
		}
		for _, child := range children {
			walk(child, append(path, child.Name))
		}
	}
	walk(model, nil)

	knownPaths := lo.Keys(known)
	sort.Strings(knownPaths)
	return completionIndex{Nodes: nodes, EnumByFlag: enumByFlag, KnownPaths: knownPaths}
}

func flagCompletionTokens(f *kong.Flag) []string {
	if f == nil {
		return nil
	}
	tokens := []string{"--" + f.Name}
	if f.Short != 0 {
		tokens = append(tokens, "-"+string(f.Short))
	}
	for _, a := range f.Aliases {
		if a = strings.TrimSpace(a); a != "" {
			tokens = append(tokens, "--"+a)
		}
	}
	return tokens
}

func splitEnum(raw string) []string {
	values := lo.Map(strings.Split(raw, ","), func(v string, _ int) string { return strings.TrimSpace(v) })
	return lo.Compact(values)
}

func uniqueSorted(in []string) []string {
	out := lo.Uniq(lo.Compact(lo.Map(in, func(s string, _ int) string { return strings.TrimSpace(s) })))
	sort.Strings(out)
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := lo.Keys(m)
	sort.Strings(keys)
	return keys
}

func bashCompletion(idx completionIndex) string {
	var sb strings.Builder
	sb.WriteString(`# fx bash completion script
# Add to ~/.bashrc or ~/.bash_profile:
#   eval "$(fx completion bash)"

_fx_is_cmdpath() {
    case "$1" in
`)
	for _, k := range idx.KnownPaths {
		if k != "" {
			fmt.Fprintf(&sb, "        %s) return 0 ;;\n", k)
		}
	}
	sb.WriteString(`        "") return 0 ;;
        *) return 1 ;;
    esac
}

_fx_completions() {
    local cur prev words cword
    _init_completion || return

    local cmdpath="" candidate="" i
    for ((i=1; i < cword; i++)); do
        local w=${words[i]}
        [[ -z "${w}" || "${w}" == -* ]] && continue
        candidate="${candidate:+${candidate}__}${w}"
        if _fx_is_cmdpath "${candidate}"; then
            cmdpath="${candidate}"
        else
            break
        fi
    done

    case "${prev}" in
        -t|--theme)
            COMPREPLY=($(compgen -W "$(fx themes --names 2>/dev/null)" -- "${cur}"))
            return
            ;;
`)
	for _, token := range sortedKeys(idx.EnumByFlag) {
		fmt.Fprintf(&sb, "        %s)\n            COMPREPLY=($(compgen -W \"%s\" -- \"${cur}\"))\n            return\n            ;;\n",
			token, strings.Join(idx.EnumByFlag[token], " "))
	}
	sb.WriteString(`    esac

    local subcommands="" flags=""
    case "${cmdpath}" in
`)
	for _, k := range sortedKeys(idx.Nodes) {
		node := idx.Nodes[k]
		fmt.Fprintf(&sb, "        \"%s\")\n            subcommands=\"%s\"\n            flags=\"%s\"\n            ;;\n",
			k, strings.Join(node.Subcommands, " "), strings.Join(node.Flags, " "))
	}
	sb.WriteString(`    esac

    if [[ "${cur}" == -* ]]; then
        COMPREPLY=($(compgen -W "${flags}" -- "${cur}"))
        return
    fi
    # browse, open and check take paths
    COMPREPLY=($(compgen -W "${subcommands}" -- "${cur}") $(compgen -f -- "${cur}"))
}

complete -F _fx_completions fx
`)
	return sb.String()
}

func zshCompletion(idx completionIndex) string {
	var sb strings.Builder
	sb.WriteString(`#compdef fx
# fx zsh completion script
# Add to ~/.zshrc:
#   eval "$(fx completion zsh)"

_fx() {
  local cur prev cmdpath="" candidate="" i
  cur="${words[CURRENT]}"
  prev="${words[CURRENT-1]}"

  for ((i=2; i < CURRENT; i++)); do
    local w="${words[i]}"
    [[ -z "${w}" || "${w}" == -* ]] && continue
    candidate="${candidate:+${candidate}__}${w}"
    case "${candidate}" in
`)
	for _, k := range idx.KnownPaths {
		if k != "" {
			fmt.Fprintf(&sb, "      %s) cmdpath=\"${candidate}\" ;;\n", k)
		}
	}
	sb.WriteString(`      *) break ;;
    esac
  done

  case "${prev}" in
    -t|--theme)
      compadd -- ${(f)"$(fx themes --names 2>/dev/null)"}
      return
      ;;
`)
	for _, token := range sortedKeys(idx.EnumByFlag) {
		fmt.Fprintf(&sb, "    %s)\n      compadd -- %s\n      return\n      ;;\n", token, strings.Join(idx.EnumByFlag[token], " "))
	}
	sb.WriteString(`  esac

  local -a subcommands flags
  case "${cmdpath}" in
`)
	for _, k := range sortedKeys(idx.Nodes) {
		node := idx.Nodes[k]
		fmt.Fprintf(&sb, "    \"%s\")\n      subcommands=(%s)\n      flags=(%s)\n      ;;\n",
			k, strings.Join(node.Subcommands, " "), strings.Join(node.Flags, " "))
	}
	sb.WriteString(`  esac

  if [[ "${cur}" == -* ]]; then
    compadd -- ${flags[@]}
    return
  fi
  compadd -- ${subcommands[@]}
  _files
}

compdef _fx fx
`)
	return sb.String()
}

func fishCompletion(idx completionIndex) string {
	var sb strings.Builder
	sb.WriteString(`# fx fish completion script
# Add to ~/.config/fish/completions/fx.fish

`)
	root := idx.Nodes[""]
	for _, cmd := range root.Subcommands {
		fmt.Fprintf(&sb, "complete -c fx -n \"__fish_use_subcommand\" -a \"%s\"\n", cmd)
	}
	for _, flag := range root.Flags {
		if !strings.HasPrefix(flag, "--") {
			continue
		}
		long := strings.TrimPrefix(flag, "--")
		if enum := idx.EnumByFlag[flag]; len(enum) > 0 {
			fmt.Fprintf(&sb, "complete -c fx -l %s -xa \"%s\"\n", long, strings.Join(enum, " "))
			continue
		}
		fmt.Fprintf(&sb, "complete -c fx -l %s\n", long)
	}
	sb.WriteString(`
# Theme names
complete -c fx -s t -l theme -xa "(fx themes --names 2>/dev/null)"
`)
	return sb.String()
}
