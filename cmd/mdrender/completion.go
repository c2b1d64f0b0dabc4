package main

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-mdrender/internal/mathtex"
	"github.com/alnah/go-mdrender/internal/mermaid"
	"github.com/alnah/go-mdrender/internal/theme"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash       Shell = "bash"
	ShellZsh        Shell = "zsh"
	ShellFish       Shell = "fish"
	ShellPowerShell Shell = "powershell"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = errors.New("unsupported shell")

// flagType represents the completion type for a flag.
type flagType int

const (
	flagString flagType = iota // default
	flagBool
	flagInt
	flagEnum // has predefined values
	flagFile // file with glob pattern
	flagDir  // directory
)

// argType describes what a command's positional argument completes to.
type argType int

const (
	argNone argType = iota
	argFile
	argDir
	argWord // one of commandDef.Words
)

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long     string   // --output
	Short    string   // -o (empty if none)
	Type     flagType // completion type
	Desc     string   // help text
	Values   []string // for enum flags
	FileGlob string   // for file flags, comma-separated
}

// commandDef describes a command for completion.
type commandDef struct {
	Name  string
	Desc  string
	Flags []flagDef
	Arg   argType
	Glob  string   // for argFile
	Words []string // for argWord
}

// completionMeta holds completion-specific metadata for flags.
// Flag names, types, and descriptions come from the FlagSet.
type completionMeta struct {
	Values   []string // enum values
	FileGlob string   // file glob pattern
	IsDir    bool     // directory completion
}

// flagCompletionMeta maps flag names to their completion metadata.
func flagCompletionMeta() map[string]completionMeta {
	return map[string]completionMeta{
		"math":     {Values: []string{string(mathtex.ModeClient), string(mathtex.ModeKaTeX)}},
		"diagrams": {Values: []string{string(mermaid.ModeClient), string(mermaid.ModeMermaid)}},
		"theme":    {Values: theme.Names()},
		"config":   {FileGlob: "*.yaml,*.yml"},
		"output":   {IsDir: true},
	}
}

// extractFlagsFromFlagSet extracts flag definitions from a pflag.FlagSet.
// Enriches with completion metadata from flagCompletionMeta.
func extractFlagsFromFlagSet(fs *flag.FlagSet) []flagDef {
	meta := flagCompletionMeta()
	var flags []flagDef

	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{
			Long:  f.Name,
			Short: f.Shorthand,
			Desc:  f.Usage,
		}

		switch f.Value.Type() {
		case "bool":
			fd.Type = flagBool
		case "int":
			fd.Type = flagInt
		default:
			fd.Type = flagString
		}

		if m, ok := meta[f.Name]; ok {
			switch {
			case len(m.Values) > 0:
				fd.Type = flagEnum
				fd.Values = m.Values
			case m.FileGlob != "":
				fd.Type = flagFile
				fd.FileGlob = m.FileGlob
			case m.IsDir:
				fd.Type = flagDir
			}
		}

		flags = append(flags, fd)
	})

	return flags
}

// getCommands returns the command registry used by help and completion.
// Flags are extracted from the FlagSets the commands parse with.
func getCommands() []commandDef {
	commands := []string{"build", "render", "outline", "css", "languages", "doctor", "completion", "version", "help"}
	sort.Strings(commands)

	return []commandDef{
		{
			Name:  "build",
			Desc:  "Build a static site from a content directory",
			Flags: extractFlagsFromFlagSet(buildFlagSet(&buildFlags{}, io.Discard)),
			Arg:   argDir,
		},
		{
			Name:  "render",
			Desc:  "Print the HTML fragment of a markdown file",
			Flags: extractFlagsFromFlagSet(renderFlagSet(&renderCmdFlags{}, io.Discard)),
			Arg:   argFile,
			Glob:  "*.md,*.markdown",
		},
		{
			Name:  "outline",
			Desc:  "Print the heading tree of a markdown file",
			Flags: extractFlagsFromFlagSet(outlineFlagSet(&outlineFlags{}, io.Discard)),
			Arg:   argFile,
			Glob:  "*.md,*.markdown",
		},
		{
			Name:  "css",
			Desc:  "Print a highlight stylesheet",
			Flags: extractFlagsFromFlagSet(cssFlagSet(&cssFlags{}, io.Discard)),
		},
		{
			Name:  "languages",
			Desc:  "List highlight languages and grammar status",
			Flags: extractFlagsFromFlagSet(languagesFlagSet(&languagesFlags{}, io.Discard)),
		},
		{
			Name:  "doctor",
			Desc:  "Check Chrome, grammars and the environment",
			Flags: extractFlagsFromFlagSet(doctorFlagSet(&doctorFlags{}, io.Discard)),
		},
		{
			Name:  "completion",
			Desc:  "Generate shell completion script",
			Arg:   argWord,
			Words: []string{string(ShellBash), string(ShellZsh), string(ShellFish), string(ShellPowerShell)},
		},
		{
			Name: "version",
			Desc: "Show version information",
		},
		{
			Name:  "help",
			Desc:  "Show help for a command",
			Arg:   argWord,
			Words: commands,
		},
	}
}

// GenerateCompletion writes shell completion script to w.
// Returns error if shell is unsupported or write fails.
func GenerateCompletion(w io.Writer, shell Shell) error {
	var b strings.Builder
	commands := getCommands()

	switch shell {
	case ShellBash:
		generateBash(&b, commands)
	case ShellZsh:
		generateZsh(&b, commands)
	case ShellFish:
		generateFish(&b, commands)
	case ShellPowerShell:
		generatePowerShell(&b, commands)
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish, powershell)", ErrUnsupportedShell, shell)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}
	return GenerateCompletion(env.Stdout, Shell(args[0]))
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdrender completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w, "  powershell  PowerShell completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Bash:")
	fmt.Fprintln(w, "    # Add to ~/.bashrc:")
	fmt.Fprintln(w, "    eval \"$(mdrender completion bash)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Zsh:")
	fmt.Fprintln(w, "    # Add to ~/.zshrc (after compinit):")
	fmt.Fprintln(w, "    eval \"$(mdrender completion zsh)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Fish:")
	fmt.Fprintln(w, "    mdrender completion fish > ~/.config/fish/completions/mdrender.fish")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  PowerShell:")
	fmt.Fprintln(w, "    # Add to $PROFILE:")
	fmt.Fprintln(w, "    mdrender completion powershell | Out-String | Invoke-Expression")
}

func commandNames(commands []commandDef) []string {
	names := make([]string, len(commands))
	for i, c := range commands {
		names[i] = c.Name
	}
	return names
}

// flagNames lists --long and -short spellings.
func flagNames(f flagDef) []string {
	names := []string{"--" + f.Long}
	if f.Short != "" {
		names = append([]string{"-" + f.Short}, names...)
	}
	return names
}

func generateBash(b *strings.Builder, commands []commandDef) {
	b.WriteString("# bash completion for mdrender\n")
	b.WriteString("_mdrender() {\n")
	b.WriteString("    local cur prev cmd\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	b.WriteString("    cmd=\"${COMP_WORDS[1]}\"\n\n")
	b.WriteString("    if [[ ${COMP_CWORD} -eq 1 ]]; then\n")
	fmt.Fprintf(b, "        COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", strings.Join(commandNames(commands), " "))
	b.WriteString("        return\n")
	b.WriteString("    fi\n\n")
	b.WriteString("    case \"$cmd\" in\n")

	for _, c := range commands {
		if len(c.Flags) == 0 && c.Arg == argNone {
			continue
		}
		fmt.Fprintf(b, "    %s)\n", c.Name)

		var valued []string
		for _, f := range c.Flags {
			if f.Type == flagBool {
				continue
			}
			pattern := strings.Join(flagNames(f), "|")
			switch f.Type {
			case flagEnum:
				valued = append(valued, fmt.Sprintf("        %s) COMPREPLY=($(compgen -W %q -- \"$cur\")); return ;;", pattern, strings.Join(f.Values, " ")))
			case flagFile:
				valued = append(valued, fmt.Sprintf("        %s) COMPREPLY=($(compgen -f -- \"$cur\")); return ;;", pattern))
			case flagDir:
				valued = append(valued, fmt.Sprintf("        %s) COMPREPLY=($(compgen -d -- \"$cur\")); return ;;", pattern))
			default:
				valued = append(valued, fmt.Sprintf("        %s) return ;;", pattern))
			}
		}
		if len(valued) > 0 {
			b.WriteString("        case \"$prev\" in\n")
			for _, line := range valued {
				b.WriteString("    " + line + "\n")
			}
			b.WriteString("        esac\n")
		}

		if len(c.Flags) > 0 {
			var all []string
			for _, f := range c.Flags {
				all = append(all, "--"+f.Long)
			}
			b.WriteString("        if [[ \"$cur\" == -* ]]; then\n")
			fmt.Fprintf(b, "            COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", strings.Join(all, " "))
			b.WriteString("            return\n")
			b.WriteString("        fi\n")
		}

		switch c.Arg {
		case argFile:
			b.WriteString("        COMPREPLY=($(compgen -f -- \"$cur\"))\n")
		case argDir:
			b.WriteString("        COMPREPLY=($(compgen -d -- \"$cur\"))\n")
		case argWord:
			fmt.Fprintf(b, "        COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", strings.Join(c.Words, " "))
		}
		b.WriteString("        ;;\n")
	}

	b.WriteString("    esac\n")
	b.WriteString("}\n")
	b.WriteString("complete -F _mdrender mdrender\n")
}

// zshEscape escapes text inside a single-quoted _arguments spec.
func zshEscape(s string) string {
	r := strings.NewReplacer("'", `'\''`, "[", `\[`, "]", `\]`, ":", `\:`)
	return r.Replace(s)
}

// zshGlob turns "*.yaml,*.yml" into "*.(yaml|yml)".
func zshGlob(glob string) string {
	parts := strings.Split(glob, ",")
	if len(parts) == 1 {
		return parts[0]
	}
	exts := make([]string, len(parts))
	for i, p := range parts {
		exts[i] = strings.TrimPrefix(p, "*.")
	}
	return "*.(" + strings.Join(exts, "|") + ")"
}

func generateZsh(b *strings.Builder, commands []commandDef) {
	b.WriteString("#compdef mdrender\n\n")
	b.WriteString("_mdrender() {\n")
	b.WriteString("  local -a commands\n")
	b.WriteString("  commands=(\n")
	for _, c := range commands {
		fmt.Fprintf(b, "    '%s:%s'\n", c.Name, zshEscape(c.Desc))
	}
	b.WriteString("  )\n\n")
	b.WriteString("  if (( CURRENT == 2 )); then\n")
	b.WriteString("    _describe 'command' commands\n")
	b.WriteString("    return\n")
	b.WriteString("  fi\n\n")
	b.WriteString("  local cmd=$words[2]\n")
	b.WriteString("  shift words\n")
	b.WriteString("  (( CURRENT-- ))\n\n")
	b.WriteString("  case $cmd in\n")

	for _, c := range commands {
		if len(c.Flags) == 0 && c.Arg == argNone {
			continue
		}
		fmt.Fprintf(b, "    %s)\n", c.Name)
		b.WriteString("      _arguments")
		for _, f := range c.Flags {
			action := ""
			switch f.Type {
			case flagEnum:
				action = ":value:(" + strings.Join(f.Values, " ") + ")"
			case flagFile:
				action = fmt.Sprintf(":file:_files -g '%s'", zshGlob(f.FileGlob))
			case flagDir:
				action = ":directory:_files -/"
			case flagString, flagInt:
				action = ":value: "
			}
			desc := zshEscape(f.Desc)
			if f.Short != "" {
				fmt.Fprintf(b, " \\\n        '(-%s --%s)'{-%s,--%s}'[%s]%s'", f.Short, f.Long, f.Short, f.Long, desc, action)
			} else {
				fmt.Fprintf(b, " \\\n        '--%s[%s]%s'", f.Long, desc, action)
			}
		}
		switch c.Arg {
		case argFile:
			fmt.Fprintf(b, " \\\n        '1:file:_files -g \"%s\"'", zshGlob(c.Glob))
		case argDir:
			b.WriteString(" \\\n        '1:directory:_files -/'")
		case argWord:
			fmt.Fprintf(b, " \\\n        '1:value:(%s)'", strings.Join(c.Words, " "))
		}
		b.WriteString("\n      ;;\n")
	}

	b.WriteString("  esac\n")
	b.WriteString("}\n\n")
	b.WriteString("compdef _mdrender mdrender\n")
}

// fishQuote single-quotes s for fish.
func fishQuote(s string) string {
	return "'" + strings.NewReplacer(`\`, `\\`, "'", `\'`).Replace(s) + "'"
}

func generateFish(b *strings.Builder, commands []commandDef) {
	b.WriteString("# fish completion for mdrender\n")
	b.WriteString("complete -c mdrender -f\n\n")

	for _, c := range commands {
		fmt.Fprintf(b, "complete -c mdrender -n __fish_use_subcommand -a %s -d %s\n", c.Name, fishQuote(c.Desc))
	}

	for _, c := range commands {
		cond := fishQuote("__fish_seen_subcommand_from " + c.Name)
		if len(c.Flags) > 0 || c.Arg != argNone {
			b.WriteString("\n")
		}
		for _, f := range c.Flags {
			line := "complete -c mdrender -n " + cond
			if f.Short != "" {
				line += " -s " + f.Short
			}
			line += " -l " + f.Long
			switch f.Type {
			case flagEnum:
				line += " -x -a " + fishQuote(strings.Join(f.Values, " "))
			case flagFile:
				line += " -r -F"
			case flagDir:
				line += " -x -a '(__fish_complete_directories)'"
			case flagString, flagInt:
				line += " -x"
			}
			line += " -d " + fishQuote(f.Desc)
			b.WriteString(line + "\n")
		}
		switch c.Arg {
		case argFile:
			fmt.Fprintf(b, "complete -c mdrender -n %s -F\n", cond)
		case argDir:
			fmt.Fprintf(b, "complete -c mdrender -n %s -x -a '(__fish_complete_directories)'\n", cond)
		case argWord:
			fmt.Fprintf(b, "complete -c mdrender -n %s -x -a %s\n", cond, fishQuote(strings.Join(c.Words, " ")))
		}
	}
}

func generatePowerShell(b *strings.Builder, commands []commandDef) {
	b.WriteString("# PowerShell completion for mdrender\n")
	b.WriteString("Register-ArgumentCompleter -Native -CommandName mdrender -ScriptBlock {\n")
	b.WriteString("    param($wordToComplete, $commandAst, $cursorPosition)\n\n")
	b.WriteString("    $words = @($commandAst.CommandElements | ForEach-Object { $_.ToString() })\n")
	b.WriteString("    $commands = @{\n")
	for _, c := range commands {
		var words []string
		for _, f := range c.Flags {
			words = append(words, "'--"+f.Long+"'")
		}
		for _, w := range c.Words {
			words = append(words, "'"+w+"'")
		}
		fmt.Fprintf(b, "        '%s' = @(%s)\n", c.Name, strings.Join(words, ", "))
	}
	b.WriteString("    }\n\n")
	b.WriteString("    if ($words.Count -le 1 -or ($words.Count -eq 2 -and $wordToComplete)) {\n")
	b.WriteString("        $candidates = $commands.Keys\n")
	b.WriteString("    } else {\n")
	b.WriteString("        $candidates = $commands[$words[1]]\n")
	b.WriteString("    }\n\n")
	b.WriteString("    $candidates | Where-Object { $_ -like \"$wordToComplete*\" } | Sort-Object | ForEach-Object {\n")
	b.WriteString("        [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)\n")
	b.WriteString("    }\n")
	b.WriteString("}\n")
}
