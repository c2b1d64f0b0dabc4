package grammar

import (
	"fmt"
	"strings"
)

// Language is the canonical identifier of a supported grammar.
type Language uint8

// Supported languages. Unknown is the zero value and never registered.
const (
	Unknown Language = iota
	Bash
	C
	CSS
	Go
	HTML
	JavaScript
	JSON
	Markdown
	MarkdownInline
	Nix
	Python
	Rust
	TOML
	TypeScript
	TSX
	YAML
)

// Backend names the engine that tokenises a language.
type Backend uint8

const (
	BackendNone Backend = iota
	BackendTreeSitter
	BackendChroma
)

func (b Backend) String() string {
	switch b {
	case BackendTreeSitter:
		return "tree-sitter"
	case BackendChroma:
		return "chroma"
	default:
		return "none"
	}
}

// languageNames maps each language to its canonical name. The inverse is
// built at init and both directions are checked by verifyTables.
var languageNames = map[Language]string{
	Bash:           "bash",
	C:              "c",
	CSS:            "css",
	Go:             "go",
	HTML:           "html",
	JavaScript:     "javascript",
	JSON:           "json",
	Markdown:       "markdown",
	MarkdownInline: "markdown_inline",
	Nix:            "nix",
	Python:         "python",
	Rust:           "rust",
	TOML:           "toml",
	TypeScript:     "typescript",
	TSX:            "tsx",
	YAML:           "yaml",
}

var languagesByName map[string]Language

// internalLanguages are valid injection targets but never fence tags.
var internalLanguages = map[Language]bool{
	MarkdownInline: true,
}

var backends = map[Language]Backend{
	Bash:           BackendTreeSitter,
	C:              BackendTreeSitter,
	CSS:            BackendTreeSitter,
	Go:             BackendTreeSitter,
	HTML:           BackendTreeSitter,
	JavaScript:     BackendTreeSitter,
	JSON:           BackendTreeSitter,
	Markdown:       BackendTreeSitter,
	MarkdownInline: BackendTreeSitter,
	Nix:            BackendChroma,
	Python:         BackendTreeSitter,
	Rust:           BackendTreeSitter,
	TOML:           BackendTreeSitter,
	TypeScript:     BackendTreeSitter,
	TSX:            BackendTreeSitter,
	YAML:           BackendTreeSitter,
}

// defaultAliases are the fence tags recognised out of the box.
var defaultAliases = map[Language][]string{
	Bash:           {"bash", "sh", "shell", "zsh"},
	C:              {"c"},
	CSS:            {"css"},
	Go:             {"go", "golang"},
	HTML:           {"html"},
	JavaScript:     {"javascript", "js"},
	JSON:           {"json"},
	Markdown:       {"markdown", "md"},
	MarkdownInline: {"markdown_inline"},
	Nix:            {"nix"},
	Python:         {"python", "py"},
	Rust:           {"rust", "rs"},
	TOML:           {"toml"},
	TypeScript:     {"typescript", "ts"},
	TSX:            {"tsx"},
	YAML:           {"yaml", "yml"},
}

func init() {
	languagesByName = make(map[string]Language, len(languageNames))
	for lang, name := range languageNames {
		languagesByName[name] = lang
	}
}

// String returns the canonical name.
func (l Language) String() string {
	if name, ok := languageNames[l]; ok {
		return name
	}
	return fmt.Sprintf("Language(%d)", uint8(l))
}

// Backend reports which engine tokenises l.
func (l Language) Backend() Backend {
	return backends[l]
}

// Internal reports whether l is reachable only through injections.
func (l Language) Internal() bool {
	return internalLanguages[l]
}

// ParseLanguage is the inverse of Language.String.
func ParseLanguage(name string) (Language, bool) {
	lang, ok := languagesByName[strings.ToLower(strings.TrimSpace(name))]
	return lang, ok
}

// AllLanguages lists every supported language in enum order.
func AllLanguages() []Language {
	out := make([]Language, 0, len(languageNames))
	for l := Unknown + 1; l <= YAML; l++ {
		out = append(out, l)
	}
	return out
}

// verifyTables panics if the name tables are not bijective or a language
// lacks a backend. A failure is a programming error in this package.
func verifyTables() {
	if len(languagesByName) != len(languageNames) {
		panic(fmt.Sprintf("grammar: %d names for %d languages", len(languagesByName), len(languageNames)))
	}
	for _, lang := range AllLanguages() {
		name, ok := languageNames[lang]
		if !ok {
			panic(fmt.Sprintf("grammar: language %d has no name", uint8(lang)))
		}
		if back, ok := languagesByName[name]; !ok || back != lang {
			panic(fmt.Sprintf("grammar: name %q does not map back to %d", name, uint8(lang)))
		}
		if backends[lang] == BackendNone {
			panic(fmt.Sprintf("grammar: language %s has no backend", name))
		}
		if len(defaultAliases[lang]) == 0 {
			panic(fmt.Sprintf("grammar: language %s has no alias", name))
		}
	}
	for lang := range languageNames {
		if lang == Unknown || lang > YAML {
			panic(fmt.Sprintf("grammar: name table holds out-of-range language %d", uint8(lang)))
		}
	}
}
