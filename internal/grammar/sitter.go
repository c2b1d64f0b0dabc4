package grammar

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/bash"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/css"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/html"
	"github.com/smacker/go-tree-sitter/javascript"
	mdblock "github.com/smacker/go-tree-sitter/markdown/tree-sitter-markdown"
	mdinline "github.com/smacker/go-tree-sitter/markdown/tree-sitter-markdown-inline"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/toml"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
	"github.com/smacker/go-tree-sitter/yaml"
	tsjson "github.com/tree-sitter/tree-sitter-json/bindings/go"
)

// sitterLanguages returns the compiled grammar for each tree-sitter language.
var sitterLanguages = map[Language]func() *sitter.Language{
	Bash:           bash.GetLanguage,
	C:              c.GetLanguage,
	CSS:            css.GetLanguage,
	Go:             golang.GetLanguage,
	HTML:           html.GetLanguage,
	JavaScript:     javascript.GetLanguage,
	JSON:           func() *sitter.Language { return sitter.NewLanguage(tsjson.Language()) },
	Markdown:       mdblock.GetLanguage,
	MarkdownInline: mdinline.GetLanguage,
	Python:         python.GetLanguage,
	Rust:           rust.GetLanguage,
	TOML:           toml.GetLanguage,
	TypeScript:     typescript.GetLanguage,
	TSX:            tsx.GetLanguage,
	YAML:           yaml.GetLanguage,
}

// querySources lists, in priority order, the query directories combined for
// a language. Earlier patterns win on identical ranges, so the most specific
// directory comes first. Languages not listed use their canonical name.
var querySources = map[Language][]string{
	JavaScript: {"javascript", "jsx", "ecma"},
	TypeScript: {"typescript", "ecma"},
	TSX:        {"typescript", "jsx", "ecma"},
}

func queryDirs(lang Language) []string {
	if dirs, ok := querySources[lang]; ok {
		return dirs
	}
	return []string{lang.String()}
}
