package mdrender

import (
	"github.com/alnah/go-mdrender/internal/pipeline"
)

// TOC level defaults.
const (
	DefaultTOCMinLevel = 2
	DefaultTOCMaxLevel = 3
)

// Input contains rendering parameters.
type Input struct {
	Markdown  string // Markdown body, frontmatter already removed (required)
	SourceDir string // Directory of the source file; relative links become file:// URLs (optional)
}

// Anchor is a heading of level 2 or deeper: its id, plain text and level.
type Anchor = pipeline.Anchor

// Result is a rendered HTML fragment plus its anchors in document order.
type Result struct {
	HTML    string
	Anchors []Anchor
}

// TOC renders the anchors between minLevel and maxLevel as a nested list.
// Zero values select DefaultTOCMinLevel and DefaultTOCMaxLevel.
func (r *Result) TOC(minLevel, maxLevel int) string {
	if minLevel == 0 {
		minLevel = DefaultTOCMinLevel
	}
	if maxLevel == 0 {
		maxLevel = DefaultTOCMaxLevel
	}
	return pipeline.BuildTOC(r.Anchors, minLevel, maxLevel)
}

// LanguageStatus describes one highlight language.
type LanguageStatus struct {
	Name     string
	Backend  string   // "tree-sitter" or "chroma"
	Aliases  []string // fence tags, sorted
	Internal bool     // reachable only through injections
	Loaded   bool
	Err      error // load failure when !Loaded
}
