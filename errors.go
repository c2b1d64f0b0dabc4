package mdrender

import (
	"errors"

	"github.com/alnah/go-mdrender/internal/browser"
	"github.com/alnah/go-mdrender/internal/grammar"
	"github.com/alnah/go-mdrender/internal/highlight"
	"github.com/alnah/go-mdrender/internal/mathtex"
	"github.com/alnah/go-mdrender/internal/mermaid"
	"github.com/alnah/go-mdrender/internal/pipeline"
)

// Sentinel errors for library operations.
var (
	ErrEmptyMarkdown   = errors.New("markdown content cannot be empty")
	ErrHTMLConversion  = errors.New("HTML conversion failed")
	ErrUnknownLanguage = errors.New("unknown language")

	// Renderer mode validation errors.
	ErrUnknownMathMode    = mathtex.ErrUnknownMode
	ErrUnknownDiagramMode = mermaid.ErrUnknownMode

	// Errors logged while rendering. They never fail a document; they are
	// exported so callers can match log entries and custom renderers.
	ErrFallback       = highlight.ErrFallback
	ErrGrammarLoad    = grammar.ErrGrammarLoad
	ErrInvalidMath    = mathtex.ErrInvalidMath
	ErrDiagramRender  = mermaid.ErrRender
	ErrRendererPanic  = pipeline.ErrRendererPanic
	ErrBrowserConnect = browser.ErrBrowserConnect
)
