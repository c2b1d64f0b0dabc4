package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/gohugoio/hugo-goldmark-extensions/passthrough"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/alnah/go-mdrender/internal/grammar"
	"github.com/alnah/go-mdrender/internal/highlight"
	"github.com/alnah/go-mdrender/internal/logging"
	"github.com/alnah/go-mdrender/internal/mathtex"
	"github.com/alnah/go-mdrender/internal/mermaid"
)

// ErrRender indicates goldmark failed to write the document.
var ErrRender = errors.New("markdown rendering failed")

// Goldmark priorities. Lower renderer priorities win; transformers run in
// ascending order, so ours runs after the footnote and passthrough ones.
// Inline parsers sharing a trigger are tried in ascending order too, and
// passthrough registers at 201.
const (
	rendererPriority    = 50
	dollarPriority      = 200
	transformerPriority = 1000
)

// CodeHighlighter turns source in a known language into highlighted HTML.
// On error the returned string must still be safe, escaped HTML.
type CodeHighlighter interface {
	HTML(ctx context.Context, lang grammar.Language, src []byte) (string, error)
}

// Anchor is a heading of level 2 or deeper, in document order.
type Anchor struct {
	ID    string
	Text  string
	Level int
}

// Result is the output of one Render call.
type Result struct {
	HTML    string
	Anchors []Anchor
}

// Pipeline renders markdown bodies to HTML fragments. It is safe for
// concurrent use once built.
type Pipeline struct {
	reg      *grammar.Registry
	code     CodeHighlighter
	math     mathtex.Renderer
	diagrams mermaid.Renderer
	md       goldmark.Markdown
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithHighlighter replaces the tree-sitter highlighter.
func WithHighlighter(h CodeHighlighter) Option {
	return func(p *Pipeline) {
		p.code = h
	}
}

// WithMath sets the math renderer used for $..$ and $$..$$.
func WithMath(r mathtex.Renderer) Option {
	return func(p *Pipeline) {
		p.math = r
	}
}

// WithDiagrams sets the renderer used for mermaid fences.
func WithDiagrams(r mermaid.Renderer) Option {
	return func(p *Pipeline) {
		p.diagrams = r
	}
}

// New builds a pipeline around reg. Without options, code is highlighted
// with highlight.New(reg) and math and diagrams are left to client-side
// scripts.
func New(reg *grammar.Registry, opts ...Option) *Pipeline {
	p := &Pipeline{
		reg:      reg,
		math:     mathtex.Client{},
		diagrams: mermaid.Client{},
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.code == nil {
		p.code = highlight.New(reg)
	}

	p.md = goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,      // Tables, strikethrough, autolinks, task lists
			extension.Footnote, // [^1] footnotes
			passthrough.New(passthrough.Config{
				InlineDelimiters: []passthrough.Delimiters{{Open: "$", Close: "$"}},
				BlockDelimiters:  []passthrough.Delimiters{{Open: "$$", Close: "$$"}},
			}),
		),
		goldmark.WithParserOptions(
			parser.WithInlineParsers(util.Prioritized(dollarParser{}, dollarPriority)),
			parser.WithASTTransformers(util.Prioritized(&transformer{}, transformerPriority)),
		),
		goldmark.WithRendererOptions(
			// Authors are trusted, raw HTML passes through.
			html.WithUnsafe(),
			html.WithXHTML(),
			renderer.WithNodeRenderers(util.Prioritized(&nodeRenderer{p: p}, rendererPriority)),
		),
	)
	return p
}

// Render converts one markdown body. Math and diagram failures are rendered
// as error blocks and logged; only writer failures and cancellation return
// an error. Goldmark takes no context, so cancellation is checked between
// parsing and rendering and before every code block and math span.
func (p *Pipeline) Render(ctx context.Context, markdown string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	src := []byte(NormalizeLineEndings(markdown))

	st := &state{
		ctx:       ctx,
		logger:    logging.FromContext(ctx),
		footnotes: make(map[int]string),
	}
	pc := parser.NewContext()
	pc.Set(stateKey, st)

	doc := p.md.Parser().Parse(text.NewReader(src), parser.WithContext(pc))
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	doc.OwnerDocument().SetAttributeString(stateAttr, st)

	var buf bytes.Buffer
	if err := p.md.Renderer().Render(&buf, src, doc); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Result{}, ctxErr
		}
		return Result{}, fmt.Errorf("%w: %v", ErrRender, err)
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	return Result{HTML: buf.String(), Anchors: st.anchors}, nil
}

// stateAttr is the document attribute carrying the per-render state.
const stateAttr = "mdrender-state"

var stateKey = parser.NewContextKey()

// state is created per Render call and shared by the transformer and the
// node renderers through the parser context and the document node.
type state struct {
	ctx       context.Context
	logger    *log.Logger
	anchors   []Anchor
	footnotes map[int]string // footnote index -> original label
}

// stateOf returns the render state of n's document, or a detached state
// when n was rendered outside Pipeline.Render.
func stateOf(n ast.Node) *state {
	if doc := n.OwnerDocument(); doc != nil {
		if v, ok := doc.AttributeString(stateAttr); ok {
			if st, ok := v.(*state); ok {
				return st
			}
		}
	}
	return &state{
		ctx:       context.Background(),
		logger:    logging.Default(),
		footnotes: make(map[int]string),
	}
}
