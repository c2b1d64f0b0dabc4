// Package highlight turns source code into a well-nested stream of
// categorised span events using the grammars of the grammar registry, and
// renders that stream as HTML.
package highlight

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alecthomas/chroma/v2"
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/alnah/go-mdrender/internal/grammar"
	"github.com/alnah/go-mdrender/internal/logging"
	"github.com/alnah/go-mdrender/internal/scope"
)

// DefaultParseBudget bounds the time spent parsing one code block,
// injections included.
const DefaultParseBudget = 5 * time.Second

// maxInjectionDepth bounds recursive injections such as markdown inside
// markdown.
const maxInjectionDepth = 8

// Sentinel errors.
var (
	// ErrFallback means the caller should render the code as escaped text.
	ErrFallback = errors.New("highlight unavailable")

	errNilTree = errors.New("parser returned no tree")
)

// Highlighter produces span events for source code. It holds no per-call
// state and is safe for concurrent use.
type Highlighter struct {
	reg    *grammar.Registry
	budget time.Duration
}

// Option configures a Highlighter.
type Option func(*Highlighter)

// WithParseBudget sets the parse time limit per Highlight call.
// Panics if d <= 0.
func WithParseBudget(d time.Duration) Option {
	if d <= 0 {
		panic("highlight: WithParseBudget duration must be positive")
	}
	return func(h *Highlighter) {
		h.budget = d
	}
}

// New creates a Highlighter backed by reg.
func New(reg *grammar.Registry, opts ...Option) *Highlighter {
	h := &Highlighter{reg: reg, budget: DefaultParseBudget}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Registry returns the registry the highlighter resolves languages with.
func (h *Highlighter) Registry() *grammar.Registry {
	return h.reg
}

// Highlight returns the event stream for src. Every failure, including an
// unknown language or an exhausted parse budget, is reported as an error
// wrapping ErrFallback.
func (h *Highlighter) Highlight(ctx context.Context, lang grammar.Language, src []byte) ([]Event, error) {
	cfg, err := h.reg.LoadErr(lang)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFallback, err)
	}

	ctx, cancel := context.WithTimeout(ctx, h.budget)
	defer cancel()

	c := &collector{h: h}
	ivs, err := c.collect(ctx, cfg, src, 0)
	if err != nil {
		logging.FromContext(ctx).Debug("highlight fallback",
			logging.FieldLanguage, lang.String(),
			logging.FieldError, err)
		return nil, fmt.Errorf("%w: %s: %w", ErrFallback, lang, err)
	}
	return nest(ivs, len(src)), nil
}

// collector numbers intervals across one Highlight call so that ties keep
// collection order through nesting.
type collector struct {
	h     *Highlighter
	order int
}

func (c *collector) add(ivs []interval, start, end int, cat scope.Category) []interval {
	c.order++
	return append(ivs, interval{start: start, end: end, cat: cat, order: c.order})
}

func (c *collector) collect(ctx context.Context, cfg *grammar.Config, src []byte, depth int) ([]interval, error) {
	switch cfg.Backend {
	case grammar.BackendChroma:
		return c.collectChroma(cfg.Lexer, src)
	case grammar.BackendTreeSitter:
		return c.collectSitter(ctx, cfg, src, depth)
	default:
		return nil, fmt.Errorf("%w: %s", grammar.ErrUnknownLanguage, cfg.Language)
	}
}

func (c *collector) collectChroma(lexer chroma.Lexer, src []byte) ([]interval, error) {
	it, err := lexer.Tokenise(&chroma.TokeniseOptions{State: "root"}, string(src))
	if err != nil {
		return nil, fmt.Errorf("tokenise: %w", err)
	}

	var ivs []interval
	offset := 0
	for _, tok := range it.Tokens() {
		start := offset
		offset += len(tok.Value)
		cat, ok := grammar.TokenCategory(tok.Type)
		if !ok {
			continue
		}
		ivs = c.add(ivs, start, min(offset, len(src)), cat)
	}
	return ivs, nil
}

func (c *collector) collectSitter(ctx context.Context, cfg *grammar.Config, src []byte, depth int) ([]interval, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(cfg.Sitter)

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if tree == nil {
		return nil, errNilTree
	}
	defer tree.Close()
	root := tree.RootNode()

	var regions []region
	if cfg.Injections != nil && depth < maxInjectionDepth {
		regions = c.h.injectionRegions(cfg.Injections, root, src)
	}

	locals := localCategories(cfg.Locals, root, src)
	ivs := c.collectCaptures(cfg.Highlights, root, src, locals)

	for _, r := range regions {
		child, ok := c.h.reg.Load(r.lang)
		if !ok {
			continue
		}
		childIvs, err := c.collect(ctx, child, src[r.start:r.end], depth+1)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			// The region keeps the parent's highlights.
			continue
		}
		ivs = claim(ivs, r.start, r.end)
		for _, iv := range childIvs {
			iv.start += r.start
			iv.end += r.start
			ivs = append(ivs, iv)
		}
	}
	return ivs, nil
}

// collectCaptures runs the highlights query. The first capture on an
// identical byte range wins, which gives earlier patterns priority.
func (c *collector) collectCaptures(q *grammar.Query, root *sitter.Node, src []byte, locals map[span]scope.Category) []interval {
	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	cursor.Exec(q.Raw(), root)

	seen := make(map[span]bool)
	var ivs []interval
	for {
		m, idx, ok := cursor.NextCapture()
		if !ok {
			break
		}
		if int(idx) >= len(m.Captures) || !q.Satisfied(m, src) {
			continue
		}
		capt := m.Captures[idx]
		cat, ok := q.Category(capt.Index)
		if !ok {
			continue
		}
		sp := span{int(capt.Node.StartByte()), int(capt.Node.EndByte())}
		if seen[sp] {
			continue
		}
		seen[sp] = true
		if local, ok := locals[sp]; ok && isVariable(cat) {
			cat = local
		}
		ivs = c.add(ivs, sp.start, sp.end, cat)
	}
	return ivs
}
