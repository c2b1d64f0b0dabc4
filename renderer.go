package mdrender

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alnah/go-mdrender/internal/browser"
	"github.com/alnah/go-mdrender/internal/grammar"
	"github.com/alnah/go-mdrender/internal/highlight"
	"github.com/alnah/go-mdrender/internal/logging"
	"github.com/alnah/go-mdrender/internal/mathtex"
	"github.com/alnah/go-mdrender/internal/mermaid"
	"github.com/alnah/go-mdrender/internal/pipeline"
)

// Renderer turns markdown bodies into HTML fragments.
// Create with NewRenderer(), use Render() for each document, and Close() when done.
// A Renderer is safe for concurrent use; server-side math and diagrams are
// serialized on its browser page.
type Renderer struct {
	cfg     rendererConfig
	reg     *grammar.Registry
	browser *browser.Browser // nil unless a server-side mode is selected
	pipe    *pipeline.Pipeline
}

// NewRenderer creates a Renderer. The browser, when a server-side mode
// needs one, is launched on first use.
// Returns error for unknown modes or languages.
func NewRenderer(opts ...Option) (*Renderer, error) {
	r := &Renderer{
		cfg: rendererConfig{
			timeout:     defaultTimeout,
			parseBudget: defaultParseBudget,
		},
	}

	for _, opt := range opts {
		opt(r)
	}

	mathMode, err := mathtex.ParseMode(r.cfg.mathMode)
	if err != nil {
		return nil, err
	}
	diagramMode, err := mermaid.ParseMode(r.cfg.diagramMode)
	if err != nil {
		return nil, err
	}

	var regOpts []grammar.Option
	if r.cfg.logger != nil {
		regOpts = append(regOpts, grammar.WithLogger(r.cfg.logger))
	}
	for _, a := range r.cfg.aliases {
		lang, ok := grammar.ParseLanguage(a.language)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownLanguage, a.language)
		}
		regOpts = append(regOpts, grammar.Register(lang, a.aliases...))
	}
	r.reg = grammar.NewRegistry(regOpts...)

	pipeOpts := []pipeline.Option{
		pipeline.WithHighlighter(highlight.New(r.reg, highlight.WithParseBudget(r.cfg.parseBudget))),
	}

	if mathMode == mathtex.ModeKaTeX || diagramMode == mermaid.ModeMermaid {
		r.browser = browser.New(browser.WithTimeout(r.cfg.timeout))
	}
	if mathMode == mathtex.ModeKaTeX {
		session := r.browser.Session("", mathtex.KaTeXScripts(r.cfg.katexURL)...)
		pipeOpts = append(pipeOpts, pipeline.WithMath(mathtex.NewKaTeX(session)))
	}
	if diagramMode == mermaid.ModeMermaid {
		session := r.browser.Session(mermaid.Init, mermaid.Scripts(r.cfg.mermaidURL)...)
		pipeOpts = append(pipeOpts, pipeline.WithDiagrams(mermaid.NewServer(session)))
	}

	r.pipe = pipeline.New(r.reg, pipeOpts...)
	return r, nil
}

// Render converts one document and returns its HTML fragment and anchors.
// Math, diagram and highlighting failures are rendered in place and logged;
// they do not fail the document.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (r *Renderer) Render(ctx context.Context, input Input) (result *Result, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("internal error: %v", rec)
		}
	}()

	if input.Markdown == "" {
		return nil, ErrEmptyMarkdown
	}

	if r.cfg.logger != nil {
		ctx = logging.WithLogger(ctx, r.cfg.logger)
	}
	start := time.Now()

	res, err := r.pipe.Render(ctx, input.Markdown)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrHTMLConversion, err)
	}

	// Rewrite relative paths to absolute file:// URLs (if source directory provided)
	htmlContent := res.HTML
	if input.SourceDir != "" {
		htmlContent, err = pipeline.RewriteRelativePaths(htmlContent, input.SourceDir)
		if err != nil {
			return nil, fmt.Errorf("rewriting relative paths: %w", err)
		}
	}

	logging.FromContext(ctx).Debug("rendered document",
		logging.FieldSections, len(res.Anchors),
		logging.FieldDuration, time.Since(start))

	return &Result{HTML: htmlContent, Anchors: res.Anchors}, nil
}

// Languages reports every highlight language with its load status,
// compiling grammars that were not used yet.
func (r *Renderer) Languages() []LanguageStatus {
	statuses := r.reg.Languages()
	out := make([]LanguageStatus, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, LanguageStatus{
			Name:     s.Language.String(),
			Backend:  s.Backend.String(),
			Aliases:  s.Aliases,
			Internal: s.Internal,
			Loaded:   s.Loaded,
			Err:      s.Err,
		})
	}
	return out
}

// Close releases resources (headless Chrome browser, if one was started).
func (r *Renderer) Close() error {
	if r.browser != nil {
		return r.browser.Close()
	}
	return nil
}
