package mdrender

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/alnah/go-mdrender/internal/browser"
	"github.com/alnah/go-mdrender/internal/highlight"
)

// Option configures a Renderer.
type Option func(*Renderer)

// rendererConfig holds internal configuration for Renderer.
type rendererConfig struct {
	timeout     time.Duration
	parseBudget time.Duration
	mathMode    string
	diagramMode string
	katexURL    string
	mermaidURL  string
	aliases     []languageAlias
	logger      *log.Logger
}

type languageAlias struct {
	language string
	aliases  []string
}

// defaultTimeout bounds each browser evaluation.
const defaultTimeout = browser.DefaultTimeout

// defaultParseBudget bounds each code block parse.
const defaultParseBudget = highlight.DefaultParseBudget

// WithTimeout sets the browser timeout used by server-side math and diagrams.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("mdrender: WithTimeout duration must be positive")
	}
	return func(r *Renderer) {
		r.cfg.timeout = d
	}
}

// WithParseBudget bounds the time spent highlighting one code block.
// Panics if d <= 0.
func WithParseBudget(d time.Duration) Option {
	if d <= 0 {
		panic("mdrender: WithParseBudget duration must be positive")
	}
	return func(r *Renderer) {
		r.cfg.parseBudget = d
	}
}

// WithMath selects the math renderer: "client" (default) leaves typesetting
// to KaTeX in the page, "katex" renders server-side in headless Chrome.
// Unknown modes make NewRenderer fail with ErrUnknownMathMode.
func WithMath(mode string) Option {
	return func(r *Renderer) {
		r.cfg.mathMode = mode
	}
}

// WithDiagrams selects the diagram renderer: "client" (default) or
// "mermaid" for server-side SVG.
func WithDiagrams(mode string) Option {
	return func(r *Renderer) {
		r.cfg.diagramMode = mode
	}
}

// WithKaTeXURL overrides the KaTeX script loaded in katex mode.
func WithKaTeXURL(url string) Option {
	return func(r *Renderer) {
		r.cfg.katexURL = url
	}
}

// WithMermaidURL overrides the Mermaid script loaded in mermaid mode.
func WithMermaidURL(url string) Option {
	return func(r *Renderer) {
		r.cfg.mermaidURL = url
	}
}

// WithLanguageAlias adds fence tags for a language given by canonical name
// ("go", "bash", ...). Later aliases win over earlier ones and over the
// defaults.
func WithLanguageAlias(language string, aliases ...string) Option {
	return func(r *Renderer) {
		r.cfg.aliases = append(r.cfg.aliases, languageAlias{language: language, aliases: aliases})
	}
}

// WithLogger sets the logger for grammar warnings and renderer failures.
// Without it the process-wide default logger is used.
func WithLogger(logger *log.Logger) Option {
	return func(r *Renderer) {
		r.cfg.logger = logger
	}
}
