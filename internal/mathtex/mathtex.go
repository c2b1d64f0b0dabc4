// Package mathtex renders TeX math for the markdown pipeline, either as
// markup for client-side KaTeX or server-side through a headless browser.
package mathtex

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yuin/goldmark/util"

	"github.com/alnah/go-mdrender/internal/browser"
)

// Sentinel errors.
var (
	ErrInvalidMath = errors.New("invalid math")
	ErrUnknownMode = errors.New("unknown math mode")
)

// DefaultKaTeXURL is the KaTeX build loaded by the server-side renderer.
const DefaultKaTeXURL = "https://cdn.jsdelivr.net/npm/katex@0.16.11/dist/katex.min.js"

// Renderer turns a TeX expression into HTML.
type Renderer interface {
	Render(ctx context.Context, tex string, display bool) (string, error)
}

// Compile-time interface checks.
var (
	_ Renderer = Client{}
	_ Renderer = (*KaTeX)(nil)
)

// Mode selects a renderer implementation.
type Mode string

const (
	ModeClient Mode = "client"
	ModeKaTeX  Mode = "katex"
)

// ParseMode validates a mode name. The empty string selects ModeClient.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeClient:
		return ModeClient, nil
	case ModeKaTeX:
		return ModeKaTeX, nil
	default:
		return "", fmt.Errorf("%w: %q (use client or katex)", ErrUnknownMode, s)
	}
}

// Client emits the expression between KaTeX auto-render delimiters so the
// page typesets it in the browser. It only checks structure.
type Client struct{}

// Render implements Renderer.
func (Client) Render(_ context.Context, tex string, display bool) (string, error) {
	if err := Validate(tex); err != nil {
		return "", err
	}
	escaped := string(util.EscapeHTML([]byte(tex)))
	if display {
		return `<span class="math math-display">\[` + escaped + `\]</span>`, nil
	}
	return `<span class="math math-inline">\(` + escaped + `\)</span>`, nil
}

// KaTeX renders expressions with KaTeX in a browser session.
type KaTeX struct {
	eval browser.Evaluator
}

// NewKaTeX creates a server-side renderer evaluating on eval.
func NewKaTeX(eval browser.Evaluator) *KaTeX {
	return &KaTeX{eval: eval}
}

// KaTeXScripts returns the scripts a session needs for KaTeX. An empty url
// selects DefaultKaTeXURL.
func KaTeXScripts(url string) []browser.Script {
	if url == "" {
		url = DefaultKaTeXURL
	}
	return []browser.Script{{URL: url}}
}

const renderJS = `(tex, display) => katex.renderToString(tex, {
	displayMode: display,
	throwOnError: true,
	output: "html",
})`

// Render implements Renderer. KaTeX parse errors wrap ErrInvalidMath;
// browser failures are returned as they are.
func (k *KaTeX) Render(ctx context.Context, tex string, display bool) (string, error) {
	if strings.TrimSpace(tex) == "" {
		return "", fmt.Errorf("%w: empty expression", ErrInvalidMath)
	}
	out, err := k.eval.Eval(ctx, renderJS, tex, display)
	if err != nil {
		if errors.Is(err, browser.ErrEval) {
			return "", fmt.Errorf("%w: %v", ErrInvalidMath, err)
		}
		return "", err
	}
	return out, nil
}

// Validate checks that tex is non-empty, that its braces balance and that
// every \begin{env} is closed by a matching \end{env}.
func Validate(tex string) error {
	if strings.TrimSpace(tex) == "" {
		return fmt.Errorf("%w: empty expression", ErrInvalidMath)
	}

	depth := 0
	var envs []string
	for i := 0; i < len(tex); i++ {
		switch tex[i] {
		case '\\':
			name, ok := environment(tex[i:], `\begin{`)
			if ok {
				envs = append(envs, name)
				break
			}
			if name, ok = environment(tex[i:], `\end{`); ok {
				if len(envs) == 0 || envs[len(envs)-1] != name {
					return fmt.Errorf("%w: unexpected \\end{%s}", ErrInvalidMath, name)
				}
				envs = envs[:len(envs)-1]
				break
			}
			// Skip the escaped character, such as \{ or \\.
			i++
		case '{':
			depth++
		case '}':
			depth--
			if depth < 0 {
				return fmt.Errorf("%w: unbalanced '}'", ErrInvalidMath)
			}
		}
	}
	if depth != 0 {
		return fmt.Errorf("%w: unbalanced '{'", ErrInvalidMath)
	}
	if len(envs) > 0 {
		return fmt.Errorf("%w: unclosed \\begin{%s}", ErrInvalidMath, envs[len(envs)-1])
	}
	return nil
}

// environment reads the name of a \begin{...} or \end{...} at the start
// of s. Its braces are still counted by the caller's scan.
func environment(s, prefix string) (string, bool) {
	rest, ok := strings.CutPrefix(s, prefix)
	if !ok {
		return "", false
	}
	name, _, ok := strings.Cut(rest, "}")
	if !ok || name == "" {
		return "", false
	}
	return name, true
}
