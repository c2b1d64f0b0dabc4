package mdrender

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alnah/go-mdrender/internal/logging"
)

func newTestRenderer(t *testing.T, opts ...Option) *Renderer {
	t.Helper()
	r, err := NewRenderer(opts...)
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func TestNewRenderer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opts    []Option
		wantErr error
	}{
		{name: "defaults"},
		{name: "explicit client modes", opts: []Option{WithMath("client"), WithDiagrams("client")}},
		{name: "language alias", opts: []Option{WithLanguageAlias("go", "gocode")}},
		{name: "unknown math mode", opts: []Option{WithMath("mathml")}, wantErr: ErrUnknownMathMode},
		{name: "unknown diagram mode", opts: []Option{WithDiagrams("graphviz")}, wantErr: ErrUnknownDiagramMode},
		{name: "unknown alias language", opts: []Option{WithLanguageAlias("cobol", "cbl")}, wantErr: ErrUnknownLanguage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r, err := NewRenderer(tt.opts...)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("NewRenderer() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewRenderer() error = %v", err)
			}
			defer r.Close()

			if r.browser != nil {
				t.Error("client modes should not create a browser")
			}
		})
	}
}

func TestNewRenderer_ServerModesCreateBrowser(t *testing.T) {
	t.Parallel()

	// The browser is launched lazily, so construction alone needs no Chrome.
	r := newTestRenderer(t, WithMath("katex"), WithDiagrams("mermaid"), WithTimeout(time.Second))
	if r.browser == nil {
		t.Fatal("server-side modes should create a browser")
	}
	if got := r.browser.Timeout(); got != time.Second {
		t.Errorf("browser timeout = %v, want 1s", got)
	}
}

func TestOptionPanics(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		fn   func()
	}{
		{"WithTimeout zero", func() { WithTimeout(0) }},
		{"WithTimeout negative", func() { WithTimeout(-time.Second) }},
		{"WithParseBudget zero", func() { WithParseBudget(0) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			tt.fn()
		})
	}
}

func TestRender(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t, WithLanguageAlias("bash", "console"))

	tests := []struct {
		name         string
		markdown     string
		wantContains []string
		wantNot      []string
	}{
		{
			name:         "heading id",
			markdown:     "## Hello, World!",
			wantContains: []string{`<h2 id="hello-world">Hello, World!</h2>`},
		},
		{
			name:         "highlighted code",
			markdown:     "```go\nfunc main() {}\n```",
			wantContains: []string{`<pre><code class="language-go">`, `class="hl-keyword`},
		},
		{
			name:         "custom alias",
			markdown:     "```console\necho hi\n```",
			wantContains: []string{`class="language-console"`, `class="hl-`},
		},
		{
			name:         "unknown fence tag",
			markdown:     "```brainfuck\n<&>\n```",
			wantContains: []string{`<pre><code class="language-brainfuck">&lt;&amp;&gt;`},
			wantNot:      []string{`hl-`, `&amp;amp;`},
		},
		{
			name:         "client math",
			markdown:     "Euler: $e^{i\\pi}+1=0$",
			wantContains: []string{`<span class="math math-inline">\(e^{i\pi}+1=0\)</span>`},
		},
		{
			name:         "invalid math does not abort",
			markdown:     "Broken: $\\frac{1}{2$",
			wantContains: []string{`<code class="math-error">`},
		},
		{
			name:         "client diagram",
			markdown:     "```mermaid\ngraph TD\nA-->B\n```",
			wantContains: []string{`<div class="mermaid">`, `A--&gt;B`},
		},
		{
			name:         "invalid diagram does not abort",
			markdown:     "```mermaid\nnot a diagram\n```\n\nafter",
			wantContains: []string{`<pre class="mermaid-error">`, `<p>after</p>`},
		},
		{
			name:         "image with title",
			markdown:     `![A *cat*](cat.png "Cat")`,
			wantContains: []string{`<img src="cat.png" alt="A cat" title="Cat" />`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result, err := r.Render(context.Background(), Input{Markdown: tt.markdown})
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			for _, want := range tt.wantContains {
				if !strings.Contains(result.HTML, want) {
					t.Errorf("HTML should contain %q\ngot: %s", want, result.HTML)
				}
			}
			for _, not := range tt.wantNot {
				if strings.Contains(result.HTML, not) {
					t.Errorf("HTML should not contain %q\ngot: %s", not, result.HTML)
				}
			}
		})
	}
}

func TestRender_EmptyMarkdown(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t)
	_, err := r.Render(context.Background(), Input{})
	if !errors.Is(err, ErrEmptyMarkdown) {
		t.Errorf("Render() error = %v, want ErrEmptyMarkdown", err)
	}
}

func TestRender_Anchors(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t)
	result, err := r.Render(context.Background(), Input{
		Markdown: "# Title\n\n## One\n\n### One point one\n\n## Two\n",
	})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	want := []Anchor{
		{ID: "one", Text: "One", Level: 2},
		{ID: "one-point-one", Text: "One point one", Level: 3},
		{ID: "two", Text: "Two", Level: 2},
	}
	if len(result.Anchors) != len(want) {
		t.Fatalf("got %d anchors, want %d: %+v", len(result.Anchors), len(want), result.Anchors)
	}
	for i, a := range result.Anchors {
		if a != want[i] {
			t.Errorf("anchor %d = %+v, want %+v", i, a, want[i])
		}
	}

	toc := result.TOC(0, 0)
	for _, id := range []string{"#one", "#one-point-one", "#two"} {
		if !strings.Contains(toc, `href="`+id+`"`) {
			t.Errorf("TOC should link %s\ngot: %s", id, toc)
		}
	}
	if got := result.TOC(4, 6); got != "" {
		t.Errorf("TOC(4, 6) = %q, want empty", got)
	}
}

func TestRender_SourceDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	r := newTestRenderer(t)

	result, err := r.Render(context.Background(), Input{
		Markdown:  "![logo](images/logo.png)\n\n[site](https://example.com)",
		SourceDir: dir,
	})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(result.HTML, `src="file://`) {
		t.Errorf("relative image should be rewritten to file://\ngot: %s", result.HTML)
	}
	if !strings.Contains(result.HTML, `href="https://example.com"`) {
		t.Errorf("absolute link should be kept\ngot: %s", result.HTML)
	}
}

func TestRender_ContextCancellation(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Render(ctx, Input{Markdown: "# Title"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Render() error = %v, want context.Canceled", err)
	}
	if errors.Is(err, ErrHTMLConversion) {
		t.Error("cancellation should not be reported as a conversion failure")
	}
}

func TestRender_LogsFailures(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := newTestRenderer(t, WithLogger(logging.New(&buf, "debug")))

	_, err := r.Render(context.Background(), Input{Markdown: "```mermaid\nnope\n```"})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"diagram rendering failed", "kind=diagram", "rendered document"} {
		if !strings.Contains(out, want) {
			t.Errorf("log should contain %q\ngot: %s", want, out)
		}
	}
}

func TestLanguages(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t, WithLanguageAlias("go", "gocode"))
	statuses := r.Languages()
	if len(statuses) == 0 {
		t.Fatal("Languages() returned nothing")
	}

	byName := make(map[string]LanguageStatus, len(statuses))
	for _, s := range statuses {
		byName[s.Name] = s
	}

	goStatus, ok := byName["go"]
	if !ok {
		t.Fatal("go missing from Languages()")
	}
	if !goStatus.Loaded || goStatus.Backend != "tree-sitter" {
		t.Errorf("go status = %+v, want loaded tree-sitter", goStatus)
	}
	found := false
	for _, a := range goStatus.Aliases {
		if a == "gocode" {
			found = true
		}
	}
	if !found {
		t.Errorf("go aliases = %v, want gocode included", goStatus.Aliases)
	}

	if nix := byName["nix"]; nix.Backend != "chroma" {
		t.Errorf("nix backend = %q, want chroma", nix.Backend)
	}
	if inline := byName["markdown_inline"]; !inline.Internal {
		t.Error("markdown_inline should be internal")
	}
}

func TestRenderer_CloseWithoutBrowser(t *testing.T) {
	t.Parallel()

	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
