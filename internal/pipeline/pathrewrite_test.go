package pipeline

// Notes:
// - Tests RewriteRelativePaths and RewriteRelativeURLs through their public API
//   plus the isRelativePath/isRelativeURL helpers
// - Path traversal tests verify the observable behavior (path not rewritten)
//   rather than internal isPathUnderDir implementation
// - Coverage gaps on error branches in parseHTML/renderHTML are acceptable:
//   the html package rarely fails on valid input

import (
	"errors"
	"runtime"
	"strings"
	"testing"
)

// testSourceDir returns a consistent absolute test directory for the OS.
func testSourceDir() string {
	if runtime.GOOS == "windows" {
		return `C:\docs`
	}
	return "/docs"
}

// ---------------------------------------------------------------------------
// TestRewriteRelativePaths - file:// rewriting for local previews
// ---------------------------------------------------------------------------

func TestRewriteRelativePaths(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		html         string
		sourceDir    string
		wantContains []string
		wantExcludes []string
	}{
		{
			name:         "relative image with dot slash",
			html:         `<img src="./images/logo.png">`,
			sourceDir:    testSourceDir(),
			wantContains: []string{`src="file://`, `images/logo.png"`},
		},
		{
			name:         "relative link rewritten",
			html:         `<a href="other.html">Link</a>`,
			sourceDir:    testSourceDir(),
			wantContains: []string{`href="file://`},
		},
		{
			name:         "absolute path unchanged",
			html:         `<img src="/abs/logo.png">`,
			sourceDir:    testSourceDir(),
			wantContains: []string{`src="/abs/logo.png"`},
		},
		{
			name:         "http URL unchanged",
			html:         `<img src="https://example.com/logo.png">`,
			sourceDir:    testSourceDir(),
			wantContains: []string{`src="https://example.com/logo.png"`},
		},
		{
			name:         "mailto unchanged",
			html:         `<a href="mailto:me@example.com">Mail</a>`,
			sourceDir:    testSourceDir(),
			wantContains: []string{`href="mailto:me@example.com"`},
		},
		{
			name:         "anchor unchanged",
			html:         `<a href="#top">Top</a>`,
			sourceDir:    testSourceDir(),
			wantContains: []string{`href="#top"`},
		},
		{
			name:         "empty sourceDir returns unchanged",
			html:         `<img src="./logo.png">`,
			sourceDir:    "",
			wantContains: []string{`src="./logo.png"`},
		},
		{
			name:         "parent directory traversal blocked",
			html:         `<img src="../../../etc/passwd">`,
			sourceDir:    testSourceDir(),
			wantContains: []string{`src="../../../etc/passwd"`},
			wantExcludes: []string{"file://"},
		},
		{
			name:         "path with spaces encoded",
			html:         `<img src="./my images/logo.png">`,
			sourceDir:    testSourceDir(),
			wantContains: []string{`my%20images`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := RewriteRelativePaths(tt.html, tt.sourceDir)
			if err != nil {
				t.Fatalf("RewriteRelativePaths() error = %v", err)
			}

			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("RewriteRelativePaths() = %q, want to contain %q", got, want)
				}
			}

			for _, exclude := range tt.wantExcludes {
				if strings.Contains(got, exclude) {
					t.Errorf("RewriteRelativePaths() = %q, should not contain %q", got, exclude)
				}
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRewriteRelativeURLs - base URL resolution for feeds
// ---------------------------------------------------------------------------

func TestRewriteRelativeURLs(t *testing.T) {
	t.Parallel()

	const base = "https://example.com/blog/post/"

	tests := []struct {
		name         string
		html         string
		baseURL      string
		wantContains []string
		wantExcludes []string
	}{
		{
			name:         "relative image with dot slash",
			html:         `<img src="./images/logo.png">`,
			baseURL:      base,
			wantContains: []string{`src="https://example.com/blog/post/images/logo.png"`},
		},
		{
			name:         "relative image without dot slash",
			html:         `<img src="logo.png">`,
			baseURL:      base,
			wantContains: []string{`src="https://example.com/blog/post/logo.png"`},
		},
		{
			name:         "parent directory resolved",
			html:         `<a href="../other.html">Other</a>`,
			baseURL:      base,
			wantContains: []string{`href="https://example.com/blog/other.html"`},
		},
		{
			name:         "root-relative resolved against host",
			html:         `<img src="/static/logo.png">`,
			baseURL:      base,
			wantContains: []string{`src="https://example.com/static/logo.png"`},
		},
		{
			name:         "base without trailing slash treated as directory",
			html:         `<img src="logo.png">`,
			baseURL:      "https://example.com/docs",
			wantContains: []string{`src="https://example.com/docs/logo.png"`},
		},
		{
			name:         "absolute URL unchanged",
			html:         `<img src="https://cdn.example.org/logo.png">`,
			baseURL:      base,
			wantContains: []string{`src="https://cdn.example.org/logo.png"`},
		},
		{
			name:         "data URI unchanged",
			html:         `<img src="data:image/png;base64,ABC123">`,
			baseURL:      base,
			wantContains: []string{`src="data:image/png;base64,ABC123"`},
		},
		{
			name:         "mailto unchanged",
			html:         `<a href="mailto:me@example.com">Mail</a>`,
			baseURL:      base,
			wantContains: []string{`href="mailto:me@example.com"`},
		},
		{
			name:         "anchor link unchanged",
			html:         `<a href="#section">Link</a>`,
			baseURL:      base,
			wantContains: []string{`href="#section"`},
		},
		{
			name:         "protocol-relative URL unchanged",
			html:         `<img src="//cdn.example.com/logo.png">`,
			baseURL:      base,
			wantContains: []string{`src="//cdn.example.com/logo.png"`},
		},
		{
			name:         "empty baseURL returns unchanged",
			html:         `<img src="./logo.png">`,
			baseURL:      "",
			wantContains: []string{`src="./logo.png"`},
		},
		{
			name:         "script src not rewritten",
			html:         `<script src="./script.js"></script>`,
			baseURL:      base,
			wantContains: []string{`src="./script.js"`},
		},
		{
			name:         "nested elements rewritten",
			html:         `<div><p><img src="nested.png"></p></div>`,
			baseURL:      base,
			wantContains: []string{`src="https://example.com/blog/post/nested.png"`},
		},
		{
			name:         "attributes preserved",
			html:         `<img src="logo.png" alt="Logo" class="logo">`,
			baseURL:      base,
			wantContains: []string{`alt="Logo"`, `class="logo"`, `src="https://`},
		},
		{
			name:         "fragment not wrapped",
			html:         `<p>Hello</p><img src="a.png">`,
			baseURL:      base,
			wantContains: []string{"<p>Hello</p>"},
			wantExcludes: []string{"<html>", "<body>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := RewriteRelativeURLs(tt.html, tt.baseURL)
			if err != nil {
				t.Fatalf("RewriteRelativeURLs() error = %v", err)
			}

			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("RewriteRelativeURLs() = %q, want to contain %q", got, want)
				}
			}

			for _, exclude := range tt.wantExcludes {
				if strings.Contains(got, exclude) {
					t.Errorf("RewriteRelativeURLs() = %q, should not contain %q", got, exclude)
				}
			}
		})
	}
}

func TestRewriteRelativeURLs_FullDocument(t *testing.T) {
	t.Parallel()

	html := `<!DOCTYPE html>
<html>
<head><title>Test</title></head>
<body><img src="./logo.png"></body>
</html>`

	got, err := RewriteRelativeURLs(html, "https://example.com/")
	if err != nil {
		t.Fatalf("RewriteRelativeURLs() error = %v", err)
	}

	// html.Render may lowercase DOCTYPE
	if !strings.Contains(strings.ToLower(got), "doctype") {
		t.Error("Full document should preserve DOCTYPE")
	}
	if !strings.Contains(got, `src="https://example.com/logo.png"`) {
		t.Errorf("Image URL should be rewritten, got %q", got)
	}
}

func TestRewriteRelativeURLs_InvalidBase(t *testing.T) {
	t.Parallel()

	for _, base := range []string{"example.com/blog", "/relative/only", "http://[::1"} {
		t.Run(base, func(t *testing.T) {
			t.Parallel()

			_, err := RewriteRelativeURLs(`<img src="a.png">`, base)
			if !errors.Is(err, ErrInvalidBaseURL) {
				t.Errorf("RewriteRelativeURLs(%q) error = %v, want ErrInvalidBaseURL", base, err)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestIsRelativeURL - Helper Function Tests
// ---------------------------------------------------------------------------

func TestIsRelativeURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value string
		want  bool
	}{
		{"", false},
		{"#top", false},
		{"//cdn.example.com/x.js", false},
		{"https://example.com", false},
		{"HTTP://EXAMPLE.COM", false},
		{"mailto:a@b.c", false},
		{"data:image/png;base64,AA", false},
		{"img.png", true},
		{"./img.png", true},
		{"../img.png", true},
		{"/abs/img.png", true},
		{"page.html#frag", true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Parallel()

			if got := isRelativeURL(tt.value); got != tt.want {
				t.Errorf("isRelativeURL(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}
