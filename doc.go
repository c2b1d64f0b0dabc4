// Package mdrender renders Markdown documents to HTML fragments with
// tree-sitter syntax highlighting, math and diagram support, and a list of
// heading anchors for building navigation.
//
// # Quick Start
//
// Create a renderer, render markdown, and close when done:
//
//	r, err := mdrender.NewRenderer()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
//	result, err := r.Render(ctx, mdrender.Input{
//	    Markdown: "## Hello\n\nWorld",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.HTML)       // fragment, no <html> wrapper
//	fmt.Println(result.TOC(2, 3))  // <nav class="toc"> from result.Anchors
//
// # Rendering Pipeline
//
// Each document goes through these stages:
//
//  1. Line ending normalization
//  2. Parsing via Goldmark (GFM, footnotes, $..$ and $$..$$ math)
//  3. One AST walk that assigns heading ids and collects anchors
//  4. HTML rendering, dispatching fenced code by tag:
//     mermaid to the diagram renderer, registered languages to the
//     highlighter, anything else to escaped text
//
// Highlighted code uses hl-* classes (hl-keyword, hl-string-special, ...).
// The matching stylesheet comes from internal/theme through the CLI's css
// command. Math and diagram failures are rendered as math-error and
// mermaid-error blocks and logged; they never fail a document.
//
// # Configuration
//
// Use functional options to customize the renderer:
//
//	r, err := mdrender.NewRenderer(
//	    mdrender.WithMath("katex"),          // server-side KaTeX (requires Chrome)
//	    mdrender.WithDiagrams("mermaid"),    // server-side SVG (requires Chrome)
//	    mdrender.WithTimeout(time.Minute),
//	    mdrender.WithParseBudget(2*time.Second),
//	    mdrender.WithLanguageAlias("bash", "console"),
//	)
//
// # Parallel Processing
//
// A Renderer is safe for concurrent use. In server-side modes each Renderer
// drives one browser page, so use RendererPool to spread the work:
//
//	pool := mdrender.NewRendererPool(mdrender.ResolvePoolSize(0), mdrender.WithMath("katex"))
//	defer pool.Close()
//
//	r, err := pool.Acquire()
//	if err != nil {
//	    return err
//	}
//	defer pool.Release(r)
//	result, err := r.Render(ctx, input)
//
// # Error Handling
//
// Validation errors use sentinel values that can be checked with errors.Is:
//
//	if errors.Is(err, mdrender.ErrEmptyMarkdown) { ... }
//	if errors.Is(err, mdrender.ErrUnknownMathMode) { ... }
//
// Chrome is located through the ROD_BROWSER_BIN environment variable or
// downloaded on first use; set CI=true to disable its sandbox in containers.
//
// # Command Line
//
// The mdrender command wraps this package. It builds a static site from a
// content directory, prints single documents, outlines and stylesheets:
//
//	mdrender build ./site --base-url https://example.com
//	mdrender render post.md --toc
//	mdrender css --theme monokai > hl.css
//	mdrender doctor
package mdrender
