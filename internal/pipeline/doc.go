// Package pipeline implements the Markdown-to-HTML rendering pipeline.
//
// A single Render call normalizes line endings, parses with goldmark (GFM,
// footnotes and $/$$ math passthrough), runs one AST transform that settles
// heading ids, anchors, image alt text and footnote labels, then renders
// with node renderers that take precedence over goldmark's defaults:
//   - fenced code dispatched by tag to the diagram renderer, the
//     tree-sitter highlighter, or plain escaping
//   - inline and display math through the math renderer
//   - headings, images, footnotes and task-list markers in fixed markup
//
// Math and diagram renderers run behind a recover boundary. Their failures
// become error-styled blocks and log entries, never a failed document.
//
// BuildTOC and RewriteRelativeURLs post-process the output for page
// templates and feeds.
package pipeline
