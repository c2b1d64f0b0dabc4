// Package browser runs JavaScript in a shared headless Chrome through
// go-rod. Renderers that need a JavaScript engine, such as KaTeX and
// Mermaid, open a Session with their scripts and evaluate functions on it.
//
// Chrome is launched lazily on first use. Rod downloads Chromium when no
// browser is found, unless ROD_BROWSER_BIN points at one.
package browser
