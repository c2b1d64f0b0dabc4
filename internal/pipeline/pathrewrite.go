package pipeline

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrInvalidBaseURL indicates the base URL is not absolute.
var ErrInvalidBaseURL = errors.New("invalid base URL")

// resolver maps a relative img[src] or a[href] value to its replacement.
// It reports false to leave the value as written.
type resolver func(value string) (string, bool)

// RewriteRelativePaths converts relative image and link paths to absolute file:// URLs.
// If sourceDir is empty, returns the HTML unchanged.
//
// Rewrites:
//   - img[src]: relative paths to images
//   - a[href]: relative file paths (not anchors, not URLs)
//
// Paths escaping sourceDir and absolute paths are left alone.
func RewriteRelativePaths(htmlContent, sourceDir string) (string, error) {
	if sourceDir == "" {
		return htmlContent, nil
	}

	// Make sourceDir absolute for consistent path resolution
	absSourceDir, err := filepath.Abs(sourceDir)
	if err != nil {
		return "", err
	}

	return rewrite(htmlContent, func(value string) (string, bool) {
		if !isRelativePath(value) {
			return "", false
		}
		absPath := filepath.Join(absSourceDir, value)
		// Security: validate path is under sourceDir (prevent traversal)
		if !isPathUnderDir(absPath, absSourceDir) {
			return "", false
		}
		return pathToFileURL(absPath), true
	})
}

// RewriteRelativeURLs resolves relative img[src] and a[href] values against
// baseURL, so the HTML stays valid outside the site (feed readers).
// If baseURL is empty, returns the HTML unchanged.
//
// Fragments, absolute URLs and data: or mailto: links are left alone.
func RewriteRelativeURLs(htmlContent, baseURL string) (string, error) {
	if baseURL == "" {
		return htmlContent, nil
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidBaseURL, err)
	}
	if !base.IsAbs() {
		return "", fmt.Errorf("%w: %q has no scheme", ErrInvalidBaseURL, baseURL)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}

	return rewrite(htmlContent, func(value string) (string, bool) {
		if !isRelativeURL(value) {
			return "", false
		}
		ref, err := url.Parse(value)
		if err != nil {
			return "", false
		}
		return base.ResolveReference(ref).String(), true
	})
}

func rewrite(htmlContent string, resolve resolver) (string, error) {
	// Parse HTML - detect if full document or fragment
	doc, isFragment, err := parseHTML(htmlContent)
	if err != nil {
		return "", err
	}

	rewriteNode(doc, resolve)

	// Render back to string
	return renderHTML(doc, isFragment)
}

// parseHTML parses HTML content, handling both full documents and fragments.
// Returns the parsed node, whether it was a fragment, and any error.
func parseHTML(content string) (*html.Node, bool, error) {
	trimmed := strings.TrimSpace(content)

	// Full document: starts with <!DOCTYPE or <html
	if strings.HasPrefix(strings.ToLower(trimmed), "<!doctype") ||
		strings.HasPrefix(strings.ToLower(trimmed), "<html") {
		doc, err := html.Parse(strings.NewReader(content))
		return doc, false, err
	}

	// Fragment: parse with body context to avoid wrapping
	context := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	nodes, err := html.ParseFragment(strings.NewReader(content), context)
	if err != nil {
		return nil, true, err
	}

	// Wrap nodes in a container for uniform traversal
	container := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		container.AppendChild(n)
	}

	return container, true, nil
}

// renderHTML renders the document back to string.
// For fragments, only renders the children (avoids adding <html><body> wrapper).
func renderHTML(doc *html.Node, isFragment bool) (string, error) {
	var buf strings.Builder

	if isFragment {
		// Render each child directly
		for c := doc.FirstChild; c != nil; c = c.NextSibling {
			if err := html.Render(&buf, c); err != nil {
				return "", err
			}
		}
		return buf.String(), nil
	}

	// Full document: render normally
	if err := html.Render(&buf, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// rewriteNode traverses the DOM and rewrites img[src] and a[href].
func rewriteNode(n *html.Node, resolve resolver) {
	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.Img:
			rewriteAttr(n, "src", resolve)
		case atom.A:
			rewriteAttr(n, "href", resolve)
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		rewriteNode(c, resolve)
	}
}

// rewriteAttr rewrites a single attribute when resolve accepts its value.
func rewriteAttr(n *html.Node, attrName string, resolve resolver) {
	for i, attr := range n.Attr {
		if attr.Key != attrName {
			continue
		}
		if val, ok := resolve(attr.Val); ok {
			n.Attr[i].Val = val
		}
	}
}

// isRelativePath returns true if the path should be rewritten.
func isRelativePath(path string) bool {
	if path == "" {
		return false
	}

	// Skip URLs (http, https, file, data, protocol-relative)
	if strings.HasPrefix(path, "http://") ||
		strings.HasPrefix(path, "https://") ||
		strings.HasPrefix(path, "file://") ||
		strings.HasPrefix(path, "data:") ||
		strings.HasPrefix(path, "mailto:") ||
		strings.HasPrefix(path, "//") {
		return false
	}

	// Skip anchors
	if strings.HasPrefix(path, "#") {
		return false
	}

	// Skip absolute paths
	if filepath.IsAbs(path) {
		return false
	}

	return true
}

// isPathUnderDir checks if absPath is under dir (prevents path traversal).
func isPathUnderDir(absPath, dir string) bool {
	cleanPath := filepath.Clean(absPath)
	cleanDir := filepath.Clean(dir)

	// Ensure dir ends with separator for correct prefix matching
	if !strings.HasSuffix(cleanDir, string(filepath.Separator)) {
		cleanDir += string(filepath.Separator)
	}

	// Path is under dir if it starts with dir/ or equals dir
	return strings.HasPrefix(cleanPath+string(filepath.Separator), cleanDir)
}

// pathToFileURL converts an absolute path to a file:// URL.
// Handles both Unix and Windows paths correctly.
func pathToFileURL(absPath string) string {
	// filepath.ToSlash handles Windows backslashes
	u := url.URL{
		Scheme: "file",
		Path:   filepath.ToSlash(absPath),
	}
	return u.String()
}

// isRelativeURL returns true if the value should be resolved.
func isRelativeURL(value string) bool {
	if value == "" {
		return false
	}

	// Skip anchors and protocol-relative URLs
	if strings.HasPrefix(value, "#") || strings.HasPrefix(value, "//") {
		return false
	}

	u, err := url.Parse(value)
	if err != nil {
		return false
	}
	// Skip anything with a scheme (http, https, mailto, data, ...)
	return u.Scheme == ""
}
