// Package mermaid renders Mermaid diagrams, either as markup for the
// client-side Mermaid script or as inline SVG produced in a headless
// browser.
package mermaid

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/yuin/goldmark/util"

	"github.com/alnah/go-mdrender/internal/browser"
)

// Sentinel errors.
var (
	ErrRender      = errors.New("diagram rendering failed")
	ErrUnknownMode = errors.New("unknown diagram mode")
)

// DefaultMermaidURL is the Mermaid build loaded by the server-side renderer.
const DefaultMermaidURL = "https://cdn.jsdelivr.net/npm/mermaid@10.9.1/dist/mermaid.min.js"

// Renderer turns diagram source into HTML placed inside
// <div class="mermaid">.
type Renderer interface {
	Render(ctx context.Context, src string) (string, error)
}

// Compile-time interface checks.
var (
	_ Renderer = Client{}
	_ Renderer = (*Server)(nil)
)

// Mode selects a renderer implementation.
type Mode string

const (
	ModeClient  Mode = "client"
	ModeMermaid Mode = "mermaid"
)

// ParseMode validates a mode name. The empty string selects ModeClient.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeClient:
		return ModeClient, nil
	case ModeMermaid:
		return ModeMermaid, nil
	default:
		return "", fmt.Errorf("%w: %q (use client or mermaid)", ErrUnknownMode, s)
	}
}

// diagramTypes are the header keywords Mermaid accepts.
var diagramTypes = map[string]bool{
	"graph":              true,
	"flowchart":          true,
	"sequenceDiagram":    true,
	"classDiagram":       true,
	"classDiagram-v2":    true,
	"stateDiagram":       true,
	"stateDiagram-v2":    true,
	"erDiagram":          true,
	"journey":            true,
	"gantt":              true,
	"pie":                true,
	"gitGraph":           true,
	"mindmap":            true,
	"timeline":           true,
	"quadrantChart":      true,
	"requirementDiagram": true,
	"C4Context":          true,
	"C4Container":        true,
	"C4Component":        true,
	"C4Dynamic":          true,
	"C4Deployment":       true,
	"sankey-beta":        true,
	"xychart-beta":       true,
	"block-beta":         true,
}

// DiagramType returns the header keyword of src, skipping blank lines,
// %% comments and a leading --- frontmatter block.
func DiagramType(src string) (string, error) {
	inFrontmatter := false
	first := true
	for line := range strings.Lines(src) {
		line = strings.TrimSpace(line)
		if first && line == "---" {
			inFrontmatter, first = true, false
			continue
		}
		first = false
		if inFrontmatter {
			if line == "---" {
				inFrontmatter = false
			}
			continue
		}
		if line == "" || strings.HasPrefix(line, "%%") {
			continue
		}
		keyword := strings.Fields(line)[0]
		if !diagramTypes[keyword] {
			return "", fmt.Errorf("%w: unknown diagram type %q", ErrRender, keyword)
		}
		return keyword, nil
	}
	return "", fmt.Errorf("%w: empty diagram", ErrRender)
}

// Client returns the escaped source for the page's Mermaid script, after
// checking the diagram type.
type Client struct{}

// Render implements Renderer.
func (Client) Render(_ context.Context, src string) (string, error) {
	if _, err := DiagramType(src); err != nil {
		return "", err
	}
	return string(util.EscapeHTML([]byte(src))), nil
}

// Server renders diagrams to SVG with Mermaid in a browser session.
type Server struct {
	eval browser.Evaluator
	seq  atomic.Uint64
}

// NewServer creates a server-side renderer evaluating on eval.
func NewServer(eval browser.Evaluator) *Server {
	return &Server{eval: eval}
}

// Init is the session init script for Server.
const Init = `() => mermaid.initialize({ startOnLoad: false, securityLevel: "strict" })`

// Scripts returns the scripts a session needs for Mermaid. An empty url
// selects DefaultMermaidURL.
func Scripts(url string) []browser.Script {
	if url == "" {
		url = DefaultMermaidURL
	}
	return []browser.Script{{URL: url}}
}

const renderJS = `async (src, id) => (await mermaid.render(id, src)).svg`

// Render implements Renderer. Mermaid syntax errors wrap ErrRender;
// browser failures are returned as they are.
func (s *Server) Render(ctx context.Context, src string) (string, error) {
	if _, err := DiagramType(src); err != nil {
		return "", err
	}
	id := fmt.Sprintf("mermaid-%d", s.seq.Add(1))
	svg, err := s.eval.Eval(ctx, renderJS, src, id)
	if err != nil {
		if errors.Is(err, browser.ErrEval) {
			return "", fmt.Errorf("%w: %v", ErrRender, err)
		}
		return "", err
	}
	if !strings.Contains(svg, "<svg") {
		return "", fmt.Errorf("%w: no SVG in output", ErrRender)
	}
	return svg, nil
}
