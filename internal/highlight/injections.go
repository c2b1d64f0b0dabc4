package highlight

import (
	"cmp"
	"slices"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/alnah/go-mdrender/internal/grammar"
)

// Injection capture names and properties.
const (
	captureContent      = "injection.content"
	captureLanguage     = "injection.language"
	captureFilename     = "injection.filename"
	captureShebang      = "injection.shebang"
	propLanguage        = "injection.language"
	propIncludeChildren = "injection.include-children"
)

// region is a byte range of the parent source handed to another language.
type region struct {
	start, end int
	lang       grammar.Language
}

// injectionRegions runs the injections query and returns the resolved,
// non-overlapping regions in source order. The first match claiming a byte
// wins; unresolved injections produce no region.
func (h *Highlighter) injectionRegions(q *grammar.Query, root *sitter.Node, src []byte) []region {
	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	cursor.Exec(q.Raw(), root)

	var out []region
	for {
		m, ok := cursor.NextMatch()
		if !ok {
			break
		}
		if !q.Satisfied(m, src) {
			continue
		}

		var (
			contents []*sitter.Node
			marker   grammar.Marker
			found    bool
		)
		for _, c := range m.Captures {
			switch q.CaptureName(c.Index) {
			case captureContent:
				contents = append(contents, c.Node)
			case captureLanguage:
				marker, found = grammar.Marker{Kind: grammar.MarkerMatch, Value: grammar.NodeText(c.Node, src)}, true
			case captureFilename:
				if !found {
					marker, found = grammar.Marker{Kind: grammar.MarkerFilename, Value: grammar.NodeText(c.Node, src)}, true
				}
			case captureShebang:
				if !found {
					marker, found = grammar.Marker{Kind: grammar.MarkerShebang, Value: grammar.NodeText(c.Node, src)}, true
				}
			}
		}
		if !found {
			name, ok := q.Property(m.PatternIndex, propLanguage)
			if !ok {
				continue
			}
			marker = grammar.Marker{Kind: grammar.MarkerName, Value: name}
		}
		lang, ok := h.reg.ResolveInjection(marker)
		if !ok {
			continue
		}
		_, includeChildren := q.Property(m.PatternIndex, propIncludeChildren)

		for _, n := range contents {
			for _, sp := range contentSpans(n, includeChildren) {
				if sp.start >= sp.end || overlaps(out, sp) {
					continue
				}
				out = append(out, region{start: sp.start, end: sp.end, lang: lang})
			}
		}
	}

	slices.SortFunc(out, func(a, b region) int { return cmp.Compare(a.start, b.start) })
	return out
}

// contentSpans returns the byte ranges of n handed to the injected
// language. Without include-children the named children are cut out.
func contentSpans(n *sitter.Node, includeChildren bool) []span {
	start, end := int(n.StartByte()), int(n.EndByte())
	if includeChildren || n.NamedChildCount() == 0 {
		return []span{{start, end}}
	}

	var out []span
	cursor := start
	for i := range int(n.NamedChildCount()) {
		child := n.NamedChild(i)
		if child == nil {
			continue
		}
		if cs := int(child.StartByte()); cs > cursor {
			out = append(out, span{cursor, cs})
		}
		cursor = max(cursor, int(child.EndByte()))
	}
	if cursor < end {
		out = append(out, span{cursor, end})
	}
	return out
}

func overlaps(regions []region, sp span) bool {
	for _, r := range regions {
		if sp.start < r.end && r.start < sp.end {
			return true
		}
	}
	return false
}
