package pipeline

import (
	"strings"

	"github.com/gohugoio/hugo-goldmark-extensions/passthrough"
	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// Attributes set by the transformer and read back by the node renderers.
const (
	attrID  = "id"
	attrAlt = "alt"
)

// transformer resolves everything that must be known before a node is
// written: heading ids and anchors, image alt text and footnote labels.
type transformer struct{}

func (t *transformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	st, _ := pc.Get(stateKey).(*state)
	if st == nil {
		return
	}
	src := reader.Source()

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := n.(type) {
		case *ast.Heading:
			label := plainText(n, src)
			id := Slugify(label)
			n.SetAttributeString(attrID, []byte(id))
			if n.Level >= 2 {
				st.anchors = append(st.anchors, Anchor{ID: id, Text: label, Level: n.Level})
			}
		case *ast.Image:
			n.SetAttributeString(attrAlt, []byte(plainText(n, src)))
		case *east.Footnote:
			st.footnotes[n.Index] = string(n.Ref)
		}
		return ast.WalkContinue, nil
	})
}

// plainText concatenates the visible text below n: text, code spans,
// autolink labels and math source without its delimiters.
func plainText(n ast.Node, src []byte) string {
	var b strings.Builder
	writePlainText(&b, n, src)
	return strings.TrimSpace(b.String())
}

func writePlainText(b *strings.Builder, n ast.Node, src []byte) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch c := c.(type) {
		case *ast.Text:
			b.Write(c.Value(src))
			if c.SoftLineBreak() || c.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(c.Value)
		case *ast.AutoLink:
			b.Write(c.Label(src))
		case *ast.RawHTML:
			// markup, not text
		case *passthrough.PassthroughInline:
			b.WriteString(mathSource(c.Segment.Value(src), c.Delimiters))
		default:
			writePlainText(b, c, src)
		}
	}
}

// mathSource strips the delimiters from a passthrough segment.
func mathSource(raw []byte, d *passthrough.Delimiters) string {
	s := string(raw)
	if d != nil {
		s = strings.TrimPrefix(s, d.Open)
		s = strings.TrimSuffix(s, d.Close)
	}
	return strings.TrimSpace(s)
}
