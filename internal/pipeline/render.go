package pipeline

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/gohugoio/hugo-goldmark-extensions/passthrough"
	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"

	"github.com/alnah/go-mdrender/internal/logging"
)

// Values of the logging.FieldKind key for renderer failures.
const (
	kindMath    = "math"
	kindDiagram = "diagram"
)

const mermaidTag = "mermaid"

// nodeRenderer overrides goldmark's output for the nodes whose markup is
// part of the public HTML contract.
type nodeRenderer struct {
	p *Pipeline
}

func (r *nodeRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindHeading, r.renderHeading)
	reg.Register(ast.KindImage, r.renderImage)
	reg.Register(ast.KindFencedCodeBlock, r.renderCodeBlock)
	reg.Register(ast.KindCodeBlock, r.renderCodeBlock)
	reg.Register(passthrough.KindPassthroughInline, r.renderInlineMath)
	reg.Register(passthrough.KindPassthroughBlock, r.renderDisplayMath)
	reg.Register(east.KindFootnoteLink, r.renderFootnoteLink)
	reg.Register(east.KindFootnoteBacklink, r.renderFootnoteBacklink)
	reg.Register(east.KindFootnote, r.renderFootnote)
	reg.Register(east.KindFootnoteList, r.renderFootnoteList)
	reg.Register(east.KindTaskCheckBox, r.renderTaskCheckBox)
}

func attr(n ast.Node, name string) []byte {
	v, ok := n.AttributeString(name)
	if !ok {
		return nil
	}
	b, _ := v.([]byte)
	return b
}

func (r *nodeRenderer) renderHeading(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.Heading)
	if entering {
		_, _ = fmt.Fprintf(w, `<h%d id="`, n.Level)
		_, _ = w.Write(util.EscapeHTML(attr(n, attrID)))
		_, _ = w.WriteString(`">`)
	} else {
		_, _ = fmt.Fprintf(w, "</h%d>\n", n.Level)
	}
	return ast.WalkContinue, nil
}

func (r *nodeRenderer) renderImage(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.Image)
	_, _ = w.WriteString(`<img src="`)
	_, _ = w.Write(util.EscapeHTML(util.URLEscape(n.Destination, true)))
	_, _ = w.WriteString(`" alt="`)
	_, _ = w.Write(util.EscapeHTML(attr(n, attrAlt)))
	_ = w.WriteByte('"')
	if len(n.Title) > 0 {
		_, _ = w.WriteString(` title="`)
		_, _ = w.Write(util.EscapeHTML(n.Title))
		_ = w.WriteByte('"')
	}
	_, _ = w.WriteString(" />")
	return ast.WalkSkipChildren, nil
}

// fenceTag returns the first whitespace-delimited token of the info string.
func fenceTag(n ast.Node, source []byte) string {
	fenced, ok := n.(*ast.FencedCodeBlock)
	if !ok || fenced.Info == nil {
		return ""
	}
	fields := strings.Fields(string(fenced.Info.Segment.Value(source)))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func codeText(n ast.Node, source []byte) []byte {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(source))
	}
	return buf.Bytes()
}

func (r *nodeRenderer) renderCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	st := stateOf(node)
	if err := st.ctx.Err(); err != nil {
		return ast.WalkStop, err
	}
	tag := fenceTag(node, source)
	code := codeText(node, source)

	if strings.EqualFold(tag, mermaidTag) {
		svg, err := guard(func() (string, error) {
			return r.p.diagrams.Render(st.ctx, string(code))
		})
		if ctxErr := st.ctx.Err(); ctxErr != nil {
			return ast.WalkStop, ctxErr
		}
		if err != nil {
			st.logger.Error("diagram rendering failed",
				logging.FieldKind, kindDiagram,
				logging.FieldError, err)
			_, _ = w.WriteString(`<pre class="mermaid-error"><code>`)
			_, _ = w.Write(util.EscapeHTML(code))
			_, _ = w.WriteString("</code></pre>\n")
			return ast.WalkSkipChildren, nil
		}
		_, _ = w.WriteString(`<div class="mermaid">`)
		_, _ = w.WriteString(svg)
		_, _ = w.WriteString("</div>\n")
		return ast.WalkSkipChildren, nil
	}

	_, _ = w.WriteString("<pre><code")
	if tag != "" {
		_, _ = w.WriteString(` class="language-`)
		_, _ = w.Write(util.EscapeHTML([]byte(tag)))
		_ = w.WriteByte('"')
	}
	_ = w.WriteByte('>')

	if lang, ok := r.p.reg.Lookup(tag); ok {
		// On fallback the highlighter still returns escaped text.
		out, err := r.p.code.HTML(st.ctx, lang, code)
		if err != nil {
			st.logger.Debug("highlight fallback",
				logging.FieldLanguage, lang.String(),
				logging.FieldError, err)
		}
		_, _ = w.WriteString(out)
	} else {
		_, _ = w.Write(util.EscapeHTML(code))
	}
	_, _ = w.WriteString("</code></pre>\n")
	return ast.WalkSkipChildren, nil
}

func (r *nodeRenderer) renderInlineMath(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*passthrough.PassthroughInline)
	tex := mathSource(n.Segment.Value(source), n.Delimiters)
	st := stateOf(n)
	if err := st.ctx.Err(); err != nil {
		return ast.WalkStop, err
	}

	out, err := guard(func() (string, error) {
		return r.p.math.Render(st.ctx, tex, false)
	})
	if ctxErr := st.ctx.Err(); ctxErr != nil {
		return ast.WalkStop, ctxErr
	}
	if err != nil {
		st.logger.Error("math rendering failed",
			logging.FieldKind, kindMath,
			logging.FieldError, err)
		_, _ = w.WriteString(`<code class="math-error">`)
		_, _ = w.Write(util.EscapeHTML([]byte(tex)))
		_, _ = w.WriteString("</code>")
		return ast.WalkSkipChildren, nil
	}
	_, _ = w.WriteString(out)
	return ast.WalkSkipChildren, nil
}

func (r *nodeRenderer) renderDisplayMath(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*passthrough.PassthroughBlock)
	var tex string
	if n.Lines().Len() > 0 {
		seg := n.Lines().At(0)
		tex = mathSource(seg.Value(source), n.Delimiters)
	}
	st := stateOf(n)
	if err := st.ctx.Err(); err != nil {
		return ast.WalkStop, err
	}

	out, err := guard(func() (string, error) {
		return r.p.math.Render(st.ctx, tex, true)
	})
	if ctxErr := st.ctx.Err(); ctxErr != nil {
		return ast.WalkStop, ctxErr
	}
	if err != nil {
		st.logger.Error("math rendering failed",
			logging.FieldKind, kindMath,
			logging.FieldError, err)
		_, _ = w.WriteString(`<pre class="math-error">`)
		_, _ = w.Write(util.EscapeHTML([]byte(tex)))
		_, _ = w.WriteString("</pre>\n")
		return ast.WalkSkipChildren, nil
	}
	_, _ = w.WriteString("<div class=\"math-display\">\n")
	_, _ = w.WriteString(out)
	_, _ = w.WriteString("\n</div>\n")
	return ast.WalkSkipChildren, nil
}

func footnoteLabel(st *state, index int) []byte {
	label, ok := st.footnotes[index]
	if !ok {
		label = strconv.Itoa(index)
	}
	return util.EscapeHTML([]byte(label))
}

func (r *nodeRenderer) renderFootnoteLink(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*east.FootnoteLink)
	label := footnoteLabel(stateOf(n), n.Index)
	_, _ = w.WriteString(`<sup class="footnote-ref"><a href="#fn-`)
	_, _ = w.Write(label)
	_, _ = w.WriteString(`">`)
	_, _ = w.Write(label)
	_, _ = w.WriteString("</a></sup>")
	return ast.WalkContinue, nil
}

// Definitions carry no back references.
func (r *nodeRenderer) renderFootnoteBacklink(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	return ast.WalkContinue, nil
}

func (r *nodeRenderer) renderFootnote(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*east.Footnote)
	if entering {
		_, _ = w.WriteString(`<div class="footnote" id="fn-`)
		_, _ = w.Write(footnoteLabel(stateOf(n), n.Index))
		_, _ = w.WriteString(`">`)
	} else {
		_, _ = w.WriteString("</div>\n")
	}
	return ast.WalkContinue, nil
}

func (r *nodeRenderer) renderFootnoteList(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString("<section class=\"footnotes\">\n")
	} else {
		_, _ = w.WriteString("</section>\n")
	}
	return ast.WalkContinue, nil
}

func (r *nodeRenderer) renderTaskCheckBox(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	if node.(*east.TaskCheckBox).IsChecked {
		_, _ = w.WriteString(`<input type="checkbox" checked disabled /> `)
	} else {
		_, _ = w.WriteString(`<input type="checkbox" disabled /> `)
	}
	return ast.WalkContinue, nil
}
