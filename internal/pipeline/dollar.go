package pipeline

import (
	"bytes"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// dollarParser keeps prices out of inline math. A single "$" only opens
// math when a non-space follows it, and the closing "$" must follow a
// non-space and must not precede a digit. Otherwise the "$" is consumed as
// text and the passthrough parser never sees it. "$$" is left alone.
type dollarParser struct{}

func (dollarParser) Trigger() []byte {
	return []byte{'$'}
}

func (dollarParser) Parse(_ ast.Node, block text.Reader, _ parser.Context) ast.Node {
	line, seg := block.PeekLine()
	if len(line) > 1 && line[1] == '$' {
		return nil
	}
	if opensMath(block) {
		return nil
	}
	block.Advance(1)
	return ast.NewTextSegment(seg.WithStop(seg.Start + 1))
}

// opensMath reports whether the "$" at the reader position starts a math
// span. The reader position is left unchanged.
func opensMath(block text.Reader) bool {
	line, _ := block.PeekLine()
	if len(line) < 2 || util.IsSpace(line[1]) {
		return false
	}

	l, pos := block.Position()
	defer block.SetPosition(l, pos)
	block.Advance(1)

	for {
		line, _ := block.PeekLine()
		if line == nil {
			// No closer: passthrough writes the opener back as text.
			return true
		}
		i := bytes.IndexByte(line, '$')
		if i < 0 {
			block.AdvanceLine()
			continue
		}
		// A closer at the start of a line follows a line break.
		if i == 0 || util.IsSpace(line[i-1]) {
			return false
		}
		return i+1 >= len(line) || !isDigit(line[i+1])
	}
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}
