package pipeline

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync/atomic"
	"testing"

	"golang.org/x/net/html"

	"github.com/alnah/go-mdrender/internal/grammar"
)

// testRegistry is shared: registries are immutable and grammars compile once.
var testRegistry = grammar.NewRegistry()

var errStub = errors.New("stub failure")

// stubMath returns out, fails with err, or panics with panicV.
type stubMath struct {
	out    string
	err    error
	panicV any
}

func (s stubMath) Render(_ context.Context, tex string, display bool) (string, error) {
	if s.panicV != nil {
		panic(s.panicV)
	}
	if s.err != nil {
		return "", s.err
	}
	return s.out, nil
}

type stubDiagram struct {
	out    string
	err    error
	panicV any
}

func (s stubDiagram) Render(_ context.Context, src string) (string, error) {
	if s.panicV != nil {
		panic(s.panicV)
	}
	if s.err != nil {
		return "", s.err
	}
	return s.out, nil
}

// cancelingMath cancels the render context on its first call.
type cancelingMath struct {
	cancel context.CancelFunc
	calls  atomic.Int32
}

func (m *cancelingMath) Render(_ context.Context, tex string, _ bool) (string, error) {
	m.calls.Add(1)
	m.cancel()
	return tex, nil
}

type countingDiagram struct {
	calls atomic.Int32
}

func (d *countingDiagram) Render(_ context.Context, src string) (string, error) {
	d.calls.Add(1)
	return src, nil
}

// stubHighlighter always falls back, returning the escaped source.
type stubHighlighter struct{}

func (stubHighlighter) HTML(_ context.Context, _ grammar.Language, src []byte) (string, error) {
	return strings.ReplaceAll(string(src), "<", "&lt;"), errStub
}

var voidElements = map[string]bool{
	"area": true, "br": true, "col": true, "embed": true, "hr": true,
	"img": true, "input": true, "link": true, "meta": true, "source": true,
	"track": true, "wbr": true,
}

// assertWellNested walks fragment with the html tokenizer and fails if an
// end tag does not close the innermost open element.
func assertWellNested(t *testing.T, fragment string) {
	t.Helper()

	z := html.NewTokenizer(strings.NewReader(fragment))
	var stack []string
	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); !errors.Is(err, io.EOF) {
				t.Fatalf("tokenizer error: %v", err)
			}
			if len(stack) != 0 {
				t.Errorf("unclosed elements %v in %q", stack, fragment)
			}
			return
		case html.StartTagToken:
			name, _ := z.TagName()
			if tag := string(name); !voidElements[tag] {
				stack = append(stack, tag)
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if len(stack) == 0 || stack[len(stack)-1] != tag {
				t.Errorf("</%s> does not close %v in %q", tag, stack, fragment)
				return
			}
			stack = stack[:len(stack)-1]
		}
	}
}
