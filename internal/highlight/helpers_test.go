package highlight

import (
	"testing"

	"github.com/alnah/go-mdrender/internal/grammar"
)

var testRegistry = grammar.NewRegistry()

// assertBalanced fails the test unless events form a well-nested stream
// over a source of n bytes.
func assertBalanced(t *testing.T, events []Event, n int) {
	t.Helper()

	depth, last := 0, 0
	for i, ev := range events {
		if ev.Offset < last {
			t.Fatalf("event %d: offset %d decreases from %d", i, ev.Offset, last)
		}
		if ev.Offset < 0 || ev.Offset > n {
			t.Fatalf("event %d: offset %d outside [0, %d]", i, ev.Offset, n)
		}
		last = ev.Offset
		switch ev.Kind {
		case EventPush:
			if !ev.Category.Valid() {
				t.Fatalf("event %d: invalid category %d", i, ev.Category)
			}
			depth++
		case EventPop:
			depth--
			if depth < 0 {
				t.Fatalf("event %d: pop without matching push", i)
			}
		default:
			t.Fatalf("event %d: invalid kind %v", i, ev.Kind)
		}
	}
	if depth != 0 {
		t.Fatalf("%d spans left open", depth)
	}
}
