package highlight

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/alnah/go-mdrender/internal/grammar"
	"github.com/alnah/go-mdrender/internal/scope"
)

type span struct {
	start, end int
}

// localScope holds the definitions made inside one @local.scope.
type localScope struct {
	end  int
	defs map[string]scope.Category
}

// localCategories runs the locals query and returns, per node range, the
// category of the definition a local resolves to. Definitions win over
// references on the same node.
func localCategories(q *grammar.Query, root *sitter.Node, src []byte) map[span]scope.Category {
	if q == nil {
		return nil
	}

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	cursor.Exec(q.Raw(), root)

	out := make(map[span]scope.Category)
	defined := make(map[span]bool)
	stack := []localScope{{end: len(src) + 1, defs: map[string]scope.Category{}}}

	for {
		m, idx, ok := cursor.NextCapture()
		if !ok {
			break
		}
		if int(idx) >= len(m.Captures) || !q.Satisfied(m, src) {
			continue
		}
		capt := m.Captures[idx]
		sp := span{int(capt.Node.StartByte()), int(capt.Node.EndByte())}

		for len(stack) > 1 && stack[len(stack)-1].end <= sp.start {
			stack = stack[:len(stack)-1]
		}

		switch {
		case q.IsLocalScope(capt.Index):
			stack = append(stack, localScope{end: sp.end, defs: map[string]scope.Category{}})

		case q.IsLocalReference(capt.Index):
			if defined[sp] {
				continue
			}
			name := grammar.NodeText(capt.Node, src)
			for i := len(stack) - 1; i >= 0; i-- {
				if cat, ok := stack[i].defs[name]; ok {
					out[sp] = cat
					break
				}
			}

		default:
			cat, ok := q.LocalDefinition(capt.Index)
			if !ok {
				continue
			}
			stack[len(stack)-1].defs[grammar.NodeText(capt.Node, src)] = cat
			out[sp] = cat
			defined[sp] = true
		}
	}
	return out
}

// isVariable reports whether cat is the plain variable family that a local
// definition may refine.
func isVariable(cat scope.Category) bool {
	name := cat.Name()
	return name == "variable" || strings.HasPrefix(name, "variable.")
}
