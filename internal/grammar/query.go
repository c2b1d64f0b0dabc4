package grammar

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/alnah/go-mdrender/internal/scope"
)

// Sentinel errors for query compilation.
var (
	ErrQueryCompile   = errors.New("query compilation failed")
	ErrQueryPredicate = errors.New("invalid query predicate")
)

// Capture prefixes with meaning beyond a highlight category.
const (
	captureLocalDefinition = "local.definition"
	captureLocalReference  = "local.reference"
	captureLocalScope      = "local.scope"
)

type predicateOp uint8

const (
	opEq predicateOp = iota + 1
	opNotEq
	opMatch
	opNotMatch
	opAnyOf
	opNotAnyOf
)

// predicate is a text predicate compiled once at load time.
type predicate struct {
	op      predicateOp
	capture uint32
	// other is set when the right-hand side of eq?/not-eq? is a capture.
	other    uint32
	hasOther bool
	value    string
	values   []string
	re       *regexp.Regexp
}

type pattern struct {
	predicates []predicate
	props      map[string]string
}

// Query is a tree-sitter query with its predicates precompiled and every
// capture index resolved to an optional highlight category.
type Query struct {
	raw        *sitter.Query
	names      []string
	categories []scope.Category
	resolved   []bool
	localDefs  []scope.Category
	localDefOK []bool
	patterns   []pattern
}

// bareDirective matches a #set!, #is? or #is-not? directive with a single
// argument.
var bareDirective = regexp.MustCompile(`\((#(?:set!|is\?|is-not\?))\s+([^\s()"@;]+)\s*\)`)

// padDirectives gives single-argument directives an empty value. The
// binding rejects them otherwise, while the nvim-treesitter query style
// writes flags such as injection.include-children without one.
func padDirectives(src []byte) []byte {
	return bareDirective.ReplaceAll(src, []byte(`(${1} ${2} "")`))
}

func compileQuery(lang *sitter.Language, src []byte) (*Query, error) {
	raw, err := sitter.NewQuery(padDirectives(src), lang)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQueryCompile, err)
	}

	n := raw.CaptureCount()
	q := &Query{
		raw:        raw,
		names:      make([]string, n),
		categories: make([]scope.Category, n),
		resolved:   make([]bool, n),
		localDefs:  make([]scope.Category, n),
		localDefOK: make([]bool, n),
		patterns:   make([]pattern, raw.PatternCount()),
	}

	for i := range n {
		name := raw.CaptureNameForId(i)
		q.names[i] = name
		if strings.HasPrefix(name, "_") {
			continue
		}
		q.categories[i], q.resolved[i] = scope.Resolve(name)
		if rest, ok := strings.CutPrefix(name, captureLocalDefinition+"."); ok {
			q.localDefs[i], q.localDefOK[i] = scope.Resolve(rest)
		}
	}

	for i := range q.patterns {
		p, err := q.compilePattern(uint32(i))
		if err != nil {
			return nil, fmt.Errorf("pattern %d: %w", i, err)
		}
		q.patterns[i] = p
	}
	return q, nil
}

func (q *Query) compilePattern(index uint32) (pattern, error) {
	var p pattern
	for _, steps := range q.raw.PredicatesForPattern(index) {
		// Each group ends with a Done step.
		if n := len(steps); n > 0 && steps[n-1].Type == sitter.QueryPredicateStepTypeDone {
			steps = steps[:n-1]
		}
		if len(steps) == 0 || steps[0].Type != sitter.QueryPredicateStepTypeString {
			return p, fmt.Errorf("%w: missing operator", ErrQueryPredicate)
		}
		op := q.raw.StringValueForId(steps[0].ValueId)
		args := steps[1:]

		switch op {
		case "set!":
			if p.props == nil {
				p.props = make(map[string]string)
			}
			key := q.raw.StringValueForId(args[0].ValueId)
			value := ""
			if len(args) > 1 {
				value = q.raw.StringValueForId(args[1].ValueId)
			}
			p.props[key] = value

		case "eq?", "not-eq?":
			pred := predicate{op: opEq, capture: args[0].ValueId}
			if op == "not-eq?" {
				pred.op = opNotEq
			}
			if args[1].Type == sitter.QueryPredicateStepTypeCapture {
				pred.other, pred.hasOther = args[1].ValueId, true
			} else {
				pred.value = q.raw.StringValueForId(args[1].ValueId)
			}
			p.predicates = append(p.predicates, pred)

		case "match?", "not-match?":
			expr := q.raw.StringValueForId(args[1].ValueId)
			re, err := regexp.Compile(expr)
			if err != nil {
				return p, fmt.Errorf("%w: #%s %q: %v", ErrQueryPredicate, op, expr, err)
			}
			pred := predicate{op: opMatch, capture: args[0].ValueId, re: re}
			if op == "not-match?" {
				pred.op = opNotMatch
			}
			p.predicates = append(p.predicates, pred)

		case "any-of?", "not-any-of?":
			if len(args) < 2 || args[0].Type != sitter.QueryPredicateStepTypeCapture {
				return p, fmt.Errorf("%w: #%s needs a capture and at least one value", ErrQueryPredicate, op)
			}
			pred := predicate{op: opAnyOf, capture: args[0].ValueId}
			if op == "not-any-of?" {
				pred.op = opNotAnyOf
			}
			for _, a := range args[1:] {
				if a.Type != sitter.QueryPredicateStepTypeString {
					return p, fmt.Errorf("%w: #%s values must be strings", ErrQueryPredicate, op)
				}
				pred.values = append(pred.values, q.raw.StringValueForId(a.ValueId))
			}
			p.predicates = append(p.predicates, pred)
		}
		// Other directives (is?, offset!, ...) are accepted and ignored.
	}
	return p, nil
}

// Raw returns the underlying tree-sitter query.
func (q *Query) Raw() *sitter.Query {
	return q.raw
}

// CaptureName returns the name of capture id.
func (q *Query) CaptureName(id uint32) string {
	if int(id) >= len(q.names) {
		return ""
	}
	return q.names[id]
}

// Category returns the highlight category of capture id, if any.
func (q *Query) Category(id uint32) (scope.Category, bool) {
	if int(id) >= len(q.resolved) {
		return 0, false
	}
	return q.categories[id], q.resolved[id]
}

// LocalDefinition returns the category named by a @local.definition.*
// capture, if id is one.
func (q *Query) LocalDefinition(id uint32) (scope.Category, bool) {
	if int(id) >= len(q.localDefOK) {
		return 0, false
	}
	return q.localDefs[id], q.localDefOK[id]
}

// IsLocalReference reports whether id is a @local.reference capture.
func (q *Query) IsLocalReference(id uint32) bool {
	return q.CaptureName(id) == captureLocalReference
}

// IsLocalScope reports whether id is a @local.scope capture.
func (q *Query) IsLocalScope(id uint32) bool {
	return q.CaptureName(id) == captureLocalScope
}

// Property returns the value of a #set! directive on the pattern.
func (q *Query) Property(patternIndex uint16, key string) (string, bool) {
	if int(patternIndex) >= len(q.patterns) {
		return "", false
	}
	v, ok := q.patterns[patternIndex].props[key]
	return v, ok
}

// Satisfied reports whether every text predicate of the match's pattern holds.
func (q *Query) Satisfied(m *sitter.QueryMatch, src []byte) bool {
	if int(m.PatternIndex) >= len(q.patterns) {
		return true
	}
	for _, pred := range q.patterns[m.PatternIndex].predicates {
		if !pred.holds(m, src) {
			return false
		}
	}
	return true
}

func (p predicate) holds(m *sitter.QueryMatch, src []byte) bool {
	var other string
	if p.hasOther {
		found := false
		for _, c := range m.Captures {
			if c.Index == p.other {
				other, found = NodeText(c.Node, src), true
				break
			}
		}
		if !found {
			return true
		}
	}

	for _, c := range m.Captures {
		if c.Index != p.capture {
			continue
		}
		text := NodeText(c.Node, src)
		var ok bool
		switch p.op {
		case opEq, opNotEq:
			want := p.value
			if p.hasOther {
				want = other
			}
			ok = (text == want) == (p.op == opEq)
		case opMatch, opNotMatch:
			ok = p.re.MatchString(text) == (p.op == opMatch)
		case opAnyOf, opNotAnyOf:
			ok = slices.Contains(p.values, text) == (p.op == opAnyOf)
		default:
			ok = true
		}
		if !ok {
			return false
		}
	}
	return true
}

// NodeText returns the source text of n, clamped to src.
func NodeText(n *sitter.Node, src []byte) string {
	if n == nil {
		return ""
	}
	start, end := int(n.StartByte()), int(n.EndByte())
	if end > len(src) {
		end = len(src)
	}
	if start > end {
		return ""
	}
	return string(src[start:end])
}
