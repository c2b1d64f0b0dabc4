// Package scope maps hierarchical capture names onto the fixed set of
// highlight categories that make up the hl-* CSS class contract.
package scope

import "strings"

// Category is a dense, zero-based index into the catalog.
type Category int

// catalog is ordered. Reordering it changes Category values but not classes.
var catalog = [...]string{
	"keyword",
	"keyword.control",
	"keyword.control.conditional",
	"keyword.control.repeat",
	"keyword.control.import",
	"keyword.control.return",
	"keyword.control.exception",
	"keyword.operator",
	"keyword.directive",
	"keyword.function",
	"keyword.return",
	"keyword.storage",
	"keyword.storage.type",
	"keyword.storage.modifier",
	"keyword.storage.modifier.mut",
	"keyword.storage.modifier.ref",
	"keyword.special",
	"function",
	"function.builtin",
	"function.call",
	"function.macro",
	"function.method",
	"type",
	"type.builtin",
	"type.parameter",
	"type.enum.variant",
	"type.enum.variant.builtin",
	"constant",
	"constant.builtin",
	"constant.builtin.boolean",
	"constant.character",
	"constant.character.escape",
	"constant.macro",
	"constant.numeric",
	"constant.numeric.integer",
	"constant.numeric.float",
	"string",
	"string.regexp",
	"string.special",
	"string.special.path",
	"string.special.symbol",
	"variable",
	"variable.builtin",
	"variable.parameter",
	"variable.other",
	"variable.other.member",
	"comment",
	"comment.line",
	"comment.block",
	"comment.block.documentation",
	"comment.line.documentation",
	"comment.unused",
	"punctuation",
	"punctuation.bracket",
	"punctuation.delimiter",
	"punctuation.special",
	"operator",
	"attribute",
	"label",
	"namespace",
	"constructor",
	"special",
	"tag",
	"tag.attribute",
	"tag.delimiter",
	"markup.bold",
	"markup.italic",
	"markup.strikethrough",
	"markup.heading",
	"markup.link.text",
	"markup.link.url",
	"markup.list",
	"markup.quote",
	"markup.raw",
}

var (
	byName  map[string]Category
	classes [len(catalog)]string
)

func init() {
	byName = make(map[string]Category, len(catalog))
	for i, name := range catalog {
		byName[name] = Category(i)
		classes[i] = "hl-" + strings.ReplaceAll(name, ".", "-")
	}
}

// Count is the number of categories in the catalog.
const Count = len(catalog)

// Resolve maps a capture name to a category. On a miss the last dotted
// segment is stripped and the lookup retried, so "keyword.control.foo"
// resolves to keyword.control. Names with no known prefix report false.
func Resolve(name string) (Category, bool) {
	for name != "" {
		if c, ok := byName[name]; ok {
			return c, true
		}
		i := strings.LastIndexByte(name, '.')
		if i < 0 {
			break
		}
		name = name[:i]
	}
	return 0, false
}

// ClassFor returns the CSS class for name, or "" when it does not resolve.
func ClassFor(name string) string {
	c, ok := Resolve(name)
	if !ok {
		return ""
	}
	return c.Class()
}

// Valid reports whether c indexes the catalog.
func (c Category) Valid() bool {
	return c >= 0 && int(c) < len(catalog)
}

// Name returns the dotted category name.
func (c Category) Name() string {
	if !c.Valid() {
		return ""
	}
	return catalog[c]
}

// Class returns "hl-" followed by the dash-joined name.
func (c Category) Class() string {
	if !c.Valid() {
		return ""
	}
	return classes[c]
}

func (c Category) String() string {
	return c.Name()
}

// Categories lists the catalog in order.
func Categories() []Category {
	out := make([]Category, len(catalog))
	for i := range out {
		out[i] = Category(i)
	}
	return out
}
