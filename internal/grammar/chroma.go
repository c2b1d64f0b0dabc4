package grammar

import (
	"github.com/alecthomas/chroma/v2"

	"github.com/alnah/go-mdrender/internal/scope"
)

// tokenScopes maps chroma token types onto capture names. Types absent here
// fall back to their sub-category, then their category.
var tokenScopes = map[chroma.TokenType]string{
	chroma.Keyword:            "keyword",
	chroma.KeywordConstant:    "constant.builtin",
	chroma.KeywordDeclaration: "keyword.storage.type",
	chroma.KeywordNamespace:   "keyword.control.import",
	chroma.KeywordPseudo:      "keyword.special",
	chroma.KeywordReserved:    "keyword",
	chroma.KeywordType:        "type.builtin",

	chroma.Name:              "variable",
	chroma.NameAttribute:     "variable.other.member",
	chroma.NameBuiltin:       "function.builtin",
	chroma.NameBuiltinPseudo: "variable.builtin",
	chroma.NameClass:         "type",
	chroma.NameConstant:      "constant",
	chroma.NameDecorator:     "attribute",
	chroma.NameException:     "type",
	chroma.NameFunction:      "function",
	chroma.NameLabel:         "label",
	chroma.NameNamespace:     "namespace",
	chroma.NameOther:         "variable.other",
	chroma.NameProperty:      "variable.other.member",
	chroma.NameTag:           "tag",
	chroma.NameVariable:      "variable",

	chroma.Literal:               "constant",
	chroma.LiteralDate:           "string.special",
	chroma.LiteralString:         "string",
	chroma.LiteralStringEscape:   "constant.character.escape",
	chroma.LiteralStringRegex:    "string.regexp",
	chroma.LiteralStringSymbol:   "string.special.symbol",
	chroma.LiteralStringInterpol: "punctuation.special",
	chroma.LiteralStringOther:    "string.special.path",
	chroma.LiteralStringChar:     "constant.character",
	chroma.LiteralNumber:         "constant.numeric",
	chroma.LiteralNumberInteger:  "constant.numeric.integer",
	chroma.LiteralNumberFloat:    "constant.numeric.float",

	chroma.Operator:     "operator",
	chroma.OperatorWord: "keyword.operator",
	chroma.Punctuation:  "punctuation",

	chroma.Comment:          "comment",
	chroma.CommentHashbang:  "keyword.directive",
	chroma.CommentMultiline: "comment.block",
	chroma.CommentSingle:    "comment.line",
	chroma.CommentPreproc:   "keyword.directive",
}

// TokenCategory resolves a chroma token type to a highlight category.
// Text, whitespace and error tokens have none.
func TokenCategory(tt chroma.TokenType) (scope.Category, bool) {
	for _, t := range []chroma.TokenType{tt, tt.SubCategory(), tt.Category()} {
		if name, ok := tokenScopes[t]; ok {
			return scope.Resolve(name)
		}
	}
	return 0, false
}
