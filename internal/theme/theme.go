// Package theme builds the hl-* stylesheet from a chroma style.
package theme

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/alnah/go-mdrender/internal/scope"
)

// DefaultTheme is the chroma style used when none is configured.
const DefaultTheme = "github"

// ErrUnknownTheme indicates no chroma style has the requested name.
var ErrUnknownTheme = errors.New("unknown theme")

// categoryTokens maps category names onto the chroma token type whose style
// they borrow. Lookups strip trailing segments like scope.Resolve does.
var categoryTokens = map[string]chroma.TokenType{
	"keyword":                     chroma.Keyword,
	"keyword.control.import":      chroma.KeywordNamespace,
	"keyword.operator":            chroma.OperatorWord,
	"keyword.directive":           chroma.CommentPreproc,
	"keyword.function":            chroma.KeywordDeclaration,
	"keyword.storage":             chroma.KeywordDeclaration,
	"keyword.storage.type":        chroma.KeywordDeclaration,
	"keyword.special":             chroma.KeywordPseudo,
	"function":                    chroma.NameFunction,
	"function.builtin":            chroma.NameBuiltin,
	"function.macro":              chroma.NameFunctionMagic,
	"type":                        chroma.NameClass,
	"type.builtin":                chroma.KeywordType,
	"type.enum.variant":           chroma.NameConstant,
	"constant":                    chroma.NameConstant,
	"constant.builtin":            chroma.KeywordConstant,
	"constant.character":          chroma.LiteralStringChar,
	"constant.character.escape":   chroma.LiteralStringEscape,
	"constant.numeric":            chroma.LiteralNumber,
	"constant.numeric.integer":    chroma.LiteralNumberInteger,
	"constant.numeric.float":      chroma.LiteralNumberFloat,
	"string":                      chroma.LiteralString,
	"string.regexp":               chroma.LiteralStringRegex,
	"string.special":              chroma.LiteralStringOther,
	"string.special.symbol":       chroma.LiteralStringSymbol,
	"variable":                    chroma.NameVariable,
	"variable.builtin":            chroma.NameBuiltinPseudo,
	"variable.other.member":       chroma.NameProperty,
	"comment":                     chroma.Comment,
	"comment.line":                chroma.CommentSingle,
	"comment.block":               chroma.CommentMultiline,
	"comment.block.documentation": chroma.CommentSpecial,
	"comment.line.documentation":  chroma.CommentSpecial,
	"punctuation":                 chroma.Punctuation,
	"punctuation.special":         chroma.LiteralStringInterpol,
	"operator":                    chroma.Operator,
	"attribute":                   chroma.NameDecorator,
	"label":                       chroma.NameLabel,
	"namespace":                   chroma.NameNamespace,
	"constructor":                 chroma.NameClass,
	"special":                     chroma.NameEntity,
	"tag":                         chroma.NameTag,
	"tag.attribute":               chroma.NameAttribute,
	"tag.delimiter":               chroma.Punctuation,
	"markup.bold":                 chroma.GenericStrong,
	"markup.italic":               chroma.GenericEmph,
	"markup.strikethrough":        chroma.GenericDeleted,
	"markup.heading":              chroma.GenericHeading,
	"markup.link.text":            chroma.GenericUnderline,
	"markup.link.url":             chroma.LiteralStringOther,
	"markup.list":                 chroma.Punctuation,
	"markup.quote":                chroma.GenericEmph,
	"markup.raw":                  chroma.LiteralStringBacktick,
}

// tokenFor returns the chroma token type for c.
func tokenFor(c scope.Category) (chroma.TokenType, bool) {
	name := c.Name()
	for name != "" {
		if tt, ok := categoryTokens[name]; ok {
			return tt, true
		}
		i := strings.LastIndexByte(name, '.')
		if i < 0 {
			break
		}
		name = name[:i]
	}
	return chroma.Text, false
}

// Names lists the available themes, sorted.
func Names() []string {
	names := styles.Names()
	sort.Strings(names)
	return names
}

// Lookup returns the chroma style called name.
func Lookup(name string) (*chroma.Style, error) {
	name = strings.TrimSpace(name)
	style, ok := styles.Registry[name]
	if !ok {
		style, ok = styles.Registry[strings.ToLower(name)]
	}
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTheme, name)
	}
	return style, nil
}

// CSS returns the stylesheet for theme name: a base rule for highlighted
// code blocks, then one rule per category the style gives a look.
func CSS(name string) (string, error) {
	style, err := Lookup(name)
	if err != nil {
		return "", err
	}
	return buildCSS(style), nil
}

func buildCSS(style *chroma.Style) string {
	var buf strings.Builder

	base := style.Get(chroma.Background)
	fmt.Fprintf(&buf, "/* Syntax highlighting: %s */\n", style.Name)
	if decls := declarations(base, chroma.StyleEntry{}); len(decls) > 0 {
		fmt.Fprintf(&buf, "pre > code[class^=\"language-\"] {\n  %s;\n}\n", strings.Join(decls, ";\n  "))
	}

	for _, c := range scope.Categories() {
		tt, ok := tokenFor(c)
		if !ok {
			continue
		}
		decls := declarations(style.Get(tt), base)
		if len(decls) == 0 {
			continue
		}
		fmt.Fprintf(&buf, ".%s {\n  %s;\n}\n", c.Class(), strings.Join(decls, ";\n  "))
	}
	return buf.String()
}

// declarations lists the CSS declarations of e, leaving out colours equal
// to base so categories inherit the block colours.
func declarations(e, base chroma.StyleEntry) []string {
	var decls []string
	if e.Colour.IsSet() && e.Colour != base.Colour {
		decls = append(decls, "color: "+e.Colour.String())
	}
	if e.Background.IsSet() && e.Background != base.Background {
		decls = append(decls, "background-color: "+e.Background.String())
	}
	if e.Bold == chroma.Yes {
		decls = append(decls, "font-weight: bold")
	}
	if e.Italic == chroma.Yes {
		decls = append(decls, "font-style: italic")
	}
	if e.Underline == chroma.Yes {
		decls = append(decls, "text-decoration: underline")
	}
	return decls
}
