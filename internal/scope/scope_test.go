package scope

import (
	"strings"
	"testing"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{"exact leaf", "keyword.control.conditional", "keyword.control.conditional", true},
		{"exact root", "comment", "comment", true},
		{"one extra segment", "keyword.control.conditional.extra", "keyword.control.conditional", true},
		{"several extra segments", "string.special.url.path.deep", "string.special", true},
		{"falls back to root", "variable.unknown", "variable", true},
		{"unknown root", "totally.unknown.scope", "", false},
		{"empty", "", "", false},
		{"trailing dot", "keyword.", "keyword", true},
		{"injection capture", "injection.content", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := Resolve(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("Resolve(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && got.Name() != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.input, got.Name(), tt.want)
			}
		})
	}
}

func TestClassFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"keyword.control.conditional", "hl-keyword-control-conditional"},
		{"function.method.call", "hl-function-method"},
		{"markup.link.url", "hl-markup-link-url"},
		{"nope", ""},
	}

	for _, tt := range tests {
		if got := ClassFor(tt.input); got != tt.expected {
			t.Errorf("ClassFor(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

// The class list is part of the stylesheet contract.
func TestCategories_ClassContract(t *testing.T) {
	t.Parallel()

	want := strings.Fields(`
hl-keyword hl-keyword-control hl-keyword-control-conditional hl-keyword-control-repeat
hl-keyword-control-import hl-keyword-control-return hl-keyword-control-exception
hl-keyword-operator hl-keyword-directive hl-keyword-function hl-keyword-return
hl-keyword-storage hl-keyword-storage-type hl-keyword-storage-modifier
hl-keyword-storage-modifier-mut hl-keyword-storage-modifier-ref hl-keyword-special
hl-function hl-function-builtin hl-function-call hl-function-macro hl-function-method
hl-type hl-type-builtin hl-type-parameter hl-type-enum-variant hl-type-enum-variant-builtin
hl-constant hl-constant-builtin hl-constant-builtin-boolean hl-constant-character
hl-constant-character-escape hl-constant-macro hl-constant-numeric
hl-constant-numeric-integer hl-constant-numeric-float
hl-string hl-string-regexp hl-string-special hl-string-special-path hl-string-special-symbol
hl-variable hl-variable-builtin hl-variable-parameter hl-variable-other hl-variable-other-member
hl-comment hl-comment-line hl-comment-block hl-comment-block-documentation
hl-comment-line-documentation hl-comment-unused
hl-punctuation hl-punctuation-bracket hl-punctuation-delimiter hl-punctuation-special
hl-operator hl-attribute hl-label hl-namespace hl-constructor hl-special
hl-tag hl-tag-attribute hl-tag-delimiter
hl-markup-bold hl-markup-italic hl-markup-strikethrough hl-markup-heading
hl-markup-link-text hl-markup-link-url hl-markup-list hl-markup-quote hl-markup-raw
`)

	cats := Categories()
	if len(cats) != len(want) || Count != len(want) {
		t.Fatalf("catalog has %d categories (Count %d), want %d", len(cats), Count, len(want))
	}
	for i, c := range cats {
		if int(c) != i {
			t.Errorf("Categories()[%d] = %d, indices must be dense", i, c)
		}
		if c.Class() != want[i] {
			t.Errorf("Categories()[%d].Class() = %q, want %q", i, c.Class(), want[i])
		}
	}
}

func TestCategory_Invalid(t *testing.T) {
	t.Parallel()

	for _, c := range []Category{-1, Category(Count)} {
		if c.Valid() || c.Name() != "" || c.Class() != "" {
			t.Errorf("Category(%d) should be invalid with empty name and class", c)
		}
	}
}
