//go:build bench

package highlight

import (
	"context"
	"strings"
	"testing"

	"github.com/alnah/go-mdrender/internal/grammar"
)

// BenchmarkHighlight measures event collection per language and size.
func BenchmarkHighlight(b *testing.B) {
	h := New(testRegistry)
	ctx := context.Background()

	inputs := []struct {
		name string
		lang grammar.Language
		src  string
	}{
		{"go_small", grammar.Go, goFib(1)},
		{"go_large", grammar.Go, goFib(100)},
		{"markdown_injections", grammar.Markdown, strings.Repeat("# Title\n\nSome *text* with `code`.\n\n```go\nfunc main() {}\n```\n", 20)},
		{"nix_chroma", grammar.Nix, strings.Repeat("{ pkgs ? import <nixpkgs> {} }: pkgs.hello\n", 50)},
	}

	for _, input := range inputs {
		src := []byte(input.src)
		b.Run(input.name, func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(src)))
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				if _, err := h.Highlight(ctx, input.lang, src); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkRenderHTML isolates the span renderer from parsing.
func BenchmarkRenderHTML(b *testing.B) {
	h := New(testRegistry)
	src := []byte(goFib(100))
	events, err := h.Highlight(context.Background(), grammar.Go, src)
	if err != nil {
		b.Fatal(err)
	}

	var sb strings.Builder
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sb.Reset()
		if err := RenderHTML(&sb, src, events); err != nil {
			b.Fatal(err)
		}
	}
}

func goFib(n int) string {
	return strings.Repeat(`func fib(n int) int {
	if n < 2 {
		return n
	}
	return fib(n-1) + fib(n-2) // "recursive"
}
`, n)
}
