package mdrender_test

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/alnah/go-mdrender"
)

// Example demonstrates basic markdown to HTML conversion.
func Example() {
	r, err := mdrender.NewRenderer()
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer r.Close()

	result, err := r.Render(context.Background(), mdrender.Input{
		Markdown: "## Hello, World!\n\nSome *text*.",
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Print(result.HTML)
	// Output:
	// <h2 id="hello-world">Hello, World!</h2>
	// <p>Some <em>text</em>.</p>
}

// Example_anchors lists the headings collected while rendering.
// Level 1 headings get an id but no anchor.
func Example_anchors() {
	r, err := mdrender.NewRenderer()
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer r.Close()

	result, err := r.Render(context.Background(), mdrender.Input{
		Markdown: "# Guide\n\n## Install `mdrender`\n\n### On Linux\n",
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	for _, a := range result.Anchors {
		fmt.Printf("%d %s %q\n", a.Level, a.ID, a.Text)
	}
	// Output:
	// 2 install-mdrender "Install mdrender"
	// 3 on-linux "On Linux"
}

// ExampleResult_TOC builds a table of contents from the anchors.
func ExampleResult_TOC() {
	r, err := mdrender.NewRenderer()
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer r.Close()

	result, err := r.Render(context.Background(), mdrender.Input{
		Markdown: "## Install\n\n### Linux\n\n### macOS\n\n## Usage\n",
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(result.TOC(mdrender.DefaultTOCMinLevel, mdrender.DefaultTOCMaxLevel))
	// Output:
	// <nav class="toc">
	// <ul>
	// <li><a href="#install">Install</a><ul>
	// <li><a href="#linux">Linux</a></li>
	// <li><a href="#macos">macOS</a></li>
	// </ul>
	// </li>
	// <li><a href="#usage">Usage</a></li>
	// </ul>
	// </nav>
}

// ExampleWithLanguageAlias registers an extra fence tag.
func ExampleWithLanguageAlias() {
	r, err := mdrender.NewRenderer(mdrender.WithLanguageAlias("python", "py3"))
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer r.Close()

	result, err := r.Render(context.Background(), mdrender.Input{
		Markdown: "```py3\nprint(1)\n```\n",
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	if strings.Contains(result.HTML, `class="language-py3"`) && strings.Contains(result.HTML, `class="hl-`) {
		fmt.Println("Highlighted")
	}
	// Output: Highlighted
}

// ExampleRendererPool demonstrates parallel rendering with a pool.
func ExampleRendererPool() {
	pool := mdrender.NewRendererPool(mdrender.ResolvePoolSize(2))
	defer pool.Close()

	docs := []string{"## First\n\nOne.", "## Second\n\nTwo."}
	results := make([]*mdrender.Result, len(docs))

	var wg sync.WaitGroup
	for i, doc := range docs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r, err := pool.Acquire()
			if err != nil {
				return
			}
			defer pool.Release(r)

			results[i], _ = r.Render(context.Background(), mdrender.Input{Markdown: doc})
		}()
	}
	wg.Wait()

	n := 0
	for _, res := range results {
		if res != nil {
			n++
		}
	}
	fmt.Printf("Processed %d documents\n", n)
	// Output: Processed 2 documents
}
