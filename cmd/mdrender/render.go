package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xlab/treeprint"

	mdrender "github.com/alnah/go-mdrender"
	"github.com/alnah/go-mdrender/internal/content"
	"github.com/alnah/go-mdrender/internal/fileutil"
	"github.com/alnah/go-mdrender/internal/mathtex"
	"github.com/alnah/go-mdrender/internal/mermaid"
	"github.com/alnah/go-mdrender/internal/site"
	"github.com/alnah/go-mdrender/internal/yamlutil"
)

// Input file errors.
var (
	errReadInput        = errors.New("failed to read markdown file")
	errInvalidExtension = errors.New("file must have .md or .markdown extension")
)

// document is a markdown file with its frontmatter removed.
type document struct {
	path  string
	title string
	body  string
}

// readDocument reads path and strips a leading frontmatter block.
// Files without frontmatter are taken whole.
func readDocument(path string) (*document, error) {
	if !fileutil.HasExtension(path, content.Extensions...) {
		return nil, fmt.Errorf("%w: %s", errInvalidExtension, path)
	}
	data, err := os.ReadFile(path) // #nosec G304 -- path is user-provided
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errReadInput, err)
	}

	doc := &document{path: path, title: filepath.Base(path), body: string(data)}
	if _, _, err := yamlutil.SplitFrontmatter(data); errors.Is(err, yamlutil.ErrMissingFrontmatter) {
		return doc, nil
	}

	// With frontmatter, the same rules as a site build apply.
	c, err := content.Parse(path, data)
	if err != nil {
		return nil, err
	}
	doc.title = c.Frontmatter.Title
	doc.body = c.Body
	return doc, nil
}

// runRender prints the HTML fragment of one markdown file.
func runRender(ctx context.Context, args []string, env *Environment) error {
	f, positional, err := parseRenderFlags(args, env)
	if err != nil {
		return err
	}
	newLogger(&f.common, env)

	path, err := firstArg(positional, "")
	if err != nil {
		return err
	}
	cfg, err := loadConfig(&f.common, &f.render, ".", env)
	if err != nil {
		return err
	}
	doc, err := readDocument(path)
	if err != nil {
		return err
	}

	r, err := mdrender.NewRenderer(site.RendererOptions(cfg, env.Logger)...)
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()

	input := mdrender.Input{Markdown: doc.body}
	if f.fileLinks {
		input.SourceDir = filepath.Dir(path)
	}

	res, err := r.Render(ctx, input)
	if err != nil {
		return err
	}

	if f.toc {
		if toc := res.TOC(cfg.Render.TOC.MinLevel, cfg.Render.TOC.MaxLevel); toc != "" {
			fmt.Fprintln(env.Stdout, toc)
		}
	}
	fmt.Fprint(env.Stdout, res.HTML)
	if !strings.HasSuffix(res.HTML, "\n") {
		fmt.Fprintln(env.Stdout)
	}
	return nil
}

// runOutline prints the heading tree of one markdown file.
func runOutline(ctx context.Context, args []string, env *Environment) error {
	f, positional, err := parseOutlineFlags(args, env)
	if err != nil {
		return err
	}
	newLogger(&f.common, env)

	path, err := firstArg(positional, "")
	if err != nil {
		return err
	}
	cfg, err := loadConfig(&f.common, nil, ".", env)
	if err != nil {
		return err
	}
	doc, err := readDocument(path)
	if err != nil {
		return err
	}

	// Anchors do not depend on how math and diagrams are drawn, so skip
	// the browser.
	cfg.Render.Math = string(mathtex.ModeClient)
	cfg.Render.Diagrams = string(mermaid.ModeClient)
	r, err := mdrender.NewRenderer(site.RendererOptions(cfg, env.Logger)...)
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()

	res, err := r.Render(ctx, mdrender.Input{Markdown: doc.body})
	if err != nil {
		return err
	}

	fmt.Fprint(env.Stdout, outlineTree(doc.title, res.Anchors, f.minLevel, f.maxLevel).String())
	return nil
}

// outlineTree nests anchors under the nearest shallower heading. A heading
// that skips levels hangs off the closest ancestor that exists.
func outlineTree(title string, anchors []mdrender.Anchor, minLevel, maxLevel int) treeprint.Tree {
	root := treeprint.NewWithRoot(title)

	type open struct {
		level  int
		branch treeprint.Tree
	}
	var stack []open
	for _, a := range anchors {
		if a.Level < minLevel || a.Level > maxLevel {
			continue
		}
		for len(stack) > 0 && stack[len(stack)-1].level >= a.Level {
			stack = stack[:len(stack)-1]
		}
		parent := root
		if len(stack) > 0 {
			parent = stack[len(stack)-1].branch
		}
		branch := parent.AddBranch(fmt.Sprintf("%s #%s", a.Text, a.ID))
		stack = append(stack, open{level: a.Level, branch: branch})
	}
	return root
}
