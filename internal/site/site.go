// Package site builds a static site: it discovers content, renders every
// document in parallel through a renderer pool, executes the page
// templates and writes the output tree with its stylesheets, sitemap and
// feed.
package site

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"path/filepath"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	mdrender "github.com/alnah/go-mdrender"
	"github.com/alnah/go-mdrender/internal/assets"
	"github.com/alnah/go-mdrender/internal/config"
	"github.com/alnah/go-mdrender/internal/content"
	"github.com/alnah/go-mdrender/internal/fileutil"
	"github.com/alnah/go-mdrender/internal/logging"
	"github.com/alnah/go-mdrender/internal/theme"
)

// Sentinel errors for site builds.
var (
	ErrNilConfig  = errors.New("site config is nil")
	ErrRender     = errors.New("document rendering failed")
	ErrTemplate   = errors.New("template execution failed")
	ErrWrite      = errors.New("failed to write output")
	ErrStaticCopy = errors.New("failed to copy static files")
)

// Output files written next to the pages.
const (
	StyleFile   = "style.css"
	HLFile      = "hl.css"
	SitemapFile = "sitemap.xml"
	FeedFile    = "feed.xml"
)

// Builder turns a content directory into a site. It owns a renderer pool
// and must be closed.
type Builder struct {
	cfg      *config.Config
	root     string
	logger   *log.Logger
	resolver *assets.Resolver
	tmpl     *assets.TemplateSet
	pool     *mdrender.RendererPool
	ropts    []mdrender.Option
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger for progress and renderer failures.
func WithLogger(logger *log.Logger) Option {
	return func(b *Builder) {
		b.logger = logger
	}
}

// WithRendererOptions appends renderer options after the ones derived from
// the config, so they take precedence.
func WithRendererOptions(opts ...mdrender.Option) Option {
	return func(b *Builder) {
		b.ropts = append(b.ropts, opts...)
	}
}

// Report summarizes a build.
type Report struct {
	OutputDir   string
	Pages       int
	Sections    int
	StaticFiles int
	Sitemap     bool
	Feed        bool
	Duration    time.Duration
}

// New prepares a builder for the site rooted at root. Relative directories
// in cfg are resolved against root. An assets directory, when present,
// overrides the embedded templates and styles.
func New(cfg *config.Config, root string, opts ...Option) (*Builder, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	b := &Builder{cfg: cfg, root: root}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = logging.Default()
	}

	assetsDir := ""
	if dir := b.path(cfg.Content.AssetsDir); cfg.Content.AssetsDir != "" && fileutil.DirExists(dir) {
		assetsDir = dir
	}
	resolver, err := assets.NewResolver(assetsDir)
	if err != nil {
		return nil, err
	}
	if dir := resolver.SiteDir(); dir != "" {
		b.logger.Debug("asset overrides", logging.FieldPath, dir)
	}
	tmpl, err := assets.LoadTemplateSet(resolver)
	if err != nil {
		return nil, err
	}
	b.resolver = resolver
	b.tmpl = tmpl

	ropts := append(RendererOptions(cfg, b.logger), b.ropts...)
	b.pool = mdrender.NewRendererPool(mdrender.ResolvePoolSize(cfg.Render.Workers), ropts...)
	return b, nil
}

// RendererOptions maps the render and browser sections to renderer options.
func RendererOptions(cfg *config.Config, logger *log.Logger) []mdrender.Option {
	opts := []mdrender.Option{
		mdrender.WithMath(cfg.Render.Math),
		mdrender.WithDiagrams(cfg.Render.Diagrams),
		mdrender.WithKaTeXURL(cfg.Browser.KaTeXURL),
		mdrender.WithMermaidURL(cfg.Browser.MermaidURL),
		mdrender.WithLogger(logger),
	}
	if d := cfg.Render.ParseBudget.Duration; d > 0 {
		opts = append(opts, mdrender.WithParseBudget(d))
	}
	if d := cfg.Browser.Timeout.Duration; d > 0 {
		opts = append(opts, mdrender.WithTimeout(d))
	}

	langs := make([]string, 0, len(cfg.Render.Aliases))
	for lang := range cfg.Render.Aliases {
		langs = append(langs, lang)
	}
	slices.Sort(langs)
	for _, lang := range langs {
		opts = append(opts, mdrender.WithLanguageAlias(lang, cfg.Render.Aliases[lang]...))
	}
	return opts
}

func (b *Builder) path(p string) string {
	if filepath.IsAbs(p) || b.root == "" {
		return p
	}
	return filepath.Join(b.root, p)
}

// Close releases the renderer pool and any browser it started.
func (b *Builder) Close() error {
	return b.pool.Close()
}

// Build renders the whole site. The first rendering error cancels the
// remaining documents.
func (b *Builder) Build(ctx context.Context) (*Report, error) {
	start := time.Now()
	contentDir := b.path(b.cfg.Content.Dir)
	outDir := b.path(b.cfg.Content.OutputDir)

	items, err := content.Discover(contentDir)
	if err != nil {
		return nil, err
	}
	b.logger.Debug("discovered content", logging.FieldPath, contentDir, logging.FieldPages, len(items))

	custom, err := b.customTemplates(items)
	if err != nil {
		return nil, err
	}

	results, err := b.renderAll(ctx, items)
	if err != nil {
		return nil, err
	}

	report := &Report{OutputDir: outDir}
	pages := b.newPages(items, results, contentDir)
	for _, p := range pages {
		tmpl := b.tmpl.Page
		if p.item.Kind == content.KindSection {
			tmpl = b.tmpl.Section
			report.Sections++
		} else {
			report.Pages++
		}
		if name := p.item.Frontmatter.Template; name != "" {
			tmpl = custom[name]
		}
		if err := b.writePage(tmpl, p, outDir); err != nil {
			return nil, err
		}
	}

	if err := b.writeStyles(outDir); err != nil {
		return nil, err
	}

	staticDir := b.path(b.cfg.Content.StaticDir)
	if b.cfg.Content.StaticDir != "" && fileutil.DirExists(staticDir) {
		n, err := fileutil.CopyDir(staticDir, outDir)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStaticCopy, err)
		}
		report.StaticFiles = n
	}

	if b.cfg.Site.BaseURL != "" {
		if err := b.writeSitemap(pages, outDir); err != nil {
			return nil, err
		}
		if err := b.writeFeed(pages, outDir); err != nil {
			return nil, err
		}
		report.Sitemap, report.Feed = true, true
	}

	report.Duration = time.Since(start)
	b.logger.Debug("site built",
		logging.FieldOutput, outDir,
		logging.FieldPages, report.Pages,
		logging.FieldSections, report.Sections,
		logging.FieldDuration, report.Duration)
	return report, nil
}

// renderAll renders every document body, at most pool-size at a time.
// Results keep the order of items.
func (b *Builder) renderAll(ctx context.Context, items []*content.Content) ([]*mdrender.Result, error) {
	results := make([]*mdrender.Result, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.pool.Size())
	for i, item := range items {
		g.Go(func() error {
			r, err := b.pool.Acquire()
			if err != nil {
				return err
			}
			defer b.pool.Release(r)

			res, err := r.Render(gctx, mdrender.Input{Markdown: item.Body})
			switch {
			case errors.Is(err, mdrender.ErrEmptyMarkdown):
				res = &mdrender.Result{}
			case err != nil:
				return fmt.Errorf("%w: %s: %w", ErrRender, item.Path, err)
			}
			results[i] = res
			b.logger.Debug("rendered", logging.FieldPath, item.Path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// customTemplates parses every template named in frontmatter before any
// rendering starts, so a missing template fails fast.
func (b *Builder) customTemplates(items []*content.Content) (map[string]*template.Template, error) {
	out := make(map[string]*template.Template)
	for _, item := range items {
		name := item.Frontmatter.Template
		if name == "" {
			continue
		}
		if _, ok := out[name]; ok {
			continue
		}
		tmpl, err := assets.ParseTemplate(b.resolver, name)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", item.Path, err)
		}
		out[name] = tmpl
	}
	return out, nil
}

func (b *Builder) writeStyles(outDir string) error {
	style, err := b.resolver.Style(assets.BaseStyle)
	if err != nil {
		return err
	}
	if err := b.write(filepath.Join(outDir, StyleFile), []byte(style)); err != nil {
		return err
	}

	hl, err := theme.CSS(b.cfg.Render.Theme)
	if err != nil {
		return err
	}
	return b.write(filepath.Join(outDir, HLFile), []byte(hl))
}

func (b *Builder) write(path string, data []byte) error {
	if err := fileutil.WriteFileAtomic(path, data); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	b.logger.Debug("wrote", logging.FieldOutput, path)
	return nil
}
