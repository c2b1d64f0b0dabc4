package site

import (
	"bytes"
	"cmp"
	"fmt"
	"html/template"
	"path/filepath"
	"strings"
	"time"

	mdrender "github.com/alnah/go-mdrender"
	"github.com/alnah/go-mdrender/internal/content"
	"github.com/alnah/go-mdrender/internal/dateutil"
	"github.com/alnah/go-mdrender/internal/mathtex"
	"github.com/alnah/go-mdrender/internal/mermaid"
)

// SiteData is the site-wide part of every template's data.
type SiteData struct {
	Title    string
	Author   string
	BaseURL  string
	Language string
}

// KaTeXLinks are the stylesheet and, for client-side math, the scripts a
// page with math needs.
type KaTeXLinks struct {
	Style      string
	Script     string
	AutoRender string
}

// PageLink is a listing entry on a section page.
type PageLink struct {
	Title       string
	Description string
	Date        string
	DateISO     string
	URL         string
}

// PageData is passed to the page and section templates.
type PageData struct {
	Site        SiteData
	Nav         []content.NavItem
	Title       string
	Description string
	Date        string
	DateISO     string
	Tags        []string
	URL         string // relative to the site root
	Root        string // relative prefix from the page back to the site root
	Body        template.HTML
	TOC         template.HTML
	Anchors     []mdrender.Anchor
	KaTeX       *KaTeXLinks
	Mermaid     string
	Pages       []PageLink // section pages only
}

// page pairs a document with its render result and template data.
type page struct {
	item *content.Content
	res  *mdrender.Result
	data PageData
}

func (b *Builder) newPages(items []*content.Content, results []*mdrender.Result, contentDir string) []*page {
	nav := content.Nav(items, contentDir)
	site := SiteData{
		Title:    b.cfg.Site.Title,
		Author:   b.cfg.Site.Author,
		BaseURL:  b.cfg.Site.BaseURL,
		Language: b.cfg.Site.Language,
	}

	pages := make([]*page, len(items))
	for i, item := range items {
		res := results[i]
		url := item.URL(contentDir)
		date, iso := b.formatDate(item.Date())
		pages[i] = &page{
			item: item,
			res:  res,
			data: PageData{
				Site:        site,
				Nav:         nav,
				Title:       item.Frontmatter.Title,
				Description: item.Frontmatter.Description,
				Date:        date,
				DateISO:     iso,
				Tags:        item.Frontmatter.AllTags(),
				URL:         url,
				Root:        strings.Repeat("../", strings.Count(url, "/")),
				Body:        template.HTML(res.HTML),                                                      // #nosec G203 -- rendered by the pipeline
				TOC:         template.HTML(res.TOC(b.cfg.Render.TOC.MinLevel, b.cfg.Render.TOC.MaxLevel)), // #nosec G203
				Anchors:     res.Anchors,
				KaTeX:       b.katexLinks(res.HTML),
				Mermaid:     b.mermaidScript(res.HTML),
			},
		}
	}

	for _, p := range pages {
		if p.item.Kind == content.KindSection {
			p.data.Pages = sectionLinks(p, pages, contentDir)
		}
	}
	return pages
}

// sectionLinks lists the pages directly inside the section's directory,
// ordered by weight and then newest first.
func sectionLinks(section *page, pages []*page, contentDir string) []PageLink {
	dir := section.item.Section(contentDir)

	var children []*content.Content
	byItem := make(map[*content.Content]*page)
	for _, p := range pages {
		if p.item.Kind == content.KindPage && p.item.Section(contentDir) == dir {
			children = append(children, p.item)
			byItem[p.item] = p
		}
	}
	content.SortByWeight(children)
	content.SortByDate(children)

	links := make([]PageLink, 0, len(children))
	for _, c := range children {
		d := byItem[c].data
		links = append(links, PageLink{
			Title:       d.Title,
			Description: d.Description,
			Date:        d.Date,
			DateISO:     d.DateISO,
			URL:         d.URL,
		})
	}
	return links
}

func (b *Builder) formatDate(t time.Time) (formatted, iso string) {
	if t.IsZero() {
		return "", ""
	}
	formatted, err := dateutil.Format(t, b.cfg.Render.DateFormat)
	if err != nil {
		formatted = t.Format(time.DateOnly)
	}
	return formatted, t.Format(time.DateOnly)
}

// katexLinks returns nil when the body has no math.
func (b *Builder) katexLinks(body string) *KaTeXLinks {
	if !strings.Contains(body, `class="math`) && !strings.Contains(body, `class="katex`) {
		return nil
	}
	script := cmp.Or(b.cfg.Browser.KaTeXURL, mathtex.DefaultKaTeXURL)
	base := script[:strings.LastIndex(script, "/")+1]
	links := &KaTeXLinks{Style: base + "katex.min.css"}
	if mode, _ := mathtex.ParseMode(b.cfg.Render.Math); mode == mathtex.ModeClient {
		links.Script = script
		links.AutoRender = base + "contrib/auto-render.min.js"
	}
	return links
}

// mermaidScript returns the script URL for client-side diagrams, or "".
func (b *Builder) mermaidScript(body string) string {
	if mode, _ := mermaid.ParseMode(b.cfg.Render.Diagrams); mode != mermaid.ModeClient {
		return ""
	}
	if !strings.Contains(body, `class="mermaid"`) {
		return ""
	}
	return cmp.Or(b.cfg.Browser.MermaidURL, mermaid.DefaultMermaidURL)
}

func (b *Builder) writePage(tmpl *template.Template, p *page, outDir string) error {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, p.data); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrTemplate, p.item.Path, err)
	}
	return b.write(filepath.Join(outDir, filepath.FromSlash(p.data.URL)), buf.Bytes())
}
