package site

import (
	"encoding/xml"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-mdrender/internal/content"
	"github.com/alnah/go-mdrender/internal/pipeline"
)

const (
	sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"
	atomNS    = "http://www.w3.org/2005/Atom"
)

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

type atomFeed struct {
	XMLName xml.Name    `xml:"feed"`
	Xmlns   string      `xml:"xmlns,attr"`
	Title   string      `xml:"title"`
	Links   []atomLink  `xml:"link"`
	ID      string      `xml:"id"`
	Updated string      `xml:"updated"`
	Author  *atomAuthor `xml:"author,omitempty"`
	Entries []atomEntry `xml:"entry"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr,omitempty"`
}

type atomAuthor struct {
	Name string `xml:"name"`
}

type atomText struct {
	Type string `xml:"type,attr,omitempty"`
	Body string `xml:",chardata"`
}

type atomEntry struct {
	Title   string     `xml:"title"`
	Link    atomLink   `xml:"link"`
	ID      string     `xml:"id"`
	Updated string     `xml:"updated"`
	Summary string     `xml:"summary,omitempty"`
	Content *atomText  `xml:"content,omitempty"`
	Tags    []atomTerm `xml:"category"`
}

type atomTerm struct {
	Term string `xml:"term,attr"`
}

// absURL joins the site base URL and a root-relative page URL.
func (b *Builder) absURL(rel string) string {
	return strings.TrimSuffix(b.cfg.Site.BaseURL, "/") + "/" + strings.TrimPrefix(rel, "/")
}

func (b *Builder) writeSitemap(pages []*page, outDir string) error {
	set := urlSet{Xmlns: sitemapNS}
	for _, p := range pages {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:     b.absURL(p.data.URL),
			LastMod: p.data.DateISO,
		})
	}
	data, err := marshalXML(set)
	if err != nil {
		return err
	}
	return b.write(filepath.Join(outDir, SitemapFile), data)
}

// writeFeed writes an Atom feed of dated pages, newest first. Entry bodies
// carry absolute links so they work in feed readers.
func (b *Builder) writeFeed(pages []*page, outDir string) error {
	var dated []*content.Content
	byItem := make(map[*content.Content]*page)
	for _, p := range pages {
		if p.item.Kind == content.KindPage && !p.item.Date().IsZero() {
			dated = append(dated, p.item)
			byItem[p.item] = p
		}
	}
	content.SortByDate(dated)

	base := strings.TrimSuffix(b.cfg.Site.BaseURL, "/")
	feed := atomFeed{
		Xmlns: atomNS,
		Title: b.cfg.Site.Title,
		Links: []atomLink{
			{Href: base + "/", Rel: "alternate"},
			{Href: b.absURL(FeedFile), Rel: "self"},
		},
		ID:      base + "/",
		Updated: time.Unix(0, 0).UTC().Format(time.RFC3339),
	}
	if b.cfg.Site.Author != "" {
		feed.Author = &atomAuthor{Name: b.cfg.Site.Author}
	}
	if len(dated) > 0 {
		feed.Updated = dated[0].Date().UTC().Format(time.RFC3339)
	}

	for _, item := range dated {
		p := byItem[item]
		link := b.absURL(p.data.URL)
		body, err := b.feedBody(p)
		if err != nil {
			return fmt.Errorf("%s: %w", item.Path, err)
		}
		entry := atomEntry{
			Title:   p.data.Title,
			Link:    atomLink{Href: link, Rel: "alternate"},
			ID:      link,
			Updated: item.Date().UTC().Format(time.RFC3339),
			Summary: p.data.Description,
		}
		if body != "" {
			entry.Content = &atomText{Type: "html", Body: body}
		}
		for _, tag := range p.data.Tags {
			entry.Tags = append(entry.Tags, atomTerm{Term: tag})
		}
		feed.Entries = append(feed.Entries, entry)
	}

	data, err := marshalXML(feed)
	if err != nil {
		return err
	}
	return b.write(filepath.Join(outDir, FeedFile), data)
}

// feedBody resolves the page's relative links against its own directory.
func (b *Builder) feedBody(p *page) (string, error) {
	if p.res.HTML == "" {
		return "", nil
	}
	dir := ""
	if d := path.Dir(p.data.URL); d != "." {
		dir = d + "/"
	}
	return pipeline.RewriteRelativeURLs(p.res.HTML, b.absURL(dir))
}

func marshalXML(v any) ([]byte, error) {
	data, err := xml.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWrite, err)
	}
	out := append([]byte(xml.Header), data...)
	return append(out, '\n'), nil
}
