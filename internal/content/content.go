// Package content discovers markdown documents under a content directory
// and parses their YAML frontmatter.
package content

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/alnah/go-mdrender/internal/dateutil"
	"github.com/alnah/go-mdrender/internal/yamlutil"
)

// Sentinel errors for content loading.
var (
	ErrContentDirNotFound = errors.New("content directory not found")
	ErrFrontmatter        = errors.New("invalid frontmatter")
	ErrMissingTitle       = errors.New("frontmatter is missing required title")
	ErrContentRead        = errors.New("failed to read content file")
)

const (
	// IndexFile marks a directory as a section; it renders as index.html.
	IndexFile = "_index.md"

	// DefaultWeight orders items that set no weight after weighted ones.
	DefaultWeight = 99
)

// Extensions recognised as markdown documents.
var Extensions = []string{".md", ".markdown"}

// Kind distinguishes regular pages from section indexes.
type Kind int

const (
	KindPage Kind = iota
	KindSection
)

func (k Kind) String() string {
	if k == KindSection {
		return "section"
	}
	return "page"
}

// Taxonomies holds grouped classification terms.
type Taxonomies struct {
	Tags []string `yaml:"tags"`
}

// Frontmatter is the YAML header of a document.
type Frontmatter struct {
	Title       string     `yaml:"title"`
	Description string     `yaml:"description"`
	Date        string     `yaml:"date"`
	Tags        []string   `yaml:"tags"`
	Taxonomies  Taxonomies `yaml:"taxonomies"`
	Weight      *int       `yaml:"weight"`
	Draft       bool       `yaml:"draft"`
	Template    string     `yaml:"template"`
	NavLabel    string     `yaml:"nav_label"`
}

// AllTags merges tags and taxonomies.tags, keeping first occurrences.
func (f *Frontmatter) AllTags() []string {
	var out []string
	for _, tag := range slices.Concat(f.Tags, f.Taxonomies.Tags) {
		tag = strings.TrimSpace(tag)
		if tag != "" && !slices.Contains(out, tag) {
			out = append(out, tag)
		}
	}
	return out
}

// WeightOrDefault returns the weight, or DefaultWeight when unset.
func (f *Frontmatter) WeightOrDefault() int {
	if f.Weight == nil {
		return DefaultWeight
	}
	return *f.Weight
}

// Label is the navigation label, falling back to the title.
func (f *Frontmatter) Label() string {
	if f.NavLabel != "" {
		return f.NavLabel
	}
	return f.Title
}

// Content is one parsed document.
type Content struct {
	Path        string
	Kind        Kind
	Frontmatter Frontmatter
	Body        string

	date time.Time
}

// Date returns the parsed frontmatter date, or the zero time.
func (c *Content) Date() time.Time {
	return c.date
}

// Parse splits data into frontmatter and body. path is used for the kind
// and for error messages.
func Parse(path string, data []byte) (*Content, error) {
	front, body, err := yamlutil.SplitFrontmatter(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFrontmatter, path, err)
	}

	c := &Content{Path: path, Body: string(body)}
	if filepath.Base(path) == IndexFile {
		c.Kind = KindSection
	}

	if len(bytes.TrimSpace(front)) > 0 {
		if err := yamlutil.UnmarshalStrict(front, &c.Frontmatter); err != nil {
			return nil, fmt.Errorf("%w: %s: %s", ErrFrontmatter, path, yamlutil.FormatError(err))
		}
	}
	if strings.TrimSpace(c.Frontmatter.Title) == "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingTitle, path)
	}
	if c.Frontmatter.Date != "" {
		if c.date, err = dateutil.ParseDate(c.Frontmatter.Date); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrFrontmatter, path, err)
		}
	}
	return c, nil
}

// Load reads and parses a single file.
func Load(path string) (*Content, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from a directory walk or the command line
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrContentRead, err)
	}
	return Parse(path, data)
}

// OutputPath maps the document to its output file relative to the output
// directory: a/b.md becomes a/b.html and a/_index.md becomes a/index.html.
func (c *Content) OutputPath(contentRoot string) string {
	rel, err := filepath.Rel(contentRoot, c.Path)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = filepath.Base(c.Path)
	}
	dir := filepath.Dir(rel)
	if c.Kind == KindSection {
		return filepath.Join(dir, "index.html")
	}
	return filepath.Join(dir, c.Slug()+".html")
}

// URL is OutputPath with forward slashes, relative to the site root.
func (c *Content) URL(contentRoot string) string {
	return filepath.ToSlash(c.OutputPath(contentRoot))
}

// Slug is the file name without its extension.
func (c *Content) Slug() string {
	base := filepath.Base(c.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Section returns the directory holding the document relative to the
// content root, "." for top-level documents.
func (c *Content) Section(contentRoot string) string {
	return filepath.Dir(c.OutputPath(contentRoot))
}

// SortByDate orders items newest first. Undated items go last; ties keep
// their order.
func SortByDate(items []*Content) {
	slices.SortStableFunc(items, func(a, b *Content) int {
		switch {
		case a.date.IsZero() && b.date.IsZero():
			return 0
		case a.date.IsZero():
			return 1
		case b.date.IsZero():
			return -1
		}
		return b.date.Compare(a.date)
	})
}

// SortByWeight orders items by ascending weight, then title.
func SortByWeight(items []*Content) {
	slices.SortStableFunc(items, func(a, b *Content) int {
		wa, wb := a.Frontmatter.WeightOrDefault(), b.Frontmatter.WeightOrDefault()
		if wa != wb {
			return wa - wb
		}
		return strings.Compare(a.Frontmatter.Title, b.Frontmatter.Title)
	})
}
