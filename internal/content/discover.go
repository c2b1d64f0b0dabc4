package content

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/alnah/go-mdrender/internal/fileutil"
)

// Discover walks dir and loads every markdown document. Drafts are skipped
// and hidden files and directories are ignored. Results are in lexical path
// order.
func Discover(dir string) ([]*Content, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrContentDirNotFound, dir)
		}
		return nil, fmt.Errorf("%w: %v", ErrContentRead, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrContentDirNotFound, dir)
	}

	var items []*Content
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("%w: %v", ErrContentRead, err)
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() || !fileutil.HasExtension(path, Extensions...) {
			return nil
		}

		c, err := Load(path)
		if err != nil {
			return err
		}
		if !c.Frontmatter.Draft {
			items = append(items, c)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// NavItem is one entry of the site navigation.
type NavItem struct {
	Label    string
	URL      string
	Weight   int
	Children []NavItem
}

// Nav builds the navigation from discovered items: top-level pages and
// top-level sections, with each section listing its pages. The root index
// is the home link and is left out. Entries are ordered by weight, then
// label.
func Nav(items []*Content, contentRoot string) []NavItem {
	var nav []NavItem
	sections := make(map[string]int)

	for _, c := range items {
		if c.Kind != KindSection {
			continue
		}
		dir := c.Section(contentRoot)
		if dir == "." || strings.ContainsRune(filepath.ToSlash(dir), '/') {
			continue
		}
		sections[dir] = len(nav)
		nav = append(nav, navItem(c, contentRoot))
	}

	for _, c := range items {
		if c.Kind != KindPage {
			continue
		}
		dir := c.Section(contentRoot)
		if dir == "." {
			nav = append(nav, navItem(c, contentRoot))
			continue
		}
		if i, ok := sections[dir]; ok {
			nav[i].Children = append(nav[i].Children, navItem(c, contentRoot))
		}
	}

	for i := range nav {
		sortNav(nav[i].Children)
	}
	sortNav(nav)
	return nav
}

func navItem(c *Content, contentRoot string) NavItem {
	return NavItem{
		Label:  c.Frontmatter.Label(),
		URL:    c.URL(contentRoot),
		Weight: c.Frontmatter.WeightOrDefault(),
	}
}

func sortNav(items []NavItem) {
	slices.SortStableFunc(items, func(a, b NavItem) int {
		if a.Weight != b.Weight {
			return a.Weight - b.Weight
		}
		return strings.Compare(a.Label, b.Label)
	})
}
