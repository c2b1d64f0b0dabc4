package assets

import "errors"

// Resolver reads the site's assets first and the embedded ones second.
type Resolver struct {
	site     *DirSource // nil without an assets directory
	embedded Source
}

// NewResolver returns a resolver over the assets directory dir. An empty dir
// serves embedded assets only.
func NewResolver(dir string) (*Resolver, error) {
	r := &Resolver{embedded: Embedded()}
	if dir == "" {
		return r, nil
	}
	site, err := OpenDir(dir)
	if err != nil {
		return nil, err
	}
	r.site = site
	return r, nil
}

// Read falls back to the embedded asset only when the site has no such
// file. An invalid name or an unreadable override is returned as is.
func (r *Resolver) Read(kind Kind, name string) (string, error) {
	if r.site != nil {
		s, err := r.site.Read(kind, name)
		if !errors.Is(err, kind.errNotFound()) {
			return s, err
		}
	}
	return r.embedded.Read(kind, name)
}

// Style reads a stylesheet.
func (r *Resolver) Style(name string) (string, error) {
	return r.Read(Style, name)
}

// SiteDir returns the overriding directory, or "" when there is none.
func (r *Resolver) SiteDir() string {
	if r.site == nil {
		return ""
	}
	return r.site.Path()
}
