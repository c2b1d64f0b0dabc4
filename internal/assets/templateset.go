package assets

import (
	"fmt"
	"html/template"
)

// TemplateSet holds the parsed page and section templates of a site.
type TemplateSet struct {
	Page    *template.Template
	Section *template.Template
}

// LoadTemplateSet loads and parses the page and section templates.
func LoadTemplateSet(src Source) (*TemplateSet, error) {
	page, err := ParseTemplate(src, PageTemplate)
	if err != nil {
		return nil, err
	}
	section, err := ParseTemplate(src, SectionTemplate)
	if err != nil {
		return nil, err
	}
	return &TemplateSet{Page: page, Section: section}, nil
}

// ParseTemplate reads the named template and parses it as html/template.
func ParseTemplate(src Source, name string) (*template.Template, error) {
	text, err := src.Read(Template, name)
	if err != nil {
		return nil, err
	}
	tmpl, err := template.New(name).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTemplateParse, name, err)
	}
	return tmpl, nil
}
