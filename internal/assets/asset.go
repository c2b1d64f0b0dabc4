package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

// Asset names used by the site build.
const (
	BaseStyle       = "base"
	PageTemplate    = "page"
	SectionTemplate = "section"
)

// Kind selects the subdirectory and extension of an asset.
type Kind uint8

const (
	Style    Kind = iota // styles/{name}.css
	Template             // templates/{name}.html
)

func (k Kind) String() string {
	if k == Template {
		return "template"
	}
	return "style"
}

// file returns the slash-separated path of the named asset.
func (k Kind) file(name string) string {
	if k == Template {
		return "templates/" + name + ".html"
	}
	return "styles/" + name + ".css"
}

func (k Kind) errNotFound() error {
	if k == Template {
		return ErrTemplateNotFound
	}
	return ErrStyleNotFound
}

// Source reads assets by kind and extensionless name.
type Source interface {
	Read(kind Kind, name string) (string, error)
}

// ValidateName reports ErrInvalidAssetName for a name that could leave its
// directory or change its extension.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if strings.ContainsAny(name, "/\\.\x00") {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}

func readFS(fsys fs.FS, kind Kind, name string) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}
	data, err := fs.ReadFile(fsys, kind.file(name))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "", fmt.Errorf("%w: %q", kind.errNotFound(), name)
	case err != nil:
		return "", fmt.Errorf("%w: %s %q: %v", ErrAssetRead, kind, name, err)
	}
	return string(data), nil
}
