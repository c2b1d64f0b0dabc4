package assets

import (
	"fmt"
	"os"
	"path/filepath"
)

// DirSource reads assets from a site's assets directory.
type DirSource struct {
	path string
}

// OpenDir checks that path can be opened as a directory.
func OpenDir(path string) (*DirSource, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidBasePath)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	root, err := os.OpenRoot(abs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	_ = root.Close()
	return &DirSource{path: abs}, nil
}

// Path returns the absolute directory.
func (d *DirSource) Path() string {
	return d.path
}

// Read opens the directory as an os.Root for each read; the site build reads
// a handful of assets, and no descriptor outlives the call.
func (d *DirSource) Read(kind Kind, name string) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}
	root, err := os.OpenRoot(d.path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	defer func() { _ = root.Close() }()
	return readFS(root.FS(), kind, name)
}
