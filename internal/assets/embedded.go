package assets

import "embed"

//go:embed styles/*.css templates/*.html
var embedded embed.FS

type embeddedSource struct{}

// Embedded returns the assets compiled into the binary.
func Embedded() Source {
	return embeddedSource{}
}

func (embeddedSource) Read(kind Kind, name string) (string, error) {
	return readFS(embedded, kind, name)
}
