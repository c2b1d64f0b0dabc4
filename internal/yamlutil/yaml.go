// Package yamlutil wraps YAML parsing to isolate the external dependency.
// Config files and document frontmatter both decode through it.
package yamlutil

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
)

// MaxInputSize limits YAML input to prevent memory exhaustion (default 1MB).
var MaxInputSize = 1 << 20

// FrontmatterFence opens and closes a frontmatter block.
const FrontmatterFence = "---"

var (
	ErrNilData             = errors.New("yamlutil: nil or empty data")
	ErrNilDestination      = errors.New("yamlutil: nil destination pointer")
	ErrInputTooLarge       = errors.New("yamlutil: input exceeds maximum size")
	ErrUnclosedFrontmatter = errors.New("yamlutil: frontmatter is not closed")
	ErrMissingFrontmatter  = errors.New("yamlutil: document has no frontmatter")
)

func validateInput(data []byte, v any) error {
	if len(data) == 0 {
		return ErrNilData
	}
	if len(data) > MaxInputSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(data), MaxInputSize)
	}
	if v == nil {
		return ErrNilDestination
	}
	return nil
}

// UnmarshalStrict rejects unknown fields in the input.
func UnmarshalStrict(data []byte, v any) error {
	if err := validateInput(data, v); err != nil {
		return err
	}
	if err := yaml.UnmarshalWithOptions(data, v, yaml.Strict()); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}

// FormatError renders a decode error with the offending source lines.
func FormatError(err error) string {
	return yaml.FormatError(err, false, true)
}

// SplitFrontmatter separates a leading "---" fenced YAML block from the
// body. Line endings are kept as written. The returned front excludes the
// fences and body starts after the closing fence line.
func SplitFrontmatter(data []byte) (front, body []byte, err error) {
	first, rest, _ := cutLine(data)
	if !isFence(first) {
		return nil, nil, ErrMissingFrontmatter
	}

	offset := 0
	for len(rest[offset:]) > 0 {
		line, next, _ := cutLine(rest[offset:])
		if isFence(line) {
			front = rest[:offset]
			body = next
			return front, body, nil
		}
		offset = len(rest) - len(next)
	}
	return nil, nil, ErrUnclosedFrontmatter
}

// cutLine splits data after the first newline. line has no line ending.
func cutLine(data []byte) (line, rest []byte, found bool) {
	line, rest, found = bytes.Cut(data, []byte("\n"))
	return bytes.TrimSuffix(line, []byte("\r")), rest, found
}

func isFence(line []byte) bool {
	return string(bytes.TrimRight(line, " \t")) == FrontmatterFence
}
