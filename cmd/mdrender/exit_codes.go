package main

import (
	"errors"
	"os"

	mdrender "github.com/alnah/go-mdrender"
	"github.com/alnah/go-mdrender/internal/assets"
	"github.com/alnah/go-mdrender/internal/config"
	"github.com/alnah/go-mdrender/internal/content"
	"github.com/alnah/go-mdrender/internal/site"
	"github.com/alnah/go-mdrender/internal/theme"
)

// Exit codes for the mdrender CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Command completed
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or content
	ExitIO      = 3 // File not found, permission denied, write failures
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, mdrender.ErrBrowserConnect) {
		return ExitBrowser
	}

	// Usage/config/validation errors (exit 2). Checked before I/O so a
	// missing config file reports as usage, not as a missing file.
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, mdrender.ErrUnknownMathMode) ||
		errors.Is(err, mdrender.ErrUnknownDiagramMode) ||
		errors.Is(err, mdrender.ErrUnknownLanguage) ||
		errors.Is(err, mdrender.ErrEmptyMarkdown) ||
		errors.Is(err, theme.ErrUnknownTheme) ||
		errors.Is(err, content.ErrFrontmatter) ||
		errors.Is(err, content.ErrMissingTitle) ||
		errors.Is(err, assets.ErrTemplateNotFound) ||
		errors.Is(err, assets.ErrTemplateParse) ||
		errors.Is(err, assets.ErrStyleNotFound) ||
		errors.Is(err, assets.ErrInvalidAssetName) ||
		errors.Is(err, assets.ErrInvalidBasePath) ||
		errors.Is(err, site.ErrTemplate) ||
		errors.Is(err, errUnknownCommand) ||
		errors.Is(err, errInvalidFlag) ||
		errors.Is(err, errInvalidExtension) ||
		errors.Is(err, errMissingArg) ||
		errors.Is(err, errExtraArgs) ||
		errors.Is(err, errInvalidWorkers) ||
		errors.Is(err, errInvalidTimeout) ||
		errors.Is(err, ErrUnsupportedShell) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, content.ErrContentDirNotFound) ||
		errors.Is(err, content.ErrContentRead) ||
		errors.Is(err, site.ErrWrite) ||
		errors.Is(err, site.ErrStaticCopy) ||
		errors.Is(err, assets.ErrAssetRead) ||
		errors.Is(err, errReadInput) {
		return ExitIO
	}

	return ExitGeneral
}
