package main

import (
	"context"
	"errors"

	mdrender "github.com/alnah/go-mdrender"
	"github.com/alnah/go-mdrender/internal/config"
	"github.com/alnah/go-mdrender/internal/content"
	"github.com/alnah/go-mdrender/internal/hints"
	"github.com/alnah/go-mdrender/internal/site"
	"github.com/alnah/go-mdrender/internal/theme"
)

// hintFor returns an actionable hint for err, or "".
func hintFor(err error) string {
	switch {
	case errors.Is(err, mdrender.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(config.SearchPaths(defaultConfigName))
	case errors.Is(err, content.ErrContentDirNotFound):
		return hints.ForContentDir(config.DefaultContentDir)
	case errors.Is(err, site.ErrWrite):
		return hints.ForOutputDirectory()
	case errors.Is(err, theme.ErrUnknownTheme):
		return hints.ForThemeNotFound(theme.Names())
	}
	return ""
}
