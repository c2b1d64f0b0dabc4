// Package config loads the site configuration file.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-mdrender/internal/dateutil"
	"github.com/alnah/go-mdrender/internal/fileutil"
	"github.com/alnah/go-mdrender/internal/grammar"
	"github.com/alnah/go-mdrender/internal/highlight"
	"github.com/alnah/go-mdrender/internal/mathtex"
	"github.com/alnah/go-mdrender/internal/mermaid"
	"github.com/alnah/go-mdrender/internal/theme"
	"github.com/alnah/go-mdrender/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// AppName names the per-user config directory.
const AppName = "go-mdrender"

// Field length limits.
const (
	MaxTitleLength    = 200
	MaxAuthorLength   = 100
	MaxLanguageLength = 35 // BCP 47 tags stay well under this
	MaxURLLength      = 2048
	MaxPathLength     = 4096
	MaxAliasLength    = 50
)

// Defaults applied by DefaultConfig.
const (
	DefaultContentDir = "content"
	DefaultOutputDir  = "public"
	DefaultStaticDir  = "static"
	DefaultAssetsDir  = "assets"
	DefaultLanguage   = "en"
	DefaultTimeout    = 30 * time.Second
	DefaultTOCMin     = 2
	DefaultTOCMax     = 3
)

// Config holds all configuration for a site build.
type Config struct {
	Site    SiteConfig    `yaml:"site"`
	Content ContentConfig `yaml:"content"`
	Render  RenderConfig  `yaml:"render"`
	Browser BrowserConfig `yaml:"browser"`
}

// SiteConfig describes the published site.
type SiteConfig struct {
	Title    string `yaml:"title"`
	Author   string `yaml:"author"`
	BaseURL  string `yaml:"baseURL"`  // Empty = no sitemap or feed
	Language string `yaml:"language"` // html lang attribute
}

// ContentConfig locates input and output, relative to the site root.
type ContentConfig struct {
	Dir       string `yaml:"dir"`
	OutputDir string `yaml:"outputDir"`
	StaticDir string `yaml:"staticDir"` // Copied as-is when present
	AssetsDir string `yaml:"assetsDir"` // templates/ and styles/ overrides
}

// RenderConfig controls the markdown renderer.
type RenderConfig struct {
	ParseBudget Duration            `yaml:"parseBudget"`
	Theme       string              `yaml:"theme"`    // chroma style for hl.css
	Math        string              `yaml:"math"`     // "client" or "katex"
	Diagrams    string              `yaml:"diagrams"` // "client" or "mermaid"
	Workers     int                 `yaml:"workers"`  // 0 = auto
	DateFormat  string              `yaml:"dateFormat"`
	TOC         TOCConfig           `yaml:"toc"`
	Aliases     map[string][]string `yaml:"aliases"` // language -> extra fence tags
}

// TOCConfig bounds the heading levels listed in page TOCs.
type TOCConfig struct {
	MinLevel int `yaml:"minLevel"`
	MaxLevel int `yaml:"maxLevel"`
}

// BrowserConfig configures headless Chrome for server-side math and diagrams.
type BrowserConfig struct {
	KaTeXURL   string   `yaml:"katexURL"`
	MermaidURL string   `yaml:"mermaidURL"`
	Timeout    Duration `yaml:"timeout"`
}

// Duration is a time.Duration written as "5s", "1m30s".
type Duration struct {
	time.Duration
}

// UnmarshalYAML parses the value with time.ParseDuration.
func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("%w: duration %q", ErrInvalidValue, s)
	}
	d.Duration = parsed
	return nil
}

// MarshalYAML writes the duration in time.Duration notation.
func (d Duration) MarshalYAML() (any, error) {
	return d.String(), nil
}

// Validate checks enums, field lengths and ranges.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	lengths := []struct {
		field string
		value string
		max   int
	}{
		{"site.title", c.Site.Title, MaxTitleLength},
		{"site.author", c.Site.Author, MaxAuthorLength},
		{"site.baseURL", c.Site.BaseURL, MaxURLLength},
		{"site.language", c.Site.Language, MaxLanguageLength},
		{"content.dir", c.Content.Dir, MaxPathLength},
		{"content.outputDir", c.Content.OutputDir, MaxPathLength},
		{"content.staticDir", c.Content.StaticDir, MaxPathLength},
		{"content.assetsDir", c.Content.AssetsDir, MaxPathLength},
		{"browser.katexURL", c.Browser.KaTeXURL, MaxURLLength},
		{"browser.mermaidURL", c.Browser.MermaidURL, MaxURLLength},
	}
	for _, l := range lengths {
		if err := validateFieldLength(l.field, l.value, l.max); err != nil {
			return err
		}
	}

	if c.Site.BaseURL != "" {
		u, err := url.Parse(c.Site.BaseURL)
		if err != nil || !u.IsAbs() || u.Host == "" {
			return fmt.Errorf("%w: site.baseURL %q must be an absolute URL", ErrInvalidValue, c.Site.BaseURL)
		}
	}

	if c.Render.ParseBudget.Duration < 0 {
		return fmt.Errorf("%w: render.parseBudget must be positive, got %s", ErrInvalidValue, c.Render.ParseBudget)
	}
	if c.Browser.Timeout.Duration < 0 {
		return fmt.Errorf("%w: browser.timeout must be positive, got %s", ErrInvalidValue, c.Browser.Timeout)
	}
	if c.Render.Workers < 0 {
		return fmt.Errorf("%w: render.workers must be >= 0, got %d", ErrInvalidValue, c.Render.Workers)
	}

	if c.Render.Theme != "" {
		if _, err := theme.Lookup(c.Render.Theme); err != nil {
			return fmt.Errorf("render.theme: %w", err)
		}
	}
	if _, err := mathtex.ParseMode(c.Render.Math); err != nil {
		return fmt.Errorf("render.math: %w", err)
	}
	if _, err := mermaid.ParseMode(c.Render.Diagrams); err != nil {
		return fmt.Errorf("render.diagrams: %w", err)
	}
	if c.Render.DateFormat != "" {
		if _, err := dateutil.Layout(c.Render.DateFormat); err != nil {
			return fmt.Errorf("render.dateFormat: %w", err)
		}
	}

	if toc := c.Render.TOC; toc.MinLevel != 0 || toc.MaxLevel != 0 {
		if toc.MinLevel < 1 || toc.MinLevel > 6 || toc.MaxLevel < 1 || toc.MaxLevel > 6 {
			return fmt.Errorf("%w: render.toc levels must be between 1 and 6, got %d-%d", ErrInvalidValue, toc.MinLevel, toc.MaxLevel)
		}
		if toc.MinLevel > toc.MaxLevel {
			return fmt.Errorf("%w: render.toc.minLevel (%d) > maxLevel (%d)", ErrInvalidValue, toc.MinLevel, toc.MaxLevel)
		}
	}

	for lang, aliases := range c.Render.Aliases {
		if _, ok := grammar.ParseLanguage(lang); !ok {
			return fmt.Errorf("%w: render.aliases: unknown language %q", ErrInvalidValue, lang)
		}
		for i, a := range aliases {
			if err := validateFieldLength(fmt.Sprintf("render.aliases.%s[%d]", lang, i), a, MaxAliasLength); err != nil {
				return err
			}
		}
	}

	for _, u := range []struct{ field, value string }{
		{"browser.katexURL", c.Browser.KaTeXURL},
		{"browser.mermaidURL", c.Browser.MermaidURL},
	} {
		if u.value != "" && !fileutil.IsURL(u.value) {
			return fmt.Errorf("%w: %s %q must be an http(s) URL", ErrInvalidValue, u.field, u.value)
		}
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns the configuration used without a config file.
func DefaultConfig() *Config {
	return &Config{
		Site: SiteConfig{Language: DefaultLanguage},
		Content: ContentConfig{
			Dir:       DefaultContentDir,
			OutputDir: DefaultOutputDir,
			StaticDir: DefaultStaticDir,
			AssetsDir: DefaultAssetsDir,
		},
		Render: RenderConfig{
			ParseBudget: Duration{highlight.DefaultParseBudget},
			Theme:       theme.DefaultTheme,
			Math:        string(mathtex.ModeClient),
			Diagrams:    string(mermaid.ModeClient),
			DateFormat:  dateutil.DefaultDateFormat,
			TOC:         TOCConfig{MinLevel: DefaultTOCMin, MaxLevel: DefaultTOCMax},
		},
		Browser: BrowserConfig{
			KaTeXURL:   mathtex.DefaultKaTeXURL,
			MermaidURL: mermaid.DefaultMermaidURL,
			Timeout:    Duration{DefaultTimeout},
		},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Fields missing from the file keep their DefaultConfig values.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrConfigParse, configPath, yamlutil.FormatError(err))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SearchPaths lists the files LoadConfig tries for a config name, in order.
// Tries extensions .yaml then .yml, in the current directory then in
// $XDG_CONFIG_HOME/go-mdrender/ (os.UserConfigDir).
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, AppName, name+ext))
		}
	}
	return paths
}

// resolveConfigPath searches for a config file by name in standard locations.
func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}
