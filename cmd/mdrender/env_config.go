package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-mdrender/internal/config"
	"github.com/alnah/go-mdrender/internal/logging"
)

// envPrefix starts every variable read by the CLI.
const envPrefix = "MDRENDER_"

// defaultConfigName is looked up in the site root without --config.
const defaultConfigName = "mdrender"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string        // MDRENDER_CONFIG: config file name or path
	BaseURL    string        // MDRENDER_BASE_URL: site.baseURL
	OutputDir  string        // MDRENDER_OUTPUT_DIR: content.outputDir
	Theme      string        // MDRENDER_THEME: render.theme
	Math       string        // MDRENDER_MATH: render.math
	Diagrams   string        // MDRENDER_DIAGRAMS: render.diagrams
	Timeout    time.Duration // MDRENDER_TIMEOUT: browser.timeout
	Workers    int           // MDRENDER_WORKERS: render.workers
}

// knownEnvVars lists valid MDRENDER_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"MDRENDER_CONFIG":     true,
	"MDRENDER_BASE_URL":   true,
	"MDRENDER_OUTPUT_DIR": true,
	"MDRENDER_THEME":      true,
	"MDRENDER_MATH":       true,
	"MDRENDER_DIAGRAMS":   true,
	"MDRENDER_TIMEOUT":    true,
	"MDRENDER_WORKERS":    true,
	logging.EnvLevel:      true,
}

// loadEnvConfig reads MDRENDER_* variables. Unparsable numbers and
// durations are ignored.
func loadEnvConfig(env *Environment) *envConfig {
	ec := &envConfig{
		ConfigPath: env.Getenv("MDRENDER_CONFIG"),
		BaseURL:    env.Getenv("MDRENDER_BASE_URL"),
		OutputDir:  env.Getenv("MDRENDER_OUTPUT_DIR"),
		Theme:      env.Getenv("MDRENDER_THEME"),
		Math:       env.Getenv("MDRENDER_MATH"),
		Diagrams:   env.Getenv("MDRENDER_DIAGRAMS"),
	}

	if timeout := env.Getenv("MDRENDER_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			ec.Timeout = d
		}
	}
	if workers := env.Getenv("MDRENDER_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 && w <= maxWorkers {
			ec.Workers = w
		}
	}
	return ec
}

// warnUnknownEnvVars warns about unrecognized MDRENDER_* variables,
// catching typos like MDRENDER_THEMES.
func warnUnknownEnvVars(env *Environment) {
	if env.Environ == nil {
		return
	}
	for _, kv := range env.Environ() {
		if !strings.HasPrefix(kv, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(kv, "=")
		if !knownEnvVars[name] {
			fmt.Fprintf(env.Stderr, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}
}

// applyEnvConfig applies environment values over the loaded config.
// Priority: CLI flags > env vars > config file > defaults
// (CLI flags are applied afterwards by mergeFlags).
func applyEnvConfig(ec *envConfig, cfg *config.Config) {
	if ec.BaseURL != "" {
		cfg.Site.BaseURL = ec.BaseURL
	}
	if ec.OutputDir != "" {
		cfg.Content.OutputDir = ec.OutputDir
	}
	if ec.Theme != "" {
		cfg.Render.Theme = ec.Theme
	}
	if ec.Math != "" {
		cfg.Render.Math = ec.Math
	}
	if ec.Diagrams != "" {
		cfg.Render.Diagrams = ec.Diagrams
	}
	if ec.Timeout > 0 {
		cfg.Browser.Timeout = config.Duration{Duration: ec.Timeout}
	}
	if ec.Workers > 0 {
		cfg.Render.Workers = ec.Workers
	}
}
