package main

// Notes:
// - parse*Flags: we test defaults, shorthands and validation errors.
// - mergeFlags: we test that only set flags override config values.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"errors"
	"testing"
	"time"

	"github.com/alnah/go-mdrender/internal/config"
)

// ---------------------------------------------------------------------------
// TestParseBuildFlags - Build flag parsing
// ---------------------------------------------------------------------------

func TestParseBuildFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		args     []string
		wantErr  error
		wantArgs int
		check    func(t *testing.T, f *buildFlags)
	}{
		{
			name:     "defaults",
			args:     []string{},
			wantArgs: 0,
			check: func(t *testing.T, f *buildFlags) {
				if f.output != "" || f.baseURL != "" || f.render.workers != 0 {
					t.Errorf("unexpected non-zero defaults: %+v", f)
				}
			},
		},
		{
			name:     "shorthands",
			args:     []string{"-o", "out", "-w", "4", "-t", "1m", "-c", "site", "-q", "-v", "dir"},
			wantArgs: 1,
			check: func(t *testing.T, f *buildFlags) {
				if f.output != "out" || f.render.workers != 4 || f.render.timeout != "1m" {
					t.Errorf("flags = %+v", f)
				}
				if f.common.config != "site" || !f.common.quiet || !f.common.verbose {
					t.Errorf("common flags = %+v", f.common)
				}
			},
		},
		{
			name:     "render modes",
			args:     []string{"--math", "katex", "--diagrams", "mermaid", "--theme", "monokai", "--base-url", "https://x.dev"},
			wantArgs: 0,
			check: func(t *testing.T, f *buildFlags) {
				if f.render.math != "katex" || f.render.diagrams != "mermaid" || f.render.theme != "monokai" {
					t.Errorf("render flags = %+v", f.render)
				}
				if f.baseURL != "https://x.dev" {
					t.Errorf("baseURL = %q", f.baseURL)
				}
			},
		},
		{
			name:    "help",
			args:    []string{"-h"},
			wantErr: errHelp,
		},
		{
			name:    "unknown flag",
			args:    []string{"--pdf"},
			wantErr: errInvalidFlag,
		},
		{
			name:    "non-numeric workers",
			args:    []string{"--workers", "many"},
			wantErr: errInvalidFlag,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, _, _ := newTestEnv(nil)
			f, args, err := parseBuildFlags(tt.args, env)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(args) != tt.wantArgs {
				t.Errorf("positional args = %v, want %d", args, tt.wantArgs)
			}
			if tt.check != nil {
				tt.check(t, f)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestMergeFlags - CLI flags override config
// ---------------------------------------------------------------------------

func TestMergeFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		flags   renderFlags
		wantErr error
		check   func(t *testing.T, cfg *config.Config)
	}{
		{
			name:  "unset flags keep config",
			flags: renderFlags{},
			check: func(t *testing.T, cfg *config.Config) {
				def := config.DefaultConfig()
				if cfg.Render.Theme != def.Render.Theme || cfg.Render.Math != def.Render.Math {
					t.Errorf("render = %+v, want defaults", cfg.Render)
				}
				if cfg.Browser.Timeout != def.Browser.Timeout {
					t.Errorf("timeout = %v, want %v", cfg.Browser.Timeout, def.Browser.Timeout)
				}
			},
		},
		{
			name:  "set flags win",
			flags: renderFlags{workers: 3, timeout: "90s", math: "katex", diagrams: "mermaid", theme: "monokai"},
			check: func(t *testing.T, cfg *config.Config) {
				if cfg.Render.Workers != 3 || cfg.Render.Math != "katex" || cfg.Render.Diagrams != "mermaid" || cfg.Render.Theme != "monokai" {
					t.Errorf("render = %+v", cfg.Render)
				}
				if cfg.Browser.Timeout.Duration != 90*time.Second {
					t.Errorf("timeout = %v, want 90s", cfg.Browser.Timeout)
				}
			},
		},
		{
			name:    "negative workers",
			flags:   renderFlags{workers: -1},
			wantErr: errInvalidWorkers,
		},
		{
			name:    "too many workers",
			flags:   renderFlags{workers: maxWorkers + 1},
			wantErr: errInvalidWorkers,
		},
		{
			name:    "unparsable timeout",
			flags:   renderFlags{timeout: "later"},
			wantErr: errInvalidTimeout,
		},
		{
			name:    "zero timeout",
			flags:   renderFlags{timeout: "0s"},
			wantErr: errInvalidTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.DefaultConfig()
			err := mergeFlags(&tt.flags, cfg)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("mergeFlags() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("mergeFlags() unexpected error: %v", err)
			}
			tt.check(t, cfg)
		})
	}
}
