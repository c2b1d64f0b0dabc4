package main

// Notes:
// - runMain: we test exit codes and output for every command with temp
//   sites. Server-side math and diagrams need Chrome and are not exercised.
// - loadConfig: we test the priority of flags, env and config file.
// - outlineTree: we test nesting, skipped levels and level bounds.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	mdrender "github.com/alnah/go-mdrender"
	"github.com/alnah/go-mdrender/internal/config"
)

// ---------------------------------------------------------------------------
// TestRunMain - Commands, output and exit codes
// ---------------------------------------------------------------------------

func TestRunMain(t *testing.T) {
	t.Parallel()

	doc := filepath.Join(t.TempDir(), "doc.md")
	writeTestFile(t, doc, "---\ntitle: Doc\n---\n## Alpha\n\n### Beta\n\n## Gamma\n\nText with $x$.\n")
	plain := filepath.Join(t.TempDir(), "plain.md")
	writeTestFile(t, plain, "# Top\n\n## Only\n\n![img](pic.png)\n")
	untitled := filepath.Join(t.TempDir(), "untitled.md")
	writeTestFile(t, untitled, "---\ndescription: none\n---\nBody\n")
	notMarkdown := filepath.Join(t.TempDir(), "notes.txt")
	writeTestFile(t, notMarkdown, "text")

	tests := []struct {
		name         string
		args         []string
		wantCode     int
		wantInStdout []string
		wantInStderr []string
		wantNot      []string
	}{
		{
			name:         "no args shows usage",
			args:         []string{"mdrender"},
			wantCode:     ExitUsage,
			wantInStderr: []string{"Usage: mdrender"},
		},
		{
			name:         "version",
			args:         []string{"mdrender", "version"},
			wantCode:     ExitSuccess,
			wantInStdout: []string{"mdrender " + Version},
		},
		{
			name:         "help lists commands",
			args:         []string{"mdrender", "help"},
			wantCode:     ExitSuccess,
			wantInStdout: []string{"Usage: mdrender", "build", "render", "outline", "languages"},
		},
		{
			name:         "help build",
			args:         []string{"mdrender", "help", "build"},
			wantCode:     ExitSuccess,
			wantInStdout: []string{"Usage: mdrender build", "--base-url"},
		},
		{
			name:         "flag help exits 0",
			args:         []string{"mdrender", "render", "--help"},
			wantCode:     ExitSuccess,
			wantInStderr: []string{"Usage: mdrender render"},
		},
		{
			name:         "unknown command",
			args:         []string{"mdrender", "convert"},
			wantCode:     ExitUsage,
			wantInStderr: []string{"unknown command: convert"},
		},
		{
			name:         "unknown flag",
			args:         []string{"mdrender", "render", "--nope", doc},
			wantCode:     ExitUsage,
			wantInStderr: []string{"invalid flag"},
		},
		{
			name:         "render with frontmatter",
			args:         []string{"mdrender", "render", doc},
			wantCode:     ExitSuccess,
			wantInStdout: []string{`<h2 id="alpha">Alpha</h2>`, `<h3 id="beta">Beta</h3>`, `class="math math-inline"`},
			wantNot:      []string{"title: Doc", `<nav class="toc">`},
		},
		{
			name:         "render with toc",
			args:         []string{"mdrender", "render", "--toc", doc},
			wantCode:     ExitSuccess,
			wantInStdout: []string{`<nav class="toc">`, `href="#alpha"`},
		},
		{
			name:         "render without frontmatter",
			args:         []string{"mdrender", "render", plain},
			wantCode:     ExitSuccess,
			wantInStdout: []string{`<h2 id="only">Only</h2>`, `src="pic.png"`},
		},
		{
			name:         "render with file links",
			args:         []string{"mdrender", "render", "--file-links", plain},
			wantCode:     ExitSuccess,
			wantInStdout: []string{`src="file://`},
		},
		{
			name:     "render missing file",
			args:     []string{"mdrender", "render", filepath.Join(t.TempDir(), "missing.md")},
			wantCode: ExitIO,
		},
		{
			name:         "render missing argument",
			args:         []string{"mdrender", "render"},
			wantCode:     ExitUsage,
			wantInStderr: []string{"missing argument"},
		},
		{
			name:     "render wrong extension",
			args:     []string{"mdrender", "render", notMarkdown},
			wantCode: ExitUsage,
		},
		{
			name:     "render missing title",
			args:     []string{"mdrender", "render", untitled},
			wantCode: ExitUsage,
		},
		{
			name:         "render unknown math mode",
			args:         []string{"mdrender", "render", "--math", "mathjax", doc},
			wantCode:     ExitUsage,
			wantInStderr: []string{"math"},
		},
		{
			name:         "render invalid timeout",
			args:         []string{"mdrender", "render", "--timeout", "soon", doc},
			wantCode:     ExitUsage,
			wantInStderr: []string{"invalid timeout"},
		},
		{
			name:         "outline",
			args:         []string{"mdrender", "outline", doc},
			wantCode:     ExitSuccess,
			wantInStdout: []string{"Doc", "Alpha #alpha", "Beta #beta", "Gamma #gamma"},
		},
		{
			name:         "outline invalid levels",
			args:         []string{"mdrender", "outline", "--min-level", "4", "--max-level", "2", doc},
			wantCode:     ExitUsage,
			wantInStderr: []string{"heading levels"},
		},
		{
			name:         "css default theme",
			args:         []string{"mdrender", "css"},
			wantCode:     ExitSuccess,
			wantInStdout: []string{".hl-keyword"},
		},
		{
			name:         "css list",
			args:         []string{"mdrender", "css", "--list"},
			wantCode:     ExitSuccess,
			wantInStdout: []string{"* github", "monokai"},
		},
		{
			name:         "css base",
			args:         []string{"mdrender", "css", "--base"},
			wantCode:     ExitSuccess,
			wantInStdout: []string{"nav.toc"},
		},
		{
			name:         "css unknown theme",
			args:         []string{"mdrender", "css", "--theme", "nope"},
			wantCode:     ExitUsage,
			wantInStderr: []string{"unknown theme", "hint:"},
		},
		{
			name:         "languages",
			args:         []string{"mdrender", "languages"},
			wantCode:     ExitSuccess,
			wantInStdout: []string{"LANGUAGE", "go", "tree-sitter", "ok"},
		},
		{
			name:         "completion bash",
			args:         []string{"mdrender", "completion", "bash"},
			wantCode:     ExitSuccess,
			wantInStdout: []string{"complete -F _mdrender mdrender"},
		},
		{
			name:     "completion unsupported shell",
			args:     []string{"mdrender", "completion", "tcsh"},
			wantCode: ExitUsage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, stdout, stderr := newTestEnv(nil)
			code := runMain(tt.args, env)

			if code != tt.wantCode {
				t.Errorf("runMain(%v) = %d, want %d\nstderr: %s", tt.args, code, tt.wantCode, stderr.String())
			}
			for _, want := range tt.wantInStdout {
				if !strings.Contains(stdout.String(), want) {
					t.Errorf("stdout should contain %q, got %q", want, stdout.String())
				}
			}
			for _, want := range tt.wantInStderr {
				if !strings.Contains(stderr.String(), want) {
					t.Errorf("stderr should contain %q, got %q", want, stderr.String())
				}
			}
			for _, not := range tt.wantNot {
				if strings.Contains(stdout.String(), not) {
					t.Errorf("stdout should not contain %q", not)
				}
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRunMain_Build - Site builds through the CLI
// ---------------------------------------------------------------------------

func TestRunMain_Build(t *testing.T) {
	t.Parallel()

	t.Run("builds into public", func(t *testing.T) {
		t.Parallel()

		root := newTestSite(t)
		env, stdout, stderr := newTestEnv(nil)
		if code := runMain([]string{"mdrender", "build", root}, env); code != ExitSuccess {
			t.Fatalf("exit code = %d, stderr: %s", code, stderr.String())
		}

		out := filepath.Join(root, config.DefaultOutputDir)
		if !strings.Contains(stdout.String(), "Created "+out) {
			t.Errorf("stdout = %q, want Created %s", stdout.String(), out)
		}
		for _, name := range []string{"index.html", "post.html", "style.css", "hl.css"} {
			if _, err := os.Stat(filepath.Join(out, name)); err != nil {
				t.Errorf("missing %s: %v", name, err)
			}
		}
		if _, err := os.Stat(filepath.Join(out, "feed.xml")); !os.IsNotExist(err) {
			t.Error("feed.xml needs a base URL")
		}
	})

	t.Run("flags override output and base url", func(t *testing.T) {
		t.Parallel()

		root := newTestSite(t)
		out := filepath.Join(t.TempDir(), "site")
		env, stdout, stderr := newTestEnv(nil)
		args := []string{"mdrender", "build", root, "-o", out, "--base-url", "https://example.com", "--verbose", "--workers", "2"}
		if code := runMain(args, env); code != ExitSuccess {
			t.Fatalf("exit code = %d, stderr: %s", code, stderr.String())
		}
		for _, want := range []string{"pages:    1", "sections: 1", "sitemap.xml", "feed.xml"} {
			if !strings.Contains(stdout.String(), want) {
				t.Errorf("verbose report missing %q:\n%s", want, stdout.String())
			}
		}
		if _, err := os.Stat(filepath.Join(out, "feed.xml")); err != nil {
			t.Errorf("feed.xml: %v", err)
		}
	})

	t.Run("quiet prints nothing", func(t *testing.T) {
		t.Parallel()

		root := newTestSite(t)
		env, stdout, _ := newTestEnv(nil)
		if code := runMain([]string{"mdrender", "build", "-q", root}, env); code != ExitSuccess {
			t.Fatalf("exit code = %d", code)
		}
		if stdout.Len() != 0 {
			t.Errorf("stdout = %q, want empty", stdout.String())
		}
	})

	t.Run("site config file", func(t *testing.T) {
		t.Parallel()

		root := newTestSite(t)
		writeTestFile(t, filepath.Join(root, "mdrender.yaml"), "site:\n  title: From File\ncontent:\n  outputDir: dist\n")
		env, _, stderr := newTestEnv(nil)
		if code := runMain([]string{"mdrender", "build", root}, env); code != ExitSuccess {
			t.Fatalf("exit code = %d, stderr: %s", code, stderr.String())
		}
		data, err := os.ReadFile(filepath.Join(root, "dist", "post.html"))
		if err != nil {
			t.Fatalf("read output: %v", err)
		}
		if !strings.Contains(string(data), "From File") {
			t.Error("page should use the site title from mdrender.yaml")
		}
	})

	t.Run("missing content directory", func(t *testing.T) {
		t.Parallel()

		env, _, stderr := newTestEnv(nil)
		code := runMain([]string{"mdrender", "build", t.TempDir()}, env)
		if code != ExitIO {
			t.Errorf("exit code = %d, want %d", code, ExitIO)
		}
		if !strings.Contains(stderr.String(), "hint:") {
			t.Errorf("stderr should carry a hint, got %q", stderr.String())
		}
	})

	t.Run("invalid base url", func(t *testing.T) {
		t.Parallel()

		env, _, _ := newTestEnv(nil)
		code := runMain([]string{"mdrender", "build", newTestSite(t), "--base-url", "example.com"}, env)
		if code != ExitUsage {
			t.Errorf("exit code = %d, want %d", code, ExitUsage)
		}
	})

	t.Run("missing config file", func(t *testing.T) {
		t.Parallel()

		env, _, _ := newTestEnv(nil)
		code := runMain([]string{"mdrender", "build", newTestSite(t), "--config", "./nope.yaml"}, env)
		if code != ExitUsage {
			t.Errorf("exit code = %d, want %d", code, ExitUsage)
		}
	})

	t.Run("too many arguments", func(t *testing.T) {
		t.Parallel()

		env, _, _ := newTestEnv(nil)
		code := runMain([]string{"mdrender", "build", "a", "b"}, env)
		if code != ExitUsage {
			t.Errorf("exit code = %d, want %d", code, ExitUsage)
		}
	})
}

// ---------------------------------------------------------------------------
// TestLoadConfig - Flags > env > file > defaults
// ---------------------------------------------------------------------------

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTestFile(t, filepath.Join(root, "mdrender.yml"), "render:\n  theme: monokai\n  workers: 3\n")

	tests := []struct {
		name        string
		vars        map[string]string
		render      renderFlags
		wantTheme   string
		wantWorkers int
	}{
		{
			name:        "file over defaults",
			wantTheme:   "monokai",
			wantWorkers: 3,
		},
		{
			name:        "env over file",
			vars:        map[string]string{"MDRENDER_THEME": "dracula", "MDRENDER_WORKERS": "5"},
			wantTheme:   "dracula",
			wantWorkers: 5,
		},
		{
			name:        "flags over env",
			vars:        map[string]string{"MDRENDER_THEME": "dracula"},
			render:      renderFlags{theme: "github", workers: 7},
			wantTheme:   "github",
			wantWorkers: 7,
		},
		{
			name:        "invalid env workers ignored",
			vars:        map[string]string{"MDRENDER_WORKERS": "many"},
			wantTheme:   "monokai",
			wantWorkers: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, _, _ := newTestEnv(tt.vars)
			cfg, err := loadConfig(&commonFlags{}, &tt.render, root, env)
			if err != nil {
				t.Fatalf("loadConfig() error = %v", err)
			}
			if cfg.Render.Theme != tt.wantTheme {
				t.Errorf("Theme = %q, want %q", cfg.Render.Theme, tt.wantTheme)
			}
			if cfg.Render.Workers != tt.wantWorkers {
				t.Errorf("Workers = %d, want %d", cfg.Render.Workers, tt.wantWorkers)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestOutlineTree - Heading nesting
// ---------------------------------------------------------------------------

func TestOutlineTree(t *testing.T) {
	t.Parallel()

	anchors := []mdrender.Anchor{
		{ID: "a", Text: "A", Level: 2},
		{ID: "a1", Text: "A1", Level: 3},
		{ID: "deep", Text: "Deep", Level: 5},
		{ID: "b", Text: "B", Level: 2},
		{ID: "b1", Text: "B1", Level: 4},
	}

	t.Run("nests under the nearest shallower heading", func(t *testing.T) {
		t.Parallel()

		got := outlineTree("Doc", anchors, 2, 6).String()
		lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
		want := []struct {
			text  string
			depth int
		}{
			{"Doc", 0},
			{"A #a", 1},
			{"A1 #a1", 2},
			{"Deep #deep", 3},
			{"B #b", 1},
			{"B1 #b1", 2},
		}
		if len(lines) != len(want) {
			t.Fatalf("tree has %d lines, want %d:\n%s", len(lines), len(want), got)
		}
		for i, w := range want {
			if !strings.HasSuffix(lines[i], w.text) {
				t.Errorf("line %d = %q, want suffix %q", i, lines[i], w.text)
			}
			// treeprint indents each level by four columns.
			prefix := len([]rune(lines[i])) - len([]rune(w.text))
			if w.depth > 0 && prefix != 4*w.depth {
				t.Errorf("line %d %q indented %d, want %d", i, lines[i], prefix, 4*w.depth)
			}
		}
	})

	t.Run("level bounds", func(t *testing.T) {
		t.Parallel()

		got := outlineTree("Doc", anchors, 2, 3).String()
		if strings.Contains(got, "Deep") || strings.Contains(got, "B1") {
			t.Errorf("levels deeper than 3 should be dropped:\n%s", got)
		}
		if !strings.Contains(got, "A1 #a1") {
			t.Errorf("level 3 should be kept:\n%s", got)
		}
	})
}
