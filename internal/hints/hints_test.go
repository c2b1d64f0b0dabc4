package hints

// Notes:
// - ForBrowserConnect tests cannot use t.Parallel() because they:
//   1. Use t.Setenv() which modifies process environment
//   2. Modify the package-level IsInContainer variable

import (
	"strings"
	"testing"
)

func withContainer(t *testing.T, in bool) {
	t.Helper()
	orig := IsInContainer
	t.Cleanup(func() { IsInContainer = orig })
	IsInContainer = func() bool { return in }
}

func TestForBrowserConnect(t *testing.T) {
	tests := []struct {
		name       string
		container  bool
		ci         string
		browserBin string
		want       []string
		wantNot    []string
	}{
		{
			name:    "CI without sandbox flag",
			ci:      "1",
			want:    []string{"hint:", "CI=true", "ROD_BROWSER_BIN", "--math client"},
			wantNot: nil,
		},
		{
			name:      "Docker",
			container: true,
			want:      []string{"CI=true"},
		},
		{
			name:      "sandbox already off via CI=true",
			container: true,
			ci:        "true",
			wantNot:   []string{"CI=true"},
		},
		{
			name:       "custom binary disables sandbox too",
			container:  true,
			browserBin: "/usr/bin/chrome",
			wantNot:    []string{"CI=true", "ROD_BROWSER_BIN"},
		},
		{
			name: "local machine",
			want: []string{"ROD_BROWSER_BIN", "--diagrams client"},
			wantNot: []string{
				"CI=true",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withContainer(t, tt.container)
			t.Setenv("CI", tt.ci)
			t.Setenv("GITHUB_ACTIONS", "")
			t.Setenv("GITLAB_CI", "")
			t.Setenv("JENKINS_URL", "")
			t.Setenv("ROD_BROWSER_BIN", tt.browserBin)

			hint := ForBrowserConnect()

			for _, want := range tt.want {
				if !strings.Contains(hint, want) {
					t.Errorf("hint should contain %q, got %q", want, hint)
				}
			}
			for _, not := range tt.wantNot {
				if strings.Contains(hint, not) {
					t.Errorf("hint should not contain %q, got %q", not, hint)
				}
			}
		})
	}
}

func TestForConfigNotFound(t *testing.T) {
	tests := []struct {
		name     string
		paths    []string
		contains string
	}{
		{
			name:     "empty paths",
			paths:    []string{},
			contains: "--config",
		},
		{
			name:     "with paths",
			paths:    []string{"./site.yaml", "/home/u/.config/go-mdrender/site.yaml"},
			contains: "create /home/u/.config/go-mdrender/site.yaml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			hint := ForConfigNotFound(tt.paths)
			if !strings.Contains(hint, tt.contains) {
				t.Errorf("expected hint to contain %q, got %q", tt.contains, hint)
			}
		})
	}
}

func TestForThemeNotFound(t *testing.T) {
	t.Parallel()

	if hint := ForThemeNotFound(nil); hint != "" {
		t.Errorf("expected empty hint, got %q", hint)
	}
	hint := ForThemeNotFound([]string{"github", "monokai"})
	if !strings.Contains(hint, "github, monokai") {
		t.Errorf("expected theme list, got %q", hint)
	}
}

func TestFormat_Consistency(t *testing.T) {
	t.Parallel()

	hints := []string{
		ForTimeout(),
		ForOutputDirectory(),
		ForContentDir("content"),
		ForConfigNotFound(nil),
		ForThemeNotFound([]string{"github"}),
	}

	for _, h := range hints {
		if !strings.HasPrefix(h, "\n  hint: ") {
			t.Errorf("hint format inconsistent: %q", h)
		}
	}
}
