// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-mdrender/internal/browser"
	"github.com/alnah/go-mdrender/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForBrowserConnect returns hints for browser connection errors, raised only
// when math or diagrams render server-side.
func ForBrowserConnect() string {
	var hints []string

	inCI := os.Getenv(browser.EnvCI) != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""

	// The launcher drops the sandbox only for CI=true or a custom binary.
	sandboxOff := os.Getenv(browser.EnvCI) == "true" || os.Getenv(browser.EnvBrowserBin) != ""
	if (inCI || IsInContainer()) && !sandboxOff {
		hints = append(hints, "set CI=true to disable the Chrome sandbox in Docker/CI")
	}

	if os.Getenv(browser.EnvBrowserBin) == "" {
		hints = append(hints, "set "+browser.EnvBrowserBin+" to use custom Chrome")
	}

	hints = append(hints, "or use --math client --diagrams client to skip Chrome")

	return formatHints(hints)
}

// ForTimeout returns a hint about increasing timeout for slow operations.
func ForTimeout() string {
	return format("for large diagrams, use --timeout flag")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/go-mdrender/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, "go-mdrender") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForContentDir returns a hint for a missing content directory.
func ForContentDir(dir string) string {
	return format("create " + dir + " or pass the site root: mdrender build <dir>")
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForThemeNotFound lists the available highlight themes.
func ForThemeNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", ") + " (mdrender css --list)")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
