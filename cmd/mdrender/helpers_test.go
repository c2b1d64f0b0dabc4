package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alnah/go-mdrender/internal/logging"
)

// newTestEnv returns an environment with captured output and the given
// environment variables instead of the process environment.
func newTestEnv(vars map[string]string) (*Environment, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	env := &Environment{
		Now:    func() time.Time { return time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC) },
		Stdout: &stdout,
		Stderr: &stderr,
		Getenv: func(k string) string { return vars[k] },
		Environ: func() []string {
			out := make([]string, 0, len(vars))
			for k, v := range vars {
				out = append(out, k+"="+v)
			}
			return out
		},
		Logger: logging.New(io.Discard, "error"),
	}
	return env, &stdout, &stderr
}

func writeTestFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// newTestSite writes a two-page site and returns its root.
func newTestSite(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeTestFile(t, filepath.Join(root, "content", "_index.md"), "---\ntitle: Home\n---\nWelcome.\n")
	writeTestFile(t, filepath.Join(root, "content", "post.md"),
		"---\ntitle: Post\ndate: \"2024-03-15\"\n---\n## Intro\n\n```go\nfunc main() {}\n```\n")
	return root
}
