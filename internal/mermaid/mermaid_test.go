package mermaid

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/alnah/go-mdrender/internal/browser"
)

type mockEvaluator struct {
	out  string
	err  error
	args []any
}

func (m *mockEvaluator) Eval(_ context.Context, _ string, args ...any) (string, error) {
	m.args = args
	return m.out, m.err
}

func TestDiagramType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		src     string
		want    string
		wantErr bool
	}{
		{"flowchart", "graph TD\n  A-->B\n", "graph", false},
		{"sequence", "sequenceDiagram\n  A->>B: hi\n", "sequenceDiagram", false},
		{"comments and blanks", "\n%% note\n\tpie title Pets\n", "pie", false},
		{"frontmatter", "---\ntitle: x\n---\nflowchart LR\n A-->B", "flowchart", false},
		{"empty", "  \n", "", true},
		{"only frontmatter", "---\ntitle: x\n---\n", "", true},
		{"unknown type", "not a diagram\n", "", true},
		{"long single line", "graph TD; " + strings.Repeat("A-->B; ", 10000), "graph", false},
		{"long comment before header", "%% " + strings.Repeat("x", 70000) + "\ngraph TD\n", "graph", false},
		{"long frontmatter line", "---\ntitle: " + strings.Repeat("y", 70000) + "\n---\npie\n", "pie", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := DiagramType(tt.src)
			if tt.wantErr {
				if !errors.Is(err, ErrRender) {
					t.Errorf("DiagramType() error = %v, want ErrRender", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("DiagramType() = %q, %v; want %q", got, err, tt.want)
			}
		})
	}
}

func TestClient_Render(t *testing.T) {
	t.Parallel()

	got, err := Client{}.Render(context.Background(), "graph TD\n  A[\"x<y\"]-->B & C\n")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	wantContains := []string{"graph TD", "&quot;x&lt;y&quot;", "--&gt;B &amp; C"}
	for _, want := range wantContains {
		if !strings.Contains(got, want) {
			t.Errorf("Render() missing %q in %q", want, got)
		}
	}

	if _, err := (Client{}).Render(context.Background(), "nonsense"); !errors.Is(err, ErrRender) {
		t.Errorf("Render(invalid) error = %v, want ErrRender", err)
	}
}

func TestServer_Render(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		src     string
		mock    *mockEvaluator
		wantErr error
	}{
		{"svg", "graph TD\nA-->B", &mockEvaluator{out: `<svg id="mermaid-1"></svg>`}, nil},
		{"syntax error", "graph TD\nA-->", &mockEvaluator{err: browser.ErrEval}, ErrRender},
		{"no svg", "graph TD\nA-->B", &mockEvaluator{out: "oops"}, ErrRender},
		{"browser down", "graph TD\nA-->B", &mockEvaluator{err: browser.ErrBrowserConnect}, browser.ErrBrowserConnect},
		{"invalid before browser", "bogus", &mockEvaluator{}, ErrRender},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := NewServer(tt.mock).Render(context.Background(), tt.src)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Render() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil || !strings.HasPrefix(got, "<svg") {
				t.Errorf("Render() = %q, %v", got, err)
			}
		})
	}
}

func TestServer_Render_UniqueIDs(t *testing.T) {
	t.Parallel()

	m := &mockEvaluator{out: "<svg/>"}
	s := NewServer(m)
	seen := map[any]bool{}
	for range 3 {
		if _, err := s.Render(context.Background(), "pie\n\"a\": 1"); err != nil {
			t.Fatalf("Render() error = %v", err)
		}
		id := m.args[1]
		if seen[id] {
			t.Fatalf("duplicate render id %v", id)
		}
		seen[id] = true
	}
}

func TestParseMode(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]Mode{"": ModeClient, "client": ModeClient, "Mermaid": ModeMermaid} {
		if got, err := ParseMode(in); err != nil || got != want {
			t.Errorf("ParseMode(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseMode("plantuml"); !errors.Is(err, ErrUnknownMode) {
		t.Errorf("ParseMode(plantuml) error = %v", err)
	}
}
