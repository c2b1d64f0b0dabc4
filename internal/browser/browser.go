package browser

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-mdrender/internal/process"
)

// DefaultTimeout bounds page setup and each evaluation when the caller's
// context has no deadline.
const DefaultTimeout = 30 * time.Second

// Environment variables read when launching Chrome.
const (
	EnvBrowserBin = "ROD_BROWSER_BIN"
	EnvCI         = "CI"
)

// Evaluator runs a JavaScript function expression with arguments and
// returns its (awaited) result as a string.
type Evaluator interface {
	Eval(ctx context.Context, js string, args ...any) (string, error)
}

// Compile-time interface check.
var _ Evaluator = (*Session)(nil)

// Script is loaded into a session page before the first evaluation.
// URL takes precedence over Content.
type Script struct {
	URL     string
	Content string
}

// Browser owns one lazily launched Chrome process shared by its sessions.
type Browser struct {
	mu       sync.Mutex
	timeout  time.Duration
	launcher *launcher.Launcher
	rod      *rod.Browser
	sessions []*Session
	closed   bool
}

// Option configures a Browser.
type Option func(*Browser)

// WithTimeout sets the default evaluation timeout.
// Panics if d <= 0.
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("browser: WithTimeout duration must be positive")
	}
	return func(b *Browser) {
		b.timeout = d
	}
}

// New creates a Browser. No process is started until a session evaluates.
func New(opts ...Option) *Browser {
	b := &Browser{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Timeout returns the default evaluation timeout.
func (b *Browser) Timeout() time.Duration {
	return b.timeout
}

// ensureBrowser lazily launches and connects to Chrome.
// Callers must hold b.mu.
func (b *Browser) ensureBrowser() (*rod.Browser, error) {
	if b.closed {
		return nil, ErrClosed
	}
	if b.rod != nil {
		return b.rod, nil
	}

	l := launcher.New()

	// Use pre-installed browser if specified (Docker/containerized environments)
	if bin := os.Getenv(EnvBrowserBin); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv(EnvCI) == "true" || os.Getenv(EnvBrowserBin) != "" {
		l = l.NoSandbox(true)
	}
	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	rb := rod.New().ControlURL(u)
	if err := rb.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	b.launcher, b.rod = l, rb
	return rb, nil
}

// newPage opens a blank page on the shared browser.
func (b *Browser) newPage() (*rod.Page, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	rb, err := b.ensureBrowser()
	if err != nil {
		return nil, err
	}
	page, err := rb.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	return page, nil
}

// Session returns a new session that loads scripts, then runs init, on its
// own page.
func (b *Browser) Session(init string, scripts ...Script) *Session {
	s := &Session{browser: b, scripts: scripts, init: init}
	b.mu.Lock()
	b.sessions = append(b.sessions, s)
	b.mu.Unlock()
	return s
}

// Close closes every session page and terminates Chrome. It is safe to call
// more than once.
func (b *Browser) Close() error {
	b.mu.Lock()
	b.closed = true
	sessions := b.sessions
	b.sessions = nil
	b.mu.Unlock()

	// Sessions lock themselves before the browser, so they are closed
	// without holding b.mu.
	for _, s := range sessions {
		s.close()
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.rod == nil {
		return nil
	}
	err := b.rod.Close()
	if pid := b.launcher.PID(); pid > 0 {
		process.KillProcessGroup(pid)
	}
	b.launcher.Kill()
	b.rod, b.launcher = nil, nil
	return err
}
