package browser

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-rod/rod"
)

// Session is one page with a fixed set of scripts. Evaluations on a session
// are serialized.
type Session struct {
	browser *Browser
	scripts []Script
	init    string

	mu   sync.Mutex
	page *rod.Page
}

// Eval evaluates js, a function expression, with args and returns the
// awaited result. Thrown exceptions and rejected promises are returned as
// errors wrapping ErrEval.
func (s *Session) Eval(ctx context.Context, js string, args ...any) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	timeout, err := s.timeout(ctx)
	if err != nil {
		return "", err
	}

	page, err := s.ensurePage(ctx, timeout)
	if err != nil {
		return "", err
	}

	res, err := page.Context(ctx).Timeout(timeout).Eval(js, args...)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", fmt.Errorf("%w: %v", ErrEval, err)
	}
	return res.Value.Str(), nil
}

// timeout prefers the context deadline over the browser default.
func (s *Session) timeout(ctx context.Context) (time.Duration, error) {
	timeout := s.browser.Timeout()
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return 0, context.DeadlineExceeded
		}
	}
	return timeout, nil
}

// ensurePage creates the page and loads the scripts on first use.
// Callers must hold s.mu.
func (s *Session) ensurePage(ctx context.Context, timeout time.Duration) (*rod.Page, error) {
	if s.page != nil {
		return s.page, nil
	}

	page, err := s.browser.newPage()
	if err != nil {
		return nil, err
	}

	p := page.Context(ctx).Timeout(timeout)
	for _, script := range s.scripts {
		var err error
		if script.URL != "" {
			err = p.AddScriptTag(script.URL, "")
		} else {
			err = p.AddScriptTag("", script.Content)
		}
		if err != nil {
			_ = page.Close()
			return nil, fmt.Errorf("%w: %s: %v", ErrScriptLoad, scriptName(script), err)
		}
	}
	if s.init != "" {
		if _, err := p.Eval(s.init); err != nil {
			_ = page.Close()
			return nil, fmt.Errorf("%w: init: %v", ErrScriptLoad, err)
		}
	}

	s.page = page
	return page, nil
}

func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.page != nil {
		_ = s.page.Close()
		s.page = nil
	}
}

func scriptName(s Script) string {
	if s.URL != "" {
		return s.URL
	}
	return "inline script"
}
