package browser

import "errors"

// Sentinel errors for browser operations.
var (
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrScriptLoad     = errors.New("failed to load script")
	ErrEval           = errors.New("script evaluation failed")
	ErrClosed         = errors.New("browser closed")
)
