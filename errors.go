package html2pdf

import "errors"

// Sentinel errors for library operations.
// Browser failures wrap both the sentinel and the original error, so callers
// can match the category with errors.Is and still reach the cause with errors.As.
var (
	// ErrConfiguration reports a malformed option. Returned before any browser work.
	ErrConfiguration = errors.New("invalid configuration")

	// Session acquisition errors.
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")

	// Conversion errors.
	ErrLoadTimeout = errors.New("content did not finish loading in time")
	ErrNavigation  = errors.New("failed to load content")
	ErrRender      = errors.New("PDF rendering failed")
	ErrFileWrite   = errors.New("failed to write PDF file")

	// ErrInvalidPayload reports a base64 payload that does not decode.
	ErrInvalidPayload = errors.New("invalid base64 payload")
)
