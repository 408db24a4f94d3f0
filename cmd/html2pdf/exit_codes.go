package main

import (
	"errors"
	"os"
	"strings"

	html2pdf "github.com/alnah/go-html2pdf"
	"github.com/alnah/go-html2pdf/internal/config"
	"github.com/alnah/go-html2pdf/internal/hints"
)

// Exit codes for the html2pdf CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful conversion
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or options
	ExitIO      = 3 // Input not readable, output not writable
	ExitBrowser = 4 // Browser launch, load or print errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, html2pdf.ErrBrowserConnect) ||
		errors.Is(err, html2pdf.ErrPageCreate) ||
		errors.Is(err, html2pdf.ErrLoadTimeout) ||
		errors.Is(err, html2pdf.ErrNavigation) ||
		errors.Is(err, html2pdf.ErrRender) {
		return ExitBrowser
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, html2pdf.ErrConfiguration) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrConfigInvalid) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		strings.HasPrefix(err.Error(), "unknown command") {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, html2pdf.ErrFileWrite) ||
		errors.Is(err, html2pdf.ErrInvalidPayload) ||
		errors.Is(err, ErrReadInput) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	return ExitGeneral
}

// hintFor returns an actionable hint for err, or "". source is the URL or
// file being converted, when known.
func hintFor(err error, source string) string {
	var notFound *config.NotFoundError
	switch {
	case errors.Is(err, html2pdf.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, html2pdf.ErrLoadTimeout):
		return hints.ForLoadTimeout()
	case errors.Is(err, html2pdf.ErrNavigation):
		return hints.ForNavigation(source)
	case errors.Is(err, html2pdf.ErrRender):
		return hints.ForRender()
	case errors.Is(err, html2pdf.ErrFileWrite):
		return hints.ForFileWrite()
	case errors.As(err, &notFound):
		return hints.ForConfigNotFound(notFound.Tried)
	}
	return ""
}
