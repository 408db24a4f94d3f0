// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-html2pdf/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForBrowserConnect returns hints for browser launch errors.
// Detects CI/Docker environment and suggests the sandbox and binary settings.
func ForBrowserConnect() string {
	var hints []string

	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""

	if (inCI || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "use --no-sandbox or set ROD_NO_SANDBOX=1 for Docker/CI")
	}

	if os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN or --browser to use an installed Chrome")
	}

	hints = append(hints, "run 'html2pdf doctor' to check the setup")

	return formatHints(hints)
}

// ForLoadTimeout returns a hint for content that did not load in time.
func ForLoadTimeout() string {
	return format("slow pages need a longer --timeout (e.g. 30s)")
}

// ForNavigation returns a hint for URLs the browser could not open.
func ForNavigation(source string) string {
	if fileutil.IsURL(source) {
		return format("check that " + source + " is reachable from this machine")
	}
	return ""
}

// ForRender returns a hint for print-to-PDF failures.
func ForRender() string {
	return format("check --page-ranges syntax (e.g. 1-3,5) and header/footer templates")
}

// ForFileWrite returns a hint for output write failures.
func ForFileWrite() string {
	return format("the output directory must already exist and be writable")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config and the user config directory that was searched.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(slashed(p), ".config/html2pdf") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// slashed normalizes separators so Windows paths match too.
func slashed(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
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
