package config

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/mstoykov/envconfig"
)

// EnvPrefix is the prefix shared by every recognized environment variable.
const EnvPrefix = "HTML2PDF_"

// EnvConfig holds overrides read from HTML2PDF_* variables.
// Nil fields were not set.
type EnvConfig struct {
	ConfigPath *string `envconfig:"HTML2PDF_CONFIG"`
	Workers    *int    `envconfig:"HTML2PDF_WORKERS"`

	BrowserBin *string `envconfig:"HTML2PDF_BROWSER_BIN"`
	NoSandbox  *bool   `envconfig:"HTML2PDF_NO_SANDBOX"`

	Encoding          *string        `envconfig:"HTML2PDF_ENCODING"`
	Viewport          *string        `envconfig:"HTML2PDF_VIEWPORT"`
	Timeout           *time.Duration `envconfig:"HTML2PDF_TIMEOUT"`
	Format            *string        `envconfig:"HTML2PDF_FORMAT"`
	Landscape         *bool          `envconfig:"HTML2PDF_LANDSCAPE"`
	Scale             *float64       `envconfig:"HTML2PDF_SCALE"`
	PrintBackground   *bool          `envconfig:"HTML2PDF_PRINT_BACKGROUND"`
	DisableJavaScript *bool          `envconfig:"HTML2PDF_DISABLE_JAVASCRIPT"`
	ScreenMedia       *bool          `envconfig:"HTML2PDF_SCREEN_MEDIA"`

	ServerAddr *string `envconfig:"HTML2PDF_SERVER_ADDR"`
	RateLimit  *int    `envconfig:"HTML2PDF_RATE_LIMIT"`
}

// knownEnvVars lists valid HTML2PDF_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"HTML2PDF_CONFIG":             true,
	"HTML2PDF_WORKERS":            true,
	"HTML2PDF_BROWSER_BIN":        true,
	"HTML2PDF_NO_SANDBOX":         true,
	"HTML2PDF_ENCODING":           true,
	"HTML2PDF_VIEWPORT":           true,
	"HTML2PDF_TIMEOUT":            true,
	"HTML2PDF_FORMAT":             true,
	"HTML2PDF_LANDSCAPE":          true,
	"HTML2PDF_SCALE":              true,
	"HTML2PDF_PRINT_BACKGROUND":   true,
	"HTML2PDF_DISABLE_JAVASCRIPT": true,
	"HTML2PDF_SCREEN_MEDIA":       true,
	"HTML2PDF_SERVER_ADDR":        true,
	"HTML2PDF_RATE_LIMIT":         true,

	// Read directly by `html2pdf doctor`.
	"HTML2PDF_CONTAINER": true,
}

// LoadEnv reads HTML2PDF_* variables through lookup (os.LookupEnv when nil).
// Malformed values, such as HTML2PDF_TIMEOUT=soon, are errors.
func LoadEnv(lookup func(string) (string, bool)) (*EnvConfig, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	env := &EnvConfig{}
	if err := envconfig.Process("", env, lookup); err != nil {
		return nil, fmt.Errorf("%w: environment: %w", ErrConfigInvalid, err)
	}
	return env, nil
}

// Apply overlays the set variables onto cfg. Environment wins over the
// config file; CLI flags are applied afterwards by the caller.
func (e *EnvConfig) Apply(cfg *Config) {
	setString(&cfg.Browser.Bin, e.BrowserBin)
	setBool(&cfg.Browser.NoSandbox, e.NoSandbox)

	setString(&cfg.PDF.Encoding, e.Encoding)
	setString(&cfg.PDF.Viewport, e.Viewport)
	if e.Timeout != nil {
		cfg.PDF.Timeout = *e.Timeout
	}
	setString(&cfg.PDF.Format, e.Format)
	setBool(&cfg.PDF.Landscape, e.Landscape)
	if e.Scale != nil {
		cfg.PDF.Scale = e.Scale
	}
	if e.PrintBackground != nil {
		cfg.PDF.PrintBackground = e.PrintBackground
	}
	setBool(&cfg.PDF.DisableJavaScript, e.DisableJavaScript)
	setBool(&cfg.PDF.ScreenMedia, e.ScreenMedia)

	setString(&cfg.Server.Addr, e.ServerAddr)
	if e.RateLimit != nil {
		cfg.Server.RateLimit = *e.RateLimit
	}
}

// UnknownEnvVars returns HTML2PDF_* names in environ that html2pdf does not
// read, sorted. Helps catch typos like HTML2PDF_TIMEUOT.
func UnknownEnvVars(environ []string) []string {
	var unknown []string
	for _, kv := range environ {
		if !strings.HasPrefix(kv, EnvPrefix) {
			continue
		}
		name, _, _ := strings.Cut(kv, "=")
		if !knownEnvVars[name] {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	return unknown
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
