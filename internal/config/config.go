// Package config loads html2pdf profiles: YAML files with conversion
// defaults, browser settings and server settings, overlaid by HTML2PDF_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	html2pdf "github.com/alnah/go-html2pdf"
	"github.com/alnah/go-html2pdf/internal/fileutil"
	"github.com/alnah/go-html2pdf/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrConfigInvalid   = errors.New("invalid config")
)

// AppDirName is the directory under the user config dir searched for profiles.
const AppDirName = "html2pdf"

// Server defaults.
const (
	DefaultAddr            = ":8080"
	DefaultRateLimit       = 60 // requests per minute per client IP
	DefaultMaxBodyBytes    = 10 << 20
	DefaultShutdownTimeout = 10 * time.Second
)

// Config holds a complete profile.
type Config struct {
	Browser BrowserConfig `yaml:"browser"`
	PDF     PDFConfig     `yaml:"pdf"`
	Server  ServerConfig  `yaml:"server"`
}

// BrowserConfig selects and configures the Chrome binary.
type BrowserConfig struct {
	Bin       string `yaml:"bin" validate:"max=4096"` // Empty = go-rod lookup / ROD_BROWSER_BIN
	NoSandbox bool   `yaml:"noSandbox"`
}

// PDFConfig mirrors html2pdf.Options for YAML. Pointer fields keep the
// library default when omitted.
type PDFConfig struct {
	Encoding string        `yaml:"encoding,omitempty" validate:"omitempty,oneof=base64 binary raw buffer"`
	Viewport string        `yaml:"viewport,omitempty" validate:"omitempty,viewport"`
	Timeout  time.Duration `yaml:"timeout,omitempty" validate:"gte=0"`

	Landscape bool         `yaml:"landscape,omitempty"`
	Format    string       `yaml:"format,omitempty" validate:"omitempty,format"`
	Width     string       `yaml:"width,omitempty" validate:"omitempty,length"`
	Height    string       `yaml:"height,omitempty" validate:"omitempty,length"`
	Margin    MarginConfig `yaml:"margin,omitempty"`

	DisplayHeaderFooter *bool  `yaml:"displayHeaderFooter,omitempty"`
	HeaderTemplate      string `yaml:"headerTemplate,omitempty" validate:"max=65536"`
	FooterTemplate      string `yaml:"footerTemplate,omitempty" validate:"max=65536"`

	RepeatTableHeader  *bool `yaml:"repeatTableHeader,omitempty"`
	RepeatTableFooter  *bool `yaml:"repeatTableFooter,omitempty"`
	AvoidTableRowBreak *bool `yaml:"avoidTableRowBreak,omitempty"`
	BreakImages        bool  `yaml:"breakImages,omitempty"`
	AvoidDivBreak      bool  `yaml:"avoidDivBreak,omitempty"`
	TrueColors         *bool `yaml:"trueColors,omitempty"`

	OmitBackground    bool     `yaml:"omitBackground,omitempty"`
	PrintBackground   *bool    `yaml:"printBackground,omitempty"`
	Scale             *float64 `yaml:"scale,omitempty" validate:"omitempty,gte=0.1,lte=2"`
	PageRanges        string   `yaml:"pageRanges,omitempty" validate:"max=256"`
	PreferCSSPageSize bool     `yaml:"preferCSSPageSize,omitempty"`
	DisableJavaScript bool     `yaml:"disableJavaScript,omitempty"`
	ScreenMedia       bool     `yaml:"screenMedia,omitempty"`
}

// MarginConfig holds page margins as lengths ("1cm", "0.5in", "48").
type MarginConfig struct {
	Top    string `yaml:"top,omitempty" validate:"omitempty,length"`
	Bottom string `yaml:"bottom,omitempty" validate:"omitempty,length"`
	Left   string `yaml:"left,omitempty" validate:"omitempty,length"`
	Right  string `yaml:"right,omitempty" validate:"omitempty,length"`
}

// ServerConfig configures `html2pdf serve`.
type ServerConfig struct {
	Addr            string        `yaml:"addr" validate:"required,hostname_port"`
	RateLimit       int           `yaml:"rateLimit" validate:"gte=0"` // 0 disables limiting
	MaxBodyBytes    int64         `yaml:"maxBodyBytes" validate:"gt=0"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout" validate:"gt=0"`
}

// DefaultConfig returns a profile that keeps every library default.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            DefaultAddr,
			RateLimit:       DefaultRateLimit,
			MaxBodyBytes:    DefaultMaxBodyBytes,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
	}
}

// Options converts the PDF section to library options.
func (p PDFConfig) Options() html2pdf.Options {
	return html2pdf.Options{
		Encoding:            html2pdf.Encoding(p.Encoding),
		Viewport:            p.Viewport,
		Timeout:             p.Timeout,
		Landscape:           p.Landscape,
		Format:              html2pdf.PageFormat(p.Format),
		Width:               html2pdf.Length(p.Width),
		Height:              html2pdf.Length(p.Height),
		MarginTop:           html2pdf.Length(p.Margin.Top),
		MarginBottom:        html2pdf.Length(p.Margin.Bottom),
		MarginLeft:          html2pdf.Length(p.Margin.Left),
		MarginRight:         html2pdf.Length(p.Margin.Right),
		DisplayHeaderFooter: p.DisplayHeaderFooter,
		HeaderTemplate:      p.HeaderTemplate,
		FooterTemplate:      p.FooterTemplate,
		RepeatTableHeader:   p.RepeatTableHeader,
		RepeatTableFooter:   p.RepeatTableFooter,
		AvoidTableRowBreak:  p.AvoidTableRowBreak,
		BreakImages:         p.BreakImages,
		AvoidDivBreak:       p.AvoidDivBreak,
		TrueColors:          p.TrueColors,
		OmitBackground:      p.OmitBackground,
		PrintBackground:     p.PrintBackground,
		Scale:               p.Scale,
		PageRanges:          p.PageRanges,
		PreferCSSPageSize:   p.PreferCSSPageSize,
		DisableJavaScript:   p.DisableJavaScript,
		ScreenMedia:         p.ScreenMedia,
	}
}

// Clone returns a copy that shares no pointers with p.
func (p PDFConfig) Clone() PDFConfig {
	c := p
	c.DisplayHeaderFooter = cloneBool(p.DisplayHeaderFooter)
	c.RepeatTableHeader = cloneBool(p.RepeatTableHeader)
	c.RepeatTableFooter = cloneBool(p.RepeatTableFooter)
	c.AvoidTableRowBreak = cloneBool(p.AvoidTableRowBreak)
	c.TrueColors = cloneBool(p.TrueColors)
	c.PrintBackground = cloneBool(p.PrintBackground)
	if p.Scale != nil {
		v := *p.Scale
		c.Scale = &v
	}
	return c
}

// DecodePDF decodes PDF settings in YAML or JSON over base. Keys missing
// from data keep base values; unknown keys are errors.
func DecodePDF(data []byte, base PDFConfig) (PDFConfig, error) {
	p := base.Clone()
	if err := yamlutil.DecodeStrict(data, &p); err != nil {
		return PDFConfig{}, fmt.Errorf("%w: %w", ErrConfigParse, err)
	}
	if err := validateStruct(&p); err != nil {
		return PDFConfig{}, err
	}
	return p, nil
}

func cloneBool(v *bool) *bool {
	if v == nil {
		return nil
	}
	b := *v
	return &b
}

// Validate checks every field against its rules and reports all violations
// at once, wrapped in ErrConfigInvalid.
func (c *Config) Validate() error {
	return validateStruct(c)
}

// LoadConfig loads a profile from a file path or profile name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's searched in the current directory and then in the user
// config directory. Missing fields keep DefaultConfig values.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Tried: []string{configPath}}
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.DecodeStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrConfigParse, configPath, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", configPath, err)
	}

	return cfg, nil
}

// Encode renders cfg as YAML.
func Encode(cfg *Config) ([]byte, error) {
	return yamlutil.Encode(cfg)
}

// NotFoundError lists the locations searched for a profile.
type NotFoundError struct {
	Tried []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: tried %s", ErrConfigNotFound, strings.Join(e.Tried, ", "))
}

// Unwrap lets errors.Is match ErrConfigNotFound.
func (e *NotFoundError) Unwrap() error {
	return ErrConfigNotFound
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// resolveConfigPath searches for a profile by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, <user config dir>/html2pdf/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, AppDirName, name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", &NotFoundError{Tried: triedPaths}
}
