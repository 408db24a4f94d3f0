package html2pdf

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Resolve fills every unset option with its default and validates the result.
// opts is taken by value and never modified.
//
// Page size policy: Format and Width/Height are mutually exclusive unless
// PreferCSSPageSize is set. With PreferCSSPageSize, the document's own
// @page size wins in the browser and Format takes precedence over
// Width/Height as the fallback size.
//
// All failures wrap ErrConfiguration.
func Resolve(opts Options) (*Request, error) {
	req := &Request{
		URL:                 strings.TrimSpace(opts.URL),
		Timeout:             opts.Timeout,
		Landscape:           opts.Landscape,
		DisplayHeaderFooter: boolOr(opts.DisplayHeaderFooter, true),
		HeaderTemplate:      opts.HeaderTemplate,
		FooterTemplate:      opts.FooterTemplate,
		RepeatTableHeader:   copyBool(opts.RepeatTableHeader),
		RepeatTableFooter:   copyBool(opts.RepeatTableFooter),
		AvoidTableRowBreak:  boolOr(opts.AvoidTableRowBreak, true),
		AvoidImageBreak:     !opts.BreakImages,
		AvoidDivBreak:       opts.AvoidDivBreak,
		TrueColors:          boolOr(opts.TrueColors, true),
		OmitBackground:      opts.OmitBackground,
		PrintBackground:     boolOr(opts.PrintBackground, true),
		Scale:               DefaultScale,
		PageRanges:          strings.TrimSpace(opts.PageRanges),
		Path:                opts.Path,
		PreferCSSPageSize:   opts.PreferCSSPageSize,
		JavaScriptEnabled:   !opts.DisableJavaScript,
		ScreenMedia:         opts.ScreenMedia,
	}

	enc, ok := encodingAliases[strings.ToLower(string(opts.Encoding))]
	if !ok {
		return nil, configErrorf("encoding: unknown value %q (must be base64 or binary)", opts.Encoding)
	}
	req.Encoding = enc

	if req.URL != "" {
		if err := validateURL(req.URL); err != nil {
			return nil, err
		}
	}

	viewport := opts.Viewport
	if viewport == "" {
		viewport = DefaultViewport
	}
	w, h, err := ParseViewport(viewport)
	if err != nil {
		return nil, err
	}
	req.ViewportWidth, req.ViewportHeight = w, h

	if req.Timeout < 0 {
		return nil, configErrorf("timeout: must not be negative, got %s", opts.Timeout)
	}
	if req.Timeout == 0 {
		req.Timeout = DefaultTimeout
	}

	if opts.Scale != nil {
		// Written as a range check so NaN fails too.
		if s := *opts.Scale; !(s >= MinScale && s <= MaxScale) {
			return nil, configErrorf("scale: must be between %.1f and %.1f, got %g", MinScale, MaxScale, *opts.Scale)
		}
		req.Scale = *opts.Scale
	}

	if err := resolvePaper(opts, req); err != nil {
		return nil, err
	}

	margins := []struct {
		name string
		in   Length
		out  *float64
	}{
		{"marginTop", opts.MarginTop, &req.MarginTop},
		{"marginBottom", opts.MarginBottom, &req.MarginBottom},
		{"marginLeft", opts.MarginLeft, &req.MarginLeft},
		{"marginRight", opts.MarginRight, &req.MarginRight},
	}
	for _, m := range margins {
		v, err := m.in.Inches()
		if err != nil {
			return nil, configErrorf("%s: %v", m.name, err)
		}
		*m.out = v
	}

	return req, nil
}

// resolvePaper applies the Format vs Width/Height policy documented on Resolve.
func resolvePaper(opts Options, req *Request) error {
	hasSize := !opts.Width.IsZero() || !opts.Height.IsZero()

	if opts.Format != "" {
		size, ok := paperSizes[PageFormat(strings.ToLower(string(opts.Format)))]
		if !ok {
			return configErrorf("format: unknown value %q", opts.Format)
		}
		if hasSize && !opts.PreferCSSPageSize {
			return configErrorf("format %q conflicts with width/height; set only one, or enable preferCSSPageSize to use format as the fallback", opts.Format)
		}
		req.PaperWidth = Float(size.width)
		req.PaperHeight = Float(size.height)
		return nil
	}

	if !hasSize {
		return nil
	}

	width, err := opts.Width.Inches()
	if err != nil {
		return configErrorf("width: %v", err)
	}
	height, err := opts.Height.Inches()
	if err != nil {
		return configErrorf("height: %v", err)
	}
	if width == 0 {
		width = fallbackPaperWidth
	}
	if height == 0 {
		height = fallbackPaperHeight
	}
	req.PaperWidth = Float(width)
	req.PaperHeight = Float(height)
	return nil
}

// ParseViewport parses a "WIDTHxHEIGHT" string into positive pixel sizes.
func ParseViewport(s string) (width, height int, err error) {
	ws, hs, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return 0, 0, configErrorf("viewport: %q is not WIDTHxHEIGHT", s)
	}
	width, werr := parseDimension(ws)
	height, herr := parseDimension(hs)
	if werr != nil || herr != nil {
		return 0, 0, configErrorf("viewport: %q is not WIDTHxHEIGHT", s)
	}
	if width <= 0 || height <= 0 {
		return 0, 0, configErrorf("viewport: dimensions must be positive, got %dx%d", width, height)
	}
	return width, height, nil
}

// parseDimension accepts plain decimal digits only, no sign.
func parseDimension(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.TrimLeft(s, "0123456789") != "" {
		return 0, fmt.Errorf("not a pixel count: %q", s)
	}
	return strconv.Atoi(s)
}

// validateURL accepts absolute http, https and file URLs.
func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return configErrorf("url: %v", err)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		if u.Host == "" {
			return configErrorf("url: %q has no host", raw)
		}
	case "file":
	default:
		return configErrorf("url: %q must be an absolute http, https or file URL", raw)
	}
	return nil
}

func configErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

func copyBool(v *bool) *bool {
	if v == nil {
		return nil
	}
	return Bool(*v)
}
