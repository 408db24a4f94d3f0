package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/pflag"

	html2pdf "github.com/alnah/go-html2pdf"
)

// pdfFlags holds the per-conversion flags shared by convert and serve.
// Only flags the user actually set override the profile.
type pdfFlags struct {
	viewport string
	timeout  time.Duration

	landscape bool
	format    string
	width     string
	height    string

	margin       string
	marginTop    string
	marginBottom string
	marginLeft   string
	marginRight  string

	noHeaderFooter bool
	headerTemplate string
	footerTemplate string

	repeatTableHeader bool
	repeatTableFooter bool
	allowRowBreak     bool
	breakImages       bool
	avoidDivBreak     bool
	noTrueColors      bool

	omitBackground    bool
	noBackground      bool
	scale             float64
	pageRanges        string
	preferCSSPageSize bool
	noJavaScript      bool
	screenMedia       bool
}

func (f *pdfFlags) flagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("pdf", pflag.ContinueOnError)

	flags.StringVar(&f.viewport, "viewport", html2pdf.DefaultViewport, "browser viewport WIDTHxHEIGHT in pixels")
	flags.DurationVarP(&f.timeout, "timeout", "t", html2pdf.DefaultTimeout, "time allowed for the content to load")

	flags.BoolVarP(&f.landscape, "landscape", "l", false, "landscape orientation")
	flags.StringVarP(&f.format, "format", "f", "", "paper format: "+formatNames())
	flags.StringVar(&f.width, "width", "", "paper width, e.g. 210mm (conflicts with --format)")
	flags.StringVar(&f.height, "height", "", "paper height, e.g. 297mm (conflicts with --format)")

	flags.StringVarP(&f.margin, "margin", "m", "", "all four margins, e.g. 1cm")
	flags.StringVar(&f.marginTop, "margin-top", "", "top margin")
	flags.StringVar(&f.marginBottom, "margin-bottom", "", "bottom margin")
	flags.StringVar(&f.marginLeft, "margin-left", "", "left margin")
	flags.StringVar(&f.marginRight, "margin-right", "", "right margin")

	flags.BoolVar(&f.noHeaderFooter, "no-header-footer", false, "do not print header and footer")
	flags.StringVar(&f.headerTemplate, "header-template", "", "header HTML, or @file to read it from a file")
	flags.StringVar(&f.footerTemplate, "footer-template", "", "footer HTML, or @file to read it from a file")

	flags.BoolVar(&f.repeatTableHeader, "repeat-table-header", false, "repeat <thead> on every page (false pins it to the first page)")
	flags.BoolVar(&f.repeatTableFooter, "repeat-table-footer", false, "repeat <tfoot> on every page (false pins it to the last page)")
	flags.BoolVar(&f.allowRowBreak, "allow-row-break", false, "let table rows split across pages")
	flags.BoolVar(&f.breakImages, "break-images", false, "let images split across pages")
	flags.BoolVar(&f.avoidDivBreak, "avoid-div-break", false, "keep each <div> on one page when possible")
	flags.BoolVar(&f.noTrueColors, "no-true-colors", false, "let the browser adjust colors for print")

	flags.BoolVar(&f.omitBackground, "omit-background", false, "transparent page background")
	flags.BoolVar(&f.noBackground, "no-background", false, "do not print background graphics")
	flags.Float64Var(&f.scale, "scale", html2pdf.DefaultScale, "rendering scale, 0.1 to 2")
	flags.StringVar(&f.pageRanges, "page-ranges", "", "pages to print, e.g. 1-3,5")
	flags.BoolVar(&f.preferCSSPageSize, "prefer-css-page-size", false, "let @page size in the document win")
	flags.BoolVar(&f.noJavaScript, "no-javascript", false, "disable JavaScript")
	flags.BoolVar(&f.screenMedia, "screen-media", false, "render with screen instead of print media")

	return flags
}

// apply overlays the flags that were set on the command line onto opts.
func (f *pdfFlags) apply(flags *pflag.FlagSet, fs afero.Fs, opts *html2pdf.Options) error {
	set := flags.Changed

	if set("viewport") {
		opts.Viewport = f.viewport
	}
	if set("timeout") {
		opts.Timeout = f.timeout
	}
	if set("landscape") {
		opts.Landscape = f.landscape
	}
	if set("format") {
		opts.Format = html2pdf.PageFormat(f.format)
	}
	if set("width") {
		opts.Width = html2pdf.Length(f.width)
	}
	if set("height") {
		opts.Height = html2pdf.Length(f.height)
	}

	if set("margin") {
		m := html2pdf.Length(f.margin)
		opts.MarginTop, opts.MarginBottom, opts.MarginLeft, opts.MarginRight = m, m, m, m
	}
	for name, dst := range map[string]*html2pdf.Length{
		"margin-top":    &opts.MarginTop,
		"margin-bottom": &opts.MarginBottom,
		"margin-left":   &opts.MarginLeft,
		"margin-right":  &opts.MarginRight,
	} {
		if set(name) {
			v, _ := flags.GetString(name)
			*dst = html2pdf.Length(v)
		}
	}

	if set("no-header-footer") {
		opts.DisplayHeaderFooter = html2pdf.Bool(!f.noHeaderFooter)
	}
	if set("header-template") {
		tmpl, err := readTemplate(fs, f.headerTemplate)
		if err != nil {
			return err
		}
		opts.HeaderTemplate = tmpl
	}
	if set("footer-template") {
		tmpl, err := readTemplate(fs, f.footerTemplate)
		if err != nil {
			return err
		}
		opts.FooterTemplate = tmpl
	}

	if set("repeat-table-header") {
		opts.RepeatTableHeader = html2pdf.Bool(f.repeatTableHeader)
	}
	if set("repeat-table-footer") {
		opts.RepeatTableFooter = html2pdf.Bool(f.repeatTableFooter)
	}
	if set("allow-row-break") {
		opts.AvoidTableRowBreak = html2pdf.Bool(!f.allowRowBreak)
	}
	if set("break-images") {
		opts.BreakImages = f.breakImages
	}
	if set("avoid-div-break") {
		opts.AvoidDivBreak = f.avoidDivBreak
	}
	if set("no-true-colors") {
		opts.TrueColors = html2pdf.Bool(!f.noTrueColors)
	}

	if set("omit-background") {
		opts.OmitBackground = f.omitBackground
	}
	if set("no-background") {
		opts.PrintBackground = html2pdf.Bool(!f.noBackground)
	}
	if set("scale") {
		opts.Scale = html2pdf.Float(f.scale)
	}
	if set("page-ranges") {
		opts.PageRanges = f.pageRanges
	}
	if set("prefer-css-page-size") {
		opts.PreferCSSPageSize = f.preferCSSPageSize
	}
	if set("no-javascript") {
		opts.DisableJavaScript = f.noJavaScript
	}
	if set("screen-media") {
		opts.ScreenMedia = f.screenMedia
	}

	return nil
}

// readTemplate returns v, or the content of the file it names when v starts with @.
func readTemplate(fs afero.Fs, v string) (string, error) {
	path, ok := strings.CutPrefix(v, "@")
	if !ok {
		return v, nil
	}
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return "", fmt.Errorf("%w: template %s: %w", ErrReadInput, path, err)
	}
	return string(data), nil
}

func formatNames() string {
	formats := html2pdf.Formats()
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}
