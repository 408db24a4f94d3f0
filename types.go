package html2pdf

import "time"

// Encoding selects how Convert returns the PDF.
type Encoding string

// Output encodings.
const (
	EncodingBase64 Encoding = "base64" // standard base64 text, safe for string-only channels
	EncodingBinary Encoding = "binary" // raw PDF bytes
)

// encodingAliases maps accepted spellings to canonical encodings.
// "buffer" is kept for callers migrating from the Node.js library.
var encodingAliases = map[string]Encoding{
	"":       EncodingBase64,
	"base64": EncodingBase64,
	"binary": EncodingBinary,
	"raw":    EncodingBinary,
	"buffer": EncodingBinary,
}

// PageFormat names a paper size.
type PageFormat string

// Paper formats.
const (
	FormatLetter  PageFormat = "letter"
	FormatLegal   PageFormat = "legal"
	FormatTabloid PageFormat = "tabloid"
	FormatLedger  PageFormat = "ledger"
	FormatA0      PageFormat = "a0"
	FormatA1      PageFormat = "a1"
	FormatA2      PageFormat = "a2"
	FormatA3      PageFormat = "a3"
	FormatA4      PageFormat = "a4"
	FormatA5      PageFormat = "a5"
	FormatA6      PageFormat = "a6"
)

// paperSize is a page size in inches.
type paperSize struct {
	width  float64
	height float64
}

// paperSizes holds the dimensions Chromium uses for each named format.
var paperSizes = map[PageFormat]paperSize{
	FormatLetter:  {8.5, 11},
	FormatLegal:   {8.5, 14},
	FormatTabloid: {11, 17},
	FormatLedger:  {17, 11},
	FormatA0:      {33.1, 46.8},
	FormatA1:      {23.4, 33.1},
	FormatA2:      {16.54, 23.4},
	FormatA3:      {11.7, 16.54},
	FormatA4:      {8.27, 11.7},
	FormatA5:      {5.83, 8.27},
	FormatA6:      {4.13, 5.83},
}

// Formats returns the supported paper formats in display order.
func Formats() []PageFormat {
	return []PageFormat{
		FormatLetter, FormatLegal, FormatTabloid, FormatLedger,
		FormatA0, FormatA1, FormatA2, FormatA3, FormatA4, FormatA5, FormatA6,
	}
}

// Defaults applied by Resolve.
const (
	DefaultViewport = "1920x1080"
	DefaultTimeout  = 5 * time.Second
	DefaultScale    = 1.0
	MinScale        = 0.1
	MaxScale        = 2.0
)

// Fallback paper dimensions when only one of Width/Height is given (US Letter).
const (
	fallbackPaperWidth  = 8.5
	fallbackPaperHeight = 11
)

// Options holds caller overrides for one conversion.
// The zero value is valid and means "all defaults". Pointer fields
// distinguish "not set" from an explicit false or zero.
type Options struct {
	URL      string   // Page to print; when set, the content argument is ignored
	Encoding Encoding // "" = base64
	Viewport string   // "WIDTHxHEIGHT" in pixels, "" = 1920x1080
	Timeout  time.Duration

	Landscape bool
	Format    PageFormat
	Width     Length
	Height    Length

	MarginTop    Length
	MarginBottom Length
	MarginLeft   Length
	MarginRight  Length

	DisplayHeaderFooter *bool // nil = true
	HeaderTemplate      string
	FooterTemplate      string

	RepeatTableHeader  *bool // nil = leave thead alone
	RepeatTableFooter  *bool // nil = leave tfoot alone
	AvoidTableRowBreak *bool // nil = true
	BreakImages        bool  // false keeps images whole
	AvoidDivBreak      bool
	TrueColors         *bool // nil = true

	OmitBackground    bool
	PrintBackground   *bool    // nil = true
	Scale             *float64 // nil = 1.0
	PageRanges        string   // e.g. "1-12", "" = all pages
	Path              string   // write the PDF here as well
	PreferCSSPageSize bool
	DisableJavaScript bool
	ScreenMedia       bool
}

// Request is a fully resolved conversion. Build it with Resolve.
type Request struct {
	URL      string
	Encoding Encoding

	ViewportWidth  int
	ViewportHeight int
	Timeout        time.Duration

	Landscape bool

	// Paper size in inches. Nil means the browser default.
	PaperWidth  *float64
	PaperHeight *float64

	// Margins in inches.
	MarginTop    float64
	MarginBottom float64
	MarginLeft   float64
	MarginRight  float64

	DisplayHeaderFooter bool
	HeaderTemplate      string
	FooterTemplate      string

	RepeatTableHeader  *bool
	RepeatTableFooter  *bool
	AvoidTableRowBreak bool
	AvoidImageBreak    bool
	AvoidDivBreak      bool
	TrueColors         bool

	OmitBackground    bool
	PrintBackground   bool
	Scale             float64
	PageRanges        string
	Path              string
	PreferCSSPageSize bool
	JavaScriptEnabled bool
	ScreenMedia       bool
}

// Bool returns a pointer to v, for the optional fields of Options.
func Bool(v bool) *bool {
	return &v
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}
