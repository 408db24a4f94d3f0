// Package html2pdf converts HTML documents and web pages to PDF using
// headless Chrome.
//
// # Quick Start
//
// Convert an HTML string and get the PDF back as raw bytes:
//
//	conv := html2pdf.NewConverter()
//
//	pdf, err := conv.Convert(ctx, "<h1>Invoice</h1>", html2pdf.Options{
//	    Encoding: html2pdf.EncodingBinary,
//	    Format:   html2pdf.FormatA4,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("invoice.pdf", pdf, 0644)
//
// Without Encoding the payload is base64 text, convenient for JSON and
// other string-only channels. DecodeBase64 turns it back into PDF bytes.
//
// # Content Source
//
// When Options.URL is set the page at that address is printed and the
// content argument is ignored. Otherwise the HTML string is rendered.
// Either way the PDF is printed once DOMContentLoaded fires; content that is
// still loading when Options.Timeout (default 5s) expires fails with
// ErrLoadTimeout.
//
// # Conversion Sequence
//
// Every call runs the same steps in its own browser:
//
//  1. Resolve options and fill defaults (no browser work on bad input)
//  2. Launch Chrome and open a page
//  3. Disable JavaScript if asked, set the viewport
//  4. Load the URL or HTML and wait for DOMContentLoaded
//  5. Inject the print stylesheet (row, image and div breaks, thead/tfoot
//     repetition, exact colors)
//  6. Emulate screen media if asked
//  7. Print to PDF, release the browser, encode the payload
//
// The browser is released on every return path, including errors and
// cancellation.
//
// # Options
//
// The zero Options value is valid. Pointer fields (Bool, Float) separate
// "not set" from an explicit false or zero:
//
//	pdf, err := conv.Convert(ctx, html, html2pdf.Options{
//	    Viewport:          "1280x800",
//	    MarginTop:         "2cm",
//	    MarginBottom:      "2cm",
//	    RepeatTableHeader: html2pdf.Bool(true),
//	    Scale:             html2pdf.Float(0.8),
//	    PageRanges:        "1-3",
//	    Path:              "/var/reports/out.pdf",
//	})
//
// Lengths accept a bare number (pixels) or px, in, cm, mm and pt.
//
// # Converter Options
//
//	conv := html2pdf.NewConverter(
//	    html2pdf.WithBrowserBin("/usr/bin/chromium"),
//	    html2pdf.WithNoSandbox(),
//	    html2pdf.WithLogger(logrus.StandardLogger()),
//	)
//
// A Converter holds no browser state and is safe for concurrent use; each
// call gets an isolated browser process.
//
// # Errors
//
// All errors wrap a sentinel for errors.Is: ErrConfiguration,
// ErrBrowserConnect, ErrPageCreate, ErrLoadTimeout, ErrNavigation,
// ErrRender and ErrFileWrite. Browser errors also wrap the underlying cause.
// Caller cancellation returns the context's error unchanged.
package html2pdf
