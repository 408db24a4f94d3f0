package html2pdf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// Converter turns HTML or a URL into a PDF with headless Chrome.
// Every Convert call launches and releases its own browser, so a Converter
// holds no browser state and is safe for concurrent use.
type Converter struct {
	launcher browserLauncher
	fs       afero.Fs
	log      logrus.FieldLogger
	cfg      converterConfig
}

// converterConfig holds settings applied when launching browsers.
type converterConfig struct {
	browserBin string
	noSandbox  bool
}

// Option configures a Converter.
type Option func(*Converter)

// WithBrowserBin uses the Chrome/Chromium binary at path instead of the one
// found by go-rod (or $ROD_BROWSER_BIN).
func WithBrowserBin(path string) Option {
	return func(c *Converter) {
		c.cfg.browserBin = path
	}
}

// WithNoSandbox disables the Chrome sandbox, required when running as root
// in most containers.
func WithNoSandbox() Option {
	return func(c *Converter) {
		c.cfg.noSandbox = true
	}
}

// WithLogger sets the logger for conversion steps. Defaults to a discarding logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Converter) {
		if l != nil {
			c.log = l
		}
	}
}

// WithFileSystem sets the filesystem used for Options.Path and the Write*
// helpers. Defaults to the OS filesystem.
func WithFileSystem(fs afero.Fs) Option {
	return func(c *Converter) {
		if fs != nil {
			c.fs = fs
		}
	}
}

// withLauncher replaces the browser launcher (tests).
func withLauncher(l browserLauncher) Option {
	return func(c *Converter) {
		c.launcher = l
	}
}

// NewConverter creates a Converter. No browser is started until Convert.
func NewConverter(opts ...Option) *Converter {
	c := &Converter{
		fs:  afero.NewOsFs(),
		log: discardLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.launcher == nil {
		c.launcher = &rodLauncher{bin: c.cfg.browserBin, noSandbox: c.cfg.noSandbox}
	}

	return c
}

// Convert renders content, or opts.URL when set, to PDF.
// The payload is raw PDF bytes for EncodingBinary and base64 text otherwise.
// When opts.Path is set the raw PDF is also written there; its parent
// directory must exist.
//
// Options are validated before any browser is launched. The browser is
// released on every return path. Nothing is retried.
func (c *Converter) Convert(ctx context.Context, content string, opts Options) (payload []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	req, err := Resolve(opts)
	if err != nil {
		return nil, err
	}

	pdf, err := c.Render(ctx, content, req)
	if err != nil {
		return nil, err
	}

	if req.Path != "" {
		if err := writeBytes(c.fs, pdf, req.Path); err != nil {
			return nil, err
		}
	}

	return encode(pdf, req.Encoding), nil
}

// Render runs the browser part of a conversion for an already resolved
// request and returns the raw PDF. It does not write req.Path.
func (c *Converter) Render(ctx context.Context, content string, req *Request) (pdf []byte, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log := c.log.WithField("source", sourceName(req))
	start := time.Now()

	log.WithField("step", "launch").Debug("launching browser")
	session, err := c.launcher.Launch(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBrowserConnect, err)
	}
	defer func() {
		log.WithField("step", "release").Debug("closing browser")
		if cerr := session.Close(); cerr != nil {
			log.WithError(cerr).Warn("browser did not close cleanly")
		}
	}()

	log.WithField("step", "page").Debug("opening page")
	page, err := session.NewPage()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPageCreate, err)
	}

	if err := c.load(ctx, page, content, req, log); err != nil {
		return nil, err
	}

	if css := BuildPrintCSS(req); css != "" {
		log.WithField("step", "style").Debug("injecting print CSS")
		if err := page.AddStyle(css); err != nil {
			return nil, fmt.Errorf("%w: injecting print CSS: %w", ErrRender, err)
		}
	}

	if req.ScreenMedia {
		log.WithField("step", "media").Debug("emulating screen media")
		if err := page.EmulateScreenMedia(); err != nil {
			return nil, fmt.Errorf("%w: emulating screen media: %w", ErrRender, err)
		}
	}

	if req.OmitBackground {
		if err := page.TransparentBackground(); err != nil {
			return nil, fmt.Errorf("%w: clearing background: %w", ErrRender, err)
		}
	}

	log.WithField("step", "print").Debug("printing to PDF")
	pdf, err = page.PrintToPDF(buildPrintParams(req))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}

	log.WithFields(logrus.Fields{
		"bytes":    len(pdf),
		"duration": time.Since(start),
	}).Debug("conversion finished")

	return pdf, nil
}

// load prepares the page and waits for the URL or inline HTML to load.
// JavaScript and viewport are configured first since both affect how the
// document loads and lays out.
func (c *Converter) load(ctx context.Context, page browserPage, content string, req *Request, log logrus.FieldLogger) error {
	if !req.JavaScriptEnabled {
		if err := page.DisableJavaScript(); err != nil {
			return fmt.Errorf("%w: disabling JavaScript: %w", ErrNavigation, err)
		}
	}

	if err := page.SetViewport(req.ViewportWidth, req.ViewportHeight); err != nil {
		return fmt.Errorf("%w: setting viewport: %w", ErrNavigation, err)
	}

	loadCtx, cancel := context.WithTimeout(ctx, req.Timeout)
	defer cancel()

	log.WithFields(logrus.Fields{"step": "load", "timeout": req.Timeout}).Debug("loading content")
	var err error
	if req.URL != "" {
		err = page.Load(loadCtx, req.URL)
	} else {
		err = page.SetContent(loadCtx, content)
	}
	if err == nil {
		return nil
	}

	// Caller cancellation is not a load timeout.
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if errors.Is(loadCtx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: after %s: %w", ErrLoadTimeout, req.Timeout, err)
	}
	return fmt.Errorf("%w: %w", ErrNavigation, err)
}

// sourceName describes the content source for logs.
func sourceName(req *Request) string {
	if req.URL != "" {
		return req.URL
	}
	return "html"
}

// discardLogger returns a logger that drops everything.
func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// Convert converts with a default Converter.
func Convert(ctx context.Context, content string, opts Options) ([]byte, error) {
	return NewConverter().Convert(ctx, content, opts)
}
