package html2pdf

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-html2pdf/internal/process"
)

// browserLauncher starts one isolated browser session per conversion.
type browserLauncher interface {
	Launch(ctx context.Context) (browserSession, error)
}

// browserSession owns a browser process. Close must always be called.
type browserSession interface {
	NewPage() (browserPage, error)
	Close() error
}

// browserPage is the subset of page operations a conversion needs.
// Abstracted to test the conversion sequence without a browser.
type browserPage interface {
	DisableJavaScript() error
	SetViewport(width, height int) error
	Load(ctx context.Context, target string) error
	SetContent(ctx context.Context, html string) error
	AddStyle(css string) error
	EmulateScreenMedia() error
	TransparentBackground() error
	PrintToPDF(params *proto.PagePrintToPDF) ([]byte, error)
}

// Compile-time interface checks
var (
	_ browserLauncher = (*rodLauncher)(nil)
	_ browserSession  = (*rodSession)(nil)
	_ browserPage     = (*rodPage)(nil)
)

// rodLauncher launches headless Chromium through go-rod.
// Rod downloads a managed Chromium on first run when none is installed.
type rodLauncher struct {
	bin       string
	noSandbox bool
}

// Launch starts a browser bound to ctx and connects to it.
func (l *rodLauncher) Launch(ctx context.Context) (browserSession, error) {
	ln := launcher.New().Context(ctx).Headless(true)

	// Use pre-installed browser if specified (Docker/containerized environments)
	bin := l.bin
	if bin == "" {
		bin = os.Getenv("ROD_BROWSER_BIN")
	}
	if bin != "" {
		ln = ln.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if l.noSandbox || os.Getenv("ROD_NO_SANDBOX") == "1" || os.Getenv("CI") == "true" {
		ln = ln.NoSandbox(true)
	}

	u, err := ln.Launch()
	if err != nil {
		ln.Kill()
		return nil, err
	}

	browser := rod.New().ControlURL(u).Context(ctx)
	if err := browser.Connect(); err != nil {
		ln.Kill()
		ln.Cleanup()
		return nil, err
	}

	return &rodSession{launcher: ln, browser: browser}, nil
}

// rodSession is one launched browser process.
type rodSession struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
}

// NewPage opens a blank tab.
func (s *rodSession) NewPage() (browserPage, error) {
	page, err := s.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, err
	}
	return &rodPage{page: page}, nil
}

// Close shuts the browser down and makes sure the process tree is gone, even
// when the graceful close fails because the context is already done.
func (s *rodSession) Close() error {
	err := s.browser.Close()

	if pid := s.launcher.PID(); pid > 0 {
		process.KillProcessGroup(pid)
	}
	s.launcher.Kill()
	s.launcher.Cleanup()

	if err != nil {
		return fmt.Errorf("closing browser: %w", err)
	}
	return nil
}

// rodPage adapts *rod.Page to browserPage.
type rodPage struct {
	page *rod.Page
}

func (p *rodPage) DisableJavaScript() error {
	return proto.EmulationSetScriptExecutionDisabled{Value: true}.Call(p.page)
}

func (p *rodPage) SetViewport(width, height int) error {
	return p.page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             width,
		Height:            height,
		DeviceScaleFactor: 1,
	})
}

// Load navigates to target and blocks until DOMContentLoaded or ctx is done.
func (p *rodPage) Load(ctx context.Context, target string) error {
	page := p.page.Context(ctx)

	// Subscribe before navigating so the event cannot be missed.
	wait := page.WaitNavigation(proto.PageLifecycleEventNameDOMContentLoaded)
	if err := page.Navigate(target); err != nil {
		return err
	}
	wait()

	return ctx.Err()
}

// SetContent replaces the about:blank document with html and waits for it to
// load. The document keeps the opaque about:blank origin, so it cannot read
// file:// resources.
func (p *rodPage) SetContent(ctx context.Context, html string) error {
	page := p.page.Context(ctx)
	if err := page.SetDocumentContent(html); err != nil {
		return err
	}
	if err := page.WaitLoad(); err != nil {
		return err
	}
	return ctx.Err()
}

func (p *rodPage) AddStyle(css string) error {
	return p.page.AddStyleTag("", css)
}

func (p *rodPage) EmulateScreenMedia() error {
	return proto.EmulationSetEmulatedMedia{Media: "screen"}.Call(p.page)
}

func (p *rodPage) TransparentBackground() error {
	alpha := 0.0
	return proto.EmulationSetDefaultBackgroundColorOverride{
		Color: &proto.DOMRGBA{R: 0, G: 0, B: 0, A: &alpha},
	}.Call(p.page)
}

// PrintToPDF prints the page and drains the PDF stream.
func (p *rodPage) PrintToPDF(params *proto.PagePrintToPDF) ([]byte, error) {
	reader, err := p.page.PDF(params)
	if err != nil {
		return nil, err
	}

	pdfBuf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading PDF stream: %w", err)
	}
	return pdfBuf, nil
}

// buildPrintParams maps a resolved request onto Page.printToPDF.
// The browser is never asked to save the file; see writeBytes.
func buildPrintParams(req *Request) *proto.PagePrintToPDF {
	return &proto.PagePrintToPDF{
		Landscape:           req.Landscape,
		DisplayHeaderFooter: req.DisplayHeaderFooter,
		HeaderTemplate:      req.HeaderTemplate,
		FooterTemplate:      req.FooterTemplate,
		PrintBackground:     req.PrintBackground,
		Scale:               Float(req.Scale),
		PaperWidth:          req.PaperWidth,
		PaperHeight:         req.PaperHeight,
		MarginTop:           Float(req.MarginTop),
		MarginBottom:        Float(req.MarginBottom),
		MarginLeft:          Float(req.MarginLeft),
		MarginRight:         Float(req.MarginRight),
		PageRanges:          req.PageRanges,
		PreferCSSPageSize:   req.PreferCSSPageSize,
	}
}
