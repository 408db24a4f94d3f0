package html2pdf

import (
	"context"
	"sync"

	"github.com/go-rod/rod/lib/proto"
)

// ---------------------------------------------------------------------------
// Fake browser: records every call so tests can assert order and arguments.
// ---------------------------------------------------------------------------

type fakeLauncher struct {
	mu        sync.Mutex
	launchErr error
	page      *fakePage
	pageErr   error
	closeErr  error
	sessions  []*fakeSession
}

func (l *fakeLauncher) Launch(ctx context.Context) (browserSession, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.launchErr != nil {
		return nil, l.launchErr
	}
	if l.page == nil {
		l.page = &fakePage{pdf: []byte("%PDF-1.7 fake")}
	}
	s := &fakeSession{page: l.page, pageErr: l.pageErr, closeErr: l.closeErr}
	l.sessions = append(l.sessions, s)
	return s, nil
}

func (l *fakeLauncher) launched() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.sessions)
}

// allClosed reports whether every launched session was released exactly once.
func (l *fakeLauncher) allClosed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, s := range l.sessions {
		s.mu.Lock()
		closed := s.closed
		s.mu.Unlock()
		if closed != 1 {
			return false
		}
	}
	return true
}

type fakeSession struct {
	page     *fakePage
	pageErr  error
	closeErr error

	mu     sync.Mutex
	closed int
}

func (s *fakeSession) NewPage() (browserPage, error) {
	if s.pageErr != nil {
		return nil, s.pageErr
	}
	return s.page, nil
}

func (s *fakeSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed++
	return s.closeErr
}

type fakePage struct {
	mu sync.Mutex

	calls    []string
	viewport [2]int
	target   string
	content  string
	styles   []string
	params   *proto.PagePrintToPDF
	pdf      []byte

	// load blocks until ctx is done when hang is set.
	hang    bool
	loadErr error

	jsErr    error
	styleErr error
	mediaErr error
	printErr error
}

func (p *fakePage) record(call string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, call)
}

func (p *fakePage) DisableJavaScript() error {
	p.record("disable-js")
	return p.jsErr
}

func (p *fakePage) SetViewport(width, height int) error {
	p.record("viewport")
	p.mu.Lock()
	p.viewport = [2]int{width, height}
	p.mu.Unlock()
	return nil
}

func (p *fakePage) Load(ctx context.Context, target string) error {
	p.record("load")
	p.mu.Lock()
	p.target = target
	p.mu.Unlock()
	return p.wait(ctx)
}

// SetContent records as "load" too: both are the load step.
func (p *fakePage) SetContent(ctx context.Context, html string) error {
	p.record("load")
	p.mu.Lock()
	p.content = html
	p.mu.Unlock()
	return p.wait(ctx)
}

func (p *fakePage) wait(ctx context.Context) error {
	if p.hang {
		<-ctx.Done()
		return ctx.Err()
	}
	return p.loadErr
}

func (p *fakePage) AddStyle(css string) error {
	p.record("style")
	p.mu.Lock()
	p.styles = append(p.styles, css)
	p.mu.Unlock()
	return p.styleErr
}

func (p *fakePage) EmulateScreenMedia() error {
	p.record("screen-media")
	return p.mediaErr
}

func (p *fakePage) TransparentBackground() error {
	p.record("transparent")
	return nil
}

func (p *fakePage) PrintToPDF(params *proto.PagePrintToPDF) ([]byte, error) {
	p.record("print")
	p.mu.Lock()
	p.params = params
	p.mu.Unlock()
	if p.printErr != nil {
		return nil, p.printErr
	}
	return p.pdf, nil
}
