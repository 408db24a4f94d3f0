// Package server exposes the converter over HTTP for `html2pdf serve`.
//
// Routes:
//
//	POST /v1/convert  JSON {"html": "...", "url": "...", "options": {...}}
//	GET  /healthz     liveness
//	GET  /metrics     Prometheus metrics
//
// Options use the profile keys (viewport, format, margin.top, ...). A
// response is application/pdf when options.encoding is binary and JSON
// {"pdf": "<base64>"} otherwise. Output paths are not accepted over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	html2pdf "github.com/alnah/go-html2pdf"
	"github.com/alnah/go-html2pdf/internal/config"
)

// Converter is the conversion surface the server needs.
type Converter interface {
	Convert(ctx context.Context, content string, opts html2pdf.Options) ([]byte, error)
}

// Settings configures a Server.
type Settings struct {
	// RateLimit is the number of conversions allowed per client IP per
	// minute. Zero disables limiting.
	RateLimit    int
	MaxBodyBytes int64
	// Defaults are the PDF settings requests start from.
	Defaults config.PDFConfig
}

// Server routes HTTP requests to a Converter.
type Server struct {
	router   chi.Router
	conv     Converter
	log      logrus.FieldLogger
	settings Settings
	registry *prometheus.Registry
	metrics  *metrics
}

// New builds a Server. A nil logger discards output.
func New(conv Converter, settings Settings, log logrus.FieldLogger) *Server {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	if settings.MaxBodyBytes <= 0 {
		settings.MaxBodyBytes = config.DefaultMaxBodyBytes
	}

	registry := prometheus.NewRegistry()
	s := &Server{
		router:   chi.NewRouter(),
		conv:     conv,
		log:      log,
		settings: settings,
		registry: registry,
		metrics:  newMetrics(registry),
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	s.router.Use(requestID)
	s.router.Use(s.logRequests)
	s.router.Use(s.metrics.instrument)
	s.router.Use(middleware.Recoverer)

	s.router.Get("/healthz", s.handleHealth)
	s.router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	s.router.Group(func(r chi.Router) {
		if s.settings.RateLimit > 0 {
			r.Use(httprate.Limit(
				s.settings.RateLimit,
				time.Minute,
				httprate.WithKeyFuncs(httprate.KeyByIP),
				httprate.WithLimitHandler(s.handleRateLimited),
			))
		}
		r.Post("/v1/convert", s.handleConvert)
	})
}

// ListenAndServe serves on addr until ctx is done, then drains in-flight
// conversions for at most shutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln, shutdownTimeout)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", ln.Addr().String()).Info("listening")
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		_ = srv.Close()
		return fmt.Errorf("shutting down: %w", err)
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
