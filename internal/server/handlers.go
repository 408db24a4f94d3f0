package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	html2pdf "github.com/alnah/go-html2pdf"
	"github.com/alnah/go-html2pdf/internal/config"
	"github.com/alnah/go-html2pdf/internal/fileutil"
)

// Sentinel errors for request decoding.
var (
	ErrBadRequest  = errors.New("bad request")
	ErrNoContent   = errors.New("request needs html or url")
	ErrBodyTooLong = errors.New("request body too large")
)

// convertRequest is the body of POST /v1/convert.
type convertRequest struct {
	HTML    string          `json:"html"`
	URL     string          `json:"url"`
	Options json.RawMessage `json:"options"`
}

type convertResponse struct {
	PDF string `json:"pdf"`
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	s.metrics.conversions.WithLabelValues("rate_limited").Inc()
	s.writeError(w, r, http.StatusTooManyRequests, errors.New("rate limit exceeded, retry later"))
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	opts, content, err := s.decodeConvert(w, r)
	if err != nil {
		s.metrics.conversions.WithLabelValues("bad_request").Inc()
		status := http.StatusBadRequest
		if errors.Is(err, ErrBodyTooLong) {
			status = http.StatusRequestEntityTooLarge
		}
		s.writeError(w, r, status, err)
		return
	}

	s.metrics.inFlight.Inc()
	payload, err := s.conv.Convert(r.Context(), content, opts)
	s.metrics.inFlight.Dec()

	if err != nil {
		result, status := classify(err)
		s.metrics.conversions.WithLabelValues(result).Inc()
		s.log.WithFields(logrus.Fields{
			"request_id": RequestIDFrom(r.Context()),
			"result":     result,
		}).WithError(err).Debug("conversion failed")
		s.writeError(w, r, status, err)
		return
	}
	s.metrics.conversions.WithLabelValues("ok").Inc()

	if opts.Encoding == html2pdf.EncodingBinary {
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Length", fmt.Sprint(len(payload)))
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(payload); err != nil {
			s.log.WithError(err).Debug("writing response")
		}
		return
	}
	s.writeJSON(w, http.StatusOK, convertResponse{PDF: string(payload)})
}

// decodeConvert reads the body into library options and HTML content.
func (s *Server) decodeConvert(w http.ResponseWriter, r *http.Request) (html2pdf.Options, string, error) {
	body := http.MaxBytesReader(w, r.Body, s.settings.MaxBodyBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()

	var req convertRequest
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return html2pdf.Options{}, "", fmt.Errorf("%w: limit is %d bytes", ErrBodyTooLong, tooLarge.Limit)
		}
		return html2pdf.Options{}, "", fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	if req.HTML == "" && req.URL == "" {
		return html2pdf.Options{}, "", ErrNoContent
	}
	if req.URL != "" && !fileutil.IsURL(strings.ToLower(req.URL)) {
		return html2pdf.Options{}, "", fmt.Errorf("%w: url must use http or https", ErrBadRequest)
	}

	pdf := s.settings.Defaults.Clone()
	if raw := bytes.TrimSpace(req.Options); len(raw) > 0 && !bytes.Equal(raw, []byte("null")) {
		var err error
		if pdf, err = config.DecodePDF(raw, s.settings.Defaults); err != nil {
			return html2pdf.Options{}, "", fmt.Errorf("%w: options: %w", ErrBadRequest, err)
		}
	}

	opts := pdf.Options()
	opts.URL = req.URL
	// Resolve again so the response encoding matches what Convert produces.
	resolved, err := html2pdf.Resolve(opts)
	if err != nil {
		return html2pdf.Options{}, "", fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	opts.Encoding = resolved.Encoding
	return opts, req.HTML, nil
}

// classify maps a conversion error to a metric label and HTTP status.
func classify(err error) (string, int) {
	switch {
	case errors.Is(err, html2pdf.ErrConfiguration):
		return "configuration", http.StatusBadRequest
	case errors.Is(err, html2pdf.ErrLoadTimeout):
		return "timeout", http.StatusGatewayTimeout
	case errors.Is(err, html2pdf.ErrNavigation):
		return "navigation", http.StatusBadGateway
	case errors.Is(err, html2pdf.ErrBrowserConnect), errors.Is(err, html2pdf.ErrPageCreate):
		return "browser", http.StatusServiceUnavailable
	case errors.Is(err, html2pdf.ErrRender):
		return "render", http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled", http.StatusServiceUnavailable
	default:
		return "error", http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	s.writeJSON(w, status, errorResponse{Error: err.Error(), RequestID: RequestIDFrom(r.Context())})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.WithError(err).Debug("writing response")
	}
}
