package xhttp

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/garrettladley/cheevo/internal/version"
	"github.com/garrettladley/cheevo/internal/xslog"
)

type cheevoTransport struct {
	base http.RoundTripper
}

var _ http.RoundTripper = (*cheevoTransport)(nil)

func (t *cheevoTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set(UserAgent, version.UserAgent())
	req.Header.Set(version.Header, version.Get())
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, fmt.Errorf("failed to perform round trip: %w", err)
	}
	return resp, nil
}

// NewTransport returns an http.RoundTripper with standard cheevo headers.
func NewTransport() http.RoundTripper {
	return &cheevoTransport{base: http.DefaultTransport}
}

type loggingTransport struct {
	base   http.RoundTripper
	logger *slog.Logger
}

var _ http.RoundTripper = (*loggingTransport)(nil)

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		t.logger.DebugContext(req.Context(), "http round trip failed",
			slog.String("method", req.Method),
			xslog.URL(req.URL.Redacted()),
			xslog.Duration(time.Since(start)),
			xslog.Error(err),
		)
		return nil, err
	}
	t.logger.DebugContext(req.Context(), "http round trip",
		slog.String("method", req.Method),
		xslog.URL(req.URL.Redacted()),
		xslog.Status(resp.StatusCode),
		xslog.Duration(time.Since(start)),
	)
	return resp, nil
}
