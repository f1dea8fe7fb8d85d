package xhttp

import (
	"log/slog"
	"net/http"
	"time"
)

type ClientOption func(*clientConfig)

type clientConfig struct {
	timeout time.Duration
	base    http.RoundTripper
	logger  *slog.Logger
}

func WithTimeout(d time.Duration) ClientOption {
	return func(c *clientConfig) { c.timeout = d }
}

// WithBaseTransport overrides the round tripper wrapped by the cheevo transport.
func WithBaseTransport(rt http.RoundTripper) ClientOption {
	return func(c *clientConfig) { c.base = rt }
}

// WithLogger enables debug logging of every round trip.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *clientConfig) { c.logger = logger }
}

func NewHTTPClient(opts ...ClientOption) *http.Client {
	cfg := clientConfig{base: http.DefaultTransport}
	for _, opt := range opts {
		opt(&cfg)
	}

	var rt http.RoundTripper = &cheevoTransport{base: cfg.base}
	if cfg.logger != nil {
		rt = &loggingTransport{base: rt, logger: cfg.logger}
	}

	return &http.Client{Transport: rt, Timeout: cfg.timeout}
}
