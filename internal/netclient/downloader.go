package netclient

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/garrettladley/cheevo/internal/backend"
	"github.com/garrettladley/cheevo/internal/xhttp"
	"github.com/garrettladley/cheevo/internal/xslog"
)

const (
	defaultMaxConcurrent = 4
	defaultMaxBodySize   = 8 << 20
)

type Option func(*downloaderConfig)

type downloaderConfig struct {
	httpClient    *http.Client
	maxConcurrent int64
	maxBodySize   int64
	logger        *slog.Logger
}

func WithHTTPClient(c *http.Client) Option {
	return func(cfg *downloaderConfig) { cfg.httpClient = c }
}

func WithMaxConcurrent(n int64) Option {
	return func(cfg *downloaderConfig) { cfg.maxConcurrent = n }
}

func WithMaxBodySize(n int64) Option {
	return func(cfg *downloaderConfig) { cfg.maxBodySize = n }
}

func WithLogger(logger *slog.Logger) Option {
	return func(cfg *downloaderConfig) { cfg.logger = logger }
}

type completion struct {
	cb          backend.ResponseCallback
	status      int
	contentType string
	body        []byte
}

// Downloader runs HTTP requests in the background and hands results back on
// the goroutine that polls it.
type Downloader struct {
	client      *http.Client
	sem         *semaphore.Weighted
	maxBodySize int64
	logger      *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	pending int
	ready   []completion
	closed  bool
	// signal is closed and replaced each time a completion is queued.
	signal chan struct{}
}

var _ backend.NetworkClient = (*Downloader)(nil)

func New(opts ...Option) *Downloader {
	cfg := downloaderConfig{
		maxConcurrent: defaultMaxConcurrent,
		maxBodySize:   defaultMaxBodySize,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.httpClient == nil {
		cfg.httpClient = xhttp.NewHTTPClient(xhttp.WithLogger(cfg.logger))
	}
	if cfg.maxConcurrent < 1 {
		cfg.maxConcurrent = 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Downloader{
		client:      cfg.httpClient,
		sem:         semaphore.NewWeighted(cfg.maxConcurrent),
		maxBodySize: cfg.maxBodySize,
		logger:      cfg.logger,
		ctx:         ctx,
		cancel:      cancel,
		signal:      make(chan struct{}),
	}
}

func (d *Downloader) CreateRequest(url string, cb backend.ResponseCallback) {
	d.start(http.MethodGet, url, "", cb)
}

func (d *Downloader) CreatePostRequest(url string, body string, cb backend.ResponseCallback) {
	d.start(http.MethodPost, url, body, cb)
}

func (d *Downloader) start(method string, url string, body string, cb backend.ResponseCallback) {
	d.mu.Lock()
	d.pending++
	if d.closed {
		d.mu.Unlock()
		d.finish(completion{cb: cb, status: backend.StatusCancelled})
		return
	}
	d.wg.Add(1)
	d.mu.Unlock()

	go func() {
		defer d.wg.Done()
		status, contentType, respBody := d.do(method, url, body)
		d.finish(completion{cb: cb, status: status, contentType: contentType, body: respBody})
	}()
}

func (d *Downloader) do(method string, url string, body string) (int, string, []byte) {
	if err := d.sem.Acquire(d.ctx, 1); err != nil {
		return backend.StatusCancelled, "", nil
	}
	defer d.sem.Release(1)

	var reader io.Reader
	if method == http.MethodPost {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequestWithContext(d.ctx, method, url, reader)
	if err != nil {
		d.logger.Error("failed to build request", xslog.URL(url), xslog.Error(err))
		return backend.StatusTransportFailure, "", nil
	}
	if method == http.MethodPost {
		xhttp.SetRequestContentTypeForm(req)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || d.ctx.Err() != nil {
			return backend.StatusCancelled, "", nil
		}
		d.logger.Warn("request failed", xslog.URL(req.URL.Redacted()), xslog.Error(err))
		return backend.StatusTransportFailure, "", nil
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, d.maxBodySize))
	if err != nil {
		if d.ctx.Err() != nil {
			return backend.StatusCancelled, "", nil
		}
		d.logger.Warn("failed to read response body", xslog.URL(req.URL.Redacted()), xslog.Error(err))
		return backend.StatusTransportFailure, "", nil
	}
	return resp.StatusCode, resp.Header.Get(xhttp.ContentType), data
}

func (d *Downloader) finish(c completion) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ready = append(d.ready, c)
	close(d.signal)
	d.signal = make(chan struct{})
}

func (d *Downloader) PollRequests() {
	d.mu.Lock()
	batch := d.ready
	d.ready = nil
	d.pending -= len(batch)
	d.mu.Unlock()

	for _, c := range batch {
		c.cb(c.status, c.contentType, c.body)
	}
}

func (d *Downloader) WaitForAllRequests() {
	for {
		d.PollRequests()

		d.mu.Lock()
		if d.pending == 0 {
			d.mu.Unlock()
			return
		}
		if len(d.ready) > 0 {
			d.mu.Unlock()
			continue
		}
		signal := d.signal
		d.mu.Unlock()

		<-signal
	}
}

// Completed returns a channel closed by the next completion. Every waiter
// sees it, so a caller pumping PollRequests cannot starve WaitForAllRequests.
func (d *Downloader) Completed() <-chan struct{} {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.signal
}

// Close cancels in-flight requests and delivers their callbacks with
// StatusCancelled. Requests created afterwards complete immediately as cancelled.
func (d *Downloader) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	d.mu.Unlock()

	d.cancel()
	d.wg.Wait()
	d.PollRequests()
}
