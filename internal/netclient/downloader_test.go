package netclient

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/garrettladley/cheevo/internal/backend"
	"github.com/garrettladley/cheevo/internal/xslog"
)

type response struct {
	Status      int
	ContentType string
	Body        string
}

func record(mu *sync.Mutex, into *[]response) backend.ResponseCallback {
	return func(status int, contentType string, body []byte) {
		mu.Lock()
		defer mu.Unlock()
		*into = append(*into, response{Status: status, ContentType: contentType, Body: string(body)})
	}
}

func TestDownloaderDeliversOnlyWhenPolled(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"Success":true}`)
	}))
	t.Cleanup(srv.Close)

	d := New(WithLogger(xslog.Discard()))
	t.Cleanup(d.Close)

	var (
		mu  sync.Mutex
		got []response
	)
	completed := d.Completed()
	d.CreateRequest(srv.URL, record(&mu, &got))

	<-completed
	mu.Lock()
	if len(got) != 0 {
		t.Errorf("callback ran before PollRequests: %v", got)
	}
	mu.Unlock()

	d.WaitForAllRequests()

	want := []response{{Status: http.StatusOK, ContentType: "application/json", Body: `{"Success":true}`}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("responses mismatch (-want +got):\n%s", diff)
	}
}

func TestDownloaderPostsForm(t *testing.T) {
	t.Parallel()

	var gotBody, gotType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		gotType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusCreated)
	}))
	t.Cleanup(srv.Close)

	d := New(WithLogger(xslog.Discard()))
	t.Cleanup(d.Close)

	var (
		mu  sync.Mutex
		got []response
	)
	d.CreatePostRequest(srv.URL, "r=login2&u=alice", record(&mu, &got))
	d.WaitForAllRequests()

	if gotBody != "r=login2&u=alice" {
		t.Errorf("body = %q, want %q", gotBody, "r=login2&u=alice")
	}
	if gotType != "application/x-www-form-urlencoded" {
		t.Errorf("content type = %q", gotType)
	}
	if len(got) != 1 || got[0].Status != http.StatusCreated {
		t.Errorf("responses = %v, want one 201", got)
	}
}

func TestDownloaderTransportFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	d := New(WithLogger(xslog.Discard()))
	t.Cleanup(d.Close)

	var (
		mu  sync.Mutex
		got []response
	)
	d.CreateRequest(url, record(&mu, &got))
	d.WaitForAllRequests()

	want := []response{{Status: backend.StatusTransportFailure}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("responses mismatch (-want +got):\n%s", diff)
	}
}

func TestDownloaderCloseCancels(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	entered := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})

	d := New(WithLogger(xslog.Discard()))

	var (
		mu  sync.Mutex
		got []response
	)
	d.CreateRequest(srv.URL, record(&mu, &got))
	<-entered
	d.Close()

	d.CreateRequest(srv.URL, record(&mu, &got))
	d.PollRequests()

	want := []response{{Status: backend.StatusCancelled}, {Status: backend.StatusCancelled}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("responses mismatch (-want +got):\n%s", diff)
	}
}

func TestDownloaderConcurrencyLimit(t *testing.T) {
	t.Parallel()

	var inFlight, peak atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		defer inFlight.Add(-1)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	d := New(WithMaxConcurrent(1), WithLogger(xslog.Discard()))
	t.Cleanup(d.Close)

	var (
		mu  sync.Mutex
		got []response
	)
	for range 8 {
		d.CreateRequest(srv.URL, record(&mu, &got))
	}
	d.WaitForAllRequests()

	if len(got) != 8 {
		t.Errorf("got %d responses, want 8", len(got))
	}
	if p := peak.Load(); p > 1 {
		t.Errorf("peak concurrency = %d, want 1", p)
	}
}

func TestDownloaderCallbackMayChain(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, r.URL.Path)
	}))
	t.Cleanup(srv.Close)

	d := New(WithLogger(xslog.Discard()))
	t.Cleanup(d.Close)

	var (
		mu  sync.Mutex
		got []response
	)
	d.CreateRequest(srv.URL+"/first", func(status int, contentType string, body []byte) {
		record(&mu, &got)(status, "", body)
		d.CreateRequest(srv.URL+"/second", record(&mu, &got))
	})
	d.WaitForAllRequests()

	if len(got) != 2 || got[0].Body != "/first" || got[1].Body != "/second" {
		t.Errorf("responses = %v, want /first then /second", got)
	}
}

func TestDownloaderWaitWithCompletedWatcher(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	entered := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-release
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	d := New(WithLogger(xslog.Discard()))
	t.Cleanup(d.Close)

	var (
		mu  sync.Mutex
		got []response
	)
	d.CreateRequest(srv.URL, record(&mu, &got))
	<-entered

	// A second goroutine parks on Completed first, as a login pump does.
	watched := make(chan struct{})
	completed := d.Completed()
	go func() {
		<-completed
		close(watched)
	}()

	waited := make(chan struct{})
	go func() {
		d.WaitForAllRequests()
		close(waited)
	}()

	close(release)

	for name, ch := range map[string]chan struct{}{"WaitForAllRequests": waited, "Completed watcher": watched} {
		select {
		case <-ch:
		case <-time.After(5 * time.Second):
			t.Fatalf("%s did not return after the response arrived", name)
		}
	}

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 1 || got[0].Status != http.StatusOK {
		t.Errorf("responses = %v, want one 200", got)
	}
}
