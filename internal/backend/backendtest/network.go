// Package backendtest provides an in-memory backend.NetworkClient for tests.
package backendtest

import (
	"net/http"
	"net/url"
	"sync"

	"github.com/garrettladley/cheevo/internal/backend"
)

// Handler answers one dorequest call. form holds the decoded request body.
type Handler func(form url.Values) (status int, body string)

type Request struct {
	URL  string
	API  string
	Form url.Values
}

type pending struct {
	cb     backend.ResponseCallback
	status int
	body   string
}

// Network routes POST bodies by their "r" parameter to registered handlers.
// Responses are delivered only from PollRequests or WaitForAllRequests. While
// held, responses queue until Release.
type Network struct {
	mu       sync.Mutex
	handlers map[string]Handler
	requests []Request
	ready    []pending
	held     []pending
	hold     bool
	closed   bool
	signal   chan struct{}
}

var _ backend.NetworkClient = (*Network)(nil)

func NewNetwork() *Network {
	return &Network{
		handlers: make(map[string]Handler),
		signal:   make(chan struct{}),
	}
}

func (n *Network) Handle(api string, h Handler) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.handlers[api] = h
}

// HandleJSON registers a handler that always answers 200 with body.
func (n *Network) HandleJSON(api string, body string) {
	n.Handle(api, func(url.Values) (int, string) { return http.StatusOK, body })
}

func (n *Network) Hold() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.hold = true
}

// Release moves held responses to the ready queue and stops holding.
func (n *Network) Release() {
	n.mu.Lock()
	n.hold = false
	n.ready = append(n.ready, n.held...)
	n.held = nil
	n.mu.Unlock()
	n.notify()
}

func (n *Network) Requests() []Request {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]Request, len(n.requests))
	copy(out, n.requests)
	return out
}

// Calls returns the requests made to api, in order.
func (n *Network) Calls(api string) []Request {
	var out []Request
	for _, r := range n.Requests() {
		if r.API == api {
			out = append(out, r)
		}
	}
	return out
}

func (n *Network) Pending() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.ready) + len(n.held)
}

func (n *Network) CreateRequest(rawURL string, cb backend.ResponseCallback) {
	u, _ := url.Parse(rawURL)
	var form url.Values
	if u != nil {
		form = u.Query()
	}
	n.enqueue(rawURL, form, cb)
}

func (n *Network) CreatePostRequest(rawURL string, body string, cb backend.ResponseCallback) {
	form, _ := url.ParseQuery(body)
	n.enqueue(rawURL, form, cb)
}

func (n *Network) enqueue(rawURL string, form url.Values, cb backend.ResponseCallback) {
	api := form.Get("r")

	n.mu.Lock()
	n.requests = append(n.requests, Request{URL: rawURL, API: api, Form: form})
	if n.closed {
		n.ready = append(n.ready, pending{cb: cb, status: backend.StatusCancelled})
		n.mu.Unlock()
		n.notify()
		return
	}
	h, ok := n.handlers[api]
	n.mu.Unlock()

	p := pending{cb: cb, status: http.StatusNotFound, body: `{"Success":false,"Error":"unknown request"}`}
	if ok {
		p.status, p.body = h(form)
	}

	n.mu.Lock()
	if n.hold {
		n.held = append(n.held, p)
	} else {
		n.ready = append(n.ready, p)
	}
	n.mu.Unlock()
	n.notify()
}

func (n *Network) notify() {
	n.mu.Lock()
	defer n.mu.Unlock()
	close(n.signal)
	n.signal = make(chan struct{})
}

func (n *Network) PollRequests() {
	n.mu.Lock()
	batch := n.ready
	n.ready = nil
	n.mu.Unlock()

	for _, p := range batch {
		contentType := "application/json"
		if p.status < 0 {
			contentType = ""
		}
		p.cb(p.status, contentType, []byte(p.body))
	}
}

// WaitForAllRequests delivers until nothing is ready. Held responses are
// released first so the call cannot block forever.
func (n *Network) WaitForAllRequests() {
	n.Release()
	for {
		n.mu.Lock()
		empty := len(n.ready) == 0
		n.mu.Unlock()
		if empty {
			return
		}
		n.PollRequests()
	}
}

func (n *Network) Completed() <-chan struct{} {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.signal
}

func (n *Network) Close() {
	n.mu.Lock()
	n.closed = true
	for i := range n.held {
		n.held[i].status = backend.StatusCancelled
		n.held[i].body = ""
	}
	n.mu.Unlock()
	n.WaitForAllRequests()
}
