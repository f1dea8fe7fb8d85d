// Package notify holds on-screen notification sinks for the achievements coordinator.
package notify

import (
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/garrettladley/cheevo/internal/xslog"
)

type Notification struct {
	Key       string
	Title     string
	Body      string
	Icon      string
	Duration  time.Duration
	CreatedAt time.Time
}

func (n Notification) Expired(now time.Time) bool {
	return now.Sub(n.CreatedAt) >= n.Duration
}

type Toast struct {
	Title     string
	Body      string
	Duration  time.Duration
	CreatedAt time.Time
}

func (t Toast) Expired(now time.Time) bool {
	return now.Sub(t.CreatedAt) >= t.Duration
}

// Queue keeps keyed notifications until they expire. Adding a notification
// with a key already present replaces it in place and restarts its timer.
// There is at most one toast; a new toast replaces the current one.
// Queue is safe for concurrent use.
type Queue struct {
	mu            sync.Mutex
	clock         func() time.Time
	notifications []Notification
	toast         *Toast
}

type QueueOption func(*Queue)

func WithClock(clock func() time.Time) QueueOption {
	return func(q *Queue) { q.clock = clock }
}

func NewQueue(opts ...QueueOption) *Queue {
	q := &Queue{clock: time.Now}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

func (q *Queue) AddNotification(key string, duration time.Duration, title string, body string, icon string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := Notification{Key: key, Title: title, Body: body, Icon: icon, Duration: duration, CreatedAt: q.clock()}
	if key != "" {
		if i := slices.IndexFunc(q.notifications, func(e Notification) bool { return e.Key == key }); i >= 0 {
			q.notifications[i] = n
			return
		}
	}
	q.notifications = append(q.notifications, n)
}

func (q *Queue) ShowToast(title string, body string, duration time.Duration) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.toast = &Toast{Title: title, Body: body, Duration: duration, CreatedAt: q.clock()}
}

// Notifications returns live notifications oldest first, dropping expired ones.
func (q *Queue) Notifications() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()

	now := q.clock()
	q.notifications = slices.DeleteFunc(q.notifications, func(n Notification) bool { return n.Expired(now) })
	return slices.Clone(q.notifications)
}

func (q *Queue) Toast() (Toast, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.toast == nil {
		return Toast{}, false
	}
	if q.toast.Expired(q.clock()) {
		q.toast = nil
		return Toast{}, false
	}
	return *q.toast, true
}

// Keys lists live notification keys, mostly for tests and logging.
func (q *Queue) Keys() []string {
	var keys []string
	for _, n := range q.Notifications() {
		keys = append(keys, n.Key)
	}
	return keys
}

// LogSink writes notifications to a logger. The CLI uses it when no overlay is drawn.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) AddNotification(key string, duration time.Duration, title string, body string, icon string) {
	s.logger.Info(title,
		slog.String("key", key),
		slog.String("body", body),
		xslog.Duration(duration),
	)
}

func (s *LogSink) ShowToast(title string, body string, duration time.Duration) {
	s.logger.Info("toast",
		slog.String("title", title),
		slog.String("body", body),
		xslog.Duration(duration),
	)
}

type sink interface {
	AddNotification(key string, duration time.Duration, title string, body string, icon string)
	ShowToast(title string, body string, duration time.Duration)
}

// Fanout forwards to every sink in order.
type Fanout []sink

func (f Fanout) AddNotification(key string, duration time.Duration, title string, body string, icon string) {
	for _, s := range f {
		s.AddNotification(key, duration, title, body, icon)
	}
}

func (f Fanout) ShowToast(title string, body string, duration time.Duration) {
	for _, s := range f {
		s.ShowToast(title, body, duration)
	}
}
