package achievements

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/garrettladley/cheevo/internal/backend"
	"github.com/garrettladley/cheevo/internal/xslog"
)

type RequestKind uint8

const (
	RequestLogin RequestKind = iota
	RequestLoadGame
	RequestLeaderboardFetch

	numRequestKinds
)

func (k RequestKind) String() string {
	switch k {
	case RequestLogin:
		return "login"
	case RequestLoadGame:
		return "load_game"
	case RequestLeaderboardFetch:
		return "leaderboard_fetch"
	default:
		return "unknown"
	}
}

// Handle identifies one tracked request. The zero Handle tracks nothing.
type Handle struct {
	Kind RequestKind
	ID   uuid.UUID
}

func (h Handle) IsZero() bool { return h.ID == uuid.Nil }

type slot struct {
	handle  Handle
	async   backend.AsyncHandle
	pending bool
}

// Tracker keeps at most one live request per kind. It is not safe for
// concurrent use; the coordinator lock guards it.
type Tracker struct {
	abort  func(backend.AsyncHandle)
	logger *slog.Logger
	slots  [numRequestKinds]slot
}

func NewTracker(abort func(backend.AsyncHandle), logger *slog.Logger) *Tracker {
	return &Tracker{abort: abort, logger: logger}
}

// Begin aborts the live request of kind, if any, and then calls start. start
// receives the new handle so its completion callback can call Complete. The
// callback may run before start returns.
func (t *Tracker) Begin(kind RequestKind, start func(h Handle) backend.AsyncHandle) Handle {
	t.AbortKind(kind)

	h := Handle{Kind: kind, ID: uuid.New()}
	t.slots[kind] = slot{handle: h, pending: true}
	async := start(h)

	if s := &t.slots[kind]; s.pending && s.handle == h {
		s.async = async
	}
	return h
}

// Complete retires h and reports whether it was still live. A false return
// means the request was aborted or replaced and its result must be ignored.
func (t *Tracker) Complete(h Handle) bool {
	if h.IsZero() || h.Kind >= numRequestKinds {
		return false
	}
	s := t.slots[h.Kind]
	if !s.pending || s.handle != h {
		t.logger.Debug("ignoring stale completion", xslog.RequestKind(h.Kind.String()))
		return false
	}
	t.slots[h.Kind] = slot{}
	return true
}

// Abort cancels h if it is still live. It is safe to call repeatedly and on
// the zero Handle.
func (t *Tracker) Abort(h Handle) {
	if h.IsZero() || h.Kind >= numRequestKinds {
		return
	}
	s := t.slots[h.Kind]
	if !s.pending || s.handle != h {
		return
	}
	t.slots[h.Kind] = slot{}
	t.logger.Debug("aborting request", xslog.RequestKind(h.Kind.String()))
	if s.async != 0 {
		t.abort(s.async)
	}
}

func (t *Tracker) AbortKind(kind RequestKind) {
	t.Abort(t.slots[kind].handle)
}

func (t *Tracker) AbortAll() {
	for kind := range numRequestKinds {
		t.AbortKind(kind)
	}
}

func (t *Tracker) Pending(kind RequestKind) bool {
	return t.slots[kind].pending
}

func (t *Tracker) Live(kind RequestKind) (Handle, bool) {
	s := t.slots[kind]
	return s.handle, s.pending
}
