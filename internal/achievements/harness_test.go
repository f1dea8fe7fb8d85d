package achievements

import (
	"context"
	"slices"
	"testing"
	"time"

	"github.com/garrettladley/cheevo/internal/backend"
	"github.com/garrettladley/cheevo/internal/backend/backendtest"
	"github.com/garrettladley/cheevo/internal/client/retro"
	"github.com/garrettladley/cheevo/internal/notify"
	"github.com/garrettladley/cheevo/internal/settings"
	"github.com/garrettladley/cheevo/internal/xslog"
)

type clock struct{ now time.Time }

func (c *clock) Now() time.Time          { return c.now }
func (c *clock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type fakeHost struct {
	valid   bool
	path    string
	confirm bool
	// onConfirm runs inside ConfirmMessage.
	onConfirm func()

	refreshed       int
	hardcoreChanges []bool
	loginRequests   []LoginRequestReason
	logins          []string
	sounds          []string
	prompts         []string
}

var _ Host = (*fakeHost)(nil)

func (h *fakeHost) IsSystemValid() bool     { return h.valid }
func (h *fakeHost) RunningGamePath() string { return h.path }
func (h *fakeHost) ConfirmMessage(title string, message string) bool {
	h.prompts = append(h.prompts, message)
	if h.onConfirm != nil {
		h.onConfirm()
	}
	return h.confirm
}
func (h *fakeHost) OnAchievementsRefreshed()      { h.refreshed++ }
func (h *fakeHost) OnHardcoreModeChanged(on bool) { h.hardcoreChanges = append(h.hardcoreChanges, on) }
func (h *fakeHost) OnLoginSuccess(u backend.User) { h.logins = append(h.logins, u.Username) }
func (h *fakeHost) PlaySound(name string)         { h.sounds = append(h.sounds, name) }
func (h *fakeHost) OnLoginRequested(r LoginRequestReason) {
	h.loginRequests = append(h.loginRequests, r)
}

// hashes maps paths to game hashes; unknown paths fail to hash.
type hashes map[string]string

func (m hashes) GameHash(path string) string { return m[path] }

var testHashes = hashes{
	"game.bin":  "abc123",
	"copy.bin":  "abc123",
	"other.bin": "zzz999",
}

type harness struct {
	t        *testing.T
	c        *Coordinator
	f        backendtest.Fixture
	clock    *clock
	host     *fakeHost
	sink     *notify.Queue
	store    *settings.MemoryStore
	settings Settings
	imageDir string

	// hold makes new networks queue responses until Release.
	hold bool
	nets []*backendtest.Network
	rts  []*retro.Runtime

	wrapRuntime func(backend.Runtime) backend.Runtime
	wrapNetwork func(backend.NetworkClient) backend.NetworkClient
}

type harnessOption func(*harness)

func withCredentials(token string) harnessOption {
	return func(h *harness) {
		err := settings.SaveCredentials(context.Background(), h.store, settings.Credentials{
			Username: h.f.Username, Token: token, LoginTimestamp: h.clock.now,
		})
		if err != nil {
			h.t.Fatalf("SaveCredentials() error = %v", err)
		}
	}
}

func withStoredLogin() harnessOption {
	return func(h *harness) { withCredentials(h.f.Token)(h) }
}

func withRunningGame(path string) harnessOption {
	return func(h *harness) {
		h.host.valid = true
		h.host.path = path
	}
}

func withSettings(fn func(*Settings)) harnessOption {
	return func(h *harness) { fn(&h.settings) }
}

func newHarness(t *testing.T, opts ...harnessOption) *harness {
	t.Helper()
	h := &harness{
		t:        t,
		f:        backendtest.DefaultFixture(),
		clock:    &clock{now: time.Unix(1700000000, 0)},
		host:     &fakeHost{confirm: true},
		store:    settings.NewMemoryStore(),
		settings: DefaultSettings(),
	}
	h.sink = notify.NewQueue(notify.WithClock(h.clock.Now))
	for _, opt := range opts {
		opt(h)
	}

	newNetwork := func() backend.NetworkClient {
		n := backendtest.NewNetwork()
		n.Serve(h.f)
		if h.hold {
			n.Hold()
		}
		h.nets = append(h.nets, n)
		if h.wrapNetwork != nil {
			return h.wrapNetwork(n)
		}
		return n
	}
	newRuntime := func(nc backend.NetworkClient) backend.Runtime {
		rt := retro.New(nc,
			retro.WithLogger(xslog.Discard()),
			retro.WithClock(h.clock.Now),
			retro.WithPingInterval(0),
		)
		h.rts = append(h.rts, rt)
		if h.wrapRuntime != nil {
			return h.wrapRuntime(rt)
		}
		return rt
	}

	h.c = New(newRuntime, newNetwork,
		WithSettings(h.settings),
		WithLogger(xslog.Discard()),
		WithClock(h.clock.Now),
		WithHost(h.host),
		WithNotificationSink(h.sink),
		WithSettingsStore(h.store),
		WithHashProvider(testHashes),
		WithImageDirectory(h.imageDir),
	)
	return h
}

func (h *harness) start() {
	h.t.Helper()
	if err := h.c.Start(context.Background(), nil); err != nil {
		h.t.Fatalf("Start() error = %v", err)
	}
}

// settle runs enough frames for every request chain to finish.
func (h *harness) settle() {
	for range 8 {
		h.c.FrameUpdate()
	}
}

func (h *harness) net() *backendtest.Network { return h.nets[len(h.nets)-1] }
func (h *harness) rt() *retro.Runtime        { return h.rts[len(h.rts)-1] }

// newLoaded starts a logged in session with game.bin loaded.
func newLoaded(t *testing.T, opts ...harnessOption) *harness {
	t.Helper()
	h := newHarness(t, append([]harnessOption{withStoredLogin(), withRunningGame("game.bin")}, opts...)...)
	h.start()
	h.settle()
	if got := h.c.Snapshot().GameID; got != h.f.GameID {
		t.Fatalf("GameID = %d, want %d", got, h.f.GameID)
	}
	return h
}

func (h *harness) notification(key string) (notify.Notification, bool) {
	ns := h.sink.Notifications()
	i := slices.IndexFunc(ns, func(n notify.Notification) bool { return n.Key == key })
	if i < 0 {
		return notify.Notification{}, false
	}
	return ns[i], true
}

// bodies lists unkeyed notification bodies, which is how errors are reported.
func (h *harness) bodies() []string {
	var out []string
	for _, n := range h.sink.Notifications() {
		if n.Key == "" {
			out = append(out, n.Body)
		}
	}
	return out
}
