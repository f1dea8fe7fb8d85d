package retro

import (
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/garrettladley/cheevo/internal/backend"
	"github.com/garrettladley/cheevo/internal/xslog"
)

const DefaultBaseURL = "https://retroachievements.org"

type Option func(*runtimeConfig)

type runtimeConfig struct {
	baseURL      string
	logger       *slog.Logger
	clock        func() time.Time
	pingInterval time.Duration
}

func WithBaseURL(baseURL string) Option {
	return func(cfg *runtimeConfig) { cfg.baseURL = strings.TrimRight(baseURL, "/") }
}

func WithLogger(logger *slog.Logger) Option {
	return func(cfg *runtimeConfig) { cfg.logger = logger }
}

func WithClock(clock func() time.Time) Option {
	return func(cfg *runtimeConfig) { cfg.clock = clock }
}

func WithPingInterval(d time.Duration) Option {
	return func(cfg *runtimeConfig) { cfg.pingInterval = d }
}

// Factory returns a backend.RuntimeFactory producing runtimes configured with opts.
func Factory(opts ...Option) backend.RuntimeFactory {
	return func(nc backend.NetworkClient) backend.Runtime {
		return New(nc, opts...)
	}
}

type request struct {
	handle  backend.AsyncHandle
	api     string
	aborted bool
}

// Runtime speaks the dorequest API over a backend.NetworkClient. Evaluator
// hooks (Trigger, UpdateProgress, ...) may be called from any goroutine; all
// other methods must be serialized by the owner.
type Runtime struct {
	nc           backend.NetworkClient
	baseURL      string
	logger       *slog.Logger
	clock        func() time.Time
	pingInterval time.Duration

	handler backend.EventHandler

	hardcore   bool
	encore     bool
	unofficial bool
	spectator  bool

	nextHandle backend.AsyncHandle
	requests   map[backend.AsyncHandle]*request

	user *backend.User
	game *game

	events      []backend.Event
	submissions submissionQueue
	lastPing    time.Time

	inputMu sync.Mutex
	inputs  []input

	destroyed bool
}

var (
	_ backend.Runtime          = (*Runtime)(nil)
	_ backend.ProgressCapturer = (*Runtime)(nil)
)

func New(nc backend.NetworkClient, opts ...Option) *Runtime {
	cfg := runtimeConfig{
		baseURL:      DefaultBaseURL,
		logger:       slog.Default(),
		clock:        time.Now,
		pingInterval: 2 * time.Minute,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Runtime{
		nc:           nc,
		baseURL:      cfg.baseURL,
		logger:       cfg.logger,
		clock:        cfg.clock,
		pingInterval: cfg.pingInterval,
		requests:     make(map[backend.AsyncHandle]*request),
		submissions:  newSubmissionQueue(),
	}
}

func (r *Runtime) SetEventHandler(h backend.EventHandler) { r.handler = h }

func (r *Runtime) SetHardcoreEnabled(enabled bool) {
	if r.hardcore == enabled {
		return
	}
	r.hardcore = enabled
	r.logger.Info("hardcore mode changed", slog.Bool("enabled", enabled))
	if r.game == nil {
		return
	}
	r.game.applyUnlocks(r.hardcore, r.encore)
	if enabled {
		r.raise(backend.Reset{})
	}
}

func (r *Runtime) HardcoreEnabled() bool { return r.hardcore }

func (r *Runtime) SetEncoreMode(enabled bool) { r.encore = enabled }

func (r *Runtime) SetUnofficialEnabled(enabled bool) { r.unofficial = enabled }

func (r *Runtime) SetSpectatorMode(enabled bool) { r.spectator = enabled }

func (r *Runtime) SpectatorMode() bool { return r.spectator }

func (r *Runtime) begin(api string) *request {
	r.nextHandle++
	req := &request{handle: r.nextHandle, api: api}
	r.requests[req.handle] = req
	return req
}

// finish retires req and reports whether it was aborted.
func (r *Runtime) finish(req *request) bool {
	delete(r.requests, req.handle)
	return req.aborted
}

func (r *Runtime) Abort(h backend.AsyncHandle) {
	req, ok := r.requests[h]
	if !ok {
		return
	}
	if !req.aborted {
		r.logger.Debug("aborting request", xslog.RequestKind(req.api))
	}
	req.aborted = true
}

func (r *Runtime) post(api string, params url.Values, cb backend.ResponseCallback) {
	r.nc.CreatePostRequest(r.baseURL+requestPath, encodeForm(api, params), cb)
}

func (r *Runtime) raise(ev backend.Event) {
	r.events = append(r.events, ev)
}

func (r *Runtime) flushEvents() {
	for len(r.events) > 0 {
		batch := r.events
		r.events = nil
		if r.handler == nil {
			continue
		}
		for _, ev := range batch {
			r.handler(ev)
		}
	}
}

// DoFrame applies evaluator input gathered since the last frame, services the
// submission queue and raises pending events.
func (r *Runtime) DoFrame() {
	if r.destroyed {
		return
	}
	r.applyInputs()
	r.service()
	r.flushEvents()
}

// Idle services the network side only, for hosts that are paused.
func (r *Runtime) Idle() {
	if r.destroyed {
		return
	}
	r.service()
	r.flushEvents()
}

func (r *Runtime) service() {
	now := r.clock()
	r.submissions.process(r, now)
	if r.game != nil && r.user != nil && r.pingInterval > 0 && now.Sub(r.lastPing) >= r.pingInterval {
		r.lastPing = now
		r.ping()
	}
}

func (r *Runtime) ping() {
	params := r.authParams()
	params.Set("g", formatID(r.game.info.ID))
	if r.game.richPresence != "" {
		params.Set("m", r.game.richPresence)
	}
	r.post(apiPing, params, func(status int, _ string, body []byte) {
		if _, err := decode[baseResponse](apiPing, status, body); err != nil {
			r.logger.Debug("ping failed", xslog.Error(err))
		}
	})
}

func (r *Runtime) User() (backend.User, bool) {
	if r.user == nil {
		return backend.User{}, false
	}
	return *r.user, true
}

func (r *Runtime) Game() (backend.Game, bool) {
	if r.game == nil {
		return backend.Game{}, false
	}
	return r.game.info, true
}

func (r *Runtime) Summary() backend.Summary {
	if r.game == nil {
		return backend.Summary{}
	}
	return r.game.summary()
}

func (r *Runtime) Achievements(category backend.Category) []backend.Achievement {
	if r.game == nil {
		return nil
	}
	out := make([]backend.Achievement, 0, len(r.game.achievements))
	for _, a := range r.game.achievements {
		if a.Category&category == 0 {
			continue
		}
		if a.Unofficial() && !r.unofficial {
			continue
		}
		out = append(out, *a)
	}
	return out
}

func (r *Runtime) Achievement(id uint32) (backend.Achievement, bool) {
	if r.game == nil {
		return backend.Achievement{}, false
	}
	a, ok := r.game.achievement(id)
	if !ok {
		return backend.Achievement{}, false
	}
	return *a, true
}

func (r *Runtime) Leaderboards() []backend.Leaderboard {
	if r.game == nil {
		return nil
	}
	out := make([]backend.Leaderboard, 0, len(r.game.leaderboards))
	for _, lb := range r.game.leaderboards {
		out = append(out, lb.Leaderboard)
	}
	return out
}

func (r *Runtime) Leaderboard(id uint32) (backend.Leaderboard, bool) {
	if r.game == nil {
		return backend.Leaderboard{}, false
	}
	lb, ok := r.game.leaderboard(id)
	if !ok {
		return backend.Leaderboard{}, false
	}
	return lb.Leaderboard, true
}

func (r *Runtime) HasAchievements() bool {
	return r.game != nil && len(r.Achievements(backend.CategoryAll)) > 0
}

func (r *Runtime) HasLeaderboards() bool {
	return r.game != nil && len(r.game.leaderboards) > 0
}

func (r *Runtime) HasRichPresence() bool {
	return r.game != nil && r.game.richPresenceScript != ""
}

func (r *Runtime) RichPresence() string {
	if r.game == nil {
		return ""
	}
	return r.game.richPresence
}

func (r *Runtime) UnloadGame() {
	if r.game == nil {
		return
	}
	r.logger.Info("unloading game", xslog.GameID(r.game.info.ID))
	r.game = nil
	r.events = nil
	r.clearInputs()
}

func (r *Runtime) Logout() {
	r.UnloadGame()
	r.user = nil
	r.submissions.clear()
}

// Destroy aborts every in-flight request. Their callbacks still fire with
// ResultAborted when the network client delivers them.
func (r *Runtime) Destroy() {
	for h := range r.requests {
		r.Abort(h)
	}
	r.UnloadGame()
	r.user = nil
	r.handler = nil
	r.destroyed = true
}

func (r *Runtime) authParams() url.Values {
	params := url.Values{}
	if r.user != nil {
		params.Set("u", r.user.Username)
		params.Set("t", r.user.Token)
	}
	return params
}
