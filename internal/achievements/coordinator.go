package achievements

import (
	"context"
	"log/slog"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/garrettladley/cheevo/internal/backend"
	"github.com/garrettladley/cheevo/internal/notify"
	"github.com/garrettladley/cheevo/internal/settings"
	"github.com/garrettladley/cheevo/internal/xerrors"
	"github.com/garrettladley/cheevo/internal/xslog"
)

type Option func(*coordinatorConfig)

type coordinatorConfig struct {
	settings Settings
	logger   *slog.Logger
	clock    func() time.Time
	host     Host
	sink     NotificationSink
	store    settings.Store
	hasher   HashProvider
	imageDir string
}

func WithSettings(s Settings) Option {
	return func(cfg *coordinatorConfig) { cfg.settings = s }
}

func WithLogger(logger *slog.Logger) Option {
	return func(cfg *coordinatorConfig) { cfg.logger = logger }
}

func WithClock(clock func() time.Time) Option {
	return func(cfg *coordinatorConfig) { cfg.clock = clock }
}

func WithHost(h Host) Option {
	return func(cfg *coordinatorConfig) { cfg.host = h }
}

func WithNotificationSink(s NotificationSink) Option {
	return func(cfg *coordinatorConfig) { cfg.sink = s }
}

// WithSettingsStore persists credentials across runs.
func WithSettingsStore(s settings.Store) Option {
	return func(cfg *coordinatorConfig) { cfg.store = s }
}

// WithHashProvider sets the provider used for games identified by Start.
func WithHashProvider(h HashProvider) Option {
	return func(cfg *coordinatorConfig) { cfg.hasher = h }
}

// WithImageDirectory caches badge images in dir. Without it no images are downloaded.
func WithImageDirectory(dir string) Option {
	return func(cfg *coordinatorConfig) { cfg.imageDir = dir }
}

type session struct {
	gameID          uint32
	title           string
	icon            string
	hasAchievements bool
	hasLeaderboards bool
	hasRichPresence bool
	richPresence    string
	summary         backend.Summary
}

// Coordinator keeps the game session, the backend runtime and the on-screen
// indicators consistent. All state is guarded by mu. Runtime callbacks are
// only delivered from NetworkClient.PollRequests and WaitForAllRequests, which
// the coordinator calls with mu held, so callbacks never take mu themselves.
type Coordinator struct {
	mu sync.Mutex

	newRuntime backend.RuntimeFactory
	newNetwork backend.NetworkClientFactory

	settings Settings
	logger   *slog.Logger
	clock    func() time.Time
	host     Host
	sink     NotificationSink
	store    settings.Store
	hasher   HashProvider
	imageDir string

	nc         backend.NetworkClient
	rt         backend.Runtime
	requests   *Tracker
	indicators *Animator
	pager      *Pager

	hardcore       bool
	gamePath       string
	gameHash       string
	session        session
	richPresenceAt time.Time
	leaderboards   []backend.Leaderboard
}

func New(newRuntime backend.RuntimeFactory, newNetwork backend.NetworkClientFactory, opts ...Option) *Coordinator {
	cfg := coordinatorConfig{
		settings: DefaultSettings(),
		logger:   slog.Default(),
		clock:    time.Now,
		host:     NopHost{},
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.sink == nil {
		cfg.sink = notify.NewLogSink(cfg.logger)
	}

	return &Coordinator{
		newRuntime: newRuntime,
		newNetwork: newNetwork,
		settings:   cfg.settings,
		logger:     cfg.logger,
		clock:      cfg.clock,
		host:       cfg.host,
		sink:       cfg.sink,
		store:      cfg.store,
		hasher:     cfg.hasher,
		imageDir:   cfg.imageDir,
		indicators: NewAnimator(cfg.clock),
	}
}

// Start creates the runtime and begins identifying the running game and
// logging in. creds overrides the credentials in the settings store. Hardcore
// mode always starts off; ResetHardcoreMode turns it on.
func (c *Coordinator) Start(ctx context.Context, creds *settings.Credentials) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.start(ctx, creds)
}

func (c *Coordinator) start(ctx context.Context, creds *settings.Credentials) error {
	const op = "start achievements"

	if !c.settings.Enabled {
		return xerrors.Invariant(op, xerrors.WithMessage("achievements are disabled"))
	}
	if c.rt != nil {
		return nil
	}
	c.ensureImageDir()

	c.nc = c.newNetwork()
	c.rt = c.newRuntime(c.nc)
	c.requests = NewTracker(c.rt.Abort, c.logger)
	c.pager = newPager(c.rt, c.requests, c.logger, c.leaderboardFailed, c.userIcon)
	c.hardcore = false

	c.rt.SetEventHandler(c.handleEvent)
	c.rt.SetHardcoreEnabled(false)
	c.rt.SetEncoreMode(c.settings.Encore)
	c.rt.SetUnofficialEnabled(c.settings.UnofficialTestMode)
	c.rt.SetSpectatorMode(c.settings.Spectator)

	// Identify early, before the login finishes.
	if c.host.IsSystemValid() {
		c.identifyGame(c.host.RunningGamePath(), c.hasher)
	}

	if creds == nil && c.store != nil {
		stored, err := settings.LoadCredentials(ctx, c.store)
		if err != nil {
			c.logger.WarnContext(ctx, "failed to load stored credentials", xslog.Error(err))
		}
		creds = &stored
	}
	if creds != nil && creds.Valid() {
		c.beginTokenLogin(*creds)
	}

	if c.host.IsSystemValid() && c.loggedInOrLoggingIn() && c.settings.Hardcore {
		c.displayHardcoreDeferredMessage()
	}
	return nil
}

// Stop tears the session down: game info is cleared, every request is
// aborted and drained from the network client, and only then is the runtime
// destroyed. There is no backend that can veto the shutdown, so the
// allow-cancel argument is ignored and Stop always returns true.
func (c *Coordinator) Stop(_ bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stop()
	return true
}

func (c *Coordinator) stop() {
	if c.rt == nil {
		return
	}

	c.clearGameInfo()
	c.clearGameHash()
	c.disableHardcoreMode()
	c.requests.AbortAll()
	c.hardcore = false

	c.nc.WaitForAllRequests()
	c.rt.Destroy()
	c.nc.Close()
	c.rt = nil
	c.nc = nil
	c.requests = nil
	c.pager = nil

	c.host.OnAchievementsRefreshed()
}

func (c *Coordinator) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rt != nil
}

// FrameUpdate runs once per emulated frame.
func (c *Coordinator) FrameUpdate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.rt == nil {
		return
	}

	c.nc.PollRequests()
	c.rt.DoFrame()
	c.indicators.Update()
	c.updateRichPresence()
}

// IdleUpdate services the network while the system is paused.
func (c *Coordinator) IdleUpdate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.rt == nil {
		return
	}

	c.nc.PollRequests()
	c.rt.Idle()
}

// ResetRuntime is called when the host resets the emulated system.
func (c *Coordinator) ResetRuntime() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.rt == nil {
		return
	}
	c.logger.Debug("resetting runtime")
	c.rt.Reset()
}

func (c *Coordinator) updateRichPresence() {
	if !c.session.hasRichPresence {
		return
	}
	now := c.clock()
	if !c.richPresenceAt.IsZero() && now.Sub(c.richPresenceAt) < richPresenceInterval {
		return
	}
	c.richPresenceAt = now

	text := c.rt.RichPresence()
	if text == c.session.richPresence {
		return
	}
	c.session.richPresence = text
	c.logger.Info("rich presence updated", slog.String("rich_presence", text))
	c.host.OnAchievementsRefreshed()
}

func (c *Coordinator) hasActiveGame() bool { return c.session.gameID != 0 }

func (c *Coordinator) loggedInOrLoggingIn() bool {
	if _, ok := c.rt.User(); ok {
		return true
	}
	return c.requests.Pending(RequestLogin)
}

func (c *Coordinator) updateSummary() {
	c.session.summary = c.rt.Summary()
}

func (c *Coordinator) playSound(name string) {
	if c.settings.SoundEffects {
		c.host.PlaySound(name)
	}
}

// reportError shows msg on screen. Each user-visible failure calls it once.
func (c *Coordinator) reportError(msg string) {
	msg = "Achievements error: " + msg
	c.logger.Error(msg)
	c.sink.AddNotification("", osdCriticalErrorDuration, "", msg, "")
}

func (c *Coordinator) ensureImageDir() {
	if c.imageDir == "" {
		return
	}
	if err := os.MkdirAll(c.imageDir, 0o755); err != nil {
		c.logger.Warn("failed to create image directory", xslog.Path(c.imageDir), xslog.Error(err))
	}
}

// clearUIState drops lists and the open leaderboard, which refer to state
// that is no longer valid.
func (c *Coordinator) clearUIState() {
	if c.pager != nil {
		c.pager.Close()
	}
	c.leaderboards = nil
}

// Achievements lists the loaded game's achievements, including unofficial
// ones in unofficial test mode.
func (c *Coordinator) Achievements() []backend.Achievement {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.rt == nil || !c.hasActiveGame() {
		return nil
	}
	category := backend.CategoryCore
	if c.settings.UnofficialTestMode {
		category = backend.CategoryAll
	}
	return c.rt.Achievements(category)
}

// PrepareLeaderboards closes any open leaderboard and refreshes the list
// returned by Leaderboards. It reports false when there is nothing to show.
func (c *Coordinator) PrepareLeaderboards() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.rt == nil || !c.hasActiveGame() {
		return false
	}
	c.pager.Close()
	c.leaderboards = c.rt.Leaderboards()
	return len(c.leaderboards) > 0
}

func (c *Coordinator) Leaderboards() []backend.Leaderboard {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.leaderboards)
}

func (c *Coordinator) OpenLeaderboard(id uint32) error {
	const op = "open leaderboard"

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.rt == nil {
		return xerrors.Invariant(op, xerrors.WithMessage("achievements are not active"))
	}
	lb, ok := c.rt.Leaderboard(id)
	if !ok {
		c.logger.Warn("unknown leaderboard", xslog.LeaderboardID(id))
		return xerrors.Operation(op, xerrors.WithMessage("unknown leaderboard"))
	}
	c.pager.Open(lb)
	return nil
}

func (c *Coordinator) ShowAllEntries()     { c.withPager((*Pager).ShowAll) }
func (c *Coordinator) ShowNearbyEntries()  { c.withPager((*Pager).ShowNearby) }
func (c *Coordinator) FetchNextEntries()   { c.withPager((*Pager).FetchNext) }
func (c *Coordinator) PlaceholderVisible() { c.withPager((*Pager).PlaceholderVisible) }
func (c *Coordinator) CloseLeaderboard()   { c.withPager((*Pager).Close) }

func (c *Coordinator) withPager(fn func(*Pager)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pager != nil {
		fn(c.pager)
	}
}

func (c *Coordinator) leaderboardFailed(message string) {
	c.sink.ShowToast("Leaderboard download failed", message, osdErrorDuration)
}
