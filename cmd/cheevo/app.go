package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/garrettladley/cheevo/internal/achievements"
	"github.com/garrettladley/cheevo/internal/backend"
	"github.com/garrettladley/cheevo/internal/client/retro"
	"github.com/garrettladley/cheevo/internal/config"
	"github.com/garrettladley/cheevo/internal/gamehash"
	"github.com/garrettladley/cheevo/internal/netclient"
	"github.com/garrettladley/cheevo/internal/notify"
	"github.com/garrettladley/cheevo/internal/paths"
	"github.com/garrettladley/cheevo/internal/settings"
	"github.com/garrettladley/cheevo/internal/xhttp"
	"github.com/garrettladley/cheevo/internal/xslog"
)

const pumpInterval = 50 * time.Millisecond

// app is everything a command needs to drive a coordinator.
type app struct {
	cfg         config.Config
	logger      *slog.Logger
	store       settings.Store
	queue       *notify.Queue
	hasher      *gamehash.Provider
	coordinator *achievements.Coordinator
}

type appConfig struct {
	host      achievements.Host
	logOutput io.Writer
}

type appOption func(*appConfig)

func withHost(h achievements.Host) appOption {
	return func(cfg *appConfig) { cfg.host = h }
}

func withLogOutput(w io.Writer) appOption {
	return func(cfg *appConfig) { cfg.logOutput = w }
}

func newApp(ctx context.Context, opts ...appOption) (*app, error) {
	ac := appConfig{
		host:      achievements.NopHost{},
		logOutput: os.Stderr,
	}
	for _, opt := range opts {
		opt(&ac)
	}

	cfg, err := config.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	logger := xslog.NewLoggerFromEnv(ac.logOutput).With(xslog.Version())
	slog.SetDefault(logger)
	ctx = xslog.WithLogger(ctx, logger)

	store, err := cfg.OpenSettings(ctx)
	if err != nil {
		return nil, err
	}

	imageDir, err := paths.Cache()
	if err != nil {
		logger.WarnContext(ctx, "image cache unavailable", xslog.Error(err))
	}

	var (
		queue  = notify.NewQueue()
		hasher = gamehash.New(gamehash.WithLogger(logger))
		client = xhttp.NewHTTPClient(xhttp.WithTimeout(cfg.HTTPTimeout), xhttp.WithLogger(logger))
	)
	newNetwork := func() backend.NetworkClient {
		return netclient.New(
			netclient.WithHTTPClient(client),
			netclient.WithMaxConcurrent(cfg.MaxConcurrentRequests),
			netclient.WithLogger(logger),
		)
	}
	newRuntime := retro.Factory(retro.WithBaseURL(cfg.ServerURL), retro.WithLogger(logger))

	coordinator := achievements.New(newRuntime, newNetwork,
		achievements.WithSettings(cfg.Achievements()),
		achievements.WithLogger(logger),
		achievements.WithHost(ac.host),
		achievements.WithNotificationSink(notify.Fanout{queue, notify.NewLogSink(logger)}),
		achievements.WithSettingsStore(store),
		achievements.WithHashProvider(hasher),
		achievements.WithImageDirectory(imageDir),
	)

	return &app{
		cfg:         cfg,
		logger:      logger,
		store:       store,
		queue:       queue,
		hasher:      hasher,
		coordinator: coordinator,
	}, nil
}

// Close stops the coordinator and flushes settings.
func (a *app) Close(ctx context.Context) error {
	a.coordinator.Stop(false)
	return errors.Join(a.store.Commit(ctx), a.store.Close())
}

// waitFor services the network until done reports true for a snapshot or ctx ends.
func (a *app) waitFor(ctx context.Context, done func(achievements.Snapshot) bool) (achievements.Snapshot, error) {
	ticker := time.NewTicker(pumpInterval)
	defer ticker.Stop()

	for {
		a.coordinator.IdleUpdate()
		s := a.coordinator.Snapshot()
		if done(s) {
			return s, nil
		}
		select {
		case <-ctx.Done():
			return s, ctx.Err()
		case <-ticker.C:
		}
	}
}

// loadGame logs in with stored credentials and loads the game at path.
func (a *app) loadGame(ctx context.Context, path string) (achievements.Snapshot, error) {
	ctx = xslog.WithAttrs(xslog.WithLogger(ctx, a.logger), xslog.Path(path))

	if err := a.coordinator.Start(ctx, nil); err != nil {
		return achievements.Snapshot{}, err
	}

	s, err := a.waitFor(ctx, func(s achievements.Snapshot) bool { return !s.LoggingIn })
	if err != nil {
		return s, err
	}
	if !s.LoggedIn {
		return s, errors.New("not logged in, run cheevo login first")
	}

	a.coordinator.IdentifyGame(path, a.hasher)
	s, err = a.waitFor(ctx, func(s achievements.Snapshot) bool { return !s.LoadingGame })
	if err != nil {
		return s, err
	}
	if s.GameID == 0 {
		if s.GameHash == "" {
			return s, fmt.Errorf("failed to read %s", path)
		}
		return s, fmt.Errorf("no achievements game found for %s (hash %s)", path, s.GameHash)
	}
	xslog.FromContext(ctx).InfoContext(ctx, "game loaded", xslog.GameID(s.GameID), xslog.Hash(s.GameHash))
	return s, nil
}
