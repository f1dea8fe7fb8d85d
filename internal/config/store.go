package config

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/garrettladley/cheevo/internal/paths"
	xredis "github.com/garrettladley/cheevo/internal/redis"
	"github.com/garrettladley/cheevo/internal/settings"
	"github.com/garrettladley/cheevo/internal/xslog"
)

// OpenSettings connects to the configured settings backend. Migrations are
// applied for the SQL backends. The caller owns the returned store.
func (c Config) OpenSettings(ctx context.Context) (settings.Store, error) {
	xslog.FromContext(ctx).DebugContext(ctx, "opening settings store", slog.String("backend", string(c.SettingsBackend)))

	switch c.SettingsBackend {
	case SettingsBackendMemory:
		return settings.NewMemoryStore(), nil

	case SettingsBackendRedis:
		client, err := xredis.New(ctx, xredis.Config{URL: c.RedisURL})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize redis client: %w", err)
		}
		return settings.NewRedisStore(client), nil

	case SettingsBackendPostgres:
		store, err := settings.OpenPostgres(ctx, c.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres settings: %w", err)
		}
		return store, nil

	default:
		if _, err := paths.EnsureDir(); err != nil {
			return nil, err
		}
		dbPath, err := paths.DB()
		if err != nil {
			return nil, err
		}
		store, err := settings.OpenSQLite(ctx, dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		return store, nil
	}
}
