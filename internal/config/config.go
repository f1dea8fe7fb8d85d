package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/garrettladley/cheevo/internal/achievements"
)

const DefaultServerURL = "https://retroachievements.org"

type SettingsBackend string

const (
	SettingsBackendSQLite   SettingsBackend = "sqlite"
	SettingsBackendRedis    SettingsBackend = "redis"
	SettingsBackendPostgres SettingsBackend = "postgres"
	SettingsBackendMemory   SettingsBackend = "memory"
)

type Config struct {
	ServerURL string `env:"CHEEVO_SERVER_URL" envDefault:"https://retroachievements.org"`

	Enabled                  bool          `env:"CHEEVO_ENABLED" envDefault:"true"`
	Hardcore                 bool          `env:"CHEEVO_HARDCORE" envDefault:"false"`
	Encore                   bool          `env:"CHEEVO_ENCORE" envDefault:"false"`
	Spectator                bool          `env:"CHEEVO_SPECTATOR" envDefault:"false"`
	Unofficial               bool          `env:"CHEEVO_UNOFFICIAL" envDefault:"false"`
	Notifications            bool          `env:"CHEEVO_NOTIFICATIONS" envDefault:"true"`
	LeaderboardNotifications bool          `env:"CHEEVO_LEADERBOARD_NOTIFICATIONS" envDefault:"true"`
	SoundEffects             bool          `env:"CHEEVO_SOUND_EFFECTS" envDefault:"true"`
	NotificationDuration     time.Duration `env:"CHEEVO_NOTIFICATION_DURATION" envDefault:"5s"`
	LeaderboardDuration      time.Duration `env:"CHEEVO_LEADERBOARD_DURATION" envDefault:"10s"`

	SettingsBackend SettingsBackend `env:"CHEEVO_SETTINGS_BACKEND" envDefault:"sqlite"`
	RedisURL        string          `env:"REDIS_URL"`
	DatabaseURL     string          `env:"DATABASE_URL"`

	HTTPTimeout           time.Duration `env:"CHEEVO_HTTP_TIMEOUT" envDefault:"30s"`
	MaxConcurrentRequests int64         `env:"CHEEVO_MAX_CONCURRENT_REQUESTS" envDefault:"4"`
}

func Read() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.SettingsBackend {
	case SettingsBackendSQLite, SettingsBackendMemory:
	case SettingsBackendRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required when CHEEVO_SETTINGS_BACKEND=%s", c.SettingsBackend)
		}
	case SettingsBackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when CHEEVO_SETTINGS_BACKEND=%s", c.SettingsBackend)
		}
	default:
		return fmt.Errorf("invalid CHEEVO_SETTINGS_BACKEND: %q (valid: sqlite, redis, postgres, memory)", c.SettingsBackend)
	}
	if c.MaxConcurrentRequests < 1 {
		return fmt.Errorf("CHEEVO_MAX_CONCURRENT_REQUESTS must be at least 1, got %d", c.MaxConcurrentRequests)
	}
	return nil
}

// Achievements converts the environment into coordinator settings.
func (c Config) Achievements() achievements.Settings {
	return achievements.Settings{
		Enabled:                  c.Enabled,
		Hardcore:                 c.Hardcore,
		Encore:                   c.Encore,
		Spectator:                c.Spectator,
		UnofficialTestMode:       c.Unofficial,
		Notifications:            c.Notifications,
		LeaderboardNotifications: c.LeaderboardNotifications,
		SoundEffects:             c.SoundEffects,
		NotificationDuration:     c.NotificationDuration,
		LeaderboardDuration:      c.LeaderboardDuration,
	}
}
