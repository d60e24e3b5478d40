// Package config loads service configuration from configs/config.yml plus
// environment overrides. The token signing secret comes only from the
// environment and is required: startup fails rather than falling back to a
// compiled-in value.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

const secretEnvVar = "USERBASE_JWT_SECRET"

type Config struct {
	Port      string
	LogLevel  string
	Auth      Auth
	DB        DB
	RateLimit RateLimit
}

type Auth struct {
	Enabled  bool
	TokenTTL time.Duration
	Secret   string
}

type DB struct {
	Backend string // sqlite | postgres
	Path    string // sqlite file path
	DSN     string // postgres connection string
}

type RateLimit struct {
	Window      time.Duration
	MaxRequests int
}

// Load reads configs/config.yml (searched relative to the working
// directory) and the environment.
func Load() (*Config, error) {
	v := viper.New()
	v.AddConfigPath("configs") // configs/config.yml
	v.SetConfigName("config")

	v.SetDefault("port", "8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("auth.enabled", true)
	v.SetDefault("auth.token_ttl", "24h")
	v.SetDefault("db.backend", "sqlite")
	v.SetDefault("db.path", "userbase.sqlite")
	v.SetDefault("ratelimit.window", "60s")
	v.SetDefault("ratelimit.max_requests", 100)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := v.BindEnv("auth.secret", secretEnvVar); err != nil {
		return nil, fmt.Errorf("bind %s: %w", secretEnvVar, err)
	}

	cfg := &Config{
		Port:     v.GetString("port"),
		LogLevel: v.GetString("log_level"),
		Auth: Auth{
			Enabled:  v.GetBool("auth.enabled"),
			TokenTTL: v.GetDuration("auth.token_ttl"),
			Secret:   v.GetString("auth.secret"),
		},
		DB: DB{
			Backend: v.GetString("db.backend"),
			Path:    v.GetString("db.path"),
			DSN:     v.GetString("db.dsn"),
		},
		RateLimit: RateLimit{
			Window:      v.GetDuration("ratelimit.window"),
			MaxRequests: v.GetInt("ratelimit.max_requests"),
		},
	}

	if cfg.Auth.Enabled && cfg.Auth.Secret == "" {
		return nil, fmt.Errorf("%s environment variable is required", secretEnvVar)
	}

	return cfg, nil
}
