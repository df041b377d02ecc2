package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all environment-driven settings for the server.
//
// The Google credentials may legitimately be absent (the server still boots
// and serves /health); the start endpoint reports a configuration error
// per request instead.
type Config struct {
	GoogleClientID     string        `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string        `env:"GOOGLE_CLIENT_SECRET"`
	RedirectURL        string        `env:"OAUTH_REDIRECT_URL" envDefault:"http://localhost:8080/auth/google/callback"`
	AllowedOrigins     []string      `env:"ALLOWED_ORIGINS" envSeparator:","`
	Port               string        `env:"PORT" envDefault:"8080"`
	SessionTTL         time.Duration `env:"SESSION_TTL" envDefault:"5m"`
	SweepInterval      time.Duration `env:"SWEEP_INTERVAL" envDefault:"60s"`
	Env                string        `env:"APP_ENV" envDefault:"development"`
}

// Load parses the configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing environment: %w", err)
	}
	return cfg, nil
}
