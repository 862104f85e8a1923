package config

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sethvargo/go-envconfig"
)

// Config holds all client settings, read from environment variables.
type Config struct {
	// ServerURL is the backend root the gateway resolves every request
	// against.
	ServerURL string `env:"CCTRACK_SERVER_URL, default=http://localhost:8000" validate:"required,url"`

	// RequestTimeout bounds every backend call.
	RequestTimeout time.Duration `env:"CCTRACK_REQUEST_TIMEOUT, default=15s"`

	// PollInterval is the refresh cadence for watched collections.
	PollInterval time.Duration `env:"CCTRACK_POLL_INTERVAL, default=15s"`

	// StatePath is the SQLite file holding the credential and privacy flag.
	StatePath string `env:"CCTRACK_STATE_PATH, default=cctrack.db" validate:"required"`

	LogLevel  string `env:"LOG_LEVEL,  default=info"`
	LogPretty bool   `env:"LOG_PRETTY, default=false"`

	// Optional credentials for non-interactive login in the watcher.
	Username string `env:"CCTRACK_USERNAME"`
	Password string `env:"CCTRACK_PASSWORD"`
}

// Load reads configuration from environment variables using go-envconfig and
// validates it.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
