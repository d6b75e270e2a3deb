// internal/config/config.go
//
// Server and engine configuration, read from the environment.
// Responsibilities:
//   - Parse server keys (PORT, LOG_LEVEL, DB_PATH, JWT_SECRET, ...) with defaults.
//   - Parse the engine tunables (BUBBLES_*) into game.Config.
//   - Reject configurations the server or the engine cannot run with.
//
// Notes:
//   - main loads `.env` with godotenv before calling Load, so a dotenv file and
//     the real environment feed the same parser.

package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"

	"github.com/robalobadob/bubbles/internal/game"
)

// ErrInvalid wraps every server-level configuration rejection.
var ErrInvalid = errors.New("invalid server config")

// Config is the full process configuration.
type Config struct {
	Port         string        `env:"PORT"          envDefault:"5175"`
	LogLevel     string        `env:"LOG_LEVEL"     envDefault:"info"`
	DBPath       string        `env:"DB_PATH"       envDefault:"./data/bubbles.db"`
	JWTSecret    string        `env:"JWT_SECRET"    envDefault:"dev_secret_change_me"`
	TokenTTL     time.Duration `env:"TOKEN_TTL"     envDefault:"24h"`
	ClientOrigin string        `env:"CLIENT_ORIGIN" envDefault:"http://localhost:5173"`
	DailySalt    string        `env:"DAILY_SALT"    envDefault:"local_dev_salt"`

	Game game.Config
}

// ParseEnv loads configuration from environment variables into target.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses and validates the process configuration.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks server keys, then the engine tunables.
func (c Config) Validate() error {
	switch {
	case c.Port == "":
		return fmt.Errorf("%w: empty PORT", ErrInvalid)
	case c.JWTSecret == "":
		return fmt.Errorf("%w: empty JWT_SECRET", ErrInvalid)
	case c.TokenTTL <= 0:
		return fmt.Errorf("%w: TOKEN_TTL %s", ErrInvalid, c.TokenTTL)
	case c.DBPath == "":
		return fmt.Errorf("%w: empty DB_PATH", ErrInvalid)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: LOG_LEVEL: %v", ErrInvalid, err)
	}
	return c.Game.Validate()
}

// Level returns the parsed log level, falling back to info.
func (c Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}
