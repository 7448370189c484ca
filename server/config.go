package server

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	MaxSecretSize = 64
	MinSecretSize = 32
)

// Config holds everything needed to start a Server. Call FillDefaults before
// Validate to use defaults for anything left unset.
type Config struct {
	// ListenAddress is ADDRESS:PORT or :PORT. Defaults to "localhost:8080".
	ListenAddress string

	// TokenSecret signs tokens. Defaults to a fixed, public key that must not
	// be used in production.
	TokenSecret []byte

	// DB defaults to in-memory.
	DB Database

	// Worlds are paths to world files. Each world is named for its file name
	// without the extension.
	Worlds []string

	// UnauthDelayMillis is how long to wait before answering a request with
	// HTTP-401, HTTP-403, or HTTP-500. Defaults to 1000. Negative values turn
	// the delay off.
	UnauthDelayMillis int
}

type envConfig struct {
	ListenAddress     string   `env:"VERBLY_LISTEN_ADDRESS"`
	TokenSecret       string   `env:"VERBLY_TOKEN_SECRET"`
	Database          string   `env:"VERBLY_DATABASE" envDefault:"inmem"`
	Worlds            []string `env:"VERBLY_WORLDS" envSeparator:","`
	UnauthDelayMillis int      `env:"VERBLY_UNAUTH_DELAY_MS"`
}

// ConfigFromEnv reads a Config from the VERBLY_* environment variables.
// Anything not set is left zero, except that the database is in-memory.
func ConfigFromEnv() (Config, error) {
	var raw envConfig
	if err := env.Parse(&raw); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	cfg := Config{
		ListenAddress:     raw.ListenAddress,
		DB:                Database{Type: DatabaseInMemory},
		UnauthDelayMillis: raw.UnauthDelayMillis,
	}

	if raw.Database != "" {
		db, err := ParseDBConnString(raw.Database)
		if err != nil {
			return Config{}, fmt.Errorf("VERBLY_DATABASE: %w", err)
		}
		cfg.DB = db
	}
	if raw.TokenSecret != "" {
		cfg.TokenSecret = []byte(raw.TokenSecret)
	}
	for _, w := range raw.Worlds {
		if w = strings.TrimSpace(w); w != "" {
			cfg.Worlds = append(cfg.Worlds, w)
		}
	}

	return cfg, nil
}

// UnauthDelay gives UnauthDelayMillis as a Duration, or 0 if it is not
// positive.
func (cfg Config) UnauthDelay() time.Duration {
	if cfg.UnauthDelayMillis < 1 {
		return 0
	}
	return time.Duration(cfg.UnauthDelayMillis) * time.Millisecond
}

// FillDefaults gives a copy of cfg with unset fields set to their defaults.
func (cfg Config) FillDefaults() Config {
	if cfg.ListenAddress == "" {
		cfg.ListenAddress = "localhost:8080"
	}
	if cfg.TokenSecret == nil {
		cfg.TokenSecret = []byte("DEFAULT_TOKEN_SECRET-DO_NOT_USE_IN_PROD!")
	}
	if cfg.DB.Type == "" || cfg.DB.Type == DatabaseNone {
		cfg.DB = Database{Type: DatabaseInMemory}
	}
	if cfg.UnauthDelayMillis == 0 {
		cfg.UnauthDelayMillis = 1000
	}
	return cfg
}

// Validate gives an error for the first field of cfg that cannot be used.
func (cfg Config) Validate() error {
	if !strings.Contains(cfg.ListenAddress, ":") {
		return fmt.Errorf("listen address: must be in ADDRESS:PORT or :PORT format")
	}
	if n := len(cfg.TokenSecret); n < MinSecretSize || n > MaxSecretSize {
		return fmt.Errorf("token secret: must be between %d and %d bytes, but is %d", MinSecretSize, MaxSecretSize, n)
	}
	if err := cfg.DB.Validate(); err != nil {
		return fmt.Errorf("db: %w", err)
	}
	if len(cfg.Worlds) < 1 {
		return fmt.Errorf("worlds: at least one world file must be given")
	}
	return nil
}
