// Package config loads the fleet garage server settings.
//
// Settings come from the process environment, optionally seeded from a .env
// file in the working directory. Command-line flags are applied on top by the
// server command.
//
//	FLEET_HOST=0.0.0.0
//	FLEET_PORT=8080
//	FLEET_PRESETS_DIR=presets
//	FLEET_LOG_LEVEL=debug
//	NGROK_ENABLED=true
//	NGROK_AUTHTOKEN=...
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Settings holds the server configuration
type Settings struct {
	Host       string `env:"FLEET_HOST" envDefault:"localhost"`
	Port       int    `env:"FLEET_PORT" envDefault:"8080"`
	PresetsDir string `env:"FLEET_PRESETS_DIR"`
	LogLevel   string `env:"FLEET_LOG_LEVEL" envDefault:"info"`
	Debug      bool   `env:"FLEET_DEBUG"`
	Ngrok      Ngrok
}

// Ngrok configures the optional public tunnel
type Ngrok struct {
	Enabled   bool   `env:"NGROK_ENABLED"`
	AuthToken string `env:"NGROK_AUTHTOKEN"`
	Domain    string `env:"NGROK_DOMAIN"`
}

// Addr returns the host:port listen address
func (s Settings) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Validate checks the settings are usable
func (s Settings) Validate() error {
	if s.Port < 0 || s.Port > 65535 {
		return fmt.Errorf("invalid port %d", s.Port)
	}
	if s.Ngrok.Enabled && s.Ngrok.AuthToken == "" {
		return errors.New("ngrok enabled but no auth token provided (set NGROK_AUTHTOKEN or --ngrok-auth)")
	}
	return nil
}

// Load reads .env files (when present) and parses the environment into Settings
func Load(envFiles ...string) (Settings, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Settings{}, fmt.Errorf("failed to load env file: %w", err)
	}

	var settings Settings
	if err := env.Parse(&settings); err != nil {
		return Settings{}, fmt.Errorf("failed to parse environment: %w", err)
	}

	// Also support the underscore spelling of the ngrok token
	if settings.Ngrok.AuthToken == "" {
		settings.Ngrok.AuthToken = os.Getenv("NGROK_AUTH_TOKEN")
	}

	return settings, nil
}
