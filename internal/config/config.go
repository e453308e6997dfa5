// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Server holds the coursedeckd runtime settings. DatabaseDSN and
// TokenSecret have no defaults: starting without them is a fatal
// configuration error.
type Server struct {
	AppName       string        `env:"APP_NAME" envDefault:"coursedeck"`
	Port          string        `env:"PORT" envDefault:"8080"`
	DatabaseDSN   string        `env:"DATABASE_DSN"`
	TokenSecret   string        `env:"TOKEN_SECRET"`
	TokenLifetime time.Duration `env:"TOKEN_LIFETIME" envDefault:"1h"`
	Env           string        `env:"ENV" envDefault:"DEV"`
}

func LoadServer() (*Server, error) {
	cfg := &Server{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if cfg.DatabaseDSN == "" {
		return nil, fmt.Errorf("DATABASE_DSN is required")
	}
	if cfg.TokenSecret == "" {
		return nil, fmt.Errorf("TOKEN_SECRET is required")
	}
	return cfg, nil
}

// Addr returns the listen address in the form the HTTP server expects.
func (c *Server) Addr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

// Client holds the coursedeck CLI settings.
type Client struct {
	ServerURL     string `env:"COURSEDECK_SERVER" envDefault:"http://localhost:8080"`
	CatalogAPIKey string `env:"RAPIDAPI_KEY"`
	StateDir      string `env:"COURSEDECK_STATE_DIR"`
}

func LoadClient() (*Client, error) {
	cfg := &Client{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if cfg.StateDir == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolve state dir: %w", err)
		}
		cfg.StateDir = filepath.Join(configDir, "coursedeck")
	}
	return cfg, nil
}

// SessionDSN returns the sqlite DSN of the on-device session store,
// creating the state directory if needed.
func (c *Client) SessionDSN() (string, error) {
	if err := os.MkdirAll(c.StateDir, 0o700); err != nil {
		return "", fmt.Errorf("create state dir: %w", err)
	}
	return filepath.Join(c.StateDir, "session.db"), nil
}
