package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// defaultAPIURL is the hosted backend; override with PENNYWISE_API_URL for
// self-hosted or local development servers.
const defaultAPIURL = "https://api.pennywise.app"

// Config holds the client's runtime settings.
type Config struct {
	// APIBaseURL is the root of the expense-tracker API, without a trailing
	// slash.
	APIBaseURL string

	// Home is the directory holding the persisted session files.
	Home string
}

// Load reads configuration from the environment, applying defaults.
func Load() (*Config, error) {
	cfg := &Config{
		APIBaseURL: strings.TrimRight(getEnv("PENNYWISE_API_URL", defaultAPIURL), "/"),
		Home:       os.Getenv("PENNYWISE_HOME"),
	}
	if cfg.Home == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("config: get home dir: %w", err)
		}
		cfg.Home = filepath.Join(home, ".pennywise")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("config: invalid API URL %q", c.APIBaseURL)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
