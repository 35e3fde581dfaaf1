// Package config resolves client and backend settings: defaults, then an
// optional YAML file, then EDUMOBILE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all settings for the edumobile binary.
type Config struct {
	// APIURL is the backend base URL the client talks to.
	APIURL           string `yaml:"api_url"`
	RequestTimeoutMs int    `yaml:"request_timeout_ms"`
	AutosaveEnabled  bool   `yaml:"autosave_enabled"`
	AutosaveDelayMs  int    `yaml:"autosave_delay_ms"`
	LogCalls         bool   `yaml:"log_calls"`

	// Backend settings, used by `edumobile serve`.
	DBPath     string `yaml:"db_path"`
	ListenAddr string `yaml:"listen_addr"`
}

// DefaultConfig returns defaults rooted at home (the ~/.edumobile parent).
func DefaultConfig(home string) Config {
	return Config{
		APIURL:           "http://localhost:8080",
		RequestTimeoutMs: 10000,
		AutosaveEnabled:  true,
		AutosaveDelayMs:  2000,
		LogCalls:         false,
		DBPath:           filepath.Join(home, ".edumobile", "edumobile.db"),
		ListenAddr:       "127.0.0.1:8080",
	}
}

// DefaultPath returns the config file location: EDUMOBILE_CONFIG when
// set, ~/.edumobile/config.yaml otherwise.
func DefaultPath() (string, error) {
	if v := os.Getenv("EDUMOBILE_CONFIG"); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".edumobile", "config.yaml"), nil
}

// Load builds the effective configuration. A missing file at path is not
// an error; an unreadable or invalid one is.
func Load(path string) (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("finding home directory: %w", err)
	}
	cfg := DefaultConfig(home)

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("reading config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parsing %s: %w", path, err)
			}
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("EDUMOBILE_API_URL"); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv("EDUMOBILE_REQUEST_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RequestTimeoutMs = n
		}
	}
	if v := os.Getenv("EDUMOBILE_AUTOSAVE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.AutosaveEnabled = b
		}
	}
	if v := os.Getenv("EDUMOBILE_AUTOSAVE_DELAY_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.AutosaveDelayMs = n
		}
	}
	if v := os.Getenv("EDUMOBILE_LOG_CALLS"); v != "" {
		cfg.LogCalls, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("EDUMOBILE_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("EDUMOBILE_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
}

// Validate checks values a file may have set badly.
func (c Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api_url %q must be an absolute URL", c.APIURL)
	}
	if c.RequestTimeoutMs <= 0 {
		return fmt.Errorf("request_timeout_ms must be positive, got %d", c.RequestTimeoutMs)
	}
	if c.AutosaveDelayMs <= 0 {
		return fmt.Errorf("autosave_delay_ms must be positive, got %d", c.AutosaveDelayMs)
	}
	if c.DBPath == "" {
		return errors.New("db_path is required")
	}
	return nil
}

// RequestTimeout returns RequestTimeoutMs as a duration.
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMs) * time.Millisecond
}

// AutosaveDelay returns AutosaveDelayMs as a duration.
func (c Config) AutosaveDelay() time.Duration {
	return time.Duration(c.AutosaveDelayMs) * time.Millisecond
}
