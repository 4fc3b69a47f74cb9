// Package config loads journeyctl settings from defaults, an optional YAML
// file and JOURNEYCTL_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alexanderramin/journeyctl/internal/api"
	"gopkg.in/yaml.v3"
)

type Storage string

const (
	StorageSQLite Storage = "sqlite"
	StorageRedis  Storage = "redis"
)

// Config holds every runtime setting of the CLI.
type Config struct {
	APIURL       string  `yaml:"api_url"`
	TimeoutMs    int     `yaml:"timeout_ms"`
	LogCalls     bool    `yaml:"log_calls"`
	LogLevel     string  `yaml:"log_level"`
	DBPath       string  `yaml:"db_path"`
	Storage      Storage `yaml:"storage"`
	RedisURL     string  `yaml:"redis_url"`
	Autosave     string  `yaml:"autosave"`
	HistoryLimit int     `yaml:"history_limit"`
	UserID       string  `yaml:"user_id"`
}

// Default returns the settings used when nothing is configured. DBPath is
// left empty and resolved against the home directory by Load.
func Default() Config {
	return Config{
		APIURL:       "http://localhost:8000",
		TimeoutMs:    15000,
		LogLevel:     "info",
		Storage:      StorageSQLite,
		RedisURL:     "redis://localhost:6379/0",
		Autosave:     "@every 30s",
		HistoryLimit: 50,
	}
}

// Load reads the configuration file named by JOURNEYCTL_CONFIG, or
// ~/.journeyctl/config.yaml, then applies environment overrides. A missing
// file is not an error.
func Load() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("finding home directory: %w", err)
	}
	path := os.Getenv("JOURNEYCTL_CONFIG")
	if path == "" {
		path = filepath.Join(home, ".journeyctl", "config.yaml")
	}
	cfg, err := load(path, os.Getenv)
	if err != nil {
		return Config{}, err
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(home, ".journeyctl", "journeys.db")
	}
	return cfg, nil
}

func load(path string, getenv func(string) string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("reading config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	applyEnv(&cfg, getenv)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config, getenv func(string) string) {
	if v := getenv("JOURNEYCTL_API_URL"); v != "" {
		cfg.APIURL = v
	}
	if v := getenv("JOURNEYCTL_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := getenv("JOURNEYCTL_STORAGE"); v != "" {
		cfg.Storage = Storage(strings.ToLower(v))
	}
	if v := getenv("JOURNEYCTL_REDIS_URL"); v != "" {
		cfg.RedisURL = v
	}
	if v := getenv("JOURNEYCTL_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMs = n
		}
	}
	if v := getenv("JOURNEYCTL_LOG_CALLS"); v != "" {
		cfg.LogCalls, _ = strconv.ParseBool(v)
	}
	if v := getenv("JOURNEYCTL_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := getenv("JOURNEYCTL_AUTOSAVE"); v != "" {
		cfg.Autosave = v
	}
	if v := getenv("JOURNEYCTL_HISTORY_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.HistoryLimit = n
		}
	}
	if v := getenv("JOURNEYCTL_USER"); v != "" {
		cfg.UserID = v
	}
}

// Validate rejects settings that cannot be wired.
func (c Config) Validate() error {
	if c.Storage != StorageSQLite && c.Storage != StorageRedis {
		return fmt.Errorf("invalid storage %q (expected sqlite or redis)", c.Storage)
	}
	if c.APIURL == "" {
		return errors.New("api_url is required")
	}
	if c.TimeoutMs <= 0 {
		return fmt.Errorf("timeout_ms must be positive, got %d", c.TimeoutMs)
	}
	if c.HistoryLimit <= 0 {
		return fmt.Errorf("history_limit must be positive, got %d", c.HistoryLimit)
	}
	return nil
}

// API returns the REST client settings.
func (c Config) API() api.Config {
	return api.Config{BaseURL: c.APIURL, TimeoutMs: c.TimeoutMs, LogCalls: c.LogCalls}
}

// SlogLevel maps LogLevel onto slog, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
