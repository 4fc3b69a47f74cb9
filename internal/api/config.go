package api

import "time"

// Config holds the settings of the journeys REST client.
type Config struct {
	BaseURL   string
	TimeoutMs int
	LogCalls  bool
}

// DefaultConfig points at a local backend with a 15 second request deadline.
func DefaultConfig() Config {
	return Config{
		BaseURL:   "http://localhost:8000",
		TimeoutMs: 15000,
	}
}

// Timeout is the per-request deadline.
func (c Config) Timeout() time.Duration {
	if c.TimeoutMs <= 0 {
		return DefaultConfig().Timeout()
	}
	return time.Duration(c.TimeoutMs) * time.Millisecond
}
