package engine

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds DQ engine connection parameters.
type Config struct {
	BaseURL        string `toml:"base_url"`
	Token          string `toml:"token"`
	RequestTimeout string `toml:"request_timeout"`
	SampleSize     int    `toml:"sample_size"`
	ListFallback   *bool  `toml:"list_fallback"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	BaseURL        string
	Token          string
	RequestTimeout string
	SampleSize     string
	ListFallback   string
}

// RequestTimeoutDuration returns RequestTimeout as a time.Duration.
func (c *Config) RequestTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.RequestTimeout)
	return d
}

// ListFallbackEnabled reports whether the poller may cross-check the file
// list endpoint for completion. Defaults to true; disable once the backend
// confirms the status endpoint's staleness is fixed rather than structural.
func (c *Config) ListFallbackEnabled() bool {
	if c.ListFallback == nil {
		return true
	}
	return *c.ListFallback
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.Token != "" {
		c.Token = overlay.Token
	}
	if overlay.RequestTimeout != "" {
		c.RequestTimeout = overlay.RequestTimeout
	}
	if overlay.SampleSize != 0 {
		c.SampleSize = overlay.SampleSize
	}
	if overlay.ListFallback != nil {
		c.ListFallback = overlay.ListFallback
	}
}

func (c *Config) loadDefaults() {
	if c.RequestTimeout == "" {
		c.RequestTimeout = "30s"
	}
	if c.SampleSize == 0 {
		c.SampleSize = 1000
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.BaseURL != "" {
		if v := os.Getenv(env.BaseURL); v != "" {
			c.BaseURL = v
		}
	}
	if env.Token != "" {
		if v := os.Getenv(env.Token); v != "" {
			c.Token = v
		}
	}
	if env.RequestTimeout != "" {
		if v := os.Getenv(env.RequestTimeout); v != "" {
			c.RequestTimeout = v
		}
	}
	if env.SampleSize != "" {
		if v := os.Getenv(env.SampleSize); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				c.SampleSize = n
			}
		}
	}
	if env.ListFallback != "" {
		if v := os.Getenv(env.ListFallback); v != "" {
			if enabled, err := strconv.ParseBool(v); err == nil {
				c.ListFallback = &enabled
			}
		}
	}
}

func (c *Config) validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url required")
	}
	if _, err := time.ParseDuration(c.RequestTimeout); err != nil {
		return fmt.Errorf("invalid request_timeout: %w", err)
	}
	return nil
}
