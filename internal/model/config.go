package model

import (
	"fmt"
	"runtime"
	"strings"
	"time"
)

// Config holds all runtime settings for arcaxh
type Config struct {
	Lexicon      LexiconConfig      `yaml:"lexicon" mapstructure:"lexicon"`
	Cache        CacheConfig        `yaml:"cache" mapstructure:"cache"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency" mapstructure:"concurrency"`
	Server       ServerConfig       `yaml:"server" mapstructure:"server"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Output       OutputConfig       `yaml:"output" mapstructure:"output"`
}

// LexiconConfig selects the lexicon source
type LexiconConfig struct {
	Path string `yaml:"path" mapstructure:"path"` // YAML lexicon file; empty = built-in table
}

// CacheConfig controls memoization of word analyses
type CacheConfig struct {
	Enabled         bool          `yaml:"enabled" mapstructure:"enabled"`
	TTL             time.Duration `yaml:"ttl" mapstructure:"ttl"`                           // 0 = never expire
	CleanupInterval time.Duration `yaml:"cleanup_interval" mapstructure:"cleanup_interval"` // 0 = no janitor
}

// ConcurrencyConfig controls batch workers
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// ServerConfig controls the HTTP API
type ServerConfig struct {
	Addr            string        `yaml:"addr" mapstructure:"addr"`
	MaxConns        int           `yaml:"max_conns" mapstructure:"max_conns"` // 0 = unlimited
	ReadTimeout     time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
	AllowedOrigins  []string      `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
}

// RateLimitingConfig controls per-client request limits of the HTTP API
type RateLimitingConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"` // 0 = disabled
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// OutputConfig controls logging and CLI output
type OutputConfig struct {
	Verbose   bool   `yaml:"verbose" mapstructure:"verbose"`
	LogFormat string `yaml:"log_format" mapstructure:"log_format"` // text or json
}

// DefaultConfig returns the built-in configuration
func DefaultConfig() *Config {
	return &Config{
		Cache: CacheConfig{
			Enabled:         true,
			TTL:             30 * time.Minute,
			CleanupInterval: 10 * time.Minute,
		},
		Concurrency: ConcurrencyConfig{
			Workers: runtime.NumCPU(),
		},
		Server: ServerConfig{
			Addr:            ":8080",
			MaxConns:        256,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 5 * time.Second,
			AllowedOrigins:  []string{"*"},
			MaxBodyBytes:    1 << 20,
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 20,
			BurstSize:         40,
		},
		Output: OutputConfig{
			LogFormat: "text",
		},
	}
}

// Validate checks the configuration for values the program cannot run with
func (c *Config) Validate() error {
	if c.Concurrency.Workers <= 0 {
		return fmt.Errorf("concurrency.workers must be positive, got %d", c.Concurrency.Workers)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must not be negative, got %v", c.Cache.TTL)
	}
	if c.RateLimiting.RequestsPerSecond < 0 {
		return fmt.Errorf("rate_limiting.requests_per_second must not be negative, got %v", c.RateLimiting.RequestsPerSecond)
	}
	if c.RateLimiting.RequestsPerSecond > 0 && c.RateLimiting.BurstSize <= 0 {
		return fmt.Errorf("rate_limiting.burst_size must be positive when rate limiting is enabled, got %d", c.RateLimiting.BurstSize)
	}
	if c.Server.MaxConns < 0 {
		return fmt.Errorf("server.max_conns must not be negative, got %d", c.Server.MaxConns)
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("server.max_body_bytes must be positive, got %d", c.Server.MaxBodyBytes)
	}
	switch strings.ToLower(c.Output.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("output.log_format must be text or json, got %q", c.Output.LogFormat)
	}
	return nil
}
