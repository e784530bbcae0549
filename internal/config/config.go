// Package config provides YAML configuration parsing for the art-table
// server.
//
// Example configuration:
//
//	server:
//	  port: 8080
//
//	source:
//	  endpoint: https://api.artic.edu/api/v1/artworks
//	  page_size: 10
//	  fields: [id, title, place_of_origin, artist_display, inscriptions, date_start, date_end]
//	  timeout: 15s
//
//	redis:
//	  addr: localhost:6379
//	  cache_ttl: 5m
//
//	logging:
//	  level: info
//	  pretty: false
package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration for YAML duration strings like "10s" or "5m".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config is the root configuration structure.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Source  SourceConfig  `yaml:"source"`
	Redis   RedisConfig   `yaml:"redis"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	// Port is the HTTP server port. Defaults to 8080.
	Port int `yaml:"port"`
}

// SourceConfig configures the remote collection endpoint.
type SourceConfig struct {
	// Endpoint is the collection URL. Required.
	Endpoint string `yaml:"endpoint"`

	// PageSize is the fixed page size. Defaults to 10.
	PageSize int `yaml:"page_size"`

	// Fields restricts which record fields the endpoint returns. Optional.
	Fields []string `yaml:"fields"`

	// Timeout per page request. Defaults to 15s.
	Timeout Duration `yaml:"timeout"`
}

// RedisConfig configures the optional page cache backend.
type RedisConfig struct {
	// Addr is the redis address. Empty disables page caching.
	Addr string `yaml:"addr"`

	// CacheTTL is how long cached pages stay fresh. Defaults to 5m.
	CacheTTL Duration `yaml:"cache_ttl"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	// Level is debug, info, warn or error. Defaults to info.
	Level string `yaml:"level"`

	// Pretty enables human-readable console output.
	Pretty bool `yaml:"pretty"`
}

// Load reads and parses a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML configuration, applies defaults and validates.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults fills in zero values.
func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Source.PageSize == 0 {
		c.Source.PageSize = 10
	}
	if c.Source.Timeout == 0 {
		c.Source.Timeout = Duration(15 * time.Second)
	}
	if c.Redis.CacheTTL == 0 {
		c.Redis.CacheTTL = Duration(5 * time.Minute)
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Source.Endpoint == "" {
		return fmt.Errorf("source.endpoint is required")
	}
	u, err := url.Parse(c.Source.Endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("source.endpoint %q is not a valid URL", c.Source.Endpoint)
	}
	if c.Source.PageSize < 1 || c.Source.PageSize > 100 {
		return fmt.Errorf("source.page_size must be between 1 and 100 (got %d)", c.Source.PageSize)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535 (got %d)", c.Server.Port)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
	return nil
}
