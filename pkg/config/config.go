// Package config loads carlot configuration from an optional YAML file and
// the environment. Environment variables override file values.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the complete carlot configuration.
type Config struct {
	HTTP  HTTPConfig  `yaml:"http"`
	Log   LogConfig   `yaml:"log"`
	NATS  NATSConfig  `yaml:"nats"`
	Neo4j Neo4jConfig `yaml:"neo4j"`
}

// HTTPConfig configures the API server.
type HTTPConfig struct {
	Port       string  `yaml:"port"`
	CORSOrigin string  `yaml:"cors_origin"`
	RateLimit  float64 `yaml:"rate_limit"` // requests per second, 0 disables
	RateBurst  int     `yaml:"rate_burst"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json or text
}

// NATSConfig configures car event publishing. An empty URL disables it.
type NATSConfig struct {
	URL     string `yaml:"url"`
	Subject string `yaml:"subject"`
}

// Neo4jConfig configures the graph snapshot store. An empty URL disables it.
type Neo4jConfig struct {
	URL  string `yaml:"url"`
	User string `yaml:"user"`
	Pass string `yaml:"pass"`
}

// DefaultConfig returns a Config with defaults filled in.
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Port:       "8080",
			CORSOrigin: "*",
			RateLimit:  20,
			RateBurst:  40,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		NATS: NATSConfig{
			Subject: "carlot.events",
		},
		Neo4j: Neo4jConfig{
			User: "neo4j",
		},
	}
}

// Load reads path (if non-empty) over the defaults, then applies
// environment overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from CARLOT_*, NATS_* and NEO4J_* variables.
func (c *Config) ApplyEnv() {
	c.HTTP.Port = envOr("CARLOT_PORT", c.HTTP.Port)
	c.HTTP.CORSOrigin = envOr("CORS_ORIGIN", c.HTTP.CORSOrigin)
	if v, err := strconv.ParseFloat(os.Getenv("CARLOT_RATE_LIMIT"), 64); err == nil {
		c.HTTP.RateLimit = v
	}
	if v, err := strconv.Atoi(os.Getenv("CARLOT_RATE_BURST")); err == nil {
		c.HTTP.RateBurst = v
	}
	c.Log.Level = envOr("LOG_LEVEL", c.Log.Level)
	c.Log.Format = envOr("LOG_FORMAT", c.Log.Format)
	c.NATS.URL = envOr("NATS_URL", c.NATS.URL)
	c.NATS.Subject = envOr("NATS_SUBJECT", c.NATS.Subject)
	c.Neo4j.URL = envOr("NEO4J_URL", c.Neo4j.URL)
	c.Neo4j.User = envOr("NEO4J_USER", c.Neo4j.User)
	c.Neo4j.Pass = envOr("NEO4J_PASS", c.Neo4j.Pass)
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.HTTP.Port == "" {
		return fmt.Errorf("http.port is required")
	}
	if _, err := strconv.Atoi(c.HTTP.Port); err != nil {
		return fmt.Errorf("http.port must be numeric: %q", c.HTTP.Port)
	}
	if c.HTTP.RateLimit < 0 {
		return fmt.Errorf("http.rate_limit must not be negative")
	}
	if c.HTTP.RateLimit > 0 && c.HTTP.RateBurst <= 0 {
		return fmt.Errorf("http.rate_burst must be positive when rate_limit is set")
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("log.format must be json or text: %q", c.Log.Format)
	}
	if c.NATS.URL != "" && c.NATS.Subject == "" {
		return fmt.Errorf("nats.subject is required when nats.url is set")
	}
	return nil
}

// SlogLevel parses Level into a slog.Level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(l.Level))); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return lvl, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
