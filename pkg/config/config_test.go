package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "carlot.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.Port != "8080" || cfg.NATS.Subject != "carlot.events" || cfg.Log.Format != "json" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, `
http:
  port: "9090"
  rate_limit: 0
log:
  level: debug
  format: text
nats:
  url: nats://localhost:4222
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.Port != "9090" || cfg.HTTP.RateLimit != 0 {
		t.Errorf("unexpected http config: %+v", cfg.HTTP)
	}
	if cfg.NATS.URL != "nats://localhost:4222" || cfg.NATS.Subject != "carlot.events" {
		t.Errorf("unexpected nats config: %+v", cfg.NATS)
	}
	if lvl, _ := cfg.Log.SlogLevel(); lvl != slog.LevelDebug {
		t.Errorf("expected debug level, got %v", lvl)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeFile(t, "http:\n  port: \"9090\"\n")
	t.Setenv("CARLOT_PORT", "7070")
	t.Setenv("NEO4J_URL", "neo4j://db:7687")
	t.Setenv("CARLOT_RATE_LIMIT", "5")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.Port != "7070" {
		t.Errorf("expected env port, got %s", cfg.HTTP.Port)
	}
	if cfg.Neo4j.URL != "neo4j://db:7687" || cfg.Neo4j.User != "neo4j" {
		t.Errorf("unexpected neo4j config: %+v", cfg.Neo4j)
	}
	if cfg.HTTP.RateLimit != 5 {
		t.Errorf("expected rate limit 5, got %v", cfg.HTTP.RateLimit)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := Load(writeFile(t, "http: [")); err == nil {
		t.Error("expected error for malformed yaml")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty port", func(c *Config) { c.HTTP.Port = "" }},
		{"non-numeric port", func(c *Config) { c.HTTP.Port = "http" }},
		{"negative rate", func(c *Config) { c.HTTP.RateLimit = -1 }},
		{"zero burst", func(c *Config) { c.HTTP.RateBurst = 0 }},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }},
		{"nats without subject", func(c *Config) { c.NATS.URL = "nats://x"; c.NATS.Subject = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}
