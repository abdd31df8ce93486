package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/terra-clan/course-demand/internal/models"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("LOG_LEVEL", "info")
	t.Setenv("DATABASE_DSN", "")
	t.Setenv("REDIS_ENABLED", "false")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("SUGGESTION_HIDE_DELAY", "200ms")
	t.Setenv("ELIGIBLE_STATUSES", "inactive")
	t.Setenv("ADMIN_API_KEYS", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Sessions.TTL != 2*time.Hour || cfg.Sessions.HideDelay != 200*time.Millisecond {
		t.Errorf("unexpected session config: %+v", cfg.Sessions)
	}
	if cfg.Database.DSN != "" || cfg.Redis.Enabled {
		t.Error("database and redis should be disabled by default")
	}

	elig, err := cfg.Eligibility()
	if err != nil {
		t.Fatalf("Eligibility failed: %v", err)
	}
	if !elig.Allows(models.CourseInactive) || elig.Allows(models.CourseActive) {
		t.Errorf("expected inactive-only eligibility, got %s", elig)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("SUGGESTION_HIDE_DELAY", "150ms")
	t.Setenv("ELIGIBLE_STATUSES", "inactive, progress")
	t.Setenv("ADMIN_API_KEYS", "ops:secret-key-1, ci:secret-key-2")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("REDIS_ADDRESS", "redis:6379")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 9090 || cfg.Sessions.TTL != 30*time.Minute {
		t.Errorf("overrides not applied: %+v", cfg)
	}

	level, _ := cfg.LogLevel()
	if level != slog.LevelDebug {
		t.Errorf("expected debug level, got %s", level)
	}

	elig, _ := cfg.Eligibility()
	if !elig.Allows(models.CourseProgress) {
		t.Error("progress should be eligible")
	}

	clients, err := cfg.AdminClients()
	if err != nil {
		t.Fatalf("AdminClients failed: %v", err)
	}
	if len(clients) != 2 || clients[1].Name != "ci" || clients[1].ApiKey != "secret-key-2" {
		t.Fatalf("unexpected clients: %+v", clients)
	}
	if !clients[0].HasPermission("catalog:write") || !clients[0].HasPermission("sessions:read") {
		t.Error("admin clients should hold catalog and sessions permissions")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:   ServerConfig{Port: 8080},
			Log:      LogConfig{Level: "info"},
			Sessions: SessionsConfig{TTL: time.Hour},
			Catalog:  CatalogConfig{EligibleStatuses: "inactive"},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }},
		{"zero ttl", func(c *Config) { c.Sessions.TTL = 0 }},
		{"negative hide delay", func(c *Config) { c.Sessions.HideDelay = -time.Second }},
		{"unknown status", func(c *Config) { c.Catalog.EligibleStatuses = "closed" }},
		{"empty statuses", func(c *Config) { c.Catalog.EligibleStatuses = " , " }},
		{"malformed admin key", func(c *Config) { c.Admin.APIKeys = "nokey" }},
		{"duplicate admin key", func(c *Config) { c.Admin.APIKeys = "a:k,b:k" }},
		{"redis without address", func(c *Config) { c.Redis = RedisConfig{Enabled: true} }},
		{"db min over max", func(c *Config) { c.Database = DatabaseConfig{DSN: "postgres://x", MaxConns: 2, MinConns: 3} }},
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("baseline config should be valid: %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
