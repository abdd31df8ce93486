package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/terra-clan/course-demand/internal/catalog"
	"github.com/terra-clan/course-demand/internal/models"
)

// Config holds all configuration for course-demand
type Config struct {
	Server   ServerConfig
	Log      LogConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Seed     SeedConfig
	Sessions SessionsConfig
	Catalog  CatalogConfig
	Cleanup  CleanupConfig
	Admin    AdminConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string
	Port int
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string
}

// DatabaseConfig holds the optional PostgreSQL seed source configuration.
// An empty DSN disables it.
type DatabaseConfig struct {
	DSN      string
	MaxConns int
	MinConns int
}

// RedisConfig holds the optional Redis event publishing configuration
type RedisConfig struct {
	Enabled       bool
	Address       string
	Password      string
	DB            int
	ChannelPrefix string
}

// SeedConfig holds seed catalog configuration
type SeedConfig struct {
	Dir string
}

// SessionsConfig holds session workspace configuration
type SessionsConfig struct {
	TTL       time.Duration
	HideDelay time.Duration
}

// CatalogConfig holds request policy configuration
type CatalogConfig struct {
	EligibleStatuses string
}

// CleanupConfig holds cleanup worker configuration
type CleanupConfig struct {
	Interval time.Duration
}

// AdminConfig holds admin API keys in "name:key" form
type AdminConfig struct {
	APIKeys string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Database: DatabaseConfig{
			DSN:      getEnv("DATABASE_DSN", ""),
			MaxConns: getEnvAsInt("DATABASE_MAX_CONNS", 10),
			MinConns: getEnvAsInt("DATABASE_MIN_CONNS", 1),
		},
		Redis: RedisConfig{
			Enabled:       getEnvAsBool("REDIS_ENABLED", false),
			Address:       getEnv("REDIS_ADDRESS", "localhost:6379"),
			Password:      getEnv("REDIS_PASSWORD", ""),
			DB:            getEnvAsInt("REDIS_DB", 0),
			ChannelPrefix: getEnv("REDIS_CHANNEL_PREFIX", "course-demand"),
		},
		Seed: SeedConfig{
			Dir: getEnv("SEED_DIR", ""),
		},
		Sessions: SessionsConfig{
			TTL:       getEnvAsDuration("SESSION_TTL", 2*time.Hour),
			HideDelay: getEnvAsDuration("SUGGESTION_HIDE_DELAY", 200*time.Millisecond),
		},
		Catalog: CatalogConfig{
			EligibleStatuses: getEnv("ELIGIBLE_STATUSES", "inactive"),
		},
		Cleanup: CleanupConfig{
			Interval: getEnvAsDuration("CLEANUP_INTERVAL", 5*time.Minute),
		},
		Admin: AdminConfig{
			APIKeys: getEnv("ADMIN_API_KEYS", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if _, err := c.LogLevel(); err != nil {
		return err
	}

	if c.Database.DSN != "" {
		if c.Database.MaxConns < 1 {
			return fmt.Errorf("invalid database max conns: %d", c.Database.MaxConns)
		}
		if c.Database.MinConns < 0 || c.Database.MinConns > c.Database.MaxConns {
			return fmt.Errorf("invalid database min conns: %d", c.Database.MinConns)
		}
	}

	if c.Redis.Enabled && c.Redis.Address == "" {
		return fmt.Errorf("redis address is required when redis is enabled")
	}

	if c.Sessions.TTL <= 0 {
		return fmt.Errorf("session TTL must be positive, got %s", c.Sessions.TTL)
	}

	if c.Sessions.HideDelay < 0 {
		return fmt.Errorf("suggestion hide delay must not be negative, got %s", c.Sessions.HideDelay)
	}

	if _, err := c.Eligibility(); err != nil {
		return fmt.Errorf("invalid ELIGIBLE_STATUSES: %w", err)
	}

	if _, err := c.AdminClients(); err != nil {
		return fmt.Errorf("invalid ADMIN_API_KEYS: %w", err)
	}

	return nil
}

// LogLevel parses the configured slog level
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", c.Log.Level)
	}
	return level, nil
}

// Eligibility parses the statuses whose courses accept requests
func (c *Config) Eligibility() (catalog.Eligibility, error) {
	return catalog.ParseEligibility(c.Catalog.EligibleStatuses)
}

// AdminClients parses ADMIN_API_KEYS into API clients with full admin rights
func (c *Config) AdminClients() ([]*models.ApiClient, error) {
	var clients []*models.ApiClient
	seen := make(map[string]bool)

	for _, part := range strings.Split(c.Admin.APIKeys, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		name, key, ok := strings.Cut(part, ":")
		name, key = strings.TrimSpace(name), strings.TrimSpace(key)
		if !ok || name == "" || key == "" {
			return nil, fmt.Errorf("entry %q must be name:key", part)
		}
		if seen[key] {
			return nil, fmt.Errorf("duplicate key for client %q", name)
		}
		seen[key] = true

		clients = append(clients, &models.ApiClient{
			Name:        name,
			ApiKey:      key,
			Permissions: []string{"catalog:*", "sessions:*"},
		})
	}

	return clients, nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
