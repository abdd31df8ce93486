package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/terra-clan/course-demand/internal/api"
	"github.com/terra-clan/course-demand/internal/cleanup"
	"github.com/terra-clan/course-demand/internal/config"
	"github.com/terra-clan/course-demand/internal/notify"
	"github.com/terra-clan/course-demand/internal/seed"
	"github.com/terra-clan/course-demand/internal/sessions"
	"github.com/terra-clan/course-demand/internal/storage"
	"github.com/terra-clan/course-demand/internal/submission"
)

// pingFunc adapts a health check to sessions.Pinger
type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func main() {
	// A missing .env file is fine; existing variables are never overridden
	envErr := godotenv.Load()

	// Setup structured logging
	level := new(slog.LevelVar)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	lvl, err := cfg.LogLevel()
	if err != nil {
		slog.Error("invalid log level", "error", err)
		os.Exit(1)
	}
	level.Set(lvl)

	if envErr == nil {
		slog.Debug("loaded environment from .env")
	}

	eligibility, err := cfg.Eligibility()
	if err != nil {
		slog.Error("invalid eligibility policy", "error", err)
		os.Exit(1)
	}

	clients, err := cfg.AdminClients()
	if err != nil {
		slog.Error("invalid admin api keys", "error", err)
		os.Exit(1)
	}

	slog.Info("starting course-demand",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"eligible", eligibility.String(),
	)

	// Create context for initialization
	initCtx, initCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer initCancel()

	var pingers []sessions.Pinger

	// Load the seed catalog: database, then seed directory, then built-in data
	loader := seed.NewLoader()
	var repo *storage.PostgresRepository
	switch {
	case cfg.Database.DSN != "":
		repo, err = storage.NewPostgresRepository(initCtx, storage.PostgresConfig{
			DSN:      cfg.Database.DSN,
			MaxConns: int32(cfg.Database.MaxConns),
			MinConns: int32(cfg.Database.MinConns),
		})
		if err != nil {
			slog.Error("failed to create database repository", "error", err)
			os.Exit(1)
		}
		slog.Info("database connected successfully")

		slog.Info("running database migrations")
		if err := storage.RunMigrations(initCtx, repo.Pool()); err != nil {
			slog.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}

		if err := loader.LoadFromRepository(initCtx, repo); err != nil {
			slog.Error("failed to load seed catalog from database", "error", err)
			os.Exit(1)
		}
		pingers = append(pingers, repo)

	case cfg.Seed.Dir != "":
		if err := loader.LoadFromDir(cfg.Seed.Dir); err != nil {
			slog.Error("failed to load seed catalog", "dir", cfg.Seed.Dir, "error", err)
			os.Exit(1)
		}

	default:
		if err := loader.LoadDefault(); err != nil {
			slog.Error("failed to load built-in seed catalog", "error", err)
			os.Exit(1)
		}
	}
	slog.Info("seed catalog loaded", "courses", loader.Len())

	// Initialize notifiers
	registry := notify.NewRegistry()
	registry.Register("log", notify.NewLogNotifier(logger))

	hub := notify.NewHub()
	registry.Register("hub", hub)

	var redisNotifier *notify.RedisNotifier
	if cfg.Redis.Enabled {
		redisNotifier, err = notify.NewRedisNotifier(initCtx, notify.RedisOptions{
			Address:       cfg.Redis.Address,
			Password:      cfg.Redis.Password,
			DB:            cfg.Redis.DB,
			ChannelPrefix: cfg.Redis.ChannelPrefix,
		})
		if err != nil {
			slog.Error("failed to create redis notifier", "error", err)
			os.Exit(1)
		}
		registry.Register("redis", redisNotifier)
		pingers = append(pingers, pingFunc(redisNotifier.HealthCheck))
	}
	slog.Info("notifiers registered", "notifiers", registry.List())

	// Initialize session manager
	manager, err := sessions.NewManager(sessions.Options{
		Seed:        loader,
		Eligibility: eligibility,
		Notifier:    registry,
		Submitter:   submission.NewLogHandler(logger),
		TTL:         cfg.Sessions.TTL,
		HideDelay:   cfg.Sessions.HideDelay,
		Pingers:     pingers,
	})
	if err != nil {
		slog.Error("failed to create session manager", "error", err)
		os.Exit(1)
	}

	// Initialize cleanup worker
	cleaner := cleanup.NewCleaner(manager, cfg.Cleanup.Interval)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start cleanup worker
	cleaner.Start(ctx)

	// Setup HTTP server
	server := api.NewServer(cfg.Server, manager, loader, hub, clients)
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      server.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("HTTP server starting", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down gracefully...")

	// Cancel context to stop background workers
	cancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	// Close manager (stops pending suggestion timers)
	if err := manager.Close(); err != nil {
		slog.Error("manager close error", "error", err)
	}

	if redisNotifier != nil {
		if err := redisNotifier.Close(); err != nil {
			slog.Error("redis close error", "error", err)
		}
	}
	if repo != nil {
		repo.Close()
	}

	slog.Info("course-demand stopped")
}
