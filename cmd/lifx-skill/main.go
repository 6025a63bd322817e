package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"

	"lifx-skill/config"
	"lifx-skill/internal/application"
	"lifx-skill/internal/dialog"
	"lifx-skill/internal/directory"
	"lifx-skill/internal/infra/host"
	"lifx-skill/internal/infra/lifx"
	"lifx-skill/internal/resolve"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("loading config", "error", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg.Log)

	apiKey, err := config.LoadAPIKey(cfg.APIKeyPath())
	if err != nil {
		logger.Error("loading api key", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutting down")
		cancel()
	}()

	timeout, err := time.ParseDuration(cfg.LIFX.Timeout)
	if err != nil {
		logger.Warn("invalid lifx timeout, using default", "error", err, "value", cfg.LIFX.Timeout)
		timeout = 15 * time.Second
	}

	client := lifx.NewClientWithURL(apiKey, cfg.LIFX.BaseURL, timeout, cfg.LIFX.RateLimitRPS)
	devices := directory.New(client, logger)

	renderer, err := dialog.New(cfg.Skill.Language)
	if err != nil {
		logger.Error("loading dialogs", "error", err)
		os.Exit(1)
	}

	skill := application.NewSkill(
		client,
		devices,
		resolve.New(cfg.Skill.MatchThreshold),
		cfg.Skill.DefaultRoom,
		logger,
	)

	if err := skill.Initialize(ctx); err != nil {
		logger.Error("initializing skill", "error", err)
		os.Exit(1)
	}

	syncInterval, err := time.ParseDuration(cfg.Skill.SyncInterval)
	if err != nil {
		logger.Warn("invalid sync interval, periodic sync disabled", "error", err, "value", cfg.Skill.SyncInterval)
		syncInterval = 0
	}
	if syncInterval > 0 {
		devices.StartPeriodicSync(ctx, syncInterval)
	}

	writeTimeout, err := time.ParseDuration(cfg.Host.WriteTimeout)
	if err != nil {
		logger.Warn("invalid write timeout, using default", "error", err, "value", cfg.Host.WriteTimeout)
		writeTimeout = 0
	}

	trustedProxies, err := host.ParseTrustedProxies(cfg.Host.TrustedProxies)
	if err != nil {
		logger.Error("parsing trusted proxies", "error", err)
		os.Exit(1)
	}

	server := host.NewServer(host.Options{
		Addr:               cfg.Host.HTTPAddr,
		AuthToken:          cfg.Host.AuthToken,
		RateLimitPerMinute: cfg.Host.RateLimitPerMinute,
		TrustedProxies:     trustedProxies,
		WriteTimeout:       writeTimeout,
	}, skill, renderer, logger)

	logger.Info("starting lifx skill",
		"addr", cfg.Host.HTTPAddr,
		"language", renderer.Lang(),
		"rooms", len(devices.Snapshot().RoomNames()),
	)

	if err := server.Start(ctx); err != nil {
		logger.Error("starting intent server", "error", err)
		os.Exit(1)
	}

	<-ctx.Done()

	if err := server.Stop(); err != nil {
		logger.Error("stopping intent server", "error", err)
		os.Exit(1)
	}
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var handler slog.Handler
	switch cfg.Format {
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	case "console":
		handler = tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	default:
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}

	return slog.New(handler)
}
