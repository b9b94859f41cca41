package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"toolbay/internal/broadcast"
	"toolbay/internal/config"
	"toolbay/internal/repository"
	"toolbay/internal/server"
	"toolbay/internal/service"
	"toolbay/internal/telegram_bot"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = logger.Sync() // Flushes buffer, if any
	}()

	// Load configuration
	cfgPath := os.Getenv("TOOLBAY_CONFIG")
	if cfgPath == "" {
		cfgPath = "configs/config.yml"
	}
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	// Database connection
	db, err := repository.NewPostgresDB(cfg.Database.URL, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	repository.MigrateDB(db, logger)

	// Event hub for live updates
	hub := broadcast.NewHub(cfg.Broadcast.Buffer, logger)

	// Moderation services
	toolRepo := repository.NewToolRepository(db, logger)
	adminService := service.NewAdminService(
		toolRepo, hub,
		cfg.Admin.PasswordHash, cfg.Admin.JWTSecret,
		time.Duration(cfg.Admin.TokenTTLMinutes)*time.Minute,
		logger)

	// Telegram bot for moderation notifications
	bot, err := telegram_bot.NewBot(cfg, adminService, logger)
	if err != nil {
		logger.Warn("Failed to initialize Telegram bot, continuing without it", zap.Error(err))
		bot = nil
	}

	// Context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Run Telegram bot in a goroutine (if enabled)
	if bot != nil {
		go func() {
			if err := bot.Start(ctx); err != nil {
				logger.Error("Telegram bot failed", zap.Error(err))
			}
		}()
	}

	// Initialize and run the server
	var notifier service.Notifier
	if bot != nil {
		notifier = bot
	}
	srv := server.NewServer(db, cfg, hub, notifier, adminService, logger)
	go func() {
		if err := srv.Run(cfg.Server.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Application stopped.")
}
