package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/gratefultolord/mc_forms_bot/internal/bot"
	"github.com/gratefultolord/mc_forms_bot/internal/config"
	"github.com/gratefultolord/mc_forms_bot/internal/db"
	"github.com/gratefultolord/mc_forms_bot/internal/files"
	"github.com/gratefultolord/mc_forms_bot/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("Error creating logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	sugar := zapLogger.Sugar()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.New(&cfg.DB)
	if err != nil {
		sugar.Fatalw("error connecting to database", "driver", cfg.DB.Driver, "error", err)
	}
	defer database.Close()

	if err := db.RunMigrations(ctx, database.Conn); err != nil {
		sugar.Fatalw("error running migrations", "error", err)
	}

	botAPI, err := tgbotapi.NewBotAPI(cfg.Bot.Token)
	if err != nil {
		sugar.Fatalw("error creating telegram bot", "error", err)
	}

	formRepo := db.NewFormRepository(database.Conn)
	banRepo := db.NewBanRepository(database.Conn)

	exporter, err := files.NewExportService(formRepo, cfg.Bot.ExportDir)
	if err != nil {
		sugar.Fatalw("error creating export service", "error", err)
	}

	botService := bot.New(botAPI, formRepo, banRepo, exporter, cfg.Bot, sugar)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := botAPI.GetUpdatesChan(u)

	sugar.Infow("bot started", "username", botAPI.Self.UserName, "moderation_chat_id", cfg.Bot.ModerationChatID)

	botService.Start(ctx, updates)

	botAPI.StopReceivingUpdates()
	sugar.Infow("bot stopped")
}
