package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chatter-io/cmd/bot/config"
	"chatter-io/internal/apiclient"
	"chatter-io/internal/bot"
	"chatter-io/internal/log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
)

func main() {
	// Отсутствие .env файла не является ошибкой
	_ = godotenv.Load()

	configFile := os.Getenv("BOT_CONFIG_FILE")
	if configFile == "" {
		configFile = "bot_config.yml"
	}

	// Загрузка конфигурации бота
	cfg, err := config.LoadBotConfig(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load bot config: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.ValidateFull(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to validate bot config: %v\n", err)
		os.Exit(1)
	}

	// Логгер с маскировкой токенов и номеров телефонов
	logger := log.New(os.Stdout, cfg.Logging.Level, cfg.Logging.Format)
	slog.SetDefault(logger)
	if err := tgbotapi.SetLogger(log.NewTGBotAPIAdapter(logger)); err != nil {
		slog.Warn("failed to set tgbotapi logger", slog.String("error", err.Error()))
	}

	// Инициализация компонентов
	taskStore := bot.NewTaskStore()
	serverClient := apiclient.NewServerClient(cfg.Bot.BackendURL, time.Duration(cfg.Bot.HTTPTimeoutSeconds)*time.Second)

	b, err := bot.NewBot(cfg.Bot, serverClient, taskStore, logger.With(slog.String("component", "bot")))
	if err != nil {
		slog.Error("failed to create bot", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("Bot created successfully, starting...")

	// Ожидание сигналов для graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start возвращается после отмены ctx
	b.Start(ctx)

	slog.Info("Bot stopped gracefully")
}
