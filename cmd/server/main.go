package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"chatter-io/internal/adapters/parser"
	"chatter-io/internal/adapters/source"
	"chatter-io/internal/cache"
	"chatter-io/internal/core/services"
	"chatter-io/internal/log"
	"chatter-io/internal/metrics"
	"chatter-io/internal/pkg/config"
	"chatter-io/internal/server"
	"chatter-io/internal/server/usecase"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sevlyar/go-daemon"
)

func main() {
	if err := run(); err != nil {
		slog.Error("application run failed", slog.Any("error", err))
		os.Exit(1)
	}
}

// run инкапсулирует всю логику инициализации и запуска приложения.
func run() error {
	// 1. Загрузка и валидация конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		// Логгер еще не инициализирован, выводим в stderr
		_, _ = fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Отсоединение от терминала, если включен режим демона
	if cfg.Daemon.Enabled {
		dctx := &daemon.Context{
			PidFileName: cfg.Daemon.PIDFile,
			PidFilePerm: 0o644,
			LogFileName: cfg.Daemon.LogFile,
			LogFilePerm: 0o640,
			Umask:       0o27,
		}
		child, err := dctx.Reborn()
		if err != nil {
			return fmt.Errorf("failed to daemonize: %w", err)
		}
		if child != nil {
			// Родительский процесс
			fmt.Printf("server started in background, pid %d\n", child.Pid)
			return nil
		}
		defer dctx.Release()
	}

	// 3. Инициализация логгера
	logger := log.New(os.Stdout, cfg.Logging.Level, cfg.Logging.Format)
	slog.SetDefault(logger)

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	// 4. Инициализация зависимостей
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	taskStore := server.NewTaskStore()
	cacheStore := cache.NewCacheStore(cfg.Processing.CacheMaxEntries)
	chatService := services.NewChatService(
		parser.NewWhatsAppParser(parser.WithLocation(loc)),
		services.NewAggregationService(),
	)
	processor := usecase.NewProcessChatUseCase(cfg, chatService, cacheStore, m, logger.With(slog.String("component", "usecase")))

	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	library := server.NewLibrary(nil)
	if dir := cfg.Processing.DataDir; dir != "" {
		chats, err := processor.LoadLibrary(appCtx, source.NewDirSource(dir, logger))
		if err != nil {
			// Сервер полезен и без библиотеки: загрузки работают
			logger.Warn("Библиотека чатов не загружена", slog.String("data_dir", dir), slog.Any("error", err))
		}
		for _, c := range chats {
			library.Add(c)
		}
	}

	// 5. Создание HTTP-сервера
	srv, err := server.New(cfg, server.Deps{
		Processor: processor,
		Tasks:     taskStore,
		Cache:     cacheStore,
		Library:   library,
		Stats:     services.NewStatisticsService(),
		Metrics:   m,
		Gatherer:  registry,
		Logger:    logger.With(slog.String("component", "server")),
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	srv.StartBackground(appCtx)

	// 6. Запуск сервера и graceful shutdown
	serverDone := make(chan struct{})
	go func() {
		defer close(serverDone)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", slog.Any("error", err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
		slog.Info("Signal received, shutting down...")
	case <-serverDone:
		return errors.New("HTTP server stopped unexpectedly")
	}

	// Останавливаем фоновые тикеры, затем HTTP-сервер
	appCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", slog.Any("error", err))
	}

	<-serverDone
	slog.Info("Application exited gracefully")
	return nil
}
