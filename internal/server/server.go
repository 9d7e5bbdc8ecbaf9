package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"chatter-io/internal/cache"
	"chatter-io/internal/core/services"
	"chatter-io/internal/domain"
	"chatter-io/internal/metrics"
	"chatter-io/internal/pkg/config"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// taskTTL - время хранения записи о задаче
const taskTTL = 24 * time.Hour

// ChatProcessor определяет интерфейс для варианта использования, который обрабатывает чаты.
type ChatProcessor interface {
	ProcessChat(ctx context.Context, upload domain.Upload) (*domain.Chat, error)
	ProcessByHash(ctx context.Context, hash, chatName string) (*domain.Chat, error)
}

// Deps - зависимости сервера. Обязательны Processor и Tasks.
type Deps struct {
	Processor ChatProcessor
	Tasks     *TaskStore
	Cache     *cache.CacheStore
	Library   *Library
	Stats     *services.StatisticsService
	Metrics   *metrics.Metrics
	// Gatherer, если задан, публикуется на /metrics
	Gatherer prometheus.Gatherer
	Logger   *slog.Logger
}

// Server представляет HTTP-сервер
type Server struct {
	HTTPServer *http.Server
	cfg        *config.Config
	taskStore  *TaskStore
	cacheStore *cache.CacheStore
	processor  ChatProcessor
	library    *Library
	stats      *services.StatisticsService
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// New создает новый экземпляр Server
func New(cfg *config.Config, deps Deps) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("конфигурация не задана")
	}
	if deps.Processor == nil || deps.Tasks == nil {
		return nil, errors.New("processor и task store обязательны")
	}
	if deps.Cache == nil {
		deps.Cache = cache.NewCacheStore(cfg.Processing.CacheMaxEntries)
	}
	if deps.Library == nil {
		deps.Library = NewLibrary(nil)
	}
	if deps.Stats == nil {
		deps.Stats = services.NewStatisticsService()
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	s := &Server{
		cfg:        cfg,
		taskStore:  deps.Tasks,
		cacheStore: deps.Cache,
		processor:  deps.Processor,
		library:    deps.Library,
		stats:      deps.Stats,
		metrics:    deps.Metrics,
		logger:     deps.Logger,
	}

	chiRouter := chi.NewRouter()

	// Промежуточное ПО
	chiRouter.Use(middleware.RequestID)
	chiRouter.Use(middleware.Logger)
	chiRouter.Use(middleware.Recoverer)

	chiRouter.Get("/health", s.handleHealth)
	if deps.Gatherer != nil {
		chiRouter.Method(http.MethodGet, "/metrics", metrics.Handler(deps.Gatherer))
	}

	// Маршруты API
	chiRouter.Route("/api/v1", func(r chi.Router) {
		r.Post("/process", s.handleProcess)
		r.Post("/process-by-hash", s.handleProcessByHash)
		r.Get("/tasks/{taskID}", s.handleTaskStatus)
		r.Get("/tasks/{taskID}/result", s.handleTaskResult)
		r.Get("/chats", s.handleChats)
		r.Get("/chats/{chatID}/messages", s.handleChatMessages)
		r.Get("/search", s.handleSearch)
	})

	s.HTTPServer = &http.Server{
		Addr:         cfg.Address(),
		Handler:      chiRouter,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// StartBackground запускает периодическую очистку задач и кеша до отмены ctx.
func (s *Server) StartBackground(ctx context.Context) {
	interval := s.cfg.Processing.CleanupInterval
	if interval <= 0 {
		return
	}
	s.taskStore.StartCleanupTicker(ctx, interval)
	s.cacheStore.StartCleanupTicker(ctx, interval)
}

// ListenAndServe запускает HTTP-сервер
func (s *Server) ListenAndServe() error {
	s.logger.Info("HTTP-сервер запущен", slog.String("addr", s.HTTPServer.Addr), slog.Int("library_chats", s.library.Len()))
	return s.HTTPServer.ListenAndServe()
}

// Shutdown корректно завершает работу HTTP-сервера
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Завершение работы HTTP-сервера")
	return s.HTTPServer.Shutdown(ctx)
}

// runTask выполняет work в отдельной горутине и сохраняет результат в задаче.
// cleanup, если задан, вызывается по завершении.
func (s *Server) runTask(taskID string, work func(ctx context.Context) (*domain.Chat, error), cleanup func()) {
	go func() {
		if cleanup != nil {
			defer cleanup()
		}
		logger := s.logger.With(slog.String("task_id", taskID))
		if err := s.taskStore.Start(taskID); err != nil {
			logger.Warn("Не удалось запустить задачу", slog.Any("error", err))
			return
		}

		// Контекст задачи с таймаутом из конфигурации
		taskCtx := context.Background()
		if s.cfg.Processing.TaskTimeout > 0 {
			var cancel context.CancelFunc
			taskCtx, cancel = context.WithTimeout(taskCtx, s.cfg.Processing.TaskTimeout)
			defer cancel()
		}

		chat, err := work(taskCtx)
		if err == nil && chat == nil {
			err = errors.New("обработка не вернула результат")
		}
		if err != nil {
			logger.Warn("Задача завершилась с ошибкой", slog.Any("error", err))
			_ = s.taskStore.Fail(taskID, err.Error())
			s.metrics.TaskFinished(string(TaskStatusFailed))
			return
		}

		_ = s.taskStore.Complete(taskID, chat)
		s.metrics.TaskFinished(string(TaskStatusCompleted))

		var took time.Duration
		if task, err := s.taskStore.GetTask(taskID); err == nil {
			took = task.Duration()
		}
		logger.Info("Задача выполнена",
			slog.String("chat", chat.Name),
			slog.Int("message_count", chat.MessageCount),
			slog.Duration("took", took),
		)
	}()
}
