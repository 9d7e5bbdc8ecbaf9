package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"chatter-io/internal/adapters/source"
	"chatter-io/internal/cache"
	"chatter-io/internal/core/services"
	"chatter-io/internal/domain"
	"chatter-io/internal/metrics"
	"chatter-io/internal/pkg/config"
	"chatter-io/internal/ports"
)

// ErrNotCached возвращается, если результат для хеша отсутствует в кеше.
var ErrNotCached = errors.New("result not found in cache")

// ProcessChatUseCase инкапсулирует бизнес-логику обработки файла экспорта чата.
type ProcessChatUseCase struct {
	cfg        *config.Config
	chats      ports.ChatService
	cacheStore *cache.CacheStore
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// NewProcessChatUseCase создает новый экземпляр ProcessChatUseCase.
// metrics может быть nil.
func NewProcessChatUseCase(
	cfg *config.Config,
	chats ports.ChatService,
	cacheStore *cache.CacheStore,
	m *metrics.Metrics,
	logger *slog.Logger,
) *ProcessChatUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProcessChatUseCase{
		cfg:        cfg,
		chats:      chats,
		cacheStore: cacheStore,
		metrics:    m,
		logger:     logger,
	}
}

// ProcessChat разбирает загруженный файл (.txt или .zip). Результат кешируется
// по хешу содержимого; повторная загрузка того же файла разбор не выполняет.
func (uc *ProcessChatUseCase) ProcessChat(ctx context.Context, upload domain.Upload) (*domain.Chat, error) {
	started := time.Now()
	name := upload.ChatName
	if name == "" {
		name = source.ChatNameFromFileName(upload.FileName)
	}

	hash, err := cache.CalculateFileHash(upload.FilePath)
	if err != nil {
		return nil, fmt.Errorf("не удалось вычислить хеш файла %s: %w", upload.FileName, err)
	}
	logger := uc.logger.With(slog.String("hash", hash), slog.String("file", upload.FileName))

	if item, found := uc.cacheStore.Get(hash); found {
		uc.metrics.CacheLookup(true)
		logger.Info("Попадание в кеш для файла")
		return withName(item.Data, name), nil
	}
	uc.metrics.CacheLookup(false)

	src, err := source.ForUpload(upload.FileName, upload.ChatName, source.NewFileSource(upload.FilePath))
	if err != nil {
		return nil, err
	}
	raws, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("не удалось загрузить %s: %w", upload.FileName, err)
	}
	if len(raws) == 0 {
		return nil, fmt.Errorf("%s: %w", upload.FileName, source.ErrNoChatFile)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw := raws[0]
	chat := uc.chats.ParseChat(raw.Content, raw.Name, raw.MediaFiles)
	uc.metrics.ObserveChat("upload", chat, time.Since(started))

	ttl := uc.cfg.Processing.CacheTTL
	uc.cacheStore.Put(hash, chat, ttl)
	logger.Info("Чат разобран и кеширован",
		slog.String("chat", chat.Name),
		slog.Int("message_count", chat.MessageCount),
		slog.Int("participants", len(chat.Participants)),
		slog.String("ttl", ttl.String()),
	)
	return chat, nil
}

// ProcessByHash возвращает ранее разобранный чат по хешу содержимого файла.
// chatName, если задано, заменяет имя чата в результате.
func (uc *ProcessChatUseCase) ProcessByHash(_ context.Context, hash, chatName string) (*domain.Chat, error) {
	item, found := uc.cacheStore.Get(hash)
	uc.metrics.CacheLookup(found)
	if !found {
		return nil, fmt.Errorf("hash %s: %w", hash, ErrNotCached)
	}
	if chatName == "" {
		return item.Data, nil
	}
	return withName(item.Data, chatName), nil
}

// LoadLibrary загружает и разбирает все чаты источника (например, каталога данных).
func (uc *ProcessChatUseCase) LoadLibrary(ctx context.Context, src ports.ChatSource) ([]domain.Chat, error) {
	started := time.Now()
	raws, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("не удалось загрузить библиотеку чатов: %w", err)
	}

	chats := make([]domain.Chat, 0, len(raws))
	for _, raw := range raws {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		parseStarted := time.Now()
		chat := uc.chats.ParseChat(raw.Content, raw.Name, raw.MediaFiles)
		uc.metrics.ObserveChat("library", chat, time.Since(parseStarted))
		uc.logger.Debug("Чат библиотеки разобран", slog.String("chat", chat.Name), slog.Int("message_count", chat.MessageCount))
		chats = append(chats, *chat)
	}

	uc.logger.Info("Библиотека чатов загружена", slog.Int("chats", len(chats)), slog.Duration("took", time.Since(started)))
	return chats, nil
}

// withName возвращает копию чата с другим именем и идентификатором.
func withName(chat *domain.Chat, name string) *domain.Chat {
	if chat == nil || chat.Name == name {
		return chat
	}
	renamed := *chat
	renamed.Name = name
	renamed.ID = services.GenerateChatID(name)
	return &renamed
}
