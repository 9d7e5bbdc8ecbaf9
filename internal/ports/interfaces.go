package ports

import (
	"context"

	"chatter-io/internal/domain"
)

// DataSource определяет интерфейс для получения исходных данных чата.
type DataSource interface {
	// Fetch загружает данные из источника и возвращает их в виде байтового среза.
	Fetch() ([]byte, error)
}

// ChatSource определяет загрузчик, который находит экспорты чатов
// и возвращает их вместе с каталогами медиафайлов.
type ChatSource interface {
	Load(ctx context.Context) ([]domain.RawChat, error)
}

// Parser преобразует текст экспорта в упорядоченную последовательность сообщений.
// Разбор тотален: любые входные данные дают результат, а не ошибку.
type Parser interface {
	ParseMessages(rawText string, catalog domain.MediaCatalog) []domain.Message
}

// Aggregator оборачивает последовательность сообщений в запись чата
// с производными полями (участники, диапазон дат, наличие медиа).
type Aggregator interface {
	Aggregate(chatName string, messages []domain.Message, catalog domain.MediaCatalog) *domain.Chat
}

// ChatService объединяет разбор и агрегацию в одну операцию.
type ChatService interface {
	ParseChat(rawText, chatName string, catalog domain.MediaCatalog) *domain.Chat
}

// Exporter определяет интерфейс для вывода результата.
type Exporter interface {
	// Export принимает разобранные чаты и выводит их.
	Export(chats []domain.Chat) error
}
