package source

import (
	"context"
	"encoding/json"
	"time"

	"chatter-io/internal/domain"
	"chatter-io/internal/ports"

	"golang.org/x/xerrors"
)

// Bundle - файл с заранее собранными "сырыми" чатами (processedChats.json).
// Медиа в старых файлах записаны плоским списком имен.
type Bundle struct {
	ProcessedAt time.Time        `json:"processedAt"`
	TotalChats  int              `json:"totalChats"`
	Chats       []domain.RawChat `json:"chats"`
}

// NewBundle собирает Bundle из загруженных чатов.
func NewBundle(chats []domain.RawChat, processedAt time.Time) Bundle {
	if chats == nil {
		chats = []domain.RawChat{}
	}
	return Bundle{ProcessedAt: processedAt, TotalChats: len(chats), Chats: chats}
}

// BundleSource загружает чаты из Bundle.
type BundleSource struct {
	data ports.DataSource
}

// NewBundleSource создает новый экземпляр BundleSource.
func NewBundleSource(data ports.DataSource) *BundleSource {
	return &BundleSource{data: data}
}

// Load реализует ports.ChatSource.
func (s *BundleSource) Load(ctx context.Context) ([]domain.RawChat, error) {
	data, err := s.data.Fetch()
	if err != nil {
		return nil, xerrors.Errorf("load bundle: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, xerrors.Errorf("decode bundle: %w", err)
	}
	if b.Chats == nil {
		b.Chats = []domain.RawChat{}
	}
	Disambiguate(b.Chats)
	return b.Chats, nil
}
