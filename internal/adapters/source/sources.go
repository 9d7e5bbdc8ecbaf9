package source

import (
	"context"
	"errors"

	"chatter-io/internal/domain"
	"chatter-io/internal/ports"
)

// ErrUnsupportedFormat возвращается для файлов, которые не являются экспортом.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// exportDirSource - один каталог экспорта.
type exportDirSource struct {
	dir string
}

func (s *exportDirSource) Load(ctx context.Context) ([]domain.RawChat, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := LoadExportDir(s.dir)
	if err != nil {
		return nil, err
	}
	return []domain.RawChat{raw}, nil
}

// renamedSource заменяет имена чатов, если имя задано явно.
type renamedSource struct {
	inner ports.ChatSource
	name  string
}

func (s *renamedSource) Load(ctx context.Context) ([]domain.RawChat, error) {
	chats, err := s.inner.Load(ctx)
	if err != nil || s.name == "" {
		return chats, err
	}
	for i := range chats {
		chats[i].Name = s.name
	}
	return chats, nil
}
