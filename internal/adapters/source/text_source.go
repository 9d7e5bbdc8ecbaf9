package source

import (
	"context"

	"chatter-io/internal/domain"
	"chatter-io/internal/ports"

	"golang.org/x/xerrors"
)

// TextSource - загрузчик одного текстового экспорта без медиафайлов.
type TextSource struct {
	name   string
	origin string
	data   ports.DataSource
}

// NewTextSource оборачивает DataSource; name - имя чата, origin - имя исходного файла.
func NewTextSource(name, origin string, data ports.DataSource) *TextSource {
	return &TextSource{name: name, origin: origin, data: data}
}

// Load реализует ports.ChatSource.
func (s *TextSource) Load(ctx context.Context) ([]domain.RawChat, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content, err := s.data.Fetch()
	if err != nil {
		return nil, xerrors.Errorf("load %s: %w", s.origin, err)
	}

	return []domain.RawChat{{
		Name:    s.name,
		Content: string(content),
		Source:  s.origin,
	}}, nil
}
