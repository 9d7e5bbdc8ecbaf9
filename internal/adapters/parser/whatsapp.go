package parser

import (
	"time"

	"chatter-io/internal/domain"
	"chatter-io/internal/ports"
)

// WhatsAppParser реализует интерфейс Parser для текстового экспорта WhatsApp.
// Не хранит состояния между вызовами и безопасен для параллельного использования.
type WhatsAppParser struct {
	location   *time.Location
	associator *MediaAssociator
}

// Option настраивает WhatsAppParser.
type Option func(*WhatsAppParser)

// WithLocation задает часовой пояс, в котором трактуется время экспорта.
func WithLocation(loc *time.Location) Option {
	return func(p *WhatsAppParser) {
		if loc != nil {
			p.location = loc
		}
	}
}

// WithMediaMatchers заменяет набор сопоставителей вложений.
func WithMediaMatchers(matchers ...MediaMatcher) Option {
	return func(p *WhatsAppParser) {
		if len(matchers) > 0 {
			p.associator = NewMediaAssociator(matchers...)
		}
	}
}

// NewWhatsAppParser создает новый экземпляр WhatsAppParser.
func NewWhatsAppParser(opts ...Option) ports.Parser {
	p := &WhatsAppParser{
		location:   time.Local,
		associator: NewMediaAssociator(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseMessages разбирает текст экспорта в упорядоченные сообщения.
// Вложения ищутся в объединении всех групп каталога.
func (p *WhatsAppParser) ParseMessages(rawText string, catalog domain.MediaCatalog) []domain.Message {
	return NewAssembler(p.location, p.associator, catalog.Files()).Assemble(rawText)
}
