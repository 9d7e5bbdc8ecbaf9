package services

import (
	"regexp"
	"strings"
	"time"

	"chatter-io/internal/domain"
	"chatter-io/internal/ports"
)

// slugSeparatorRegexp - любая последовательность символов, кроме латиницы и цифр.
var slugSeparatorRegexp = regexp.MustCompile(`[^a-z0-9]+`)

// GenerateChatID строит идентификатор чата из имени: нижний регистр,
// серии прочих символов заменяются одним дефисом, дефисы по краям удаляются.
// Для имени без латиницы и цифр результат пустой.
func GenerateChatID(name string) string {
	slug := slugSeparatorRegexp.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}

// AggregationService реализует интерфейс Aggregator.
type AggregationService struct {
	now func() time.Time
}

// AggregationOption настраивает AggregationService.
type AggregationOption func(*AggregationService)

// WithClock подменяет источник текущего времени (для пустых чатов).
func WithClock(now func() time.Time) AggregationOption {
	return func(s *AggregationService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewAggregationService создает новый экземпляр AggregationService.
func NewAggregationService(opts ...AggregationOption) ports.Aggregator {
	s := &AggregationService{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Aggregate собирает запись чата из упорядоченных сообщений.
func (s *AggregationService) Aggregate(chatName string, messages []domain.Message, catalog domain.MediaCatalog) *domain.Chat {
	if messages == nil {
		messages = []domain.Message{}
	}

	return &domain.Chat{
		ID:           GenerateChatID(chatName),
		Name:         chatName,
		Participants: collectParticipants(messages),
		Messages:     messages,
		MessageCount: len(messages),
		DateRange:    s.dateRange(messages),
		HasMedia:     catalog.HasMedia(),
		MediaFiles:   catalog.Normalize(),
	}
}

// collectParticipants возвращает различных отправителей в порядке первого появления.
func collectParticipants(messages []domain.Message) []string {
	participants := []string{}
	seen := make(map[string]struct{})
	for _, msg := range messages {
		if _, ok := seen[msg.Sender]; ok {
			continue
		}
		seen[msg.Sender] = struct{}{}
		participants = append(participants, msg.Sender)
	}
	return participants
}

// dateRange для пустого чата возвращает текущий момент для обеих границ.
func (s *AggregationService) dateRange(messages []domain.Message) domain.DateRange {
	if len(messages) == 0 {
		now := s.now()
		return domain.DateRange{Start: now, End: now}
	}
	return domain.DateRange{
		Start: messages[0].Timestamp,
		End:   messages[len(messages)-1].Timestamp,
	}
}
