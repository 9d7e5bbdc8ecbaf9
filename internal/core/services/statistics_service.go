package services

import (
	"sort"
	"strings"

	"chatter-io/internal/domain"
)

// StatisticsService вычисляет сводки и выборки по набору чатов.
type StatisticsService struct{}

// NewStatisticsService создает новый экземпляр StatisticsService.
func NewStatisticsService() *StatisticsService {
	return &StatisticsService{}
}

// Compute возвращает общее число сообщений, число различных участников,
// общий диапазон дат (nil для пустого набора) и счетчики по типам.
func (s *StatisticsService) Compute(chats []domain.Chat) domain.Statistics {
	stats := domain.Statistics{MessageTypes: make(map[domain.MessageKind]int)}
	if len(chats) == 0 {
		return stats
	}

	participants := make(map[string]struct{})
	var dr domain.DateRange
	for i, chat := range chats {
		for _, p := range chat.Participants {
			participants[p] = struct{}{}
		}
		stats.TotalMessages += chat.MessageCount

		if i == 0 || chat.DateRange.Start.Before(dr.Start) {
			dr.Start = chat.DateRange.Start
		}
		if i == 0 || chat.DateRange.End.After(dr.End) {
			dr.End = chat.DateRange.End
		}

		for _, msg := range chat.Messages {
			stats.MessageTypes[msg.Kind]++
		}
	}

	stats.TotalParticipants = len(participants)
	stats.DateRange = &dr
	return stats
}

// Search ищет подстроку (без учета регистра) в тексте и отправителе сообщений
// всех чатов. Результат упорядочен от новых к старым. Пустой запрос дает пустой результат.
func (s *StatisticsService) Search(chats []domain.Chat, query string) []domain.Message {
	term := strings.ToLower(strings.TrimSpace(query))
	results := []domain.Message{}
	if term == "" {
		return results
	}

	for _, chat := range chats {
		for _, msg := range chat.Messages {
			if strings.Contains(strings.ToLower(msg.Content), term) ||
				strings.Contains(strings.ToLower(msg.Sender), term) {
				results = append(results, msg)
			}
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Timestamp.After(results[j].Timestamp)
	})
	return results
}

// ByParticipant возвращает чаты, где имя хотя бы одного участника содержит name.
func (s *StatisticsService) ByParticipant(chats []domain.Chat, name string) []domain.Chat {
	needle := strings.ToLower(name)
	return filterChats(chats, func(c domain.Chat) bool {
		for _, p := range c.Participants {
			if strings.Contains(strings.ToLower(p), needle) {
				return true
			}
		}
		return false
	})
}

// WithMedia возвращает чаты, у которых есть медиафайлы.
func (s *StatisticsService) WithMedia(chats []domain.Chat) []domain.Chat {
	return filterChats(chats, func(c domain.Chat) bool { return c.HasMedia })
}

// Recent сортирует чаты по последнему сообщению (новые первыми).
// limit <= 0 означает без ограничения.
func (s *StatisticsService) Recent(chats []domain.Chat, limit int) []domain.Chat {
	sorted := make([]domain.Chat, len(chats))
	copy(sorted, chats)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].DateRange.End.After(sorted[j].DateRange.End)
	})
	if limit > 0 && limit < len(sorted) {
		sorted = sorted[:limit]
	}
	return sorted
}

func filterChats(chats []domain.Chat, keep func(domain.Chat) bool) []domain.Chat {
	out := []domain.Chat{}
	for _, c := range chats {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}
