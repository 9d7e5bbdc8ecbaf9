package services

import (
	"chatter-io/internal/domain"
	"chatter-io/internal/ports"
)

// ChatServiceImpl реализует интерфейс ChatService: разбор текста и сборка чата.
type ChatServiceImpl struct {
	parser     ports.Parser
	aggregator ports.Aggregator
}

// NewChatService создает новый экземпляр ChatServiceImpl.
func NewChatService(parser ports.Parser, aggregator ports.Aggregator) ports.ChatService {
	return &ChatServiceImpl{
		parser:     parser,
		aggregator: aggregator,
	}
}

// ParseChat разбирает текст экспорта и возвращает полностью заполненную запись чата.
// Никогда не возвращает ошибку: некорректный ввод дает пустой чат.
func (s *ChatServiceImpl) ParseChat(rawText, chatName string, catalog domain.MediaCatalog) *domain.Chat {
	messages := s.parser.ParseMessages(rawText, catalog)
	return s.aggregator.Aggregate(chatName, messages, catalog)
}

// ParseRawChats разбирает набор "сырых" чатов, полученных загрузчиком.
func ParseRawChats(svc ports.ChatService, raws []domain.RawChat) []domain.Chat {
	chats := make([]domain.Chat, 0, len(raws))
	for _, raw := range raws {
		chats = append(chats, *svc.ParseChat(raw.Content, raw.Name, raw.MediaFiles))
	}
	return chats
}
