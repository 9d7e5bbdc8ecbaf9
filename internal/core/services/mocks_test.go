package services

import (
	"chatter-io/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockParser - мок-реализация ports.Parser для тестирования
type MockParser struct {
	mock.Mock
}

// ParseMessages реализует интерфейс ports.Parser
func (m *MockParser) ParseMessages(rawText string, catalog domain.MediaCatalog) []domain.Message {
	args := m.Called(rawText, catalog)
	return args.Get(0).([]domain.Message)
}

// MockAggregator - мок-реализация ports.Aggregator для тестирования
type MockAggregator struct {
	mock.Mock
}

// Aggregate реализует интерфейс ports.Aggregator
func (m *MockAggregator) Aggregate(chatName string, messages []domain.Message, catalog domain.MediaCatalog) *domain.Chat {
	args := m.Called(chatName, messages, catalog)
	return args.Get(0).(*domain.Chat)
}
