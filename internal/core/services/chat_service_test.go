package services

import (
	"testing"

	"chatter-io/internal/adapters/parser"
	"chatter-io/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestChatService_ParseChat(t *testing.T) {
	t.Run("Передает результат парсера агрегатору", func(t *testing.T) {
		p := new(MockParser)
		a := new(MockAggregator)
		catalog := domain.MediaCatalog{}
		msgs := []domain.Message{{ID: "1-0", Sender: "Alice"}}
		want := &domain.Chat{ID: "team", MessageCount: 1}

		p.On("ParseMessages", "raw", catalog).Return(msgs).Once()
		a.On("Aggregate", "Team", msgs, catalog).Return(want).Once()

		got := NewChatService(p, a).ParseChat("raw", "Team", catalog)

		assert.Same(t, want, got)
		p.AssertExpectations(t)
		a.AssertExpectations(t)
	})

	t.Run("Полный разбор экспорта", func(t *testing.T) {
		svc := NewChatService(parser.NewWhatsAppParser(), NewAggregationService())
		raw := "[18.05.2025, 03:44:17] Thomas changed the group name.\n" +
			"[18.05.2025, 03:45:00] Thomas: Hi\nsecond line\n" +
			"[18.05.2025, 03:46:00] \u202a+7 705 444 1059\u202c: \u200eimage omitted"

		chat := svc.ParseChat(raw, "Акнур & +7 705 444 1059", domain.MediaCatalog{})

		require.Equal(t, 3, chat.MessageCount)
		assert.Equal(t, "7-705-444-1059", chat.ID)
		assert.Equal(t, []string{domain.SystemSender, "Thomas", domain.UnknownContact}, chat.Participants)
		assert.Equal(t, "Hi\nsecond line", chat.Messages[1].Content)
		assert.Equal(t, domain.KindImage, chat.Messages[2].Kind)
	})

	t.Run("Пустой текст дает пустой чат", func(t *testing.T) {
		svc := NewChatService(parser.NewWhatsAppParser(), NewAggregationService())
		chat := svc.ParseChat("", "Empty", domain.MediaCatalog{})
		assert.Equal(t, 0, chat.MessageCount)
	})
}

func TestParseRawChats(t *testing.T) {
	a := new(MockAggregator)
	p := new(MockParser)
	p.On("ParseMessages", mock.Anything, mock.Anything).Return([]domain.Message{})
	a.On("Aggregate", "One", mock.Anything, mock.Anything).Return(&domain.Chat{Name: "One"})
	a.On("Aggregate", "Two", mock.Anything, mock.Anything).Return(&domain.Chat{Name: "Two"})

	chats := ParseRawChats(NewChatService(p, a), []domain.RawChat{{Name: "One"}, {Name: "Two"}})

	require.Len(t, chats, 2)
	assert.Equal(t, "One", chats[0].Name)
	assert.Equal(t, "Two", chats[1].Name)
}
