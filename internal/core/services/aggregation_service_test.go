package services

import (
	"strings"
	"testing"
	"time"

	"chatter-io/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func msgAt(sender string, minute int) domain.Message {
	return domain.Message{
		Sender:    sender,
		Timestamp: time.Date(2025, 9, 6, 18, minute, 0, 0, time.UTC),
		Kind:      domain.KindText,
	}
}

func TestGenerateChatID(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"простое имя", "Thomas", "thomas"},
		{"пробелы и знаки", "  Family Group!! 2025 ", "family-group-2025"},
		{"кириллица и номер", "Акнур & +7 705 444 1059", "7-705-444-1059"},
		{"только кириллица", "Акнур", ""},
		{"пустое имя", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenerateChatID(tt.in)
			assert.Equal(t, tt.want, got)
			assert.False(t, strings.HasPrefix(got, "-"))
			assert.False(t, strings.HasSuffix(got, "-"))
			assert.NotContains(t, got, "--")
		})
	}
}

func TestAggregationService_Aggregate(t *testing.T) {
	fixed := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	svc := NewAggregationService(WithClock(func() time.Time { return fixed }))

	t.Run("Участники в порядке первого появления", func(t *testing.T) {
		msgs := []domain.Message{msgAt("Bob", 1), msgAt("Alice", 2), msgAt("Bob", 3), msgAt(domain.SystemSender, 4)}
		chat := svc.Aggregate("Team", msgs, domain.MediaCatalog{})

		assert.Equal(t, []string{"Bob", "Alice", domain.SystemSender}, chat.Participants)
		assert.Equal(t, 4, chat.MessageCount)
		assert.Equal(t, "team", chat.ID)
		assert.Equal(t, "Team", chat.Name)
	})

	t.Run("Диапазон дат по первому и последнему сообщению", func(t *testing.T) {
		msgs := []domain.Message{msgAt("Bob", 1), msgAt("Alice", 9)}
		chat := svc.Aggregate("Team", msgs, domain.MediaCatalog{})

		assert.Equal(t, msgs[0].Timestamp, chat.DateRange.Start)
		assert.Equal(t, msgs[1].Timestamp, chat.DateRange.End)
	})

	t.Run("Пустой чат получает текущее время для обеих границ", func(t *testing.T) {
		chat := svc.Aggregate("Empty", nil, domain.MediaCatalog{})

		assert.Equal(t, 0, chat.MessageCount)
		assert.NotNil(t, chat.Messages)
		assert.Empty(t, chat.Participants)
		assert.Equal(t, fixed, chat.DateRange.Start)
		assert.Equal(t, fixed, chat.DateRange.End)
		assert.False(t, chat.HasMedia)
	})

	t.Run("Каталог из групп определяет hasMedia", func(t *testing.T) {
		catalog := domain.BucketedCatalog(domain.MediaCollection{
			Audio: []domain.MediaFile{{Name: "a.opus"}},
		})
		chat := svc.Aggregate("Media", nil, catalog)

		assert.True(t, chat.HasMedia)
		require.Len(t, chat.MediaFiles.Audio, 1)
		assert.NotNil(t, chat.MediaFiles.Images)
	})

	t.Run("Плоский каталог нормализуется в пустые группы", func(t *testing.T) {
		chat := svc.Aggregate("Legacy", nil, domain.FlatCatalog([]string{"a.jpg", "b.opus"}))

		assert.True(t, chat.HasMedia)
		assert.Equal(t, 0, chat.MediaFiles.Count())
		assert.NotNil(t, chat.MediaFiles.Images)
		assert.NotNil(t, chat.MediaFiles.Documents)
	})
}
