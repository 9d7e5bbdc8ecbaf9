package services

import (
	"testing"
	"time"

	"chatter-io/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleChats() []domain.Chat {
	agg := NewAggregationService()
	first := agg.Aggregate("First", []domain.Message{
		{Sender: "Alice", Content: "Hello world", Kind: domain.KindText, Timestamp: time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)},
		{Sender: "Bob", Content: "image omitted", Kind: domain.KindImage, Timestamp: time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC)},
	}, domain.BucketedCatalog(domain.MediaCollection{Images: []domain.MediaFile{{Name: "x.jpg"}}}))
	second := agg.Aggregate("Second", []domain.Message{
		{Sender: "Bob", Content: "hello again", Kind: domain.KindText, Timestamp: time.Date(2024, 12, 31, 9, 0, 0, 0, time.UTC)},
		{Sender: "Carol", Content: "Video call", Kind: domain.KindCall, Timestamp: time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC)},
	}, domain.MediaCatalog{})
	return []domain.Chat{*first, *second}
}

func TestStatisticsService_Compute(t *testing.T) {
	svc := NewStatisticsService()

	t.Run("Пустой набор", func(t *testing.T) {
		stats := svc.Compute(nil)
		assert.Equal(t, 0, stats.TotalMessages)
		assert.Nil(t, stats.DateRange)
		assert.Empty(t, stats.MessageTypes)
	})

	t.Run("Сводка по нескольким чатам", func(t *testing.T) {
		stats := svc.Compute(sampleChats())

		assert.Equal(t, 4, stats.TotalMessages)
		assert.Equal(t, 3, stats.TotalParticipants)
		require.NotNil(t, stats.DateRange)
		assert.Equal(t, time.Date(2024, 12, 31, 9, 0, 0, 0, time.UTC), stats.DateRange.Start)
		assert.Equal(t, time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC), stats.DateRange.End)
		assert.Equal(t, 2, stats.MessageTypes[domain.KindText])
		assert.Equal(t, 1, stats.MessageTypes[domain.KindImage])
		assert.Equal(t, 1, stats.MessageTypes[domain.KindCall])
	})
}

func TestStatisticsService_Queries(t *testing.T) {
	svc := NewStatisticsService()
	chats := sampleChats()

	t.Run("Search без учета регистра, новые первыми", func(t *testing.T) {
		res := svc.Search(chats, "HELLO")
		require.Len(t, res, 2)
		assert.Equal(t, "Hello world", res[0].Content)
		assert.Equal(t, "hello again", res[1].Content)
	})

	t.Run("Search по отправителю", func(t *testing.T) {
		assert.Len(t, svc.Search(chats, "carol"), 1)
	})

	t.Run("Пустой запрос", func(t *testing.T) {
		assert.Empty(t, svc.Search(chats, "   "))
	})

	t.Run("ByParticipant", func(t *testing.T) {
		res := svc.ByParticipant(chats, "car")
		require.Len(t, res, 1)
		assert.Equal(t, "Second", res[0].Name)
		assert.Len(t, svc.ByParticipant(chats, "bob"), 2)
	})

	t.Run("WithMedia", func(t *testing.T) {
		res := svc.WithMedia(chats)
		require.Len(t, res, 1)
		assert.Equal(t, "First", res[0].Name)
	})

	t.Run("Recent", func(t *testing.T) {
		res := svc.Recent(chats, 1)
		require.Len(t, res, 1)
		assert.Equal(t, "Second", res[0].Name)
		assert.Len(t, svc.Recent(chats, 0), 2)
		assert.Equal(t, "First", chats[0].Name)
	})
}
