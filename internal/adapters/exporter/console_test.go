package exporter

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"chatter-io/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleChat() domain.Chat {
	at := func(m int) time.Time { return time.Date(2025, 9, 6, 18, m, 0, 0, time.UTC) }
	return domain.Chat{
		ID:           "family",
		Name:         "Family",
		Participants: []string{"Alice", "Bob"},
		Messages: []domain.Message{
			{ID: "1", Sender: "Alice", Content: "Hello", Kind: domain.KindText, Timestamp: at(1)},
			{ID: "2", Sender: "Bob", Content: "image omitted", Kind: domain.KindImage, Omitted: true, Timestamp: at(2)},
			{ID: "3", Sender: "Alice", Content: "Video call 13 min", Kind: domain.KindCall, CallDuration: "13 min", Timestamp: at(3)},
		},
		MessageCount: 3,
		DateRange:    domain.DateRange{Start: at(1), End: at(3)},
		HasMedia:     true,
		MediaFiles: domain.MediaCollection{
			Images: []domain.MediaFile{{Name: "a.jpg", Size: 1536}},
		},
	}
}

func TestConsoleExporter(t *testing.T) {
	t.Run("NewConsoleExporter создает корректный экземпляр", func(t *testing.T) {
		assert.NotNil(t, NewConsoleExporter())
	})

	t.Run("Export выводит сводку и участников", func(t *testing.T) {
		var buf bytes.Buffer
		err := NewConsoleExporter(WithWriter(&buf)).Export([]domain.Chat{sampleChat()})
		require.NoError(t, err)

		out := buf.String()
		assert.Contains(t, out, "Family")
		assert.Contains(t, out, "messages: 3")
		assert.Contains(t, out, "participants: 2")
		assert.Contains(t, out, "1.5 KB")
		assert.Contains(t, out, "| Alice ")
		assert.Contains(t, out, "| Bob ")
		assert.NotContains(t, out, "Hello")
	})

	t.Run("Export с сообщениями", func(t *testing.T) {
		var buf bytes.Buffer
		err := NewConsoleExporter(WithWriter(&buf), WithMessages(2)).Export([]domain.Chat{sampleChat()})
		require.NoError(t, err)

		out := buf.String()
		assert.NotContains(t, out, "Hello")
		assert.Contains(t, out, "image omitted")
		assert.Contains(t, out, "call: 13 min")
	})

	t.Run("Export пустого списка", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewConsoleExporter(WithWriter(&buf)).Export(nil))
		assert.Equal(t, "No chats found.\n", buf.String())
	})
}

func TestRenderTable(t *testing.T) {
	t.Run("Выравнивание с учетом ширины символов", func(t *testing.T) {
		out := RenderTable([]Column{{Title: "Name", Width: 6}, {Title: "N", Width: 2}}, [][]string{
			{"Акнур", "1"},
			{"🙂", "2"},
		})
		lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
		require.Len(t, lines, 4)
		assert.Equal(t, "| Name   | N  |", lines[0])
		assert.Equal(t, "|--------|----|", lines[1])
		assert.Equal(t, "| Акнур  | 1  |", lines[2])
		assert.Equal(t, "| 🙂     | 2  |", lines[3])
	})

	t.Run("Длинные значения переносятся", func(t *testing.T) {
		out := RenderTable([]Column{{Title: "T", Width: 5}}, [][]string{{"aaa bbb"}})
		assert.Equal(t, "| T     |\n|-------|\n| aaa   |\n| bbb   |\n", out)
	})
}

func TestWrapString(t *testing.T) {
	assert.Equal(t, []string{"short"}, wrapString("short", 10))
	assert.Equal(t, []string{"one two", "three"}, wrapString("one two three", 7))
	assert.Equal(t, []string{"abcd", "efgh", "ij"}, wrapString("abcdefghij", 4))
	assert.Equal(t, []string{"anything"}, wrapString("anything", 0))
}

func TestFormatFileSize(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1 KB"},
		{1536, "1.5 KB"},
		{2359296, "2.25 MB"},
		{5 * 1024 * 1024 * 1024, "5 GB"},
		{3 * 1024 * 1024 * 1024 * 1024, "3072 GB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatFileSize(tt.in))
	}
}

func TestFitWidths(t *testing.T) {
	w := FitWidths(120)
	assert.Equal(t, DefaultWidths.Sender, w.Sender)
	assert.Equal(t, 120-13-19-DefaultWidths.Sender-DefaultWidths.Kind, w.Content)

	table := RenderTable(MessageColumns(w), MessageRows(sampleChat().Messages))
	for _, line := range strings.Split(strings.TrimRight(table, "\n"), "\n") {
		assert.Equal(t, 120, len(line))
	}

	assert.Equal(t, minContentWidth, FitWidths(40).Content)
}
