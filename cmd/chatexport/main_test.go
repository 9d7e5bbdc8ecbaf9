package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"chatter-io/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleExport = "[06.09.2025, 18:48:36] Alice: Hi there\n" +
	"[06.09.2025, 18:49:00] Bob: hello\nsecond line\n" +
	"[06.09.2025, 18:50:12] Alice: bye\n"

func writeExport(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(sampleExport), 0o644))
	return path
}

func TestGlobalOptions_Location(t *testing.T) {
	loc, err := (&globalOptions{timezone: "Local"}).location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)

	loc, err = (&globalOptions{timezone: "UTC"}).location()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())

	_, err = (&globalOptions{timezone: "Mars/Olympus"}).location()
	assert.Error(t, err)
}

func TestUseTable(t *testing.T) {
	table, err := useTable("table")
	require.NoError(t, err)
	assert.True(t, table)

	table, err = useTable("json")
	require.NoError(t, err)
	assert.False(t, table)

	_, err = useTable("xml")
	assert.Error(t, err)
}

func TestOpenOutput(t *testing.T) {
	dir := t.TempDir()

	t.Run("Новый файл создается", func(t *testing.T) {
		path := filepath.Join(dir, "new.json")
		out, err := openOutput(path, false)
		require.NoError(t, err)
		_, err = out.Write([]byte("{}"))
		require.NoError(t, err)
		require.NoError(t, out.Close())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "{}", string(data))
	})

	t.Run("Существующий файл без force вне терминала не перезаписывается", func(t *testing.T) {
		path := filepath.Join(dir, "existing.json")
		require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

		_, err := openOutput(path, false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--force")

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "old", string(data))
	})

	t.Run("force перезаписывает файл", func(t *testing.T) {
		path := filepath.Join(dir, "forced.json")
		require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

		out, err := openOutput(path, true)
		require.NoError(t, err)
		require.NoError(t, out.Close())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Empty(t, data)
	})

	t.Run("Дефис означает stdout", func(t *testing.T) {
		out, err := openOutput("-", false)
		require.NoError(t, err)
		assert.NoError(t, out.Close())
	})
}

func TestLoadChats(t *testing.T) {
	dir := t.TempDir()
	path := writeExport(t, dir, "WhatsApp Chat - Family.txt")

	chats, err := loadChats(context.Background(), &globalOptions{timezone: "UTC", logLevel: "error"}, path)
	require.NoError(t, err)
	require.Len(t, chats, 1)

	chat := chats[0]
	assert.Equal(t, 3, chat.MessageCount)
	assert.ElementsMatch(t, []string{"Alice", "Bob"}, chat.Participants)
	assert.Equal(t, "hello\nsecond line", chat.Messages[1].Content)
	assert.Equal(t, time.Date(2025, 9, 6, 18, 48, 36, 0, time.UTC), chat.DateRange.Start)
}

func TestProcessCmd(t *testing.T) {
	dir := t.TempDir()
	writeExport(t, dir, "first.txt")
	writeExport(t, dir, "second.txt")
	output := filepath.Join(t.TempDir(), "processed.json")

	cmd := processCmd(&globalOptions{timezone: "UTC", logLevel: "error"})
	cmd.SetArgs([]string{dir, "--output", output})
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	data, err := os.ReadFile(output)
	require.NoError(t, err)

	var got struct {
		ProcessedAt   time.Time     `json:"processedAt"`
		Chats         []domain.Chat `json:"chats"`
		TotalChats    int           `json:"totalChats"`
		TotalMessages int           `json:"totalMessages"`
	}
	require.NoError(t, json.Unmarshal(data, &got))
	assert.False(t, got.ProcessedAt.IsZero())
	assert.Equal(t, 2, got.TotalChats)
	assert.Equal(t, 6, got.TotalMessages)
}

func TestBundleCmd_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	writeExport(t, dir, "family.txt")
	bundle := filepath.Join(t.TempDir(), "bundle.json")

	cmd := bundleCmd(&globalOptions{})
	cmd.SetArgs([]string{dir, "-o", bundle})
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	// bundle читается обратно как источник чатов
	chats, err := loadChats(context.Background(), &globalOptions{timezone: "UTC", logLevel: "error"}, bundle)
	require.NoError(t, err)
	require.Len(t, chats, 1)
	assert.Equal(t, 3, chats[0].MessageCount)
}

func TestWriteStats(t *testing.T) {
	chats, err := loadChats(context.Background(), &globalOptions{timezone: "UTC", logLevel: "error"},
		writeExport(t, t.TempDir(), "family.txt"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writeStats(&buf, chats, domain.Statistics{
		TotalMessages:     3,
		TotalParticipants: 2,
		DateRange:         &chats[0].DateRange,
		MessageTypes:      map[domain.MessageKind]int{domain.KindText: 3},
	}))

	out := buf.String()
	assert.Contains(t, out, "messages: 3, participants: 2")
	assert.Contains(t, out, "period: 2025-09-06 .. 2025-09-06")
	assert.Contains(t, out, "text")
}
