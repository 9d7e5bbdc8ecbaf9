package source

import (
	"archive/zip"
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildZip(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestZipSource_Load(t *testing.T) {
	data := buildZip(t, map[string]string{
		"_chat.txt": "[06.09.2025, 18:48:36] Thomas: <attached: 00000001-PHOTO-2025-09-06-18-48-36.jpg>",
		"00000001-PHOTO-2025-09-06-18-48-36.jpg": "jpeg",
		"00000002-VIDEO-2025-09-06-18-48-37.mp4":  "video",
		"contact.vcf":                            "vcard",
	})

	chats, err := NewZipSource("WhatsApp Chat - Thomas.zip", NewMemorySource(data)).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, chats, 1)

	chat := chats[0]
	assert.Equal(t, "Thomas", chat.Name)
	assert.Contains(t, chat.Content, "Thomas:")

	media := chat.MediaFiles.Normalize()
	require.Len(t, media.Images, 1)
	assert.Equal(t, "zip:00000001-PHOTO-2025-09-06-18-48-36.jpg", media.Images[0].Path)
	assert.Equal(t, int64(4), media.Images[0].Size)
	assert.Len(t, media.Videos, 1)
	assert.Len(t, media.Documents, 1)
}

func TestParseZip(t *testing.T) {
	t.Run("Единственный txt считается перепиской", func(t *testing.T) {
		data := buildZip(t, map[string]string{"WhatsApp Chat with Anna.txt": "[06.09.2025, 18:48:36] Anna: Hi"})

		raw, err := ParseZip("anna.zip", data)
		require.NoError(t, err)
		assert.Equal(t, "[06.09.2025, 18:48:36] Anna: Hi", raw.Content)
		assert.False(t, raw.MediaFiles.HasMedia())
	})

	t.Run("Архив без переписки", func(t *testing.T) {
		data := buildZip(t, map[string]string{"photo.jpg": "jpeg"})

		_, err := ParseZip("x.zip", data)
		assert.ErrorIs(t, err, ErrNoChatFile)
	})

	t.Run("Поврежденный архив", func(t *testing.T) {
		_, err := ParseZip("x.zip", []byte("not a zip"))
		assert.Error(t, err)
	})
}

func TestParseZipLimit(t *testing.T) {
	// хорошо сжимаемая переписка: архив маленький, распакованный текст - нет
	content := "[06.09.2025, 18:48:36] Anna: " + strings.Repeat("a", 64<<10)
	data := buildZip(t, map[string]string{"_chat.txt": content})
	require.Less(t, len(data), 4<<10)

	t.Run("Переписка длиннее лимита отклоняется", func(t *testing.T) {
		_, err := ParseZipLimit("anna.zip", data, 16<<10)
		assert.ErrorIs(t, err, ErrTooLarge)
	})

	t.Run("Переписка ровно по лимиту читается", func(t *testing.T) {
		raw, err := ParseZipLimit("anna.zip", data, int64(len(content)))
		require.NoError(t, err)
		assert.Equal(t, content, raw.Content)
	})

	t.Run("ParseZip применяет общий лимит", func(t *testing.T) {
		raw, err := ParseZip("anna.zip", data)
		require.NoError(t, err)
		assert.Len(t, raw.Content, len(content))
	})
}
