package parser

import (
	"strings"
	"testing"
	"time"

	"chatter-io/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		kind LineKind
	}{
		{"сообщение", "[06.09.2025, 18:48:36] Alice: hi", LineMessage},
		{"сообщение с пустым текстом", "[06.09.2025, 18:48:36] Alice: ", LineMessage},
		{"служебная строка", "[06.09.2025, 18:48:36] Alice created group", LineSystem},
		{"продолжение", "just text", LineContinuation},
		{"неполный заголовок", "[06.09.2025] Alice: hi", LineContinuation},
		{"BOM в начале", "\ufeff[06.09.2025, 18:48:36] Alice: hi", LineMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, ClassifyLine(tt.line).Kind)
		})
	}
}

func TestAssembler_Step(t *testing.T) {
	a := NewAssembler(time.UTC, nil, nil)

	t.Run("Продолжение без сообщения игнорируется", func(t *testing.T) {
		s, done := a.Step(State{}, "orphan")
		assert.Nil(t, done)
		assert.False(t, s.Building())
	})

	t.Run("Переходы не изменяют предыдущее состояние", func(t *testing.T) {
		s1, done := a.Step(State{}, "[06.09.2025, 18:48:36] Alice: one")
		require.Nil(t, done)
		require.True(t, s1.Building())

		s2, _ := a.Step(s1, "two")
		s3, _ := a.Step(s1, "three")

		_, m1 := a.Finish(s1)
		_, m2 := a.Finish(s2)
		_, m3 := a.Finish(s3)
		assert.Equal(t, "one", m1.Content)
		assert.Equal(t, "one\ntwo", m2.Content)
		assert.Equal(t, "one\nthree", m3.Content)
	})

	t.Run("Новый заголовок выдает предыдущее сообщение", func(t *testing.T) {
		s, _ := a.Step(State{}, "[06.09.2025, 18:48:36] Alice: one")
		s, done := a.Step(s, "[06.09.2025, 18:48:37] Bob: two")
		require.NotNil(t, done)
		assert.Equal(t, "Alice", done.Sender)
		assert.Equal(t, 1, s.Flushed())

		s, last := a.Finish(s)
		require.NotNil(t, last)
		assert.Equal(t, "Bob", last.Sender)
		assert.Equal(t, 2, s.Flushed())
		assert.False(t, s.Building())
	})

	t.Run("Finish на пустом состоянии ничего не выдает", func(t *testing.T) {
		_, done := a.Finish(State{})
		assert.Nil(t, done)
	})
}

func TestAssembler_AssembleLongMessage(t *testing.T) {
	const lines = 100_000
	raw := "[06.09.2025, 18:48:36] Alice: start\n" + strings.Repeat("x\n", lines)
	a := NewAssembler(time.UTC, nil, nil)

	started := time.Now()
	msgs := a.Assemble(raw)
	took := time.Since(started)

	require.Len(t, msgs, 1)
	assert.Equal(t, len("start")+lines*len("\nx"), len(msgs[0].Content))
	assert.True(t, strings.HasPrefix(msgs[0].Content, "start\nx\nx"))
	assert.Less(t, took, 5*time.Second, "сборка должна быть линейной по числу строк")
}

func TestAssembler_StepAfterAssembleIsIndependent(t *testing.T) {
	a := NewAssembler(time.UTC, nil, nil)

	s1, _ := a.Step(State{}, "[06.09.2025, 18:48:36] Alice: one")
	s2, _ := a.Step(s1, "two")
	msgs := a.Assemble("[06.09.2025, 18:48:36] Alice: one\nthree")

	_, m2 := a.Finish(s2)
	assert.Equal(t, "one\ntwo", m2.Content)
	require.Len(t, msgs, 1)
	assert.Equal(t, "one\nthree", msgs[0].Content)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		kind     domain.MessageKind
		omitted  bool
		duration string
	}{
		{"текст", "hello", domain.KindText, false, ""},
		{"аудио", "audio omitted", domain.KindAudio, true, ""},
		{"стикер", "\u200esticker omitted", domain.KindSticker, true, ""},
		{"изображение", "image omitted", domain.KindImage, true, ""},
		{"видео", "video omitted", domain.KindVideo, true, ""},
		{"документ", "report.pdf • 3 pages \u200edocument omitted", domain.KindDocument, true, ""},
		{"аудио раньше изображения", "audio omitted image omitted", domain.KindAudio, true, ""},
		{"видеозвонок", "Video call \u200e13 min", domain.KindCall, true, "13 min"},
		{"голосовой звонок", "Voice call, 2 min", domain.KindCall, false, ", 2 min"},
		{"звонок без длительности", "Call", domain.KindCall, false, ""},
		{"omitted в тексте", "this part was omitted", domain.KindText, true, ""},
		{"управляющий символ в тексте", "\u200ehello", domain.KindText, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Classify(tt.body)
			assert.Equal(t, tt.kind, c.Kind)
			assert.Equal(t, tt.omitted, c.Omitted)
			assert.Equal(t, tt.duration, c.CallDuration)
		})
	}
}

func TestNormalizeSender(t *testing.T) {
	assert.Equal(t, "Alice", NormalizeSender(" Alice "))
	assert.Equal(t, "Alice", NormalizeSender("\u200eAlice"))
	assert.Equal(t, domain.UnknownContact, NormalizeSender("+7 705 444 1059"))
	assert.Equal(t, domain.UnknownContact, NormalizeSender("\u200e"))
	assert.Equal(t, "+7 705", NormalizeSender("+7 705"))
}

func TestParseTimestamp(t *testing.T) {
	t.Run("Корректная дата", func(t *testing.T) {
		ts := ParseTimestamp("06.09.2025", "18:48:36", time.UTC)
		assert.True(t, time.Date(2025, 9, 6, 18, 48, 36, 0, time.UTC).Equal(ts))
	})

	t.Run("Некорректная дата дает нулевое время", func(t *testing.T) {
		assert.True(t, ParseTimestamp("31.02.2025", "10:00:00", time.UTC).IsZero())
	})

	t.Run("nil означает локальный пояс", func(t *testing.T) {
		ts := ParseTimestamp("06.09.2025", "18:48:36", nil)
		assert.Equal(t, time.Local, ts.Location())
	})
}

func TestMediaAssociator(t *testing.T) {
	files := []domain.MediaFile{
		{Name: "photo.jpg", Path: "media/photo.jpg"},
		{Name: "-0000001-AUDIO-2025-07-12-16-03-51.opus", Path: "media/a.opus"},
	}
	a := NewMediaAssociator()

	t.Run("Явная ссылка attached", func(t *testing.T) {
		f := a.Associate("<ATTACHED: photo.jpg>", files)
		require.NotNil(t, f)
		assert.Equal(t, "media/photo.jpg", f.Path)
	})

	t.Run("Автоматическое имя файла", func(t *testing.T) {
		f := a.Associate("voice -0000001-AUDIO-2025-07-12-16-03-51.opus here", files)
		require.NotNil(t, f)
		assert.Equal(t, "media/a.opus", f.Path)
	})

	t.Run("Возвращается копия", func(t *testing.T) {
		f := a.Associate("<attached: photo.jpg>", files)
		require.NotNil(t, f)
		f.Path = "changed"
		assert.Equal(t, "media/photo.jpg", files[0].Path)
	})

	t.Run("Нет совпадения", func(t *testing.T) {
		assert.Nil(t, a.Associate("<attached: missing.jpg>", files))
		assert.Nil(t, a.Associate("plain text", files))
		assert.Nil(t, a.Associate("<attached: photo.jpg>", nil))
	})

	t.Run("Ссылка attached без файла не уступает имени из текста", func(t *testing.T) {
		content := "<attached: missing.jpg> -0000001-AUDIO-2025-07-12-16-03-51.opus"
		assert.Nil(t, a.Associate(content, files))
	})
}
