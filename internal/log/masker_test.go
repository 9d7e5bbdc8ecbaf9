package log

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskerHandler_Handle(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "mask telegram token in message",
			input:    `Post "https://api.telegram.org/bot8462697481:AAEJSXuTcb2F1Js2sWiK0TVWvxbHL9xX05Q/getUpdates": net/http: request canceled`,
			expected: `Post "https://api.telegram.org/bot***:***masked-token***/getUpdates": net/http: request canceled`,
		},
		{
			name:     "no secrets in message",
			input:    "This is a normal log message",
			expected: "This is a normal log message",
		},
		{
			name:     "mask phone number",
			input:    "chat Акнур and +7 705 444 1059 parsed",
			expected: "chat Акнур and +*** parsed",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			logger := NewMaskedLogger(slog.NewJSONHandler(&buf, nil))

			logger.Info(tt.input)

			expectedEscaped := strings.ReplaceAll(tt.expected, "\"", "\\\"")
			assert.Contains(t, buf.String(), expectedEscaped)
		})
	}
}

func TestMaskerHandler_Attrs(t *testing.T) {
	var buf bytes.Buffer
	logger := NewMaskedLogger(slog.NewJSONHandler(&buf, nil))

	token := "bot8462697481:AAEJSXuTcb2F1Js2sWiK0TVWvxbHL9xX05Q"
	logger = logger.With(slog.String("token", token))

	logger.Info("message with secrets in attrs",
		slog.String("sender", "+44 7700 900123"),
		slog.Any("error", errors.New("call "+token+" failed")),
		slog.Group("chat", slog.String("name", "+7 705 444 1059")),
		slog.Int("count", 3),
	)

	output := buf.String()
	assert.NotContains(t, output, token)
	assert.NotContains(t, output, "900123")
	assert.NotContains(t, output, "444 1059")
	assert.Contains(t, output, "***masked-token***")
	assert.Contains(t, output, `"sender":"+***"`)
	assert.Contains(t, output, `"count":3`)
}

func TestMask(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"bot123456789:AAABCdEfGhIjKlMnOpQrStUvWxYz1234567", "bot***:***masked-token***"},
		{"No secrets here", "No secrets here"},
		{"+77054441059", "+***"},
		{"Unknown Contact", "Unknown Contact"},
		{"1 + 2", "1 + 2"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, mask(tt.input))
		})
	}
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "warn", "text")

	logger.Info("hidden")
	logger.Warn("shown", "phone", "+7 705 444 1059")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "phone=+***")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}
