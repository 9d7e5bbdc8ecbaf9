package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bot_config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadBotConfig(t *testing.T) {
	t.Run("значения по умолчанию", func(t *testing.T) {
		t.Setenv("BOT_TOKEN", "")
		path := writeConfig(t, `
bot:
  token: "123:abc"
  backend_url: "http://localhost:8080"
  render:
    content: 40
`)
		cfg, err := LoadBotConfig(path)
		require.NoError(t, err)

		assert.Equal(t, "123:abc", cfg.Bot.Token)
		assert.Equal(t, DefaultExcelThreshold, cfg.Bot.ExcelThreshold)
		assert.Equal(t, DefaultSenderColumnWidth, cfg.Bot.Render.Sender)
		assert.Equal(t, 40, cfg.Bot.Render.Content)
		assert.Equal(t, DefaultLogLevel, cfg.Logging.Level)
		assert.NoError(t, cfg.ValidateFull())
	})

	t.Run("токен из окружения", func(t *testing.T) {
		t.Setenv("BOT_TOKEN", "999:env")
		path := writeConfig(t, "bot:\n  backend_url: http://x\n")

		cfg, err := LoadBotConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "999:env", cfg.Bot.Token)
	})

	t.Run("файл не найден", func(t *testing.T) {
		_, err := LoadBotConfig(filepath.Join(t.TempDir(), "missing.yml"))
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		c := Config{Bot: BotConfig{Token: "1:a", BackendURL: "http://x"}}
		c.applyDefaults()
		return c
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"нет токена", func(c *Config) { c.Bot.Token = "" }},
		{"токен-заглушка", func(c *Config) { c.Bot.Token = "YOUR_TELEGRAM_BOT_TOKEN" }},
		{"нет backend_url", func(c *Config) { c.Bot.BackendURL = "" }},
		{"отрицательный порог", func(c *Config) { c.Bot.ExcelThreshold = -1 }},
		{"неизвестный уровень логов", func(c *Config) { c.Logging.Level = "trace" }},
		{"неизвестный формат логов", func(c *Config) { c.Logging.Format = "xml" }},
	}

	c := valid()
	require.NoError(t, c.ValidateFull())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			assert.Error(t, c.ValidateFull())
		})
	}
}
