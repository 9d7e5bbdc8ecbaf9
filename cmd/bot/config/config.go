package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// ColumnWidths определяет ширину колонок для текстового вывода.
type ColumnWidths struct {
	Sender  int `yaml:"sender"`
	Kind    int `yaml:"kind"`
	Content int `yaml:"content"`
}

// BotConfig содержит конфигурацию для Telegram-бота
type BotConfig struct {
	Token                  string `yaml:"token"`
	BackendURL             string `yaml:"backend_url"`
	PollingIntervalSeconds int    `yaml:"polling_interval_seconds"`
	// ExcelThreshold - начиная с этого числа сообщений бот отвечает xlsx-файлом
	ExcelThreshold         int          `yaml:"excel_threshold"`
	PreviewMessages        int          `yaml:"preview_messages"`
	MaxFileSizeMB          int          `yaml:"max_file_size_mb"`
	DownloadTimeoutSeconds int          `yaml:"download_timeout_seconds"`
	HTTPTimeoutSeconds     int          `yaml:"http_timeout_seconds"`
	Render                 ColumnWidths `yaml:"render"`
}

// LoggingConfig содержит настройки логирования бота
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Config является оберткой для соответствия структуре YAML файла.
type Config struct {
	Bot     BotConfig     `yaml:"bot"`
	Logging LoggingConfig `yaml:"logging"`
}

// LoadBotConfig загружает конфигурацию бота из указанного файла.
func LoadBotConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read bot config file %s: %w", filename, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal bot config: %w", err)
	}
	if token := os.Getenv("BOT_TOKEN"); token != "" {
		cfg.Bot.Token = token
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// applyDefaults устанавливает значения по умолчанию для незаданных полей
func (c *Config) applyDefaults() {
	b := &c.Bot
	if b.PollingIntervalSeconds == 0 {
		b.PollingIntervalSeconds = DefaultPollingIntervalSeconds
	}
	if b.ExcelThreshold == 0 {
		b.ExcelThreshold = DefaultExcelThreshold
	}
	if b.PreviewMessages == 0 {
		b.PreviewMessages = DefaultPreviewMessages
	}
	if b.MaxFileSizeMB == 0 {
		b.MaxFileSizeMB = DefaultMaxFileSizeMB
	}
	if b.DownloadTimeoutSeconds == 0 {
		b.DownloadTimeoutSeconds = DefaultDownloadTimeoutSeconds
	}
	if b.HTTPTimeoutSeconds == 0 {
		b.HTTPTimeoutSeconds = DefaultHTTPTimeoutSeconds
	}
	if b.Render.Sender == 0 {
		b.Render.Sender = DefaultSenderColumnWidth
	}
	if b.Render.Kind == 0 {
		b.Render.Kind = DefaultKindColumnWidth
	}
	if b.Render.Content == 0 {
		b.Render.Content = DefaultContentColumnWidth
	}
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
	if c.Logging.Format == "" {
		c.Logging.Format = DefaultLogFormat
	}
}

// Validate проверяет корректность конфигурации бота.
func (c *BotConfig) Validate() error {
	if c.Token == "" || c.Token == "YOUR_TELEGRAM_BOT_TOKEN" {
		return fmt.Errorf("bot.token is not configured")
	}
	if c.BackendURL == "" {
		return fmt.Errorf("bot.backend_url cannot be empty")
	}
	if c.PollingIntervalSeconds <= 0 {
		return fmt.Errorf("bot.polling_interval_seconds must be positive")
	}
	if c.ExcelThreshold <= 0 {
		return fmt.Errorf("bot.excel_threshold must be positive")
	}
	if c.PreviewMessages < 0 {
		return fmt.Errorf("bot.preview_messages must not be negative")
	}
	if c.MaxFileSizeMB <= 0 {
		return fmt.Errorf("bot.max_file_size_mb must be positive")
	}
	return nil
}

// ValidateFull проверяет конфигурацию бота и логирования.
func (c *Config) ValidateFull() error {
	if err := c.Bot.Validate(); err != nil {
		return err
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	switch c.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("logging.format must be json or text")
	}
	return nil
}
