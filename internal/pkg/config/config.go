// Package config предоставляет управление конфигурацией приложения
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// Server содержит конфигурацию HTTP-сервера
type Server struct {
	Host            string        `json:"host" yaml:"host"`
	Port            int           `json:"port" yaml:"port"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
	ReadTimeout     time.Duration `json:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    time.Duration `json:"write_timeout" yaml:"write_timeout"`
	MaxUploadSizeMB int           `json:"max_upload_size_mb" yaml:"max_upload_size_mb"`
}

// Processing содержит конфигурацию обработки экспортов
type Processing struct {
	TaskTimeout     time.Duration `json:"task_timeout" yaml:"task_timeout"` // 0 - без ограничений
	CacheTTL        time.Duration `json:"cache_ttl" yaml:"cache_ttl"`
	CacheMaxEntries int           `json:"cache_max_entries" yaml:"cache_max_entries"` // 0 - без ограничений
	CleanupInterval time.Duration `json:"cleanup_interval" yaml:"cleanup_interval"`
	// DataDir - каталог с экспортами, загружаемыми при старте (пусто - не загружать)
	DataDir string `json:"data_dir" yaml:"data_dir"`
	// Timezone - часовой пояс времени в экспортах (IANA, "Local" или "UTC")
	Timezone string `json:"timezone" yaml:"timezone"`
}

// Logging содержит конфигурацию логирования
type Logging struct {
	Level  string `json:"level" yaml:"level"`   // debug, info, warn, error
	Format string `json:"format" yaml:"format"` // json, text
}

// Daemon содержит конфигурацию запуска в фоне
type Daemon struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	PIDFile string `json:"pid_file" yaml:"pid_file"`
	LogFile string `json:"log_file" yaml:"log_file"`
}

// Config содержит конфигурацию приложения
type Config struct {
	Server     Server     `json:"server" yaml:"server"`
	Processing Processing `json:"processing" yaml:"processing"`
	Logging    Logging    `json:"logging" yaml:"logging"`
	Daemon     Daemon     `json:"daemon" yaml:"daemon"`
}

// LoadConfig загружает конфигурацию: значения по умолчанию, затем config.yml
// (или файл из CONFIG_FILE), затем переменные окружения и .env файл.
func LoadConfig() (*Config, error) {
	// Отсутствие .env файла не является ошибкой
	_ = godotenv.Load()

	cfg := defaultConfig()
	if err := loadFromYAML(getEnv("CONFIG_FILE", DefaultConfigFile), cfg); err != nil {
		return nil, err
	}
	if err := loadFromEnv(cfg); err != nil {
		return nil, fmt.Errorf("не удалось загрузить конфигурацию из env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("некорректная конфигурация: %w", err)
	}
	return cfg, nil
}

// loadFromYAML накладывает значения из YAML-файла на cfg. Отсутствие файла не ошибка.
func loadFromYAML(filename string, cfg *Config) error {
	data, err := os.ReadFile(filename)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("не удалось прочитать файл конфигурации %s: %w", filename, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("не удалось разобрать YAML конфигурацию: %w", err)
	}
	return nil
}

// loadFromEnv накладывает переменные окружения на cfg
func loadFromEnv(cfg *Config) error {
	if v := os.Getenv("SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("недопустимый SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.Processing.DataDir = v
	}
	if v := os.Getenv("TIMEZONE"); v != "" {
		cfg.Processing.Timezone = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("недопустимый CACHE_TTL: %w", err)
		}
		cfg.Processing.CacheTTL = d
	}
	if v := os.Getenv("TASK_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("недопустимый TASK_TIMEOUT: %w", err)
		}
		cfg.Processing.TaskTimeout = d
	}
	return nil
}

// Address возвращает адрес сервера в формате "host:port"
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// MaxUploadBytes возвращает ограничение размера загрузки в байтах
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.Server.MaxUploadSizeMB) << 20
}

// Location возвращает часовой пояс, в котором трактуется время экспортов
func (c *Config) Location() (*time.Location, error) {
	switch c.Processing.Timezone {
	case "", "Local":
		return time.Local, nil
	default:
		loc, err := time.LoadLocation(c.Processing.Timezone)
		if err != nil {
			return nil, fmt.Errorf("processing.timezone: %w", err)
		}
		return loc, nil
	}
}

// Validate проверяет, являются ли значения конфигурации допустимыми
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port должен быть действительным номером порта (1-65535)")
	}

	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout должно быть положительным")
	}

	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 {
		return fmt.Errorf("server.read_timeout и server.write_timeout должны быть неотрицательными")
	}

	if c.Server.MaxUploadSizeMB <= 0 {
		return fmt.Errorf("server.max_upload_size_mb должно быть положительным")
	}

	if c.Processing.TaskTimeout < 0 {
		return fmt.Errorf("processing.task_timeout должно быть неотрицательным (0 для отсутствия ограничений)")
	}

	if c.Processing.CacheTTL <= 0 {
		return fmt.Errorf("processing.cache_ttl должно быть положительным")
	}

	if c.Processing.CacheMaxEntries < 0 {
		return fmt.Errorf("processing.cache_max_entries должно быть неотрицательным (0 для отсутствия ограничений)")
	}

	if c.Processing.CleanupInterval <= 0 {
		return fmt.Errorf("processing.cleanup_interval должно быть положительным")
	}

	if _, err := c.Location(); err != nil {
		return err
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		// all good
	default:
		return fmt.Errorf("logging.level должен быть одним из: debug, info, warn, error")
	}

	switch c.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("logging.format должен быть json или text")
	}

	if c.Daemon.Enabled && (c.Daemon.PIDFile == "" || c.Daemon.LogFile == "") {
		return fmt.Errorf("daemon.pid_file и daemon.log_file обязательны при daemon.enabled")
	}

	return nil
}

// getEnv извлекает значение переменной окружения или возвращает значение по умолчанию, если она не установлена
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
