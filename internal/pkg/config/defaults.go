package config

import "time"

// Default values for configuration.
const (
	// Server defaults
	DefaultServerHost      = "0.0.0.0"
	DefaultServerPort      = 8080
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultShutdownTimeout = 15 * time.Second
	DefaultMaxUploadSizeMB = 50

	// Processing defaults
	DefaultTaskTimeout     = 120 * time.Second
	DefaultCacheTTL        = 60 * time.Minute
	DefaultCacheMaxEntries = 256
	DefaultCleanupInterval = 10 * time.Minute
	DefaultDataDir         = "data/raw"
	DefaultTimezone        = "Local"

	// Logging defaults
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	// Daemon defaults
	DefaultPIDFile = "chatter-server.pid"
	DefaultLogFile = "chatter-server.log"

	// DefaultConfigFile - файл конфигурации, если CONFIG_FILE не задан.
	DefaultConfigFile = "config.yml"
)

func defaultConfig() *Config {
	return &Config{
		Server: Server{
			Host:            DefaultServerHost,
			Port:            DefaultServerPort,
			ShutdownTimeout: DefaultShutdownTimeout,
			ReadTimeout:     DefaultReadTimeout,
			WriteTimeout:    DefaultWriteTimeout,
			MaxUploadSizeMB: DefaultMaxUploadSizeMB,
		},
		Processing: Processing{
			TaskTimeout:     DefaultTaskTimeout,
			CacheTTL:        DefaultCacheTTL,
			CacheMaxEntries: DefaultCacheMaxEntries,
			CleanupInterval: DefaultCleanupInterval,
			DataDir:         DefaultDataDir,
			Timezone:        DefaultTimezone,
		},
		Logging: Logging{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Daemon: Daemon{
			PIDFile: DefaultPIDFile,
			LogFile: DefaultLogFile,
		},
	}
}
