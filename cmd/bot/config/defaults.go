package config

// Default column widths for text rendering.
const (
	DefaultSenderColumnWidth  = 16
	DefaultKindColumnWidth    = 8
	DefaultContentColumnWidth = 30
)

// Default bot behaviour.
const (
	DefaultPollingIntervalSeconds = 2
	DefaultExcelThreshold         = 500
	DefaultPreviewMessages        = 5
	DefaultMaxFileSizeMB          = 20
	DefaultDownloadTimeoutSeconds = 60
	DefaultHTTPTimeoutSeconds     = 30

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)
