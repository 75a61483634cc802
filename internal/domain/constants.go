package domain

import "time"

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// SecureFilePermissions is the permission for sensitive files (rw-------)
	SecureFilePermissions = 0o600
)

// Timeout and duration constants
const (
	// DefaultCacheTTL is how long a generated prompt is reused for an identical configuration
	DefaultCacheTTL = time.Hour
	// DefaultHTTPClientTimeout is the timeout for HTTP client requests
	DefaultHTTPClientTimeout = 60 * time.Second
)

// History constants
const (
	// DefaultHistoryLimit is the default number of history entries to display
	DefaultHistoryLimit = 20

	HistoryBackendSQLite = "sqlite"
	HistoryBackendJSONL  = "jsonl"
)

// Environment variables
const (
	EnvHome   = "PROMPTY_HOME"
	EnvConfig = "PROMPTY_CONFIG"
	EnvDebug  = "PROMPTY_DEBUG"
)

// Event types emitted by the application core.
const (
	EventGenerationCompleted = "generation.completed"
	EventKeysUpdated         = "keys.updated"
	EventConfigLoaded        = "config.loaded"
)
