package commands

// Default values for CLI flags
const (
	DefaultHistoryLimit     = 20
	DefaultHistoryPruneDays = 30
)

// Error messages
const (
	ErrConfigLoaderUnavailable = "config loader unavailable"
	ErrHistoryStoreUnavailable = "history store unavailable"
	ErrKeyRequired             = "an API key is required"
	ErrInvalidPruneDays        = "--days must be > 0"
	ErrUnknownProvider         = "unknown provider %q (expected one of: %s)"
	ErrUnknownCategory         = "unknown category %q"
)

// Success messages
const (
	MsgConfigurationValid       = "Configuration valid"
	MsgNoDifferencesFromDefault = "No differences from default configuration."
	MsgNoHistoryRecorded        = "No history recorded yet."
	MsgHistoryCleared           = "History cleared."
	MsgClearCancelled           = "Clear cancelled."
	MsgCopiedToClipboard        = "Copied to clipboard."
)
