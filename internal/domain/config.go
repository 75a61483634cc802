package domain

// Config mirrors ~/.prompty/config.yaml.
type Config struct {
	ConfigFormatVersion string             `yaml:"config_format_version" mapstructure:"config_format_version"`
	Preferences         Preferences        `yaml:"preferences" mapstructure:"preferences"`
	Providers           []ProviderSettings `yaml:"providers" mapstructure:"providers" validate:"dive"`
	Models              []ModelDefinition  `yaml:"models" mapstructure:"models" validate:"required,min=1,dive"`
	Cache               CacheSettings      `yaml:"cache" mapstructure:"cache"`
	History             HistorySettings    `yaml:"history" mapstructure:"history"`
	Logging             LoggingSettings    `yaml:"logging" mapstructure:"logging"`
}

// Preferences holds user-level defaults applied when a flag is omitted.
type Preferences struct {
	DefaultModel   string `yaml:"default_model" mapstructure:"default_model"`
	DefaultCount   int    `yaml:"default_count" mapstructure:"default_count" validate:"gte=0,lte=10"`
	TimeoutSeconds int    `yaml:"timeout_seconds" mapstructure:"timeout_seconds" validate:"gte=0"`
	CatalogFile    string `yaml:"catalog_file,omitempty" mapstructure:"catalog_file"`
}

// ProviderSettings tunes a single provider adapter. Zero values fall back
// to the provider's built-in defaults.
type ProviderSettings struct {
	ID                ProviderID `yaml:"id" mapstructure:"id" validate:"required"`
	Endpoint          string     `yaml:"endpoint,omitempty" mapstructure:"endpoint" validate:"omitempty,url"`
	APIKeyEnv         string     `yaml:"api_key_env,omitempty" mapstructure:"api_key_env"`
	Temperature       float64    `yaml:"temperature,omitempty" mapstructure:"temperature" validate:"gte=0,lte=2"`
	MaxTokens         int        `yaml:"max_tokens,omitempty" mapstructure:"max_tokens" validate:"gte=0"`
	RequestsPerMinute int        `yaml:"requests_per_minute,omitempty" mapstructure:"requests_per_minute" validate:"gte=0"`
	Referer           string     `yaml:"referer,omitempty" mapstructure:"referer"`
}

// CacheSettings configures the per-adapter response cache.
type CacheSettings struct {
	TTL string `yaml:"ttl" mapstructure:"ttl"`
}

// HistorySettings selects the history backend.
type HistorySettings struct {
	Backend string `yaml:"backend" mapstructure:"backend" validate:"omitempty,oneof=sqlite jsonl"`
	Path    string `yaml:"path,omitempty" mapstructure:"path"`
}

// LoggingSettings configures the slog handler.
type LoggingSettings struct {
	Level  string `yaml:"level" mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `yaml:"format" mapstructure:"format" validate:"omitempty,oneof=text json"`
}
