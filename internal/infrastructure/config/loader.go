package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/doeshing/prompty-go/assets"
	"github.com/doeshing/prompty-go/internal/domain"
	"github.com/doeshing/prompty-go/internal/pkg/filesystem"
	"github.com/doeshing/prompty-go/internal/ports"
)

const envPrefix = "PROMPTY"

// FileLoader loads YAML configuration from ~/.prompty/config.yaml
// (overridable via PROMPTY_CONFIG). Environment variables such as
// PROMPTY_PREFERENCES_DEFAULT_MODEL override file values.
type FileLoader struct {
	overridePath string
}

// NewFileLoader builds a new loader. An empty path resolves the default
// location on every call.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{overridePath: path}
}

// Path returns the file the loader reads and writes.
func (l *FileLoader) Path() string {
	if l.overridePath != "" {
		return filesystem.ExpandPath(l.overridePath)
	}
	if custom := os.Getenv(domain.EnvConfig); custom != "" {
		return filesystem.ExpandPath(custom)
	}
	return filepath.Join(filesystem.AppDir(), "config.yaml")
}

// Load implements ports.ConfigProvider. A missing file is created from the
// embedded default first.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	path := l.Path()
	if err := os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions); err != nil {
		return domain.Config{}, fmt.Errorf("create config directory: %w", err)
	}

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := os.WriteFile(path, assets.DefaultConfigYAML, domain.SecureFilePermissions); err != nil {
			return domain.Config{}, fmt.Errorf("write default config: %w", err)
		}
	} else if err != nil {
		return domain.Config{}, fmt.Errorf("stat config: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return domain.Config{}, fmt.Errorf("%w: read %s: %v", domain.ErrConfiguration, path, err)
	}

	var cfg domain.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return domain.Config{}, fmt.Errorf("%w: decode %s: %v", domain.ErrConfiguration, path, err)
	}

	defaults, err := Default()
	if err != nil {
		return domain.Config{}, err
	}
	return hydrateDefaults(cfg, defaults), nil
}

// Save writes cfg to the loader's path with owner-only permissions.
func (l *FileLoader) Save(_ context.Context, cfg domain.Config) error {
	path := l.Path()
	if err := os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, domain.SecureFilePermissions); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return os.Rename(tmp, path)
}

// Backup copies the current file to <path>.bak and returns the backup path.
// A missing file is not an error and yields an empty path.
func (l *FileLoader) Backup() (string, error) {
	path := l.Path()
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read config: %w", err)
	}
	backup := path + ".bak"
	if err := os.WriteFile(backup, raw, domain.SecureFilePermissions); err != nil {
		return "", fmt.Errorf("write config backup: %w", err)
	}
	return backup, nil
}

// Default returns the embedded default configuration.
func Default() (domain.Config, error) {
	var cfg domain.Config
	if err := yaml.Unmarshal(assets.DefaultConfigYAML, &cfg); err != nil {
		return domain.Config{}, fmt.Errorf("decode embedded config: %w", err)
	}
	return cfg, nil
}

func hydrateDefaults(cfg, defaults domain.Config) domain.Config {
	if cfg.ConfigFormatVersion == "" {
		cfg.ConfigFormatVersion = defaults.ConfigFormatVersion
	}
	if len(cfg.Models) == 0 {
		cfg.Models = append([]domain.ModelDefinition(nil), defaults.Models...)
	}
	if cfg.Preferences.DefaultModel == "" && len(cfg.Models) > 0 {
		cfg.Preferences.DefaultModel = cfg.Models[0].ID
	}
	if cfg.Preferences.TimeoutSeconds == 0 {
		cfg.Preferences.TimeoutSeconds = defaults.Preferences.TimeoutSeconds
	}

	configured := make(map[domain.ProviderID]bool, len(cfg.Providers))
	for _, settings := range cfg.Providers {
		configured[settings.ID] = true
	}
	for _, settings := range defaults.Providers {
		if !configured[settings.ID] {
			cfg.Providers = append(cfg.Providers, settings)
		}
	}

	if cfg.Cache.TTL == "" {
		cfg.Cache.TTL = defaults.Cache.TTL
	}
	if cfg.History.Backend == "" {
		cfg.History.Backend = domain.HistoryBackendSQLite
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "warn"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	return cfg
}

var _ ports.ConfigProvider = (*FileLoader)(nil)
