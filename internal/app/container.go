package app

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/doeshing/prompty-go/internal/domain"
	"github.com/doeshing/prompty-go/internal/events"
	"github.com/doeshing/prompty-go/internal/infrastructure/ai"
	"github.com/doeshing/prompty-go/internal/infrastructure/catalog"
	"github.com/doeshing/prompty-go/internal/infrastructure/config"
	"github.com/doeshing/prompty-go/internal/infrastructure/credentials"
	"github.com/doeshing/prompty-go/internal/infrastructure/history"
	"github.com/doeshing/prompty-go/internal/pkg/filesystem"
	"github.com/doeshing/prompty-go/internal/pkg/logger"
	"github.com/doeshing/prompty-go/internal/ports"
	"github.com/doeshing/prompty-go/internal/services"
)

// Options tune how the container is built.
type Options struct {
	Verbose    bool
	ConfigPath string
	// EnvFiles are loaded before the config; missing files are ignored.
	// Nil means ".env" in the working directory.
	EnvFiles   []string
	LogWriter  io.Writer
}

// Container wires up application services with infrastructure adapters.
type Container struct {
	Config         domain.Config
	ConfigLoader   *config.FileLoader
	Validator      *services.ConfigValidator
	Catalog        ports.CatalogProvider
	Credentials    *credentials.EnvFallback
	CredentialFile *credentials.FileStore
	Adapters       *ai.Factory
	HistoryStore   ports.HistoryRepository
	Events         *events.Bus
	Logger         *slog.Logger
	Generation     *services.GenerationService
	Models         *services.ModelService
	Keys           *services.KeyService
	Doctor         *services.DoctorService
}

// BuildContainer constructs the dependency graph.
func BuildContainer(ctx context.Context, opts Options) (*Container, error) {
	if err := loadEnvFiles(opts.EnvFiles); err != nil {
		return nil, err
	}

	cfgLoader := config.NewFileLoader(opts.ConfigPath)
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, err
	}

	validator := services.NewConfigValidator()
	if err := validator.Validate(cfg); err != nil {
		return nil, err
	}

	log := logger.New(logger.Options{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Writer:  opts.LogWriter,
		Verbose: opts.Verbose,
	})
	bus := events.NewBus(log)

	appDir := filesystem.AppDir()
	credentialFile := credentials.NewFileStore(appDir)
	keys := credentials.NewEnvFallback(credentialFile, credentials.EnvOverrides(cfg))

	factory := ai.NewFactory(cfg, keys, ai.WithLogger(log))
	historyStore := history.Open(cfg.History, filepath.Join(appDir, "history"), log)

	c := &Container{
		Config:         cfg,
		ConfigLoader:   cfgLoader,
		Validator:      validator,
		Catalog:        catalog.NewLoader(cfg.Preferences.CatalogFile),
		Credentials:    keys,
		CredentialFile: credentialFile,
		Adapters:       factory,
		HistoryStore:   historyStore,
		Events:         bus,
		Logger:         log,
		Generation: &services.GenerationService{
			ConfigProvider: cfgLoader,
			AdapterFactory: factory,
			History:        historyStore,
			Events:         bus,
			Logger:         log.With("component", "generation"),
		},
		Models: &services.ModelService{
			ConfigProvider: cfgLoader,
			Credentials:    keys,
		},
		Keys: &services.KeyService{
			Credentials: keys,
			Events:      bus,
			Logger:      log.With("component", "keys"),
		},
	}

	c.Doctor = &services.DoctorService{
		ConfigProvider: cfgLoader,
		Validator:      validator,
		Catalog:        c.Catalog,
		Credentials:    keys,
		History:        historyStore,
	}

	if err := bus.Publish(ctx, domain.EventConfigLoaded, events.ConfigLoaded{
		Path:   cfgLoader.Path(),
		Models: len(cfg.Models),
	}); err != nil {
		log.Warn("config.loaded handler failed", "error", err)
	}
	return c, nil
}

func loadEnvFiles(files []string) error {
	if files == nil {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

// Close releases resources held by the container.
func (c *Container) Close() error {
	if closer, ok := c.HistoryStore.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
