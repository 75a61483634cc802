package ai

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/doeshing/prompty-go/internal/domain"
	"github.com/doeshing/prompty-go/internal/infrastructure/cache"
	"github.com/doeshing/prompty-go/internal/ports"
)

// Factory builds one adapter per provider and keeps it for the life of the
// process, so the adapter's cache is shared across calls.
type Factory struct {
	cfg         domain.Config
	credentials ports.CredentialStore
	httpClient  *http.Client
	logger      *slog.Logger

	mu       sync.Mutex
	adapters map[domain.ProviderID]*httpAdapter
}

// FactoryOption customizes a Factory.
type FactoryOption func(*Factory)

// WithHTTPClient overrides the client shared by every adapter.
func WithHTTPClient(client *http.Client) FactoryOption {
	return func(f *Factory) {
		if client != nil {
			f.httpClient = client
		}
	}
}

// WithLogger sets the parent logger for adapters.
func WithLogger(logger *slog.Logger) FactoryOption {
	return func(f *Factory) {
		if logger != nil {
			f.logger = logger
		}
	}
}

func NewFactory(cfg domain.Config, credentials ports.CredentialStore, opts ...FactoryOption) *Factory {
	f := &Factory{
		cfg:         cfg,
		credentials: credentials,
		httpClient:  &http.Client{Timeout: cfg.GetTimeout()},
		logger:      slog.Default(),
		adapters:    make(map[domain.ProviderID]*httpAdapter),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Factory) ForProvider(provider domain.ProviderID) (ports.Adapter, error) {
	adapter, err := f.adapter(provider)
	if err != nil {
		return nil, err
	}
	return adapter, nil
}

// CacheStats reports cache counters for every adapter built so far.
func (f *Factory) CacheStats() map[domain.ProviderID]cache.Stats {
	f.mu.Lock()
	defer f.mu.Unlock()

	stats := make(map[domain.ProviderID]cache.Stats, len(f.adapters))
	for id, adapter := range f.adapters {
		stats[id] = adapter.CacheStats()
	}
	return stats
}

func (f *Factory) adapter(provider domain.ProviderID) (*httpAdapter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if adapter, ok := f.adapters[provider]; ok {
		return adapter, nil
	}

	strategy, ok := strategyFor(provider)
	if !ok {
		return nil, fmt.Errorf("%w: unsupported provider %q", domain.ErrConfiguration, provider)
	}

	adapter := newHTTPAdapter(strategy, adapterOptions{
		Settings:    f.cfg.ProviderSettingsFor(provider),
		Models:      f.cfg.ModelsForProvider(provider),
		HTTPClient:  f.httpClient,
		Credentials: f.credentials,
		Cache:       cache.New(f.cfg.GetCacheTTL()),
		Logger:      f.logger,
	})
	f.adapters[provider] = adapter
	return adapter, nil
}

func strategyFor(provider domain.ProviderID) (providerStrategy, bool) {
	switch provider {
	case domain.ProviderOpenAI:
		return openaiStrategy(), true
	case domain.ProviderAnthropic:
		return anthropicStrategy(), true
	case domain.ProviderHuggingFace:
		return huggingfaceStrategy(), true
	case domain.ProviderNovita:
		return novitaStrategy(), true
	case domain.ProviderOpenRouter:
		return openrouterStrategy(), true
	default:
		return providerStrategy{}, false
	}
}

var _ ports.AdapterFactory = (*Factory)(nil)
