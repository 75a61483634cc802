// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// This package establishes the contract between the application core and external
// adapters (infrastructure). The generation service depends only on these
// abstractions, so provider clients, storage backends and the CLI can be
// swapped or stubbed independently.
package ports

import (
	"context"
	"time"

	"github.com/doeshing/prompty-go/internal/domain"
)

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.prompty/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// CatalogProvider loads the static category catalog.
type CatalogProvider interface {
	Catalog(context.Context) (domain.Catalog, error)
}

// Adapter turns a PromptConfig into generated prompt text for one provider.
// The catalog maps configuration keys to display labels. Generate never
// returns an error: every failure is folded into the result.
type Adapter interface {
	Provider() domain.ProviderID
	Generate(context.Context, domain.PromptConfig, domain.Catalog) domain.GenerationResult
	APIKey(context.Context) string
	SaveAPIKey(context.Context, string) error
}

// AdapterFactory resolves the adapter serving a provider. Repeated calls
// for the same provider return the same instance so its cache survives.
type AdapterFactory interface {
	ForProvider(domain.ProviderID) (Adapter, error)
}

// ResponseCache stores generated prompts by configuration fingerprint.
type ResponseCache interface {
	Get(key string) (domain.CacheEntry, bool)
	Set(key, prompt string)
	Len() int
	Flush()
}

// HistoryStore is the append-only log of successful generations.
type HistoryStore interface {
	Append(context.Context, domain.HistoryEntry) error
	List(ctx context.Context, limit int) ([]domain.HistoryEntry, error)
	Delete(ctx context.Context, id string) error
	Clear(context.Context) error
}

// HistoryRepository extends HistoryStore with maintenance operations used
// by the CLI.
type HistoryRepository interface {
	HistoryStore
	ExportJSON(ctx context.Context, dest string) error
	PruneOlderThan(ctx context.Context, age time.Duration) (int, error)
	Path() string
}

// CredentialStore keeps per-provider API keys. Get returns "" with a nil
// error when no key is stored.
type CredentialStore interface {
	Get(context.Context, domain.ProviderID) (string, error)
	Set(context.Context, domain.ProviderID, string) error
	Delete(context.Context, domain.ProviderID) error
}
