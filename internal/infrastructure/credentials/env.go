package credentials

import (
	"context"
	"os"
	"slices"
	"strings"

	"github.com/doeshing/prompty-go/internal/domain"
	"github.com/doeshing/prompty-go/internal/ports"
)

// EnvFallback reads keys from the wrapped store first and, when none is
// stored, from the environment. Writes go to the wrapped store only.
type EnvFallback struct {
	store     ports.CredentialStore
	overrides map[domain.ProviderID]string
	lookup    func(string) (string, bool)
}

// NewEnvFallback wraps store. overrides maps a provider to the variable
// named by its api_key_env setting.
func NewEnvFallback(store ports.CredentialStore, overrides map[domain.ProviderID]string) *EnvFallback {
	return &EnvFallback{store: store, overrides: overrides, lookup: os.LookupEnv}
}

// EnvOverrides collects api_key_env settings from cfg.
func EnvOverrides(cfg domain.Config) map[domain.ProviderID]string {
	out := make(map[domain.ProviderID]string)
	for _, settings := range cfg.Providers {
		if settings.APIKeyEnv != "" {
			out[settings.ID] = settings.APIKeyEnv
		}
	}
	return out
}

// EnvNames lists the variables consulted for provider, in order.
func (e *EnvFallback) EnvNames(provider domain.ProviderID) []string {
	upper := strings.ToUpper(string(provider))
	names := make([]string, 0, 3)
	for _, name := range []string{e.overrides[provider], upper + "_API_KEY", "VITE_" + upper + "_API_KEY"} {
		if name != "" && !slices.Contains(names, name) {
			names = append(names, name)
		}
	}
	return names
}

func (e *EnvFallback) Get(ctx context.Context, provider domain.ProviderID) (string, error) {
	key, err := e.store.Get(ctx, provider)
	if err != nil {
		return "", err
	}
	if key != "" {
		return key, nil
	}
	value, _ := e.FromEnv(provider)
	return value, nil
}

// FromEnv returns the first non-blank environment value for provider and
// the variable it came from.
func (e *EnvFallback) FromEnv(provider domain.ProviderID) (string, string) {
	for _, name := range e.EnvNames(provider) {
		if value, ok := e.lookup(name); ok {
			if value = strings.TrimSpace(value); value != "" {
				return value, name
			}
		}
	}
	return "", ""
}

func (e *EnvFallback) Set(ctx context.Context, provider domain.ProviderID, key string) error {
	return e.store.Set(ctx, provider, key)
}

func (e *EnvFallback) Delete(ctx context.Context, provider domain.ProviderID) error {
	return e.store.Delete(ctx, provider)
}

// Stored reports the key held by the wrapped store, ignoring the environment.
func (e *EnvFallback) Stored(ctx context.Context, provider domain.ProviderID) (string, error) {
	return e.store.Get(ctx, provider)
}

var _ ports.CredentialStore = (*EnvFallback)(nil)
