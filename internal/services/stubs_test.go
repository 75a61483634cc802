package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/doeshing/prompty-go/internal/domain"
	"github.com/doeshing/prompty-go/internal/events"
	"github.com/doeshing/prompty-go/internal/ports"
)

type staticConfig struct {
	cfg domain.Config
	err error
}

func (s staticConfig) Load(context.Context) (domain.Config, error) {
	return s.cfg, s.err
}

func testConfig() domain.Config {
	return domain.Config{
		Preferences: domain.Preferences{DefaultModel: "gpt-3.5-turbo"},
		Models: []domain.ModelDefinition{
			{ID: "gpt-3.5-turbo", Name: "GPT 3.5 Turbo", Provider: domain.ProviderOpenAI},
			{ID: "claude-3-5-haiku-20241022", Name: "Claude 3.5 Haiku", Provider: domain.ProviderAnthropic},
			{ID: "llama-3.1-8b", Name: "Llama 3.1 8B", Provider: domain.ProviderNovita, ModelID: "meta-llama/llama-3.1-8b-instruct"},
		},
		Cache: domain.CacheSettings{TTL: "1h"},
	}
}

func testCatalog() domain.Catalog {
	return domain.Catalog{Categories: []domain.Category{
		{ID: "subject", Name: "Subject"},
		{ID: "style", Name: "Art Style"},
	}}
}

// stubAdapter records every Generate call and answers from replies in
// order, repeating the last one.
type stubAdapter struct {
	mu       sync.Mutex
	provider domain.ProviderID
	key      string
	replies  []domain.GenerationResult
	calls    []domain.PromptConfig
}

func (a *stubAdapter) Provider() domain.ProviderID { return a.provider }

func (a *stubAdapter) Generate(_ context.Context, cfg domain.PromptConfig, _ domain.Catalog) domain.GenerationResult {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls = append(a.calls, cfg)
	if len(a.replies) == 0 {
		return domain.NewResult(fmt.Sprintf("prompt %d", len(a.calls)))
	}
	idx := len(a.calls) - 1
	if idx >= len(a.replies) {
		idx = len(a.replies) - 1
	}
	reply := a.replies[idx]
	if reply.ID == "" {
		reply.ID = fmt.Sprintf("id-%d", len(a.calls))
	}
	return reply
}

func (a *stubAdapter) APIKey(context.Context) string { return a.key }

func (a *stubAdapter) SaveAPIKey(_ context.Context, key string) error {
	a.key = key
	return nil
}

func (a *stubAdapter) Calls() []domain.PromptConfig {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]domain.PromptConfig(nil), a.calls...)
}

type stubFactory struct {
	adapters map[domain.ProviderID]*stubAdapter
}

func (f stubFactory) ForProvider(provider domain.ProviderID) (ports.Adapter, error) {
	adapter, ok := f.adapters[provider]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported provider %s", domain.ErrConfiguration, provider)
	}
	return adapter, nil
}

type memHistory struct {
	mu        sync.Mutex
	entries   []domain.HistoryEntry
	appendErr error
}

func (h *memHistory) Append(_ context.Context, entry domain.HistoryEntry) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.appendErr != nil {
		return h.appendErr
	}
	h.entries = append(h.entries, entry)
	return nil
}

func (h *memHistory) List(_ context.Context, limit int) ([]domain.HistoryEntry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]domain.HistoryEntry, 0, len(h.entries))
	for i := len(h.entries) - 1; i >= 0; i-- {
		out = append(out, h.entries[i])
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (h *memHistory) Delete(context.Context, string) error { return nil }

func (h *memHistory) Clear(context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = nil
	return nil
}

type memCredentials struct {
	mu   sync.Mutex
	keys map[domain.ProviderID]string
}

func newMemCredentials(keys map[domain.ProviderID]string) *memCredentials {
	if keys == nil {
		keys = map[domain.ProviderID]string{}
	}
	return &memCredentials{keys: keys}
}

func (m *memCredentials) Get(_ context.Context, id domain.ProviderID) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.keys[id], nil
}

func (m *memCredentials) Set(_ context.Context, id domain.ProviderID, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys[id] = key
	return nil
}

func (m *memCredentials) Delete(_ context.Context, id domain.ProviderID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.keys, id)
	return nil
}

// recorder collects the events delivered by a Bus.
type recorder struct {
	mu     sync.Mutex
	events []*events.Event
}

func (r *recorder) HandleEvent(_ context.Context, event *events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *recorder) Events() []*events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*events.Event(nil), r.events...)
}
