package services

import (
	"strings"
	"testing"

	"github.com/doeshing/prompty-go/internal/domain"
)

func TestConfigValidator(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.Config)
		want   string
	}{
		{name: "valid", mutate: func(*domain.Config) {}},
		{name: "no models", mutate: func(c *domain.Config) { c.Models = nil; c.Preferences.DefaultModel = "" }, want: "Models"},
		{name: "missing name", mutate: func(c *domain.Config) { c.Models[0].Name = "" }, want: "Name is required"},
		{name: "duplicate id", mutate: func(c *domain.Config) { c.Models[1].ID = c.Models[0].ID }, want: "duplicate id gpt-3.5-turbo"},
		{name: "unknown provider", mutate: func(c *domain.Config) { c.Models[1].Provider = "cohere" }, want: "unknown provider cohere"},
		{name: "unknown default", mutate: func(c *domain.Config) { c.Preferences.DefaultModel = "gpt-9" }, want: "preferences.default_model"},
		{name: "bad ttl", mutate: func(c *domain.Config) { c.Cache.TTL = "soon" }, want: "cache.ttl"},
		{name: "bad backend", mutate: func(c *domain.Config) { c.History.Backend = "redis" }, want: "must be one of"},
		{name: "bad endpoint", mutate: func(c *domain.Config) {
			c.Providers = []domain.ProviderSettings{{ID: domain.ProviderOpenAI, Endpoint: "not a url"}}
		}, want: "URL"},
		{name: "unknown provider settings", mutate: func(c *domain.Config) {
			c.Providers = []domain.ProviderSettings{{ID: "cohere"}}
		}, want: "providers: unknown provider cohere"},
	}

	v := NewConfigValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)

			err := v.Validate(cfg)
			if tt.want == "" {
				if err != nil {
					t.Fatalf("expected valid config, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q", tt.want)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
			if !strings.Contains(err.Error(), domain.ErrConfiguration.Error()) {
				t.Fatalf("expected configuration error, got %v", err)
			}
		})
	}
}
