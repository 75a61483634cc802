package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/prompty-go/internal/domain"
	"github.com/doeshing/prompty-go/internal/events"
	"github.com/doeshing/prompty-go/internal/infrastructure/credentials"
	"github.com/doeshing/prompty-go/internal/pkg/logger"
)

func TestKeyServiceSetAndDelete(t *testing.T) {
	store := newMemCredentials(nil)
	rec := &recorder{}
	bus := events.NewBus(logger.Discard())
	bus.Subscribe(domain.EventKeysUpdated, rec)
	svc := &KeyService{Credentials: store, Events: bus, Logger: logger.Discard()}
	ctx := context.Background()

	require.NoError(t, svc.Set(ctx, domain.ProviderOpenAI, "  sk-1234567890  "))
	got, _ := store.Get(ctx, domain.ProviderOpenAI)
	assert.Equal(t, "sk-1234567890", got)

	require.NoError(t, svc.Delete(ctx, domain.ProviderOpenAI))
	got, _ = store.Get(ctx, domain.ProviderOpenAI)
	assert.Empty(t, got)

	emitted := rec.Events()
	require.Len(t, emitted, 2)
	var removed events.KeysUpdated
	require.NoError(t, emitted[1].UnmarshalPayload(&removed))
	assert.Equal(t, events.KeysUpdated{Provider: "openai", Removed: true}, removed)
}

func TestKeyServiceRejectsBadInput(t *testing.T) {
	svc := &KeyService{Credentials: newMemCredentials(nil)}
	ctx := context.Background()

	assert.ErrorIs(t, svc.Set(ctx, domain.ProviderOpenAI, "   "), domain.ErrCredential)
	assert.ErrorIs(t, svc.Set(ctx, "cohere", "key"), domain.ErrConfiguration)
	assert.ErrorIs(t, svc.Delete(ctx, "cohere"), domain.ErrConfiguration)
}

func TestKeyServiceStatusReportsSource(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("NOVITA_API_KEY", "nv-env-key-9876")
	base := newMemCredentials(map[domain.ProviderID]string{domain.ProviderOpenAI: "sk-stored-1234"})
	svc := &KeyService{Credentials: credentials.NewEnvFallback(base, nil)}

	statuses, err := svc.Status(context.Background())
	require.NoError(t, err)
	require.Len(t, statuses, len(domain.Providers()))

	byProvider := make(map[domain.ProviderID]KeyStatus)
	for _, s := range statuses {
		byProvider[s.Provider] = s
	}

	openai := byProvider[domain.ProviderOpenAI]
	assert.True(t, openai.Configured)
	assert.Equal(t, KeySourceStored, openai.Source)
	assert.Equal(t, credentials.Mask("sk-stored-1234"), openai.Masked)

	novita := byProvider[domain.ProviderNovita]
	assert.True(t, novita.Configured)
	assert.Equal(t, KeySourceEnvironment, novita.Source)

	assert.False(t, byProvider[domain.ProviderAnthropic].Configured)
	assert.Empty(t, byProvider[domain.ProviderAnthropic].Masked)
}

// clearProviderEnv blanks every provider key variable the caller may have
// exported.
func clearProviderEnv(t *testing.T) {
	t.Helper()
	for _, provider := range domain.Providers() {
		upper := strings.ToUpper(string(provider))
		t.Setenv(upper+"_API_KEY", "")
		t.Setenv("VITE_"+upper+"_API_KEY", "")
	}
}
