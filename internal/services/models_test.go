package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/prompty-go/internal/domain"
)

func TestModelServiceLookups(t *testing.T) {
	svc := &ModelService{
		ConfigProvider: staticConfig{cfg: testConfig()},
		Credentials:    newMemCredentials(nil),
	}
	ctx := context.Background()

	models, err := svc.Models(ctx)
	require.NoError(t, err)
	assert.Len(t, models, 3)

	model, err := svc.ModelByID(ctx, "llama-3.1-8b")
	require.NoError(t, err)
	assert.Equal(t, domain.ProviderNovita, model.Provider)

	_, err = svc.ModelByID(ctx, "gpt-9")
	assert.ErrorIs(t, err, domain.ErrConfiguration)

	id, err := svc.ResolveModelID(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "gpt-3.5-turbo", id)

	id, err = svc.ResolveModelID(ctx, "llama-3.1-8b")
	require.NoError(t, err)
	assert.Equal(t, "llama-3.1-8b", id)

	assert.Equal(t, domain.Providers(), svc.Providers())
}

func TestModelServiceAvailableModels(t *testing.T) {
	svc := &ModelService{
		ConfigProvider: staticConfig{cfg: testConfig()},
		Credentials:    newMemCredentials(map[domain.ProviderID]string{domain.ProviderAnthropic: "sk-ant"}),
	}

	available, err := svc.AvailableModels(context.Background())
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, "claude-3-5-haiku-20241022", available[0].ID)
}
