package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/doeshing/prompty-go/internal/domain"
	"github.com/doeshing/prompty-go/internal/ports"
)

// ModelService answers model catalog questions against the current config.
type ModelService struct {
	ConfigProvider ports.ConfigProvider
	Credentials    ports.CredentialStore
}

// Models returns every configured model in declaration order.
func (s *ModelService) Models(ctx context.Context) ([]domain.ModelDefinition, error) {
	cfg, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return cfg.Models, nil
}

// ModelByID resolves a configured model.
func (s *ModelService) ModelByID(ctx context.Context, id string) (domain.ModelDefinition, error) {
	cfg, err := s.load(ctx)
	if err != nil {
		return domain.ModelDefinition{}, err
	}
	model, ok := cfg.FindModelByID(id)
	if !ok {
		return domain.ModelDefinition{}, fmt.Errorf("%w: unknown model %s", domain.ErrConfiguration, id)
	}
	return model, nil
}

// ResolveModelID returns requested, or the configured default when
// requested is empty.
func (s *ModelService) ResolveModelID(ctx context.Context, requested string) (string, error) {
	if requested != "" {
		return requested, nil
	}
	cfg, err := s.load(ctx)
	if err != nil {
		return "", err
	}
	model, err := cfg.GetDefaultModel()
	if err != nil {
		return "", err
	}
	return model.ID, nil
}

// AvailableModels returns the models whose provider has an API key.
func (s *ModelService) AvailableModels(ctx context.Context) ([]domain.ModelDefinition, error) {
	if s.Credentials == nil {
		return nil, errors.New("services.ModelService credentials not configured")
	}
	cfg, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	hasKey := make(map[domain.ProviderID]bool)
	var available []domain.ModelDefinition
	for _, model := range cfg.Models {
		ok, seen := hasKey[model.Provider]
		if !seen {
			key, err := s.Credentials.Get(ctx, model.Provider)
			if err != nil {
				return nil, err
			}
			ok = key != ""
			hasKey[model.Provider] = ok
		}
		if ok {
			available = append(available, model)
		}
	}
	return available, nil
}

// Providers lists the supported providers.
func (s *ModelService) Providers() []domain.ProviderID {
	return domain.Providers()
}

func (s *ModelService) load(ctx context.Context) (domain.Config, error) {
	if s.ConfigProvider == nil {
		return domain.Config{}, errors.New("services.ModelService config provider not configured")
	}
	return s.ConfigProvider.Load(ctx)
}
