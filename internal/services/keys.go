package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/doeshing/prompty-go/internal/domain"
	"github.com/doeshing/prompty-go/internal/events"
	"github.com/doeshing/prompty-go/internal/infrastructure/credentials"
	"github.com/doeshing/prompty-go/internal/ports"
)

// Key sources reported by KeyService.Status.
const (
	KeySourceStored      = "stored"
	KeySourceEnvironment = "env"
)

// KeyStatus describes the key state of one provider.
type KeyStatus struct {
	Provider   domain.ProviderID `json:"provider"`
	Configured bool              `json:"configured"`
	Masked     string            `json:"masked,omitempty"`
	Source     string            `json:"source,omitempty"`
}

// storedReader is implemented by stores that can tell a saved key apart
// from one supplied by the environment.
type storedReader interface {
	Stored(context.Context, domain.ProviderID) (string, error)
}

// KeyService manages provider API keys and announces changes.
type KeyService struct {
	Credentials ports.CredentialStore
	Events      events.Emitter
	Logger      *slog.Logger
}

// Set saves key for provider and emits keys.updated.
func (s *KeyService) Set(ctx context.Context, provider domain.ProviderID, key string) error {
	if err := s.check(provider); err != nil {
		return err
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("%w: empty %s API key", domain.ErrCredential, provider.DisplayName())
	}
	if err := s.Credentials.Set(ctx, provider, key); err != nil {
		return err
	}
	s.notify(ctx, events.KeysUpdated{Provider: string(provider)})
	return nil
}

// Delete removes the stored key for provider and emits keys.updated.
func (s *KeyService) Delete(ctx context.Context, provider domain.ProviderID) error {
	if err := s.check(provider); err != nil {
		return err
	}
	if err := s.Credentials.Delete(ctx, provider); err != nil {
		return err
	}
	s.notify(ctx, events.KeysUpdated{Provider: string(provider), Removed: true})
	return nil
}

// Status reports every provider's key, masked.
func (s *KeyService) Status(ctx context.Context) ([]KeyStatus, error) {
	if s.Credentials == nil {
		return nil, errors.New("services.KeyService credentials not configured")
	}
	reader, canSplit := s.Credentials.(storedReader)

	statuses := make([]KeyStatus, 0, len(domain.Providers()))
	for _, provider := range domain.Providers() {
		key, err := s.Credentials.Get(ctx, provider)
		if err != nil {
			return nil, err
		}
		status := KeyStatus{Provider: provider, Configured: key != ""}
		if status.Configured {
			status.Masked = credentials.Mask(key)
			status.Source = KeySourceStored
			if canSplit {
				stored, err := reader.Stored(ctx, provider)
				if err != nil {
					return nil, err
				}
				if stored == "" {
					status.Source = KeySourceEnvironment
				}
			}
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

func (s *KeyService) check(provider domain.ProviderID) error {
	if s.Credentials == nil {
		return errors.New("services.KeyService credentials not configured")
	}
	if _, ok := domain.ParseProviderID(string(provider)); !ok {
		return fmt.Errorf("%w: unknown provider %q", domain.ErrConfiguration, provider)
	}
	return nil
}

func (s *KeyService) notify(ctx context.Context, payload events.KeysUpdated) {
	if s.Events == nil {
		return
	}
	event, err := events.New(domain.EventKeysUpdated, payload)
	if err == nil {
		err = s.Events.Emit(ctx, event)
	}
	if err != nil && s.Logger != nil {
		s.Logger.Warn("keys.updated handler failed", "error", err)
	}
}
