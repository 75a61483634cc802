package domain

import (
	"fmt"
	"time"
)

// FindModelByID searches for a model by its identifier.
func (c *Config) FindModelByID(id string) (ModelDefinition, bool) {
	for _, model := range c.Models {
		if model.ID == id {
			return model, true
		}
	}
	return ModelDefinition{}, false
}

// HasModel checks if a model with the given id exists in the configuration.
func (c *Config) HasModel(id string) bool {
	_, exists := c.FindModelByID(id)
	return exists
}

// GetDefaultModel retrieves the default model definition.
func (c *Config) GetDefaultModel() (ModelDefinition, error) {
	if c.Preferences.DefaultModel == "" {
		return ModelDefinition{}, fmt.Errorf("%w: no default model configured", ErrConfiguration)
	}
	model, ok := c.FindModelByID(c.Preferences.DefaultModel)
	if !ok {
		return ModelDefinition{}, fmt.Errorf("%w: default model %s not found in configuration", ErrConfiguration, c.Preferences.DefaultModel)
	}
	return model, nil
}

// SetDefaultModel changes the default model to the specified id.
func (c *Config) SetDefaultModel(id string) error {
	if !c.HasModel(id) {
		return fmt.Errorf("cannot set default model: model %s does not exist", id)
	}
	c.Preferences.DefaultModel = id
	return nil
}

// AddModel adds a new model. Ids must be unique.
func (c *Config) AddModel(model ModelDefinition) error {
	if c.HasModel(model.ID) {
		return fmt.Errorf("model with id %s already exists", model.ID)
	}
	c.Models = append(c.Models, model)
	return nil
}

// RemoveModel removes a model by id and reassigns the default if needed.
func (c *Config) RemoveModel(id string) error {
	index := -1
	for i, model := range c.Models {
		if model.ID == id {
			index = i
			break
		}
	}
	if index == -1 {
		return fmt.Errorf("model %s not found", id)
	}

	c.Models = append(c.Models[:index], c.Models[index+1:]...)
	if c.Preferences.DefaultModel == id {
		c.Preferences.DefaultModel = ""
		if len(c.Models) > 0 {
			c.Preferences.DefaultModel = c.Models[0].ID
		}
	}
	return nil
}

// ModelsForProvider returns the configured models served by a provider.
func (c *Config) ModelsForProvider(provider ProviderID) []ModelDefinition {
	var models []ModelDefinition
	for _, model := range c.Models {
		if model.Provider == provider {
			models = append(models, model)
		}
	}
	return models
}

// ProviderSettingsFor returns the settings block for a provider. A missing
// block yields zero settings with the id filled in.
func (c *Config) ProviderSettingsFor(provider ProviderID) ProviderSettings {
	for _, settings := range c.Providers {
		if settings.ID == provider {
			return settings
		}
	}
	return ProviderSettings{ID: provider}
}

// GetCacheTTL parses the cache TTL, defaulting to one hour.
func (c *Config) GetCacheTTL() time.Duration {
	const defaultTTL = time.Hour

	if c.Cache.TTL == "" {
		return defaultTTL
	}
	d, err := time.ParseDuration(c.Cache.TTL)
	if err != nil || d <= 0 {
		return defaultTTL
	}
	return d
}

// GetTimeout returns the HTTP timeout for provider calls.
func (c *Config) GetTimeout() time.Duration {
	const defaultTimeout = 60 * time.Second

	if c.Preferences.TimeoutSeconds <= 0 {
		return defaultTimeout
	}
	return time.Duration(c.Preferences.TimeoutSeconds) * time.Second
}

// GetDefaultCount returns the batch size used when none is requested.
func (c *Config) GetDefaultCount() int {
	if c.Preferences.DefaultCount <= 0 {
		return 1
	}
	return c.Preferences.DefaultCount
}

// GetHistoryBackend returns the configured history backend.
func (c *Config) GetHistoryBackend() string {
	if c.History.Backend == "" {
		return HistoryBackendSQLite
	}
	return c.History.Backend
}
