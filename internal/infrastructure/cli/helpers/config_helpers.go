package helpers

import (
	"context"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/prompty-go/internal/app"
	"github.com/doeshing/prompty-go/internal/domain"
)

// SaveConfigWithValidation validates cfg and saves it after backing up the
// current file.
func SaveConfigWithValidation(ctx context.Context, container *app.Container, cfg domain.Config) error {
	if container.ConfigLoader == nil {
		return fmt.Errorf("config loader unavailable")
	}
	if err := container.Validator.Validate(cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	if _, err := container.ConfigLoader.Backup(); err != nil {
		return fmt.Errorf("failed to create configuration backup: %w", err)
	}
	if err := container.ConfigLoader.Save(ctx, cfg); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}
	return nil
}

// ConfigToMap converts cfg to its YAML map form for key-path edits.
func ConfigToMap(cfg domain.Config) (map[string]interface{}, error) {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	var tree map[string]interface{}
	if err := yaml.Unmarshal(raw, &tree); err != nil {
		return nil, fmt.Errorf("failed to unmarshal to map: %w", err)
	}
	return tree, nil
}

// MapToConfig is the inverse of ConfigToMap.
func MapToConfig(tree map[string]interface{}) (domain.Config, error) {
	raw, err := yaml.Marshal(tree)
	if err != nil {
		return domain.Config{}, fmt.Errorf("failed to marshal updated map: %w", err)
	}
	var cfg domain.Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return domain.Config{}, fmt.Errorf("failed to unmarshal to config: %w", err)
	}
	return cfg, nil
}

// ParseYAMLValue parses input as a YAML scalar or collection, falling back
// to the literal string.
func ParseYAMLValue(input string) interface{} {
	var parsed interface{}
	if err := yaml.Unmarshal([]byte(input), &parsed); err != nil || parsed == nil {
		return input
	}
	return parsed
}

// SetNestedMapValue sets the value at keyPath, creating or replacing
// intermediate maps. It reports false for an empty path.
func SetNestedMapValue(root map[string]interface{}, keyPath []string, value interface{}) bool {
	if len(keyPath) == 0 {
		return false
	}
	current := root
	for _, key := range keyPath[:len(keyPath)-1] {
		child, ok := current[key].(map[string]interface{})
		if !ok {
			child = map[string]interface{}{}
			current[key] = child
		}
		current = child
	}
	current[keyPath[len(keyPath)-1]] = value
	return true
}

// TraverseNestedMap returns the value at keyPath.
func TraverseNestedMap(data interface{}, keyPath []string) (interface{}, bool) {
	if len(keyPath) == 0 {
		return data, true
	}
	node, ok := data.(map[string]interface{})
	if !ok {
		return nil, false
	}
	next, exists := node[keyPath[0]]
	if !exists {
		return nil, false
	}
	return TraverseNestedMap(next, keyPath[1:])
}
