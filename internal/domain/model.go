// Package domain defines the core entities of prompty.
//
// This file contains provider identifiers and model definitions. The domain
// layer is independent of infrastructure concerns.
package domain

import "strings"

// ProviderID names one of the supported text-generation providers.
type ProviderID string

// Supported providers.
const (
	ProviderOpenAI      ProviderID = "openai"
	ProviderAnthropic   ProviderID = "anthropic"
	ProviderHuggingFace ProviderID = "huggingface"
	ProviderNovita      ProviderID = "novita"
	ProviderOpenRouter  ProviderID = "openrouter"
)

// Providers lists every supported provider in display order.
func Providers() []ProviderID {
	return []ProviderID{
		ProviderOpenAI,
		ProviderAnthropic,
		ProviderHuggingFace,
		ProviderNovita,
		ProviderOpenRouter,
	}
}

// ParseProviderID maps a user-supplied name to a known provider.
func ParseProviderID(name string) (ProviderID, bool) {
	candidate := ProviderID(strings.ToLower(strings.TrimSpace(name)))
	for _, id := range Providers() {
		if id == candidate {
			return id, true
		}
	}
	return "", false
}

// DisplayName returns the provider's brand name.
func (p ProviderID) DisplayName() string {
	switch p {
	case ProviderOpenAI:
		return "OpenAI"
	case ProviderAnthropic:
		return "Anthropic"
	case ProviderHuggingFace:
		return "Hugging Face"
	case ProviderNovita:
		return "Novita"
	case ProviderOpenRouter:
		return "OpenRouter"
	default:
		return string(p)
	}
}

// ModelDefinition describes a selectable model declared in the config file.
// ModelID is the identifier sent upstream; when empty, ID is used.
type ModelDefinition struct {
	ID          string     `yaml:"id" mapstructure:"id" json:"id" validate:"required"`
	Name        string     `yaml:"name" mapstructure:"name" json:"name" validate:"required"`
	Provider    ProviderID `yaml:"provider" mapstructure:"provider" json:"provider" validate:"required"`
	ModelID     string     `yaml:"model_id,omitempty" mapstructure:"model_id" json:"modelId,omitempty"`
	Description string     `yaml:"description,omitempty" mapstructure:"description" json:"description,omitempty"`
}

// UpstreamID returns the model identifier sent to the provider.
func (m ModelDefinition) UpstreamID() string {
	if m.ModelID != "" {
		return m.ModelID
	}
	return m.ID
}
