package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/doeshing/prompty-go/internal/domain"
)

// ConfigValidator checks a configuration with struct tags plus the
// cross-field rules tags cannot express.
type ConfigValidator struct {
	validate *validator.Validate
}

func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

// Validate returns nil or an error wrapping domain.ErrConfiguration that
// lists every problem found.
func (v *ConfigValidator) Validate(cfg domain.Config) error {
	issues := v.Issues(cfg)
	if len(issues) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", domain.ErrConfiguration, strings.Join(issues, "; "))
}

// Issues lists human-readable validation problems, in a stable order.
func (v *ConfigValidator) Issues(cfg domain.Config) []string {
	var issues []string

	if err := v.validate.Struct(cfg); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				issues = append(issues, describeFieldError(fe))
			}
		} else {
			issues = append(issues, err.Error())
		}
	}

	seen := make(map[string]bool, len(cfg.Models))
	for _, model := range cfg.Models {
		if model.ID != "" && seen[model.ID] {
			issues = append(issues, fmt.Sprintf("models: duplicate id %s", model.ID))
		}
		seen[model.ID] = true
		if model.Provider != "" {
			if _, ok := domain.ParseProviderID(string(model.Provider)); !ok {
				issues = append(issues, fmt.Sprintf("models: %s uses unknown provider %s", model.ID, model.Provider))
			}
		}
	}

	for _, settings := range cfg.Providers {
		if settings.ID == "" {
			continue
		}
		if _, ok := domain.ParseProviderID(string(settings.ID)); !ok {
			issues = append(issues, fmt.Sprintf("providers: unknown provider %s", settings.ID))
		}
	}

	if id := cfg.Preferences.DefaultModel; id != "" && !cfg.HasModel(id) {
		issues = append(issues, fmt.Sprintf("preferences.default_model: %s is not a configured model", id))
	}

	if ttl := cfg.Cache.TTL; ttl != "" {
		if d, err := time.ParseDuration(ttl); err != nil || d <= 0 {
			issues = append(issues, fmt.Sprintf("cache.ttl: invalid duration %q", ttl))
		}
	}

	return issues
}

func describeFieldError(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s needs at least %s entries", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %v", field, fe.Param(), fe.Value())
	case "url":
		return fmt.Sprintf("%s must be a URL, got %v", field, fe.Value())
	default:
		return fmt.Sprintf("%s failed %s=%s (got %v)", field, fe.Tag(), fe.Param(), fe.Value())
	}
}
