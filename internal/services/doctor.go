package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/doeshing/prompty-go/internal/domain"
	"github.com/doeshing/prompty-go/internal/ports"
)

// DoctorService runs setup diagnostics.
type DoctorService struct {
	ConfigProvider ports.ConfigProvider
	Validator      *ConfigValidator
	Catalog        ports.CatalogProvider
	Credentials    ports.CredentialStore
	History        ports.HistoryStore
}

// Run executes checks and returns a report. The error is non-nil only
// when the config cannot be loaded at all.
func (s *DoctorService) Run(ctx context.Context) (domain.HealthReport, error) {
	var checks []domain.HealthCheck

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		checks = append(checks, fail("Config file", fmt.Sprintf("load failed: %v", err)))
		return domain.HealthReport{Checks: checks}, err
	}
	checks = append(checks, ok("Config file", fmt.Sprintf("format %s, %d models", cfg.ConfigFormatVersion, len(cfg.Models))))

	if s.Validator != nil {
		if issues := s.Validator.Issues(cfg); len(issues) > 0 {
			checks = append(checks, fail("Config validation", strings.Join(issues, "; ")))
		} else {
			checks = append(checks, ok("Config validation", "no problems found"))
		}
	}

	if s.Catalog != nil {
		checks = append(checks, s.catalogCheck(ctx))
	}
	if s.Credentials != nil {
		checks = append(checks, s.keyChecks(ctx, cfg)...)
	}
	if s.History != nil {
		checks = append(checks, s.historyCheck(ctx))
	}

	return domain.HealthReport{Checks: checks}, nil
}

func (s *DoctorService) catalogCheck(ctx context.Context) domain.HealthCheck {
	catalog, err := s.Catalog.Catalog(ctx)
	if err != nil {
		return fail("Category catalog", err.Error())
	}
	if catalog.IsEmpty() {
		return fail("Category catalog", "no categories loaded")
	}
	return ok("Category catalog", fmt.Sprintf("%d categories", len(catalog.Categories)))
}

// keyChecks reports one check per provider that has configured models.
func (s *DoctorService) keyChecks(ctx context.Context, cfg domain.Config) []domain.HealthCheck {
	var checks []domain.HealthCheck
	for _, provider := range domain.Providers() {
		models := cfg.ModelsForProvider(provider)
		if len(models) == 0 {
			continue
		}
		name := provider.DisplayName() + " key"
		key, err := s.Credentials.Get(ctx, provider)
		switch {
		case err != nil:
			checks = append(checks, fail(name, err.Error()))
		case key == "":
			checks = append(checks, warn(name, fmt.Sprintf("missing; %d model(s) unavailable", len(models))))
		default:
			checks = append(checks, ok(name, fmt.Sprintf("configured for %d model(s)", len(models))))
		}
	}
	return checks
}

func (s *DoctorService) historyCheck(ctx context.Context) domain.HealthCheck {
	entries, err := s.History.List(ctx, 0)
	if err != nil {
		return fail("History store", err.Error())
	}
	details := fmt.Sprintf("%d entries", len(entries))
	if repo, isRepo := s.History.(ports.HistoryRepository); isRepo {
		details += " at " + repo.Path()
	}
	return ok("History store", details)
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Details: details}
}

func warn(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Details: details}
}

func fail(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthError, Details: details}
}
