package services

import (
	"context"
	"errors"
	"testing"

	"github.com/doeshing/prompty-go/internal/domain"
)

type staticCatalog struct {
	catalog domain.Catalog
	err     error
}

func (s staticCatalog) Catalog(context.Context) (domain.Catalog, error) {
	return s.catalog, s.err
}

func findCheck(report domain.HealthReport, name string) (domain.HealthCheck, bool) {
	for _, check := range report.Checks {
		if check.Name == name {
			return check, true
		}
	}
	return domain.HealthCheck{}, false
}

func TestDoctorReportsSetup(t *testing.T) {
	svc := &DoctorService{
		ConfigProvider: staticConfig{cfg: testConfig()},
		Validator:      NewConfigValidator(),
		Catalog:        staticCatalog{catalog: testCatalog()},
		Credentials:    newMemCredentials(map[domain.ProviderID]string{domain.ProviderOpenAI: "sk"}),
		History:        &memHistory{},
	}

	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if !report.Healthy() {
		t.Fatalf("expected healthy report, got %+v", report.Checks)
	}

	tests := []struct {
		name string
		want domain.HealthStatus
	}{
		{name: "Config file", want: domain.HealthOK},
		{name: "Config validation", want: domain.HealthOK},
		{name: "Category catalog", want: domain.HealthOK},
		{name: "OpenAI key", want: domain.HealthOK},
		{name: "Anthropic key", want: domain.HealthWarn},
		{name: "Novita key", want: domain.HealthWarn},
		{name: "History store", want: domain.HealthOK},
	}
	for _, tt := range tests {
		check, found := findCheck(report, tt.name)
		if !found {
			t.Fatalf("missing check %q in %+v", tt.name, report.Checks)
		}
		if check.Status != tt.want {
			t.Fatalf("%s: expected %s, got %s (%s)", tt.name, tt.want, check.Status, check.Details)
		}
	}
	if _, found := findCheck(report, "Hugging Face key"); found {
		t.Fatal("providers without models should not be checked")
	}
}

func TestDoctorFlagsBrokenCatalog(t *testing.T) {
	svc := &DoctorService{
		ConfigProvider: staticConfig{cfg: testConfig()},
		Catalog:        staticCatalog{err: errors.New("bad yaml")},
	}

	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if report.Healthy() {
		t.Fatal("expected unhealthy report")
	}
}

func TestDoctorConfigLoadFailure(t *testing.T) {
	svc := &DoctorService{ConfigProvider: staticConfig{err: domain.ErrConfiguration}}

	report, err := svc.Run(context.Background())
	if !errors.Is(err, domain.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if len(report.Checks) != 1 || report.Checks[0].Status != domain.HealthError {
		t.Fatalf("unexpected report %+v", report.Checks)
	}
}
