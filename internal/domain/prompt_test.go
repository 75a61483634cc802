package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/doeshing/prompty-go/internal/domain"
)

func TestPromptConfig_UnmarshalJSONFlatShape(t *testing.T) {
	raw := `{"subject":["landscape"],"style":"fantasy","lighting":[],"model":"gpt-3.5-turbo","extraDetails":"misty","prefixText":"masterpiece"}`

	var cfg domain.PromptConfig
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	want := domain.PromptConfig{
		Model:        "gpt-3.5-turbo",
		ExtraDetails: "misty",
		PrefixText:   "masterpiece",
		Selections: map[string][]string{
			"subject":  {"landscape"},
			"style":    {"fantasy"},
			"lighting": {},
		},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestPromptConfig_UnmarshalRejectsNonStringValues(t *testing.T) {
	var cfg domain.PromptConfig
	if err := json.Unmarshal([]byte(`{"subject":[1,2]}`), &cfg); err == nil {
		t.Error("expected error for numeric values")
	}
	if err := json.Unmarshal([]byte(`{"model":["a"]}`), &cfg); err == nil {
		t.Error("expected error for array model")
	}
}

func TestPromptConfig_YAMLRoundTrip(t *testing.T) {
	src := "model: gpt-4\nsubject:\n  - castle\n  - dragon\nmood: ominous\n"

	var cfg domain.PromptConfig
	if err := yaml.Unmarshal([]byte(src), &cfg); err != nil {
		t.Fatalf("yaml.Unmarshal() error = %v", err)
	}
	if cfg.Model != "gpt-4" {
		t.Errorf("model = %q", cfg.Model)
	}
	if diff := cmp.Diff([]string{"ominous"}, cfg.Values("mood")); diff != "" {
		t.Errorf("mood mismatch (-want +got):\n%s", diff)
	}

	out, err := yaml.Marshal(cfg)
	if err != nil {
		t.Fatalf("yaml.Marshal() error = %v", err)
	}
	var again domain.PromptConfig
	if err := yaml.Unmarshal(out, &again); err != nil {
		t.Fatalf("second Unmarshal() error = %v", err)
	}
	if diff := cmp.Diff(cfg, again); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestPromptConfig_CloneIsDeep(t *testing.T) {
	cfg := domain.PromptConfig{Model: "gpt-4"}
	cfg.Set("subject", "castle")

	clone := cfg.WithExtraDetails("at dusk")
	clone.Selections["subject"][0] = "tower"

	if cfg.Values("subject")[0] != "castle" {
		t.Error("mutating the clone changed the original")
	}
	if cfg.ExtraDetails != "" {
		t.Errorf("original extra details = %q, want empty", cfg.ExtraDetails)
	}
	if clone.ExtraDetails != "at dusk" {
		t.Errorf("clone extra details = %q", clone.ExtraDetails)
	}
}

func TestPromptConfig_PopulatedSelectionsSortedAndNonEmpty(t *testing.T) {
	cfg := domain.PromptConfig{Selections: map[string][]string{
		"style":   {"fantasy"},
		"subject": {"landscape"},
		"era":     {},
		"colors":  {"teal", "gold"},
	}}

	want := []domain.Selection{
		{Key: "colors", Values: []string{"teal", "gold"}},
		{Key: "style", Values: []string{"fantasy"}},
		{Key: "subject", Values: []string{"landscape"}},
	}
	if diff := cmp.Diff(want, cfg.PopulatedSelections()); diff != "" {
		t.Errorf("selections mismatch (-want +got):\n%s", diff)
	}
}

func TestPromptConfig_SetDropsBlankValues(t *testing.T) {
	var cfg domain.PromptConfig
	cfg.Set("pose", " standing ", "", "  ")
	cfg.Set(domain.KeyPrefixText, "cinematic")

	if diff := cmp.Diff([]string{"standing"}, cfg.Values("pose")); diff != "" {
		t.Errorf("pose mismatch (-want +got):\n%s", diff)
	}
	if !cfg.HasPrefix() {
		t.Error("expected prefix to be set")
	}
}
