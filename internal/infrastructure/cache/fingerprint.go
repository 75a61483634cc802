package cache

import (
	"encoding/json"

	"github.com/doeshing/prompty-go/internal/domain"
)

type fingerprint struct {
	Model        string             `json:"model"`
	ExtraDetails string             `json:"extraDetails"`
	Categories   []domain.Selection `json:"categories"`
}

// Fingerprint canonically serializes the fields of cfg that determine the
// generated text: model, extra details and the non-empty selections sorted
// by key. PrefixText is not part of the key.
func Fingerprint(cfg domain.PromptConfig) string {
	raw, err := json.Marshal(fingerprint{
		Model:        cfg.Model,
		ExtraDetails: cfg.ExtraDetails,
		Categories:   cfg.PopulatedSelections(),
	})
	if err != nil {
		return ""
	}
	return string(raw)
}
