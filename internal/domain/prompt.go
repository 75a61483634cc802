package domain

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Scalar configuration keys. Every other key is a category selection.
const (
	KeyModel        = "model"
	KeyExtraDetails = "extraDetails"
	KeyPrefixText   = "prefixText"
)

// PromptConfig is the set of user selections driving one generation call.
// It serializes as a flat object: the three scalar keys alongside one string
// array per category.
type PromptConfig struct {
	Model        string
	ExtraDetails string
	PrefixText   string
	Selections   map[string][]string
}

// Selection is one populated category of a PromptConfig.
type Selection struct {
	Key    string   `json:"key"`
	Values []string `json:"values"`
}

// IsScalarKey reports whether key names one of the scalar fields.
func IsScalarKey(key string) bool {
	return key == KeyModel || key == KeyExtraDetails || key == KeyPrefixText
}

// Clone returns a deep copy so callers can derive variants safely.
func (c PromptConfig) Clone() PromptConfig {
	out := c
	if c.Selections != nil {
		out.Selections = make(map[string][]string, len(c.Selections))
		for key, values := range c.Selections {
			out.Selections[key] = append([]string(nil), values...)
		}
	}
	return out
}

// WithExtraDetails returns a copy carrying the given extra details.
func (c PromptConfig) WithExtraDetails(details string) PromptConfig {
	out := c.Clone()
	out.ExtraDetails = details
	return out
}

// Values returns the selections for a category key.
func (c PromptConfig) Values(key string) []string {
	return c.Selections[key]
}

// Set replaces the values of a category key. Blank values are dropped.
func (c *PromptConfig) Set(key string, values ...string) {
	switch key {
	case KeyModel:
		c.Model = strings.Join(values, ",")
		return
	case KeyExtraDetails:
		c.ExtraDetails = strings.Join(values, ",")
		return
	case KeyPrefixText:
		c.PrefixText = strings.Join(values, ",")
		return
	}
	if c.Selections == nil {
		c.Selections = make(map[string][]string)
	}
	kept := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			kept = append(kept, v)
		}
	}
	c.Selections[key] = kept
}

// PopulatedSelections returns the non-empty selections sorted by key.
func (c PromptConfig) PopulatedSelections() []Selection {
	keys := make([]string, 0, len(c.Selections))
	for key, values := range c.Selections {
		if len(values) > 0 {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	selections := make([]Selection, 0, len(keys))
	for _, key := range keys {
		selections = append(selections, Selection{Key: key, Values: append([]string(nil), c.Selections[key]...)})
	}
	return selections
}

// HasPrefix reports whether a non-blank prefix is configured.
func (c PromptConfig) HasPrefix() bool {
	return strings.TrimSpace(c.PrefixText) != ""
}

func (c PromptConfig) toMap() map[string]interface{} {
	out := make(map[string]interface{}, len(c.Selections)+3)
	for key, values := range c.Selections {
		if values == nil {
			values = []string{}
		}
		out[key] = values
	}
	out[KeyModel] = c.Model
	if c.ExtraDetails != "" {
		out[KeyExtraDetails] = c.ExtraDetails
	}
	if c.PrefixText != "" {
		out[KeyPrefixText] = c.PrefixText
	}
	return out
}

func (c *PromptConfig) fromMap(raw map[string]interface{}) error {
	*c = PromptConfig{Selections: make(map[string][]string)}
	for key, value := range raw {
		if IsScalarKey(key) {
			s, ok := value.(string)
			if !ok && value != nil {
				return fmt.Errorf("%s must be a string, got %T", key, value)
			}
			c.Set(key, s)
			continue
		}
		switch v := value.(type) {
		case nil:
			c.Selections[key] = []string{}
		case string:
			c.Set(key, v)
		case []interface{}:
			values := make([]string, 0, len(v))
			for _, item := range v {
				s, ok := item.(string)
				if !ok {
					return fmt.Errorf("%s: values must be strings, got %T", key, item)
				}
				values = append(values, s)
			}
			c.Set(key, values...)
		default:
			return fmt.Errorf("%s: unsupported value type %T", key, value)
		}
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (c PromptConfig) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.toMap())
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *PromptConfig) UnmarshalJSON(data []byte) error {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	return c.fromMap(raw)
}

// MarshalYAML implements yaml.Marshaler.
func (c PromptConfig) MarshalYAML() (interface{}, error) {
	return c.toMap(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *PromptConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw map[string]interface{}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	return c.fromMap(raw)
}
