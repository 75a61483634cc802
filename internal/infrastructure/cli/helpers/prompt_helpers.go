package helpers

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/prompty-go/internal/domain"
)

// PromptForYesNo prompts the user for a yes/no question
// Returns true for yes, false for no, or the default value if no input
func PromptForYesNo(out io.Writer, reader *bufio.Reader, promptText string, defaultValue bool) bool {
	label := buildYesNoLabel(defaultValue)
	fmt.Fprintf(out, "%s [%s]: ", promptText, label)

	line, _ := reader.ReadString('\n')
	line = strings.TrimSpace(strings.ToLower(line))

	if line == "" {
		return defaultValue
	}

	return isAffirmativeResponse(line)
}

// PromptForString prompts the user for a single line of input.
func PromptForString(out io.Writer, reader *bufio.Reader, promptText string) string {
	fmt.Fprintf(out, "%s: ", promptText)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

func buildYesNoLabel(defaultIsYes bool) string {
	if defaultIsYes {
		return "Y/n"
	}
	return "y/N"
}

func isAffirmativeResponse(response string) bool {
	return response == "y" || response == "yes"
}

// ParseSelections turns "key=a,b" flag values into cfg selections. A key
// repeated across flags accumulates values.
func ParseSelections(cfg *domain.PromptConfig, pairs []string) error {
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return fmt.Errorf("%w: --set expects key=value[,value], got %q", domain.ErrConfiguration, pair)
		}
		values := strings.Split(raw, ",")
		if !domain.IsScalarKey(key) {
			values = append(cfg.Values(key), values...)
		}
		cfg.Set(key, values...)
	}
	return nil
}

// LoadPromptConfig reads a configuration file. Files ending in .yaml or
// .yml are decoded as YAML; everything else as JSON.
func LoadPromptConfig(path string) (domain.PromptConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.PromptConfig{}, fmt.Errorf("failed to read prompt config %s: %w", path, err)
	}

	var cfg domain.PromptConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return domain.PromptConfig{}, fmt.Errorf("%w: parse %s: %v", domain.ErrConfiguration, path, err)
	}
	return cfg, nil
}
