package llm

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed models.yaml
var modelsYAML []byte

// ModelDefaults describes the fallback model for one provider.
type ModelDefaults struct {
	Default         string `yaml:"default"`
	MaxOutputTokens int    `yaml:"max_output_tokens"`
}

var modelTable = mustLoadModels(modelsYAML)

func mustLoadModels(data []byte) map[ProviderID]ModelDefaults {
	table, err := LoadModelDefaults(data)
	if err != nil {
		panic(fmt.Sprintf("llm: embedded models.yaml: %v", err))
	}
	return table
}

// LoadModelDefaults parses a provider -> defaults table.
func LoadModelDefaults(data []byte) (map[ProviderID]ModelDefaults, error) {
	var raw map[string]ModelDefaults
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("error parsing model defaults: %w", err)
	}
	table := make(map[ProviderID]ModelDefaults, len(raw))
	for name, d := range raw {
		if d.Default == "" {
			return nil, fmt.Errorf("provider %s has no default model", name)
		}
		table[ProviderID(name)] = d
	}
	return table, nil
}

// DefaultModel returns the configured fallback model for p, or "" if p is unknown.
func DefaultModel(p ProviderID) string {
	return modelTable[p].Default
}

// MaxOutputTokens returns the output ceiling requested from p, defaulting to 4096.
func MaxOutputTokens(p ProviderID) int {
	if n := modelTable[p].MaxOutputTokens; n > 0 {
		return n
	}
	return 4096
}
