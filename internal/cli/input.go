package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadInput reads a nested key/value payload from a JSON or YAML file,
// chosen by extension (.json, .yaml, .yml). The result is the nested
// mapping fed to the form's import.
func LoadInput(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input file: %w", err)
	}

	var nested map[string]any
	switch ext := filepath.Ext(path); ext {
	case ".json":
		if err := json.Unmarshal(data, &nested); err != nil {
			return nil, fmt.Errorf("parse JSON input: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &nested); err != nil {
			return nil, fmt.Errorf("parse YAML input: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported input extension %q (want .json, .yaml, or .yml)", ext)
	}

	return nested, nil
}
