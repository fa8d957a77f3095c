package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario: a form definition, an
// input payload, and the expected binding/validation outcome.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Forms lists paths to CUE form definition files to compile.
	// Paths are relative to the scenario file location.
	Forms []string `yaml:"forms"`

	// Form names which loaded form the input binds to.
	Form string `yaml:"form"`

	// Input is the nested payload fed to the form's import.
	Input map[string]interface{} `yaml:"input"`

	// Expect declares the expected outcome. If nil, the scenario only
	// asserts that binding and validation run without error.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// ExpectClause specifies the expected binding/validation outcome.
type ExpectClause struct {
	// Valid is the expected overall verdict.
	Valid bool `yaml:"valid"`

	// Errors maps field names to their expected error codes, in order.
	// Subset match - only listed fields are checked.
	Errors map[string][]string `yaml:"errors,omitempty"`

	// Values maps delimiter-addressed field names to expected resolved
	// values (compared by string form). Subset match.
	Values map[string]interface{} `yaml:"values,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, "")
}

// LoadScenarioWithBasePath reads and parses a scenario YAML file,
// resolving form definition paths relative to the provided base path.
func LoadScenarioWithBasePath(path, basePath string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "expects:" vs "expect:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	for i, formPath := range scenario.Forms {
		if !filepath.IsAbs(formPath) && basePath != "" {
			scenario.Forms[i] = filepath.Join(basePath, formPath)
		}
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Forms) == 0 {
		return fmt.Errorf("forms list is required and must be non-empty")
	}

	if s.Form == "" {
		return fmt.Errorf("form name is required")
	}

	if s.Input == nil {
		return fmt.Errorf("input is required")
	}

	return nil
}
