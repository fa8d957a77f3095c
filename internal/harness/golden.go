package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/formbind/formbind/internal/field"
)

// OutcomeSnapshot captures the complete binding outcome for a scenario.
// Serialized with canonical JSON for deterministic comparison.
type OutcomeSnapshot struct {
	ScenarioName string
	FormName     string
	Valid        bool
	Errors       map[string][]string
	Fields       map[string]field.Value
}

// toCanonicalMap converts the snapshot to a map for canonical JSON
// serialization.
func (s *OutcomeSnapshot) toCanonicalMap() map[string]any {
	return map[string]any{
		"scenario": s.ScenarioName,
		"form":     s.FormName,
		"valid":    s.Valid,
		"errors":   s.Errors,
		"fields":   s.Fields,
	}
}

// RunWithGolden executes a scenario and compares the outcome snapshot
// against a golden file in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}

	return AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an already-computed result against the golden
// file named after the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	snapshot := OutcomeSnapshot{
		ScenarioName: scenarioName,
		FormName:     result.FormName,
		Valid:        result.Valid,
		Errors:       result.Errors,
		Fields:       result.Store.ExportFlat(),
	}

	outcomeJSON, err := field.MarshalCanonical(snapshot.toCanonicalMap())
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, outcomeJSON)

	return nil
}
