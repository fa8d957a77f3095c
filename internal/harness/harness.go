// Package harness provides a conformance testing framework for the
// binding pipeline.
//
// A scenario pairs CUE form definitions with one input payload and the
// expected outcome: overall verdict, per-field error codes, and
// resolved values. Scenarios exercise the real pipeline end to end -
// import, wrapper reconciliation, validation - and their outcomes can
// additionally be snapshotted against golden files.
package harness

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/formbind/formbind/internal/compiler"
	"github.com/formbind/formbind/internal/field"
	"github.com/formbind/formbind/internal/form"
	"github.com/formbind/formbind/internal/spec"
)

// Result captures the outcome of running one scenario.
type Result struct {
	ScenarioName string
	FormName     string

	// Valid is the overall validation verdict.
	Valid bool

	// Errors holds the error codes of every field that has any,
	// with wrapped-field fallback enabled.
	Errors map[string][]string

	// Store is the reconciled field store, for value assertions.
	Store *field.Store
}

// Run executes a scenario against the real binding pipeline.
func Run(scenario *Scenario) (*Result, error) {
	specs, err := loadFormSpecs(scenario.Forms)
	if err != nil {
		return nil, err
	}

	var fs *spec.FormSpec
	for i := range specs {
		if specs[i].Name == scenario.Form {
			fs = &specs[i]
			break
		}
	}
	if fs == nil {
		return nil, fmt.Errorf("scenario %q: form %q not defined", scenario.Name, scenario.Form)
	}

	f, err := form.FromSpec(fs, form.Options{})
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", scenario.Name, err)
	}

	if err := f.Import(scenario.Input); err != nil {
		return nil, fmt.Errorf("scenario %q: import: %w", scenario.Name, err)
	}

	valid := f.Validate()

	errors := make(map[string][]string)
	for name, codes := range f.AllErrors() {
		if len(codes) > 0 {
			errors[name] = codes
		}
	}

	return &Result{
		ScenarioName: scenario.Name,
		FormName:     scenario.Form,
		Valid:        valid,
		Errors:       errors,
		Store:        f.Store(),
	}, nil
}

// RunAndAssert executes a scenario and checks its expect clause.
func RunAndAssert(scenario *Scenario) (*Result, error) {
	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := Assert(scenario, result); err != nil {
		return result, err
	}
	return result, nil
}

// loadFormSpecs compiles every form defined in the given CUE files.
func loadFormSpecs(paths []string) ([]spec.FormSpec, error) {
	ctx := cuecontext.New()

	var specs []spec.FormSpec
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read form definition: %w", err)
		}

		value := ctx.CompileBytes(data, cue.Filename(path))
		if err := value.Err(); err != nil {
			return nil, fmt.Errorf("compile %s: %w", path, err)
		}

		formsVal := value.LookupPath(cue.ParsePath("form"))
		if !formsVal.Exists() {
			return nil, fmt.Errorf("%s: no top-level \"form\" struct", path)
		}

		iter, err := formsVal.Fields()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		for iter.Next() {
			fs, err := compiler.CompileForm(iter.Value())
			if err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
			specs = append(specs, *fs)
		}
	}
	return specs, nil
}
