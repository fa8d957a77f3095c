package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/formbind/formbind/internal/field"
)

// AssertionError is returned when a scenario's expect clause is not
// met. It includes expected vs actual context to help debug the
// failure.
type AssertionError struct {
	Scenario string // Scenario name for categorization
	Check    string // Which expectation failed
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s (%s)\n", e.Check, e.Scenario)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

// Assert checks a result against the scenario's expect clause.
// A nil expect clause always passes. Error and value expectations are
// subset matches: only the listed fields are checked.
func Assert(scenario *Scenario, result *Result) error {
	expect := scenario.Expect
	if expect == nil {
		return nil
	}

	if result.Valid != expect.Valid {
		return &AssertionError{
			Scenario: scenario.Name,
			Check:    "verdict",
			Expected: fmt.Sprintf("valid=%t", expect.Valid),
			Actual:   fmt.Sprintf("valid=%t (errors: %v)", result.Valid, result.Errors),
		}
	}

	for name, codes := range expect.Errors {
		got := result.Errors[name]
		if !slices.Equal(got, codes) {
			return &AssertionError{
				Scenario: scenario.Name,
				Check:    "errors." + name,
				Expected: fmt.Sprintf("%v", codes),
				Actual:   fmt.Sprintf("%v", got),
			}
		}
	}

	for name, want := range expect.Values {
		got, ok := result.Store.Resolve(name)
		if !ok {
			return &AssertionError{
				Scenario: scenario.Name,
				Check:    "values." + name,
				Expected: fmt.Sprint(want),
				Actual:   "(absent)",
			}
		}
		// Compare by string form: YAML scalars and field values meet
		// on their rendered representation.
		if gotText := field.Text(got); gotText != fmt.Sprint(want) {
			return &AssertionError{
				Scenario: scenario.Name,
				Check:    "values." + name,
				Expected: fmt.Sprint(want),
				Actual:   gotText,
			}
		}
	}

	return nil
}
