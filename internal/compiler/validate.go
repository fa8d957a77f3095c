package compiler

import (
	"fmt"
	"strings"

	"github.com/formbind/formbind/internal/spec"
)

// Validation error codes (E100-E199)
const (
	ErrFormNameEmpty   = "E101" // form name is required
	ErrFormNoFields    = "E102" // at least one field required
	ErrFieldNameEmpty  = "E103" // field name is required
	ErrDuplicateField  = "E104" // duplicate field name
	ErrValidatorNoName = "E105" // validator name is required
	ErrBadDelimiter    = "E106" // delimiter must be one character

	ErrWrapperSideEmpty   = "E110" // wrapper/wrapped list empty
	ErrConverterNameEmpty = "E111" // converter name is required
)

// ValidationError represents a schema validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// ValidateSpec checks a compiled FormSpec against schema rules. Returns
// all errors found (does not fail-fast). Converter and validator names
// are only checked for presence here; whether they resolve is decided
// at form assembly time against the configured registries.
func ValidateSpec(s *spec.FormSpec) []ValidationError {
	var errs []ValidationError

	if strings.TrimSpace(s.Name) == "" {
		errs = append(errs, ValidationError{
			Field:   "name",
			Message: "form name is required and must be non-empty",
			Code:    ErrFormNameEmpty,
		})
	}

	if len(s.Fields) == 0 {
		errs = append(errs, ValidationError{
			Field:   "fields",
			Message: "at least one field is required",
			Code:    ErrFormNoFields,
		})
	}

	if s.Delimiter != "" && len(s.Delimiter) != 1 {
		errs = append(errs, ValidationError{
			Field:   "delimiter",
			Message: fmt.Sprintf("delimiter must be a single character, got %q", s.Delimiter),
			Code:    ErrBadDelimiter,
		})
	}

	seen := make(map[string]struct{})
	for _, f := range s.Fields {
		if strings.TrimSpace(f.Name) == "" {
			errs = append(errs, ValidationError{
				Field:   "fields",
				Message: "field name is required and must be non-empty",
				Code:    ErrFieldNameEmpty,
			})
			continue
		}
		if _, dup := seen[f.Name]; dup {
			errs = append(errs, ValidationError{
				Field:   "fields." + f.Name,
				Message: "duplicate field name",
				Code:    ErrDuplicateField,
			})
		}
		seen[f.Name] = struct{}{}

		for _, v := range f.Validators {
			if strings.TrimSpace(v.Name) == "" {
				errs = append(errs, ValidationError{
					Field:   "fields." + f.Name + ".validators",
					Message: "validator name is required",
					Code:    ErrValidatorNoName,
				})
			}
		}
	}

	for i, w := range s.Wrappers {
		where := fmt.Sprintf("wrappers[%d]", i)
		if len(w.Wrapper) == 0 {
			errs = append(errs, ValidationError{
				Field:   where + ".wrapper",
				Message: "wrapper field list must be non-empty",
				Code:    ErrWrapperSideEmpty,
			})
		}
		if len(w.Wrapped) == 0 {
			errs = append(errs, ValidationError{
				Field:   where + ".wrapped",
				Message: "wrapped field list must be non-empty",
				Code:    ErrWrapperSideEmpty,
			})
		}
		if strings.TrimSpace(w.To) == "" {
			errs = append(errs, ValidationError{
				Field:   where + ".to",
				Message: "converter name is required",
				Code:    ErrConverterNameEmpty,
			})
		}
		if strings.TrimSpace(w.From) == "" {
			errs = append(errs, ValidationError{
				Field:   where + ".from",
				Message: "converter name is required",
				Code:    ErrConverterNameEmpty,
			})
		}
	}

	return errs
}
