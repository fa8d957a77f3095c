// Package compiler turns CUE form definitions into spec.FormSpec values
// and schema-checks the result.
package compiler

import (
	"fmt"
	"strconv"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/formbind/formbind/internal/spec"
)

// CompileForm parses a CUE value into a FormSpec. Uses the CUE SDK's Go
// API directly (not CLI subprocess).
//
// The CUE value should be the form struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`form: contact: { ... }`)
//	fs, err := CompileForm(v.LookupPath(cue.ParsePath("form.contact")))
func CompileForm(v cue.Value) (*spec.FormSpec, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	fs := &spec.FormSpec{}

	// Form name comes from the struct label (the path selector).
	labels := v.Path().Selectors()
	if len(labels) > 0 {
		fs.Name = labels[len(labels)-1].String()
	}

	// Delimiter (optional).
	delimVal := v.LookupPath(cue.ParsePath("delimiter"))
	if delimVal.Exists() {
		delim, err := delimVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		fs.Delimiter = delim
	}

	// Fields (required, at least one).
	fields, err := parseFields(v)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, &CompileError{
			Field:   "fields",
			Message: "at least one field is required",
			Pos:     v.Pos(),
		}
	}
	fs.Fields = fields

	// Wrappers (optional).
	fs.Wrappers, err = parseWrappers(v)
	if err != nil {
		return nil, err
	}

	return fs, nil
}

// parseFields extracts the field list with validator chains.
func parseFields(v cue.Value) ([]spec.FieldSpec, error) {
	var fields []spec.FieldSpec

	fieldsVal := v.LookupPath(cue.ParsePath("fields"))
	if !fieldsVal.Exists() {
		return fields, nil
	}

	iter, err := fieldsVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	for iter.Next() {
		fieldVal := iter.Value()

		name, err := fieldVal.LookupPath(cue.ParsePath("name")).String()
		if err != nil {
			return nil, &CompileError{
				Field:   "fields.name",
				Message: "field name is required and must be a string",
				Pos:     fieldVal.Pos(),
			}
		}

		f := spec.FieldSpec{Name: name}

		validatorsVal := fieldVal.LookupPath(cue.ParsePath("validators"))
		if validatorsVal.Exists() {
			vIter, err := validatorsVal.List()
			if err != nil {
				return nil, formatCUEError(err)
			}
			for vIter.Next() {
				vs, err := parseValidator(vIter.Value(), name)
				if err != nil {
					return nil, err
				}
				f.Validators = append(f.Validators, vs)
			}
		}

		fields = append(fields, f)
	}

	return fields, nil
}

// parseValidator extracts one validator declaration.
func parseValidator(v cue.Value, fieldName string) (spec.ValidatorSpec, error) {
	var vs spec.ValidatorSpec

	name, err := v.LookupPath(cue.ParsePath("name")).String()
	if err != nil {
		return vs, &CompileError{
			Field:   fmt.Sprintf("fields.%s.validators.name", fieldName),
			Message: "validator name is required and must be a string",
			Pos:     v.Pos(),
		}
	}
	vs.Name = name

	argsVal := v.LookupPath(cue.ParsePath("args"))
	if argsVal.Exists() {
		vs.Args, err = parseArgList(argsVal)
		if err != nil {
			return vs, err
		}
	}

	return vs, nil
}

// parseWrappers extracts the wrapper declarations.
func parseWrappers(v cue.Value) ([]spec.WrapperSpec, error) {
	var wrappers []spec.WrapperSpec

	wrappersVal := v.LookupPath(cue.ParsePath("wrappers"))
	if !wrappersVal.Exists() {
		return wrappers, nil
	}

	iter, err := wrappersVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	for iter.Next() {
		wVal := iter.Value()
		var ws spec.WrapperSpec

		if ws.Wrapper, err = parseStringList(wVal, "wrapper"); err != nil {
			return nil, err
		}
		if ws.Wrapped, err = parseStringList(wVal, "wrapped"); err != nil {
			return nil, err
		}

		for _, conv := range []struct {
			path string
			name *string
			args *[]string
		}{
			{"to", &ws.To, &ws.ToArgs},
			{"from", &ws.From, &ws.FromArgs},
		} {
			nameVal := wVal.LookupPath(cue.ParsePath(conv.path))
			if nameVal.Exists() {
				if *conv.name, err = nameVal.String(); err != nil {
					return nil, formatCUEError(err)
				}
			}
			argsVal := wVal.LookupPath(cue.ParsePath(conv.path + "Args"))
			if argsVal.Exists() {
				if *conv.args, err = parseArgList(argsVal); err != nil {
					return nil, err
				}
			}
		}

		wrappers = append(wrappers, ws)
	}

	return wrappers, nil
}

// parseStringList reads a required list of strings at path.
func parseStringList(v cue.Value, path string) ([]string, error) {
	listVal := v.LookupPath(cue.ParsePath(path))
	if !listVal.Exists() {
		return nil, &CompileError{
			Field:   path,
			Message: fmt.Sprintf("%s field list is required", path),
			Pos:     v.Pos(),
		}
	}

	iter, err := listVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var out []string
	for iter.Next() {
		s, err := iter.Value().String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		out = append(out, s)
	}
	return out, nil
}

// parseArgList reads constructor arguments; strings, ints, and bools
// are accepted and coerced to their string form.
func parseArgList(v cue.Value) ([]string, error) {
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var out []string
	for iter.Next() {
		item := iter.Value()
		switch item.Kind() {
		case cue.StringKind:
			s, err := item.String()
			if err != nil {
				return nil, formatCUEError(err)
			}
			out = append(out, s)
		case cue.IntKind:
			n, err := item.Int64()
			if err != nil {
				return nil, formatCUEError(err)
			}
			out = append(out, strconv.FormatInt(n, 10))
		case cue.BoolKind:
			b, err := item.Bool()
			if err != nil {
				return nil, formatCUEError(err)
			}
			out = append(out, strconv.FormatBool(b))
		default:
			return nil, &CompileError{
				Field:   "args",
				Message: fmt.Sprintf("unsupported argument kind: %v", item.Kind()),
				Pos:     item.Pos(),
			}
		}
	}
	return out, nil
}

// CompileError represents a compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	// Return first error with position info
	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
