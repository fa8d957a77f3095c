package validate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/formbind/formbind/internal/field"
)

// Error codes produced by the builtin validators.
const (
	CodeIsEmpty      = "is_empty"
	CodeTooShort     = "too_short"
	CodeTooLong      = "too_long"
	CodeNotInt       = "not_int"
	CodeBelowMin     = "below_min"
	CodeAboveMax     = "above_max"
	CodeNoMatch      = "no_match"
	CodeInvalidEmail = "invalid_email"
	CodeNotInSet     = "not_in_set"
	CodeNotNumeric   = "not_numeric"
	CodeInvalidDate  = "invalid_date"
)

// BuiltinRegistry returns a registry populated with the builtin
// validators under the "builtin" namespace.
func BuiltinRegistry() *Registry {
	r := NewRegistry()
	r.Register("builtin.NotEmpty", NotEmpty)
	r.Register("builtin.StringLength", StringLength)
	r.Register("builtin.IntRange", IntRange)
	r.Register("builtin.Regex", Regex)
	r.Register("builtin.EmailAddress", EmailAddress)
	r.Register("builtin.InSet", InSet)
	r.Register("builtin.Numeric", Numeric)
	r.Register("builtin.Date", Date)
	return r
}

// NotEmpty fails on null values and values rendering to the empty string.
func NotEmpty(args ...string) (Validator, error) {
	if len(args) != 0 {
		return nil, fmt.Errorf("NotEmpty takes no arguments, got %d", len(args))
	}
	return ValidatorFunc(func(v field.Value) []Issue {
		if field.IsEmpty(v) {
			return fail(CodeIsEmpty, nil)
		}
		return nil
	}), nil
}

// StringLength validates the rune length of the value's string form.
// Args: min, or min and max.
func StringLength(args ...string) (Validator, error) {
	if len(args) < 1 || len(args) > 2 {
		return nil, fmt.Errorf("StringLength takes min or min,max, got %d arguments", len(args))
	}
	min, err := strconv.Atoi(args[0])
	if err != nil {
		return nil, fmt.Errorf("StringLength min: %w", err)
	}
	max := -1
	if len(args) == 2 {
		if max, err = strconv.Atoi(args[1]); err != nil {
			return nil, fmt.Errorf("StringLength max: %w", err)
		}
	}
	return ValidatorFunc(func(v field.Value) []Issue {
		n := len([]rune(field.Text(v)))
		if n < min {
			return fail(CodeTooShort, map[string]string{
				"min":    strconv.Itoa(min),
				"length": strconv.Itoa(n),
			})
		}
		if max >= 0 && n > max {
			return fail(CodeTooLong, map[string]string{
				"max":    strconv.Itoa(max),
				"length": strconv.Itoa(n),
			})
		}
		return nil
	}), nil
}

// IntRange validates that the value parses as an integer within
// [min, max]. Args: min, max.
func IntRange(args ...string) (Validator, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("IntRange takes min,max, got %d arguments", len(args))
	}
	min, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("IntRange min: %w", err)
	}
	max, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("IntRange max: %w", err)
	}
	return ValidatorFunc(func(v field.Value) []Issue {
		n, err := strconv.ParseInt(field.Text(v), 10, 64)
		if err != nil {
			return fail(CodeNotInt, nil)
		}
		if n < min {
			return fail(CodeBelowMin, map[string]string{"min": strconv.FormatInt(min, 10)})
		}
		if n > max {
			return fail(CodeAboveMax, map[string]string{"max": strconv.FormatInt(max, 10)})
		}
		return nil
	}), nil
}

// Regex validates the string form against a compiled pattern.
func Regex(args ...string) (Validator, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("Regex takes a pattern, got %d arguments", len(args))
	}
	re, err := regexp.Compile(args[0])
	if err != nil {
		return nil, fmt.Errorf("Regex pattern: %w", err)
	}
	return ValidatorFunc(func(v field.Value) []Issue {
		if !re.MatchString(field.Text(v)) {
			return fail(CodeNoMatch, map[string]string{"pattern": re.String()})
		}
		return nil
	}), nil
}

// emailPattern is a deliberately permissive shape check, not an RFC 5322
// parser: one @, non-empty local part, dotted domain.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// EmailAddress validates the basic shape of an email address.
func EmailAddress(args ...string) (Validator, error) {
	if len(args) != 0 {
		return nil, fmt.Errorf("EmailAddress takes no arguments, got %d", len(args))
	}
	return ValidatorFunc(func(v field.Value) []Issue {
		if !emailPattern.MatchString(field.Text(v)) {
			return fail(CodeInvalidEmail, nil)
		}
		return nil
	}), nil
}

// InSet validates that the value's string form is one of the arguments.
func InSet(args ...string) (Validator, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("InSet needs at least one allowed value")
	}
	allowed := make(map[string]struct{}, len(args))
	for _, a := range args {
		allowed[a] = struct{}{}
	}
	set := strings.Join(args, ", ")
	return ValidatorFunc(func(v field.Value) []Issue {
		if _, ok := allowed[field.Text(v)]; !ok {
			return fail(CodeNotInSet, map[string]string{"allowed": set})
		}
		return nil
	}), nil
}

// Numeric validates that the value is numeric: an IntValue, FloatValue,
// or a string form parseable as a float.
func Numeric(args ...string) (Validator, error) {
	if len(args) != 0 {
		return nil, fmt.Errorf("Numeric takes no arguments, got %d", len(args))
	}
	return ValidatorFunc(func(v field.Value) []Issue {
		switch v.(type) {
		case field.IntValue, field.FloatValue:
			return nil
		}
		if _, err := strconv.ParseFloat(field.Text(v), 64); err != nil {
			return fail(CodeNotNumeric, nil)
		}
		return nil
	}), nil
}

// Date validates the string form against a Go time layout.
// Defaults to "2006-01-02" when no layout argument is given.
func Date(args ...string) (Validator, error) {
	layout := "2006-01-02"
	if len(args) > 1 {
		return nil, fmt.Errorf("Date takes at most one layout argument, got %d", len(args))
	}
	if len(args) == 1 {
		layout = args[0]
	}
	return ValidatorFunc(func(v field.Value) []Issue {
		if _, err := time.Parse(layout, field.Text(v)); err != nil {
			return fail(CodeInvalidDate, map[string]string{"layout": layout})
		}
		return nil
	}), nil
}
