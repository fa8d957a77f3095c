package validate

import "github.com/formbind/formbind/internal/field"

// Validator checks a single field value. A nil or empty slice means the
// value passed; each Issue is one failure the value exhibits.
type Validator interface {
	Validate(v field.Value) []Issue
}

// Issue is one validation failure: an error code plus the parameters a
// translator may interpolate into the rendered message.
type Issue struct {
	Code   string
	Params map[string]string
}

// Translator renders an error code (plus parameters) into a
// human-readable message. Implementations live outside this package;
// passing nil wherever a Translator is accepted yields raw codes.
type Translator interface {
	Translate(code string, params map[string]string) string
}

// ValidatorFunc adapts a plain function to the Validator interface.
type ValidatorFunc func(v field.Value) []Issue

// Validate implements Validator.
func (f ValidatorFunc) Validate(v field.Value) []Issue {
	return f(v)
}

// fail is a convenience constructor for a single-issue result.
func fail(code string, params map[string]string) []Issue {
	return []Issue{{Code: code, Params: params}}
}
