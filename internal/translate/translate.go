// Package translate renders validation error codes into human-readable
// messages using golang.org/x/text message catalogs.
//
// Templates are plain strings with {param} placeholders filled from the
// issue's parameters; the catalog and language matcher take care of
// picking the right locale. Callers that skip translation entirely get
// raw codes back from the validation layer.
package translate

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Func adapts a plain function to the validation layer's Translator
// interface.
type Func func(code string, params map[string]string) string

// Translate implements the Translator contract.
func (f Func) Translate(code string, params map[string]string) string {
	return f(code, params)
}

// Catalog holds message templates per language and hands out printers
// bound to the best-matching locale.
type Catalog struct {
	builder *catalog.Builder
}

// NewCatalog creates a catalog falling back to the given language when
// a requested locale has no translation.
func NewCatalog(fallback language.Tag) *Catalog {
	return &Catalog{
		builder: catalog.NewBuilder(catalog.Fallback(fallback)),
	}
}

// Set registers the template for code under the given language.
// Templates use {param} placeholders, e.g. "at least {min} characters".
func (c *Catalog) Set(tag language.Tag, code, template string) error {
	return c.builder.SetString(tag, code, template)
}

// For returns a translator bound to the best match among the caller's
// preferred languages (e.g. the parsed Accept-Language list). With no
// preferences the catalog fallback language is used.
func (c *Catalog) For(preferred ...string) Func {
	matcher := language.NewMatcher(c.builder.Languages())
	tag, _ := language.MatchStrings(matcher, preferred...)
	printer := message.NewPrinter(tag, message.Catalog(c.builder))

	return func(code string, params map[string]string) string {
		// The printer returns the key itself when no template exists,
		// so unknown codes degrade to raw codes.
		return expand(printer.Sprintf(message.Reference(code)), params)
	}
}

// expand substitutes {key} placeholders from params.
func expand(template string, params map[string]string) string {
	if len(params) == 0 || !strings.Contains(template, "{") {
		return template
	}
	out := template
	for k, v := range params {
		out = strings.ReplaceAll(out, "{"+k+"}", v)
	}
	return out
}

// DefaultCatalog returns an English catalog covering the builtin
// validator codes.
func DefaultCatalog() *Catalog {
	c := NewCatalog(language.English)
	for code, template := range map[string]string{
		"is_empty":      "Value is required and cannot be empty.",
		"too_short":     "Value must be at least {min} characters long ({length} given).",
		"too_long":      "Value must be at most {max} characters long ({length} given).",
		"not_int":       "Value must be an integer.",
		"below_min":     "Value must be at least {min}.",
		"above_max":     "Value must be at most {max}.",
		"no_match":      "Value does not match the required pattern.",
		"invalid_email": "Value is not a valid email address.",
		"not_in_set":    "Value must be one of: {allowed}.",
		"not_numeric":   "Value must be a number.",
		"invalid_date":  "Value is not a valid date (expected layout {layout}).",
	} {
		// SetString only fails on malformed tags or templates; both are
		// fixed here.
		_ = c.builder.SetString(language.English, code, template)
	}
	return c
}
