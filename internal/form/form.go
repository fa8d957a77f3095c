// Package form assembles the binding pipeline: a field store, the
// wrapper engine reconciling it after every import, and the validation
// orchestrator running chains against it.
package form

import (
	"fmt"

	"github.com/formbind/formbind/internal/field"
	"github.com/formbind/formbind/internal/spec"
	"github.com/formbind/formbind/internal/validate"
	"github.com/formbind/formbind/internal/wrap"
)

// Options configures a Form. Immutable after construction.
type Options struct {
	// Delimiter for flat field names. Defaults to ":".
	Delimiter string

	// Registry resolves validator names. Defaults to the builtin set.
	Registry *validate.Registry

	// Namespaces is the validator namespace probe order.
	// Defaults to ["", "builtin"].
	Namespaces []string

	// Converters resolves named converters in form specs.
	// Defaults to the builtin join/split/copy registry.
	Converters *wrap.Registry
}

// Form binds nested input to a named set of fields, reconciles wrapper
// mappings, and validates the result. One Form instance processes one
// submission at a time.
type Form struct {
	name       string
	store      *field.Store
	engine     *wrap.Engine
	validation *validate.Orchestrator
	converters *wrap.Registry
}

// New creates an empty Form with no declared fields or wrappers.
func New(opts Options) *Form {
	if opts.Converters == nil {
		opts.Converters = wrap.DefaultRegistry()
	}

	store := field.New(field.Options{Delimiter: opts.Delimiter})
	engine := wrap.New()
	store.BindReconciler(engine)

	return &Form{
		store:  store,
		engine: engine,
		validation: validate.New(validate.Options{
			Registry:   opts.Registry,
			Namespaces: opts.Namespaces,
			Wrappers:   engine,
		}),
		converters: opts.Converters,
	}
}

// FromSpec builds a Form from a compiled definition, resolving every
// declared validator and named converter. Unknown names fail here, not
// at submission time.
func FromSpec(s *spec.FormSpec, opts Options) (*Form, error) {
	if s.Delimiter != "" {
		opts.Delimiter = s.Delimiter
	}
	f := New(opts)
	f.name = s.Name

	for _, fieldSpec := range s.Fields {
		for _, v := range fieldSpec.Validators {
			if err := f.validation.AppendValidator(fieldSpec.Name, v.Name, v.Args...); err != nil {
				return nil, fmt.Errorf("form %q field %q: %w", s.Name, fieldSpec.Name, err)
			}
		}
	}

	for i, w := range s.Wrappers {
		to, err := f.converters.New(w.To, w.ToArgs...)
		if err != nil {
			return nil, fmt.Errorf("form %q wrapper %d: %w", s.Name, i, err)
		}
		from, err := f.converters.New(w.From, w.FromArgs...)
		if err != nil {
			return nil, fmt.Errorf("form %q wrapper %d: %w", s.Name, i, err)
		}
		f.engine.Register(wrap.Mapping{
			Wrapper: w.Wrapper,
			Wrapped: w.Wrapped,
			To:      to,
			From:    from,
		})
	}

	return f, nil
}

// Name returns the form name (empty for forms built with New).
func (f *Form) Name() string {
	return f.name
}

// Store exposes the underlying field store.
func (f *Form) Store() *field.Store {
	return f.store
}

// Engine exposes the wrapper engine, for programmatic Register calls.
func (f *Form) Engine() *wrap.Engine {
	return f.engine
}

// Validation exposes the orchestrator, for programmatic chain building.
func (f *Form) Validation() *validate.Orchestrator {
	return f.validation
}

// Import merges nested input into the store and reconciles wrappers.
// Converter errors propagate; malformed (non-mapping) input is a no-op.
func (f *Form) Import(nested any) error {
	return f.store.ImportNested(nested)
}

// Validate runs every chain against current field values. Must be
// called before IsValid/Errors reflect the data.
func (f *Form) Validate() bool {
	return f.validation.Validate(f.store)
}

// IsValid reports a single field's validity after the last Validate.
func (f *Form) IsValid(name string) bool {
	return f.validation.IsValid(name)
}

// Errors returns the field's error codes with wrapped-field fallback.
func (f *Form) Errors(name string) []string {
	return f.validation.Errors(name, true)
}

// AllErrors returns every chained field's error codes, with fallback.
func (f *Form) AllErrors() map[string][]string {
	return f.validation.AllErrors(true)
}

// Messages renders the field's error messages through the translator;
// nil yields raw codes.
func (f *Form) Messages(name string, tr validate.Translator) []string {
	return f.validation.Messages(name, tr)
}

// AllMessages renders every chained field's messages.
func (f *Form) AllMessages(tr validate.Translator) map[string][]string {
	return f.validation.AllMessages(tr)
}

// Value resolves a delimiter-addressed value through the nested
// projection without mutating anything.
func (f *Form) Value(name string) (field.Value, bool) {
	return f.store.Resolve(name)
}

// Values returns the nested projection of all field data.
func (f *Form) Values() map[string]any {
	return f.store.ExportNested()
}
