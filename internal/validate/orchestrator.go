package validate

import (
	"slices"

	"github.com/formbind/formbind/internal/field"
)

// WrappedLookup exposes the wrapper engine's mapping metadata used by
// the error fallback: which underlying fields a presentation field
// wraps.
type WrappedLookup interface {
	WrappedFieldsOf(name string) []string
}

// Options configures an Orchestrator. Immutable after construction.
type Options struct {
	// Registry resolves validator names. Defaults to BuiltinRegistry.
	Registry *Registry

	// Namespaces is the ordered prefix list probed when resolving a
	// validator name. The empty prefix means the name is tried verbatim.
	// Defaults to ["", "builtin"].
	Namespaces []string

	// Wrappers enables the wrapped-field error fallback. May be nil.
	Wrappers WrappedLookup
}

// DefaultNamespaces returns the default validator namespace order:
// the bare name first, then the builtin namespace.
func DefaultNamespaces() []string {
	return []string{"", "builtin"}
}

// Orchestrator owns one validation chain per field name and runs them
// against a field store, aggregating pass/fail and error codes.
type Orchestrator struct {
	registry   *Registry
	namespaces []string
	wrappers   WrappedLookup
	chains     map[string]*Chain
	order      []string // chain registration order
}

// New creates an Orchestrator from opts, applying defaults for any
// zero-valued option.
func New(opts Options) *Orchestrator {
	if opts.Registry == nil {
		opts.Registry = BuiltinRegistry()
	}
	if opts.Namespaces == nil {
		opts.Namespaces = DefaultNamespaces()
	}
	return &Orchestrator{
		registry:   opts.Registry,
		namespaces: opts.Namespaces,
		wrappers:   opts.Wrappers,
		chains:     make(map[string]*Chain),
	}
}

// AppendValidator resolves name against the namespace list, in order,
// and appends the instantiated validator to the field's chain (creating
// the chain on first use). The first namespace under which the name is
// registered wins. Returns NotFoundError when no namespace matches; a
// failed call does not create or modify any chain.
func (o *Orchestrator) AppendValidator(fieldName, name string, args ...string) error {
	for _, ns := range o.namespaces {
		qualified := name
		if ns != "" {
			qualified = ns + "." + name
		}
		if !o.registry.Has(qualified) {
			continue
		}
		v, err := o.registry.New(qualified, args...)
		if err != nil {
			return err
		}
		o.chain(fieldName).Append(v)
		return nil
	}
	return &NotFoundError{Name: name, Namespaces: o.namespaces}
}

// AppendInstance appends an already-constructed validator, bypassing
// name resolution.
func (o *Orchestrator) AppendInstance(fieldName string, v Validator) {
	o.chain(fieldName).Append(v)
}

// AddCustomError attaches a caller-supplied error code to the field's
// chain, for failures that did not come from the declarative chain.
func (o *Orchestrator) AddCustomError(fieldName, code string) {
	o.chain(fieldName).AddCustom(code)
}

// Validate runs every chain, in registration order, against the store's
// value for its field (absent fields validate as the empty string, the
// legacy presentation contract). Returns true only if every chain is
// valid. Results are stable until the next Validate call; mutating the
// store does not re-run chains.
func (o *Orchestrator) Validate(s *field.Store) bool {
	valid := true
	for _, name := range o.order {
		v, ok := s.Get(name)
		if !ok {
			v = field.StringValue("")
		}
		if !o.chains[name].Run(v) {
			valid = false
		}
	}
	return valid
}

// IsValid reports the field's validity after the last Validate run.
// A field with no chain is always valid.
func (o *Orchestrator) IsValid(fieldName string) bool {
	c, ok := o.chains[fieldName]
	if !ok {
		return true
	}
	return c.Valid()
}

// FieldNames returns the fields that have a chain, in registration order.
func (o *Orchestrator) FieldNames() []string {
	return slices.Clone(o.order)
}

// Errors returns the raw error codes for the field's chain. When
// fallback is true and the field has no own errors (including when it
// has no chain at all), errors are borrowed from the fields it wraps —
// with fallback disabled one level down, so mutual wrapper chains
// cannot recurse.
func (o *Orchestrator) Errors(fieldName string, fallback bool) []string {
	var codes []string
	if c, ok := o.chains[fieldName]; ok {
		codes = c.Codes()
	}
	if len(codes) > 0 || !fallback || o.wrappers == nil {
		return codes
	}
	for _, wrapped := range o.wrappers.WrappedFieldsOf(fieldName) {
		codes = append(codes, o.Errors(wrapped, false)...)
	}
	return codes
}

// AllErrors returns the error codes of every field with a chain,
// computed independently with the given fallback setting.
func (o *Orchestrator) AllErrors(fallback bool) map[string][]string {
	out := make(map[string][]string, len(o.order))
	for _, name := range o.order {
		out[name] = o.Errors(name, fallback)
	}
	return out
}

// Issues returns the field chain's issues (codes plus parameters).
func (o *Orchestrator) Issues(fieldName string) []Issue {
	c, ok := o.chains[fieldName]
	if !ok {
		return nil
	}
	return c.Issues()
}

// Messages renders the field's error messages through the translator.
// A nil translator yields raw codes.
func (o *Orchestrator) Messages(fieldName string, tr Translator) []string {
	c, ok := o.chains[fieldName]
	if !ok {
		return nil
	}
	return c.Messages(tr)
}

// AllMessages returns rendered messages for every field with a chain.
func (o *Orchestrator) AllMessages(tr Translator) map[string][]string {
	out := make(map[string][]string, len(o.order))
	for _, name := range o.order {
		out[name] = o.chains[name].Messages(tr)
	}
	return out
}

// chain returns the field's chain, creating it on first use.
func (o *Orchestrator) chain(fieldName string) *Chain {
	c, ok := o.chains[fieldName]
	if !ok {
		c = &Chain{}
		o.chains[fieldName] = c
		o.order = append(o.order, fieldName)
	}
	return c
}
