package wrap

import (
	"slices"

	"github.com/formbind/formbind/internal/field"
)

// Converter materializes one side of a wrapper mapping from the other.
// src names the side whose data is complete, dst the side to populate;
// the converter is expected to write dst fields into the store. args
// carry the extra positional arguments registered with the mapping.
//
// Converter errors propagate out of Reconcile unchanged; caller-supplied
// code failing is not an engine concern and nothing already written is
// rolled back.
type Converter func(s *field.Store, src, dst []string, args ...any) error

// Mapping relates a set of presentation (wrapper) fields to the set of
// underlying (wrapped) fields they derive from, with one converter per
// direction. Immutable after registration.
type Mapping struct {
	// Wrapper is the presentation-side field names.
	Wrapper []string

	// Wrapped is the underlying field names.
	Wrapped []string

	// To populates wrapped fields from wrapper fields.
	To Converter

	// From populates wrapper fields from wrapped fields.
	From Converter

	// ToArgs and FromArgs are extra arguments for each direction.
	ToArgs   []any
	FromArgs []any
}

// Engine holds the registered wrapper mappings and decides, per mapping,
// which direction of conversion to apply after each bulk import.
type Engine struct {
	mappings []Mapping
}

// New creates an Engine with no mappings.
func New() *Engine {
	return &Engine{}
}

// Register appends a mapping. The wrapper and wrapped sets are not
// validated for disjointness or non-emptiness; overlapping sets yield
// undefined (but non-crashing) behavior under Reconcile.
func (e *Engine) Register(m Mapping) {
	e.mappings = append(e.mappings, m)
}

// Mappings returns the registered mappings in registration order.
func (e *Engine) Mappings() []Mapping {
	return slices.Clone(e.mappings)
}

// Reconcile inspects each mapping independently, in registration order:
//
//	wrapper complete, wrapped incomplete -> To converter
//	wrapped complete, wrapper incomplete -> From converter
//	both complete or both incomplete     -> skip
//
// A side is incomplete when any of its field names is absent from the
// store. Existing values are never overwritten by inference. Fields a
// converter writes are visible to later mappings in the same pass,
// which allows chained wrappers; there is no cycle guard for converter
// chains (that risk belongs to caller-supplied converters).
func (e *Engine) Reconcile(s *field.Store) error {
	for _, m := range e.mappings {
		missingWrapper := anyMissing(s, m.Wrapper)
		missingWrapped := anyMissing(s, m.Wrapped)

		switch {
		case missingWrapper == missingWrapped:
			// Neither side has data, or both already do.
		case missingWrapped:
			if m.To == nil {
				continue
			}
			if err := m.To(s, m.Wrapper, m.Wrapped, m.ToArgs...); err != nil {
				return err
			}
		default:
			if m.From == nil {
				continue
			}
			if err := m.From(s, m.Wrapped, m.Wrapper, m.FromArgs...); err != nil {
				return err
			}
		}
	}
	return nil
}

// WrappedFieldsOf returns the union of wrapped field names across every
// mapping whose wrapper set contains name, in registration order,
// deduplicated. Used by the validation orchestrator's error fallback.
func (e *Engine) WrappedFieldsOf(name string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, m := range e.mappings {
		if !slices.Contains(m.Wrapper, name) {
			continue
		}
		for _, wrapped := range m.Wrapped {
			if _, ok := seen[wrapped]; ok {
				continue
			}
			seen[wrapped] = struct{}{}
			out = append(out, wrapped)
		}
	}
	return out
}

func anyMissing(s *field.Store, names []string) bool {
	for _, name := range names {
		if !s.Has(name) {
			return true
		}
	}
	return false
}
