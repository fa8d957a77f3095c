package validate

import (
	"errors"
	"fmt"
)

// Factory constructs a Validator from declarative constructor arguments.
// A factory rejecting its arguments is a construction error, distinct
// from the name not resolving at all.
type Factory func(args ...string) (Validator, error)

// NotFoundError is returned when a validator name does not resolve
// against any configured namespace. The failed call leaves existing
// chains untouched.
type NotFoundError struct {
	// Name is the validator name as given by the caller.
	Name string

	// Namespaces lists the prefixes that were probed, in order.
	Namespaces []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("validator %q not found (namespaces probed: %v)", e.Name, e.Namespaces)
}

// IsNotFound reports whether err is a validator NotFoundError.
// Uses errors.As to handle wrapped errors.
func IsNotFound(err error) bool {
	var nfe *NotFoundError
	return errors.As(err, &nfe)
}

// Registry maps qualified validator names to factories. This replaces
// reflective class lookup: names are resolved by ordered registry-key
// probing over the orchestrator's namespace list.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds or replaces a factory under the qualified name.
func (r *Registry) Register(qualifiedName string, f Factory) {
	r.factories[qualifiedName] = f
}

// Has reports whether the qualified name is registered.
func (r *Registry) Has(qualifiedName string) bool {
	_, ok := r.factories[qualifiedName]
	return ok
}

// New instantiates a validator by its exact qualified name, without
// namespace probing.
func (r *Registry) New(qualifiedName string, args ...string) (Validator, error) {
	f, ok := r.factories[qualifiedName]
	if !ok {
		return nil, &NotFoundError{Name: qualifiedName}
	}
	v, err := f(args...)
	if err != nil {
		return nil, fmt.Errorf("construct validator %q: %w", qualifiedName, err)
	}
	return v, nil
}
