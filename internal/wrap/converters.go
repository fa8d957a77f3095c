package wrap

import (
	"errors"
	"fmt"
	"strings"

	"github.com/formbind/formbind/internal/field"
)

// Factory builds a Converter from declarative arguments, letting form
// definitions reference converters by name instead of supplying code.
type Factory func(args ...string) (Converter, error)

// UnknownConverterError is returned when a converter name does not
// resolve against the registry.
type UnknownConverterError struct {
	Name string
}

func (e *UnknownConverterError) Error() string {
	return fmt.Sprintf("unknown converter %q", e.Name)
}

// IsUnknownConverter reports whether err is an UnknownConverterError.
// Uses errors.As to handle wrapped errors.
func IsUnknownConverter(err error) bool {
	var ue *UnknownConverterError
	return errors.As(err, &ue)
}

// Registry maps converter names to factories.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry creates an empty converter registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// DefaultRegistry returns a registry with the built-in converters:
// join, split, and copy.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("join", JoinConverter)
	r.Register("split", SplitConverter)
	r.Register("copy", CopyConverter)
	return r
}

// Register adds or replaces a factory under name.
func (r *Registry) Register(name string, f Factory) {
	r.factories[name] = f
}

// New builds a converter by name. Returns UnknownConverterError if the
// name is not registered.
func (r *Registry) New(name string, args ...string) (Converter, error) {
	f, ok := r.factories[name]
	if !ok {
		return nil, &UnknownConverterError{Name: name}
	}
	return f(args...)
}

// JoinConverter concatenates the source fields' string forms, separated
// by the single factory argument, into the one destination field.
// Defaults to a single space when no separator is given.
func JoinConverter(args ...string) (Converter, error) {
	sep := " "
	if len(args) > 0 {
		sep = args[0]
	}
	return func(s *field.Store, src, dst []string, _ ...any) error {
		if len(dst) != 1 {
			return fmt.Errorf("join: want exactly 1 destination field, got %d", len(dst))
		}
		parts := make([]string, len(src))
		for i, name := range src {
			parts[i] = s.GetString(name)
		}
		s.Set(dst[0], field.StringValue(strings.Join(parts, sep)))
		return nil
	}, nil
}

// SplitConverter splits the one source field on the separator argument
// and assigns the pieces to the destination fields in order. Missing
// pieces become empty strings; surplus text stays on the last field.
func SplitConverter(args ...string) (Converter, error) {
	sep := " "
	if len(args) > 0 {
		sep = args[0]
	}
	return func(s *field.Store, src, dst []string, _ ...any) error {
		if len(src) != 1 {
			return fmt.Errorf("split: want exactly 1 source field, got %d", len(src))
		}
		parts := strings.SplitN(s.GetString(src[0]), sep, len(dst))
		for i, name := range dst {
			part := ""
			if i < len(parts) {
				part = parts[i]
			}
			s.Set(name, field.StringValue(part))
		}
		return nil
	}, nil
}

// CopyConverter copies source fields to destination fields pairwise.
// Field counts on both sides must match.
func CopyConverter(...string) (Converter, error) {
	return func(s *field.Store, src, dst []string, _ ...any) error {
		if len(src) != len(dst) {
			return fmt.Errorf("copy: field count mismatch (%d source, %d destination)", len(src), len(dst))
		}
		for i, name := range src {
			v, ok := s.Get(name)
			if !ok {
				v = field.StringValue("")
			}
			s.Set(dst[i], v)
		}
		return nil
	}, nil
}
