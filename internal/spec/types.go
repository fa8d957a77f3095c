// Package spec defines the compiled form definition consumed by the
// form assembly layer. Definitions are authored in CUE and compiled by
// the compiler package; this package is the shared intermediate shape.
package spec

// FormSpec represents a compiled form definition.
type FormSpec struct {
	Name      string        `json:"name"`
	Delimiter string        `json:"delimiter,omitempty"` // defaults to ":"
	Fields    []FieldSpec   `json:"fields"`
	Wrappers  []WrapperSpec `json:"wrappers,omitempty"`
}

// FieldSpec declares one form field and its validator chain. A field
// with an empty chain is always valid.
type FieldSpec struct {
	Name       string          `json:"name"`
	Validators []ValidatorSpec `json:"validators,omitempty"`
}

// ValidatorSpec names a validator with its constructor arguments.
// Names resolve through the orchestrator's namespace list.
type ValidatorSpec struct {
	Name string   `json:"name"`
	Args []string `json:"args,omitempty"`
}

// WrapperSpec declares a wrapper mapping with named converters.
// To populates wrapped fields from wrapper fields, From the reverse.
type WrapperSpec struct {
	Wrapper  []string `json:"wrapper"`
	Wrapped  []string `json:"wrapped"`
	To       string   `json:"to"`
	ToArgs   []string `json:"to_args,omitempty"`
	From     string   `json:"from"`
	FromArgs []string `json:"from_args,omitempty"`
}

// FieldNames returns the declared field names in declaration order.
func (s *FormSpec) FieldNames() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}
