package field

import (
	"slices"
	"strings"
)

// DefaultDelimiter joins nested path segments into flat field names.
const DefaultDelimiter = ":"

// Options configures a Store. Immutable after construction.
type Options struct {
	// Delimiter separates path segments in flat field names.
	// Field names must not contain the delimiter as a literal character;
	// this is a documented limitation, not a detected error.
	Delimiter string
}

// DefaultOptions returns the default store configuration.
func DefaultOptions() Options {
	return Options{Delimiter: DefaultDelimiter}
}

// Reconciler is invoked after every bulk import, before the change
// observer fires. The wrapper engine implements this to materialize
// wrapper or wrapped fields from whichever side has data.
type Reconciler interface {
	Reconcile(*Store) error
}

// Store is the canonical flat storage of field values. Names are unique
// flat strings; nested form is a derived projection, never the storage
// of record.
type Store struct {
	opts       Options
	values     map[string]Value
	order      []string // insertion order, drives export determinism
	reconciler Reconciler
	onChange   func()
}

// New creates an empty Store with the given options. An empty delimiter
// falls back to the default.
func New(opts Options) *Store {
	if opts.Delimiter == "" {
		opts.Delimiter = DefaultDelimiter
	}
	return &Store{
		opts:   opts,
		values: make(map[string]Value),
	}
}

// Delimiter returns the configured path delimiter.
func (s *Store) Delimiter() string {
	return s.opts.Delimiter
}

// BindReconciler attaches the reconciler run after each import.
func (s *Store) BindReconciler(r Reconciler) {
	s.reconciler = r
}

// OnChange registers an observer invoked after Set, Unset, and imports.
// There is no default behavior; this is an extension point.
func (s *Store) OnChange(fn func()) {
	s.onChange = fn
}

// Get returns the flat-stored value for name. The second return reports
// presence; absent fields are not conjured into existence.
func (s *Store) Get(name string) (Value, bool) {
	v, ok := s.values[name]
	return v, ok
}

// GetString returns the value rendered as a string, or the empty string
// when the field is absent. This is the presentation-boundary accessor;
// prefer Get when presence matters.
func (s *Store) GetString(name string) string {
	v, ok := s.values[name]
	if !ok {
		return ""
	}
	return Text(v)
}

// Has reports whether name is present in the store.
func (s *Store) Has(name string) bool {
	_, ok := s.values[name]
	return ok
}

// Set stores or overwrites a single field and signals the change observer.
func (s *Store) Set(name string, v Value) {
	s.put(name, v)
	s.signal()
}

// Unset removes a field if present.
func (s *Store) Unset(name string) {
	if _, ok := s.values[name]; !ok {
		return
	}
	delete(s.values, name)
	if i := slices.Index(s.order, name); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
	}
	s.signal()
}

// Names returns the flat field names in insertion order.
func (s *Store) Names() []string {
	return slices.Clone(s.order)
}

// Len returns the number of stored fields.
func (s *Store) Len() int {
	return len(s.values)
}

// ImportNested merges a nested mapping into the store. Non-mapping input
// is silently ignored. Each leaf is addressed by the delimiter-joined
// path of keys from root to leaf; imported names overwrite existing
// ones, untouched fields keep their prior values.
//
// After merging, the bound reconciler (if any) runs; a converter error
// propagates unchanged, with no rollback of fields already written.
// Finally the change observer fires.
func (s *Store) ImportNested(nested any) error {
	m, ok := nested.(map[string]any)
	if !ok {
		return nil
	}
	flattenInto(s, "", m)
	if s.reconciler != nil {
		if err := s.reconciler.Reconcile(s); err != nil {
			return err
		}
	}
	s.signal()
	return nil
}

// ExportNested projects the flat store back into nested form. Path
// segments other than the last become intermediate mappings, created on
// demand; the last segment holds the leaf value. Insertion order of the
// flat store determines which overwrite wins on colliding shapes.
func (s *Store) ExportNested() map[string]any {
	out := make(map[string]any)
	for _, name := range s.order {
		segs := strings.Split(name, s.opts.Delimiter)
		cur := out
		for _, seg := range segs[:len(segs)-1] {
			next, ok := cur[seg].(map[string]any)
			if !ok {
				next = make(map[string]any)
				cur[seg] = next
			}
			cur = next
		}
		cur[segs[len(segs)-1]] = Native(s.values[name])
	}
	return out
}

// ExportFlat returns the flat name-to-value view of the store. Callers
// must not mutate the store through it.
func (s *Store) ExportFlat() map[string]Value {
	out := make(map[string]Value, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Resolve looks name up through the nested projection: the store is
// exported to nested form and the delimiter-split path is walked down
// it. Absent branches report false without creating any intermediate
// structure. For names imported through ImportNested this agrees with
// Get; it additionally resolves paths whose prefix was written as a
// colliding shape.
func (s *Store) Resolve(name string) (Value, bool) {
	cur := any(s.ExportNested())
	for _, seg := range strings.Split(name, s.opts.Delimiter) {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[seg]
		if !ok {
			return nil, false
		}
	}
	if _, ok := cur.(map[string]any); ok {
		// Path addresses a branch, not a leaf.
		return nil, false
	}
	return FromAny(cur), true
}

// ResolveString is Resolve collapsed to the legacy string contract:
// empty string on any miss, never an error.
func (s *Store) ResolveString(name string) string {
	v, ok := s.Resolve(name)
	if !ok {
		return ""
	}
	return Text(v)
}

// put inserts without signaling; imports signal once after the merge.
func (s *Store) put(name string, v Value) {
	if _, ok := s.values[name]; !ok {
		s.order = append(s.order, name)
	}
	s.values[name] = v
}

func (s *Store) signal() {
	if s.onChange != nil {
		s.onChange()
	}
}

// flattenInto merges a nested mapping depth-first. Keys at each level
// are visited in sorted order so that collision overwrites are a pure
// function of the nested structure, not of map iteration.
func flattenInto(s *Store, prefix string, m map[string]any) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		name := k
		if prefix != "" {
			name = prefix + s.opts.Delimiter + k
		}
		if child, ok := m[k].(map[string]any); ok {
			flattenInto(s, name, child)
			continue
		}
		s.put(name, FromAny(m[k]))
	}
}
