package field

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreSetGet(t *testing.T) {
	s := New(DefaultOptions())

	s.Set("name", StringValue("alice"))

	v, ok := s.Get("name")
	require.True(t, ok)
	assert.Equal(t, StringValue("alice"), v)

	_, ok = s.Get("missing")
	assert.False(t, ok)
}

func TestStoreGetStringCollapsesAbsence(t *testing.T) {
	s := New(DefaultOptions())
	s.Set("a", IntValue(7))
	s.Set("n", NullValue{})

	assert.Equal(t, "7", s.GetString("a"))
	assert.Equal(t, "", s.GetString("n"))
	assert.Equal(t, "", s.GetString("missing"))
}

func TestStoreHasUnsetLen(t *testing.T) {
	s := New(DefaultOptions())
	s.Set("a", StringValue("1"))
	s.Set("b", StringValue("2"))

	assert.True(t, s.Has("a"))
	assert.Equal(t, 2, s.Len())

	s.Unset("a")
	assert.False(t, s.Has("a"))
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, []string{"b"}, s.Names())

	// Unsetting an absent name is a no-op.
	s.Unset("a")
	assert.Equal(t, 1, s.Len())
}

func TestImportNestedFlattens(t *testing.T) {
	s := New(DefaultOptions())

	err := s.ImportNested(map[string]any{
		"user": map[string]any{
			"name": "alice",
			"address": map[string]any{
				"city": "berlin",
			},
		},
		"age": 30,
	})
	require.NoError(t, err)

	assert.Equal(t, StringValue("alice"), mustGet(t, s, "user:name"))
	assert.Equal(t, StringValue("berlin"), mustGet(t, s, "user:address:city"))
	assert.Equal(t, IntValue(30), mustGet(t, s, "age"))
	assert.Equal(t, 3, s.Len())
}

func TestImportNestedNonMappingIsIgnored(t *testing.T) {
	s := New(DefaultOptions())
	s.Set("keep", StringValue("x"))

	require.NoError(t, s.ImportNested("not a map"))
	require.NoError(t, s.ImportNested(42))
	require.NoError(t, s.ImportNested(nil))

	assert.Equal(t, 1, s.Len())
	assert.Equal(t, StringValue("x"), mustGet(t, s, "keep"))
}

func TestImportNestedMergesOverExisting(t *testing.T) {
	s := New(DefaultOptions())
	require.NoError(t, s.ImportNested(map[string]any{
		"a": "old",
		"b": "keep",
	}))
	require.NoError(t, s.ImportNested(map[string]any{
		"a": "new",
		"c": "added",
	}))

	assert.Equal(t, StringValue("new"), mustGet(t, s, "a"))
	assert.Equal(t, StringValue("keep"), mustGet(t, s, "b"))
	assert.Equal(t, StringValue("added"), mustGet(t, s, "c"))
}

func TestImportNestedCustomDelimiter(t *testing.T) {
	s := New(Options{Delimiter: "."})

	require.NoError(t, s.ImportNested(map[string]any{
		"user": map[string]any{"name": "bob"},
	}))

	assert.Equal(t, StringValue("bob"), mustGet(t, s, "user.name"))
	assert.False(t, s.Has("user:name"))
	assert.Equal(t, ".", s.Delimiter())
}

func TestImportNestedNullLeaf(t *testing.T) {
	s := New(DefaultOptions())
	require.NoError(t, s.ImportNested(map[string]any{"opt": nil}))

	v, ok := s.Get("opt")
	require.True(t, ok)
	assert.Equal(t, NullValue{}, v)
}

func TestExportNestedRebuildsTree(t *testing.T) {
	s := New(DefaultOptions())
	require.NoError(t, s.ImportNested(map[string]any{
		"user": map[string]any{
			"name": "alice",
			"age":  30,
		},
		"active": true,
	}))

	nested := s.ExportNested()
	assert.Equal(t, map[string]any{
		"user": map[string]any{
			"name": "alice",
			"age":  int64(30),
		},
		"active": true,
	}, nested)
}

func TestExportNestedCollidingShapesLastWriteWins(t *testing.T) {
	s := New(DefaultOptions())
	s.Set("a", StringValue("leaf"))
	s.Set("a:b", StringValue("nested"))

	nested := s.ExportNested()

	// "a:b" was written after "a", so the nested shape replaces the leaf.
	assert.Equal(t, map[string]any{
		"a": map[string]any{"b": "nested"},
	}, nested)
}

func TestExportFlatIsACopy(t *testing.T) {
	s := New(DefaultOptions())
	s.Set("a", IntValue(1))

	flat := s.ExportFlat()
	flat["a"] = IntValue(99)
	flat["b"] = IntValue(2)

	assert.Equal(t, IntValue(1), mustGet(t, s, "a"))
	assert.False(t, s.Has("b"))
}

func TestResolveWalksNestedProjection(t *testing.T) {
	s := New(DefaultOptions())
	require.NoError(t, s.ImportNested(map[string]any{
		"user": map[string]any{"name": "alice"},
	}))

	v, ok := s.Resolve("user:name")
	require.True(t, ok)
	assert.Equal(t, StringValue("alice"), v)

	// A branch is not a leaf.
	_, ok = s.Resolve("user")
	assert.False(t, ok)

	_, ok = s.Resolve("user:missing")
	assert.False(t, ok)

	_, ok = s.Resolve("user:name:deeper")
	assert.False(t, ok)
}

func TestResolveStringLegacyContract(t *testing.T) {
	s := New(DefaultOptions())
	s.Set("x", IntValue(5))

	assert.Equal(t, "5", s.ResolveString("x"))
	assert.Equal(t, "", s.ResolveString("absent"))
	assert.Equal(t, "", s.ResolveString("x:branch"))
}

func TestFlattenCollisionDeterminism(t *testing.T) {
	// A leaf and a nested mapping competing for the same flat prefix must
	// resolve identically on every import, independent of map iteration.
	build := func() *Store {
		s := New(DefaultOptions())
		err := s.ImportNested(map[string]any{
			"a": map[string]any{
				"b": "from-nested",
			},
			"a:b": "from-flat-literal",
		})
		require.NoError(t, err)
		return s
	}

	first := build().GetString("a:b")
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, build().GetString("a:b"))
	}
	// Sorted-key DFS visits "a" before "a:b", so the literal key wins.
	assert.Equal(t, "from-flat-literal", first)
}

func TestOnChangeSignals(t *testing.T) {
	s := New(DefaultOptions())
	var calls int
	s.OnChange(func() { calls++ })

	s.Set("a", StringValue("1"))
	assert.Equal(t, 1, calls)

	s.Unset("a")
	assert.Equal(t, 2, calls)

	// One signal per import, not per field.
	require.NoError(t, s.ImportNested(map[string]any{"x": 1, "y": 2}))
	assert.Equal(t, 3, calls)
}

type reconcilerFunc func(*Store) error

func (f reconcilerFunc) Reconcile(s *Store) error { return f(s) }

func TestImportNestedRunsReconciler(t *testing.T) {
	s := New(DefaultOptions())
	s.BindReconciler(reconcilerFunc(func(st *Store) error {
		st.put("derived", StringValue("yes"))
		return nil
	}))

	require.NoError(t, s.ImportNested(map[string]any{"src": "v"}))
	assert.Equal(t, StringValue("yes"), mustGet(t, s, "derived"))
}

func TestImportNestedPropagatesReconcilerError(t *testing.T) {
	s := New(DefaultOptions())
	s.BindReconciler(reconcilerFunc(func(*Store) error {
		return assert.AnError
	}))

	err := s.ImportNested(map[string]any{"src": "v"})
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)

	// No rollback: the merged field stays.
	assert.True(t, s.Has("src"))
}

func mustGet(t *testing.T, s *Store, name string) Value {
	t.Helper()
	v, ok := s.Get(name)
	require.True(t, ok, "field %q not present", name)
	return v
}
