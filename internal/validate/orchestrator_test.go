package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formbind/formbind/internal/field"
	"github.com/formbind/formbind/internal/wrap"
)

func newStore(pairs map[string]string) *field.Store {
	s := field.New(field.DefaultOptions())
	_ = s.ImportNested(func() map[string]any {
		m := make(map[string]any, len(pairs))
		for k, v := range pairs {
			m[k] = v
		}
		return m
	}())
	return s
}

func TestOrchestratorDefaultValid(t *testing.T) {
	o := New(Options{})
	s := newStore(map[string]string{"anything": "x"})

	assert.True(t, o.Validate(s))
	assert.True(t, o.IsValid("anything"))
	assert.True(t, o.IsValid("never-mentioned"))
	assert.Empty(t, o.Errors("anything", true))
}

func TestAppendValidatorNamespaceProbing(t *testing.T) {
	o := New(Options{})

	// Bare name resolves through the "builtin" namespace.
	require.NoError(t, o.AppendValidator("name", "NotEmpty"))

	s := newStore(map[string]string{"name": ""})
	assert.False(t, o.Validate(s))
	assert.Equal(t, []string{CodeIsEmpty}, o.Errors("name", false))
}

func TestAppendValidatorBareNamespaceWinsOverBuiltin(t *testing.T) {
	r := BuiltinRegistry()
	// Same bare name registered without a namespace: probed first, wins.
	r.Register("NotEmpty", func(...string) (Validator, error) {
		return ValidatorFunc(func(field.Value) []Issue {
			return fail("custom_empty", nil)
		}), nil
	})

	o := New(Options{Registry: r})
	require.NoError(t, o.AppendValidator("f", "NotEmpty"))

	o.Validate(newStore(map[string]string{"f": "non-empty"}))
	assert.Equal(t, []string{"custom_empty"}, o.Errors("f", false))
}

func TestAppendValidatorNotFound(t *testing.T) {
	o := New(Options{})

	err := o.AppendValidator("f", "NoSuchValidator")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	// The failed call must not create a chain.
	assert.Empty(t, o.FieldNames())
	assert.True(t, o.IsValid("f"))
}

func TestAppendValidatorConstructionErrorIsNotNotFound(t *testing.T) {
	o := New(Options{})

	err := o.AppendValidator("f", "IntRange", "not-a-number", "10")
	require.Error(t, err)
	assert.False(t, IsNotFound(err))
	assert.Empty(t, o.FieldNames())
}

func TestValidateAbsentFieldSeenAsEmptyString(t *testing.T) {
	o := New(Options{})
	require.NoError(t, o.AppendValidator("missing", "NotEmpty"))

	s := field.New(field.DefaultOptions())
	assert.False(t, o.Validate(s))
	assert.Equal(t, []string{CodeIsEmpty}, o.Errors("missing", false))
}

func TestValidateIdempotent(t *testing.T) {
	o := New(Options{})
	require.NoError(t, o.AppendValidator("age", "IntRange", "18", "99"))

	s := newStore(map[string]string{"age": "200"})

	assert.False(t, o.Validate(s))
	first := o.Errors("age", false)

	assert.False(t, o.Validate(s))
	assert.Equal(t, first, o.Errors("age", false))
	assert.Len(t, o.Errors("age", false), 1)
}

func TestValidateRerunClearsStaleErrors(t *testing.T) {
	o := New(Options{})
	require.NoError(t, o.AppendValidator("name", "NotEmpty"))

	s := field.New(field.DefaultOptions())
	s.Set("name", field.StringValue(""))
	assert.False(t, o.Validate(s))

	s.Set("name", field.StringValue("fixed"))
	assert.True(t, o.Validate(s))
	assert.Empty(t, o.Errors("name", false))
}

func TestCustomErrorsCountImmediatelyAndSurviveRuns(t *testing.T) {
	o := New(Options{})
	o.AddCustomError("email", "taken")

	// Counts before any Validate call.
	assert.False(t, o.IsValid("email"))
	assert.Equal(t, []string{"taken"}, o.Errors("email", false))

	s := newStore(map[string]string{"email": "a@b.cd"})
	assert.False(t, o.Validate(s))
	assert.Equal(t, []string{"taken"}, o.Errors("email", false))
}

func TestCustomErrorsPrecedeRunErrors(t *testing.T) {
	o := New(Options{})
	require.NoError(t, o.AppendValidator("f", "NotEmpty"))
	o.AddCustomError("f", "custom_code")

	o.Validate(field.New(field.DefaultOptions()))
	assert.Equal(t, []string{"custom_code", CodeIsEmpty}, o.Errors("f", false))
}

func TestAppendInstance(t *testing.T) {
	o := New(Options{})
	o.AppendInstance("f", ValidatorFunc(func(v field.Value) []Issue {
		if field.Text(v) != "magic" {
			return fail("not_magic", nil)
		}
		return nil
	}))

	assert.False(t, o.Validate(newStore(map[string]string{"f": "mundane"})))
	assert.True(t, o.Validate(newStore(map[string]string{"f": "magic"})))
}

func TestFieldNamesRegistrationOrder(t *testing.T) {
	o := New(Options{})
	require.NoError(t, o.AppendValidator("b", "NotEmpty"))
	require.NoError(t, o.AppendValidator("a", "NotEmpty"))
	require.NoError(t, o.AppendValidator("b", "StringLength", "2"))

	assert.Equal(t, []string{"b", "a"}, o.FieldNames())
}

func TestErrorsFallbackBorrowsFromWrappedFields(t *testing.T) {
	e := wrap.New()
	e.Register(wrap.Mapping{
		Wrapper: []string{"datetime"},
		Wrapped: []string{"date", "time"},
	})

	o := New(Options{Wrappers: e})
	require.NoError(t, o.AppendValidator("date", "Date"))

	s := newStore(map[string]string{"date": "not-a-date", "time": "14:30"})
	assert.False(t, o.Validate(s))

	// The wrapper has no chain of its own; with fallback its errors are
	// borrowed from the wrapped fields.
	assert.Equal(t, []string{CodeInvalidDate}, o.Errors("datetime", true))
	assert.Empty(t, o.Errors("datetime", false))
}

func TestErrorsOwnErrorsSuppressFallback(t *testing.T) {
	e := wrap.New()
	e.Register(wrap.Mapping{
		Wrapper: []string{"full"},
		Wrapped: []string{"first", "last"},
	})

	o := New(Options{Wrappers: e})
	require.NoError(t, o.AppendValidator("full", "StringLength", "100"))
	require.NoError(t, o.AppendValidator("first", "NotEmpty"))

	s := newStore(map[string]string{"full": "short", "first": ""})
	o.Validate(s)

	// "full" failed on its own, so nothing is borrowed from "first".
	assert.Equal(t, []string{CodeTooShort}, o.Errors("full", true))
}

func TestErrorsFallbackIsOneLevelOnly(t *testing.T) {
	// outer wraps middle, middle wraps inner; only inner has an error.
	e := wrap.New()
	e.Register(wrap.Mapping{Wrapper: []string{"outer"}, Wrapped: []string{"middle"}})
	e.Register(wrap.Mapping{Wrapper: []string{"middle"}, Wrapped: []string{"inner"}})

	o := New(Options{Wrappers: e})
	require.NoError(t, o.AppendValidator("inner", "NotEmpty"))

	o.Validate(field.New(field.DefaultOptions()))

	// One hop works, two hops do not.
	assert.Equal(t, []string{CodeIsEmpty}, o.Errors("middle", true))
	assert.Empty(t, o.Errors("outer", true))
}

func TestErrorsFallbackMutualWrappersTerminate(t *testing.T) {
	// a wraps b and b wraps a; the one-level guard keeps this finite.
	e := wrap.New()
	e.Register(wrap.Mapping{Wrapper: []string{"a"}, Wrapped: []string{"b"}})
	e.Register(wrap.Mapping{Wrapper: []string{"b"}, Wrapped: []string{"a"}})

	o := New(Options{Wrappers: e})
	require.NoError(t, o.AppendValidator("a", "NotEmpty"))

	o.Validate(field.New(field.DefaultOptions()))

	assert.Equal(t, []string{CodeIsEmpty}, o.Errors("a", true))
	assert.Equal(t, []string{CodeIsEmpty}, o.Errors("b", true))
}

func TestAllErrors(t *testing.T) {
	o := New(Options{})
	require.NoError(t, o.AppendValidator("a", "NotEmpty"))
	require.NoError(t, o.AppendValidator("b", "NotEmpty"))

	o.Validate(newStore(map[string]string{"a": "", "b": "ok"}))

	all := o.AllErrors(false)
	assert.Equal(t, []string{CodeIsEmpty}, all["a"])
	assert.Empty(t, all["b"])
	assert.Len(t, all, 2)
}

func TestIssuesCarryParams(t *testing.T) {
	o := New(Options{})
	require.NoError(t, o.AppendValidator("name", "StringLength", "5"))

	o.Validate(newStore(map[string]string{"name": "abc"}))

	issues := o.Issues("name")
	require.Len(t, issues, 1)
	assert.Equal(t, CodeTooShort, issues[0].Code)
	assert.Equal(t, "5", issues[0].Params["min"])
	assert.Equal(t, "3", issues[0].Params["length"])
}

func TestMessagesNilTranslatorYieldsCodes(t *testing.T) {
	o := New(Options{})
	require.NoError(t, o.AppendValidator("f", "NotEmpty"))
	o.Validate(field.New(field.DefaultOptions()))

	assert.Equal(t, []string{CodeIsEmpty}, o.Messages("f", nil))
	assert.Nil(t, o.Messages("no-chain", nil))
}
