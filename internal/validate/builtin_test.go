package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formbind/formbind/internal/field"
)

// runOne builds a validator through its factory and validates a single
// value, returning the issue codes.
func runOne(t *testing.T, f Factory, v field.Value, args ...string) []string {
	t.Helper()
	val, err := f(args...)
	require.NoError(t, err)
	issues := val.Validate(v)
	codes := make([]string, len(issues))
	for i, is := range issues {
		codes[i] = is.Code
	}
	return codes
}

func TestNotEmpty(t *testing.T) {
	assert.Empty(t, runOne(t, NotEmpty, field.StringValue("x")))
	assert.Empty(t, runOne(t, NotEmpty, field.IntValue(0)))
	assert.Equal(t, []string{CodeIsEmpty}, runOne(t, NotEmpty, field.StringValue("")))
	assert.Equal(t, []string{CodeIsEmpty}, runOne(t, NotEmpty, field.NullValue{}))

	_, err := NotEmpty("surplus")
	assert.Error(t, err)
}

func TestStringLength(t *testing.T) {
	assert.Empty(t, runOne(t, StringLength, field.StringValue("abc"), "2", "5"))
	assert.Equal(t, []string{CodeTooShort}, runOne(t, StringLength, field.StringValue("a"), "2", "5"))
	assert.Equal(t, []string{CodeTooLong}, runOne(t, StringLength, field.StringValue("abcdef"), "2", "5"))

	// Min-only form has no upper bound.
	assert.Empty(t, runOne(t, StringLength, field.StringValue("very long indeed"), "2"))

	// Rune length, not byte length.
	assert.Empty(t, runOne(t, StringLength, field.StringValue("héllo"), "5", "5"))
}

func TestStringLengthBadArgs(t *testing.T) {
	_, err := StringLength()
	assert.Error(t, err)

	_, err = StringLength("x")
	assert.Error(t, err)

	_, err = StringLength("1", "2", "3")
	assert.Error(t, err)
}

func TestIntRange(t *testing.T) {
	assert.Empty(t, runOne(t, IntRange, field.IntValue(21), "18", "99"))
	assert.Empty(t, runOne(t, IntRange, field.StringValue("18"), "18", "99"))
	assert.Equal(t, []string{CodeBelowMin}, runOne(t, IntRange, field.IntValue(17), "18", "99"))
	assert.Equal(t, []string{CodeAboveMax}, runOne(t, IntRange, field.IntValue(100), "18", "99"))
	assert.Equal(t, []string{CodeNotInt}, runOne(t, IntRange, field.StringValue("abc"), "18", "99"))
	assert.Equal(t, []string{CodeNotInt}, runOne(t, IntRange, field.StringValue(""), "18", "99"))
}

func TestRegex(t *testing.T) {
	assert.Empty(t, runOne(t, Regex, field.StringValue("AB-12"), `^[A-Z]{2}-\d{2}$`))
	assert.Equal(t, []string{CodeNoMatch}, runOne(t, Regex, field.StringValue("nope"), `^[A-Z]{2}-\d{2}$`))

	_, err := Regex("([unclosed")
	assert.Error(t, err)
}

func TestEmailAddress(t *testing.T) {
	valid := []string{"a@b.cd", "first.last+tag@example.co.uk"}
	for _, v := range valid {
		assert.Empty(t, runOne(t, EmailAddress, field.StringValue(v)), v)
	}

	invalid := []string{"", "plain", "a@b", "a b@c.de", "@x.y", "a@@b.cd"}
	for _, v := range invalid {
		assert.Equal(t, []string{CodeInvalidEmail},
			runOne(t, EmailAddress, field.StringValue(v)), v)
	}
}

func TestInSet(t *testing.T) {
	assert.Empty(t, runOne(t, InSet, field.StringValue("red"), "red", "green", "blue"))
	assert.Equal(t, []string{CodeNotInSet},
		runOne(t, InSet, field.StringValue("mauve"), "red", "green", "blue"))

	_, err := InSet()
	assert.Error(t, err)
}

func TestNumeric(t *testing.T) {
	assert.Empty(t, runOne(t, Numeric, field.IntValue(42)))
	assert.Empty(t, runOne(t, Numeric, field.FloatValue(0.5)))
	assert.Empty(t, runOne(t, Numeric, field.StringValue("3.14")))
	assert.Empty(t, runOne(t, Numeric, field.StringValue("-7")))
	assert.Equal(t, []string{CodeNotNumeric}, runOne(t, Numeric, field.StringValue("seven")))
	assert.Equal(t, []string{CodeNotNumeric}, runOne(t, Numeric, field.StringValue("")))
}

func TestDate(t *testing.T) {
	assert.Empty(t, runOne(t, Date, field.StringValue("2026-08-27")))
	assert.Equal(t, []string{CodeInvalidDate}, runOne(t, Date, field.StringValue("27/08/2026")))
	assert.Equal(t, []string{CodeInvalidDate}, runOne(t, Date, field.StringValue("2026-13-45")))

	// Custom layout.
	assert.Empty(t, runOne(t, Date, field.StringValue("27.08.2026"), "02.01.2006"))

	_, err := Date("a", "b")
	assert.Error(t, err)
}

func TestBuiltinRegistryCoversAll(t *testing.T) {
	r := BuiltinRegistry()
	for _, name := range []string{
		"builtin.NotEmpty", "builtin.StringLength", "builtin.IntRange",
		"builtin.Regex", "builtin.EmailAddress", "builtin.InSet",
		"builtin.Numeric", "builtin.Date",
	} {
		assert.True(t, r.Has(name), name)
	}
	assert.False(t, r.Has("NotEmpty"))
}
