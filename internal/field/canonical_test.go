package field

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonicalScalars(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, `null`},
		{"null value", NullValue{}, `null`},
		{"string", "hi", `"hi"`},
		{"string value", StringValue("hi"), `"hi"`},
		{"int", 42, `42`},
		{"int value", IntValue(-3), `-3`},
		{"float", 2.5, `2.5`},
		{"float value", FloatValue(0.1), `0.1`},
		{"bool", true, `true`},
		{"bool value", BoolValue(false), `false`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MarshalCanonical(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestMarshalCanonicalSortsKeys(t *testing.T) {
	got, err := MarshalCanonical(map[string]any{
		"zebra": 1,
		"apple": 2,
		"mango": 3,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"apple":2,"mango":3,"zebra":1}`, string(got))
}

func TestMarshalCanonicalNestedMaps(t *testing.T) {
	got, err := MarshalCanonical(map[string]any{
		"errors": map[string][]string{
			"email": {"invalid_email"},
		},
		"fields": map[string]Value{
			"age":  IntValue(30),
			"name": StringValue("alice"),
		},
	})
	require.NoError(t, err)
	assert.Equal(t,
		`{"errors":{"email":["invalid_email"]},"fields":{"age":30,"name":"alice"}}`,
		string(got))
}

func TestMarshalCanonicalNFCNormalization(t *testing.T) {
	// "é" as combining sequence (e + U+0301) normalizes to precomposed U+00E9.
	decomposed := "é"
	precomposed := "é"

	got, err := MarshalCanonical(decomposed)
	require.NoError(t, err)

	want, err := MarshalCanonical(precomposed)
	require.NoError(t, err)

	assert.Equal(t, string(want), string(got))
}

func TestMarshalCanonicalNoHTMLEscaping(t *testing.T) {
	got, err := MarshalCanonical("<a> & </a>")
	require.NoError(t, err)
	assert.Equal(t, `"<a> & </a>"`, string(got))
}

func TestMarshalCanonicalRejectsNonFiniteFloats(t *testing.T) {
	_, err := MarshalCanonical(FloatValue(math.NaN()))
	assert.Error(t, err)

	_, err = MarshalCanonical(math.Inf(1))
	assert.Error(t, err)
}

func TestMarshalCanonicalArrays(t *testing.T) {
	got, err := MarshalCanonical([]any{"a", 1, true, nil})
	require.NoError(t, err)
	assert.Equal(t, `["a",1,true,null]`, string(got))

	got, err = MarshalCanonical([]string{"x", "y"})
	require.NoError(t, err)
	assert.Equal(t, `["x","y"]`, string(got))
}

func TestMarshalCanonicalUnsupportedType(t *testing.T) {
	_, err := MarshalCanonical(struct{}{})
	assert.Error(t, err)
}
