package field

import (
	"fmt"
	"strconv"
)

// Value is a sealed interface over the scalar types a field may hold.
// Only StringValue, IntValue, FloatValue, BoolValue, and NullValue
// implement it. Nested structure is never stored as a value; imports
// flatten nesting into delimiter-joined field names first.
type Value interface {
	fieldValue() // Sealed - only these types implement it
}

// StringValue represents a string field value.
type StringValue string

func (StringValue) fieldValue() {}

// IntValue represents an integer field value. Always int64.
type IntValue int64

func (IntValue) fieldValue() {}

// FloatValue represents a floating-point field value.
type FloatValue float64

func (FloatValue) fieldValue() {}

// BoolValue represents a boolean field value.
type BoolValue bool

func (BoolValue) fieldValue() {}

// NullValue represents an explicit null submitted for a field.
// Distinct from an absent field: a NullValue is present in the store.
type NullValue struct{}

func (NullValue) fieldValue() {}

// FromAny converts a decoded input leaf (JSON/YAML scalar) to a Value.
// Unsupported kinds are rendered with fmt.Sprint and stored as strings
// so that imports never fail on unexpected leaf types.
func FromAny(v any) Value {
	switch val := v.(type) {
	case nil:
		return NullValue{}
	case Value:
		return val
	case string:
		return StringValue(val)
	case bool:
		return BoolValue(val)
	case int:
		return IntValue(val)
	case int8:
		return IntValue(val)
	case int16:
		return IntValue(val)
	case int32:
		return IntValue(val)
	case int64:
		return IntValue(val)
	case uint:
		return IntValue(val)
	case uint8:
		return IntValue(val)
	case uint16:
		return IntValue(val)
	case uint32:
		return IntValue(val)
	case uint64:
		return IntValue(val)
	case float32:
		return FloatValue(val)
	case float64:
		return FloatValue(val)
	default:
		return StringValue(fmt.Sprint(val))
	}
}

// Native converts a Value back to its plain Go representation, as used
// by nested export and JSON serialization.
func Native(v Value) any {
	switch val := v.(type) {
	case StringValue:
		return string(val)
	case IntValue:
		return int64(val)
	case FloatValue:
		return float64(val)
	case BoolValue:
		return bool(val)
	case NullValue:
		return nil
	default:
		return nil
	}
}

// Text renders a Value as its string form. NullValue renders empty.
// This is the representation validators operate on.
func Text(v Value) string {
	switch val := v.(type) {
	case StringValue:
		return string(val)
	case IntValue:
		return strconv.FormatInt(int64(val), 10)
	case FloatValue:
		return strconv.FormatFloat(float64(val), 'g', -1, 64)
	case BoolValue:
		return strconv.FormatBool(bool(val))
	case NullValue:
		return ""
	default:
		return ""
	}
}

// IsEmpty reports whether a Value is null or renders to the empty string.
func IsEmpty(v Value) bool {
	if _, ok := v.(NullValue); ok {
		return true
	}
	return Text(v) == ""
}
